package auth

import (
	"context"
	"fmt"
	"net/http"
	"ucassist-backend/internal/components/session"
)

const (
	libraryRootUrl       = "https://lib.ucas.ac.cn/"
	libraryNoWirelessUrl = "https://lib.ucas.ac.cn/?noWireless"
)

// LibraryAnalyticsCookies are fixed analytics cookies the library expects
// next to its session cookie.
const LibraryAnalyticsCookies = "Hm_lvt_d4448745a003beb039949b0c85dbd54a=1721096675; Hm_lpvt_d4448745a003beb039949b0c85dbd54a=1721101932"

// LoginLibrary opens an anonymous library session. The root page redirects
// when it hands out a session cookie, anything else (including a redirect
// without a cookie) is a Failure and skips the follow-up steps.
func (c Chain) LoginLibrary(ctx context.Context) Result {
	out := c.client.Do(ctx, session.Request{
		Method: http.MethodGet,
		Url:    libraryRootUrl,
	})

	var jar session.Jar
	switch out := out.(type) {
	case session.Redirected:
		if out.Cookie == "" {
			c.tel.ReportWarning(report_login_library, "redirect without cookie", out.Location)
			return Failure()
		}
		jar = jar.Append(out.Cookie)
	case session.Completed:
		c.tel.ReportDebug(report_login_library, "root did not redirect", out.Response.StatusCode)
		return Failure()
	case session.Failed:
		c.tel.ReportBroken(report_login_library, fmt.Errorf("root: %w", out.Err))
		return Failure()
	default:
		panic(fmt.Sprintf("unknown outcome %T", out))
	}

	_, err := c.client.Get(ctx, libraryNoWirelessUrl, jar)
	if err != nil {
		c.tel.ReportBroken(report_login_library, fmt.Errorf("no wireless: %w", err))
		return Failure()
	}

	return Success(jar.Append(LibraryAnalyticsCookies))
}
