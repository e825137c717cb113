package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"ucassist-backend/internal/components/session"
	"ucassist-backend/internal/extract"
)

const (
	gatewayRootUrl    = "https://sep.ucas.ac.cn"
	gatewayLoginUrl   = "https://sep.ucas.ac.cn/slogin"
	gatewayCaptchaUrl = "https://sep.ucas.ac.cn/changePic"
	teachingPortalUrl = "https://sep.ucas.ac.cn/portal/site/226/821"

	// gatewaySuccessMarker only shows up on the page after a good login.
	gatewaySuccessMarker = "网上缴费大厅"
)

var identityLinkPattern = extract.MustCompile(`href="(https://xkcts\.ucas\.ac\.cn:8443/login\?Identity=[a-zA-Z0-9\-]+&roleId=[0-9]+)"`)

// LoginGateway submits the credentials to the single sign-on gateway. When
// initialJar is empty a fresh jar is fetched first, otherwise the jar from
// CaptchaGateway is reused so the verification code matches the session.
func (c Chain) LoginGateway(ctx context.Context, username, password, code string, initialJar session.Jar) Result {
	jar := initialJar
	if jar.Empty() {
		res, err := c.client.Get(ctx, gatewayRootUrl, "")
		if err != nil {
			c.tel.ReportBroken(report_login_gateway, fmt.Errorf("prelogin: %w", err))
			return Failure()
		}
		jar = res.Jar()
	}

	encrypted, err := c.cipher.Encrypt(password)
	if err != nil {
		c.tel.ReportBroken(report_login_gateway, fmt.Errorf("encrypt password: %w", err))
		return Failure()
	}

	form := url.Values{
		"userName":  {username},
		"pwd":       {encrypted},
		"sb":        {"sb"},
		"loginFrom": {""},
	}
	if code != "" {
		form.Set("certCode", code)
	}

	res, err := c.client.Post(ctx, gatewayLoginUrl, jar, form)
	if err != nil {
		c.tel.ReportBroken(report_login_gateway, fmt.Errorf("submit: %w", err))
		return Failure()
	}
	if !strings.Contains(res.String(), gatewaySuccessMarker) {
		c.tel.ReportDebug(report_login_gateway, "credentials rejected", username)
		return Failure()
	}

	return Success(jar)
}

// LoginTeachingAffairs trades a gateway jar for a teaching-affairs jar. The
// identity link on the gateway portal redirects on success, the redirect's
// cookie is the new session. A redirect without a cookie is a Failure.
func (c Chain) LoginTeachingAffairs(ctx context.Context, gatewayJar session.Jar) Result {
	res, err := c.client.Get(ctx, teachingPortalUrl, gatewayJar)
	if err != nil {
		c.tel.ReportBroken(report_login_teaching_affair, fmt.Errorf("portal page: %w", err))
		return Failure()
	}

	identityUrl, ok := identityLinkPattern.First(res.String())
	if !ok {
		c.tel.ReportWarning(report_login_teaching_affair, fmt.Errorf("identity link not found"))
		return Failure()
	}

	out := c.client.Do(ctx, session.Request{
		Method: http.MethodGet,
		Url:    identityUrl,
		Jar:    gatewayJar,
	})
	switch out := out.(type) {
	case session.Redirected:
		if out.Cookie == "" {
			c.tel.ReportWarning(report_login_teaching_affair, "redirect without cookie", out.Location)
			return Failure()
		}
		return Success(session.Jar("").Append(out.Cookie))
	case session.Completed:
		c.tel.ReportDebug(report_login_teaching_affair, "identity link did not redirect", out.Response.StatusCode)
		return Failure()
	case session.Failed:
		c.tel.ReportBroken(report_login_teaching_affair, fmt.Errorf("identity link: %w", out.Err))
		return Failure()
	default:
		panic(fmt.Sprintf("unknown outcome %T", out))
	}
}
