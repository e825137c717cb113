package auth

import (
	"context"
	"fmt"
	"net/url"
)

const (
	portalPreloginUrl = "https://app.ucas.ac.cn/uc/wap/login?redirect=https%3A%2F%2Fapp.ucas.ac.cn%2Fappsquare%2Fwap%2Fdefault%2Findex%3Fsid%3D1"
	portalCheckUrl    = "https://app.ucas.ac.cn/uc/wap/login/check"
)

// LoginPortal logs into the mobile portal. The portal accepts any submission,
// so only a failed request yields a Failure. The gateway login is the one
// that actually checks the credentials.
func (c Chain) LoginPortal(ctx context.Context, username, password string) Result {
	res, err := c.client.Get(ctx, portalPreloginUrl, "")
	if err != nil {
		c.tel.ReportBroken(report_login_portal, fmt.Errorf("prelogin: %w", err))
		return Failure()
	}
	jar := res.Jar()

	res, err = c.client.Post(ctx, portalCheckUrl, jar, url.Values{
		"username": {username},
		"password": {password},
	})
	if err != nil {
		c.tel.ReportBroken(report_login_portal, fmt.Errorf("submit: %w", err))
		return Failure()
	}

	return Success(jar.Append(res.Cookie()))
}
