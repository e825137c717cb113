package auth

import (
	"context"
	"fmt"
	"ucassist-backend/internal/components/session"
)

// Captcha is the verification step before a login, one of CaptchaRequired or
// NoVerification.
type Captcha interface {
	captcha()
}

// CaptchaRequired points at the verification code image. Cookie must be
// passed to the login so the code is checked against the same session.
type CaptchaRequired struct {
	Url    string      `json:"url"`
	Cookie session.Jar `json:"cookie"`
}

type NoVerification struct{}

func (CaptchaRequired) captcha() {}
func (NoVerification) captcha()  {}

func (c Chain) CaptchaGateway(ctx context.Context) (Captcha, error) {
	res, err := c.client.Get(ctx, gatewayRootUrl, "")
	if err != nil {
		c.tel.ReportBroken(report_captcha_gateway, err)
		return nil, fmt.Errorf("captcha: %w", err)
	}
	return CaptchaRequired{
		Url:    gatewayCaptchaUrl,
		Cookie: res.Jar(),
	}, nil
}

func (c Chain) CaptchaPortal() Captcha {
	return NoVerification{}
}

func (c Chain) CaptchaLibrary() Captcha {
	return NoVerification{}
}
