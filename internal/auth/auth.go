// Package auth derives a cookie jar for each university subsystem. Every
// login follows the same prelogin, submit, classify shape. Failures carry no
// detail, the reason only goes to telemetry.
package auth

import (
	"ucassist-backend/internal/components/assert"
	"ucassist-backend/internal/components/cipher"
	"ucassist-backend/internal/components/session"
	"ucassist-backend/internal/components/telemetry"
)

const (
	report_login_portal          = "login.portal"
	report_login_gateway         = "login.gateway"
	report_login_teaching_affair = "login.teaching-affairs"
	report_login_library         = "login.library"
	report_captcha_gateway       = "captcha.gateway"
)

type Status int

const (
	STATUS_FAILURE Status = iota
	STATUS_SUCCESS
)

type Result struct {
	Status Status
	Cookie session.Jar
}

func Success(cookie session.Jar) Result {
	return Result{Status: STATUS_SUCCESS, Cookie: cookie}
}

func Failure() Result {
	return Result{Status: STATUS_FAILURE}
}

func (r Result) Ok() bool {
	return r.Status == STATUS_SUCCESS
}

type Chain struct {
	client *session.Client
	cipher cipher.Cipher
	tel    telemetry.API
}

func NewChain(client *session.Client, c cipher.Cipher, tel telemetry.API) Chain {
	assert.NotNil(client, "session client")
	assert.NotNil(tel, "telemetry")

	return Chain{
		client: client,
		cipher: c,
		tel:    telemetry.NewScopedAPI("auth", tel),
	}
}
