package session

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"
	"ucassist-backend/internal/components/assert"
	"ucassist-backend/internal/components/telemetry"

	"github.com/go-resty/resty/v2"
)

const (
	report_client_do = "client.do"
)

// Config is the fixed transport configuration shared by every request.
type Config struct {
	UserAgent string
	Timeout   time.Duration
	// Transport replaces the default round tripper when non-nil.
	Transport http.RoundTripper
}

func DefaultConfig() Config {
	return Config{
		UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0.0.0 Safari/537.36",
		Timeout:   time.Second * 30,
	}
}

type Request struct {
	Method string
	Url    string
	Jar    Jar
	// Form is sent url-encoded when non-nil.
	Form            url.Values
	FollowRedirects bool
}

// Client issues requests with an explicit cookie string. It never stores
// cookies itself.
type Client struct {
	follow *resty.Client
	probe  *resty.Client
	tel    telemetry.API
}

func newRestyClient(config Config, tel telemetry.API) *resty.Client {
	client := resty.New()
	client.SetCookieJar(nil)
	client.SetTimeout(config.Timeout)
	client.SetHeader("User-Agent", config.UserAgent)
	client.SetLogger(restyLogger{tel: tel})
	if config.Transport != nil {
		client.SetTransport(config.Transport)
	}
	telemetry.InstrumentResty(client, "ucassist/session", tel)
	return client
}

func NewClient(config Config, tel telemetry.API) *Client {
	assert.NotNil(tel, "telemetry")
	assert.NotEmptyStr(config.UserAgent, "user agent")

	tel = telemetry.NewScopedAPI("session", tel)

	follow := newRestyClient(config, tel)
	follow.SetRedirectPolicy(resty.FlexibleRedirectPolicy(10))

	probe := newRestyClient(config, tel)
	probe.SetRedirectPolicy(resty.RedirectPolicyFunc(func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}))

	return &Client{follow: follow, probe: probe, tel: tel}
}

// Do issues a single request and classifies the result. A 3xx is always a
// Redirected outcome, never an error.
func (c *Client) Do(ctx context.Context, req Request) Outcome {
	client := c.follow
	if !req.FollowRedirects {
		client = c.probe
	}

	r := client.R().SetContext(ctx)
	if !req.Jar.Empty() {
		r.SetHeader("Cookie", req.Jar.String())
	}
	if req.Form != nil {
		r.SetFormDataFromValues(req.Form)
	}

	res, err := r.Execute(req.Method, req.Url)
	if err != nil {
		c.tel.ReportDebug(report_client_do, req.Method, req.Url, err)
		return Failed{Err: &TransportError{
			Method: req.Method,
			Url:    req.Url,
			Err:    err,
		}}
	}

	response := Response{
		StatusCode: res.StatusCode(),
		Body:       res.Body(),
		Header:     res.Header(),
	}
	if response.StatusCode >= 300 && response.StatusCode < 400 {
		return Redirected{
			Location: response.Header.Get("Location"),
			Cookie:   response.Cookie(),
			Response: response,
		}
	}
	return Completed{Response: response}
}

func (c *Client) fetch(ctx context.Context, req Request) (Response, error) {
	switch out := c.Do(ctx, req).(type) {
	case Failed:
		return Response{}, out.Err
	case Redirected:
		return out.Response, nil
	case Completed:
		if out.Response.StatusCode >= 400 {
			return out.Response, &StatusError{Url: req.Url, StatusCode: out.Response.StatusCode}
		}
		return out.Response, nil
	default:
		panic(fmt.Sprintf("unknown outcome %T", out))
	}
}

// Get follows redirects and returns an error for transport failures and
// 4xx/5xx statuses.
func (c *Client) Get(ctx context.Context, target string, jar Jar) (Response, error) {
	return c.fetch(ctx, Request{
		Method:          http.MethodGet,
		Url:             target,
		Jar:             jar,
		FollowRedirects: true,
	})
}

// Post submits form url-encoded, following redirects like Get.
func (c *Client) Post(ctx context.Context, target string, jar Jar, form url.Values) (Response, error) {
	if form == nil {
		form = url.Values{}
	}
	return c.fetch(ctx, Request{
		Method:          http.MethodPost,
		Url:             target,
		Jar:             jar,
		Form:            form,
		FollowRedirects: true,
	})
}

type restyLogger struct {
	tel telemetry.API
}

func (l restyLogger) Errorf(format string, v ...any) {
	l.tel.ReportWarning("resty", fmt.Sprintf(format, v...))
}

func (l restyLogger) Warnf(format string, v ...any) {
	l.tel.ReportWarning("resty", fmt.Sprintf(format, v...))
}

func (l restyLogger) Debugf(format string, v ...any) {
	l.tel.ReportDebug(fmt.Sprintf(format, v...))
}
