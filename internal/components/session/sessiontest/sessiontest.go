// Package sessiontest serves the fixed university hosts from an
// httptest.Server so scrapers can be exercised end to end.
package sessiontest

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"ucassist-backend/internal/components/session"
	"ucassist-backend/internal/components/telemetry"
)

type rewriteTransport struct {
	target *url.URL
	inner  http.RoundTripper
}

// RoundTrip sends every request to the test server. The original host is kept
// in the Host header so handlers can route on it, for example with a
// http.ServeMux pattern like "GET sep.ucas.ac.cn/slogin".
func (t rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())
	out.Host = req.URL.Host
	out.URL.Scheme = t.target.Scheme
	out.URL.Host = t.target.Host
	return t.inner.RoundTrip(out)
}

// NewConfig starts a server for handler and returns the default session
// config routed to it. The server is closed when the test ends.
func NewConfig(t testing.TB, handler http.Handler) session.Config {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	target, err := url.Parse(server.URL)
	if err != nil {
		t.Fatal(err)
	}

	config := session.DefaultConfig()
	config.Transport = rewriteTransport{target: target, inner: http.DefaultTransport}
	return config
}

func NewClient(t testing.TB, handler http.Handler, tel telemetry.API) *session.Client {
	t.Helper()
	return session.NewClient(NewConfig(t, handler), tel)
}
