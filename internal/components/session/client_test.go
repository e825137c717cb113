package session_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"
	"ucassist-backend/internal/components/session"
	"ucassist-backend/internal/components/session/sessiontest"
	"ucassist-backend/internal/components/telemetry"

	"github.com/stretchr/testify/require"
)

func TestJarAppend(t *testing.T) {
	testCases := []struct {
		jar      session.Jar
		cookie   string
		expected session.Jar
	}{
		{jar: "", cookie: "", expected: ""},
		{jar: "", cookie: "a=1", expected: "a=1"},
		{jar: "a=1", cookie: "", expected: "a=1"},
		{jar: "a=1", cookie: "b=2; Path=/", expected: "a=1; b=2; Path=/"},
		{jar: "a=1", cookie: "a=1", expected: "a=1; a=1"},
	}

	for _, tc := range testCases {
		require.Equal(t, tc.expected, tc.jar.Append(tc.cookie))
	}
}

func newMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET example.test/redirect", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Set-Cookie", "first=1; Path=/")
		w.Header().Add("Set-Cookie", "second=2")
		http.Redirect(w, r, "https://example.test/landing", http.StatusFound)
	})
	mux.HandleFunc("GET example.test/landing", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("landing " + r.Header.Get("Cookie")))
	})
	mux.HandleFunc("GET example.test/echo", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(r.Header.Get("Cookie") + "|" + r.Header.Get("User-Agent")))
	})
	mux.HandleFunc("POST example.test/form", func(w http.ResponseWriter, r *http.Request) {
		err := r.ParseForm()
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Write([]byte(r.PostForm.Encode()))
	})
	mux.HandleFunc("GET example.test/broken", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	return mux
}

func TestDoClassification(t *testing.T) {
	tel := telemetry.SetupForTesting(t)
	client := sessiontest.NewClient(t, newMux(), tel)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	out := client.Do(ctx, session.Request{
		Method: http.MethodGet,
		Url:    "https://example.test/redirect",
	})
	redirected, ok := out.(session.Redirected)
	require.True(t, ok, "expected redirected, got %T", out)
	require.Equal(t, "https://example.test/landing", redirected.Location)
	require.Equal(t, "first=1; Path=/", redirected.Cookie)
	require.Equal(t, http.StatusFound, redirected.Response.StatusCode)

	out = client.Do(ctx, session.Request{
		Method:          http.MethodGet,
		Url:             "https://example.test/redirect",
		FollowRedirects: true,
	})
	completed, ok := out.(session.Completed)
	require.True(t, ok, "expected completed, got %T", out)
	// the redirect's cookie must not be remembered between hops
	require.Equal(t, "landing ", completed.Response.String())

	out = client.Do(ctx, session.Request{
		Method: http.MethodGet,
		Url:    "https://example.test/broken",
	})
	completed, ok = out.(session.Completed)
	require.True(t, ok, "expected completed, got %T", out)
	require.Equal(t, http.StatusInternalServerError, completed.Response.StatusCode)
}

func TestExplicitJarOnly(t *testing.T) {
	tel := telemetry.SetupForTesting(t)
	client := sessiontest.NewClient(t, newMux(), tel)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	_, err := client.Get(ctx, "https://example.test/redirect", "")
	require.NoError(t, err)

	res, err := client.Get(ctx, "https://example.test/echo", "")
	require.NoError(t, err)
	require.Equal(t, "|"+session.DefaultConfig().UserAgent, res.String())

	res, err = client.Get(ctx, "https://example.test/echo", "a=1; b=2")
	require.NoError(t, err)
	require.Equal(t, "a=1; b=2|"+session.DefaultConfig().UserAgent, res.String())
}

func TestPostForm(t *testing.T) {
	tel := telemetry.SetupForTesting(t)
	client := sessiontest.NewClient(t, newMux(), tel)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	res, err := client.Post(ctx, "https://example.test/form", "", url.Values{
		"userName": {"someone"},
		"loginFrom": {""},
	})
	require.NoError(t, err)
	require.Equal(t, "loginFrom=&userName=someone", res.String())
}

func TestStatusError(t *testing.T) {
	tel := telemetry.SetupForTesting(t)
	client := sessiontest.NewClient(t, newMux(), tel)

	_, err := client.Get(context.Background(), "https://example.test/broken", "")
	var statusErr *session.StatusError
	require.ErrorAs(t, err, &statusErr)
	require.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
}

func TestTransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	addr := server.URL
	server.Close()

	config := session.DefaultConfig()
	config.Timeout = time.Second * 2
	client := session.NewClient(config, telemetry.SetupForTesting(t))

	out := client.Do(context.Background(), session.Request{
		Method: http.MethodGet,
		Url:    addr,
	})
	failed, ok := out.(session.Failed)
	require.True(t, ok, "expected failed, got %T", out)

	var transportErr *session.TransportError
	require.True(t, errors.As(failed.Err, &transportErr))
	require.Equal(t, addr, transportErr.Url)

	_, err := client.Get(context.Background(), addr, "")
	require.ErrorAs(t, err, &transportErr)
}
