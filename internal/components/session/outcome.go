package session

import (
	"fmt"
	"net/http"
)

type Response struct {
	StatusCode int
	Body       []byte
	Header     http.Header
}

// Cookie returns the first Set-Cookie header value verbatim. Any further
// Set-Cookie headers are ignored.
func (r Response) Cookie() string {
	values := r.Header.Values("Set-Cookie")
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// Jar starts a new jar from the response cookie.
func (r Response) Jar() Jar {
	return Jar("").Append(r.Cookie())
}

func (r Response) String() string {
	return string(r.Body)
}

// Outcome is the result of a single request, one of Redirected, Completed or
// Failed.
type Outcome interface {
	outcome()
}

// Redirected is a 3xx response that was not followed.
type Redirected struct {
	Location string
	Cookie   string
	Response Response
}

// Completed is any non-3xx response, including 4xx and 5xx.
type Completed struct {
	Response Response
}

// Failed means no response was received.
type Failed struct {
	Err error
}

func (Redirected) outcome() {}
func (Completed) outcome()  {}
func (Failed) outcome()     {}

// TransportError wraps connection level failures (dns, timeout, reset).
type TransportError struct {
	Method string
	Url    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport: %s %s: %s", e.Method, e.Url, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// StatusError is returned by the Get/Post helpers for 4xx and 5xx responses.
type StatusError struct {
	Url        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.StatusCode, e.Url)
}
