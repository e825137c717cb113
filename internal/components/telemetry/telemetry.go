package telemetry

import (
	"fmt"
)

// API is an abstraction over logging/metrics so that scrapers can be tested
// against a recording implementation.
type API interface {
	// ReportBroken reports a component that broke in a way that needs fixing.
	//
	// The id names the component, not the detail of what went wrong inside it.
	// A failed request while fetching the transcript is `scraper.grades`, the
	// fact that it was the HTTP request goes into the params or a wrapped error.
	//
	// Ids are lowercase, underscores separate words in large components and
	// dashes separate a method from its component (`auth.login-gateway`).
	// Packages declare their ids as `report_...` constants.
	ReportBroken(id string, params ...any)

	// ReportWarning reports something odd that did not stop the operation,
	// like a record that lost a derived field.
	ReportWarning(id string, params ...any)

	// ReportDebug reports debug information that is dropped in production.
	ReportDebug(msg string, params ...any)

	// ReportCount reports the current count of an event. Counts are points
	// of data over time and should not be summed.
	ReportCount(id string, count int64)
}

// ScopedAPI prefixes every id with a namespace, like a sub-logger.
type ScopedAPI struct {
	namespace string
	inner     API
}

// NewScopedAPI creates a ScopedAPI out of a given namespace and another api.
func NewScopedAPI(namespace string, inner API) ScopedAPI {
	return ScopedAPI{namespace: namespace, inner: inner}
}

func (s ScopedAPI) ReportBroken(id string, params ...any) {
	s.inner.ReportBroken(fmt.Sprintf("%s: %s", s.namespace, id), params...)
}

func (s ScopedAPI) ReportWarning(id string, params ...any) {
	s.inner.ReportWarning(fmt.Sprintf("%s: %s", s.namespace, id), params...)
}

func (s ScopedAPI) ReportDebug(msg string, params ...any) {
	s.inner.ReportDebug(fmt.Sprintf("%s: %s", s.namespace, msg), params...)
}

func (s ScopedAPI) ReportCount(id string, count int64) {
	s.inner.ReportCount(fmt.Sprintf("%s: %s", s.namespace, id), count)
}
