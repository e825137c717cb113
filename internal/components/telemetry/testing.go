package telemetry

import (
	"strings"
	"sync"
	"testing"
)

type Report struct {
	Id     string
	Params []any
}

// Recorder keeps broken and warning reports in memory and forwards every
// report to slog.
type Recorder struct {
	mu       sync.Mutex
	broken   []Report
	warnings []Report
	slog     SlogAPI
}

// SetupForTesting enables debug logging and returns a fresh Recorder.
func SetupForTesting(t testing.TB) *Recorder {
	t.Helper()
	InitSlog(true)
	return &Recorder{}
}

func (r *Recorder) ReportBroken(id string, params ...any) {
	r.mu.Lock()
	r.broken = append(r.broken, Report{Id: id, Params: params})
	r.mu.Unlock()
	r.slog.ReportBroken(id, params...)
}

func (r *Recorder) ReportWarning(id string, params ...any) {
	r.mu.Lock()
	r.warnings = append(r.warnings, Report{Id: id, Params: params})
	r.mu.Unlock()
	r.slog.ReportWarning(id, params...)
}

func (r *Recorder) ReportDebug(msg string, params ...any) {
	r.slog.ReportDebug(msg, params...)
}

func (r *Recorder) ReportCount(id string, count int64) {
	r.slog.ReportCount(id, count)
}

func (r *Recorder) Broken() []Report {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Report(nil), r.broken...)
}

func (r *Recorder) Warnings() []Report {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Report(nil), r.warnings...)
}

// HasWarning reports whether a warning whose id ends with suffix was recorded.
// Scoped ids carry their namespace as a prefix.
func (r *Recorder) HasWarning(suffix string) bool {
	for _, w := range r.Warnings() {
		if strings.HasSuffix(w.Id, suffix) {
			return true
		}
	}
	return false
}
