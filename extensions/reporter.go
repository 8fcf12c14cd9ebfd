package extensions

import (
	"context"

	"github.com/depreq/depreq"
	"github.com/depreq/depreq/reporters"
)

// Reporting bridges a reporters.FailureReporter into the Extension
// lifecycle, so Dispatch's OnError hook feeds whatever sink (JSON lines,
// human-readable text, ...) the caller configured.
type Reporting struct {
	depreq.BaseExtension
	reporter reporters.FailureReporter
}

// NewReporting builds a Reporting extension delegating to r.
func NewReporting(r reporters.FailureReporter) *Reporting {
	return &Reporting{reporter: r}
}

func (e *Reporting) OnError(_ context.Context, req *depreq.Request, f *depreq.Failure) {
	e.reporter.Report(req, f)
}
