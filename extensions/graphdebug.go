package extensions

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/depreq/depreq"
	"github.com/m1gwings/treedrawer/tree"
)

// GraphDebug renders the failure chain of a request (the provider that
// failed and every cause it wraps) as a tree, and logs it at ERROR level.
// Unlike a reactive graph with persistent node identity, depreq re-walks
// its dependency graph on every request, so there is no standing graph to
// export; GraphDebug instead renders the one chain that actually failed.
type GraphDebug struct {
	depreq.BaseExtension
	logger *slog.Logger
}

// NewGraphDebug builds a GraphDebug extension writing through logger. A
// nil logger falls back to slog.Default().
func NewGraphDebug(logger *slog.Logger) *GraphDebug {
	if logger == nil {
		logger = slog.Default()
	}
	return &GraphDebug{logger: logger}
}

func (g *GraphDebug) OnError(ctx context.Context, req *depreq.Request, f *depreq.Failure) {
	rendered := renderFailureTree(f)
	id, _ := RequestID(ctx)
	g.logger.Error("dependency resolution failed",
		"request_id", id,
		"path", req.Path(),
		"failure_chain", rendered,
	)
}

func renderFailureTree(f *depreq.Failure) string {
	root := tree.NewTree(tree.NodeString(failureLabel(f)))
	cur := root
	cause := f.Cause
	for cause != nil {
		var label string
		var next error
		if nf, ok := cause.(*depreq.Failure); ok {
			label = failureLabel(nf)
			next = nf.Cause
		} else {
			label = cause.Error()
			if u, ok := cause.(interface{ Unwrap() error }); ok {
				next = u.Unwrap()
			}
		}
		cur = cur.AddChild(tree.NodeString(label))
		cause = next
	}
	return root.String()
}

func failureLabel(f *depreq.Failure) string {
	if f.Name != "" {
		return fmt.Sprintf("%s %s(%s): %s", f.Kind, f.Source, f.Name, f.Message)
	}
	return fmt.Sprintf("%s %s: %s", f.Kind, f.Source, f.Message)
}
