// Package reporters adapts a depreq.Failure into a sink-agnostic event
// record, the way the original routing layer's storyteller fanned every
// request event out to a list of listeners.
package reporters

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/depreq/depreq"
)

// FailureReporter records a request failure. Implementations must be
// concurrency-safe: Dispatch may call Report from many goroutines at once.
type FailureReporter interface {
	Report(req *depreq.Request, f *depreq.Failure)
}

// JSON writes one JSON object per line, mirroring the original
// implementation's JSON listener.
type JSON struct {
	mu sync.Mutex
	w  io.Writer
}

// NewJSON builds a JSON reporter writing to w.
func NewJSON(w io.Writer) *JSON { return &JSON{w: w} }

func (j *JSON) Report(req *depreq.Request, f *depreq.Failure) {
	record := struct {
		TimeUnixNano int64  `json:"time_ns"`
		Event        string `json:"event"`
		Method       string `json:"method"`
		Path         string `json:"path"`
		Kind         string `json:"kind"`
		Source       string `json:"source,omitempty"`
		Name         string `json:"name,omitempty"`
		Message      string `json:"message"`
	}{
		TimeUnixNano: time.Now().UnixNano(),
		Event:        "request.failure",
		Method:       req.Method(),
		Path:         req.Path(),
		Kind:         string(f.Kind),
		Source:       f.Source,
		Name:         f.Name,
		Message:      f.Message,
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	enc := json.NewEncoder(j.w)
	_ = enc.Encode(record)
}

// Text writes a single human-readable line per failure, a plain-text
// alternative to a rich-console listener that avoids any dependency on a
// terminal rendering library.
type Text struct {
	mu sync.Mutex
	w  io.Writer
}

// NewText builds a Text reporter writing to w.
func NewText(w io.Writer) *Text { return &Text{w: w} }

func (t *Text) Report(req *depreq.Request, f *depreq.Failure) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.w, "[%s] %s %s -> %s: %s\n", time.Now().Format(time.RFC3339), req.Method(), req.Path(), f.Kind, f.Message)
}
