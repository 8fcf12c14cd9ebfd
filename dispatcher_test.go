package depreq

import (
	"context"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestPathParamBraceSyntaxMatches(t *testing.T) {
	c := newTestContainer()
	id := PathParam[string]("id")
	h := Handler1(id, func(req *Request, id string) (any, error) {
		return id, nil
	})
	table := NewTable()
	table.Query("GET", "/users/{id}", h)

	req := newGETRequest("/users/42", nil, nil)
	resp := Dispatch(context.Background(), c, table, req)

	if resp.statusCode != 200 {
		t.Fatalf("expected 200, got %d: %s", resp.statusCode, resp.body)
	}
	if string(resp.body) != "42" {
		t.Fatalf("expected path param 42, got %s", resp.body)
	}
}

type bodyStructTarget struct {
	Name string `json:"name"`
}

func TestBodyStructuredTargetRejectsNonJSONContentType(t *testing.T) {
	c := newTestContainer()
	b := Body[bodyStructTarget]()
	h := Handler1(b, func(req *Request, v bodyStructTarget) (any, error) {
		return v, nil
	})
	table := NewTable()
	table.Command("POST", "/things", h)

	headers := http.Header{}
	headers.Set("Content-Type", "text/plain")
	req := NewRequest(http.MethodPost, "/things", nil, nil, headers, "", strings.NewReader("not json"))
	resp := Dispatch(context.Background(), c, table, req)

	if resp.statusCode != 415 {
		t.Fatalf("expected 415 for non-JSON content-type against a structured Body target, got %d: %s", resp.statusCode, resp.body)
	}
}

func TestDetachedCommandFlushesBeforeContinuationCompletes(t *testing.T) {
	c := newTestContainer()
	started := make(chan struct{})
	release := make(chan struct{})
	var continued int32

	h := Handler0(func(req *Request) (any, error) {
		return Detached{
			Response: "accepted",
			Continue: func(ctx context.Context) {
				close(started)
				<-release
				atomic.StoreInt32(&continued, 1)
			},
		}, nil
	})
	table := NewTable()
	table.DetachedCommand("POST", "/jobs", h)

	req := NewRequest(http.MethodPost, "/jobs", nil, nil, http.Header{}, "", nil)
	resp := Dispatch(context.Background(), c, table, req)

	if resp.statusCode != 200 || string(resp.body) != "accepted" {
		t.Fatalf("expected the response to be flushed without waiting on Continue, got %d: %s", resp.statusCode, resp.body)
	}
	if atomic.LoadInt32(&continued) != 0 {
		t.Fatalf("expected Continue to still be running after Dispatch returned")
	}

	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("expected Continue to have started in the background")
	}
	close(release)
	if err := c.Stop(context.Background()); err != nil {
		t.Fatalf("unexpected error stopping container: %v", err)
	}
	if atomic.LoadInt32(&continued) != 1 {
		t.Fatalf("expected Container.Stop to wait for the detached continuation to finish")
	}
}

type releaseTracker struct {
	released int32
}

func (r *releaseTracker) Acquire() error { return nil }
func (r *releaseTracker) Release() error {
	atomic.StoreInt32(&r.released, 1)
	return nil
}

func TestStreamResponseDelaysFinishUntilDrained(t *testing.T) {
	c := newTestContainer()
	tracker := &releaseTracker{}
	resource := Use(Provide(func(*ResolveContext) (*releaseTracker, error) {
		return tracker, nil
	}))

	chunks := make(chan Chunk, 2)
	chunks <- Chunk{Data: []byte("a")}
	chunks <- Chunk{Data: []byte("b")}
	close(chunks)

	h := Handler1(resource, func(req *Request, rt *releaseTracker) (any, error) {
		return StreamResponse{ContentType: "text/plain", Chunks: chunks}, nil
	})
	table := NewTable()
	table.Query("GET", "/stream", h)

	req := newGETRequest("/stream", nil, nil)
	resp := Dispatch(context.Background(), c, table, req)

	if resp.stream == nil {
		t.Fatal("expected a streaming response")
	}
	if atomic.LoadInt32(&tracker.released) != 0 {
		t.Fatalf("expected the feeding resource to stay held before the stream is drained")
	}

	var got []byte
	for chunk := range resp.stream {
		got = append(got, chunk.Data...)
	}
	if string(got) != "ab" {
		t.Fatalf("expected streamed bytes ab, got %s", got)
	}

	deadline := time.After(time.Second)
	for atomic.LoadInt32(&tracker.released) == 0 {
		select {
		case <-deadline:
			t.Fatal("expected the feeding resource to be released once the stream was fully drained")
		case <-time.After(time.Millisecond):
		}
	}
}

func TestRequestTimeoutYields504(t *testing.T) {
	c := NewContainer(Config{RequestTimeout: 10 * time.Millisecond})
	block := make(chan struct{})
	slow := Use(Provide(func(*ResolveContext) (string, error) {
		<-block
		return "too late", nil
	}))
	h := Handler1(slow, func(req *Request, v string) (any, error) {
		return v, nil
	})
	table := NewTable()
	table.Query("GET", "/slow", h)

	req := newGETRequest("/slow", nil, nil)
	resp := Dispatch(context.Background(), c, table, req)

	if resp.statusCode != 504 {
		t.Fatalf("expected 504 once the request timeout elapses, got %d: %s", resp.statusCode, resp.body)
	}
	if !strings.Contains(string(resp.body), "TIMEOUT") {
		t.Fatalf("expected TIMEOUT kind in body, got %s", resp.body)
	}
	close(block)
}
