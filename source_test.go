package depreq

import (
	"context"
	"net/http"
	"strings"
	"testing"
)

func newTestContainer() *Container {
	return NewContainer(Config{})
}

func newGETRequest(path string, query []QueryPair, headers http.Header) *Request {
	if headers == nil {
		headers = http.Header{}
	}
	return NewRequest(http.MethodGet, path, nil, query, headers, "", nil)
}

func TestQueryParamMissingFailsWith400(t *testing.T) {
	c := newTestContainer()
	q := QueryParam[int]("limit")
	h := Handler1(q, func(req *Request, limit int) (any, error) {
		return limit, nil
	})
	table := NewTable()
	table.Query("GET", "/items", h)

	req := newGETRequest("/items", nil, nil)
	resp := Dispatch(context.Background(), c, table, req)

	if resp.statusCode != 400 {
		t.Fatalf("expected 400, got %d: %s", resp.statusCode, resp.body)
	}
	if !strings.Contains(string(resp.body), "MISSING_QUERY") {
		t.Fatalf("expected MISSING_QUERY in body, got %s", resp.body)
	}
}

func TestQueryParamCoercionFailureFailsWith422(t *testing.T) {
	c := newTestContainer()
	q := QueryParam[int]("limit")
	h := Handler1(q, func(req *Request, limit int) (any, error) {
		return limit, nil
	})
	table := NewTable()
	table.Query("GET", "/items", h)

	req := newGETRequest("/items", []QueryPair{{Key: "limit", Value: "not-a-number"}}, nil)
	resp := Dispatch(context.Background(), c, table, req)

	if resp.statusCode != 422 {
		t.Fatalf("expected 422, got %d: %s", resp.statusCode, resp.body)
	}
}

func TestQueryParamDefaultUsedWhenMissing(t *testing.T) {
	c := newTestContainer()
	q := QueryParam[int]("limit", WithDefault(10))
	h := Handler1(q, func(req *Request, limit int) (any, error) {
		return limit, nil
	})
	table := NewTable()
	table.Query("GET", "/items", h)

	req := newGETRequest("/items", nil, nil)
	resp := Dispatch(context.Background(), c, table, req)

	if resp.statusCode != 200 {
		t.Fatalf("expected 200, got %d: %s", resp.statusCode, resp.body)
	}
	if !strings.Contains(string(resp.body), "10") {
		t.Fatalf("expected default value 10 in body, got %s", resp.body)
	}
}

func TestRouteNotFoundYields404(t *testing.T) {
	c := newTestContainer()
	table := NewTable()
	table.Query("GET", "/items", Handler0(func(req *Request) (any, error) { return "ok", nil }))

	req := newGETRequest("/missing", nil, nil)
	resp := Dispatch(context.Background(), c, table, req)
	if resp.statusCode != 404 {
		t.Fatalf("expected 404, got %d", resp.statusCode)
	}
}

func TestMethodNotAllowedYields405(t *testing.T) {
	c := newTestContainer()
	table := NewTable()
	table.Query("GET", "/items", Handler0(func(req *Request) (any, error) { return "ok", nil }))

	req := NewRequest(http.MethodPost, "/items", nil, nil, http.Header{}, "", nil)
	resp := Dispatch(context.Background(), c, table, req)
	if resp.statusCode != 405 {
		t.Fatalf("expected 405, got %d", resp.statusCode)
	}
}

func TestHeaderConstrainedRoutingDisambiguates(t *testing.T) {
	c := newTestContainer()
	table := NewTable()
	table.Query("GET", "/items", Handler0(func(req *Request) (any, error) { return "v1", nil }),
		WithHeaderConstraint("x-api-version", "1"))
	table.Query("GET", "/items", Handler0(func(req *Request) (any, error) { return "v2", nil }),
		WithHeaderConstraint("x-api-version", "2"))

	h := http.Header{}
	h.Set("x-api-version", "2")
	req := newGETRequest("/items", nil, h)
	resp := Dispatch(context.Background(), c, table, req)

	if !strings.Contains(string(resp.body), "v2") {
		t.Fatalf("expected v2 response, got %s", resp.body)
	}
}
