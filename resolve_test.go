package depreq

import (
	"context"
	"sync/atomic"
	"testing"
)

func countingProvider(scope ScopeKind, counter *int64) *Provider[int] {
	return Provide(func(*ResolveContext) (int, error) {
		return int(atomic.AddInt64(counter, 1)), nil
	}, WithProviderScope(scope))
}

func TestRequestScopedProviderEvaluatedOncePerRequest(t *testing.T) {
	c := newTestContainer()
	var calls int64
	p := Use(countingProvider(Request, &calls))

	h := Handler2(p, p, func(req *Request, a, b int) (any, error) {
		return map[string]int{"a": a, "b": b}, nil
	})
	table := NewTable()
	table.Query("GET", "/dup", h)

	req := newGETRequest("/dup", nil, nil)
	resp := Dispatch(context.Background(), c, table, req)
	if resp.statusCode != 200 {
		t.Fatalf("expected 200, got %d: %s", resp.statusCode, resp.body)
	}
	if calls != 1 {
		t.Fatalf("expected provider invoked exactly once within a request, got %d", calls)
	}
}

func TestTransientProviderEvaluatedPerEdge(t *testing.T) {
	c := newTestContainer()
	var calls int64
	p := Use(countingProvider(Transient, &calls))

	h := Handler2(p, p, func(req *Request, a, b int) (any, error) {
		return map[string]int{"a": a, "b": b}, nil
	})
	table := NewTable()
	table.Query("GET", "/dup", h)

	req := newGETRequest("/dup", nil, nil)
	Dispatch(context.Background(), c, table, req)
	if calls != 2 {
		t.Fatalf("expected transient provider invoked once per edge, got %d", calls)
	}
}

func TestSingletonProviderPersistsAcrossRequests(t *testing.T) {
	c := newTestContainer()
	var calls int64
	p := Use(countingProvider(Singleton, &calls))

	h := Handler1(p, func(req *Request, v int) (any, error) {
		return v, nil
	})
	table := NewTable()
	table.Query("GET", "/once", h)

	Dispatch(context.Background(), c, table, newGETRequest("/once", nil, nil))
	Dispatch(context.Background(), c, table, newGETRequest("/once", nil, nil))

	if calls != 1 {
		t.Fatalf("expected singleton provider invoked exactly once across requests, got %d", calls)
	}
}

func TestLazyProviderNeverInvokedUnlessActivated(t *testing.T) {
	c := newTestContainer()
	var calls int64
	p := Use(countingProvider(Transient, &calls))
	lazy := AsLazy(p)

	h := Handler1(lazy, func(req *Request, l *Lazy[int]) (any, error) {
		return "not activated", nil
	})
	table := NewTable()
	table.Query("GET", "/lazy", h)

	Dispatch(context.Background(), c, table, newGETRequest("/lazy", nil, nil))

	if calls != 0 {
		t.Fatalf("expected lazy provider to not run until activated, got %d calls", calls)
	}
}

func TestLazyProviderMemoizesOnceActivated(t *testing.T) {
	c := newTestContainer()
	var calls int64
	p := Use(countingProvider(Transient, &calls))
	lazy := AsLazy(p)

	h := Handler1(lazy, func(req *Request, l *Lazy[int]) (any, error) {
		a, err := l.Get()
		if err != nil {
			return nil, err
		}
		b, err := l.Get()
		if err != nil {
			return nil, err
		}
		return map[string]int{"a": a, "b": b}, nil
	})
	table := NewTable()
	table.Query("GET", "/lazy", h)

	Dispatch(context.Background(), c, table, newGETRequest("/lazy", nil, nil))

	if calls != 1 {
		t.Fatalf("expected lazy handle to memoize its single activation, got %d calls", calls)
	}
}

func TestMockSubstitutionPreservesIdentity(t *testing.T) {
	c := newTestContainer()
	real := Provide(func(*ResolveContext) (string, error) { return "real", nil })
	fake := Provide(func(*ResolveContext) (string, error) { return "fake", nil })

	p := Use(real)
	h := Handler1(p, func(req *Request, v string) (any, error) { return v, nil })
	table := NewTable()
	table.Query("GET", "/who", h)

	mm := NewMockMap()
	Mock(mm, real, fake)

	var resp renderedResponse
	c.WithMocks(mm, func() {
		resp = Dispatch(context.Background(), c, table, newGETRequest("/who", nil, nil))
	})

	if string(resp.body) != "fake" {
		t.Fatalf("expected mocked provider value, got %s", resp.body)
	}

	resp = Dispatch(context.Background(), c, table, newGETRequest("/who", nil, nil))
	if string(resp.body) != "real" {
		t.Fatalf("expected real provider value once mocks are deactivated, got %s", resp.body)
	}
}

func TestCycleDetected(t *testing.T) {
	c := newTestContainer()

	// aParam starts as an empty placeholder; b's dependency edge captures
	// its pointer, and once a is built aParam is patched in place to
	// behave like Use(a) -- closing the cycle a -> b -> aParam -> a.
	aParam := &Param[int]{}
	b := Provide1(aParam, func(rc *ResolveContext, v int) (int, error) {
		return v + 1, nil
	})
	a := Provide1(Use(b), func(rc *ResolveContext, v int) (int, error) {
		return v + 1, nil
	})
	*aParam = *Use(a)

	h := Handler1(Use(a), func(req *Request, v int) (any, error) { return v, nil })
	table := NewTable()
	table.Query("GET", "/cycle", h)

	resp := Dispatch(context.Background(), c, table, newGETRequest("/cycle", nil, nil))
	if resp.statusCode != 500 {
		t.Fatalf("expected a cycle to surface as an internal failure, got %d: %s", resp.statusCode, resp.body)
	}
}
