package depreq

import (
	"context"
	"log/slog"
	"sync"
)

// inflightHandle de-duplicates concurrent demand for the same ProviderSpec
// within one cache: the first caller to register a handle runs the
// provider; every later caller for the same spec blocks on done and
// shares its outcome, giving at-most-once evaluation per scope.
type inflightHandle struct {
	done chan struct{}
	val  any
	fail *Failure
}

// Container owns everything that outlives a single request: the singleton
// cache, the worker pool, registered extensions, lifecycle hooks and the
// process-wide mock stack.
type Container struct {
	cfg    Config
	pool   *workerPool
	logger *slog.Logger

	extensions    []Extension
	startupHooks  []func() error
	shutdownHooks []func() error

	singletonMu       sync.Mutex
	singletonCache    map[ProviderSpec]any
	singletonInflight map[ProviderSpec]*inflightHandle
	singletonRelease  releaseStack

	mockMu    sync.RWMutex
	mockStack []*MockMap

	detachedWG sync.WaitGroup
}

// TrackDetached runs fn on its own goroutine, tracked so Stop can drain it
// before the Container shuts down. DetachedCommand handlers use this for
// work that should continue after the response has already been sent.
func (c *Container) TrackDetached(fn func()) {
	c.detachedWG.Add(1)
	go func() {
		defer c.detachedWG.Done()
		fn()
	}()
}

// NewContainer builds a Container ready to serve requests. Call Start
// before routing traffic to it and Stop when done, to run lifecycle hooks
// and drain singleton resources.
func NewContainer(cfg Config, opts ...ContainerOption) *Container {
	cfg = cfg.withDefaults()
	c := &Container{
		cfg:               cfg,
		pool:              newWorkerPool(cfg.WorkerPoolSize),
		logger:            slog.Default(),
		singletonCache:    map[ProviderSpec]any{},
		singletonInflight: map[ProviderSpec]*inflightHandle{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start runs registered startup hooks in registration order, stopping at
// the first error.
func (c *Container) Start() error {
	for _, hook := range c.startupHooks {
		if err := hook(); err != nil {
			return err
		}
	}
	return nil
}

// Stop releases every singleton resource (LIFO), runs shutdown hooks in
// reverse registration order, and disposes every extension. It collects
// and returns the first error encountered but always runs every step.
func (c *Container) Stop(ctx context.Context) error {
	c.detachedWG.Wait()

	var firstErr error
	c.singletonRelease.runAll(ctx, func(spec ProviderSpec, err error) {
		c.reportCleanupError(ctx, nil, spec, err)
		if firstErr == nil {
			firstErr = err
		}
	})
	for i := len(c.shutdownHooks) - 1; i >= 0; i-- {
		if err := c.shutdownHooks[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	for _, ext := range c.extensions {
		if err := ext.Dispose(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (c *Container) reportCleanupError(ctx context.Context, _ *Request, spec ProviderSpec, err error) {
	for _, ext := range c.extensions {
		ext.OnCleanupError(ctx, spec, err)
	}
	c.logger.Error("resource release failed", "provider", spec.String(), "error", err)
}

// resolveSingleton runs fn at most once for spec across the Container's
// entire lifetime once it has succeeded, regardless of how many concurrent
// requests demand it. A failure is shared with concurrent waiters but not
// cached, so a later request runs fn again.
func (c *Container) resolveSingleton(spec ProviderSpec, fn func() (any, *Failure)) (any, *Failure) {
	c.singletonMu.Lock()
	if v, ok := c.singletonCache[spec]; ok {
		c.singletonMu.Unlock()
		return v, nil
	}
	if h, ok := c.singletonInflight[spec]; ok {
		c.singletonMu.Unlock()
		<-h.done
		return h.val, h.fail
	}
	h := &inflightHandle{done: make(chan struct{})}
	c.singletonInflight[spec] = h
	c.singletonMu.Unlock()

	v, f := fn()

	c.singletonMu.Lock()
	delete(c.singletonInflight, spec)
	if f == nil {
		c.singletonCache[spec] = v
	}
	c.singletonMu.Unlock()

	h.val, h.fail = v, f
	close(h.done)
	return v, f
}

// requestScope is the per-request resolution context: its own cache,
// in-flight map and release stack, all local to one request's lifetime.
type requestScope struct {
	ctx       context.Context
	request   *Request
	container *Container

	mu       sync.Mutex
	cache    map[ProviderSpec]any
	inflight map[ProviderSpec]*inflightHandle
	release  releaseStack
}

func newRequestScope(ctx context.Context, req *Request, c *Container) *requestScope {
	return &requestScope{
		ctx:       ctx,
		request:   req,
		container: c,
		cache:     map[ProviderSpec]any{},
		inflight:  map[ProviderSpec]*inflightHandle{},
	}
}

func (rs *requestScope) resolveRequestScoped(spec ProviderSpec, fn func() (any, *Failure)) (any, *Failure) {
	rs.mu.Lock()
	if v, ok := rs.cache[spec]; ok {
		rs.mu.Unlock()
		return v, nil
	}
	if h, ok := rs.inflight[spec]; ok {
		rs.mu.Unlock()
		<-h.done
		return h.val, h.fail
	}
	h := &inflightHandle{done: make(chan struct{})}
	rs.inflight[spec] = h
	rs.mu.Unlock()

	v, f := fn()

	rs.mu.Lock()
	delete(rs.inflight, spec)
	if f == nil {
		rs.cache[spec] = v
	}
	rs.mu.Unlock()

	h.val, h.fail = v, f
	close(h.done)
	return v, f
}

// finish releases every request-scoped resource (LIFO), run once per
// request after the handler and its response have been produced.
func (rs *requestScope) finish() {
	rs.release.runAll(rs.ctx, func(spec ProviderSpec, err error) {
		rs.container.reportCleanupError(rs.ctx, rs.request, spec, err)
	})
}
