package depreq

import (
	"context"
	"fmt"
)

// Dispatch resolves req against table, invokes the matched handler's
// dependency graph and body, and returns the response to write back to
// the transport. It never panics: handler and provider panics are
// recovered and reported as KindInternal failures.
func Dispatch(ctx context.Context, c *Container, table *Table, req *Request) renderedResponse {
	headerLookup := func(name string) (string, bool) { return req.Header(name) }

	var cleanups []func()
	for _, ext := range c.extensions {
		newCtx, cleanup, err := ext.Wrap(ctx, req)
		if err != nil {
			for _, fn := range cleanups {
				fn()
			}
			return renderFailure(AsFailure("extension", err))
		}
		ctx = newCtx
		cleanups = append(cleanups, cleanup)
	}
	defer func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}()

	res := table.match(req.Method(), req.Path(), headerLookup)
	if !res.pathFound {
		f := &Failure{Kind: KindRouteNotFound, Source: "route", Message: fmt.Sprintf("no route for %s", req.Path())}
		c.notifyError(ctx, req, f)
		return renderFailure(f)
	}
	if res.route == nil {
		f := &Failure{Kind: KindMethodNotAllowed, Source: "route", Message: fmt.Sprintf("method %s not allowed for %s", req.Method(), req.Path())}
		c.notifyError(ctx, req, f)
		return renderFailure(f)
	}

	route := res.route
	mergedParams := map[string]string{}
	for k, v := range res.pathParams {
		mergedParams[k] = v
	}
	req.pathParams = mergedParams

	cancel := func() {}
	if c.cfg.RequestTimeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, c.cfg.RequestTimeout)
	}

	rs := newRequestScope(ctx, req, c)

	value, failure := invokeHandler(rs, route.handler)

	var continuation func(context.Context)
	if route.kind == DetachedCommandRoute && failure == nil {
		if d, ok := value.(Detached); ok {
			value = d.Response
			continuation = d.Continue
		}
	}

	// finishAfterResponse releases the request scope (and the timeout
	// context's timer, if any) once the response has actually left the
	// dispatcher: immediately for an ordinary response, after the stream
	// drains for a StreamResponse, and in the background (alongside any
	// Detached continuation) for a DetachedCommandRoute.
	finishAfterResponse := func() {
		if route.kind == DetachedCommandRoute {
			c.TrackDetached(func() {
				if continuation != nil {
					continuation(ctx)
				}
				rs.finish()
				cancel()
			})
			return
		}
		rs.finish()
		cancel()
	}

	if failure != nil {
		finishAfterResponse()
		c.notifyError(ctx, req, failure)
		return renderFailure(failure)
	}

	rendered, err := adaptResponse(value)
	if err != nil {
		finishAfterResponse()
		f := internalFailure("response", err)
		c.notifyError(ctx, req, f)
		return renderFailure(f)
	}

	if rendered.stream != nil {
		rendered.stream = drainThenFinish(rendered.stream, finishAfterResponse)
		return rendered
	}

	finishAfterResponse()
	return rendered
}

// drainThenFinish forwards every chunk from in to a new channel and calls
// finish only once in has been fully drained, so a StreamResponse's
// feeding resources stay alive for the whole stream instead of being
// released as soon as Dispatch returns.
func drainThenFinish(in <-chan Chunk, finish func()) <-chan Chunk {
	out := make(chan Chunk)
	go func() {
		for c := range in {
			out <- c
		}
		finish()
		close(out)
	}()
	return out
}

func invokeHandler(rs *requestScope, h *RouteHandler) (value any, failure *Failure) {
	defer func() {
		if r := recover(); r != nil {
			failure = internalFailure("handler", fmt.Errorf("panic: %v", r))
		}
	}()
	v, err := h.invoke(rs)
	if err != nil {
		return nil, AsFailure("handler", err)
	}
	return v, nil
}

func (c *Container) notifyError(ctx context.Context, req *Request, f *Failure) {
	for _, ext := range c.extensions {
		ext.OnError(ctx, req, f)
	}
	c.logger.Warn("request failed", "kind", f.Kind, "source", f.Source, "name", f.Name, "message", f.Message)
}
