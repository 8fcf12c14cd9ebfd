package depreq

import "context"

// Extension hooks into the lifecycle of every request: Wrap/OnError/
// OnCleanupError/Dispose. Implementations should embed BaseExtension to
// stay forward-compatible with new hooks.
type Extension interface {
	// Wrap runs before route dispatch and may return a replacement context
	// (e.g. to inject a request ID or a tracing span) along with a function
	// invoked when Dispatch returns (for a streamed response, before the
	// stream has been drained).
	Wrap(ctx context.Context, req *Request) (context.Context, func(), error)

	// OnError observes a Failure that will be sent to the client.
	OnError(ctx context.Context, req *Request, f *Failure)

	// OnCleanupError observes an error returned from a resource's Release,
	// which cannot itself fail the response (the response was already
	// produced or is in flight).
	OnCleanupError(ctx context.Context, spec ProviderSpec, err error)

	// Dispose runs once when the owning Container is stopped.
	Dispose() error
}

// BaseExtension is a no-op Extension; embed it to implement only the hooks
// you need.
type BaseExtension struct{}

func (BaseExtension) Wrap(ctx context.Context, _ *Request) (context.Context, func(), error) {
	return ctx, func() {}, nil
}
func (BaseExtension) OnError(context.Context, *Request, *Failure)            {}
func (BaseExtension) OnCleanupError(context.Context, ProviderSpec, error)    {}
func (BaseExtension) Dispose() error                                        { return nil }
