package depreq

import "context"

// ResolveContext is handed to every user provider factory. It exposes the
// cancellation context for the current request and the provider's own spec
// for diagnostics (e.g. a provider that wants to log its own identity).
type ResolveContext struct {
	ctx  context.Context
	spec ProviderSpec
	rs   *requestScope
	path []ProviderSpec
}

// Context returns the request's cancellation context.
func (rc *ResolveContext) Context() context.Context { return rc.ctx }

// Request returns the request the current resolution is serving.
func (rc *ResolveContext) Request() *Request { return rc.rs.request }

// Spec identifies the provider being invoked, for logging/diagnostics.
func (rc *ResolveContext) Spec() ProviderSpec { return rc.spec }
