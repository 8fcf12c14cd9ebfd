// Package depreq provides a typed, scoped, cacheable dependency-injection
// container for HTTP handlers.
//
// # Overview
//
// depreq resolves a handler's parameters from an incoming request before the
// handler runs. Each parameter is declared with a Param, built either from a
// parameter-source provider (a header, cookie, query value, path variable, or
// the request body) or from a user-defined Provider with its own
// dependencies. Declaring a handler with Handler1..Handler5 produces a
// *RouteHandler whose dependency graph runs with maximal permitted
// concurrency each time the route is hit.
//
// # Basic usage
//
//	c := depreq.NewContainer(depreq.Config{})
//
//	q := depreq.QueryParam[int]("q")
//	h := depreq.Handler1(q, func(req *depreq.Request, q int) (any, error) {
//	    return map[string]int{"q": q}, nil
//	})
//
//	table := depreq.NewTable()
//	table.Query("GET", "/q", h)
//
//	resp := depreq.Dispatch(context.Background(), c, table, req)
//
// # Scopes
//
// Every Param carries a caching ScopeKind: Transient (re-evaluated at every
// edge), Request (cached once per request) or Singleton (cached once per
// process). Deferral is not a scope setting: wrapping a Param with AsLazy
// hands the handler a *Lazy handle whose Get runs the Param on first call.
// See scope.go and resolve.go for the caching and concurrency rules.
//
// # Providers that acquire resources
//
// A provider whose returned value implements Resource or AsyncResource is
// treated as a scoped resource: depreq calls Acquire after the factory
// returns and pushes Release onto the enclosing scope's release stack, run
// in LIFO order when that scope ends.
package depreq
