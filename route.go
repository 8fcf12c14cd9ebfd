package depreq

import "strings"

// RouteKind distinguishes how the dispatcher waits on (or doesn't wait on)
// a handler's completion.
type RouteKind int

const (
	// QueryRoute is a read-only endpoint; its handler may stream its
	// response back incrementally.
	QueryRoute RouteKind = iota
	// CommandRoute mutates state; the dispatcher waits for the handler to
	// finish before responding.
	CommandRoute
	// DetachedCommandRoute flushes a response as soon as the handler
	// produces one. A handler that returns a Detached value has its
	// Response flushed immediately while its Continue func keeps running
	// in a background goroutine tracked by the Container, so Stop can
	// drain it before the process exits.
	DetachedCommandRoute
)

type routeSegment struct {
	literal string
	isParam bool
}

// Route is one registered endpoint: a method, a path pattern, optional
// header constraints used only to disambiguate otherwise-identical routes,
// and the handler to invoke.
type Route struct {
	method      string
	pattern     string
	segments    []routeSegment
	kind        RouteKind
	handler     *RouteHandler
	headerReq   map[string]string
}

// RouteOption configures a Route at registration time.
type RouteOption func(*Route)

// WithHeaderConstraint requires the named header to carry value for this
// route to be selected. When several routes share a method and path, the
// dispatcher picks the one whose constraints the request satisfies; it
// never treats an unmatched constraint as an error on its own, only as
// this route declining the match (see Table.match).
func WithHeaderConstraint(name, value string) RouteOption {
	return func(r *Route) {
		if r.headerReq == nil {
			r.headerReq = map[string]string{}
		}
		r.headerReq[strings.ToLower(name)] = value
	}
}

func compilePattern(pattern string) []routeSegment {
	parts := strings.Split(strings.Trim(pattern, "/"), "/")
	segs := make([]routeSegment, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		if strings.HasPrefix(p, "{") && strings.HasSuffix(p, "}") {
			segs = append(segs, routeSegment{literal: p[1 : len(p)-1], isParam: true})
		} else {
			segs = append(segs, routeSegment{literal: p})
		}
	}
	return segs
}

func newRoute(method, pattern string, kind RouteKind, handler *RouteHandler, opts []RouteOption) *Route {
	r := &Route{
		method:   strings.ToUpper(method),
		pattern:  pattern,
		segments: compilePattern(pattern),
		kind:     kind,
		handler:  handler,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Route) matchPath(path string) (map[string]string, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) == 1 && parts[0] == "" {
		parts = nil
	}
	if len(parts) != len(r.segments) {
		return nil, false
	}
	params := map[string]string{}
	for i, seg := range r.segments {
		if seg.isParam {
			params[seg.literal] = parts[i]
			continue
		}
		if seg.literal != parts[i] {
			return nil, false
		}
	}
	return params, true
}

func (r *Route) matchesHeaders(headers func(string) (string, bool)) bool {
	for k, v := range r.headerReq {
		got, ok := headers(k)
		if !ok || got != v {
			return false
		}
	}
	return true
}

// Table is a registered set of routes, queried by the dispatcher.
type Table struct {
	routes         []*Route
	redirectSlashes bool
}

// NewTable builds an empty route table.
func NewTable() *Table {
	return &Table{}
}

// WithRedirectSlashes enables redirect-slashes behavior: a request whose
// path differs from a registered route only by a trailing slash is
// retried against the route without it.
func (t *Table) WithRedirectSlashes() *Table {
	t.redirectSlashes = true
	return t
}

// Query registers a read-only endpoint.
func (t *Table) Query(method, pattern string, handler *RouteHandler, opts ...RouteOption) {
	t.routes = append(t.routes, newRoute(method, pattern, QueryRoute, handler, opts))
}

// Command registers a mutating endpoint the dispatcher waits on fully.
func (t *Table) Command(method, pattern string, handler *RouteHandler, opts ...RouteOption) {
	t.routes = append(t.routes, newRoute(method, pattern, CommandRoute, handler, opts))
}

// DetachedCommand registers a mutating endpoint whose response is flushed
// as soon as produced, with remaining work continuing in the background.
func (t *Table) DetachedCommand(method, pattern string, handler *RouteHandler, opts ...RouteOption) {
	t.routes = append(t.routes, newRoute(method, pattern, DetachedCommandRoute, handler, opts))
}

// matchResult is what Table.match returns: either a selected route with
// its path params, a 404 (no path matched, or every route for the method
// declined on its header constraints), or a 405 (path matched, no method
// did).
type matchResult struct {
	route      *Route
	pathParams map[string]string
	pathFound  bool
	allowed    []string
}

func (t *Table) match(method, path string, headers func(string) (string, bool)) matchResult {
	method = strings.ToUpper(method)

	res := t.matchOnce(method, path, headers)
	if res.pathFound || !t.redirectSlashes {
		return res
	}

	alt := path
	if strings.HasSuffix(alt, "/") {
		alt = strings.TrimSuffix(alt, "/")
	} else {
		alt = alt + "/"
	}
	return t.matchOnce(method, alt, headers)
}

func (t *Table) matchOnce(method, path string, headers func(string) (string, bool)) matchResult {
	var pathFound bool
	var allowed []string
	var candidates []*Route
	var paramsByRoute = map[*Route]map[string]string{}

	for _, r := range t.routes {
		params, ok := r.matchPath(path)
		if !ok {
			continue
		}
		pathFound = true
		if r.method != method {
			allowed = append(allowed, r.method)
			continue
		}
		candidates = append(candidates, r)
		paramsByRoute[r] = params
	}

	if len(candidates) == 0 {
		return matchResult{pathFound: pathFound, allowed: allowed}
	}

	// Prefer a candidate whose header constraints are satisfied; fall back
	// to an unconstrained candidate if one exists.
	var fallback *Route
	for _, r := range candidates {
		if len(r.headerReq) == 0 {
			fallback = r
			continue
		}
		if r.matchesHeaders(headers) {
			return matchResult{route: r, pathParams: paramsByRoute[r], pathFound: true}
		}
	}
	if fallback != nil {
		return matchResult{route: fallback, pathParams: paramsByRoute[fallback], pathFound: true}
	}
	// Every route for this method declined on its header constraints:
	// treat it as no match at all (404), not as a method mismatch.
	return matchResult{allowed: allowed}
}
