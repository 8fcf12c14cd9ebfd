package depreq

// RouteHandler is a fully-built, type-erased endpoint: its dependencies
// have already been captured by closure, so the dispatcher only ever needs
// to call invoke with the live per-request scope.
type RouteHandler struct {
	depSlots []depSlot
	invoke   func(rs *requestScope) (any, error)
}

func (h *RouteHandler) Deps() []erasedDep {
	out := make([]erasedDep, len(h.depSlots))
	for i, d := range h.depSlots {
		out[i] = d.erase()
	}
	return out
}

// Handler0 declares a handler with no declared dependencies, receiving
// only the raw Request.
func Handler0(fn func(req *Request) (any, error)) *RouteHandler {
	return &RouteHandler{invoke: func(rs *requestScope) (any, error) {
		return fn(rs.request)
	}}
}
