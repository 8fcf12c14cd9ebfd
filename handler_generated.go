package depreq

// Handler1..Handler5 declare a route handler with N declared dependencies,
// resolved with maximal permitted concurrency before the handler body
// runs, the same arity-by-arity shape ProvideN uses for user providers.

func Handler1[D1 any](d1 Dep[D1], fn func(req *Request, v1 D1) (any, error)) *RouteHandler {
	return &RouteHandler{depSlots: []depSlot{d1}, invoke: func(rs *requestScope) (any, error) {
		v1, f := buildConcurrent1(rs, nil, d1)
		if f != nil {
			return nil, f
		}
		return fn(rs.request, v1)
	}}
}

func Handler2[D1, D2 any](d1 Dep[D1], d2 Dep[D2], fn func(req *Request, v1 D1, v2 D2) (any, error)) *RouteHandler {
	return &RouteHandler{depSlots: []depSlot{d1, d2}, invoke: func(rs *requestScope) (any, error) {
		v1, v2, f := buildConcurrent2(rs, nil, d1, d2)
		if f != nil {
			return nil, f
		}
		return fn(rs.request, v1, v2)
	}}
}

func Handler3[D1, D2, D3 any](d1 Dep[D1], d2 Dep[D2], d3 Dep[D3], fn func(req *Request, v1 D1, v2 D2, v3 D3) (any, error)) *RouteHandler {
	return &RouteHandler{depSlots: []depSlot{d1, d2, d3}, invoke: func(rs *requestScope) (any, error) {
		v1, v2, v3, f := buildConcurrent3(rs, nil, d1, d2, d3)
		if f != nil {
			return nil, f
		}
		return fn(rs.request, v1, v2, v3)
	}}
}

func Handler4[D1, D2, D3, D4 any](d1 Dep[D1], d2 Dep[D2], d3 Dep[D3], d4 Dep[D4], fn func(req *Request, v1 D1, v2 D2, v3 D3, v4 D4) (any, error)) *RouteHandler {
	return &RouteHandler{depSlots: []depSlot{d1, d2, d3, d4}, invoke: func(rs *requestScope) (any, error) {
		v1, v2, v3, v4, f := buildConcurrent4(rs, nil, d1, d2, d3, d4)
		if f != nil {
			return nil, f
		}
		return fn(rs.request, v1, v2, v3, v4)
	}}
}

func Handler5[D1, D2, D3, D4, D5 any](d1 Dep[D1], d2 Dep[D2], d3 Dep[D3], d4 Dep[D4], d5 Dep[D5], fn func(req *Request, v1 D1, v2 D2, v3 D3, v4 D4, v5 D5) (any, error)) *RouteHandler {
	return &RouteHandler{depSlots: []depSlot{d1, d2, d3, d4, d5}, invoke: func(rs *requestScope) (any, error) {
		v1, v2, v3, v4, v5, f := buildConcurrent5(rs, nil, d1, d2, d3, d4, d5)
		if f != nil {
			return nil, f
		}
		return fn(rs.request, v1, v2, v3, v4, v5)
	}}
}
