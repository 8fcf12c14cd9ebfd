package depreq

// Provide1..Provide5 and ProvideAsync1..ProvideAsync5 declare a provider
// with N dependency edges. Go has no variadic generics, so these are
// written out by arity, the same shape the resolver's HandlerN family
// uses for route handlers.

func Provide1[D1, T any](d1 Dep[D1], factory func(rc *ResolveContext, v1 D1) (T, error), opts ...ProviderOption) *Provider[T] {
	return newProvider[T]([]depSlot{d1}, func(rc *ResolveContext) (T, error) {
		v1, f := buildConcurrent1(rc.rs, rc.path, d1)
		if f != nil {
			var zero T
			return zero, f
		}
		return factory(rc, v1)
	}, opts)
}

func Provide2[D1, D2, T any](d1 Dep[D1], d2 Dep[D2], factory func(rc *ResolveContext, v1 D1, v2 D2) (T, error), opts ...ProviderOption) *Provider[T] {
	return newProvider[T]([]depSlot{d1, d2}, func(rc *ResolveContext) (T, error) {
		v1, v2, f := buildConcurrent2(rc.rs, rc.path, d1, d2)
		if f != nil {
			var zero T
			return zero, f
		}
		return factory(rc, v1, v2)
	}, opts)
}

func Provide3[D1, D2, D3, T any](d1 Dep[D1], d2 Dep[D2], d3 Dep[D3], factory func(rc *ResolveContext, v1 D1, v2 D2, v3 D3) (T, error), opts ...ProviderOption) *Provider[T] {
	return newProvider[T]([]depSlot{d1, d2, d3}, func(rc *ResolveContext) (T, error) {
		v1, v2, v3, f := buildConcurrent3(rc.rs, rc.path, d1, d2, d3)
		if f != nil {
			var zero T
			return zero, f
		}
		return factory(rc, v1, v2, v3)
	}, opts)
}

func Provide4[D1, D2, D3, D4, T any](d1 Dep[D1], d2 Dep[D2], d3 Dep[D3], d4 Dep[D4], factory func(rc *ResolveContext, v1 D1, v2 D2, v3 D3, v4 D4) (T, error), opts ...ProviderOption) *Provider[T] {
	return newProvider[T]([]depSlot{d1, d2, d3, d4}, func(rc *ResolveContext) (T, error) {
		v1, v2, v3, v4, f := buildConcurrent4(rc.rs, rc.path, d1, d2, d3, d4)
		if f != nil {
			var zero T
			return zero, f
		}
		return factory(rc, v1, v2, v3, v4)
	}, opts)
}

func Provide5[D1, D2, D3, D4, D5, T any](d1 Dep[D1], d2 Dep[D2], d3 Dep[D3], d4 Dep[D4], d5 Dep[D5], factory func(rc *ResolveContext, v1 D1, v2 D2, v3 D3, v4 D4, v5 D5) (T, error), opts ...ProviderOption) *Provider[T] {
	return newProvider[T]([]depSlot{d1, d2, d3, d4, d5}, func(rc *ResolveContext) (T, error) {
		v1, v2, v3, v4, v5, f := buildConcurrent5(rc.rs, rc.path, d1, d2, d3, d4, d5)
		if f != nil {
			var zero T
			return zero, f
		}
		return factory(rc, v1, v2, v3, v4, v5)
	}, opts)
}

func ProvideAsync1[D1, T any](d1 Dep[D1], factory func(rc *ResolveContext, v1 D1) (T, error), opts ...ProviderOption) *Provider[T] {
	p := Provide1(d1, factory, opts...)
	p.async = true
	return p
}

func ProvideAsync2[D1, D2, T any](d1 Dep[D1], d2 Dep[D2], factory func(rc *ResolveContext, v1 D1, v2 D2) (T, error), opts ...ProviderOption) *Provider[T] {
	p := Provide2(d1, d2, factory, opts...)
	p.async = true
	return p
}

func ProvideAsync3[D1, D2, D3, T any](d1 Dep[D1], d2 Dep[D2], d3 Dep[D3], factory func(rc *ResolveContext, v1 D1, v2 D2, v3 D3) (T, error), opts ...ProviderOption) *Provider[T] {
	p := Provide3(d1, d2, d3, factory, opts...)
	p.async = true
	return p
}

func ProvideAsync4[D1, D2, D3, D4, T any](d1 Dep[D1], d2 Dep[D2], d3 Dep[D3], d4 Dep[D4], factory func(rc *ResolveContext, v1 D1, v2 D2, v3 D3, v4 D4) (T, error), opts ...ProviderOption) *Provider[T] {
	p := Provide4(d1, d2, d3, d4, factory, opts...)
	p.async = true
	return p
}

func ProvideAsync5[D1, D2, D3, D4, D5, T any](d1 Dep[D1], d2 Dep[D2], d3 Dep[D3], d4 Dep[D4], d5 Dep[D5], factory func(rc *ResolveContext, v1 D1, v2 D2, v3 D3, v4 D4, v5 D5) (T, error), opts ...ProviderOption) *Provider[T] {
	p := Provide5(d1, d2, d3, d4, d5, factory, opts...)
	p.async = true
	return p
}
