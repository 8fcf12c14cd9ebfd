package depreq

import "reflect"

// AnyProvider is the type-erased view of a *Provider[T], used for
// dependency introspection (Deps) and by MockMap, which stores a Mock
// replacement provider without its element type.
type AnyProvider interface {
	Spec() ProviderSpec
	Name() string
	Scope() ScopeKind
	IsAsync() bool
	Deps() []erasedDep
	invokeAny(rc *ResolveContext) (any, error)
}

// providerMeta is the scope/name/async state shared by every Provider[T],
// mutated by ProviderOption at construction time.
type providerMeta struct {
	name  string
	scope ScopeKind
	async bool
}

// ProviderOption configures a Provider at construction time.
type ProviderOption func(*providerMeta)

// WithProviderScope sets a provider's caching scope. Defaults to Transient.
func WithProviderScope(s ScopeKind) ProviderOption {
	return func(m *providerMeta) { m.scope = s }
}

// WithProviderName attaches a diagnostic name, reported by Name and carried
// into Params built with Use. Failure envelopes and log lines identify a
// provider by its ProviderSpec, whose String form does not include it.
func WithProviderName(name string) ProviderOption {
	return func(m *providerMeta) { m.name = name }
}

// Provider is a user-defined dependency (C4 "USER_PROVIDER"): a factory
// function plus its own declared dependency edges, cached per its
// ScopeKind like any other graph node.
type Provider[T any] struct {
	providerMeta
	spec     ProviderSpec
	depSlots []depSlot
	run      func(rc *ResolveContext) (T, error)
}

func (p *Provider[T]) Spec() ProviderSpec  { return p.spec }
func (p *Provider[T]) Name() string        { return p.name }
func (p *Provider[T]) Scope() ScopeKind    { return p.scope }
func (p *Provider[T]) IsAsync() bool       { return p.async }
func (p *Provider[T]) Deps() []erasedDep {
	out := make([]erasedDep, len(p.depSlots))
	for i, d := range p.depSlots {
		out[i] = d.erase()
	}
	return out
}

func (p *Provider[T]) invokeAny(rc *ResolveContext) (any, error) {
	return p.run(rc)
}

func newProvider[T any](depSlots []depSlot, run func(rc *ResolveContext) (T, error), opts []ProviderOption) *Provider[T] {
	var zero T
	p := &Provider[T]{
		providerMeta: providerMeta{scope: Transient},
		depSlots:     depSlots,
	}
	p.spec = userSpec(p, reflect.TypeOf(&zero).Elem())
	p.run = run
	for _, opt := range opts {
		opt(&p.providerMeta)
	}
	return p
}

// Provide declares a dependency-free provider.
func Provide[T any](factory func(rc *ResolveContext) (T, error), opts ...ProviderOption) *Provider[T] {
	return newProvider[T](nil, factory, opts)
}

// ProvideAsync declares a dependency-free provider whose factory runs on
// its own goroutine rather than the bounded worker pool, for I/O-bound
// work that should not starve synchronous providers of pool slots.
func ProvideAsync[T any](factory func(rc *ResolveContext) (T, error), opts ...ProviderOption) *Provider[T] {
	p := newProvider[T](nil, factory, opts)
	p.async = true
	return p
}
