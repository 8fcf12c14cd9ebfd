package depreq

import (
	"reflect"
	"sync"
)

// erasedDep is the type-erased view of one dependency edge, returned by
// Deps for graph introspection where the concrete element type doesn't
// matter. Its fields are unexported, so only this package can read them.
type erasedDep struct {
	name     string
	spec     ProviderSpec
	scope    ScopeKind
	lazy     bool
	provider AnyProvider // nil for a parameter-source dependency
}

// depSlot is implemented by both Param[T] and LazyParam[T] so ProvideN /
// HandlerN can introspect a dependency without knowing its element type.
type depSlot interface {
	erase() erasedDep
}

// Dep is one resolvable dependency slot of element type T. *Param[T] and
// *LazyParam[T] (for T = *Lazy[U]) both implement it.
type Dep[T any] interface {
	depSlot
	build(rs *requestScope, path []ProviderSpec) (T, *Failure)
}

// extractor pulls a raw, already-coerced value for a parameter-source
// Param out of a request, returning a structured *Failure on any problem
// (missing source, type mismatch, unsupported media type, ...).
type extractor[T any] func(req *Request, cfg Config) (T, *Failure)

// Param declares one dependency: a value of type T sourced either from
// the request (a parameter-source provider, C2) or from a user Provider
// (C4 "USER_PROVIDER"), cached per its ScopeKind.
type Param[T any] struct {
	name       string
	spec       ProviderSpec
	scope      ScopeKind
	hasDefault bool
	defaultVal T

	extract  extractor[T]
	provider AnyProvider
}

func (p *Param[T]) erase() erasedDep {
	return erasedDep{name: p.name, spec: p.spec, scope: p.scope, provider: p.provider}
}

func (p *Param[T]) build(rs *requestScope, path []ProviderSpec) (T, *Failure) {
	return resolveParam(rs, p, path)
}

// ParamOption configures a Param at construction time.
type ParamOption[T any] func(*Param[T])

// WithScope overrides a Param's scope. Parameter-source params default to
// Transient; params built with Use(provider) inherit the provider's own
// scope unless overridden here.
func WithScope[T any](s ScopeKind) ParamOption[T] {
	return func(p *Param[T]) { p.scope = s }
}

// WithDefault supplies a fallback value used when the source is missing
// (C2: "if the handler parameter declares a default value and the source
// is missing, the default is used; no error").
func WithDefault[T any](v T) ParamOption[T] {
	return func(p *Param[T]) {
		p.hasDefault = true
		p.defaultVal = v
	}
}

func newSourceParam[T any](source SourceTag, name string, extract extractor[T], opts []ParamOption[T]) *Param[T] {
	var zero T
	p := &Param[T]{
		name:    name,
		spec:    sourceSpec(source, name, reflect.TypeOf(&zero).Elem()),
		scope:   Transient,
		extract: extract,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Use turns a user Provider into a Param usable as a handler or provider
// dependency, inheriting the provider's declared scope by default.
func Use[T any](provider *Provider[T], opts ...ParamOption[T]) *Param[T] {
	p := &Param[T]{
		name:     provider.name,
		spec:     provider.spec,
		scope:    provider.scope,
		provider: provider,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Lazy is a cooperative, one-shot memoizing future: its subgraph runs at
// most once, on the first call to Get, guarded by a single-writer lock
// (sync.Once).
type Lazy[T any] struct {
	once    sync.Once
	val     T
	failure *Failure
	resolve func() (T, *Failure)
}

// Get activates the deferred subgraph on first call and memoizes the
// outcome (value or failure) for every subsequent call.
func (l *Lazy[T]) Get() (T, error) {
	l.once.Do(func() { l.val, l.failure = l.resolve() })
	if l.failure != nil {
		return l.val, l.failure
	}
	return l.val, nil
}

// LazyParam wraps a Param[T] so a handler or provider receives a
// *Lazy[T] deferred handle instead of a resolved T.
type LazyParam[T any] struct {
	inner *Param[T]
}

// AsLazy defers p: the handler receives a *Lazy[T] and p's provider
// function is invoked zero times unless the handle is activated.
func AsLazy[T any](p *Param[T]) *LazyParam[T] {
	return &LazyParam[T]{inner: p}
}

func (l *LazyParam[T]) erase() erasedDep {
	e := l.inner.erase()
	e.lazy = true
	return e
}

func (l *LazyParam[T]) build(rs *requestScope, _ []ProviderSpec) (*Lazy[T], *Failure) {
	inner := l.inner
	return &Lazy[T]{
		resolve: func() (T, *Failure) {
			return resolveParam(rs, inner, nil)
		},
	}, nil
}
