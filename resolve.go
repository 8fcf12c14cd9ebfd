package depreq

import "context"

// extendPath returns a copy of path with spec appended, never sharing a
// backing array with path (safe to call from concurrent sibling builds).
func extendPath(path []ProviderSpec, spec ProviderSpec) []ProviderSpec {
	out := make([]ProviderSpec, len(path)+1)
	copy(out, path)
	out[len(path)] = spec
	return out
}

func cycleFailure(path []ProviderSpec) *Failure {
	return &Failure{
		Kind:    KindInternal,
		Source:  "graph",
		Message: (&CycleError{Path: path}).Error(),
		Cause:   &CycleError{Path: path},
	}
}

func isMissingKind(k Kind) bool {
	switch k {
	case KindMissingHeader, KindMissingCookie, KindMissingQuery:
		return true
	default:
		return false
	}
}

// resolveParam is the shared entry point for every Param[T].build call: it
// applies cycle detection, scope-based caching, and the at-most-once
// in-flight guard before handing off to invokeTyped for the actual
// evaluation.
func resolveParam[T any](rs *requestScope, p *Param[T], path []ProviderSpec) (T, *Failure) {
	var zero T
	spec := p.spec
	for _, s := range path {
		if s == spec {
			return zero, cycleFailure(extendPath(path, spec))
		}
	}
	newPath := extendPath(path, spec)

	invoke := func() (any, *Failure) {
		return invokeTyped(rs, p, spec, newPath)
	}

	var v any
	var f *Failure
	switch p.scope {
	case Singleton:
		v, f = rs.container.resolveSingleton(spec, invoke)
	case Request:
		v, f = rs.resolveRequestScoped(spec, invoke)
	default:
		v, f = invoke()
	}
	if f != nil {
		return zero, f
	}
	if v == nil {
		return zero, nil
	}
	return v.(T), nil
}

func invokeTyped[T any](rs *requestScope, p *Param[T], spec ProviderSpec, path []ProviderSpec) (any, *Failure) {
	var value T

	if entry, ok := rs.container.activeMock(spec); ok {
		if entry.isValue {
			value = entry.value.(T)
		} else {
			rc := &ResolveContext{ctx: rs.ctx, spec: spec, rs: rs, path: path}
			raw, err := entry.provider.invokeAny(rc)
			if err != nil {
				return nil, AsFailure(spec.String(), err)
			}
			value = raw.(T)
		}
	} else if p.provider != nil {
		rc := &ResolveContext{ctx: rs.ctx, spec: spec, rs: rs, path: path}
		var raw any
		var err error
		if p.provider.IsAsync() {
			raw, err = runAsync(rs.ctx, func(ctx context.Context) (any, error) {
				rc.ctx = ctx
				return p.provider.invokeAny(rc)
			})
		} else {
			raw, err = poolRun(rs.container.pool, rs.ctx, func() (any, error) {
				return p.provider.invokeAny(rc)
			})
		}
		if err != nil {
			return nil, AsFailure(spec.String(), err)
		}
		value = raw.(T)
	} else if p.extract != nil {
		v, f := p.extract(rs.request, rs.container.cfg)
		if f != nil {
			if p.hasDefault && isMissingKind(f.Kind) {
				value = p.defaultVal
			} else {
				return nil, f
			}
		} else {
			value = v
		}
	} else {
		value = p.defaultVal
	}

	entry, acquired, err := detectResource(rs.ctx, spec, any(value))
	if err != nil {
		return nil, AsFailure(spec.String(), err)
	}
	if acquired {
		if p.scope == Singleton {
			rs.container.singletonMu.Lock()
			rs.container.singletonRelease.push(entry)
			rs.container.singletonMu.Unlock()
		} else {
			rs.mu.Lock()
			rs.release.push(entry)
			rs.mu.Unlock()
		}
	}

	return value, nil
}
