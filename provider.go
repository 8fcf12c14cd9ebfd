package depreq

import "reflect"

// ScopeKind is the lifetime over which a provider's value is cached.
type ScopeKind int

const (
	// Transient providers are re-evaluated at every dependency edge.
	Transient ScopeKind = iota
	// Request providers are evaluated at most once per request.
	Request
	// Singleton providers are evaluated at most once per container lifetime.
	Singleton
	// Lazy marks a dependency as deferred in the annotation vocabulary; the
	// deferral itself is expressed by wrapping a Param in AsLazy rather than
	// by setting this scope directly (AsLazy's wrapped Param keeps its own
	// Transient/Request/Singleton scope for caching purposes).
	Lazy
)

func (s ScopeKind) String() string {
	switch s {
	case Transient:
		return "transient"
	case Request:
		return "request"
	case Singleton:
		return "singleton"
	case Lazy:
		return "lazy"
	default:
		return "unknown"
	}
}

// SourceTag names a parameter-source provider (C2).
type SourceTag string

const (
	SourceHeader   SourceTag = "header"
	SourceHeaders  SourceTag = "headers"
	SourceCookie   SourceTag = "cookie"
	SourceQuery    SourceTag = "query"
	SourceQueries  SourceTag = "queries"
	SourcePath     SourceTag = "path"
	SourceBody     SourceTag = "body"
	SourceJSONBody SourceTag = "json-body"
	SourceRawBody  SourceTag = "raw-body"
	// sourceUser marks a ProviderSpec that belongs to a user-defined
	// Provider rather than a built-in request-source provider.
	sourceUser SourceTag = "user-provider"
)

// ProviderSpec is the DAG node identity used for graph and cache keying
// (C4). Two Params that describe the same parameter-source provider (same
// source, name and target type) compare equal by plain struct equality;
// two Params built from the same *Provider[T] compare equal because
// userKey holds that provider's pointer.
type ProviderSpec struct {
	source     SourceTag
	name       string
	targetType reflect.Type
	userKey    any
}

func (s ProviderSpec) String() string {
	if s.source == sourceUser {
		return "provider(" + s.targetType.String() + ")"
	}
	if s.name == "" {
		return string(s.source) + "(" + s.targetType.String() + ")"
	}
	return string(s.source) + "(" + s.name + ") " + s.targetType.String()
}

// IsUserProvider reports whether this spec identifies a user Provider
// rather than a built-in parameter-source provider.
func (s ProviderSpec) IsUserProvider() bool { return s.source == sourceUser }

func sourceSpec(source SourceTag, name string, t reflect.Type) ProviderSpec {
	return ProviderSpec{source: source, name: name, targetType: t}
}

func userSpec(key any, t reflect.Type) ProviderSpec {
	return ProviderSpec{source: sourceUser, targetType: t, userKey: key}
}
