package depreq

import (
	"context"
	"errors"
	"fmt"
)

// Kind is the stable error taxonomy the dispatcher maps to HTTP status codes.
type Kind string

const (
	KindMissingHeader    Kind = "MISSING_HEADER"
	KindMissingCookie    Kind = "MISSING_COOKIE"
	KindMissingQuery     Kind = "MISSING_QUERY"
	KindInvalidHeader    Kind = "INVALID_HEADER"
	KindInvalidCookie    Kind = "INVALID_COOKIE"
	KindInvalidQuery     Kind = "INVALID_QUERY"
	KindInvalidPathParam Kind = "INVALID_PATH_PARAM"
	KindInvalidBody      Kind = "INVALID_BODY"
	KindUnsupportedMedia Kind = "UNSUPPORTED_MEDIA_TYPE"
	KindRouteNotFound    Kind = "ROUTE_NOT_FOUND"
	KindMethodNotAllowed Kind = "METHOD_NOT_ALLOWED"
	KindTimeout          Kind = "TIMEOUT"
	KindInternal         Kind = "INTERNAL"
)

// Status returns the HTTP status this Kind maps to per the error envelope
// taxonomy.
func (k Kind) Status() int {
	switch k {
	case KindMissingHeader, KindMissingCookie, KindMissingQuery:
		return 400
	case KindInvalidHeader, KindInvalidCookie, KindInvalidQuery, KindInvalidPathParam, KindInvalidBody:
		return 422
	case KindUnsupportedMedia:
		return 415
	case KindRouteNotFound:
		return 404
	case KindMethodNotAllowed:
		return 405
	case KindTimeout:
		return 504
	default:
		return 500
	}
}

// Failure is the structured, exception-free result every provider and the
// resolver itself propagate. It is never thrown across the resolver
// boundary; it is returned, wrapped, and eventually translated into an HTTP
// response by the dispatcher.
type Failure struct {
	Kind    Kind
	Source  string // provider source tag, e.g. "header", "query", "json-body"
	Name    string // parameter/source name, e.g. "x-token", "q"
	Message string
	Cause   error
}

func (f *Failure) Error() string {
	if f.Name != "" {
		return fmt.Sprintf("%s: %s %q: %s", f.Kind, f.Source, f.Name, f.Message)
	}
	return fmt.Sprintf("%s: %s: %s", f.Kind, f.Source, f.Message)
}

func (f *Failure) Unwrap() error { return f.Cause }

func missing(kind Kind, source, name string) *Failure {
	return &Failure{Kind: kind, Source: source, Name: name, Message: fmt.Sprintf("Missing required %s %q", source, name)}
}

func invalid(kind Kind, source, name string, cause error) *Failure {
	msg := fmt.Sprintf("Invalid %s %q", source, name)
	if cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, cause)
	}
	return &Failure{Kind: kind, Source: source, Name: name, Message: msg, Cause: cause}
}

// internalFailure wraps an unexpected provider/handler error (panic or a
// returned error that isn't already a *Failure) as KindInternal. The
// detailed cause is preserved for logs; the HTTP body produced for it is
// intentionally generic (see renderFailure in response.go).
func internalFailure(context string, cause error) *Failure {
	return &Failure{
		Kind:    KindInternal,
		Source:  context,
		Message: "internal error",
		Cause:   cause,
	}
}

// AsFailure unwraps err into a *Failure, synthesizing a KindInternal
// envelope if it isn't one already: a single place that turns arbitrary
// provider/handler errors into the structured shape the dispatcher
// understands.
func AsFailure(source string, err error) *Failure {
	if err == nil {
		return nil
	}
	var f *Failure
	if asFailure(err, &f) {
		return f
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &Failure{Kind: KindTimeout, Source: source, Message: "request timed out", Cause: err}
	}
	return internalFailure(source, err)
}

func asFailure(err error, target **Failure) bool {
	for err != nil {
		if f, ok := err.(*Failure); ok {
			*target = f
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

// CycleError reports a dependency cycle discovered the first time a path
// through it is demanded: without a separate build phase to validate the
// graph ahead of time, a cycle surfaces as a resolution-time failure
// instead of a construction-time panic.
type CycleError struct {
	Path []ProviderSpec
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle detected: %v", e.Path)
}
