package depreq

import "strings"

// Header declares a single required (or defaulted) header value, coerced
// from its first occurrence into T.
func Header[T any](name string, opts ...ParamOption[T]) *Param[T] {
	return newSourceParam(SourceHeader, name, func(req *Request, _ Config) (T, *Failure) {
		var zero T
		raw, ok := req.Header(name)
		if !ok {
			return zero, missing(KindMissingHeader, string(SourceHeader), name)
		}
		v, err := coerceString[T](raw)
		if err != nil {
			return zero, invalid(KindInvalidHeader, string(SourceHeader), name, err)
		}
		return v, nil
	}, opts)
}

// Headers declares every value of a (possibly repeated) header as []T.
// Absence yields an empty slice, never a failure; a coercion failure on
// any element fails the whole parameter.
func Headers[T any](name string, opts ...ParamOption[[]T]) *Param[[]T] {
	return newSourceParam(SourceHeaders, name, func(req *Request, _ Config) ([]T, *Failure) {
		raw := req.Headers(name)
		v, err := coerceStringList[T](raw)
		if err != nil {
			return nil, invalid(KindInvalidHeader, string(SourceHeaders), name, err)
		}
		return v, nil
	}, opts)
}

// Cookie declares a single required (or defaulted) cookie value.
func Cookie[T any](name string, opts ...ParamOption[T]) *Param[T] {
	return newSourceParam(SourceCookie, name, func(req *Request, _ Config) (T, *Failure) {
		var zero T
		raw, ok := req.Cookie(name)
		if !ok {
			return zero, missing(KindMissingCookie, string(SourceCookie), name)
		}
		v, err := coerceString[T](raw)
		if err != nil {
			return zero, invalid(KindInvalidCookie, string(SourceCookie), name, err)
		}
		return v, nil
	}, opts)
}

// QueryParam declares a single required (or defaulted) query value, taken
// from the first occurrence of name.
func QueryParam[T any](name string, opts ...ParamOption[T]) *Param[T] {
	return newSourceParam(SourceQuery, name, func(req *Request, _ Config) (T, *Failure) {
		var zero T
		raw, ok := req.QueryFirst(name)
		if !ok {
			return zero, missing(KindMissingQuery, string(SourceQuery), name)
		}
		v, err := coerceString[T](raw)
		if err != nil {
			return zero, invalid(KindInvalidQuery, string(SourceQuery), name, err)
		}
		return v, nil
	}, opts)
}

// QueryParams declares every value of a repeated query key as []T. Absence
// yields an empty slice, never a failure.
func QueryParams[T any](name string, opts ...ParamOption[[]T]) *Param[[]T] {
	return newSourceParam(SourceQueries, name, func(req *Request, _ Config) ([]T, *Failure) {
		raw := req.QueryAll(name)
		v, err := coerceStringList[T](raw)
		if err != nil {
			return nil, invalid(KindInvalidQuery, string(SourceQueries), name, err)
		}
		return v, nil
	}, opts)
}

// PathParam declares a path variable, coerced into T. A missing path
// variable indicates a routing/registration mismatch rather than a
// malformed request, but is still reported through the same envelope.
func PathParam[T any](name string, opts ...ParamOption[T]) *Param[T] {
	return newSourceParam(SourcePath, name, func(req *Request, _ Config) (T, *Failure) {
		var zero T
		raw, ok := req.PathParam(name)
		if !ok {
			return zero, invalid(KindInvalidPathParam, string(SourcePath), name, nil)
		}
		v, err := coerceString[T](raw)
		if err != nil {
			return zero, invalid(KindInvalidPathParam, string(SourcePath), name, err)
		}
		return v, nil
	}, opts)
}

func enforceMaxBody(raw []byte, cfg Config) *Failure {
	if cfg.MaxBodyBytes > 0 && int64(len(raw)) > cfg.MaxBodyBytes {
		return invalid(KindInvalidBody, string(SourceBody), "", errBodyTooLarge)
	}
	return nil
}

var errBodyTooLarge = bodyTooLargeError{}

type bodyTooLargeError struct{}

func (bodyTooLargeError) Error() string { return "body exceeds configured maximum size" }

// RawBody declares the entire request body decoded as a string using the
// container's configured default encoding (or []byte, left undecoded).
func RawBody[T any](opts ...ParamOption[T]) *Param[T] {
	return newSourceParam(SourceRawBody, "", func(req *Request, cfg Config) (T, *Failure) {
		var zero T
		raw, err := req.BodyBytes()
		if err != nil {
			return zero, invalid(KindInvalidBody, string(SourceRawBody), "", err)
		}
		if f := enforceMaxBody(raw, cfg); f != nil {
			return zero, f
		}
		switch any(zero).(type) {
		case []byte:
			return any(append([]byte(nil), raw...)).(T), nil
		case string:
			s, derr := decodeBytes(raw, cfg.DefaultBodyEncoding)
			if derr != nil {
				return zero, invalid(KindInvalidBody, string(SourceRawBody), "", derr)
			}
			return any(s).(T), nil
		default:
			return zero, invalid(KindInvalidBody, string(SourceRawBody), "", errUnsupportedRawBodyType)
		}
	}, opts)
}

var errUnsupportedRawBodyType = rawBodyTypeError{}

type rawBodyTypeError struct{}

func (rawBodyTypeError) Error() string { return "raw body target must be string or []byte" }

// JSONBody declares the request body decoded as JSON into T, failing with
// KindUnsupportedMedia if the request declares a non-JSON content type.
func JSONBody[T any](opts ...ParamOption[T]) *Param[T] {
	return newSourceParam(SourceJSONBody, "", func(req *Request, cfg Config) (T, *Failure) {
		var zero T
		if ct := req.ContentType(); ct != "" && !strings.Contains(strings.ToLower(ct), "json") {
			return zero, &Failure{Kind: KindUnsupportedMedia, Source: string(SourceJSONBody), Message: "expected a JSON request body, got " + ct}
		}
		raw, err := req.BodyBytes()
		if err != nil {
			return zero, invalid(KindInvalidBody, string(SourceJSONBody), "", err)
		}
		if f := enforceMaxBody(raw, cfg); f != nil {
			return zero, f
		}
		v, derr := coerceJSON[T](raw)
		if derr != nil {
			return zero, invalid(KindInvalidBody, string(SourceJSONBody), "", derr)
		}
		return v, nil
	}, opts)
}

// Body is the polymorphic body source, chosen by the target type: a string
// or []byte target receives the raw body the same way RawBody would; any
// other target is JSON-decoded into T, and a request declaring a non-JSON
// content type fails with KindUnsupportedMedia.
func Body[T any](opts ...ParamOption[T]) *Param[T] {
	return newSourceParam(SourceBody, "", func(req *Request, cfg Config) (T, *Failure) {
		var zero T
		switch any(zero).(type) {
		case string, []byte:
			raw, err := req.BodyBytes()
			if err != nil {
				return zero, invalid(KindInvalidBody, string(SourceBody), "", err)
			}
			if f := enforceMaxBody(raw, cfg); f != nil {
				return zero, f
			}
			if _, ok := any(zero).([]byte); ok {
				return any(append([]byte(nil), raw...)).(T), nil
			}
			s, derr := decodeBytes(raw, cfg.DefaultBodyEncoding)
			if derr != nil {
				return zero, invalid(KindInvalidBody, string(SourceBody), "", derr)
			}
			return any(s).(T), nil
		default:
			if ct := req.ContentType(); ct != "" && !strings.Contains(strings.ToLower(ct), "json") {
				return zero, &Failure{Kind: KindUnsupportedMedia, Source: string(SourceBody), Message: "expected a JSON request body, got " + ct}
			}
			raw, err := req.BodyBytes()
			if err != nil {
				return zero, invalid(KindInvalidBody, string(SourceBody), "", err)
			}
			if f := enforceMaxBody(raw, cfg); f != nil {
				return zero, f
			}
			v, derr := coerceJSON[T](raw)
			if derr != nil {
				return zero, invalid(KindInvalidBody, string(SourceBody), "", derr)
			}
			return v, nil
		}
	}, opts)
}
