package depreq

import "github.com/gorilla/schema"

var queryStructDecoder = func() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}()

// QueryStruct decodes the full query string into a struct T using
// `schema:"..."` field tags, for handlers that take a whole filter/paging
// object instead of one parameter at a time.
func QueryStruct[T any](opts ...ParamOption[T]) *Param[T] {
	return newSourceParam(SourceQueries, "*", func(req *Request, _ Config) (T, *Failure) {
		var out T
		values := map[string][]string{}
		for _, qp := range req.Query() {
			values[qp.Key] = append(values[qp.Key], qp.Value)
		}
		if err := queryStructDecoder.Decode(&out, values); err != nil {
			var zero T
			return zero, invalid(KindInvalidQuery, string(SourceQueries), "*", err)
		}
		return out, nil
	}, opts)
}
