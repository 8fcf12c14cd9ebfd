package depreq

import "net/http"

// HTTPHandler adapts a Container and Table into an http.Handler.
type HTTPHandler struct {
	Container *Container
	Table     *Table
}

func (h *HTTPHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ServeHTTP(h.Container, h.Table, w, r)
}

// ServeHTTP adapts a stdlib http.Request/ResponseWriter pair into the
// Request/Dispatch flow: it builds a Request from r, dispatches it against
// table, and writes the rendered response (or streams it, chunk by chunk,
// for a StreamResponse) back through w.
func ServeHTTP(c *Container, table *Table, w http.ResponseWriter, r *http.Request) {
	var query []QueryPair
	for k, vs := range r.URL.Query() {
		for _, v := range vs {
			query = append(query, QueryPair{Key: k, Value: v})
		}
	}

	req := NewRequest(r.Method, r.URL.Path, nil, query, r.Header, r.Header.Get("Cookie"), r.Body)
	rendered := Dispatch(r.Context(), c, table, req)

	if rendered.stream != nil {
		if rendered.contentType != "" {
			w.Header().Set("Content-Type", rendered.contentType)
		}
		w.WriteHeader(rendered.statusCode)
		flusher, _ := w.(http.Flusher)
		writeFailed := false
		// Keep ranging over rendered.stream even after a write failure so
		// the producer goroutine (which releases the request scope once
		// the channel is drained) is never left blocked on a send.
		for chunk := range rendered.stream {
			if writeFailed || chunk.Err != nil {
				continue
			}
			if _, err := w.Write(chunk.Data); err != nil {
				writeFailed = true
				continue
			}
			if flusher != nil {
				flusher.Flush()
			}
		}
		return
	}

	if rendered.contentType != "" {
		w.Header().Set("Content-Type", rendered.contentType)
	}
	w.WriteHeader(rendered.statusCode)
	_, _ = w.Write(rendered.body)
}
