package depreq

import (
	"context"
	"encoding/json"
)

// Detached is the return value of a DetachedCommandRoute handler that
// wants to keep working after its response has been sent. Response is
// adapted and flushed to the client immediately; Continue, if non-nil,
// then runs in a Container-tracked background goroutine so Container.Stop
// can still wait for it to finish before the process exits.
type Detached struct {
	Response any
	Continue func(ctx context.Context)
}

// RawResponse lets a handler take full control of the status code,
// content type and body bytes instead of relying on the default JSON
// envelope.
type RawResponse struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// StreamResponse lets a query handler stream its body back incrementally
// instead of producing it all at once.
type StreamResponse struct {
	ContentType string
	Chunks      <-chan Chunk
}

// renderedResponse is what the dispatcher ultimately writes to the
// transport, after a handler's return value has been adapted.
type renderedResponse struct {
	statusCode  int
	contentType string
	body        []byte
	stream      <-chan Chunk
}

// adaptResponse turns a handler's return value into something the
// dispatcher can write: []byte and string pass through verbatim, a
// RawResponse/StreamResponse is used as-is, and anything else is
// marshaled as a JSON envelope.
func adaptResponse(v any) (renderedResponse, error) {
	switch t := v.(type) {
	case nil:
		return renderedResponse{statusCode: 204}, nil
	case RawResponse:
		status := t.StatusCode
		if status == 0 {
			status = 200
		}
		ct := t.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		return renderedResponse{statusCode: status, contentType: ct, body: t.Body}, nil
	case StreamResponse:
		ct := t.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		return renderedResponse{statusCode: 200, contentType: ct, stream: t.Chunks}, nil
	case []byte:
		return renderedResponse{statusCode: 200, contentType: "application/octet-stream", body: t}, nil
	case string:
		return renderedResponse{statusCode: 200, contentType: "text/plain; charset=utf-8", body: []byte(t)}, nil
	default:
		body, err := json.Marshal(t)
		if err != nil {
			return renderedResponse{}, err
		}
		return renderedResponse{statusCode: 200, contentType: "application/json; charset=utf-8", body: body}, nil
	}
}

// renderFailure turns a *Failure into the JSON error envelope every
// non-2xx response carries.
func renderFailure(f *Failure) renderedResponse {
	body, _ := json.Marshal(struct {
		Kind    Kind   `json:"kind"`
		Source  string `json:"source,omitempty"`
		Name    string `json:"name,omitempty"`
		Message string `json:"message"`
	}{Kind: f.Kind, Source: f.Source, Name: f.Name, Message: f.Message})
	return renderedResponse{statusCode: f.Kind.Status(), contentType: "application/json; charset=utf-8", body: body}
}
