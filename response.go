package outcome

import (
	"encoding/json"
	"net/http"
	"strconv"
)

// Response is the transport-neutral result of a dispatch.
// Headers are kept in emission order so responses are deterministic.
type Response struct {
	Status  int
	Headers []HeaderField
	Body    []byte
}

// Header returns the value of the named header, or "".
func (r *Response) Header(name string) string {
	name = http.CanonicalHeaderKey(name)
	for _, h := range r.Headers {
		if h.Name == name {
			return h.Value
		}
	}
	return ""
}

// HasHeader reports whether the response carries the named header.
func (r *Response) HasHeader(name string) bool {
	name = http.CanonicalHeaderKey(name)
	for _, h := range r.Headers {
		if h.Name == name {
			return true
		}
	}
	return false
}

// WriteTo writes the response to w. It is the net/http adapter of the dispatcher.
func (r *Response) WriteTo(w http.ResponseWriter) error {
	header := w.Header()
	for _, h := range r.Headers {
		header.Set(h.Name, h.Value)
	}
	if len(r.Body) > 0 {
		header.Set("Content-Length", strconv.Itoa(len(r.Body)))
	}
	w.WriteHeader(r.Status)
	if len(r.Body) == 0 {
		return nil
	}
	_, err := w.Write(r.Body)
	return err
}

// Serializer turns a body value into bytes of a single media type.
type Serializer interface {
	MediaType() string
	Marshal(v any) ([]byte, error)
}

// JSONSerializer encodes bodies as application/json.
type JSONSerializer struct{}

func (JSONSerializer) MediaType() string { return "application/json" }

func (JSONSerializer) Marshal(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	// Match json.Encoder output so bodies end in a newline.
	return append(b, '\n'), nil
}
