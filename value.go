package outcome

import (
	"net/http"
	"strconv"
)

// Outcome is implemented by every result a handler can return.
// API packages define one sealed interface per operation whose variants
// implement Outcome by converting themselves into a Value.
type Outcome interface {
	Outcome() Value
}

// Value is the runtime result of one handler invocation: a tag, a body, and
// the header values the handler populated. The dispatcher decides which of
// the headers reach the wire.
type Value struct {
	Tag     Tag
	Body    any
	Headers map[string]string
}

// Of returns a Value with the given tag and body.
func Of(tag Tag, body any) Value {
	return Value{Tag: tag, Body: body}
}

// Outcome implements Outcome.
func (v Value) Outcome() Value {
	return v
}

// WithHeader returns a copy of v with the header set.
// An empty value removes any value set earlier, leaving the header unset.
func (v Value) WithHeader(name, value string) Value {
	name = http.CanonicalHeaderKey(name)
	if _, ok := v.Headers[name]; !ok && value == "" {
		return v
	}
	headers := make(map[string]string, len(v.Headers)+1)
	for k, val := range v.Headers {
		headers[k] = val
	}
	if value == "" {
		delete(headers, name)
	} else {
		headers[name] = value
	}
	v.Headers = headers
	return v
}

// WithIntHeader returns a copy of v with an integer-valued header set.
func (v Value) WithIntHeader(name string, n int) Value {
	return v.WithHeader(name, strconv.Itoa(n))
}

// WithLinks returns a copy of v with an RFC 5988 Link header built from links.
// No header is set when links is empty.
func (v Value) WithLinks(links []Link) Value {
	return v.WithHeader("Link", FormatLinks(links))
}

// WithPagination returns a copy of v carrying the pagination headers of p.
func (v Value) WithPagination(p Pagination) Value {
	for _, h := range p.Headers() {
		v = v.WithHeader(h.Name, h.Value)
	}
	return v
}

// Header returns the handler-supplied value for name.
func (v Value) Header(name string) (string, bool) {
	if len(v.Headers) == 0 {
		return "", false
	}
	if val, ok := v.Headers[name]; ok && val != "" {
		return val, true
	}
	for k, val := range v.Headers {
		if http.CanonicalHeaderKey(k) == name && val != "" {
			return val, true
		}
	}
	return "", false
}
