// Package openapi renders the outcome contracts of a registry as an
// OpenAPI 3 document. Every contract becomes a response of its operation,
// with its status code, body schema, and declared headers.
package openapi

import (
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"

	"github.com/broady/outcome"
)

// Info is the document's info object.
type Info struct {
	Title       string
	Version     string
	Description string
}

type options struct {
	requests map[string]reflect.Type
}

// Option configures Generate.
type Option func(*options)

// WithRequest documents the request parameters and body of operation using
// the `path`, `query`, and `json` tags of req's type.
func WithRequest(operation string, req any) Option {
	return func(o *options) {
		if t := reflect.TypeOf(req); t != nil {
			o.requests[operation] = t
		}
	}
}

// FromApp generates the document for the operations routed by app,
// including their request types.
func FromApp(app *outcome.App, info Info) (*openapi3.Spec, error) {
	var opts []Option
	for _, e := range app.Endpoints() {
		if e.Request == nil {
			continue
		}
		opts = append(opts, withRequestType(e.Operation, e.Request))
	}
	return Generate(app.Registry(), info, opts...)
}

func withRequestType(operation string, t reflect.Type) Option {
	return func(o *options) {
		o.requests[operation] = t
	}
}

// Generate builds an OpenAPI document from every operation in reg that has
// a method and a path.
func Generate(reg *outcome.Registry, info Info, opts ...Option) (*openapi3.Spec, error) {
	o := &options{requests: make(map[string]reflect.Type)}
	for _, opt := range opts {
		opt(o)
	}

	r := openapi3.Reflector{}
	r.Spec = &openapi3.Spec{Openapi: "3.0.3"}
	r.Spec.Info.WithTitle(info.Title).WithVersion(info.Version)
	if info.Description != "" {
		r.Spec.Info.WithDescription(info.Description)
	}

	for _, op := range reg.Operations() {
		if op.Method == "" || op.Path == "" {
			continue
		}
		if err := addOperation(&r, op, o.requests[op.Name]); err != nil {
			return nil, err
		}
	}
	return r.Spec, nil
}

func addOperation(r *openapi3.Reflector, op *outcome.Operation, req reflect.Type) error {
	method := strings.ToUpper(op.Method)
	oc, err := r.NewOperationContext(method, op.Path)
	if err != nil {
		return fmt.Errorf("openapi: %s: %w", op.Name, err)
	}
	oc.SetID(op.Name)
	if op.Summary != "" {
		oc.SetSummary(op.Summary)
	}

	if req != nil {
		for req.Kind() == reflect.Pointer {
			req = req.Elem()
		}
		oc.AddReqStructure(reflect.New(req).Elem().Interface())
	}

	for _, c := range op.Contracts {
		var body any
		if !c.Body.IsEmpty() {
			body = reflect.New(c.Body.Type()).Elem().Interface()
		}
		oc.AddRespStructure(body, openapi.WithHTTPStatus(c.Status))
	}

	if err := r.AddOperation(oc); err != nil {
		return fmt.Errorf("openapi: %s: %w", op.Name, err)
	}
	return decorateResponses(r.Spec, op)
}

// decorateResponses copies the description and header rules of each
// contract into its reflected response.
func decorateResponses(spec *openapi3.Spec, op *outcome.Operation) error {
	item, ok := spec.Paths.MapOfPathItemValues[op.Path]
	if !ok {
		return fmt.Errorf("openapi: %s: path %q missing after reflection", op.Name, op.Path)
	}
	operation, ok := item.MapOfOperationValues[strings.ToLower(op.Method)]
	if !ok {
		return fmt.Errorf("openapi: %s: method %s missing after reflection", op.Name, op.Method)
	}
	for _, c := range op.Contracts {
		ror, ok := operation.Responses.MapOfResponseOrRefValues[strconv.Itoa(c.Status)]
		if !ok || ror.Response == nil {
			return fmt.Errorf("openapi: %s: response %d missing after reflection", op.Name, c.Status)
		}
		resp := ror.Response
		if c.Description != "" {
			resp.Description = c.Description
		}
		if len(c.Headers) == 0 {
			continue
		}
		if resp.Headers == nil {
			resp.Headers = make(map[string]openapi3.HeaderOrRef, len(c.Headers))
		}
		for _, h := range c.Headers {
			resp.Headers[h.Name] = openapi3.HeaderOrRef{Header: header(h)}
		}
	}
	return nil
}

func header(h outcome.HeaderRule) *openapi3.Header {
	required := h.Requiredness == outcome.Required
	typ := openapi3.SchemaTypeString
	if h.Type == outcome.HeaderInteger {
		typ = openapi3.SchemaTypeInteger
	}
	out := &openapi3.Header{
		Required: &required,
		Schema:   &openapi3.SchemaOrRef{Schema: &openapi3.Schema{Type: &typ}},
	}
	desc := h.Description
	if desc == "" {
		desc = defaultDescription(h)
	}
	if desc != "" {
		out.Description = &desc
	}
	return out
}

func defaultDescription(h outcome.HeaderRule) string {
	switch http.CanonicalHeaderKey(h.Name) {
	case "Location":
		return "URL of the created resource."
	case "X-Total-Count":
		return "Total number of items in the collection."
	case "X-Page-Number":
		return "Number of the returned page, starting at 1."
	case "X-Page-Size":
		return "Maximum number of items per page."
	case "Link":
		return "RFC 5988 links to the first, previous, next, and last pages."
	default:
		return ""
	}
}
