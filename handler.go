package outcome

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"reflect"

	"github.com/broady/outcome/internal/meta"
)

// Endpoint is the interface for routable handlers.
// It is exported so users can pass it to App.Route, but sealed so they cannot implement it.
type Endpoint interface {
	// Operation returns the name of the registered operation the endpoint serves.
	Operation() string
	// Metadata returns runtime metadata about the endpoint.
	Metadata() *meta.EndpointMetadata
}

// endpointHandler is the internal interface implemented by Handler.
type endpointHandler interface {
	Endpoint
	serveHTTP(ctx *Context, w http.ResponseWriter, cfg *serveConfig)
	requestType() reflect.Type
}

// serveConfig is the App-level configuration handed to each request.
type serveConfig struct {
	dispatcher   *Dispatcher
	interceptors []Interceptor
	logger       *slog.Logger
	maxBodySize  int64
}

func (c *serveConfig) log() *slog.Logger {
	if c.logger == nil {
		return slog.Default()
	}
	return c.logger
}

// Handler binds a request of type Req, runs the operation's handler
// function, and dispatches its outcome.
type Handler[Req any] struct {
	operation    string
	fn           func(context.Context, Req) Outcome
	interceptors []Interceptor
	maxBodySize  int64
}

// NewHandler creates a handler for a registered operation.
// Req must be a struct or a pointer to a struct; its fields use `path`,
// `query`, and `json` tags for binding and `validate` tags for validation.
func NewHandler[Req any](operation string, fn func(context.Context, Req) Outcome) *Handler[Req] {
	return &Handler[Req]{
		operation: operation,
		fn:        fn,
	}
}

// WithInterceptor adds an interceptor to this handler.
// Handler interceptors run after App interceptors.
func (h *Handler[Req]) WithInterceptor(i Interceptor) *Handler[Req] {
	h.interceptors = append(h.interceptors, i)
	return h
}

// WithMaxRequestBodySize overrides the App's maximum request body size.
func (h *Handler[Req]) WithMaxRequestBodySize(size int64) *Handler[Req] {
	h.maxBodySize = size
	return h
}

// Operation implements Endpoint.
func (h *Handler[Req]) Operation() string {
	return h.operation
}

// Metadata implements Endpoint. Method, Path and Outcomes are filled in by
// the App from the registry.
func (h *Handler[Req]) Metadata() *meta.EndpointMetadata {
	return &meta.EndpointMetadata{
		Operation: h.operation,
		Request:   h.requestType(),
	}
}

func (h *Handler[Req]) requestType() reflect.Type {
	return reflect.TypeFor[Req]()
}

// newRequest allocates the bind target. If Req is a pointer type the
// pointee is allocated; the returned pointer is what Bind decodes into.
func (h *Handler[Req]) newRequest() (target any, get func() Req) {
	t := reflect.TypeFor[Req]()
	if t.Kind() == reflect.Pointer {
		val := reflect.New(t.Elem())
		return val.Interface(), func() Req { return val.Interface().(Req) }
	}
	var req Req
	return &req, func() Req { return req }
}

func (h *Handler[Req]) serveHTTP(ctx *Context, w http.ResponseWriter, cfg *serveConfig) {
	r := ctx.Request()

	limit := cfg.maxBodySize
	if h.maxBodySize != 0 {
		limit = h.maxBodySize
	}

	target, get := h.newRequest()
	var o Outcome
	if err := bind(r, target, limit); err != nil {
		var ve *ValidationError
		if !errors.As(err, &ve) {
			ctx.Logger().ErrorContext(ctx, "request binding failed", slog.Any("error", err))
			WriteFault(w, RequestIDFromContext(ctx), cfg.logger)
			return
		}
		o = ValidationFailed(ve)
	} else {
		o = h.run(ctx, target, get, cfg)
	}

	res, err := cfg.dispatcher.Dispatch(ctx, h.operation, o)
	if err != nil {
		WriteFault(w, RequestIDFromContext(ctx), cfg.logger)
		return
	}
	if err := res.WriteTo(w); err != nil {
		// Status already sent, nothing we can do. Log for debugging.
		ctx.Logger().WarnContext(ctx, "failed to write response body", slog.Any("error", err))
	}
}

func (h *Handler[Req]) run(ctx *Context, target any, get func() Req, cfg *serveConfig) Outcome {
	all := make([]Interceptor, 0, len(cfg.interceptors)+len(h.interceptors))
	all = append(all, cfg.interceptors...)
	all = append(all, h.interceptors...)

	final := func(ctx context.Context, _ any) Outcome {
		return h.fn(ctx, get())
	}
	if chain := chainInterceptors(all); chain != nil {
		return chain(ctx, target, final)
	}
	return final(ctx, target)
}
