package outcome

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
)

type contextKey struct {
	name string
}

var (
	outcomeContextKey = &contextKey{"outcome"}
	requestIDKey      = &contextKey{"request_id"}
)

// Context carries per-request metadata through interceptors and handlers.
// It implements context.Context.
type Context struct {
	context.Context
	operation string
	request   *http.Request
	logger    *slog.Logger
}

// NewContext returns a Context for operation. It is used by the App for
// every request and is exported for testing interceptors.
func NewContext(parent context.Context, operation string) *Context {
	c := &Context{operation: operation}
	c.Context = context.WithValue(parent, outcomeContextKey, c)
	return c
}

func newRequestContext(r *http.Request, operation string, logger *slog.Logger) *Context {
	c := NewContext(r.Context(), operation)
	c.request = r
	c.logger = logger
	return c
}

// Operation returns the name of the operation being served.
func (c *Context) Operation() string {
	return c.operation
}

// Request returns the HTTP request, or nil outside of an HTTP call.
func (c *Context) Request() *http.Request {
	return c.request
}

// Logger returns the App's logger annotated with the operation and request ID.
func (c *Context) Logger() *slog.Logger {
	logger := c.logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("operation", c.operation))
	if id := RequestIDFromContext(c); id != "" {
		logger = logger.With(slog.String("request_id", id))
	}
	return logger
}

// FromContext returns the Context stored in ctx, if any.
func FromContext(ctx context.Context) (*Context, bool) {
	if c, ok := ctx.(*Context); ok {
		return c, true
	}
	c, ok := ctx.Value(outcomeContextKey).(*Context)
	return c, ok
}

// OperationFromContext returns the name of the operation being served.
func OperationFromContext(ctx context.Context) (string, bool) {
	c, ok := FromContext(ctx)
	if !ok {
		return "", false
	}
	return c.operation, true
}

// RequestURL returns the path and query of the request being served, or nil
// outside of an HTTP call. Scheme and host are dropped so links built from it
// stay relative.
func RequestURL(ctx context.Context) *url.URL {
	c, ok := FromContext(ctx)
	if !ok || c.request == nil {
		return nil
	}
	u := *c.request.URL
	u.Scheme, u.Host = "", ""
	return &u
}

// WithRequestID returns a copy of ctx carrying the request ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext returns the request ID set by WithRequestID, or "".
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
