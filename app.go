package outcome

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"sort"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/broady/outcome/internal/meta"
)

// App routes HTTP requests to endpoints and writes their dispatched outcomes.
// It is the thin net/http adapter around a Registry and a Dispatcher.
// Use Handler() to get an http.Handler for use with http.ListenAndServe.
type App struct {
	mu           sync.RWMutex
	registry     *Registry
	routes       map[string]endpointHandler
	interceptors []Interceptor
	middlewares  []func(http.Handler) http.Handler
	logger       *slog.Logger
	tracer       trace.Tracer
	serializer   Serializer
	propagator   propagation.TextMapPropagator
	maxBodySize  int64
}

// NewApp returns an App serving the operations registered in reg.
func NewApp(reg *Registry) *App {
	return &App{
		registry:    reg,
		routes:      make(map[string]endpointHandler),
		maxBodySize: defaultMaxBodySize,
	}
}

// WithInterceptor adds a global interceptor.
// Global interceptors run before handler interceptors; within each level,
// interceptors run in the order they were added.
func (a *App) WithInterceptor(i Interceptor) *App {
	a.interceptors = append(a.interceptors, i)
	return a
}

// WithMiddleware adds an HTTP middleware to wrap the app.
// Middleware is applied in the order added (first added is outermost).
func (a *App) WithMiddleware(mw func(http.Handler) http.Handler) *App {
	a.middlewares = append(a.middlewares, mw)
	return a
}

// WithLogger sets a custom logger for the app.
// If not set, slog.Default() will be used.
func (a *App) WithLogger(logger *slog.Logger) *App {
	a.logger = logger
	return a
}

// WithTracer sets the tracer used for dispatch spans.
func (a *App) WithTracer(t trace.Tracer) *App {
	a.tracer = t
	return a
}

// WithPropagator sets the propagator used to extract the caller's trace
// context from request headers, so dispatch spans join the incoming trace.
// If not set, the global otel propagator is used.
func (a *App) WithPropagator(p propagation.TextMapPropagator) *App {
	a.propagator = p
	return a
}

// WithSerializer sets the body serializer. Default is JSONSerializer.
func (a *App) WithSerializer(s Serializer) *App {
	a.serializer = s
	return a
}

// WithMaxRequestBodySize sets the default maximum request body size for all handlers.
// Individual handlers can override this with Handler.WithMaxRequestBodySize.
// A value of 0 means no limit. Default is 1MB (1 << 20).
func (a *App) WithMaxRequestBodySize(size int64) *App {
	a.maxBodySize = size
	return a
}

// Registry returns the registry the app serves.
func (a *App) Registry() *Registry {
	return a.registry
}

// Route adds an endpoint. Its operation must be registered with a method
// and a path, and may be routed only once.
func (a *App) Route(e Endpoint) error {
	h, ok := e.(endpointHandler)
	if !ok {
		return fmt.Errorf("outcome: endpoint for %q must be created with NewHandler", e.Operation())
	}
	op, ok := a.registry.Operation(h.Operation())
	if !ok {
		return fmt.Errorf("outcome: operation %q is not registered", h.Operation())
	}
	if op.Method == "" || op.Path == "" {
		return fmt.Errorf("outcome: operation %q has no method or path", op.Name)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if _, exists := a.routes[op.Name]; exists {
		return fmt.Errorf("outcome: operation %q already routed", op.Name)
	}
	a.routes[op.Name] = h
	return nil
}

// MustRoute is like Route but panics on error.
func (a *App) MustRoute(endpoints ...Endpoint) {
	for _, e := range endpoints {
		if err := a.Route(e); err != nil {
			panic(err)
		}
	}
}

// Endpoints returns metadata for every routed operation, sorted by operation name.
func (a *App) Endpoints() []*meta.EndpointMetadata {
	a.mu.RLock()
	defer a.mu.RUnlock()

	out := make([]*meta.EndpointMetadata, 0, len(a.routes))
	for name, h := range a.routes {
		m := h.Metadata()
		if op, ok := a.registry.Operation(name); ok {
			m.Method = op.Method
			m.Path = op.Path
			for _, c := range op.Contracts {
				om := meta.OutcomeMetadata{Tag: string(c.Tag), Status: c.Status, Body: c.Body.String()}
				for _, r := range c.RequiredHeaders() {
					om.Required = append(om.Required, r.Name)
				}
				for _, r := range c.OptionalHeaders() {
					om.Optional = append(om.Optional, r.Name)
				}
				m.Outcomes = append(m.Outcomes, om)
			}
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Operation < out[j].Operation })
	return out
}

// Dispatcher returns a dispatcher configured like the one the app uses.
func (a *App) Dispatcher() *Dispatcher {
	return NewDispatcher(a.registry,
		WithLogger(a.logger),
		WithTracer(a.tracer),
		WithSerializer(a.serializer),
	)
}

// Handler returns an http.Handler for use with http.ListenAndServe or other
// HTTP servers. The returned handler includes all configured middleware.
// Routes added after Handler is called are not served by it.
//
// Example:
//
//	app := outcome.NewApp(reg).WithMiddleware(cors)
//	http.ListenAndServe(":8080", app.Handler())
func (a *App) Handler() http.Handler {
	cfg := &serveConfig{
		dispatcher:   a.Dispatcher(),
		interceptors: a.interceptors,
		logger:       a.logger,
		maxBodySize:  a.maxBodySize,
	}

	mux := chi.NewRouter()
	mux.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, NewError(CodeNotFound, "route not found"), a.logger)
	})
	mux.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, Errorf(CodeMethodNotAllowed, "method %s not allowed", r.Method), a.logger)
	})

	a.mu.RLock()
	for name, h := range a.routes {
		op, _ := a.registry.Operation(name)
		mux.Method(strings.ToUpper(op.Method), op.Path, a.serve(h, cfg))
	}
	a.mu.RUnlock()

	var handler http.Handler = mux
	// Apply middleware in reverse order so first added is outermost
	for i := len(a.middlewares) - 1; i >= 0; i-- {
		handler = a.middlewares[i](handler)
	}
	return handler
}

func (a *App) serve(h endpointHandler, cfg *serveConfig) http.HandlerFunc {
	prop := a.propagator
	if prop == nil {
		prop = otel.GetTextMapPropagator()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		r = r.WithContext(prop.Extract(r.Context(), propagation.HeaderCarrier(r.Header)))
		ctx := newRequestContext(r, h.Operation(), a.logger)
		defer func() {
			if rec := recover(); rec != nil {
				cfg.log().ErrorContext(ctx, "PANIC recovered",
					slog.String("operation", h.Operation()),
					slog.Any("panic", rec),
					slog.String("stack", string(debug.Stack())))
				WriteFault(w, RequestIDFromContext(ctx), a.logger)
			}
		}()
		h.serveHTTP(ctx, w, cfg)
	}
}
