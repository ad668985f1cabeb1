package outcome

import (
	"context"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/broady/outcome"

// Dispatcher turns handler outcomes into responses according to the
// contracts in a Registry. It holds no per-request state and is safe for
// concurrent use.
type Dispatcher struct {
	registry   *Registry
	serializer Serializer
	logger     *slog.Logger
	tracer     trace.Tracer
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithSerializer sets the body serializer. The default is JSONSerializer.
func WithSerializer(s Serializer) DispatcherOption {
	return func(d *Dispatcher) {
		if s != nil {
			d.serializer = s
		}
	}
}

// WithLogger sets the logger used to report faults.
// If not set, slog.Default() will be used.
func WithLogger(logger *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// WithTracer sets the tracer used for dispatch spans.
// If not set, the global otel tracer provider is used.
func WithTracer(t trace.Tracer) DispatcherOption {
	return func(d *Dispatcher) {
		d.tracer = t
	}
}

// NewDispatcher returns a dispatcher for the operations in reg.
func NewDispatcher(reg *Registry, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		registry:   reg,
		serializer: JSONSerializer{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Registry returns the registry the dispatcher reads contracts from.
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

func (d *Dispatcher) log() *slog.Logger {
	if d.logger == nil {
		return slog.Default()
	}
	return d.logger
}

func (d *Dispatcher) startSpan(ctx context.Context, operation string) (context.Context, trace.Span) {
	tracer := d.tracer
	if tracer == nil {
		tracer = otel.Tracer(instrumentationName)
	}
	return tracer.Start(ctx, "outcome.Dispatch",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("outcome.operation", operation)),
	)
}

// Dispatch matches o against the contracts of operation and builds the
// response. The returned error is non-nil only for faults: an undeclared tag
// (*UnknownOutcomeError), a missing required header
// (*MissingRequiredHeaderError), or a serializer failure
// (*SerializationError). A fault never comes with a response, so nothing of
// a faulty outcome can reach the wire.
func (d *Dispatcher) Dispatch(ctx context.Context, operation string, o Outcome) (*Response, error) {
	ctx, span := d.startSpan(ctx, operation)
	defer span.End()

	var v Value
	if o != nil {
		v = o.Outcome()
	}
	span.SetAttributes(attribute.String("outcome.tag", string(v.Tag)))

	res, err := d.build(ctx, operation, v)
	if err != nil {
		d.reportFault(ctx, span, operation, v.Tag, err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("http.response.status_code", res.Status))
	return res, nil
}

func (d *Dispatcher) build(ctx context.Context, operation string, v Value) (*Response, error) {
	contract, err := d.registry.ContractFor(operation, v.Tag)
	if err != nil {
		return nil, err
	}

	required := contract.RequiredHeaders()
	optional := contract.OptionalHeaders()
	headers := make([]HeaderField, 0, len(required)+len(optional)+1)
	for _, rule := range required {
		val, ok := v.Header(rule.Name)
		if !ok {
			return nil, &MissingRequiredHeaderError{Header: rule.Name, Operation: operation, Tag: v.Tag}
		}
		headers = append(headers, HeaderField{Name: rule.Name, Value: val})
	}
	for _, rule := range optional {
		if val, ok := v.Header(rule.Name); ok {
			headers = append(headers, HeaderField{Name: rule.Name, Value: val})
		}
	}
	d.logUndeclared(ctx, operation, contract, v)

	res := &Response{Status: contract.Status}
	if !contract.Body.IsEmpty() && !bodyless(contract.Status) {
		body, err := d.serializer.Marshal(v.Body)
		if err != nil {
			return nil, &SerializationError{Operation: operation, Tag: v.Tag, Err: err}
		}
		res.Body = body
		headers = append(headers, HeaderField{Name: "Content-Type", Value: d.serializer.MediaType()})
	}
	res.Headers = headers
	return res, nil
}

// bodyless reports statuses that must never carry a body on the wire.
func bodyless(status int) bool {
	return status == http.StatusNoContent || status == http.StatusNotModified || (status >= 100 && status < 200)
}

func (d *Dispatcher) logUndeclared(ctx context.Context, operation string, c Contract, v Value) {
	for name, val := range v.Headers {
		if val == "" {
			continue
		}
		name = http.CanonicalHeaderKey(name)
		declared := false
		for _, rule := range c.Headers {
			if rule.Name == name {
				declared = true
				break
			}
		}
		if !declared {
			d.log().DebugContext(ctx, "dropping undeclared response header",
				slog.String("operation", operation),
				slog.String("tag", string(v.Tag)),
				slog.String("header", name))
		}
	}
}

func (d *Dispatcher) reportFault(ctx context.Context, span trace.Span, operation string, tag Tag, err error) {
	kind := faultKind(err)
	attrs := []any{
		slog.Bool("fault", true),
		slog.String("kind", kind),
		slog.String("operation", operation),
		slog.String("tag", string(tag)),
	}
	if mh, ok := err.(*MissingRequiredHeaderError); ok {
		attrs = append(attrs, slog.String("header", mh.Header))
	}
	attrs = append(attrs, slog.Any("error", err))
	d.log().ErrorContext(ctx, "outcome contract violation", attrs...)

	span.SetAttributes(
		attribute.Bool("outcome.fault", true),
		attribute.String("outcome.fault.kind", kind),
	)
	span.RecordError(err)
	span.SetStatus(codes.Error, kind)
}
