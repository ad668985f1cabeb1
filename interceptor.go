package outcome

import (
	"context"
)

// HandlerFunc represents the next handler in an interceptor chain.
// It is passed to [Interceptor] functions to invoke the next interceptor
// or the final handler.
type HandlerFunc func(ctx context.Context, req any) Outcome

// Interceptor is a hook that wraps handler execution.
//
// Interceptors receive *Context for access to request metadata:
//
//	func timing(ctx *outcome.Context, req any, next outcome.HandlerFunc) outcome.Outcome {
//	    start := time.Now()
//	    o := next(ctx, req)
//	    ctx.Logger().Info("handled", "tag", o.Outcome().Tag, "took", time.Since(start))
//	    return o
//	}
//
// Interceptors can:
//   - Inspect the request before calling next
//   - Inspect or replace the outcome after calling next
//   - Short-circuit by returning an outcome without calling next
//
// An interceptor that short-circuits must return a tag the operation
// declares; anything else is dispatched as an unknown outcome fault.
// req is a pointer to the bound request struct.
type Interceptor func(ctx *Context, req any, next HandlerFunc) Outcome

// chainInterceptors combines multiple interceptors into a single one.
// The first interceptor in the slice is the outer-most one (runs first).
func chainInterceptors(interceptors []Interceptor) Interceptor {
	if len(interceptors) == 0 {
		return nil
	}
	if len(interceptors) == 1 {
		return interceptors[0]
	}
	return func(ctx *Context, req any, handler HandlerFunc) Outcome {
		chain := handler
		for i := len(interceptors) - 1; i >= 0; i-- {
			current := interceptors[i]
			next := chain
			chain = func(ctx context.Context, req any) Outcome {
				return current(asContext(ctx), req, next)
			}
		}
		return chain(ctx, req)
	}
}

// asContext returns ctx as a *Context, keeping values an interceptor may have
// added on top of the request's Context.
func asContext(ctx context.Context) *Context {
	if c, ok := ctx.(*Context); ok {
		return c
	}
	base, ok := FromContext(ctx)
	if !ok {
		return NewContext(ctx, "")
	}
	derived := *base
	derived.Context = ctx
	return &derived
}
