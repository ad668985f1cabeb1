package outcome

import (
	"context"
	"testing"
)

func TestChainInterceptors_Empty(t *testing.T) {
	if chain := chainInterceptors(nil); chain != nil {
		t.Error("expected nil chain for empty interceptors")
	}
}

func TestChainInterceptors_Order(t *testing.T) {
	var order []string
	record := func(name string) Interceptor {
		return func(ctx *Context, req any, next HandlerFunc) Outcome {
			order = append(order, "before-"+name)
			o := next(ctx, req)
			order = append(order, "after-"+name)
			return o
		}
	}

	chain := chainInterceptors([]Interceptor{record("1"), record("2")})
	handler := func(ctx context.Context, req any) Outcome {
		order = append(order, "handler")
		return Of("Ok", req)
	}

	o := chain(NewContext(context.Background(), "op"), "request", handler)
	if v := o.Outcome(); v.Tag != "Ok" || v.Body != "request" {
		t.Errorf("outcome = %+v", v)
	}
	want := []string{"before-1", "before-2", "handler", "after-2", "after-1"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %s, want %s", i, order[i], want[i])
		}
	}
}

func TestChainInterceptors_ShortCircuit(t *testing.T) {
	deny := func(ctx *Context, req any, next HandlerFunc) Outcome {
		return Reject("Forbidden", CodePermissionDenied, "no")
	}
	called := false
	handler := func(ctx context.Context, req any) Outcome {
		called = true
		return Of("Ok", nil)
	}

	o := chainInterceptors([]Interceptor{deny})(NewContext(context.Background(), "op"), nil, handler)
	if called {
		t.Error("handler should not run")
	}
	if o.Outcome().Tag != "Forbidden" {
		t.Errorf("tag = %s", o.Outcome().Tag)
	}
}

func TestChainInterceptors_ContextValues(t *testing.T) {
	addValue := func(ctx *Context, req any, next HandlerFunc) Outcome {
		return next(context.WithValue(ctx, ctxKey("user"), "alice"), req)
	}
	check := func(ctx *Context, req any, next HandlerFunc) Outcome {
		if ctx.Operation() != "op" {
			t.Errorf("operation lost: %q", ctx.Operation())
		}
		if ctx.Value(ctxKey("user")) != "alice" {
			t.Error("value added by outer interceptor lost")
		}
		return next(ctx, req)
	}
	handler := func(ctx context.Context, req any) Outcome {
		if ctx.Value(ctxKey("user")) != "alice" {
			t.Error("handler did not see the value")
		}
		return Of("Ok", nil)
	}

	chainInterceptors([]Interceptor{addValue, check})(NewContext(context.Background(), "op"), nil, handler)
}
