package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/broady/outcome"
)

// RequestIDHeader is the header carrying the request ID.
const RequestIDHeader = "X-Request-Id"

// RequestID returns an HTTP middleware that assigns every request an ID.
// An incoming X-Request-Id is kept when it is a valid UUID; otherwise a new
// one is generated. The ID is echoed in the response and stored in the
// request context, where fault responses and loggers pick it up.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(outcome.WithRequestID(r.Context(), id)))
	})
}
