package middleware

import (
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/broady/outcome"
)

// CORSConfig holds the configuration for CORS middleware.
type CORSConfig struct {
	// AllowOrigins is a list of origins a cross-domain request can be executed from.
	// If the list contains "*", all origins are allowed.
	// Default: ["*"]
	AllowOrigins []string

	// AllowMethods is a list of methods the client is allowed to use.
	// Default: ["GET", "POST", "PUT", "DELETE", "OPTIONS"]
	AllowMethods []string

	// AllowHeaders is a list of headers the client is allowed to use.
	// Default: ["Content-Type", "Authorization"]
	AllowHeaders []string

	// ExposeHeaders lists the response headers scripts may read.
	// Default: X-Request-Id only. Use ContractHeaders to expose every
	// header the registered contracts declare.
	ExposeHeaders []string

	// AllowCredentials indicates whether the request can include credentials.
	AllowCredentials bool

	// MaxAge is how long, in seconds, a preflight result may be cached.
	// Zero leaves the header unset.
	MaxAge int
}

var (
	defaultAllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	defaultAllowHeaders = []string{"Content-Type", "Authorization"}
)

// DefaultCORSConfig returns the configuration CORS uses for a nil config.
func DefaultCORSConfig() *CORSConfig {
	return &CORSConfig{
		AllowOrigins:  []string{"*"},
		AllowMethods:  slices.Clone(defaultAllowMethods),
		AllowHeaders:  slices.Clone(defaultAllowHeaders),
		ExposeHeaders: []string{RequestIDHeader},
	}
}

// ContractHeaders returns the names of all headers declared by the contracts
// in reg, plus X-Request-Id, sorted and without duplicates. Browsers hide
// non-safelisted response headers like Location or X-Total-Count unless they
// are exposed.
func ContractHeaders(reg *outcome.Registry) []string {
	names := []string{RequestIDHeader}
	for _, op := range reg.Operations() {
		for _, c := range op.Contracts {
			for _, h := range c.Headers {
				names = append(names, http.CanonicalHeaderKey(h.Name))
			}
		}
	}
	slices.Sort(names)
	return slices.Compact(names)
}

// CORS returns an HTTP middleware that handles CORS preflight requests and sets CORS headers.
// This is an HTTP middleware, not an interceptor, so it wraps the entire http.Handler.
func CORS(cfg *CORSConfig) func(http.Handler) http.Handler {
	if cfg == nil {
		cfg = DefaultCORSConfig()
	}

	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	anyOrigin := slices.Contains(origins, "*")

	methods := cfg.AllowMethods
	if len(methods) == 0 {
		methods = defaultAllowMethods
	}
	headers := cfg.AllowHeaders
	if len(headers) == 0 {
		headers = defaultAllowHeaders
	}

	allowMethods := strings.Join(methods, ", ")
	allowHeaders := strings.Join(headers, ", ")
	exposeHeaders := strings.Join(cfg.ExposeHeaders, ", ")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			h := w.Header()

			switch {
			case anyOrigin && origin != "" && cfg.AllowCredentials:
				// Allow-Origin "*" is rejected by browsers when credentials are allowed.
				h.Set("Access-Control-Allow-Origin", origin)
				h.Add("Vary", "Origin")
			case anyOrigin:
				h.Set("Access-Control-Allow-Origin", "*")
			case origin != "" && slices.Contains(origins, origin):
				h.Set("Access-Control-Allow-Origin", origin)
				h.Add("Vary", "Origin")
			default:
				origin = ""
			}

			allowed := anyOrigin || origin != ""
			if allowed {
				if cfg.AllowCredentials {
					h.Set("Access-Control-Allow-Credentials", "true")
				}
				if exposeHeaders != "" {
					h.Set("Access-Control-Expose-Headers", exposeHeaders)
				}
			}

			if r.Method == http.MethodOptions {
				h.Set("Access-Control-Allow-Methods", allowMethods)
				h.Set("Access-Control-Allow-Headers", allowHeaders)
				if cfg.MaxAge > 0 {
					h.Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
				}
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
