// Package testutil provides testing helpers for outcome apps and handlers.
// It depends only on net/http so it can be used from any package's tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

// RequestBuilder helps construct test HTTP requests with fluent API.
type RequestBuilder struct {
	method      string
	path        string
	body        []byte
	headers     map[string]string
	queryParams url.Values
}

// NewRequest creates a new request builder for GET /.
func NewRequest() *RequestBuilder {
	return &RequestBuilder{
		method:      http.MethodGet,
		path:        "/",
		headers:     make(map[string]string),
		queryParams: make(url.Values),
	}
}

// GET sets the HTTP method to GET.
func (b *RequestBuilder) GET(path string) *RequestBuilder {
	return b.Method(http.MethodGet, path)
}

// POST sets the HTTP method to POST.
func (b *RequestBuilder) POST(path string) *RequestBuilder {
	return b.Method(http.MethodPost, path)
}

// PUT sets the HTTP method to PUT.
func (b *RequestBuilder) PUT(path string) *RequestBuilder {
	return b.Method(http.MethodPut, path)
}

// DELETE sets the HTTP method to DELETE.
func (b *RequestBuilder) DELETE(path string) *RequestBuilder {
	return b.Method(http.MethodDelete, path)
}

// Method sets an arbitrary HTTP method and path.
func (b *RequestBuilder) Method(method, path string) *RequestBuilder {
	b.method = method
	b.path = path
	return b
}

// WithJSON sets the request body as JSON.
func (b *RequestBuilder) WithJSON(v any) *RequestBuilder {
	data, _ := json.Marshal(v)
	b.body = data
	b.headers["Content-Type"] = "application/json"
	return b
}

// WithBody sets the raw request body.
func (b *RequestBuilder) WithBody(body string) *RequestBuilder {
	b.body = []byte(body)
	return b
}

// WithHeader adds a header to the request.
func (b *RequestBuilder) WithHeader(key, value string) *RequestBuilder {
	b.headers[key] = value
	return b
}

// WithQuery adds a query parameter.
func (b *RequestBuilder) WithQuery(key, value string) *RequestBuilder {
	b.queryParams.Add(key, value)
	return b
}

// Build creates the HTTP request and ResponseRecorder.
func (b *RequestBuilder) Build() (*http.Request, *httptest.ResponseRecorder) {
	path := b.path
	if len(b.queryParams) > 0 {
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		path += sep + b.queryParams.Encode()
	}

	var req *http.Request
	if len(b.body) > 0 {
		req = httptest.NewRequest(b.method, path, bytes.NewReader(b.body))
	} else {
		req = httptest.NewRequest(b.method, path, nil)
	}

	for k, v := range b.headers {
		req.Header.Set(k, v)
	}

	return req, httptest.NewRecorder()
}

// Serve builds the request, serves it with h, and returns the recorded response.
func (b *RequestBuilder) Serve(h http.Handler) *httptest.ResponseRecorder {
	req, w := b.Build()
	h.ServeHTTP(w, req)
	return w
}

// AssertStatus checks that the response has the expected status code.
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int) {
	t.Helper()
	if w.Code != expectedStatus {
		t.Errorf("expected status %d, got %d\nBody: %s", expectedStatus, w.Code, w.Body.String())
	}
}

// AssertJSONResponse decodes the response body and compares it with expected value.
func AssertJSONResponse(t *testing.T, w *httptest.ResponseRecorder, expected any) {
	t.Helper()

	contentType := w.Header().Get("Content-Type")
	if !strings.Contains(contentType, "application/json") {
		t.Errorf("expected Content-Type to contain application/json, got %s", contentType)
	}

	expectedJSON, _ := json.Marshal(expected)
	actualJSON := w.Body.Bytes()

	// Compare as JSON to ignore formatting differences
	var expectedData, actualData any
	json.Unmarshal(expectedJSON, &expectedData)
	json.Unmarshal(actualJSON, &actualData)

	expectedStr, _ := json.MarshalIndent(expectedData, "", "  ")
	actualStr, _ := json.MarshalIndent(actualData, "", "  ")

	if string(expectedStr) != string(actualStr) {
		t.Errorf("response mismatch:\nExpected:\n%s\nActual:\n%s", expectedStr, actualStr)
	}
}

// ErrorResponse represents the error envelope {"error": {...}}.
type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// AssertJSONError checks that the response contains an error with the expected code.
func AssertJSONError(t *testing.T, w *httptest.ResponseRecorder, expectedCode string) *ErrorResponse {
	t.Helper()

	var envelope struct {
		Error *ErrorResponse `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("failed to decode error response: %v\nBody: %s", err, w.Body.String())
	}
	if envelope.Error == nil {
		t.Fatalf("expected error envelope, got: %s", w.Body.String())
	}

	if envelope.Error.Code != expectedCode {
		t.Errorf("expected error code %s, got %s (message: %s)", expectedCode, envelope.Error.Code, envelope.Error.Message)
	}

	return envelope.Error
}

// AssertHeader checks that a response header has the expected value.
func AssertHeader(t *testing.T, w *httptest.ResponseRecorder, key, expectedValue string) {
	t.Helper()
	actual := w.Header().Get(key)
	if actual != expectedValue {
		t.Errorf("expected header %s=%s, got %s", key, expectedValue, actual)
	}
}

// AssertNoHeader checks that a response header is absent.
func AssertNoHeader(t *testing.T, w *httptest.ResponseRecorder, key string) {
	t.Helper()
	if values, ok := w.Header()[http.CanonicalHeaderKey(key)]; ok {
		t.Errorf("expected no %s header, got %q", key, values)
	}
}

// AssertEmptyBody checks that nothing was written to the body.
func AssertEmptyBody(t *testing.T, w *httptest.ResponseRecorder) {
	t.Helper()
	if w.Body.Len() != 0 {
		t.Errorf("expected empty body, got %q", w.Body.String())
	}
}

// DecodeJSON decodes the response body into the provided value.
func DecodeJSON(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to decode response: %v\nBody: %s", err, w.Body.String())
	}
}
