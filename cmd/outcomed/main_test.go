package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/broady/outcome/middleware"
)

func TestNewApp(t *testing.T) {
	cfg := defaultConfig()
	cfg.CORSOrigins = []string{"https://example.com"}
	app, err := newApp(cfg, newLogger(cfg, io.Discard))
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}
	h := app.Handler()

	for _, path := range []string{"/games", "/pets"} {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, path, nil)
		r.Header.Set("Origin", "https://example.com")
		h.ServeHTTP(w, r)

		if w.Code != http.StatusOK {
			t.Errorf("GET %s = %d", path, w.Code)
		}
		if w.Header().Get("X-Total-Count") != "0" {
			t.Errorf("GET %s X-Total-Count = %q", path, w.Header().Get("X-Total-Count"))
		}
		if w.Header().Get(middleware.RequestIDHeader) == "" {
			t.Errorf("GET %s has no request id", path)
		}
		if w.Header().Get("Access-Control-Allow-Origin") != "https://example.com" {
			t.Errorf("GET %s CORS origin = %q", path, w.Header().Get("Access-Control-Allow-Origin"))
		}
		if exposed := w.Header().Get("Access-Control-Expose-Headers"); !strings.Contains(exposed, "X-Total-Count") {
			t.Errorf("GET %s exposed headers = %q", path, exposed)
		}
	}
}

func TestContractsCmd(t *testing.T) {
	var buf bytes.Buffer
	if err := (&ContractsCmd{}).write(&buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"createGame", "POST /games", "Location", "X-Page-Number?", "deletePet", "NoContent"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestOpenAPICmd(t *testing.T) {
	var buf bytes.Buffer
	if err := (&OpenAPICmd{Format: "json"}).write(&buf); err != nil {
		t.Fatal(err)
	}
	var doc map[string]any
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	paths, _ := doc["paths"].(map[string]any)
	for _, p := range []string{"/games", "/games/{gameId}/board/{row}/{column}", "/pets/{petId}", "/_devtools/operations"} {
		if _, ok := paths[p]; !ok {
			t.Errorf("path %s missing", p)
		}
	}
}

func TestVersionCmd(t *testing.T) {
	var buf bytes.Buffer
	if err := (&VersionCmd{}).write(&buf); err != nil {
		t.Fatal(err)
	}
	if out := buf.String(); !strings.HasPrefix(out, "outcomed ") || !strings.Contains(out, "go1.") {
		t.Errorf("version output = %q", out)
	}
}
