// Package devtools serves health, runtime, and contract introspection
// endpoints. They are ordinary operations with their own outcome contracts.
package devtools

import (
	"context"
	"net/http"
	"runtime"

	"github.com/broady/outcome"
)

const (
	OpPing       = "devtoolsPing"
	OpInfo       = "devtoolsInfo"
	OpOperations = "devtoolsOperations"
)

// Service provides devtools endpoints.
// Mount it on your App after the APIs it should describe:
//
//	app := outcome.NewApp(reg)
//	tictactoe.Mount(app, svc)
//	devtools.New(app, "v1.2.3").Mount()
type Service struct {
	app     *outcome.App
	version string
}

// New creates a new devtools service.
func New(app *outcome.App, version string) *Service {
	return &Service{app: app, version: version}
}

// PingResponse is the body of devtoolsPing.
type PingResponse struct {
	OK bool `json:"ok"`
}

// InfoResponse provides runtime information about the server.
type InfoResponse struct {
	Version       string      `json:"version"`
	GoVersion     string      `json:"go_version"`
	NumGoroutines int         `json:"num_goroutines"`
	NumCPU        int         `json:"num_cpu"`
	Memory        MemoryStats `json:"memory"`
}

// MemoryStats contains memory statistics.
type MemoryStats struct {
	Alloc      uint64 `json:"alloc"`
	TotalAlloc uint64 `json:"total_alloc"`
	Sys        uint64 `json:"sys"`
	NumGC      uint32 `json:"num_gc"`
}

// OperationInfo describes one routed operation and its outcomes.
type OperationInfo struct {
	Name     string        `json:"name"`
	Method   string        `json:"method"`
	Path     string        `json:"path"`
	Outcomes []OutcomeInfo `json:"outcomes"`
}

// OutcomeInfo describes one declared outcome.
type OutcomeInfo struct {
	Tag      string   `json:"tag"`
	Status   int      `json:"status"`
	Body     string   `json:"body"`
	Required []string `json:"required_headers,omitempty"`
	Optional []string `json:"optional_headers,omitempty"`
}

type empty struct{}

// Operations returns the devtools operations.
func Operations() []outcome.Operation {
	return []outcome.Operation{
		{
			Name: OpPing, Method: http.MethodGet, Path: "/_devtools/ping",
			Summary:   "Health check",
			Contracts: []outcome.Contract{{Tag: "Ok", Status: http.StatusOK, Body: outcome.BodyOf(PingResponse{})}},
		},
		{
			Name: OpInfo, Method: http.MethodGet, Path: "/_devtools/info",
			Summary:   "Runtime information",
			Contracts: []outcome.Contract{{Tag: "Ok", Status: http.StatusOK, Body: outcome.BodyOf(InfoResponse{})}},
		},
		{
			Name: OpOperations, Method: http.MethodGet, Path: "/_devtools/operations",
			Summary: "Routed operations and their outcome contracts",
			Contracts: []outcome.Contract{{
				Tag:     "Ok",
				Status:  http.StatusOK,
				Body:    outcome.BodyOf([]OperationInfo{}),
				Headers: []outcome.HeaderRule{outcome.RequiredHeader("X-Total-Count", outcome.HeaderInteger)},
			}},
		},
	}
}

// Mount registers and routes the devtools operations.
func (s *Service) Mount() error {
	reg := s.app.Registry()
	for _, op := range Operations() {
		if err := reg.Register(op); err != nil {
			return err
		}
	}
	for _, e := range []outcome.Endpoint{
		outcome.NewHandler(OpPing, func(ctx context.Context, _ empty) outcome.Outcome {
			return outcome.Of("Ok", s.Ping())
		}),
		outcome.NewHandler(OpInfo, func(ctx context.Context, _ empty) outcome.Outcome {
			return outcome.Of("Ok", s.Info())
		}),
		outcome.NewHandler(OpOperations, func(ctx context.Context, _ empty) outcome.Outcome {
			ops := s.Operations()
			return outcome.Of("Ok", ops).WithIntHeader("X-Total-Count", len(ops))
		}),
	} {
		if err := s.app.Route(e); err != nil {
			return err
		}
	}
	return nil
}

// Ping is a simple health check.
func (s *Service) Ping() PingResponse {
	return PingResponse{OK: true}
}

// Info returns runtime information about the server.
func (s *Service) Info() InfoResponse {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return InfoResponse{
		Version:       s.version,
		GoVersion:     runtime.Version(),
		NumGoroutines: runtime.NumGoroutine(),
		NumCPU:        runtime.NumCPU(),
		Memory: MemoryStats{
			Alloc:      m.Alloc,
			TotalAlloc: m.TotalAlloc,
			Sys:        m.Sys,
			NumGC:      m.NumGC,
		},
	}
}

// Operations lists the app's routed operations, devtools included.
func (s *Service) Operations() []OperationInfo {
	eps := s.app.Endpoints()
	out := make([]OperationInfo, 0, len(eps))
	for _, e := range eps {
		info := OperationInfo{Name: e.Operation, Method: e.Method, Path: e.Path}
		for _, o := range e.Outcomes {
			info.Outcomes = append(info.Outcomes, OutcomeInfo{
				Tag:      o.Tag,
				Status:   o.Status,
				Body:     o.Body,
				Required: o.Required,
				Optional: o.Optional,
			})
		}
		out = append(out, info)
	}
	return out
}
