package outcome

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"testing"
)

type testGame struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// testOperations is a small game API used across the package tests.
func testOperations() []Operation {
	return []Operation{
		{
			Name:   "createGame",
			Method: http.MethodPost,
			Path:   "/games",
			Contracts: []Contract{
				{
					Tag:     "Created",
					Status:  http.StatusCreated,
					Body:    BodyOf(testGame{}),
					Headers: []HeaderRule{RequiredHeader("Location", HeaderString)},
				},
				ValidationFailedContract(),
			},
		},
		{
			Name:   "listGames",
			Method: http.MethodGet,
			Path:   "/games",
			Contracts: []Contract{
				{
					Tag:    "Ok",
					Status: http.StatusOK,
					Body:   BodyOf([]testGame{}),
					Headers: []HeaderRule{
						OptionalHeader("X-Page-Number", HeaderInteger),
						RequiredHeader("X-Total-Count", HeaderInteger),
						OptionalHeader("Link", HeaderLink),
					},
				},
				ValidationFailedContract(),
			},
		},
		{
			Name:   "getGame",
			Method: http.MethodGet,
			Path:   "/games/{id}",
			Contracts: []Contract{
				{Tag: "Ok", Status: http.StatusOK, Body: BodyOf(testGame{})},
				{Tag: "NotFound", Status: http.StatusNotFound, Body: BodyOf(ErrorBody{})},
				ValidationFailedContract(),
			},
		},
		{
			Name:   "deleteGame",
			Method: http.MethodDelete,
			Path:   "/games/{id}",
			Contracts: []Contract{
				{Tag: "NoContent", Status: http.StatusNoContent, Body: EmptyBody},
				{Tag: "NotFound", Status: http.StatusNotFound, Body: BodyOf(ErrorBody{})},
			},
		},
	}
}

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	reg := NewRegistry()
	for _, op := range testOperations() {
		if err := reg.Register(op); err != nil {
			t.Fatalf("Register(%s): %v", op.Name, err)
		}
	}
	return reg
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// captureLogger returns a JSON logger writing to the returned buffer.
func captureLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}
