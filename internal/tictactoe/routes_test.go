package tictactoe

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/broady/outcome"
	"github.com/broady/outcome/testutil"
)

func testIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("00000000-0000-4000-8000-%012d", n)
	}
}

func newTestApp(t *testing.T, opts Options) http.Handler {
	t.Helper()
	if opts.NewID == nil {
		opts.NewID = testIDs()
	}
	if opts.Now == nil {
		start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		n := 0
		opts.Now = func() time.Time {
			n++
			return start.Add(time.Duration(n) * time.Minute)
		}
	}
	app := outcome.NewApp(outcome.NewRegistry()).
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err := Mount(app, NewService(opts)); err != nil {
		t.Fatalf("Mount: %v", err)
	}
	return app.Handler()
}

func createGame(t *testing.T, h http.Handler, req CreateGameRequest) Game {
	t.Helper()
	w := testutil.NewRequest().POST("/games").WithJSON(req).Serve(h)
	testutil.AssertStatus(t, w, http.StatusCreated)
	var g Game
	testutil.DecodeJSON(t, w, &g)
	return g
}

func play(t *testing.T, h http.Handler, id string, row, col int, mark Mark) *httptest.ResponseRecorder {
	t.Helper()
	return testutil.NewRequest().
		PUT(fmt.Sprintf("/games/%s/board/%d/%d", id, row, col)).
		WithJSON(map[string]Mark{"mark": mark}).
		Serve(h)
}

func TestCreateGame(t *testing.T) {
	h := newTestApp(t, Options{})

	w := testutil.NewRequest().POST("/games").WithJSON(CreateGameRequest{Name: "lunch"}).Serve(h)

	testutil.AssertStatus(t, w, http.StatusCreated)
	testutil.AssertHeader(t, w, "Location", "/games/00000000-0000-4000-8000-000000000001")
	testutil.AssertHeader(t, w, "Content-Type", "application/json")
	var g Game
	testutil.DecodeJSON(t, w, &g)
	if g.Name != "lunch" || g.Next != Cross || g.Winner != NoWinner {
		t.Errorf("game = %+v", g)
	}
	if g.Board != newBoard() {
		t.Errorf("board = %v, want empty", g.Board)
	}
}

func TestCreateGame_ValidationFailed(t *testing.T) {
	h := newTestApp(t, Options{})

	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"bad first player", `{"first":"Z"}`, "first"},
		{"malformed json", `{"name":`, "body"},
		{"wrong type", `{"name":7}`, "name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := testutil.NewRequest().POST("/games").
				WithHeader("Content-Type", "application/json").
				WithBody(tt.body).
				Serve(h)

			testutil.AssertStatus(t, w, http.StatusUnprocessableEntity)
			testutil.AssertNoHeader(t, w, "Location")
			e := testutil.AssertJSONError(t, w, string(outcome.CodeInvalidArgument))
			if _, ok := e.Details[tt.field]; !ok {
				t.Errorf("details = %v, want key %q", e.Details, tt.field)
			}
		})
	}
}

func TestGetGame(t *testing.T) {
	h := newTestApp(t, Options{})
	g := createGame(t, h, CreateGameRequest{First: Nought})

	w := testutil.NewRequest().GET("/games/" + g.ID).Serve(h)
	testutil.AssertStatus(t, w, http.StatusOK)
	var got Game
	testutil.DecodeJSON(t, w, &got)
	if got.ID != g.ID || got.Next != Nought {
		t.Errorf("got %+v", got)
	}

	w = testutil.NewRequest().GET("/games/00000000-0000-4000-8000-999999999999").Serve(h)
	testutil.AssertStatus(t, w, http.StatusNotFound)
	e := testutil.AssertJSONError(t, w, string(outcome.CodeNotFound))
	if e.Details["gameId"] != "00000000-0000-4000-8000-999999999999" {
		t.Errorf("details = %v", e.Details)
	}

	w = testutil.NewRequest().GET("/games/not-a-uuid").Serve(h)
	testutil.AssertStatus(t, w, http.StatusUnprocessableEntity)
	testutil.AssertJSONError(t, w, string(outcome.CodeInvalidArgument))
}

func TestDeleteGame(t *testing.T) {
	h := newTestApp(t, Options{})
	g := createGame(t, h, CreateGameRequest{})

	w := testutil.NewRequest().DELETE("/games/" + g.ID).Serve(h)
	testutil.AssertStatus(t, w, http.StatusNoContent)
	testutil.AssertEmptyBody(t, w)
	testutil.AssertNoHeader(t, w, "Content-Type")

	w = testutil.NewRequest().DELETE("/games/" + g.ID).Serve(h)
	testutil.AssertStatus(t, w, http.StatusNotFound)
	testutil.AssertJSONError(t, w, string(outcome.CodeNotFound))
}

func TestListGames(t *testing.T) {
	h := newTestApp(t, Options{DefaultPageSize: 2, MaxPageSize: 2})
	for i := 0; i < 3; i++ {
		createGame(t, h, CreateGameRequest{Name: fmt.Sprintf("g%d", i)})
	}

	w := testutil.NewRequest().GET("/games").Serve(h)
	testutil.AssertStatus(t, w, http.StatusOK)
	testutil.AssertHeader(t, w, "X-Total-Count", "3")
	testutil.AssertHeader(t, w, "X-Page-Number", "1")
	testutil.AssertHeader(t, w, "X-Page-Size", "2")
	testutil.AssertHeader(t, w, "Link",
		`</games?page=1&size=2>; rel="first", </games?page=2&size=2>; rel="next", </games?page=2&size=2>; rel="last"`)
	var games []GameSummary
	testutil.DecodeJSON(t, w, &games)
	if len(games) != 2 || games[0].Name != "g0" || games[1].Name != "g1" {
		t.Errorf("page 1 = %+v", games)
	}

	w = testutil.NewRequest().GET("/games").WithQuery("page", "2").WithQuery("size", "50").Serve(h)
	testutil.AssertStatus(t, w, http.StatusOK)
	testutil.AssertHeader(t, w, "X-Page-Size", "2")
	games = nil
	testutil.DecodeJSON(t, w, &games)
	if len(games) != 1 || games[0].Name != "g2" {
		t.Errorf("page 2 = %+v", games)
	}
	links := outcome.ParseLinks(w.Header().Get("Link"))
	if len(links) != 3 || links[1].Rel != "prev" {
		t.Errorf("links = %+v", links)
	}
}

func TestListGames_Empty(t *testing.T) {
	h := newTestApp(t, Options{})

	w := testutil.NewRequest().GET("/games").Serve(h)
	testutil.AssertStatus(t, w, http.StatusOK)
	testutil.AssertHeader(t, w, "X-Total-Count", "0")
	if got := w.Body.String(); got != "[]\n" {
		t.Errorf("body = %q, want []", got)
	}
}

func TestListGames_PastTheEnd(t *testing.T) {
	h := newTestApp(t, Options{DefaultPageSize: 2, MaxPageSize: 2})
	createGame(t, h, CreateGameRequest{Name: "only"})

	w := testutil.NewRequest().GET("/games").WithQuery("page", "9223372036854775807").Serve(h)
	testutil.AssertStatus(t, w, http.StatusOK)
	testutil.AssertHeader(t, w, "X-Total-Count", "1")
	if got := w.Body.String(); got != "[]\n" {
		t.Errorf("body = %q, want []", got)
	}
	links := outcome.ParseLinks(w.Header().Get("Link"))
	if len(links) != 3 || links[1].Rel != "prev" || links[1].URL != "/games?page=1&size=2" {
		t.Errorf("links = %+v", links)
	}
}

func TestListGames_ValidationFailed(t *testing.T) {
	h := newTestApp(t, Options{})

	for _, q := range [][2]string{{"page", "-2"}, {"page", "x"}, {"size", "-1"}, {"finished", "maybe"}} {
		t.Run(q[0]+"="+q[1], func(t *testing.T) {
			w := testutil.NewRequest().GET("/games").WithQuery(q[0], q[1]).Serve(h)
			testutil.AssertStatus(t, w, http.StatusUnprocessableEntity)
			testutil.AssertNoHeader(t, w, "X-Total-Count")
			testutil.AssertJSONError(t, w, string(outcome.CodeInvalidArgument))
		})
	}
}

func TestBoardAndSquare(t *testing.T) {
	h := newTestApp(t, Options{})
	g := createGame(t, h, CreateGameRequest{})

	w := play(t, h, g.ID, 2, 3, Cross)
	testutil.AssertStatus(t, w, http.StatusOK)

	w = testutil.NewRequest().GET("/games/" + g.ID + "/board").Serve(h)
	testutil.AssertStatus(t, w, http.StatusOK)
	var st Status
	testutil.DecodeJSON(t, w, &st)
	if st.Board[1][2] != Cross || st.Winner != NoWinner {
		t.Errorf("status = %+v", st)
	}

	w = testutil.NewRequest().GET("/games/" + g.ID + "/board/2/3").Serve(h)
	testutil.AssertStatus(t, w, http.StatusOK)
	testutil.AssertJSONResponse(t, w, Square{Row: 2, Column: 3, Mark: Cross})

	w = testutil.NewRequest().GET("/games/" + g.ID + "/board/4/1").Serve(h)
	testutil.AssertStatus(t, w, http.StatusUnprocessableEntity)
	e := testutil.AssertJSONError(t, w, string(outcome.CodeInvalidArgument))
	if e.Details["row"] != "must be at most 3" {
		t.Errorf("details = %v", e.Details)
	}

	w = testutil.NewRequest().GET("/games/00000000-0000-4000-8000-999999999999/board").Serve(h)
	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestPutSquare(t *testing.T) {
	h := newTestApp(t, Options{})
	g := createGame(t, h, CreateGameRequest{})

	w := play(t, h, g.ID, 1, 1, Nought)
	testutil.AssertStatus(t, w, http.StatusBadRequest)
	e := testutil.AssertJSONError(t, w, string(outcome.CodeInvalidArgument))
	if e.Message != "it is X's turn" {
		t.Errorf("message = %q", e.Message)
	}

	testutil.AssertStatus(t, play(t, h, g.ID, 1, 1, Cross), http.StatusOK)

	w = play(t, h, g.ID, 1, 1, Nought)
	testutil.AssertStatus(t, w, http.StatusConflict)
	e = testutil.AssertJSONError(t, w, string(outcome.CodeConflict))
	if e.Details["mark"] != "X" {
		t.Errorf("details = %v", e.Details)
	}

	w = play(t, h, "00000000-0000-4000-8000-999999999999", 1, 1, Nought)
	testutil.AssertStatus(t, w, http.StatusNotFound)

	w = play(t, h, g.ID, 0, 1, Nought)
	testutil.AssertStatus(t, w, http.StatusUnprocessableEntity)

	w = play(t, h, g.ID, 2, 2, "")
	testutil.AssertStatus(t, w, http.StatusUnprocessableEntity)
}

func TestPutSquare_Win(t *testing.T) {
	h := newTestApp(t, Options{})
	g := createGame(t, h, CreateGameRequest{})

	moves := []struct {
		row, col int
		mark     Mark
	}{
		{1, 1, Cross}, {2, 1, Nought},
		{1, 2, Cross}, {2, 2, Nought},
		{1, 3, Cross},
	}
	var w *httptest.ResponseRecorder
	for _, m := range moves {
		w = play(t, h, g.ID, m.row, m.col, m.mark)
		testutil.AssertStatus(t, w, http.StatusOK)
	}
	var st Status
	testutil.DecodeJSON(t, w, &st)
	if st.Winner != Winner(Cross) {
		t.Fatalf("winner = %q, want X", st.Winner)
	}

	w = play(t, h, g.ID, 3, 3, Nought)
	testutil.AssertStatus(t, w, http.StatusBadRequest)
	e := testutil.AssertJSONError(t, w, string(outcome.CodeInvalidArgument))
	if e.Message != "game is over" {
		t.Errorf("message = %q", e.Message)
	}

	w = testutil.NewRequest().GET("/games").WithQuery("finished", "true").Serve(h)
	testutil.AssertHeader(t, w, "X-Total-Count", "1")
	w = testutil.NewRequest().GET("/games").WithQuery("finished", "false").Serve(h)
	testutil.AssertHeader(t, w, "X-Total-Count", "0")
}
