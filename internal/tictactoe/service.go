package tictactoe

import (
	"context"
	"net/url"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/broady/outcome"
)

// CreateGameRequest is the body of createGame.
type CreateGameRequest struct {
	Name  string `json:"name" validate:"max=64"`
	First Mark   `json:"first" validate:"omitempty,oneof=X O"`
}

// ListGamesRequest holds the query parameters of listGames.
type ListGamesRequest struct {
	Page     int    `query:"page" json:"-" validate:"omitempty,gte=1"`
	Size     int    `query:"size" json:"-" validate:"omitempty,gte=1"`
	Finished string `query:"finished" json:"-" validate:"omitempty,oneof=true false"`
}

// GameRequest identifies a game by path.
type GameRequest struct {
	GameID string `path:"gameId" json:"-" validate:"required,uuid"`
}

// SquareRequest identifies a square by path. Row and Column are one-based.
type SquareRequest struct {
	GameID string `path:"gameId" json:"-" validate:"required,uuid"`
	Row    int    `path:"row" json:"-" validate:"required,gte=1,lte=3"`
	Column int    `path:"column" json:"-" validate:"required,gte=1,lte=3"`
}

// PutSquareRequest places a mark on a square.
type PutSquareRequest struct {
	GameID string `path:"gameId" json:"-" validate:"required,uuid"`
	Row    int    `path:"row" json:"-" validate:"required,gte=1,lte=3"`
	Column int    `path:"column" json:"-" validate:"required,gte=1,lte=3"`
	Mark   Mark   `json:"mark" validate:"required,oneof=X O"`
}

// Options configures a Service.
type Options struct {
	DefaultPageSize int
	MaxPageSize     int
	Now             func() time.Time
	NewID           func() string
}

// Service is an in-memory tic-tac-toe backend.
type Service struct {
	mu    sync.RWMutex
	games map[string]*Game
	opts  Options
}

// NewService returns an empty Service.
func NewService(opts Options) *Service {
	if opts.DefaultPageSize <= 0 {
		opts.DefaultPageSize = 20
	}
	if opts.MaxPageSize < opts.DefaultPageSize {
		opts.MaxPageSize = opts.DefaultPageSize
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	return &Service{games: make(map[string]*Game), opts: opts}
}

// CreateGame starts a game.
func (s *Service) CreateGame(ctx context.Context, req CreateGameRequest) CreateGameResult {
	first := req.First
	if first == "" {
		first = Cross
	}
	g := &Game{
		ID:        s.opts.NewID(),
		Name:      req.Name,
		Board:     newBoard(),
		Next:      first,
		Winner:    NoWinner,
		CreatedAt: s.opts.Now().UTC(),
	}

	s.mu.Lock()
	s.games[g.ID] = g
	s.mu.Unlock()

	return GameCreated{Location: "/games/" + g.ID, Game: *g}
}

// ListGames returns one page of games, oldest first. base is the URL the
// pagination links are built on; nil omits the links.
func (s *Service) ListGames(ctx context.Context, req ListGamesRequest, base *url.URL) ListGamesResult {
	page := req.Page
	if page == 0 {
		page = 1
	}
	size := req.Size
	if size == 0 {
		size = s.opts.DefaultPageSize
	}
	size = min(size, s.opts.MaxPageSize)

	s.mu.RLock()
	all := make([]GameSummary, 0, len(s.games))
	for _, g := range s.games {
		if req.Finished != "" && (req.Finished == "true") != g.Finished() {
			continue
		}
		all = append(all, GameSummary{ID: g.ID, Name: g.Name, Winner: g.Winner, CreatedAt: g.CreatedAt})
	}
	s.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.Before(all[j].CreatedAt)
		}
		return all[i].ID < all[j].ID
	})

	p := outcome.Pagination{Page: page, Size: size, Total: len(all)}
	start, end := p.Bounds(len(all))
	return GamesListed{Games: all[start:end], Pagination: p, Links: p.Links(base)}
}

// GetGame returns a game.
func (s *Service) GetGame(ctx context.Context, req GameRequest) GetGameResult {
	g, ok := s.game(req.GameID)
	if !ok {
		return GameNotFound{ID: req.GameID}
	}
	return GameFound{Game: g}
}

// DeleteGame removes a game.
func (s *Service) DeleteGame(ctx context.Context, req GameRequest) DeleteGameResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[req.GameID]; !ok {
		return GameNotFound{ID: req.GameID}
	}
	delete(s.games, req.GameID)
	return GameDeleted{}
}

// GetBoard returns the board and winner of a game.
func (s *Service) GetBoard(ctx context.Context, req GameRequest) GetBoardResult {
	g, ok := s.game(req.GameID)
	if !ok {
		return GameNotFound{ID: req.GameID}
	}
	return BoardFound{Status: Status{Winner: g.Winner, Board: g.Board}}
}

// GetSquare returns the mark at one square.
func (s *Service) GetSquare(ctx context.Context, req SquareRequest) GetSquareResult {
	g, ok := s.game(req.GameID)
	if !ok {
		return GameNotFound{ID: req.GameID}
	}
	return SquareFound{Square: Square{Row: req.Row, Column: req.Column, Mark: g.Board[req.Row-1][req.Column-1]}}
}

// PutSquare places a mark for the player whose turn it is.
func (s *Service) PutSquare(ctx context.Context, req PutSquareRequest) PutSquareResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.games[req.GameID]
	if !ok {
		return GameNotFound{ID: req.GameID}
	}
	if g.Finished() {
		return IllegalMove{Reason: "game is over"}
	}
	if req.Mark != g.Next {
		return IllegalMove{Reason: "it is " + string(g.Next) + "'s turn"}
	}
	r, c := req.Row-1, req.Column-1
	if m := g.Board[r][c]; m != Empty {
		return SquareTaken{Square: Square{Row: req.Row, Column: req.Column, Mark: m}}
	}

	g.Board[r][c] = req.Mark
	g.Winner = winner(g.Board)
	if req.Mark == Cross {
		g.Next = Nought
	} else {
		g.Next = Cross
	}
	return MarkPlaced{Status: Status{Winner: g.Winner, Board: g.Board}}
}

func (s *Service) game(id string) (Game, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.games[id]
	if !ok {
		return Game{}, false
	}
	return *g, true
}
