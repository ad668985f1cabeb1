package tictactoe

import (
	"fmt"

	"github.com/broady/outcome"
)

// Each operation's results form a sealed set: the marker methods are
// unexported, so only the variants below satisfy them. The conversion
// functions switch over every variant and panic on anything else; the panic
// is recovered by the App and reported as an internal error.

// CreateGameResult is a result of createGame.
type CreateGameResult interface{ createGameResult() }

// ListGamesResult is a result of listGames.
type ListGamesResult interface{ listGamesResult() }

// GetGameResult is a result of getGame.
type GetGameResult interface{ getGameResult() }

// DeleteGameResult is a result of deleteGame.
type DeleteGameResult interface{ deleteGameResult() }

// GetBoardResult is a result of getBoard.
type GetBoardResult interface{ getBoardResult() }

// GetSquareResult is a result of getSquare.
type GetSquareResult interface{ getSquareResult() }

// PutSquareResult is a result of putSquare.
type PutSquareResult interface{ putSquareResult() }

// GameCreated reports a new game and where to find it.
type GameCreated struct {
	Location string
	Game     Game
}

// GamesListed is one page of games.
type GamesListed struct {
	Games      []GameSummary
	Pagination outcome.Pagination
	Links      []outcome.Link
}

// GameFound carries a game.
type GameFound struct{ Game Game }

// GameDeleted reports a deleted game.
type GameDeleted struct{}

// BoardFound carries a game's board and winner.
type BoardFound struct{ Status Status }

// SquareFound carries one square.
type SquareFound struct{ Square Square }

// MarkPlaced carries the status after a move.
type MarkPlaced struct{ Status Status }

// GameNotFound reports an unknown game ID.
type GameNotFound struct{ ID string }

// IllegalMove reports a move made after the game ended or out of turn.
type IllegalMove struct{ Reason string }

// SquareTaken reports a move onto a marked square.
type SquareTaken struct{ Square Square }

func (GameCreated) createGameResult() {}
func (GamesListed) listGamesResult()  {}
func (GameFound) getGameResult()      {}
func (GameDeleted) deleteGameResult() {}
func (BoardFound) getBoardResult()    {}
func (SquareFound) getSquareResult()  {}
func (MarkPlaced) putSquareResult()   {}
func (IllegalMove) putSquareResult()  {}
func (SquareTaken) putSquareResult()  {}

func (GameNotFound) getGameResult()    {}
func (GameNotFound) deleteGameResult() {}
func (GameNotFound) getBoardResult()   {}
func (GameNotFound) getSquareResult()  {}
func (GameNotFound) putSquareResult()  {}

func (r GameNotFound) value() outcome.Value {
	return outcome.NewError(outcome.CodeNotFound, "game not found").
		WithDetail("gameId", r.ID).
		As(TagNotFound)
}

func unhandled(op string, r any) outcome.Value {
	panic(fmt.Sprintf("tictactoe: unhandled %s result %T", op, r))
}

func createGameOutcome(r CreateGameResult) outcome.Value {
	switch r := r.(type) {
	case GameCreated:
		return outcome.Of(TagCreated, r.Game).WithHeader("Location", r.Location)
	default:
		return unhandled(OpCreateGame, r)
	}
}

func listGamesOutcome(r ListGamesResult) outcome.Value {
	switch r := r.(type) {
	case GamesListed:
		games := r.Games
		if games == nil {
			games = []GameSummary{}
		}
		return outcome.Of(TagOK, games).WithPagination(r.Pagination).WithLinks(r.Links)
	default:
		return unhandled(OpListGames, r)
	}
}

func getGameOutcome(r GetGameResult) outcome.Value {
	switch r := r.(type) {
	case GameFound:
		return outcome.Of(TagOK, r.Game)
	case GameNotFound:
		return r.value()
	default:
		return unhandled(OpGetGame, r)
	}
}

func deleteGameOutcome(r DeleteGameResult) outcome.Value {
	switch r := r.(type) {
	case GameDeleted:
		return outcome.Of(TagNoContent, nil)
	case GameNotFound:
		return r.value()
	default:
		return unhandled(OpDeleteGame, r)
	}
}

func getBoardOutcome(r GetBoardResult) outcome.Value {
	switch r := r.(type) {
	case BoardFound:
		return outcome.Of(TagOK, r.Status)
	case GameNotFound:
		return r.value()
	default:
		return unhandled(OpGetBoard, r)
	}
}

func getSquareOutcome(r GetSquareResult) outcome.Value {
	switch r := r.(type) {
	case SquareFound:
		return outcome.Of(TagOK, r.Square)
	case GameNotFound:
		return r.value()
	default:
		return unhandled(OpGetSquare, r)
	}
}

func putSquareOutcome(r PutSquareResult) outcome.Value {
	switch r := r.(type) {
	case MarkPlaced:
		return outcome.Of(TagOK, r.Status)
	case IllegalMove:
		return outcome.Reject(TagIllegalMove, outcome.CodeInvalidArgument, r.Reason)
	case GameNotFound:
		return r.value()
	case SquareTaken:
		return outcome.NewError(outcome.CodeConflict, "square already taken").
			WithDetails(map[string]any{"row": r.Square.Row, "column": r.Square.Column, "mark": r.Square.Mark}).
			As(TagSquareTaken)
	default:
		return unhandled(OpPutSquare, r)
	}
}
