package tictactoe

import (
	"net/http"

	"github.com/broady/outcome"
)

// Operation names.
const (
	OpCreateGame = "createGame"
	OpListGames  = "listGames"
	OpGetGame    = "getGame"
	OpDeleteGame = "deleteGame"
	OpGetBoard   = "getBoard"
	OpGetSquare  = "getSquare"
	OpPutSquare  = "putSquare"
)

// Outcome tags.
const (
	TagCreated     outcome.Tag = "Created"
	TagOK          outcome.Tag = "Ok"
	TagNoContent   outcome.Tag = "NoContent"
	TagNotFound    outcome.Tag = "NotFound"
	TagIllegalMove outcome.Tag = "IllegalMove"
	TagSquareTaken outcome.Tag = "SquareTaken"
)

var (
	errorBody = outcome.BodyOf(outcome.ErrorBody{})

	notFound = outcome.Contract{
		Tag:         TagNotFound,
		Status:      http.StatusNotFound,
		Body:        errorBody,
		Description: "No game with this ID exists.",
	}
)

// Operations returns the tic-tac-toe operations and their outcome contracts.
func Operations() []outcome.Operation {
	return []outcome.Operation{
		{
			Name:    OpCreateGame,
			Method:  http.MethodPost,
			Path:    "/games",
			Summary: "Start a new game",
			Contracts: []outcome.Contract{
				{
					Tag:         TagCreated,
					Status:      http.StatusCreated,
					Body:        outcome.BodyOf(Game{}),
					Headers:     []outcome.HeaderRule{outcome.RequiredHeader("Location", outcome.HeaderString)},
					Description: "The game was created.",
				},
				outcome.ValidationFailedContract(),
			},
		},
		{
			Name:    OpListGames,
			Method:  http.MethodGet,
			Path:    "/games",
			Summary: "List games",
			Contracts: []outcome.Contract{
				{
					Tag:    TagOK,
					Status: http.StatusOK,
					Body:   outcome.BodyOf([]GameSummary{}),
					Headers: []outcome.HeaderRule{
						outcome.RequiredHeader("X-Total-Count", outcome.HeaderInteger),
						outcome.OptionalHeader("X-Page-Number", outcome.HeaderInteger),
						outcome.OptionalHeader("X-Page-Size", outcome.HeaderInteger),
						outcome.OptionalHeader("Link", outcome.HeaderLink),
					},
					Description: "One page of games, oldest first.",
				},
				outcome.ValidationFailedContract(),
			},
		},
		{
			Name:    OpGetGame,
			Method:  http.MethodGet,
			Path:    "/games/{gameId}",
			Summary: "Get a game",
			Contracts: []outcome.Contract{
				{Tag: TagOK, Status: http.StatusOK, Body: outcome.BodyOf(Game{})},
				notFound,
				outcome.ValidationFailedContract(),
			},
		},
		{
			Name:    OpDeleteGame,
			Method:  http.MethodDelete,
			Path:    "/games/{gameId}",
			Summary: "Delete a game",
			Contracts: []outcome.Contract{
				{Tag: TagNoContent, Status: http.StatusNoContent, Body: outcome.EmptyBody, Description: "The game was deleted."},
				notFound,
				outcome.ValidationFailedContract(),
			},
		},
		{
			Name:    OpGetBoard,
			Method:  http.MethodGet,
			Path:    "/games/{gameId}/board",
			Summary: "Get the board and winner",
			Contracts: []outcome.Contract{
				{Tag: TagOK, Status: http.StatusOK, Body: outcome.BodyOf(Status{})},
				notFound,
				outcome.ValidationFailedContract(),
			},
		},
		{
			Name:    OpGetSquare,
			Method:  http.MethodGet,
			Path:    "/games/{gameId}/board/{row}/{column}",
			Summary: "Get a single square",
			Contracts: []outcome.Contract{
				{Tag: TagOK, Status: http.StatusOK, Body: outcome.BodyOf(Square{})},
				notFound,
				outcome.ValidationFailedContract(),
			},
		},
		{
			Name:    OpPutSquare,
			Method:  http.MethodPut,
			Path:    "/games/{gameId}/board/{row}/{column}",
			Summary: "Place a mark",
			Contracts: []outcome.Contract{
				{Tag: TagOK, Status: http.StatusOK, Body: outcome.BodyOf(Status{}), Description: "The mark was placed."},
				{Tag: TagIllegalMove, Status: http.StatusBadRequest, Body: errorBody, Description: "The game is over or it is the other player's turn."},
				notFound,
				{Tag: TagSquareTaken, Status: http.StatusConflict, Body: errorBody, Description: "The square already holds a mark."},
				outcome.ValidationFailedContract(),
			},
		},
	}
}

// Register adds the tic-tac-toe operations to reg.
func Register(reg *outcome.Registry) error {
	for _, op := range Operations() {
		if err := reg.Register(op); err != nil {
			return err
		}
	}
	return nil
}
