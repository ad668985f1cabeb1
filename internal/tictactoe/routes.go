package tictactoe

import (
	"context"

	"github.com/broady/outcome"
)

// Endpoints returns the handlers serving every tic-tac-toe operation.
func Endpoints(svc *Service) []outcome.Endpoint {
	return []outcome.Endpoint{
		outcome.NewHandler(OpCreateGame, func(ctx context.Context, req CreateGameRequest) outcome.Outcome {
			return createGameOutcome(svc.CreateGame(ctx, req))
		}),
		outcome.NewHandler(OpListGames, func(ctx context.Context, req ListGamesRequest) outcome.Outcome {
			return listGamesOutcome(svc.ListGames(ctx, req, outcome.RequestURL(ctx)))
		}),
		outcome.NewHandler(OpGetGame, func(ctx context.Context, req GameRequest) outcome.Outcome {
			return getGameOutcome(svc.GetGame(ctx, req))
		}),
		outcome.NewHandler(OpDeleteGame, func(ctx context.Context, req GameRequest) outcome.Outcome {
			return deleteGameOutcome(svc.DeleteGame(ctx, req))
		}),
		outcome.NewHandler(OpGetBoard, func(ctx context.Context, req GameRequest) outcome.Outcome {
			return getBoardOutcome(svc.GetBoard(ctx, req))
		}),
		outcome.NewHandler(OpGetSquare, func(ctx context.Context, req SquareRequest) outcome.Outcome {
			return getSquareOutcome(svc.GetSquare(ctx, req))
		}),
		outcome.NewHandler(OpPutSquare, func(ctx context.Context, req PutSquareRequest) outcome.Outcome {
			return putSquareOutcome(svc.PutSquare(ctx, req))
		}),
	}
}

// Mount registers the tic-tac-toe operations and routes them on app.
func Mount(app *outcome.App, svc *Service) error {
	if err := Register(app.Registry()); err != nil {
		return err
	}
	for _, e := range Endpoints(svc) {
		if err := app.Route(e); err != nil {
			return err
		}
	}
	return nil
}
