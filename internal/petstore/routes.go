package petstore

import (
	"context"

	"github.com/broady/outcome"
)

// Endpoints returns the handlers serving every pet shop operation.
func Endpoints(s *Store) []outcome.Endpoint {
	return []outcome.Endpoint{
		outcome.NewHandler(OpListPets, func(ctx context.Context, req ListPetsRequest) outcome.Outcome {
			return listPetsOutcome(s.ListPets(ctx, req, outcome.RequestURL(ctx)))
		}),
		outcome.NewHandler(OpCreatePet, func(ctx context.Context, req CreatePetRequest) outcome.Outcome {
			return createPetOutcome(s.CreatePet(ctx, req))
		}),
		outcome.NewHandler(OpShowPetByID, func(ctx context.Context, req PetRequest) outcome.Outcome {
			return showPetOutcome(s.ShowPet(ctx, req))
		}),
		outcome.NewHandler(OpUpdatePet, func(ctx context.Context, req UpdatePetRequest) outcome.Outcome {
			return updatePetOutcome(s.UpdatePet(ctx, req))
		}),
		outcome.NewHandler(OpDeletePet, func(ctx context.Context, req PetRequest) outcome.Outcome {
			return deletePetOutcome(s.DeletePet(ctx, req))
		}),
	}
}

// Mount registers the pet shop operations and routes them on app.
func Mount(app *outcome.App, s *Store) error {
	if err := Register(app.Registry()); err != nil {
		return err
	}
	for _, e := range Endpoints(s) {
		if err := app.Route(e); err != nil {
			return err
		}
	}
	return nil
}
