// Package petstore is a small pet shop API. It shares the outcome machinery
// with tictactoe and differs in the shape of its identifiers and conflicts.
package petstore

import (
	"net/http"

	"github.com/broady/outcome"
)

const (
	OpListPets    = "listPets"
	OpCreatePet   = "createPet"
	OpShowPetByID = "showPetById"
	OpUpdatePet   = "updatePet"
	OpDeletePet   = "deletePet"
)

const (
	TagOK        outcome.Tag = "Ok"
	TagCreated   outcome.Tag = "Created"
	TagNoContent outcome.Tag = "NoContent"
	TagNotFound  outcome.Tag = "NotFound"
	TagConflict  outcome.Tag = "Conflict"
)

// Pet is a pet for sale.
type Pet struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Tag  string `json:"tag,omitempty"`
}

var (
	errorBody = outcome.BodyOf(outcome.ErrorBody{})
	notFound  = outcome.Contract{Tag: TagNotFound, Status: http.StatusNotFound, Body: errorBody, Description: "No pet with this ID exists."}
	conflict  = outcome.Contract{Tag: TagConflict, Status: http.StatusConflict, Body: errorBody, Description: "Another pet already has this name."}
)

// Operations returns the pet shop operations.
func Operations() []outcome.Operation {
	return []outcome.Operation{
		{
			Name:    OpListPets,
			Method:  http.MethodGet,
			Path:    "/pets",
			Summary: "List all pets",
			Contracts: []outcome.Contract{
				{
					Tag:    TagOK,
					Status: http.StatusOK,
					Body:   outcome.BodyOf([]Pet{}),
					Headers: []outcome.HeaderRule{
						outcome.RequiredHeader("X-Total-Count", outcome.HeaderInteger),
						outcome.OptionalHeader("X-Page-Number", outcome.HeaderInteger),
						outcome.OptionalHeader("X-Page-Size", outcome.HeaderInteger),
						outcome.OptionalHeader("Link", outcome.HeaderLink),
					},
				},
				outcome.ValidationFailedContract(),
			},
		},
		{
			Name:    OpCreatePet,
			Method:  http.MethodPost,
			Path:    "/pets",
			Summary: "Create a pet",
			Contracts: []outcome.Contract{
				{
					Tag:     TagCreated,
					Status:  http.StatusCreated,
					Body:    outcome.BodyOf(Pet{}),
					Headers: []outcome.HeaderRule{outcome.RequiredHeader("Location", outcome.HeaderString)},
				},
				conflict,
				outcome.ValidationFailedContract(),
			},
		},
		{
			Name:    OpShowPetByID,
			Method:  http.MethodGet,
			Path:    "/pets/{petId}",
			Summary: "Info for a specific pet",
			Contracts: []outcome.Contract{
				{Tag: TagOK, Status: http.StatusOK, Body: outcome.BodyOf(Pet{})},
				notFound,
				outcome.ValidationFailedContract(),
			},
		},
		{
			Name:    OpUpdatePet,
			Method:  http.MethodPut,
			Path:    "/pets/{petId}",
			Summary: "Rename or retag a pet",
			Contracts: []outcome.Contract{
				{Tag: TagOK, Status: http.StatusOK, Body: outcome.BodyOf(Pet{})},
				notFound,
				conflict,
				outcome.ValidationFailedContract(),
			},
		},
		{
			Name:    OpDeletePet,
			Method:  http.MethodDelete,
			Path:    "/pets/{petId}",
			Summary: "Remove a pet",
			Contracts: []outcome.Contract{
				{Tag: TagNoContent, Status: http.StatusNoContent, Body: outcome.EmptyBody},
				notFound,
				outcome.ValidationFailedContract(),
			},
		},
	}
}

// Register adds the pet shop operations to reg.
func Register(reg *outcome.Registry) error {
	for _, op := range Operations() {
		if err := reg.Register(op); err != nil {
			return err
		}
	}
	return nil
}
