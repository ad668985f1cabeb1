package petstore

import (
	"fmt"
	"strconv"

	"github.com/broady/outcome"
)

type ListPetsResult interface{ listPetsResult() }
type CreatePetResult interface{ createPetResult() }
type ShowPetResult interface{ showPetResult() }
type UpdatePetResult interface{ updatePetResult() }
type DeletePetResult interface{ deletePetResult() }

// PetsListed is one page of pets.
type PetsListed struct {
	Pets       []Pet
	Pagination outcome.Pagination
	Links      []outcome.Link
}

// PetCreated carries a new pet.
type PetCreated struct{ Pet Pet }

// PetFound carries an existing or updated pet.
type PetFound struct{ Pet Pet }

// PetDeleted reports a removed pet.
type PetDeleted struct{}

// PetNotFound reports an unknown ID.
type PetNotFound struct{ ID int64 }

// NameTaken reports a name held by another pet.
type NameTaken struct {
	Name  string
	Owner int64
}

func (PetsListed) listPetsResult()   {}
func (PetCreated) createPetResult()  {}
func (PetFound) showPetResult()      {}
func (PetFound) updatePetResult()    {}
func (PetDeleted) deletePetResult()  {}
func (PetNotFound) showPetResult()   {}
func (PetNotFound) updatePetResult() {}
func (PetNotFound) deletePetResult() {}
func (NameTaken) createPetResult()   {}
func (NameTaken) updatePetResult()   {}

func (r PetNotFound) value() outcome.Value {
	return outcome.NewError(outcome.CodeNotFound, "pet not found").WithDetail("petId", r.ID).As(TagNotFound)
}

func (r NameTaken) value() outcome.Value {
	return outcome.NewError(outcome.CodeAlreadyExists, fmt.Sprintf("a pet named %q already exists", r.Name)).
		WithDetail("petId", r.Owner).
		As(TagConflict)
}

func unhandled(op string, r any) outcome.Value {
	panic(fmt.Sprintf("petstore: unhandled %s result %T", op, r))
}

func listPetsOutcome(r ListPetsResult) outcome.Value {
	switch r := r.(type) {
	case PetsListed:
		pets := r.Pets
		if pets == nil {
			pets = []Pet{}
		}
		return outcome.Of(TagOK, pets).WithPagination(r.Pagination).WithLinks(r.Links)
	default:
		return unhandled(OpListPets, r)
	}
}

func createPetOutcome(r CreatePetResult) outcome.Value {
	switch r := r.(type) {
	case PetCreated:
		return outcome.Of(TagCreated, r.Pet).WithHeader("Location", "/pets/"+strconv.FormatInt(r.Pet.ID, 10))
	case NameTaken:
		return r.value()
	default:
		return unhandled(OpCreatePet, r)
	}
}

func showPetOutcome(r ShowPetResult) outcome.Value {
	switch r := r.(type) {
	case PetFound:
		return outcome.Of(TagOK, r.Pet)
	case PetNotFound:
		return r.value()
	default:
		return unhandled(OpShowPetByID, r)
	}
}

func updatePetOutcome(r UpdatePetResult) outcome.Value {
	switch r := r.(type) {
	case PetFound:
		return outcome.Of(TagOK, r.Pet)
	case PetNotFound:
		return r.value()
	case NameTaken:
		return r.value()
	default:
		return unhandled(OpUpdatePet, r)
	}
}

func deletePetOutcome(r DeletePetResult) outcome.Value {
	switch r := r.(type) {
	case PetDeleted:
		return outcome.Of(TagNoContent, nil)
	case PetNotFound:
		return r.value()
	default:
		return unhandled(OpDeletePet, r)
	}
}
