package petstore

import (
	"context"
	"net/url"
	"sort"
	"strings"
	"sync"

	"github.com/broady/outcome"
)

type ListPetsRequest struct {
	Page int    `query:"page" json:"-" validate:"omitempty,gte=1"`
	Size int    `query:"size" json:"-" validate:"omitempty,gte=1"`
	Tag  string `query:"tag" json:"-" validate:"omitempty,max=32"`
}

type CreatePetRequest struct {
	Name string `json:"name" validate:"required,max=64"`
	Tag  string `json:"tag" validate:"omitempty,max=32"`
}

type PetRequest struct {
	PetID int64 `path:"petId" json:"-" validate:"required,gte=1"`
}

type UpdatePetRequest struct {
	PetID int64  `path:"petId" json:"-" validate:"required,gte=1"`
	Name  string `json:"name" validate:"required,max=64"`
	Tag   string `json:"tag" validate:"omitempty,max=32"`
}

// Store is an in-memory pet store. Names are unique, ignoring case.
type Store struct {
	mu              sync.RWMutex
	pets            map[int64]Pet
	nextID          int64
	defaultPageSize int
	maxPageSize     int
}

// NewStore returns an empty store. Non-positive page sizes fall back to 20 and 100.
func NewStore(defaultPageSize, maxPageSize int) *Store {
	if defaultPageSize <= 0 {
		defaultPageSize = 20
	}
	if maxPageSize <= 0 {
		maxPageSize = 100
	}
	return &Store{
		pets:            make(map[int64]Pet),
		nextID:          1,
		defaultPageSize: defaultPageSize,
		maxPageSize:     max(maxPageSize, defaultPageSize),
	}
}

func (s *Store) ListPets(ctx context.Context, req ListPetsRequest, base *url.URL) ListPetsResult {
	page := max(req.Page, 1)
	size := req.Size
	if size == 0 {
		size = s.defaultPageSize
	}
	size = min(size, s.maxPageSize)

	s.mu.RLock()
	pets := make([]Pet, 0, len(s.pets))
	for _, p := range s.pets {
		if req.Tag == "" || strings.EqualFold(p.Tag, req.Tag) {
			pets = append(pets, p)
		}
	}
	s.mu.RUnlock()
	sort.Slice(pets, func(i, j int) bool { return pets[i].ID < pets[j].ID })

	p := outcome.Pagination{Page: page, Size: size, Total: len(pets)}
	start, end := p.Bounds(len(pets))
	return PetsListed{Pets: pets[start:end], Pagination: p, Links: p.Links(base)}
}

func (s *Store) CreatePet(ctx context.Context, req CreatePetRequest) CreatePetResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	if owner, ok := s.ownerOf(req.Name); ok {
		return NameTaken{Name: req.Name, Owner: owner}
	}
	pet := Pet{ID: s.nextID, Name: req.Name, Tag: req.Tag}
	s.nextID++
	s.pets[pet.ID] = pet
	return PetCreated{Pet: pet}
}

func (s *Store) ShowPet(ctx context.Context, req PetRequest) ShowPetResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pet, ok := s.pets[req.PetID]
	if !ok {
		return PetNotFound{ID: req.PetID}
	}
	return PetFound{Pet: pet}
}

func (s *Store) UpdatePet(ctx context.Context, req UpdatePetRequest) UpdatePetResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	pet, ok := s.pets[req.PetID]
	if !ok {
		return PetNotFound{ID: req.PetID}
	}
	if owner, ok := s.ownerOf(req.Name); ok && owner != pet.ID {
		return NameTaken{Name: req.Name, Owner: owner}
	}
	pet.Name, pet.Tag = req.Name, req.Tag
	s.pets[pet.ID] = pet
	return PetFound{Pet: pet}
}

func (s *Store) DeletePet(ctx context.Context, req PetRequest) DeletePetResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.pets[req.PetID]; !ok {
		return PetNotFound{ID: req.PetID}
	}
	delete(s.pets, req.PetID)
	return PetDeleted{}
}

// ownerOf must be called with s.mu held.
func (s *Store) ownerOf(name string) (int64, bool) {
	for id, p := range s.pets {
		if strings.EqualFold(p.Name, name) {
			return id, true
		}
	}
	return 0, false
}
