package petstore

import (
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/broady/outcome"
	"github.com/broady/outcome/testutil"
)

func newTestApp(t *testing.T) http.Handler {
	t.Helper()
	app := outcome.NewApp(outcome.NewRegistry()).
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err := Mount(app, NewStore(2, 10)); err != nil {
		t.Fatalf("Mount: %v", err)
	}
	return app.Handler()
}

func create(t *testing.T, h http.Handler, name, tag string) Pet {
	t.Helper()
	w := testutil.NewRequest().POST("/pets").WithJSON(CreatePetRequest{Name: name, Tag: tag}).Serve(h)
	testutil.AssertStatus(t, w, http.StatusCreated)
	var p Pet
	testutil.DecodeJSON(t, w, &p)
	return p
}

func TestCreatePet(t *testing.T) {
	h := newTestApp(t)

	w := testutil.NewRequest().POST("/pets").WithJSON(CreatePetRequest{Name: "Rex", Tag: "dog"}).Serve(h)
	testutil.AssertStatus(t, w, http.StatusCreated)
	testutil.AssertHeader(t, w, "Location", "/pets/1")
	testutil.AssertJSONResponse(t, w, Pet{ID: 1, Name: "Rex", Tag: "dog"})

	w = testutil.NewRequest().POST("/pets").WithJSON(CreatePetRequest{Name: "rex"}).Serve(h)
	testutil.AssertStatus(t, w, http.StatusConflict)
	testutil.AssertNoHeader(t, w, "Location")
	e := testutil.AssertJSONError(t, w, string(outcome.CodeAlreadyExists))
	if e.Details["petId"] != float64(1) {
		t.Errorf("details = %v", e.Details)
	}

	w = testutil.NewRequest().POST("/pets").WithJSON(CreatePetRequest{}).Serve(h)
	testutil.AssertStatus(t, w, http.StatusUnprocessableEntity)
	e = testutil.AssertJSONError(t, w, string(outcome.CodeInvalidArgument))
	if e.Details["name"] != "required" {
		t.Errorf("details = %v", e.Details)
	}
}

func TestCreatePet_QueryDoesNotOverrideBody(t *testing.T) {
	h := newTestApp(t)

	w := testutil.NewRequest().POST("/pets").
		WithQuery("name", "Injected").
		WithQuery("tag", "cat").
		WithJSON(CreatePetRequest{Name: "Rex", Tag: "dog"}).
		Serve(h)
	testutil.AssertStatus(t, w, http.StatusCreated)
	testutil.AssertJSONResponse(t, w, Pet{ID: 1, Name: "Rex", Tag: "dog"})
}

func TestShowPetByID(t *testing.T) {
	h := newTestApp(t)
	p := create(t, h, "Tom", "cat")

	tests := []struct {
		name   string
		path   string
		status int
		code   outcome.ErrorCode
	}{
		{"found", "/pets/1", http.StatusOK, ""},
		{"missing", "/pets/42", http.StatusNotFound, outcome.CodeNotFound},
		{"zero", "/pets/0", http.StatusUnprocessableEntity, outcome.CodeInvalidArgument},
		{"not a number", "/pets/tom", http.StatusUnprocessableEntity, outcome.CodeInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := testutil.NewRequest().GET(tt.path).Serve(h)
			testutil.AssertStatus(t, w, tt.status)
			if tt.code != "" {
				testutil.AssertJSONError(t, w, string(tt.code))
				return
			}
			testutil.AssertJSONResponse(t, w, p)
		})
	}
}

func TestUpdatePet(t *testing.T) {
	h := newTestApp(t)
	create(t, h, "Tom", "cat")
	create(t, h, "Rex", "dog")

	w := testutil.NewRequest().PUT("/pets/1").WithJSON(map[string]string{"name": "Tommy", "tag": "cat"}).Serve(h)
	testutil.AssertStatus(t, w, http.StatusOK)
	testutil.AssertJSONResponse(t, w, Pet{ID: 1, Name: "Tommy", Tag: "cat"})

	w = testutil.NewRequest().PUT("/pets/1").WithJSON(map[string]string{"name": "REX"}).Serve(h)
	testutil.AssertStatus(t, w, http.StatusConflict)

	w = testutil.NewRequest().PUT("/pets/2").WithJSON(map[string]string{"name": "Rex", "tag": "puppy"}).Serve(h)
	testutil.AssertStatus(t, w, http.StatusOK)

	w = testutil.NewRequest().PUT("/pets/9").WithJSON(map[string]string{"name": "Ghost"}).Serve(h)
	testutil.AssertStatus(t, w, http.StatusNotFound)

	w = testutil.NewRequest().PUT("/pets/1").WithJSON(map[string]string{}).Serve(h)
	testutil.AssertStatus(t, w, http.StatusUnprocessableEntity)
}

func TestDeletePet(t *testing.T) {
	h := newTestApp(t)
	create(t, h, "Tom", "")

	w := testutil.NewRequest().DELETE("/pets/1").Serve(h)
	testutil.AssertStatus(t, w, http.StatusNoContent)
	testutil.AssertEmptyBody(t, w)

	w = testutil.NewRequest().DELETE("/pets/1").Serve(h)
	testutil.AssertStatus(t, w, http.StatusNotFound)
	testutil.AssertJSONError(t, w, string(outcome.CodeNotFound))
}

func TestListPets(t *testing.T) {
	h := newTestApp(t)
	create(t, h, "Tom", "cat")
	create(t, h, "Rex", "dog")
	create(t, h, "Kitty", "cat")

	w := testutil.NewRequest().GET("/pets").WithQuery("page", "2").Serve(h)
	testutil.AssertStatus(t, w, http.StatusOK)
	testutil.AssertHeader(t, w, "X-Total-Count", "3")
	testutil.AssertHeader(t, w, "X-Page-Number", "2")
	var pets []Pet
	testutil.DecodeJSON(t, w, &pets)
	if diff := cmp.Diff([]Pet{{ID: 3, Name: "Kitty", Tag: "cat"}}, pets); diff != "" {
		t.Errorf("page 2 mismatch (-want +got):\n%s", diff)
	}
	want := []outcome.Link{
		{URL: "/pets?page=1&size=2", Rel: "first"},
		{URL: "/pets?page=1&size=2", Rel: "prev"},
		{URL: "/pets?page=2&size=2", Rel: "last"},
	}
	if diff := cmp.Diff(want, outcome.ParseLinks(w.Header().Get("Link"))); diff != "" {
		t.Errorf("links mismatch (-want +got):\n%s", diff)
	}

	w = testutil.NewRequest().GET("/pets").WithQuery("tag", "cat").Serve(h)
	testutil.AssertHeader(t, w, "X-Total-Count", "2")

	w = testutil.NewRequest().GET("/pets").WithQuery("size", "abc").Serve(h)
	testutil.AssertStatus(t, w, http.StatusUnprocessableEntity)
}

func TestListPets_PastTheEnd(t *testing.T) {
	h := newTestApp(t)
	create(t, h, "Rex", "dog")

	for _, page := range []string{"2", "1000000", "9223372036854775807"} {
		t.Run(page, func(t *testing.T) {
			w := testutil.NewRequest().GET("/pets").WithQuery("page", page).Serve(h)
			testutil.AssertStatus(t, w, http.StatusOK)
			testutil.AssertHeader(t, w, "X-Total-Count", "1")
			testutil.AssertHeader(t, w, "X-Page-Number", page)
			if got := w.Body.String(); got != "[]\n" {
				t.Errorf("body = %q, want []", got)
			}
		})
	}
}

func TestOutcomes_MatchContracts(t *testing.T) {
	reg := outcome.NewRegistry()
	if err := Register(reg); err != nil {
		t.Fatal(err)
	}
	d := outcome.NewDispatcher(reg)
	tests := []struct {
		op string
		v  outcome.Value
	}{
		{OpListPets, listPetsOutcome(PetsListed{})},
		{OpCreatePet, createPetOutcome(PetCreated{Pet: Pet{ID: 1}})},
		{OpCreatePet, createPetOutcome(NameTaken{Name: "x", Owner: 1})},
		{OpShowPetByID, showPetOutcome(PetFound{})},
		{OpShowPetByID, showPetOutcome(PetNotFound{ID: 1})},
		{OpUpdatePet, updatePetOutcome(PetFound{})},
		{OpUpdatePet, updatePetOutcome(PetNotFound{})},
		{OpUpdatePet, updatePetOutcome(NameTaken{})},
		{OpDeletePet, deletePetOutcome(PetDeleted{})},
		{OpDeletePet, deletePetOutcome(PetNotFound{})},
	}
	for _, tt := range tests {
		if _, err := d.Dispatch(t.Context(), tt.op, tt.v); err != nil {
			t.Errorf("Dispatch(%s, %s): %v", tt.op, tt.v.Tag, err)
		}
	}
}
