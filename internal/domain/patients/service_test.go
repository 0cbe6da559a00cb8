package patients

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRepo struct {
	mu   sync.Mutex
	byID map[string]Patient
}

func newTestRepo(ps ...Patient) *testRepo {
	r := &testRepo{byID: map[string]Patient{}}
	for _, p := range ps {
		r.byID[p.ID] = p
	}
	return r
}

func (r *testRepo) List(ctx context.Context) ([]Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Patient, 0, len(r.byID))
	for _, p := range r.byID {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *testRepo) Get(ctx context.Context, id string) (Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return Patient{}, ErrNotFound
	}
	return p, nil
}

func (r *testRepo) Insert(ctx context.Context, p Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) Update(ctx context.Context, p Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[p.ID]; !ok {
		return ErrNotFound
	}
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *testRepo) AppendHistory(ctx context.Context, patientID string, e HistoryEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[patientID]
	if !ok {
		return ErrNotFound
	}
	p.History = append([]HistoryEntry{e}, p.History...)
	r.byID[patientID] = p
	return nil
}

type vetSet map[string]bool

func (v vetSet) IsVeterinarian(ctx context.Context, id string) (bool, error) {
	return v[id], nil
}

func seedPatients() []Patient {
	return []Patient{
		{ID: "1", Name: "Max", Species: SpeciesDog, Owner: Owner{Name: "John Doe"}},
		{ID: "2", Name: "Luna", Species: SpeciesCat, Owner: Owner{Name: "Jane Smith"}},
		{ID: "3", Name: "Rocky", Species: SpeciesDog, Owner: Owner{Name: "Mike Johnson"}},
	}
}

func TestList_FiltersByPatientOrOwnerName(t *testing.T) {
	svc := NewService(newTestRepo(seedPatients()...), vetSet{}, nil)
	ctx := context.Background()

	all, err := svc.List(ctx, "  ")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	byPet, err := svc.List(ctx, "LUN")
	require.NoError(t, err)
	require.Len(t, byPet, 1)
	assert.Equal(t, "2", byPet[0].ID)

	byOwner, err := svc.List(ctx, "johnson")
	require.NoError(t, err)
	require.Len(t, byOwner, 1)
	assert.Equal(t, "Rocky", byOwner[0].Name)

	none, err := svc.List(ctx, "garfield")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestCreate_ValidatesAndNormalizes(t *testing.T) {
	svc := NewService(newTestRepo(), vetSet{}, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{Name: "Toby", Species: "Dog"})
	assert.ErrorIs(t, err, ErrInvalidInput, "owner required")

	_, err = svc.Create(ctx, CreateInput{Name: "Toby", Species: "parrot", Owner: Owner{Name: "Ana"}})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Create(ctx, CreateInput{Name: "Toby", Species: "dog", Age: -1, Owner: Owner{Name: "Ana"}})
	assert.ErrorIs(t, err, ErrInvalidInput)

	p, err := svc.Create(ctx, CreateInput{Name: " Toby ", Species: "Dog", Weight: 12.5, Owner: Owner{Name: " Ana "}})
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "Toby", p.Name)
	assert.Equal(t, SpeciesDog, p.Species)
	assert.Equal(t, "Ana", p.Owner.Name)
	assert.Empty(t, p.History)
}

func TestUpdate_PatchesOnlyGivenFields(t *testing.T) {
	svc := NewService(newTestRepo(seedPatients()...), vetSet{}, nil)
	ctx := context.Background()

	age := 6
	p, err := svc.Update(ctx, "1", UpdateInput{Age: &age})
	require.NoError(t, err)
	assert.Equal(t, 6, p.Age)
	assert.Equal(t, "Max", p.Name)

	empty := ""
	_, err = svc.Update(ctx, "1", UpdateInput{Name: &empty})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Update(ctx, "nope", UpdateInput{Age: &age})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAppendHistory_NewestFirstWithTodayDate(t *testing.T) {
	repo := newTestRepo(seedPatients()...)
	svc := NewService(repo, vetSet{"2": true}, nil)
	svc.now = func() time.Time { return time.Date(2025, 12, 1, 15, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	first, err := svc.AppendHistory(ctx, "1", HistoryInput{VetID: "2", Reason: "Control", Diagnosis: "Sano"})
	require.NoError(t, err)
	assert.Equal(t, "2025-12-01", first.Date)

	svc.now = func() time.Time { return time.Date(2025, 12, 2, 9, 0, 0, 0, time.UTC) }
	second, err := svc.AppendHistory(ctx, "1", HistoryInput{
		VetID: "2", Reason: "Vacuna", Diagnosis: "Sano", Treatment: "Rabia", Observations: "sin reacción",
	})
	require.NoError(t, err)

	hist, err := svc.History(ctx, "1")
	require.NoError(t, err)
	require.Len(t, hist, 2)
	assert.Equal(t, second.ID, hist[0].ID)
	assert.Equal(t, first.ID, hist[1].ID)
	assert.Equal(t, "sin reacción", hist[0].Observations)
}

func TestAppendHistory_Errors(t *testing.T) {
	svc := NewService(newTestRepo(seedPatients()...), vetSet{"2": true}, nil)
	ctx := context.Background()

	_, err := svc.AppendHistory(ctx, "1", HistoryInput{VetID: "2", Reason: "Control"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.AppendHistory(ctx, "99", HistoryInput{VetID: "2", Reason: "Control", Diagnosis: "Sano"})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.AppendHistory(ctx, "1", HistoryInput{VetID: "3", Reason: "Control", Diagnosis: "Sano"})
	assert.ErrorIs(t, err, ErrDanglingReference)
}

func TestExistsAndDelete(t *testing.T) {
	svc := NewService(newTestRepo(seedPatients()...), vetSet{}, nil)
	ctx := context.Background()

	ok, err := svc.Exists(ctx, "2")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, svc.Delete(ctx, "2"))

	ok, err = svc.Exists(ctx, "2")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.Exists(ctx, "")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.ErrorIs(t, svc.Delete(ctx, "2"), ErrNotFound)
}
