package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/logisticair/crewops/internal/model"
)

// fakeKV is an in-memory KV slot for tests.
type fakeKV struct {
	data map[string]string
	sets int
}

func newFakeKV() *fakeKV { return &fakeKV{data: make(map[string]string)} }

func (f *fakeKV) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := f.data[key]
	return v, ok, nil
}

func (f *fakeKV) Set(_ context.Context, key, value string) error {
	f.data[key] = value
	f.sets++
	return nil
}

func TestCrewRepoSeedsOnFirstRun(t *testing.T) {
	kv := newFakeKV()
	repo := NewCrewRepo(kv, zap.NewNop())

	members, err := repo.List(context.Background(), ListFilter{})
	require.NoError(t, err)
	require.Len(t, members, 3)
	assert.Equal(t, "TCP-001", members[0].Code)

	// First hydration persists the seed so later sessions share one copy.
	assert.Equal(t, 1, kv.sets)
	assert.Contains(t, kv.data[rosterKey], "Luis Suarez")
}

func TestCrewRepoMalformedBlobFallsBackToSeed(t *testing.T) {
	kv := newFakeKV()
	kv.data[rosterKey] = "{not json"
	repo := NewCrewRepo(kv, zap.NewNop())

	members, err := repo.List(context.Background(), ListFilter{})
	require.NoError(t, err)
	assert.Len(t, members, 3) // seed, not an error
}

func TestCrewRepoCreateAssignsNextID(t *testing.T) {
	repo := NewCrewRepo(newFakeKV(), zap.NewNop())
	ctx := context.Background()

	m, err := repo.Create(ctx, model.CrewMember{Name: "Ana Rojas", Code: "TCP-010", Role: "Pilot", Base: "LPB"})
	require.NoError(t, err)
	assert.Equal(t, uint64(4), m.ID) // seed ids are 1..3
	assert.Equal(t, model.CrewActive, m.Status)

	m2, err := repo.Create(ctx, model.CrewMember{Name: "Eva Paz", Code: "TCP-011", Role: "Copilot", Base: "CBB"})
	require.NoError(t, err)
	assert.Equal(t, uint64(5), m2.ID)
}

func TestCrewRepoCreateRejectsDuplicateCode(t *testing.T) {
	repo := NewCrewRepo(newFakeKV(), zap.NewNop())

	_, err := repo.Create(context.Background(), model.CrewMember{Name: "X", Code: "tcp-001", Role: "Pilot", Base: "LPB"})
	assert.ErrorIs(t, err, ErrCodeExists) // case-insensitive match against TCP-001
}

func TestCrewRepoUpdateStatusPersists(t *testing.T) {
	kv := newFakeKV()
	repo := NewCrewRepo(kv, zap.NewNop())
	ctx := context.Background()

	m, err := repo.UpdateStatus(ctx, 1, model.CrewPermanentLeave)
	require.NoError(t, err)
	assert.Equal(t, model.CrewPermanentLeave, m.Status)

	// A second repo over the same slot observes the change.
	repo2 := NewCrewRepo(kv, zap.NewNop())
	m2, err := repo2.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, model.CrewPermanentLeave, m2.Status)
}

func TestCrewRepoUpdateStatusUnknownID(t *testing.T) {
	repo := NewCrewRepo(newFakeKV(), zap.NewNop())
	_, err := repo.UpdateStatus(context.Background(), 99, model.CrewActive)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCrewRepoActiveMembersExcludesLeave(t *testing.T) {
	repo := NewCrewRepo(newFakeKV(), zap.NewNop())

	members, err := repo.ActiveMembers(context.Background())
	require.NoError(t, err)
	require.Len(t, members, 2) // TCP-002 is on TEMPORARY_LEAVE
	for _, m := range members {
		assert.Equal(t, model.CrewActive, m.Status)
	}
}

func TestCrewRepoListFilters(t *testing.T) {
	repo := NewCrewRepo(newFakeKV(), zap.NewNop())
	ctx := context.Background()

	byBase, err := repo.List(ctx, ListFilter{Base: "lpb"})
	require.NoError(t, err)
	require.Len(t, byBase, 1)
	assert.Equal(t, "Luis Suarez", byBase[0].Name)

	byName, err := repo.List(ctx, ListFilter{Name: "L"})
	require.NoError(t, err)
	assert.Len(t, byName, 3) // substring, case-insensitive

	combined, err := repo.List(ctx, ListFilter{Status: model.CrewActive, Base: "VVI"})
	require.NoError(t, err)
	require.Len(t, combined, 1)
	assert.Equal(t, "Lola Martinez", combined[0].Name)
}

func TestCrewRepoReloadPicksUpOutOfBandEdits(t *testing.T) {
	kv := newFakeKV()
	repo := NewCrewRepo(kv, zap.NewNop())
	ctx := context.Background()

	_, err := repo.List(ctx, ListFilter{}) // hydrate + persist seed
	require.NoError(t, err)

	kv.data[rosterKey] = `[{"id":9,"name":"Rita Flores","code":"TCP-009","role":"Pilot","base":"LPB","status":"ACTIVE"}]`

	// The cached copy still serves until Reload drops it.
	members, err := repo.List(ctx, ListFilter{})
	require.NoError(t, err)
	assert.Len(t, members, 3)

	repo.Reload()
	members, err = repo.List(ctx, ListFilter{})
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "Rita Flores", members[0].Name)
}

func TestCrewRepoNilKVServesSeed(t *testing.T) {
	repo := NewCrewRepo(nil, zap.NewNop())

	members, err := repo.List(context.Background(), ListFilter{})
	require.NoError(t, err)
	assert.Len(t, members, 3)

	_, err = repo.Create(context.Background(), model.CrewMember{Name: "Y", Code: "TCP-020", Role: "Pilot", Base: "LPB"})
	assert.NoError(t, err) // memory-only operation is fine
}
