package staging

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedPools() ([]Candidate, []Candidate) {
	available := []Candidate{
		{ID: 1, Name: "Alan Torrejon", Role: "Cabin Crew", Base: "LPB"},
		{ID: 2, Name: "Lola Cortez", Role: "Cabin Crew", Base: "LPB"},
		{ID: 5, Name: "Pedro Rojas", Role: "Cabin Crew", Base: "VVI"},
	}
	assigned := []Candidate{
		{ID: 3, Name: "Lucas Perez", Role: "Pilot", Base: "CBB"},
		{ID: 4, Name: "Maria Gomez", Role: "Copilot", Base: "LPB"},
	}
	return available, assigned
}

func newTestSession(t *testing.T) *Session {
	t.Helper()
	available, assigned := seedPools()
	return NewSession("s-1", 42, available, assigned)
}

func TestAssignMovesCandidateToEndOfAssigned(t *testing.T) {
	s := newTestSession(t)

	s.Assign(2)

	assert.Len(t, s.Available, 2)
	require.Len(t, s.Assigned, 3)
	assert.Equal(t, uint64(2), s.Assigned[2].ID)
	for _, c := range s.Available {
		assert.NotEqual(t, uint64(2), c.ID)
	}
}

func TestAssignUnknownIDIsNoOp(t *testing.T) {
	s := newTestSession(t)

	s.Assign(99)
	s.Assign(3) // id 3 lives in assigned, not available

	assert.Len(t, s.Available, 3)
	assert.Len(t, s.Assigned, 2)
}

func TestAssignThenUnassignRestoresBothSets(t *testing.T) {
	s := newTestSession(t)
	wantAvailable := append([]Candidate(nil), s.Available...)
	wantAssigned := append([]Candidate(nil), s.Assigned...)

	s.Assign(1)
	s.Unassign(1)

	// Append-at-end semantics: with no interleaved move the candidate
	// re-enters available... at the end, so order is only preserved when
	// the moved candidate was already last.
	assert.ElementsMatch(t, wantAvailable, s.Available)
	assert.Equal(t, wantAssigned, s.Assigned)

	s2 := newTestSession(t)
	s2.Assign(5) // last available entry
	s2.Unassign(5)
	assert.Equal(t, wantAvailable, s2.Available)
	assert.Equal(t, wantAssigned, s2.Assigned)
}

func TestMoveSequencePreservesUnionAndDisjointness(t *testing.T) {
	s := newTestSession(t)
	ids := []uint64{1, 2, 3, 4, 5}

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		id := ids[rng.Intn(len(ids))]
		if rng.Intn(2) == 0 {
			s.Assign(id)
		} else {
			s.Unassign(id)
		}

		seen := make(map[uint64]int)
		for _, c := range s.Available {
			seen[c.ID]++
		}
		for _, c := range s.Assigned {
			seen[c.ID]++
		}
		require.Len(t, seen, len(ids), "candidate created or destroyed by a move")
		for id, n := range seen {
			require.Equalf(t, 1, n, "candidate %d present in both sets", id)
		}
	}
}

func TestDotationSummaryComplete(t *testing.T) {
	s := NewSession("s-2", 7, nil, []Candidate{
		{ID: 1, Role: "Pilot"},
		{ID: 2, Role: "Copilot"},
		{ID: 3, Role: "Cabin Crew"},
		{ID: 4, Role: "Cabin Crew"},
		{ID: 5, Role: "Cabin Crew"},
	})

	sum := s.DotationSummary()

	assert.Equal(t, 5, sum.TotalAssigned)
	require.Len(t, sum.Roles, 3)
	for _, r := range sum.Roles {
		assert.Equalf(t, Complete, r.State, "role %s", r.Role)
	}
}

func TestDotationSummaryIncompleteAndExceeded(t *testing.T) {
	s := NewSession("s-3", 7, nil, []Candidate{
		{ID: 1, Role: "Pilot"},
		{ID: 2, Role: "Copilot"},
		{ID: 3, Role: "Cabin Crew"},
		{ID: 4, Role: "Cabin Crew"},
	})

	sum := s.DotationSummary()
	assert.Equal(t, 4, sum.TotalAssigned)
	byRole := make(map[string]RoleSummary)
	for _, r := range sum.Roles {
		byRole[r.Role] = r
	}
	assert.Equal(t, Complete, byRole["Pilot"].State)
	assert.Equal(t, Complete, byRole["Copilot"].State)
	assert.Equal(t, Incomplete, byRole["Cabin Crew"].State)
	assert.Equal(t, 2, byRole["Cabin Crew"].Assigned)

	s.Assigned = append(s.Assigned, Candidate{ID: 5, Role: "Pilot"})
	sum = s.DotationSummary()
	for _, r := range sum.Roles {
		if r.Role == "Pilot" {
			assert.Equal(t, Exceeded, r.State)
		}
	}
}

func TestFilterAvailableByRolePreservesOrder(t *testing.T) {
	s := NewSession("s-4", 7, []Candidate{
		{ID: 1, Name: "A", Role: "Pilot", Base: "LPB"},
		{ID: 2, Name: "B", Role: "Copilot", Base: "CBB"},
		{ID: 3, Name: "C", Role: "Pilot", Base: "VVI"},
	}, nil)

	got := s.FilterAvailable(Filter{Role: "Pilot"})

	require.Len(t, got, 2)
	assert.Equal(t, uint64(1), got[0].ID)
	assert.Equal(t, uint64(3), got[1].ID)
	// the view never mutates the underlying set
	assert.Len(t, s.Available, 3)
}

func TestFilterAvailableUnknownRoleMatchesNothing(t *testing.T) {
	s := newTestSession(t)
	assert.Empty(t, s.FilterAvailable(Filter{Role: "Navigator"}))
}

func TestFilterAvailableCombinesPredicates(t *testing.T) {
	s := newTestSession(t)

	got := s.FilterAvailable(Filter{Role: "Cabin Crew", Base: "lpb", Name: "lola"})
	require.Len(t, got, 1)
	assert.Equal(t, uint64(2), got[0].ID)

	assert.Len(t, s.FilterAvailable(Filter{Role: RoleAny}), 3)
	assert.Len(t, s.FilterAvailable(Filter{}), 3)
}

func TestCommitPackagesAssignedIDsInOrder(t *testing.T) {
	s := newTestSession(t)
	s.Assign(1)

	p := s.Commit()

	assert.Equal(t, uint64(42), p.FlightID)
	assert.Equal(t, []uint64{3, 4, 1}, p.CrewIDs)
}

func TestStoreOpenReplacesSession(t *testing.T) {
	st := NewStore()
	available, assigned := seedPools()

	first := st.Open(42, available, assigned)
	require.NoError(t, st.With(42, func(s *Session) { s.Assign(1) }))

	second := st.Open(42, available, assigned)
	assert.NotEqual(t, first.ID, second.ID)

	got, err := st.Get(42)
	require.NoError(t, err)
	assert.Len(t, got.Assigned, 2, "reopened session must not keep stale moves")

	_, err = st.Get(7)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestStoreGetReturnsSnapshot(t *testing.T) {
	st := NewStore()
	available, assigned := seedPools()
	st.Open(42, available, assigned)

	before, err := st.Get(42)
	require.NoError(t, err)
	require.NoError(t, st.With(42, func(s *Session) { s.Assign(1) }))

	// The earlier snapshot is unaffected by the later move.
	assert.Len(t, before.Assigned, 2)

	after, err := st.Get(42)
	require.NoError(t, err)
	assert.Len(t, after.Assigned, 3)

	// Mutating a snapshot never reaches the stored session.
	after.Assign(2)
	again, err := st.Get(42)
	require.NoError(t, err)
	assert.Len(t, again.Assigned, 3)
}

func TestStoreConcurrentMovesAndReads(t *testing.T) {
	st := NewStore()
	available, assigned := seedPools()
	st.Open(42, available, assigned)
	ids := []uint64{1, 2, 3, 4, 5}

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(2)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for i := 0; i < 200; i++ {
				id := ids[rng.Intn(len(ids))]
				_ = st.With(42, func(s *Session) {
					if rng.Intn(2) == 0 {
						s.Assign(id)
					} else {
						s.Unassign(id)
					}
				})
			}
		}(int64(w))
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				s, err := st.Get(42)
				if err != nil {
					continue
				}
				sum := s.DotationSummary()
				assert.Equal(t, len(s.Assigned), sum.TotalAssigned)
				assert.Len(t, append(s.Available, s.Assigned...), len(ids))
			}
		}()
	}
	wg.Wait()

	final, err := st.Get(42)
	require.NoError(t, err)
	assert.Len(t, append(final.Available, final.Assigned...), len(ids))
}
