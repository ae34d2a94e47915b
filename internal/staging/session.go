// Package staging implements the per-flight crew assignment workspace:
// two disjoint candidate sets (available and assigned), move operations
// between them, a non-mutating filtered view over the available set and
// a staffing summary against the fixed per-role minimums.
package staging

import (
	"strings"
	"time"

	"github.com/logisticair/crewops/internal/model"
)

// Candidate is a crew member projected into the staging context.  A
// candidate lives in exactly one of the two session sets at any time;
// moves relocate it, they never copy or drop it.
type Candidate struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
	Base string `json:"base"`
}

// RoleAny is the filter value that matches every role.
const RoleAny = "ANY"

// dotationTable holds the fixed per-role staffing minimums for one
// flight.  Order is preserved in summaries.
var dotationTable = []struct {
	Role     string
	Required int
}{
	{"Pilot", 1},
	{"Copilot", 1},
	{"Cabin Crew", 3},
}

// ComplianceState classifies one role's assigned count against its
// required minimum.
type ComplianceState string

const (
	Complete   ComplianceState = "COMPLETE"
	Incomplete ComplianceState = "INCOMPLETE"
	Exceeded   ComplianceState = "EXCEEDED"
)

// RoleSummary is one row of the dotation summary.
type RoleSummary struct {
	Role     string          `json:"role"`
	Required int             `json:"required"`
	Assigned int             `json:"assigned"`
	State    ComplianceState `json:"state"`
}

// Summary reports staffing compliance for the whole session.
type Summary struct {
	Roles         []RoleSummary `json:"roles"`
	TotalAssigned int           `json:"total_assigned"`
}

// Filter holds the AND-combined predicates applied to the available
// set.  Role is an exact match against an enumerated value or RoleAny;
// Base and Name are case-insensitive substring matches.  Empty fields
// match everything.
type Filter struct {
	Role string
	Base string
	Name string
}

// Session is the transient staging state for one flight.  It is not
// safe for concurrent use; the owning Store serializes access.
type Session struct {
	ID        string      `json:"id"`
	FlightID  uint64      `json:"flight_id"`
	Available []Candidate `json:"available"`
	Assigned  []Candidate `json:"assigned"`
	CreatedAt time.Time   `json:"created_at"`
}

// NewSession seeds a session from the two pools.  The pools are trusted
// not to share ids; the caller derives them from the roster so the
// precondition holds by construction.
func NewSession(id string, flightID uint64, available, assigned []Candidate) *Session {
	s := &Session{
		ID:        id,
		FlightID:  flightID,
		Available: append([]Candidate(nil), available...),
		Assigned:  append([]Candidate(nil), assigned...),
		CreatedAt: time.Now().UTC(),
	}
	return s
}

// Clone returns an independent copy of the session.  The Store hands
// out clones so readers never share slices with a session that a
// concurrent move is mutating.
func (s *Session) Clone() *Session {
	return &Session{
		ID:        s.ID,
		FlightID:  s.FlightID,
		Available: append([]Candidate(nil), s.Available...),
		Assigned:  append([]Candidate(nil), s.Assigned...),
		CreatedAt: s.CreatedAt,
	}
}

// CandidateFromCrew projects a roster entry into the staging context.
func CandidateFromCrew(m model.CrewMember) Candidate {
	return Candidate{ID: m.ID, Name: m.Name, Role: m.Role, Base: m.Base}
}

// Assign moves the candidate with the given id from available to the
// end of assigned.  Unknown ids are a silent no-op, which makes the
// operation idempotent against a double click on the same row.
func (s *Session) Assign(id uint64) {
	moveCandidate(id, &s.Available, &s.Assigned)
}

// Unassign is the inverse of Assign: it moves the candidate from
// assigned back to the end of available.
func (s *Session) Unassign(id uint64) {
	moveCandidate(id, &s.Assigned, &s.Available)
}

func moveCandidate(id uint64, from, to *[]Candidate) {
	for i, c := range *from {
		if c.ID == id {
			*from = append((*from)[:i], (*from)[i+1:]...)
			*to = append(*to, c)
			return
		}
	}
}

// knownRoles is the enumerated set accepted by the role predicate.
var knownRoles = map[string]bool{
	"Pilot":            true,
	"Copilot":          true,
	"Cabin Crew":       true,
	"Cabin Crew Chief": true,
}

// FilterAvailable returns a view over the available set without
// mutating it.  An unknown role value matches nothing rather than
// raising an error; the filter is a permissive view, not a validation
// gate.
func (s *Session) FilterAvailable(f Filter) []Candidate {
	out := make([]Candidate, 0, len(s.Available))
	for _, c := range s.Available {
		if f.Role != "" && f.Role != RoleAny {
			if !knownRoles[f.Role] || c.Role != f.Role {
				continue
			}
		}
		if f.Base != "" && !strings.Contains(strings.ToLower(c.Base), strings.ToLower(f.Base)) {
			continue
		}
		if f.Name != "" && !strings.Contains(strings.ToLower(c.Name), strings.ToLower(f.Name)) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// DotationSummary counts assigned candidates per role in the fixed
// requirement table and classifies each count against its minimum.
func (s *Session) DotationSummary() Summary {
	counts := make(map[string]int, len(dotationTable))
	for _, c := range s.Assigned {
		counts[c.Role]++
	}
	sum := Summary{Roles: make([]RoleSummary, 0, len(dotationTable)), TotalAssigned: len(s.Assigned)}
	for _, row := range dotationTable {
		n := counts[row.Role]
		state := Complete
		if n < row.Required {
			state = Incomplete
		} else if n > row.Required {
			state = Exceeded
		}
		sum.Roles = append(sum.Roles, RoleSummary{Role: row.Role, Required: row.Required, Assigned: n, State: state})
	}
	return sum
}

// CommitPayload is the body handed to the external flight-assignment
// API.  Producing it is where this package's responsibility ends; the
// caller interprets nothing of the API's answer beyond success/failure.
type CommitPayload struct {
	FlightID uint64   `json:"flight_id"`
	CrewIDs  []uint64 `json:"crew_ids"`
}

// Commit packages the current assigned set's ids in assignment order.
func (s *Session) Commit() CommitPayload {
	ids := make([]uint64, 0, len(s.Assigned))
	for _, c := range s.Assigned {
		ids = append(ids, c.ID)
	}
	return CommitPayload{FlightID: s.FlightID, CrewIDs: ids}
}
