package model

// CrewStatus enumerates the lifecycle states of a crew member.  A
// member is never hard-deleted: leaving the airline is recorded as
// PERMANENT_LEAVE so historical assignments keep resolving.
type CrewStatus string

const (
    CrewActive         CrewStatus = "ACTIVE"
    CrewTemporaryLeave CrewStatus = "TEMPORARY_LEAVE"
    CrewPermanentLeave CrewStatus = "PERMANENT_LEAVE"
)

// ValidCrewStatus reports whether s is one of the known lifecycle states.
func ValidCrewStatus(s CrewStatus) bool {
    switch s {
    case CrewActive, CrewTemporaryLeave, CrewPermanentLeave:
        return true
    }
    return false
}

// CrewMember is one roster entry.  The whole roster is persisted as a
// single serialized array under one Redis key, so json tags live on the
// model itself rather than on separate response types.
//
// Fields:
//  ID     – numeric identifier, stable for the session; assigned as
//           max-existing-id + 1 on create.
//  Name   – display name.
//  Code   – formatted employee code (pattern TCP-###), unique within
//           the roster (case-insensitive).
//  Role   – free text; in practice Pilot, Copilot, Cabin Crew or
//           Cabin Crew Chief.
//  Base   – 3-letter home station code (LPB, CBB, VVI, ...).
//  Status – lifecycle status.
type CrewMember struct {
    ID     uint64     `json:"id"`
    Name   string     `json:"name"`
    Code   string     `json:"code"`
    Role   string     `json:"role"`
    Base   string     `json:"base"`
    Status CrewStatus `json:"status"`
}
