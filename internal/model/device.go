package model

import "time"

// DeviceStatus enumerates the lifecycle states of a registered mobile
// device.  Transitions are permissive: any state can move to any other
// via the Suspend/Revoke/Reactivate actions, with Revoke additionally
// gated by an operator confirmation.
type DeviceStatus string

const (
	DeviceActive    DeviceStatus = "ACTIVE"
	DeviceSuspended DeviceStatus = "SUSPENDED"
	DeviceRevoked   DeviceStatus = "REVOKED"
)

// ValidDeviceStatus reports whether s is a known device state.
func ValidDeviceStatus(s DeviceStatus) bool {
	switch s {
	case DeviceActive, DeviceSuspended, DeviceRevoked:
		return true
	}
	return false
}

// Device represents a row in the `devices` table.  Every device
// references exactly one crew member; a crew member may own several
// devices.
//
// Fields:
//  ID           – primary key identifier.
//  CrewID       – owning crew member.
//  Name         – display name, e.g. "iPhone de Suarez".
//  Platform     – Android or iOS.
//  Model        – hardware model, e.g. "Samsung A54".
//  CrewName     – denormalized owner name for list filtering.
//  Status       – lifecycle status.
//  RegisteredAt – when the device was enrolled.
//  LastSeenAt   – last recorded access (nullable).
type Device struct {
	ID           uint64       `json:"id"`
	CrewID       uint64       `json:"crew_id"`
	Name         string       `json:"name"`
	Platform     string       `json:"platform"`
	Model        string       `json:"model"`
	CrewName     string       `json:"crew_name"`
	Status       DeviceStatus `json:"status"`
	RegisteredAt time.Time    `json:"registered_at"`
	LastSeenAt   *time.Time   `json:"last_seen_at,omitempty"`
}
