package model

import "time"

// CredentialKind distinguishes the two login credential formats handed
// to a crew member's mobile app.
type CredentialKind string

const (
	CredentialNumeric CredentialKind = "NUMERIC_CODE"
	CredentialQRToken CredentialKind = "QR_TOKEN"
)

// CredentialStatus is the stored lifecycle state of a credential.  No
// background sweep moves VALID credentials to EXPIRED; elapsed expiry is
// computed lazily on read and reported separately (see the Expired field).
type CredentialStatus string

const (
	CredentialValid   CredentialStatus = "VALID"
	CredentialUsed    CredentialStatus = "USED"
	CredentialExpired CredentialStatus = "EXPIRED"
)

// Credential is a short-lived login credential issued for one crew
// member.  Newly issued credentials always start VALID with an expiry
// exactly ten minutes after creation.
//
// Fields:
//  ID        – primary key identifier.
//  CrewID    – crew member the credential was issued for.
//  Code      – the 6-digit value, or QR_TOKEN_ + 6 digits.
//  Kind      – NUMERIC_CODE or QR_TOKEN.
//  Status    – stored status; only mutated by explicit actions.
//  Expired   – derived at read time: now is past ExpiresAt.  Not stored.
//  CreatedAt – issuance timestamp.
//  ExpiresAt – CreatedAt + 10 minutes.
type Credential struct {
	ID        uint64           `json:"id"`
	CrewID    uint64           `json:"crew_id"`
	Code      string           `json:"code"`
	Kind      CredentialKind   `json:"kind"`
	Status    CredentialStatus `json:"status"`
	Expired   bool             `json:"expired"`
	CreatedAt time.Time        `json:"created_at"`
	ExpiresAt time.Time        `json:"expires_at"`
}
