// Package access issues short-lived login credentials for crew members:
// six-digit numeric codes or QR token strings, each valid for exactly
// ten minutes from issuance.
package access

import (
	"math/rand"
	"strings"
	"time"

	"github.com/logisticair/crewops/internal/model"
)

// Validity is the fixed lifetime of every issued credential.  The
// ten-minute window is a compatibility contract with the mobile app and
// must not be made configurable.
const Validity = 10 * time.Minute

// QRPrefix is prepended to the random part of QR token credentials.
const QRPrefix = "QR_TOKEN_"

// Issuer generates credential values.  Digits are drawn independently
// and uniformly, so leading zeros and collisions are allowed and
// expected; the codes are rendezvous values for a ten-minute window,
// not secrets with entropy requirements.
type Issuer struct {
	rng *rand.Rand
	now func() time.Time
}

// NewIssuer returns an Issuer seeded from the current time.
func NewIssuer() *Issuer {
	return &Issuer{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
		now: time.Now,
	}
}

// NewIssuerAt returns an Issuer with injectable randomness and clock,
// for tests.
func NewIssuerAt(rng *rand.Rand, now func() time.Time) *Issuer {
	return &Issuer{rng: rng, now: now}
}

// numericCode returns n independently drawn decimal digits.
func (i *Issuer) numericCode(n int) string {
	var b strings.Builder
	for k := 0; k < n; k++ {
		b.WriteByte(byte('0' + i.rng.Intn(10)))
	}
	return b.String()
}

// Issue produces a new credential of the given kind for the crew
// member.  The result always starts VALID with expiry = creation +
// Validity; persistence and list ordering are the repository's concern.
func (i *Issuer) Issue(crewID uint64, kind model.CredentialKind) model.Credential {
	now := i.now().UTC()
	code := i.numericCode(6)
	if kind == model.CredentialQRToken {
		code = QRPrefix + code
	}
	return model.Credential{
		CrewID:    crewID,
		Code:      code,
		Kind:      kind,
		Status:    model.CredentialValid,
		CreatedAt: now,
		ExpiresAt: now.Add(Validity),
	}
}
