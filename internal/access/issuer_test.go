package access

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logisticair/crewops/internal/model"
)

func fixedIssuer(seed int64) (*Issuer, time.Time) {
	at := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	return NewIssuerAt(rand.New(rand.NewSource(seed)), func() time.Time { return at }), at
}

func TestIssueNumericCode(t *testing.T) {
	iss, at := fixedIssuer(1)

	for k := 0; k < 200; k++ {
		c := iss.Issue(7, model.CredentialNumeric)

		require.Len(t, c.Code, 6)
		for _, r := range c.Code {
			assert.True(t, r >= '0' && r <= '9', "non-digit in code %q", c.Code)
		}
		assert.Equal(t, model.CredentialValid, c.Status)
		assert.Equal(t, uint64(7), c.CrewID)
		assert.Equal(t, at, c.CreatedAt)
		assert.Equal(t, 10*time.Minute, c.ExpiresAt.Sub(c.CreatedAt))
	}
}

func TestIssueQRToken(t *testing.T) {
	iss, _ := fixedIssuer(2)

	c := iss.Issue(3, model.CredentialQRToken)

	require.True(t, strings.HasPrefix(c.Code, QRPrefix))
	suffix := strings.TrimPrefix(c.Code, QRPrefix)
	require.Len(t, suffix, 6)
	for _, r := range suffix {
		assert.True(t, r >= '0' && r <= '9')
	}
	assert.Equal(t, model.CredentialValid, c.Status)
	assert.Equal(t, 10*time.Minute, c.ExpiresAt.Sub(c.CreatedAt))
}

func TestLeadingZerosAllowed(t *testing.T) {
	iss, _ := fixedIssuer(3)

	var sawLeadingZero bool
	for k := 0; k < 2000 && !sawLeadingZero; k++ {
		if strings.HasPrefix(iss.Issue(1, model.CredentialNumeric).Code, "0") {
			sawLeadingZero = true
		}
	}
	assert.True(t, sawLeadingZero, "uniform digit sampling should produce leading zeros")
}
