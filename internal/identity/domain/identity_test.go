package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentity_Expired(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)

	tests := []struct {
		name      string
		expiresAt int64
		expected  bool
	}{
		{"future expiry", now.Unix() + 600, false},
		{"past expiry", now.Unix() - 1, true},
		{"exactly now", now.Unix(), true},
		{"zero means no expiry", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			identity := &Identity{Subject: "rc://sk/8314451337", ExpiresAt: tt.expiresAt}
			assert.Equal(t, tt.expected, identity.Expired(now))
		})
	}
}

func TestIdentity_IsFake(t *testing.T) {
	assert.True(t, (&Identity{DelegationToken: FakeToken}).IsFake())
	assert.False(t, (&Identity{DelegationToken: "eyJhbGciOi.xx.yy"}).IsFake())
}

func TestIdentity_JSONOmitsDelegationToken(t *testing.T) {
	identity := &Identity{
		Subject:         "rc://sk/8314451337",
		Name:            "Janko Hraško",
		ExpiresAt:       1_700_000_600,
		DelegationToken: "secret-obo-token",
	}

	data, err := json.Marshal(identity)
	require.NoError(t, err)

	assert.NotContains(t, string(data), "secret-obo-token")

	var decoded Identity
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, identity.Subject, decoded.Subject)
	assert.Equal(t, identity.Name, decoded.Name)
	assert.Equal(t, identity.ExpiresAt, decoded.ExpiresAt)
	assert.Empty(t, decoded.DelegationToken)
}
