package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueParseRoundTrip(t *testing.T) {
	pair, err := Issue("T1", RoleTeacher, "secureattend", "test-key", time.Minute, time.Hour)
	require.NoError(t, err)

	claims, err := Parse(pair.AccessToken, "test-key", "secureattend")
	require.NoError(t, err)
	assert.Equal(t, "T1", claims.Subject)
	assert.Equal(t, RoleTeacher, claims.Role)
}

func TestParseWrongKey(t *testing.T) {
	pair, err := Issue("T1", RoleTeacher, "secureattend", "test-key", time.Minute, time.Hour)
	require.NoError(t, err)

	_, err = Parse(pair.AccessToken, "other-key", "secureattend")
	assert.Error(t, err)
}

func TestParseIssuerMismatch(t *testing.T) {
	pair, err := Issue("T1", RoleTeacher, "someone-else", "test-key", time.Minute, time.Hour)
	require.NoError(t, err)

	_, err = Parse(pair.AccessToken, "test-key", "secureattend")
	assert.Error(t, err)
}
