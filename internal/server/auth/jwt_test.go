package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/punchkeeper/internal/common"
)

var jane = Principal{TenantID: "t1", UserID: "u1", Role: RoleEmployee}

func TestGenerateAndParse_Success(t *testing.T) {
	t.Parallel()

	secret := []byte("super-secret")
	tok, err := GenerateToken(jane, secret, time.Hour)
	require.NoError(t, err)

	got, err := ParseToken(tok, secret)
	require.NoError(t, err)
	assert.Equal(t, jane, got)
}

func TestParseToken_Expired(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")
	tok, err := GenerateToken(jane, secret, -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(tok, secret)
	require.ErrorIs(t, err, common.ErrTokenExpired)
}

func TestParseToken_Invalid(t *testing.T) {
	t.Parallel()

	good, err := GenerateToken(jane, []byte("right-secret"), time.Hour)
	require.NoError(t, err)

	noRole, err := GenerateToken(Principal{TenantID: "t1", UserID: "u1"}, []byte("k"), time.Hour)
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{TenantID: "t1", UserID: "u1", Role: RoleEmployee}).
		SignedString([]byte("k"))
	require.NoError(t, err)

	tests := []struct {
		name   string
		token  string
		secret string
	}{
		{"wrong secret", good, "wrong-secret"},
		{"malformed", "not.a.jwt", "k"},
		{"missing role", noRole, "k"},
		{"no expiry", noExpiry, "k"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseToken(tc.token, []byte(tc.secret))
			require.ErrorIs(t, err, common.ErrInvalidToken)
		})
	}
}

func TestPrincipal_CanAccess(t *testing.T) {
	manager := Principal{TenantID: "t1", UserID: "m1", Role: RoleManager}

	assert.True(t, jane.CanAccess("t1", "u1"))
	assert.True(t, jane.CanAccess("t1", ""))
	assert.False(t, jane.CanAccess("t1", "u2"))
	assert.False(t, jane.CanAccess("t2", "u1"))
	assert.True(t, manager.CanAccess("t1", "u2"))
	assert.False(t, manager.CanAccess("t2", "u2"))
}
