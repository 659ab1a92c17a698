// Package auth mints and verifies the bearer tokens of the REST API.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/punchkeeper/internal/common"
)

type Role string

const (
	RoleEmployee Role = "employee"
	// RoleManager may read the records of any user of its tenant.
	RoleManager Role = "manager"
)

func (r Role) Valid() bool {
	return r == RoleEmployee || r == RoleManager
}

// Principal is who a token speaks for.
type Principal struct {
	TenantID string
	UserID   string
	Role     Role
}

// CanAccess reports whether p may act on records of userID in tenantID.
func (p Principal) CanAccess(tenantID, userID string) bool {
	if p.TenantID != tenantID {
		return false
	}
	return p.Role == RoleManager || userID == "" || p.UserID == userID
}

// Claims is the JWT payload: the registered claims plus the principal.
type Claims struct {
	jwt.RegisteredClaims
	TenantID string `json:"tid"`
	UserID   string `json:"uid"`
	Role     Role   `json:"role"`
}

func GenerateToken(p Principal, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		TenantID: p.TenantID,
		UserID:   p.UserID,
		Role:     p.Role,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken verifies tokenString and returns its principal. Expired tokens
// yield common.ErrTokenExpired, anything else wrong common.ErrInvalidToken.
func ParseToken(tokenString string, secretKey []byte) (Principal, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Principal{}, common.ErrTokenExpired
		}
		return Principal{}, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if !token.Valid || claims.TenantID == "" || claims.UserID == "" || !claims.Role.Valid() {
		return Principal{}, common.ErrInvalidToken
	}

	return Principal{TenantID: claims.TenantID, UserID: claims.UserID, Role: claims.Role}, nil
}
