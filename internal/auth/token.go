package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/ticket-console/internal/domain"
)

// Claims describes the JWT payload issued by the platform.
type Claims struct {
	Role  domain.UserRole `json:"role,omitempty"`
	Email string          `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// InspectToken decodes the token payload without checking the signature. The
// console cannot verify platform tokens; the backend stays the authority and
// the claims are only used for scheduling refreshes.
func InspectToken(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenStr, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// TokenExpiry returns the exp claim of the token.
func TokenExpiry(tokenStr string) (time.Time, error) {
	claims, err := InspectToken(tokenStr)
	if err != nil {
		return time.Time{}, err
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, errors.New("token has no expiry")
	}
	return claims.ExpiresAt.Time, nil
}
