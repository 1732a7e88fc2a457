package auth

import (
	"github.com/denimhub/denimhub-backend/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID uint64
	Name   string
	Role   enums.UserRole
	JTI    string
}

// AccessTokenClaims represents the typed JWT presented by console users.
type AccessTokenClaims struct {
	UserID uint64         `json:"user_id"`
	Name   string         `json:"name,omitempty"`
	Role   enums.UserRole `json:"role"`
	jwt.RegisteredClaims
}
