package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload is the input used to mint an access token.
type AccessTokenPayload struct {
	UserID   uuid.UUID
	Username string
	IsStaff  bool
	JTI      string
}

// AccessTokenClaims is the typed JWT claim set carried by access tokens.
type AccessTokenClaims struct {
	UserID   uuid.UUID `json:"uid"`
	Username string    `json:"username"`
	IsStaff  bool      `json:"is_staff"`
	jwt.RegisteredClaims
}
