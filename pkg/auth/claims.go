package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	ContractorID  uuid.UUID
	Email         string
	EmailVerified bool
	JTI           string
}

// AccessTokenClaims represents the typed JWT presented by contractors.
// The subject carries the contractor id; all data is scoped to it.
type AccessTokenClaims struct {
	ContractorID  uuid.UUID `json:"contractor_id"`
	Email         string    `json:"email,omitempty"`
	EmailVerified bool      `json:"email_verified"`
	jwt.RegisteredClaims
}
