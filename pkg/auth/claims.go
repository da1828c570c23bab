package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionTokenPayload captures the data available when minting a token.
type SessionTokenPayload struct {
	UserID  uuid.UUID
	Email   string
	IsAdmin bool
}

// SessionClaims represents the typed JWT issued to clients.
//
// LegacyIsAdmin is a compatibility shim: tokens minted by earlier releases
// spelled the admin flag "isAdmin". ParseSessionToken folds it into IsAdmin,
// so everything past the auth boundary sees a single canonical field.
type SessionClaims struct {
	UserID        uuid.UUID `json:"user_id"`
	Email         string    `json:"email"`
	IsAdmin       bool      `json:"is_admin"`
	LegacyIsAdmin *bool     `json:"isAdmin,omitempty"`
	jwt.RegisteredClaims
}

func (c *SessionClaims) normalize() {
	if c.LegacyIsAdmin != nil {
		if *c.LegacyIsAdmin {
			c.IsAdmin = true
		}
		c.LegacyIsAdmin = nil
	}
}
