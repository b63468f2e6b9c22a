package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims binds a session credential to a user id and role
type TokenClaims struct {
	UserID string `json:"id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// BlockRecord is the JSON payload stored under blocked:<email>
type BlockRecord struct {
	Reason       string    `json:"reason"`
	BlockedUntil time.Time `json:"blockedUntil"`
}

// Active reports whether the block still applies at now
func (b *BlockRecord) Active(now time.Time) bool {
	return b != nil && now.Before(b.BlockedUntil)
}
