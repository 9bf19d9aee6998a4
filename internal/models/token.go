// internal/models/token.go
package models

import "time"

// RevokedToken records the jti of a token invalidated by logout. The auth
// middleware rejects any token whose jti appears here.
type RevokedToken struct {
	ID        uint      `gorm:"primaryKey"`
	JTI       string    `gorm:"uniqueIndex;size:36;not null"`
	RevokedAt time.Time
}

func (RevokedToken) TableName() string { return "revoked_tokens" }
