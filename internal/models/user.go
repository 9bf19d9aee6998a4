// internal/models/user.go
package models

import "time"

// User is the persisted account record. Handlers convert it to a DTO
// before serialization; the password hash never leaves this package.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Email        string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"-"`

	Tasks []Task `gorm:"foreignKey:UserID" json:"-"`
}

func (User) TableName() string { return "users" }
