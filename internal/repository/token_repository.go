// internal/repository/token_repository.go
package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/AnanyaNagabhushan/taskflow/internal/models"
)

type TokenRepository struct {
	db *gorm.DB
}

func NewTokenRepository(db *gorm.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

// Revoke records a token jti so the auth middleware rejects it from now on.
// Revoking the same jti twice is a no-op.
func (r *TokenRepository) Revoke(ctx context.Context, jti string) error {
	err := r.db.WithContext(ctx).Create(&models.RevokedToken{
		JTI:       jti,
		RevokedAt: time.Now(),
	}).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil
	}
	return err
}

func (r *TokenRepository) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.RevokedToken{}).
		Where("jti = ?", jti).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
