// internal/repository/testutil_test.go
package repository

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/AnanyaNagabhushan/taskflow/internal/database"
	"github.com/AnanyaNagabhushan/taskflow/internal/models"
)

var testDBCounter int64

// setupTestDB opens a fresh in-memory SQLite database with the full schema.
// Each call gets its own shared-cache name so pooled connections see the
// same database without leaking between tests.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := fmt.Sprintf("repo%d", atomic.AddInt64(&testDBCounter, 1))
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Keep one connection alive for the lifetime of the shared-cache DB.
	sqlDB.SetMaxIdleConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	u := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "$2a$12$fakehashfakehashfakehash",
	}
	require.NoError(t, NewUserRepository(db).Create(context.Background(), u))
	return u
}

func createTestTask(t *testing.T, db *gorm.DB, userID uint, title string) *models.Task {
	t.Helper()

	task, err := NewTaskRepository(db).Create(context.Background(), userID, &TaskInput{
		Title:    title,
		Status:   models.TaskStatusPending,
		Priority: models.PriorityMedium,
	})
	require.NoError(t, err)
	return task
}
