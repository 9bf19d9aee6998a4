// internal/service/testutil_test.go
package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/AnanyaNagabhushan/taskflow/internal/database"
	"github.com/AnanyaNagabhushan/taskflow/internal/models"
	"github.com/AnanyaNagabhushan/taskflow/internal/repository"
	"github.com/AnanyaNagabhushan/taskflow/pkg/auth"
)

var testDBCounter int64

// envTokenManager mirrors the token manager wired by setupTestEnv so tests
// can inspect issued tokens.
func envTokenManager() *auth.TokenManager {
	return auth.NewTokenManager("test-access", "test-refresh", 15*time.Minute, time.Hour)
}

type testEnv struct {
	db    *gorm.DB
	auth  *AuthService
	tasks *TaskService
	items *ItemService
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	name := fmt.Sprintf("svc%d", atomic.AddInt64(&testDBCounter, 1))
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxIdleConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))

	tokenManager := auth.NewTokenManager("test-access", "test-refresh", 15*time.Minute, time.Hour)

	return &testEnv{
		db: db,
		auth: NewAuthService(
			repository.NewUserRepository(db),
			repository.NewTokenRepository(db),
			tokenManager,
		),
		tasks: NewTaskService(
			repository.NewTaskRepository(db),
			repository.NewStatsRepository(sqlx.NewDb(sqlDB, "sqlite3")),
		),
		items: NewItemService(repository.NewItemRepository(db)),
	}
}

func (e *testEnv) registerUser(t *testing.T, username string) *models.User {
	t.Helper()

	user, _, err := e.auth.Register(context.Background(), username, username+"@example.com", "pw123")
	require.NoError(t, err)
	return user
}

func (e *testEnv) createTask(t *testing.T, userID uint, title string) *models.Task {
	t.Helper()

	task, err := e.tasks.Create(context.Background(), userID, CreateTaskInput{Title: title})
	require.NoError(t, err)
	return task
}
