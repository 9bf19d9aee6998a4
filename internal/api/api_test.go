// internal/api/api_test.go
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/AnanyaNagabhushan/taskflow/internal/database"
	"github.com/AnanyaNagabhushan/taskflow/internal/middleware"
	"github.com/AnanyaNagabhushan/taskflow/internal/repository"
	"github.com/AnanyaNagabhushan/taskflow/internal/service"
	"github.com/AnanyaNagabhushan/taskflow/pkg/auth"
)

var testDBCounter int64

func setupTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	name := fmt.Sprintf("api%d", atomic.AddInt64(&testDBCounter, 1))
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

	authService := service.NewAuthService(
		repository.NewUserRepository(db),
		repository.NewTokenRepository(db),
		tokenManager,
	)
	taskService := service.NewTaskService(
		repository.NewTaskRepository(db),
		repository.NewStatsRepository(sqlx.NewDb(sqlDB, "sqlite3")),
	)
	itemService := service.NewItemService(repository.NewItemRepository(db))

	router := NewRouter(
		NewAuthHandler(authService),
		NewTaskHandler(taskService),
		NewItemHandler(itemService),
		middleware.NewAuthenticator(tokenManager, authService),
		[]string{"http://localhost:3000"},
	)

	srv := httptest.NewServer(router.Handler())
	t.Cleanup(srv.Close)
	return srv
}

// doJSON issues a request and decodes the JSON response into a generic map.
func doJSON(t *testing.T, srv *httptest.Server, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewBuffer(raw)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, srv.URL+path, reqBody)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		decoded = nil
	}
	return resp.StatusCode, decoded
}

func registerAndLogin(t *testing.T, srv *httptest.Server, username string) string {
	t.Helper()

	status, _ := doJSON(t, srv, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "pw123",
	})
	require.Equal(t, http.StatusCreated, status)

	status, body := doJSON(t, srv, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": username,
		"password": "pw123",
	})
	require.Equal(t, http.StatusOK, status)
	token, _ := body["access_token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestAPI_RegisterLoginCreateListFlow(t *testing.T) {
	srv := setupTestServer(t)

	// register alice -> 201
	status, body := doJSON(t, srv, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "pw123",
	})
	require.Equal(t, http.StatusCreated, status)
	assert.NotEmpty(t, body["access_token"])

	// login -> 200 with token
	status, body = doJSON(t, srv, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "alice",
		"password": "pw123",
	})
	require.Equal(t, http.StatusOK, status)
	token := body["access_token"].(string)

	// create a task -> 201 with id=1
	status, body = doJSON(t, srv, http.MethodPost, "/api/tasks", token, map[string]string{
		"title": "buy milk",
	})
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, float64(1), body["id"])
	assert.Equal(t, "buy milk", body["title"])

	// list -> contains id=1 exactly once
	status, body = doJSON(t, srv, http.MethodGet, "/api/tasks", token, nil)
	require.Equal(t, http.StatusOK, status)

	tasks := body["tasks"].([]interface{})
	seen := 0
	for _, raw := range tasks {
		if raw.(map[string]interface{})["id"] == float64(1) {
			seen++
		}
	}
	assert.Equal(t, 1, seen)
	assert.Equal(t, float64(1), body["total"])
}

func TestAPI_DuplicateRegistration(t *testing.T) {
	srv := setupTestServer(t)

	payload := map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "pw123",
	}

	status, _ := doJSON(t, srv, http.MethodPost, "/api/auth/register", "", payload)
	require.Equal(t, http.StatusCreated, status)

	status, body := doJSON(t, srv, http.MethodPost, "/api/auth/register", "", payload)
	assert.Equal(t, http.StatusConflict, status)
	assert.Contains(t, body["error"], "already exists")
}

func TestAPI_LoginFailures(t *testing.T) {
	srv := setupTestServer(t)
	registerAndLogin(t, srv, "alice")

	status, _ := doJSON(t, srv, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "alice",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = doJSON(t, srv, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "ghost",
		"password": "pw123",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestAPI_AuthMiddleware(t *testing.T) {
	srv := setupTestServer(t)

	t.Run("missing token", func(t *testing.T) {
		status, body := doJSON(t, srv, http.MethodGet, "/api/tasks", "", nil)
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.NotEmpty(t, body["error"])
	})

	t.Run("garbage token", func(t *testing.T) {
		status, _ := doJSON(t, srv, http.MethodGet, "/api/tasks", "not.a.jwt", nil)
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("logout revokes the token", func(t *testing.T) {
		token := registerAndLogin(t, srv, "bob")

		status, _ := doJSON(t, srv, http.MethodGet, "/api/tasks", token, nil)
		require.Equal(t, http.StatusOK, status)

		status, _ = doJSON(t, srv, http.MethodPost, "/api/auth/logout", token, nil)
		require.Equal(t, http.StatusOK, status)

		status, _ = doJSON(t, srv, http.MethodGet, "/api/tasks", token, nil)
		assert.Equal(t, http.StatusUnauthorized, status)
	})
}

func TestAPI_OwnershipIsolation(t *testing.T) {
	srv := setupTestServer(t)

	aliceToken := registerAndLogin(t, srv, "alice")
	bobToken := registerAndLogin(t, srv, "bob")

	status, body := doJSON(t, srv, http.MethodPost, "/api/tasks", aliceToken, map[string]string{
		"title": "alice's task",
	})
	require.Equal(t, http.StatusCreated, status)
	taskID := int(body["id"].(float64))
	path := fmt.Sprintf("/api/tasks/%d", taskID)

	// Bob sees 404, not 403, on every operation.
	status, _ = doJSON(t, srv, http.MethodGet, path, bobToken, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = doJSON(t, srv, http.MethodPut, path, bobToken, map[string]string{"title": "hijack"})
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = doJSON(t, srv, http.MethodDelete, path, bobToken, nil)
	assert.Equal(t, http.StatusNotFound, status)

	// Alice still owns it untouched.
	status, body = doJSON(t, srv, http.MethodGet, path, aliceToken, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "alice's task", body["title"])
}

func TestAPI_TaskLifecycle(t *testing.T) {
	srv := setupTestServer(t)
	token := registerAndLogin(t, srv, "alice")

	status, body := doJSON(t, srv, http.MethodPost, "/api/tasks", token, map[string]string{
		"title": "ephemeral",
	})
	require.Equal(t, http.StatusCreated, status)
	path := fmt.Sprintf("/api/tasks/%d", int(body["id"].(float64)))

	status, body = doJSON(t, srv, http.MethodPut, path, token, map[string]interface{}{
		"status": "completed",
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["completed"])

	// Clearing the flag moves the status back off completed.
	status, body = doJSON(t, srv, http.MethodPut, path, token, map[string]interface{}{
		"completed": false,
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, body["completed"])
	assert.Equal(t, "pending", body["status"])

	status, _ = doJSON(t, srv, http.MethodDelete, path, token, nil)
	require.Equal(t, http.StatusOK, status)

	status, _ = doJSON(t, srv, http.MethodGet, path, token, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestAPI_TaskValidation(t *testing.T) {
	srv := setupTestServer(t)
	token := registerAndLogin(t, srv, "alice")

	status, body := doJSON(t, srv, http.MethodPost, "/api/tasks", token, map[string]string{
		"description": "no title",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.NotEmpty(t, body["error"])

	status, _ = doJSON(t, srv, http.MethodPost, "/api/tasks", token, map[string]string{
		"title":  "x",
		"status": "bogus",
	})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestAPI_ItemsNestedUnderTask(t *testing.T) {
	srv := setupTestServer(t)
	aliceToken := registerAndLogin(t, srv, "alice")
	bobToken := registerAndLogin(t, srv, "bob")

	status, body := doJSON(t, srv, http.MethodPost, "/api/tasks", aliceToken, map[string]string{
		"title": "with checklist",
	})
	require.Equal(t, http.StatusCreated, status)
	taskID := int(body["id"].(float64))
	itemsPath := fmt.Sprintf("/api/tasks/%d/items", taskID)

	status, body = doJSON(t, srv, http.MethodPost, itemsPath, aliceToken, map[string]string{
		"content": "step one",
	})
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "Pending", body["status"])
	itemPath := fmt.Sprintf("%s/%d", itemsPath, int(body["id"].(float64)))

	status, body = doJSON(t, srv, http.MethodPut, itemPath, aliceToken, map[string]string{
		"status": "Completed",
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Completed", body["status"])

	// The nested path is invisible through another user's token.
	status, _ = doJSON(t, srv, http.MethodGet, itemsPath, bobToken, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = doJSON(t, srv, http.MethodDelete, itemPath, aliceToken, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestAPI_BulkItems(t *testing.T) {
	srv := setupTestServer(t)
	token := registerAndLogin(t, srv, "alice")

	status, body := doJSON(t, srv, http.MethodPost, "/api/tasks", token, map[string]string{
		"title": "with checklist",
	})
	require.Equal(t, http.StatusCreated, status)
	itemsPath := fmt.Sprintf("/api/tasks/%d/items", int(body["id"].(float64)))

	var itemIDs []int
	for _, content := range []string{"one", "two"} {
		status, body = doJSON(t, srv, http.MethodPost, itemsPath, token, map[string]string{
			"content": content,
		})
		require.Equal(t, http.StatusCreated, status)
		itemIDs = append(itemIDs, int(body["id"].(float64)))
	}

	status, _ = doJSON(t, srv, http.MethodPut, "/api/tasks/items/bulk", token, map[string]interface{}{
		"item_ids": itemIDs,
		"action":   "update_status",
		"status":   "Completed",
	})
	require.Equal(t, http.StatusOK, status)

	status, body = doJSON(t, srv, http.MethodGet, fmt.Sprintf("%s/%d", itemsPath, itemIDs[0]), token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Completed", body["status"])

	status, _ = doJSON(t, srv, http.MethodPut, "/api/tasks/items/bulk", token, map[string]interface{}{
		"item_ids": itemIDs,
		"action":   "delete",
	})
	require.Equal(t, http.StatusOK, status)

	status, _ = doJSON(t, srv, http.MethodGet, fmt.Sprintf("%s/%d", itemsPath, itemIDs[0]), token, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestAPI_RefreshToken(t *testing.T) {
	srv := setupTestServer(t)

	status, body := doJSON(t, srv, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "pw123",
	})
	require.Equal(t, http.StatusCreated, status)
	refreshToken := body["refresh_token"].(string)

	status, body = doJSON(t, srv, http.MethodPost, "/api/auth/refresh", "", map[string]string{
		"refresh_token": refreshToken,
	})
	require.Equal(t, http.StatusOK, status)
	newAccess := body["access_token"].(string)

	status, _ = doJSON(t, srv, http.MethodGet, "/api/auth/me", newAccess, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestAPI_SummaryAndBulk(t *testing.T) {
	srv := setupTestServer(t)
	token := registerAndLogin(t, srv, "alice")

	var ids []int
	for i := 0; i < 3; i++ {
		status, body := doJSON(t, srv, http.MethodPost, "/api/tasks", token, map[string]string{
			"title": "task",
		})
		require.Equal(t, http.StatusCreated, status)
		ids = append(ids, int(body["id"].(float64)))
	}

	status, _ := doJSON(t, srv, http.MethodPut, "/api/tasks/bulk", token, map[string]interface{}{
		"task_ids": ids[:2],
		"action":   "update_status",
		"status":   "completed",
	})
	require.Equal(t, http.StatusOK, status)

	status, body := doJSON(t, srv, http.MethodGet, "/api/tasks/summary", token, nil)
	require.Equal(t, http.StatusOK, status)

	byStatus := map[string]float64{}
	for _, raw := range body["summary"].([]interface{}) {
		row := raw.(map[string]interface{})
		byStatus[row["status"].(string)] = row["count"].(float64)
	}
	assert.Equal(t, float64(2), byStatus["completed"])
	assert.Equal(t, float64(1), byStatus["pending"])
}

func TestAPI_Healthz(t *testing.T) {
	srv := setupTestServer(t)

	status, body := doJSON(t, srv, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["ok"])
}
