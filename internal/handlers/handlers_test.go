package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/devhub-dev/devhub/db"
	"github.com/devhub-dev/devhub/internal/auth"
	"github.com/devhub-dev/devhub/internal/router"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type userPayload struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type authPayload struct {
	Token string      `json:"token"`
	User  userPayload `json:"user"`
}

type projectPayload struct {
	ID           uint     `json:"id"`
	Name         string   `json:"name"`
	Technologies []string `json:"technologies"`
	Status       string   `json:"status"`
	IsPublic     bool     `json:"isPublic"`
	OwnerID      uint     `json:"ownerId"`
}

type taskPayload struct {
	ID        uint   `json:"id"`
	Title     string `json:"title"`
	Status    string `json:"status"`
	Priority  string `json:"priority"`
	ProjectID uint   `json:"projectId"`
	CreatorID uint   `json:"creatorId"`
}

type commentPayload struct {
	ID      uint   `json:"id"`
	Content string `json:"content"`
	Creator struct {
		ID       uint   `json:"id"`
		Username string `json:"username"`
	} `json:"creator"`
}

func setupServer(t *testing.T) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)

	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("JWT_TTL", "1")
	t.Setenv("UPLOADS_DIR", t.TempDir())
	require.NoError(t, auth.InitJWTSecret())

	gdb, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	db.DB = gdb
	require.NoError(t, db.MigrateDatabase())

	return router.NewRouter()
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader

	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	return rr
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) envelope {
	t.Helper()

	var env envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env), "body: %s", rr.Body.String())

	return env
}

func decodeData(t *testing.T, rr *httptest.ResponseRecorder, out interface{}) {
	t.Helper()

	env := decodeEnvelope(t, rr)
	require.Equal(t, "success", env.Status, "body: %s", rr.Body.String())
	require.NoError(t, json.Unmarshal(env.Data, out))
}

func registerUser(t *testing.T, r *gin.Engine, username string) authPayload {
	t.Helper()

	rr := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": username,
		"email":    username + "@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, rr.Code, "body: %s", rr.Body.String())

	var payload authPayload
	decodeData(t, rr, &payload)

	return payload
}

func createTestProject(t *testing.T, r *gin.Engine, token string, name string) projectPayload {
	t.Helper()

	rr := doJSON(t, r, http.MethodPost, "/api/projects", token, gin.H{
		"name":         name,
		"description":  "a test project",
		"technologies": []string{"JavaScript", "PostgreSQL"},
		"category":     "Backend Development",
	})
	require.Equal(t, http.StatusCreated, rr.Code, "body: %s", rr.Body.String())

	var payload projectPayload
	decodeData(t, rr, &payload)

	return payload
}
