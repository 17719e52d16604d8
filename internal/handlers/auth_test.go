package handlers_test

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterReturnsUserAndToken(t *testing.T) {
	r := setupServer(t)

	rr := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": "alice",
		"email":    "Alice@Example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, rr.Code, "body: %s", rr.Body.String())

	var payload authPayload
	decodeData(t, rr, &payload)

	assert.NotEmpty(t, payload.Token)
	assert.Equal(t, "alice", payload.User.Username)
	// Email is stored lowercased.
	assert.Equal(t, "alice@example.com", payload.User.Email)

	// The password never leaves the server in any spelling.
	env := decodeEnvelope(t, rr)

	var data map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(env.Data, &data))

	var userFields map[string]interface{}
	require.NoError(t, json.Unmarshal(data["user"], &userFields))

	for field := range userFields {
		assert.NotContains(t, strings.ToLower(field), "password")
		assert.NotContains(t, strings.ToLower(field), "hash")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	r := setupServer(t)
	registerUser(t, r, "alice")

	rr := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": "different",
		"email":    "alice@example.com",
		"password": "password123",
	})

	require.Equal(t, http.StatusBadRequest, rr.Code)
	env := decodeEnvelope(t, rr)
	assert.Equal(t, "error", env.Status)
	assert.Equal(t, "Email already registered", env.Message)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	r := setupServer(t)
	registerUser(t, r, "alice")

	rr := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": "alice",
		"email":    "other@example.com",
		"password": "password123",
	})

	require.Equal(t, http.StatusBadRequest, rr.Code)
	env := decodeEnvelope(t, rr)
	assert.Equal(t, "Username already taken", env.Message)
}

func TestRegisterValidation(t *testing.T) {
	r := setupServer(t)

	for name, body := range map[string]gin.H{
		"missing username": {"email": "a@example.com", "password": "password123"},
		"bad email":        {"username": "a", "email": "not-an-email", "password": "password123"},
		"short password":   {"username": "a", "email": "a@example.com", "password": "123"},
	} {
		rr := doJSON(t, r, http.MethodPost, "/api/auth/register", "", body)
		assert.Equal(t, http.StatusBadRequest, rr.Code, name)
	}
}

func TestLoginRoundTrip(t *testing.T) {
	r := setupServer(t)
	registered := registerUser(t, r, "alice")

	rr := doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "alice@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, rr.Code, "body: %s", rr.Body.String())

	var payload authPayload
	decodeData(t, rr, &payload)
	require.NotEmpty(t, payload.Token)

	// The issued token resolves back to the same user.
	verify := doJSON(t, r, http.MethodGet, "/api/auth/verify", payload.Token, nil)
	require.Equal(t, http.StatusOK, verify.Code)

	var me userPayload
	decodeData(t, verify, &me)
	assert.Equal(t, registered.User.ID, me.ID)
	assert.Equal(t, "alice", me.Username)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	r := setupServer(t)
	registerUser(t, r, "alice")

	wrongPassword := doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "alice@example.com",
		"password": "not-the-password",
	})
	unknownEmail := doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "nobody@example.com",
		"password": "password123",
	})

	require.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	require.Equal(t, http.StatusUnauthorized, unknownEmail.Code)

	// Same status, same body: no oracle for which credential was wrong.
	assert.Equal(t, wrongPassword.Body.String(), unknownEmail.Body.String())
}

func TestAuthGateUniform401(t *testing.T) {
	r := setupServer(t)

	missing := doJSON(t, r, http.MethodGet, "/api/projects", "", nil)
	malformed := doJSON(t, r, http.MethodGet, "/api/projects", "not-a-token", nil)

	require.Equal(t, http.StatusUnauthorized, missing.Code)
	require.Equal(t, http.StatusUnauthorized, malformed.Code)
	assert.Equal(t, missing.Body.String(), malformed.Body.String())
}

func TestUpdateProfile(t *testing.T) {
	r := setupServer(t)
	user := registerUser(t, r, "alice")

	rr := doJSON(t, r, http.MethodPut, "/api/auth/profile", user.Token, gin.H{
		"username":    "alice-renamed",
		"description": "I build things",
	})
	require.Equal(t, http.StatusOK, rr.Code, "body: %s", rr.Body.String())

	var updated struct {
		Username    string `json:"username"`
		Description string `json:"description"`
	}
	decodeData(t, rr, &updated)
	assert.Equal(t, "alice-renamed", updated.Username)
	assert.Equal(t, "I build things", updated.Description)
}

func TestUpdateProfileUsernameTaken(t *testing.T) {
	r := setupServer(t)
	registerUser(t, r, "alice")
	bob := registerUser(t, r, "bob")

	rr := doJSON(t, r, http.MethodPut, "/api/auth/profile", bob.Token, gin.H{
		"username": "alice",
	})

	require.Equal(t, http.StatusBadRequest, rr.Code)
	env := decodeEnvelope(t, rr)
	assert.Equal(t, "Username already taken", env.Message)
}

func TestUpdateProfileDescriptionTooLong(t *testing.T) {
	r := setupServer(t)
	user := registerUser(t, r, "alice")

	rr := doJSON(t, r, http.MethodPut, "/api/auth/profile", user.Token, gin.H{
		"description": strings.Repeat("x", 501),
	})

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
