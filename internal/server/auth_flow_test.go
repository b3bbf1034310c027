package server

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"facet/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthEndpoints(t *testing.T) {
	resetTables(t, testDB)
	s := newTestServer()
	app := newTestApp(s)

	email := fmt.Sprintf("dana_%d@example.com", time.Now().UnixNano())
	var token string

	t.Run("Register", func(t *testing.T) {
		resp, body := doJSON(t, app, http.MethodPost, "/api/auth/register", "", map[string]any{
			"firstName":       "Dana",
			"lastName":        "Smith",
			"email":           email,
			"password":        "Sup3r$ecret",
			"confirmPassword": "Sup3r$ecret",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		assert.Equal(t, "User registered successfully", body["message"])
		assert.NotEmpty(t, body["token"])

		user := body["user"].(map[string]any)
		assert.Equal(t, email, user["email"])
		assert.NotContains(t, user, "password")
	})

	t.Run("Register rejects weak password", func(t *testing.T) {
		resp, body := doJSON(t, app, http.MethodPost, "/api/auth/register", "", map[string]any{
			"email":           "weak@example.com",
			"password":        "short",
			"confirmPassword": "short",
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Contains(t, body["error"], "at least 8 characters")
	})

	t.Run("Register rejects duplicate email", func(t *testing.T) {
		resp, body := doJSON(t, app, http.MethodPost, "/api/auth/register", "", map[string]any{
			"email":           email,
			"password":        "Sup3r$ecret",
			"confirmPassword": "Sup3r$ecret",
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "Email is already registered", body["error"])
	})

	t.Run("Login", func(t *testing.T) {
		resp, body := doJSON(t, app, http.MethodPost, "/api/auth/login", "", map[string]any{
			"email":    email,
			"password": "Sup3r$ecret",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "Login successful", body["message"])
		token = body["token"].(string)
		require.NotEmpty(t, token)
	})

	t.Run("Login with wrong password", func(t *testing.T) {
		resp, body := doJSON(t, app, http.MethodPost, "/api/auth/login", "", map[string]any{
			"email":    email,
			"password": "Wr0ng$ecret",
		})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "Invalid email or password", body["error"])
	})

	t.Run("Profile round-trips the authenticated user", func(t *testing.T) {
		resp, body := doJSON(t, app, http.MethodGet, "/api/auth/profile", token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		user := body["user"].(map[string]any)
		assert.Equal(t, email, user["email"])
		assert.Equal(t, "Dana", user["firstName"])
	})

	t.Run("Profile rejects a garbage token", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodGet, "/api/auth/profile", "not-a-jwt", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestIdentityEndpoints(t *testing.T) {
	resetTables(t, testDB)
	s := newTestServer()
	app := newTestApp(s)

	alice := createActor(t, s, "alice", "professional")
	bob := createActor(t, s, "bob", "professional")

	var createdID float64

	t.Run("Create identity in a new context", func(t *testing.T) {
		resp, body := doJSON(t, app, http.MethodPost, "/api/identities", alice.token, map[string]any{
			"legalName":     "Alice Tester",
			"preferredName": "alice-online",
			"nickname":      "Al",
			"context":       "online",
			"visibility":    "public",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		assert.Equal(t, "Identity profile created successfully", body["message"])
		identity := body["identity"].(map[string]any)
		createdID = identity["id"].(float64)
		assert.Equal(t, "online", identity["context"])
	})

	t.Run("Second identity in same context is rejected", func(t *testing.T) {
		resp, body := doJSON(t, app, http.MethodPost, "/api/identities", alice.token, map[string]any{
			"legalName":     "Alice Tester",
			"preferredName": "alice-online-2",
			"context":       "online",
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "You already have an identity in this context", body["error"])
	})

	t.Run("Preferred name taken by another user is rejected", func(t *testing.T) {
		resp, body := doJSON(t, app, http.MethodPost, "/api/identities", bob.token, map[string]any{
			"legalName":     "Bob Tester",
			"preferredName": "alice-online",
			"context":       "online",
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "Preferred name is already taken", body["error"])
	})

	t.Run("List own identities", func(t *testing.T) {
		resp, body := doJSON(t, app, http.MethodGet, "/api/identities", alice.token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.EqualValues(t, 2, body["count"])
	})

	t.Run("Get identity by context", func(t *testing.T) {
		resp, body := doJSON(t, app, http.MethodGet, "/api/identities/context/online", alice.token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		identity := body["identity"].(map[string]any)
		assert.Equal(t, "alice-online", identity["preferredName"])

		resp, body = doJSON(t, app, http.MethodGet, "/api/identities/context/family", alice.token, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "Identity not found", body["error"])
	})

	t.Run("Public browse only lists public identities", func(t *testing.T) {
		// The fixture identities are public; hide Bob's and browse anonymously.
		require.NoError(t, testDB.Model(&models.Identity{}).
			Where("id = ?", bob.identity.ID).
			Update("visibility", models.VisibilityPrivate).Error)

		resp, body := doJSON(t, app, http.MethodGet, "/api/identities/public/professional", "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.EqualValues(t, 1, body["count"])

		resp, body = doJSON(t, app, http.MethodGet, "/api/identities/all/professional", "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.EqualValues(t, 2, body["count"])
	})

	t.Run("Update identity", func(t *testing.T) {
		path := fmt.Sprintf("/api/identities/%.0f", createdID)
		resp, body := doJSON(t, app, http.MethodPut, path, alice.token, map[string]any{
			"legalName":     "Alice Tester",
			"preferredName": "alice-online",
			"nickname":      "Ally",
			"visibility":    "private",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "Identity updated successfully", body["message"])
		identity := body["identity"].(map[string]any)
		assert.Equal(t, "Ally", identity["nickname"])
	})

	t.Run("Cannot update someone else's identity", func(t *testing.T) {
		path := fmt.Sprintf("/api/identities/%d", alice.identity.ID)
		resp, _ := doJSON(t, app, http.MethodPut, path, bob.token, map[string]any{
			"legalName":     "Bob Tester",
			"preferredName": "hijacked",
		})
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("Delete identity", func(t *testing.T) {
		path := fmt.Sprintf("/api/identities/%.0f", createdID)
		resp, body := doJSON(t, app, http.MethodDelete, path, alice.token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "Identity deleted successfully", body["message"])

		resp, _ = doJSON(t, app, http.MethodGet, "/api/identities/context/online", alice.token, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
