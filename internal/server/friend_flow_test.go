package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"facet/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testActor struct {
	user     *models.User
	identity *models.Identity
	token    string
}

func createActor(t *testing.T, s *Server, prefix, contextName string) *testActor {
	t.Helper()

	user := &models.User{
		FirstName: prefix,
		LastName:  "Tester",
		Email:     fmt.Sprintf("%s_%d@example.com", prefix, time.Now().UnixNano()),
		Password:  "hashed",
	}
	require.NoError(t, testDB.Create(user).Error)

	identity := &models.Identity{
		UserID:        user.ID,
		LegalName:     prefix + " Tester",
		PreferredName: prefix + "-" + contextName,
		Context:       models.ContextType(contextName),
		Visibility:    models.VisibilityPublic,
	}
	require.NoError(t, testDB.Create(identity).Error)

	token, err := s.generateToken(user.ID, user.Email)
	require.NoError(t, err)

	return &testActor{user: user, identity: identity, token: token}
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reqBody)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var decoded map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = resp.Body.Close()
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &decoded)
	}
	return resp, decoded
}

func TestFriendEndpoints(t *testing.T) {
	resetTables(t, testDB)
	s := newTestServer()
	app := newTestApp(s)

	alice := createActor(t, s, "alice", "professional")
	bob := createActor(t, s, "bob", "professional")

	t.Run("Requires auth", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodGet, "/api/friends/professional", "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("Rejects invalid context", func(t *testing.T) {
		resp, body := doJSON(t, app, http.MethodGet, "/api/friends/work", alice.token, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "Invalid context type", body["error"])
	})

	t.Run("Follow is idempotent", func(t *testing.T) {
		payload := map[string]any{
			"friendIdentityId": bob.identity.ID,
			"context":          "professional",
		}

		resp, body := doJSON(t, app, http.MethodPost, "/api/friends/add", alice.token, payload)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "Friend added successfully", body["message"])

		resp, _ = doJSON(t, app, http.MethodPost, "/api/friends/add", alice.token, payload)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var count int64
		testDB.Model(&models.Friend{}).Where("user_id = ?", alice.user.ID).Count(&count)
		assert.Equal(t, int64(1), count)
	})

	t.Run("Check reflects edge", func(t *testing.T) {
		path := fmt.Sprintf("/api/friends/check/%d/professional", bob.identity.ID)
		resp, body := doJSON(t, app, http.MethodGet, path, alice.token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, true, body["isFriend"])
		assert.NotNil(t, body["friendship"])

		// Same pair, different context.
		path = fmt.Sprintf("/api/friends/check/%d/personal", bob.identity.ID)
		resp, body = doJSON(t, app, http.MethodGet, path, alice.token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, false, body["isFriend"])
		assert.Nil(t, body["friendship"])
	})

	t.Run("List friends has wire shape", func(t *testing.T) {
		resp, body := doJSON(t, app, http.MethodGet, "/api/friends/professional", alice.token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.EqualValues(t, 1, body["count"])

		friends := body["friends"].([]any)
		require.Len(t, friends, 1)
		first := friends[0].(map[string]any)
		assert.Equal(t, "bob-professional", first["preferredName"])
	})

	t.Run("Unfollow then 404", func(t *testing.T) {
		payload := map[string]any{
			"friendIdentityId": bob.identity.ID,
			"context":          "professional",
		}

		resp, _ := doJSON(t, app, http.MethodPost, "/api/friends/remove", alice.token, payload)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp, body := doJSON(t, app, http.MethodPost, "/api/friends/remove", alice.token, payload)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "Friend relationship not found", body["error"])
	})
}

func TestFriendRequestFlow(t *testing.T) {
	resetTables(t, testDB)
	s := newTestServer()
	app := newTestApp(s)

	alice := createActor(t, s, "alice", "professional")
	bob := createActor(t, s, "bob", "professional")
	carol := createActor(t, s, "carol", "professional")

	var requestID float64

	t.Run("Alice sends request to Bob", func(t *testing.T) {
		resp, body := doJSON(t, app, http.MethodPost, "/api/friend-requests/send", alice.token, map[string]any{
			"recipientIdentityId": bob.identity.ID,
			"context":             "professional",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "Friend request sent successfully", body["message"])
	})

	t.Run("Sender without identity in context gets 400", func(t *testing.T) {
		resp, body := doJSON(t, app, http.MethodPost, "/api/friend-requests/send", alice.token, map[string]any{
			"recipientIdentityId": bob.identity.ID,
			"context":             "family",
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "You do not have an identity in this context", body["error"])
	})

	t.Run("Bob sees pending request with sender name", func(t *testing.T) {
		resp, body := doJSON(t, app, http.MethodGet, "/api/friend-requests/professional", bob.token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.EqualValues(t, 1, body["count"])

		requests := body["requests"].([]any)
		require.Len(t, requests, 1)
		first := requests[0].(map[string]any)
		assert.Equal(t, "alice-professional", first["senderName"])
		requestID = first["id"].(float64)
	})

	t.Run("Carol cannot accept Bob's request", func(t *testing.T) {
		resp, body := doJSON(t, app, http.MethodPost, "/api/friend-requests/accept", carol.token, map[string]any{
			"requestId": requestID,
			"context":   "professional",
		})
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		assert.Equal(t, "You are not the recipient of this request", body["error"])

		var count int64
		testDB.Model(&models.Friend{}).Count(&count)
		assert.Zero(t, count, "no edges on forbidden accept")
	})

	t.Run("Bob accepts and both are friends", func(t *testing.T) {
		resp, body := doJSON(t, app, http.MethodPost, "/api/friend-requests/accept", bob.token, map[string]any{
			"requestId": requestID,
			"context":   "professional",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		friendRequest := body["friendRequest"].(map[string]any)
		assert.Equal(t, "accepted", friendRequest["status"])

		resp, body = doJSON(t, app, http.MethodGet, "/api/friends/professional", alice.token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.EqualValues(t, 1, body["count"])

		resp, body = doJSON(t, app, http.MethodGet, "/api/friends/professional", bob.token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.EqualValues(t, 1, body["count"])
	})

	t.Run("Bob declines an unrelated request from Carol", func(t *testing.T) {
		resp, body := doJSON(t, app, http.MethodPost, "/api/friend-requests/send", carol.token, map[string]any{
			"recipientIdentityId": bob.identity.ID,
			"context":             "professional",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		carolRequest := body["friendRequest"].(map[string]any)

		resp, _ = doJSON(t, app, http.MethodPost, "/api/friend-requests/decline", bob.token, map[string]any{
			"requestId": carolRequest["id"],
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp, body = doJSON(t, app, http.MethodGet, "/api/friend-requests/professional", bob.token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.EqualValues(t, 0, body["count"])

		// Decline produced no edges for Carol.
		var count int64
		testDB.Model(&models.Friend{}).Where("user_id = ?", carol.user.ID).Count(&count)
		assert.Zero(t, count)
	})

	t.Run("Reconcile repairs a missing edge", func(t *testing.T) {
		require.NoError(t, testDB.
			Where("user_id = ?", bob.user.ID).
			Delete(&models.Friend{}).Error)

		resp, body := doJSON(t, app, http.MethodPost, "/api/maintenance/reconcile-friendships", bob.token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.EqualValues(t, 1, body["repaired"])

		resp, body = doJSON(t, app, http.MethodGet, "/api/friends/professional", bob.token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.EqualValues(t, 1, body["count"])
	})

	t.Run("Pending list empties when the recipient identity is deleted", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPost, "/api/friend-requests/send", carol.token, map[string]any{
			"recipientIdentityId": bob.identity.ID,
			"context":             "professional",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp, body := doJSON(t, app, http.MethodGet, "/api/friend-requests/professional", bob.token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.EqualValues(t, 1, body["count"])

		// Deleting the identity leaves the request row behind (no cascade),
		// but the list addresses identities, not accounts.
		path := fmt.Sprintf("/api/identities/%d", bob.identity.ID)
		resp, _ = doJSON(t, app, http.MethodDelete, path, bob.token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var stale int64
		testDB.Model(&models.FriendRequest{}).
			Where("recipient_identity_id = ? AND status = ?", bob.identity.ID, models.FriendRequestStatusPending).
			Count(&stale)
		assert.Equal(t, int64(1), stale)

		resp, body = doJSON(t, app, http.MethodGet, "/api/friend-requests/professional", bob.token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.EqualValues(t, 0, body["count"])
	})
}

func TestFavoriteEndpoints(t *testing.T) {
	resetTables(t, testDB)
	s := newTestServer()
	app := newTestApp(s)

	alice := createActor(t, s, "alice", "online")
	bob := createActor(t, s, "bob", "online")

	t.Run("Add and list favorites", func(t *testing.T) {
		path := fmt.Sprintf("/api/favorites/%d", bob.identity.ID)
		resp, body := doJSON(t, app, http.MethodPost, path, alice.token, map[string]any{"context": "online"})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "Added to favorites", body["message"])

		// Idempotent re-add.
		resp, _ = doJSON(t, app, http.MethodPost, path, alice.token, map[string]any{"context": "online"})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp, body = doJSON(t, app, http.MethodGet, "/api/favorites/online", alice.token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.EqualValues(t, 1, body["count"])
	})

	t.Run("Remove favorite then 404", func(t *testing.T) {
		path := fmt.Sprintf("/api/favorites/%d?context=online", bob.identity.ID)
		resp, _ := doJSON(t, app, http.MethodDelete, path, alice.token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp, body := doJSON(t, app, http.MethodDelete, path, alice.token, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "Favorite not found", body["error"])
	})
}
