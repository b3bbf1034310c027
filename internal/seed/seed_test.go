package seed

import (
	"log"
	"os"
	"testing"

	"facet/internal/config"
	"facet/internal/database"
	"facet/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var testDB *gorm.DB

func TestMain(m *testing.M) {
	os.Setenv("APP_ENV", "test")

	cfg := &config.Config{
		JWTSecret: "test_secret",
		Port:      "8080",
		Env:       "test",
	}

	var err error
	testDB, err = database.Connect(cfg)
	if err != nil {
		log.Printf("Seed tests skipped: test database unavailable: %v", err)
		os.Exit(0)
	}

	os.Exit(m.Run())
}

func TestSeederRun(t *testing.T) {
	s := NewSeeder(testDB, Options{Users: 10, FollowsPerUser: 3, RequestsPerUser: 2})
	require.NoError(t, s.ClearAll())
	require.NoError(t, s.Run())

	var userCount int64
	testDB.Model(&models.User{}).Count(&userCount)
	assert.EqualValues(t, 10, userCount)

	// Every user owns a professional identity and never two in one context.
	var identityCount int64
	testDB.Model(&models.Identity{}).Where("context = ?", models.ContextProfessional).Count(&identityCount)
	assert.EqualValues(t, 10, identityCount)

	var dupes int64
	testDB.Raw(`SELECT COUNT(*) FROM (
		SELECT user_id, context FROM identities GROUP BY user_id, context HAVING COUNT(*) > 1
	)`).Scan(&dupes)
	assert.Zero(t, dupes)

	// No follow edge points at an identity of its own user.
	var selfEdges int64
	testDB.Raw(`SELECT COUNT(*) FROM friends f
		JOIN identities i ON i.id = f.friend_identity_id
		WHERE i.user_id = f.user_id`).Scan(&selfEdges)
	assert.Zero(t, selfEdges)

	// Accepted requests come with their mutual edges.
	var accepted []models.FriendRequest
	require.NoError(t, testDB.Where("status = ?", models.FriendRequestStatusAccepted).Find(&accepted).Error)
	for _, request := range accepted {
		var edges int64
		testDB.Model(&models.Friend{}).
			Where("(user_id = ? AND friend_identity_id = ?) OR (user_id = ? AND friend_identity_id = ?)",
				request.SenderUserID, request.RecipientIdentityID,
				request.RecipientUserID, request.SenderIdentityID).
			Where("context = ?", request.Context).
			Count(&edges)
		assert.EqualValues(t, 2, edges, "accepted request %d missing an edge", request.ID)
	}

	require.NoError(t, s.ClearAll())
}
