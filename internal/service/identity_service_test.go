package service

import (
	"context"
	"testing"

	"facet/internal/models"
	"facet/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIdentityService() *IdentityService {
	return NewIdentityService(repository.NewIdentityRepository(testDB))
}

func TestIdentityService_CreateIdentity(t *testing.T) {
	resetTables(t, testDB)
	svc := newIdentityService()
	ctx := context.Background()

	alice := seedUser(t, "alice")
	bob := seedUser(t, "bob")

	t.Run("Creates identity with defaults", func(t *testing.T) {
		identity, err := svc.CreateIdentity(ctx, alice.ID, IdentityInput{
			LegalName:     "Alice Cooper",
			PreferredName: "acooper",
			Context:       "professional",
		})
		require.NoError(t, err)
		assert.Equal(t, models.VisibilityPrivate, identity.Visibility)
		assert.Equal(t, models.ContextProfessional, identity.Context)
	})

	t.Run("Rejects unknown context", func(t *testing.T) {
		_, err := svc.CreateIdentity(ctx, alice.ID, IdentityInput{
			LegalName:     "Alice Cooper",
			PreferredName: "acooper2",
			Context:       "work",
		})
		require.Error(t, err)
		assert.Equal(t, "Invalid context type", err.(*models.AppError).Message)
	})

	t.Run("One identity per context", func(t *testing.T) {
		_, err := svc.CreateIdentity(ctx, alice.ID, IdentityInput{
			LegalName:     "Alice Cooper",
			PreferredName: "acooper3",
			Context:       "professional",
		})
		require.Error(t, err)
		assert.Equal(t, "You already have an identity in this context", err.(*models.AppError).Message)
	})

	t.Run("Preferred name unique across users", func(t *testing.T) {
		_, err := svc.CreateIdentity(ctx, bob.ID, IdentityInput{
			LegalName:     "Bob Cooper",
			PreferredName: "acooper",
			Context:       "professional",
		})
		require.Error(t, err)
		assert.Equal(t, "Preferred name is already taken", err.(*models.AppError).Message)
	})

	t.Run("Owner may reuse their name in another context", func(t *testing.T) {
		identity, err := svc.CreateIdentity(ctx, alice.ID, IdentityInput{
			LegalName:     "Alice Cooper",
			PreferredName: "acooper",
			Context:       "personal",
		})
		require.NoError(t, err)
		assert.Equal(t, models.ContextPersonal, identity.Context)
	})

	t.Run("Rejects invalid preferred name", func(t *testing.T) {
		_, err := svc.CreateIdentity(ctx, bob.ID, IdentityInput{
			LegalName:     "Bob Cooper",
			PreferredName: "bob cooper",
			Context:       "online",
		})
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_ERROR", err.(*models.AppError).Code)
	})
}

func TestIdentityService_UpdateAndBrowse(t *testing.T) {
	resetTables(t, testDB)
	svc := newIdentityService()
	ctx := context.Background()

	alice := seedUser(t, "alice")
	bob := seedUser(t, "bob")

	aliceID, err := svc.CreateIdentity(ctx, alice.ID, IdentityInput{
		LegalName:     "Alice Cooper",
		PreferredName: "acooper",
		Context:       "online",
		Visibility:    "public",
	})
	require.NoError(t, err)

	bobID, err := svc.CreateIdentity(ctx, bob.ID, IdentityInput{
		LegalName:     "Bob Dylan",
		PreferredName: "bdylan",
		Context:       "online",
	})
	require.NoError(t, err)

	t.Run("Update rejects taken preferred name", func(t *testing.T) {
		_, err := svc.UpdateIdentity(ctx, bob.ID, bobID.ID, IdentityInput{PreferredName: "acooper"})
		require.Error(t, err)
		assert.Equal(t, "Preferred name is already taken", err.(*models.AppError).Message)
	})

	t.Run("Update rejects foreign identity", func(t *testing.T) {
		_, err := svc.UpdateIdentity(ctx, bob.ID, aliceID.ID, IdentityInput{Nickname: "hijack"})
		require.Error(t, err)
		assert.Equal(t, "NOT_FOUND", err.(*models.AppError).Code)
	})

	t.Run("Update changes visibility", func(t *testing.T) {
		updated, err := svc.UpdateIdentity(ctx, bob.ID, bobID.ID, IdentityInput{Visibility: "public"})
		require.NoError(t, err)
		assert.Equal(t, models.VisibilityPublic, updated.Visibility)
	})

	t.Run("Browse shows public identities of others", func(t *testing.T) {
		visible, err := svc.BrowseContext(ctx, bob.ID, "online")
		require.NoError(t, err)
		require.Len(t, visible, 1)
		assert.Equal(t, "acooper", visible[0].PreferredName)
	})

	t.Run("GetMyIdentity not found in empty context", func(t *testing.T) {
		_, err := svc.GetMyIdentity(ctx, alice.ID, "family")
		require.Error(t, err)
		assert.Equal(t, "NOT_FOUND", err.(*models.AppError).Code)
	})

	t.Run("Delete then list", func(t *testing.T) {
		require.NoError(t, svc.DeleteIdentity(ctx, bob.ID, bobID.ID))
		mine, err := svc.ListMyIdentities(ctx, bob.ID)
		require.NoError(t, err)
		assert.Empty(t, mine)
	})
}

func TestUserService_RegisterAndLogin(t *testing.T) {
	resetTables(t, testDB)
	svc := NewUserService(repository.NewUserRepository(testDB))
	ctx := context.Background()

	t.Run("Register validates password confirmation", func(t *testing.T) {
		_, err := svc.Register(ctx, RegisterInput{
			FirstName:       "Alice",
			LastName:        "Cooper",
			Email:           "alice@example.com",
			Password:        "SecurePass12!",
			ConfirmPassword: "Different12!",
		})
		require.Error(t, err)
		assert.Equal(t, "Passwords do not match", err.(*models.AppError).Message)
	})

	t.Run("Register then login", func(t *testing.T) {
		user, err := svc.Register(ctx, RegisterInput{
			FirstName:       "Alice",
			LastName:        "Cooper",
			Email:           "alice@example.com",
			Password:        "SecurePass12!",
			ConfirmPassword: "SecurePass12!",
		})
		require.NoError(t, err)
		assert.NotEqual(t, "SecurePass12!", user.Password, "password must be hashed")

		loggedIn, err := svc.Login(ctx, "alice@example.com", "SecurePass12!")
		require.NoError(t, err)
		assert.Equal(t, user.ID, loggedIn.ID)
		assert.NotNil(t, loggedIn.LastLogin)
	})

	t.Run("Duplicate email rejected", func(t *testing.T) {
		_, err := svc.Register(ctx, RegisterInput{
			FirstName:       "Alice",
			LastName:        "Imposter",
			Email:           "alice@example.com",
			Password:        "SecurePass12!",
			ConfirmPassword: "SecurePass12!",
		})
		require.Error(t, err)
		assert.Equal(t, "Email is already registered", err.(*models.AppError).Message)
	})

	t.Run("Wrong password is unauthorized", func(t *testing.T) {
		_, err := svc.Login(ctx, "alice@example.com", "WrongPass12!")
		require.Error(t, err)
		assert.Equal(t, "UNAUTHORIZED", err.(*models.AppError).Code)
	})

	t.Run("Unknown email gets the same error", func(t *testing.T) {
		_, err := svc.Login(ctx, "nobody@example.com", "SecurePass12!")
		require.Error(t, err)
		assert.Equal(t, "Invalid email or password", err.(*models.AppError).Message)
	})
}
