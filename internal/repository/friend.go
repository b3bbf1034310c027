package repository

import (
	"context"
	"errors"

	"facet/internal/models"
	"facet/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FriendRepository defines persistence operations for friend edges.
type FriendRepository interface {
	Upsert(ctx context.Context, friend *models.Friend) error
	Remove(ctx context.Context, userID, friendIdentityID uint, contextType models.ContextType) error
	Get(ctx context.Context, userID, friendIdentityID uint, contextType models.ContextType) (*models.Friend, error)
	ListForUser(ctx context.Context, userID uint, contextType models.ContextType) ([]models.Friend, error)
}

type friendRepository struct {
	db *gorm.DB
}

// NewFriendRepository returns a new FriendRepository implementation.
func NewFriendRepository(db *gorm.DB) FriendRepository {
	return &friendRepository{db: db}
}

// Upsert inserts the edge if absent and leaves the original row untouched if
// present, so re-follows keep the first CreatedAt.
func (r *friendRepository) Upsert(ctx context.Context, friend *models.Friend) error {
	done := observability.TrackQuery("upsert", "friends")
	defer done()

	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "user_id"},
				{Name: "friend_identity_id"},
				{Name: "context"},
			},
			DoNothing: true,
		}).
		Create(friend).Error; err != nil {
		return models.NewInternalError(err)
	}

	// On conflict the insert is a no-op and GORM leaves ID zero; re-read the
	// existing row so callers always get the persisted edge.
	if friend.ID == 0 {
		existing, err := r.Get(ctx, friend.UserID, friend.FriendIdentityID, friend.Context)
		if err != nil {
			return err
		}
		if existing != nil {
			*friend = *existing
		}
	}
	return nil
}

// Remove deletes the edge, returning a not-found error when no edge exists.
func (r *friendRepository) Remove(ctx context.Context, userID, friendIdentityID uint, contextType models.ContextType) error {
	var friend models.Friend
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND friend_identity_id = ? AND context = ?", userID, friendIdentityID, contextType).
		First(&friend).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Friend relationship", friendIdentityID)
		}
		return models.NewInternalError(err)
	}

	if err := r.db.WithContext(ctx).Delete(&friend).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// Get returns the edge or nil without error when none exists.
func (r *friendRepository) Get(ctx context.Context, userID, friendIdentityID uint, contextType models.ContextType) (*models.Friend, error) {
	var friend models.Friend
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND friend_identity_id = ? AND context = ?", userID, friendIdentityID, contextType).
		First(&friend).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &friend, nil
}

func (r *friendRepository) ListForUser(ctx context.Context, userID uint, contextType models.ContextType) ([]models.Friend, error) {
	var friends []models.Friend
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND context = ?", userID, contextType).
		Preload("FriendIdentity").
		Order("created_at DESC").
		Find(&friends).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return friends, nil
}
