package repository

import (
	"context"
	"errors"
	"time"

	"facet/internal/models"
	"facet/internal/observability"

	"gorm.io/gorm"
)

// FriendRequestRepository defines persistence operations for friend requests.
type FriendRequestRepository interface {
	Upsert(ctx context.Context, request *models.FriendRequest) error
	GetByID(ctx context.Context, id uint) (*models.FriendRequest, error)
	ListPendingForRecipient(ctx context.Context, recipientIdentityID uint, contextType models.ContextType) ([]models.FriendRequest, error)
	ListAccepted(ctx context.Context) ([]models.FriendRequest, error)
	UpdateStatus(ctx context.Context, id uint, status models.FriendRequestStatus) error
	Delete(ctx context.Context, id uint) error
}

type friendRequestRepository struct {
	db *gorm.DB
}

// NewFriendRequestRepository returns a new FriendRequestRepository implementation.
func NewFriendRequestRepository(db *gorm.DB) FriendRequestRepository {
	return &friendRequestRepository{db: db}
}

// Upsert creates the request or, when one already exists for the same
// (sender identity, recipient identity, context), resets it to pending and
// refreshes its actors and timestamp. A re-send after decline therefore
// re-opens the request.
func (r *friendRequestRepository) Upsert(ctx context.Context, request *models.FriendRequest) error {
	done := observability.TrackQuery("upsert", "friend_requests")
	defer done()

	var existing models.FriendRequest
	err := r.db.WithContext(ctx).
		Where("sender_identity_id = ? AND recipient_identity_id = ? AND context = ?",
			request.SenderIdentityID, request.RecipientIdentityID, request.Context).
		First(&existing).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewInternalError(err)
		}
		request.Status = models.FriendRequestStatusPending
		if createErr := r.db.WithContext(ctx).Create(request).Error; createErr != nil {
			return models.NewInternalError(createErr)
		}
		return nil
	}

	existing.SenderUserID = request.SenderUserID
	existing.RecipientUserID = request.RecipientUserID
	existing.Status = models.FriendRequestStatusPending
	existing.CreatedAt = time.Now()
	if err := r.db.WithContext(ctx).Save(&existing).Error; err != nil {
		return models.NewInternalError(err)
	}
	*request = existing
	return nil
}

func (r *friendRequestRepository) GetByID(ctx context.Context, id uint) (*models.FriendRequest, error) {
	var request models.FriendRequest
	if err := r.db.WithContext(ctx).
		Preload("SenderIdentity").
		Preload("RecipientIdentity").
		First(&request, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Friend request", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &request, nil
}

// ListPendingForRecipient returns pending requests addressed to a recipient
// identity. Keying by identity rather than user means requests aimed at a
// deleted identity silently drop out of the list.
func (r *friendRequestRepository) ListPendingForRecipient(ctx context.Context, recipientIdentityID uint, contextType models.ContextType) ([]models.FriendRequest, error) {
	var requests []models.FriendRequest
	if err := r.db.WithContext(ctx).
		Where("recipient_identity_id = ? AND context = ? AND status = ?",
			recipientIdentityID, contextType, models.FriendRequestStatusPending).
		Preload("SenderIdentity").
		Order("created_at DESC").
		Find(&requests).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return requests, nil
}

// ListAccepted returns all accepted requests. Used by the reconcile pass to
// repair missing friend edges.
func (r *friendRequestRepository) ListAccepted(ctx context.Context) ([]models.FriendRequest, error) {
	var requests []models.FriendRequest
	if err := r.db.WithContext(ctx).
		Where("status = ?", models.FriendRequestStatusAccepted).
		Find(&requests).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return requests, nil
}

func (r *friendRequestRepository) UpdateStatus(ctx context.Context, id uint, status models.FriendRequestStatus) error {
	if err := r.db.WithContext(ctx).
		Model(&models.FriendRequest{}).
		Where("id = ?", id).
		Update("status", status).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *friendRequestRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.FriendRequest{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
