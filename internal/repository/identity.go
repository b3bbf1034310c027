package repository

import (
	"context"
	"errors"

	"facet/internal/cache"
	"facet/internal/models"
	"facet/internal/observability"

	"gorm.io/gorm"
)

// IdentityRepository defines persistence operations for context-scoped identities.
type IdentityRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Identity, error)
	GetByUserAndContext(ctx context.Context, userID uint, contextType models.ContextType) (*models.Identity, error)
	GetOwned(ctx context.Context, id, userID uint) (*models.Identity, error)
	ListForUser(ctx context.Context, userID uint) ([]models.Identity, error)
	ListByContext(ctx context.Context, contextType models.ContextType, publicOnly bool, excludeUserID uint) ([]models.Identity, error)
	PreferredNameInUse(ctx context.Context, preferredName string, excludeUserID uint) (bool, error)
	Create(ctx context.Context, identity *models.Identity) error
	Update(ctx context.Context, identity *models.Identity) error
	Delete(ctx context.Context, id uint) error
}

type identityRepository struct {
	db *gorm.DB
}

// NewIdentityRepository returns a new IdentityRepository implementation.
func NewIdentityRepository(db *gorm.DB) IdentityRepository {
	return &identityRepository{db: db}
}

func (r *identityRepository) GetByID(ctx context.Context, id uint) (*models.Identity, error) {
	var identity models.Identity
	key := cache.IdentityKey(id)

	err := cache.Aside(ctx, key, &identity, cache.IdentityTTL, func() error {
		done := observability.TrackQuery("select", "identities")
		defer done()
		if err := r.db.WithContext(ctx).First(&identity, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Identity", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return &identity, nil
}

// GetByUserAndContext returns the user's identity in the given context, or
// nil without error when the user has none there.
func (r *identityRepository) GetByUserAndContext(ctx context.Context, userID uint, contextType models.ContextType) (*models.Identity, error) {
	var identity models.Identity
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND context = ?", userID, contextType).
		First(&identity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &identity, nil
}

// GetOwned fetches an identity only when it belongs to userID.
func (r *identityRepository) GetOwned(ctx context.Context, id, userID uint) (*models.Identity, error) {
	var identity models.Identity
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&identity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Identity", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &identity, nil
}

func (r *identityRepository) ListForUser(ctx context.Context, userID uint) ([]models.Identity, error) {
	var identities []models.Identity
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&identities).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return identities, nil
}

// ListByContext returns identities in a context, excluding the caller's own.
// When publicOnly is set only identities with public visibility are returned.
func (r *identityRepository) ListByContext(ctx context.Context, contextType models.ContextType, publicOnly bool, excludeUserID uint) ([]models.Identity, error) {
	var identities []models.Identity
	query := r.db.WithContext(ctx).Where("context = ?", contextType)
	if publicOnly {
		query = query.Where("visibility = ?", models.VisibilityPublic)
	}
	if excludeUserID != 0 {
		query = query.Where("user_id != ?", excludeUserID)
	}
	if err := query.Order("created_at DESC").Find(&identities).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return identities, nil
}

// PreferredNameInUse reports whether any other user already claimed the
// preferred name in any context. A user may reuse their own names.
func (r *identityRepository) PreferredNameInUse(ctx context.Context, preferredName string, excludeUserID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Identity{}).
		Where("preferred_name = ? AND user_id != ?", preferredName, excludeUserID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *identityRepository) Create(ctx context.Context, identity *models.Identity) error {
	done := observability.TrackQuery("insert", "identities")
	defer done()
	if err := r.db.WithContext(ctx).Create(identity).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewValidationError("You already have an identity in this context")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *identityRepository) Update(ctx context.Context, identity *models.Identity) error {
	if err := r.db.WithContext(ctx).Save(identity).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateIdentity(ctx, identity.ID)
	return nil
}

func (r *identityRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Identity{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateIdentity(ctx, id)
	return nil
}
