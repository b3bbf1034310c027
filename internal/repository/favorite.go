package repository

import (
	"context"
	"errors"

	"facet/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FavoriteRepository defines persistence operations for favorites.
type FavoriteRepository interface {
	Upsert(ctx context.Context, favorite *models.Favorite) error
	Remove(ctx context.Context, userID, identityID uint, contextType models.ContextType) error
	ListForUser(ctx context.Context, userID uint, contextType models.ContextType) ([]models.Favorite, error)
}

type favoriteRepository struct {
	db *gorm.DB
}

// NewFavoriteRepository returns a new FavoriteRepository implementation.
func NewFavoriteRepository(db *gorm.DB) FavoriteRepository {
	return &favoriteRepository{db: db}
}

func (r *favoriteRepository) Upsert(ctx context.Context, favorite *models.Favorite) error {
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "user_id"},
				{Name: "identity_id"},
				{Name: "context"},
			},
			DoNothing: true,
		}).
		Create(favorite).Error; err != nil {
		return models.NewInternalError(err)
	}

	if favorite.ID == 0 {
		var existing models.Favorite
		if err := r.db.WithContext(ctx).
			Where("user_id = ? AND identity_id = ? AND context = ?",
				favorite.UserID, favorite.IdentityID, favorite.Context).
			First(&existing).Error; err == nil {
			*favorite = existing
		}
	}
	return nil
}

func (r *favoriteRepository) Remove(ctx context.Context, userID, identityID uint, contextType models.ContextType) error {
	var favorite models.Favorite
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND identity_id = ? AND context = ?", userID, identityID, contextType).
		First(&favorite).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Favorite", identityID)
		}
		return models.NewInternalError(err)
	}

	if err := r.db.WithContext(ctx).Delete(&favorite).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *favoriteRepository) ListForUser(ctx context.Context, userID uint, contextType models.ContextType) ([]models.Favorite, error) {
	var favorites []models.Favorite
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND context = ?", userID, contextType).
		Preload("Identity").
		Order("created_at DESC").
		Find(&favorites).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return favorites, nil
}
