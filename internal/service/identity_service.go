// Package service contains the business logic layer.
package service

import (
	"context"
	"strings"

	"facet/internal/models"
	"facet/internal/repository"
	"facet/internal/validation"
)

// IdentityService provides identity lifecycle business logic.
type IdentityService struct {
	identityRepo repository.IdentityRepository
}

// IdentityInput carries the mutable fields of an identity.
type IdentityInput struct {
	LegalName     string
	PreferredName string
	Nickname      string
	Context       string
	Visibility    string
}

// NewIdentityService returns a new IdentityService.
func NewIdentityService(identityRepo repository.IdentityRepository) *IdentityService {
	return &IdentityService{identityRepo: identityRepo}
}

// CreateIdentity creates a context-scoped identity for the user. A user may
// hold at most one identity per context, and a preferred name may not be
// claimed by two different users.
func (s *IdentityService) CreateIdentity(ctx context.Context, userID uint, in IdentityInput) (*models.Identity, error) {
	contextType, err := models.ParseContext(in.Context)
	if err != nil {
		return nil, err
	}

	if err := validation.ValidateLegalName(in.LegalName); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePreferredName(in.PreferredName); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateNickname(in.Nickname); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	visibility := models.VisibilityPrivate
	if in.Visibility != "" {
		visibility = models.Visibility(in.Visibility)
		if !visibility.Valid() {
			return nil, models.NewValidationError("Invalid visibility")
		}
	}

	existing, err := s.identityRepo.GetByUserAndContext(ctx, userID, contextType)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewValidationError("You already have an identity in this context")
	}

	taken, err := s.identityRepo.PreferredNameInUse(ctx, in.PreferredName, userID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, models.NewValidationError("Preferred name is already taken")
	}

	identity := &models.Identity{
		UserID:        userID,
		LegalName:     strings.TrimSpace(in.LegalName),
		PreferredName: in.PreferredName,
		Nickname:      in.Nickname,
		Context:       contextType,
		Visibility:    visibility,
	}
	if err := s.identityRepo.Create(ctx, identity); err != nil {
		return nil, err
	}
	return identity, nil
}

// UpdateIdentity updates an identity owned by the user. The context of an
// identity is fixed at creation.
func (s *IdentityService) UpdateIdentity(ctx context.Context, userID, identityID uint, in IdentityInput) (*models.Identity, error) {
	identity, err := s.identityRepo.GetOwned(ctx, identityID, userID)
	if err != nil {
		return nil, err
	}

	if in.LegalName != "" {
		if err := validation.ValidateLegalName(in.LegalName); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		identity.LegalName = strings.TrimSpace(in.LegalName)
	}
	if in.PreferredName != "" && in.PreferredName != identity.PreferredName {
		if err := validation.ValidatePreferredName(in.PreferredName); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		taken, err := s.identityRepo.PreferredNameInUse(ctx, in.PreferredName, userID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, models.NewValidationError("Preferred name is already taken")
		}
		identity.PreferredName = in.PreferredName
	}
	if in.Nickname != "" {
		if err := validation.ValidateNickname(in.Nickname); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		identity.Nickname = in.Nickname
	}
	if in.Visibility != "" {
		visibility := models.Visibility(in.Visibility)
		if !visibility.Valid() {
			return nil, models.NewValidationError("Invalid visibility")
		}
		identity.Visibility = visibility
	}

	if err := s.identityRepo.Update(ctx, identity); err != nil {
		return nil, err
	}
	return identity, nil
}

// DeleteIdentity removes an identity owned by the user.
func (s *IdentityService) DeleteIdentity(ctx context.Context, userID, identityID uint) error {
	identity, err := s.identityRepo.GetOwned(ctx, identityID, userID)
	if err != nil {
		return err
	}
	return s.identityRepo.Delete(ctx, identity.ID)
}

// GetIdentity returns an identity by id.
func (s *IdentityService) GetIdentity(ctx context.Context, id uint) (*models.Identity, error) {
	return s.identityRepo.GetByID(ctx, id)
}

// GetMyIdentity returns the caller's identity in the given context, or a
// not-found error when they have none there.
func (s *IdentityService) GetMyIdentity(ctx context.Context, userID uint, contextName string) (*models.Identity, error) {
	contextType, err := models.ParseContext(contextName)
	if err != nil {
		return nil, err
	}
	identity, err := s.identityRepo.GetByUserAndContext(ctx, userID, contextType)
	if err != nil {
		return nil, err
	}
	if identity == nil {
		return nil, models.NewNotFoundError("Identity", contextName)
	}
	return identity, nil
}

// ListMyIdentities returns all identities owned by the user.
func (s *IdentityService) ListMyIdentities(ctx context.Context, userID uint) ([]models.Identity, error) {
	return s.identityRepo.ListForUser(ctx, userID)
}

// BrowseContext lists other users' public identities in a context.
func (s *IdentityService) BrowseContext(ctx context.Context, viewerUserID uint, contextName string) ([]models.Identity, error) {
	contextType, err := models.ParseContext(contextName)
	if err != nil {
		return nil, err
	}
	return s.identityRepo.ListByContext(ctx, contextType, true, viewerUserID)
}

// ListContextIdentities lists all other identities in a context regardless of
// visibility. Used for in-context directories where membership implies
// discoverability.
func (s *IdentityService) ListContextIdentities(ctx context.Context, viewerUserID uint, contextName string) ([]models.Identity, error) {
	contextType, err := models.ParseContext(contextName)
	if err != nil {
		return nil, err
	}
	return s.identityRepo.ListByContext(ctx, contextType, false, viewerUserID)
}
