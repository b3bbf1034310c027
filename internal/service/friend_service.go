package service

import (
	"context"

	"facet/internal/middleware"
	"facet/internal/models"
	"facet/internal/observability"
	"facet/internal/repository"

	"gorm.io/gorm"
)

// FriendService provides follow, friend-request, and favorite business logic.
// It holds the gorm handle so accepting a request can run its writes in a
// single transaction.
type FriendService struct {
	db           *gorm.DB
	friendRepo   repository.FriendRepository
	requestRepo  repository.FriendRequestRepository
	favoriteRepo repository.FavoriteRepository
	identityRepo repository.IdentityRepository
}

// NewFriendService returns a new FriendService.
func NewFriendService(
	db *gorm.DB,
	friendRepo repository.FriendRepository,
	requestRepo repository.FriendRequestRepository,
	favoriteRepo repository.FavoriteRepository,
	identityRepo repository.IdentityRepository,
) *FriendService {
	return &FriendService{
		db:           db,
		friendRepo:   friendRepo,
		requestRepo:  requestRepo,
		favoriteRepo: favoriteRepo,
		identityRepo: identityRepo,
	}
}

// requireIdentity returns the caller's identity in the context or the
// standard membership error.
func (s *FriendService) requireIdentity(ctx context.Context, userID uint, contextType models.ContextType) (*models.Identity, error) {
	identity, err := s.identityRepo.GetByUserAndContext(ctx, userID, contextType)
	if err != nil {
		return nil, err
	}
	if identity == nil {
		return nil, models.NewValidationError("You do not have an identity in this context")
	}
	return identity, nil
}

// Follow adds a one-way friend edge from the caller to the target identity
// within a context. The upsert is unconditional: following an
// already-followed identity is a no-op that returns the existing edge.
func (s *FriendService) Follow(ctx context.Context, userID, friendIdentityID uint, contextName string) (*models.Friend, error) {
	contextType, err := models.ParseContext(contextName)
	if err != nil {
		return nil, err
	}

	friend := &models.Friend{
		UserID:           userID,
		FriendIdentityID: friendIdentityID,
		Context:          contextType,
	}
	if err := s.friendRepo.Upsert(ctx, friend); err != nil {
		return nil, err
	}
	return friend, nil
}

// Unfollow removes the caller's edge to the target identity. Removing an
// absent edge is a not-found error.
func (s *FriendService) Unfollow(ctx context.Context, userID, friendIdentityID uint, contextName string) error {
	contextType, err := models.ParseContext(contextName)
	if err != nil {
		return err
	}
	return s.friendRepo.Remove(ctx, userID, friendIdentityID, contextType)
}

// IsFriend reports whether the caller follows the target identity in the context.
func (s *FriendService) IsFriend(ctx context.Context, userID, friendIdentityID uint, contextName string) (bool, error) {
	contextType, err := models.ParseContext(contextName)
	if err != nil {
		return false, err
	}
	friend, err := s.friendRepo.Get(ctx, userID, friendIdentityID, contextType)
	if err != nil {
		return false, err
	}
	return friend != nil, nil
}

// ListFriends returns the caller's friend edges in a context, newest first.
func (s *FriendService) ListFriends(ctx context.Context, userID uint, contextName string) ([]models.Friend, error) {
	contextType, err := models.ParseContext(contextName)
	if err != nil {
		return nil, err
	}
	return s.friendRepo.ListForUser(ctx, userID, contextType)
}

// SendRequest creates or re-opens a friend request from the caller's identity
// in the context to the recipient identity. Re-sending to the same recipient
// resets the existing request to pending rather than duplicating it.
func (s *FriendService) SendRequest(ctx context.Context, senderUserID, recipientIdentityID uint, contextName string) (*models.FriendRequest, error) {
	contextType, err := models.ParseContext(contextName)
	if err != nil {
		return nil, err
	}

	senderIdentity, err := s.requireIdentity(ctx, senderUserID, contextType)
	if err != nil {
		return nil, err
	}

	recipient, err := s.identityRepo.GetByID(ctx, recipientIdentityID)
	if err != nil {
		if appErr, ok := err.(*models.AppError); ok && appErr.Code == "NOT_FOUND" {
			return nil, models.NewNotFoundError("Recipient identity", recipientIdentityID)
		}
		return nil, err
	}
	request := &models.FriendRequest{
		SenderUserID:        senderUserID,
		SenderIdentityID:    senderIdentity.ID,
		RecipientUserID:     recipient.UserID,
		RecipientIdentityID: recipient.ID,
		Context:             contextType,
	}
	if err := s.requestRepo.Upsert(ctx, request); err != nil {
		return nil, err
	}

	observability.FriendRequestTransitions.WithLabelValues("sent").Inc()
	return request, nil
}

// PendingRequests returns pending requests addressed to the caller's identity
// in a context. A caller without an identity there has no inbox and gets an
// empty list, even when stale requests still point at a deleted identity.
func (s *FriendService) PendingRequests(ctx context.Context, userID uint, contextName string) ([]models.FriendRequest, error) {
	contextType, err := models.ParseContext(contextName)
	if err != nil {
		return nil, err
	}

	identity, err := s.identityRepo.GetByUserAndContext(ctx, userID, contextType)
	if err != nil {
		return nil, err
	}
	if identity == nil {
		return []models.FriendRequest{}, nil
	}
	return s.requestRepo.ListPendingForRecipient(ctx, identity.ID, contextType)
}

// Accept marks the request accepted and creates the two symmetric friend
// edges in one transaction. Only the recipient may accept. Accepting an
// already-accepted request re-runs the edge upserts, so a retry after a
// partial failure completes the friendship.
func (s *FriendService) Accept(ctx context.Context, userID, requestID uint) (*models.FriendRequest, error) {
	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request.RecipientUserID != userID {
		return nil, models.NewForbiddenError("You are not the recipient of this request")
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txFriends := repository.NewFriendRepository(tx)
		txRequests := repository.NewFriendRequestRepository(tx)

		if err := txFriends.Upsert(ctx, &models.Friend{
			UserID:           request.RecipientUserID,
			FriendIdentityID: request.SenderIdentityID,
			Context:          request.Context,
		}); err != nil {
			return err
		}
		if err := txFriends.Upsert(ctx, &models.Friend{
			UserID:           request.SenderUserID,
			FriendIdentityID: request.RecipientIdentityID,
			Context:          request.Context,
		}); err != nil {
			return err
		}
		return txRequests.UpdateStatus(ctx, request.ID, models.FriendRequestStatusAccepted)
	})
	if err != nil {
		observability.FriendRequestTransitions.WithLabelValues("accept_failed").Inc()
		return nil, err
	}

	observability.FriendRequestTransitions.WithLabelValues("accepted").Inc()
	request.Status = models.FriendRequestStatusAccepted
	return request, nil
}

// Decline removes the request entirely so the sender may try again later.
// Only the recipient may decline.
func (s *FriendService) Decline(ctx context.Context, userID, requestID uint) error {
	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return err
	}
	if request.RecipientUserID != userID {
		return models.NewForbiddenError("You are not the recipient of this request")
	}

	if err := s.requestRepo.Delete(ctx, request.ID); err != nil {
		return err
	}
	observability.FriendRequestTransitions.WithLabelValues("declined").Inc()
	return nil
}

// Reconcile re-upserts the friend edges of every accepted request, repairing
// edges lost to a partial failure. Returns the number of requests touched.
func (s *FriendService) Reconcile(ctx context.Context) (int, error) {
	accepted, err := s.requestRepo.ListAccepted(ctx)
	if err != nil {
		return 0, err
	}

	repaired := 0
	for _, request := range accepted {
		before, err := s.countEdges(ctx, &request)
		if err != nil {
			return repaired, err
		}

		if err := s.friendRepo.Upsert(ctx, &models.Friend{
			UserID:           request.RecipientUserID,
			FriendIdentityID: request.SenderIdentityID,
			Context:          request.Context,
		}); err != nil {
			return repaired, err
		}
		if err := s.friendRepo.Upsert(ctx, &models.Friend{
			UserID:           request.SenderUserID,
			FriendIdentityID: request.RecipientIdentityID,
			Context:          request.Context,
		}); err != nil {
			return repaired, err
		}

		if before < 2 {
			repaired++
			observability.ReconcileRepairs.Inc()
			middleware.Logger.WarnContext(ctx, "repaired accepted request with missing friend edges",
				"request_id", request.ID,
				"edges_before", before,
			)
		}
	}
	return repaired, nil
}

func (s *FriendService) countEdges(ctx context.Context, request *models.FriendRequest) (int, error) {
	count := 0
	edge, err := s.friendRepo.Get(ctx, request.RecipientUserID, request.SenderIdentityID, request.Context)
	if err != nil {
		return 0, err
	}
	if edge != nil {
		count++
	}
	edge, err = s.friendRepo.Get(ctx, request.SenderUserID, request.RecipientIdentityID, request.Context)
	if err != nil {
		return 0, err
	}
	if edge != nil {
		count++
	}
	return count, nil
}

// Favorite bookmarks an identity in a context. Idempotent.
func (s *FriendService) Favorite(ctx context.Context, userID, identityID uint, contextName string) (*models.Favorite, error) {
	contextType, err := models.ParseContext(contextName)
	if err != nil {
		return nil, err
	}

	favorite := &models.Favorite{
		UserID:     userID,
		IdentityID: identityID,
		Context:    contextType,
	}
	if err := s.favoriteRepo.Upsert(ctx, favorite); err != nil {
		return nil, err
	}
	return favorite, nil
}

// Unfavorite removes a bookmark. Removing an absent one is a not-found error.
func (s *FriendService) Unfavorite(ctx context.Context, userID, identityID uint, contextName string) error {
	contextType, err := models.ParseContext(contextName)
	if err != nil {
		return err
	}
	return s.favoriteRepo.Remove(ctx, userID, identityID, contextType)
}

// ListFavorites returns the caller's bookmarks in a context, newest first.
func (s *FriendService) ListFavorites(ctx context.Context, userID uint, contextName string) ([]models.Favorite, error) {
	contextType, err := models.ParseContext(contextName)
	if err != nil {
		return nil, err
	}
	return s.favoriteRepo.ListForUser(ctx, userID, contextType)
}
