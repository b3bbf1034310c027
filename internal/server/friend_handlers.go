package server

import (
	"facet/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetFriends handles GET /api/friends/:context
func (s *Server) GetFriends(c *fiber.Ctx) error {
	contextType, err := s.parseContext(c, "context")
	if err != nil {
		return nil
	}

	friends, err := s.friendService.ListFriends(c.Context(), s.userID(c), string(contextType))
	if err != nil {
		return respondServiceError(c, err)
	}

	// The list is presented as the followed identities, stamped with the
	// follow time rather than the identity's own createdAt.
	friendIdentities := make([]identitySummary, 0, len(friends))
	for i := range friends {
		summary := summarizeIdentity(&friends[i].FriendIdentity)
		summary.CreatedAt = friends[i].CreatedAt
		friendIdentities = append(friendIdentities, summary)
	}

	return c.JSON(fiber.Map{
		"count":   len(friendIdentities),
		"friends": friendIdentities,
	})
}

// AddFriend handles POST /api/friends/add
func (s *Server) AddFriend(c *fiber.Ctx) error {
	var req struct {
		FriendIdentityID uint   `json:"friendIdentityId"`
		Context          string `json:"context"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.FriendIdentityID == 0 || req.Context == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Friend identity ID and context are required"))
	}

	friend, err := s.friendService.Follow(c.Context(), s.userID(c), req.FriendIdentityID, req.Context)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Friend added successfully",
		"friend": fiber.Map{
			"id":               friend.ID,
			"friendIdentityId": friend.FriendIdentityID,
			"context":          friend.Context,
			"createdAt":        friend.CreatedAt,
		},
	})
}

// RemoveFriend handles POST /api/friends/remove
func (s *Server) RemoveFriend(c *fiber.Ctx) error {
	var req struct {
		FriendIdentityID uint   `json:"friendIdentityId"`
		Context          string `json:"context"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.FriendIdentityID == 0 || req.Context == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Friend identity ID and context are required"))
	}

	if err := s.friendService.Unfollow(c.Context(), s.userID(c), req.FriendIdentityID, req.Context); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":          "Friend removed successfully",
		"friendIdentityId": req.FriendIdentityID,
		"context":          req.Context,
	})
}

// CheckFriendship handles GET /api/friends/check/:friendIdentityId/:context
func (s *Server) CheckFriendship(c *fiber.Ctx) error {
	friendIdentityID, err := s.parseID(c, "friendIdentityId")
	if err != nil {
		return nil
	}
	contextType, err := s.parseContext(c, "context")
	if err != nil {
		return nil
	}

	friend, err := s.friendRepo.Get(c.Context(), s.userID(c), friendIdentityID, contextType)
	if err != nil {
		return respondServiceError(c, err)
	}

	if friend == nil {
		return c.JSON(fiber.Map{
			"isFriend":   false,
			"friendship": nil,
		})
	}
	return c.JSON(fiber.Map{
		"isFriend": true,
		"friendship": fiber.Map{
			"id":        friend.ID,
			"createdAt": friend.CreatedAt,
		},
	})
}

// ReconcileFriendships handles POST /api/maintenance/reconcile-friendships.
// Re-upserts the edge pair of every accepted request; safe to call repeatedly.
func (s *Server) ReconcileFriendships(c *fiber.Ctx) error {
	repaired, err := s.friendService.Reconcile(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":  "Reconciliation complete",
		"repaired": repaired,
	})
}
