package server

import (
	"time"

	"facet/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetFriendRequests handles GET /api/friend-requests/:context
func (s *Server) GetFriendRequests(c *fiber.Ctx) error {
	contextType, err := s.parseContext(c, "context")
	if err != nil {
		return nil
	}

	requests, err := s.friendService.PendingRequests(c.Context(), s.userID(c), string(contextType))
	if err != nil {
		return respondServiceError(c, err)
	}

	type requestSummary struct {
		ID               uint      `json:"id"`
		SenderIdentityID uint      `json:"senderIdentityId"`
		SenderName       string    `json:"senderName"`
		CreatedAt        time.Time `json:"createdAt"`
	}

	summaries := make([]requestSummary, 0, len(requests))
	for i := range requests {
		summaries = append(summaries, requestSummary{
			ID:               requests[i].ID,
			SenderIdentityID: requests[i].SenderIdentityID,
			SenderName:       requests[i].SenderIdentity.PreferredName,
			CreatedAt:        requests[i].CreatedAt,
		})
	}

	return c.JSON(fiber.Map{
		"count":    len(summaries),
		"requests": summaries,
	})
}

// SendFriendRequest handles POST /api/friend-requests/send
func (s *Server) SendFriendRequest(c *fiber.Ctx) error {
	var req struct {
		RecipientIdentityID uint   `json:"recipientIdentityId"`
		Context             string `json:"context"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.RecipientIdentityID == 0 || req.Context == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Recipient identity ID and context are required"))
	}

	request, err := s.friendService.SendRequest(c.Context(), s.userID(c), req.RecipientIdentityID, req.Context)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Friend request sent successfully",
		"friendRequest": fiber.Map{
			"id":                  request.ID,
			"recipientIdentityId": request.RecipientIdentityID,
			"context":             request.Context,
			"createdAt":           request.CreatedAt,
		},
	})
}

// AcceptFriendRequest handles POST /api/friend-requests/accept
func (s *Server) AcceptFriendRequest(c *fiber.Ctx) error {
	var req struct {
		RequestID uint   `json:"requestId"`
		Context   string `json:"context"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.RequestID == 0 || req.Context == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Request ID and context are required"))
	}

	request, err := s.friendService.Accept(c.Context(), s.userID(c), req.RequestID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Friend request accepted successfully",
		"friendRequest": fiber.Map{
			"id":     request.ID,
			"status": request.Status,
		},
	})
}

// DeclineFriendRequest handles POST /api/friend-requests/decline
func (s *Server) DeclineFriendRequest(c *fiber.Ctx) error {
	var req struct {
		RequestID uint `json:"requestId"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.RequestID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Request ID is required"))
	}

	if err := s.friendService.Decline(c.Context(), s.userID(c), req.RequestID); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":   "Friend request declined successfully",
		"requestId": req.RequestID,
	})
}
