package server

import (
	"facet/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetFavorites handles GET /api/favorites/:context
func (s *Server) GetFavorites(c *fiber.Ctx) error {
	contextType, err := s.parseContext(c, "context")
	if err != nil {
		return nil
	}

	favorites, err := s.friendService.ListFavorites(c.Context(), s.userID(c), string(contextType))
	if err != nil {
		return respondServiceError(c, err)
	}

	favoriteIdentities := make([]identitySummary, 0, len(favorites))
	for i := range favorites {
		summary := summarizeIdentity(&favorites[i].Identity)
		summary.CreatedAt = favorites[i].CreatedAt
		favoriteIdentities = append(favoriteIdentities, summary)
	}

	return c.JSON(fiber.Map{
		"count":     len(favoriteIdentities),
		"favorites": favoriteIdentities,
	})
}

// AddFavorite handles POST /api/favorites/:identityId
func (s *Server) AddFavorite(c *fiber.Ctx) error {
	identityID, err := s.parseID(c, "identityId")
	if err != nil {
		return nil
	}

	var req struct {
		Context string `json:"context"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.Context == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Context is required"))
	}

	favorite, err := s.friendService.Favorite(c.Context(), s.userID(c), identityID, req.Context)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Added to favorites",
		"favorite": fiber.Map{
			"id":         favorite.ID,
			"identityId": favorite.IdentityID,
			"context":    favorite.Context,
			"createdAt":  favorite.CreatedAt,
		},
	})
}

// RemoveFavorite handles DELETE /api/favorites/:identityId. The context comes
// from the query string so the route stays a plain DELETE.
func (s *Server) RemoveFavorite(c *fiber.Ctx) error {
	identityID, err := s.parseID(c, "identityId")
	if err != nil {
		return nil
	}

	contextName := c.Query("context")
	if contextName == "" {
		// Fall back to a JSON body for clients that send one.
		var req struct {
			Context string `json:"context"`
		}
		if err := c.BodyParser(&req); err == nil {
			contextName = req.Context
		}
	}
	if contextName == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Context is required"))
	}

	if err := s.friendService.Unfavorite(c.Context(), s.userID(c), identityID, contextName); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":    "Removed from favorites",
		"identityId": identityID,
	})
}
