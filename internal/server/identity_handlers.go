package server

import (
	"facet/internal/models"
	"facet/internal/service"

	"github.com/gofiber/fiber/v2"
)

type identityRequest struct {
	LegalName     string `json:"legalName"`
	PreferredName string `json:"preferredName"`
	Nickname      string `json:"nickname"`
	Context       string `json:"context"`
	Visibility    string `json:"visibility"`
}

// CreateIdentity handles POST /api/identities
func (s *Server) CreateIdentity(c *fiber.Ctx) error {
	var req identityRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	identity, err := s.identityService.CreateIdentity(c.Context(), s.userID(c), service.IdentityInput{
		LegalName:     req.LegalName,
		PreferredName: req.PreferredName,
		Nickname:      req.Nickname,
		Context:       req.Context,
		Visibility:    req.Visibility,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Identity profile created successfully",
		"identity": identity,
	})
}

// GetMyIdentities handles GET /api/identities
func (s *Server) GetMyIdentities(c *fiber.Ctx) error {
	identities, err := s.identityService.ListMyIdentities(c.Context(), s.userID(c))
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"count":      len(identities),
		"identities": identities,
	})
}

// GetIdentityByContext handles GET /api/identities/context/:context
func (s *Server) GetIdentityByContext(c *fiber.Ctx) error {
	contextType, err := s.parseContext(c, "context")
	if err != nil {
		return nil
	}

	identity, err := s.identityService.GetMyIdentity(c.Context(), s.userID(c), string(contextType))
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"identity": identity})
}

// GetPublicIdentities handles GET /api/identities/public/:context (no auth)
func (s *Server) GetPublicIdentities(c *fiber.Ctx) error {
	contextType, err := s.parseContext(c, "context")
	if err != nil {
		return nil
	}

	identities, err := s.identityService.BrowseContext(c.Context(), 0, string(contextType))
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"count":      len(identities),
		"identities": identities,
	})
}

// GetAllIdentities handles GET /api/identities/all/:context (no auth, search)
func (s *Server) GetAllIdentities(c *fiber.Ctx) error {
	contextType, err := s.parseContext(c, "context")
	if err != nil {
		return nil
	}

	identities, err := s.identityService.ListContextIdentities(c.Context(), 0, string(contextType))
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"count":      len(identities),
		"identities": identities,
	})
}

// GetIdentityProfile handles GET /api/identities/profile/:id (no auth)
func (s *Server) GetIdentityProfile(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	identity, err := s.identityService.GetIdentity(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"identity": identity})
}

// GetIdentity handles GET /api/identities/:id (own identities only)
func (s *Server) GetIdentity(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	identity, err := s.identityRepo.GetOwned(c.Context(), id, s.userID(c))
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"identity": identity})
}

// UpdateIdentity handles PUT /api/identities/:id
func (s *Server) UpdateIdentity(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req identityRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	identity, err := s.identityService.UpdateIdentity(c.Context(), s.userID(c), id, service.IdentityInput{
		LegalName:     req.LegalName,
		PreferredName: req.PreferredName,
		Nickname:      req.Nickname,
		Visibility:    req.Visibility,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":  "Identity updated successfully",
		"identity": identity,
	})
}

// DeleteIdentity handles DELETE /api/identities/:id. Friend edges and
// requests pointing at the identity are not cascaded.
func (s *Server) DeleteIdentity(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.identityService.DeleteIdentity(c.Context(), s.userID(c), id); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Identity deleted successfully",
		"id":      id,
	})
}
