package server

import (
	"errors"
	"strings"
	"time"
	"unicode"

	"facet/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+humanizeParam(param)))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// parseContext validates the :context route parameter against the context
// enum. On failure it writes the canonical 400 response and returns
// errResponseWritten.
func (s *Server) parseContext(c *fiber.Ctx, param string) (models.ContextType, error) {
	contextType, err := models.ParseContext(c.Params(param))
	if err != nil {
		_ = models.RespondWithError(c, fiber.StatusBadRequest, err)
		return "", errResponseWritten
	}
	return contextType, nil
}

// userID returns the authenticated user id placed in Locals by AuthRequired.
func (s *Server) userID(c *fiber.Ctx) uint {
	if uid, ok := c.Locals("userID").(uint); ok {
		return uid
	}
	return 0
}

// respondServiceError maps an application error onto its HTTP status.
func respondServiceError(c *fiber.Ctx, err error) error {
	return models.RespondWithError(c, models.StatusForError(err), err)
}

// humanizeParam converts a route param name into a human-readable label.
// Examples: "id" -> "ID", "identityId" -> "identity ID".
func humanizeParam(param string) string {
	if param == "id" {
		return "ID"
	}
	if strings.HasSuffix(param, "Id") {
		prefix := param[:len(param)-2]
		words := splitCamel(prefix)
		return strings.ToLower(strings.Join(words, " ")) + " ID"
	}
	return param
}

// splitCamel splits a camelCase string into words.
func splitCamel(s string) []string {
	var words []string
	start := 0
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) {
			words = append(words, s[start:i])
			start = i
		}
	}
	words = append(words, s[start:])
	return words
}

// identitySummary is the wire shape for an identity embedded in list responses.
type identitySummary struct {
	ID            uint      `json:"id"`
	LegalName     string    `json:"legalName"`
	PreferredName string    `json:"preferredName"`
	Nickname      string    `json:"nickname"`
	Context       string    `json:"context"`
	Visibility    string    `json:"visibility"`
	CreatedAt     time.Time `json:"createdAt"`
}

func summarizeIdentity(identity *models.Identity) identitySummary {
	return identitySummary{
		ID:            identity.ID,
		LegalName:     identity.LegalName,
		PreferredName: identity.PreferredName,
		Nickname:      identity.Nickname,
		Context:       string(identity.Context),
		Visibility:    string(identity.Visibility),
		CreatedAt:     identity.CreatedAt,
	}
}
