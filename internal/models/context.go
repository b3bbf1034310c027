// Package models contains data structures for the application's domain models.
package models

// ContextType is one of the four fixed identity facets. A user presents a
// distinct profile and maintains an independent social graph per context.
type ContextType string

const (
	// ContextProfessional is the professional identity facet.
	ContextProfessional ContextType = "professional"
	// ContextPersonal is the personal identity facet.
	ContextPersonal ContextType = "personal"
	// ContextFamily is the family identity facet.
	ContextFamily ContextType = "family"
	// ContextOnline is the online identity facet.
	ContextOnline ContextType = "online"
)

// Contexts returns all valid context types.
func Contexts() []ContextType {
	return []ContextType{ContextProfessional, ContextPersonal, ContextFamily, ContextOnline}
}

// Valid reports whether c is one of the four fixed contexts.
func (c ContextType) Valid() bool {
	switch c {
	case ContextProfessional, ContextPersonal, ContextFamily, ContextOnline:
		return true
	}
	return false
}

// ParseContext converts a raw string into a ContextType.
// Any value outside the closed enum yields an INVALID_CONTEXT error.
func ParseContext(s string) (ContextType, error) {
	c := ContextType(s)
	if !c.Valid() {
		return "", NewInvalidContextError()
	}
	return c, nil
}
