package validation

import (
	"fmt"
	"strings"
)

// ValidateLegalName checks that a legal name is plausible.
func ValidateLegalName(name string) error {
	trimmed := strings.TrimSpace(name)
	if len(trimmed) < 2 {
		return fmt.Errorf("legal name must be at least 2 characters long")
	}
	if len(trimmed) > 100 {
		return fmt.Errorf("legal name must not exceed 100 characters")
	}
	return nil
}

// ValidatePreferredName checks preferred name format. Preferred names act as
// handles and must be a single token without whitespace.
func ValidatePreferredName(name string) error {
	if len(name) < 2 {
		return fmt.Errorf("preferred name must be at least 2 characters long")
	}
	if len(name) > 50 {
		return fmt.Errorf("preferred name must not exceed 50 characters")
	}
	if strings.ContainsAny(name, " \t\n") {
		return fmt.Errorf("preferred name cannot contain spaces")
	}
	return nil
}

// ValidateNickname checks an optional nickname.
func ValidateNickname(nickname string) error {
	if nickname == "" {
		return nil
	}
	if len(nickname) > 50 {
		return fmt.Errorf("nickname must not exceed 50 characters")
	}
	return nil
}
