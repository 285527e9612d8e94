// Package validation provides input validation utilities
package validation

import (
	"fmt"
	"regexp"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	nameRegex  = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
)

// ValidateEmail checks basic email format
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}

	if len(email) > 254 {
		return fmt.Errorf("email must not exceed 254 characters")
	}

	return nil
}

// ValidateName checks if a user name meets requirements
func ValidateName(name string) error {
	if len(name) < 3 {
		return fmt.Errorf("name must be at least 3 characters long")
	}

	if len(name) > 30 {
		return fmt.Errorf("name must not exceed 30 characters")
	}

	// Only allow alphanumeric and underscores
	if !nameRegex.MatchString(name) {
		return fmt.Errorf("name can only contain letters, numbers, underscores, and hyphens")
	}

	// Cannot start or end with underscore/hyphen
	if name[0] == '_' || name[0] == '-' || name[len(name)-1] == '_' || name[len(name)-1] == '-' {
		return fmt.Errorf("name cannot start or end with underscore or hyphen")
	}

	return nil
}

// ValidatePassword checks if a password meets length requirements
func ValidatePassword(password string) error {
	if len(password) < 6 {
		return fmt.Errorf("password must be at least 6 characters long")
	}

	// Check maximum length (prevent unreasonable inputs, bcrypt truncates at 72)
	if len(password) > 72 {
		return fmt.Errorf("password must not exceed 72 characters")
	}

	return nil
}
