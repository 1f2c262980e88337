// Package validation holds input validation rules shared across services.
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

var displayNameRegex = regexp.MustCompile(`^[\pL\pN][\pL\pN ._-]{0,59}$`)

// Names that would let a user impersonate the platform or confuse readers
// of anonymous takes.
var reservedDisplayNames = map[string]struct{}{
	"admin":     {},
	"moderator": {},
	"hottakes":  {},
	"system":    {},
	"anonymous": {},
	"deleted":   {},
}

// ValidateDisplayName validates display name format and reserved names.
// Callers are expected to trim whitespace first.
func ValidateDisplayName(name string) error {
	if !displayNameRegex.MatchString(name) {
		return fmt.Errorf("display name must be 1-60 characters: letters, numbers, spaces, dots, hyphens, underscores")
	}
	if _, exists := reservedDisplayNames[strings.ToLower(name)]; exists {
		return fmt.Errorf("display name is reserved")
	}
	return nil
}
