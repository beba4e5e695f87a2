package security

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/itnxhuy1806/socket-game-be/internal/config"
)

var (
	// Name validation regex - Unicode letters, digits, spaces, apostrophes,
	// hyphens, underscores, dots. \p{L} matches any Unicode letter (includes
	// accented characters), \p{N} matches any Unicode number.
	nameRegex = regexp.MustCompile(`^[\p{L}\p{N}\s'\-_.]+$`)
	// Dangerous characters that could be used for injection attacks
	dangerousCharsRegex = regexp.MustCompile(`[<>{}[\]\\;|&$()` + "`" + `]`)
)

// ValidateParticipantName validates a claimed participant name and returns the
// trimmed form. A rejected name never fails the connection; the caller joins
// the socket to its room with an empty identity and the roster is left alone.
func ValidateParticipantName(name string) (string, error) {
	name = strings.TrimSpace(name)

	if name == "" {
		return "", fmt.Errorf("name cannot be empty")
	}

	if len(name) > config.MaxParticipantNameLength {
		return "", fmt.Errorf("name too long (max %d characters)", config.MaxParticipantNameLength)
	}

	if !nameRegex.MatchString(name) {
		return "", fmt.Errorf("name contains invalid characters (allowed: letters, numbers, spaces, apostrophes, hyphens, underscores, dots)")
	}

	if dangerousCharsRegex.MatchString(name) {
		return "", fmt.Errorf("name contains potentially dangerous characters")
	}

	// Check for control characters (belt-and-suspenders with regex)
	for _, r := range name {
		if r < 32 || r == 127 {
			return "", fmt.Errorf("name contains control characters")
		}
	}

	return name, nil
}
