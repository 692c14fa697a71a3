package errors

import (
	"math"
	"strings"
	"unicode"
)

// maxIdentifierLength bounds scene IDs and token keys.
const maxIdentifierLength = 128

// validateIdentifier applies the rules shared by scene IDs and token keys.
// Identifiers end up in redis keys, URL path segments and SQL parameters,
// so the rules are intentionally conservative:
//   - No empty identifiers
//   - No control characters
//   - No path separators or traversal sequences
//   - No ':' (the redis key separator)
//   - Maximum length of 128 characters
func validateIdentifier(code Code, kind, id string) error {
	if id == "" {
		return New(code, "%s cannot be empty", kind)
	}

	if len(id) > maxIdentifierLength {
		return New(code, "%s too long (max %d characters)", kind, maxIdentifierLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(code, "%s contains invalid control characters", kind)
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"/",    // Path separator
		"\\",   // Backslash (Windows path)
		":",    // Key namespace separator
		"\x00", // Null byte
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(id, pattern) {
			return New(code, "%s contains invalid characters: %q", kind, pattern)
		}
	}

	return nil
}

// ValidateSceneID validates a scene identifier.
func ValidateSceneID(id string) error {
	return validateIdentifier(ErrCodeInvalidScene, "scene id", id)
}

// ValidateTokenKey validates a token key.
func ValidateTokenKey(key string) error {
	return validateIdentifier(ErrCodeInvalidToken, "token key", key)
}

// ValidateCellSize rejects non-positive and non-finite grid cell sizes.
func ValidateCellSize(size float64) error {
	if math.IsNaN(size) || math.IsInf(size, 0) {
		return New(ErrCodeInvalidCellSize, "cell size must be finite, got %g", size)
	}
	if size <= 0 {
		return New(ErrCodeInvalidCellSize, "cell size must be positive, got %g", size)
	}
	return nil
}

// ValidateCoordinate rejects NaN and infinite coordinates arriving from
// outside the process. Inside the geometry code such values simply propagate;
// they must not be persisted.
func ValidateCoordinate(name string, x, y float64) error {
	for _, v := range []float64{x, y} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return New(ErrCodeInvalidInput, "%s must be finite, got (%g, %g)", name, x, y)
		}
	}
	return nil
}
