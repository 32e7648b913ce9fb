package errors

import (
	"strings"
	"unicode"
)

// ValidateCoordinatePart validates a groupId, artifactId or version taken from
// a descriptor or manifest before it is turned into a URL or a cache file name.
//
// The rules are intentionally conservative:
//   - No empty values
//   - No control characters or whitespace
//   - No path separators or traversal sequences
//   - Maximum length of 256 characters
func ValidateCoordinatePart(kind, value string) error {
	if value == "" {
		return New(ErrCodeInvalidInput, "%s cannot be empty", kind)
	}

	if len(value) > 256 {
		return New(ErrCodeInvalidInput, "%s too long (max 256 characters)", kind)
	}

	for _, r := range value {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "%s contains invalid characters: %q", kind, value)
		}
	}

	for _, pattern := range []string{"..", "/", "\\", ":"} {
		if strings.Contains(value, pattern) {
			return New(ErrCodeInvalidInput, "%s contains invalid characters: %q", kind, pattern)
		}
	}

	return nil
}

// ValidateCacheKey validates a manifest cache key for use as a file name.
// It ensures the key is a simple basename without path components.
func ValidateCacheKey(key string) error {
	if key == "" {
		return New(ErrCodeInvalidPath, "cache key cannot be empty")
	}

	// Must be a simple filename, not a path
	if strings.ContainsAny(key, "/\\") {
		return New(ErrCodeInvalidPath, "cache key cannot contain path separators")
	}

	// No hidden files (starting with .)
	if strings.HasPrefix(key, ".") {
		return New(ErrCodeInvalidPath, "cache key cannot be a hidden file")
	}

	for _, r := range key {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "cache key contains invalid characters")
		}
	}

	return nil
}

// ValidatePath validates a directory path taken from configuration.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
