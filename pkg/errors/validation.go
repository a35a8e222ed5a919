package errors

import (
	"strings"
	"unicode"
)

// ValidatePath validates a local file path given on the command line or in a
// config file. Unlike repository paths, absolute paths and parent
// directories are allowed; the checks only reject values that cannot name a
// real file.
//
// Validation rules:
//   - Path cannot be empty or blank
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if strings.TrimSpace(path) == "" {
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
