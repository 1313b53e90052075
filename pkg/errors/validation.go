package errors

import (
	"strings"
	"unicode"
)

// maxWorkspaceIDLength bounds workspace identifiers; they end up in file
// names, redis keys and URL paths.
const maxWorkspaceIDLength = 128

// ValidateWorkspaceID validates a workspace identifier for safety.
//
// The rules are intentionally conservative:
//   - No empty identifiers
//   - No control characters or whitespace
//   - No path separators or traversal sequences
//   - Maximum length of 128 characters
func ValidateWorkspaceID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidWorkspace, "workspace id cannot be empty")
	}
	if len(id) > maxWorkspaceIDLength {
		return New(ErrCodeInvalidWorkspace, "workspace id too long (max %d characters)", maxWorkspaceIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidWorkspace, "workspace id contains invalid characters")
		}
	}
	if strings.ContainsAny(id, `/\`) {
		return New(ErrCodeInvalidWorkspace, "workspace id cannot contain path separators")
	}
	if strings.Contains(id, "..") {
		return New(ErrCodeInvalidWorkspace, "workspace id cannot contain path traversal sequences (..)")
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
