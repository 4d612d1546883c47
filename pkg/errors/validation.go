package errors

import (
	"strings"
	"unicode"
)

// maxIDLength bounds node and diagram identifiers.
const maxIDLength = 256

// ValidateNodeID validates a node identifier supplied by a caller.
// Node IDs are opaque, but must be non-empty, printable and bounded.
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidID, "node id cannot be empty")
	}
	if len(id) > maxIDLength {
		return New(ErrCodeInvalidID, "node id too long (max %d characters)", maxIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidID, "node id contains invalid control characters")
		}
	}
	return nil
}

// ValidateDocumentID validates a diagram identifier for safety.
// Document IDs become file names in file-backed stores, so the rules are
// the ones applied to paths:
//   - No empty IDs
//   - No control characters or null bytes
//   - No path separators or traversal sequences
//   - No hidden names (leading dot)
//   - Maximum length of 256 characters
func ValidateDocumentID(id string) error {
	if err := ValidateNodeID(id); err != nil {
		return New(ErrCodeInvalidID, "document %s", strings.TrimPrefix(UserMessage(err), "node "))
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"/",    // Path separator
		"\\",   // Backslash (Windows path)
		"\x00", // Null byte
	}
	for _, pattern := range dangerousPatterns {
		if strings.Contains(id, pattern) {
			return New(ErrCodeInvalidID, "document id contains invalid characters: %q", pattern)
		}
	}

	if strings.HasPrefix(id, ".") {
		return New(ErrCodeInvalidID, "document id cannot start with a dot")
	}
	return nil
}
