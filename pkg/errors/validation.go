package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// identifierRegex matches block identifiers: dotted or dashed lowercase-friendly
// names such as "motion.move-steps" or "control_if".
var identifierRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateIdentifier validates a block template identifier.
//
// Identifiers double as file names in the directory store and as URL path
// segments in the HTTP API, so the rules are conservative:
//   - No empty identifiers
//   - Maximum length of 255 characters (the definition format stores one byte)
//   - Letters, digits, '.', '_' and '-' only, starting with a letter or digit
//   - No ".." sequences
func ValidateIdentifier(id string) error {
	if id == "" {
		return New(ErrCodeInvalidIdentifier, "identifier cannot be empty")
	}

	if len(id) > 255 {
		return New(ErrCodeInvalidIdentifier, "identifier too long (max 255 characters)")
	}

	if strings.Contains(id, "..") {
		return New(ErrCodeInvalidIdentifier, "identifier contains invalid sequence: %q", "..")
	}

	if !identifierRegex.MatchString(id) {
		return New(ErrCodeInvalidIdentifier, "invalid identifier: %q", id)
	}

	return nil
}

// ValidatePath validates a definition path listed in a catalog manifest.
// It prevents path traversal out of the catalog directory.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}
