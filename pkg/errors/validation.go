package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// maxIDLength bounds identifiers stored as record keys.
const maxIDLength = 128

// idRegex matches identifiers usable as blueprint ids, plot ids and record keys.
var idRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateID validates an identifier used as a record key (blueprint ids,
// plot ids, observation ids). kind names the identifier in error messages.
//
// The validation rules are intentionally conservative:
//   - No empty identifiers
//   - Maximum length of 128 characters
//   - Letters, digits, '.', '_' and '-' only, starting with a letter or digit
func ValidateID(kind, id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "%s cannot be empty", kind)
	}
	if len(id) > maxIDLength {
		return New(ErrCodeInvalidInput, "%s too long (max %d characters)", kind, maxIDLength)
	}
	if !idRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid %s: %q", kind, id)
	}
	return nil
}

// ValidateSpeciesName validates a species name as entered in the field.
// Names may contain spaces and punctuation (e.g. "Shorea robusta" or
// "Ficus sp. 2") but no control characters.
func ValidateSpeciesName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidInput, "species name cannot be empty")
	}
	if len(name) > 256 {
		return New(ErrCodeInvalidInput, "species name too long (max 256 characters)")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "species name contains invalid control characters")
		}
	}
	return nil
}

// ValidatePath validates a relative file path (catalog includes, bundle
// members) for safety. It prevents path traversal and ensures reasonable
// path length.
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
