package errors

import (
	"strings"
	"unicode"
)

// maxNameLength bounds widget names and asset filenames.
const maxNameLength = 256

// ValidateWidgetName validates a widget (catalog category) name.
// Widget names become a single path segment under the asset directories,
// so anything that could escape that segment is rejected:
//   - No empty names
//   - No control characters or null bytes
//   - No path separators or parent references
//   - Maximum length of 256 characters
func ValidateWidgetName(name string) error {
	if err := validateSegment(name); err != nil {
		return New(ErrCodeInvalidInput, "invalid widget name %q: %s", name, err.Message)
	}
	return nil
}

// ValidateAssetFilename validates an image or HTML fragment filename taken
// from the manifest or from a client request.
func ValidateAssetFilename(name string) error {
	if err := validateSegment(name); err != nil {
		return New(ErrCodeInvalidPath, "invalid asset filename %q: %s", name, err.Message)
	}
	return nil
}

func validateSegment(s string) *Error {
	if s == "" {
		return New(ErrCodeInvalidInput, "cannot be empty")
	}
	if len(s) > maxNameLength {
		return New(ErrCodeInvalidInput, "too long (max %d characters)", maxNameLength)
	}
	for _, r := range s {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "contains control characters")
		}
	}
	if strings.ContainsAny(s, `/\`) {
		return New(ErrCodeInvalidInput, "contains path separators")
	}
	if s == "." || s == ".." {
		return New(ErrCodeInvalidInput, "is a relative path reference")
	}
	return nil
}

// ValidatePath validates a relative file path for safety.
// It prevents path traversal attacks and ensures reasonable path length.
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

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}
	return nil
}
