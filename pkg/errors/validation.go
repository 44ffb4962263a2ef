package errors

import (
	"strings"
	"unicode"
)

// maxNameLength bounds package names and kinds.
const maxNameLength = 256

// ValidatePackageName validates a package name for safety and correctness.
// Names may be namespaced with a single slash ("petstore/users-api").
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - No path traversal sequences (.., //, backslashes)
//   - Maximum length of 256 characters
func ValidatePackageName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidPackage, "package name cannot be empty")
	}

	if len(name) > maxNameLength {
		return New(ErrCodeInvalidPackage, "package name too long (max %d characters)", maxNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPackage, "package name contains invalid control characters")
		}
	}

	for _, pattern := range []string{"..", "//", "\\"} {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidPackage, "package name %q contains invalid characters: %q", name, pattern)
		}
	}

	if strings.HasPrefix(name, "/") || strings.HasSuffix(name, "/") {
		return New(ErrCodeInvalidPackage, "package name %q cannot start or end with /", name)
	}

	return nil
}

// ValidateKind validates a package kind ("graphql", "openapi", ...).
func ValidateKind(kind string) error {
	if kind == "" {
		return New(ErrCodeInvalidPackage, "package kind cannot be empty")
	}
	if len(kind) > maxNameLength {
		return New(ErrCodeInvalidPackage, "package kind too long (max %d characters)", maxNameLength)
	}
	for _, r := range kind {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return New(ErrCodeInvalidPackage, "package kind %q contains whitespace or control characters", kind)
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

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
