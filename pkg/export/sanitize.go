package export

import "strings"

// DefaultProjectName is used when a project name sanitizes to nothing.
const DefaultProjectName = "untitled_project"

// SanitizeProjectName trims surrounding whitespace and then keeps only ASCII
// letters, digits, underscores, hyphens, spaces and tabs. The result is used
// verbatim as the base of every file in the bundle. An empty result yields
// the sanitized fallback, or DefaultProjectName when that is empty too.
//
//	SanitizeProjectName("My Project!", "")  // "My Project"
//	SanitizeProjectName("  ../../etc ", "") // "etc"
func SanitizeProjectName(name, fallback string) string {
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '_', r == '-', r == ' ', r == '\t':
			return r
		}
		return -1
	}, strings.TrimSpace(name))

	if name != "" {
		return name
	}
	if fallback != "" {
		return SanitizeProjectName(fallback, "")
	}
	return DefaultProjectName
}
