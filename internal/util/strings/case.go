package strings

import (
	"strings"
	"unicode"
)

// ToSnakeCase converts CamelCase to snake_case for use as a storage namespace.
// Handles acronyms (HTTPRequest -> http_request); spaces, hyphens and dots
// become underscores.
func ToSnakeCase(s string) string {
	var result strings.Builder
	runes := []rune(s)

	for i, r := range runes {
		switch {
		case r == ' ' || r == '-' || r == '.':
			result.WriteRune('_')
		case unicode.IsUpper(r):
			if i > 0 {
				prev := runes[i-1]
				// Underscore before an uppercase letter after a lowercase letter or
				// digit, or at the end of an acronym (HTTPRequest -> http_request)
				if unicode.IsLower(prev) || unicode.IsDigit(prev) {
					result.WriteRune('_')
				} else if unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1]) {
					result.WriteRune('_')
				}
			}
			result.WriteRune(unicode.ToLower(r))
		default:
			result.WriteRune(r)
		}
	}
	return result.String()
}
