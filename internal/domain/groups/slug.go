package groups

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Slugify folds value to lowercase ASCII letters, digits and underscores joined by
// single hyphens. Accents are stripped; other characters become separators.
func Slugify(value string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), value)
	if err != nil {
		folded = value
	}

	var builder strings.Builder
	builder.Grow(len(folded))

	pendingDash := false
	for _, r := range strings.ToLower(folded) {
		isWord := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_'
		if !isWord {
			if r == '-' || unicode.IsSpace(r) {
				pendingDash = true
			}
			continue
		}
		if pendingDash && builder.Len() > 0 {
			builder.WriteByte('-')
		}
		pendingDash = false
		builder.WriteRune(r)
	}

	return strings.Trim(builder.String(), "-_")
}
