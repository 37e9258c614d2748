package presentation

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// TitleDelimiter separates a post's title from its subtitle.
const TitleDelimiter = "|"

const fallbackSlug = "post"

// Slug derives a URL-safe slug from a post title. Only the part before the
// first "|" is used. The result is for links only, never a lookup key.
func Slug(title string) string {
	if i := strings.Index(title, TitleDelimiter); i >= 0 {
		title = title[:i]
	}

	title = stripMarks(title)

	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(title) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}

	if b.Len() == 0 {
		return fallbackSlug
	}
	return b.String()
}

// stripMarks removes diacritics: "Café" becomes "Cafe".
func stripMarks(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
