package presentation

import "strings"

// PreviewWordLimit is the number of words shown before the fold.
const PreviewWordLimit = 150

// Markup around the folded remainder of an article. The site script swaps
// the ellipsis for the hidden span when the chevron is clicked.
const (
	ellipsisMarker = `<span class="ellipsis">&hellip;</span>`
	readMoreMarker = `<span class="oi oi-chevron-bottom chevron" title="read more"></span>`
	hiddenOpen     = `<span class="hidden">`
	hiddenClose    = `</span>`
)

// Preview folds article text after PreviewWordLimit words. Words are
// separated by single spaces. Text at or under the limit is returned as is.
func Preview(text string) string {
	words := strings.Split(text, " ")
	if len(words) <= PreviewWordLimit {
		return text
	}

	head := strings.Join(words[:PreviewWordLimit], " ")
	tail := strings.Join(words[PreviewWordLimit:], " ")

	var b strings.Builder
	b.Grow(len(text) + len(ellipsisMarker) + len(readMoreMarker) + len(hiddenOpen) + len(hiddenClose) + 1)
	b.WriteString(head)
	b.WriteByte(' ')
	b.WriteString(ellipsisMarker)
	b.WriteString(readMoreMarker)
	b.WriteString(hiddenOpen)
	b.WriteString(tail)
	b.WriteString(hiddenClose)
	return b.String()
}

// IsFolded reports whether Preview would fold text.
func IsFolded(text string) bool {
	return strings.Count(text, " ") >= PreviewWordLimit
}
