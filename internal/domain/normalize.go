package domain

import (
	"strings"

	"github.com/rivo/uniseg"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// dedupPunctuation lists the punctuation removed before near-duplicate comparison,
// in both narrow and full-width forms.
var dedupPunctuation = strings.NewReplacer(
	"、", "",
	"。", "",
	"，", "",
	"．", "",
	",", "",
	".", "",
	"!", "",
	"！", "",
	"?", "",
	"？", "",
)

// Lower returns the full Unicode lower-case mapping of s.
// A fresh Caser is built per call because Casers are not safe for concurrent use.
func Lower(s string) string {
	return cases.Lower(language.Und).String(s)
}

// NormalizeForDedup canonicalizes a text fragment for duplicate comparison:
// lower-cased, every whitespace run collapsed to a single space, the
// dedup punctuation removed, and trimmed.
func NormalizeForDedup(text string) string {
	s := Lower(text)
	s = strings.Join(strings.Fields(s), " ")
	s = dedupPunctuation.Replace(s)
	return strings.TrimSpace(s)
}

// CharCount returns the number of user-perceived characters (grapheme clusters) in s.
func CharCount(s string) int {
	return uniseg.GraphemeClusterCount(s)
}

// charSet returns the set of grapheme clusters occurring in s.
func charSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		set[g.Str()] = struct{}{}
	}
	return set
}

// truncateChars returns the first n grapheme clusters of s.
func truncateChars(s string, n int) string {
	var b strings.Builder
	g := uniseg.NewGraphemes(s)
	for i := 0; i < n && g.Next(); i++ {
		b.WriteString(g.Str())
	}
	return b.String()
}

// Snippet flattens text to a single line and cuts it at max characters,
// appending an ellipsis when something was cut.
func Snippet(text string, max int) string {
	flat := strings.TrimSpace(strings.ReplaceAll(text, "\n", " "))
	if max <= 0 || CharCount(flat) <= max {
		return flat
	}
	return truncateChars(flat, max) + "…"
}
