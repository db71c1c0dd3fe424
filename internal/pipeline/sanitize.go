package pipeline

import (
	"sort"
	"strings"
	"unicode"
)

// Quote and dash lookalikes are folded to ASCII before the allowlists run.
var lookalikes = strings.NewReplacer(
	"‘", "'", // left single quote
	"’", "'", // right single quote
	"ʼ", "'", // modifier letter apostrophe
	"–", "-", // en dash
	"—", "-", // em dash
	" ", " ", // no-break space
)

// Double quotes are deleted outright rather than replaced with a space; the
// target platform rejects them in company names either way.
var doubleQuotes = strings.NewReplacer("\"", "", "“", "", "”", "")

// companyPunct is the punctuation the target platform accepts in company
// names on top of letters, digits and spaces.
const companyPunct = "-.,&'/()#:+"

func isPersonRune(r rune) bool {
	return unicode.IsLetter(r) || r == ' ' || r == '-' || r == '\''
}

func isCompanyRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' ||
		strings.ContainsRune(companyPunct, r)
}

// SanitizePersonName keeps Unicode letters, spaces, hyphens and apostrophes.
// Anything else, digits included, becomes a space, and whitespace is then
// re-collapsed.
func SanitizePersonName(s string) string {
	s = lookalikes.Replace(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if isPersonRune(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return NormalizeField(b.String())
}

// SanitizeCompanyName keeps Unicode letters, digits, spaces and the
// punctuation set -.,&'/()#:+ . "@" becomes the literal "At " and double
// quotes (straight or curly) are dropped; remaining disallowed characters
// become spaces and whitespace is re-collapsed.
func SanitizeCompanyName(s string) string {
	s = lookalikes.Replace(s)
	s = strings.ReplaceAll(s, "@", "At ")
	s = doubleQuotes.Replace(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if isCompanyRune(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return NormalizeField(b.String())
}

// ValidatePersonName re-applies the person-name allowlist to an already
// sanitized value. By construction it always passes; a failure indicates a
// sanitizer defect, not a user-data defect.
func ValidatePersonName(s string) bool {
	for _, r := range s {
		if !isPersonRune(r) {
			return false
		}
	}
	return true
}

// InvalidCompanyRunes returns the distinct characters of s that fail the
// company-name allowlist, sorted, or nil when s passes. Like
// ValidatePersonName this is a regression safety net for sanitizer defects.
func InvalidCompanyRunes(s string) []rune {
	seen := make(map[rune]bool)
	var bad []rune
	for _, r := range s {
		if !isCompanyRune(r) && !seen[r] {
			seen[r] = true
			bad = append(bad, r)
		}
	}
	sort.Slice(bad, func(i, j int) bool { return bad[i] < bad[j] })
	return bad
}
