package pipeline

import (
	"regexp"
	"strings"
)

var (
	lineBreaks    = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ", "\t", " ")
	whitespaceRun = regexp.MustCompile(`\s+`)
)

// NormalizeField collapses line breaks and tabs to single spaces, trims, and
// squeezes runs of whitespace to one space. It runs on every textual field
// before any field-specific logic so downstream patterns never have to
// handle embedded newlines. Blank input yields "".
func NormalizeField(s string) string {
	if s == "" {
		return ""
	}
	s = lineBreaks.Replace(s)
	s = whitespaceRun.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
