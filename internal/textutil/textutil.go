// Package textutil holds the pure text helpers shared by the transformation
// pipeline: word counting and input sanitization.
package textutil

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	htmlTagRegex      = regexp.MustCompile(`<[^>]*>`)
	multiNewlineRegex = regexp.MustCompile(`\n{3,}`)
)

// CountWords counts non-empty whitespace-separated tokens. Empty input is 0.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// SanitizeInput strips markup and characters that are unsafe to store or
// redisplay. Complete HTML tags become single spaces so that surrounding
// words never merge, leftover angle brackets and ASCII control characters are
// dropped, and whitespace is normalized. Idempotent: the output contains no
// tags, brackets, or control characters, so a second pass is a no-op.
func SanitizeInput(text string) string {
	s := htmlTagRegex.ReplaceAllString(text, " ")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.Map(func(r rune) rune {
		switch {
		case r == '<' || r == '>':
			return ' '
		case r == '\n' || r == '\t':
			return r
		case unicode.IsControl(r):
			return ' '
		}
		return r
	}, s)

	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = collapseSpaces(lines[i])
	}
	s = strings.Join(lines, "\n")
	s = multiNewlineRegex.ReplaceAllString(s, "\n\n")

	return strings.TrimSpace(s)
}

// collapseSpaces reduces runs of spaces and tabs within a line to one space
// and trims the line.
func collapseSpaces(line string) string {
	var b strings.Builder
	var space bool

	for _, r := range line {
		if unicode.IsSpace(r) {
			if !space {
				b.WriteRune(' ')
				space = true
			}
		} else {
			b.WriteRune(r)
			space = false
		}
	}

	return strings.TrimSpace(b.String())
}
