package textutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountWords(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int
	}{
		{"empty", "", 0},
		{"only whitespace", "   \t\n  ", 0},
		{"single word", "hello", 1},
		{"simple sentence", "the quick brown fox", 4},
		{"whitespace runs", "the   quick\t\tbrown\n\nfox", 4},
		{"leading and trailing", "  hello world  ", 2},
		{"punctuation sticks to words", "hello, world!", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CountWords(tt.in))
		})
	}
}

func TestSanitizeInput(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text untouched", "hello world", "hello world"},
		{"strips inline tags", "<b>hello</b> world", "hello world"},
		{"tag between words does not merge them", "foo<br>bar", "foo bar"},
		{"script tag content remains as text", "<script>alert(1)</script>", "alert(1)"},
		{"bracketed span treated as markup", "a < b > c", "a c"},
		{"lone angle bracket removed", "1 < 2", "1 2"},
		{"control characters removed", "abc\x00\x01def", "abc def"},
		{"crlf normalized", "line one\r\nline two", "line one\nline two"},
		{"whitespace collapsed", "too    many     spaces", "too many spaces"},
		{"excess blank lines capped", "a\n\n\n\n\nb", "a\n\nb"},
		{"trimmed", "   padded   ", "padded"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeInput(tt.in))
		})
	}
}

func TestSanitizeInputIdempotent(t *testing.T) {
	inputs := []string{
		"plain text",
		"<b>hello</b> <i>world</i>",
		"<<b>>nested<</b>>",
		"a < b and c > d",
		"mixed\r\nline\t endings \x07 and bells",
		"",
	}

	for _, in := range inputs {
		once := SanitizeInput(in)
		twice := SanitizeInput(once)
		assert.Equal(t, once, twice, "sanitize must be idempotent for %q", in)
	}
}

func TestSanitizePreservesWordCountForInlineMarkup(t *testing.T) {
	// Tag removal must never merge adjacent words, so the count of real words
	// survives sanitization.
	in := "The <b>quick</b> brown<br>fox jumps"
	assert.Equal(t, 5, CountWords(SanitizeInput(in)))
}
