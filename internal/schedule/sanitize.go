package schedule

import (
	"regexp"
	"strings"
)

const (
	maxDisplayLen  = 500
	maxCSVFieldLen = 255
)

var whitespaceRun = regexp.MustCompile(`[\s\r\n\t]+`)

// SanitizeDisplay trims, strips C0/C1 control characters, HTML-escapes
// quote and angle characters, and caps the result at 500 characters.
// It never fails; empty input yields an empty string.
func SanitizeDisplay(text string) string {
	s := strings.TrimSpace(text)
	if s == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if isControlRune(r) {
			continue
		}
		switch r {
		case '&':
			b.WriteString("&amp;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '"':
			b.WriteString("&quot;")
		case '\'':
			b.WriteString("&#39;")
		default:
			b.WriteRune(r)
		}
	}
	return truncateRunes(b.String(), maxDisplayLen)
}

// SanitizeCSVField trims, collapses runs of newlines, tabs and other
// whitespace into single spaces, and caps the result at 255 characters.
// CSV quoting is the encoder's job, not done here.
func SanitizeCSVField(text string) string {
	s := strings.TrimSpace(text)
	if s == "" {
		return ""
	}
	s = whitespaceRun.ReplaceAllString(s, " ")
	return truncateRunes(s, maxCSVFieldLen)
}

// isControlRune covers U+0000-001F and U+007F-009F.
func isControlRune(r rune) bool {
	return r <= 0x1f || (r >= 0x7f && r <= 0x9f)
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
