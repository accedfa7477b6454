package language

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Normalize parses a language hint ("en", "en-US", "pt_BR", "English") and
// returns its canonical BCP-47 tag. Empty or unparseable hints return the
// empty string, which collaborators treat as auto-detect.
func Normalize(hint string) string {
	hint = strings.TrimSpace(strings.ReplaceAll(hint, "_", "-"))
	if hint == "" {
		return ""
	}
	tag, err := language.Parse(hint)
	if err != nil {
		return ""
	}
	return tag.String()
}

// Base returns the two-letter base language of a hint ("en-US" -> "en").
// Falls back to the empty string when the hint cannot be parsed.
func Base(hint string) string {
	normalized := Normalize(hint)
	if normalized == "" {
		return ""
	}
	tag, err := language.Parse(normalized)
	if err != nil {
		return ""
	}
	base, _ := tag.Base()
	return base.String()
}

// Display returns a human-readable English name for a hint, or the hint
// itself when it cannot be parsed.
func Display(hint string) string {
	normalized := Normalize(hint)
	if normalized == "" {
		return hint
	}
	tag, err := language.Parse(normalized)
	if err != nil {
		return hint
	}
	return display.English.Tags().Name(tag)
}

// Same reports whether two hints resolve to the same base language, so a
// translation from "en-US" to "en-GB" can be skipped.
func Same(a, b string) bool {
	ba, bb := Base(a), Base(b)
	return ba != "" && ba == bb
}
