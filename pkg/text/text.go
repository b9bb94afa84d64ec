package text

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// jsonArrayBlockPattern matches a JSON array inside a markdown code block.
	jsonArrayBlockPattern = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?(\\[.*\\])\\s*```")
	// trailingCommaPattern matches trailing commas before ] or }.
	trailingCommaPattern = regexp.MustCompile(`,\s*([}\]])`)
	slugSeparators       = regexp.MustCompile(`[^a-z0-9]+`)
)

// StripCodeFences removes a surrounding markdown fence (with or without a
// language tag) from model output. Text without a leading fence is only
// trimmed.
func StripCodeFences(s string) string {
	cleaned := strings.TrimSpace(s)
	if !strings.HasPrefix(cleaned, "```") {
		return cleaned
	}
	lines := strings.Split(cleaned, "\n")
	lines = lines[1:]
	if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "```" {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// ExtractJSONArray finds the JSON array in a model response: a fenced block
// first, then the outermost [...] span. It returns "" when there is none.
// Trailing commas are removed; nothing else is repaired.
func ExtractJSONArray(content string) string {
	if matches := jsonArrayBlockPattern.FindStringSubmatch(content); len(matches) > 1 {
		return trailingCommaPattern.ReplaceAllString(matches[1], "$1")
	}
	start := strings.Index(content, "[")
	end := strings.LastIndex(content, "]")
	if start == -1 || end <= start {
		return ""
	}
	return trailingCommaPattern.ReplaceAllString(content[start:end+1], "$1")
}

// Slugify turns free text into a lowercase ASCII directory name made of at
// most maxWords words joined by '-'. Accents are folded ("café" -> "cafe");
// anything else that is not a letter or digit separates words.
func Slugify(s string, maxWords int) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	words := strings.Fields(slugSeparators.ReplaceAllString(strings.ToLower(folded), " "))
	if maxWords > 0 && len(words) > maxWords {
		words = words[:maxWords]
	}
	return strings.Join(words, "-")
}

// Snippet shortens s to at most n bytes for error messages, marking the cut.
func Snippet(s string, n int) string {
	s = strings.TrimSpace(s)
	if n <= 0 || len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "…"
}
