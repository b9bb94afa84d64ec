package text

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "  print('hi')\n", "print('hi')"},
		{"fenced with language", "```python\nprint('hi')\n```", "print('hi')"},
		{"fenced without language", "```\nx = 1\ny = 2\n```\n", "x = 1\ny = 2"},
		{"unterminated fence", "```python\nprint('hi')", "print('hi')"},
		{"fence in the middle is kept", "a\n```\nb\n```", "a\n```\nb\n```"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripCodeFences(tt.in))
		})
	}
}

func TestExtractJSONArray(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare", `[{"a":1}]`, `[{"a":1}]`},
		{"fenced", "Here:\n```json\n[{\"a\":1}]\n```", `[{"a":1}]`},
		{"surrounded by prose", `Sure! [{"a":1}] hope this helps`, `[{"a":1}]`},
		{"trailing comma", `[{"a":1},]`, `[{"a":1}]`},
		{"no array", `{"a":1}`, ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractJSONArray(tt.in))
		})
	}
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "build-a-cafe-menu-cli", Slugify("Build a Café menu CLI!", 6))
	assert.Equal(t, "print-hello", Slugify("print hello", 6))
	assert.Equal(t, "one-two", Slugify("one two three", 2))
	assert.Equal(t, "etc-passwd", Slugify("../../etc/passwd", 6))
	assert.Equal(t, "", Slugify("!!!", 6))
}

func TestSnippet(t *testing.T) {
	assert.Equal(t, "abc", Snippet("  abc  ", 10))
	assert.Equal(t, "abc…", Snippet("abcdef", 3))

	cut := Snippet("héllo wörld", 2)
	assert.Equal(t, "h…", cut)
	assert.True(t, utf8.ValidString(cut))
	assert.Equal(t, "日…", Snippet("日本語", 4))
}
