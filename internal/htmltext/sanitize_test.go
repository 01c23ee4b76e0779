package htmltext

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize_RemovesBlockedTags(t *testing.T) {
	in := `<p>Hello</p><script>alert(1)</script><style>p{}</style><form><input></form>`
	out := Sanitize(in)

	assert.Contains(t, out, "<p>Hello</p>")
	assert.NotContains(t, out, "script")
	assert.NotContains(t, out, "style")
	assert.NotContains(t, out, "form")
	assert.NotContains(t, out, "input")
}

func TestSanitize_StripsComments(t *testing.T) {
	out := Sanitize(`<div><!-- hidden -->visible</div>`)

	assert.Contains(t, out, "visible")
	assert.NotContains(t, out, "hidden")
}

func TestSanitize_StripsAttributes(t *testing.T) {
	out := Sanitize(`<p class="x" onclick="evil()" style="color:red">text</p>`)

	assert.Contains(t, out, "<p>text</p>")
	assert.NotContains(t, out, "onclick")
	assert.NotContains(t, out, "class")
}

func TestSanitize_LinkPolicy(t *testing.T) {
	out := Sanitize(`<a href="https://example.com/j/1" class="btn" onclick="x()">Apply</a>`)

	assert.Contains(t, out, `href="https://example.com/j/1"`)
	assert.Contains(t, out, `target="_blank"`)
	assert.Contains(t, out, `rel="noopener noreferrer"`)
	assert.NotContains(t, out, "onclick")
	assert.NotContains(t, out, "btn")
}

func TestSanitize_LinkWithoutHref(t *testing.T) {
	out := Sanitize(`<a name="anchor">here</a>`)

	assert.NotContains(t, out, "target")
	assert.NotContains(t, out, "name=")
	assert.Contains(t, out, "here")
}

func TestSanitize_ImageKeepsSrcAndAlt(t *testing.T) {
	out := Sanitize(`<img src="/logo.png" alt="logo" width="40" height="40">`)

	assert.Contains(t, out, `src="/logo.png"`)
	assert.Contains(t, out, `alt="logo"`)
	assert.NotContains(t, out, "width")
}

func TestSanitize_Empty(t *testing.T) {
	assert.Equal(t, "", Sanitize(""))
	assert.Equal(t, "", Sanitize("   "))
}

func TestStripTags(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple", "<p>Hello <b>world</b></p>", "Hello world"},
		{"script removed", "<div>text<script>var x;</script></div>", "text"},
		{"whitespace collapsed", "<p>a</p>\n\n<p>b</p>", "a b"},
		{"plain text", "no markup", "no markup"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StripTags(tt.input))
		})
	}
}
