package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeText(t *testing.T) {
	sanitizer := NewContentSanitizer()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain text is kept", input: "Hello forum", want: "Hello forum"},
		{name: "tags are stripped", input: "<b>bold</b> move", want: "bold move"},
		{name: "script is removed", input: `<script>alert("x")</script>hi`, want: "hi"},
		{name: "surrounding space is trimmed", input: "  spaced  ", want: "spaced"},
		{name: "empty stays empty", input: "", want: ""},
		{name: "markup only becomes empty", input: "<img src=x onerror=alert(1)>", want: ""},
		{name: "lone tag becomes empty", input: "<b>", want: ""},
		{name: "ampersand is not escaped", input: "a & b", want: "a & b"},
		{name: "quotes are not escaped", input: `it's "fine"`, want: `it's "fine"`},
		{name: "comparison survives", input: "5 < 6 and 7 > 3", want: "5 < 6 and 7 > 3"},
		{name: "entities are decoded", input: "fish &amp; chips", want: "fish & chips"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizer.SanitizeText(tt.input))
		})
	}
}

func TestSanitizeHTML(t *testing.T) {
	sanitizer := NewContentSanitizer()

	tests := []struct {
		name         string
		input        string
		wantContains []string
		wantAbsent   []string
	}{
		{
			name:         "formatting is kept",
			input:        "<p>Hello <strong>world</strong></p>",
			wantContains: []string{"<p>", "<strong>world</strong>"},
		},
		{
			name:         "links get target and rel",
			input:        `<a href="https://example.com">link</a>`,
			wantContains: []string{`href="https://example.com"`, `target="_blank"`, "noopener"},
		},
		{
			name:       "javascript links are dropped",
			input:      `<a href="javascript:alert(1)">x</a>`,
			wantAbsent: []string{"javascript"},
		},
		{
			name:         "event handlers are removed",
			input:        `<p onclick="steal()">text</p>`,
			wantContains: []string{"text"},
			wantAbsent:   []string{"onclick"},
		},
		{
			name:       "http images are dropped",
			input:      `<img src="http://example.com/a.png">`,
			wantAbsent: []string{"http://"},
		},
		{
			name:       "iframes are removed",
			input:      `<iframe src="https://evil.example"></iframe>`,
			wantAbsent: []string{"iframe"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitizer.SanitizeHTML(tt.input)
			for _, want := range tt.wantContains {
				assert.True(t, strings.Contains(got, want), "expected %q in %q", want, got)
			}
			for _, absent := range tt.wantAbsent {
				assert.False(t, strings.Contains(got, absent), "unexpected %q in %q", absent, got)
			}
		})
	}
}

func TestSanitize_Idempotent(t *testing.T) {
	sanitizer := NewContentSanitizer()
	input := `<p>Hi <a href="https://example.com">there</a></p><script>x</script>`

	once := sanitizer.SanitizeHTML(input)
	assert.Equal(t, once, sanitizer.SanitizeHTML(once))

	text := sanitizer.SanitizeText("<em>plain</em>")
	assert.Equal(t, text, sanitizer.SanitizeText(text))
}
