package highlight

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHighlighter_Highlight(t *testing.T) {
	t.Parallel()

	tests := []struct {
		desc     string
		lang     string
		code     string
		contains []string
	}{
		{
			desc:     "rust",
			lang:     "rust",
			code:     "fn main() { let x = 1; }",
			contains: []string{`<pre class="chroma"><code class="language-rust">`, `<span class="`, "main", "</code></pre>"},
		},
		{
			desc:     "unknown language",
			lang:     "definitely-not-a-language",
			code:     "a < b",
			contains: []string{`<code class="language-definitely-not-a-language">a &lt; b</code>`},
		},
		{
			desc:     "escaped language",
			lang:     `x"y`,
			code:     "plain",
			contains: []string{`language-x&#34;y`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			t.Parallel()

			h := Highlighter{Style: PlainStyle, UseClasses: true}
			got := h.Highlight(tt.code, tt.lang)
			for _, want := range tt.contains {
				assert.Contains(t, got, want)
			}
		})
	}
}

func TestHighlighter_InlineStyles(t *testing.T) {
	t.Parallel()

	h := Highlighter{Style: PlainStyle}
	got := h.Highlight("// note", "rust")
	assert.Contains(t, got, `<pre style="`)
	assert.NotContains(t, got, `class="c1"`)

	var buf bytes.Buffer
	require.NoError(t, h.WriteCSS(&buf))
	assert.Empty(t, buf.String(), "no CSS without classes")
}

func TestHighlighter_WriteCSS(t *testing.T) {
	t.Parallel()

	h := New("", true)
	var buf bytes.Buffer
	require.NoError(t, h.WriteCSS(&buf))
	assert.Contains(t, buf.String(), ".chroma")
}

func TestStyleByName(t *testing.T) {
	t.Parallel()

	assert.Same(t, PlainStyle, StyleByName(""))
	assert.Equal(t, "monokai", StyleByName("monokai").Name)
}
