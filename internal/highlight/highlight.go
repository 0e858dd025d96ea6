// Package highlight renders fenced code blocks to HTML with Chroma.
package highlight

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"sync"

	chroma "github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// Highlighter turns source code into HTML.
type Highlighter struct {
	// Style used for syntax highlighting of code.
	Style *chroma.Style

	// UseClasses specifies whether the highlighter emits CSS classes
	// instead of inline 'style' attributes. Class output needs the
	// stylesheet from WriteCSS.
	UseClasses bool

	once      sync.Once
	formatter *chromahtml.Formatter
}

// New builds a highlighter for the named Chroma style. Unknown names fall
// back to Chroma's default style.
func New(style string, useClasses bool) *Highlighter {
	return &Highlighter{Style: StyleByName(style), UseClasses: useClasses}
}

// StyleByName looks up a registered Chroma style.
func StyleByName(name string) *chroma.Style {
	if name == "" {
		return PlainStyle
	}
	return styles.Get(name)
}

func (h *Highlighter) init() {
	h.once.Do(func() {
		if h.Style == nil {
			h.Style = PlainStyle
		}
		h.formatter = chromahtml.New(
			chromahtml.PreventSurroundingPre(true),
			chromahtml.WithClasses(h.UseClasses),
		)
	})
}

// WriteCSS writes the style classes for this highlighter to w.
// If this highlighter is not using classes, WriteCSS is a no-op.
func (h *Highlighter) WriteCSS(w io.Writer) error {
	h.init()

	if !h.UseClasses {
		return nil
	}
	return h.formatter.WriteCSS(w, h.Style)
}

// Highlight renders code written in lang as a <pre> block. Languages
// Chroma does not know are rendered as escaped plain text.
func (h *Highlighter) Highlight(code, lang string) string {
	h.init()

	var buf bytes.Buffer
	if h.UseClasses {
		fmt.Fprintf(&buf, "<pre class=%q>", chroma.StandardTypes[chroma.PreWrapper])
	} else {
		style := chromahtml.StyleEntryToCSS(h.Style.Get(chroma.PreWrapper))
		fmt.Fprintf(&buf, "<pre style=%q>", style)
	}
	fmt.Fprintf(&buf, "<code class=\"language-%s\">", template.HTMLEscapeString(lang))

	lexer := lexers.Get(lang)
	if lexer == nil {
		template.HTMLEscape(&buf, []byte(code))
	} else {
		it, err := chroma.Coalesce(lexer).Tokenise(nil, code)
		if err != nil || h.formatter.Format(&buf, h.Style, it) != nil {
			return h.plain(code, lang)
		}
	}

	buf.WriteString("</code></pre>")
	return buf.String()
}

func (h *Highlighter) plain(code, lang string) string {
	return "<pre><code class=\"language-" + template.HTMLEscapeString(lang) + "\">" +
		template.HTMLEscapeString(code) + "</code></pre>"
}
