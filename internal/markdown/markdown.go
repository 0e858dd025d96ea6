// Package markdown renders item documentation to HTML.
//
// Rendering happens in three steps: bare intra-doc references are turned
// into explicit links, link destinations known from the item's link table
// are rewritten on the parsed document, and finally any remaining href
// that still looks like a Rust path is resolved against the global index.
package markdown

import (
	"io"
	"log/slog"
	"strings"

	gm "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	gmhtml "github.com/gomarkdown/markdown/html"
	gmparser "github.com/gomarkdown/markdown/parser"

	"github.com/jcdickinson/ferrisdoc/internal/highlight"
)

const extensions = gmparser.CommonExtensions | gmparser.Autolink | gmparser.Footnotes

// Renderer converts documentation markdown to HTML.
type Renderer struct {
	Highlighter *highlight.Highlighter
	Log         *slog.Logger
}

// New returns a renderer that highlights code blocks with h.
func New(h *highlight.Highlighter, log *slog.Logger) *Renderer {
	if log == nil {
		log = slog.Default()
	}
	return &Renderer{Highlighter: h, Log: log}
}

// Links carries what a page knows about resolving links in one doc string.
type Links struct {
	// Known maps link text, as recorded by rustdoc, to a URL.
	Known map[string]string
	// Resolve is consulted for hrefs left unresolved by Known.
	Resolve Resolver
}

func parse(src string) ast.Node {
	// Parsers hold state and are not reusable.
	return gm.Parse([]byte(src), gmparser.NewWithExtensions(extensions))
}

// Render converts src to an HTML fragment.
func (r *Renderer) Render(src string, l Links) string {
	if strings.TrimSpace(src) == "" {
		return ""
	}
	doc := parse(NormalizeShortcutLinks(src))
	RewriteLinks(doc, l.Known)
	out := string(gm.Render(doc, r.htmlRenderer()))
	return ResolveHrefs(out, r.logUnresolved(l.Resolve))
}

// Summary renders only the first paragraph of src, without the enclosing
// <p> element.
func (r *Renderer) Summary(src string, l Links) string {
	if strings.TrimSpace(src) == "" {
		return ""
	}
	doc := parse(NormalizeShortcutLinks(src))
	var para ast.Node
	for _, child := range doc.GetChildren() {
		if p, ok := child.(*ast.Paragraph); ok {
			para = p
			break
		}
	}
	if para == nil {
		return ""
	}
	RewriteLinks(para, l.Known)
	out := strings.TrimSpace(string(gm.Render(para, r.htmlRenderer())))
	out = strings.TrimSuffix(strings.TrimPrefix(out, "<p>"), "</p>")
	return ResolveHrefs(out, r.logUnresolved(l.Resolve))
}

func (r *Renderer) logUnresolved(resolve Resolver) Resolver {
	if resolve == nil {
		return nil
	}
	return func(path string) (string, bool) {
		url, ok := resolve(path)
		if !ok && r.Log != nil {
			r.Log.Debug("unresolved intra-doc link", "path", path)
		}
		return url, ok
	}
}

func (r *Renderer) htmlRenderer() *gmhtml.Renderer {
	return gmhtml.NewRenderer(gmhtml.RendererOptions{
		Flags:          gmhtml.FlagsNone,
		RenderNodeHook: r.renderCodeBlock,
	})
}

func (r *Renderer) renderCodeBlock(w io.Writer, node ast.Node, entering bool) (ast.WalkStatus, bool) {
	block, ok := node.(*ast.CodeBlock)
	if !ok {
		return ast.GoToNext, false
	}
	lang, rust := codeLanguage(string(block.Info))
	code := string(block.Literal)
	if rust {
		code = stripHiddenLines(code)
	}
	if r.Highlighter == nil {
		io.WriteString(w, `<pre><code class="language-`)
		gmhtml.EscapeHTML(w, []byte(lang))
		io.WriteString(w, `">`)
		gmhtml.EscapeHTML(w, []byte(code))
		io.WriteString(w, "</code></pre>\n")
		return ast.GoToNext, true
	}
	io.WriteString(w, r.Highlighter.Highlight(code, lang))
	return ast.GoToNext, true
}

// rustAttributes are doctest attributes that do not change the language.
var rustAttributes = map[string]bool{
	"rust":             true,
	"ignore":           true,
	"no_run":           true,
	"should_panic":     true,
	"compile_fail":     true,
	"test_harness":     true,
	"allow_fail":       true,
	"standalone":       true,
	"standalone_crate": true,
}

// codeLanguage interprets a fence info string. An empty info string, or one
// made only of doctest attributes, is Rust.
func codeLanguage(info string) (lang string, rust bool) {
	fields := strings.FieldsFunc(info, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	for _, f := range fields {
		if strings.HasPrefix(f, "ignore-") || strings.HasPrefix(f, "edition") {
			continue
		}
		if !rustAttributes[f] {
			return f, false
		}
	}
	return "rust", true
}

// stripHiddenLines drops doctest lines starting with "# " (or a lone "#"),
// and unescapes "##" to "#".
func stripHiddenLines(code string) string {
	lines := strings.SplitAfter(code, "\n")
	out := lines[:0]
	for _, line := range lines {
		trimmed := strings.TrimLeft(line, " \t")
		switch {
		case strings.HasPrefix(trimmed, "##"):
			i := len(line) - len(trimmed)
			out = append(out, line[:i]+trimmed[1:])
		case trimmed == "#", trimmed == "#\n", strings.HasPrefix(trimmed, "# "):
			continue
		default:
			out = append(out, line)
		}
	}
	return strings.Join(out, "")
}
