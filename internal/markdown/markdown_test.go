package markdown

import (
	"strings"
	"testing"

	gm "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"

	"github.com/jcdickinson/ferrisdoc/internal/highlight"
)

func TestNormalizeShortcutLinks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want string
	}{
		{"single", "See [`Foo`] for details", "See [`Foo`](Foo) for details"},
		{"path", "Link [`foo::Bar`] here", "Link [`foo::Bar`](foo::Bar) here"},
		{"inline link", "See [`Foo`](other) here", "See [`Foo`](other) here"},
		{"reference link", "See [`Foo`][ref] here", "See [`Foo`][ref] here"},
		{
			"defined reference",
			"See [`HashMap`] for details.\n\n[`HashMap`]: std::collections::HashMap",
			"See [`HashMap`] for details.\n\n[`HashMap`]: std::collections::HashMap",
		},
		{
			"plain definition",
			"See [`HashMap`] for details.\n\n[HashMap]: std::collections::HashMap",
			"See [`HashMap`] for details.\n\n[HashMap]: std::collections::HashMap",
		},
		{"definition line", "[`Foo`]: some::path", "[`Foo`]: some::path"},
		{"not a path", "Call [`foo()`] now", "Call [`foo()`] now"},
		{"nothing", "plain text", "plain text"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := NormalizeShortcutLinks(tt.src); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRewriteLinks(t *testing.T) {
	t.Parallel()

	doc := parse("See [`Widget`](Widget), [docs](https://example.com) and [ref][r].\n\n[r]: Gadget")
	n := RewriteLinks(doc, map[string]string{
		"`Widget`": "demo/struct.Widget.html",
		"Gadget":   "demo/enum.Gadget.html",
	})
	if n != 2 {
		t.Errorf("rewrote %d links, want 2", n)
	}

	got := string(renderPlain(doc))
	for _, want := range []string{
		`href="demo/struct.Widget.html"`,
		`href="https://example.com"`,
		`href="demo/enum.Gadget.html"`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %s in %q", want, got)
		}
	}
}

func TestRewriteLinks_EmptyMap(t *testing.T) {
	t.Parallel()

	doc := parse("Hello [world](url).")
	if n := RewriteLinks(doc, nil); n != 0 {
		t.Errorf("rewrote %d links with no map", n)
	}
}

func TestResolveHrefs(t *testing.T) {
	t.Parallel()

	resolve := func(path string) (string, bool) {
		if path == "alpha::Widget" {
			return "../alpha/struct.Widget.html", true
		}
		return "", false
	}
	src := `<p><a href="alpha::Widget"><code>Widget</code></a>, ` +
		`<a href="https://example.com/a?b=1&amp;c=2">site</a> and ` +
		`<a href="mystery::Thing">Thing</a>.</p>`
	want := `<p><a href="../alpha/struct.Widget.html"><code>Widget</code></a>, ` +
		`<a href="https://example.com/a?b=1&amp;c=2">site</a> and ` +
		`Thing.</p>`

	if got := ResolveHrefs(src, resolve); got != want {
		t.Errorf("got  %q\nwant %q", got, want)
	}
	if got := ResolveHrefs(src, nil); got != src {
		t.Errorf("nil resolver changed input: %q", got)
	}
}

func TestResolveHrefs_KeepsEscapedAttributes(t *testing.T) {
	t.Parallel()

	resolve := func(string) (string, bool) { return "", false }
	for _, src := range []string{
		`<a href="https://example.com/a?b=1&amp;c=2&amp;d=3">site</a>`,
		`<img alt="fish &amp; chips" src="x.png?a=1&amp;b=2">`,
		`<p title="&lt;T&gt;"><a href="/abs?x=&quot;y&quot;">q</a></p>`,
	} {
		if got := ResolveHrefs(src, resolve); got != src {
			t.Errorf("got  %q\nwant %q", got, src)
		}
	}
}

func TestRenderer_Render(t *testing.T) {
	t.Parallel()

	r := New(nil, nil)
	src := "Builds a [`Widget`].\n\nSee [`Gadget`] too.\n\n```\nlet w = Widget;\n# hidden();\n```\n"
	got := r.Render(src, Links{
		Known: map[string]string{"`Widget`": "struct.Widget.html"},
		Resolve: func(string) (string, bool) {
			return "", false
		},
	})

	if !strings.Contains(got, `<a href="struct.Widget.html"><code>Widget</code></a>`) {
		t.Errorf("known link not rewritten: %q", got)
	}
	if strings.Contains(got, `href="Gadget"`) || !strings.Contains(got, "<code>Gadget</code>") {
		t.Errorf("unresolved link should be unwrapped: %q", got)
	}
	if !strings.Contains(got, `<code class="language-rust">let w = Widget;`) {
		t.Errorf("code block missing: %q", got)
	}
	if strings.Contains(got, "hidden") {
		t.Errorf("hidden doctest line rendered: %q", got)
	}
}

func TestRenderer_RenderHighlighted(t *testing.T) {
	t.Parallel()

	r := New(&highlight.Highlighter{Style: highlight.PlainStyle, UseClasses: true}, nil)
	got := r.Render("```rust,no_run\nfn main() {}\n```\n\n```toml\n[a]\n```\n", Links{})
	if !strings.Contains(got, `<code class="language-rust">`) {
		t.Errorf("rust block not highlighted as rust: %q", got)
	}
	if !strings.Contains(got, `<code class="language-toml">`) {
		t.Errorf("toml block language lost: %q", got)
	}
}

func TestRenderer_Summary(t *testing.T) {
	t.Parallel()

	r := New(nil, nil)
	got := r.Summary("# Title\n\nFirst *line* of [`Widget`].\n\nSecond paragraph.", Links{
		Resolve: func(path string) (string, bool) {
			return "../demo/struct." + path + ".html", true
		},
	})
	want := `First <em>line</em> of <a href="../demo/struct.Widget.html"><code>Widget</code></a>.`
	if got != want {
		t.Errorf("got  %q\nwant %q", got, want)
	}
	if got := r.Summary("", Links{}); got != "" {
		t.Errorf("empty docs: %q", got)
	}
}

func TestCodeLanguage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		info string
		lang string
		rust bool
	}{
		{"", "rust", true},
		{"rust", "rust", true},
		{"rust,ignore", "rust", true},
		{"no_run", "rust", true},
		{"should_panic,edition2021", "rust", true},
		{"ignore-wasm32", "rust", true},
		{"text", "text", false},
		{"toml", "toml", false},
		{"sh,ignore", "sh", false},
	}
	for _, tt := range tests {
		lang, rust := codeLanguage(tt.info)
		if lang != tt.lang || rust != tt.rust {
			t.Errorf("codeLanguage(%q) = %q, %v; want %q, %v", tt.info, lang, rust, tt.lang, tt.rust)
		}
	}
}

func TestStripHiddenLines(t *testing.T) {
	t.Parallel()

	src := "# use demo::Widget;\nlet w = Widget;\n#\n    # fn hidden() {}\n##[derive(Debug)]\n#[test]\n"
	want := "let w = Widget;\n#[derive(Debug)]\n#[test]\n"
	if got := stripHiddenLines(src); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func renderPlain(doc ast.Node) []byte {
	return gm.Render(doc, New(nil, nil).htmlRenderer())
}
