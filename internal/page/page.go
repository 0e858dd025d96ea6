// Package page composes documentation pages from the symbol graph and
// renders them through embedded HTML templates.
package page

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/jcdickinson/ferrisdoc/internal/layout"
	"github.com/jcdickinson/ferrisdoc/internal/markdown"
	"github.com/jcdickinson/ferrisdoc/internal/modtree"
	"github.com/jcdickinson/ferrisdoc/internal/rustdoc"
)

var (
	//go:embed tmpl/*.html
	_tmplFS embed.FS

	//go:embed static/rustdoc.css
	_stylesheet []byte

	_pageTmpl = template.Must(template.ParseFS(_tmplFS, "tmpl/layout.html", "tmpl/page.html"))
)

// Stylesheet returns the layout CSS shared by every page.
func Stylesheet() []byte { return _stylesheet }

// TemplateError reports a page that could not be composed.
type TemplateError struct {
	Page string
	Err  error
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("rendering %s: %v", e.Page, e.Err)
}

func (e *TemplateError) Unwrap() error { return e.Err }

// Breadcrumb is one step of the trail from the package root to a page.
type Breadcrumb struct {
	Text string
	// URL is empty for the current page.
	URL string
}

// Entry is one row of a section: a listed item, a field, a variant, an
// impl block or a method.
type Entry struct {
	// Anchor is the fragment ID of the entry, if it has one.
	Anchor    string
	Name      string
	URL       string
	Signature template.HTML
	Summary   template.HTML
	Docs      template.HTML
	Members   []Entry
}

// Section is a titled list of entries.
type Section struct {
	ID      string
	Title   string
	Entries []Entry
}

// Page is the flat model handed to the templates.
type Page struct {
	Title       string
	Kind        string
	Name        string
	Package     string
	Version     string
	Signature   template.HTML
	// Description is the unescaped plain-text declaration, for metadata.
	Description string
	Docs        template.HTML
	Sections    []Section
	Breadcrumbs []Breadcrumb
	Sidebar     template.HTML
	// Root is the relative prefix leading back to the output root.
	Root string
}

// Renderer builds and writes pages.
type Renderer struct {
	Markdown *markdown.Renderer
	Log      *slog.Logger
}

// NewRenderer returns a page renderer using md for documentation bodies.
func NewRenderer(md *markdown.Renderer, log *slog.Logger) *Renderer {
	if log == nil {
		log = slog.Default()
	}
	return &Renderer{Markdown: md, Log: log}
}

// Execute writes p as a complete HTML document.
func (r *Renderer) Execute(w io.Writer, p *Page) error {
	if err := _pageTmpl.ExecuteTemplate(w, "layout.html", p); err != nil {
		return &TemplateError{Page: p.Title, Err: err}
	}
	return nil
}

func breadcrumbs(path []string, depth int, current bool) []Breadcrumb {
	crumbs := make([]Breadcrumb, len(path))
	for i, name := range path {
		crumbs[i] = Breadcrumb{Text: name}
		if i == len(path)-1 && current {
			continue
		}
		crumbs[i].URL = layout.ToRoot(depth) + layout.HTMLPath(path[:i+1], rustdoc.KindModule)
	}
	return crumbs
}

// sidebar renders the module tree of every package, marking the module
// that contains the current page.
func sidebar(site *modtree.Tree, current []string, root string) template.HTML {
	if site == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(`<ul class="module-tree">`)
	for _, pkg := range site.Children {
		writeTree(&b, pkg, strings.Join(current, "::"), root)
	}
	b.WriteString("</ul>")
	return template.HTML(b.String())
}

func writeTree(b *strings.Builder, t *modtree.Tree, current, root string) {
	if t.Module == nil {
		return
	}
	b.WriteString("<li")
	if strings.Join(t.Path(), "::") == current {
		b.WriteString(` class="current"`)
	}
	b.WriteString(`><a href="`)
	b.WriteString(template.HTMLEscapeString(root + t.Module.HTMLPath))
	b.WriteString(`">`)
	b.WriteString(template.HTMLEscapeString(t.Name))
	b.WriteString("</a>")
	if len(t.Children) > 0 {
		b.WriteString("<ul>")
		for _, c := range t.Children {
			writeTree(b, c, current, root)
		}
		b.WriteString("</ul>")
	}
	b.WriteString("</li>")
}

// anchors hands out unique fragment IDs within one page.
type anchors map[string]int

func (a anchors) next(id string) string {
	n := a[id]
	a[id] = n + 1
	if n == 0 {
		return id
	}
	return id + "-" + strconv.Itoa(n)
}
