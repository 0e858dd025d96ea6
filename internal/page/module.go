package page

import (
	"html/template"
	"sort"
	"strings"

	"github.com/jcdickinson/ferrisdoc/internal/markdown"
	"github.com/jcdickinson/ferrisdoc/internal/modtree"
	"github.com/jcdickinson/ferrisdoc/internal/rustdoc"
)

// moduleGroups fixes the order of item sections on a module page.
var moduleGroups = []struct {
	id, title string
	kinds     []rustdoc.Kind
}{
	{"structs", "Structs", []rustdoc.Kind{rustdoc.KindStruct}},
	{"enums", "Enums", []rustdoc.Kind{rustdoc.KindEnum}},
	{"unions", "Unions", []rustdoc.Kind{rustdoc.KindUnion}},
	{"traits", "Traits", []rustdoc.Kind{rustdoc.KindTrait}},
	{"functions", "Functions", []rustdoc.Kind{rustdoc.KindFunction}},
	{"types", "Type Aliases", []rustdoc.Kind{rustdoc.KindTypeAlias}},
	{"constants", "Constants", []rustdoc.Kind{rustdoc.KindConstant, rustdoc.KindStatic}},
	{"macros", "Macros", []rustdoc.Kind{rustdoc.KindMacro, rustdoc.KindProcMacro, rustdoc.KindProcAttribute, rustdoc.KindProcDerive}},
}

func groupOf(kind rustdoc.Kind) int {
	for i, g := range moduleGroups {
		for _, k := range g.kinds {
			if k == kind {
				return i
			}
		}
	}
	return -1
}

// Module composes the index page of a module. Items brought in by glob
// re-exports are passed as extra and listed alongside the module's own.
func (r *Renderer) Module(ctx BuildContext, tree *modtree.Tree, extra []modtree.Renderable) (*Page, error) {
	path := tree.Path()
	ctx = ctx.At(tree.Depth())
	root := ctx.Root()

	title := "Module"
	if len(path) == 1 {
		title = "Crate"
	}
	p := &Page{
		Title:       title + " " + strings.Join(path, "::"),
		Kind:        title,
		Name:        tree.Name,
		Package:     ctx.Package,
		Version:     ctx.Crate.Version(),
		Breadcrumbs: breadcrumbs(path, ctx.Depth, true),
		Sidebar:     sidebar(ctx.Site, path, root),
		Root:        root,
	}
	if tree.Module != nil {
		p.Docs = r.docs(ctx, tree.Module.Item)
	}

	var modules []Entry
	for _, c := range tree.Children {
		e := Entry{Name: c.Name, URL: root + c.Module.HTMLPath}
		if c.Module.Item != nil {
			e.Summary = r.summary(ctx, c.Module.Item)
		}
		modules = append(modules, e)
	}

	groups := make([][]Entry, len(moduleGroups))
	var reexports []Entry
	seen := make(map[string]bool)
	add := func(it modtree.Renderable, summary template.HTML) {
		g := groupOf(it.Kind)
		if g < 0 || it.HTMLPath == "" || seen[it.HTMLPath] {
			return
		}
		seen[it.HTMLPath] = true
		groups[g] = append(groups[g], Entry{Name: it.Name, URL: root + it.HTMLPath, Summary: summary})
	}

	for _, it := range tree.Items {
		if it.Pointer {
			reexports = append(reexports, r.pointerEntry(ctx, it))
			continue
		}
		item := it.Item
		if it.Target != nil {
			if t, ok := ctx.Crate.Item(*it.Target); ok {
				item = t
			}
		}
		add(it, r.summary(ctx, item))
	}
	for _, it := range extra {
		// Glob items may come from another package, so only path based
		// links can be resolved in their summaries.
		var summary template.HTML
		if it.Item != nil && r.Markdown != nil {
			summary = template.HTML(r.Markdown.Summary(it.Item.DocString(), markdown.Links{Resolve: ctx.resolvePath}))
		}
		add(it, summary)
	}

	p.Sections = appendEntries(p.Sections, "modules", "Modules", modules)
	p.Sections = appendEntries(p.Sections, "reexports", "Re-exports", reexports)
	for i, g := range moduleGroups {
		entries := groups[i]
		sort.SliceStable(entries, func(a, b int) bool {
			if entries[a].Name != entries[b].Name {
				return entries[a].Name < entries[b].Name
			}
			return entries[a].URL < entries[b].URL
		})
		p.Sections = appendEntries(p.Sections, g.id, g.title, entries)
	}
	return p, nil
}

// pointerEntry lists a re-exported module as a `pub use` line linking to
// the module's own page.
func (r *Renderer) pointerEntry(ctx BuildContext, it modtree.Renderable) Entry {
	decl := "pub use "
	source := it.Name
	if use := it.Item.Inner.Use; use != nil {
		source = use.Source
	}
	decl += source
	if last := source[strings.LastIndex(source, "::")+1:]; last != it.Name {
		decl += " as " + it.Name
	}
	e := Entry{Name: it.Name, Signature: template.HTML(template.HTMLEscapeString(decl + ";"))}
	if it.Target != nil {
		if url, ok := ctx.URLFor(*it.Target); ok {
			e.URL = url
		}
	}
	return e
}

func appendEntries(sections []Section, id, title string, entries []Entry) []Section {
	if len(entries) == 0 {
		return sections
	}
	return append(sections, Section{ID: id, Title: title, Entries: entries})
}

// SiteIndex composes the root page listing every package.
func (r *Renderer) SiteIndex(site *modtree.Tree, versions map[string]string) *Page {
	p := &Page{
		Title:   "Crates",
		Kind:    "Crates",
		Sidebar: sidebar(site, nil, ""),
	}
	var entries []Entry
	for _, c := range site.Children {
		if c.Module == nil {
			continue
		}
		e := Entry{Name: c.Name, URL: c.Module.HTMLPath}
		if v := versions[c.Name]; v != "" {
			e.Signature = template.HTML(template.HTMLEscapeString(v))
		}
		if c.Module.Item != nil && r.Markdown != nil {
			e.Summary = template.HTML(r.Markdown.Summary(c.Module.Item.DocString(), markdown.Links{}))
		}
		entries = append(entries, e)
	}
	p.Sections = appendEntries(nil, "crates", "Crates", entries)
	return p
}
