// Package site drives page rendering over every loaded package and writes
// the output directory.
package site

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jcdickinson/ferrisdoc/internal/highlight"
	"github.com/jcdickinson/ferrisdoc/internal/layout"
	"github.com/jcdickinson/ferrisdoc/internal/links"
	"github.com/jcdickinson/ferrisdoc/internal/modtree"
	"github.com/jcdickinson/ferrisdoc/internal/page"
	"github.com/jcdickinson/ferrisdoc/internal/rustdoc"
)

// ErrUnknownPackage is returned when a requested package was not loaded.
var ErrUnknownPackage = errors.New("package not loaded")

// IOError reports a failed write. It aborts the run.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string { return fmt.Sprintf("writing %s: %v", e.Path, e.Err) }

func (e *IOError) Unwrap() error { return e.Err }

// Writer renders a set of symbol graphs into OutDir.
type Writer struct {
	OutDir   string
	Renderer *page.Renderer
	// Highlighter contributes its CSS to the stylesheet when it uses classes.
	Highlighter     *highlight.Highlighter
	Log             *slog.Logger
	IncludePrivate  bool
	ExternalBaseURL string
}

// pkg is one loaded package with everything needed to render its pages.
type pkg struct {
	graph rustdoc.Graph
	tree  *modtree.Tree
	ctx   page.BuildContext
	// paths maps joined local paths to their IDs.
	paths map[string]rustdoc.ID
}

// run holds the state of a single Write call.
type run struct {
	w       *Writer
	log     *slog.Logger
	pkgs    map[string]*pkg
	written map[string]bool
	pages   int
}

// Write renders packages, or every graph when packages is empty. All graphs
// are indexed so that links and re-exports into them resolve.
func (w *Writer) Write(graphs []rustdoc.Graph, packages []string) error {
	log := w.Log
	if log == nil {
		log = slog.Default()
	}
	r := &run{w: w, log: log, pkgs: make(map[string]*pkg, len(graphs)), written: make(map[string]bool)}

	var trees []*modtree.Tree
	order := make([]*pkg, 0, len(graphs))
	for _, g := range graphs {
		tree, err := modtree.Build(g.Crate, w.IncludePrivate, log)
		if err != nil {
			return fmt.Errorf("building module tree for %s: %w", g.Name, err)
		}
		p := &pkg{graph: g, tree: tree, paths: localPaths(g.Crate)}
		// Paths inside the graph use the tree's name, which can differ
		// from the graph's name. Both find the package; earlier graphs win.
		for _, name := range []string{g.Name, tree.Package} {
			if _, dup := r.pkgs[packageKey(name)]; !dup {
				r.pkgs[packageKey(name)] = p
			}
		}
		order = append(order, p)
	}

	selected := order
	if len(packages) > 0 {
		selected = nil
		for _, name := range packages {
			p, ok := r.pkgs[packageKey(name)]
			if !ok {
				return fmt.Errorf("%s: %w", name, ErrUnknownPackage)
			}
			selected = append(selected, p)
		}
	}
	byTree := make(map[*modtree.Tree]*pkg, len(selected))
	for _, p := range selected {
		if byTree[p.tree] != nil {
			continue
		}
		byTree[p.tree] = p
		trees = append(trees, p.tree)
	}
	site := modtree.NewSite(trees...)

	resolver := links.NewResolver(links.BuildGlobalIndex(graphs))
	for _, p := range order {
		p.ctx = page.NewBuildContext(p.graph, p.tree, site, resolver)
		p.ctx.ExternalBaseURL = w.ExternalBaseURL
	}

	if err := r.writeStylesheet(); err != nil {
		return err
	}
	versions := make(map[string]string, len(byTree))
	for t, p := range byTree {
		versions[t.Name] = p.graph.Crate.Version()
	}
	if err := r.writePage("index.html", w.Renderer.SiteIndex(site, versions)); err != nil {
		return err
	}

	for _, child := range site.Children {
		if err := r.module(byTree[child], child); err != nil {
			return err
		}
	}
	log.Info("documentation written", "dir", w.OutDir, "packages", len(selected), "pages", r.pages)
	return nil
}

func (r *run) writeStylesheet() error {
	var css bytes.Buffer
	css.Write(page.Stylesheet())
	if h := r.w.Highlighter; h != nil {
		css.WriteString("\n")
		if err := h.WriteCSS(&css); err != nil {
			return fmt.Errorf("generating highlight CSS: %w", err)
		}
	}
	return r.writeFile("rustdoc.css", css.Bytes())
}

// module writes a module's index page, its leaf items, its children, and
// finally the pages brought in by its glob re-exports.
func (r *run) module(p *pkg, tree *modtree.Tree) error {
	globbed := r.expandGlobs(p, tree)

	extra := make([]modtree.Renderable, len(globbed))
	for i, g := range globbed {
		extra[i] = g.item
	}
	if tree.Module != nil {
		mp, err := r.w.Renderer.Module(p.ctx, tree, extra)
		if err := r.emit(tree.Module.HTMLPath, mp, err); err != nil {
			return err
		}
	}

	for _, it := range tree.Items {
		if it.Pointer {
			continue
		}
		owner, item, ok := r.resolveItem(p, it)
		if !ok {
			continue
		}
		ip, err := r.w.Renderer.Item(owner.ctx, item)
		if err := r.emit(it.HTMLPath, ip, err); err != nil {
			return err
		}
	}

	for _, child := range tree.Children {
		if err := r.module(p, child); err != nil {
			return err
		}
	}

	for _, g := range globbed {
		owner, item, ok := r.resolveItem(g.owner, g.item)
		if !ok {
			continue
		}
		gp, err := r.w.Renderer.Item(owner.ctx, item)
		if err := r.emit(g.item.HTMLPath, gp, err); err != nil {
			return err
		}
	}
	return nil
}

// resolveItem finds the package whose graph holds the content of it. A
// re-export of another package's item is rewritten to point directly at
// that package's definition.
func (r *run) resolveItem(p *pkg, it modtree.Renderable) (*pkg, modtree.Renderable, bool) {
	if it.Target == nil {
		return p, it, true
	}
	if _, ok := p.graph.Crate.Item(*it.Target); ok {
		return p, it, true
	}

	s, ok := p.graph.Crate.Summary(*it.Target)
	if !ok || len(s.Path) == 0 {
		r.log.Warn("re-export target not found, skipping",
			"path", strings.Join(it.Path, "::"), "target", *it.Target)
		return nil, it, false
	}
	other, ok := r.pkgs[packageKey(s.Path[0])]
	if !ok {
		r.log.Warn("re-export target package not loaded, skipping",
			"path", strings.Join(it.Path, "::"), "target", strings.Join(s.Path, "::"))
		return nil, it, false
	}
	id, ok := other.paths[strings.Join(s.Path, "::")]
	if !ok {
		r.log.Warn("re-export target not found, skipping",
			"path", strings.Join(it.Path, "::"), "target", strings.Join(s.Path, "::"))
		return nil, it, false
	}
	target, _ := other.graph.Crate.Item(id)
	it.ID, it.Item, it.Target = id, target, nil
	return other, it, true
}

// globItem is a page synthesized for a glob re-export, along with the
// package whose graph holds its content.
type globItem struct {
	owner *pkg
	item  modtree.Renderable
}

// expandGlobs lists the public top-level non-module items of each glob
// target, placed inside tree. Non-public items are never glob-imported,
// even when private items are documented.
func (r *run) expandGlobs(p *pkg, tree *modtree.Tree) []globItem {
	var out []globItem
	for _, g := range tree.Globs {
		owner, source := r.globSource(p, g)
		if source == nil {
			r.log.Warn("glob re-export target not found, skipping",
				"module", strings.Join(tree.Path(), "::"), "source", g.Source)
			continue
		}
		for _, it := range source.Items {
			if it.Pointer || it.HTMLPath == "" || it.Kind == rustdoc.KindModule {
				continue
			}
			if it.Item == nil || !modtree.IsVisible(it.Item, owner.graph.Crate) {
				continue
			}
			path := append(append([]string(nil), tree.Path()...), it.Name)
			it.Path = path
			it.HTMLPath = layout.HTMLPath(path, it.Kind)
			out = append(out, globItem{owner: owner, item: it})
		}
	}
	return out
}

// globSource finds the module tree a glob re-export expands. Targets in
// other packages fall back to that package's root module.
func (r *run) globSource(p *pkg, g modtree.GlobReexport) (*pkg, *modtree.Tree) {
	if g.Local && g.Target != nil {
		if s, ok := p.graph.Crate.Summary(*g.Target); ok {
			if t := modtree.Find(p.tree, s.Path); t != nil {
				return p, t
			}
		}
		if t := findModule(p.tree, *g.Target); t != nil {
			return p, t
		}
		return p, nil
	}

	other, ok := r.pkgs[packageKey(g.TargetPackage)]
	if !ok {
		return nil, nil
	}
	if g.Target != nil {
		if s, ok := p.graph.Crate.Summary(*g.Target); ok && len(s.Path) > 1 {
			if t := modtree.Find(other.tree, s.Path); t != nil {
				return other, t
			}
		}
	}
	return other, other.tree
}

func findModule(tree *modtree.Tree, id rustdoc.ID) *modtree.Tree {
	if tree.Module != nil && tree.Module.ID == id {
		return tree
	}
	for _, c := range tree.Children {
		if t := findModule(c, id); t != nil {
			return t
		}
	}
	return nil
}

// emit writes a composed page. A composition error skips the page and a
// write error aborts the run.
func (r *run) emit(path string, p *page.Page, err error) error {
	if err != nil {
		r.log.Error("skipping page", "path", path, "error", err)
		return nil
	}
	return r.writePage(path, p)
}

func (r *run) writePage(path string, p *page.Page) error {
	if r.written[path] {
		r.log.Warn("page already written, skipping", "path", path)
		return nil
	}
	var buf bytes.Buffer
	if err := r.w.Renderer.Execute(&buf, p); err != nil {
		r.log.Error("skipping page", "path", path, "error", err)
		return nil
	}
	if err := r.writeFile(path, buf.Bytes()); err != nil {
		return err
	}
	r.pages++
	return nil
}

func (r *run) writeFile(path string, data []byte) error {
	r.written[path] = true
	full := filepath.Join(r.w.OutDir, filepath.FromSlash(path))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return &IOError{Path: full, Err: err}
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return &IOError{Path: full, Err: err}
	}
	return nil
}

// localPaths indexes the local items of a crate by joined path. The lowest
// ID wins when two items share a path.
func localPaths(crate *rustdoc.Crate) map[string]rustdoc.ID {
	out := make(map[string]rustdoc.ID)
	for id, s := range crate.Paths {
		if s.CrateID != 0 || len(s.Path) == 0 {
			continue
		}
		key := strings.Join(s.Path, "::")
		if prev, ok := out[key]; !ok || id < prev {
			if _, local := crate.Index[id]; local {
				out[key] = id
			}
		}
	}
	return out
}

// packageKey normalizes a package name the way cargo maps package names to
// crate names.
func packageKey(name string) string {
	return strings.ReplaceAll(name, "-", "_")
}
