// Package modtree builds the navigable module hierarchy of a crate.
package modtree

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/jcdickinson/ferrisdoc/internal/layout"
	"github.com/jcdickinson/ferrisdoc/internal/rustdoc"
)

// ErrMissingItem is returned when a required item is absent from the index.
var ErrMissingItem = errors.New("item not found in index")

// MalformedGraphError reports an item whose kind contradicts how the graph
// refers to it.
type MalformedGraphError struct {
	ID   rustdoc.ID
	Want rustdoc.Kind
	Got  rustdoc.Kind
}

func (e *MalformedGraphError) Error() string {
	return fmt.Sprintf("malformed graph: item %d is %s, expected %s", e.ID, e.Got, e.Want)
}

// Renderable is an item placed in the tree at a concrete path.
type Renderable struct {
	ID   rustdoc.ID
	Item *rustdoc.Item

	// Name is the last path segment. For re-exports this is the exported
	// name, not the target's own name.
	Name     string
	Path     []string
	HTMLPath string

	// Kind is the kind of the page content. For re-exports it is the
	// target's kind, or KindUnknown if the target cannot be classified.
	Kind rustdoc.Kind

	// Target is set for direct re-exports.
	Target *rustdoc.ID

	// Pointer marks a re-exported module. Pointers get no page of their own.
	Pointer bool
}

// IsReexport reports whether the renderable stands in for another item.
func (r *Renderable) IsReexport() bool { return r.Target != nil }

// Depth returns how many directories deep the renderable's page is.
func (r *Renderable) Depth() int { return layout.Depth(r.Path, r.Kind) }

// GlobReexport is a `pub use path::*` recorded on the module containing it.
type GlobReexport struct {
	// Source is the path expression as written, e.g. "other::prelude".
	Source string
	// TargetPackage is the crate the glob expands from.
	TargetPackage string
	// Target is the ID of the glob's target module, if known.
	Target *rustdoc.ID
	// Local is set when the target module belongs to the same crate.
	Local bool
}

// Tree is a node in the module hierarchy.
type Tree struct {
	Name string
	// Package is the crate name the tree belongs to.
	Package string
	// Module is nil only for the synthetic site root.
	Module   *Renderable
	Items    []Renderable
	Children []*Tree
	Globs    []GlobReexport
}

// Path returns the module path, or nil for the synthetic root.
func (t *Tree) Path() []string {
	if t.Module == nil {
		return nil
	}
	return t.Module.Path
}

// Depth returns how many directories deep the module's index page is.
func (t *Tree) Depth() int { return len(t.Path()) }

// NewSite returns a synthetic root holding one tree per package.
func NewSite(trees ...*Tree) *Tree {
	children := append([]*Tree(nil), trees...)
	sort.SliceStable(children, func(i, j int) bool { return children[i].Name < children[j].Name })
	return &Tree{Children: children}
}

// Build walks the crate from its root module. Items that are not visible are
// dropped unless includePrivate is set.
func Build(crate *rustdoc.Crate, includePrivate bool, log *slog.Logger) (*Tree, error) {
	if log == nil {
		log = slog.Default()
	}
	root, ok := crate.Item(crate.Root)
	if !ok {
		return nil, fmt.Errorf("root module %d: %w", crate.Root, ErrMissingItem)
	}
	name := root.DisplayName()
	if name == "" {
		name = crate.Name()
	}
	if name == "" {
		name = "crate"
	}

	b := builder{crate: crate, pkg: name, includePrivate: includePrivate, log: log}
	return b.module(crate.Root, root, []string{name})
}

type builder struct {
	crate          *rustdoc.Crate
	pkg            string
	includePrivate bool
	log            *slog.Logger
}

func (b *builder) module(id rustdoc.ID, item *rustdoc.Item, path []string) (*Tree, error) {
	if item.Inner.Module == nil {
		return nil, &MalformedGraphError{ID: id, Want: rustdoc.KindModule, Got: item.Kind()}
	}

	tree := &Tree{
		Name:    path[len(path)-1],
		Package: b.pkg,
		Module: &Renderable{
			ID:       id,
			Item:     item,
			Name:     path[len(path)-1],
			Path:     path,
			HTMLPath: layout.HTMLPath(path, rustdoc.KindModule),
			Kind:     rustdoc.KindModule,
		},
	}

	for _, childID := range item.Inner.Module.Items {
		child, ok := b.crate.Item(childID)
		if !ok {
			b.log.Warn("module child not found, skipping",
				"module", strings.Join(path, "::"), "id", childID)
			continue
		}
		if !b.includePrivate && !IsVisible(child, b.crate) {
			continue
		}

		if use := child.Inner.Use; use != nil {
			if use.IsGlob {
				tree.Globs = append(tree.Globs, b.glob(use))
				continue
			}
			if r, ok := b.reexport(childID, child, use, path); ok {
				tree.Items = append(tree.Items, r)
			}
			continue
		}

		childPath := appendPath(path, child.DisplayName())
		if child.Kind() == rustdoc.KindModule {
			sub, err := b.module(childID, child, childPath)
			if err != nil {
				return nil, err
			}
			tree.Children = append(tree.Children, sub)
			continue
		}

		if !layout.HasPage(child.Kind()) {
			continue
		}
		tree.Items = append(tree.Items, Renderable{
			ID:       childID,
			Item:     child,
			Name:     child.DisplayName(),
			Path:     childPath,
			HTMLPath: layout.HTMLPath(childPath, child.Kind()),
			Kind:     child.Kind(),
		})
	}

	sort.SliceStable(tree.Items, func(i, j int) bool {
		a, c := tree.Items[i], tree.Items[j]
		if a.Name != c.Name {
			return a.Name < c.Name
		}
		if a.HTMLPath != c.HTMLPath {
			return a.HTMLPath < c.HTMLPath
		}
		return a.ID < c.ID
	})
	sort.SliceStable(tree.Children, func(i, j int) bool {
		return tree.Children[i].Name < tree.Children[j].Name
	})
	return tree, nil
}

func (b *builder) reexport(id rustdoc.ID, item *rustdoc.Item, use *rustdoc.Use, path []string) (Renderable, bool) {
	if use.ID == nil {
		b.log.Debug("re-export without target, skipping", "source", use.Source)
		return Renderable{}, false
	}
	target := *use.ID
	childPath := appendPath(path, use.Name)

	kind := rustdoc.KindUnknown
	if t, ok := b.crate.Item(target); ok {
		kind = t.Kind()
	} else if s, ok := b.crate.Summary(target); ok {
		kind = s.Kind
	}

	r := Renderable{
		ID:     id,
		Item:   item,
		Name:   use.Name,
		Path:   childPath,
		Kind:   kind,
		Target: &target,
	}
	if kind == rustdoc.KindModule {
		r.Pointer = true
		return r, true
	}
	r.HTMLPath = layout.HTMLPath(childPath, kind)
	return r, true
}

func (b *builder) glob(use *rustdoc.Use) GlobReexport {
	g := GlobReexport{Source: use.Source}
	if use.ID != nil {
		target := *use.ID
		g.Target = &target
		if t, ok := b.crate.Item(target); ok && t.Kind() == rustdoc.KindModule {
			g.Local = true
			g.TargetPackage = b.pkg
			return g
		}
		if s, ok := b.crate.Summary(target); ok {
			g.TargetPackage = b.crate.ExternalCrateName(s.CrateID)
			if g.TargetPackage == "" && len(s.Path) > 0 {
				g.TargetPackage = s.Path[0]
			}
		}
	}
	if g.TargetPackage == "" {
		g.TargetPackage, _, _ = strings.Cut(strings.TrimPrefix(use.Source, "::"), "::")
	}
	return g
}

func appendPath(path []string, name string) []string {
	out := make([]string, len(path), len(path)+1)
	copy(out, path)
	return append(out, name)
}

// IsVisible reports whether an item belongs in the public tree. Modules are
// always visible. Re-exports inherit the visibility of their target, and a
// target outside this crate's index is assumed visible.
func IsVisible(item *rustdoc.Item, crate *rustdoc.Crate) bool {
	switch item.Kind() {
	case rustdoc.KindModule:
		return true
	case rustdoc.KindUse:
		use := item.Inner.Use
		if use == nil || use.ID == nil {
			return true
		}
		target, ok := crate.Item(*use.ID)
		if !ok {
			return true
		}
		if target.Kind() == rustdoc.KindModule {
			return true
		}
		return target.Visibility.IsPublic()
	}
	return item.Visibility.IsPublic()
}

// Reexports maps each re-exported target ID to the path of the first
// re-export found, searching each module's items before its children.
func Reexports(tree *Tree) map[rustdoc.ID][]string {
	out := make(map[rustdoc.ID][]string)
	var walk func(t *Tree)
	walk = func(t *Tree) {
		for _, it := range t.Items {
			if it.Target == nil {
				continue
			}
			if _, seen := out[*it.Target]; !seen {
				out[*it.Target] = it.Path
			}
		}
		for _, c := range t.Children {
			walk(c)
		}
	}
	walk(tree)
	return out
}

// Find returns the subtree for a module path, or nil.
func Find(tree *Tree, path []string) *Tree {
	if len(path) == 0 {
		return nil
	}
	if tp := tree.Path(); len(tp) == len(path) && strings.Join(tp, "::") == strings.Join(path, "::") {
		return tree
	}
	for _, c := range tree.Children {
		if cp := c.Path(); len(cp) <= len(path) && cp[len(cp)-1] == path[len(cp)-1] {
			if found := Find(c, path); found != nil {
				return found
			}
		}
	}
	return nil
}
