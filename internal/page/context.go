package page

import (
	"strings"

	"github.com/jcdickinson/ferrisdoc/internal/impls"
	"github.com/jcdickinson/ferrisdoc/internal/layout"
	"github.com/jcdickinson/ferrisdoc/internal/links"
	"github.com/jcdickinson/ferrisdoc/internal/markdown"
	"github.com/jcdickinson/ferrisdoc/internal/modtree"
	"github.com/jcdickinson/ferrisdoc/internal/rustdoc"
)

// BuildContext is the read-only state a page is rendered against. It is
// passed by value so that each page can carry its own depth.
type BuildContext struct {
	Crate   *rustdoc.Crate
	Package string
	Impls   *impls.Index

	// Tree is the package's module tree.
	Tree *modtree.Tree
	// Reexports maps local items to the path they are publicly re-exported at.
	Reexports map[rustdoc.ID][]string

	// Site is the synthetic root over every package, used for navigation.
	Site  *modtree.Tree
	Links *links.Resolver

	// Depth is the directory depth of the page being rendered.
	Depth int

	// ExternalBaseURL, if set, is used to link items of crates that were
	// not loaded, docs.rs style: <base>/<crate>/latest/<page>.
	ExternalBaseURL string
}

// NewBuildContext prepares the context for one package.
func NewBuildContext(g rustdoc.Graph, tree *modtree.Tree, site *modtree.Tree, resolver *links.Resolver) BuildContext {
	return BuildContext{
		Crate:     g.Crate,
		Package:   g.Name,
		Impls:     impls.Build(g.Crate),
		Tree:      tree,
		Reexports: modtree.Reexports(tree),
		Site:      site,
		Links:     resolver,
	}
}

// At returns a copy of the context for a page at depth.
func (c BuildContext) At(depth int) BuildContext {
	c.Depth = depth
	return c
}

// Root is the relative prefix from the current page to the output root.
func (c BuildContext) Root() string { return layout.ToRoot(c.Depth) }

// URLFor returns the URL of an item's documentation relative to the
// current page.
func (c BuildContext) URLFor(id rustdoc.ID) (string, bool) {
	if s, ok := c.Crate.Summary(id); ok {
		if s.Kind == rustdoc.KindVariant {
			return c.variantURL(s)
		}
		if s.CrateID == 0 {
			if p, ok := c.Reexports[id]; ok && s.Kind != rustdoc.KindModule {
				return layout.URL(p, s.Kind, c.Depth)
			}
			return layout.URL(s.Path, s.Kind, c.Depth)
		}
		return c.externalURL(s)
	}

	item, ok := c.Crate.Item(id)
	if !ok {
		return "", false
	}
	return c.memberURL(id, item)
}

func (c BuildContext) variantURL(s rustdoc.Summary) (string, bool) {
	if len(s.Path) < 2 {
		return "", false
	}
	enum := rustdoc.Summary{CrateID: s.CrateID, Path: s.Path[:len(s.Path)-1], Kind: rustdoc.KindEnum}
	var (
		base string
		ok   bool
	)
	if s.CrateID == 0 {
		base, ok = layout.URL(enum.Path, rustdoc.KindEnum, c.Depth)
	} else {
		base, ok = c.externalURL(enum)
	}
	if !ok {
		return "", false
	}
	return base + "#variant." + s.Path[len(s.Path)-1], true
}

func (c BuildContext) externalURL(s rustdoc.Summary) (string, bool) {
	if c.Links != nil && c.Links.Index != nil {
		if loc, ok := c.Links.Index.Lookup(strings.Join(s.Path, "::")); ok {
			return loc.URL(c.Depth), true
		}
	}
	page := layout.HTMLPath(s.Path, s.Kind)
	if page == "" {
		return "", false
	}
	if ext, ok := c.Crate.ExternalCrates[s.CrateID]; ok && ext.HTMLRootURL != "" {
		return strings.TrimSuffix(ext.HTMLRootURL, "/") + "/" + page, true
	}
	if c.ExternalBaseURL != "" && len(s.Path) > 0 {
		return strings.TrimSuffix(c.ExternalBaseURL, "/") + "/" + s.Path[0] + "/latest/" + page, true
	}
	return "", false
}

// memberURL links associated items to an anchor on their owner's page.
func (c BuildContext) memberURL(id rustdoc.ID, item *rustdoc.Item) (string, bool) {
	name := item.DisplayName()
	if name == "" {
		return "", false
	}

	var (
		owner rustdoc.ID
		ok    bool
	)
	if c.Impls != nil {
		owner, ok = c.Impls.Owner(id)
	}
	if !ok {
		owner, ok = c.traitOwner(id)
	}
	if !ok {
		return "", false
	}
	base, ok := c.URLFor(owner)
	if !ok {
		return "", false
	}
	base, _, _ = strings.Cut(base, "#")
	return base + "#" + memberAnchor(item) + name, true
}

func (c BuildContext) traitOwner(id rustdoc.ID) (rustdoc.ID, bool) {
	var (
		best  rustdoc.ID
		found bool
	)
	for traitID, it := range c.Crate.Index {
		tr := it.Inner.Trait
		if tr == nil {
			continue
		}
		for _, member := range tr.Items {
			if member == id && (!found || traitID < best) {
				best, found = traitID, true
			}
		}
	}
	return best, found
}

func memberAnchor(item *rustdoc.Item) string {
	switch item.Kind() {
	case rustdoc.KindAssocConst:
		return "associatedconstant."
	case rustdoc.KindAssocType:
		return "associatedtype."
	case rustdoc.KindStructField:
		return "structfield."
	case rustdoc.KindVariant:
		return "variant."
	}
	return "method."
}

// DocLinks prepares link resolution for an item's documentation.
func (c BuildContext) DocLinks(item *rustdoc.Item) markdown.Links {
	l := markdown.Links{Resolve: c.resolvePath}
	if item == nil || len(item.Links) == 0 {
		return l
	}
	l.Known = make(map[string]string, len(item.Links))
	for text, id := range item.Links {
		if url, ok := c.URLFor(id); ok {
			l.Known[text] = url
		}
	}
	return l
}

func (c BuildContext) resolvePath(path string) (string, bool) {
	if c.Links == nil {
		return "", false
	}
	return c.Links.Resolve(path, c.Package, c.Depth)
}
