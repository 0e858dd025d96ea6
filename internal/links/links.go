// Package links resolves intra-doc path references to relative page URLs.
package links

import (
	"sort"
	"strings"
	"unicode"

	"github.com/jcdickinson/ferrisdoc/internal/layout"
	"github.com/jcdickinson/ferrisdoc/internal/rustdoc"
)

// Location is where an item's page lives.
type Location struct {
	Package string
	Path    []string
	Kind    rustdoc.Kind
}

// URL returns the location's URL relative to a page at depth. A package
// root resolves to <pkg>/index.html.
func (l Location) URL(depth int) string {
	if len(l.Path) <= 1 {
		return layout.ToRoot(depth) + l.Package + "/index.html"
	}
	u, ok := layout.URL(l.Path, l.Kind, depth)
	if !ok {
		return layout.ToRoot(depth) + layout.HTMLPath(l.Path, rustdoc.KindModule)
	}
	return u
}

// GlobalIndex maps joined paths ("a::b::C") to page locations across every
// loaded package.
type GlobalIndex struct {
	Items map[string]Location
}

// BuildGlobalIndex indexes the local items of each graph. When two graphs
// define the same path the earlier graph wins.
func BuildGlobalIndex(graphs []rustdoc.Graph) *GlobalIndex {
	idx := &GlobalIndex{Items: make(map[string]Location)}
	for _, g := range graphs {
		ids := make([]rustdoc.ID, 0, len(g.Crate.Paths))
		for id, s := range g.Crate.Paths {
			if s.CrateID == 0 && len(s.Path) > 0 && layout.HasPage(s.Kind) {
				ids = append(ids, id)
			}
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

		for _, id := range ids {
			s := g.Crate.Paths[id]
			key := strings.Join(s.Path, "::")
			if _, dup := idx.Items[key]; dup {
				continue
			}
			idx.Items[key] = Location{Package: g.Name, Path: s.Path, Kind: s.Kind}
		}
	}
	return idx
}

// Lookup returns the location of a fully qualified path.
func (idx *GlobalIndex) Lookup(path string) (Location, bool) {
	loc, ok := idx.Items[path]
	return loc, ok
}

// Resolver turns scoped paths from doc comments into URLs.
type Resolver struct {
	Index *GlobalIndex
}

// NewResolver returns a resolver over idx.
func NewResolver(idx *GlobalIndex) *Resolver {
	return &Resolver{Index: idx}
}

var keywords = map[string]bool{
	"self": true, "Self": true, "true": true, "false": true,
	"None": true, "Some": true, "Ok": true, "Err": true,
}

// IsPath reports whether s looks like a Rust path rather than a URL.
func IsPath(s string) bool {
	if s == "" || strings.ContainsAny(s, "/#") || strings.TrimSpace(s) == "" {
		return false
	}
	if keywords[s] {
		return false
	}
	_, p := stripDisambiguator(s)
	if p == "" {
		return false
	}
	first := rune(p[0])
	if first != '_' && first != ':' && !isASCIILetter(first) {
		return false
	}
	for _, r := range p {
		if r != '_' && r != ':' && !isASCIILetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

type kindFilter func(rustdoc.Kind) bool

func only(kinds ...rustdoc.Kind) kindFilter {
	return func(k rustdoc.Kind) bool {
		for _, want := range kinds {
			if k == want {
				return true
			}
		}
		return false
	}
}

var macroKinds = only(rustdoc.KindMacro, rustdoc.KindProcMacro, rustdoc.KindProcAttribute, rustdoc.KindProcDerive)

var disambiguators = []struct {
	prefix string
	filter kindFilter
}{
	{"struct@", only(rustdoc.KindStruct)},
	{"enum@", only(rustdoc.KindEnum)},
	{"trait@", only(rustdoc.KindTrait)},
	{"union@", only(rustdoc.KindUnion)},
	{"mod@", only(rustdoc.KindModule)},
	{"module@", only(rustdoc.KindModule)},
	{"fn@", only(rustdoc.KindFunction)},
	{"function@", only(rustdoc.KindFunction)},
	{"method@", only(rustdoc.KindFunction)},
	{"tymethod@", only(rustdoc.KindFunction)},
	{"const@", only(rustdoc.KindConstant)},
	{"constant@", only(rustdoc.KindConstant)},
	{"static@", only(rustdoc.KindStatic)},
	{"type@", only(rustdoc.KindTypeAlias, rustdoc.KindStruct, rustdoc.KindEnum, rustdoc.KindUnion, rustdoc.KindTrait)},
	{"value@", only(rustdoc.KindFunction, rustdoc.KindConstant, rustdoc.KindStatic)},
	{"macro@", macroKinds},
	{"derive@", only(rustdoc.KindProcDerive, rustdoc.KindMacro)},
	{"attr@", only(rustdoc.KindProcAttribute, rustdoc.KindMacro)},
}

func stripDisambiguator(s string) (kindFilter, string) {
	for _, d := range disambiguators {
		if rest, ok := strings.CutPrefix(s, d.prefix); ok {
			return d.filter, rest
		}
	}
	// Suffix forms: `foo()` and `foo!`.
	if rest, ok := strings.CutSuffix(s, "()"); ok {
		return only(rustdoc.KindFunction), rest
	}
	if rest, ok := strings.CutSuffix(s, "!"); ok {
		return macroKinds, rest
	}
	return nil, s
}

// Resolve returns the URL of path relative to a page at depth within
// currentPkg. It reports false when nothing matches.
func (r *Resolver) Resolve(path, currentPkg string, depth int) (string, bool) {
	loc, ok := r.Locate(path, currentPkg)
	if !ok {
		return "", false
	}
	return loc.URL(depth), true
}

// Locate finds the page location of path. The first matching attempt wins:
// exact path, then relative to currentPkg, then for multi-segment paths
// without the current package prefix, std mapped onto core and the
// first::last shortcut, and finally for a capitalized single identifier the
// shallowest item with that name.
func (r *Resolver) Locate(path, currentPkg string) (Location, bool) {
	if r == nil || r.Index == nil || !IsPath(path) {
		return Location{}, false
	}
	filter, p := stripDisambiguator(path)
	if rest, ok := strings.CutPrefix(p, "crate::"); ok {
		p = currentPkg + "::" + rest
	} else if strings.HasPrefix(p, "::") {
		p = currentPkg + "::" + strings.TrimLeft(p, ":")
	}

	get := func(key string) (Location, bool) {
		loc, ok := r.Index.Items[key]
		if !ok || (filter != nil && !filter(loc.Kind)) {
			return Location{}, false
		}
		return loc, true
	}

	if loc, ok := get(p); ok {
		return loc, true
	}
	if currentPkg != "" {
		if loc, ok := get(currentPkg + "::" + p); ok {
			return loc, true
		}
	}

	segs := strings.Split(p, "::")
	if len(segs) >= 2 {
		if rest, ok := strings.CutPrefix(p, currentPkg+"::"); ok && currentPkg != "" {
			if loc, ok := get(rest); ok {
				return loc, true
			}
		}
		if rest, ok := strings.CutPrefix(p, "std::"); ok {
			if loc, ok := get("core::" + rest); ok {
				return loc, true
			}
			if loc, ok := get("alloc::" + rest); ok {
				return loc, true
			}
		}
		if len(segs) > 2 {
			if loc, ok := get(segs[0] + "::" + segs[len(segs)-1]); ok {
				return loc, true
			}
		}
		return Location{}, false
	}

	if !unicode.IsUpper(rune(p[0])) {
		return Location{}, false
	}
	return r.shallowest(p, filter)
}

func (r *Resolver) shallowest(name string, filter kindFilter) (Location, bool) {
	var (
		best    Location
		bestKey string
		found   bool
	)
	suffix := "::" + name
	for key, loc := range r.Index.Items {
		if !strings.HasSuffix(key, suffix) || (filter != nil && !filter(loc.Kind)) {
			continue
		}
		if !found || len(loc.Path) < len(best.Path) ||
			(len(loc.Path) == len(best.Path) && key < bestKey) {
			best, bestKey, found = loc, key, true
		}
	}
	return best, found
}
