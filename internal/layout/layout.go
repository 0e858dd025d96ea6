// Package layout maps item paths to output files and relative URLs.
//
// A module with path a::b is written to a/b/index.html. Every other page
// lives next to its parent module's index as <prefix>.<Name>.html.
package layout

import (
	"path"
	"strings"

	"github.com/jcdickinson/ferrisdoc/internal/rustdoc"
)

// Prefix returns the filename prefix for a page of the given kind, and
// whether the kind gets a page of its own.
func Prefix(kind rustdoc.Kind) (string, bool) {
	switch kind {
	case rustdoc.KindStruct:
		return "struct.", true
	case rustdoc.KindEnum:
		return "enum.", true
	case rustdoc.KindUnion:
		return "union.", true
	case rustdoc.KindTrait:
		return "trait.", true
	case rustdoc.KindFunction:
		return "fn.", true
	case rustdoc.KindTypeAlias:
		return "type.", true
	case rustdoc.KindConstant:
		return "constant.", true
	case rustdoc.KindStatic:
		return "static.", true
	case rustdoc.KindMacro, rustdoc.KindProcMacro, rustdoc.KindProcAttribute, rustdoc.KindProcDerive:
		return "macro.", true
	}
	return "", false
}

// HasPage reports whether items of this kind are written as pages.
func HasPage(kind rustdoc.Kind) bool {
	if kind == rustdoc.KindModule {
		return true
	}
	_, ok := Prefix(kind)
	return ok
}

// HTMLPath returns the /-separated output path for an item, relative to the
// output root. It returns an empty string for kinds without pages.
func HTMLPath(segments []string, kind rustdoc.Kind) string {
	if len(segments) == 0 {
		return "index.html"
	}
	if kind == rustdoc.KindModule {
		return path.Join(append(append([]string(nil), segments...), "index.html")...)
	}
	prefix, ok := Prefix(kind)
	if !ok {
		return ""
	}
	dirs := segments[:len(segments)-1]
	name := prefix + segments[len(segments)-1] + ".html"
	return path.Join(append(append([]string(nil), dirs...), name)...)
}

// Depth is the number of directories between the output root and the page
// for an item.
func Depth(segments []string, kind rustdoc.Kind) int {
	if kind == rustdoc.KindModule {
		return len(segments)
	}
	if len(segments) == 0 {
		return 0
	}
	return len(segments) - 1
}

// ToRoot returns the relative prefix leading from a page at depth back to
// the output root.
func ToRoot(depth int) string {
	return strings.Repeat("../", depth)
}

// URL returns a URL for an item, relative to a page at depth.
func URL(segments []string, kind rustdoc.Kind, depth int) (string, bool) {
	if len(segments) == 0 {
		return "", false
	}
	p := HTMLPath(segments, kind)
	if p == "" {
		return "", false
	}
	return ToRoot(depth) + p, true
}
