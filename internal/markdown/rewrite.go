package markdown

import (
	"regexp"
	"strings"

	"github.com/gomarkdown/markdown/ast"
)

var (
	refDefBacktick = regexp.MustCompile("(?m)^[ \t]*\\[`([^`]+)`\\]:")
	refDefPlain    = regexp.MustCompile("(?m)^[ \t]*\\[([^\\]`]+)\\]:")
	shortcutLink   = regexp.MustCompile("\\[`([A-Za-z_][A-Za-z0-9_]*(?:::[A-Za-z_][A-Za-z0-9_]*)*)`\\]")
)

// NormalizeShortcutLinks turns [`a::B`] into [`a::B`](a::B) so the path
// reaches the link rewriters as a destination. References that are already
// links, that are reference definitions, or that have a matching reference
// definition elsewhere in src are left alone.
func NormalizeShortcutLinks(src string) string {
	defined := make(map[string]bool)
	for _, re := range []*regexp.Regexp{refDefBacktick, refDefPlain} {
		for _, m := range re.FindAllStringSubmatch(src, -1) {
			defined[m[1]] = true
		}
	}

	var (
		b    strings.Builder
		last int
	)
	for _, m := range shortcutLink.FindAllStringSubmatchIndex(src, -1) {
		start, end := m[0], m[1]
		path := src[m[2]:m[3]]
		b.WriteString(src[last:start])
		last = end

		var next byte
		if end < len(src) {
			next = src[end]
		}
		if next == '(' || next == '[' || next == ':' || defined[path] {
			b.WriteString(src[start:end])
			continue
		}
		b.WriteString("[`" + path + "`](" + path + ")")
	}
	if last == 0 {
		return src
	}
	b.WriteString(src[last:])
	return b.String()
}

// RewriteLinks replaces link destinations found in linkMap. Keys are
// compared with surrounding backticks removed, matching how rustdoc records
// intra-doc link text. It returns the number of rewritten links.
func RewriteLinks(doc ast.Node, linkMap map[string]string) int {
	if len(linkMap) == 0 {
		return 0
	}
	trimmed := make(map[string]string, len(linkMap))
	for k, v := range linkMap {
		trimmed[strings.Trim(k, "`")] = v
	}

	var n int
	ast.WalkFunc(doc, func(node ast.Node, entering bool) ast.WalkStatus {
		if !entering {
			return ast.GoToNext
		}
		link, ok := node.(*ast.Link)
		if !ok || link.Footnote != nil {
			return ast.GoToNext
		}
		if dest, ok := trimmed[strings.Trim(string(link.Destination), "`")]; ok {
			link.Destination = []byte(dest)
			n++
		}
		return ast.GoToNext
	})
	return n
}
