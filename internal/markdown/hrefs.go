package markdown

import (
	"bytes"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/jcdickinson/ferrisdoc/internal/links"
)

// Resolver maps a scoped path to a URL.
type Resolver func(path string) (string, bool)

// ResolveHrefs rewrites anchors in rendered HTML whose href is a Rust path.
// Resolved paths get their URL; anchors that fail to resolve are unwrapped,
// keeping their text. Everything else is copied byte for byte.
func ResolveHrefs(src string, resolve Resolver) string {
	if resolve == nil || !strings.Contains(src, "href") {
		return src
	}

	var (
		out       bytes.Buffer
		unwrapped int
	)
	z := html.NewTokenizer(strings.NewReader(src))
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if z.Err() == io.EOF {
				return out.String()
			}
			// Malformed input; keep what we have plus the remainder.
			out.Write(z.Raw())
			return out.String()

		case html.StartTagToken:
			// Token unescapes attributes in place, clobbering Raw.
			raw := append([]byte(nil), z.Raw()...)
			tok := z.Token()
			i := hrefIndex(tok.Attr)
			if tok.DataAtom != atom.A || i < 0 || !links.IsPath(tok.Attr[i].Val) {
				out.Write(raw)
				continue
			}
			if url, ok := resolve(tok.Attr[i].Val); ok {
				tok.Attr[i].Val = url
				out.WriteString(tok.String())
				continue
			}
			unwrapped++
			continue

		case html.EndTagToken:
			name, _ := z.TagName()
			if unwrapped > 0 && atom.Lookup(name) == atom.A {
				unwrapped--
				continue
			}
		}
		out.Write(z.Raw())
	}
}

func hrefIndex(attrs []html.Attribute) int {
	for i, a := range attrs {
		if a.Namespace == "" && a.Key == "href" {
			return i
		}
	}
	return -1
}
