package signature

import (
	"html"

	"github.com/jcdickinson/ferrisdoc/internal/rustdoc"
)

// Style decides how literal text and resolved names are emitted.
type Style interface {
	// Text renders literal signature text such as keywords and punctuation.
	Text(s string) string
	// Path renders the name of a resolved path.
	Path(name string, id rustdoc.ID) string
}

// Plain renders signatures as plain text.
type Plain struct{}

func (Plain) Text(s string) string                  { return s }
func (Plain) Path(name string, _ rustdoc.ID) string { return name }

// HTML renders escaped signatures with resolved paths hyperlinked.
type HTML struct {
	// Link returns the URL of an item's page, if it has one.
	Link func(rustdoc.ID) (string, bool)
}

func (HTML) Text(s string) string { return html.EscapeString(s) }

func (h HTML) Path(name string, id rustdoc.ID) string {
	if h.Link != nil {
		if url, ok := h.Link(id); ok {
			return `<a href="` + html.EscapeString(url) + `">` + html.EscapeString(name) + `</a>`
		}
	}
	return html.EscapeString(name)
}
