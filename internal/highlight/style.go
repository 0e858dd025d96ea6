package highlight

import (
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
)

// PlainStyle is a minimal syntax highlighting style for Chroma.
// It leaves most text as-is, and fades comments ever so slightly.
var PlainStyle = chroma.MustNewStyle("ferrisdoc-plain", map[chroma.TokenType]string{
	chroma.Comment:    "#666666",
	chroma.Keyword:    "#8959a8",
	chroma.String:     "#718c00",
	chroma.PreWrapper: "bg:#f5f5f5",
	chroma.Background: "bg:#f5f5f5",
})

func init() {
	styles.Register(PlainStyle)
}
