package colorize

import (
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
)

// EsilDark is the default style for ESIL expressions
var EsilDark = styles.Register(chroma.MustNewStyle("esil-dark", chroma.StyleEntries{
	chroma.Text:       "#FFFFFF",
	chroma.Background: "bg:#1e1e1e",
	chroma.Comment:    "#6A9955",

	// control atoms: ?{ }{ } BREAK GOTO
	chroma.Keyword: "bold #C586C0",

	chroma.NameBuiltin:  "#DCDCAA", // $z $c ... and stack words
	chroma.NameVariable: "#7C9C9D", // registers and flags

	chroma.LiteralNumberHex:     "#FF5F87",
	chroma.LiteralNumberInteger: "#FF5F87",

	chroma.Operator:    "#FFFFFF",
	chroma.Punctuation: "#4F4F4F",
}))
