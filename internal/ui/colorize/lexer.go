package colorize

import (
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
)

// Esil tokenizes comma separated ESIL. Blocks merged into one node are
// separated by newlines.
var Esil = lexers.Register(chroma.MustNewLexer(
	&chroma.Config{
		Name:      "ESIL",
		Aliases:   []string{"esil"},
		Filenames: []string{"*.esil"},
	},
	func() chroma.Rules {
		return chroma.Rules{
			"root": {
				{Pattern: `\s+`, Type: chroma.Text},
				{Pattern: `,`, Type: chroma.Punctuation},
				{Pattern: `\?\{|\}\{|\}|\b(?:BREAK|GOTO|REPEAT)\b`, Type: chroma.Keyword},
				{Pattern: `-?0x[0-9a-fA-F]+\b`, Type: chroma.LiteralNumberHex},
				{Pattern: `-?[0-9]+\b`, Type: chroma.LiteralNumberInteger},
				{Pattern: `\$[a-z$]+[0-9]*`, Type: chroma.NameBuiltin},
				{Pattern: `\b[A-Z][A-Z0-9]+\b`, Type: chroma.NameBuiltin},
				{Pattern: `[a-z_][a-z0-9_.]*`, Type: chroma.NameVariable},
				{Pattern: `[^,\s]+`, Type: chroma.Operator},
			},
		}
	},
))
