package styles

import (
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/x/exp/charmtone"

	"esilcfg/internal/cfg"
)

// Palette shared by the markdown style, the DOT renderer and the TUI
const (
	Foreground = "#D4D4D4"
	Heading    = "#569CD6"
	Comment    = "#6A9955"
	Keyword    = "#C586C0"
	Register   = "#9CDCFE"
	Number     = "#B5CEA8"
	Muted      = "#858585"
)

// Helper functions for style pointers
func boolPtr(b bool) *bool       { return &b }
func stringPtr(s string) *string { return &s }
func uintPtr(u uint) *uint       { return &u }

// EnterColor is the color used for blocks and edges entered with e
func EnterColor(e cfg.Enter) string {
	switch e {
	case cfg.EnterTrue:
		return charmtone.Guac.Hex()
	case cfg.EnterFalse:
		return charmtone.Cheeky.Hex()
	case cfg.EnterGlue:
		return charmtone.Squid.Hex()
	default:
		return charmtone.Malibu.Hex()
	}
}

// GetMarkdownRenderer returns a glamour TermRenderer for CFG reports
func GetMarkdownRenderer(width int) *glamour.TermRenderer {
	r, _ := glamour.NewTermRenderer(
		glamour.WithStyles(GetMarkdownStyle()),
		// Code blocks are preserved by glamour
		glamour.WithWordWrap(width),
	)
	return r
}

// GetMarkdownStyle returns the markdown style configuration. ESIL code
// blocks are highlighted through the registered esil lexer.
func GetMarkdownStyle() ansi.StyleConfig {
	return ansi.StyleConfig{
		Document: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{
				Color: stringPtr(Foreground),
			},
		},
		BlockQuote: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{
				Color:  stringPtr(Comment),
				Italic: boolPtr(true),
			},
			Indent:      uintPtr(1),
			IndentToken: stringPtr("│ "),
		},
		List: ansi.StyleList{
			LevelIndent: 2,
		},
		Heading: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{
				BlockSuffix: "\n",
				Color:       stringPtr(Heading),
				Bold:        boolPtr(true),
			},
		},
		H1: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{
				Prefix:          " ",
				Suffix:          " ",
				Color:           stringPtr(charmtone.Zest.Hex()),
				BackgroundColor: stringPtr(charmtone.Charple.Hex()),
				Bold:            boolPtr(true),
			},
		},
		H2: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{
				Prefix: "## ",
			},
		},
		H3: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{
				Prefix: "### ",
				Color:  stringPtr(charmtone.Guac.Hex()),
			},
		},
		Strong: ansi.StylePrimitive{
			Bold: boolPtr(true),
		},
		Emph: ansi.StylePrimitive{
			Italic: boolPtr(true),
		},
		HorizontalRule: ansi.StylePrimitive{
			Color:  stringPtr(Muted),
			Format: "\n--------\n",
		},
		Item: ansi.StylePrimitive{
			BlockPrefix: "• ",
		},
		Enumeration: ansi.StylePrimitive{
			BlockPrefix: ". ",
		},
		Code: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{
				Color: stringPtr(charmtone.Malibu.Hex()),
			},
		},
		CodeBlock: ansi.StyleCodeBlock{
			StyleBlock: ansi.StyleBlock{
				StylePrimitive: ansi.StylePrimitive{
					Color: stringPtr(Foreground),
				},
				Margin: uintPtr(2),
			},
			Chroma: &ansi.Chroma{
				Text:        ansi.StylePrimitive{Color: stringPtr(Foreground)},
				Keyword:     ansi.StylePrimitive{Color: stringPtr(Keyword), Bold: boolPtr(true)},
				Name:        ansi.StylePrimitive{Color: stringPtr(Register)},
				NameBuiltin: ansi.StylePrimitive{Color: stringPtr(charmtone.Zest.Hex())},
				LiteralNumber: ansi.StylePrimitive{
					Color: stringPtr(Number),
				},
				Operator:    ansi.StylePrimitive{Color: stringPtr(Foreground)},
				Punctuation: ansi.StylePrimitive{Color: stringPtr(Muted)},
				Comment:     ansi.StylePrimitive{Color: stringPtr(Comment)},
			},
		},
		Table: ansi.StyleTable{
			StyleBlock: ansi.StyleBlock{
				StylePrimitive: ansi.StylePrimitive{},
			},
		},
		Text: ansi.StylePrimitive{},
	}
}
