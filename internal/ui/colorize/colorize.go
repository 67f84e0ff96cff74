package colorize

import (
	"os"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/styles"
)

// Enabled reports whether output should be colored. ESILCFG_NO_COLOR
// disables it.
func Enabled() bool {
	return os.Getenv("ESILCFG_NO_COLOR") == ""
}

// getStyle returns the ESIL style with fallbacks
func getStyle() *chroma.Style {
	candidates := []string{"esil-dark", "dracula", "monokai"}
	for _, name := range candidates {
		if style := styles.Get(name); style != nil && style.Name == name {
			return style
		}
	}
	return styles.Fallback
}

// getTerminalFormatter returns an appropriate terminal formatter
func getTerminalFormatter() chroma.Formatter {
	// Try high-color first, then fallback
	candidates := []string{"terminal16m", "terminal256"}
	for _, name := range candidates {
		if formatter := formatters.Get(name); formatter != nil {
			return formatter
		}
	}
	return formatters.Fallback
}

// ColorizeESIL highlights an ESIL expression for the terminal. The input is
// returned unchanged when colors are disabled or highlighting fails.
func ColorizeESIL(expr string) (string, error) {
	if !Enabled() || expr == "" {
		return expr, nil
	}

	iterator, err := Esil.Tokenise(nil, expr)
	if err != nil {
		return expr, err
	}

	var buf strings.Builder
	if err := getTerminalFormatter().Format(&buf, getStyle(), iterator); err != nil {
		return expr, err
	}
	return buf.String(), nil
}

// ColorizeBlock highlights every line of a block's text and never fails
func ColorizeBlock(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if c, err := ColorizeESIL(line); err == nil {
			lines[i] = c
		}
	}
	return strings.Join(lines, "\n")
}

// Tokens splits an expression into typed tokens. Used by the markdown
// renderer and tests.
func Tokens(expr string) ([]chroma.Token, error) {
	iterator, err := Esil.Tokenise(nil, expr)
	if err != nil {
		return nil, err
	}
	return iterator.Tokens(), nil
}

// StripANSI removes ANSI escape codes
func StripANSI(s string) string {
	var result strings.Builder
	inEscape := false

	for _, r := range s {
		if r == '\x1b' {
			inEscape = true
		} else if inEscape {
			if r == 'm' {
				inEscape = false
			}
		} else {
			result.WriteRune(r)
		}
	}

	return result.String()
}

// VisibleWidth counts the characters of s that are not part of an escape
func VisibleWidth(s string) int {
	return len([]rune(StripANSI(s)))
}
