package colorize

import (
	"testing"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
)

func TestTokens(t *testing.T) {
	toks, err := Tokens("zf,?{,0x40,rip,=,$z,}")
	if err != nil {
		t.Fatal(err)
	}
	want := []struct {
		typ chroma.TokenType
		val string
	}{
		{chroma.NameVariable, "zf"},
		{chroma.Punctuation, ","},
		{chroma.Keyword, "?{"},
		{chroma.Punctuation, ","},
		{chroma.LiteralNumberHex, "0x40"},
		{chroma.Punctuation, ","},
		{chroma.NameVariable, "rip"},
		{chroma.Punctuation, ","},
		{chroma.Operator, "="},
		{chroma.Punctuation, ","},
		{chroma.NameBuiltin, "$z"},
		{chroma.Punctuation, ","},
		{chroma.Keyword, "}"},
	}
	var got []chroma.Token
	for _, tok := range toks {
		if tok.Type == chroma.Text && tok.Value == "\n" {
			continue
		}
		got = append(got, tok)
	}
	if len(got) != len(want) {
		t.Fatalf("got %d tokens %v, want %d", len(got), got, len(want))
	}
	for i, w := range want {
		if got[i].Type != w.typ || got[i].Value != w.val {
			t.Errorf("token %d = %s %q, want %s %q", i, got[i].Type, got[i].Value, w.typ, w.val)
		}
	}
}

func TestLexerRegistered(t *testing.T) {
	if lexers.Get("esil") == nil {
		t.Fatal("esil lexer not registered")
	}
}

func TestNoColor(t *testing.T) {
	t.Setenv("ESILCFG_NO_COLOR", "1")
	got, err := ColorizeESIL("1,rax,=")
	if err != nil {
		t.Fatal(err)
	}
	if got != "1,rax,=" {
		t.Errorf("ColorizeESIL with colors off = %q", got)
	}
}

func TestColorizeRoundTrip(t *testing.T) {
	t.Setenv("ESILCFG_NO_COLOR", "")
	in := "1,rax,=\n0x1004,rip,:=,"
	out := ColorizeBlock(in)
	if StripANSI(out) != in {
		t.Errorf("StripANSI(ColorizeBlock(%q)) = %q", in, StripANSI(out))
	}
	if VisibleWidth(out) != len(in) {
		t.Errorf("VisibleWidth = %d, want %d", VisibleWidth(out), len(in))
	}
}
