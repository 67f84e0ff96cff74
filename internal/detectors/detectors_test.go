package detectors

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"esilcfg/internal/analysis"
	"esilcfg/internal/cfg"
	"esilcfg/internal/esil"
)

func build(t *testing.T, expr string) *cfg.CFG {
	t.Helper()
	regs, err := esil.LookupProfile("x86_64")
	if err != nil {
		t.Fatal(err)
	}
	g := cfg.NewGenerator(esil.DefaultOps(), regs, log.New(io.Discard))
	c, err := g.Expr(nil, 0x1000, expr)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func kinds(findings []analysis.Finding) map[string]int {
	out := map[string]int{}
	for _, f := range findings {
		out[f.Kind]++
	}
	return out
}

func TestDefaultChain(t *testing.T) {
	tests := []struct {
		name  string
		expr  string
		want  map[string]int
		worst analysis.Severity
	}{
		{
			name:  "clean branch",
			expr:  "zf,?{,1,rax,=,}",
			want:  map[string]int{},
			worst: analysis.SevInfo,
		},
		{
			name: "unresolved goto",
			expr: "rax,GOTO",
			want: map[string]int{
				analysis.KindUnresolvedGoto: 1,
				analysis.KindDeadEnd:        1,
				analysis.KindEndUnreachable: 1,
			},
			worst: analysis.SevError,
		},
		{
			name: "self loop",
			expr: "0,GOTO",
			want: map[string]int{
				analysis.KindSelfLoop:       1,
				analysis.KindDeadEnd:        1,
				analysis.KindEndUnreachable: 1,
			},
			worst: analysis.SevError,
		},
		{
			name: "conditional loop",
			expr: "rcx,?{,1,rcx,-=,0,GOTO,}",
			want: map[string]int{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := build(t, tt.expr)
			findings := Default().Detect(c, nil)
			got := kinds(findings)
			if len(got) != len(tt.want) {
				t.Fatalf("findings %v, want kinds %v", findings, tt.want)
			}
			for k, n := range tt.want {
				if got[k] != n {
					t.Errorf("%s: got %d findings, want %d (%v)", k, got[k], n, findings)
				}
			}
			if w := analysis.Worst(findings); w != tt.worst {
				t.Errorf("Worst = %v, want %v", w, tt.worst)
			}
		})
	}
}

func TestUnresolvedGotoNode(t *testing.T) {
	c := build(t, "zf,?{,rbx,GOTO,}")
	findings := NewUnresolvedGotoDetector().Detect(c, nil)
	if len(findings) != 1 {
		t.Fatalf("got %d findings, want 1", len(findings))
	}
	f := findings[0]
	if f.At != (cfg.Offset{Addr: 0x1000, Idx: 3}) {
		t.Errorf("At = %v, want 0x1000:3", f.At)
	}
	if f.Node == cfg.None || c.Block(f.Node).Expr != "rbx,GOTO," {
		t.Errorf("finding not tied to the goto block: %v", f)
	}
}

func TestChainKeepsEarlierFindings(t *testing.T) {
	c := build(t, "1,rax,=")
	prior := []analysis.Finding{{Kind: "note", Node: cfg.None}}
	got := Default().Detect(c, prior)
	if len(got) != 1 || got[0].Kind != "note" {
		t.Errorf("chain dropped earlier findings: %v", got)
	}
}
