package esil

import (
	"strings"
	"testing"
)

func TestControl(t *testing.T) {
	tests := []struct {
		atom string
		want ControlKind
	}{
		{"?{", CtrlIf},
		{"}{", CtrlElse},
		{"}", CtrlFi},
		{"BREAK", CtrlBreak},
		{"GOTO", CtrlGoto},
		{"{", CtrlNone},
		{"goto", CtrlNone},
		{"", CtrlNone},
	}
	for _, tt := range tests {
		t.Run(tt.want.String()+"/"+tt.atom, func(t *testing.T) {
			if got := Control(tt.atom); got != tt.want {
				t.Errorf("Control(%q) = %v, want %v", tt.atom, got, tt.want)
			}
		})
	}
}

func TestDefaultOps(t *testing.T) {
	ops := DefaultOps()

	tests := []struct {
		atom    string
		push    int
		pop     int
		control bool
		typ     OpType
	}{
		{"GOTO", 0, 1, true, TypeControlFlow},
		{"?{", 0, 1, true, TypeControlFlow},
		{"=", 0, 2, false, TypeRegWrite},
		{"+=", 0, 2, false, TypeMath | TypeRegWrite},
		{"+", 1, 2, false, TypeMath},
		{"[8]", 1, 1, false, TypeMemRead},
		{"=[4]", 0, 2, false, TypeMemWrite},
		{"$z", 1, 0, false, TypeUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.atom, func(t *testing.T) {
			op, ok := ops.Lookup(tt.atom)
			if !ok {
				t.Fatalf("Lookup(%q) missing", tt.atom)
			}
			if op.Push != tt.push || op.Pop != tt.pop {
				t.Errorf("%q push/pop = %d/%d, want %d/%d", tt.atom, op.Push, op.Pop, tt.push, tt.pop)
			}
			if op.IsControlFlow() != tt.control {
				t.Errorf("%q IsControlFlow() = %v", tt.atom, op.IsControlFlow())
			}
			if op.Type != tt.typ {
				t.Errorf("%q type = %b, want %b", tt.atom, op.Type, tt.typ)
			}
		})
	}

	for _, atom := range []string{"", "rax", "0x10", "NOPE"} {
		if _, ok := ops.Lookup(atom); ok {
			t.Errorf("Lookup(%q) should miss", atom)
		}
	}
}

func TestTableSet(t *testing.T) {
	ops := Table{}
	ops.Set("JMP", 0, 1, TypeControlFlow)
	op, ok := ops.Lookup("JMP")
	if !ok || op.Name != "JMP" || !op.IsControlFlow() {
		t.Fatalf("Lookup(JMP) = %+v, %v", op, ok)
	}
	ops.Set("JMP", 0, 0, TypeUnknown)
	if op, _ := ops.Lookup("JMP"); op.IsControlFlow() {
		t.Error("Set did not replace the operator")
	}
}

func TestLookupProfile(t *testing.T) {
	tests := []struct {
		arch string
		pc   string
		reg  string
	}{
		{"x86", "eip", "eax"},
		{"x86_64", "rip", "r15"},
		{"X86_64", "rip", "rax"},
		{"arm64", "pc", "x30"},
		{"mips", "pc", "a3"},
		{"riscv", "pc", "s11"},
		{"ws", "pc", "sp"},
	}
	for _, tt := range tests {
		t.Run(tt.arch, func(t *testing.T) {
			p, err := LookupProfile(tt.arch)
			if err != nil {
				t.Fatalf("LookupProfile(%q) error = %v", tt.arch, err)
			}
			if p.PC() != tt.pc {
				t.Errorf("PC() = %q, want %q", p.PC(), tt.pc)
			}
			if !p.IsRegister(tt.pc) || !p.IsRegister(tt.reg) {
				t.Errorf("%s should know %q and %q", tt.arch, tt.pc, tt.reg)
			}
			if p.IsRegister("0x10") || p.IsRegister("") {
				t.Error("literals are not registers")
			}
		})
	}

	_, err := LookupProfile("z80")
	if err == nil || !strings.Contains(err.Error(), "x86_64") {
		t.Errorf("unknown arch error = %v, want list of known profiles", err)
	}
}

func TestProfileRegisters(t *testing.T) {
	p := NewProfile("toy", "ip", "b", "a")
	got := strings.Join(p.Registers(), ",")
	if got != "a,b,ip" {
		t.Errorf("Registers() = %q, want sorted a,b,ip", got)
	}
	names := ProfileNames()
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Fatalf("ProfileNames() not sorted: %v", names)
		}
	}
}
