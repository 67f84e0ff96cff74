package esil

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// RegisterSet answers register questions for one architecture
type RegisterSet interface {
	// IsRegister reports whether name is a machine register
	IsRegister(name string) bool
	// PC returns the name of the program counter register
	PC() string
}

// Profile is a static register profile
type Profile struct {
	Name string
	pc   string
	regs map[string]struct{}
}

// NewProfile creates a profile from a program counter name and register names
func NewProfile(name, pc string, regs ...string) *Profile {
	p := &Profile{
		Name: name,
		pc:   pc,
		regs: make(map[string]struct{}, len(regs)+1),
	}
	p.regs[pc] = struct{}{}
	for _, r := range regs {
		p.regs[r] = struct{}{}
	}
	return p
}

// IsRegister implements RegisterSet
func (p *Profile) IsRegister(name string) bool {
	_, ok := p.regs[name]
	return ok
}

// PC implements RegisterSet
func (p *Profile) PC() string {
	return p.pc
}

// Registers returns the sorted register names
func (p *Profile) Registers() []string {
	out := make([]string, 0, len(p.regs))
	for r := range p.regs {
		out = append(out, r)
	}
	sort.Strings(out)
	return out
}

func numbered(prefix string, from, to int) []string {
	out := make([]string, 0, to-from+1)
	for i := from; i <= to; i++ {
		out = append(out, prefix+strconv.Itoa(i))
	}
	return out
}

var profiles = map[string]func() *Profile{
	"x86": func() *Profile {
		return NewProfile("x86", "eip",
			"eax", "ebx", "ecx", "edx", "esi", "edi", "esp", "ebp",
			"ax", "bx", "cx", "dx", "si", "di", "sp", "bp",
			"al", "ah", "bl", "bh", "cl", "ch", "dl", "dh",
			"eflags", "cf", "pf", "af", "zf", "sf", "tf", "if", "df", "of")
	},
	"x86_64": func() *Profile {
		regs := []string{
			"rax", "rbx", "rcx", "rdx", "rsi", "rdi", "rsp", "rbp",
			"eax", "ebx", "ecx", "edx", "esi", "edi", "esp", "ebp",
			"ax", "bx", "cx", "dx", "al", "bl", "cl", "dl",
			"rflags", "cf", "pf", "af", "zf", "sf", "tf", "if", "df", "of",
		}
		regs = append(regs, numbered("r", 8, 15)...)
		return NewProfile("x86_64", "rip", regs...)
	},
	"arm64": func() *Profile {
		regs := append(numbered("x", 0, 30), numbered("w", 0, 30)...)
		regs = append(regs, "sp", "fp", "lr", "xzr", "wzr", "nf", "zf", "cf", "vf")
		return NewProfile("arm64", "pc", regs...)
	},
	"mips": func() *Profile {
		regs := []string{"zero", "at", "v0", "v1", "gp", "sp", "fp", "ra", "hi", "lo", "t8", "t9", "k0", "k1"}
		regs = append(regs, numbered("a", 0, 3)...)
		regs = append(regs, numbered("t", 0, 7)...)
		regs = append(regs, numbered("s", 0, 7)...)
		return NewProfile("mips", "pc", regs...)
	},
	"riscv": func() *Profile {
		regs := []string{"zero", "ra", "sp", "gp", "tp", "fp"}
		regs = append(regs, numbered("x", 0, 31)...)
		regs = append(regs, numbered("a", 0, 7)...)
		regs = append(regs, numbered("t", 0, 6)...)
		regs = append(regs, numbered("s", 0, 11)...)
		return NewProfile("riscv", "pc", regs...)
	},
	// whitespace VM: a program counter and the value stack pointer
	"ws": func() *Profile {
		return NewProfile("ws", "pc", "sp", "bp")
	},
}

// LookupProfile returns the built-in profile for an architecture name
func LookupProfile(arch string) (*Profile, error) {
	mk, ok := profiles[strings.ToLower(arch)]
	if !ok {
		return nil, fmt.Errorf("unknown architecture %q (known: %s)", arch, strings.Join(ProfileNames(), ", "))
	}
	return mk(), nil
}

// ProfileNames lists the built-in profiles
func ProfileNames() []string {
	names := make([]string, 0, len(profiles))
	for n := range profiles {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
