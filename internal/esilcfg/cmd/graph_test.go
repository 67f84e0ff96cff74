package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

const listing = `# cmp + je
0x1000 3 rbx,rax,==,$z,zf,:=  cmp
0x1003 2 zf,?{,0x1010,rip,=,}  cjmp
0x1005 3 1,rcx,=               mov
`

func runTestGraph(t *testing.T, conf Config, src source) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetErr(&out)
	err := runGraph(cmd, conf, src, &out)
	return out.String(), err
}

func TestRunGraphListing(t *testing.T) {
	conf := DefaultConfig()
	out, err := runTestGraph(t, conf, source{name: "prog.txt", r: strings.NewReader(listing)})
	if err != nil {
		t.Fatalf("runGraph() error = %v", err)
	}
	for _, want := range []string{
		"; prog.txt",
		"0x1003,rip,:=,",
		"zf,?{,",
		"0x1010,rip,=,",
		"1,rcx,=,",
		"(end)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunGraphMerge(t *testing.T) {
	conf := DefaultConfig()
	plain, err := runTestGraph(t, conf, source{name: "prog.txt", r: strings.NewReader(listing)})
	if err != nil {
		t.Fatal(err)
	}
	conf.Merge = true
	merged, err := runTestGraph(t, conf, source{name: "prog.txt", r: strings.NewReader(listing)})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Count(merged, "\nn") >= strings.Count(plain, "\nn") {
		t.Errorf("merge did not reduce the block count:\n%s\n---\n%s", plain, merged)
	}
}

func TestRunGraphExpr(t *testing.T) {
	tests := []struct {
		name   string
		conf   func(*Config)
		expr   string
		want   []string
		skip   []string
		errIs  error
		errAny bool
	}{
		{
			name: "text",
			expr: "zf,?{,1,rax,=,}",
			conf: func(c *Config) { c.Addr = "0x400" },
			want: []string{"[0x400:0..0x400:1]", "1,rax,=,"},
			skip: []string{"; expr"},
		},
		{
			name: "dot",
			expr: "zf,?{,1,rax,=,}",
			conf: func(c *Config) { c.Format = "dot" },
			want: []string{"digraph", "->"},
		},
		{
			name: "markdown",
			expr: "1,rax,=",
			conf: func(c *Config) { c.Format = "markdown" },
			want: []string{"# ESIL control flow graph", "```esil"},
			skip: []string{"# expr"},
		},
		{
			name: "check passes",
			expr: "zf,?{,1,rax,=,}",
			conf: func(c *Config) { c.Check = true },
			want: []string{"; check: no findings"},
		},
		{
			name:  "check fails on unreachable end",
			expr:  "rax,GOTO",
			conf:  func(c *Config) { c.Check = true },
			want:  []string{"unresolved-goto", "end-unreachable"},
			errIs: errCheckFailed,
		},
		{
			name:   "bad arch",
			expr:   "1",
			conf:   func(c *Config) { c.Arch = "z80" },
			errAny: true,
		},
		{
			name:   "bad address",
			expr:   "1",
			conf:   func(c *Config) { c.Addr = "here" },
			errAny: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conf := DefaultConfig()
			tt.conf(&conf)
			out, err := runTestGraph(t, conf, source{name: "expr", expr: tt.expr})
			switch {
			case tt.errIs != nil:
				if !errors.Is(err, tt.errIs) {
					t.Fatalf("err = %v, want %v", err, tt.errIs)
				}
			case tt.errAny:
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			case err != nil:
				t.Fatalf("runGraph() error = %v", err)
			}
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q:\n%s", want, out)
				}
			}
			for _, skip := range tt.skip {
				if strings.Contains(out, skip) {
					t.Errorf("output has %q:\n%s", skip, out)
				}
			}
		})
	}
}

func TestRunGraphBadListing(t *testing.T) {
	_, err := runTestGraph(t, DefaultConfig(), source{name: "bad.txt", r: strings.NewReader("0x10 zz 1,rax,=\n")})
	if err == nil || !strings.Contains(err.Error(), "bad.txt") {
		t.Fatalf("err = %v, want error naming the file", err)
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "esilcfg.yaml")
	data := "arch: arm64\nformat: dot\nmerge: true\naddr: \"0x8000\"\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	conf, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if conf.Arch != "arm64" || conf.Format != "dot" || !conf.Merge {
		t.Errorf("LoadConfig() = %+v", conf)
	}
	if conf.InputFormat != "auto" {
		t.Errorf("default input format lost: %q", conf.InputFormat)
	}
	addr, err := conf.Address()
	if err != nil || addr != 0x8000 {
		t.Errorf("Address() = 0x%x, %v", addr, err)
	}

	if _, err := LoadConfig(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
	if err := os.WriteFile(path, []byte("arch: [x86\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("expected error for malformed yaml")
	}
}

func TestSchema(t *testing.T) {
	var out bytes.Buffer
	schemaCmd.SetOut(&out)
	if err := schemaCmd.RunE(schemaCmd, nil); err != nil {
		t.Fatal(err)
	}
	var doc map[string]interface{}
	if err := json.Unmarshal(out.Bytes(), &doc); err != nil {
		t.Fatalf("schema is not JSON: %v", err)
	}
	if !strings.Contains(out.String(), "inputFormat") {
		t.Errorf("schema missing inputFormat:\n%s", out.String())
	}
}

func TestModelBuilds(t *testing.T) {
	m := NewModel(nil, DefaultConfig(), source{name: "expr", expr: "zf,?{,1,rax,=,}"})
	if !strings.Contains(m.summaryMarkdown(), "Building graph") {
		t.Errorf("summary before build:\n%s", m.summaryMarkdown())
	}

	msg := buildGraphCmd(m.ctx, m.conf, m.src)()
	next, _ := m.Update(msg)
	m = next.(model)
	if !m.hasGraph() {
		t.Fatalf("model has no graph after build: %v", m.err)
	}
	if got := len(m.blocksList.Items()); got != m.res.CFG.Len() {
		t.Errorf("list has %d items, want %d", got, m.res.CFG.Len())
	}
	if !strings.Contains(m.summaryMarkdown(), "No findings") {
		t.Errorf("summary after build:\n%s", m.summaryMarkdown())
	}

	m.showBlock(m.res.CFG.Start)
	if m.current != m.res.CFG.Start {
		t.Errorf("current = %d, want start", m.current)
	}
	if !strings.Contains(m.View(), "B: blocks") {
		t.Errorf("summary menu missing")
	}
}
