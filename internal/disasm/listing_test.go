package disasm

import (
	"errors"
	"strings"
	"testing"
)

func TestReadListing(t *testing.T) {
	in := `# two instructions
0x1000 2 1,rax,=  mov
4098   3 zf,?{,0x40,rip,=,} cjmp   # branch

0x1005 1 ,
`
	ops, err := ReadListing(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadListing: %v", err)
	}
	want := Stream{
		{Addr: 0x1000, Size: 2, Esil: "1,rax,=", Type: OpMov},
		{Addr: 0x1002, Size: 3, Esil: "zf,?{,0x40,rip,=,}", Type: OpCJmp},
		{Addr: 0x1005, Size: 1, Esil: ","},
	}
	if len(ops) != len(want) {
		t.Fatalf("got %d ops, want %d", len(ops), len(want))
	}
	for i := range want {
		if ops[i] != want[i] {
			t.Errorf("op %d = %+v, want %+v", i, ops[i], want[i])
		}
	}
	if got := ops[1].Next(); got != 0x1005 {
		t.Errorf("Next() = 0x%x, want 0x1005", got)
	}
}

func TestReadListingErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"too few fields", "0x1000 2\n"},
		{"too many fields", "0x1000 2 a,b,= mov extra\n"},
		{"bad address", "zz 2 a,b,=\n"},
		{"bad size", "0x1000 -1 a,b,=\n"},
		{"huge size", "0x1000 2147483648 a,b,=\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadListing(strings.NewReader(tt.in))
			if !errors.Is(err, ErrBadListing) {
				t.Fatalf("err = %v, want ErrBadListing", err)
			}
		})
	}
}

func TestReadJSON(t *testing.T) {
	in := `[
  {"addr":4096,"size":2,"esil":"1,rax,=","type":"mov","opcode":"mov rax, 1"},
  {"addr":4098,"size":2,"esil":"zf,?{,4112,rip,=,}","type":"cjmp","jump":4112,"fail":4100},
  {"addr":"0x1004","size":1,"type":"invalid"}
]`
	ops, err := ReadJSON([]byte(in))
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	want := Stream{
		{Addr: 0x1000, Size: 2, Esil: "1,rax,=", Type: OpMov},
		{Addr: 0x1002, Size: 2, Esil: "zf,?{,4112,rip,=,}", Type: OpCJmp, Jump: 0x1010, Fail: 0x1004},
		{Addr: 0x1004, Size: 1, Type: OpIll},
	}
	if len(ops) != len(want) {
		t.Fatalf("got %d ops, want %d", len(ops), len(want))
	}
	for i := range want {
		if ops[i] != want[i] {
			t.Errorf("op %d = %+v, want %+v", i, ops[i], want[i])
		}
	}
}

func TestReadJSONErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"not an array", `{"addr":1}`},
		{"not an object", `[1]`},
		{"missing addr", `[{"size":1,"esil":""}]`},
		{"negative size", `[{"addr":1,"size":-1}]`},
		{"huge size", `[{"addr":1,"size":4294967298}]`},
		{"bool jump", `[{"addr":1,"size":1,"jump":true}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON([]byte(tt.in))
			if !errors.Is(err, ErrBadListing) {
				t.Fatalf("err = %v, want ErrBadListing", err)
			}
		})
	}
}

func TestParseOpType(t *testing.T) {
	tests := map[string]OpType{
		"nop":     OpNop,
		"CJMP":    OpCJmp,
		"upush":   OpUPush,
		"rjmp":    OpUJmp,
		"invalid": OpIll,
		"wat":     OpUnknown,
	}
	for in, want := range tests {
		if got := ParseOpType(in); got != want {
			t.Errorf("ParseOpType(%q) = %v, want %v", in, got, want)
		}
	}
	if OpType(999).String() != "unk" {
		t.Errorf("out of range type should print unk")
	}
}

func TestDecoderFor(t *testing.T) {
	d, err := DecoderFor(FormatAuto, "prog.JSON")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := d.(JSONDecoder); !ok {
		t.Errorf("auto on .json = %T, want JSONDecoder", d)
	}
	d, _ = DecoderFor(FormatAuto, "prog.txt")
	if _, ok := d.(ListingDecoder); !ok {
		t.Errorf("auto on .txt = %T, want ListingDecoder", d)
	}
	if _, err := DecoderFor("xml", ""); err == nil {
		t.Error("expected error for unknown format")
	}
}
