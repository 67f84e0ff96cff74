// Package esil describes the ESIL operator set and register profiles that the
// CFG builder consults while walking an expression.
package esil

// OpType is a bit set classifying what an operator does
type OpType uint32

const (
	TypeUnknown     OpType = 0
	TypeControlFlow OpType = 1 << iota
	TypeMath
	TypeRegWrite
	TypeMemWrite
	TypeMemRead
	TypeFlag
	TypeCritical
)

// Op is an entry of the operator table
type Op struct {
	Name string
	Push int // values produced
	Pop  int // values consumed
	Type OpType
}

// IsControlFlow reports whether the operator changes control flow
func (o Op) IsControlFlow() bool {
	return o.Type&TypeControlFlow != 0
}

// ControlKind names the control-flow operators the CFG builder understands
type ControlKind int

const (
	CtrlNone ControlKind = iota
	CtrlIf               // ?{
	CtrlElse             // }{
	CtrlFi               // }
	CtrlBreak            // BREAK
	CtrlGoto             // GOTO
)

func (k ControlKind) String() string {
	switch k {
	case CtrlIf:
		return "if"
	case CtrlElse:
		return "else"
	case CtrlFi:
		return "fi"
	case CtrlBreak:
		return "break"
	case CtrlGoto:
		return "goto"
	default:
		return "none"
	}
}

// Control maps an atom to its control kind
func Control(atom string) ControlKind {
	switch atom {
	case "?{":
		return CtrlIf
	case "}{":
		return CtrlElse
	case "}":
		return CtrlFi
	case "BREAK":
		return CtrlBreak
	case "GOTO":
		return CtrlGoto
	}
	return CtrlNone
}

// OpTable resolves atoms to operators
type OpTable interface {
	Lookup(atom string) (Op, bool)
}

// Table is a map backed OpTable
type Table map[string]Op

// Lookup implements OpTable
func (t Table) Lookup(atom string) (Op, bool) {
	if atom == "" {
		return Op{}, false
	}
	op, ok := t[atom]
	return op, ok
}

// Set adds or replaces an operator
func (t Table) Set(name string, push, pop int, typ OpType) {
	t[name] = Op{Name: name, Push: push, Pop: pop, Type: typ}
}

// DefaultOps returns the standard ESIL operator set
func DefaultOps() Table {
	t := make(Table, 160)

	// internal flag getters
	t.Set("$", 0, 1, TypeUnknown)
	t.Set("$z", 1, 0, TypeUnknown)
	t.Set("$c", 1, 1, TypeUnknown)
	t.Set("$b", 1, 1, TypeUnknown)
	t.Set("$p", 1, 0, TypeUnknown)
	t.Set("$s", 1, 1, TypeUnknown)
	t.Set("$o", 1, 1, TypeUnknown)
	t.Set("$ds", 1, 0, TypeUnknown)
	t.Set("$jt", 1, 0, TypeUnknown)
	t.Set("$js", 1, 0, TypeUnknown)
	t.Set("$r", 1, 0, TypeUnknown)
	t.Set("$$", 1, 0, TypeUnknown)

	// comparison and arithmetic
	t.Set("~", 1, 2, TypeMath)
	t.Set("==", 0, 2, TypeMath)
	t.Set("<", 1, 2, TypeMath)
	t.Set("<=", 1, 2, TypeMath)
	t.Set(">", 1, 2, TypeMath)
	t.Set(">=", 1, 2, TypeMath)
	t.Set("!", 1, 1, TypeMath)
	t.Set("L*", 1, 2, TypeMath)
	t.Set("~/", 1, 2, TypeMath)
	for _, name := range []string{"<<", ">>", ">>>>", ">>>", "<<<", "&", "|", "^", "+", "-", "*", "/", "%"} {
		t.Set(name, 1, 2, TypeMath)
		t.Set(name+"=", 0, 2, TypeMath|TypeRegWrite)
	}
	t.Set("!=", 0, 1, TypeMath|TypeRegWrite)
	t.Set("++", 1, 1, TypeMath)
	t.Set("--", 1, 1, TypeMath)
	t.Set("++=", 0, 1, TypeMath|TypeRegWrite)
	t.Set("--=", 0, 1, TypeMath|TypeRegWrite)

	// register writes
	t.Set("=", 0, 2, TypeRegWrite)
	t.Set(":=", 0, 2, TypeRegWrite)

	// memory access
	for _, sz := range []string{"", "1", "2", "4", "8", "16", "*"} {
		t.Set("["+sz+"]", 1, 1, TypeMemRead)
		t.Set("=["+sz+"]", 0, 2, TypeMemWrite)
	}
	for _, name := range []string{"|", "^", "&", "+", "-", "%", "/", "*", "<<", ">>"} {
		for _, sz := range []string{"", "1", "2", "4", "8"} {
			t.Set(name+"=["+sz+"]", 0, 2, TypeMath|TypeMemWrite)
		}
	}
	for _, sz := range []string{"", "1", "2", "4", "8"} {
		t.Set("++=["+sz+"]", 0, 1, TypeMath|TypeMemWrite)
		t.Set("--=["+sz+"]", 0, 1, TypeMath|TypeMemWrite)
	}

	// stack manipulation
	t.Set("STACK", 0, 0, TypeUnknown)
	t.Set("POP", 0, 1, TypeUnknown)
	t.Set("TODO", 0, 0, TypeUnknown)
	t.Set("CLEAR", 0, 0, TypeUnknown)
	t.Set("DUP", 2, 1, TypeUnknown)
	t.Set("NUM", 1, 1, TypeUnknown)
	t.Set("SWAP", 2, 2, TypeUnknown)
	t.Set("PICK", 1, 1, TypeUnknown)
	t.Set("RPICK", 1, 1, TypeUnknown)
	t.Set("TRAP", 0, 0, TypeUnknown)
	t.Set("BITS", 1, 0, TypeUnknown)
	t.Set("SETJT", 0, 1, TypeUnknown)
	t.Set("SETJTS", 0, 1, TypeUnknown)
	t.Set("SETD", 0, 1, TypeUnknown)

	// control flow
	t.Set("?{", 0, 1, TypeControlFlow)
	t.Set("}", 0, 0, TypeControlFlow)
	t.Set("}{", 0, 0, TypeControlFlow)
	t.Set("GOTO", 0, 1, TypeControlFlow)
	t.Set("BREAK", 0, 0, TypeControlFlow)
	t.Set("REPEAT", 0, 2, TypeControlFlow)

	// floating point
	t.Set("NAN", 1, 1, TypeMath)
	for _, name := range []string{"I2D", "S2D", "D2I", "D2F", "F2D", "-F", "CEIL", "FLOOR", "ROUND", "SQRT"} {
		t.Set(name, 1, 1, TypeMath)
	}
	for _, name := range []string{"F+", "F-", "F*", "F/", "F==", "F!=", "F<", "F<="} {
		t.Set(name, 1, 2, TypeMath)
	}

	return t
}
