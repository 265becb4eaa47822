package interp

import (
	"errors"
	"testing"

	L "github.com/cs-au-dk/jnames/analysis/lattice"
	bc "github.com/cs-au-dk/jnames/bytecode"
)

// run executes insns in sequence on a frame with the given locals.
func run[V L.Sized](d Domain[V], locals []V, insns ...bc.Insn) (L.Frame[V], error) {
	f := L.NewFrame(locals...)
	for i := range insns {
		if err := Execute(d, &f, Site{Index: i, Insn: &insns[i]}); err != nil {
			return f, err
		}
	}
	return f, nil
}

func stackOf[V L.Sized](f L.Frame[V]) []V {
	vs := make([]V, f.StackSize())
	for i := range vs {
		vs[i] = f.Stack(i)
	}
	return vs
}

// params is the entry state of a static method (int, long, Object).
var params = []L.Value{L.Parameter(1, 0), L.Parameter(2, 1), L.Unset(2), L.Parameter(1, 3), L.Unset(4)}

func TestProvenanceExecute(t *testing.T) {
	p0, p1, p3 := L.Parameter(1, 0), L.Parameter(2, 1), L.Parameter(1, 3)

	tests := []struct {
		name     string
		insns    []bc.Insn
		expected []L.Value
	}{
		{"load keeps origin",
			[]bc.Insn{{Op: bc.ILOAD, Var: 0}, {Op: bc.LLOAD_1}},
			[]L.Value{p0, p1}},
		{"constants are fresh",
			[]bc.Insn{{Op: bc.ICONST_1}, {Op: bc.LCONST_0}, {Op: bc.LDC, Const: 2.5}, {Op: bc.LDC, Const: "s"}},
			[]L.Value{L.Fresh(1), L.Fresh(2), L.Fresh(2), L.Fresh(1)}},
		{"widening keeps origin",
			[]bc.Insn{{Op: bc.ILOAD, Var: 0}, {Op: bc.I2L}},
			[]L.Value{L.Parameter(2, 0)}},
		{"narrowing keeps origin",
			[]bc.Insn{{Op: bc.LLOAD, Var: 1}, {Op: bc.L2I}},
			[]L.Value{L.Parameter(1, 1)}},
		{"checkcast keeps origin",
			[]bc.Insn{{Op: bc.ALOAD, Var: 3}, {Op: bc.CHECKCAST, Owner: "a/B"}},
			[]L.Value{p3}},
		{"negation is fresh",
			[]bc.Insn{{Op: bc.LLOAD, Var: 1}, {Op: bc.LNEG}},
			[]L.Value{L.Fresh(2)}},
		{"arithmetic is fresh",
			[]bc.Insn{{Op: bc.ILOAD, Var: 0}, {Op: bc.ILOAD, Var: 0}, {Op: bc.IADD}},
			[]L.Value{L.Fresh(1)}},
		{"wide arithmetic",
			[]bc.Insn{{Op: bc.LLOAD, Var: 1}, {Op: bc.LLOAD, Var: 1}, {Op: bc.LMUL}},
			[]L.Value{L.Fresh(2)}},
		{"comparison",
			[]bc.Insn{{Op: bc.LLOAD, Var: 1}, {Op: bc.LLOAD, Var: 1}, {Op: bc.LCMP}},
			[]L.Value{L.Fresh(1)}},
		{"field reads sized by descriptor",
			[]bc.Insn{
				{Op: bc.GETSTATIC, Owner: "a/B", Name: "x", Desc: "D"},
				{Op: bc.ALOAD, Var: 3},
				{Op: bc.GETFIELD, Owner: "a/B", Name: "y", Desc: "J"},
			},
			[]L.Value{L.Fresh(2), L.Fresh(2)}},
		{"invocation result sized by return type",
			[]bc.Insn{
				{Op: bc.ALOAD, Var: 3},
				{Op: bc.ILOAD, Var: 0},
				{Op: bc.INVOKEVIRTUAL, Owner: "a/B", Name: "f", Desc: "(I)J"},
			},
			[]L.Value{L.Fresh(2)}},
		{"void invocation pushes nothing",
			[]bc.Insn{
				{Op: bc.ILOAD, Var: 0},
				{Op: bc.LLOAD, Var: 1},
				{Op: bc.INVOKESTATIC, Owner: "a/B", Name: "g", Desc: "(IJ)V"},
			},
			[]L.Value{}},
		{"invokedynamic has no receiver",
			[]bc.Insn{
				{Op: bc.ALOAD, Var: 3},
				{Op: bc.INVOKEDYNAMIC, Name: "run", Desc: "(Ljava/lang/Object;)Ljava/lang/Runnable;"},
			},
			[]L.Value{L.Fresh(1)}},
		{"store and reload keeps origin",
			[]bc.Insn{{Op: bc.ALOAD, Var: 3}, {Op: bc.ASTORE, Var: 4}, {Op: bc.ALOAD, Var: 4}},
			[]L.Value{p3}},
		{"multianewarray",
			[]bc.Insn{{Op: bc.ICONST_1}, {Op: bc.ICONST_2}, {Op: bc.MULTIANEWARRAY, Owner: "[[I", Operand: 2}},
			[]L.Value{L.Fresh(1)}},
		{"array store consumes three",
			[]bc.Insn{{Op: bc.ALOAD, Var: 3}, {Op: bc.ICONST_0}, {Op: bc.ICONST_1}, {Op: bc.IASTORE}},
			[]L.Value{}},
		{"conditional jumps consume their operands",
			[]bc.Insn{{Op: bc.ILOAD, Var: 0}, {Op: bc.ILOAD, Var: 0}, {Op: bc.IF_ICMPGE}, {Op: bc.ALOAD, Var: 3}, {Op: bc.IFNULL}},
			[]L.Value{}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			f, err := run[L.Value](Provenance{}, params, test.insns...)
			if err != nil {
				t.Fatal(err)
			}
			stack := stackOf(f)
			if len(stack) != len(test.expected) {
				t.Fatalf("stack is %s, expected %v", f, test.expected)
			}
			for i, v := range stack {
				if !v.Eq(test.expected[i]) {
					t.Errorf("stack %d is %s, expected %s", i, v, test.expected[i])
				}
			}
		})
	}
}

func TestProvenanceIinc(t *testing.T) {
	f, err := run[L.Value](Provenance{}, params, bc.Insn{Op: bc.IINC, Var: 0, Incr: 1})
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := f.Local(0); v.IsParameter() {
		t.Errorf("local 0 is %s after iinc, expected a fresh value", v)
	}
}

func TestStoreInvalidatesWideHalves(t *testing.T) {
	// Overwriting the upper half of the long in slots 1-2 invalidates slot 1.
	f, err := run[L.Value](Provenance{}, params, bc.Insn{Op: bc.ICONST_0}, bc.Insn{Op: bc.ISTORE, Var: 2})
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := f.Local(1); v.Size() != 1 || v.IsParameter() {
		t.Errorf("local 1 is %s, expected it to be unset", v)
	}

	// Storing a long into slot 3 unsets slot 4.
	f, err = run[L.Value](Provenance{}, params, bc.Insn{Op: bc.LLOAD, Var: 1}, bc.Insn{Op: bc.LSTORE, Var: 3})
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := f.Local(3); !v.Eq(L.Parameter(2, 1)) {
		t.Errorf("local 3 is %s", v)
	}
	if v, _ := f.Local(4); !v.Eq(L.Unset(4)) {
		t.Errorf("local 4 is %s, expected it to be unset", v)
	}
}

func TestStackManipulation(t *testing.T) {
	a, b, c := L.Parameter(1, 0), L.Parameter(1, 3), L.Fresh(1)
	w := L.Parameter(2, 1)

	push := []bc.Insn{{Op: bc.ICONST_0}, {Op: bc.ALOAD, Var: 3}, {Op: bc.ILOAD, Var: 0}}
	pushWide := []bc.Insn{{Op: bc.ICONST_0}, {Op: bc.LLOAD, Var: 1}}

	tests := []struct {
		name     string
		prefix   []bc.Insn
		op       bc.Opcode
		expected []L.Value
	}{
		{"pop", push, bc.POP, []L.Value{c, b}},
		{"pop2", push, bc.POP2, []L.Value{c}},
		{"pop2 wide", pushWide, bc.POP2, []L.Value{c}},
		{"dup", push, bc.DUP, []L.Value{c, b, a, a}},
		{"dup_x1", push, bc.DUP_X1, []L.Value{c, a, b, a}},
		{"dup_x2", push, bc.DUP_X2, []L.Value{a, c, b, a}},
		{"dup2", push, bc.DUP2, []L.Value{c, b, a, b, a}},
		{"dup2 wide", pushWide, bc.DUP2, []L.Value{c, w, w}},
		{"dup2_x1", push, bc.DUP2_X1, []L.Value{b, a, c, b, a}},
		{"dup2_x1 wide", append(append([]bc.Insn{}, pushWide[:1]...), bc.Insn{Op: bc.ICONST_1}, bc.Insn{Op: bc.LLOAD, Var: 1}), bc.DUP2_X1, []L.Value{c, w, c, w}},
		{"dup_x2 over wide", []bc.Insn{{Op: bc.LLOAD, Var: 1}, {Op: bc.ILOAD, Var: 0}}, bc.DUP_X2, []L.Value{a, w, a}},
		{"dup2_x2 wide over wide", []bc.Insn{{Op: bc.LLOAD, Var: 1}, {Op: bc.LLOAD, Var: 1}}, bc.DUP2_X2, []L.Value{w, w, w}},
		{"swap", push, bc.SWAP, []L.Value{c, a, b}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			insns := append(append([]bc.Insn{}, test.prefix...), bc.Insn{Op: test.op})
			f, err := run[L.Value](Provenance{}, params, insns...)
			if err != nil {
				t.Fatal(err)
			}
			stack := stackOf(f)
			if len(stack) != len(test.expected) {
				t.Fatalf("stack is %s, expected %v", f, test.expected)
			}
			for i, v := range stack {
				if !v.Eq(test.expected[i]) {
					t.Errorf("stack %d is %s, expected %s", i, v, test.expected[i])
				}
			}
		})
	}
}

func TestExecuteErrors(t *testing.T) {
	tests := []struct {
		name  string
		insns []bc.Insn
		err   error
	}{
		{"underflow", []bc.Insn{{Op: bc.IADD}}, L.ErrStackUnderflow},
		{"local out of range", []bc.Insn{{Op: bc.ILOAD, Var: 9}}, L.ErrLocalIndex},
		{"pop of a wide value", []bc.Insn{{Op: bc.LLOAD, Var: 1}, {Op: bc.POP}}, ErrIllegalStackOp},
		{"swap of a wide value", []bc.Insn{{Op: bc.ICONST_0}, {Op: bc.LLOAD, Var: 1}, {Op: bc.SWAP}}, ErrIllegalStackOp},
		{"jsr", []bc.Insn{{Op: bc.JSR}}, ErrSubroutine},
		{"ret", []bc.Insn{{Op: bc.RET, Var: 0}}, ErrSubroutine},
		{"unknown opcode", []bc.Insn{{Op: bc.Opcode(0xfe)}}, ErrUnknownOpcode},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := run[L.Value](Provenance{}, params, test.insns...)
			if !errors.Is(err, test.err) {
				t.Errorf("got error %v, expected %v", err, test.err)
			}
		})
	}
}

func TestSourcesExecute(t *testing.T) {
	locals := []L.SourceValue{L.NewSource(1), L.NewSource(1)}
	f, err := run[L.SourceValue](Sources{}, locals,
		bc.Insn{Op: bc.LDC, Const: "name"},
		bc.Insn{Op: bc.DUP},
		bc.Insn{Op: bc.ASTORE, Var: 1},
		bc.Insn{Op: bc.ALOAD, Var: 1},
	)
	if err != nil {
		t.Fatal(err)
	}

	stack := stackOf(f)
	if len(stack) != 2 {
		t.Fatalf("stack is %s", f)
	}
	if !stack[0].Eq(L.NewSource(1, 0)) {
		t.Errorf("stack 0 is %s, expected the ldc", stack[0])
	}
	if !stack[1].Eq(L.NewSource(1, 3)) {
		t.Errorf("stack 1 is %s, expected the reloading aload", stack[1])
	}
	if v, _ := f.Local(1); !v.Eq(L.NewSource(1, 2)) {
		t.Errorf("local 1 is %s, expected the astore", v)
	}
}
