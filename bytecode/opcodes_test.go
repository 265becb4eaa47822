package bytecode

import "testing"

func TestOpcodeKind(t *testing.T) {
	tests := []struct {
		op   Opcode
		kind Kind
	}{
		{NOP, KindNop},
		{ACONST_NULL, KindConst},
		{LDC2_W, KindConst},
		{ALOAD_3, KindLoad},
		{ISTORE, KindStore},
		{AALOAD, KindArrayLoad},
		{SASTORE, KindArrayStore},
		{DUP2_X2, KindStack},
		{LXOR, KindArith},
		{DNEG, KindNeg},
		{IINC, KindIinc},
		{I2S, KindConvert},
		{DCMPG, KindCompare},
		{IF_ACMPNE, KindJump},
		{IFNONNULL, KindJump},
		{GOTO_W, KindJump},
		{JSR, KindSubroutine},
		{RET, KindSubroutine},
		{LOOKUPSWITCH, KindSwitch},
		{ARETURN, KindReturn},
		{GETSTATIC, KindFieldRead},
		{PUTFIELD, KindFieldWrite},
		{INVOKEINTERFACE, KindInvoke},
		{INVOKEDYNAMIC, KindInvokeDynamic},
		{NEW, KindNew},
		{ARRAYLENGTH, KindArray},
		{MULTIANEWARRAY, KindArray},
		{INSTANCEOF, KindCast},
		{MONITOREXIT, KindMonitor},
		{ATHROW, KindThrow},
	}

	for _, test := range tests {
		if k := test.op.Kind(); k != test.kind {
			t.Errorf("Kind of %s = %s, expected %s", test.op, k, test.kind)
		}
	}
}

func TestOpcodeFlow(t *testing.T) {
	tests := []struct {
		op          Opcode
		conditional bool
		endsFlow    bool
	}{
		{IFEQ, true, false},
		{IF_ICMPLT, true, false},
		{GOTO, false, true},
		{GOTO_W, false, true},
		{TABLESWITCH, false, true},
		{RETURN, false, true},
		{ATHROW, false, true},
		{RET, false, true},
		{IADD, false, false},
		{INVOKESTATIC, false, false},
	}

	for _, test := range tests {
		if c := test.op.IsConditional(); c != test.conditional {
			t.Errorf("IsConditional of %s = %v, expected %v", test.op, c, test.conditional)
		}
		if e := test.op.EndsFlow(); e != test.endsFlow {
			t.Errorf("EndsFlow of %s = %v, expected %v", test.op, e, test.endsFlow)
		}
	}
}

func TestOpcodeNormalize(t *testing.T) {
	tests := []struct {
		op       Opcode
		expected Opcode
		slot     int
	}{
		{ILOAD_0, ILOAD, 0},
		{LLOAD_2, LLOAD, 2},
		{ALOAD_3, ALOAD, 3},
		{FSTORE_1, FSTORE, 1},
		{ASTORE_0, ASTORE, 0},
		{LDC_W, LDC, -1},
		{LDC2_W, LDC, -1},
		{GOTO_W, GOTO, -1},
		{IADD, IADD, -1},
	}

	for _, test := range tests {
		op, slot := test.op.Normalize()
		if op != test.expected || slot != test.slot {
			t.Errorf("Normalize of %s = (%s, %d), expected (%s, %d)", test.op, op, slot, test.expected, test.slot)
		}
	}
}
