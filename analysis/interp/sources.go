package interp

import (
	L "github.com/cs-au-dk/jnames/analysis/lattice"
	bc "github.com/cs-au-dk/jnames/bytecode"
)

// Sources tracks, for every value, the instructions that may have pushed it.
// Unlike Provenance, a copy is attributed to the copying instruction.
type Sources struct{}

var _ Domain[L.SourceValue] = Sources{}

func (Sources) NewValue(t bc.Type) L.SourceValue {
	if t == "" {
		return L.NewSource(1)
	}
	return L.NewSource(t.Size())
}

func (d Sources) NewParameter(_ bool, _ int, t bc.Type) L.SourceValue {
	return d.NewValue(t)
}

func (Sources) NewUnset(int) L.SourceValue {
	return L.NewSource(1)
}

func (Sources) NewException(bc.Handler) L.SourceValue {
	return L.NewSource(1)
}

func (Sources) NewOperation(s Site) L.SourceValue {
	size := 1
	switch s.Op() {
	case bc.LCONST_0, bc.LCONST_1, bc.DCONST_0, bc.DCONST_1:
		size = 2
	case bc.LDC, bc.LDC_W, bc.LDC2_W:
		size = bc.ConstSize(s.Insn.Const)
	case bc.GETSTATIC:
		size = bc.SizeOf(s.Insn.Desc)
	}
	return L.NewSource(size, s.Index)
}

func (Sources) CopyOperation(s Site, v L.SourceValue) L.SourceValue {
	return L.NewSource(v.Size(), s.Index)
}

func (Sources) UnaryOperation(s Site, _ L.SourceValue) L.SourceValue {
	size := 1
	switch s.Op() {
	case bc.LNEG, bc.DNEG, bc.I2L, bc.I2D, bc.L2D, bc.F2L, bc.F2D, bc.D2L:
		size = 2
	case bc.GETFIELD:
		size = bc.SizeOf(s.Insn.Desc)
	}
	return L.NewSource(size, s.Index)
}

func (Sources) BinaryOperation(s Site, _, _ L.SourceValue) L.SourceValue {
	size := 1
	switch s.Op() {
	case bc.LALOAD, bc.DALOAD,
		bc.LADD, bc.DADD, bc.LSUB, bc.DSUB, bc.LMUL, bc.DMUL, bc.LDIV, bc.DDIV, bc.LREM, bc.DREM,
		bc.LSHL, bc.LSHR, bc.LUSHR, bc.LAND, bc.LOR, bc.LXOR:
		size = 2
	}
	return L.NewSource(size, s.Index)
}

func (Sources) TernaryOperation(s Site, _, _, _ L.SourceValue) L.SourceValue {
	return L.NewSource(1, s.Index)
}

func (Sources) NaryOperation(s Site, _ []L.SourceValue) L.SourceValue {
	size := 1
	switch s.Insn.Kind() {
	case bc.KindInvoke, bc.KindInvokeDynamic:
		size = bc.ReturnSize(s.Insn.Desc)
	}
	return L.NewSource(size, s.Index)
}

func (Sources) ReturnOperation(Site, L.SourceValue) {}

func (Sources) Merge(a, b L.SourceValue) L.SourceValue {
	return L.MergeSources(a, b)
}

func (Sources) Equal(a, b L.SourceValue) bool {
	return a.Eq(b)
}
