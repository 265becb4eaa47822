package interp

import (
	L "github.com/cs-au-dk/jnames/analysis/lattice"
	bc "github.com/cs-au-dk/jnames/bytecode"
)

// Provenance tracks which values are unchanged copies of the analyzed
// method's parameters. Computed values never carry an origin; copies and
// numeric conversions keep it.
type Provenance struct{}

var _ Domain[L.Value] = Provenance{}

func (Provenance) NewValue(t bc.Type) L.Value {
	if t == "" {
		return L.Fresh(1)
	}
	return L.Fresh(t.Size())
}

// NewParameter tags every parameter slot except the receiver of an instance
// method.
func (Provenance) NewParameter(instance bool, local int, t bc.Type) L.Value {
	if instance && local == 0 {
		return L.Unset(local)
	}
	return L.Parameter(t.Size(), local)
}

func (Provenance) NewUnset(local int) L.Value {
	return L.Unset(local)
}

func (Provenance) NewException(bc.Handler) L.Value {
	return L.Fresh(1)
}

func (Provenance) NewOperation(s Site) L.Value {
	switch s.Op() {
	case bc.LCONST_0, bc.LCONST_1, bc.DCONST_0, bc.DCONST_1:
		return L.Fresh(2)
	case bc.LDC, bc.LDC_W, bc.LDC2_W:
		return L.Fresh(bc.ConstSize(s.Insn.Const))
	case bc.GETSTATIC:
		return L.Fresh(bc.SizeOf(s.Insn.Desc))
	}
	return L.Fresh(1)
}

func (Provenance) CopyOperation(_ Site, v L.Value) L.Value {
	return v
}

func (Provenance) UnaryOperation(s Site, v L.Value) L.Value {
	switch s.Op() {
	// Conversions keep the variable they came from.
	case bc.I2L, bc.I2D, bc.L2D, bc.F2L, bc.F2D, bc.D2L:
		return L.Resized(2, v)
	case bc.I2F, bc.L2I, bc.L2F, bc.F2I, bc.D2I, bc.D2F, bc.I2B, bc.I2C, bc.I2S, bc.CHECKCAST:
		return L.Resized(1, v)

	case bc.LNEG, bc.DNEG:
		return L.Fresh(2)
	case bc.GETFIELD:
		return L.Fresh(bc.SizeOf(s.Insn.Desc))
	}
	return L.Fresh(1)
}

func (Provenance) BinaryOperation(s Site, _, _ L.Value) L.Value {
	switch s.Op() {
	case bc.LALOAD, bc.DALOAD,
		bc.LADD, bc.DADD, bc.LSUB, bc.DSUB, bc.LMUL, bc.DMUL, bc.LDIV, bc.DDIV, bc.LREM, bc.DREM,
		bc.LSHL, bc.LSHR, bc.LUSHR, bc.LAND, bc.LOR, bc.LXOR:
		return L.Fresh(2)
	}
	return L.Fresh(1)
}

func (Provenance) TernaryOperation(Site, L.Value, L.Value, L.Value) L.Value {
	return L.Fresh(1)
}

func (Provenance) NaryOperation(s Site, _ []L.Value) L.Value {
	switch s.Insn.Kind() {
	case bc.KindInvoke, bc.KindInvokeDynamic:
		return L.Fresh(bc.ReturnSize(s.Insn.Desc))
	}
	return L.Fresh(1)
}

func (Provenance) ReturnOperation(Site, L.Value) {}

func (Provenance) Merge(a, b L.Value) L.Value {
	return L.Merge(a, b)
}

func (Provenance) Equal(a, b L.Value) bool {
	return a.Eq(b)
}
