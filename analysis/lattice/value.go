package lattice

import "fmt"

// Value is the provenance of a single stack or local slot: its slot size and,
// when the value is a pass-through copy of a parameter of the analyzed
// method, the parameter's local slot.
//
// The lattice is flat: a parameter origin is above "no origin", and joining
// two different origins loses the origin.
type Value struct {
	size      int
	parameter bool
	local     int
}

// Fresh is a value without a known origin.
func Fresh(size int) Value {
	return Value{size: size, local: -1}
}

// Parameter is a value directly originating from parameter slot local.
func Parameter(size, local int) Value {
	return Value{size: size, parameter: true, local: local}
}

// Unset is the value of a local slot that holds no parameter, such as the
// receiver slot or the slots following the parameters.
func Unset(local int) Value {
	return Value{size: 1, local: local}
}

// Resized keeps the origin of v but changes its slot size, as conversions
// and casts do.
func Resized(size int, v Value) Value {
	v.size = size
	return v
}

func (v Value) Size() int { return v.size }

// IsParameter reports whether the value is a copy of a parameter.
func (v Value) IsParameter() bool { return v.parameter }

// Local is the originating slot, or -1 when unknown. It is only meaningful as
// a parameter slot when IsParameter holds.
func (v Value) Local() int { return v.local }

func (v Value) Eq(o Value) bool { return v == o }

// Merge joins the values flowing into a control-flow merge point. The size is
// the smaller of the two, and an origin survives only if both sides agree on
// it exactly.
func Merge(a, b Value) Value {
	size := a.size
	if b.size < size {
		size = b.size
	}
	if a.parameter == b.parameter && a.local == b.local {
		return Value{size: size, parameter: a.parameter, local: a.local}
	}
	return Fresh(size)
}

// Join is Merge as a method.
func (v Value) Join(o Value) Value {
	return Merge(v, o)
}

func (v Value) String() string {
	switch {
	case v.parameter:
		return colorize.Param(fmt.Sprintf("p%d", v.local)) + colorize.Sep(":") + colorize.Const(v.size)
	case v.local >= 0:
		return colorize.Element(fmt.Sprintf("l%d", v.local)) + colorize.Sep(":") + colorize.Const(v.size)
	default:
		return colorize.Element("_") + colorize.Sep(":") + colorize.Const(v.size)
	}
}
