// Package interp is the abstract interpreter for JVM instructions. A Domain
// supplies the value rules per instruction category and Execute applies an
// instruction's stack and local effects to a frame.
package interp

import (
	"github.com/cs-au-dk/jnames/analysis/lattice"
	"github.com/cs-au-dk/jnames/bytecode"
)

// Site is the instruction being interpreted and its index in the method.
type Site struct {
	Index int
	Insn  *bytecode.Insn
}

func (s Site) Op() bytecode.Opcode { return s.Insn.Op }

// Domain is a family of abstract values with one rule per instruction
// category. Rules are pure: they see only their inputs and the static
// instruction operands.
type Domain[V lattice.Sized] interface {
	// NewValue is a value of the given type with nothing else known.
	NewValue(t bytecode.Type) V
	// NewParameter is the initial value of a parameter slot. The receiver of
	// an instance method is slot 0.
	NewParameter(instance bool, local int, t bytecode.Type) V
	// NewUnset is the initial value of a local slot that holds no parameter.
	NewUnset(local int) V
	// NewException is the value pushed on entry to an exception handler.
	NewException(h bytecode.Handler) V

	// NewOperation covers instructions that push without popping: constants,
	// getstatic and new.
	NewOperation(s Site) V
	// CopyOperation covers loads, stores and the dup family.
	CopyOperation(s Site, v V) V
	UnaryOperation(s Site, v V) V
	BinaryOperation(s Site, v1, v2 V) V
	TernaryOperation(s Site, v1, v2, v3 V) V
	// NaryOperation covers invocations and multianewarray. The values are in
	// push order, the receiver first.
	NaryOperation(s Site, vs []V) V
	ReturnOperation(s Site, v V)

	Merge(a, b V) V
	Equal(a, b V) bool
}
