// Package lattice defines the abstract values tracked by the bytecode
// dataflow analyses and the frames that hold them.
package lattice

import (
	"errors"
	"fmt"

	"github.com/cs-au-dk/jnames/utils"

	"github.com/fatih/color"
)

var colorize = struct {
	Element func(...interface{}) string
	Const   func(...interface{}) string
	Param   func(...interface{}) string
	Insn    func(...interface{}) string
	Sep     func(...interface{}) string
}{
	Element: func(is ...interface{}) string {
		return utils.CanColorize(color.New(color.FgCyan).SprintFunc())(is...)
	},
	Const: func(is ...interface{}) string {
		return utils.CanColorize(color.New(color.FgHiWhite).SprintFunc())(is...)
	},
	Param: func(is ...interface{}) string {
		return utils.CanColorize(color.New(color.FgYellow).SprintFunc())(is...)
	},
	Insn: func(is ...interface{}) string {
		return utils.CanColorize(color.New(color.FgGreen).SprintFunc())(is...)
	},
	Sep: func(is ...interface{}) string {
		return utils.CanColorize(color.New(color.FgMagenta).SprintFunc())(is...)
	},
}

var (
	// ErrStackUnderflow is reported when an instruction pops more values than
	// the operand stack holds.
	ErrStackUnderflow = errors.New("cannot pop operand off an empty stack")
	// ErrStackHeight is reported when two frames meeting at a join point
	// disagree on the operand stack depth.
	ErrStackHeight = errors.New("incompatible stack heights")
	// ErrLocalsSize is reported when frames meeting at a join point disagree on
	// the number of locals.
	ErrLocalsSize = errors.New("incompatible local variable counts")
	// ErrLocalIndex is reported for accesses outside the local variable array.
	ErrLocalIndex = errors.New("local variable index out of range")

	errInternal = errors.New("internal error")
)

// Sized is implemented by every abstract value: the number of JVM slots
// (1 or 2) the described runtime value occupies.
type Sized interface {
	Size() int
	String() string
}

func localIndexError(i, n int) error {
	return fmt.Errorf("%w: %d (max %d)", ErrLocalIndex, i, n)
}
