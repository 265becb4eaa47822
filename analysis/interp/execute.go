package interp

import (
	"errors"
	"fmt"

	L "github.com/cs-au-dk/jnames/analysis/lattice"
	bc "github.com/cs-au-dk/jnames/bytecode"
)

var (
	// ErrIllegalStackOp is reported when a stack manipulation splits a
	// category 2 value or treats one as category 1.
	ErrIllegalStackOp = errors.New("illegal use of stack manipulation")
	// ErrSubroutine is reported for jsr and ret, which are not supported.
	ErrSubroutine = errors.New("subroutines are not supported")
	// ErrUnknownOpcode is reported for opcodes outside the JVM instruction set.
	ErrUnknownOpcode = errors.New("unknown opcode")
)

type frameOps[V L.Sized] struct {
	d Domain[V]
	f *L.Frame[V]
	s Site
}

func (x frameOps[V]) pop() (V, error) {
	return x.f.Pop()
}

// popCat1 pops a value that must occupy a single slot.
func (x frameOps[V]) popCat1() (V, error) {
	v, err := x.f.Pop()
	if err == nil && v.Size() != 1 {
		err = fmt.Errorf("%w: %s on a category 2 value", ErrIllegalStackOp, x.s.Op())
	}
	return v, err
}

func (x frameOps[V]) push(vs ...V) {
	for _, v := range vs {
		x.f.Push(v)
	}
}

func (x frameOps[V]) copy(v V) V {
	return x.d.CopyOperation(x.s, v)
}

func (x frameOps[V]) illegal() error {
	return fmt.Errorf("%w: %s", ErrIllegalStackOp, x.s.Op())
}

// store writes v into slot i and invalidates the halves of any category 2
// value it overwrites.
func (x frameOps[V]) store(i int, v V) error {
	if err := x.f.SetLocal(i, v); err != nil {
		return err
	}
	if v.Size() == 2 {
		if err := x.f.SetLocal(i+1, x.d.NewUnset(i+1)); err != nil {
			return err
		}
	}
	if i > 0 {
		if prev, err := x.f.Local(i - 1); err == nil && prev.Size() == 2 {
			return x.f.SetLocal(i-1, x.d.NewUnset(i-1))
		}
	}
	return nil
}

// Execute applies the instruction at s to the frame f, which holds the state
// before the instruction and is updated in place to the state after it.
func Execute[V L.Sized](d Domain[V], f *L.Frame[V], s Site) error {
	x := frameOps[V]{d, f, s}
	insn := s.Insn
	op, slot := insn.Op.Normalize()
	if slot < 0 {
		slot = insn.Var
	}

	switch kind := op.Kind(); kind {
	case bc.KindNop, bc.KindJump:
		switch op {
		case bc.NOP, bc.GOTO:
			return nil
		case bc.IFEQ, bc.IFNE, bc.IFLT, bc.IFGE, bc.IFGT, bc.IFLE, bc.IFNULL, bc.IFNONNULL:
			v, err := x.pop()
			if err != nil {
				return err
			}
			d.UnaryOperation(s, v)
			return nil
		default:
			v2, err := x.pop()
			if err != nil {
				return err
			}
			v1, err := x.pop()
			if err != nil {
				return err
			}
			d.BinaryOperation(s, v1, v2)
			return nil
		}

	case bc.KindConst, bc.KindNew:
		x.push(d.NewOperation(s))

	case bc.KindLoad:
		v, err := f.Local(slot)
		if err != nil {
			return err
		}
		x.push(x.copy(v))

	case bc.KindStore:
		v, err := x.pop()
		if err != nil {
			return err
		}
		return x.store(slot, x.copy(v))

	case bc.KindArrayLoad, bc.KindArith, bc.KindCompare:
		v2, err := x.pop()
		if err != nil {
			return err
		}
		v1, err := x.pop()
		if err != nil {
			return err
		}
		x.push(d.BinaryOperation(s, v1, v2))

	case bc.KindArrayStore:
		vs, err := f.PopN(3)
		if err != nil {
			return err
		}
		d.TernaryOperation(s, vs[0], vs[1], vs[2])

	case bc.KindStack:
		return executeStack(x)

	case bc.KindNeg, bc.KindConvert:
		v, err := x.pop()
		if err != nil {
			return err
		}
		x.push(d.UnaryOperation(s, v))

	case bc.KindIinc:
		v, err := f.Local(slot)
		if err != nil {
			return err
		}
		return f.SetLocal(slot, d.UnaryOperation(s, v))

	case bc.KindSwitch, bc.KindMonitor, bc.KindThrow:
		v, err := x.pop()
		if err != nil {
			return err
		}
		d.UnaryOperation(s, v)

	case bc.KindSubroutine:
		return fmt.Errorf("%w: %s", ErrSubroutine, op)

	case bc.KindReturn:
		if op == bc.RETURN {
			return nil
		}
		v, err := x.pop()
		if err != nil {
			return err
		}
		d.UnaryOperation(s, v)
		d.ReturnOperation(s, v)

	case bc.KindFieldRead:
		if op == bc.GETSTATIC {
			x.push(d.NewOperation(s))
			return nil
		}
		v, err := x.pop()
		if err != nil {
			return err
		}
		x.push(d.UnaryOperation(s, v))

	case bc.KindFieldWrite:
		if op == bc.PUTSTATIC {
			v, err := x.pop()
			if err != nil {
				return err
			}
			d.UnaryOperation(s, v)
			return nil
		}
		v2, err := x.pop()
		if err != nil {
			return err
		}
		v1, err := x.pop()
		if err != nil {
			return err
		}
		d.BinaryOperation(s, v1, v2)

	case bc.KindInvoke, bc.KindInvokeDynamic:
		mt, err := bc.ParseMethodType(insn.Desc)
		if err != nil {
			return err
		}
		n := len(mt.Args)
		if !insn.IsStaticInvoke() {
			n++
		}
		vs, err := f.PopN(n)
		if err != nil {
			return err
		}
		v := d.NaryOperation(s, vs)
		if mt.Return != bc.Void {
			x.push(v)
		}

	case bc.KindArray:
		if op == bc.MULTIANEWARRAY {
			vs, err := f.PopN(insn.Operand)
			if err != nil {
				return err
			}
			x.push(d.NaryOperation(s, vs))
			return nil
		}
		v, err := x.pop()
		if err != nil {
			return err
		}
		x.push(d.UnaryOperation(s, v))

	case bc.KindCast:
		v, err := x.pop()
		if err != nil {
			return err
		}
		x.push(d.UnaryOperation(s, v))

	default:
		return fmt.Errorf("%w: %s", ErrUnknownOpcode, op)
	}
	return nil
}

// executeStack implements pop, dup and swap and their variants, which must
// respect value categories.
func executeStack[V L.Sized](x frameOps[V]) error {
	switch x.s.Op() {
	case bc.POP:
		_, err := x.popCat1()
		return err

	case bc.POP2:
		v1, err := x.pop()
		if err != nil || v1.Size() == 2 {
			return err
		}
		_, err = x.popCat1()
		return err

	case bc.DUP:
		v1, err := x.popCat1()
		if err != nil {
			return err
		}
		x.push(v1, x.copy(v1))
		return nil

	case bc.DUP_X1:
		v1, err := x.popCat1()
		if err != nil {
			return err
		}
		v2, err := x.popCat1()
		if err != nil {
			return err
		}
		x.push(x.copy(v1), v2, v1)
		return nil

	case bc.DUP_X2:
		v1, err := x.popCat1()
		if err != nil {
			return err
		}
		v2, err := x.pop()
		if err != nil {
			return err
		}
		if v2.Size() == 2 {
			x.push(x.copy(v1), v2, v1)
			return nil
		}
		v3, err := x.popCat1()
		if err != nil {
			return err
		}
		x.push(x.copy(v1), v3, v2, v1)
		return nil

	case bc.DUP2:
		v1, err := x.pop()
		if err != nil {
			return err
		}
		if v1.Size() == 2 {
			x.push(v1, x.copy(v1))
			return nil
		}
		v2, err := x.popCat1()
		if err != nil {
			return err
		}
		x.push(v2, v1, x.copy(v2), x.copy(v1))
		return nil

	case bc.DUP2_X1:
		v1, err := x.pop()
		if err != nil {
			return err
		}
		if v1.Size() == 2 {
			v2, err := x.popCat1()
			if err != nil {
				return err
			}
			x.push(x.copy(v1), v2, v1)
			return nil
		}
		v2, err := x.popCat1()
		if err != nil {
			return err
		}
		v3, err := x.popCat1()
		if err != nil {
			return err
		}
		x.push(x.copy(v2), x.copy(v1), v3, v2, v1)
		return nil

	case bc.DUP2_X2:
		v1, err := x.pop()
		if err != nil {
			return err
		}
		if v1.Size() == 2 {
			v2, err := x.pop()
			if err != nil {
				return err
			}
			if v2.Size() == 2 {
				x.push(x.copy(v1), v2, v1)
				return nil
			}
			v3, err := x.popCat1()
			if err != nil {
				return err
			}
			x.push(x.copy(v1), v3, v2, v1)
			return nil
		}
		v2, err := x.popCat1()
		if err != nil {
			return err
		}
		v3, err := x.pop()
		if err != nil {
			return err
		}
		if v3.Size() == 2 {
			x.push(x.copy(v2), x.copy(v1), v3, v2, v1)
			return nil
		}
		v4, err := x.popCat1()
		if err != nil {
			return err
		}
		x.push(x.copy(v2), x.copy(v1), v4, v3, v2, v1)
		return nil

	case bc.SWAP:
		v2, err := x.popCat1()
		if err != nil {
			return err
		}
		v1, err := x.popCat1()
		if err != nil {
			return err
		}
		x.push(x.copy(v2), x.copy(v1))
		return nil
	}
	return x.illegal()
}
