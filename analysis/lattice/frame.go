package lattice

import (
	"fmt"
	"strings"

	"github.com/benbjohnson/immutable"
)

// Frame is the abstract state before an instruction: the operand stack and the
// local variable array. Both are persistent lists, so copying a Frame value is
// a cheap snapshot and mutating the copy never affects the original.
type Frame[V Sized] struct {
	locals *immutable.List[V]
	stack  *immutable.List[V]
}

// NewFrame creates a frame with an empty stack and the given locals.
func NewFrame[V Sized](locals ...V) Frame[V] {
	b := immutable.NewListBuilder[V]()
	for _, v := range locals {
		b.Append(v)
	}
	return Frame[V]{
		locals: b.List(),
		stack:  immutable.NewList[V](),
	}
}

func (f *Frame[V]) NumLocals() int { return f.locals.Len() }
func (f *Frame[V]) StackSize() int { return f.stack.Len() }

// Local returns the value of slot i.
func (f *Frame[V]) Local(i int) (V, error) {
	if i < 0 || i >= f.locals.Len() {
		var zero V
		return zero, localIndexError(i, f.locals.Len())
	}
	return f.locals.Get(i), nil
}

// SetLocal stores v in slot i.
func (f *Frame[V]) SetLocal(i int, v V) error {
	if i < 0 || i >= f.locals.Len() {
		return localIndexError(i, f.locals.Len())
	}
	f.locals = f.locals.Set(i, v)
	return nil
}

// Stack returns the i'th stack value, counted from the bottom. Callers
// iterate below StackSize, so an index outside the stack is a bug.
func (f *Frame[V]) Stack(i int) V {
	if i < 0 || i >= f.stack.Len() {
		panic(fmt.Errorf("%w: stack index %d of %d", errInternal, i, f.stack.Len()))
	}
	return f.stack.Get(i)
}

// Top returns the i'th stack value counted from the top, 0 being the top.
func (f *Frame[V]) Top(i int) (V, error) {
	n := f.stack.Len()
	if i < 0 || i >= n {
		var zero V
		return zero, ErrStackUnderflow
	}
	return f.stack.Get(n - 1 - i), nil
}

func (f *Frame[V]) Push(v V) {
	f.stack = f.stack.Append(v)
}

func (f *Frame[V]) Pop() (V, error) {
	n := f.stack.Len()
	if n == 0 {
		var zero V
		return zero, ErrStackUnderflow
	}
	v := f.stack.Get(n - 1)
	f.stack = f.stack.Slice(0, n-1)
	return v, nil
}

// PopN pops n values and returns them in push order.
func (f *Frame[V]) PopN(n int) ([]V, error) {
	size := f.stack.Len()
	if n > size {
		return nil, ErrStackUnderflow
	}
	vs := make([]V, n)
	for i := range vs {
		vs[i] = f.stack.Get(size - n + i)
	}
	f.stack = f.stack.Slice(0, size-n)
	return vs, nil
}

func (f *Frame[V]) ClearStack() {
	f.stack = immutable.NewList[V]()
}

// Merge joins other into f slot by slot, using join for the values and eq
// to detect changes. It reports whether f changed.
func (f *Frame[V]) Merge(other Frame[V], join func(a, b V) V, eq func(a, b V) bool) (changed bool, err error) {
	if f.stack.Len() != other.stack.Len() {
		return false, fmt.Errorf("%w: %d and %d", ErrStackHeight, f.stack.Len(), other.stack.Len())
	}
	if f.locals.Len() != other.locals.Len() {
		return false, fmt.Errorf("%w: %d and %d", ErrLocalsSize, f.locals.Len(), other.locals.Len())
	}

	for i := 0; i < f.locals.Len(); i++ {
		old := f.locals.Get(i)
		if v := join(old, other.locals.Get(i)); !eq(old, v) {
			f.locals = f.locals.Set(i, v)
			changed = true
		}
	}
	for i := 0; i < f.stack.Len(); i++ {
		old := f.stack.Get(i)
		if v := join(old, other.stack.Get(i)); !eq(old, v) {
			f.stack = f.stack.Set(i, v)
			changed = true
		}
	}
	return changed, nil
}

func listString[V Sized](l *immutable.List[V]) string {
	strs := make([]string, 0, l.Len())
	for i := 0; i < l.Len(); i++ {
		strs = append(strs, l.Get(i).String())
	}
	return "[" + strings.Join(strs, ", ") + "]"
}

func (f Frame[V]) String() string {
	return "locals: " + listString(f.locals) + " stack: " + listString(f.stack)
}
