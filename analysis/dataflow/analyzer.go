// Package dataflow runs an abstract domain over a method body until every
// reachable instruction has a stable input frame.
package dataflow

import (
	"fmt"
	"log"

	"github.com/cs-au-dk/jnames/analysis/cfg"
	"github.com/cs-au-dk/jnames/analysis/interp"
	L "github.com/cs-au-dk/jnames/analysis/lattice"
	bc "github.com/cs-au-dk/jnames/bytecode"
	W "github.com/cs-au-dk/jnames/utils/worklist"

	"github.com/pkg/errors"
	"golang.org/x/tools/container/intsets"
)

// ErrTooManySteps is reported when the fixpoint is not reached within the
// configured number of worklist steps.
var ErrTooManySteps = errors.New("step bound exceeded before reaching a fixpoint")

// Options tune a single analysis.
type Options struct {
	// MaxSteps bounds the number of processed worklist entries. Zero means
	// no bound.
	MaxSteps int
	// Trace, when set, receives every interpreter rule application.
	Trace *log.Logger
}

// AnalysisError reports a method body that could not be analyzed. Index is
// -1 when the failure is not tied to an instruction.
type AnalysisError struct {
	Method bc.MethodEntry
	Index  int
	Insn   string
	Err    error
}

func (e *AnalysisError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("analyzing %s: %v", e.Method, e.Err)
	}
	return fmt.Sprintf("analyzing %s at %d (%s): %v", e.Method, e.Index, e.Insn, e.Err)
}

func (e *AnalysisError) Unwrap() error { return e.Err }

// Cause makes the error compatible with errors.Cause.
func (e *AnalysisError) Cause() error { return e.Err }

// Result holds the fixpoint of an analysis: the frame before every reachable
// instruction.
type Result[V L.Sized] struct {
	method *bc.Method
	cfg    *cfg.Cfg
	frames []*L.Frame[V]
	steps  int
}

func (r *Result[V]) Method() *bc.Method { return r.method }
func (r *Result[V]) Cfg() *cfg.Cfg      { return r.cfg }

// Steps is the number of worklist entries processed to reach the fixpoint.
func (r *Result[V]) Steps() int { return r.steps }

// Frames returns the frame before every instruction, indexed by instruction.
// Unreachable instructions have no frame.
func (r *Result[V]) Frames() []*L.Frame[V] {
	return r.frames
}

// Frame returns the frame before instruction i, or nil if it is unreachable.
func (r *Result[V]) Frame(i int) *L.Frame[V] {
	if i < 0 || i >= len(r.frames) {
		return nil
	}
	return r.frames[i]
}

// Reachable is the set of instructions that have a frame.
func (r *Result[V]) Reachable() *intsets.Sparse {
	res := &intsets.Sparse{}
	for i, f := range r.frames {
		if f != nil {
			res.Insert(i)
		}
	}
	return res
}

// EntryFrame builds the frame on method entry: the receiver and parameters in
// their slots, the remaining locals unset and an empty stack.
func EntryFrame[V L.Sized](m *bc.Method, d interp.Domain[V]) (L.Frame[V], error) {
	mt, err := bc.ParseMethodType(m.Desc)
	if err != nil {
		return L.Frame[V]{}, err
	}

	instance := !m.IsStatic()
	size := mt.ArgumentsSize()
	if instance {
		size++
	}
	if m.MaxLocals > size {
		size = m.MaxLocals
	}

	locals := make([]V, 0, size)
	if instance {
		locals = append(locals, d.NewParameter(true, 0, bc.ObjectType(m.Owner)))
	}
	for _, t := range mt.Args {
		locals = append(locals, d.NewParameter(instance, len(locals), t))
		if t.Size() == 2 {
			locals = append(locals, d.NewUnset(len(locals)))
		}
	}
	for len(locals) < size {
		locals = append(locals, d.NewUnset(len(locals)))
	}
	return L.NewFrame(locals...), nil
}

// Analyze computes the fixpoint of domain d over the body of m. Frames flow
// along normal successors after executing the instruction, and to exception
// handlers with the locals before the instruction and the exception as the
// only stack value. Incoming frames are joined slot-wise with the domain's
// merge. Any failure discards the whole result.
func Analyze[V L.Sized](m *bc.Method, d interp.Domain[V], opts Options) (*Result[V], error) {
	fail := func(i int, err error) (*Result[V], error) {
		ae := &AnalysisError{Method: m.Entry(), Index: i, Err: err}
		if i >= 0 && i < len(m.Insns) {
			ae.Insn = m.Insns[i].String()
		}
		return nil, ae
	}

	G, err := cfg.New(m)
	if err != nil {
		return fail(-1, err)
	}
	if opts.Trace != nil {
		d = interp.Traced(d, opts.Trace)
	}

	entry, err := EntryFrame(m, d)
	if err != nil {
		return fail(-1, errors.Wrap(err, "invalid method descriptor"))
	}

	res := &Result[V]{
		method: m,
		cfg:    G,
		frames: make([]*L.Frame[V], len(m.Insns)),
	}

	queue := &W.Indices{}

	// propagate joins f into the input frame of instruction j.
	propagate := func(j int, f L.Frame[V]) error {
		if old := res.frames[j]; old != nil {
			changed, err := old.Merge(f, d.Merge, d.Equal)
			if err != nil {
				return errors.Wrapf(err, "merging into %d", j)
			}
			if !changed {
				return nil
			}
		} else {
			res.frames[j] = &f
		}
		queue.Add(j)
		return nil
	}

	res.frames[0] = &entry
	queue.Add(0)

	for !queue.IsEmpty() {
		res.steps++
		if opts.MaxSteps > 0 && res.steps > opts.MaxSteps {
			return fail(-1, errors.Wrapf(ErrTooManySteps, "%d steps", opts.MaxSteps))
		}

		i := queue.GetNext()
		in := *res.frames[i]

		out := in
		if err := interp.Execute(d, &out, interp.Site{Index: i, Insn: &m.Insns[i]}); err != nil {
			return fail(i, err)
		}

		succs, err := G.Successors(i)
		if err != nil {
			return fail(i, err)
		}
		for _, j := range succs {
			if err := propagate(j, out); err != nil {
				return fail(i, err)
			}
		}

		for _, h := range G.Handlers(i) {
			hf := in
			hf.ClearStack()
			hf.Push(d.NewException(h))
			if err := propagate(h.Handler, hf); err != nil {
				return fail(i, err)
			}
		}
	}

	return res, nil
}
