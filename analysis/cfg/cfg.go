// Package cfg computes the intraprocedural control flow of a method body:
// the normal successors of every instruction and the exception handlers that
// protect it.
package cfg

import (
	"errors"
	"fmt"

	bc "github.com/cs-au-dk/jnames/bytecode"
	"github.com/cs-au-dk/jnames/utils/graph"
	"github.com/cs-au-dk/jnames/utils/slices"

	"golang.org/x/tools/container/intsets"
)

var (
	// ErrNoCode is reported for methods without instructions.
	ErrNoCode = errors.New("method has no code")
	// ErrBadTarget is reported for jumps and handlers outside the method.
	ErrBadTarget = errors.New("control flow target out of range")
	// ErrFallOff is reported when execution can run past the last instruction.
	ErrFallOff = errors.New("execution can fall off the end of the code")
)

// EdgeKind distinguishes how control reaches a successor.
type EdgeKind uint8

const (
	// Fallthrough is flow to the next instruction.
	Fallthrough EdgeKind = iota
	Jump
	Switch
	// Exception is flow from a protected instruction to its handler.
	Exception
)

func (k EdgeKind) String() string {
	return [...]string{"fallthrough", "jump", "switch", "exception"}[k]
}

// Cfg is the control flow of a single method. Instructions are identified by
// their index in the method.
type Cfg struct {
	method *bc.Method
	// succs holds the normal successors of every instruction.
	succs [][]int
	// handlers holds the exception table entries covering every instruction,
	// in exception table order.
	handlers [][]bc.Handler
	// fallsOff marks instructions that may continue past the end.
	fallsOff intsets.Sparse
}

// New computes the control flow of m. Jump and handler targets outside the
// method are errors. Falling off the end is only reported by Successors,
// since it matters only for reachable instructions.
func New(m *bc.Method) (*Cfg, error) {
	n := len(m.Insns)
	if n == 0 {
		return nil, ErrNoCode
	}

	cfg := &Cfg{
		method:   m,
		succs:    make([][]int, n),
		handlers: make([][]bc.Handler, n),
	}

	target := func(i, t int) error {
		if t < 0 || t >= n {
			return fmt.Errorf("%w: %d at instruction %d", ErrBadTarget, t, i)
		}
		return nil
	}

	for i := range m.Insns {
		insn := &m.Insns[i]
		var succs []int

		switch insn.Kind() {
		case bc.KindJump:
			if err := target(i, insn.Target); err != nil {
				return nil, err
			}
			if insn.Op.IsConditional() {
				succs = append(succs, i+1)
			}
			succs = slices.Dedup(append(succs, insn.Target))
		case bc.KindSwitch:
			if err := target(i, insn.Default); err != nil {
				return nil, err
			}
			succs = append(succs, insn.Default)
			for _, t := range insn.Targets {
				if err := target(i, t); err != nil {
					return nil, err
				}
				succs = append(succs, t)
			}
			succs = slices.Dedup(succs)
		case bc.KindSubroutine:
			// Rejected by the interpreter.
		default:
			if !insn.Op.EndsFlow() {
				succs = append(succs, i+1)
			}
		}

		if len(succs) > 0 && succs[0] == n {
			cfg.fallsOff.Insert(i)
			succs = succs[1:]
		}
		cfg.succs[i] = succs
	}

	for _, h := range m.Handlers {
		if h.Start < 0 || h.End > n || h.Start > h.End {
			return nil, fmt.Errorf("%w: handler range [%d, %d)", ErrBadTarget, h.Start, h.End)
		}
		if err := target(h.Start, h.Handler); err != nil {
			return nil, err
		}
		for i := h.Start; i < h.End; i++ {
			cfg.handlers[i] = append(cfg.handlers[i], h)
		}
	}

	return cfg, nil
}

func (cfg *Cfg) Method() *bc.Method {
	return cfg.method
}

// Len is the number of instructions.
func (cfg *Cfg) Len() int {
	return len(cfg.succs)
}

// Successors lists the instructions that may execute after instruction i
// completes normally, in ascending order for fallthrough and jumps and in
// table order for switches.
func (cfg *Cfg) Successors(i int) ([]int, error) {
	if cfg.fallsOff.Has(i) {
		return nil, ErrFallOff
	}
	return cfg.succs[i], nil
}

// Handlers lists the exception table entries protecting instruction i.
func (cfg *Cfg) Handlers(i int) []bc.Handler {
	return cfg.handlers[i]
}

// Edges lists every successor of i, exceptional ones included, with the
// kind of each edge.
func (cfg *Cfg) Edges(i int) (succs []int, kinds []EdgeKind) {
	insn := &cfg.method.Insns[i]
	for _, s := range cfg.succs[i] {
		kind := Fallthrough
		switch {
		case insn.Kind() == bc.KindSwitch:
			kind = Switch
		case insn.Kind() == bc.KindJump && (s != i+1 || !insn.Op.IsConditional()):
			kind = Jump
		}
		succs = append(succs, s)
		kinds = append(kinds, kind)
	}
	for _, h := range cfg.handlers[i] {
		succs = append(succs, h.Handler)
		kinds = append(kinds, Exception)
	}
	return
}

// Graph views the control flow as a graph over instruction indices,
// exceptional edges included.
func (cfg *Cfg) Graph() graph.Graph[int] {
	return graph.OfHashable(func(i int) []int {
		succs, _ := cfg.Edges(i)
		return slices.Dedup(succs)
	})
}

// Reachable is the set of instructions reachable from the entry.
func (cfg *Cfg) Reachable() *intsets.Sparse {
	res := &intsets.Sparse{}
	cfg.Graph().BFS(0, func(i int) bool {
		res.Insert(i)
		return false
	})
	return res
}

// Loops returns the instructions of every cycle in the control flow, one
// slice per strongly connected component, in ascending instruction order.
func (cfg *Cfg) Loops() [][]int {
	G := cfg.Graph()
	scc := G.SCC([]int{0})

	var loops [][]int
	for i, comp := range scc.Components {
		if !scc.Cyclic(i) {
			continue
		}
		var set intsets.Sparse
		for _, i := range comp {
			set.Insert(i)
		}
		loops = append(loops, set.AppendTo(nil))
	}
	return loops
}

// LoopHeaders lists, in ascending order, the targets of back edges: edges
// whose target dominates their source.
func (cfg *Cfg) LoopHeaders() []int {
	G := cfg.Graph()
	dom := G.Dominators(0)

	var headers intsets.Sparse
	for i := range cfg.succs {
		if !dom.Reachable(i) {
			continue
		}
		for _, h := range G.Edges(i) {
			if dom.Dominates(h, i) {
				headers.Insert(h)
			}
		}
	}
	return headers.AppendTo(nil)
}
