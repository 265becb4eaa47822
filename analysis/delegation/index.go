// Package delegation finds method parameters that are passed on unchanged as
// arguments of calls, linking the caller's parameter slot to the callee's.
package delegation

import (
	"log"
	"sort"

	"github.com/cs-au-dk/jnames/analysis/dataflow"
	"github.com/cs-au-dk/jnames/analysis/interp"
	L "github.com/cs-au-dk/jnames/analysis/lattice"
	bc "github.com/cs-au-dk/jnames/bytecode"
	"github.com/cs-au-dk/jnames/utils"
)

type Entry = bc.LocalVariableEntry

// Index accumulates parameter delegation links over the visited classes.
type Index struct {
	opts  dataflow.Options
	links map[Entry]Entry
	// order records keys in the order they were first linked.
	order []Entry
}

func NewIndex(opts dataflow.Options) *Index {
	return &Index{
		opts:  opts,
		links: make(map[Entry]Entry),
	}
}

// Reset forgets every link.
func (idx *Index) Reset() {
	idx.links = make(map[Entry]Entry)
	idx.order = nil
}

// VisitClass visits every method with code. Methods that fail to analyze are
// logged and skipped; their errors are returned once all methods have been
// visited.
func (idx *Index) VisitClass(class *bc.Class) (errs []error) {
	for _, m := range class.Methods {
		if len(m.Insns) == 0 {
			continue
		}
		if err := idx.VisitMethod(m); err != nil {
			log.Printf("Skipping %s: %v", m, err)
			errs = append(errs, err)
		}
	}
	return
}

// VisitMethod analyzes m and links every parameter it passes unchanged to an
// invoked method. Nothing is recorded if the analysis fails.
func (idx *Index) VisitMethod(m *bc.Method) error {
	res, err := dataflow.Analyze[L.Value](m, interp.Provenance{}, idx.opts)
	if err != nil {
		return err
	}
	utils.VerbosePrint("Visiting %s (%d steps)\n", m, res.Steps())

	caller := m.Entry()
	for i := range m.Insns {
		insn := &m.Insns[i]
		frame := res.Frame(i)
		if insn.Kind() != bc.KindInvoke || frame == nil {
			continue
		}

		mt, err := bc.ParseMethodType(insn.Desc)
		if err != nil {
			// Execute already rejected malformed descriptors at reachable
			// instructions.
			continue
		}

		callee := bc.MethodFromInsn(insn)
		offset := 1
		if insn.Op == bc.INVOKESTATIC {
			offset = 0
		}

		// Arguments are on top of the stack, the last one topmost.
		f := *frame
		for j := len(mt.Args) - 1; j >= 0; j-- {
			v, err := f.Pop()
			if err != nil {
				break
			}
			if v.IsParameter() {
				from := Entry{Method: caller, Index: v.Local()}
				to := Entry{Method: callee, Index: j + offset}
				utils.VerbosePrint("%s uses local %d at %d\n", insn, v.Local(), j+offset)
				idx.link(from, to)
			}
		}
	}
	return nil
}

// link records that from is passed on to to. A parameter passed to several
// calls keeps the link of the last one.
func (idx *Index) link(from, to Entry) {
	if _, found := idx.links[from]; !found {
		idx.order = append(idx.order, from)
	}
	idx.links[from] = to
}

func (idx *Index) Len() int {
	return len(idx.links)
}

// LinkedParameterSlots lists every linked caller slot, sorted.
func (idx *Index) LinkedParameterSlots() []Entry {
	res := make([]Entry, 0, len(idx.links))
	for k := range idx.links {
		res = append(res, k)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Less(res[j]) })
	return res
}

// Resolve returns the callee slot the given caller slot is passed to.
func (idx *Index) Resolve(e Entry) (Entry, bool) {
	to, found := idx.links[e]
	return to, found
}

// Links returns a copy of the link map.
func (idx *Index) Links() map[Entry]Entry {
	res := make(map[Entry]Entry, len(idx.links))
	for k, v := range idx.links {
		res[k] = v
	}
	return res
}

// Chain follows links from e until reaching a slot that is not passed on or
// one already on the chain. The result starts with e.
func (idx *Index) Chain(e Entry) []Entry {
	chain := []Entry{e}
	seen := map[Entry]bool{e: true}
	for {
		next, found := idx.links[e]
		if !found || seen[next] {
			return chain
		}
		seen[next] = true
		chain = append(chain, next)
		e = next
	}
}
