package cfg

import (
	"fmt"
	"strconv"

	"github.com/cs-au-dk/jnames/utils/dot"
	"github.com/cs-au-dk/jnames/utils/graph"

	"golang.org/x/tools/container/intsets"
)

// Blocks maps every instruction to the index of the basic block containing
// it. A block starts at the entry, at every jump, switch and handler target,
// and after every instruction that does not simply fall through.
func (cfg *Cfg) Blocks() []int {
	var leaders intsets.Sparse
	leaders.Insert(0)
	for i := range cfg.succs {
		insn := &cfg.method.Insns[i]
		if insn.Op.EndsFlow() || insn.Op.IsConditional() || cfg.fallsOff.Has(i) {
			leaders.Insert(i + 1)
		}
		for _, s := range cfg.succs[i] {
			if s != i+1 {
				leaders.Insert(s)
			}
		}
	}
	for _, h := range cfg.method.Handlers {
		leaders.Insert(h.Start)
		leaders.Insert(h.End)
		leaders.Insert(h.Handler)
	}

	blocks := make([]int, len(cfg.succs))
	block := -1
	for i := range blocks {
		if leaders.Has(i) {
			block++
		}
		blocks[i] = block
	}
	return blocks
}

// Visualize creates a Dot Graph of the method's control flow with one node
// per instruction, grouped by basic block. Loop headers are outlined twice.
// If annotate is not nil, its result is appended to the label of every
// instruction.
func (cfg *Cfg) Visualize(annotate func(i int) string) *dot.DotGraph {
	nodes := make([]int, cfg.Len())
	for i := range nodes {
		nodes[i] = i
	}
	blocks := cfg.Blocks()
	reachable := cfg.Reachable()
	var headers intsets.Sparse
	for _, h := range cfg.LoopHeaders() {
		headers.Insert(h)
	}

	kinds := make([]map[int]EdgeKind, cfg.Len())
	for i := range kinds {
		kinds[i] = make(map[int]EdgeKind)
		succs, ks := cfg.Edges(i)
		for j, s := range succs {
			// Exceptional flow wins when an instruction both jumps to and is
			// protected by the same handler.
			if k, found := kinds[i][s]; !found || k != Exception {
				kinds[i][s] = ks[j]
			}
		}
	}

	methodId := cfg.method.String()
	return cfg.Graph().ToDotGraph(methodId, nodes, &graph.VisualizationConfig[int]{
		NodeAttrs: func(i int) (string, dot.DotAttrs) {
			label := fmt.Sprintf("%d: %s", i, cfg.method.Insns[i].String())
			if annotate != nil {
				if a := annotate(i); a != "" {
					label += "\n" + a
				}
			}
			attrs := dot.DotAttrs{"label": label}
			if headers.Has(i) {
				attrs["peripheries"] = "2"
			}
			if !reachable.Has(i) {
				attrs["fillcolor"] = "#d9d9d9"
				attrs["style"] = "filled, dashed"
			}
			return fmt.Sprintf("%s-%d", methodId, i), attrs
		},
		EdgeAttrs: func(from, to int) dot.DotAttrs {
			switch kinds[from][to] {
			case Jump:
				return dot.DotAttrs{"style": "bold"}
			case Switch:
				return dot.DotAttrs{"style": "bold", "color": "blue"}
			case Exception:
				return dot.DotAttrs{"style": "dashed", "color": "red"}
			}
			return nil
		},
		ClusterKey: func(i int) any {
			return blocks[i]
		},
		ClusterAttrs: func(key any) (string, dot.DotAttrs) {
			b := key.(int)
			return fmt.Sprintf("%s-block%d", methodId, b), dot.DotAttrs{
				"bgcolor": "#cce6ff",
				"label":   "Block " + strconv.Itoa(b),
			}
		},
	})
}
