package report

import (
	"fmt"
	"io"

	"github.com/cs-au-dk/jnames/analysis/dataflow"
	L "github.com/cs-au-dk/jnames/analysis/lattice"
	"github.com/cs-au-dk/jnames/utils"
)

// Frames writes every instruction of the analyzed method together with the
// frame before it. Unreachable instructions are marked.
func Frames[V L.Sized](w io.Writer, res *dataflow.Result[V]) error {
	m := res.Method()
	if _, err := fmt.Fprintf(w, "%s (%d steps)\n", m, res.Steps()); err != nil {
		return err
	}

	rows := make([][]cell, 0, len(m.Insns))
	for i := range m.Insns {
		state := "unreachable"
		if f := res.Frame(i); f != nil {
			state = f.String()
		}
		rows = append(rows, []cell{
			plain(fmt.Sprintf("%4d", i)),
			{m.Insns[i].String(), utils.InsnString},
			plain(state),
		})
	}
	return writeTable(w, rows)
}
