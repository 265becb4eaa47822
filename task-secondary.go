package main

import (
	"fmt"
	"io"
	"log"

	"github.com/cs-au-dk/jnames/analysis/cfg"
	"github.com/cs-au-dk/jnames/analysis/dataflow"
	"github.com/cs-au-dk/jnames/analysis/interp"
	L "github.com/cs-au-dk/jnames/analysis/lattice"
	bc "github.com/cs-au-dk/jnames/bytecode"
	"github.com/cs-au-dk/jnames/report"

	"github.com/fatih/color"
)

// secondaryTask executes the tasks that inspect single methods rather than
// proposing names.
func (pl pipeline) secondaryTask(w io.Writer) error {
	switch {
	// frames : prints the abstract frame before every instruction.
	case task.IsFrames():
		for _, m := range pl.selectedMethods() {
			var err error
			switch opts.Domain() {
			case "sources":
				err = printFrames[L.SourceValue](w, m, interp.Sources{}, pl.analysisOptions())
			default:
				err = printFrames[L.Value](w, m, interp.Provenance{}, pl.analysisOptions())
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(w)
		}

	// cfg-to-dot : renders the control flow of every selected method,
	// annotated with the provenance of the values on the stack.
	case task.IsCfgToDot():
		for k, m := range pl.selectedMethods() {
			G, err := cfg.New(m)
			if err != nil {
				log.Printf("Skipping %s: %v", m, err)
				pl.metrics.failures++
				continue
			}

			var annotate func(int) string
			if res, err := dataflow.Analyze[L.Value](m, interp.Provenance{}, pl.analysisOptions()); err == nil {
				annotate = func(i int) string {
					if f := res.Frame(i); f != nil {
						return f.String()
					}
					return ""
				}
			} else {
				log.Println(color.YellowString("Rendering %s without frames: %v", m, err))
			}

			out := opts.Output()
			if out != "" {
				out = fmt.Sprintf("%s-%d", out, k)
			}
			img, err := G.Visualize(annotate).DotToImage(out, opts.DotFormat())
			if err != nil {
				return err
			}
			fmt.Fprintln(w, m, "->", img)
		}
	}
	return nil
}

// printFrames analyzes m with domain d and writes the resulting frames. A
// method that fails to analyze is logged and skipped.
func printFrames[V L.Sized](w io.Writer, m *bc.Method, d interp.Domain[V], aopts dataflow.Options) error {
	res, err := dataflow.Analyze(m, d, aopts)
	if err != nil {
		log.Printf("Skipping %s: %v", m, err)
		return nil
	}
	return report.Frames(w, res)
}
