package main

import (
	"log"
	"os"
	"time"

	"github.com/cs-au-dk/jnames/report"
	"github.com/cs-au-dk/jnames/utils"
)

var (
	opts = utils.Opts()
	task = opts.Task()
)

func main() {
	utils.ParseArgs()
	start := time.Now()

	pl := newPipeline(utils.InputPaths())
	format := report.Format(opts.OutputFormat())
	out := os.Stdout

	var err error
	switch {
	case task.IsNames():
		err = report.Names(out, pl.constantFieldNames(), format)
	case task.IsLinks():
		err = report.Links(out, pl.delegationIndex(), format)
	case task.IsProposals():
		err = report.Proposals(out, pl.proposals(), format)
	default:
		err = pl.secondaryTask(out)
	}
	if err != nil {
		log.Fatalln(err)
	}

	opts.OnVerbose(func() {
		pl.metrics.print(os.Stderr, time.Since(start))
	})
}
