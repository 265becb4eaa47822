package main

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/cs-au-dk/jnames/analysis/constfields"
	"github.com/cs-au-dk/jnames/analysis/dataflow"
	"github.com/cs-au-dk/jnames/analysis/delegation"
	bc "github.com/cs-au-dk/jnames/bytecode"
	"github.com/cs-au-dk/jnames/bytecode/classfile"
	"github.com/cs-au-dk/jnames/proposal"
	"github.com/cs-au-dk/jnames/utils"
)

// pipeline is a wrapper around the loaded classes and the analyses run on them.
type pipeline struct {
	classes []*bc.Class
	config  utils.Config
	metrics *metrics
}

// newPipeline loads every input and keeps the classes selected by the
// configuration. Classes are kept in input order.
func newPipeline(paths []string) pipeline {
	pl := pipeline{
		config:  opts.Config(),
		metrics: &metrics{},
	}

	log.Println("Loading classes...")
	for _, path := range paths {
		classes, err := classfile.ReadPath(path)
		if err != nil {
			log.Println("Failed classfile.ReadPath")
			log.Println(err)
			os.Exit(1)
		}

		for _, class := range classes {
			pl.metrics.classes++
			if !pl.config.Includes(class.Name) {
				pl.metrics.excluded++
				continue
			}
			pl.classes = append(pl.classes, class)
		}
	}
	log.Printf("Loaded %d classes (%d excluded)", pl.metrics.classes, pl.metrics.excluded)

	return pl
}

// analysisOptions are the options of every dataflow analysis of the run.
func (pl pipeline) analysisOptions() dataflow.Options {
	res := dataflow.Options{MaxSteps: opts.MaxSteps()}
	if opts.Trace() {
		res.Trace = log.New(os.Stderr, "", log.Lshortfile)
	}
	return res
}

// delegationIndex links the parameters of every method to the callee
// parameters they are passed to.
func (pl pipeline) delegationIndex() *delegation.Index {
	log.Println("Extracting parameter delegation links...")
	defer utils.TimeTrack(time.Now(), "Delegation extraction")
	idx := delegation.NewIndex(pl.analysisOptions())
	for _, class := range pl.classes {
		for _, m := range class.Methods {
			if len(m.Insns) > 0 {
				pl.metrics.methods++
			}
		}
		pl.metrics.failures += len(idx.VisitClass(class))
	}
	pl.metrics.links = idx.Len()
	log.Printf("Found %d delegation links", idx.Len())
	return idx
}

// constantFieldNames proposes names for static fields initialized from
// factory calls.
func (pl pipeline) constantFieldNames() map[bc.FieldEntry]string {
	log.Println("Naming constant fields...")
	defer utils.TimeTrack(time.Now(), "Constant field naming")
	idx := constfields.NewIndex()
	for _, class := range pl.classes {
		idx.VisitClass(class)
	}
	pl.metrics.initializers = idx.Len()

	finder := constfields.NewFinder(pl.analysisOptions())
	names := finder.FindNames(idx)
	pl.metrics.failures += len(finder.Failures())
	pl.metrics.names = len(names)
	log.Printf("Named %d fields in %d static initializers", len(names), idx.Len())
	return names
}

// knownParameterNames collects the debug names of the receiver and parameter
// slots of every method.
func (pl pipeline) knownParameterNames() map[bc.LocalVariableEntry]string {
	known := make(map[bc.LocalVariableEntry]string)
	for _, class := range pl.classes {
		for _, m := range class.Methods {
			for slot, name := range m.LocalNames {
				known[bc.LocalVariableEntry{Method: m.Entry(), Index: slot}] = name
			}
		}
	}
	return known
}

// proposals runs the analyses enabled in the configuration and merges their
// results. Constant field names are proposed first.
func (pl pipeline) proposals() []proposal.Mapping {
	p := proposal.NewProposer()
	if pl.config.ConstantFields.Enabled {
		p.InsertConstantFieldNames(pl.constantFieldNames())
	}
	if pl.config.DelegateParameters.Enabled {
		p.PropagateParameterNames(pl.delegationIndex(), pl.knownParameterNames())
	}
	pl.metrics.proposals = p.Len()
	return p.Mappings()
}

// matchesMethod reports whether m is selected by the -method filter.
func matchesMethod(m *bc.Method, filter string) bool {
	switch filter {
	case "", m.Name, m.Name + m.Desc, m.Owner + "." + m.Name, m.String():
		return true
	}
	return strings.HasSuffix(m.Owner+"."+m.Name, "/"+filter) || strings.HasSuffix(m.String(), "/"+filter)
}

// selectedMethods lists the methods with code matched by the -method filter.
func (pl pipeline) selectedMethods() []*bc.Method {
	var res []*bc.Method
	for _, class := range pl.classes {
		for _, m := range class.Methods {
			if len(m.Insns) > 0 && matchesMethod(m, opts.Method()) {
				res = append(res, m)
			}
		}
	}
	if len(res) == 0 {
		log.Printf("No method matches %q", opts.Method())
	}
	return res
}
