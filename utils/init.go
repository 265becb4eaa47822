package utils

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

type options struct {
	minlen       uint
	nodesep      float64
	maxSteps     int
	method       string
	domain       string
	outputFormat string
	dotFormat    string
	output       string
	configPath   string
	task         string
	noColorize   bool
	verbose      bool
	trace        bool

	config Config
}

const (
	_NAMES = iota
	_LINKS
	_FRAMES
	_CFG_TO_DOT
	_PROPOSALS
)

func CanColorize(col func(...interface{}) string) func(...interface{}) string {
	if opts.noColorize {
		return func(is ...interface{}) string {
			return fmt.Sprintf(strings.Repeat("%s", len(is)), is...)
		}
	}
	return col
}

var task = []struct{ flag, explanation string }{{
	"names",
	"Propose names for static fields from the string literals in static initializers",
}, {
	"links",
	"Print the parameter delegation links between methods",
}, {
	"frames",
	"Print the abstract frame before every instruction of the methods selected by -method",
}, {
	"cfg-to-dot",
	"Render the control-flow graph of the methods selected by -method",
}, {
	"proposals",
	"Run every enabled analysis and print the merged name proposals",
}}

var formats = []string{"text", "yaml"}

var domains = []string{"provenance", "sources"}

var opts = &options{config: DefaultConfig()}

type optInterface struct{}

type taskInterface struct{}

func Opts() optInterface {
	return optInterface{}
}

func (optInterface) NoColorize() bool {
	return opts.noColorize
}

func (optInterface) Minlen() uint {
	return opts.minlen
}
func (optInterface) Nodesep() float64 {
	return opts.nodesep
}

// Method is the method filter of the frames and cfg-to-dot tasks. It matches
// a method by name, by name and descriptor, or by owner, name and descriptor.
func (optInterface) Method() string {
	return opts.method
}
// Domain selects the abstract values shown by the frames task.
func (optInterface) Domain() string {
	return opts.domain
}
func (optInterface) OutputFormat() string {
	return opts.outputFormat
}
func (optInterface) DotFormat() string {
	return opts.dotFormat
}
func (optInterface) Output() string {
	return opts.output
}
func (optInterface) MaxSteps() int {
	return opts.maxSteps
}
func (optInterface) Trace() bool {
	return opts.trace
}
func (optInterface) Verbose() bool {
	return opts.verbose
}
func (optInterface) Config() Config {
	return opts.config
}
func (optInterface) Task() taskInterface {
	return taskInterface{}
}
func (taskInterface) IsNames() bool {
	return opts.task == task[_NAMES].flag
}
func (taskInterface) IsLinks() bool {
	return opts.task == task[_LINKS].flag
}
func (taskInterface) IsFrames() bool {
	return opts.task == task[_FRAMES].flag
}
func (taskInterface) IsCfgToDot() bool {
	return opts.task == task[_CFG_TO_DOT].flag
}
func (taskInterface) IsProposals() bool {
	return opts.task == task[_PROPOSALS].flag
}

func init() {
	taskFlag := "\n"
	for _, task := range task {
		taskFlag += task.flag + " -- " + task.explanation + "\n"
	}
	taskFlag += "\n"

	flag.UintVar(&(opts.minlen), "minlen", 2, "Minimum edge length (for wider output).")
	flag.Float64Var(&(opts.nodesep), "nodesep", 0.35, "Minimum space between two adjacent nodes in the same rank (for taller output).")
	flag.IntVar(&(opts.maxSteps), "max-steps", 0, "Upper bound on worklist steps per analyzed method (0 disables the bound).")
	flag.StringVar(&(opts.method), "method", "", "target specific methods w. r. t. the given task.\n"+
		"- Accepts a simple name (\"run\"), a name with descriptor (\"run(I)V\") or a qualified name (\"a/b/C.run(I)V\").\n"+
		"- An empty filter selects every method.\n")
	flag.StringVar(&(opts.domain), "domain", domains[0], "abstract values shown by the frames task [provenance | sources]")
	flag.StringVar(&(opts.outputFormat), "format", formats[0], "report format [text | yaml]")
	flag.StringVar(&(opts.dotFormat), "dot-format", "svg", "output file format for rendered graphs [dot | svg | png | jpg | ...]")
	flag.StringVar(&(opts.output), "o", "", "base path of rendered graphs (defaults to a temporary file)")
	flag.StringVar(&(opts.configPath), "config", "", "path to a YAML configuration file")
	flag.StringVar(&(opts.task), "task", task[_PROPOSALS].flag, "Set the task to do during execution. Options:"+taskFlag)
	flag.BoolVar(&(opts.noColorize), "no-colorize", false, "Disable pretty printer colorization")
	flag.BoolVar(&(opts.verbose), "verbose", false, "enable verbose output")
	flag.BoolVar(&(opts.trace), "trace", false, "log every abstract interpreter rule application")

	// Set up logging
	log.SetFlags(log.Ltime | log.Lshortfile)
}

func ParseArgs() {
	// Calling flag.Parse in init messes up unit tests.
	// See https://stackoverflow.com/questions/60235896/flag-provided-but-not-defined-test-v
	flag.Parse()

	validTask := false
	for _, task := range task {
		if task.flag == opts.task {
			validTask = true
			break
		}
	}

	if !validTask {
		log.Fatalf("Value \"%s\" is not valid for -task", opts.task)
	}

	validFormat := false
	for _, f := range formats {
		validFormat = validFormat || f == opts.outputFormat
	}
	if !validFormat {
		log.Fatalf("Value \"%s\" is not valid for -format", opts.outputFormat)
	}

	validDomain := false
	for _, d := range domains {
		validDomain = validDomain || d == opts.domain
	}
	if !validDomain {
		log.Fatalf("Value \"%s\" is not valid for -domain", opts.domain)
	}

	if opts.configPath != "" {
		cfg, err := LoadConfig(opts.configPath)
		if err != nil {
			log.Fatalln(err)
		}
		opts.config = cfg
	}

	// Flags given on the command line take precedence over the file.
	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if !set["max-steps"] {
		opts.maxSteps = opts.config.MaxSteps
	}

	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		opts.noColorize = true
	}
	if Opts().Task().IsCfgToDot() || opts.outputFormat == "yaml" {
		opts.noColorize = true
	}
}

func (optInterface) OnVerbose(do func()) {
	if Opts().Verbose() {
		do()
	}
}
