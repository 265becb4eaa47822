package utils

import (
	"flag"
	"log"
)

// InputPaths returns the jar files, class files and directories given as
// non-flag arguments.
func InputPaths() []string {
	args := flag.Args()
	if len(args) == 0 {
		log.Fatalln("no input given: expected at least one jar, class file or directory")
	}
	return args
}
