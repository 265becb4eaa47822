package utils

import (
	"fmt"
	"io"
	"os"
	"time"
)

// verboseOut receives verbose output. Reports own stdout.
var verboseOut io.Writer = os.Stderr

// TimeTrack reports the time elapsed since start in verbose mode.
// Intended to be deferred at the top of a pipeline stage.
func TimeTrack(start time.Time, name string) {
	VerbosePrint("%s took %s\n", name, time.Since(start))
}

func VerbosePrint(format string, a ...interface{}) (n int, err error) {
	if Opts().Verbose() {
		return fmt.Fprintf(verboseOut, format, a...)
	}
	return 0, nil
}
