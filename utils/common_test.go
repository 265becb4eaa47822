package utils

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"
	"time"
)

func TestVerbosePrint(t *testing.T) {
	var buf bytes.Buffer
	oldOut, oldVerbose := verboseOut, opts.verbose
	verboseOut = &buf
	t.Cleanup(func() { verboseOut, opts.verbose = oldOut, oldVerbose })

	opts.verbose = false
	VerbosePrint("Visiting %s\n", "demo/Items")
	if buf.Len() != 0 {
		t.Errorf("printed %q outside verbose mode", buf.String())
	}

	opts.verbose = true
	VerbosePrint("Visiting %s\n", "demo/Items")
	TimeTrack(time.Now(), "Constant field naming")
	out := buf.String()
	if !strings.HasPrefix(out, "Visiting demo/Items\n") || !strings.Contains(out, "Constant field naming took ") {
		t.Errorf("verbose output is %q", out)
	}
}

func TestVerboseOutputAvoidsStdout(t *testing.T) {
	if verboseOut != io.Writer(os.Stderr) {
		t.Errorf("verbose output goes to %v, expected stderr", verboseOut)
	}
}
