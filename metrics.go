package main

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
)

// metrics counts what a run loaded and produced.
type metrics struct {
	classes      int
	excluded     int
	methods      int
	initializers int
	failures     int
	links        int
	names        int
	proposals    int
}

func (m *metrics) print(w io.Writer, elapsed time.Duration) {
	msg := "================ Results =====================\n\n"

	msg += fmt.Sprintf("Classes: %d (%d excluded)\n", m.classes, m.excluded)
	if m.methods > 0 {
		msg += fmt.Sprintf("Methods analyzed: %d\n", m.methods)
		msg += fmt.Sprintf("Delegation links: %d\n", m.links)
	}
	if m.initializers > 0 {
		msg += fmt.Sprintf("Static initializers: %d\n", m.initializers)
		msg += fmt.Sprintf("Named fields: %d\n", m.names)
	}
	if m.proposals > 0 {
		msg += fmt.Sprintf("Proposals: %d\n", m.proposals)
	}

	failures := fmt.Sprint(m.failures)
	if m.failures > 0 {
		failures = color.RedString(failures)
	}
	msg += "Skipped methods: " + failures + "\n"
	msg += "Time: " + elapsed.String() + "\n\n"
	msg += "================ Results ====================="

	fmt.Fprintln(w, msg)
}
