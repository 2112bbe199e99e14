package ui

import (
	"log"

	"github.com/sweeney/rgbcal/internal/logic"
)

// Reporter receives the full status every time it changes.
type Reporter interface {
	Report(s logic.Status)
}

// LogReporter writes the status line to the standard logger.
type LogReporter struct{}

// Report logs s.
func (LogReporter) Report(s logic.Status) {
	log.Printf("status: %s", s)
}

// Reporters fans a status out to every reporter in order.
type Reporters []Reporter

// Report forwards s to each reporter.
func (rs Reporters) Report(s logic.Status) {
	for _, r := range rs {
		r.Report(s)
	}
}

// ReporterFunc adapts a function to a Reporter.
type ReporterFunc func(logic.Status)

// Report calls f(s).
func (f ReporterFunc) Report(s logic.Status) {
	f(s)
}
