// Package enginelog provides the engine's minimal structured logging
// surface. The teacher packages (devices, plugins) each logged through a
// package-level verbosity bool gating plain fmt.Printf/NSLog calls; this
// generalizes that into an interface so the engine and its appliers can log
// without pulling in a third-party logging framework (see DESIGN.md for why
// one from the corpus was not adopted here).
package enginelog

import (
	"fmt"
	"log"
	"os"
)

// Logger is the engine's logging seam. Implementations must be safe for
// concurrent use - callbacks from OS device/interruption threads may log
// before they've posted onto the control thread.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// stdLogger wraps the standard library's log.Logger, the teacher's own
// fallback whenever JSON-logging verbosity was turned off.
type stdLogger struct {
	verbose bool
	l       *log.Logger
}

// New returns a Logger writing to stderr. When verbose is false, Debugf is a
// no-op - matching the devices/plugins packages' enableJSONLogging gate.
func New(verbose bool) Logger {
	return &stdLogger{verbose: verbose, l: log.New(os.Stderr, "", log.LstdFlags|log.Lmicroseconds)}
}

func (s *stdLogger) Debugf(format string, args ...interface{}) {
	if !s.verbose {
		return
	}
	s.l.Output(2, "DEBUG "+fmt.Sprintf(format, args...))
}

func (s *stdLogger) Infof(format string, args ...interface{}) {
	s.l.Output(2, "INFO  "+fmt.Sprintf(format, args...))
}

func (s *stdLogger) Warnf(format string, args ...interface{}) {
	s.l.Output(2, "WARN  "+fmt.Sprintf(format, args...))
}

func (s *stdLogger) Errorf(format string, args ...interface{}) {
	s.l.Output(2, "ERROR "+fmt.Sprintf(format, args...))
}

// noop discards everything; used by tests that don't want log noise.
type noop struct{}

// Noop returns a Logger that discards all output.
func Noop() Logger { return noop{} }

func (noop) Debugf(string, ...interface{}) {}
func (noop) Infof(string, ...interface{})  {}
func (noop) Warnf(string, ...interface{})  {}
func (noop) Errorf(string, ...interface{}) {}
