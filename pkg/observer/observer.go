// Package observer provides ready-made implementations of
// internal/interfaces.Observer, the per-Volume notification sink that
// replaces a process-wide verbosity flag or notification global.
package observer

import (
	"fmt"

	"github.com/deploymenttheory/go-vss/internal/interfaces"
	"github.com/go-logr/logr"
)

// logrObserver adapts a logr.Logger to interfaces.Observer, formatting
// each printf-style call into a single structured "msg" field. Debugf maps
// to V(1), Warnf to Info with a "warning: " message prefix (logr has no
// separate warning level), and Errorf to logr's Error path.
type logrObserver struct {
	logger logr.Logger
}

// NewLogrObserver wraps logger as an interfaces.Observer.
func NewLogrObserver(logger logr.Logger) interfaces.Observer {
	return &logrObserver{logger: logger}
}

func (o *logrObserver) Debugf(format string, args ...any) {
	o.logger.V(1).Info(fmt.Sprintf(format, args...))
}

func (o *logrObserver) Warnf(format string, args ...any) {
	o.logger.Info("warning: " + fmt.Sprintf(format, args...))
}

func (o *logrObserver) Errorf(format string, args ...any) {
	o.logger.Error(nil, fmt.Sprintf(format, args...))
}

// NoOp returns an Observer that discards every call, for callers that have
// no logging infrastructure to wire in.
func NoOp() interfaces.Observer {
	return NewLogrObserver(logr.Discard())
}

var _ interfaces.Observer = (*logrObserver)(nil)
