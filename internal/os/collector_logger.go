// Package os provides host access for hostfetch probes
//
//nolint:revive // Package name 'os' is intentional, in separate namespace 'internal/os'
package os

import (
	"context"
	"errors"
	"os/exec"
	"time"

	"github.com/ilexum-group/hostfetch/internal/utils"
	"github.com/ilexum-group/hostfetch/pkg/models"
)

// LoggingPrimitives wraps SystemPrimitives and logs every command with timing.
// File and environment reads pass through unlogged.
type LoggingPrimitives struct {
	SystemPrimitives
	logFunc models.CommandLogger
}

// NewLoggingPrimitives creates a LoggingPrimitives that wraps the given primitives
func NewLoggingPrimitives(primitives SystemPrimitives, logFunc models.CommandLogger) *LoggingPrimitives {
	return &LoggingPrimitives{
		SystemPrimitives: primitives,
		logFunc:          logFunc,
	}
}

// logMethodCall logs a command invocation with timing
func (lp *LoggingPrimitives) logMethodCall(name string, args []string, fn func() error) error {
	if lp.logFunc == nil {
		return fn()
	}

	startTime := time.Now()
	err := fn()
	endTime := time.Now()

	lp.logFunc(utils.GenerateRandomID(), name, args, startTime, endTime, exitCode(err), err, "", "")
	return err
}

// exitCode maps a command error to a process exit status, -1 when it never started
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

// ExecOutput runs the command through the wrapped primitives and logs it
func (lp *LoggingPrimitives) ExecOutput(ctx context.Context, name string, args ...string) ([]byte, error) {
	var out []byte
	err := lp.logMethodCall(name, args, func() error {
		var runErr error
		out, runErr = lp.SystemPrimitives.ExecOutput(ctx, name, args...)
		return runErr
	})
	return out, err
}
