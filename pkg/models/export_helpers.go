package models

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// NewExport creates an export record with a fresh run id and start timestamp.
func NewExport(version string) *Export {
	return &Export{
		RunID:          uuid.New().String(),
		Version:        version,
		StartTimestamp: time.Now().UTC(),
		Probes:         make([]ProbeReport, 0),
		CommandHistory: make([]CommandExecution, 0),
		Logs:           make([]string, 0),
	}
}

// Finalize completes the export with the frozen snapshot and everything recorded during the run.
func (e *Export) Finalize(snapshot *Snapshot, probes []ProbeReport, commands []CommandExecution, logs []string) {
	e.EndTimestamp = time.Now().UTC()
	e.Snapshot = snapshot
	e.Probes = append(e.Probes[:0], probes...)
	e.CommandHistory = append(e.CommandHistory[:0], commands...)
	e.Logs = append(e.Logs[:0], logs...)
}

// CommandRecorder collects command executions reported by concurrently running probes.
type CommandRecorder struct {
	mu      sync.Mutex
	entries []CommandExecution
}

// Log satisfies CommandLogger
func (r *CommandRecorder) Log(id string, cmd string, args []string, startTime, endTime time.Time, exitCode int, err error, _ string, _ string) {
	entry := CommandExecution{
		ID:        id,
		Command:   cmd,
		Arguments: append([]string(nil), args...),
		StartTime: startTime.UTC(),
		EndTime:   endTime.UTC(),
		Duration:  endTime.Sub(startTime).String(),
		ExitCode:  exitCode,
	}
	if err != nil {
		entry.ErrorMessage = err.Error()
	}

	r.mu.Lock()
	r.entries = append(r.entries, entry)
	r.mu.Unlock()
}

// Entries returns a copy of every recorded execution
func (r *CommandRecorder) Entries() []CommandExecution {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]CommandExecution, len(r.entries))
	copy(out, r.entries)
	return out
}
