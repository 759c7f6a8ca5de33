package models

import (
	"time"
)

// CommandLogger is a function type for logging command executions with timing and metadata.
type CommandLogger func(id string, cmd string, args []string, startTime, endTime time.Time, exitCode int, err error, workingDirectory string, targetResource string)

// ProbeStatus is the outcome of one probe call
type ProbeStatus string

const (
	// ProbeStatusPresent means the probe returned a record
	ProbeStatusPresent ProbeStatus = "present"

	// ProbeStatusAbsent means the feature or hardware does not exist on this host
	ProbeStatusAbsent ProbeStatus = "absent"

	// ProbeStatusFailed means the probe hit an I/O or subprocess error
	ProbeStatusFailed ProbeStatus = "failed"

	// ProbeStatusDisabled means the probe was switched off by configuration
	ProbeStatusDisabled ProbeStatus = "disabled"
)

// Stage names the gathering stage a probe belongs to
type Stage string

const (
	// StageSequential runs probes one after another in manifest order
	StageSequential Stage = "sequential"

	// StageParallel runs probes in a fork-join tree
	StageParallel Stage = "parallel"
)

// ProbeReport records how one probe call went
type ProbeReport struct {
	Name     string        `json:"name"`
	Stage    Stage         `json:"stage"`
	Status   ProbeStatus   `json:"status"`
	Duration time.Duration `json:"duration"`
	Error    string        `json:"error,omitempty"`
}

// CommandExecution represents a single subprocess started by a probe.
type CommandExecution struct {
	// Unique identifier for this command execution
	ID string `json:"id"`

	// The command that was executed (e.g., "xrandr", "lspci")
	Command string `json:"command"`

	// Full command-line arguments passed to the command
	Arguments []string `json:"arguments"`

	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`

	// Duration of command execution
	Duration string `json:"duration"`

	// Exit code returned by the command, -1 when it could not be started
	ExitCode int `json:"exit_code"`

	// Error message if command failed
	ErrorMessage string `json:"error_message,omitempty"`
}

// Export is the structured form of one run, written by --json
type Export struct {
	RunID          string             `json:"run_id"`
	Version        string             `json:"version"`
	StartTimestamp time.Time          `json:"start_timestamp"`
	EndTimestamp   time.Time          `json:"end_timestamp"`
	Snapshot       *Snapshot          `json:"snapshot"`
	Probes         []ProbeReport      `json:"probes"`
	CommandHistory []CommandExecution `json:"command_history"`
	Logs           []string           `json:"logs"`
}
