// Package os provides host access for hostfetch probes
//
//nolint:revive // Package name 'os' is intentional, in separate namespace 'internal/os'
package os

// AnalysisMode represents the data acquisition mode.
type AnalysisMode string

const (
	// LiveMode reads the running host and may start subprocesses.
	LiveMode AnalysisMode = "live"
	// RootedMode reads files below a mounted root and never starts subprocesses,
	// since their output would describe the running host instead.
	RootedMode AnalysisMode = "rooted"
)

// CollectorOptions configures primitives creation.
type CollectorOptions struct {
	// Root is the directory every absolute path is resolved under. Empty means "/".
	Root string
}
