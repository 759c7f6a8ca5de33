// Package os provides host access for hostfetch probes
//
//nolint:revive // Package name 'os' is intentional, in separate namespace 'internal/os'
package os

import (
	"context"
	"io/fs"
	"os/user"
)

// SystemPrimitives defines low-level OS operations that can be logged
type SystemPrimitives interface {
	// File operations
	OSReadFile(path string) ([]byte, error)
	OSStat(path string) (fs.FileInfo, error)
	OSReadDir(path string) ([]fs.DirEntry, error)
	OSGlob(pattern string) ([]string, error)

	// Environment
	OSGetenv(key string) string
	OSLookupEnv(key string) (string, bool)
	OSHostname() (string, error)

	// User operations
	UserCurrent() (*user.User, error)

	// IsLive reports whether the primitives read the running host. Host-wide APIs that do not
	// go through these primitives describe the running host too, so they are only valid when true.
	IsLive() bool

	// Command execution
	ExecLookPath(name string) (string, error)
	ExecOutput(ctx context.Context, name string, args ...string) ([]byte, error)
}
