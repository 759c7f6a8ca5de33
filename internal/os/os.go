// Package os provides host access for hostfetch probes
//
//nolint:revive // Package name 'os' is intentional, in separate namespace 'internal/os'
package os

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"os/user"
	"path/filepath"
	"strings"
)

// ErrCommandsUnavailable is returned by command primitives in rooted mode.
var ErrCommandsUnavailable = errors.New("commands are unavailable in rooted mode")

// Default implements SystemPrimitives against the running host or a mounted root
type Default struct {
	mode         AnalysisMode
	root         string
	fileAccessor FileAccessor
}

// NewDefault creates a Default reading the running host
func NewDefault() *Default {
	return &Default{
		mode:         LiveMode,
		root:         "/",
		fileAccessor: newHostFileAccessor(),
	}
}

// NewDefaultWithOptions creates a Default configured for the provided options.
func NewDefaultWithOptions(opts CollectorOptions) (*Default, error) {
	if opts.Root == "" || filepath.Clean(opts.Root) == "/" {
		return NewDefault(), nil
	}

	info, err := os.Stat(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("root %s: %w", opts.Root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root %s: not a directory", opts.Root)
	}

	abs, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("root %s: %w", opts.Root, err)
	}

	return &Default{
		mode:         RootedMode,
		root:         abs,
		fileAccessor: newRootedFileAccessor(abs),
	}, nil
}

// IsLive returns true when running in live mode.
func (d *Default) IsLive() bool {
	return d.mode == LiveMode
}

// Mode returns the acquisition mode
func (d *Default) Mode() AnalysisMode {
	return d.mode
}

// Root returns the directory paths are resolved under
func (d *Default) Root() string {
	return d.root
}

// OSReadFile reads path through the file accessor
func (d *Default) OSReadFile(path string) ([]byte, error) {
	return d.fileAccessor.ReadFile(path)
}

// OSStat stats path through the file accessor
func (d *Default) OSStat(path string) (fs.FileInfo, error) {
	return d.fileAccessor.Stat(path)
}

// OSReadDir lists path through the file accessor
func (d *Default) OSReadDir(path string) ([]fs.DirEntry, error) {
	return d.fileAccessor.ReadDir(path)
}

// OSGlob expands pattern through the file accessor
func (d *Default) OSGlob(pattern string) ([]string, error) {
	return d.fileAccessor.Glob(pattern)
}

// OSGetenv wraps os.Getenv
func (d *Default) OSGetenv(key string) string {
	return os.Getenv(key)
}

// OSLookupEnv wraps os.LookupEnv
func (d *Default) OSLookupEnv(key string) (string, bool) {
	return os.LookupEnv(key)
}

// OSHostname returns the host name. In rooted mode it is read from /etc/hostname.
func (d *Default) OSHostname() (string, error) {
	if d.IsLive() {
		return os.Hostname()
	}
	data, err := d.OSReadFile("/etc/hostname")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// UserCurrent wraps user.Current
func (d *Default) UserCurrent() (*user.User, error) {
	return user.Current()
}

// ExecLookPath wraps exec.LookPath
func (d *Default) ExecLookPath(name string) (string, error) {
	if !d.IsLive() {
		return "", &exec.Error{Name: name, Err: ErrCommandsUnavailable}
	}
	return exec.LookPath(name)
}

// ExecOutput runs name and returns its standard output
func (d *Default) ExecOutput(ctx context.Context, name string, args ...string) ([]byte, error) {
	if !d.IsLive() {
		return nil, &exec.Error{Name: name, Err: ErrCommandsUnavailable}
	}
	//nolint:gosec // G204: Commands are fixed by probe logic
	return exec.CommandContext(ctx, name, args...).Output()
}

// New creates primitives for the running host
func New() SystemPrimitives {
	return NewDefault()
}

// NewWithOptions creates primitives for the provided options
func NewWithOptions(opts CollectorOptions) (SystemPrimitives, error) {
	return NewDefaultWithOptions(opts)
}
