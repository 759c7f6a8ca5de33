// Package probe defines the collect/project contract shared by every hostfetch probe and
// implements the probes themselves.
package probe

import (
	"context"
	"fmt"

	"github.com/ilexum-group/hostfetch/internal/namespace"
	hostos "github.com/ilexum-group/hostfetch/internal/os"
	"github.com/ilexum-group/hostfetch/internal/platform"
	"github.com/ilexum-group/hostfetch/pkg/models"
)

// Env is what a probe may read while collecting. It must not be modified.
type Env struct {
	Platform platform.Identity
	Sys      hostos.SystemPrimitives
	// Prior holds the records of stages that already finished. Nil slots are absent.
	Prior *models.Snapshot
}

// Probe collects one record and projects it into the template namespace.
//
// Collect returns nil, nil when the feature does not exist on the host. Project is only
// called with a non-nil record and must only add keys.
type Probe[R any] interface {
	Name() string
	Collect(ctx context.Context, env Env) (*R, error)
	Project(rec *R, ns *namespace.Table) error
}

// Error is a contained probe failure. The run continues without the record.
type Error struct {
	Probe string
	Op    string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("probe %s: %s: %v", e.Probe, e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func fail(probe, op string, err error) error {
	return &Error{Probe: probe, Op: op, Err: err}
}

// ProjectKernel writes the kernel identity, which is always present.
func ProjectKernel(k models.Kernel, ns *namespace.Table) error {
	_, err := ns.Record("kernel",
		namespace.F("name", k.Name),
		namespace.F("version", k.Version),
		namespace.F("architecture", k.Architecture),
	)
	return err
}

// KernelFromPlatform builds the kernel record from the resolved identity
func KernelFromPlatform(id platform.Identity) models.Kernel {
	return models.Kernel{
		Name:         string(id.Family),
		Sysname:      id.Sysname,
		Version:      id.Release,
		Architecture: id.Machine,
	}
}
