// Package acquisition runs the gathering half of a hostfetch run: platform resolution, host
// access setup and both probe stages.
package acquisition

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ilexum-group/hostfetch/internal/gather"
	hostos "github.com/ilexum-group/hostfetch/internal/os"
	"github.com/ilexum-group/hostfetch/internal/platform"
	"github.com/ilexum-group/hostfetch/internal/utils"
	"github.com/ilexum-group/hostfetch/pkg/models"
)

// Acquisition manages one gathering pass with dependency injection
type Acquisition struct {
	plan     *gather.Plan
	sys      hostos.SystemPrimitives
	recorder *models.CommandRecorder
	resolve  func() (platform.Identity, error)
}

// Result is everything gathered during one pass
type Result struct {
	Platform platform.Identity
	Snapshot *models.Snapshot
	Probes   []models.ProbeReport
	Commands []models.CommandExecution
}

// New creates an Acquisition running plan against sys. Every command a probe starts is
// recorded and logged at debug level. Under a mounted root the platform is read from the root.
func New(plan *gather.Plan, sys hostos.SystemPrimitives) *Acquisition {
	recorder := &models.CommandRecorder{}
	logFunc := func(id string, cmd string, args []string, startTime, endTime time.Time, exitCode int, err error, workingDirectory string, targetResource string) {
		recorder.Log(id, cmd, args, startTime, endTime, exitCode, err, workingDirectory, targetResource)
		meta := map[string]string{
			"id":        id,
			"command":   strings.TrimSpace(cmd + " " + strings.Join(args, " ")),
			"duration":  endTime.Sub(startTime).String(),
			"exit_code": fmt.Sprint(exitCode),
		}
		if err != nil {
			meta["error"] = err.Error()
		}
		utils.LogDebug("command executed", meta)
	}

	resolve := platform.Resolve
	if !sys.IsLive() {
		resolve = func() (platform.Identity, error) { return rootIdentity(sys) }
	}

	return &Acquisition{
		plan:     plan,
		sys:      hostos.NewLoggingPrimitives(sys, logFunc),
		recorder: recorder,
		resolve:  resolve,
	}
}

// rootMarkers name the system of a mounted root whose /proc/sys/kernel/ostype is missing
var rootMarkers = []struct {
	path    string
	sysname string
}{
	{hostos.DarwinSystemVersionPath, "Darwin"},
	{hostos.WindowsSoftwareHive, "Windows_NT"},
	{"/bin/freebsd-version", "FreeBSD"},
	{"/etc/os-release", "Linux"},
	{"/usr/lib/os-release", "Linux"},
}

// rootIdentity reads the platform from the files of a mounted root. uname would describe the
// running host instead.
func rootIdentity(sys hostos.SystemPrimitives) (platform.Identity, error) {
	sysname := readRootValue(sys, "/proc/sys/kernel/ostype")
	if sysname == "" {
		for _, m := range rootMarkers {
			if _, err := sys.OSStat(m.path); err == nil {
				sysname = m.sysname
				break
			}
		}
	}
	if sysname == "" {
		return platform.Identity{}, &platform.UnsupportedError{Name: "unknown"}
	}
	return platform.FromUname(sysname, readRootValue(sys, "/proc/sys/kernel/osrelease"), "")
}

func readRootValue(sys hostos.SystemPrimitives, path string) string {
	data, err := sys.OSReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// SetResolver replaces the platform resolver, which defaults to platform.Resolve
func (a *Acquisition) SetResolver(resolve func() (platform.Identity, error)) {
	a.resolve = resolve
}

// Acquire resolves the platform and runs both stages. Only an unsupported platform or a
// broken snapshot fails the pass; probe failures are contained in the reports.
func (a *Acquisition) Acquire(ctx context.Context) (*Result, error) {
	utils.LogInfo("Starting acquisition", map[string]string{"probes": fmt.Sprint(len(a.plan.Names()))})

	id, err := a.resolve()
	if err != nil {
		return nil, fmt.Errorf("kernel: %w", err)
	}
	utils.LogInfo("Platform resolved", map[string]string{
		"family":  string(id.Family),
		"sysname": id.Sysname,
		"release": id.Release,
		"machine": id.Machine,
	})

	snapshot, reports, err := a.plan.Gather(ctx, id, a.sys)
	if err != nil {
		return nil, fmt.Errorf("gather: %w", err)
	}

	failed := 0
	for _, r := range reports {
		if r.Status == models.ProbeStatusFailed {
			failed++
		}
	}
	utils.LogInfo("Acquisition completed", map[string]string{
		"probes": fmt.Sprint(len(reports)),
		"failed": fmt.Sprint(failed),
	})

	return &Result{
		Platform: id,
		Snapshot: snapshot,
		Probes:   reports,
		Commands: a.recorder.Entries(),
	}, nil
}
