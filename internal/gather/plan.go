// Package gather runs the probes of a run in two stages and projects the resulting snapshot
// into the template namespace.
package gather

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/ilexum-group/hostfetch/internal/namespace"
	hostos "github.com/ilexum-group/hostfetch/internal/os"
	"github.com/ilexum-group/hostfetch/internal/platform"
	"github.com/ilexum-group/hostfetch/internal/probe"
	"github.com/ilexum-group/hostfetch/internal/utils"
	"github.com/ilexum-group/hostfetch/pkg/models"
)

// Plan is the probe manifest of a run. Sequential probes run in order on one goroutine and may
// read each other's records; parallel probes are independent.
type Plan struct {
	Sequential []Slot
	Parallel   []Slot

	disabled map[string]bool
	logger   utils.Logger
}

// DefaultPlan returns the manifest of every built-in probe
func DefaultPlan() *Plan {
	return &Plan{
		Sequential: []Slot{
			Bind[models.Distro](probe.Distro{}, func(s *models.Snapshot) **models.Distro { return &s.Distro }),
			Bind[models.Uptime](probe.Uptime{}, func(s *models.Snapshot) **models.Uptime { return &s.Uptime }),
			Bind[models.PackageManagers](probe.PackageManagers{}, func(s *models.Snapshot) **models.PackageManagers { return &s.PackageManagers }),
			Bind[models.Shell](probe.Shell{}, func(s *models.Snapshot) **models.Shell { return &s.Shell }),
			Bind[models.Context](probe.Context{}, func(s *models.Snapshot) **models.Context { return &s.Context }),
			Bind[models.Memory](probe.Memory{}, func(s *models.Snapshot) **models.Memory { return &s.Memory }),
			Bind[models.Monitors](probe.Monitors{}, func(s *models.Snapshot) **models.Monitors { return &s.Monitors }),
		},
		Parallel: []Slot{
			Bind[models.Resolution](probe.Resolution{}, func(s *models.Snapshot) **models.Resolution { return &s.Resolution }),
			Bind[models.DesktopEnvironment](probe.DesktopEnvironment{}, func(s *models.Snapshot) **models.DesktopEnvironment { return &s.DE }),
			Bind[models.WindowManager](probe.WindowManager{}, func(s *models.Snapshot) **models.WindowManager { return &s.WM }),
			Bind[models.CPU](probe.CPU{}, func(s *models.Snapshot) **models.CPU { return &s.CPU }),
			Bind[models.GPUs](probe.GPUs{}, func(s *models.Snapshot) **models.GPUs { return &s.GPUs }),
			Bind[models.Motherboard](probe.Motherboard{}, func(s *models.Snapshot) **models.Motherboard { return &s.Motherboard }),
			Bind[models.Host](probe.Host{}, func(s *models.Snapshot) **models.Host { return &s.Host }),
			Bind[models.Battery](probe.Battery{}, func(s *models.Snapshot) **models.Battery { return &s.Battery }),
			Bind[models.Disk](probe.Disk{}, func(s *models.Snapshot) **models.Disk { return &s.Disk }),
			Bind[models.Network](probe.Network{}, func(s *models.Snapshot) **models.Network { return &s.Network }),
			Bind[models.Temperature](probe.Temperature{}, func(s *models.Snapshot) **models.Temperature { return &s.Temperature }),
			Bind[models.Bluetooth](probe.Bluetooth{}, func(s *models.Snapshot) **models.Bluetooth { return &s.Bluetooth }),
		},
	}
}

// SetLogger sets the logger probe outcomes are reported to. Nil uses the default logger.
func (p *Plan) SetLogger(l utils.Logger) {
	p.logger = l
}

// Names returns every probe name in manifest order
func (p *Plan) Names() []string {
	names := make([]string, 0, len(p.Sequential)+len(p.Parallel))
	for _, s := range p.Sequential {
		names = append(names, s.name)
	}
	for _, s := range p.Parallel {
		names = append(names, s.name)
	}
	return names
}

// Disable switches probes off by name. Unknown names are an error.
func (p *Plan) Disable(names ...string) error {
	known := make(map[string]bool)
	for _, n := range p.Names() {
		known[n] = true
	}
	var unknown []string
	for _, n := range names {
		if !known[n] {
			unknown = append(unknown, n)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return fmt.Errorf("unknown probes: %s", strings.Join(unknown, ", "))
	}

	if p.disabled == nil {
		p.disabled = make(map[string]bool)
	}
	for _, n := range names {
		p.disabled[n] = true
	}
	return nil
}

// Gather runs both stages and returns the frozen snapshot with one report per probe in
// manifest order. Probe failures are contained in the reports.
func (p *Plan) Gather(ctx context.Context, id platform.Identity, sys hostos.SystemPrimitives) (*models.Snapshot, []models.ProbeReport, error) {
	snapshot := models.NewSnapshot(probe.KernelFromPlatform(id))
	env := probe.Env{Platform: id, Sys: sys, Prior: snapshot}
	reports := make([]models.ProbeReport, 0, len(p.Sequential)+len(p.Parallel))

	for _, slot := range p.Sequential {
		out := p.call(ctx, env, slot, models.StageSequential)
		if err := p.apply(snapshot, out); err != nil {
			return nil, nil, err
		}
		reports = append(reports, out.report)
	}

	outcomes := make([]outcome, len(p.Parallel))
	p.forkJoin(ctx, env, p.Parallel, outcomes)
	for _, out := range outcomes {
		if err := p.apply(snapshot, out); err != nil {
			return nil, nil, err
		}
		reports = append(reports, out.report)
	}

	snapshot.Freeze()
	return snapshot, reports, nil
}

// forkJoin splits slots in half, runs the left half on a new goroutine and the right half on
// this one, then waits for both. out[i] receives the outcome of slots[i].
func (p *Plan) forkJoin(ctx context.Context, env probe.Env, slots []Slot, out []outcome) {
	switch len(slots) {
	case 0:
		return
	case 1:
		out[0] = p.call(ctx, env, slots[0], models.StageParallel)
		return
	}

	mid := len(slots) / 2
	var g errgroup.Group
	g.Go(func() error {
		p.forkJoin(ctx, env, slots[:mid], out[:mid])
		return nil
	})
	p.forkJoin(ctx, env, slots[mid:], out[mid:])
	// Branch failures are carried in out, so the group itself never returns an error.
	_ = g.Wait()
}

func (p *Plan) call(ctx context.Context, env probe.Env, slot Slot, stage models.Stage) outcome {
	if p.disabled[slot.name] {
		return disabledOutcome(slot.name, stage)
	}
	out := slot.run(ctx, env, stage)
	p.report(out.report)
	return out
}

func (p *Plan) apply(s *models.Snapshot, out outcome) error {
	if out.fill == nil {
		return nil
	}
	return out.fill(s)
}

func (p *Plan) report(r models.ProbeReport) {
	meta := map[string]string{
		"probe":    r.Name,
		"stage":    string(r.Stage),
		"status":   string(r.Status),
		"duration": r.Duration.String(),
	}
	l := p.log()
	if r.Status == models.ProbeStatusFailed {
		meta["error"] = r.Error
		l.LogWarn("probe failed", meta)
		return
	}
	l.LogDebug("probe finished", meta)
}

func (p *Plan) log() utils.Logger {
	if p.logger != nil {
		return p.logger
	}
	return defaultLogger{}
}

// Project builds the template namespace from a frozen snapshot. Absent records write nothing.
func (p *Plan) Project(s *models.Snapshot) (*namespace.Table, error) {
	ns := namespace.NewTable()
	if err := probe.ProjectKernel(s.Kernel, ns); err != nil {
		return nil, fmt.Errorf("project kernel: %w", err)
	}
	for _, stage := range [][]Slot{p.Sequential, p.Parallel} {
		for _, slot := range stage {
			if err := slot.project(s, ns); err != nil {
				return nil, err
			}
		}
	}
	return ns, nil
}

// defaultLogger forwards to the package-level logger
type defaultLogger struct{}

func (defaultLogger) LogInfo(m string, meta map[string]string)  { utils.LogInfo(m, meta) }
func (defaultLogger) LogWarn(m string, meta map[string]string)  { utils.LogWarn(m, meta) }
func (defaultLogger) LogError(m string, meta map[string]string) { utils.LogError(m, meta) }
func (defaultLogger) LogDebug(m string, meta map[string]string) { utils.LogDebug(m, meta) }
