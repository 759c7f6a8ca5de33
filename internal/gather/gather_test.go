package gather

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"

	"github.com/ilexum-group/hostfetch/internal/namespace"
	"github.com/ilexum-group/hostfetch/internal/os/ostest"
	"github.com/ilexum-group/hostfetch/internal/platform"
	"github.com/ilexum-group/hostfetch/internal/probe"
	"github.com/ilexum-group/hostfetch/pkg/models"
)

var linux = platform.Identity{Family: platform.Linux, Sysname: "Linux", Release: "6.8.0", Machine: "x86_64"}

// fake is a probe whose behaviour is supplied by the test
type fake[R any] struct {
	name    string
	collect func(ctx context.Context, env probe.Env) (*R, error)
}

func (f fake[R]) Name() string { return f.name }

func (f fake[R]) Collect(ctx context.Context, env probe.Env) (*R, error) {
	return f.collect(ctx, env)
}

func (f fake[R]) Project(_ *R, ns *namespace.Table) error {
	_, err := ns.Record(f.name, namespace.F("ok", true))
	return err
}

func returns[R any](name string, rec *R, err error) fake[R] {
	return fake[R]{name: name, collect: func(context.Context, probe.Env) (*R, error) { return rec, err }}
}

func cpuField(s *models.Snapshot) **models.CPU         { return &s.CPU }
func gpuField(s *models.Snapshot) **models.GPUs        { return &s.GPUs }
func hostField(s *models.Snapshot) **models.Host       { return &s.Host }
func batteryField(s *models.Snapshot) **models.Battery { return &s.Battery }
func distroField(s *models.Snapshot) **models.Distro   { return &s.Distro }
func shellField(s *models.Snapshot) **models.Shell     { return &s.Shell }

func statuses(reports []models.ProbeReport) map[string]models.ProbeStatus {
	out := make(map[string]models.ProbeStatus, len(reports))
	for _, r := range reports {
		out[r.Name] = r.Status
	}
	return out
}

func TestGatherContainsFailures(t *testing.T) {
	plan := &Plan{Parallel: []Slot{
		Bind[models.CPU](returns("cpu", &models.CPU{Name: "Ryzen 7"}, nil), cpuField),
		Bind[models.GPUs](returns[models.GPUs]("gpu", nil, errors.New("lspci exploded")), gpuField),
		Bind[models.Host](fake[models.Host]{name: "host", collect: func(context.Context, probe.Env) (*models.Host, error) {
			panic("index out of range")
		}}, hostField),
		Bind[models.Battery](returns("battery", &models.Battery{Capacity: 50, Status: "Full"}, nil), batteryField),
	}}

	snapshot, reports, err := plan.Gather(context.Background(), linux, ostest.New(t))
	require.NoError(t, err)
	assert.True(t, snapshot.Frozen())

	require.NotNil(t, snapshot.CPU)
	assert.Equal(t, "Ryzen 7", snapshot.CPU.Name)
	require.NotNil(t, snapshot.Battery)
	assert.Nil(t, snapshot.GPUs)
	assert.Nil(t, snapshot.Host)

	require.Len(t, reports, 4)
	assert.Equal(t, []string{"cpu", "gpu", "host", "battery"}, []string{reports[0].Name, reports[1].Name, reports[2].Name, reports[3].Name})
	assert.Equal(t, models.ProbeStatusPresent, reports[0].Status)
	assert.Equal(t, models.ProbeStatusFailed, reports[1].Status)
	assert.Equal(t, "probe gpu: collect: lspci exploded", reports[1].Error)
	assert.Equal(t, models.ProbeStatusFailed, reports[2].Status)
	assert.Contains(t, reports[2].Error, "panic: index out of range")
	assert.Equal(t, models.StageParallel, reports[3].Stage)
}

func TestProbeErrorIsKept(t *testing.T) {
	cause := &probe.Error{Probe: "gpu", Op: "run lspci", Err: errors.New("exit status 1")}
	plan := &Plan{Parallel: []Slot{Bind[models.GPUs](returns[models.GPUs]("gpu", nil, cause), gpuField)}}

	_, reports, err := plan.Gather(context.Background(), linux, ostest.New(t))
	require.NoError(t, err)
	assert.Equal(t, "probe gpu: run lspci: exit status 1", reports[0].Error)
}

func TestSequentialProbesSeePredecessors(t *testing.T) {
	var seen string
	plan := &Plan{
		Sequential: []Slot{
			Bind[models.Distro](returns("distro", &models.Distro{LongName: "Arch Linux"}, nil), distroField),
			Bind[models.Shell](fake[models.Shell]{name: "shell", collect: func(_ context.Context, env probe.Env) (*models.Shell, error) {
				seen = env.Prior.Distro.LongName
				return &models.Shell{Name: "zsh"}, nil
			}}, shellField),
		},
		Parallel: []Slot{
			Bind[models.CPU](fake[models.CPU]{name: "cpu", collect: func(_ context.Context, env probe.Env) (*models.CPU, error) {
				return &models.CPU{Name: env.Prior.Distro.LongName + " " + env.Prior.Shell.Name}, nil
			}}, cpuField),
		},
	}

	snapshot, reports, err := plan.Gather(context.Background(), linux, ostest.New(t))
	require.NoError(t, err)
	assert.Equal(t, "Arch Linux", seen)
	assert.Equal(t, "Arch Linux zsh", snapshot.CPU.Name)
	assert.Equal(t, models.StageSequential, reports[0].Stage)
	assert.Equal(t, models.StageSequential, reports[1].Stage)
}

func TestParallelProbesRunConcurrently(t *testing.T) {
	left, right := make(chan struct{}), make(chan struct{})
	rendezvous := func(mine, theirs chan struct{}) func(context.Context, probe.Env) (*models.CPU, error) {
		return func(context.Context, probe.Env) (*models.CPU, error) {
			close(mine)
			select {
			case <-theirs:
				return &models.CPU{}, nil
			case <-time.After(5 * time.Second):
				return nil, errors.New("sibling never started")
			}
		}
	}

	plan := &Plan{Parallel: []Slot{
		Bind[models.CPU](fake[models.CPU]{name: "cpu", collect: rendezvous(left, right)}, cpuField),
		Bind[models.Host](fake[models.Host]{name: "host", collect: func(ctx context.Context, env probe.Env) (*models.Host, error) {
			if _, err := rendezvous(right, left)(ctx, env); err != nil {
				return nil, err
			}
			return &models.Host{Model: "X1"}, nil
		}}, hostField),
	}}

	_, reports, err := plan.Gather(context.Background(), linux, ostest.New(t))
	require.NoError(t, err)
	for _, r := range reports {
		assert.Equal(t, models.ProbeStatusPresent, r.Status, r.Error)
	}
}

func TestAbsentRecordsStayEmpty(t *testing.T) {
	plan := &Plan{Parallel: []Slot{Bind[models.Battery](returns[models.Battery]("battery", nil, nil), batteryField)}}

	snapshot, reports, err := plan.Gather(context.Background(), linux, ostest.New(t))
	require.NoError(t, err)
	assert.Nil(t, snapshot.Battery)
	assert.Equal(t, models.ProbeStatusAbsent, reports[0].Status)

	ns, err := plan.Project(snapshot)
	require.NoError(t, err)
	_, ok := ns.Get("battery")
	assert.False(t, ok)
	assert.Equal(t, []string{"kernel"}, ns.Keys())
}

func TestDuplicateBindingFails(t *testing.T) {
	plan := &Plan{Parallel: []Slot{
		Bind[models.CPU](returns("cpu", &models.CPU{}, nil), cpuField),
		Bind[models.CPU](returns("cpu2", &models.CPU{}, nil), cpuField),
	}}

	_, _, err := plan.Gather(context.Background(), linux, ostest.New(t))
	assert.ErrorIs(t, err, models.ErrSlotFilled)
}

func TestDisable(t *testing.T) {
	plan := &Plan{Parallel: []Slot{
		Bind[models.CPU](returns("cpu", &models.CPU{}, nil), cpuField),
		Bind[models.Host](returns("host", &models.Host{Model: "X1"}, nil), hostField),
	}}

	err := plan.Disable("wifi", "cpu", "bogus")
	require.Error(t, err)
	assert.Equal(t, "unknown probes: bogus, wifi", err.Error())

	require.NoError(t, plan.Disable("cpu"))
	snapshot, reports, err := plan.Gather(context.Background(), linux, ostest.New(t))
	require.NoError(t, err)
	assert.Nil(t, snapshot.CPU)
	assert.NotNil(t, snapshot.Host)
	assert.Equal(t, models.ProbeStatusDisabled, reports[0].Status)
	assert.Equal(t, models.ProbeStatusPresent, reports[1].Status)
}

func TestDefaultPlanNames(t *testing.T) {
	plan := DefaultPlan()
	names := plan.Names()
	assert.Len(t, plan.Sequential, 7)
	assert.Len(t, plan.Parallel, 12)
	assert.Equal(t, []string{"distro", "uptime", "packageManagers", "shell", "context", "memory", "monitors"}, names[:7])

	seen := make(map[string]bool)
	for _, n := range names {
		assert.False(t, seen[n], "duplicate probe %s", n)
		seen[n] = true
	}
}

func scriptedHost(t *testing.T) *ostest.Scripted {
	return ostest.New(t).
		WriteFile("/etc/os-release", "NAME=\"Arch Linux\"\nPRETTY_NAME=\"Arch Linux\"\n").
		WriteFile("/etc/hostname", "archbox\n").
		WriteFile("/proc/uptime", "93784.12 180000.00\n").
		WriteFile("/proc/meminfo", "MemTotal:       16000000 kB\nMemAvailable:    6000000 kB\n").
		WriteFile("/sys/class/power_supply/BAT0/capacity", "64\n").
		WriteFile("/sys/class/power_supply/BAT0/status", "Discharging\n").
		Setenv("USER", "alice")
}

// hostPlan is the default plan without the probes that read the real host through gopsutil
func hostPlan(t *testing.T) *Plan {
	plan := DefaultPlan()
	require.NoError(t, plan.Disable("cpu", "disk", "temperature"))
	return plan
}

func TestDefaultPlanOnScriptedHost(t *testing.T) {
	snapshot, reports, err := hostPlan(t).Gather(context.Background(), linux, scriptedHost(t))
	require.NoError(t, err)
	require.Len(t, reports, 19)

	st := statuses(reports)
	assert.Equal(t, models.ProbeStatusPresent, st["distro"])
	assert.Equal(t, models.ProbeStatusPresent, st["uptime"])
	assert.Equal(t, models.ProbeStatusPresent, st["context"])
	assert.Equal(t, models.ProbeStatusPresent, st["memory"])
	assert.Equal(t, models.ProbeStatusPresent, st["battery"])
	assert.Equal(t, models.ProbeStatusAbsent, st["shell"])
	assert.Equal(t, models.ProbeStatusDisabled, st["cpu"])

	assert.Equal(t, "Arch Linux", snapshot.Distro.LongName)
	assert.Equal(t, models.Context{User: "alice", Host: "archbox"}, *snapshot.Context)
	assert.Equal(t, uint64(10000000*1024), snapshot.Memory.Used)
	assert.Equal(t, 64, snapshot.Battery.Capacity)
}

func TestProjectionIsIdempotent(t *testing.T) {
	plan := hostPlan(t)
	snapshot, _, err := plan.Gather(context.Background(), linux, scriptedHost(t))
	require.NoError(t, err)

	first, err := plan.Project(snapshot)
	require.NoError(t, err)
	second, err := plan.Project(snapshot)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, "kernel", first.Keys()[0])

	L := lua.NewState()
	defer L.Close()
	require.NoError(t, namespace.Inject(L, first))
	require.NoError(t, L.DoString(`result = context.user .. "@" .. context.host .. " " .. distro.fullname .. " " .. battery.capacity`))
	assert.Equal(t, "alice@archbox Arch Linux 64", L.GetGlobal("result").String())
}
