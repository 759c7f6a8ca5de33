package probe

import (
	"context"
	"testing"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ilexum-group/hostfetch/internal/os/ostest"
)

// forbidHostAPIs makes every gopsutil entry point fail the test when called
func forbidHostAPIs(t *testing.T) {
	t.Helper()
	origUptime, origMem, origCPU := hostUptime, virtualMemory, cpuInfo
	origParts, origUsage, origSensors := diskPartitions, diskUsage, sensorTemperatures
	t.Cleanup(func() {
		hostUptime, virtualMemory, cpuInfo = origUptime, origMem, origCPU
		diskPartitions, diskUsage, sensorTemperatures = origParts, origUsage, origSensors
	})

	hostUptime = func(context.Context) (uint64, error) {
		t.Error("host uptime read under a mounted root")
		return 0, nil
	}
	virtualMemory = func(context.Context) (*mem.VirtualMemoryStat, error) {
		t.Error("host memory read under a mounted root")
		return &mem.VirtualMemoryStat{}, nil
	}
	cpuInfo = func(context.Context) ([]cpu.InfoStat, error) {
		t.Error("host cpu read under a mounted root")
		return nil, nil
	}
	diskPartitions = func(context.Context, bool) ([]disk.PartitionStat, error) {
		t.Error("host partitions read under a mounted root")
		return nil, nil
	}
	diskUsage = func(context.Context, string) (*disk.UsageStat, error) {
		t.Error("host disk usage read under a mounted root")
		return &disk.UsageStat{}, nil
	}
	sensorTemperatures = func(context.Context) ([]host.TemperatureStat, error) {
		t.Error("host sensors read under a mounted root")
		return nil, nil
	}
}

func TestRootedHostSkipsHostWideAPIs(t *testing.T) {
	forbidHostAPIs(t)
	ctx := context.Background()
	env := envFor(ostest.New(t), linux)

	uptime, err := Uptime{}.Collect(ctx, env)
	require.NoError(t, err)
	assert.Nil(t, uptime)

	memory, err := Memory{}.Collect(ctx, env)
	require.NoError(t, err)
	assert.Nil(t, memory)

	proc, err := CPU{}.Collect(ctx, env)
	require.NoError(t, err)
	assert.Nil(t, proc)

	d, err := Disk{}.Collect(ctx, env)
	require.NoError(t, err)
	assert.Nil(t, d)

	temp, err := Temperature{}.Collect(ctx, env)
	require.NoError(t, err)
	assert.Nil(t, temp)
}

func TestRootedHostStillReadsFiles(t *testing.T) {
	forbidHostAPIs(t)
	sys := ostest.New(t).
		WriteFile("/proc/uptime", "3600.00 7200.00\n").
		WriteFile("/proc/meminfo", "MemTotal:       8000000 kB\nMemAvailable:    2000000 kB\n")

	uptime, err := Uptime{}.Collect(context.Background(), envFor(sys, linux))
	require.NoError(t, err)
	assert.Equal(t, int64(3600), uptime.Seconds)

	memory, err := Memory{}.Collect(context.Background(), envFor(sys, linux))
	require.NoError(t, err)
	assert.Equal(t, uint64(6000000*1024), memory.Used)
}
