package probe

import (
	"context"
	"strconv"
	"strings"

	"github.com/shirou/gopsutil/v3/mem"

	"github.com/ilexum-group/hostfetch/internal/namespace"
	"github.com/ilexum-group/hostfetch/pkg/models"
)

var virtualMemory = mem.VirtualMemoryWithContext

// Memory reports physical memory size and usage.
type Memory struct{}

func (Memory) Name() string { return "memory" }

func (Memory) Collect(ctx context.Context, env Env) (*models.Memory, error) {
	if data, err := env.Sys.OSReadFile("/proc/meminfo"); err == nil {
		if rec, ok := parseMeminfo(string(data)); ok {
			return rec, nil
		}
	}

	if !env.Sys.IsLive() {
		return nil, nil
	}
	vm, err := virtualMemory(ctx)
	if err != nil {
		return nil, fail("memory", "virtual memory", err)
	}
	return &models.Memory{Max: vm.Total, Used: vm.Used}, nil
}

// parseMeminfo computes usage as MemTotal minus MemAvailable, values in bytes
func parseMeminfo(content string) (*models.Memory, bool) {
	values := make(map[string]uint64)
	for _, line := range strings.Split(content, "\n") {
		key, rest, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		fields := strings.Fields(rest)
		if len(fields) == 0 {
			continue
		}
		v, err := strconv.ParseUint(fields[0], 10, 64)
		if err != nil {
			continue
		}
		values[key] = v * 1024
	}

	total, ok := values["MemTotal"]
	if !ok {
		return nil, false
	}
	available, ok := values["MemAvailable"]
	if !ok {
		available = values["MemFree"] + values["Buffers"] + values["Cached"]
	}
	used := uint64(0)
	if total > available {
		used = total - available
	}
	return &models.Memory{Max: total, Used: used}, true
}

func (Memory) Project(rec *models.Memory, ns *namespace.Table) error {
	_, err := ns.Record("memory",
		namespace.F("max", rec.Max),
		namespace.F("used", rec.Used),
	)
	return err
}
