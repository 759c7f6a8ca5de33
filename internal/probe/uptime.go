package probe

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/shirou/gopsutil/v3/host"

	"github.com/ilexum-group/hostfetch/internal/namespace"
	"github.com/ilexum-group/hostfetch/pkg/models"
)

// hostUptime is replaced in tests
var hostUptime = host.UptimeWithContext

// Uptime reports how long the system has been running.
type Uptime struct{}

func (Uptime) Name() string { return "uptime" }

func (Uptime) Collect(ctx context.Context, env Env) (*models.Uptime, error) {
	if data, err := env.Sys.OSReadFile("/proc/uptime"); err == nil {
		if secs, err := parseProcUptime(string(data)); err == nil {
			return &models.Uptime{Seconds: secs}, nil
		}
	}

	// Boot time is read from the running host, which a mounted root is not.
	if !env.Sys.IsLive() {
		return nil, nil
	}
	secs, err := hostUptime(ctx)
	if err != nil {
		return nil, fail("uptime", "boot time", err)
	}
	return &models.Uptime{Seconds: int64(secs)}, nil
}

func parseProcUptime(content string) (int64, error) {
	fields := strings.Fields(content)
	if len(fields) == 0 {
		return 0, fmt.Errorf("empty uptime")
	}
	f, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, err
	}
	return int64(f), nil
}

func (Uptime) Project(rec *models.Uptime, ns *namespace.Table) error {
	s := rec.Seconds
	_, err := ns.Record("uptime",
		namespace.F("days", s/86400),
		namespace.F("hours", s%86400/3600),
		namespace.F("minutes", s%3600/60),
		namespace.F("seconds", s%60),
	)
	return err
}
