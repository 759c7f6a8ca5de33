package probe

import (
	"context"

	"github.com/shirou/gopsutil/v3/disk"

	"github.com/ilexum-group/hostfetch/internal/namespace"
	"github.com/ilexum-group/hostfetch/pkg/models"
)

var (
	diskPartitions = disk.PartitionsWithContext
	diskUsage      = disk.UsageWithContext
)

const gib = 1 << 30

// Disk reports usage of the root filesystem, or of the first mounted one.
type Disk struct{}

func (Disk) Name() string { return "disk" }

// Collect returns nil under a mounted root, whose partitions gopsutil cannot see.
func (Disk) Collect(ctx context.Context, env Env) (*models.Disk, error) {
	if !env.Sys.IsLive() {
		return nil, nil
	}
	parts, err := diskPartitions(ctx, false)
	if err != nil && len(parts) == 0 {
		return nil, fail("disk", "list partitions", err)
	}
	if len(parts) == 0 {
		return nil, nil
	}

	chosen := parts[0]
	for _, p := range parts {
		if p.Mountpoint == "/" {
			chosen = p
			break
		}
	}

	usage, err := diskUsage(ctx, chosen.Mountpoint)
	if err != nil {
		return nil, fail("disk", "usage "+chosen.Mountpoint, err)
	}
	used := uint64(0)
	if usage.Total > usage.Free {
		used = usage.Total - usage.Free
	}
	return &models.Disk{
		Name:       chosen.Device,
		MountPoint: chosen.Mountpoint,
		FSType:     chosen.Fstype,
		Total:      usage.Total,
		Used:       used,
	}, nil
}

func (Disk) Project(rec *models.Disk, ns *namespace.Table) error {
	_, err := ns.Record("disk",
		namespace.F("name", rec.Name),
		namespace.F("mount_point", rec.MountPoint),
		namespace.F("total_gb", rec.Total/gib),
		namespace.F("used_gb", rec.Used/gib),
		namespace.F("fs_type", rec.FSType),
		namespace.F("total", rec.Total),
		namespace.F("used", rec.Used),
	)
	return err
}
