package probe

import (
	"context"
	"strings"

	"github.com/ilexum-group/hostfetch/internal/namespace"
	hostos "github.com/ilexum-group/hostfetch/internal/os"
	"github.com/ilexum-group/hostfetch/internal/platform"
	"github.com/ilexum-group/hostfetch/internal/utils"
	"github.com/ilexum-group/hostfetch/pkg/models"
)

type packageManager struct {
	name    string
	bin     string
	command string
	// census counts packages from the database directly, without a subprocess
	census func(hostos.SystemPrimitives) (int, error)
}

var packageManagerTable = []packageManager{
	{name: "kiss", bin: "kiss", command: "kiss l"},
	{name: "pacman", bin: "pacman", command: "pacman -Qq --color never", census: hostos.CountPacmanPackages},
	{name: "dpkg", bin: "dpkg", command: "dpkg-query -f '.\n' -W", census: hostos.CountDpkgPackages},
	{name: "rpm", bin: "rpm", command: "rpm -qa", census: hostos.CountRpmPackages},
	{name: "xbps-query", bin: "xbps-query", command: "xbps-query -l"},
	{name: "apk", bin: "apk", command: "apk info"},
	{name: "opkg", bin: "opkg", command: "opkg list-installed"},
	{name: "pacman-g2", bin: "pacman-g2", command: "pacman-g2 -Q"},
	{name: "lvu", bin: "lvu", command: "lvu installed"},
	{name: "tce-status", bin: "tce-status", command: "tce-status -i"},
	{name: "pkg-info", bin: "pkg-info", command: "pkg_info"},
	{name: "tazpkg", bin: "tazpkg", command: "tazpkg list"},
	{name: "sorcery", bin: "sorcery", command: "gaze installed"},
	{name: "alps", bin: "alps", command: "alps showinstalled"},
	{name: "butch", bin: "butch", command: "butch list"},
	{name: "mine", bin: "mine", command: "mine -q"},
	{name: "flatpak", bin: "flatpak", command: "flatpak list"},
}

// PackageManagers counts installed packages of every package manager found.
type PackageManagers struct{}

func (PackageManagers) Name() string { return "packageManagers" }

func (PackageManagers) Collect(ctx context.Context, env Env) (*models.PackageManagers, error) {
	rec := &models.PackageManagers{Managers: make([]models.PackageManager, 0)}

	switch env.Platform.Family {
	case platform.Linux, platform.BSD, platform.Solaris:
	default:
		return rec, nil
	}

	for _, pm := range packageManagerTable {
		if !exists(env.Sys, "/usr/bin/"+pm.bin) {
			continue
		}
		count, err := countPackages(ctx, env.Sys, pm)
		if err != nil {
			return nil, fail("packageManagers", pm.command, err)
		}
		rec.Managers = append(rec.Managers, models.PackageManager{Name: pm.name, Packages: count})
	}

	if exists(env.Sys, "/usr/bin/snap") && snapdRunning(ctx, env.Sys) {
		count, err := countLines(ctx, env.Sys, "snap list")
		if err != nil {
			return nil, fail("packageManagers", "snap list", err)
		}
		rec.Managers = append(rec.Managers, models.PackageManager{Name: "snap", Packages: count})
	}

	return rec, nil
}

func countPackages(ctx context.Context, sys hostos.SystemPrimitives, pm packageManager) (int, error) {
	if pm.census != nil {
		count, err := pm.census(sys)
		if err == nil {
			return count, nil
		}
		utils.LogDebug("package census unavailable, running command", map[string]string{
			"manager": pm.name,
			"error":   err.Error(),
		})
	}
	return countLines(ctx, sys, pm.command)
}

// countLines runs command through sh and counts non-empty output lines
func countLines(ctx context.Context, sys hostos.SystemPrimitives, command string) (int, error) {
	out, err := run(ctx, sys, "sh", "-c", command)
	if err != nil {
		return 0, err
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return 0, nil
	}
	return len(strings.Split(out, "\n")), nil
}

func snapdRunning(ctx context.Context, sys hostos.SystemPrimitives) bool {
	_, err := sys.ExecOutput(ctx, "sh", "-c", "ps aux | grep -qFm 1 snapd")
	return err == nil
}

func (PackageManagers) Project(rec *models.PackageManagers, ns *namespace.Table) error {
	list := namespace.NewList()
	for _, pm := range rec.Managers {
		item := namespace.NewTable()
		if err := item.Set("name", pm.Name); err != nil {
			return err
		}
		if err := item.Set("packages", pm.Packages); err != nil {
			return err
		}
		list.Append(item)
	}
	return ns.Set("packageManagers", list)
}
