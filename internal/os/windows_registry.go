// Package os provides host access for hostfetch probes
//
//nolint:revive // Package name 'os' is intentional, in separate namespace 'internal/os'
package os

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/osv-scalibr/common/windows/registry"
)

// WindowsSoftwareHive is the SOFTWARE hive relative to the system drive
const WindowsSoftwareHive = "/Windows/System32/config/SOFTWARE"

const windowsCurrentVersionKey = "Microsoft\\Windows NT\\CurrentVersion"

// WindowsRelease holds the release fields read from the SOFTWARE hive
type WindowsRelease struct {
	ProductName    string
	DisplayVersion string
	CurrentBuild   string
}

type offlineRegistry struct {
	hive    registry.Registry
	cleanup func()
}

// openOfflineRegistry copies the hive through the primitives so rooted mode reads the mounted file
func openOfflineRegistry(collector SystemPrimitives, hivePath string) (*offlineRegistry, error) {
	data, err := collector.OSReadFile(hivePath)
	if err != nil {
		return nil, err
	}

	tmpFile, err := os.CreateTemp("", "hostfetch_hive_*.dat")
	if err != nil {
		return nil, err
	}

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		_ = os.Remove(tmpFile.Name())
		return nil, err
	}

	if err := tmpFile.Close(); err != nil {
		_ = os.Remove(tmpFile.Name())
		return nil, err
	}

	hive, err := registry.NewOfflineOpener(tmpFile.Name()).Open()
	if err != nil {
		_ = os.Remove(tmpFile.Name())
		return nil, err
	}

	return &offlineRegistry{
		hive: hive,
		cleanup: func() {
			_ = os.Remove(tmpFile.Name())
		},
	}, nil
}

func (r *offlineRegistry) close() {
	if r == nil {
		return
	}
	_ = r.hive.Close()
	if r.cleanup != nil {
		r.cleanup()
	}
}

func registryValueString(key registry.Key, name string) string {
	val, err := key.ValueString(name)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(strings.TrimRight(val, "\x00"))
}

// ReadWindowsRelease reads the product name and version from the SOFTWARE hive at hivePath.
// It returns nil, nil when the hive does not exist.
func ReadWindowsRelease(collector SystemPrimitives, hivePath string) (*WindowsRelease, error) {
	if _, err := collector.OSStat(hivePath); err != nil {
		return nil, nil
	}

	reg, err := openOfflineRegistry(collector, hivePath)
	if err != nil {
		return nil, fmt.Errorf("open hive %s: %w", hivePath, err)
	}
	defer reg.close()

	key, err := reg.hive.OpenKey("", windowsCurrentVersionKey)
	if err != nil {
		return nil, fmt.Errorf("open key %s: %w", windowsCurrentVersionKey, err)
	}

	return &WindowsRelease{
		ProductName:    registryValueString(key, "ProductName"),
		DisplayVersion: registryValueString(key, "DisplayVersion"),
		CurrentBuild:   registryValueString(key, "CurrentBuild"),
	}, nil
}
