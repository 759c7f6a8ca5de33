// Package os provides host access for hostfetch probes
//
//nolint:revive // Package name 'os' is intentional, in separate namespace 'internal/os'
package os

import (
	"fmt"
	"strings"

	"howett.net/plist"
)

// DarwinSystemVersionPath is the macOS release property list
const DarwinSystemVersionPath = "/System/Library/CoreServices/SystemVersion.plist"

// DarwinRelease holds the fields of SystemVersion.plist used by the distro probe
type DarwinRelease struct {
	ProductName    string `plist:"ProductName"`
	ProductVersion string `plist:"ProductVersion"`
	BuildVersion   string `plist:"ProductBuildVersion"`
}

// ReadDarwinRelease parses SystemVersion.plist. It returns nil, nil when the file does not exist.
func ReadDarwinRelease(collector SystemPrimitives) (*DarwinRelease, error) {
	if _, err := collector.OSStat(DarwinSystemVersionPath); err != nil {
		return nil, nil
	}
	data, err := collector.OSReadFile(DarwinSystemVersionPath)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", DarwinSystemVersionPath, err)
	}

	var parsed DarwinRelease
	if _, err := plist.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parse %s: %w", DarwinSystemVersionPath, err)
	}
	parsed.ProductName = strings.TrimSpace(parsed.ProductName)
	parsed.ProductVersion = strings.TrimSpace(parsed.ProductVersion)
	parsed.BuildVersion = strings.TrimSpace(parsed.BuildVersion)
	return &parsed, nil
}
