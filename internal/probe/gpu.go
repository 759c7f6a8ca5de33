package probe

import (
	"context"
	"path"
	"regexp"
	"strings"

	"github.com/ilexum-group/hostfetch/internal/namespace"
	"github.com/ilexum-group/hostfetch/internal/platform"
	"github.com/ilexum-group/hostfetch/pkg/models"
)

var (
	lspciField   = regexp.MustCompile(`"([^"]*)"`)
	bracketName  = regexp.MustCompile(`\[([^\]]+)\]`)
	displayClass = []string{"VGA compatible controller", "3D controller", "Display controller"}
)

// pciVendors maps PCI vendor ids to display names
var pciVendors = map[string]string{
	"0x8086": "Intel",
	"0x1002": "AMD",
	"0x10de": "NVIDIA",
	"0x1af4": "VirtIO",
	"0x15ad": "VMware",
	"0x1234": "QEMU",
}

// GPUs lists graphics adapters.
type GPUs struct{}

func (GPUs) Name() string { return "gpu" }

func (GPUs) Collect(ctx context.Context, env Env) (*models.GPUs, error) {
	var devices []models.GPU

	switch env.Platform.Family {
	case platform.Linux, platform.BSD:
		if hasCommand(env.Sys, "lspci") {
			out, err := run(ctx, env.Sys, "lspci", "-mm")
			if err != nil {
				return nil, fail("gpu", "lspci -mm", err)
			}
			devices = parseLspci(out)
		} else {
			devices = drmGPUs(env)
		}
	case platform.Darwin:
		if !hasCommand(env.Sys, "system_profiler") {
			return nil, nil
		}
		out, err := run(ctx, env.Sys, "system_profiler", "SPDisplaysDataType")
		if err != nil {
			return nil, fail("gpu", "system_profiler SPDisplaysDataType", err)
		}
		for _, line := range strings.Split(out, "\n") {
			if v, ok := strings.CutPrefix(strings.TrimSpace(line), "Chipset Model:"); ok {
				name := strings.TrimSpace(v)
				devices = append(devices, models.GPU{Name: name, Vendor: gpuVendor(name)})
			}
		}
	case platform.Windows:
		if !hasCommand(env.Sys, "wmic") {
			return nil, nil
		}
		out, err := run(ctx, env.Sys, "wmic", "path", "Win32_VideoController", "get", "caption")
		if err != nil {
			return nil, fail("gpu", "wmic path Win32_VideoController get caption", err)
		}
		lines := strings.Split(strings.ReplaceAll(out, "\r", ""), "\n")
		for _, line := range lines[min(1, len(lines)):] {
			if name := strings.TrimSpace(line); name != "" {
				devices = append(devices, models.GPU{Name: name, Vendor: gpuVendor(name)})
			}
		}
	default:
		return nil, nil
	}

	if len(devices) == 0 {
		return nil, nil
	}
	return &models.GPUs{Devices: devices}, nil
}

// parseLspci reads machine-readable lspci output: slot "class" "vendor" "device" ...
func parseLspci(out string) []models.GPU {
	var devices []models.GPU
	for _, line := range strings.Split(out, "\n") {
		fields := lspciField.FindAllStringSubmatch(line, -1)
		if len(fields) < 3 || !containsString(displayClass, fields[0][1]) {
			continue
		}
		vendor := gpuVendor(fields[1][1])
		name := fields[2][1]
		if m := bracketName.FindStringSubmatch(name); m != nil {
			name = m[1]
		}
		devices = append(devices, models.GPU{Name: strings.TrimSpace(name), Vendor: vendor})
	}
	return devices
}

func drmGPUs(env Env) []models.GPU {
	cards, err := env.Sys.OSGlob(path.Join(drmClassDir, "card[0-9]*"))
	if err != nil {
		return nil
	}
	var devices []models.GPU
	for _, card := range cards {
		if strings.Contains(path.Base(card), "-") {
			continue
		}
		id := readOptional(env.Sys, path.Join(card, "device", "vendor"))
		if id == "" {
			continue
		}
		vendor, ok := pciVendors[id]
		if !ok {
			vendor = id
		}
		devices = append(devices, models.GPU{Name: vendor + " GPU", Vendor: vendor})
	}
	return devices
}

func gpuVendor(s string) string {
	lower := strings.ToLower(s)
	switch {
	case strings.Contains(lower, "nvidia"), strings.Contains(lower, "geforce"):
		return "NVIDIA"
	case strings.Contains(lower, "intel"):
		return "Intel"
	case strings.Contains(lower, "advanced micro devices"), strings.Contains(lower, "amd"), strings.Contains(lower, "radeon"):
		return "AMD"
	case strings.Contains(lower, "apple"):
		return "Apple"
	}
	return strings.TrimSpace(s)
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func (GPUs) Project(rec *models.GPUs, ns *namespace.Table) error {
	list := namespace.NewList()
	for _, g := range rec.Devices {
		item := namespace.NewTable()
		if err := item.Set("name", g.Name); err != nil {
			return err
		}
		if err := item.Set("vendor", g.Vendor); err != nil {
			return err
		}
		list.Append(item)
	}
	return ns.Set("gpus", list)
}
