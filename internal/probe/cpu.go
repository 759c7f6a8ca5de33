package probe

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/shirou/gopsutil/v3/cpu"

	"github.com/ilexum-group/hostfetch/internal/namespace"
	"github.com/ilexum-group/hostfetch/internal/platform"
	"github.com/ilexum-group/hostfetch/pkg/models"
)

var cpuInfo = cpu.InfoWithContext

var cpuNamePrefixes = []string{"model name", "Hardware", "Processor", "cpu model", "chip type", "cpu type"}

var cpufreqFiles = []string{
	"/sys/devices/system/cpu/cpu0/cpufreq/bios_limit",
	"/sys/devices/system/cpu/cpu0/cpufreq/scaling_max_freq",
	"/sys/devices/system/cpu/cpu0/cpufreq/cpuinfo_max_freq",
}

var cpuNoise = strings.NewReplacer(
	"(tm)", "", "(TM)", "", "(R)", "", "(r)", "",
	"CPU", "", "Intel", "", "AMD", "", "Processor", "",
	"Dual-Core", "", "Quad-Core", "", "Six-Core", "", "Eight-Core", "",
)

var (
	coreCountWord   = regexp.MustCompile(`(?i)\d\d?-Core`)
	computeCores    = regexp.MustCompile(`(?i), .*? Compute Cores`)
	authenticAMD    = regexp.MustCompile(`(?i)\("AuthenticAMD".*?\)`)
	radeonGraphics  = regexp.MustCompile(`(?i)with Radeon .*? Graphics`)
	fpuSuffix       = regexp.MustCompile(`FPU.*?`)
	chipRevision    = regexp.MustCompile(`Chip Revision.*?`)
	repeatedSpacing = regexp.MustCompile(`\s+`)
)

// CPU reports the processor name, core count and maximum frequency.
type CPU struct{}

func (CPU) Name() string { return "cpu" }

func (CPU) Collect(ctx context.Context, env Env) (*models.CPU, error) {
	var name string
	var freq float64
	var cores int

	switch env.Platform.Family {
	case platform.Linux, platform.MINIX, platform.Windows:
		data, err := env.Sys.OSReadFile("/proc/cpuinfo")
		if err != nil {
			if !env.Sys.IsLive() {
				return nil, nil
			}
			return gopsutilCPU(ctx)
		}
		name, freq, cores = parseCPUInfo(string(data))
		if isDir(env.Sys, "/sys/devices/system/cpu/cpu0/cpufreq") {
			if f, ok := sysfsFrequency(env); ok {
				freq = f
			}
		}
	case platform.Darwin, platform.BSD:
		name, freq, cores = sysctlCPU(ctx, env)
	default:
		return nil, nil
	}

	if name == "" || freq == 0 || cores == 0 {
		return nil, nil
	}
	return &models.CPU{Name: cleanCPUName(name), FullName: name, Freq: freq, Cores: cores}, nil
}

// parseCPUInfo returns the first name line, the first clock line in GHz and the processor count
func parseCPUInfo(content string) (string, float64, int) {
	var name string
	var freq float64
	var cores int
	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(line, "processor") {
			cores++
		}
		_, value, ok := strings.Cut(line, ": ")
		if !ok {
			continue
		}
		if name == "" && hasAnyPrefix(line, cpuNamePrefixes) {
			name = strings.TrimSpace(value)
		}
		if freq == 0 && (strings.HasPrefix(line, "cpu MHz") || strings.HasPrefix(line, "clock")) {
			mhz, err := strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(value, "MHz", "")), 64)
			if err == nil {
				freq = mhz / 1000
			}
		}
	}
	return name, freq, cores
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// sysfsFrequency reads the first available cpufreq limit, stored in kHz
func sysfsFrequency(env Env) (float64, bool) {
	for _, file := range cpufreqFiles {
		v, err := readTrimmed(env.Sys, file)
		if err != nil {
			continue
		}
		khz, err := strconv.ParseFloat(strings.ReplaceAll(v, "\t", ""), 64)
		if err != nil {
			continue
		}
		return khz / 1e6, true
	}
	return 0, false
}

func sysctlCPU(ctx context.Context, env Env) (string, float64, int) {
	sysctl := func(key string) string {
		out, err := run(ctx, env.Sys, "sysctl", "-n", key)
		if err != nil {
			return ""
		}
		return strings.TrimSpace(out)
	}

	name := sysctl("machdep.cpu.brand_string")
	if name == "" {
		name = sysctl("hw.model")
	}
	cores, _ := strconv.Atoi(sysctl("hw.ncpu"))

	var freq float64
	if hz, err := strconv.ParseFloat(sysctl("hw.cpufrequency_max"), 64); err == nil && hz > 0 {
		freq = hz / 1e9
	} else if mhz, err := strconv.ParseFloat(sysctl("hw.clockrate"), 64); err == nil {
		freq = mhz / 1000
	}
	return name, freq, cores
}

func gopsutilCPU(ctx context.Context) (*models.CPU, error) {
	infos, err := cpuInfo(ctx)
	if err != nil {
		return nil, fail("cpu", "cpu info", err)
	}
	if len(infos) == 0 || infos[0].ModelName == "" {
		return nil, nil
	}
	cores := 0
	for _, info := range infos {
		cores += int(info.Cores)
	}
	name := infos[0].ModelName
	return &models.CPU{
		Name:     cleanCPUName(name),
		FullName: name,
		Freq:     infos[0].Mhz / 1000,
		Cores:    cores,
	}, nil
}

// cleanCPUName strips vendor, trademark and core-count noise from a marketing name
func cleanCPUName(name string) string {
	s := cpuNoise.Replace(name)
	s = coreCountWord.ReplaceAllString(s, "")
	s = computeCores.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "Cores ", " ")
	s = authenticAMD.ReplaceAllString(s, "")
	s = radeonGraphics.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, ", altivec supported", "")
	s = strings.ReplaceAll(s, "Technologies, Inc", "")
	s = strings.ReplaceAll(s, "Core2", "Core 2")
	s = fpuSuffix.ReplaceAllString(s, "")
	s = chipRevision.ReplaceAllString(s, "")
	s = repeatedSpacing.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

func (CPU) Project(rec *models.CPU, ns *namespace.Table) error {
	_, err := ns.Record("cpu",
		namespace.F("name", rec.Name),
		namespace.F("fullName", rec.FullName),
		namespace.F("cores", rec.Cores),
		namespace.F("freq", rec.Freq),
	)
	return err
}
