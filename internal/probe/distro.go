package probe

import (
	"context"
	"regexp"
	"strings"

	"github.com/ilexum-group/hostfetch/internal/namespace"
	hostos "github.com/ilexum-group/hostfetch/internal/os"
	"github.com/ilexum-group/hostfetch/internal/platform"
	"github.com/ilexum-group/hostfetch/internal/utils"
	"github.com/ilexum-group/hostfetch/pkg/models"
)

// releaseFiles are tried in order; the first one naming the distribution wins
var releaseFiles = []string{
	"/etc/lsb-release",
	"/usr/lib/os-release",
	"/etc/os-release",
	"/etc/openwrt_release",
}

var redStarVersion = regexp.MustCompile(`[^0-9]*([0-9.]+).*`)

// Distro identifies the distribution or OS release.
type Distro struct{}

func (Distro) Name() string { return "distro" }

func (Distro) Collect(_ context.Context, env Env) (*models.Distro, error) {
	rec := &models.Distro{Architecture: env.Platform.Machine}

	switch env.Platform.Family {
	case platform.Linux, platform.BSD, platform.MINIX:
		rec.LongName, rec.ShortName = unixDistro(env.Sys)
	case platform.Darwin:
		rel, err := hostos.ReadDarwinRelease(env.Sys)
		if err != nil {
			return nil, fail("distro", "read SystemVersion.plist", err)
		}
		if rel != nil && rel.ProductName != "" {
			rec.ShortName = rel.ProductName
			rec.LongName = strings.TrimSpace(rel.ProductName + " " + rel.ProductVersion)
		}
	case platform.Windows:
		rel, err := hostos.ReadWindowsRelease(env.Sys, hostos.WindowsSoftwareHive)
		if err != nil {
			// The live SOFTWARE hive is locked while Windows runs.
			utils.LogDebug("Windows release unavailable", map[string]string{"error": err.Error()})
		}
		if rel != nil && rel.ProductName != "" {
			rec.ShortName = rel.ProductName
			rec.LongName = strings.TrimSpace(rel.ProductName + " " + rel.DisplayVersion)
		}
	}

	if rec.LongName == "" {
		rec.LongName = string(env.Platform.Family)
		rec.ShortName = string(env.Platform.Family)
	}
	return rec, nil
}

func unixDistro(sys hostos.SystemPrimitives) (string, string) {
	if exists(sys, "/bedrock/etc/bedrock-release") && strings.Contains(sys.OSGetenv("PATH"), "/bedrock/cross/") {
		long, err := readTrimmed(sys, "/bedrock/etc/bedrock-release")
		if err != nil || long == "" {
			long = "Bedrock Linux"
		}
		return long, "Bedrock Linux"
	}

	if exists(sys, "/etc/redstar-release") {
		long := "Red Star OS"
		if release, err := readTrimmed(sys, "/etc/redstar-release"); err == nil {
			if m := redStarVersion.FindStringSubmatch(release); m != nil {
				long = "Red Star OS " + m[1]
			}
		}
		return long, "Red Star OS"
	}

	for _, file := range releaseFiles {
		data, err := sys.OSReadFile(file)
		if err != nil {
			continue
		}
		if long, short, ok := parseRelease(string(data)); ok {
			return long, short
		}
	}
	return "", ""
}

// parseRelease reads KEY=value lines of os-release and lsb-release files
func parseRelease(content string) (string, string, bool) {
	vars := make(map[string]string)
	for _, line := range strings.Split(content, "\n") {
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		value = strings.Trim(strings.TrimSpace(value), `"'`)
		vars[strings.TrimSpace(key)] = value
	}

	name := firstOf(vars, "PRETTY_NAME", "DISTRIB_DESCRIPTION", "DISTRIB_ID", "TAILS_PRODUCT_NAME")
	if name == "" {
		return "", "", false
	}
	long := name
	if version := firstOf(vars, "VERSION_ID", "DISTRIB_RELEASE"); version != "" {
		long = name + " " + version
	}
	return long, name, true
}

func firstOf(vars map[string]string, keys ...string) string {
	for _, k := range keys {
		if v, ok := vars[k]; ok {
			return v
		}
	}
	return ""
}

func (Distro) Project(rec *models.Distro, ns *namespace.Table) error {
	_, err := ns.Record("distro",
		namespace.F("fullname", rec.LongName),
		namespace.F("shortname", rec.ShortName),
		namespace.F("architecture", rec.Architecture),
	)
	return err
}
