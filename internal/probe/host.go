package probe

import (
	"context"
	"strings"

	"github.com/ilexum-group/hostfetch/internal/namespace"
	"github.com/ilexum-group/hostfetch/internal/platform"
	"github.com/ilexum-group/hostfetch/pkg/models"
)

// placeholderModels are firmware defaults that carry no information
var placeholderModels = []string{
	"To be filled by O.E.M.",
	"To Be Filled By O.E.M.",
	"OEM",
	"Not Applicable",
	"System Product Name",
	"System Version",
	"Undefined",
	"Default string",
	"Not Specified",
	"Type1ProductConfigId",
	"INVALID",
	"All Series",
}

// Host reports the machine model.
type Host struct{}

func (Host) Name() string { return "host" }

func (Host) Collect(ctx context.Context, env Env) (*models.Host, error) {
	var rec models.Host

	switch env.Platform.Family {
	case platform.Linux:
		switch {
		case isAndroid(env):
			brand, err := getprop(ctx, env, "ro.product.brand")
			if err != nil {
				return nil, fail("host", "getprop ro.product.brand", err)
			}
			model, _ := getprop(ctx, env, "ro.product.model")
			rec.Model = strings.TrimSpace(brand + " " + model)
		case isFile(env.Sys, dmiDir+"/product_name"):
			rec.Model = dmiValue(env, "product_name")
			rec.Version = dmiValue(env, "product_version")
		case isFile(env.Sys, "/sys/firmware/devicetree/base/model"):
			rec.Model = strings.TrimRight(readOptional(env.Sys, "/sys/firmware/devicetree/base/model"), "\x00")
		}
	case platform.Darwin, platform.BSD:
		if !hasCommand(env.Sys, "sysctl") {
			return nil, nil
		}
		out, err := run(ctx, env.Sys, "sysctl", "-n", "hw.model")
		if err != nil {
			return nil, fail("host", "sysctl -n hw.model", err)
		}
		rec.Model = strings.TrimSpace(out)
	case platform.Windows:
		if !hasCommand(env.Sys, "wmic") {
			return nil, nil
		}
		out, err := run(ctx, env.Sys, "wmic", "computersystem", "get", "manufacturer,model")
		if err != nil {
			return nil, fail("host", "wmic computersystem get manufacturer,model", err)
		}
		lines := strings.Split(strings.ReplaceAll(out, "\r", ""), "\n")
		if len(lines) >= 2 {
			rec.Model = strings.Join(strings.Fields(lines[1]), " ")
		}
	}

	rec.Model = stripPlaceholders(rec.Model)
	rec.Version = stripPlaceholders(rec.Version)
	if rec.Model == "" {
		return nil, nil
	}
	return &rec, nil
}

func stripPlaceholders(s string) string {
	for _, p := range placeholderModels {
		s = strings.ReplaceAll(s, p, "")
	}
	return strings.Join(strings.Fields(s), " ")
}

func (Host) Project(rec *models.Host, ns *namespace.Table) error {
	t, err := ns.Record("host", namespace.F("model", rec.Model))
	if err != nil {
		return err
	}
	if rec.Version != "" {
		return t.Set("version", rec.Version)
	}
	return nil
}
