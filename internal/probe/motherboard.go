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

const dmiDir = "/sys/devices/virtual/dmi/id"

var wmicPair = regexp.MustCompile(`(\S+)\s+(\S+)`)

// Motherboard reports the baseboard name, vendor and revision.
type Motherboard struct{}

func (Motherboard) Name() string { return "motherboard" }

func (Motherboard) Collect(ctx context.Context, env Env) (*models.Motherboard, error) {
	switch env.Platform.Family {
	case platform.Linux:
		if isAndroid(env) {
			board, err := getprop(ctx, env, "ro.product.board")
			if err != nil {
				return nil, fail("motherboard", "getprop ro.product.board", err)
			}
			if board == "" {
				return nil, nil
			}
			model, _ := getprop(ctx, env, "ro.product.model")
			return &models.Motherboard{Name: board, Vendor: "Android", Revision: model}, nil
		}
		if !isFile(env.Sys, path.Join(dmiDir, "board_name")) &&
			!isFile(env.Sys, path.Join(dmiDir, "board_vendor")) &&
			!isFile(env.Sys, path.Join(dmiDir, "board_version")) {
			return nil, nil
		}
		return &models.Motherboard{
			Name:     dmiValue(env, "board_name"),
			Vendor:   dmiValue(env, "board_vendor"),
			Revision: dmiValue(env, "board_version"),
		}, nil
	case platform.Windows:
		if !hasCommand(env.Sys, "wmic") {
			return nil, nil
		}
		out, err := run(ctx, env.Sys, "wmic", "baseboard", "get", "product,manufacturer")
		if err != nil {
			return nil, fail("motherboard", "wmic baseboard get product,manufacturer", err)
		}
		lines := strings.Split(strings.ReplaceAll(out, "\r", ""), "\n")
		if len(lines) < 2 {
			return nil, nil
		}
		m := wmicPair.FindStringSubmatch(lines[1])
		if m == nil {
			return nil, nil
		}
		return &models.Motherboard{Name: m[1], Vendor: m[2]}, nil
	}
	return nil, nil
}

func isAndroid(env Env) bool {
	return isDir(env.Sys, "/system/app") && isDir(env.Sys, "/system/priv-app")
}

func getprop(ctx context.Context, env Env, key string) (string, error) {
	out, err := run(ctx, env.Sys, "getprop", key)
	return strings.TrimSpace(out), err
}

func dmiValue(env Env, name string) string {
	return strings.TrimSpace(strings.ReplaceAll(readOptional(env.Sys, path.Join(dmiDir, name)), "\n", " "))
}

func (Motherboard) Project(rec *models.Motherboard, ns *namespace.Table) error {
	_, err := ns.Record("motherboard",
		namespace.F("name", rec.Name),
		namespace.F("vendor", rec.Vendor),
		namespace.F("revision", rec.Revision),
	)
	return err
}
