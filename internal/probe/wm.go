package probe

import (
	"context"
	"strings"

	"github.com/ilexum-group/hostfetch/internal/namespace"
	"github.com/ilexum-group/hostfetch/internal/platform"
	"github.com/ilexum-group/hostfetch/pkg/models"
)

// compositorSockets identifies Wayland compositors by the variable they export
var compositorSockets = []struct {
	env  string
	name string
}{
	{"SWAYSOCK", "sway"},
	{"HYPRLAND_INSTANCE_SIGNATURE", "Hyprland"},
	{"NIRI_SOCKET", "niri"},
	{"WAYFIRE_SOCKET", "Wayfire"},
}

// WindowManager reports the window manager or Wayland compositor.
type WindowManager struct{}

func (WindowManager) Name() string { return "wm" }

func (WindowManager) Collect(ctx context.Context, env Env) (*models.WindowManager, error) {
	switch env.Platform.Family {
	case platform.Darwin:
		return &models.WindowManager{Name: "Quartz Compositor"}, nil
	case platform.Windows:
		return &models.WindowManager{Name: "DWM"}, nil
	}

	if envSet(env.Sys, "WAYLAND_DISPLAY") {
		for _, c := range compositorSockets {
			if envSet(env.Sys, c.env) {
				return &models.WindowManager{Name: c.name}, nil
			}
		}
		if v := env.Sys.OSGetenv("XDG_SESSION_DESKTOP"); v != "" {
			return &models.WindowManager{Name: v}, nil
		}
	}

	if envSet(env.Sys, "DISPLAY") && hasCommand(env.Sys, "wmctrl") {
		out, err := run(ctx, env.Sys, "wmctrl", "-m")
		if err != nil {
			return nil, fail("wm", "wmctrl -m", err)
		}
		for _, line := range strings.Split(out, "\n") {
			if name, ok := strings.CutPrefix(line, "Name:"); ok {
				if name = strings.TrimSpace(name); name != "" {
					return &models.WindowManager{Name: name}, nil
				}
			}
		}
	}
	return nil, nil
}

func (WindowManager) Project(rec *models.WindowManager, ns *namespace.Table) error {
	_, err := ns.Record("wm", namespace.F("name", rec.Name))
	return err
}
