package probe

import (
	"context"
	"regexp"
	"strings"

	"github.com/ilexum-group/hostfetch/internal/namespace"
	"github.com/ilexum-group/hostfetch/internal/platform"
	"github.com/ilexum-group/hostfetch/internal/utils"
	"github.com/ilexum-group/hostfetch/pkg/models"
)

var versionNumber = regexp.MustCompile(`(\d+(?:\.\d+)+)`)

// deVersionCommands maps a desktop name to the command printing its version
var deVersionCommands = map[string][]string{
	"GNOME":    {"gnome-shell", "--version"},
	"KDE":      {"plasmashell", "--version"},
	"Plasma":   {"plasmashell", "--version"},
	"XFCE":     {"xfce4-session", "--version"},
	"MATE":     {"mate-session", "--version"},
	"Cinnamon": {"cinnamon", "--version"},
	"LXQt":     {"lxqt-session", "--version"},
	"Budgie":   {"budgie-desktop", "--version"},
}

// DesktopEnvironment reports the running desktop environment.
type DesktopEnvironment struct{}

func (DesktopEnvironment) Name() string { return "de" }

func (DesktopEnvironment) Collect(ctx context.Context, env Env) (*models.DesktopEnvironment, error) {
	switch env.Platform.Family {
	case platform.Darwin:
		return &models.DesktopEnvironment{Name: "Aqua"}, nil
	case platform.Windows:
		return &models.DesktopEnvironment{Name: windowsDesktop(env)}, nil
	}

	name := desktopName(env)
	if name == "" {
		return nil, nil
	}
	rec := &models.DesktopEnvironment{Name: name}

	if cmd, ok := deVersionCommands[name]; ok && hasCommand(env.Sys, cmd[0]) {
		out, err := run(ctx, env.Sys, cmd[0], cmd[1:]...)
		if err != nil {
			utils.LogDebug("desktop version unavailable", map[string]string{"de": name, "error": err.Error()})
		} else if m := versionNumber.FindStringSubmatch(out); m != nil {
			rec.Version = m[1]
		}
	}
	return rec, nil
}

func desktopName(env Env) string {
	if v := env.Sys.OSGetenv("XDG_CURRENT_DESKTOP"); v != "" {
		// In values such as "ubuntu:GNOME" the last entry names the desktop.
		parts := strings.Split(v, ":")
		return normalizeDesktop(parts[len(parts)-1])
	}
	if v := env.Sys.OSGetenv("DESKTOP_SESSION"); v != "" {
		return normalizeDesktop(baseName(v))
	}
	switch {
	case envSet(env.Sys, "GNOME_DESKTOP_SESSION_ID"):
		return "GNOME"
	case envSet(env.Sys, "MATE_DESKTOP_SESSION_ID"):
		return "MATE"
	case envSet(env.Sys, "KDE_FULL_SESSION"):
		return "KDE"
	}
	return ""
}

func baseName(v string) string {
	if i := strings.LastIndex(v, "/"); i >= 0 {
		return v[i+1:]
	}
	return v
}

func normalizeDesktop(name string) string {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "gnome", "gnome-xorg", "gnome-wayland":
		return "GNOME"
	case "kde", "plasma", "plasmawayland":
		return "Plasma"
	case "xfce", "xfce4", "xfce session":
		return "XFCE"
	case "mate":
		return "MATE"
	case "x-cinnamon", "cinnamon":
		return "Cinnamon"
	case "lxqt":
		return "LXQt"
	case "budgie", "budgie-desktop", "budgie:gnome":
		return "Budgie"
	}
	return strings.TrimSpace(name)
}

// windowsDesktop derives the shell generation from the release collected earlier
func windowsDesktop(env Env) string {
	release := ""
	if env.Prior != nil && env.Prior.Distro != nil {
		release = env.Prior.Distro.LongName
	}
	switch {
	case strings.Contains(release, "Windows 11"), strings.Contains(release, "Windows 10"):
		return "Fluent"
	case strings.Contains(release, "Windows 8"):
		return "Metro"
	}
	return "Aero"
}

func (DesktopEnvironment) Project(rec *models.DesktopEnvironment, ns *namespace.Table) error {
	t, err := ns.Record("de", namespace.F("name", rec.Name))
	if err != nil {
		return err
	}
	if rec.Version != "" {
		return t.Set("version", rec.Version)
	}
	return nil
}
