package probe

import (
	"context"
	"path"
	"regexp"
	"strings"

	"github.com/ilexum-group/hostfetch/internal/namespace"
	"github.com/ilexum-group/hostfetch/internal/utils"
	"github.com/ilexum-group/hostfetch/pkg/models"
)

var (
	bashVersion = regexp.MustCompile(`^(\d+(?:\.\d+)*)`)
	fishVersion = regexp.MustCompile(`version\s+(\S+)`)
)

// Shell reports the login shell from $SHELL and its version.
type Shell struct{}

func (Shell) Name() string { return "shell" }

// Collect returns nil when $SHELL is unset. A failing version query leaves the version empty.
func (Shell) Collect(ctx context.Context, env Env) (*models.Shell, error) {
	shellPath := env.Sys.OSGetenv("SHELL")
	if shellPath == "" {
		return nil, nil
	}
	name := path.Base(strings.ReplaceAll(shellPath, `\`, "/"))
	name = strings.TrimSuffix(name, ".exe")
	rec := &models.Shell{Name: name}

	version, err := shellVersion(ctx, env, name)
	if err != nil {
		utils.LogDebug("shell version unavailable", map[string]string{"shell": name, "error": err.Error()})
	}
	rec.Version = version
	return rec, nil
}

func shellVersion(ctx context.Context, env Env, name string) (string, error) {
	switch name {
	case "zsh":
		out, err := run(ctx, env.Sys, "zsh", "-c", "printf $ZSH_VERSION")
		return strings.TrimSpace(out), err
	case "bash":
		out, err := run(ctx, env.Sys, "bash", "-c", "printf $BASH_VERSION")
		if err != nil {
			return "", err
		}
		if m := bashVersion.FindStringSubmatch(strings.TrimSpace(out)); m != nil {
			return m[1], nil
		}
		return strings.TrimSpace(out), nil
	case "fish":
		out, err := run(ctx, env.Sys, "fish", "--version")
		if err != nil {
			return "", err
		}
		if m := fishVersion.FindStringSubmatch(out); m != nil {
			return m[1], nil
		}
	}
	return "", nil
}

func (Shell) Project(rec *models.Shell, ns *namespace.Table) error {
	_, err := ns.Record("shell",
		namespace.F("name", rec.Name),
		namespace.F("version", rec.Version),
	)
	return err
}
