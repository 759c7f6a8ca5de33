package probe

import (
	"context"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/ilexum-group/hostfetch/internal/namespace"
	"github.com/ilexum-group/hostfetch/internal/platform"
	"github.com/ilexum-group/hostfetch/pkg/models"
)

var (
	xrandrMode     = regexp.MustCompile(`\s+(\d+)x(\d+)\s+(\d+\.\d+)\*`)
	xwininfoWidth  = regexp.MustCompile(`\s+Width: (\d+)`)
	xwininfoHeight = regexp.MustCompile(`\s+Height: (\d+)`)
)

// Resolution reports the current display mode.
type Resolution struct{}

func (Resolution) Name() string { return "resolution" }

func (Resolution) Collect(ctx context.Context, env Env) (*models.Resolution, error) {
	if env.Platform.Family != platform.Linux {
		return nil, nil
	}
	x11 := envSet(env.Sys, "DISPLAY") && !envSet(env.Sys, "WAYLAND_DISPLAY")

	switch {
	case x11 && hasCommand(env.Sys, "xrandr"):
		out, err := run(ctx, env.Sys, "xrandr", "--nograb", "--current")
		if err != nil {
			return nil, fail("resolution", "xrandr --nograb --current", err)
		}
		return parseXrandr(out), nil
	case x11 && hasCommand(env.Sys, "xwininfo"):
		out, err := run(ctx, env.Sys, "xwininfo", "-root")
		if err != nil {
			return nil, fail("resolution", "xwininfo -root", err)
		}
		return parseXwininfo(out), nil
	case isDir(env.Sys, drmClassDir):
		return drmResolution(env), nil
	}
	return nil, nil
}

// parseXrandr takes the first mode marked current
func parseXrandr(out string) *models.Resolution {
	for _, line := range strings.Split(out, "\n") {
		m := xrandrMode.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		w, _ := strconv.Atoi(m[1])
		h, _ := strconv.Atoi(m[2])
		rec := &models.Resolution{Width: w, Height: h}
		if r, err := strconv.ParseFloat(m[3], 64); err == nil {
			rec.Refresh = ptr(r)
		}
		return rec
	}
	return nil
}

func parseXwininfo(out string) *models.Resolution {
	var rec models.Resolution
	var haveW, haveH bool
	for _, line := range strings.Split(out, "\n") {
		if m := xwininfoWidth.FindStringSubmatch(line); m != nil {
			rec.Width, _ = strconv.Atoi(m[1])
			haveW = true
		}
		if m := xwininfoHeight.FindStringSubmatch(line); m != nil {
			rec.Height, _ = strconv.Atoi(m[1])
			haveH = true
		}
	}
	if !haveW || !haveH {
		return nil
	}
	return &rec
}

// drmResolution reads the preferred mode of the first connector that lists one
func drmResolution(env Env) *models.Resolution {
	entries, err := env.Sys.OSReadDir(drmClassDir)
	if err != nil {
		return nil
	}
	for _, entry := range entries {
		modes, err := env.Sys.OSReadFile(path.Join(drmClassDir, entry.Name(), "modes"))
		if err != nil {
			continue
		}
		for _, line := range strings.Split(string(modes), "\n") {
			ws, hs, ok := strings.Cut(strings.TrimSpace(line), "x")
			if !ok {
				continue
			}
			w, errW := strconv.Atoi(ws)
			h, errH := strconv.Atoi(hs)
			if errW == nil && errH == nil {
				return &models.Resolution{Width: w, Height: h}
			}
		}
	}
	return nil
}

func (Resolution) Project(rec *models.Resolution, ns *namespace.Table) error {
	t, err := ns.Record("resolution",
		namespace.F("width", rec.Width),
		namespace.F("height", rec.Height),
	)
	if err != nil {
		return err
	}
	if rec.Refresh != nil {
		return t.Set("refresh", *rec.Refresh)
	}
	return nil
}
