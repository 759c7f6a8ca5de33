package probe

import (
	"bytes"
	"context"
	"path"
	"strings"

	"github.com/ilexum-group/hostfetch/internal/namespace"
	"github.com/ilexum-group/hostfetch/internal/platform"
	"github.com/ilexum-group/hostfetch/pkg/models"
)

const drmClassDir = "/sys/class/drm"

var edidNameTag = []byte{0x00, 0x00, 0x00, 0xFC, 0x00}

// Monitors lists connected displays from their EDID blocks.
type Monitors struct{}

func (Monitors) Name() string { return "monitors" }

func (Monitors) Collect(_ context.Context, env Env) (*models.Monitors, error) {
	if env.Platform.Family != platform.Linux {
		return nil, nil
	}
	entries, err := env.Sys.OSReadDir(drmClassDir)
	if err != nil {
		if isNotExist(err) {
			return nil, nil
		}
		return nil, fail("monitors", "read "+drmClassDir, err)
	}

	rec := &models.Monitors{}
	for _, entry := range entries {
		edid, err := env.Sys.OSReadFile(path.Join(drmClassDir, entry.Name(), "edid"))
		if err != nil || len(edid) < 128 {
			continue
		}
		rec.Monitors = append(rec.Monitors, parseEDID(edid))
	}
	if len(rec.Monitors) == 0 {
		return nil, nil
	}
	return rec, nil
}

// parseEDID reads the monitor name descriptor and the physical size in centimetres
func parseEDID(edid []byte) models.Monitor {
	name := ""
	for _, offset := range []int{54, 72, 90, 108} {
		if len(edid) < offset+18 {
			break
		}
		desc := edid[offset : offset+18]
		if !bytes.HasPrefix(desc, edidNameTag) {
			continue
		}
		if v := strings.TrimRight(string(desc[5:18]), "\n\r \x00"); v != "" {
			name = v
		}
	}
	if name == "" {
		name = "Unknown Monitor"
	}

	m := models.Monitor{Name: name}
	if w := int(edid[21]) * 10; w > 0 {
		m.WidthMM = ptr(w)
	}
	if h := int(edid[22]) * 10; h > 0 {
		m.HeightMM = ptr(h)
	}
	return m
}

func (Monitors) Project(rec *models.Monitors, ns *namespace.Table) error {
	list := namespace.NewList()
	for _, m := range rec.Monitors {
		item := namespace.NewTable()
		if err := item.Set("name", m.Name); err != nil {
			return err
		}
		if m.WidthMM != nil {
			if err := item.Set("width_mm", *m.WidthMM); err != nil {
				return err
			}
		}
		if m.HeightMM != nil {
			if err := item.Set("height_mm", *m.HeightMM); err != nil {
				return err
			}
		}
		list.Append(item)
	}
	_, err := ns.Record("monitors",
		namespace.F("monitors", list),
		namespace.F("count", len(rec.Monitors)),
	)
	return err
}
