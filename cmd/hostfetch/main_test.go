package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ilexum-group/hostfetch/internal/utils"
)

func TestMain(m *testing.M) {
	if err := utils.InitDefaultLogger(); err != nil {
		panic(err)
	}
	utils.DefaultLogger.SetOutput(&bytes.Buffer{})
	os.Exit(m.Run())
}

// linuxRoot is a mounted root identified as Linux by its os-release file
func linuxRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "etc"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "etc", "os-release"), []byte("NAME=\"Arch Linux\"\n"), 0o644))
	return root
}

func TestRunVersion(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"--version"}, &out))
	assert.Equal(t, "hostfetch "+version+"\n", out.String())
}

func TestRunHelp(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"--help"}, &out))
	assert.Contains(t, out.String(), "--ascii_distro")
}

func TestRunRejectsUnknownProbe(t *testing.T) {
	err := run(context.Background(), []string{"--config-dir", t.TempDir(), "--disable", "wifi"}, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown probes: wifi")
}

func TestRunRendersOverrides(t *testing.T) {
	dir := t.TempDir()
	templates := map[string]string{
		"art.lua":    `print("art")`,
		"info.lua":   `print(kernel.name ~= nil)`,
		"layout.lua": `write(art .. info)`,
	}
	for name, code := range templates {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(code), 0o600))
	}

	var out bytes.Buffer
	err := run(context.Background(), []string{"--config-dir", dir, "--root", linuxRoot(t)}, &out)
	require.NoError(t, err)
	assert.Equal(t, "art\ntrue\n", out.String())
}

func TestRunLayoutFailureIsFatal(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "layout.lua"), []byte(`error("bad layout")`), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "art.lua"), []byte(`print("art")`), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "info.lua"), []byte(`print("info")`), 0o600))

	var out bytes.Buffer
	err := run(context.Background(), []string{"--config-dir", dir, "--root", linuxRoot(t)}, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad layout")
	assert.Empty(t, out.String())
}

func TestRunJSON(t *testing.T) {
	var out bytes.Buffer
	err := run(context.Background(), []string{"--json", "--config-dir", t.TempDir(), "--root", linuxRoot(t)}, &out)
	require.NoError(t, err)

	var export struct {
		RunID    string `json:"run_id"`
		Version  string `json:"version"`
		Snapshot struct {
			Kernel struct {
				Name string `json:"name"`
			} `json:"kernel"`
		} `json:"snapshot"`
		Probes []struct {
			Name   string `json:"name"`
			Status string `json:"status"`
		} `json:"probes"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &export))
	assert.NotEmpty(t, export.RunID)
	assert.Equal(t, version, export.Version)
	assert.Equal(t, "Linux", export.Snapshot.Kernel.Name)
	require.Len(t, export.Probes, 19)
	for _, p := range export.Probes {
		if p.Name == "disk" || p.Name == "temperature" {
			assert.Equal(t, "absent", p.Status)
		}
	}
}

func TestRunRootWithoutSystemFails(t *testing.T) {
	err := run(context.Background(), []string{"--json", "--config-dir", t.TempDir(), "--root", t.TempDir()}, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown")
}
