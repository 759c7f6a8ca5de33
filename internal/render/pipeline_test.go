package render

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ilexum-group/hostfetch/internal/gather"
	"github.com/ilexum-group/hostfetch/internal/namespace"
	"github.com/ilexum-group/hostfetch/pkg/models"
)

type projectorFunc func(*models.Snapshot) (*namespace.Table, error)

func (f projectorFunc) Project(s *models.Snapshot) (*namespace.Table, error) { return f(s) }

func kernelOnly(*models.Snapshot) (*namespace.Table, error) {
	ns := namespace.NewTable()
	_, err := ns.Record("kernel",
		namespace.F("name", "Linux"),
		namespace.F("version", "6.8.0"),
		namespace.F("architecture", "x86_64"),
	)
	return ns, err
}

func fixedTerminal() (int, int) { return 100, 40 }

// overrides writes the given templates into a temp dir and returns options pointing at them
func overrides(t *testing.T, templates map[Stage]string) Options {
	t.Helper()
	dir := t.TempDir()
	opts := Options{
		ArtPath:      filepath.Join(dir, "art.lua"),
		InfoPath:     filepath.Join(dir, "info.lua"),
		LayoutPath:   filepath.Join(dir, "layout.lua"),
		TerminalSize: fixedTerminal,
	}
	paths := map[Stage]string{StageArt: opts.ArtPath, StageInfo: opts.InfoPath, StageLayout: opts.LayoutPath}
	for stage, code := range templates {
		require.NoError(t, os.WriteFile(paths[stage], []byte(code), 0o600))
	}
	return opts
}

func TestStagesSeePriorBlocks(t *testing.T) {
	opts := overrides(t, map[Stage]string{
		StageArt:    `print("ART") marker = "from-art"`,
		StageInfo:   `print("INFO " .. artWidth .. "x" .. artHeight .. " " .. marker .. " " .. kernel.name)`,
		StageLayout: `write(art .. info .. terminal.width .. " " .. infoHeight)`,
	})

	out, err := New(projectorFunc(kernelOnly), opts).Render(models.NewSnapshot(models.Kernel{}))
	require.NoError(t, err)
	assert.Equal(t, models.RenderedBlock{Text: "ART\n", Width: 3, Height: 2}, out.Art)
	assert.Equal(t, "INFO 3x2 from-art Linux\n", out.Info.Text)
	assert.Equal(t, "ART\nINFO 3x2 from-art Linux\n100 2", out.Layout)
}

func TestAbsentRecordIsNil(t *testing.T) {
	opts := overrides(t, map[Stage]string{
		StageInfo:   `if battery == nil then print("no battery") else print(battery.capacity) end`,
		StageLayout: `write(info)`,
	})

	got, err := New(projectorFunc(kernelOnly), opts).Run(models.NewSnapshot(models.Kernel{}))
	require.NoError(t, err)
	assert.Equal(t, "no battery\n", got)
}

func TestMissingOutputIsEvaluationError(t *testing.T) {
	opts := overrides(t, map[Stage]string{StageArt: `__hostfetch__ = nil`})

	_, err := New(projectorFunc(kernelOnly), opts).Run(models.NewSnapshot(models.Kernel{}))
	var evalErr *EvaluationError
	require.True(t, errors.As(err, &evalErr))
	assert.Equal(t, StageArt, evalErr.Stage)
	assert.Equal(t, opts.ArtPath, evalErr.Source)
	assert.ErrorIs(t, err, errNoOutput)
}

func TestLuaErrorIsEvaluationError(t *testing.T) {
	opts := overrides(t, map[Stage]string{StageInfo: `error("boom")`})

	_, err := New(projectorFunc(kernelOnly), opts).Run(models.NewSnapshot(models.Kernel{}))
	var evalErr *EvaluationError
	require.True(t, errors.As(err, &evalErr))
	assert.Equal(t, StageInfo, evalErr.Stage)
	assert.Contains(t, err.Error(), "boom")
}

func TestProjectionErrorIsBridgeError(t *testing.T) {
	failing := projectorFunc(func(*models.Snapshot) (*namespace.Table, error) {
		return nil, namespace.ErrDuplicateKey
	})

	_, err := New(failing, Options{TerminalSize: fixedTerminal}).Run(models.NewSnapshot(models.Kernel{}))
	var bridgeErr *BridgeError
	require.True(t, errors.As(err, &bridgeErr))
	assert.ErrorIs(t, err, namespace.ErrDuplicateKey)
}

func TestMissingOverrideFallsBackToBuiltin(t *testing.T) {
	opts := overrides(t, nil)
	opts.Logo = true

	out, err := New(projectorFunc(kernelOnly), opts).Render(models.NewSnapshot(models.Kernel{}))
	require.NoError(t, err)
	assert.Contains(t, out.Art.Text, "(")
	assert.Equal(t, out.Art.Text, out.Layout)
	assert.Equal(t, 7, strings.Count(out.Art.Text, "\n"))
}

func TestAsciiDistroSelectsLogoColors(t *testing.T) {
	opts := overrides(t, map[Stage]string{StageLayout: `write(distroColors[1])`})
	opts.AsciiDistro = "Fedora"

	got, err := New(projectorFunc(kernelOnly), opts).Run(models.NewSnapshot(models.Kernel{}))
	require.NoError(t, err)
	assert.Equal(t, "\x1b[38;5;4m", got)
}

func TestHelpers(t *testing.T) {
	opts := overrides(t, map[Stage]string{
		StageLayout: `
			local w, h = measure("\27[31mHi\27[0m\nWorld")
			write(w .. " " .. h .. " " .. width("\27[1mabc") .. " " .. #lines("a\nb\n") .. " " .. humanBytes(1536))
		`,
	})

	got, err := New(projectorFunc(kernelOnly), opts).Run(models.NewSnapshot(models.Kernel{}))
	require.NoError(t, err)
	assert.Equal(t, "5 2 3 2 1.5 KiB", got)
}

func TestBuiltinTemplatesRenderSnapshot(t *testing.T) {
	s := models.NewSnapshot(models.Kernel{Name: "Linux", Sysname: "Linux", Version: "6.8.0", Architecture: "x86_64"})
	s.Distro = &models.Distro{LongName: "Arch Linux", ShortName: "Arch Linux", Architecture: "x86_64"}
	s.Context = &models.Context{User: "alice", Host: "archbox"}
	s.Uptime = &models.Uptime{Seconds: 93784}
	s.Memory = &models.Memory{Max: 16 << 30, Used: 6 << 30}
	s.CPU = &models.CPU{Name: "Ryzen 7 5800H", FullName: "AMD Ryzen 7 5800H", Cores: 16, Freq: 4.463}
	s.GPUs = &models.GPUs{Devices: []models.GPU{{Name: "Radeon Vega", Vendor: "AMD"}}}
	s.Host = &models.Host{Model: "ThinkPad X1 Carbon", Version: "Gen 9"}
	s.PackageManagers = &models.PackageManagers{Managers: []models.PackageManager{{Name: "pacman", Packages: 1203}, {Name: "flatpak", Packages: 12}}}
	s.Shell = &models.Shell{Name: "zsh", Version: "5.9"}
	refresh := 143.99
	s.Resolution = &models.Resolution{Width: 2560, Height: 1440, Refresh: &refresh}
	s.DE = &models.DesktopEnvironment{Name: "KDE", Version: "6.0"}
	s.WM = &models.WindowManager{Name: "KWin"}
	s.Motherboard = &models.Motherboard{Name: "20XW0055GE", Vendor: "LENOVO", Revision: "SDK0J40697"}
	s.Disk = &models.Disk{Name: "/dev/nvme0n1p2", MountPoint: "/", FSType: "ext4", Total: 512 << 30, Used: 128 << 30}
	s.Network = &models.Network{Interface: "wlan0", IP: "192.168.1.42"}
	s.Battery = &models.Battery{Capacity: 87, Status: "Discharging"}
	s.Temperature = &models.Temperature{Sensors: []models.TempSensor{{Label: "acpitz", Temp: 61}, {Label: "coretemp_core_0", Temp: 52.5}}}
	s.Monitors = &models.Monitors{Monitors: []models.Monitor{{Name: "LG Display"}, {Name: "DELL U2720Q"}}}
	adapter := "hci0"
	s.Bluetooth = &models.Bluetooth{Adapter: &adapter, Devices: []models.BluetoothDevice{
		{Name: "WH-1000XM4", MAC: "AA:BB:CC:DD:EE:FF", Connected: true},
		{Name: "MX Master 3", MAC: "11:22:33:44:55:66"},
	}}
	s.Freeze()

	out, err := New(gather.DefaultPlan(), Options{TerminalSize: fixedTerminal}).Render(s)
	require.NoError(t, err)

	plain := ansi.Strip(out.Layout)
	assert.Contains(t, plain, "alice@archbox")
	assert.Contains(t, plain, "OS: Arch Linux x86_64")
	assert.Contains(t, plain, "Uptime: 1d 2h 3m")
	assert.Contains(t, plain, "CPU: Ryzen 7 5800H (16) @ 4.46GHz")
	assert.Contains(t, plain, "GPU: AMD Radeon Vega")
	assert.Contains(t, plain, "Memory: 6.0 GiB / 16 GiB")
	assert.Contains(t, plain, "Host: ThinkPad X1 Carbon Gen 9")
	assert.Contains(t, plain, "Kernel: 6.8.0")
	assert.Contains(t, plain, "Packages: 1203 (pacman), 12 (flatpak)")
	assert.Contains(t, plain, "Shell: zsh 5.9")
	assert.Contains(t, plain, "Resolution: 2560x1440 @ 144Hz")
	assert.Contains(t, plain, "DE: KDE 6.0")
	assert.Contains(t, plain, "WM: KWin")
	assert.Contains(t, plain, "Motherboard: LENOVO 20XW0055GE")
	assert.Contains(t, plain, "Disk (/): 128 GiB / 512 GiB (ext4)")
	assert.Contains(t, plain, "Local IP (wlan0): 192.168.1.42")
	assert.Contains(t, plain, "Battery: 87% [Discharging]")
	assert.Contains(t, plain, "CPU Temp: 52.5°C")
	assert.Contains(t, plain, "Monitors: LG Display, DELL U2720Q")
	assert.Contains(t, plain, "Bluetooth: hci0 (2 paired)")
	assert.Contains(t, out.Art.Text, "/\\")
}

func TestBuiltinInfoWithoutOptionalRecords(t *testing.T) {
	s := models.NewSnapshot(models.Kernel{Name: "Linux", Sysname: "Linux", Version: "6.8.0", Architecture: "x86_64"})
	s.Freeze()

	out, err := New(gather.DefaultPlan(), Options{TerminalSize: fixedTerminal}).Render(s)
	require.NoError(t, err)
	plain := ansi.Strip(out.Info.Text)
	assert.Contains(t, plain, "Kernel: 6.8.0")
	assert.NotContains(t, plain, "Battery")
	assert.NotContains(t, plain, "OS:")
}

func TestBuiltinArtMatchesReleaseNames(t *testing.T) {
	tests := []struct {
		shortName string
		want      string
	}{
		{"Ubuntu 22.04.3 LTS", "---(_)"},
		{"Debian GNU/Linux 12 (bookworm)", "|  \\___-"},
		{"Fedora Linux 39 (Workstation Edition)", "(_____/"},
		{"Arch Linux", "/_-''    ''-_\\"},
	}

	for _, tt := range tests {
		t.Run(tt.shortName, func(t *testing.T) {
			s := models.NewSnapshot(models.Kernel{Name: "Linux", Version: "6.8.0", Architecture: "x86_64"})
			s.Distro = &models.Distro{LongName: tt.shortName, ShortName: tt.shortName, Architecture: "x86_64"}
			s.Freeze()

			opts := overrides(t, map[Stage]string{StageLayout: `write(art)`})
			got, err := New(gather.DefaultPlan(), opts).Run(s)
			require.NoError(t, err)
			assert.Contains(t, ansi.Strip(got), tt.want)
		})
	}
}

func TestLayoutSeesArtDespiteInfoOverwrite(t *testing.T) {
	opts := overrides(t, map[Stage]string{
		StageArt:    `print("ART")`,
		StageInfo:   `art = "clobbered" artWidth = 0 print("INFO")`,
		StageLayout: `write(art .. artWidth .. info)`,
	})

	got, err := New(projectorFunc(kernelOnly), opts).Run(models.NewSnapshot(models.Kernel{}))
	require.NoError(t, err)
	assert.Equal(t, "ART\n3INFO\n", got)
}

func TestNamespaceReinjectedPerStage(t *testing.T) {
	calls := 0
	counting := projectorFunc(func(s *models.Snapshot) (*namespace.Table, error) {
		calls++
		return kernelOnly(s)
	})
	opts := overrides(t, map[Stage]string{
		StageArt:    `kernel.name = "changed" print(kernel.name)`,
		StageInfo:   `print(kernel.name)`,
		StageLayout: `write(art .. info)`,
	})

	got, err := New(counting, opts).Run(models.NewSnapshot(models.Kernel{}))
	require.NoError(t, err)
	assert.Equal(t, "changed\nLinux\n", got)
	assert.Equal(t, 3, calls)
}
