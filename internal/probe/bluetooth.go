package probe

import (
	"context"
	"strings"

	"github.com/ilexum-group/hostfetch/internal/namespace"
	"github.com/ilexum-group/hostfetch/internal/utils"
	"github.com/ilexum-group/hostfetch/pkg/models"
)

const bluetoothClassDir = "/sys/class/bluetooth"

// Bluetooth reports the first adapter and its paired devices.
type Bluetooth struct{}

func (Bluetooth) Name() string { return "bluetooth" }

// Collect returns nil when no adapter exists. Device listing is best effort.
func (Bluetooth) Collect(ctx context.Context, env Env) (*models.Bluetooth, error) {
	entries, err := env.Sys.OSReadDir(bluetoothClassDir)
	if err != nil {
		if isNotExist(err) {
			return nil, nil
		}
		return nil, fail("bluetooth", "read "+bluetoothClassDir, err)
	}
	if len(entries) == 0 {
		return nil, nil
	}

	rec := &models.Bluetooth{
		Adapter: ptr(entries[0].Name()),
		Devices: make([]models.BluetoothDevice, 0),
	}
	if !hasCommand(env.Sys, "bluetoothctl") {
		return rec, nil
	}

	out, err := run(ctx, env.Sys, "bluetoothctl", "devices", "Paired")
	if err != nil {
		utils.LogDebug("bluetooth devices unavailable", map[string]string{"error": err.Error()})
		return rec, nil
	}
	for _, line := range strings.Split(out, "\n") {
		rest, ok := strings.CutPrefix(strings.TrimSpace(line), "Device ")
		if !ok {
			continue
		}
		mac, name, ok := strings.Cut(rest, " ")
		if !ok {
			continue
		}
		rec.Devices = append(rec.Devices, models.BluetoothDevice{
			Name:      name,
			MAC:       mac,
			Connected: deviceConnected(ctx, env, mac),
		})
	}
	return rec, nil
}

func deviceConnected(ctx context.Context, env Env, mac string) bool {
	out, err := run(ctx, env.Sys, "bluetoothctl", "info", mac)
	return err == nil && strings.Contains(out, "Connected: yes")
}

func (Bluetooth) Project(rec *models.Bluetooth, ns *namespace.Table) error {
	list := namespace.NewList()
	for _, d := range rec.Devices {
		item := namespace.NewTable()
		if err := item.Set("name", d.Name); err != nil {
			return err
		}
		if err := item.Set("mac", d.MAC); err != nil {
			return err
		}
		if err := item.Set("connected", d.Connected); err != nil {
			return err
		}
		list.Append(item)
	}

	t := namespace.NewTable()
	if rec.Adapter != nil {
		if err := t.Set("adapter", *rec.Adapter); err != nil {
			return err
		}
	}
	if err := t.Set("devices", list); err != nil {
		return err
	}
	if err := t.Set("count", len(rec.Devices)); err != nil {
		return err
	}
	return ns.Set("bluetooth", t)
}
