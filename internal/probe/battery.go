package probe

import (
	"context"
	"path"
	"strconv"
	"strings"

	"github.com/ilexum-group/hostfetch/internal/namespace"
	"github.com/ilexum-group/hostfetch/pkg/models"
)

const powerSupplyDir = "/sys/class/power_supply"

// Battery reports the state of the first battery.
type Battery struct{}

func (Battery) Name() string { return "battery" }

// Collect returns nil on machines without a BAT* power supply with a numeric capacity.
func (Battery) Collect(_ context.Context, env Env) (*models.Battery, error) {
	entries, err := env.Sys.OSReadDir(powerSupplyDir)
	if err != nil {
		if isNotExist(err) {
			return nil, nil
		}
		return nil, fail("battery", "read "+powerSupplyDir, err)
	}

	for _, entry := range entries {
		if !strings.HasPrefix(entry.Name(), "BAT") {
			continue
		}
		dir := path.Join(powerSupplyDir, entry.Name())

		raw, err := readTrimmed(env.Sys, path.Join(dir, "capacity"))
		if err != nil {
			return nil, fail("battery", "read capacity", err)
		}
		// Drivers report "unknown" or nothing while the gauge is not ready.
		capacity, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			continue
		}
		status, err := readTrimmed(env.Sys, path.Join(dir, "status"))
		if err != nil {
			return nil, fail("battery", "read status", err)
		}

		rec := &models.Battery{Capacity: int(capacity), Status: status}
		if cycles, err := readInt(env, path.Join(dir, "cycle_count")); err == nil {
			rec.CycleCount = ptr(int(cycles))
		}
		rec.Health = batteryHealth(env, dir)
		if microwatts, err := readInt(env, path.Join(dir, "power_now")); err == nil {
			rec.PowerDraw = ptr(float64(microwatts) / 1e6)
		}
		return rec, nil
	}
	return nil, nil
}

// batteryHealth is full capacity over design capacity, from energy or charge counters
func batteryHealth(env Env, dir string) *int {
	for _, pair := range [][2]string{
		{"energy_full", "energy_full_design"},
		{"charge_full", "charge_full_design"},
	} {
		full, err := readInt(env, path.Join(dir, pair[0]))
		if err != nil {
			continue
		}
		design, err := readInt(env, path.Join(dir, pair[1]))
		if err != nil || design <= 0 {
			continue
		}
		return ptr(int(float64(full) / float64(design) * 100))
	}
	return nil
}

func readInt(env Env, file string) (int64, error) {
	v, err := readTrimmed(env.Sys, file)
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(v, 10, 64)
}

func (Battery) Project(rec *models.Battery, ns *namespace.Table) error {
	t, err := ns.Record("battery",
		namespace.F("capacity", rec.Capacity),
		namespace.F("status", rec.Status),
	)
	if err != nil {
		return err
	}
	if rec.CycleCount != nil {
		if err := t.Set("cycles", *rec.CycleCount); err != nil {
			return err
		}
	}
	if rec.Health != nil {
		if err := t.Set("health", *rec.Health); err != nil {
			return err
		}
	}
	if rec.PowerDraw != nil {
		return t.Set("power", *rec.PowerDraw)
	}
	return nil
}
