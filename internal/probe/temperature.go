package probe

import (
	"context"
	"strings"

	"github.com/shirou/gopsutil/v3/host"

	"github.com/ilexum-group/hostfetch/internal/namespace"
	"github.com/ilexum-group/hostfetch/pkg/models"
)

var sensorTemperatures = host.SensorsTemperaturesWithContext

// Temperature lists temperature sensors.
type Temperature struct{}

func (Temperature) Name() string { return "temperature" }

// Collect returns nil under a mounted root, since sensors belong to the running host.
func (Temperature) Collect(ctx context.Context, env Env) (*models.Temperature, error) {
	if !env.Sys.IsLive() {
		return nil, nil
	}
	stats, err := sensorTemperatures(ctx)
	// Some sensors failing still yields the readable ones.
	if err != nil && len(stats) == 0 {
		return nil, fail("temperature", "read sensors", err)
	}

	rec := &models.Temperature{}
	for _, s := range stats {
		sensor := models.TempSensor{Label: s.SensorKey, Temp: s.Temperature}
		if s.High > 0 {
			sensor.Max = ptr(s.High)
		}
		if s.Critical > 0 {
			sensor.Critical = ptr(s.Critical)
		}
		rec.Sensors = append(rec.Sensors, sensor)
	}
	if len(rec.Sensors) == 0 {
		return nil, nil
	}
	return rec, nil
}

// cpuTemperature is the first sensor whose label mentions the cpu or a core
func cpuTemperature(rec *models.Temperature) (float64, bool) {
	for _, s := range rec.Sensors {
		label := strings.ToLower(s.Label)
		if strings.Contains(label, "cpu") || strings.Contains(label, "core") {
			return s.Temp, true
		}
	}
	return 0, false
}

func maxTemperature(rec *models.Temperature) (float64, bool) {
	if len(rec.Sensors) == 0 {
		return 0, false
	}
	hottest := rec.Sensors[0].Temp
	for _, s := range rec.Sensors[1:] {
		hottest = max(hottest, s.Temp)
	}
	return hottest, true
}

func (Temperature) Project(rec *models.Temperature, ns *namespace.Table) error {
	list := namespace.NewList()
	for _, s := range rec.Sensors {
		item := namespace.NewTable()
		if err := item.Set("label", s.Label); err != nil {
			return err
		}
		if err := item.Set("temp", s.Temp); err != nil {
			return err
		}
		if s.Max != nil {
			if err := item.Set("max", *s.Max); err != nil {
				return err
			}
		}
		if s.Critical != nil {
			if err := item.Set("critical", *s.Critical); err != nil {
				return err
			}
		}
		list.Append(item)
	}

	t, err := ns.Record("temperature", namespace.F("sensors", list))
	if err != nil {
		return err
	}
	if v, ok := cpuTemperature(rec); ok {
		if err := t.Set("cpu", v); err != nil {
			return err
		}
	}
	if v, ok := maxTemperature(rec); ok {
		return t.Set("max", v)
	}
	return nil
}
