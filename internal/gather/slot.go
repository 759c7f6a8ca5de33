package gather

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ilexum-group/hostfetch/internal/namespace"
	"github.com/ilexum-group/hostfetch/internal/probe"
	"github.com/ilexum-group/hostfetch/pkg/models"
)

// Slot binds a probe to the snapshot field holding its record.
type Slot struct {
	name    string
	collect func(ctx context.Context, env probe.Env) (fill func(*models.Snapshot) error, err error)
	project func(s *models.Snapshot, ns *namespace.Table) error
}

// Bind creates a slot for p storing its record in the field selected by field.
func Bind[R any](p probe.Probe[R], field func(*models.Snapshot) **R) Slot {
	name := p.Name()
	return Slot{
		name: name,
		collect: func(ctx context.Context, env probe.Env) (func(*models.Snapshot) error, error) {
			rec, err := p.Collect(ctx, env)
			if err != nil || rec == nil {
				return nil, err
			}
			return func(s *models.Snapshot) error {
				if err := models.Fill(s, field, rec); err != nil {
					return fmt.Errorf("store %s: %w", name, err)
				}
				return nil
			}, nil
		},
		project: func(s *models.Snapshot, ns *namespace.Table) error {
			rec := *field(s)
			if rec == nil {
				return nil
			}
			if err := p.Project(rec, ns); err != nil {
				return fmt.Errorf("project %s: %w", name, err)
			}
			return nil
		},
	}
}

// Name returns the name of the bound probe
func (s Slot) Name() string {
	return s.name
}

// outcome is the result of one probe call, applied to the snapshot after its stage joins
type outcome struct {
	report models.ProbeReport
	fill   func(*models.Snapshot) error
}

// run calls the probe and converts panics and errors into a failed report
func (s Slot) run(ctx context.Context, env probe.Env, stage models.Stage) (out outcome) {
	out.report = models.ProbeReport{Name: s.name, Stage: stage}
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			out.fill = nil
			out.report.Status = models.ProbeStatusFailed
			out.report.Error = (&probe.Error{Probe: s.name, Op: "collect", Err: fmt.Errorf("panic: %v", r)}).Error()
		}
		out.report.Duration = time.Since(start)
	}()

	fill, err := s.collect(ctx, env)
	switch {
	case err != nil:
		var pe *probe.Error
		if !errors.As(err, &pe) {
			err = &probe.Error{Probe: s.name, Op: "collect", Err: err}
		}
		out.report.Status = models.ProbeStatusFailed
		out.report.Error = err.Error()
	case fill == nil:
		out.report.Status = models.ProbeStatusAbsent
	default:
		out.report.Status = models.ProbeStatusPresent
		out.fill = fill
	}
	return out
}

func disabledOutcome(name string, stage models.Stage) outcome {
	return outcome{report: models.ProbeReport{Name: name, Stage: stage, Status: models.ProbeStatusDisabled}}
}
