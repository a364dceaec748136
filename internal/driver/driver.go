package driver

import (
	"context"
	"fmt"
	"time"
)

const (
	DefaultFrameInterval = time.Second / 30
)

// Frame is the timing handed to each stage.
type Frame struct {
	Number uint64
	Now    time.Time
	Dt     time.Duration
}

// Stage is one step of a frame. Stages run in registration order.
type Stage interface {
	Step(ctx context.Context, f Frame) error
}

// StageFunc adapts a function to a Stage.
type StageFunc func(ctx context.Context, f Frame) error

func (fn StageFunc) Step(ctx context.Context, f Frame) error {
	return fn(ctx, f)
}

type FrameDriver struct {
	interval time.Duration
	stages   []Stage

	frame uint64
}

func NewFrameDriver(stages []Stage, opts ...FrameDriverOpt) *FrameDriver {
	d := &FrameDriver{
		interval: DefaultFrameInterval,
		stages:   stages,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

func (d *FrameDriver) Start(ctx context.Context) error {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			err := d.Tick(ctx, now)
			if err != nil {
				return err
			}
		}
	}
}

// Tick runs one frame. The step length is always the configured interval so
// a late tick does not make anything jump.
func (d *FrameDriver) Tick(ctx context.Context, now time.Time) error {
	d.frame++
	f := Frame{
		Number: d.frame,
		Now:    now,
		Dt:     d.interval,
	}
	for i, s := range d.stages {
		if err := s.Step(ctx, f); err != nil {
			return fmt.Errorf("frame %d stage %d: %w", f.Number, i, err)
		}
	}
	return nil
}
