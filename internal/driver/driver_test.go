package driver

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pixil98/go-testutil"
)

type recordingStage struct {
	name  string
	log   *[]string
	err   error
	frame Frame
}

func (s *recordingStage) Step(_ context.Context, f Frame) error {
	*s.log = append(*s.log, s.name)
	s.frame = f
	return s.err
}

func TestFrameDriver_Tick(t *testing.T) {
	tests := map[string]struct {
		errAt  int
		expLog []string
		expErr string
	}{
		"runs in order": {
			errAt:  -1,
			expLog: []string{"physics", "vision", "brains", "round"},
		},
		"error stops the frame": {
			errAt:  1,
			expLog: []string{"physics", "vision"},
			expErr: "frame 1 stage 1: boom",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			var log []string
			var stages []Stage
			for i, n := range []string{"physics", "vision", "brains", "round"} {
				s := &recordingStage{name: n, log: &log}
				if i == tt.errAt {
					s.err = errors.New("boom")
				}
				stages = append(stages, s)
			}

			d := NewFrameDriver(stages, WithFrameInterval(50*time.Millisecond))
			now := time.Unix(100, 0)
			err := d.Tick(context.Background(), now)

			testutil.AssertErrorContains(t, err, tt.expErr)
			testutil.AssertEqual(t, "order", log, tt.expLog)
			first := stages[0].(*recordingStage)
			testutil.AssertEqual(t, "frame", first.frame, Frame{Number: 1, Now: now, Dt: 50 * time.Millisecond})
		})
	}
}

func TestFrameDriver_FrameNumbers(t *testing.T) {
	var frames []uint64
	d := NewFrameDriver([]Stage{StageFunc(func(_ context.Context, f Frame) error {
		frames = append(frames, f.Number)
		return nil
	})}, WithFrameInterval(0))

	for range 3 {
		if err := d.Tick(context.Background(), time.Now()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	testutil.AssertEqual(t, "frames", frames, []uint64{1, 2, 3})
	testutil.AssertEqual(t, "default interval kept", d.interval, DefaultFrameInterval)
}

func TestFrameDriver_Start(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ticks := 0
	d := NewFrameDriver([]Stage{StageFunc(func(context.Context, Frame) error {
		ticks++
		if ticks == 3 {
			cancel()
		}
		return nil
	})}, WithFrameInterval(time.Millisecond))

	done := make(chan error, 1)
	go func() { done <- d.Start(ctx) }()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("driver did not stop")
	}
}

func TestFrameDriver_StartStopsOnError(t *testing.T) {
	d := NewFrameDriver([]Stage{StageFunc(func(context.Context, Frame) error {
		return errors.New("stage failed")
	})}, WithFrameInterval(time.Millisecond))

	err := d.Start(context.Background())
	testutil.AssertErrorContains(t, err, "stage failed")
}
