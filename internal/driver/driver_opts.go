package driver

import "time"

type FrameDriverOpt func(*FrameDriver)

func WithFrameInterval(interval time.Duration) FrameDriverOpt {
	return func(d *FrameDriver) {
		if interval > 0 {
			d.interval = interval
		}
	}
}
