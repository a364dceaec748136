package command

import (
	"fmt"
	"os"
	"time"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-stealth/internal/tuning"
)

type Config struct {
	FrameInterval string           `json:"frame_interval"`
	TuningPath    string           `json:"tuning_path,omitempty"`
	HUDTemplate   string           `json:"hud_template,omitempty"`
	Level         LevelConfig      `json:"level"`
	Listeners     []ListenerConfig `json:"listeners"`
	Nats          NatsConfig       `json:"nats"`
	Journal       JournalConfig    `json:"journal"`
}

func (c *Config) Validate() error {
	el := errors.NewErrorList()

	d, err := time.ParseDuration(c.FrameInterval)
	if err != nil {
		el.Add(fmt.Errorf("parsing frame_interval: %w", err))
	} else if d < time.Millisecond || d > time.Second {
		el.Add(fmt.Errorf("frame_interval must be between 1ms and 1s"))
	}

	if c.TuningPath != "" {
		if _, err := os.Stat(c.TuningPath); err != nil {
			el.Add(fmt.Errorf("invalid tuning_path %q: %w", c.TuningPath, err))
		}
	}

	for i, l := range c.Listeners {
		err := l.Validate()
		if err != nil {
			el.Add(fmt.Errorf("listener %d: %w", i, err))
		}
	}

	el.Add(c.Level.Validate())
	el.Add(c.Nats.Validate())
	el.Add(c.Journal.Validate())

	return el.Err()
}

func (c *Config) frameInterval() time.Duration {
	d, _ := time.ParseDuration(c.FrameInterval)
	return d
}

func (c *Config) loadTuning() (tuning.Tuning, error) {
	if c.TuningPath == "" {
		return tuning.Defaults(), nil
	}
	return tuning.Load(c.TuningPath)
}
