package vision

import (
	"context"
	"fmt"

	"github.com/pixil98/go-stealth/internal/game"
	"github.com/pixil98/go-stealth/internal/physics"
)

// System holds every agent's sensor and runs them once per frame.
type System struct {
	world   physics.World
	sensors []*Sensor
	byAgent map[*game.Agent]*Sensor
}

// NewSystem creates an empty sensor system over world.
func NewSystem(world physics.World) *System {
	return &System{
		world:   world,
		byAgent: make(map[*game.Agent]*Sensor),
	}
}

// Attach gives agent a sensor with cfg, replacing any previous one.
func (s *System) Attach(a *game.Agent, cfg Config) (*Sensor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("vision for agent %q: %w", a.Id, err)
	}

	sn := NewSensor(a, s.world, cfg)
	if old, ok := s.byAgent[a]; ok {
		for i, o := range s.sensors {
			if o == old {
				s.sensors[i] = sn
			}
		}
	} else {
		s.sensors = append(s.sensors, sn)
	}
	s.byAgent[a] = sn
	return sn, nil
}

// Sensor returns the agent's sensor or nil.
func (s *System) Sensor(a *game.Agent) *Sensor {
	return s.byAgent[a]
}

// Sensors returns every sensor in attach order.
func (s *System) Sensors() []*Sensor {
	return s.sensors
}

// Step refreshes every boundary and then runs detection for every sensor.
func (s *System) Step(ctx context.Context, w *game.WorldState, obs Observer) {
	for _, sn := range s.sensors {
		sn.Update()
		sn.Detect(ctx, w, obs)
	}
}
