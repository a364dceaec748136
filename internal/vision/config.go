package vision

import (
	"fmt"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-stealth/internal/physics"
)

// Config describes an agent's view cone.
type Config struct {
	// ViewAngle is the full opening of the cone in degrees.
	ViewAngle float64 `json:"view_angle"`
	Radius    float64 `json:"radius"`
	RayCount  int     `json:"ray_count"`

	// Height lifts the eye above the agent's position.
	Height float64 `json:"height"`

	Mask physics.LayerMask `json:"-"`

	Enabled        bool `json:"enabled"`
	TrackOcclusion bool `json:"track_occlusion"`
}

// DefaultConfig returns a forward-facing cone that is blocked by walls and
// view blockers.
func DefaultConfig() Config {
	return Config{
		ViewAngle:      90,
		Radius:         8,
		RayCount:       24,
		Height:         1.5,
		Mask:           physics.MaskSight,
		Enabled:        true,
		TrackOcclusion: true,
	}
}

// HalfAngle is half the view angle.
func (c Config) HalfAngle() float64 {
	return c.ViewAngle / 2
}

// Validate checks the cone parameters.
func (c Config) Validate() error {
	el := errors.NewErrorList()

	if c.ViewAngle < 0 || c.ViewAngle > 360 {
		el.Add(fmt.Errorf("view_angle must be within [0, 360], got %g", c.ViewAngle))
	}
	if c.Radius < 0 {
		el.Add(fmt.Errorf("radius must not be negative, got %g", c.Radius))
	}
	if c.RayCount < 2 {
		el.Add(fmt.Errorf("ray_count must be at least 2, got %d", c.RayCount))
	}

	return el.Err()
}
