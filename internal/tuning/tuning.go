package tuning

import (
	"fmt"
	"os"
	"time"

	"github.com/pixil98/go-errors"
	"gopkg.in/yaml.v3"
)

// Tuning holds the gameplay numbers designers adjust between runs.
type Tuning struct {
	WaypointThreshold     float64 `yaml:"waypoint_threshold"`
	DisplacementThreshold float64 `yaml:"displacement_threshold"`

	SwitchDistance   float64       `yaml:"switch_distance"`
	MaxHoldDuration  time.Duration `yaml:"max_hold_duration"`
	InteractDistance float64       `yaml:"interact_distance"`
	CaptureRadius    float64       `yaml:"capture_radius"`

	RoundDuration time.Duration `yaml:"round_duration"`
	PreGameDelay  time.Duration `yaml:"pre_game_delay"`

	// SpeedModifiers scales the holder's move speed by item category.
	SpeedModifiers map[string]float64 `yaml:"speed_modifiers"`

	Vision Vision `yaml:"vision"`
	Nav    Nav    `yaml:"nav"`
}

// Vision is the default view cone for agents that do not override it.
type Vision struct {
	ViewAngle      float64 `yaml:"view_angle"`
	Radius         float64 `yaml:"radius"`
	RayCount       int     `yaml:"ray_count"`
	Height         float64 `yaml:"height"`
	TrackOcclusion bool    `yaml:"track_occlusion"`
}

// Nav configures the navigation grid.
type Nav struct {
	CellSize  float64 `yaml:"cell_size"`
	Clearance float64 `yaml:"clearance"`
}

// Defaults returns the stock tuning.
func Defaults() Tuning {
	return Tuning{
		WaypointThreshold:     0.5,
		DisplacementThreshold: 1,
		SwitchDistance:        2,
		MaxHoldDuration:       3 * time.Second,
		InteractDistance:      1.5,
		CaptureRadius:         1,
		RoundDuration:         3 * time.Minute,
		PreGameDelay:          2 * time.Second,
		SpeedModifiers:        map[string]float64{"heavy": 0.5},
		Vision: Vision{
			ViewAngle:      90,
			Radius:         8,
			RayCount:       24,
			Height:         1.5,
			TrackOcclusion: true,
		},
		Nav: Nav{
			CellSize:  0.5,
			Clearance: 0.3,
		},
	}
}

// Load reads a tuning file over the defaults. Keys missing from the file
// keep their default value.
func Load(path string) (Tuning, error) {
	t := Defaults()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("%s: %w", path, err)
	}
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Validate checks that every value is usable.
func (t Tuning) Validate() error {
	el := errors.NewErrorList()

	if t.WaypointThreshold <= 0 {
		el.Add(fmt.Errorf("waypoint_threshold must be positive"))
	}
	if t.DisplacementThreshold < t.WaypointThreshold {
		el.Add(fmt.Errorf("displacement_threshold must be at least waypoint_threshold"))
	}
	if t.SwitchDistance <= 0 {
		el.Add(fmt.Errorf("switch_distance must be positive"))
	}
	if t.MaxHoldDuration <= 0 {
		el.Add(fmt.Errorf("max_hold_duration must be positive"))
	}
	if t.InteractDistance <= 0 {
		el.Add(fmt.Errorf("interact_distance must be positive"))
	}
	if t.CaptureRadius <= 0 {
		el.Add(fmt.Errorf("capture_radius must be positive"))
	}
	if t.RoundDuration <= 0 {
		el.Add(fmt.Errorf("round_duration must be positive"))
	}
	if t.PreGameDelay < 0 {
		el.Add(fmt.Errorf("pre_game_delay must not be negative"))
	}
	for cat, m := range t.SpeedModifiers {
		if m <= 0 {
			el.Add(fmt.Errorf("speed_modifiers.%s must be positive", cat))
		}
	}
	if t.Nav.CellSize <= 0 {
		el.Add(fmt.Errorf("nav.cell_size must be positive"))
	}
	if t.Nav.Clearance < 0 {
		el.Add(fmt.Errorf("nav.clearance must not be negative"))
	}

	return el.Err()
}
