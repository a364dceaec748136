package level

import (
	"fmt"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-stealth/internal/geom"
	"github.com/pixil98/go-stealth/internal/physics"
)

// Level is a map loaded from asset files: its walls and doors, the guards
// patrolling it, the items lying around and where items belong.
type Level struct {
	Name   string `json:"name"`
	Bounds Bounds `json:"bounds"`

	Walls     []Wall  `json:"walls,omitempty"`
	Doors     []Door  `json:"doors,omitempty"`
	Agents    []Agent `json:"agents"`
	Items     []Item  `json:"items,omitempty"`
	DropZones []Zone  `json:"drop_zones,omitempty"`
}

// Bounds is the walkable extent of the level.
type Bounds struct {
	Min geom.Vec3 `json:"min"`
	Max geom.Vec3 `json:"max"`
}

// Wall is a static box. Layer defaults to wall.
type Wall struct {
	Id    string        `json:"id"`
	Min   geom.Vec3     `json:"min"`
	Max   geom.Vec3     `json:"max"`
	Layer physics.Layer `json:"layer,omitempty"`
}

// Door is a view blocker that opens while someone stands near it.
type Door struct {
	Id      string    `json:"id"`
	Min     geom.Vec3 `json:"min"`
	Max     geom.Vec3 `json:"max"`
	Trigger geom.Vec3 `json:"trigger"`
	Radius  float64   `json:"radius"`
}

// Agent places a guard.
type Agent struct {
	Id            string      `json:"id"`
	Position      geom.Vec3   `json:"position"`
	Yaw           float64     `json:"yaw"`
	MoveSpeed     float64     `json:"move_speed"`
	RotationSpeed float64     `json:"rotation_speed"`
	Radius        float64     `json:"radius"`
	Route         []geom.Vec3 `json:"route,omitempty"`

	// Start marks the agent the player possesses when a round starts.
	Start bool `json:"start,omitempty"`

	Vision *Vision `json:"vision,omitempty"`
}

// Vision overrides the tuned view cone for one agent.
type Vision struct {
	ViewAngle      float64         `json:"view_angle"`
	Radius         float64         `json:"radius"`
	RayCount       int             `json:"ray_count"`
	Height         float64         `json:"height"`
	SightLayers    []physics.Layer `json:"sight_layers,omitempty"`
	Disabled       bool            `json:"disabled,omitempty"`
	TrackOcclusion bool            `json:"track_occlusion"`
}

// Item places an interactable item at its start position.
type Item struct {
	Id       string    `json:"id"`
	Category string    `json:"category,omitempty"`
	Position geom.Vec3 `json:"position"`
}

// Zone is a drop-off area. A zero radius uses the tuned capture radius.
type Zone struct {
	Id       string    `json:"id"`
	Position geom.Vec3 `json:"position"`
	Radius   float64   `json:"radius,omitempty"`
}

// StartAgent returns the id of the agent flagged as start, or "".
func (l *Level) StartAgent() string {
	for _, a := range l.Agents {
		if a.Start {
			return a.Id
		}
	}
	return ""
}

// Validate satisfies storage.ValidatingSpec.
func (l *Level) Validate() error {
	if l == nil {
		return fmt.Errorf("level spec is required")
	}

	el := errors.NewErrorList()

	if l.Name == "" {
		el.Add(fmt.Errorf("level name is required"))
	}
	if l.Bounds.Max.X <= l.Bounds.Min.X || l.Bounds.Max.Z <= l.Bounds.Min.Z {
		el.Add(fmt.Errorf("bounds must have a positive extent"))
	}

	ids := make(map[string]bool)
	checkId := func(kind, id string) {
		if id == "" {
			el.Add(fmt.Errorf("%s id is required", kind))
			return
		}
		if ids[id] {
			el.Add(fmt.Errorf("duplicate id %q", id))
		}
		ids[id] = true
	}

	for _, w := range l.Walls {
		checkId("wall", w.Id)
		if !w.Min.IsFinite() || !w.Max.IsFinite() {
			el.Add(fmt.Errorf("wall %s: corners must be finite", w.Id))
		}
	}
	for _, d := range l.Doors {
		checkId("door", d.Id)
		if d.Radius <= 0 {
			el.Add(fmt.Errorf("door %s: radius must be positive", d.Id))
		}
	}

	starts := 0
	for _, a := range l.Agents {
		checkId("agent", a.Id)
		if a.MoveSpeed <= 0 {
			el.Add(fmt.Errorf("agent %s: move_speed must be positive", a.Id))
		}
		if a.RotationSpeed < 0 {
			el.Add(fmt.Errorf("agent %s: rotation_speed must not be negative", a.Id))
		}
		if a.Radius < 0 {
			el.Add(fmt.Errorf("agent %s: radius must not be negative", a.Id))
		}
		if a.Start {
			starts++
		}
	}
	if len(l.Agents) == 0 {
		el.Add(fmt.Errorf("at least one agent is required"))
	}
	if starts > 1 {
		el.Add(fmt.Errorf("only one agent may be flagged start, got %d", starts))
	}

	for _, i := range l.Items {
		checkId("item", i.Id)
	}
	for _, z := range l.DropZones {
		checkId("drop zone", z.Id)
		if z.Radius < 0 {
			el.Add(fmt.Errorf("drop zone %s: radius must not be negative", z.Id))
		}
	}

	return el.Err()
}
