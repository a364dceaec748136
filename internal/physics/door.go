package physics

import "github.com/pixil98/go-stealth/internal/geom"

// Door is a view blocker that stops blocking sight while any body stands in
// its trigger sphere.
type Door struct {
	Blocker *Collider
	Trigger geom.Vec3
	Radius  float64

	closedLayer Layer
	open        bool
}

// NewDoor wraps blocker as a door. The blocker's current layer is the layer
// it returns to when the door closes.
func NewDoor(blocker *Collider, trigger geom.Vec3, radius float64) *Door {
	return &Door{
		Blocker:     blocker,
		Trigger:     trigger,
		Radius:      radius,
		closedLayer: blocker.Layer,
	}
}

// Open reports whether the door is currently open.
func (d *Door) Open() bool {
	return d.open
}

func (d *Door) update(w World) {
	d.open = len(w.OverlapSphere(d.Trigger, d.Radius)) > 0
	if d.open {
		d.Blocker.Layer = LayerDefault
	} else {
		d.Blocker.Layer = d.closedLayer
	}
}
