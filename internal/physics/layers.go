package physics

import "fmt"

// Layer tags a collider. A collider sits on exactly one layer.
type Layer uint32

const (
	LayerDefault Layer = 1 << iota
	LayerWall
	LayerViewBlocker
)

// LayerMask selects a set of layers for a query.
type LayerMask uint32

const (
	// MaskNone matches nothing.
	MaskNone LayerMask = 0
	// MaskSight is what blocks an agent's view by default.
	MaskSight = LayerMask(LayerWall | LayerViewBlocker)
	// MaskMovement is what kinematic bodies slide against.
	MaskMovement = LayerMask(LayerWall)
	// MaskAll matches every layer.
	MaskAll = ^LayerMask(0)
)

// Contains reports whether l is selected by the mask.
func (m LayerMask) Contains(l Layer) bool {
	return m&LayerMask(l) != 0
}

func (l Layer) String() string {
	switch l {
	case LayerDefault:
		return "default"
	case LayerWall:
		return "wall"
	case LayerViewBlocker:
		return "view_blocker"
	default:
		return fmt.Sprintf("layer(%d)", uint32(l))
	}
}

func (l *Layer) UnmarshalText(text []byte) error {
	switch string(text) {
	case "default":
		*l = LayerDefault
	case "wall":
		*l = LayerWall
	case "view_blocker":
		*l = LayerViewBlocker
	default:
		return fmt.Errorf("unknown layer: %s", text)
	}
	return nil
}

func (l Layer) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// MaskOf builds a mask selecting the given layers.
func MaskOf(layers ...Layer) LayerMask {
	var m LayerMask
	for _, l := range layers {
		m |= LayerMask(l)
	}
	return m
}
