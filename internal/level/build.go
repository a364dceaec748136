package level

import (
	"fmt"

	"github.com/pixil98/go-stealth/internal/game"
	"github.com/pixil98/go-stealth/internal/physics"
	"github.com/pixil98/go-stealth/internal/tuning"
	"github.com/pixil98/go-stealth/internal/vision"
)

// Build registers the level's contents: colliders and bodies into space,
// agents, items and drop zones into the world, and a sensor for every agent.
func (l *Level) Build(tu tuning.Tuning, w *game.WorldState, space *physics.Space, sensors *vision.System) error {
	for _, wall := range l.Walls {
		layer := wall.Layer
		if layer == 0 {
			layer = physics.LayerWall
		}
		space.AddCollider(&physics.Collider{ID: wall.Id, Min: wall.Min, Max: wall.Max, Layer: layer})
	}
	for _, d := range l.Doors {
		blocker := &physics.Collider{ID: d.Id, Min: d.Min, Max: d.Max, Layer: physics.LayerViewBlocker}
		space.AddDoor(physics.NewDoor(blocker, d.Trigger, d.Radius))
	}
	space.SetNavGrid(physics.NewNavGrid(space, l.Bounds.Min, l.Bounds.Max, tu.Nav.CellSize, tu.Nav.Clearance))

	brainCfg := game.BrainConfig{
		WaypointThreshold:     tu.WaypointThreshold,
		DisplacementThreshold: tu.DisplacementThreshold,
	}
	for _, spec := range l.Agents {
		a := game.NewAgent(spec.Id, spec.Position, spec.Yaw, spec.MoveSpeed, spec.RotationSpeed, spec.Radius)
		a.Route = spec.Route
		a.Brain = game.NewBrain(spec.Route, brainCfg)

		if err := w.AddAgent(a); err != nil {
			return fmt.Errorf("agent %s: %w", spec.Id, err)
		}
		if err := space.AddBody(a.Body); err != nil {
			return fmt.Errorf("agent %s: %w", spec.Id, err)
		}
		if _, err := sensors.Attach(a, visionConfig(tu, spec.Vision)); err != nil {
			return err
		}
	}

	for _, spec := range l.Items {
		if err := w.AddItem(game.NewItem(spec.Id, spec.Category, spec.Position)); err != nil {
			return fmt.Errorf("item %s: %w", spec.Id, err)
		}
	}
	for _, z := range l.DropZones {
		r := z.Radius
		if r == 0 {
			r = tu.CaptureRadius
		}
		w.AddDropZone(game.DropZone{Id: z.Id, Position: z.Position, Radius: r})
	}
	return nil
}

func visionConfig(tu tuning.Tuning, v *Vision) vision.Config {
	if v == nil {
		return vision.Config{
			ViewAngle:      tu.Vision.ViewAngle,
			Radius:         tu.Vision.Radius,
			RayCount:       tu.Vision.RayCount,
			Height:         tu.Vision.Height,
			Mask:           physics.MaskSight,
			Enabled:        true,
			TrackOcclusion: tu.Vision.TrackOcclusion,
		}
	}

	mask := physics.MaskSight
	if len(v.SightLayers) > 0 {
		mask = physics.MaskOf(v.SightLayers...)
	}
	return vision.Config{
		ViewAngle:      v.ViewAngle,
		Radius:         v.Radius,
		RayCount:       v.RayCount,
		Height:         v.Height,
		Mask:           mask,
		Enabled:        !v.Disabled,
		TrackOcclusion: v.TrackOcclusion,
	}
}
