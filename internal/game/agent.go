package game

import (
	"github.com/google/uuid"
	"github.com/pixil98/go-stealth/internal/geom"
	"github.com/pixil98/go-stealth/internal/physics"
)

// Agent is a guard in the world. It is either driven by its Brain or, while
// possessed, by player input.
type Agent struct {
	InstanceId string
	Id         string // level asset id
	Name       string

	Body *physics.Body

	MoveSpeed     float64
	RotationSpeed float64

	StartPosition geom.Vec3
	StartYaw      float64

	Route []geom.Vec3
	Brain *Brain

	possessed bool
	held      *Item
	removed   bool
	modifier  float64
}

// NewAgent creates an agent standing at pos facing yaw. Its body is not yet
// registered with any physical world.
func NewAgent(id string, pos geom.Vec3, yaw, moveSpeed, rotationSpeed, radius float64) *Agent {
	a := &Agent{
		InstanceId:    uuid.New().String(),
		Id:            id,
		Name:          id,
		MoveSpeed:     moveSpeed,
		RotationSpeed: rotationSpeed,
		StartPosition: pos,
		StartYaw:      yaw,
		modifier:      1,
	}
	a.Body = &physics.Body{
		ID:       physics.BodyID(id),
		Position: pos,
		Yaw:      yaw,
		Radius:   radius,
		Speed:    moveSpeed,
		TurnRate: rotationSpeed,
	}
	return a
}

// Position returns the agent's current position.
func (a *Agent) Position() geom.Vec3 {
	return a.Body.Position
}

// Forward returns the agent's facing direction on the horizontal plane.
func (a *Agent) Forward() geom.Vec3 {
	return a.Body.Forward()
}

// Possessed reports whether the player currently controls the agent.
func (a *Agent) Possessed() bool {
	return a.possessed
}

// SetPossessed flips the possession flag. Leaving possession stops the agent
// so its brain resumes from rest.
func (a *Agent) SetPossessed(p bool) {
	if a.possessed && !p {
		a.Body.Stop()
	}
	a.possessed = p
}

// Held returns the item the agent carries, or nil.
func (a *Agent) Held() *Item {
	return a.held
}

// Removed reports whether the agent has been deregistered from the world.
func (a *Agent) Removed() bool {
	return a.removed
}

// Speed returns the agent's current move speed, including any carry penalty.
func (a *Agent) Speed() float64 {
	return a.MoveSpeed * a.modifier
}

func (a *Agent) setModifier(m float64) {
	if m <= 0 {
		m = 1
	}
	a.modifier = m
	a.Body.Speed = a.Speed()
}

// ResetPose puts the agent back at its start pose, at rest, with nothing held.
func (a *Agent) ResetPose() {
	a.Body.Position = a.StartPosition
	a.Body.Yaw = a.StartYaw
	a.Body.Stop()
	a.held = nil
	a.possessed = false
	a.setModifier(1)
}
