package game

import (
	"github.com/google/uuid"
	"github.com/pixil98/go-stealth/internal/geom"
)

// Item is an interactable object guards return to where it belongs.
type Item struct {
	InstanceId string
	Id         string // level asset id
	Category   string

	StartPosition geom.Vec3

	position geom.Vec3
	holder   *Agent
}

// NewItem creates an item resting at its start position.
func NewItem(id, category string, start geom.Vec3) *Item {
	return &Item{
		InstanceId:    uuid.New().String(),
		Id:            id,
		Category:      category,
		StartPosition: start,
		position:      start,
	}
}

// Position returns where the item is. A held item is wherever its holder is.
func (i *Item) Position() geom.Vec3 {
	if i.holder != nil {
		return i.holder.Position()
	}
	return i.position
}

// Holder returns the agent carrying the item, or nil.
func (i *Item) Holder() *Agent {
	return i.holder
}

// Displacement is the distance between the item and its start position.
func (i *Item) Displacement() float64 {
	return i.Position().Dist(i.StartPosition)
}

// MarkerTag is the tag of the drop marker that returns this item home.
func (i *Item) MarkerTag() string {
	return "return-" + i.InstanceId
}

// Place moves a loose item. Held items are left alone.
func (i *Item) Place(p geom.Vec3) {
	if i.holder != nil {
		return
	}
	i.position = p
}

// ResetPosition drops the item from any holder and puts it back at its start.
func (i *Item) ResetPosition() {
	if i.holder != nil {
		i.holder.held = nil
		i.holder.setModifier(1)
		i.holder = nil
	}
	i.position = i.StartPosition
}
