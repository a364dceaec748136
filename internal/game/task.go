package game

import (
	"fmt"

	"github.com/pixil98/go-stealth/internal/geom"
)

// TaskKind is the action performed when an agent arrives at a task target.
type TaskKind int

const (
	TaskNone TaskKind = iota
	TaskPickUp
	TaskDrop
)

func (k TaskKind) String() string {
	switch k {
	case TaskNone:
		return "none"
	case TaskPickUp:
		return "pickup"
	case TaskDrop:
		return "drop"
	default:
		return fmt.Sprintf("TaskKind(%d)", int(k))
	}
}

// Marker is a lightweight target owned by the task that holds it.
type Marker struct {
	Position geom.Vec3
	Tag      string
}

// Task is one (target, action) entry of a brain's queue.
type Task struct {
	Kind TaskKind

	// Item is the live pickup target of a TaskPickUp.
	Item *Item

	// Marker is the target of a TaskDrop or a patrol waypoint.
	Marker Marker

	// Waypoint is the route index of a patrol task, -1 for anything else.
	Waypoint int
}

// PatrolTask targets route point idx.
func PatrolTask(idx int, p geom.Vec3) Task {
	return Task{Kind: TaskNone, Marker: Marker{Position: p}, Waypoint: idx}
}

// PickUpTask targets a live item.
func PickUpTask(item *Item) Task {
	return Task{Kind: TaskPickUp, Item: item, Waypoint: -1}
}

// DropTask targets the position where item belongs.
func DropTask(item *Item) Task {
	return Task{
		Kind:     TaskDrop,
		Marker:   Marker{Position: item.StartPosition, Tag: item.MarkerTag()},
		Waypoint: -1,
	}
}

// Target is the position the agent walks to for this task.
func (t Task) Target() geom.Vec3 {
	if t.Kind == TaskPickUp && t.Item != nil {
		return t.Item.Position()
	}
	return t.Marker.Position
}

// IsPatrol reports whether the task is a route waypoint.
func (t Task) IsPatrol() bool {
	return t.Kind == TaskNone && t.Waypoint >= 0
}

// tag is the dedup key shared by a pickup and its drop.
func (t Task) tag() string {
	switch t.Kind {
	case TaskPickUp:
		if t.Item != nil {
			return t.Item.MarkerTag()
		}
	case TaskDrop:
		return t.Marker.Tag
	}
	return ""
}

func (t Task) String() string {
	p := t.Target()
	return fmt.Sprintf("%s@(%.2f,%.2f,%.2f)", t.Kind, p.X, p.Y, p.Z)
}
