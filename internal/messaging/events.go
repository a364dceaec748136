package messaging

import (
	"time"

	"github.com/pixil98/go-stealth/internal/geom"
)

const (
	SubjectAll        = "stealth.>"
	SubjectIntruder   = "stealth.intruder"
	SubjectDropped    = "stealth.dropped"
	SubjectPossession = "stealth.possession"
	SubjectCamera     = "stealth.camera"
	SubjectRound      = "stealth.round"
	SubjectHUD        = "stealth.hud"
)

// IntruderEvent is published when a possessed agent is seen carrying an item.
type IntruderEvent struct {
	Agent    string    `json:"agent"`
	Item     string    `json:"item,omitempty"`
	Position geom.Vec3 `json:"position"`
}

// DroppedEvent is published when an item is dropped inside a drop zone.
type DroppedEvent struct {
	Item     string    `json:"item"`
	Category string    `json:"category,omitempty"`
	Position geom.Vec3 `json:"position"`
}

// PossessionEvent is published when the possessed agent changes.
type PossessionEvent struct {
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
}

// CameraEvent tells viewers which agent to follow.
type CameraEvent struct {
	Agent    string    `json:"agent"`
	Position geom.Vec3 `json:"position"`
}

// RoundEvent is published on every round transition.
type RoundEvent struct {
	State     string        `json:"state"`
	Reason    string        `json:"reason,omitempty"`
	Remaining time.Duration `json:"remaining_ns"`
	Returned  int           `json:"returned"`
}

// HUDEvent carries prompt text for the player.
type HUDEvent struct {
	Text string `json:"text"`
}
