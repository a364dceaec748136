package console

import (
	"encoding/json"
	"fmt"

	"github.com/pixil98/go-stealth/internal/display"
	"github.com/pixil98/go-stealth/internal/messaging"
)

// Describe turns a bus message into a line for the console. Subjects the
// console does not show return false.
func Describe(subject string, data []byte) (string, bool) {
	switch subject {
	case messaging.SubjectIntruder:
		var ev messaging.IntruderEvent
		if json.Unmarshal(data, &ev) != nil {
			return "", false
		}
		if ev.Item != "" {
			return fmt.Sprintf("%s was caught carrying the %s!", display.Capitalize(ev.Agent), ev.Item), true
		}
		return fmt.Sprintf("%s was caught!", display.Capitalize(ev.Agent)), true

	case messaging.SubjectDropped:
		var ev messaging.DroppedEvent
		if json.Unmarshal(data, &ev) != nil {
			return "", false
		}
		return fmt.Sprintf("%s returned.", display.Capitalize(ev.Item)), true

	case messaging.SubjectPossession:
		var ev messaging.PossessionEvent
		if json.Unmarshal(data, &ev) != nil || ev.To == "" {
			return "", false
		}
		return fmt.Sprintf("You are now %s.", ev.To), true

	case messaging.SubjectRound:
		var ev messaging.RoundEvent
		if json.Unmarshal(data, &ev) != nil {
			return "", false
		}
		if ev.State == "running" {
			return fmt.Sprintf("Round started, %.0f seconds on the clock.", ev.Remaining.Seconds()), true
		}
		switch ev.Reason {
		case "":
			return "", false
		case "intruder":
			return fmt.Sprintf("Round over, you were spotted. %d returned.", ev.Returned), true
		default:
			return fmt.Sprintf("Round over, time is up. %d returned.", ev.Returned), true
		}

	case messaging.SubjectHUD:
		var ev messaging.HUDEvent
		if json.Unmarshal(data, &ev) != nil || ev.Text == "" {
			return "", false
		}
		return ev.Text, true
	}
	return "", false
}
