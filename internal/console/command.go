package console

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/pixil98/go-stealth/internal/geom"
	"github.com/pixil98/go-stealth/internal/possession"
)

const helpText = `Commands:
  start          start a round
  move <x> <y>   walk the possessed agent, each axis in [-1, 1]
  stop           stop walking
  hold           press the switch key
  release        release the switch key
  use            pick up or drop an item
  quit           leave the console`

// Exec applies one console line to the input buffer. It returns true when
// the session should end.
func Exec(in *possession.InputBuffer, line string) (bool, error) {
	parts := strings.Fields(strings.ToLower(line))
	if len(parts) == 0 {
		return false, nil
	}
	cmd, args := parts[0], parts[1:]

	switch cmd {
	case "start", "use":
		in.Interact()
	case "move":
		v, err := parseAxis(args)
		if err != nil {
			return false, err
		}
		in.SetMove(v)
	case "stop":
		in.SetMove(geom.Vec2{})
	case "hold":
		in.PressSwitch()
	case "release":
		in.ReleaseSwitch()
	case "help":
		return false, NewUserError(helpText)
	case "quit":
		in.SetMove(geom.Vec2{})
		in.ReleaseSwitch()
		return true, nil
	default:
		return false, NewUserError(fmt.Sprintf("Unknown command %q. Type 'help' for a list.", cmd))
	}
	return false, nil
}

func parseAxis(args []string) (geom.Vec2, error) {
	if len(args) != 2 {
		return geom.Vec2{}, NewUserError("Usage: move <x> <y>")
	}
	var axis [2]float64
	for i, s := range args {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return geom.Vec2{}, NewUserError(fmt.Sprintf("%q is not a number.", s))
		}
		axis[i] = min(max(f, -1), 1)
	}
	return geom.Vec2{X: axis[0], Y: axis[1]}, nil
}
