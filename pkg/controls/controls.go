// Package controls maps named camera actions to camera mutations. The desktop viewer
// binds them to keys and the web stream receives them as JSON commands.
package controls

import (
	"fmt"
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/geometry"
)

// Action is a named camera movement
type Action int

const (
	MoveForward Action = iota
	MoveBack
	MoveLeft
	MoveRight
	MoveUp
	MoveDown
	PitchUp
	PitchDown
	YawLeft
	YawRight
	RollLeft
	RollRight
	ZoomIn  // Narrows the field of view
	ZoomOut // Widens the field of view
)

var actionNames = map[Action]string{
	MoveForward: "forward",
	MoveBack:    "back",
	MoveLeft:    "left",
	MoveRight:   "right",
	MoveUp:      "up",
	MoveDown:    "down",
	PitchUp:     "pitch-",
	PitchDown:   "pitch+",
	YawLeft:     "yaw-",
	YawRight:    "yaw+",
	RollLeft:    "roll+",
	RollRight:   "roll-",
	ZoomIn:      "fov-",
	ZoomOut:     "fov+",
}

// String returns the wire name of the action
func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// ParseAction resolves a wire name such as "yaw+" or "forward"
func ParseAction(name string) (Action, error) {
	for action, n := range actionNames {
		if n == name {
			return action, nil
		}
	}
	return 0, fmt.Errorf("unknown camera action %q", name)
}

// Actions returns every action in declaration order
func Actions() []Action {
	actions := make([]Action, 0, len(actionNames))
	for a := MoveForward; a <= ZoomOut; a++ {
		actions = append(actions, a)
	}
	return actions
}

// Step is the magnitude of one action: Distance in world units, Angle in radians
type Step struct {
	Distance float64
	Angle    float64
}

// DefaultStep matches one frame of held-key movement at 60 fps
func DefaultStep() Step {
	return Step{Distance: 0.05, Angle: math.Pi / 180}
}

// Scale returns the step multiplied by amount, e.g. elapsed frames or a client-supplied repeat
func (s Step) Scale(amount float64) Step {
	return Step{Distance: s.Distance * amount, Angle: s.Angle * amount}
}

// Limits on the field of view reachable by zooming
const (
	MinVFov = math.Pi / 36      // 5 degrees
	MaxVFov = math.Pi * 17 / 18 // 170 degrees
)

// Apply mutates the camera by one step of action. Call it only between frames.
func Apply(cam *geometry.Camera, action Action, step Step) error {
	switch action {
	case MoveForward:
		cam.ShiftLongitudinal(step.Distance)
	case MoveBack:
		cam.ShiftLongitudinal(-step.Distance)
	case MoveLeft:
		cam.ShiftLateral(-step.Distance)
	case MoveRight:
		cam.ShiftLateral(step.Distance)
	case MoveUp:
		cam.ShiftVertical(step.Distance)
	case MoveDown:
		cam.ShiftVertical(-step.Distance)
	case PitchUp:
		cam.RotatePitch(-step.Angle)
	case PitchDown:
		cam.RotatePitch(step.Angle)
	case YawLeft:
		cam.RotateYaw(-step.Angle)
	case YawRight:
		cam.RotateYaw(step.Angle)
	case RollLeft:
		cam.RotateRoll(step.Angle)
	case RollRight:
		cam.RotateRoll(-step.Angle)
	case ZoomIn:
		return cam.SetVFov(max(MinVFov, cam.VFov()-step.Angle))
	case ZoomOut:
		return cam.SetVFov(min(MaxVFov, cam.VFov()+step.Angle))
	default:
		return fmt.Errorf("unknown camera action %v", action)
	}
	return nil
}
