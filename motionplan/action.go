// Package motionplan converts user-drawn field paths into canonical
// rotate/move command sequences and keeps a multi-section path consistent as
// it is edited. All functions are pure: they take value inputs and return new
// values, never mutating shared state.
package motionplan

import (
	"math"

	"go.viam.com/fieldpath/spatialmath"
)

// Tolerances defining "equal" for path geometry. Distances are in field
// pixels, angles in degrees.
const (
	distEpsilonPx   = 1e-3
	angEpsilonDeg   = 1e-3
	anchorEpsilonPx = 1e-6
)

// ActionKind discriminates the two canonical motion commands.
type ActionKind string

const (
	// ActionRotate turns the robot in place by a signed angle.
	ActionRotate = ActionKind("rotate")
	// ActionMove drives the robot a signed distance along its heading.
	ActionMove = ActionKind("move")
)

// Action is one canonical, replayable motion command. Rotate actions carry a
// signed angle in degrees; move actions carry a signed distance in physical
// field units, negative for reverse travel.
type Action struct {
	Kind     ActionKind                 `json:"kind"`
	AngleDeg float64                    `json:"angleDeg,omitempty"`
	Distance float64                    `json:"distance,omitempty"`
	Frame    spatialmath.ReferenceFrame `json:"referenceFrame,omitempty"`
}

// NewRotate instantiates a rotate Action.
func NewRotate(angleDeg float64) Action {
	return Action{Kind: ActionRotate, AngleDeg: angleDeg}
}

// NewMove instantiates a move Action.
func NewMove(distance float64, frame spatialmath.ReferenceFrame) Action {
	return Action{Kind: ActionMove, Distance: distance, Frame: frame}
}

// Reversed returns a new action list that retraces the given one: reverse
// order, every rotate angle negated and every move distance negated, so
// forward travel becomes reverse travel and vice versa. Entries whose
// magnitude is below the builder's degenerate-skip epsilon are dropped; move
// distances are converted through scale so the comparison happens in pixels,
// the space the epsilon is defined in.
func Reversed(actions []Action, scale Scale) []Action {
	reversed := make([]Action, 0, len(actions))
	for i := len(actions) - 1; i >= 0; i-- {
		a := actions[i]
		switch a.Kind {
		case ActionRotate:
			if math.Abs(a.AngleDeg) <= angEpsilonDeg {
				continue
			}
			a.AngleDeg = -a.AngleDeg
		case ActionMove:
			if math.Abs(scale.ToPx(a.Distance)) <= distEpsilonPx {
				continue
			}
			a.Distance = -a.Distance
		}
		reversed = append(reversed, a)
	}
	return reversed
}

// Scale is a bidirectional conversion between on-screen pixels and physical
// field units (e.g. inches). A zero PxPerUnit never faults: conversions with
// a zero denominator resolve to 0.
type Scale struct {
	PxPerUnit float64 `json:"pxPerUnit" yaml:"px_per_unit"`
}

// ToUnits converts a pixel distance to physical units.
func (s Scale) ToUnits(px float64) float64 {
	if s.PxPerUnit == 0 {
		return 0
	}
	return px / s.PxPerUnit
}

// ToPx converts a physical distance to pixels.
func (s Scale) ToPx(units float64) float64 {
	return units * s.PxPerUnit
}
