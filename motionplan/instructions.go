package motionplan

import (
	"fmt"
	"math"
)

// Instruction is a human-readable rendering of one action: a signed TURN
// angle in degrees, or a MOVE distance in physical units with a direction
// label.
type Instruction struct {
	Kind    ActionKind `json:"kind"`
	Value   float64    `json:"value"`
	Reverse bool       `json:"reverse,omitempty"`
}

// String formats the instruction the way it is shown to operators.
func (i Instruction) String() string {
	if i.Kind == ActionRotate {
		return fmt.Sprintf("TURN %+.1f°", i.Value)
	}
	direction := "forward"
	if i.Reverse {
		direction = "reverse"
	}
	return fmt.Sprintf("MOVE %.1f %s", i.Value, direction)
}

// InstructionsFromActions renders an action list into instructions. Move
// values are magnitudes; direction is carried by the Reverse label.
func InstructionsFromActions(actions []Action) []Instruction {
	out := make([]Instruction, 0, len(actions))
	for _, a := range actions {
		switch a.Kind {
		case ActionRotate:
			out = append(out, Instruction{Kind: ActionRotate, Value: a.AngleDeg})
		case ActionMove:
			out = append(out, Instruction{Kind: ActionMove, Value: math.Abs(a.Distance), Reverse: a.Distance < 0})
		}
	}
	return out
}

// Instructions renders every section's actions in path order.
func Instructions(sections []*Section) []Instruction {
	var out []Instruction
	for _, sec := range sections {
		out = append(out, InstructionsFromActions(sec.Actions)...)
	}
	return out
}

// FlattenActions concatenates every section's actions into the single ordered
// list the playback simulator consumes.
func FlattenActions(sections []*Section) []Action {
	var out []Action
	for _, sec := range sections {
		out = append(out, sec.Actions...)
	}
	return out
}
