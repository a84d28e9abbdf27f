package motionplan

import (
	"github.com/golang/geo/r2"
	"github.com/google/uuid"

	"go.viam.com/fieldpath/spatialmath"
)

// Waypoint is a user-authored path point. Point is authoritative and is never
// silently mutated by recalculation; Heading is a cache (radians) that
// recalculation is allowed to overwrite, nil when the point's displacement
// collapsed below epsilon.
type Waypoint struct {
	Point   r2.Point                   `json:"point"`
	Reverse bool                       `json:"reverse"`
	Frame   spatialmath.ReferenceFrame `json:"referenceFrame"`
	Heading *float64                   `json:"heading,omitempty"`
}

// NewWaypoint instantiates a center-frame forward waypoint at (x, y).
func NewWaypoint(x, y float64) Waypoint {
	return Waypoint{Point: r2.Point{X: x, Y: y}, Frame: spatialmath.FrameCenter}
}

// Section is an ordered group of waypoints forming one subsegment of the
// path, with its own color and visibility. Sections compose sequentially: the
// end pose of section i is the start pose of section i+1. Actions is always
// exactly the output of BuildActions applied to Waypoints and the section's
// start pose; Recalculate maintains that invariant after every edit.
type Section struct {
	ID           string     `json:"id"`
	Waypoints    []Waypoint `json:"waypoints"`
	Actions      []Action   `json:"actions,omitempty"`
	Color        string     `json:"color"`
	Visible      bool       `json:"visible"`
	StartHeading float64    `json:"startHeading"`
	EndHeading   float64    `json:"endHeading"`
}

// NewSection instantiates an empty visible section with a fresh id.
func NewSection(color string) *Section {
	return &Section{ID: uuid.New().String(), Color: color, Visible: true}
}

// clone returns a deep copy so edits never alias the caller's slices.
func (s *Section) clone() *Section {
	next := *s
	next.Waypoints = append([]Waypoint(nil), s.Waypoints...)
	next.Actions = append([]Action(nil), s.Actions...)
	return &next
}

// cloneSections deep-copies a section list.
func cloneSections(sections []*Section) []*Section {
	out := make([]*Section, len(sections))
	for i, s := range sections {
		out[i] = s.clone()
	}
	return out
}
