package motionplan

import (
	"github.com/golang/geo/r2"

	"go.viam.com/fieldpath/spatialmath"
	"go.viam.com/fieldpath/utils"
)

// PathSegment is one straight renderable piece of the path. Any presentation
// layer (canvas, SVG, terminal) can consume these without the planner
// depending on a rendering technology.
type PathSegment struct {
	Start     r2.Point `json:"start"`
	End       r2.Point `json:"end"`
	Color     string   `json:"color"`
	SectionID string   `json:"sectionId"`
	Reverse   bool     `json:"isReverse"`
}

// FlattenSegments replays every visible section's actions from the global
// initial pose and emits one segment per move action, tagged with the
// section's color and id.
func FlattenSegments(sections []*Section, initialPose spatialmath.Pose, scale Scale) []PathSegment {
	var segments []PathSegment
	pose := initialPose
	for _, sec := range sections {
		for _, a := range sec.Actions {
			switch a.Kind {
			case ActionRotate:
				pose.Heading = spatialmath.NormalizeAngle(pose.Heading + utils.DegToRad(a.AngleDeg))
			case ActionMove:
				start := pose.Point
				pose.Point = pose.Point.Add(spatialmath.HeadingVector(pose.Heading).Mul(scale.ToPx(a.Distance)))
				if sec.Visible {
					segments = append(segments, PathSegment{
						Start:     start,
						End:       pose.Point,
						Color:     sec.Color,
						SectionID: sec.ID,
						Reverse:   a.Distance < 0,
					})
				}
			}
		}
	}
	return segments
}
