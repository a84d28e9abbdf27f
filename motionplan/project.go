package motionplan

import (
	"math"

	"github.com/golang/geo/r2"

	"go.viam.com/fieldpath/spatialmath"
)

// The fixed travel axes available when 45° snapping is on, in degrees.
var snapBaseAnglesDeg = []float64{0, 45, 90, 135, 180, 225, 270, 315}

// Projection is the result of projecting a raw cursor point into a candidate
// waypoint: the wheel-axis center the robot would travel to, the heading it
// would arrive with, and the travel distance in pixels. ReferencePoint is
// where the target appears in the selected reference frame (the robot tip
// when frame is "tip"); it is display-only and never fed back into the path.
type Projection struct {
	Point          r2.Point
	Heading        float64
	DistancePx     float64
	ReferencePoint r2.Point
}

// ProjectWithReference computes the wheel-center point and heading that
// committing a raw cursor/target point would produce, given the current
// anchor pose. The travel vector is always measured from the wheel-axis
// center; the reference frame only affects where the projected target is
// reported for display, never the underlying kinematic vector.
//
// With snap45 set, the travel direction is snapped to the nearest of the
// fixed 45°-spaced base axes by choosing the candidate minimizing
// perpendicular projection error; the travel distance becomes the signed
// projection onto that axis. A raw point within epsilon of the anchor
// returns a zero-distance projection with heading anchor.Heading, plus π
// when reverse is set.
func ProjectWithReference(
	raw r2.Point,
	anchor spatialmath.Pose,
	frame spatialmath.ReferenceFrame,
	reverse bool,
	offsetPx float64,
	snap45 bool,
) Projection {
	travel := raw.Sub(anchor.Point)
	if travel.Norm() < anchorEpsilonPx {
		heading := anchor.Heading
		if reverse {
			heading = spatialmath.NormalizeAngle(heading + math.Pi)
		}
		at := spatialmath.Pose{Point: anchor.Point, Heading: heading}
		return Projection{
			Point:          anchor.Point,
			Heading:        heading,
			ReferencePoint: spatialmath.ReferencePoint(at, frame, offsetPx),
		}
	}

	if snap45 {
		travel = snapToBaseAngle(travel)
	}

	heading := math.Atan2(travel.Y, travel.X)
	if reverse {
		heading = spatialmath.NormalizeAngle(heading + math.Pi)
	}
	target := anchor.Point.Add(travel)
	at := spatialmath.Pose{Point: target, Heading: heading}
	return Projection{
		Point:          target,
		Heading:        heading,
		DistancePx:     travel.Norm(),
		ReferencePoint: spatialmath.ReferencePoint(at, frame, offsetPx),
	}
}

// snapToBaseAngle replaces the travel vector with its signed projection onto
// whichever base axis leaves the least perpendicular error.
func snapToBaseAngle(travel r2.Point) r2.Point {
	best := travel
	bestErr := math.Inf(1)
	for _, deg := range snapBaseAnglesDeg {
		axis := spatialmath.HeadingVector(deg * math.Pi / 180)
		signed := travel.Dot(axis)
		if signed < 0 {
			// the opposite axis covers this direction with a positive projection
			continue
		}
		projected := axis.Mul(signed)
		if err := travel.Sub(projected).Norm(); err < bestErr {
			bestErr = err
			best = projected
		}
	}
	return best
}
