// Package collision provides the pure geometric predicates used to veto
// candidate path edits: segment vs obstacle tests, a finite-width "thick
// path" sweep for straight-line travel, and a bounding-circle sweep for
// in-place rotation. Every function here is a synchronous predicate over
// immutable inputs; they are queried on every interactive cursor move before
// a candidate waypoint is committed.
package collision

import (
	"math"

	"github.com/golang/geo/r2"

	"go.viam.com/fieldpath/spatialmath"
)

// Near-parallel segment pairs are treated as non-intersecting below this
// determinant magnitude.
const denomEpsilon = 1e-9

// PointInRect reports whether a point lies inside a rotated rectangle,
// boundary included.
func PointInRect(pt r2.Point, rect spatialmath.Rect) bool {
	return rect.ContainsPoint(pt)
}

// segmentsIntersect solves the two-line parametric system for segments
// [p1,p2] and [p3,p4] and reports whether they cross with both parameters in
// [0, 1].
func segmentsIntersect(p1, p2, p3, p4 r2.Point) bool {
	d1 := p2.Sub(p1)
	d2 := p4.Sub(p3)
	denom := d1.X*d2.Y - d1.Y*d2.X
	if math.Abs(denom) < denomEpsilon {
		return false
	}
	d3 := p3.Sub(p1)
	t := (d3.X*d2.Y - d3.Y*d2.X) / denom
	u := (d3.X*d1.Y - d3.Y*d1.X) / denom
	return t >= 0 && t <= 1 && u >= 0 && u <= 1
}

// SegmentIntersectsRect tests a segment against each of the rectangle's four
// oriented edges.
func SegmentIntersectsRect(p1, p2 r2.Point, rect spatialmath.Rect) bool {
	corners := rect.Corners()
	for i := range corners {
		if segmentsIntersect(p1, p2, corners[i], corners[(i+1)%4]) {
			return true
		}
	}
	return false
}

// SegmentHitsObstacles reports whether the segment from p1 to p2 conflicts
// with any obstacle: either endpoint inside a padding-inflated obstacle, or
// the segment crossing an inflated obstacle's boundary.
func SegmentHitsObstacles(p1, p2 r2.Point, obstacles []spatialmath.Rect, padding float64) bool {
	for _, obstacle := range obstacles {
		inflated := obstacle.Inflated(padding)
		if inflated.ContainsPoint(p1) || inflated.ContainsPoint(p2) {
			return true
		}
		if SegmentIntersectsRect(p1, p2, inflated) {
			return true
		}
	}
	return false
}

// ThickPathCollision models a finite-width rigid body translating in a
// straight line from p1 to p2: the centerline plus two offsets of halfwidth
// along the segment's unit normal are each checked against the obstacles.
// This approximates the full rectangle sweep with acceptable fidelity for
// straight travel; it does not model the area swept while rotating.
func ThickPathCollision(p1, p2 r2.Point, robotWidth float64, obstacles []spatialmath.Rect, padding float64) bool {
	if SegmentHitsObstacles(p1, p2, obstacles, padding) {
		return true
	}
	d := p2.Sub(p1)
	length := d.Norm()
	if length < denomEpsilon {
		return false
	}
	normal := d.Ortho().Mul(1 / length)
	half := robotWidth / 2
	for _, offset := range []r2.Point{normal.Mul(half), normal.Mul(-half)} {
		if SegmentHitsObstacles(p1.Add(offset), p2.Add(offset), obstacles, padding) {
			return true
		}
	}
	return false
}

// RotationSweepCollision models the robot rotating in place at the given
// point: the robot footprint is bounded by the circle of radius
// hypot(width/2, length/2), and any padded obstacle closer than that radius
// collides.
func RotationSweepCollision(pt r2.Point, obstacles []spatialmath.Rect, robotWidth, robotLength, padding float64) bool {
	radius := math.Hypot(robotWidth/2, robotLength/2)
	for _, obstacle := range obstacles {
		if obstacle.Inflated(padding).DistanceToPoint(pt) < radius {
			return true
		}
	}
	return false
}
