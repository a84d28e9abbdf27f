package spatialmath

import (
	"fmt"
	"math"

	"github.com/golang/geo/r2"
)

// Rect is a rotated rectangular obstacle on the field plane. Width and Height
// are full extents; RotationDeg rotates the rectangle counterclockwise about
// its center. A Rect is immutable during a collision query.
type Rect struct {
	Center      r2.Point `json:"center"`
	Width       float64  `json:"width"`
	Height      float64  `json:"height"`
	RotationDeg float64  `json:"rotationDeg"`
}

// NewRect instantiates a Rect centered at (x, y).
func NewRect(x, y, width, height, rotationDeg float64) Rect {
	return Rect{Center: r2.Point{X: x, Y: y}, Width: width, Height: height, RotationDeg: rotationDeg}
}

// String returns a human readable string that represents the rect.
func (r Rect) String() string {
	return fmt.Sprintf("Type: Rect | Center: X:%.1f, Y:%.1f | Dims: %.0fx%.0f | Rot: %.1f°",
		r.Center.X, r.Center.Y, r.Width, r.Height, r.RotationDeg)
}

// Inflated returns a copy grown by 2*padding in both extents, used to apply a
// uniform safety margin before collision tests. Negative padding shrinks.
func (r Rect) Inflated(padding float64) Rect {
	return Rect{
		Center:      r.Center,
		Width:       math.Max(r.Width+2*padding, 0),
		Height:      math.Max(r.Height+2*padding, 0),
		RotationDeg: r.RotationDeg,
	}
}

// toLocal inverse-rotates a field point into the rectangle's axis-aligned
// local frame, with the rectangle center at the origin.
func (r Rect) toLocal(pt r2.Point) r2.Point {
	rot := -r.RotationDeg * math.Pi / 180
	d := pt.Sub(r.Center)
	sin, cos := math.Sincos(rot)
	return r2.Point{X: d.X*cos - d.Y*sin, Y: d.X*sin + d.Y*cos}
}

// ContainsPoint reports whether the point lies inside the rectangle,
// boundary included.
func (r Rect) ContainsPoint(pt r2.Point) bool {
	local := r.toLocal(pt)
	return math.Abs(local.X) <= r.Width/2 && math.Abs(local.Y) <= r.Height/2
}

// DistanceToPoint returns the minimum Euclidean distance from the point to
// the rectangle; zero if the point is inside. This is the standard signed
// distance to a box evaluated in the rectangle's local frame, clamped at zero.
func (r Rect) DistanceToPoint(pt r2.Point) float64 {
	local := r.toLocal(pt)
	dx := math.Abs(local.X) - r.Width/2
	dy := math.Abs(local.Y) - r.Height/2
	return math.Hypot(math.Max(dx, 0), math.Max(dy, 0))
}

// Corners returns the rectangle's four vertices in counterclockwise order.
func (r Rect) Corners() [4]r2.Point {
	rot := r.RotationDeg * math.Pi / 180
	sin, cos := math.Sincos(rot)
	hw, hh := r.Width/2, r.Height/2
	locals := [4]r2.Point{{X: hw, Y: hh}, {X: -hw, Y: hh}, {X: -hw, Y: -hh}, {X: hw, Y: -hh}}
	var corners [4]r2.Point
	for i, l := range locals {
		corners[i] = r.Center.Add(r2.Point{X: l.X*cos - l.Y*sin, Y: l.X*sin + l.Y*cos})
	}
	return corners
}
