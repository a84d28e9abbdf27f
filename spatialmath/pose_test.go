package spatialmath

import (
	"math"
	"testing"

	"github.com/golang/geo/r2"
	"go.viam.com/test"
)

func TestNormalizeAngle(t *testing.T) {
	cases := []struct {
		in       float64
		expected float64
	}{
		{0, 0},
		{math.Pi / 2, math.Pi / 2},
		{math.Pi, math.Pi},
		{-math.Pi, math.Pi},
		{3 * math.Pi / 2, -math.Pi / 2},
		{2 * math.Pi, 0},
		{-2 * math.Pi, 0},
		{5 * math.Pi, math.Pi},
		{-7 * math.Pi / 2, math.Pi / 2},
	}
	for _, c := range cases {
		test.That(t, NormalizeAngle(c.in), test.ShouldAlmostEqual, c.expected, 1e-9)
	}
}

func TestNormalizeAngleRange(t *testing.T) {
	// every normalized angle must land in (-pi, pi]
	for theta := -25.0; theta < 25.0; theta += 0.173 {
		n := NormalizeAngle(theta)
		test.That(t, n, test.ShouldBeGreaterThan, -math.Pi)
		test.That(t, n, test.ShouldBeLessThanOrEqualTo, math.Pi)
	}
}

func TestReferencePoint(t *testing.T) {
	pose := NewPose(100, 100, math.Pi/2)

	center := ReferencePoint(pose, FrameCenter, 20)
	test.That(t, center.X, test.ShouldAlmostEqual, 100)
	test.That(t, center.Y, test.ShouldAlmostEqual, 100)

	tip := ReferencePoint(pose, FrameTip, 20)
	test.That(t, tip.X, test.ShouldAlmostEqual, 100, 1e-9)
	test.That(t, tip.Y, test.ShouldAlmostEqual, 120, 1e-9)
}

func TestPoseAlmostEqual(t *testing.T) {
	a := NewPose(1, 2, math.Pi)
	b := NewPose(1.0005, 2, -math.Pi)
	test.That(t, PoseAlmostEqual(a, b, 1e-3, 1e-3), test.ShouldBeTrue)
	test.That(t, PoseAlmostEqual(a, NewPose(1.1, 2, math.Pi), 1e-3, 1e-3), test.ShouldBeFalse)
	// headings on opposite sides of the wrap point still compare equal
	c := NewPose(0, 0, math.Pi-1e-6)
	d := NewPose(0, 0, -math.Pi+1e-6)
	test.That(t, PoseAlmostEqual(c, d, 1e-3, 1e-3), test.ShouldBeTrue)
}

func TestRectContainsPoint(t *testing.T) {
	cases := []struct {
		rect     Rect
		pt       r2.Point
		expected bool
	}{
		// axis aligned, point at center
		{NewRect(0, 0, 10, 4, 0), r2.Point{X: 0, Y: 0}, true},
		// on the boundary counts as inside
		{NewRect(0, 0, 10, 4, 0), r2.Point{X: 5, Y: 2}, true},
		{NewRect(0, 0, 10, 4, 0), r2.Point{X: 5.01, Y: 0}, false},
		// rotated 90°, extents swap
		{NewRect(0, 0, 10, 4, 90), r2.Point{X: 4, Y: 0}, false},
		{NewRect(0, 0, 10, 4, 90), r2.Point{X: 0, Y: 4}, true},
		// 45° rotation, point near a now-clipped corner of the AABB
		{NewRect(0, 0, 10, 10, 45), r2.Point{X: 4.9, Y: 4.9}, false},
		{NewRect(0, 0, 10, 10, 45), r2.Point{X: 7, Y: 0}, true},
	}
	for _, c := range cases {
		test.That(t, c.rect.ContainsPoint(c.pt), test.ShouldEqual, c.expected)
	}
}

func TestRectDistanceToPoint(t *testing.T) {
	r := NewRect(0, 0, 10, 4, 0)
	test.That(t, r.DistanceToPoint(r2.Point{X: 0, Y: 0}), test.ShouldAlmostEqual, 0)
	test.That(t, r.DistanceToPoint(r2.Point{X: 8, Y: 0}), test.ShouldAlmostEqual, 3)
	test.That(t, r.DistanceToPoint(r2.Point{X: 0, Y: 5}), test.ShouldAlmostEqual, 3)
	// corner distance is the diagonal
	test.That(t, r.DistanceToPoint(r2.Point{X: 8, Y: 6}), test.ShouldAlmostEqual, 5)

	rotated := NewRect(0, 0, 10, 4, 90)
	test.That(t, rotated.DistanceToPoint(r2.Point{X: 5, Y: 0}), test.ShouldAlmostEqual, 3)
}

func TestRectInflated(t *testing.T) {
	r := NewRect(1, 2, 10, 4, 30)
	grown := r.Inflated(3)
	test.That(t, grown.Width, test.ShouldAlmostEqual, 16)
	test.That(t, grown.Height, test.ShouldAlmostEqual, 10)
	test.That(t, grown.Center, test.ShouldResemble, r.Center)
	test.That(t, grown.RotationDeg, test.ShouldAlmostEqual, 30)

	// shrinking below zero clamps
	collapsed := NewRect(0, 0, 2, 2, 0).Inflated(-5)
	test.That(t, collapsed.Width, test.ShouldAlmostEqual, 0)
	test.That(t, collapsed.Height, test.ShouldAlmostEqual, 0)
}

func TestRectCorners(t *testing.T) {
	corners := NewRect(10, 10, 4, 2, 90).Corners()
	// after a 90° rotation the half-width lies along Y
	expected := [4]r2.Point{{X: 9, Y: 12}, {X: 9, Y: 8}, {X: 11, Y: 8}, {X: 11, Y: 12}}
	for i := range corners {
		test.That(t, corners[i].X, test.ShouldAlmostEqual, expected[i].X, 1e-9)
		test.That(t, corners[i].Y, test.ShouldAlmostEqual, expected[i].Y, 1e-9)
	}
}
