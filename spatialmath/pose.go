// Package spatialmath defines the planar geometric primitives used to
// describe robot motion on a field: poses of the robot's wheel-axis center
// and rotated rectangular obstacles.
package spatialmath

import (
	"fmt"
	"math"

	"github.com/golang/geo/r2"

	"go.viam.com/fieldpath/utils"
)

// ReferenceFrame selects which point of the robot a displayed or projected
// coordinate refers to. Stored waypoints always represent the wheel-axis
// center; the frame only affects display/interaction projection.
type ReferenceFrame string

const (
	// FrameCenter refers to the robot's wheel-axis center.
	FrameCenter = ReferenceFrame("center")
	// FrameTip refers to the point wheelOffset ahead of the wheel axis
	// along the current heading.
	FrameTip = ReferenceFrame("tip")
)

// Pose represents the position of the robot's wheel-axis center on the field
// plane together with its heading in radians, normalized to (-pi, pi].
type Pose struct {
	Point   r2.Point
	Heading float64
}

// NewPose instantiates a Pose with a normalized heading.
func NewPose(x, y, heading float64) Pose {
	return Pose{Point: r2.Point{X: x, Y: y}, Heading: NormalizeAngle(heading)}
}

// NewZeroPose returns a pose at the origin facing along +X.
func NewZeroPose() Pose {
	return Pose{}
}

// String returns a human readable string that represents the pose.
func (p Pose) String() string {
	return fmt.Sprintf("Position: X:%.2f, Y:%.2f | Heading: %.2f°", p.Point.X, p.Point.Y, utils.RadToDeg(p.Heading))
}

// NormalizeAngle maps an angle in radians to (-pi, pi]. All heading
// arithmetic runs through this so accumulated sums stay bounded and
// shortest-turn computation is well defined.
func NormalizeAngle(theta float64) float64 {
	theta = math.Mod(theta, 2*math.Pi)
	if theta <= -math.Pi {
		theta += 2 * math.Pi
	} else if theta > math.Pi {
		theta -= 2 * math.Pi
	}
	return theta
}

// ReferencePoint returns the field point the given frame refers to: the
// wheel-axis center itself, or the point offsetPx ahead along the heading for
// the tip frame.
func ReferencePoint(pose Pose, frame ReferenceFrame, offsetPx float64) r2.Point {
	if frame == FrameTip {
		return pose.Point.Add(HeadingVector(pose.Heading).Mul(offsetPx))
	}
	return pose.Point
}

// HeadingVector returns the unit vector pointing along the given heading.
func HeadingVector(heading float64) r2.Point {
	return r2.Point{X: math.Cos(heading), Y: math.Sin(heading)}
}

// PoseAlmostEqual compares two poses for approximate equality in position
// and heading.
func PoseAlmostEqual(a, b Pose, distEpsilon, angEpsilon float64) bool {
	return utils.Float64AlmostEqual(a.Point.X, b.Point.X, distEpsilon) &&
		utils.Float64AlmostEqual(a.Point.Y, b.Point.Y, distEpsilon) &&
		math.Abs(NormalizeAngle(a.Heading-b.Heading)) <= angEpsilon
}
