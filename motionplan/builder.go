package motionplan

import (
	"math"

	"go.viam.com/fieldpath/spatialmath"
	"go.viam.com/fieldpath/utils"
)

// BuildActions converts an ordered waypoint list into the canonical action
// sequence that drives the robot through it from startPose. For each waypoint
// a shortest-turn rotate is emitted (omitted when the residual angle is below
// epsilon) followed by a move whose distance is in physical units, negative
// for reverse travel. Waypoints whose displacement from the running pose is
// below epsilon are treated as coincident and emit nothing, though the
// running position still advances onto them.
func BuildActions(waypoints []Waypoint, startPose spatialmath.Pose, scale Scale) []Action {
	actions, _ := buildActionsWithHeadings(waypoints, startPose, scale)
	return actions
}

// buildActionsWithHeadings additionally reports the target heading reached at
// each waypoint, nil for waypoints that collapsed. Recalculate uses this to
// rewrite heading caches without touching waypoint coordinates.
func buildActionsWithHeadings(waypoints []Waypoint, startPose spatialmath.Pose, scale Scale) ([]Action, []*float64) {
	pose := startPose
	var actions []Action
	headings := make([]*float64, len(waypoints))
	for i, wp := range waypoints {
		delta := wp.Point.Sub(pose.Point)
		distPx := delta.Norm()
		if distPx < distEpsilonPx {
			// coincident point: no action, but the running position
			// lands on it so the next displacement is measured from here
			pose.Point = wp.Point
			continue
		}

		var target float64
		if wp.Heading != nil {
			target = spatialmath.NormalizeAngle(*wp.Heading)
		} else {
			target = math.Atan2(delta.Y, delta.X)
			if wp.Reverse {
				target = spatialmath.NormalizeAngle(target + math.Pi)
			}
		}

		turn := spatialmath.NormalizeAngle(target - pose.Heading)
		if utils.AngleDiffDeg(utils.RadToDeg(target), utils.RadToDeg(pose.Heading)) > angEpsilonDeg {
			actions = append(actions, NewRotate(utils.RadToDeg(turn)))
		}

		distance := scale.ToUnits(distPx)
		if wp.Reverse {
			distance = -distance
		}
		actions = append(actions, NewMove(distance, wp.Frame))

		pose = spatialmath.Pose{Point: wp.Point, Heading: target}
		h := target
		headings[i] = &h
	}
	return actions, headings
}

// PointsFromActions is the inverse integrator: it replays an action list from
// startPose and emits one waypoint per move action, positioned where the move
// ends, with the pose heading after that move cached and Reverse recovered
// from the distance sign. Together with BuildActions it forms a lossless
// round trip for any waypoint list with no adjacent coincident points.
func PointsFromActions(actions []Action, startPose spatialmath.Pose, scale Scale) []Waypoint {
	pose := startPose
	var waypoints []Waypoint
	for _, a := range actions {
		switch a.Kind {
		case ActionRotate:
			pose.Heading = spatialmath.NormalizeAngle(pose.Heading + utils.DegToRad(a.AngleDeg))
		case ActionMove:
			distPx := scale.ToPx(a.Distance)
			pose.Point = pose.Point.Add(spatialmath.HeadingVector(pose.Heading).Mul(distPx))
			heading := pose.Heading
			frame := a.Frame
			if frame == "" {
				frame = spatialmath.FrameCenter
			}
			waypoints = append(waypoints, Waypoint{
				Point:   pose.Point,
				Reverse: a.Distance < 0,
				Frame:   frame,
				Heading: &heading,
			})
		}
	}
	return waypoints
}
