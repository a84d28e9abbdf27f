package motionplan

import (
	"go.viam.com/fieldpath/spatialmath"
	"go.viam.com/fieldpath/utils"
)

// PoseAfterActions deterministically integrates an action list forward from
// startPose: rotate actions add to the heading (normalized), move actions
// translate by the converted distance along the current heading, sign
// encoding direction.
func PoseAfterActions(startPose spatialmath.Pose, actions []Action, scale Scale) spatialmath.Pose {
	pose := startPose
	for _, a := range actions {
		switch a.Kind {
		case ActionRotate:
			pose.Heading = spatialmath.NormalizeAngle(pose.Heading + utils.DegToRad(a.AngleDeg))
		case ActionMove:
			pose.Point = pose.Point.Add(spatialmath.HeadingVector(pose.Heading).Mul(scale.ToPx(a.Distance)))
		}
	}
	return pose
}

// PoseUpToSection integrates every section's actions in order until the
// section with targetID is reached, returning that section's start pose.
// An empty targetID (or an id not present) integrates through the whole list
// and returns the final pose. This is the single source of truth for where a
// section begins.
func PoseUpToSection(sections []*Section, initialPose spatialmath.Pose, targetID string, scale Scale) spatialmath.Pose {
	pose := initialPose
	for _, sec := range sections {
		if sec.ID == targetID {
			return pose
		}
		pose = PoseAfterActions(pose, sec.Actions, scale)
	}
	return pose
}

// PoseThroughSection returns the pose at the end of the section with
// targetID, integrating that section's own actions too. This is where the
// next appended waypoint departs from. An empty targetID (or an id not
// present) integrates through the whole list.
func PoseThroughSection(sections []*Section, initialPose spatialmath.Pose, targetID string, scale Scale) spatialmath.Pose {
	pose := initialPose
	for _, sec := range sections {
		pose = PoseAfterActions(pose, sec.Actions, scale)
		if sec.ID == targetID {
			return pose
		}
	}
	return pose
}
