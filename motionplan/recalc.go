package motionplan

import (
	"go.viam.com/fieldpath/spatialmath"
)

// Recalculate recomputes the entire ordered section list from one global
// initial pose in a single stateless pass, producing self-consistent actions,
// end poses and heading caches for every section. User-drawn waypoint
// coordinates are the ground truth of intent: only each waypoint's Heading
// cache and the derived actions are rewritten; (x, y, reverse, frame) are
// never altered.
//
// Because the whole list is rebuilt from scratch, deleting a section or
// waypoint rubber-bands the path: the next surviving waypoint's connecting
// action is rebuilt fresh from wherever the path now ends, with no leftover
// per-waypoint drift or stale cached headings. Empty section or waypoint
// lists are valid no-ops, and coincident consecutive waypoints silently
// collapse to zero actions.
func Recalculate(sections []*Section, initialPose spatialmath.Pose, scale Scale) []*Section {
	out := make([]*Section, 0, len(sections))
	pose := initialPose
	for _, sec := range sections {
		next := sec.clone()
		next.StartHeading = pose.Heading

		// strip cached headings so geometry, not memory, determines direction
		for i := range next.Waypoints {
			next.Waypoints[i].Heading = nil
		}
		actions, headings := buildActionsWithHeadings(next.Waypoints, pose, scale)
		for i := range next.Waypoints {
			next.Waypoints[i].Heading = headings[i]
		}
		next.Actions = actions

		end := PoseAfterActions(pose, actions, scale)
		next.EndHeading = end.Heading
		out = append(out, next)
		pose = end
	}
	return out
}
