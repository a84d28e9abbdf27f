package motionplan

import (
	"github.com/golang/geo/r2"
	"github.com/pkg/errors"

	"go.viam.com/fieldpath/spatialmath"
)

// The edit commands below are the pure structural-edit surface of the
// planner. Each takes the full section list, applies one edit to a deep
// copy, and returns a freshly recalculated list, so callers never observe a
// partially stale path. They are host-input agnostic: key bindings, pointer
// gestures or API calls all funnel into these.

func findSection(sections []*Section, sectionID string) (int, error) {
	for i, sec := range sections {
		if sec.ID == sectionID {
			return i, nil
		}
	}
	return -1, errors.Errorf("no section with id %q", sectionID)
}

func checkWaypointIndex(sec *Section, index int) error {
	if index < 0 || index >= len(sec.Waypoints) {
		return errors.Errorf("waypoint index %d out of range for section %q (len %d)", index, sec.ID, len(sec.Waypoints))
	}
	return nil
}

// AppendWaypoint adds a waypoint to the end of a section and recalculates.
func AppendWaypoint(
	sections []*Section, sectionID string, wp Waypoint, initialPose spatialmath.Pose, scale Scale,
) ([]*Section, error) {
	out := cloneSections(sections)
	i, err := findSection(out, sectionID)
	if err != nil {
		return nil, err
	}
	out[i].Waypoints = append(out[i].Waypoints, wp)
	return Recalculate(out, initialPose, scale), nil
}

// InsertWaypoint inserts a waypoint before the given index and recalculates.
// index == len(waypoints) appends.
func InsertWaypoint(
	sections []*Section, sectionID string, index int, wp Waypoint, initialPose spatialmath.Pose, scale Scale,
) ([]*Section, error) {
	out := cloneSections(sections)
	i, err := findSection(out, sectionID)
	if err != nil {
		return nil, err
	}
	sec := out[i]
	if index < 0 || index > len(sec.Waypoints) {
		return nil, errors.Errorf("insert index %d out of range for section %q (len %d)", index, sectionID, len(sec.Waypoints))
	}
	sec.Waypoints = append(sec.Waypoints[:index], append([]Waypoint{wp}, sec.Waypoints[index:]...)...)
	return Recalculate(out, initialPose, scale), nil
}

// DeleteWaypoint removes one waypoint and recalculates; the surviving path
// rubber-bands across the gap.
func DeleteWaypoint(
	sections []*Section, sectionID string, index int, initialPose spatialmath.Pose, scale Scale,
) ([]*Section, error) {
	out := cloneSections(sections)
	i, err := findSection(out, sectionID)
	if err != nil {
		return nil, err
	}
	sec := out[i]
	if err := checkWaypointIndex(sec, index); err != nil {
		return nil, err
	}
	sec.Waypoints = append(sec.Waypoints[:index], sec.Waypoints[index+1:]...)
	return Recalculate(out, initialPose, scale), nil
}

// MoveWaypoint changes one waypoint's authoritative coordinates and
// recalculates.
func MoveWaypoint(
	sections []*Section, sectionID string, index int, to r2.Point, initialPose spatialmath.Pose, scale Scale,
) ([]*Section, error) {
	out := cloneSections(sections)
	i, err := findSection(out, sectionID)
	if err != nil {
		return nil, err
	}
	sec := out[i]
	if err := checkWaypointIndex(sec, index); err != nil {
		return nil, err
	}
	sec.Waypoints[index].Point = to
	return Recalculate(out, initialPose, scale), nil
}

// ToggleReverse flips one waypoint's travel direction and recalculates.
func ToggleReverse(
	sections []*Section, sectionID string, index int, initialPose spatialmath.Pose, scale Scale,
) ([]*Section, error) {
	out := cloneSections(sections)
	i, err := findSection(out, sectionID)
	if err != nil {
		return nil, err
	}
	sec := out[i]
	if err := checkWaypointIndex(sec, index); err != nil {
		return nil, err
	}
	sec.Waypoints[index].Reverse = !sec.Waypoints[index].Reverse
	return Recalculate(out, initialPose, scale), nil
}

// DeleteSection removes a whole section and recalculates the remainder.
func DeleteSection(
	sections []*Section, sectionID string, initialPose spatialmath.Pose, scale Scale,
) ([]*Section, error) {
	out := cloneSections(sections)
	i, err := findSection(out, sectionID)
	if err != nil {
		return nil, err
	}
	out = append(out[:i], out[i+1:]...)
	return Recalculate(out, initialPose, scale), nil
}

// SetInitialPose rebases the whole path on a new global start pose.
func SetInitialPose(sections []*Section, initialPose spatialmath.Pose, scale Scale) []*Section {
	return Recalculate(cloneSections(sections), initialPose, scale)
}
