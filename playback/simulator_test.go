package playback

import (
	"math"
	"testing"

	"github.com/benbjohnson/clock"
	"github.com/edaniels/golog"
	"go.viam.com/test"

	"go.viam.com/fieldpath/motionplan"
	"go.viam.com/fieldpath/spatialmath"
)

var pxScale = motionplan.Scale{PxPerUnit: 1}

// newIdleSimulator returns a simulator whose mock clock never fires, so
// tests drive frames by calling tick directly.
func newIdleSimulator(t *testing.T, opts ...Option) *Simulator {
	t.Helper()
	return NewSimulator(golog.NewTestLogger(t), append([]Option{WithClock(clock.NewMock())}, opts...)...)
}

// runToCompletion ticks until the session reports done, with a hard cap so a
// stuck cursor fails the test instead of hanging it.
func runToCompletion(t *testing.T, s *Simulator) int {
	t.Helper()
	for i := 0; i < 100000; i++ {
		if s.tick() {
			return i
		}
	}
	t.Fatal("playback never finished")
	return 0
}

func TestPlaybackRunsActionListToCompletion(t *testing.T) {
	s := newIdleSimulator(t)
	start := spatialmath.NewPose(0, 0, 0)
	actions := []motionplan.Action{
		motionplan.NewRotate(90),
		motionplan.NewMove(100, spatialmath.FrameCenter),
	}
	s.Start(actions, start, pxScale)
	defer s.Stop()
	test.That(t, s.Active(), test.ShouldBeTrue)

	// tick until the move begins, then check the intermediate pose climbed
	for i := 0; i < 31; i++ {
		s.tick()
	}
	mid := s.CurrentPose()
	test.That(t, mid.Heading, test.ShouldAlmostEqual, math.Pi/2, 1e-9)
	test.That(t, mid.Point.Y, test.ShouldBeGreaterThan, 0)

	runToCompletion(t, s)
	// completion resets to the initial pose
	test.That(t, s.Active(), test.ShouldBeFalse)
	test.That(t, spatialmath.PoseAlmostEqual(s.CurrentPose(), start, 1e-9, 1e-9), test.ShouldBeTrue)
}

func TestPlaybackStepClamping(t *testing.T) {
	s := newIdleSimulator(t)
	start := spatialmath.NewPose(0, 0, 0)
	// a move shorter than one frame step completes in a single tick
	s.Start([]motionplan.Action{motionplan.NewMove(1, spatialmath.FrameCenter)}, start, pxScale)
	defer s.Stop()

	s.tick()
	test.That(t, s.CurrentPose().Point.X, test.ShouldAlmostEqual, 1, 1e-9)
	test.That(t, s.tick(), test.ShouldBeTrue)
}

func TestPlaybackReverseMove(t *testing.T) {
	s := newIdleSimulator(t)
	start := spatialmath.NewPose(50, 0, 0)
	s.Start([]motionplan.Action{motionplan.NewMove(-8, spatialmath.FrameCenter)}, start, pxScale)
	defer s.Stop()

	s.tick()
	test.That(t, s.CurrentPose().Point.X, test.ShouldAlmostEqual, 46, 1e-9)
	s.tick()
	test.That(t, s.CurrentPose().Point.X, test.ShouldAlmostEqual, 42, 1e-9)
}

func TestPlaybackNegativeRotation(t *testing.T) {
	s := newIdleSimulator(t)
	s.Start([]motionplan.Action{motionplan.NewRotate(-6)}, spatialmath.NewPose(0, 0, 0), pxScale)
	defer s.Stop()

	s.tick()
	test.That(t, s.CurrentPose().Heading, test.ShouldAlmostEqual, -3*math.Pi/180, 1e-9)
	s.tick()
	test.That(t, s.CurrentPose().Heading, test.ShouldAlmostEqual, -6*math.Pi/180, 1e-9)
}

func TestPlaybackSpeedMultiplier(t *testing.T) {
	s := newIdleSimulator(t, WithSpeed(2))
	s.Start([]motionplan.Action{motionplan.NewMove(100, spatialmath.FrameCenter)}, spatialmath.NewPose(0, 0, 0), pxScale)
	defer s.Stop()

	s.tick()
	test.That(t, s.CurrentPose().Point.X, test.ShouldAlmostEqual, 8, 1e-9)
}

func TestPlaybackPauseResume(t *testing.T) {
	s := newIdleSimulator(t)
	s.Start([]motionplan.Action{motionplan.NewMove(100, spatialmath.FrameCenter)}, spatialmath.NewPose(0, 0, 0), pxScale)
	defer s.Stop()

	s.tick()
	before := s.CurrentPose()

	s.Pause()
	test.That(t, s.Paused(), test.ShouldBeTrue)
	for i := 0; i < 10; i++ {
		test.That(t, s.tick(), test.ShouldBeFalse)
	}
	// paused ticks change nothing
	test.That(t, s.CurrentPose(), test.ShouldResemble, before)

	s.Resume()
	s.tick()
	test.That(t, s.CurrentPose().Point.X, test.ShouldBeGreaterThan, before.Point.X)
}

func TestPlaybackStopResets(t *testing.T) {
	s := newIdleSimulator(t)
	start := spatialmath.NewPose(10, 20, 0.5)
	s.Start([]motionplan.Action{motionplan.NewMove(100, spatialmath.FrameCenter)}, start, pxScale)

	s.tick()
	s.Stop()
	test.That(t, s.Active(), test.ShouldBeFalse)
	test.That(t, spatialmath.PoseAlmostEqual(s.CurrentPose(), start, 1e-9, 1e-9), test.ShouldBeTrue)
}

func TestPlaybackStartCancelsPreviousSession(t *testing.T) {
	s := newIdleSimulator(t)
	s.Start([]motionplan.Action{motionplan.NewMove(100, spatialmath.FrameCenter)}, spatialmath.NewPose(0, 0, 0), pxScale)
	s.tick()

	// starting a new session snaps state to the new start pose
	s.Start([]motionplan.Action{motionplan.NewRotate(90)}, spatialmath.NewPose(500, 500, 0), pxScale)
	defer s.Stop()
	test.That(t, s.CurrentPose().Point.X, test.ShouldAlmostEqual, 500)
	test.That(t, s.Active(), test.ShouldBeTrue)
}

func TestPlaybackPoseStream(t *testing.T) {
	var poses []spatialmath.Pose
	s := newIdleSimulator(t, WithPoseFunc(func(p spatialmath.Pose) {
		poses = append(poses, p)
	}))
	s.Start([]motionplan.Action{motionplan.NewMove(8, spatialmath.FrameCenter)}, spatialmath.NewPose(0, 0, 0), pxScale)
	defer s.Stop()

	runToCompletion(t, s)
	// two stepping frames plus the completion reset
	test.That(t, len(poses), test.ShouldEqual, 3)
	test.That(t, poses[0].Point.X, test.ShouldAlmostEqual, 4, 1e-9)
	test.That(t, poses[1].Point.X, test.ShouldAlmostEqual, 8, 1e-9)
	test.That(t, poses[2].Point.X, test.ShouldAlmostEqual, 0, 1e-9)
}

func TestPlaybackFullPathRoundTrip(t *testing.T) {
	// animate a built path and confirm the integrator lands where the
	// builder says it should
	start := spatialmath.NewPose(0, 0, 0)
	wps := []motionplan.Waypoint{
		motionplan.NewWaypoint(40, 0),
		motionplan.NewWaypoint(40, 40),
	}
	actions := motionplan.BuildActions(wps, start, pxScale)
	expected := motionplan.PoseAfterActions(start, actions, pxScale)

	var last spatialmath.Pose
	var finished bool
	s := newIdleSimulator(t, WithPoseFunc(func(p spatialmath.Pose) {
		if !finished {
			last = p
		}
	}))
	s.Start(actions, start, pxScale)
	defer s.Stop()

	for i := 0; i < 100000; i++ {
		if s.cursor >= len(actions) {
			finished = true
		}
		if s.tick() {
			break
		}
	}
	test.That(t, finished, test.ShouldBeTrue)
	test.That(t, spatialmath.PoseAlmostEqual(last, expected, 1e-6, 1e-6), test.ShouldBeTrue)
}
