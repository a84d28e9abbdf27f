// Package playback animates a canonical action list into a continuous pose
// stream, with pause/resume/stop and single-session semantics. The simulator
// runs one frame loop goroutine; all numeric stepping happens in tick, which
// holds the state lock, so there is never more than one writer of the pose.
package playback

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/edaniels/golog"
	goutils "go.viam.com/utils"

	"go.viam.com/fieldpath/motionplan"
	"go.viam.com/fieldpath/spatialmath"
	"go.viam.com/fieldpath/utils"
)

const (
	frameInterval = 16 * time.Millisecond

	// per-frame steps at speed 1, clamped to the remaining magnitude
	degPerFrame = 3.0
	pxPerFrame  = 4.0

	// residual magnitude below which the current action is considered done
	doneEpsilon = 1e-3
)

// Simulator is the playback engine. Exactly one session may be active at a
// time; Start cancels any in-flight session first. Actions are snapshotted by
// value at Start, so the host must stop playback before applying a structural
// edit or the animation would run against stale geometry.
type Simulator struct {
	logger golog.Logger
	clk    clock.Clock

	mu          sync.Mutex
	actions     []motionplan.Action
	scale       motionplan.Scale
	initialPose spatialmath.Pose
	pose        spatialmath.Pose
	speed       float64
	cursor      int
	latched     bool
	remaining   float64 // rad for rotate, px for move
	direction   float64 // +1 forward, -1 reverse, for moves
	paused      bool
	active      bool
	onPose      func(spatialmath.Pose)

	cancel  func()
	workers sync.WaitGroup
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithClock substitutes the wall clock, letting tests drive frames
// deterministically.
func WithClock(clk clock.Clock) Option {
	return func(s *Simulator) { s.clk = clk }
}

// WithSpeed sets the playback speed multiplier applied to every per-frame
// step.
func WithSpeed(speed float64) Option {
	return func(s *Simulator) { s.speed = speed }
}

// WithPoseFunc registers a callback invoked with the pose after every frame
// that changes it. The callback runs with the simulator lock held and must
// not call back into the Simulator.
func WithPoseFunc(fn func(spatialmath.Pose)) Option {
	return func(s *Simulator) { s.onPose = fn }
}

// NewSimulator instantiates an idle simulator.
func NewSimulator(logger golog.Logger, opts ...Option) *Simulator {
	s := &Simulator{
		logger: logger,
		clk:    clock.New(),
		speed:  1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start snapshots the action list and begins animating from startPose. Any
// in-flight session is canceled first.
func (s *Simulator) Start(actions []motionplan.Action, startPose spatialmath.Pose, scale motionplan.Scale) {
	s.Stop()

	cancelCtx, cancel := context.WithCancel(context.Background())
	s.mu.Lock()
	s.actions = append([]motionplan.Action(nil), actions...)
	s.scale = scale
	s.initialPose = startPose
	s.pose = startPose
	s.cursor = 0
	s.latched = false
	s.paused = false
	s.active = true
	s.cancel = cancel
	s.mu.Unlock()

	s.workers.Add(1)
	goutils.PanicCapturingGo(func() {
		defer s.workers.Done()
		s.frameLoop(cancelCtx)
	})
	s.logger.Debugf("playback started with %d actions", len(actions))
}

// frameLoop drives ticks until the session finishes or is canceled. The loop
// keeps running while paused so resume needs no extra bookkeeping.
func (s *Simulator) frameLoop(ctx context.Context) {
	ticker := s.clk.Ticker(frameInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		if s.tick() {
			return
		}
	}
}

// tick advances one frame and reports whether playback finished. A paused
// tick changes nothing. When the cursor runs past the action list the pose
// resets to the session's initial pose.
func (s *Simulator) tick() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.paused || !s.active {
		return !s.active
	}
	if s.cursor >= len(s.actions) {
		s.pose = s.initialPose
		s.active = false
		s.notifyLocked()
		return true
	}

	action := s.actions[s.cursor]
	if !s.latched {
		// first tick of this action: latch its remaining magnitude and
		// direction into the per-tick accumulators
		switch action.Kind {
		case motionplan.ActionRotate:
			s.remaining = utils.DegToRad(action.AngleDeg)
			s.direction = 1
		case motionplan.ActionMove:
			distPx := s.scale.ToPx(action.Distance)
			s.remaining = math.Abs(distPx)
			s.direction = 1
			if distPx < 0 {
				s.direction = -1
			}
		}
		s.latched = true
	}

	switch action.Kind {
	case motionplan.ActionRotate:
		step := utils.DegToRad(degPerFrame) * s.speed
		if math.Abs(s.remaining) <= step {
			step = math.Abs(s.remaining)
		}
		step = math.Copysign(step, s.remaining)
		s.pose.Heading = spatialmath.NormalizeAngle(s.pose.Heading + step)
		s.remaining -= step
	case motionplan.ActionMove:
		step := pxPerFrame * s.speed
		if s.remaining <= step {
			step = s.remaining
		}
		s.pose.Point = s.pose.Point.Add(spatialmath.HeadingVector(s.pose.Heading).Mul(step * s.direction))
		s.remaining -= step
	}

	if math.Abs(s.remaining) < doneEpsilon {
		s.cursor++
		s.latched = false
	}
	s.notifyLocked()
	return false
}

func (s *Simulator) notifyLocked() {
	if s.onPose != nil {
		s.onPose(s.pose)
	}
}

// Pause suspends pose updates; the frame loop keeps running.
func (s *Simulator) Pause() {
	s.mu.Lock()
	s.paused = true
	s.mu.Unlock()
}

// Resume continues a paused session.
func (s *Simulator) Resume() {
	s.mu.Lock()
	s.paused = false
	s.mu.Unlock()
}

// Stop cancels the frame loop and resets cursor and pose to the session's
// initial state. Safe to call when idle.
func (s *Simulator) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.cursor = 0
	s.latched = false
	s.paused = false
	s.active = false
	s.pose = s.initialPose
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	s.workers.Wait()
}

// Paused reports whether the session is paused.
func (s *Simulator) Paused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused
}

// Active reports whether a session is animating.
func (s *Simulator) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// CurrentPose returns the pose as of the last frame.
func (s *Simulator) CurrentPose() spatialmath.Pose {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pose
}
