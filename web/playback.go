package web

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"go.viam.com/fieldpath/mission"
	"go.viam.com/fieldpath/motionplan"
	"go.viam.com/fieldpath/spatialmath"
)

type playbackStateResponse struct {
	Active bool         `json:"active"`
	Paused bool         `json:"paused"`
	Pose   mission.Pose `json:"pose"`
}

func (s *Server) playbackState() playbackStateResponse {
	return playbackStateResponse{
		Active: s.sim.Active(),
		Paused: s.sim.Paused(),
		Pose:   mission.FromSpatial(s.sim.CurrentPose()),
	}
}

func (s *Server) handlePlaybackStart(c echo.Context) error {
	s.mu.Lock()
	actions := motionplan.FlattenActions(s.sections)
	initial := s.initial
	s.mu.Unlock()

	s.sim.Start(actions, initial, s.scale())
	return c.JSON(http.StatusOK, s.playbackState())
}

func (s *Server) handlePlaybackPause(c echo.Context) error {
	s.sim.Pause()
	return c.JSON(http.StatusOK, s.playbackState())
}

func (s *Server) handlePlaybackResume(c echo.Context) error {
	s.sim.Resume()
	return c.JSON(http.StatusOK, s.playbackState())
}

func (s *Server) handlePlaybackStop(c echo.Context) error {
	s.sim.Stop()
	return c.JSON(http.StatusOK, s.playbackState())
}

func (s *Server) handlePlaybackPose(c echo.Context) error {
	return c.JSON(http.StatusOK, s.playbackState())
}

// broadcastPose fans a simulator frame out to every websocket subscriber.
// It runs on the simulator's frame goroutine; slow subscribers drop frames
// rather than stalling playback.
func (s *Server) broadcastPose(pose spatialmath.Pose) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for ch := range s.subs {
		select {
		case ch <- pose:
		default:
		}
	}
}

func (s *Server) subscribe() chan spatialmath.Pose {
	ch := make(chan spatialmath.Pose, 16)
	s.subMu.Lock()
	s.subs[ch] = struct{}{}
	s.subMu.Unlock()
	return ch
}

func (s *Server) unsubscribe(ch chan spatialmath.Pose) {
	s.subMu.Lock()
	delete(s.subs, ch)
	s.subMu.Unlock()
}

// handlePlaybackStream upgrades to a websocket and streams one JSON pose
// per simulated frame until the client disconnects.
func (s *Server) handlePlaybackStream(c echo.Context) error {
	conn, err := s.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer func() {
		if err := conn.Close(); err != nil {
			s.logger.Debugw("websocket close", "error", err)
		}
	}()

	ch := s.subscribe()
	defer s.unsubscribe(ch)

	// reads are only needed to observe the close handshake
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return nil
		case pose := <-ch:
			if err := conn.WriteJSON(mission.FromSpatial(pose)); err != nil {
				return nil
			}
		}
	}
}
