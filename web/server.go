// Package web is the HTTP host layer around the fieldpath engine: REST
// endpoints for mission load/save, path editing, collision queries and
// rendering, plus a websocket pose stream during playback. All engine calls
// are pure; this package owns the single mutable "current path + current
// playback session" and serializes access to it.
package web

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/edaniels/golog"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"go.viam.com/fieldpath/config"
	"go.viam.com/fieldpath/mission"
	"go.viam.com/fieldpath/motionplan"
	"go.viam.com/fieldpath/playback"
	"go.viam.com/fieldpath/spatialmath"
)

const shutdownTimeout = 5 * time.Second

// Server hosts the engine state behind an echo instance.
type Server struct {
	logger golog.Logger
	cfg    *config.Server
	echo   *echo.Echo

	mu        sync.Mutex
	sections  []*motionplan.Section
	initial   spatialmath.Pose
	obstacles []spatialmath.Rect
	fieldKey  string
	unit      string
	grid      mission.Grid

	sim      *playback.Simulator
	upgrader websocket.Upgrader

	subMu sync.Mutex
	subs  map[chan spatialmath.Pose]struct{}
}

// NewServer wires the engine into an echo instance. The playback simulator
// streams poses to every connected websocket subscriber.
func NewServer(cfg *config.Server, logger golog.Logger) *Server {
	s := &Server{
		logger:   logger,
		cfg:      cfg,
		echo:     echo.New(),
		initial:  spatialmath.NewZeroPose(),
		fieldKey: "default",
		unit:     "in",
		subs:     map[chan spatialmath.Pose]struct{}{},
		upgrader: websocket.Upgrader{
			// the editor UI is served from anywhere during development
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
	s.sim = playback.NewSimulator(
		logger.Named("playback"),
		playback.WithSpeed(cfg.PlaybackSpeed),
		playback.WithPoseFunc(s.broadcastPose),
	)

	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.Use(middleware.Recover())
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	e := s.echo
	e.GET("/health", s.handleHealth)

	missionGroup := e.Group("/api/mission")
	missionGroup.POST("", s.handleLoadMission)
	missionGroup.GET("", s.handleExportMission)

	pathGroup := e.Group("/api/path")
	pathGroup.GET("", s.handleGetPath)
	pathGroup.POST("/initial-pose", s.handleSetInitialPose)
	pathGroup.POST("/project", s.handleProject)

	sectionGroup := e.Group("/api/sections")
	sectionGroup.POST("", s.handleCreateSection)
	sectionGroup.DELETE("/:id", s.handleDeleteSection)
	sectionGroup.POST("/:id/waypoints", s.handleAppendWaypoint)
	sectionGroup.POST("/:id/waypoints/:index", s.handleInsertWaypoint)
	sectionGroup.PATCH("/:id/waypoints/:index", s.handlePatchWaypoint)
	sectionGroup.DELETE("/:id/waypoints/:index", s.handleDeleteWaypoint)

	collisionGroup := e.Group("/api/collision")
	collisionGroup.POST("/segment", s.handleSegmentCollision)
	collisionGroup.POST("/rotation", s.handleRotationCollision)

	e.POST("/api/obstacles", s.handleSetObstacles)
	e.GET("/api/render", s.handleRender)

	playbackGroup := e.Group("/api/playback")
	playbackGroup.POST("/start", s.handlePlaybackStart)
	playbackGroup.POST("/pause", s.handlePlaybackPause)
	playbackGroup.POST("/resume", s.handlePlaybackResume)
	playbackGroup.POST("/stop", s.handlePlaybackStop)
	playbackGroup.GET("/pose", s.handlePlaybackPose)
	playbackGroup.GET("/stream", s.handlePlaybackStream)
}

// Start serves until the context is canceled.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.echo.Start(s.cfg.BindAddress)
	}()
	s.logger.Infow("fieldpath server listening", "address", s.cfg.BindAddress)

	select {
	case <-ctx.Done():
		s.sim.Stop()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.echo.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// stopPlaybackForEdit enforces the stop-before-edit rule: playback animates
// an action snapshot and must never outlive a structural change to the path.
func (s *Server) stopPlaybackForEdit() {
	if s.sim.Active() {
		s.logger.Debug("stopping playback for structural edit")
	}
	s.sim.Stop()
}

func (s *Server) scale() motionplan.Scale {
	return s.cfg.Field.Scale
}
