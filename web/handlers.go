package web

import (
	"net/http"
	"strconv"

	"github.com/golang/geo/r2"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/fieldpath/collision"
	"go.viam.com/fieldpath/mission"
	"go.viam.com/fieldpath/motionplan"
	"go.viam.com/fieldpath/render"
	"go.viam.com/fieldpath/spatialmath"
	"go.viam.com/fieldpath/utils"
)

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{"status": "ok"})
}

type errorResponse struct {
	Error string `json:"error"`
}

func badRequest(c echo.Context, err error) error {
	return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
}

// pathResponse is the canonical view of the current path state, returned by
// every endpoint that changes it so clients never need a follow-up fetch.
type pathResponse struct {
	InitialPose  mission.Pose             `json:"initialPose"`
	Sections     []*motionplan.Section    `json:"sections"`
	Segments     []motionplan.PathSegment `json:"segments"`
	Instructions []string                 `json:"instructions"`
}

func (s *Server) pathResponseLocked() pathResponse {
	instructions := motionplan.Instructions(s.sections)
	rendered := make([]string, 0, len(instructions))
	for _, ins := range instructions {
		rendered = append(rendered, ins.String())
	}
	return pathResponse{
		InitialPose:  mission.FromSpatial(s.initial),
		Sections:     s.sections,
		Segments:     motionplan.FlattenSegments(s.sections, s.initial, s.scale()),
		Instructions: rendered,
	}
}

func (s *Server) handleGetPath(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return c.JSON(http.StatusOK, s.pathResponseLocked())
}

func (s *Server) handleLoadMission(c echo.Context) error {
	file, err := mission.Decode(c.Request().Body)
	if err != nil {
		return badRequest(c, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopPlaybackForEdit()
	s.sections, s.initial = file.Restore(s.scale())
	s.fieldKey = file.FieldKey
	s.unit = file.Unit
	s.grid = file.Grid
	s.logger.Infow("mission loaded", "fieldKey", file.FieldKey, "sections", len(s.sections))
	return c.JSON(http.StatusOK, s.pathResponseLocked())
}

func (s *Server) handleExportMission(c echo.Context) error {
	s.mu.Lock()
	file := &mission.File{
		Version:     mission.CurrentVersion,
		FieldKey:    s.fieldKey,
		Grid:        s.grid,
		Robot:       s.cfg.Robot,
		InitialPose: mission.FromSpatial(s.initial),
		Sections:    s.sections,
		Unit:        s.unit,
	}
	s.mu.Unlock()

	c.Response().Header().Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c.Response().WriteHeader(http.StatusOK)
	return file.Encode(c.Response())
}

type poseRequest struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	HeadingDeg float64 `json:"headingDeg"`
}

func (s *Server) handleSetInitialPose(c echo.Context) error {
	var req poseRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopPlaybackForEdit()
	s.initial = mission.Pose{X: req.X, Y: req.Y, HeadingDeg: req.HeadingDeg}.ToSpatial()
	s.sections = motionplan.SetInitialPose(s.sections, s.initial, s.scale())
	return c.JSON(http.StatusOK, s.pathResponseLocked())
}

type createSectionRequest struct {
	Color string `json:"color"`
}

func (s *Server) handleCreateSection(c echo.Context) error {
	var req createSectionRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}
	if req.Color == "" {
		return badRequest(c, errors.New("color is required"))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopPlaybackForEdit()
	s.sections = append(s.sections, motionplan.NewSection(req.Color))
	s.sections = motionplan.Recalculate(s.sections, s.initial, s.scale())
	return c.JSON(http.StatusOK, s.pathResponseLocked())
}

func (s *Server) handleDeleteSection(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopPlaybackForEdit()
	sections, err := motionplan.DeleteSection(s.sections, c.Param("id"), s.initial, s.scale())
	if err != nil {
		return badRequest(c, err)
	}
	s.sections = sections
	return c.JSON(http.StatusOK, s.pathResponseLocked())
}

type waypointRequest struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Reverse bool    `json:"reverse"`
	Frame   string  `json:"frame"`
	// Snap45 constrains the new travel direction to the nearest 45° axis.
	Snap45 bool `json:"snap45"`
}

// resolveWaypointLocked applies the projection rules to a raw cursor point,
// anchored at the pose reached just before the waypoint being added.
// Caller holds s.mu.
func (s *Server) resolveWaypointLocked(req waypointRequest, anchor spatialmath.Pose) motionplan.Waypoint {
	frame := spatialmath.ReferenceFrame(req.Frame)
	if frame == "" {
		frame = spatialmath.FrameCenter
	}
	offsetPx := s.scale().ToPx(s.cfg.Robot.WheelOffset)
	proj := motionplan.ProjectWithReference(
		r2.Point{X: req.X, Y: req.Y}, anchor, frame, req.Reverse, offsetPx, req.Snap45,
	)
	wp := motionplan.NewWaypoint(proj.Point.X, proj.Point.Y)
	wp.Reverse = req.Reverse
	wp.Frame = frame
	return wp
}

// vetoCollisionLocked rejects an edit whose new travel leg would contact an
// obstacle, when collision checking is enabled. Caller holds s.mu.
func (s *Server) vetoCollisionLocked(from, to r2.Point) error {
	if !s.cfg.Collision.Enabled {
		return nil
	}
	widthPx := s.scale().ToPx(s.cfg.Robot.Width)
	if collision.ThickPathCollision(from, to, widthPx, s.obstacles, s.cfg.Collision.Padding) {
		return errors.New("path would collide with an obstacle")
	}
	return nil
}

func (s *Server) handleAppendWaypoint(c echo.Context) error {
	var req waypointRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopPlaybackForEdit()

	sectionID := c.Param("id")
	// anchor at the section's current end, where the new leg departs from
	anchor := motionplan.PoseThroughSection(s.sections, s.initial, sectionID, s.scale())
	wp := s.resolveWaypointLocked(req, anchor)
	if err := s.vetoCollisionLocked(anchor.Point, wp.Point); err != nil {
		return c.JSON(http.StatusConflict, errorResponse{Error: err.Error()})
	}
	sections, err := motionplan.AppendWaypoint(s.sections, sectionID, wp, s.initial, s.scale())
	if err != nil {
		return badRequest(c, err)
	}
	s.sections = sections
	return c.JSON(http.StatusOK, s.pathResponseLocked())
}

// handleInsertWaypoint places a waypoint before the given index; an index
// equal to the waypoint count appends. Insertion takes the raw coordinates
// as-is since there is no stable anchor pose mid-path to project against.
func (s *Server) handleInsertWaypoint(c echo.Context) error {
	var req waypointRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}
	index, err := waypointIndex(c)
	if err != nil {
		return badRequest(c, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopPlaybackForEdit()

	wp := motionplan.NewWaypoint(req.X, req.Y)
	wp.Reverse = req.Reverse
	if f := spatialmath.ReferenceFrame(req.Frame); f != "" {
		wp.Frame = f
	}
	sections, err := motionplan.InsertWaypoint(s.sections, c.Param("id"), index, wp, s.initial, s.scale())
	if err != nil {
		return badRequest(c, err)
	}
	s.sections = sections
	return c.JSON(http.StatusOK, s.pathResponseLocked())
}

type patchWaypointRequest struct {
	X             *float64 `json:"x"`
	Y             *float64 `json:"y"`
	ToggleReverse bool     `json:"toggleReverse"`
}

func (s *Server) handlePatchWaypoint(c echo.Context) error {
	var req patchWaypointRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}
	index, err := waypointIndex(c)
	if err != nil {
		return badRequest(c, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopPlaybackForEdit()

	sectionID := c.Param("id")
	sections := s.sections
	if req.X != nil && req.Y != nil {
		sections, err = motionplan.MoveWaypoint(
			sections, sectionID, index, r2.Point{X: *req.X, Y: *req.Y}, s.initial, s.scale(),
		)
		if err != nil {
			return badRequest(c, err)
		}
	}
	if req.ToggleReverse {
		sections, err = motionplan.ToggleReverse(sections, sectionID, index, s.initial, s.scale())
		if err != nil {
			return badRequest(c, err)
		}
	}
	s.sections = sections
	return c.JSON(http.StatusOK, s.pathResponseLocked())
}

func (s *Server) handleDeleteWaypoint(c echo.Context) error {
	index, err := waypointIndex(c)
	if err != nil {
		return badRequest(c, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopPlaybackForEdit()
	sections, err := motionplan.DeleteWaypoint(s.sections, c.Param("id"), index, s.initial, s.scale())
	if err != nil {
		return badRequest(c, err)
	}
	s.sections = sections
	return c.JSON(http.StatusOK, s.pathResponseLocked())
}

type projectRequest struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Section string  `json:"section"`
	Reverse bool    `json:"reverse"`
	Frame   string  `json:"frame"`
	Snap45  bool    `json:"snap45"`
}

type projectResponse struct {
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	RefX         float64 `json:"refX"`
	RefY         float64 `json:"refY"`
	HeadingDeg   float64 `json:"headingDeg"`
	DistancePx   float64 `json:"distancePx"`
	DistanceUnit float64 `json:"distanceUnit"`
}

// handleProject previews where a cursor point would land as a waypoint,
// without editing anything. The editor calls this on every mouse move.
func (s *Server) handleProject(c echo.Context) error {
	var req projectRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	anchor := motionplan.PoseThroughSection(s.sections, s.initial, req.Section, s.scale())
	frame := spatialmath.ReferenceFrame(req.Frame)
	if frame == "" {
		frame = spatialmath.FrameCenter
	}
	offsetPx := s.scale().ToPx(s.cfg.Robot.WheelOffset)
	proj := motionplan.ProjectWithReference(
		r2.Point{X: req.X, Y: req.Y}, anchor, frame, req.Reverse, offsetPx, req.Snap45,
	)
	return c.JSON(http.StatusOK, projectResponse{
		X:            proj.Point.X,
		Y:            proj.Point.Y,
		RefX:         proj.ReferencePoint.X,
		RefY:         proj.ReferencePoint.Y,
		HeadingDeg:   utils.RadToDeg(proj.Heading),
		DistancePx:   proj.DistancePx,
		DistanceUnit: s.scale().ToUnits(proj.DistancePx),
	})
}

func (s *Server) handleSetObstacles(c echo.Context) error {
	var obstacles []spatialmath.Rect
	if err := c.Bind(&obstacles); err != nil {
		return badRequest(c, err)
	}
	var errs error
	for i, r := range obstacles {
		if r.Width <= 0 || r.Height <= 0 {
			errs = multierr.Append(errs, errors.Errorf("obstacle %d has non-positive size", i))
		}
	}
	if errs != nil {
		return badRequest(c, errs)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.obstacles = obstacles
	return c.JSON(http.StatusOK, map[string]interface{}{"count": len(obstacles)})
}

type segmentCollisionRequest struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

func (s *Server) handleSegmentCollision(c echo.Context) error {
	var req segmentCollisionRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	widthPx := s.scale().ToPx(s.cfg.Robot.Width)
	hit := collision.ThickPathCollision(
		r2.Point{X: req.X1, Y: req.Y1},
		r2.Point{X: req.X2, Y: req.Y2},
		widthPx,
		s.obstacles,
		s.cfg.Collision.Padding,
	)
	return c.JSON(http.StatusOK, map[string]interface{}{"collision": hit})
}

type rotationCollisionRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (s *Server) handleRotationCollision(c echo.Context) error {
	var req rotationCollisionRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	hit := collision.RotationSweepCollision(
		r2.Point{X: req.X, Y: req.Y},
		s.obstacles,
		s.scale().ToPx(s.cfg.Robot.Width),
		s.scale().ToPx(s.cfg.Robot.Length),
		s.cfg.Collision.Padding,
	)
	return c.JSON(http.StatusOK, map[string]interface{}{"collision": hit})
}

func (s *Server) handleRender(c echo.Context) error {
	s.mu.Lock()
	scene := render.Scene{
		Field:     s.cfg.Field,
		Robot:     s.cfg.Robot,
		Obstacles: s.obstacles,
		Segments:  motionplan.FlattenSegments(s.sections, s.initial, s.scale()),
	}
	if s.sim.Active() {
		pose := s.sim.CurrentPose()
		scene.Pose = &pose
	} else {
		pose := s.initial
		scene.Pose = &pose
	}
	s.mu.Unlock()

	c.Response().Header().Set(echo.HeaderContentType, "image/png")
	c.Response().WriteHeader(http.StatusOK)
	return render.WritePNG(c.Response(), scene)
}

func waypointIndex(c echo.Context) (int, error) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return 0, errors.Wrapf(err, "bad waypoint index %q", c.Param("index"))
	}
	return index, nil
}
