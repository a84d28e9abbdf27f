// Package render rasterizes a planned path into an image: field background,
// obstacles, per-section path segments and the robot footprint at a pose. It
// is one consumer of the planner's renderable-segment output; hosts with
// their own canvas can ignore it entirely.
package render

import (
	"image"
	"image/png"
	"io"

	"github.com/fogleman/gg"
	"github.com/pkg/errors"

	"go.viam.com/fieldpath/config"
	"go.viam.com/fieldpath/motionplan"
	"go.viam.com/fieldpath/spatialmath"
	"go.viam.com/fieldpath/utils"
)

// Scene is everything needed to draw one frame.
type Scene struct {
	Field     config.Field
	Robot     config.Robot
	Obstacles []spatialmath.Rect
	Segments  []motionplan.PathSegment
	// Pose, if set, draws the robot footprint there (e.g. the live playback
	// pose); nil leaves the robot out.
	Pose *spatialmath.Pose
}

const (
	pathLineWidth  = 3
	robotLineWidth = 2
	dashOn         = 8
	dashOff        = 6
)

// sectionColors maps the palette names used by the editor to RGB. Unknown
// colors fall back to gray.
var sectionColors = map[string][3]float64{
	"red":    {0.86, 0.20, 0.18},
	"blue":   {0.17, 0.45, 0.87},
	"green":  {0.18, 0.65, 0.32},
	"orange": {0.95, 0.55, 0.10},
	"purple": {0.55, 0.30, 0.75},
}

// Draw renders the scene. The image uses the field's pixel coordinate space
// with y flipped so +y points up, matching the planner's convention.
func Draw(scene Scene) image.Image {
	w := int(scene.Field.WidthPx)
	h := int(scene.Field.HeightPx)
	dc := gg.NewContext(w, h)

	dc.SetRGB(1, 1, 1)
	dc.Clear()

	// flip to y-up
	dc.Translate(0, float64(h))
	dc.Scale(1, -1)

	for _, obstacle := range scene.Obstacles {
		drawRect(dc, obstacle, 0.45, 0.45, 0.45)
	}

	for _, seg := range scene.Segments {
		rgb, ok := sectionColors[seg.Color]
		if !ok {
			rgb = [3]float64{0.5, 0.5, 0.5}
		}
		dc.SetRGB(rgb[0], rgb[1], rgb[2])
		dc.SetLineWidth(pathLineWidth)
		if seg.Reverse {
			dc.SetDash(dashOn, dashOff)
		} else {
			dc.SetDash()
		}
		dc.DrawLine(seg.Start.X, seg.Start.Y, seg.End.X, seg.End.Y)
		dc.Stroke()
	}
	dc.SetDash()

	if scene.Pose != nil {
		drawRobot(dc, scene)
	}
	return dc.Image()
}

func drawRect(dc *gg.Context, rect spatialmath.Rect, r, g, b float64) {
	dc.Push()
	dc.RotateAbout(utils.DegToRad(rect.RotationDeg), rect.Center.X, rect.Center.Y)
	dc.SetRGB(r, g, b)
	dc.DrawRectangle(rect.Center.X-rect.Width/2, rect.Center.Y-rect.Height/2, rect.Width, rect.Height)
	dc.Fill()
	dc.Pop()
}

// drawRobot outlines the footprint at the pose and marks the tip so heading
// is visible.
func drawRobot(dc *gg.Context, scene Scene) {
	pose := *scene.Pose
	scale := scene.Field.Scale
	widthPx := scale.ToPx(scene.Robot.Width)
	lengthPx := scale.ToPx(scene.Robot.Length)

	dc.Push()
	dc.RotateAbout(pose.Heading, pose.Point.X, pose.Point.Y)
	dc.SetRGB(0.1, 0.1, 0.1)
	dc.SetLineWidth(robotLineWidth)
	dc.DrawRectangle(pose.Point.X-lengthPx/2, pose.Point.Y-widthPx/2, lengthPx, widthPx)
	dc.Stroke()
	dc.Pop()

	tip := spatialmath.ReferencePoint(pose, spatialmath.FrameTip, scale.ToPx(scene.Robot.WheelOffset))
	dc.SetRGB(0.86, 0.20, 0.18)
	dc.DrawCircle(tip.X, tip.Y, 3)
	dc.Fill()
}

// WritePNG renders the scene and writes it PNG-encoded.
func WritePNG(w io.Writer, scene Scene) error {
	return errors.Wrap(png.Encode(w, Draw(scene)), "cannot encode rendered scene")
}
