package render

import (
	"bytes"
	"image/color"
	"testing"

	"go.viam.com/test"

	"go.viam.com/fieldpath/config"
	"go.viam.com/fieldpath/motionplan"
	"go.viam.com/fieldpath/spatialmath"
)

func sampleScene() Scene {
	field := config.Field{WidthPx: 200, HeightPx: 100, Scale: motionplan.Scale{PxPerUnit: 2}}
	sec := motionplan.NewSection("red")
	sec.Waypoints = []motionplan.Waypoint{motionplan.NewWaypoint(150, 50)}
	sections := motionplan.Recalculate([]*motionplan.Section{sec}, spatialmath.NewPose(20, 50, 0), field.Scale)
	pose := spatialmath.NewPose(20, 50, 0)
	return Scene{
		Field:     field,
		Robot:     config.Robot{Width: 10, Length: 14, WheelOffset: 7},
		Obstacles: []spatialmath.Rect{spatialmath.NewRect(100, 20, 30, 20, 30)},
		Segments:  motionplan.FlattenSegments(sections, spatialmath.NewPose(20, 50, 0), field.Scale),
		Pose:      &pose,
	}
}

func TestDrawBounds(t *testing.T) {
	img := Draw(sampleScene())
	bounds := img.Bounds()
	test.That(t, bounds.Dx(), test.ShouldEqual, 200)
	test.That(t, bounds.Dy(), test.ShouldEqual, 100)
}

func TestDrawPaintsPath(t *testing.T) {
	img := Draw(sampleScene())
	// the path runs along y=50 (flipped to row 50); sample the midpoint
	r, g, b, _ := img.At(85, 50).RGBA()
	white := color.RGBA{255, 255, 255, 255}
	wr, wg, wb, _ := white.RGBA()
	notWhite := r != wr || g != wg || b != wb
	test.That(t, notWhite, test.ShouldBeTrue)
}

func TestWritePNG(t *testing.T) {
	var buf bytes.Buffer
	test.That(t, WritePNG(&buf, sampleScene()), test.ShouldBeNil)
	// PNG magic header
	test.That(t, buf.Len(), test.ShouldBeGreaterThan, 8)
	test.That(t, buf.Bytes()[1:4], test.ShouldResemble, []byte("PNG"))
}

func TestDrawWithoutPose(t *testing.T) {
	scene := sampleScene()
	scene.Pose = nil
	test.That(t, Draw(scene), test.ShouldNotBeNil)
}
