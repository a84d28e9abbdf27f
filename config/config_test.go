package config

import (
	"os"
	"path/filepath"
	"testing"

	"go.viam.com/test"
)

func TestRobotValidate(t *testing.T) {
	r := Robot{Width: 30, Length: 40}
	test.That(t, r.Validate("robot"), test.ShouldBeNil)
	// wheel offset defaults to half the length
	test.That(t, r.WheelOffset, test.ShouldAlmostEqual, 20)

	r = Robot{Width: 30, Length: 40, WheelOffset: 12}
	test.That(t, r.Validate("robot"), test.ShouldBeNil)
	test.That(t, r.WheelOffset, test.ShouldAlmostEqual, 12)

	test.That(t, (&Robot{Length: 40}).Validate("robot"), test.ShouldNotBeNil)
	test.That(t, (&Robot{Width: 30}).Validate("robot"), test.ShouldNotBeNil)
	test.That(t, (&Robot{Width: 30, Length: 40, WheelOffset: -1}).Validate("robot"), test.ShouldNotBeNil)
}

func TestServerValidateDefaults(t *testing.T) {
	cfg := Server{
		Field: Field{WidthPx: 800, HeightPx: 400},
		Robot: Robot{Width: 30, Length: 40},
	}
	cfg.Field.Scale.PxPerUnit = 4
	test.That(t, cfg.Validate(), test.ShouldBeNil)
	test.That(t, cfg.BindAddress, test.ShouldEqual, ":8080")
	test.That(t, cfg.PlaybackSpeed, test.ShouldEqual, 1)
}

func TestReadServerConfig(t *testing.T) {
	contents := `
bind_address: ":9000"
field:
  width_px: 800
  height_px: 400
  scale:
    px_per_unit: 4
robot:
  width: 30
  length: 40
  wheel_offset: 15
collision:
  enabled: true
  padding: 5
playback_speed: 2
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	test.That(t, os.WriteFile(path, []byte(contents), 0o600), test.ShouldBeNil)

	cfg, err := ReadServerConfig(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.BindAddress, test.ShouldEqual, ":9000")
	test.That(t, cfg.Robot.WheelOffset, test.ShouldAlmostEqual, 15)
	test.That(t, cfg.Collision.Enabled, test.ShouldBeTrue)
	test.That(t, cfg.PlaybackSpeed, test.ShouldAlmostEqual, 2)

	_, err = ReadServerConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	test.That(t, err, test.ShouldNotBeNil)
}
