// Package config holds the robot and server configuration for the fieldpath
// engine. Robot dimensions are in physical field units; the field scale
// converts them to on-screen pixels.
package config

import (
	"os"

	"github.com/pkg/errors"
	goutils "go.viam.com/utils"
	"gopkg.in/yaml.v3"

	"go.viam.com/fieldpath/motionplan"
)

// Robot describes the rigid body traveling the path, in physical units.
// WheelOffset is the distance from the wheel-axis center to the forward tip
// used for tip-frame projection; when omitted it defaults to Length/2.
type Robot struct {
	Width       float64 `json:"width" yaml:"width"`
	Length      float64 `json:"length" yaml:"length"`
	WheelOffset float64 `json:"wheelOffset,omitempty" yaml:"wheel_offset,omitempty"`
}

// Validate ensures all parts of the config are valid and applies defaults.
func (r *Robot) Validate(path string) error {
	if r.Width <= 0 {
		return goutils.NewConfigValidationFieldRequiredError(path, "width")
	}
	if r.Length <= 0 {
		return goutils.NewConfigValidationFieldRequiredError(path, "length")
	}
	if r.WheelOffset < 0 {
		return goutils.NewConfigValidationError(path, errors.New("wheel_offset cannot be negative"))
	}
	if r.WheelOffset == 0 {
		r.WheelOffset = r.Length / 2
	}
	return nil
}

// Field describes the drawing surface and its pixel scale.
type Field struct {
	WidthPx  float64          `json:"widthPx" yaml:"width_px"`
	HeightPx float64          `json:"heightPx" yaml:"height_px"`
	Scale    motionplan.Scale `json:"scale" yaml:"scale"`
}

// Validate ensures all parts of the config are valid.
func (f *Field) Validate(path string) error {
	if f.WidthPx <= 0 {
		return goutils.NewConfigValidationFieldRequiredError(path, "width_px")
	}
	if f.HeightPx <= 0 {
		return goutils.NewConfigValidationFieldRequiredError(path, "height_px")
	}
	if f.Scale.PxPerUnit <= 0 {
		return goutils.NewConfigValidationFieldRequiredError(path, "scale.px_per_unit")
	}
	return nil
}

// Collision configures the interactive collision checks.
type Collision struct {
	Enabled bool    `json:"enabled" yaml:"enabled"`
	Padding float64 `json:"padding" yaml:"padding"`
}

// Server is the top-level configuration for fieldpath-server.
type Server struct {
	BindAddress   string    `yaml:"bind_address"`
	Field         Field     `yaml:"field"`
	Robot         Robot     `yaml:"robot"`
	Collision     Collision `yaml:"collision"`
	PlaybackSpeed float64   `yaml:"playback_speed"`
}

// Validate ensures all parts of the config are valid and applies defaults.
func (c *Server) Validate() error {
	if c.BindAddress == "" {
		c.BindAddress = ":8080"
	}
	if c.PlaybackSpeed <= 0 {
		c.PlaybackSpeed = 1
	}
	if err := c.Field.Validate("field"); err != nil {
		return err
	}
	if err := c.Robot.Validate("robot"); err != nil {
		return err
	}
	if c.Collision.Padding < 0 {
		return goutils.NewConfigValidationError("collision", errors.New("padding cannot be negative"))
	}
	return nil
}

// ReadServerConfig loads and validates a YAML server config from disk.
func ReadServerConfig(path string) (*Server, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read config %q", path)
	}
	var cfg Server
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrapf(err, "cannot parse config %q", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
