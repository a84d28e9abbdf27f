// Package mission owns the persisted mission file framing: a JSON document
// bundling the field key, grid, robot dimensions, initial pose and the drawn
// sections. The engine's only contract with it is that sections and initial
// pose round-trip losslessly through recalculation after deserialization.
package mission

import (
	"encoding/json"
	"io"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/fieldpath/config"
	"go.viam.com/fieldpath/motionplan"
	"go.viam.com/fieldpath/spatialmath"
	"go.viam.com/fieldpath/utils"
)

// CurrentVersion is the mission file schema version written by Save.
const CurrentVersion = 2

// Grid is the display grid configuration carried in the file for the host UI.
type Grid struct {
	SpacingPx float64 `json:"spacingPx"`
	Show      bool    `json:"show"`
}

// Pose is the JSON framing of a pose, with the heading in degrees as authored
// by the host UI.
type Pose struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	HeadingDeg float64 `json:"headingDeg"`
}

// ToSpatial converts the framing into the engine pose type.
func (p Pose) ToSpatial() spatialmath.Pose {
	return spatialmath.NewPose(p.X, p.Y, utils.DegToRad(p.HeadingDeg))
}

// FromSpatial converts an engine pose into its JSON framing.
func FromSpatial(p spatialmath.Pose) Pose {
	return Pose{X: p.Point.X, Y: p.Point.Y, HeadingDeg: utils.RadToDeg(p.Heading)}
}

// File is one persisted mission.
type File struct {
	Version     int                   `json:"version"`
	FieldKey    string                `json:"fieldKey"`
	Grid        Grid                  `json:"grid"`
	Robot       config.Robot          `json:"robot"`
	InitialPose Pose                  `json:"initialPose"`
	Sections    []*motionplan.Section `json:"sections"`
	Unit        string                `json:"unit"`
}

// Validate checks the fields the engine depends on, aggregating every
// problem found rather than stopping at the first.
func (f *File) Validate() error {
	var err error
	if f.Version <= 0 || f.Version > CurrentVersion {
		err = multierr.Append(err, errors.Errorf("unsupported mission version %d", f.Version))
	}
	if f.FieldKey == "" {
		err = multierr.Append(err, errors.New("fieldKey is required"))
	}
	if f.Unit == "" {
		err = multierr.Append(err, errors.New("unit is required"))
	}
	seen := map[string]bool{}
	for i, sec := range f.Sections {
		if sec == nil {
			err = multierr.Append(err, errors.Errorf("section %d is null", i))
			continue
		}
		if sec.ID == "" {
			err = multierr.Append(err, errors.Errorf("section %d has no id", i))
		} else if seen[sec.ID] {
			err = multierr.Append(err, errors.Errorf("duplicate section id %q", sec.ID))
		}
		seen[sec.ID] = true
	}
	return err
}

// Decode reads and validates a mission file.
func Decode(r io.Reader) (*File, error) {
	var f File
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, errors.Wrap(err, "cannot decode mission file")
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Encode writes the mission as indented JSON.
func (f *File) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(f), "cannot encode mission file")
}

// Restore rebuilds the engine state a mission file describes: the sections
// are recalculated from the stored initial pose so derived actions and
// heading caches are consistent regardless of what the file carried.
func (f *File) Restore(scale motionplan.Scale) ([]*motionplan.Section, spatialmath.Pose) {
	initial := f.InitialPose.ToSpatial()
	return motionplan.Recalculate(f.Sections, initial, scale), initial
}
