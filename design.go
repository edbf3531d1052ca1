// Package wormgear holds the dimensional design model for a worm gear pair.
//
// The model is produced by an upstream gear calculator and consumed read-only
// by the geometry builders. All lengths are millimetres, all angles degrees.
package wormgear

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Hand is the direction of a helix thread.
type Hand string

const (
	Right Hand = "RIGHT"
	Left  Hand = "LEFT"
)

// Sign returns +1 for a right-hand helix and -1 for a left-hand helix.
func (h Hand) Sign() float64 {
	if h == Left {
		return -1
	}
	return 1
}

func (h Hand) valid() bool { return h == Right || h == Left }

// WormParams describes the worm (the driving screw).
type WormParams struct {
	Module        float64 `json:"module_mm"`
	NumStarts     int     `json:"num_starts"`
	PitchDiameter float64 `json:"pitch_diameter_mm"`
	TipDiameter   float64 `json:"tip_diameter_mm"`
	RootDiameter  float64 `json:"root_diameter_mm"`
	Lead          float64 `json:"lead_mm"`
	LeadAngle     float64 `json:"lead_angle_deg"`
	Addendum      float64 `json:"addendum_mm"`
	Dedendum      float64 `json:"dedendum_mm"`
	ThreadThick   float64 `json:"thread_thickness_mm"`
	Hand          Hand    `json:"hand"`
	ProfileShift  float64 `json:"profile_shift"`
}

// WheelParams describes the mating worm wheel.
type WheelParams struct {
	Module         float64 `json:"module_mm"`
	NumTeeth       int     `json:"num_teeth"`
	PitchDiameter  float64 `json:"pitch_diameter_mm"`
	TipDiameter    float64 `json:"tip_diameter_mm"`
	RootDiameter   float64 `json:"root_diameter_mm"`
	ThroatDiameter float64 `json:"throat_diameter_mm"`
	HelixAngle     float64 `json:"helix_angle_deg"`
	Addendum       float64 `json:"addendum_mm"`
	Dedendum       float64 `json:"dedendum_mm"`
	ProfileShift   float64 `json:"profile_shift"`
}

// AssemblyParams describes how worm and wheel mesh.
type AssemblyParams struct {
	CentreDistance float64  `json:"centre_distance_mm"`
	PressureAngle  float64  `json:"pressure_angle_deg"`
	Backlash       float64  `json:"backlash_mm"`
	Hand           Hand     `json:"hand"`
	Ratio          int      `json:"ratio"`
	Efficiency     *float64 `json:"efficiency_percent,omitempty"`
	SelfLocking    *bool    `json:"self_locking,omitempty"`
}

// Design is a complete worm gear pair design. It is created once from
// calculator output and never mutated afterwards.
type Design struct {
	Worm     WormParams     `json:"worm"`
	Wheel    WheelParams    `json:"wheel"`
	Assembly AssemblyParams `json:"assembly"`
}

// Validate checks the dimensional consistency of the whole design.
// It returns a *ValidationError naming the first offending field.
func (d *Design) Validate() error {
	w, wh, a := &d.Worm, &d.Wheel, &d.Assembly
	switch {
	case w.Module <= 0:
		return &ValidationError{"worm.module_mm", "must be positive"}
	case w.NumStarts < 1:
		return &ValidationError{"worm.num_starts", "must be at least 1"}
	case w.PitchDiameter <= 0:
		return &ValidationError{"worm.pitch_diameter_mm", "must be positive"}
	case w.TipDiameter <= w.PitchDiameter:
		return &ValidationError{"worm.tip_diameter_mm", "must exceed pitch diameter"}
	case w.RootDiameter <= 0 || w.RootDiameter >= w.PitchDiameter:
		return &ValidationError{"worm.root_diameter_mm", "must be positive and below pitch diameter"}
	case w.Lead <= 0:
		return &ValidationError{"worm.lead_mm", "must be positive"}
	case w.Addendum <= 0:
		return &ValidationError{"worm.addendum_mm", "must be positive"}
	case w.Dedendum <= 0:
		return &ValidationError{"worm.dedendum_mm", "must be positive"}
	case w.ThreadThick <= 0:
		return &ValidationError{"worm.thread_thickness_mm", "must be positive"}
	case !w.Hand.valid():
		return &ValidationError{"worm.hand", `must be "RIGHT" or "LEFT"`}
	}
	switch {
	case wh.Module <= 0:
		return &ValidationError{"wheel.module_mm", "must be positive"}
	case wh.NumTeeth < 3:
		return &ValidationError{"wheel.num_teeth", "must be at least 3"}
	case wh.TipDiameter <= wh.PitchDiameter:
		return &ValidationError{"wheel.tip_diameter_mm", "must exceed pitch diameter"}
	case wh.RootDiameter <= 0 || wh.RootDiameter >= wh.PitchDiameter:
		return &ValidationError{"wheel.root_diameter_mm", "must be positive and below pitch diameter"}
	}
	switch {
	case a.CentreDistance <= 0:
		return &ValidationError{"assembly.centre_distance_mm", "must be positive"}
	case a.PressureAngle <= 0 || a.PressureAngle >= 45:
		return &ValidationError{"assembly.pressure_angle_deg", "must be in (0, 45)"}
	case a.Backlash < 0:
		return &ValidationError{"assembly.backlash_mm", "must not be negative"}
	case !a.Hand.valid():
		return &ValidationError{"assembly.hand", `must be "RIGHT" or "LEFT"`}
	case a.Hand != w.Hand:
		return &ValidationError{"assembly.hand", "does not match worm hand"}
	case a.Ratio < 1:
		return &ValidationError{"assembly.ratio", "must be at least 1"}
	case wh.NumTeeth != a.Ratio*w.NumStarts:
		return &ValidationError{"wheel.num_teeth",
			fmt.Sprintf("is %d, want ratio*starts = %d", wh.NumTeeth, a.Ratio*w.NumStarts)}
	}
	return nil
}

// LoadDesign reads calculator JSON from r. Exports that nest the three
// sections under a "design" key are unwrapped transparently. The returned
// design is already validated.
func LoadDesign(r io.Reader) (*Design, error) {
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode design: %w", err)
	}
	if inner, ok := raw["design"]; ok {
		if err := json.Unmarshal(inner, &raw); err != nil {
			return nil, fmt.Errorf("decode design wrapper: %w", err)
		}
	}
	for _, section := range []string{"worm", "wheel", "assembly"} {
		if _, ok := raw[section]; !ok {
			return nil, &ValidationError{section, "section missing from design JSON"}
		}
	}
	var d Design
	blob, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(blob, &d); err != nil {
		return nil, fmt.Errorf("decode design: %w", err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// LoadDesignFile reads and validates a design JSON file.
func LoadDesignFile(path string) (*Design, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fp.Close()
	return LoadDesign(fp)
}
