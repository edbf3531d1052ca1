// Package helix plans helical sweep paths from pitch geometry.
//
// All functions are pure: a Path is a value describing one helix and carries
// no backend state.
package helix

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/wormgearcad/wormgear"
)

// Path describes a single helix for a sweep operation.
type Path struct {
	Pitch  float64 // axial advance per turn (the lead)
	Height float64 // total axial extent of the helix
	Radius float64 // helix radius, normally the pitch radius
	Phase  float64 // starting angle in degrees about the axis
	Dir    r3.Vec  // +Z for right hand, -Z for left hand
}

// Turns is the number of complete turns needed to cover length, with one
// extra turn of margin so the swept solid fully covers the trimmed length.
func Turns(length, lead float64) int {
	return int(math.Ceil(length/lead)) + 1
}

// Twist is the rotation in degrees that a helix with the given lead angle
// accumulates over an axial span at the given radius.
func Twist(span, leadAngleDeg, radius float64) float64 {
	rad := span * math.Tan(leadAngleDeg*math.Pi/180) / radius
	return rad * 180 / math.Pi
}

// StartPhase is the angular offset in degrees of thread start i of starts.
func StartPhase(i, starts int) (float64, error) {
	if starts < 1 {
		return 0, fmt.Errorf("helix: starts %d, want at least 1", starts)
	}
	if i < 0 || i >= starts {
		return 0, fmt.Errorf("helix: start index %d out of range [0,%d)", i, starts)
	}
	return 360 / float64(starts) * float64(i), nil
}

// New plans the helix for thread start i of a worm trimmed to length.
func New(w wormgear.WormParams, length float64, i int) (Path, error) {
	phase, err := StartPhase(i, w.NumStarts)
	if err != nil {
		return Path{}, err
	}
	return Path{
		Pitch:  w.Lead,
		Height: float64(Turns(length, w.Lead)) * w.Lead,
		Radius: w.PitchDiameter / 2,
		Phase:  phase,
		Dir:    r3.Vec{Z: w.Hand.Sign()},
	}, nil
}
