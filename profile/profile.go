// Package profile computes 2D cross-section polygons for worm threads and
// wheel tooth spaces.
//
// Profiles are closed polygons in a local (radial, tangential-or-axial)
// frame: x is the radial offset from the pitch line, positive outward.
// Vertices wind counterclockwise. Callers place them onto 3D construction
// planes.
package profile

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/wormgearcad/wormgear"
)

// Margin is how far tooth-space cuts extend radially beyond the root and tip
// circles so boolean subtractions leave clean edges.
const Margin = 0.3

// rootFloorFactor keeps the tooth-space root from collapsing at coarse
// pressure angles: width at root never drops below this fraction of module.
const rootFloorFactor = 0.1

func tanDeg(deg float64) float64 { return math.Tan(deg * math.Pi / 180) }

// Trapezoid returns the worm thread axial profile, a trapezoid symmetric
// about the pitch line. Vertices are (radial, axial) with x=0 on the pitch
// cylinder. A *wormgear.GeometryError is returned when the combination of
// pressure angle, addendum and dedendum degenerates the thread.
func Trapezoid(w wormgear.WormParams, a wormgear.AssemblyParams) ([]r2.Vec, error) {
	pitchThick := w.ThreadThick - a.Backlash
	tipHalf := pitchThick/2 - w.Addendum*tanDeg(a.PressureAngle)
	rootHalf := pitchThick/2 + w.Dedendum*tanDeg(a.PressureAngle)
	if tipHalf <= 0 {
		return nil, &wormgear.GeometryError{Op: "thread profile",
			Msg: "tip width is not positive; thread crest vanishes"}
	}
	if rootHalf <= 0 {
		return nil, &wormgear.GeometryError{Op: "thread profile",
			Msg: "root width is not positive"}
	}
	return []r2.Vec{
		{X: w.Addendum, Y: -tipHalf},
		{X: w.Addendum, Y: tipHalf},
		{X: -w.Dedendum, Y: rootHalf},
		{X: -w.Dedendum, Y: -rootHalf},
	}, nil
}

// SpaceWidths returns the tooth-space widths of a wheel at the pitch, tip and
// root circles. The root width is floored at a tenth of the module.
func SpaceWidths(wh wormgear.WheelParams, a wormgear.AssemblyParams) (pitch, tip, root float64) {
	pitchR := wh.PitchDiameter / 2
	tipR := wh.TipDiameter / 2
	rootR := wh.RootDiameter / 2
	circularPitch := math.Pi * wh.Module
	pitch = circularPitch/2 + a.Backlash
	tip = pitch + 2*(tipR-pitchR)*tanDeg(a.PressureAngle)
	root = pitch - 2*(pitchR-rootR)*tanDeg(a.PressureAngle)
	root = math.Max(rootFloorFactor*wh.Module, root)
	return pitch, tip, root
}

// FlankHalfWidth evaluates the tooth-space half-width at normalized radial
// position t in [0,1] between root and tip. A parabolic bulge on top of the
// linear interpolation approximates the involute flank curvature.
func FlankHalfWidth(halfRoot, halfTip, t float64) float64 {
	linear := halfRoot + t*(halfTip-halfRoot)
	bulge := 4 * t * (1 - t) * 0.05 * (halfRoot - halfTip)
	return linear + bulge
}

// ToothSpace returns one wheel tooth-space cross-section sampled with k
// points per flank (k is raised to 5 when smaller). Vertices are
// (radial, tangential) with x=0 on the pitch cylinder; the slice spans from
// Margin below the root circle to Margin above the tip circle.
func ToothSpace(wh wormgear.WheelParams, a wormgear.AssemblyParams, k int) ([]r2.Vec, error) {
	if k < 5 {
		k = 5
	}
	_, tipW, rootW := SpaceWidths(wh, a)
	halfTip, halfRoot := tipW/2, rootW/2
	if halfTip <= 0 {
		return nil, &wormgear.GeometryError{Op: "tooth space profile",
			Msg: "tip width is not positive"}
	}

	pitchR := wh.PitchDiameter / 2
	inner := wh.RootDiameter/2 - pitchR - Margin
	outer := wh.TipDiameter/2 + Margin - pitchR

	pts := make([]r2.Vec, 0, 2*k)
	// Left flank, root to tip.
	for j := 0; j < k; j++ {
		t := float64(j) / float64(k-1)
		r := inner + t*(outer-inner)
		pts = append(pts, r2.Vec{X: r, Y: -FlankHalfWidth(halfRoot, halfTip, t)})
	}
	// Right flank, tip back to root. The straight edges at tip and root
	// close the polygon.
	for j := k - 1; j >= 0; j-- {
		t := float64(j) / float64(k-1)
		r := inner + t*(outer-inner)
		pts = append(pts, r2.Vec{X: r, Y: FlankHalfWidth(halfRoot, halfTip, t)})
	}
	return pts, nil
}

// Place maps a local (radial, tangential) profile onto the global XY plane
// for a tooth centred at angleDeg about the wheel axis, with the pitch
// radius at the local origin.
func Place(pts []r2.Vec, pitchRadius, angleDeg float64) []r2.Vec {
	ang := angleDeg * math.Pi / 180
	sin, cos := math.Sincos(ang)
	out := make([]r2.Vec, len(pts))
	for i, p := range pts {
		r := pitchRadius + p.X
		out[i] = r2.Vec{
			X: cos*r - sin*p.Y,
			Y: sin*r + cos*p.Y,
		}
	}
	return out
}
