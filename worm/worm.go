// Package worm composes the thread profile and helical paths into a worm
// construction plan.
package worm

import (
	"fmt"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/wormgearcad/wormgear"
	"github.com/wormgearcad/wormgear/helix"
	"github.com/wormgearcad/wormgear/plan"
	"github.com/wormgearcad/wormgear/profile"
)

// DefaultLength is the worm length used when the caller supplies none.
const DefaultLength = 40.0

// Builder plans a worm solid: a root-diameter core with one helical thread
// per start, trimmed to the requested length.
type Builder struct {
	Params   wormgear.WormParams
	Assembly wormgear.AssemblyParams
	// Length is the net axial length of the finished worm. Zero selects
	// DefaultLength.
	Length float64
	Logger *zap.Logger
}

func (b *Builder) length() float64 {
	if b.Length <= 0 {
		return DefaultLength
	}
	return b.Length
}

// Plan emits the worm construction plan. Thread sweeps are structural: a
// degenerate sweep is not recoverable, since a worm missing a start cannot
// mesh.
func (b *Builder) Plan() (*plan.Plan, error) {
	w := b.Params
	length := b.length()

	prof, err := profile.Trapezoid(w, b.Assembly)
	if err != nil {
		return nil, err
	}
	// The sweep convention puts the axial direction on x and the distance
	// from the worm axis on y; the profile is computed about the pitch
	// line in (radial, axial).
	swept := make([]r2.Vec, len(prof))
	for i, pt := range prof {
		swept[i] = r2.Vec{X: pt.Y, Y: w.PitchDiameter/2 + pt.X}
	}

	p := plan.New()
	if pa := b.Assembly.PressureAngle; pa < 14.5 || pa > 25 {
		p.Advise("pressure-angle", fmt.Sprintf(
			"pressure angle %g° is outside the typical 14.5–25° band", pa))
	}
	acc := p.Cylinder(w.RootDiameter/2, length, true, "worm core")

	for i := 0; i < w.NumStarts; i++ {
		hx, err := helix.New(w, length, i)
		if err != nil {
			return nil, err
		}
		face := p.Polygon(swept, fmt.Sprintf("thread profile %d", i))
		path := p.Helix(hx.Pitch, hx.Height, hx.Radius, hx.Phase, hx.Dir,
			fmt.Sprintf("thread helix %d", i))
		thread := p.Sweep(face, path, fmt.Sprintf("thread sweep %d", i))
		acc = p.Union(acc, thread, fmt.Sprintf("merge thread %d", i))
	}

	// Over-length helix turns are clipped to the net length.
	box := p.Box(w.TipDiameter, w.TipDiameter, length, true, "trim box")
	acc = p.Intersect(acc, box, "trim to length")
	p.SetResult(acc)
	return p, nil
}

// Build plans and executes against a backend.
func (b *Builder) Build(backend plan.Backend) (plan.Solid, *plan.Report, error) {
	p, err := b.Plan()
	if err != nil {
		return nil, nil, err
	}
	return plan.Execute(backend, p, b.Logger)
}
