// Package wheel composes lofted, twisted tooth-space cuts and a toroidal
// throat into a worm wheel construction plan.
package wheel

import (
	"fmt"
	"math"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/wormgearcad/wormgear"
	"github.com/wormgearcad/wormgear/helix"
	"github.com/wormgearcad/wormgear/plan"
	"github.com/wormgearcad/wormgear/profile"
)

const (
	// cutExtension is how far tooth-space cuts run past each wheel face.
	cutExtension = 0.5
	// defaultThroatClearance is the radial allowance between the worm tip
	// envelope and the throat surface.
	defaultThroatClearance = 0.1
	// flankPoints is the per-flank sample count of each section profile.
	flankPoints = 5
)

// Builder plans a worm wheel: a tip-diameter blank with one twisted
// tooth-space cut per tooth and a toroidal throat matched to the worm.
type Builder struct {
	Params   wormgear.WheelParams
	Worm     wormgear.WormParams
	Assembly wormgear.AssemblyParams
	// FaceWidth overrides the derived face width when positive.
	FaceWidth float64
	// ThroatClearance overrides defaultThroatClearance when positive.
	ThroatClearance float64
	Logger          *zap.Logger
}

// Width resolves the wheel face width: the supplied value, or
// 0.73*d1^(1/3)*sqrt(ratio) clamped into [0.3*d1, 0.67*d1] where d1 is the
// worm pitch diameter.
func (b *Builder) Width() float64 {
	if b.FaceWidth > 0 {
		return b.FaceWidth
	}
	d1 := b.Worm.PitchDiameter
	w := 0.73 * math.Cbrt(d1) * math.Sqrt(float64(b.Assembly.Ratio))
	return math.Max(0.3*d1, math.Min(0.67*d1, w))
}

func (b *Builder) clearance() float64 {
	if b.ThroatClearance > 0 {
		return b.ThroatClearance
	}
	return defaultThroatClearance
}

// Sections is the number of loft cross-sections per tooth space for a total
// twist in degrees: at least 8, and at least one section per 5 degrees.
func Sections(twistDeg float64) int {
	n := int(math.Abs(twistDeg)/5) + 1
	if n < 8 {
		n = 8
	}
	return n
}

// Plan emits the wheel construction plan. Each tooth-space cut is
// independent and recoverable: a rare degenerate slice is skipped with an
// advisory rather than aborting the wheel. The blank and the throat cut are
// structural and fatal on failure.
func (b *Builder) Plan() (*plan.Plan, error) {
	wh := b.Params
	width := b.Width()
	pitchR := wh.PitchDiameter / 2

	local, err := profile.ToothSpace(wh, b.Assembly, flankPoints)
	if err != nil {
		return nil, err
	}

	// The wheel twist follows the worm lead angle so the flanks mesh.
	twist := helix.Twist(width, b.Worm.LeadAngle, pitchR)
	cutHeight := width + 2*cutExtension
	numSections := Sections(twist)

	p := plan.New()
	if pa := b.Assembly.PressureAngle; pa < 14.5 || pa > 25 {
		p.Advise("pressure-angle", fmt.Sprintf(
			"pressure angle %g° is outside the typical 14.5–25° band", pa))
	}
	acc := p.Cylinder(wh.TipDiameter/2, width, true, "wheel blank")

	for i := 0; i < wh.NumTeeth; i++ {
		base := 360 / float64(wh.NumTeeth) * float64(i)
		sections := make([]plan.Ref, numSections)
		zs := make([]float64, numSections)
		for s := 0; s < numSections; s++ {
			t := float64(s) / float64(numSections-1)
			zs[s] = -cutHeight/2 + t*cutHeight
			rot := -twist/2 + t*twist
			pts := profile.Place(local, pitchR, base+rot)
			sections[s] = p.Polygon(pts, fmt.Sprintf("tooth space %d section %d", i, s))
		}
		space := p.Loft(sections, zs, true, fmt.Sprintf("tooth space %d", i))
		acc = p.Subtract(acc, space, true, fmt.Sprintf("cut tooth space %d", i))
	}

	// Throating: revolve the worm tip circle, placed at the centre
	// distance, about the wheel axis and subtract the torus.
	throat := p.Circle(b.Worm.TipDiameter/2+b.clearance(),
		r2.Vec{X: b.Assembly.CentreDistance}, "throat profile")
	torus := p.Revolve(throat, "throat torus")
	acc = p.Subtract(acc, torus, false, "throat cut")

	p.SetResult(p.SelectLargest(acc, "resolve single solid"))
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
