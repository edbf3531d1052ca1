// Package features sizes and places bore, keyway and set-screw cuts on worm
// and wheel parts.
//
// Features are applied in a strict order: bore, then keyway, then set
// screws. A keyway or set screw without a bore is a configuration error.
package features

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/wormgearcad/wormgear"
	"github.com/wormgearcad/wormgear/plan"
)

const (
	// boreOverrun is how far a through bore extends past each face so the
	// cut never leaves a coincident-face sliver.
	boreOverrun = 1.0
	// thinRimLimit is the rim thickness below which AutoBore warns.
	thinRimLimit = 1.5
)

// Bore is a centre hole. Through bores span the whole part; blind bores
// need a Depth.
type Bore struct {
	Diameter float64
	Through  bool
	Depth    float64
}

// NewBore returns a validated through bore.
func NewBore(diameter float64) (*Bore, error) {
	b := &Bore{Diameter: diameter, Through: true}
	return b, b.Validate()
}

// NewBlindBore returns a validated bore of fixed depth.
func NewBlindBore(diameter, depth float64) (*Bore, error) {
	b := &Bore{Diameter: diameter, Depth: depth}
	return b, b.Validate()
}

func (b *Bore) Validate() error {
	if b.Diameter <= 0 {
		return &wormgear.ValidationError{Field: "bore.diameter", Msg: "must be positive"}
	}
	if !b.Through && b.Depth <= 0 {
		return &wormgear.ValidationError{Field: "bore.depth", Msg: "required for a blind bore"}
	}
	return nil
}

// Keyway is a DIN 6885 keyway. Zero Width/Depth/Length are resolved from
// the bore via the standard table and the part length. Shaft selects the
// shaft depth t1 (worm) over the hub depth t2 (wheel).
type Keyway struct {
	Width  float64
	Depth  float64
	Length float64
	Shaft  bool
}

// Dimensions resolves keyway width and depth for a bore diameter,
// consulting DIN 6885 for whichever of the two was not given.
func (k *Keyway) Dimensions(bore float64) (width, depth float64, err error) {
	width, depth = k.Width, k.Depth
	if width > 0 && depth > 0 {
		return width, depth, nil
	}
	size, err := DIN6885(bore)
	if err != nil {
		return 0, 0, err
	}
	if width <= 0 {
		width = size.Width
	}
	if depth <= 0 {
		if k.Shaft {
			depth = size.ShaftDepth
		} else {
			depth = size.HubDepth
		}
	}
	return width, depth, nil
}

// SetScrew is a radial grub-screw hole pattern. Zero Diameter is resolved
// from the bore. Count holes are spread evenly starting at AngularOffset.
type SetScrew struct {
	Size          string
	Diameter      float64
	Count         int
	AngularOffset float64
}

// NewSetScrew returns a validated set screw pattern at the default offset,
// 90 degrees away from the keyway position.
func NewSetScrew(count int) (*SetScrew, error) {
	s := &SetScrew{Count: count, AngularOffset: 90}
	return s, s.Validate()
}

func (s *SetScrew) Validate() error {
	if s.Count < 1 || s.Count > 3 {
		return &wormgear.ValidationError{Field: "set_screw.count",
			Msg: fmt.Sprintf("is %d, must be 1 to 3", s.Count)}
	}
	if s.Diameter < 0 {
		return &wormgear.ValidationError{Field: "set_screw.diameter", Msg: "must be positive"}
	}
	return nil
}

// Spec resolves the screw size, auto-sizing from the bore when not given.
func (s *SetScrew) Spec(bore float64) (ScrewSize, error) {
	if s.Diameter > 0 {
		name := s.Size
		if name == "" {
			name = fmt.Sprintf("M%g", s.Diameter)
		}
		return ScrewSize{Name: name, Diameter: s.Diameter}, nil
	}
	return SetScrewSize(bore)
}

// Angles lists the hole positions in degrees.
func (s *SetScrew) Angles() []float64 {
	step := 360 / float64(s.Count)
	angles := make([]float64, s.Count)
	for i := range angles {
		angles[i] = s.AngularOffset + float64(i)*step
	}
	return angles
}

// AutoBore picks a bore diameter for a gear from its pitch and root
// diameters: about a quarter of the pitch diameter, at least 2mm, leaving a
// rim of at least an eighth of the root diameter (1mm floor) per side, and
// rounded to 0.5mm below 12mm else 1mm. ok is false when the gear is too
// small for any practical bore; thinRim warns of a rim under 1.5mm.
func AutoBore(pitchD, rootD float64) (diameter float64, ok, thinRim bool) {
	const minBore = 2.0
	target := 0.25 * pitchD
	minRim := math.Max(0.125*rootD, 1.0)
	maxBore := rootD - 2*minRim
	if maxBore < minBore {
		return 0, false, false
	}
	bore := math.Max(minBore, math.Min(target, maxBore))
	if bore < 12 {
		bore = math.Round(bore*2) / 2
	} else {
		bore = math.Round(bore)
	}
	bore = math.Max(minBore, math.Min(bore, maxBore))
	return bore, true, (rootD-bore)/2 < thinRimLimit
}

// Apply emits the feature cuts onto part, in the enforced bore, keyway,
// set-screw order, and returns the new accumulator. partLength is the part
// extent along the bore axis (the z axis, part centered on the origin);
// partRadius is the outer radius, which set-screw holes must pierce.
func Apply(p *plan.Plan, part plan.Ref, partLength, partRadius float64, bore *Bore, kw *Keyway, ss *SetScrew) (plan.Ref, error) {
	if bore == nil {
		if kw != nil {
			return part, &wormgear.ConfigurationError{Msg: "keyway requires a bore"}
		}
		if ss != nil {
			return part, &wormgear.ConfigurationError{Msg: "set screw requires a bore"}
		}
		return part, nil
	}
	if err := bore.Validate(); err != nil {
		return part, err
	}
	boreR := bore.Diameter / 2

	if bore.Through {
		cyl := p.Cylinder(boreR, partLength+2*boreOverrun, true, "through bore")
		part = p.Subtract(part, cyl, false, "bore cut")
	} else {
		// A blind cut from the top face, overrunning it by boreOverrun.
		h := bore.Depth + boreOverrun
		cyl := p.Cylinder(boreR, h, true, "blind bore")
		cyl = p.Translate(cyl, r3.Vec{Z: partLength/2 + (boreOverrun-bore.Depth)/2}, "place blind bore")
		part = p.Subtract(part, cyl, false, "bore cut")
	}

	if kw != nil {
		width, depth, err := kw.Dimensions(bore.Diameter)
		if err != nil {
			return part, err
		}
		length := kw.Length
		if length <= 0 {
			length = partLength
		}
		// The prism spans from the axis past the bore wall so the cut
		// intersects the bore cleanly instead of grazing it.
		box := p.Box(boreR+depth, width, length+boreOverrun, true, "keyway prism")
		box = p.Translate(box, r3.Vec{X: (boreR + depth) / 2}, "place keyway")
		part = p.Subtract(part, box, false, "keyway cut")
	}

	if ss != nil {
		if err := ss.Validate(); err != nil {
			return part, err
		}
		if partRadius <= boreR {
			return part, &wormgear.ConfigurationError{
				Msg: fmt.Sprintf("part radius %gmm does not clear the %gmm bore, no wall to thread",
					partRadius, bore.Diameter)}
		}
		spec, err := ss.Spec(bore.Diameter)
		if err != nil {
			return part, err
		}
		// Drilled from outside the part inward: the hole runs from the
		// axis to past the outer surface, piercing the bore wall.
		holeLen := partRadius + boreOverrun
		for i, angle := range ss.Angles() {
			label := fmt.Sprintf("set screw %s hole %d", spec.Name, i)
			hole := p.Cylinder(spec.Diameter/2, holeLen, true, label)
			hole = p.Rotate(hole, plan.AxisY, 90, "orient "+label)
			hole = p.Translate(hole, r3.Vec{X: holeLen / 2}, "extend "+label)
			hole = p.Rotate(hole, plan.AxisZ, angle, "place "+label)
			part = p.Subtract(part, hole, false, label+" cut")
		}
	}
	return part, nil
}
