package features

import (
	"errors"
	"testing"

	"github.com/wormgearcad/wormgear"
	"github.com/wormgearcad/wormgear/plan"
)

func TestAutoBore(t *testing.T) {
	for _, tc := range []struct {
		name          string
		pitchD, rootD float64
		want          float64
		ok, thinRim   bool
	}{
		// quarter of pitch = 5.0, rim (15-5)/2 = 5 is comfortable
		{"worm m2", 20, 15, 5.0, true, false},
		// wheel: quarter of pitch = 15, rim cap allows it
		{"wheel m2 z30", 60, 55, 15, true, false},
		// tiny pinion: no room for a 2mm bore with a 1mm rim
		{"too small", 4, 3.5, 0, false, false},
		// rim floor of an eighth of root: maxBore = 24 - 2*3 = 18 < 20
		{"rim capped", 80, 24, 18, true, false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			d, ok, thin := AutoBore(tc.pitchD, tc.rootD)
			if ok != tc.ok || d != tc.want || thin != tc.thinRim {
				t.Errorf("AutoBore(%v, %v) = (%v, %v, %v), want (%v, %v, %v)",
					tc.pitchD, tc.rootD, d, ok, thin, tc.want, tc.ok, tc.thinRim)
			}
		})
	}
}

func TestAutoBoreRounding(t *testing.T) {
	// target 0.25*21.3 = 5.325 rounds to the nearest half millimetre
	d, ok, _ := AutoBore(21.3, 16)
	if !ok || d != 5.5 {
		t.Errorf("AutoBore(21.3, 16) = %v, want 5.5", d)
	}
	// above 12mm the grid is whole millimetres: 0.25*66 = 16.5 -> 17,
	// within maxBore 60-2*7.5 = 45
	d, ok, _ = AutoBore(66, 60)
	if !ok || d != 17 {
		t.Errorf("AutoBore(66, 60) = %v, want 17", d)
	}
}

func TestDIN6885(t *testing.T) {
	size, err := DIN6885(10)
	if err != nil {
		t.Fatal(err)
	}
	if size != (KeywaySize{4, 4, 2.5, 1.8}) {
		t.Errorf("DIN6885(10) = %+v", size)
	}
	// Half-open ranges: 12 belongs to the next row up.
	size, err = DIN6885(12)
	if err != nil {
		t.Fatal(err)
	}
	if size.Width != 5 {
		t.Errorf("DIN6885(12) width = %v, want 5", size.Width)
	}

	for _, bore := range []float64{5.9, 95, 200} {
		_, err := DIN6885(bore)
		var cerr *wormgear.ConfigurationError
		if !errors.As(err, &cerr) {
			t.Errorf("DIN6885(%v) = %v, want ConfigurationError", bore, err)
		}
	}
}

func TestSetScrewSize(t *testing.T) {
	if _, err := SetScrewSize(1.9); err == nil {
		t.Error("bore under 2mm must be rejected")
	}
	size, err := SetScrewSize(10)
	if err != nil {
		t.Fatal(err)
	}
	if size.Name != "M4" || size.Diameter != 4 {
		t.Errorf("SetScrewSize(10) = %+v, want M4", size)
	}
	// Past the table the largest size is used.
	size, err = SetScrewSize(150)
	if err != nil {
		t.Fatal(err)
	}
	if size.Name != "M8" {
		t.Errorf("SetScrewSize(150) = %+v, want M8", size)
	}
}

func TestSetScrewAngles(t *testing.T) {
	s, err := NewSetScrew(2)
	if err != nil {
		t.Fatal(err)
	}
	got := s.Angles()
	if len(got) != 2 || got[0] != 90 || got[1] != 270 {
		t.Errorf("Angles = %v, want [90 270]", got)
	}

	s.Count = 3
	s.AngularOffset = 0
	got = s.Angles()
	if len(got) != 3 || got[0] != 0 || got[1] != 120 || got[2] != 240 {
		t.Errorf("Angles = %v, want [0 120 240]", got)
	}

	if _, err := NewSetScrew(4); err == nil {
		t.Error("more than 3 set screws must be rejected")
	}
	if _, err := NewSetScrew(0); err == nil {
		t.Error("zero set screws must be rejected")
	}
}

func TestKeywayDimensions(t *testing.T) {
	kw := &Keyway{}
	w, d, err := kw.Dimensions(10)
	if err != nil {
		t.Fatal(err)
	}
	if w != 4 || d != 1.8 {
		t.Errorf("hub keyway = (%v, %v), want (4, 1.8)", w, d)
	}

	kw.Shaft = true
	_, d, err = kw.Dimensions(10)
	if err != nil {
		t.Fatal(err)
	}
	if d != 2.5 {
		t.Errorf("shaft depth = %v, want t1 = 2.5", d)
	}

	// Explicit dimensions bypass the table entirely, even off-range bores.
	kw = &Keyway{Width: 3.5, Depth: 1.5}
	w, d, err = kw.Dimensions(4)
	if err != nil {
		t.Fatal(err)
	}
	if w != 3.5 || d != 1.5 {
		t.Errorf("explicit keyway = (%v, %v)", w, d)
	}

	// A partially specified keyway on an off-range bore still fails.
	kw = &Keyway{Width: 3.5}
	if _, _, err := kw.Dimensions(4); err == nil {
		t.Error("depth lookup for off-range bore must fail")
	}
}

func TestApplyOrderEnforced(t *testing.T) {
	p := plan.New()
	part := p.Cylinder(10, 20, true, "blank")

	kw := &Keyway{}
	_, err := Apply(p, part, 20, 10, nil, kw, nil)
	var cerr *wormgear.ConfigurationError
	if !errors.As(err, &cerr) {
		t.Fatalf("keyway without bore: got %v, want ConfigurationError", err)
	}

	ss, _ := NewSetScrew(1)
	_, err = Apply(p, part, 20, 10, nil, nil, ss)
	if !errors.As(err, &cerr) {
		t.Fatalf("set screw without bore: got %v, want ConfigurationError", err)
	}

	// No features at all is a no-op.
	out, err := Apply(p, part, 20, 10, nil, nil, nil)
	if err != nil || out != part {
		t.Errorf("Apply with no features = (%v, %v), want the part unchanged", out, err)
	}
}

func TestApplyCutSequence(t *testing.T) {
	p := plan.New()
	part := p.Cylinder(15, 20, true, "blank")

	bore, err := NewBore(10)
	if err != nil {
		t.Fatal(err)
	}
	ss, err := NewSetScrew(2)
	if err != nil {
		t.Fatal(err)
	}
	out, err := Apply(p, part, 20, 15, bore, &Keyway{}, ss)
	if err != nil {
		t.Fatal(err)
	}
	if out == part {
		t.Fatal("accumulator did not advance")
	}

	var subtractLabels []string
	for i := range p.Ops {
		if p.Ops[i].Kind == plan.OpSubtract {
			subtractLabels = append(subtractLabels, p.Ops[i].Label)
		}
	}
	want := []string{
		"bore cut",
		"keyway cut",
		"set screw M4 hole 0 cut",
		"set screw M4 hole 1 cut",
	}
	if len(subtractLabels) != len(want) {
		t.Fatalf("subtract labels = %v, want %v", subtractLabels, want)
	}
	for i := range want {
		if subtractLabels[i] != want[i] {
			t.Errorf("cut %d = %q, want %q", i, subtractLabels[i], want[i])
		}
	}

	// The through bore spans the part plus overrun at both faces.
	boreOp := p.Ops[1]
	if boreOp.Kind != plan.OpCylinder || boreOp.Radius != 5 || boreOp.Height != 22 {
		t.Errorf("bore cylinder = %+v, want r=5 h=22", boreOp)
	}
}

// Set-screw holes are drilled from outside the part: on a wheel whose outer
// radius is far beyond the bore wall, the cut must still pierce the surface.
func TestApplySetScrewReachesSurface(t *testing.T) {
	const (
		partRadius = 32.0
		boreD      = 10.0
	)
	p := plan.New()
	part := p.Cylinder(partRadius, 10, true, "blank")
	bore, err := NewBore(boreD)
	if err != nil {
		t.Fatal(err)
	}
	ss, err := NewSetScrew(1)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Apply(p, part, 10, partRadius, bore, nil, ss); err != nil {
		t.Fatal(err)
	}

	var hole, place *plan.Op
	for i := range p.Ops {
		switch p.Ops[i].Kind {
		case plan.OpCylinder:
			if p.Ops[i].Label != "blank" && p.Ops[i].Label != "through bore" {
				hole = &p.Ops[i]
			}
		case plan.OpTranslate:
			place = &p.Ops[i]
		}
	}
	if hole == nil || place == nil {
		t.Fatal("no set screw hole in plan")
	}
	// The hole spans from the axis to past the surface once placed.
	outerEnd := place.Offset.X + hole.Height/2
	innerEnd := place.Offset.X - hole.Height/2
	if outerEnd <= partRadius {
		t.Errorf("hole ends at r=%v, inside the part surface r=%v", outerEnd, partRadius)
	}
	if innerEnd >= boreD/2 {
		t.Errorf("hole starts at r=%v, outside the bore wall r=%v", innerEnd, boreD/2)
	}
}

// A part that leaves no wall between bore and surface cannot take a set screw.
func TestApplySetScrewNoWall(t *testing.T) {
	p := plan.New()
	part := p.Cylinder(5, 10, true, "blank")
	bore, err := NewBore(10)
	if err != nil {
		t.Fatal(err)
	}
	ss, err := NewSetScrew(1)
	if err != nil {
		t.Fatal(err)
	}
	_, err = Apply(p, part, 10, 5, bore, nil, ss)
	var cerr *wormgear.ConfigurationError
	if !errors.As(err, &cerr) {
		t.Fatalf("got %v, want ConfigurationError", err)
	}
}

func TestApplyBlindBore(t *testing.T) {
	p := plan.New()
	part := p.Cylinder(15, 20, true, "blank")
	bore, err := NewBlindBore(10, 8)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Apply(p, part, 20, 15, bore, nil, nil); err != nil {
		t.Fatal(err)
	}
	var translate *plan.Op
	for i := range p.Ops {
		if p.Ops[i].Kind == plan.OpTranslate {
			translate = &p.Ops[i]
		}
	}
	if translate == nil {
		t.Fatal("blind bore must be placed at the top face")
	}
	// depth 8, overrun 1: cylinder height 9 centred at z = 10 - 3.5 = 6.5
	if translate.Offset.Z != 6.5 {
		t.Errorf("blind bore z = %v, want 6.5", translate.Offset.Z)
	}
}

func TestBoreValidate(t *testing.T) {
	if _, err := NewBore(0); err == nil {
		t.Error("zero diameter must be rejected")
	}
	if _, err := NewBlindBore(5, 0); err == nil {
		t.Error("blind bore without depth must be rejected")
	}
}
