package profile

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/wormgearcad/wormgear"
)

func almostEqual(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

var testWorm = wormgear.WormParams{
	Module:        2,
	NumStarts:     1,
	PitchDiameter: 20,
	TipDiameter:   24,
	RootDiameter:  15,
	Lead:          6.2832,
	Addendum:      2,
	Dedendum:      2.5,
	ThreadThick:   3.1416,
	Hand:          wormgear.Right,
}

var testWheel = wormgear.WheelParams{
	Module:        2,
	NumTeeth:      30,
	PitchDiameter: 60,
	TipDiameter:   64,
	RootDiameter:  55,
	Addendum:      2,
	Dedendum:      2.5,
}

var testAssembly = wormgear.AssemblyParams{
	CentreDistance: 40,
	PressureAngle:  20,
	Backlash:       0.1,
	Hand:           wormgear.Right,
	Ratio:          30,
}

func TestTrapezoid(t *testing.T) {
	pts, err := Trapezoid(testWorm, testAssembly)
	if err != nil {
		t.Fatal(err)
	}
	if len(pts) != 4 {
		t.Fatalf("got %d vertices, want 4", len(pts))
	}
	// pitch thickness 3.0416, tan(20deg) = 0.36397...
	const (
		tipHalf  = 0.7928595314675952
		rootHalf = 2.4307255856655060
	)
	want := []struct{ x, y float64 }{
		{2, -tipHalf},
		{2, tipHalf},
		{-2.5, rootHalf},
		{-2.5, -rootHalf},
	}
	for i, w := range want {
		if !almostEqual(pts[i].X, w.x, 1e-9) || !almostEqual(pts[i].Y, w.y, 1e-9) {
			t.Errorf("vertex %d = (%v, %v), want (%v, %v)", i, pts[i].X, pts[i].Y, w.x, w.y)
		}
	}
	// Symmetric about the pitch line.
	if pts[0].Y != -pts[1].Y || pts[2].Y != -pts[3].Y {
		t.Error("profile is not symmetric")
	}
}

func TestTrapezoidDegenerate(t *testing.T) {
	w := testWorm
	w.Addendum = 4 // crest wider than the thread at 25deg
	a := testAssembly
	a.PressureAngle = 25
	_, err := Trapezoid(w, a)
	var gerr *wormgear.GeometryError
	if !errors.As(err, &gerr) {
		t.Fatalf("got %v, want GeometryError", err)
	}
}

func TestSpaceWidths(t *testing.T) {
	pitch, tip, root := SpaceWidths(testWheel, testAssembly)
	if !almostEqual(pitch, 3.2415926535897933, 1e-9) {
		t.Errorf("pitch width = %v", pitch)
	}
	if !almostEqual(tip, 4.697473590654603, 1e-9) {
		t.Errorf("tip width = %v", tip)
	}
	if !almostEqual(root, 1.4217414822587812, 1e-9) {
		t.Errorf("root width = %v", root)
	}
	if tip <= pitch || pitch <= root {
		t.Error("widths must grow monotonically root < pitch < tip")
	}
}

func TestSpaceWidthsRootFloor(t *testing.T) {
	wh := testWheel
	wh.RootDiameter = 40 // deep dedendum would make the root width negative
	_, _, root := SpaceWidths(wh, testAssembly)
	if root != rootFloorFactor*wh.Module {
		t.Errorf("root width = %v, want floor %v", root, rootFloorFactor*wh.Module)
	}
}

func TestFlankHalfWidth(t *testing.T) {
	const halfRoot, halfTip = 0.71, 2.35
	if got := FlankHalfWidth(halfRoot, halfTip, 0); got != halfRoot {
		t.Errorf("t=0: got %v, want %v", got, halfRoot)
	}
	if got := FlankHalfWidth(halfRoot, halfTip, 1); got != halfTip {
		t.Errorf("t=1: got %v, want %v", got, halfTip)
	}
	mid := (halfRoot+halfTip)/2 + 0.05*(halfRoot-halfTip)
	if got := FlankHalfWidth(halfRoot, halfTip, 0.5); !almostEqual(got, mid, 1e-12) {
		t.Errorf("t=0.5: got %v, want %v", got, mid)
	}
	// The bulge narrows the space mid-flank relative to a straight edge.
	linear := (halfRoot + halfTip) / 2
	if FlankHalfWidth(halfRoot, halfTip, 0.5) >= linear {
		t.Error("bulge must narrow the space when root is narrower than tip")
	}
}

func TestToothSpace(t *testing.T) {
	pts, err := ToothSpace(testWheel, testAssembly, 8)
	if err != nil {
		t.Fatal(err)
	}
	if len(pts) != 16 {
		t.Fatalf("got %d vertices, want 16", len(pts))
	}
	inner := testWheel.RootDiameter/2 - testWheel.PitchDiameter/2 - Margin
	outer := testWheel.TipDiameter/2 + Margin - testWheel.PitchDiameter/2
	if !almostEqual(pts[0].X, inner, 1e-12) {
		t.Errorf("first vertex radius %v, want inner %v", pts[0].X, inner)
	}
	if !almostEqual(pts[7].X, outer, 1e-12) {
		t.Errorf("flank end radius %v, want outer %v", pts[7].X, outer)
	}
	// Left flank then right flank mirror.
	for j := 0; j < 8; j++ {
		l, r := pts[j], pts[15-j]
		if l.X != r.X || !almostEqual(l.Y, -r.Y, 1e-12) {
			t.Errorf("vertices %d/%d not mirrored: %+v vs %+v", j, 15-j, l, r)
		}
	}
}

func TestToothSpaceMinimumSamples(t *testing.T) {
	pts, err := ToothSpace(testWheel, testAssembly, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(pts) != 10 {
		t.Errorf("got %d vertices, want 10 (k floored to 5)", len(pts))
	}
}

func TestPlace(t *testing.T) {
	local := []r2.Vec{{X: 0, Y: 1.5}}
	got := Place(local, 30, 90)
	if !almostEqual(got[0].X, -1.5, 1e-12) || !almostEqual(got[0].Y, 30, 1e-12) {
		t.Errorf("placed vertex = %+v, want (-1.5, 30)", got[0])
	}
	got = Place(local, 30, 0)
	if !almostEqual(got[0].X, 30, 1e-12) || !almostEqual(got[0].Y, 1.5, 1e-12) {
		t.Errorf("placed vertex = %+v, want (30, 1.5)", got[0])
	}
}
