// Package sdfx implements plan.Backend over the github.com/deadsy/sdfx
// signed-distance-field CAD library.
//
// The adapter is meant for previewing and testing construction plans: SDF
// booleans cannot fail or fragment, volumes are estimated by sampling, and
// meshes are exported as STL rather than STEP. Handing the same plan to a
// B-rep kernel yields the manufacturing STEP output.
package sdfx

import (
	"errors"
	"fmt"
	"math"
	"os"
	"runtime"
	"sync/atomic"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/wormgearcad/wormgear"
	"github.com/wormgearcad/wormgear/plan"
)

const (
	defaultMeshCells = 200
	defaultVolumeRes = 128
)

// Backend adapts sdfx to the plan.Backend contract.
type Backend struct {
	// MeshCells is the marching cubes resolution used by ExportSTL.
	MeshCells int
	// VolumeRes is the grid resolution per axis used by Volume.
	VolumeRes int
}

var _ plan.Backend = (*Backend)(nil)

// New returns a backend with default tessellation and sampling resolution.
func New() *Backend {
	return &Backend{MeshCells: defaultMeshCells, VolumeRes: defaultVolumeRes}
}

// solid wraps an sdf.SDF3 as a plan.Solid.
type solid struct {
	s sdf.SDF3
}

func (s *solid) Bounds() (min, max r3.Vec) {
	bb := s.s.BoundingBox()
	return r3.Vec{X: bb.Min.X, Y: bb.Min.Y, Z: bb.Min.Z},
		r3.Vec{X: bb.Max.X, Y: bb.Max.Y, Z: bb.Max.Z}
}

// face wraps an sdf.SDF2 as a plan.Face.
type face struct {
	s sdf.SDF2
}

// helixPath carries helix parameters until a sweep consumes them.
type helixPath struct {
	pitch, height, radius, phase float64
	dir                          r3.Vec
}

func wrap(s sdf.SDF3) plan.Solid { return &solid{s: s} }

func unwrap(s plan.Solid) (sdf.SDF3, error) {
	w, ok := s.(*solid)
	if !ok {
		return nil, errors.New("sdfx: solid from a different backend")
	}
	return w.s, nil
}

func unwrapFace(f plan.Face) (sdf.SDF2, error) {
	w, ok := f.(*face)
	if !ok {
		return nil, errors.New("sdfx: face from a different backend")
	}
	return w.s, nil
}

func (b *Backend) MakeCylinder(radius, height float64, centered bool) (plan.Solid, error) {
	s, err := sdf.Cylinder3D(height, radius, 0)
	if err != nil {
		return nil, err
	}
	if !centered {
		s = sdf.Transform3D(s, sdf.Translate3d(v3.Vec{Z: height / 2}))
	}
	return wrap(s), nil
}

func (b *Backend) MakeBox(dx, dy, dz float64, centered bool) (plan.Solid, error) {
	s, err := sdf.Box3D(v3.Vec{X: dx, Y: dy, Z: dz}, 0)
	if err != nil {
		return nil, err
	}
	if !centered {
		s = sdf.Transform3D(s, sdf.Translate3d(v3.Vec{X: dx / 2, Y: dy / 2, Z: dz / 2}))
	}
	return wrap(s), nil
}

func (b *Backend) MakePolygonFace(pts []r2.Vec) (plan.Face, error) {
	if len(pts) < 3 {
		return nil, fmt.Errorf("sdfx: polygon needs 3 vertices, got %d", len(pts))
	}
	vs := make([]v2.Vec, len(pts))
	for i, p := range pts {
		vs[i] = v2.Vec{X: p.X, Y: p.Y}
	}
	// Polygon2D wants anticlockwise winding.
	if signedArea(pts) < 0 {
		for i, j := 0, len(vs)-1; i < j; i, j = i+1, j-1 {
			vs[i], vs[j] = vs[j], vs[i]
		}
	}
	s, err := sdf.Polygon2D(vs)
	if err != nil {
		return nil, err
	}
	return &face{s: s}, nil
}

func signedArea(pts []r2.Vec) float64 {
	var a float64
	for i, p := range pts {
		q := pts[(i+1)%len(pts)]
		a += p.X*q.Y - q.X*p.Y
	}
	return a / 2
}

func (b *Backend) MakeCircleFace(radius float64, center r2.Vec) (plan.Face, error) {
	s, err := sdf.Circle2D(radius)
	if err != nil {
		return nil, err
	}
	if center.X != 0 || center.Y != 0 {
		s = sdf.Transform2D(s, sdf.Translate2d(v2.Vec{X: center.X, Y: center.Y}))
	}
	return &face{s: s}, nil
}

func (b *Backend) MakeHelix(pitch, height, radius, phase float64, dir r3.Vec) (plan.Path, error) {
	if pitch <= 0 || height <= 0 || radius <= 0 {
		return nil, fmt.Errorf("sdfx: helix pitch %g, height %g, radius %g must be positive",
			pitch, height, radius)
	}
	if dir.Z == 0 {
		return nil, errors.New("sdfx: helix direction must be along z")
	}
	return &helixPath{pitch: pitch, height: height, radius: radius, phase: phase, dir: dir}, nil
}

// Sweep realizes a helical sweep as an sdfx screw form: the profile is a
// thread cross-section in (axial, radius-from-axis) coordinates.
func (b *Backend) Sweep(profile plan.Face, path plan.Path) (plan.Solid, error) {
	p, err := unwrapFace(profile)
	if err != nil {
		return nil, err
	}
	hp, ok := path.(*helixPath)
	if !ok {
		return nil, errors.New("sdfx: path from a different backend")
	}
	starts := 1
	if hp.dir.Z < 0 {
		starts = -1
	}
	s, err := sdf.Screw3D(p, hp.height, 0, hp.pitch, starts)
	if err != nil {
		return nil, err
	}
	if hp.phase != 0 {
		s = sdf.Transform3D(s, sdf.RotateZ(hp.phase*math.Pi/180))
	}
	return wrap(s), nil
}

// Loft chains pairwise lofts between consecutive sections, each slab placed
// at its axial span, and unions the slabs.
func (b *Backend) Loft(sections []plan.Face, z []float64) (plan.Solid, error) {
	if len(sections) < 2 {
		return nil, fmt.Errorf("sdfx: loft needs 2 sections, got %d", len(sections))
	}
	if len(sections) != len(z) {
		return nil, fmt.Errorf("sdfx: %d sections but %d axial positions", len(sections), len(z))
	}
	var slabs []sdf.SDF3
	for i := 0; i < len(sections)-1; i++ {
		s0, err := unwrapFace(sections[i])
		if err != nil {
			return nil, err
		}
		s1, err := unwrapFace(sections[i+1])
		if err != nil {
			return nil, err
		}
		h := z[i+1] - z[i]
		if h <= 0 {
			return nil, fmt.Errorf("sdfx: loft positions must increase, z[%d]=%g z[%d]=%g",
				i, z[i], i+1, z[i+1])
		}
		slab, err := sdf.Loft3D(s0, s1, h, 0)
		if err != nil {
			return nil, err
		}
		mid := (z[i] + z[i+1]) / 2
		slabs = append(slabs, sdf.Transform3D(slab, sdf.Translate3d(v3.Vec{Z: mid})))
	}
	return wrap(sdf.Union3D(slabs...)), nil
}

func (b *Backend) Revolve(profile plan.Face) (plan.Solid, error) {
	p, err := unwrapFace(profile)
	if err != nil {
		return nil, err
	}
	s, err := sdf.Revolve3D(p)
	if err != nil {
		return nil, err
	}
	return wrap(s), nil
}

func (b *Backend) Extrude(profile plan.Face, height float64) (plan.Solid, error) {
	p, err := unwrapFace(profile)
	if err != nil {
		return nil, err
	}
	return wrap(sdf.Extrude3D(p, height)), nil
}

func (b *Backend) Union(a, c plan.Solid) (plan.Solid, error) {
	sa, err := unwrap(a)
	if err != nil {
		return nil, err
	}
	sc, err := unwrap(c)
	if err != nil {
		return nil, err
	}
	return wrap(sdf.Union3D(sa, sc)), nil
}

func (b *Backend) Subtract(a, c plan.Solid) (plan.Solid, error) {
	sa, err := unwrap(a)
	if err != nil {
		return nil, err
	}
	sc, err := unwrap(c)
	if err != nil {
		return nil, err
	}
	return wrap(sdf.Difference3D(sa, sc)), nil
}

func (b *Backend) Intersect(a, c plan.Solid) (plan.Solid, error) {
	sa, err := unwrap(a)
	if err != nil {
		return nil, err
	}
	sc, err := unwrap(c)
	if err != nil {
		return nil, err
	}
	return wrap(sdf.Intersect3D(sa, sc)), nil
}

func (b *Backend) Translate(s plan.Solid, offset r3.Vec) (plan.Solid, error) {
	s3, err := unwrap(s)
	if err != nil {
		return nil, err
	}
	m := sdf.Translate3d(v3.Vec{X: offset.X, Y: offset.Y, Z: offset.Z})
	return wrap(sdf.Transform3D(s3, m)), nil
}

func (b *Backend) Rotate(s plan.Solid, axis plan.Axis, deg float64) (plan.Solid, error) {
	s3, err := unwrap(s)
	if err != nil {
		return nil, err
	}
	rad := deg * math.Pi / 180
	var m sdf.M44
	switch axis {
	case plan.AxisX:
		m = sdf.RotateX(rad)
	case plan.AxisY:
		m = sdf.RotateY(rad)
	case plan.AxisZ:
		m = sdf.RotateZ(rad)
	default:
		return nil, fmt.Errorf("sdfx: unknown rotation axis %q", axis)
	}
	return wrap(sdf.Transform3D(s3, m)), nil
}

// Solids returns the solid itself: an SDF is a single field and cannot
// fragment the way b-rep booleans can.
func (b *Backend) Solids(s plan.Solid) []plan.Solid {
	return []plan.Solid{s}
}

// Volume estimates the solid volume by sampling the field on a regular grid
// over its bounding box. The grid is fixed by VolumeRes, so repeated calls
// on identical geometry return identical values.
func (b *Backend) Volume(s plan.Solid) (float64, error) {
	s3, err := unwrap(s)
	if err != nil {
		return 0, err
	}
	n := b.VolumeRes
	if n <= 0 {
		n = defaultVolumeRes
	}
	bb := s3.BoundingBox()
	size := bb.Max.Sub(bb.Min)
	dx, dy, dz := size.X/float64(n), size.Y/float64(n), size.Z/float64(n)
	if dx <= 0 || dy <= 0 || dz <= 0 {
		return 0, nil
	}

	var inside atomic.Int64
	g := new(errgroup.Group)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for k := 0; k < n; k++ {
		z := bb.Min.Z + (float64(k)+0.5)*dz
		g.Go(func() error {
			var count int64
			for j := 0; j < n; j++ {
				y := bb.Min.Y + (float64(j)+0.5)*dy
				for i := 0; i < n; i++ {
					x := bb.Min.X + (float64(i)+0.5)*dx
					if s3.Evaluate(v3.Vec{X: x, Y: y, Z: z}) < 0 {
						count++
					}
				}
			}
			inside.Add(count)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	return float64(inside.Load()) * dx * dy * dz, nil
}

// ExportSTEP always fails: an SDF kernel has no boundary representation to
// serialize. Use ExportSTL here, or execute the plan on a b-rep backend.
func (b *Backend) ExportSTEP(s plan.Solid, path string) error {
	return &wormgear.FileError{Path: path,
		Err: errors.New("sdfx backend cannot write STEP, use ExportSTL or a b-rep kernel")}
}

// ExportSTL tessellates the solid with marching cubes and writes binary STL.
func (b *Backend) ExportSTL(s plan.Solid, path string) error {
	s3, err := unwrap(s)
	if err != nil {
		return &wormgear.FileError{Path: path, Err: err}
	}
	cells := b.MeshCells
	if cells <= 0 {
		cells = defaultMeshCells
	}
	render.ToSTL(s3, path, render.NewMarchingCubesUniform(cells))
	if _, err := os.Stat(path); err != nil {
		return &wormgear.FileError{Path: path, Err: err}
	}
	return nil
}
