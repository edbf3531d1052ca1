package plan

import (
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Solid is an opaque handle to a backend solid.
type Solid interface {
	// Bounds returns the axis-aligned bounding box.
	Bounds() (min, max r3.Vec)
}

// Face is an opaque handle to a backend planar profile.
type Face any

// Path is an opaque handle to a backend sweep path.
type Path any

// Backend is the narrow contract the construction core requires from a solid
// modeling kernel. Implementations adapt a concrete kernel; the core never
// references kernel types.
//
// Boolean operations report degenerate or non-manifold input through their
// error return. Lengths are millimetres, angles degrees.
type Backend interface {
	// MakeCylinder returns a z-axis cylinder. Centered cylinders straddle
	// z=0, otherwise the base sits on z=0.
	MakeCylinder(radius, height float64, centered bool) (Solid, error)
	// MakeBox returns an axis-aligned box, centered on the origin or with
	// its minimum corner there.
	MakeBox(dx, dy, dz float64, centered bool) (Solid, error)
	// MakePolygonFace returns a planar face from closed polygon vertices.
	MakePolygonFace(pts []r2.Vec) (Face, error)
	// MakeCircleFace returns a circular face at the given center.
	MakeCircleFace(radius float64, center r2.Vec) (Face, error)
	// MakeHelix returns a helical path about the z axis. dir selects the
	// hand (+z right, -z left); phase is the start angle in degrees.
	MakeHelix(pitch, height, radius, phase float64, dir r3.Vec) (Path, error)

	Sweep(profile Face, path Path) (Solid, error)
	// Loft transitions through the ordered sections placed at axial
	// positions z.
	Loft(sections []Face, z []float64) (Solid, error)
	// Revolve sweeps a profile one full turn about the z axis. Profile x
	// is the radial distance from the axis, profile y maps to z.
	Revolve(profile Face) (Solid, error)
	Extrude(profile Face, height float64) (Solid, error)

	Union(a, b Solid) (Solid, error)
	Subtract(a, b Solid) (Solid, error)
	Intersect(a, b Solid) (Solid, error)

	Translate(s Solid, offset r3.Vec) (Solid, error)
	Rotate(s Solid, axis Axis, deg float64) (Solid, error)

	// Solids splits a possibly fragmented result into disjoint solids.
	Solids(s Solid) []Solid
	// Volume reports the solid volume in cubic millimetres.
	Volume(s Solid) (float64, error)

	// ExportSTEP writes the solid as a STEP file.
	ExportSTEP(s Solid, path string) error
}
