// Package plan models a gear construction as an ordered list of geometric
// operations with fully resolved numeric parameters.
//
// A Plan is pure data: it owns no backend state and can be serialized,
// inspected or replayed. Each operation writes its result into a register
// and later operations refer to operands by register. Execute interprets a
// Plan against a Backend.
package plan

import (
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Ref identifies the register an operation result is stored in.
type Ref int

// NoRef marks an unused operand slot.
const NoRef Ref = -1

// OpKind enumerates the construction operations a backend must execute.
type OpKind string

const (
	OpCylinder      OpKind = "cylinder"
	OpBox           OpKind = "box"
	OpPolygon       OpKind = "polygon"
	OpCircle        OpKind = "circle"
	OpHelix         OpKind = "helix"
	OpSweep         OpKind = "sweep"
	OpLoft          OpKind = "loft"
	OpRevolve       OpKind = "revolve"
	OpExtrude       OpKind = "extrude"
	OpUnion         OpKind = "union"
	OpSubtract      OpKind = "subtract"
	OpIntersect     OpKind = "intersect"
	OpTranslate     OpKind = "translate"
	OpRotate        OpKind = "rotate"
	OpSelectLargest OpKind = "select_largest"
)

// Axis names a rotation axis for OpRotate.
type Axis string

const (
	AxisX Axis = "x"
	AxisY Axis = "y"
	AxisZ Axis = "z"
)

// Op is one construction step. Only the fields its Kind reads are set.
// Recoverable ops may fail without aborting the build: the executor records
// the failure and carries the first solid operand forward unchanged.
type Op struct {
	Kind        OpKind    `json:"kind"`
	Dst         Ref       `json:"dst"`
	Args        []Ref     `json:"args,omitempty"`
	Label       string    `json:"label,omitempty"`
	Recoverable bool      `json:"recoverable,omitempty"`
	Centered    bool      `json:"centered,omitempty"`
	Radius      float64   `json:"radius,omitempty"`
	Height      float64   `json:"height,omitempty"`
	DX          float64   `json:"dx,omitempty"`
	DY          float64   `json:"dy,omitempty"`
	DZ          float64   `json:"dz,omitempty"`
	Points      []r2.Vec  `json:"points,omitempty"`
	Center      r2.Vec    `json:"center,omitempty"`
	Pitch       float64   `json:"pitch,omitempty"`
	Phase       float64   `json:"phase,omitempty"`
	Dir         r3.Vec    `json:"dir,omitempty"`
	Z           []float64 `json:"z,omitempty"`
	Offset      r3.Vec    `json:"offset,omitempty"`
	Axis        Axis      `json:"axis,omitempty"`
	Angle       float64   `json:"angle,omitempty"`
}

// Advisory is a non-fatal finding recorded while planning or executing a
// build, such as a thin rim or a skipped tooth relief.
type Advisory struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}

// Plan is an ordered construction program plus planning-stage advisories.
type Plan struct {
	Ops        []Op       `json:"ops"`
	Advisories []Advisory `json:"advisories,omitempty"`
	Result     Ref        `json:"result"`
	nregs      int
}

// New returns an empty plan.
func New() *Plan {
	return &Plan{Result: NoRef}
}

// Registers reports how many registers the plan uses.
func (p *Plan) Registers() int { return p.nregs }

// Advise records a planning-stage advisory.
func (p *Plan) Advise(code, msg string) {
	p.Advisories = append(p.Advisories, Advisory{Code: code, Msg: msg})
}

func (p *Plan) emit(op Op) Ref {
	op.Dst = Ref(p.nregs)
	p.nregs++
	p.Ops = append(p.Ops, op)
	return op.Dst
}

// Cylinder emits a cylinder primitive of the given radius and height.
// Centered cylinders straddle z=0, otherwise the base sits on z=0.
func (p *Plan) Cylinder(radius, height float64, centered bool, label string) Ref {
	return p.emit(Op{Kind: OpCylinder, Radius: radius, Height: height, Centered: centered, Label: label})
}

// Box emits a box primitive.
func (p *Plan) Box(dx, dy, dz float64, centered bool, label string) Ref {
	return p.emit(Op{Kind: OpBox, DX: dx, DY: dy, DZ: dz, Centered: centered, Label: label})
}

// Polygon emits a planar face from closed polygon vertices.
func (p *Plan) Polygon(pts []r2.Vec, label string) Ref {
	return p.emit(Op{Kind: OpPolygon, Points: pts, Label: label})
}

// Circle emits a circular face of the given radius at center.
func (p *Plan) Circle(radius float64, center r2.Vec, label string) Ref {
	return p.emit(Op{Kind: OpCircle, Radius: radius, Center: center, Label: label})
}

// Helix emits a helical sweep path.
func (p *Plan) Helix(pitch, height, radius, phase float64, dir r3.Vec, label string) Ref {
	return p.emit(Op{Kind: OpHelix, Pitch: pitch, Height: height, Radius: radius,
		Phase: phase, Dir: dir, Label: label})
}

// Sweep emits a sweep of a profile face along a helix path.
func (p *Plan) Sweep(profile, path Ref, label string) Ref {
	return p.emit(Op{Kind: OpSweep, Args: []Ref{profile, path}, Label: label})
}

// Loft emits a loft through ordered section faces placed at axial positions z.
func (p *Plan) Loft(sections []Ref, z []float64, recoverable bool, label string) Ref {
	return p.emit(Op{Kind: OpLoft, Args: sections, Z: z, Recoverable: recoverable, Label: label})
}

// Revolve emits a full revolution of a profile face about the z axis.
func (p *Plan) Revolve(profile Ref, label string) Ref {
	return p.emit(Op{Kind: OpRevolve, Args: []Ref{profile}, Label: label})
}

// Extrude emits a linear extrusion of a profile face.
func (p *Plan) Extrude(profile Ref, height float64, label string) Ref {
	return p.emit(Op{Kind: OpExtrude, Args: []Ref{profile}, Height: height, Label: label})
}

// Union emits a boolean union.
func (p *Plan) Union(a, b Ref, label string) Ref {
	return p.emit(Op{Kind: OpUnion, Args: []Ref{a, b}, Label: label})
}

// Subtract emits a boolean difference a minus b.
func (p *Plan) Subtract(a, b Ref, recoverable bool, label string) Ref {
	return p.emit(Op{Kind: OpSubtract, Args: []Ref{a, b}, Recoverable: recoverable, Label: label})
}

// Intersect emits a boolean intersection.
func (p *Plan) Intersect(a, b Ref, label string) Ref {
	return p.emit(Op{Kind: OpIntersect, Args: []Ref{a, b}, Label: label})
}

// Translate emits a rigid translation.
func (p *Plan) Translate(s Ref, offset r3.Vec, label string) Ref {
	return p.emit(Op{Kind: OpTranslate, Args: []Ref{s}, Offset: offset, Label: label})
}

// Rotate emits a rigid rotation of deg degrees about the given axis.
func (p *Plan) Rotate(s Ref, axis Axis, deg float64, label string) Ref {
	return p.emit(Op{Kind: OpRotate, Args: []Ref{s}, Axis: axis, Angle: deg, Label: label})
}

// SelectLargest emits the single-solid resolution step: if booleans left the
// part fragmented, the fragment of largest volume is the true part.
func (p *Plan) SelectLargest(s Ref, label string) Ref {
	return p.emit(Op{Kind: OpSelectLargest, Args: []Ref{s}, Label: label})
}

// SetResult marks the register holding the finished part.
func (p *Plan) SetResult(r Ref) { p.Result = r }
