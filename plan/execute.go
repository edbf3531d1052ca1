package plan

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/wormgearcad/wormgear"
)

// Skip records one recoverable operation that failed during execution.
type Skip struct {
	Label string
	Err   error
}

// Report is the structured outcome of executing a plan: the advisories
// gathered while planning plus any operations skipped while executing.
// No failure is swallowed without an entry here.
type Report struct {
	Advisories []Advisory
	Skipped    []Skip
}

// Execute interprets a plan against a backend and returns the finished
// solid. Non-recoverable failures abort with a *wormgear.GeometryError;
// recoverable ones are logged, recorded in the report and the build
// continues with the accumulating solid unchanged.
func Execute(b Backend, p *Plan, log *zap.Logger) (Solid, *Report, error) {
	if log == nil {
		log = zap.NewNop()
	}
	report := &Report{Advisories: append([]Advisory(nil), p.Advisories...)}
	if p.Result == NoRef {
		return nil, report, &wormgear.GeometryError{Msg: "plan has no result"}
	}
	// A plan deserialized from JSON did not allocate its registers through
	// the builder methods, so size from the ops as well.
	nregs := p.Registers()
	for i := range p.Ops {
		if n := int(p.Ops[i].Dst) + 1; n > nregs {
			nregs = n
		}
	}
	regs := make([]any, nregs)

	for i := range p.Ops {
		op := &p.Ops[i]
		val, err := apply(b, op, regs)
		if err == nil {
			regs[op.Dst] = val
			continue
		}
		if !op.Recoverable {
			return nil, report, &wormgear.GeometryError{Op: op.Label, Msg: err.Error()}
		}
		log.Warn("skipping failed operation",
			zap.String("op", string(op.Kind)),
			zap.String("label", op.Label),
			zap.Error(err))
		report.Skipped = append(report.Skipped, Skip{Label: op.Label, Err: err})
		regs[op.Dst] = firstSolid(op.Args, regs)
	}

	out, ok := regs[p.Result].(Solid)
	if !ok || out == nil {
		return nil, report, &wormgear.GeometryError{Msg: "plan result is not a solid"}
	}
	return out, report, nil
}

// firstSolid is the fallback value of a failed recoverable op: the first
// solid operand, normally the accumulating part the op would have modified.
func firstSolid(args []Ref, regs []any) any {
	for _, a := range args {
		if a == NoRef {
			continue
		}
		if s, ok := regs[a].(Solid); ok {
			return s
		}
	}
	return nil
}

func operand(regs []any, r Ref) (any, error) {
	if r == NoRef || int(r) >= len(regs) {
		return nil, fmt.Errorf("operand register %d out of range", r)
	}
	v := regs[r]
	if v == nil {
		return nil, fmt.Errorf("operand register %d is empty", r)
	}
	return v, nil
}

func solidOperand(regs []any, r Ref) (Solid, error) {
	v, err := operand(regs, r)
	if err != nil {
		return nil, err
	}
	s, ok := v.(Solid)
	if !ok {
		return nil, fmt.Errorf("operand register %d is not a solid", r)
	}
	return s, nil
}

func faceOperand(regs []any, r Ref) (Face, error) {
	v, err := operand(regs, r)
	if err != nil {
		return nil, err
	}
	if _, ok := v.(Solid); ok {
		return nil, fmt.Errorf("operand register %d is a solid, want a face", r)
	}
	return v, nil
}

func apply(b Backend, op *Op, regs []any) (any, error) {
	switch op.Kind {
	case OpCylinder:
		return b.MakeCylinder(op.Radius, op.Height, op.Centered)
	case OpBox:
		return b.MakeBox(op.DX, op.DY, op.DZ, op.Centered)
	case OpPolygon:
		return b.MakePolygonFace(op.Points)
	case OpCircle:
		return b.MakeCircleFace(op.Radius, op.Center)
	case OpHelix:
		return b.MakeHelix(op.Pitch, op.Height, op.Radius, op.Phase, op.Dir)
	case OpSweep:
		profile, err := faceOperand(regs, op.Args[0])
		if err != nil {
			return nil, err
		}
		path, err := operand(regs, op.Args[1])
		if err != nil {
			return nil, err
		}
		return b.Sweep(profile, path)
	case OpLoft:
		sections := make([]Face, len(op.Args))
		for i, a := range op.Args {
			f, err := faceOperand(regs, a)
			if err != nil {
				return nil, err
			}
			sections[i] = f
		}
		return b.Loft(sections, op.Z)
	case OpRevolve:
		profile, err := faceOperand(regs, op.Args[0])
		if err != nil {
			return nil, err
		}
		return b.Revolve(profile)
	case OpExtrude:
		profile, err := faceOperand(regs, op.Args[0])
		if err != nil {
			return nil, err
		}
		return b.Extrude(profile, op.Height)
	case OpUnion, OpSubtract, OpIntersect:
		a, err := solidOperand(regs, op.Args[0])
		if err != nil {
			return nil, err
		}
		c, err := solidOperand(regs, op.Args[1])
		if err != nil {
			return nil, err
		}
		switch op.Kind {
		case OpUnion:
			return b.Union(a, c)
		case OpSubtract:
			return b.Subtract(a, c)
		default:
			return b.Intersect(a, c)
		}
	case OpTranslate:
		s, err := solidOperand(regs, op.Args[0])
		if err != nil {
			return nil, err
		}
		return b.Translate(s, op.Offset)
	case OpRotate:
		s, err := solidOperand(regs, op.Args[0])
		if err != nil {
			return nil, err
		}
		return b.Rotate(s, op.Axis, op.Angle)
	case OpSelectLargest:
		s, err := solidOperand(regs, op.Args[0])
		if err != nil {
			return nil, err
		}
		return selectLargest(b, s)
	}
	return nil, fmt.Errorf("unknown op kind %q", op.Kind)
}

func selectLargest(b Backend, s Solid) (Solid, error) {
	parts := b.Solids(s)
	if len(parts) <= 1 {
		return s, nil
	}
	var best Solid
	bestVol := -1.0
	for _, part := range parts {
		v, err := b.Volume(part)
		if err != nil {
			return nil, err
		}
		if v > bestVol {
			best, bestVol = part, v
		}
	}
	return best, nil
}
