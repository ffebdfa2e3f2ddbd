// Package trace integrates streamlines of planar vector fields with fixed
// step explicit Euler steps.
package trace

import (
	"github.com/soypat/ddg"
	"github.com/soypat/ddg/internal/d2"
	"github.com/soypat/ddg/internal/d3"
	"github.com/soypat/ddg/singular"
	"gonum.org/v1/gonum/spatial/r2"
)

// Evaluator is a vector field. ok is false where the field has no value,
// which ends a trace.
type Evaluator interface {
	Evaluate(p r2.Vec) (v r2.Vec, ok bool)
}

// EvaluatorFunc adapts a function to the Evaluator interface.
type EvaluatorFunc func(p r2.Vec) (r2.Vec, bool)

func (f EvaluatorFunc) Evaluate(p r2.Vec) (r2.Vec, bool) { return f(p) }

// Tracer holds integration parameters.
type Tracer struct {
	// Steps is the maximum number of steps. A trace has at most Steps+1 points.
	Steps int
	// Step scales the field at each step. Negative values trace backwards.
	Step float64
	// Orient flips each field vector to agree with the previous one. Use it
	// on eigenvector fields whose sign is arbitrary.
	Orient bool
	// Stops ends the trace once a point lands within StopRadius of any of them.
	Stops      []r2.Vec
	StopRadius float64
}

// Trace follows ev from seed, p[k+1] = p[k] + Step·ev(p[k]). The seed is
// always the first vertex; the trace ends early when ev has no value or a
// stop point is reached. The result lies on the z=0 plane.
func (tr Tracer) Trace(ev Evaluator, seed r2.Vec) ddg.Polyline {
	if tr.Steps < 0 {
		panic("trace: negative step count")
	}
	var line ddg.Polyline
	line.Append(d3.FromR2(seed, 0))
	p := seed
	var prev r2.Vec
	for i := 0; i < tr.Steps; i++ {
		v, ok := ev.Evaluate(p)
		if !ok || !d2.IsFinite(v) {
			break
		}
		if tr.Orient && r2.Dot(v, prev) < 0 {
			v = r2.Scale(-1, v)
		}
		prev = v
		p = r2.Add(p, r2.Scale(tr.Step, v))
		line.Append(d3.FromR2(p, 0))
		if tr.atStop(p) {
			break
		}
	}
	return line
}

func (tr Tracer) atStop(p r2.Vec) bool {
	for _, s := range tr.Stops {
		if r2.Norm(r2.Sub(p, s)) <= tr.StopRadius {
			return true
		}
	}
	return false
}

// Separatrices traces the four separatrices of a saddle. Seeds are placed
// offset away from the saddle along its eigenvectors; the outgoing pair is
// traced forward and the incoming pair backward. Other kinds return nil.
func (tr Tracer) Separatrices(ev Evaluator, s singular.Singularity, offset float64) []ddg.Polyline {
	if s.Kind != singular.Saddle {
		return nil
	}
	out, in := s.Eigen.Major(), s.Eigen.Minor()
	if s.Eigen.Values[0] < 0 {
		out, in = in, out
	}
	forward, backward := tr, tr
	if tr.Step < 0 {
		forward.Step = -tr.Step
	} else {
		backward.Step = -tr.Step
	}
	lines := make([]ddg.Polyline, 0, 4)
	for _, sign := range []float64{1, -1} {
		lines = append(lines, forward.Trace(ev, r2.Add(s.Point, r2.Scale(sign*offset, out))))
	}
	for _, sign := range []float64{1, -1} {
		lines = append(lines, backward.Trace(ev, r2.Add(s.Point, r2.Scale(sign*offset, in))))
	}
	return lines
}
