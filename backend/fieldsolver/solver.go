// Package fieldsolver is the reference backend: a gate-by-gate witness
// solver over the BN254 scalar field. It has no proving machinery; it
// exists to decide constraint satisfiability for test execution.
package fieldsolver

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/zirclang/zirc/backend"
	"github.com/zirclang/zirc/circuit"
)

// Solver implements backend.Backend.
type Solver struct{}

var _ backend.Backend = (*Solver)(nil)

// New returns a reference field solver.
func New() *Solver {
	return &Solver{}
}

func (s *Solver) Name() string {
	return "fieldsolver"
}

// Optimize expands intrinsic gates into arithmetic constraints and drops
// gates that constrain nothing. The returned circuit contains only
// arithmetic gates.
func (s *Solver) Optimize(c circuit.Circuit) (circuit.Circuit, error) {
	out := circuit.Circuit{NumWitnesses: c.NumWitnesses}
	for _, g := range c.Gates {
		switch g.Kind {
		case circuit.GateArith:
			if g.Expr.IsZero() {
				continue
			}
			out.AddGate(g)
		case circuit.GateIntrinsic:
			if err := expandIntrinsic(&out, g); err != nil {
				return circuit.Circuit{}, err
			}
		default:
			return circuit.Circuit{}, &backend.OptimizeError{Reason: fmt.Sprintf("unknown gate kind %d", g.Kind)}
		}
	}
	return out, nil
}

// expandIntrinsic lowers a deferred builtin call into arithmetic gates.
// The hash is a cubing sponge: acc' = (acc + input + roundConst)^3, with
// the last accumulator constrained equal to the output witness.
func expandIntrinsic(out *circuit.Circuit, g circuit.Gate) error {
	if g.Func != circuit.IntrinsicHash {
		return &backend.OptimizeError{Reason: fmt.Sprintf("unknown intrinsic %q", g.Func)}
	}
	if len(g.Outputs) != 1 {
		return &backend.OptimizeError{Reason: fmt.Sprintf("hash expects one output, got %d", len(g.Outputs))}
	}

	var one, negOne fr.Element
	one.SetOne()
	negOne.Neg(&one)

	var acc circuit.Witness
	hasAcc := false
	for round, in := range g.Inputs {
		// t = acc + in + c_round
		t := out.NewWitness()
		expr := circuit.Expression{
			Linear:   []circuit.LinTerm{{Coeff: one, W: in}, {Coeff: negOne, W: t}},
			Constant: roundConstant(round),
		}
		if hasAcc {
			expr.Linear = append(expr.Linear, circuit.LinTerm{Coeff: one, W: acc})
		}
		out.AddGate(circuit.Gate{Kind: circuit.GateArith, Expr: expr})

		// sq = t * t
		sq := out.NewWitness()
		out.AddGate(circuit.Gate{Kind: circuit.GateArith, Expr: circuit.Expression{
			Mul:    []circuit.MulTerm{{Coeff: one, A: t, B: t}},
			Linear: []circuit.LinTerm{{Coeff: negOne, W: sq}},
		}})

		// cube = sq * t
		cube := out.NewWitness()
		out.AddGate(circuit.Gate{Kind: circuit.GateArith, Expr: circuit.Expression{
			Mul:    []circuit.MulTerm{{Coeff: one, A: sq, B: t}},
			Linear: []circuit.LinTerm{{Coeff: negOne, W: cube}},
		}})

		acc = cube
		hasAcc = true
	}

	// out = acc
	out.AddGate(circuit.Gate{Kind: circuit.GateArith, Expr: circuit.Expression{
		Linear: []circuit.LinTerm{{Coeff: one, W: acc}, {Coeff: negOne, W: g.Outputs[0]}},
	}})
	return nil
}

func roundConstant(round int) fr.Element {
	var c fr.Element
	c.SetUint64(0x9e3779b97f4a7c15 ^ uint64(round+1))
	c.Square(&c)
	return c
}

// Execute solves the witness gate by gate, multi-pass until fixpoint.
// Gates whose terms are fully known are checked against zero; gates with a
// single solvable unknown assign it. A gate that can never be resolved, or
// a determined gate that does not hold, makes the circuit unsatisfied.
// Intrinsic gates are skipped: before optimization they carry no
// constraints.
func (s *Solver) Execute(c circuit.Circuit, initial circuit.WitnessMap) (circuit.WitnessMap, error) {
	witness := initial.Clone()
	if witness == nil {
		witness = circuit.NewWitnessMap()
	}
	resolved := make([]bool, len(c.Gates))

	for {
		progress := false
		for i, g := range c.Gates {
			if resolved[i] || g.Kind != circuit.GateArith {
				resolved[i] = resolved[i] || g.Kind != circuit.GateArith
				continue
			}
			done, err := solveGate(g.Expr, witness, i)
			if err != nil {
				return nil, err
			}
			if done {
				resolved[i] = true
				progress = true
			}
		}
		if !progress {
			break
		}
	}

	for i, g := range c.Gates {
		if !resolved[i] && g.Kind == circuit.GateArith {
			return nil, &backend.UnsatisfiedError{Gate: i, Reason: "cannot resolve witness assignment"}
		}
	}
	return witness, nil
}

// solveGate attempts to discharge one gate. It returns true when the gate
// is fully determined and holds; it returns an UnsatisfiedError when the
// gate is fully determined and does not hold.
func solveGate(e circuit.Expression, witness circuit.WitnessMap, gateIndex int) (bool, error) {
	var sum fr.Element
	sum.Set(&e.Constant)

	// coefficient of the single unknown, if exactly one remains
	var unknownCoeff fr.Element
	var unknown circuit.Witness
	unknowns := 0

	addUnknown := func(w circuit.Witness, coeff fr.Element) {
		if unknowns > 0 && unknown == w {
			unknownCoeff.Add(&unknownCoeff, &coeff)
			return
		}
		unknowns++
		unknown = w
		unknownCoeff = coeff
	}

	for _, t := range e.Mul {
		av, aok := witness.Get(t.A)
		bv, bok := witness.Get(t.B)
		switch {
		case aok && bok:
			var p fr.Element
			p.Mul(&av, &bv)
			p.Mul(&p, &t.Coeff)
			sum.Add(&sum, &p)
		case aok:
			var coeff fr.Element
			coeff.Mul(&t.Coeff, &av)
			addUnknown(t.B, coeff)
		case bok:
			var coeff fr.Element
			coeff.Mul(&t.Coeff, &bv)
			addUnknown(t.A, coeff)
		default:
			// two unknowns in one term; retry next pass
			return false, nil
		}
		if unknowns > 1 {
			return false, nil
		}
	}
	for _, t := range e.Linear {
		if v, ok := witness.Get(t.W); ok {
			var p fr.Element
			p.Mul(&v, &t.Coeff)
			sum.Add(&sum, &p)
			continue
		}
		addUnknown(t.W, t.Coeff)
		if unknowns > 1 {
			return false, nil
		}
	}

	if unknowns == 0 {
		if !sum.IsZero() {
			return false, &backend.UnsatisfiedError{Gate: gateIndex, Reason: "constraint evaluates to nonzero value"}
		}
		return true, nil
	}

	if unknownCoeff.IsZero() {
		// 0*w + sum == 0: the unknown is unconstrained by this gate
		if !sum.IsZero() {
			return false, &backend.UnsatisfiedError{Gate: gateIndex, Reason: "constraint evaluates to nonzero value"}
		}
		return false, nil
	}

	// w = -sum / coeff
	var v fr.Element
	v.Neg(&sum)
	var inv fr.Element
	inv.Inverse(&unknownCoeff)
	v.Mul(&v, &inv)
	witness.Set(unknown, v)
	return true, nil
}
