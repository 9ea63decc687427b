// Package circuit defines the arithmetic constraint-system representation
// that Zirc programs compile down to. A circuit is an ordered list of gates
// over the BN254 scalar field; satisfiability is decided by a backend.
package circuit

import (
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// Witness is an index into a circuit's witness assignment.
type Witness uint32

// MulTerm is a coefficient times the product of two witnesses.
type MulTerm struct {
	Coeff fr.Element
	A     Witness
	B     Witness
}

// LinTerm is a coefficient times a single witness.
type LinTerm struct {
	Coeff fr.Element
	W     Witness
}

// Expression is a quadratic form asserted to equal zero:
// sum(Mul) + sum(Linear) + Constant == 0.
type Expression struct {
	Mul      []MulTerm
	Linear   []LinTerm
	Constant fr.Element
}

// Intrinsic identifies a deferred builtin call. Intrinsic gates carry no
// arithmetic constraints until a backend optimizer expands them.
type Intrinsic string

const (
	// IntrinsicHash is a field-friendly hash over the gate's inputs.
	IntrinsicHash Intrinsic = "hash"
)

// GateKind discriminates gate payloads.
type GateKind uint8

const (
	GateArith GateKind = iota
	GateIntrinsic
)

// Gate is a single constraint. Arithmetic gates assert Expr == 0.
// Intrinsic gates bind Outputs to Func(Inputs) once expanded.
type Gate struct {
	Kind    GateKind
	Expr    Expression
	Func    Intrinsic
	Inputs  []Witness
	Outputs []Witness
}

// Circuit is an ordered constraint system. NumWitnesses is the size of the
// witness space; gate expressions only reference indices below it.
type Circuit struct {
	NumWitnesses uint32
	Gates        []Gate
}

// NewWitness allocates the next witness index.
func (c *Circuit) NewWitness() Witness {
	w := Witness(c.NumWitnesses)
	c.NumWitnesses++
	return w
}

// AddGate appends a gate to the circuit.
func (c *Circuit) AddGate(g Gate) {
	c.Gates = append(c.Gates, g)
}

// IsZero reports whether the expression is identically zero, i.e. it has no
// terms and a zero constant. Such gates constrain nothing.
func (e Expression) IsZero() bool {
	return len(e.Mul) == 0 && len(e.Linear) == 0 && e.Constant.IsZero()
}

// Witnesses returns every witness index referenced by the expression.
func (e Expression) Witnesses() []Witness {
	seen := make(map[Witness]struct{})
	var out []Witness
	add := func(w Witness) {
		if _, ok := seen[w]; !ok {
			seen[w] = struct{}{}
			out = append(out, w)
		}
	}
	for _, t := range e.Mul {
		add(t.A)
		add(t.B)
	}
	for _, t := range e.Linear {
		add(t.W)
	}
	return out
}
