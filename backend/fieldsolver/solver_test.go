package fieldsolver

import (
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zirclang/zirc/backend"
	"github.com/zirclang/zirc/circuit"
	"github.com/zirclang/zirc/frontend"
)

// compile is a helper that lowers a function body through the real
// frontend so solver tests exercise the same circuits tests produce.
func compile(t *testing.T, ops []frontend.Op) circuit.Circuit {
	t.Helper()
	unit := &frontend.ProgramUnit{Functions: []frontend.Function{
		{Name: "test_fn", IsTest: true, Ops: ops},
	}}
	prog, err := frontend.CompileTest(unit, 0, frontend.CompileOptions{})
	require.NoError(t, err)
	return prog.Circuit
}

func TestExecuteSatisfiable(t *testing.T) {
	c := compile(t, []frontend.Op{
		{Kind: frontend.OpConst, Dest: "x", Value: "2"},
		{Kind: frontend.OpConst, Dest: "y", Value: "3"},
		{Kind: frontend.OpAdd, Dest: "z", A: "x", B: "y"},
		{Kind: frontend.OpConst, Dest: "want", Value: "5"},
		{Kind: frontend.OpAssertEq, A: "z", B: "want"},
	})

	s := New()
	optimized, err := s.Optimize(c)
	require.NoError(t, err)

	witness, err := s.Execute(optimized, circuit.NewWitnessMap())
	require.NoError(t, err)

	var five fr.Element
	five.SetUint64(5)
	got, ok := witness.Get(circuit.Witness(2))
	require.True(t, ok)
	assert.True(t, got.Equal(&five))
}

func TestExecuteContradiction(t *testing.T) {
	c := compile(t, []frontend.Op{
		{Kind: frontend.OpConst, Dest: "x", Value: "1"},
		{Kind: frontend.OpConst, Dest: "y", Value: "2"},
		{Kind: frontend.OpAssertEq, A: "x", B: "y"},
	})

	s := New()
	optimized, err := s.Optimize(c)
	require.NoError(t, err)

	_, err = s.Execute(optimized, circuit.NewWitnessMap())
	require.Error(t, err)
	assert.True(t, backend.IsUnsatisfied(err))

	var unsat *backend.UnsatisfiedError
	require.ErrorAs(t, err, &unsat)
	assert.Equal(t, 2, unsat.Gate)
}

func TestExecuteUnresolvableWitness(t *testing.T) {
	c := compile(t, []frontend.Op{
		{Kind: frontend.OpWitness, Dest: "w"},
		{Kind: frontend.OpConst, Dest: "x", Value: "1"},
		{Kind: frontend.OpMul, Dest: "z", A: "w", B: "w"},
		{Kind: frontend.OpAssertEq, A: "z", B: "x"},
	})

	s := New()
	optimized, err := s.Optimize(c)
	require.NoError(t, err)

	// w has no defining constraint; the circuit cannot be resolved from an
	// empty assignment.
	_, err = s.Execute(optimized, circuit.NewWitnessMap())
	require.Error(t, err)
	assert.True(t, backend.IsUnsatisfied(err))
}

func TestOptimizeExpandsIntrinsics(t *testing.T) {
	c := compile(t, []frontend.Op{
		{Kind: frontend.OpConst, Dest: "x", Value: "7"},
		{Kind: frontend.OpHash, Dest: "h", Args: []string{"x"}},
		{Kind: frontend.OpConst, Dest: "zero", Value: "0"},
		{Kind: frontend.OpAssertEq, A: "h", B: "zero"},
	})

	s := New()
	optimized, err := s.Optimize(c)
	require.NoError(t, err)
	for _, g := range optimized.Gates {
		assert.Equal(t, circuit.GateArith, g.Kind)
	}
	assert.Greater(t, len(optimized.Gates), len(c.Gates))
}

// A hash output asserted to equal a wrong value must fail after
// optimization, but the unoptimized circuit carries no hash constraints
// and would let the test pass. This is why the optimize step is mandatory.
func TestUnoptimizedCircuitMissesIntrinsicConstraints(t *testing.T) {
	c := compile(t, []frontend.Op{
		{Kind: frontend.OpConst, Dest: "x", Value: "7"},
		{Kind: frontend.OpHash, Dest: "h", Args: []string{"x"}},
		{Kind: frontend.OpConst, Dest: "zero", Value: "0"},
		{Kind: frontend.OpAssertEq, A: "h", B: "zero"},
	})

	s := New()

	// Unoptimized: the intrinsic gate is skipped, so the assert is the only
	// constraint mentioning h and it happily solves h to zero. The hash
	// relation is never checked and the run wrongly succeeds.
	_, rawErr := s.Execute(c, circuit.NewWitnessMap())
	require.NoError(t, rawErr)

	optimized, err := s.Optimize(c)
	require.NoError(t, err)
	_, optErr := s.Execute(optimized, circuit.NewWitnessMap())

	require.Error(t, optErr)
	assert.True(t, backend.IsUnsatisfied(optErr))
	// The optimized run must detect the contradiction that the raw run
	// cannot see as a constraint violation on the hash output.
	var unsat *backend.UnsatisfiedError
	require.ErrorAs(t, optErr, &unsat)
	assert.Contains(t, unsat.Reason, "nonzero")
}

func TestOptimizeDropsTrivialGates(t *testing.T) {
	var c circuit.Circuit
	c.NewWitness()
	c.AddGate(circuit.Gate{Kind: circuit.GateArith}) // identically zero

	s := New()
	optimized, err := s.Optimize(c)
	require.NoError(t, err)
	assert.Empty(t, optimized.Gates)
}

func TestOptimizeUnknownIntrinsic(t *testing.T) {
	var c circuit.Circuit
	w := c.NewWitness()
	out := c.NewWitness()
	c.AddGate(circuit.Gate{
		Kind:    circuit.GateIntrinsic,
		Func:    circuit.Intrinsic("quantum_oracle"),
		Inputs:  []circuit.Witness{w},
		Outputs: []circuit.Witness{out},
	})

	s := New()
	_, err := s.Optimize(c)
	require.Error(t, err)
	var optErr *backend.OptimizeError
	assert.ErrorAs(t, err, &optErr)
	assert.False(t, backend.IsUnsatisfied(err))
}

func TestExecuteDeterministic(t *testing.T) {
	c := compile(t, []frontend.Op{
		{Kind: frontend.OpConst, Dest: "x", Value: "11"},
		{Kind: frontend.OpHash, Dest: "h", Args: []string{"x"}},
		{Kind: frontend.OpPrint, Args: []string{"h"}},
	})

	s := New()
	optimized, err := s.Optimize(c)
	require.NoError(t, err)

	first, err := s.Execute(optimized, circuit.NewWitnessMap())
	require.NoError(t, err)
	second, err := s.Execute(optimized, circuit.NewWitnessMap())
	require.NoError(t, err)
	require.Equal(t, len(first), len(second))
	for w, v := range first {
		got, ok := second.Get(w)
		require.True(t, ok)
		assert.True(t, v.Equal(&got))
	}
}

func TestExecuteDoesNotMutateInitialWitness(t *testing.T) {
	c := compile(t, []frontend.Op{
		{Kind: frontend.OpConst, Dest: "x", Value: "1"},
	})

	initial := circuit.NewWitnessMap()
	s := New()
	_, err := s.Execute(c, initial)
	require.NoError(t, err)
	assert.Empty(t, initial)
}
