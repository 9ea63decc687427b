package circuit

import (
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWitnessAllocatesSequentially(t *testing.T) {
	var c Circuit
	assert.Equal(t, Witness(0), c.NewWitness())
	assert.Equal(t, Witness(1), c.NewWitness())
	assert.Equal(t, Witness(2), c.NewWitness())
	assert.Equal(t, uint32(3), c.NumWitnesses)
}

func TestExpressionIsZero(t *testing.T) {
	assert.True(t, Expression{}.IsZero())

	var one fr.Element
	one.SetOne()
	assert.False(t, Expression{Constant: one}.IsZero())
	assert.False(t, Expression{Linear: []LinTerm{{Coeff: one, W: 0}}}.IsZero())
	assert.False(t, Expression{Mul: []MulTerm{{Coeff: one, A: 0, B: 1}}}.IsZero())
}

func TestExpressionWitnesses(t *testing.T) {
	var one fr.Element
	one.SetOne()
	e := Expression{
		Mul:    []MulTerm{{Coeff: one, A: 1, B: 2}},
		Linear: []LinTerm{{Coeff: one, W: 2}, {Coeff: one, W: 3}},
	}
	assert.Equal(t, []Witness{1, 2, 3}, e.Witnesses())
}

func TestWitnessMapCloneIsIndependent(t *testing.T) {
	m := NewWitnessMap()
	var five fr.Element
	five.SetUint64(5)
	m.Set(0, five)

	clone := m.Clone()
	var seven fr.Element
	seven.SetUint64(7)
	clone.Set(0, seven)
	clone.Set(1, five)

	got, ok := m.Get(0)
	require.True(t, ok)
	assert.True(t, got.Equal(&five))
	_, ok = m.Get(1)
	assert.False(t, ok)
}
