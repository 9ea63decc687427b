package circuit

import (
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// WitnessMap is a partial assignment of field values to witness indices.
// Tests start from an empty map; the backend fills it in while solving.
type WitnessMap map[Witness]fr.Element

// NewWitnessMap returns an empty assignment.
func NewWitnessMap() WitnessMap {
	return make(WitnessMap)
}

// Get returns the value assigned to w, if any.
func (m WitnessMap) Get(w Witness) (fr.Element, bool) {
	v, ok := m[w]
	return v, ok
}

// Set assigns a value to w, overwriting any prior assignment.
func (m WitnessMap) Set(w Witness, v fr.Element) {
	m[w] = v
}

// Clone returns an independent copy of the assignment.
func (m WitnessMap) Clone() WitnessMap {
	out := make(WitnessMap, len(m))
	for w, v := range m {
		out[w] = v
	}
	return out
}
