// Package frontend holds the checked intermediate representation of a
// compiled Zirc package and the per-test compiler that lowers a single
// function to a circuit. Parsing and type inference happen upstream; units
// arrive here as serialized artifacts and are immutable once loaded.
package frontend

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// FuncID identifies a function within a ProgramUnit.
type FuncID int

// OpKind enumerates the IR operations a function body may contain.
type OpKind string

const (
	OpConst    OpKind = "const"     // dest := literal field value
	OpWitness  OpKind = "witness"   // dest := fresh unconstrained witness
	OpAdd      OpKind = "add"       // dest := a + b
	OpSub      OpKind = "sub"       // dest := a - b
	OpMul      OpKind = "mul"       // dest := a * b
	OpAssertEq OpKind = "assert_eq" // constrain a == b
	OpPrint    OpKind = "print"     // diagnostic output of args
	OpHash     OpKind = "hash"      // dest := hash(args...), backend intrinsic
)

// Op is a single IR operation.
type Op struct {
	Kind  OpKind   `json:"op"`
	Dest  string   `json:"dest,omitempty"`
	A     string   `json:"a,omitempty"`
	B     string   `json:"b,omitempty"`
	Value string   `json:"value,omitempty"` // decimal field literal for const
	Args  []string `json:"args,omitempty"`  // operands for print/hash
}

// Function is a checked IR function.
type Function struct {
	Name   string   `json:"name"`
	IsTest bool     `json:"test,omitempty"`
	Params []string `json:"params,omitempty"`
	Ops    []Op     `json:"ops"`
}

// ProgramUnit is the compiled representation of one Zirc package: its
// functions in declaration order. Read-only for the duration of a test run.
type ProgramUnit struct {
	Functions []Function `json:"functions"`
}

// Function returns the function with the given ID.
func (u *ProgramUnit) Function(id FuncID) (*Function, bool) {
	if id < 0 || int(id) >= len(u.Functions) {
		return nil, false
	}
	return &u.Functions[id], true
}

// TestFunction identifies a single discovered test.
type TestFunction struct {
	Name string
	ID   FuncID
}

// TestFunctions returns every test-tagged function whose name contains
// filter as a substring, in declaration order. An empty filter matches all.
func (u *ProgramUnit) TestFunctions(filter string) []TestFunction {
	var tests []TestFunction
	for i, fn := range u.Functions {
		if fn.IsTest && strings.Contains(fn.Name, filter) {
			tests = append(tests, TestFunction{Name: fn.Name, ID: FuncID(i)})
		}
	}
	return tests
}

// LoadUnit reads a serialized program unit artifact from disk.
func LoadUnit(path string) (*ProgramUnit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading unit artifact: %w", err)
	}
	var unit ProgramUnit
	if err := json.Unmarshal(data, &unit); err != nil {
		return nil, fmt.Errorf("parsing unit artifact %s: %w", path, err)
	}
	return &unit, nil
}
