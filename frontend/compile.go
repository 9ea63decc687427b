package frontend

import (
	"fmt"
	"strings"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/zirclang/zirc/circuit"
)

// CompileOptions are the knobs passed through from the command surface.
type CompileOptions struct {
	DenyWarnings bool
	ShowOutput   bool
}

// CompiledProgram is the result of compiling one test function: its circuit
// plus any diagnostic print output captured during compilation. It lives
// only for the duration of that test's execution.
type CompiledProgram struct {
	Circuit     circuit.Circuit
	Diagnostics []string
}

// CompileError reports that a function could not be lowered to a circuit.
type CompileError struct {
	Func    string
	Message string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("compiling %q: %s", e.Func, e.Message)
}

// CompileTest lowers a single test function to a circuit. Locals become
// witnesses; arithmetic ops become gates asserting the defining relation;
// hash calls become deferred intrinsic gates that only the backend
// optimizer expands into constraints.
func CompileTest(unit *ProgramUnit, id FuncID, opts CompileOptions) (*CompiledProgram, error) {
	fn, ok := unit.Function(id)
	if !ok {
		return nil, &CompileError{Func: fmt.Sprintf("#%d", id), Message: "unknown function"}
	}
	if len(fn.Params) > 0 {
		return nil, &CompileError{Func: fn.Name, Message: "test functions take no arguments"}
	}

	var (
		prog   CompiledProgram
		locals = make(map[string]circuit.Witness)
		consts = make(map[string]fr.Element)
		one    fr.Element
	)
	one.SetOne()

	fail := func(format string, args ...any) error {
		return &CompileError{Func: fn.Name, Message: fmt.Sprintf(format, args...)}
	}
	operand := func(name string) (circuit.Witness, error) {
		w, ok := locals[name]
		if !ok {
			return 0, fail("undefined local %q", name)
		}
		return w, nil
	}
	define := func(name string) (circuit.Witness, error) {
		if name == "" {
			return 0, fail("operation missing destination")
		}
		if _, dup := locals[name]; dup {
			return 0, fail("local %q redefined", name)
		}
		w := prog.Circuit.NewWitness()
		locals[name] = w
		return w, nil
	}

	for _, op := range fn.Ops {
		switch op.Kind {
		case OpConst:
			var v fr.Element
			if _, err := v.SetString(op.Value); err != nil {
				return nil, fail("invalid field literal %q: %v", op.Value, err)
			}
			w, err := define(op.Dest)
			if err != nil {
				return nil, err
			}
			consts[op.Dest] = v
			var negV fr.Element
			negV.Neg(&v)
			prog.Circuit.AddGate(circuit.Gate{Kind: circuit.GateArith, Expr: circuit.Expression{
				Linear:   []circuit.LinTerm{{Coeff: one, W: w}},
				Constant: negV,
			}})

		case OpWitness:
			if _, err := define(op.Dest); err != nil {
				return nil, err
			}

		case OpAdd, OpSub, OpMul:
			a, err := operand(op.A)
			if err != nil {
				return nil, err
			}
			b, err := operand(op.B)
			if err != nil {
				return nil, err
			}
			w, err := define(op.Dest)
			if err != nil {
				return nil, err
			}
			var negOne fr.Element
			negOne.Neg(&one)
			expr := circuit.Expression{Linear: []circuit.LinTerm{{Coeff: negOne, W: w}}}
			switch op.Kind {
			case OpAdd:
				expr.Linear = append(expr.Linear,
					circuit.LinTerm{Coeff: one, W: a},
					circuit.LinTerm{Coeff: one, W: b})
			case OpSub:
				expr.Linear = append(expr.Linear,
					circuit.LinTerm{Coeff: one, W: a},
					circuit.LinTerm{Coeff: negOne, W: b})
			case OpMul:
				expr.Mul = []circuit.MulTerm{{Coeff: one, A: a, B: b}}
			}
			prog.Circuit.AddGate(circuit.Gate{Kind: circuit.GateArith, Expr: expr})

		case OpAssertEq:
			a, err := operand(op.A)
			if err != nil {
				return nil, err
			}
			b, err := operand(op.B)
			if err != nil {
				return nil, err
			}
			var negOne fr.Element
			negOne.Neg(&one)
			prog.Circuit.AddGate(circuit.Gate{Kind: circuit.GateArith, Expr: circuit.Expression{
				Linear: []circuit.LinTerm{{Coeff: one, W: a}, {Coeff: negOne, W: b}},
			}})

		case OpPrint:
			parts := make([]string, 0, len(op.Args))
			for _, arg := range op.Args {
				if _, err := operand(arg); err != nil {
					return nil, err
				}
				if v, known := consts[arg]; known {
					parts = append(parts, v.String())
				} else {
					parts = append(parts, arg)
				}
			}
			prog.Diagnostics = append(prog.Diagnostics, strings.Join(parts, " "))

		case OpHash:
			if len(op.Args) == 0 {
				return nil, fail("hash requires at least one argument")
			}
			inputs := make([]circuit.Witness, 0, len(op.Args))
			for _, arg := range op.Args {
				w, err := operand(arg)
				if err != nil {
					return nil, err
				}
				inputs = append(inputs, w)
			}
			w, err := define(op.Dest)
			if err != nil {
				return nil, err
			}
			prog.Circuit.AddGate(circuit.Gate{
				Kind:    circuit.GateIntrinsic,
				Func:    circuit.IntrinsicHash,
				Inputs:  inputs,
				Outputs: []circuit.Witness{w},
			})

		default:
			return nil, fail("unknown operation %q", op.Kind)
		}
	}

	return &prog, nil
}
