package frontend

import (
	"fmt"
)

// CheckError is a unit-level static check failure. It aborts the package's
// test run before any test executes.
type CheckError struct {
	Message string
}

func (e *CheckError) Error() string {
	return fmt.Sprintf("static check failed: %s", e.Message)
}

// Check runs unit-level static checks and returns any warnings. With
// denyWarnings set, the first warning is promoted to a CheckError.
func Check(unit *ProgramUnit, denyWarnings bool) ([]string, error) {
	if unit == nil {
		return nil, &CheckError{Message: "program unit is nil"}
	}

	seen := make(map[string]struct{}, len(unit.Functions))
	var warnings []string
	for _, fn := range unit.Functions {
		if fn.Name == "" {
			return warnings, &CheckError{Message: "function with empty name"}
		}
		if _, dup := seen[fn.Name]; dup {
			return warnings, &CheckError{Message: fmt.Sprintf("duplicate function %q", fn.Name)}
		}
		seen[fn.Name] = struct{}{}

		if len(fn.Ops) == 0 {
			warnings = append(warnings, fmt.Sprintf("function %q has an empty body", fn.Name))
		}
		for _, op := range fn.Ops {
			if !knownOp(op.Kind) {
				warnings = append(warnings, fmt.Sprintf("function %q uses unknown operation %q", fn.Name, op.Kind))
			}
		}
	}

	if denyWarnings && len(warnings) > 0 {
		return warnings, &CheckError{Message: warnings[0]}
	}
	return warnings, nil
}

func knownOp(k OpKind) bool {
	switch k {
	case OpConst, OpWitness, OpAdd, OpSub, OpMul, OpAssertEq, OpPrint, OpHash:
		return true
	}
	return false
}
