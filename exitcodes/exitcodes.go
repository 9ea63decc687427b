// Package exitcodes defines the standard exit codes used by zirc.
//
// * Success (0): all tests pass
// * TestFailure (1): one or more tests fail
// * RuntimeErr (2): runtime errors such as workspace resolution failures,
//   optimizer faults or panics
package exitcodes

const (
	Success     = 0
	TestFailure = 1
	RuntimeErr  = 2
)
