package frontend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckPasses(t *testing.T) {
	unit := &ProgramUnit{Functions: []Function{
		{Name: "test_one", IsTest: true, Ops: []Op{{Kind: OpConst, Dest: "x", Value: "1"}}},
	}}

	warnings, err := Check(unit, false)
	require.NoError(t, err)
	assert.Empty(t, warnings)
}

func TestCheckDuplicateFunction(t *testing.T) {
	unit := &ProgramUnit{Functions: []Function{
		{Name: "test_one", IsTest: true, Ops: []Op{{Kind: OpConst, Dest: "x", Value: "1"}}},
		{Name: "test_one", IsTest: true, Ops: []Op{{Kind: OpConst, Dest: "x", Value: "2"}}},
	}}

	_, err := Check(unit, false)
	require.Error(t, err)
	var checkErr *CheckError
	require.ErrorAs(t, err, &checkErr)
	assert.Contains(t, checkErr.Message, "duplicate function")
}

func TestCheckWarnsOnEmptyBody(t *testing.T) {
	unit := &ProgramUnit{Functions: []Function{
		{Name: "test_empty", IsTest: true},
	}}

	warnings, err := Check(unit, false)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "empty body")
}

func TestCheckDenyWarnings(t *testing.T) {
	unit := &ProgramUnit{Functions: []Function{
		{Name: "test_empty", IsTest: true},
	}}

	_, err := Check(unit, true)
	require.Error(t, err)
	var checkErr *CheckError
	assert.ErrorAs(t, err, &checkErr)
}

func TestCheckWarnsOnUnknownOp(t *testing.T) {
	unit := &ProgramUnit{Functions: []Function{
		{Name: "test_weird", IsTest: true, Ops: []Op{{Kind: "frobnicate", Dest: "x"}}},
	}}

	warnings, err := Check(unit, false)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "unknown operation")
}
