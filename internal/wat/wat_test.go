package wat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diversepwmeasurement/JWebAssembly/internal/instr"
)

func TestParseI32Const(t *testing.T) {
	list, err := Parse("(i32.const 42)")
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, instr.KindConst, list.Items[0].Kind)
	assert.Equal(t, "i32", list.Items[0].ConstType)
	assert.Equal(t, int32(42), list.Items[0].ConstValue)
}

func TestParseMultipleInstructions(t *testing.T) {
	list, err := Parse("(i32.const 1) (i64.const 2)")
	require.NoError(t, err)
	require.Len(t, list.Items, 2)
	assert.Equal(t, int64(2), list.Items[1].ConstValue)
}

func TestParseRejectsUnsupportedInstruction(t *testing.T) {
	_, err := Parse("(local.get 0)")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported instruction")
}

func TestParseRejectsMalformedInput(t *testing.T) {
	_, err := Parse("(i32.const 1")
	assert.Error(t, err)
}
