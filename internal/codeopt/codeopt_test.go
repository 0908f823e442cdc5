package codeopt

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/diversepwmeasurement/JWebAssembly/internal/instr"
)

func TestOptimizeDropsConstImmediatelyDiscarded(t *testing.T) {
	list := &instr.List{Items: []instr.Instruction{
		{Kind: instr.KindConst, ConstType: "i32", ConstValue: int32(1)},
		{Kind: instr.KindOther, Opaque: Drop{}},
	}}
	Optimize(list)
	assert.Empty(t, list.Items)
}

func TestOptimizeKeepsConstConsumedByFollowingInstruction(t *testing.T) {
	// The classic two-operand push for a binary op: both consts are live
	// operands and neither may be folded away.
	list := &instr.List{Items: []instr.Instruction{
		{Kind: instr.KindConst, ConstType: "i32", ConstValue: int32(1)},
		{Kind: instr.KindConst, ConstType: "i32", ConstValue: int32(2)},
		{Kind: instr.KindOther, Opaque: "i32.add"},
	}}
	Optimize(list)
	assert.Len(t, list.Items, 3)
	assert.Equal(t, int32(1), list.Items[0].ConstValue)
	assert.Equal(t, int32(2), list.Items[1].ConstValue)
}

func TestOptimizeKeepsConsecutiveLocalStores(t *testing.T) {
	// Two consecutive stores to the same index are NOT redundant in a stack
	// machine: each pops its own operand, so dropping either would leave a
	// dangling value the other expected to consume.
	list := &instr.List{Items: []instr.Instruction{
		{Kind: instr.KindOther, Opaque: LocalSet{Index: 1}},
		{Kind: instr.KindOther, Opaque: LocalSet{Index: 1}},
	}}
	Optimize(list)
	assert.Len(t, list.Items, 2)
}

func TestOptimizeIsSinglePass(t *testing.T) {
	// Two consecutive const/drop pairs: each pair is independently
	// eliminated in one left-to-right walk, with nothing left behind.
	list := &instr.List{Items: []instr.Instruction{
		{Kind: instr.KindConst, ConstType: "i32", ConstValue: int32(1)},
		{Kind: instr.KindOther, Opaque: Drop{}},
		{Kind: instr.KindConst, ConstType: "i32", ConstValue: int32(2)},
		{Kind: instr.KindOther, Opaque: Drop{}},
	}}
	Optimize(list)
	assert.Empty(t, list.Items)
}

func TestOptimizeKeepsConstNotFollowedByDrop(t *testing.T) {
	list := &instr.List{Items: []instr.Instruction{
		{Kind: instr.KindConst, ConstType: "i32", ConstValue: int32(1)},
		{Kind: instr.KindOther, Opaque: LocalSet{Index: 0}},
	}}
	Optimize(list)
	assert.Len(t, list.Items, 2)
}
