package typemgr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diversepwmeasurement/JWebAssembly/internal/classfile"
	"github.com/diversepwmeasurement/JWebAssembly/internal/funcname"
	"github.com/diversepwmeasurement/JWebAssembly/internal/functionmgr"
	"github.com/diversepwmeasurement/JWebAssembly/internal/instr"
)

type recordingWriter struct {
	instr.ModuleWriter // embed nil; only WriteVTable is exercised here
	vtables            map[string][]string
}

func newRecordingWriter() *recordingWriter {
	return &recordingWriter{vtables: make(map[string][]string)}
}

func (w *recordingWriter) WriteVTable(className string, classIndex int32, slotFuncs []funcname.FunctionName) error {
	names := make([]string, len(slotFuncs))
	for i, f := range slotFuncs {
		names[i] = f.SignatureName()
	}
	w.vtables[className] = names
	return nil
}

func classWithMethod(name, super string, hasSuper bool, methodName, sig string) *classfile.Class {
	return &classfile.Class{
		CName:    name,
		Super:    super,
		HasSuper: hasSuper,
		MethodList: []*classfile.Method{
			{MName: methodName, MSig: sig, Body: &instr.List{}},
		},
	}
}

func TestVTableMostDerivedOverrideWins(t *testing.T) {
	loader := classfile.NewLoader(nil)
	a := classWithMethod("demo/A", "", false, "f", "()V")
	b := classWithMethod("demo/B", "demo/A", true, "f", "()V")
	loader.Cache(a)
	loader.Cache(b)

	types := New()
	types.ValueOf("demo/A")
	types.ValueOf("demo/B")

	writer := newRecordingWriter()
	functions := functionmgr.New()
	require.NoError(t, types.PrepareFinish(writer, functions, loader))

	assert.Equal(t, []string{"demo/A.f()V"}, writer.vtables["demo/A"])
	assert.Equal(t, []string{"demo/B.f()V"}, writer.vtables["demo/B"])

	st := types.ValueOf("demo/B")
	slot, target, ok := st.VTableSlot("f()V")
	require.True(t, ok)
	assert.Equal(t, 0, slot)
	assert.True(t, target.Equal(funcname.New("demo/B", "f", "()V")))
}

func TestValueOfAssignsStableMonotonicIndex(t *testing.T) {
	types := New()
	a := types.ValueOf("demo/A")
	b := types.ValueOf("demo/B")
	aAgain := types.ValueOf("demo/A")

	assert.Equal(t, int32(0), a.ClassIndex())
	assert.Equal(t, int32(1), b.ClassIndex())
	assert.Same(t, a, aAgain)
}

func TestFieldsAlwaysCarryVTableFieldFirst(t *testing.T) {
	types := New()
	st := types.ValueOf("demo/A")
	require.Len(t, st.Fields(), 1)
	assert.True(t, st.Fields()[0].IsVTable)
	assert.Equal(t, VTableFieldName, st.Fields()[0].Name)
}
