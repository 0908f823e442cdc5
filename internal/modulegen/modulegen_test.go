package modulegen

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diversepwmeasurement/JWebAssembly/internal/classfile"
	"github.com/diversepwmeasurement/JWebAssembly/internal/config"
	"github.com/diversepwmeasurement/JWebAssembly/internal/funcname"
	"github.com/diversepwmeasurement/JWebAssembly/internal/instr"
	"github.com/diversepwmeasurement/JWebAssembly/internal/wasmtext"
)

func runGen(t *testing.T, classes []classfile.ClassFile, opts instr.Options) (*Generator, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := wasmtext.New(&buf)
	gen := New(classfile.NewLoader(nil), writer, opts, nil)
	require.NoError(t, gen.Run(classes))
	require.NoError(t, writer.Err())
	return gen, buf.String()
}

// Scenario 1: a static method export with no imports.
func TestExportStaticMethodNoImports(t *testing.T) {
	method := &classfile.Method{
		MName: "main", MSig: "()I", Static: true,
		Anns: []classfile.Annotation{{Name: "Export", Values: map[string]string{"name": "main"}}},
		Body: &instr.List{Items: []instr.Instruction{
			{Kind: instr.KindConst, Line: -1, ConstType: "i32", ConstValue: int32(42)},
		}},
	}
	demo := &classfile.Class{CName: "demo/Demo", MethodList: []*classfile.Method{method}}

	_, out := runGen(t, []classfile.ClassFile{demo}, config.Default())

	assert.Contains(t, out, "func $demo/Demo.main()I")
	assert.Contains(t, out, `export "main"`)
	assert.NotContains(t, out, "import")
}

// Scenario 2: virtual dispatch override across A/B shares a global slot.
func TestVirtualDispatchOverride(t *testing.T) {
	a := &classfile.Class{CName: "demo/A", MethodList: []*classfile.Method{
		{MName: "f", MSig: "()V", Body: &instr.List{}},
	}}
	b := &classfile.Class{
		CName: "demo/B", Super: "demo/A", HasSuper: true,
		MethodList: []*classfile.Method{{MName: "f", MSig: "()V", Body: &instr.List{}}},
	}
	caller := &classfile.Class{CName: "demo/Caller", MethodList: []*classfile.Method{
		{
			MName: "run", MSig: "()V", Static: true,
			Anns: []classfile.Annotation{{Name: "Export", Values: map[string]string{"name": "run"}}},
			Body: &instr.List{Items: []instr.Instruction{
				{Kind: instr.KindStructNewDefault, Line: -1, StructClass: "demo/B"},
				{Kind: instr.KindCallVirtual, Line: -1, ReceiverType: "demo/A", Callee: funcname.New("demo/A", "f", "()V")},
			}},
		},
	}}

	gen, out := runGen(t, []classfile.ClassFile{a, b, caller}, config.Default())

	slotA, targetA, ok := gen.Types.ValueOf("demo/A").VTableSlot("f()V")
	require.True(t, ok)
	slotB, targetB, ok := gen.Types.ValueOf("demo/B").VTableSlot("f()V")
	require.True(t, ok)

	assert.Equal(t, slotA, slotB, "overriding methods share one global dispatch slot")
	assert.True(t, targetA.Equal(funcname.New("demo/A", "f", "()V")))
	assert.True(t, targetB.Equal(funcname.New("demo/B", "f", "()V")), "B's own v-table must resolve to its override")

	assert.Contains(t, out, "struct.new $demo/B")
	assert.Contains(t, out, "call_indirect")
}

// Scenario 3: an @Import-annotated method is never scanned for a body; a
// caller resolves to the import.
func TestImportMethodNeverScannedCallerResolvesToImport(t *testing.T) {
	platform := &classfile.Class{CName: "env/Console", MethodList: []*classfile.Method{
		{
			MName: "log", MSig: "(I)V", Static: true,
			Anns: []classfile.Annotation{{Name: "Import", Values: map[string]string{"module": "env", "name": "log"}}},
			Body: nil,
		},
	}}
	caller := &classfile.Class{CName: "demo/Caller", MethodList: []*classfile.Method{
		{
			MName: "run", MSig: "()V", Static: true,
			Anns: []classfile.Annotation{{Name: "Export", Values: map[string]string{"name": "run"}}},
			Body: &instr.List{Items: []instr.Instruction{
				{Kind: instr.KindCall, Line: -1, Callee: funcname.New("env/Console", "log", "(I)V")},
			}},
		},
	}}

	gen, out := runGen(t, []classfile.ClassFile{platform, caller}, config.Default())

	imported := funcname.New("env/Console", "log", "(I)V")
	assert.False(t, gen.Functions.IsWritten(imported), "an imported function is never written a body")
	assert.Contains(t, out, `import "env" "log"`)
	assert.Contains(t, out, "call $env/Console.log(I)V")
}

// Scenario 4: an @Replace-annotated user method supplants a platform
// method.
func TestReplaceSupplantsPlatformMethod(t *testing.T) {
	platform := &classfile.Class{CName: "java/lang/Math", MethodList: []*classfile.Method{
		{MName: "sqrt", MSig: "(D)D", Static: true, Body: &instr.List{Items: []instr.Instruction{
			{Kind: instr.KindOther, Line: -1, Opaque: "native-stub"},
		}}},
	}}
	userReplacement := &classfile.Class{CName: "demo/FastMath", MethodList: []*classfile.Method{
		{
			MName: "sqrt", MSig: "(D)D", Static: true,
			Anns: []classfile.Annotation{{Name: "Replace", Values: map[string]string{"value": "java/lang/Math.sqrt(D)D"}}},
			Body: &instr.List{Items: []instr.Instruction{
				{Kind: instr.KindOther, Line: -1, Opaque: "fast-sqrt"},
			}},
		},
	}}
	caller := &classfile.Class{CName: "demo/Caller", MethodList: []*classfile.Method{
		{
			MName: "run", MSig: "()D", Static: true,
			Anns: []classfile.Annotation{{Name: "Export", Values: map[string]string{"name": "run"}}},
			Body: &instr.List{Items: []instr.Instruction{
				{Kind: instr.KindCall, Line: -1, Callee: funcname.New("java/lang/Math", "sqrt", "(D)D")},
			}},
		},
	}}

	_, out := runGen(t, []classfile.ClassFile{platform, userReplacement, caller}, config.Default())

	assert.Contains(t, out, "fast-sqrt")
	assert.NotContains(t, out, "native-stub")
}

// Scenario 5: hierarchy aliasing through C extends B extends A; the
// resolver aliases C.g to A.g.
func TestHierarchyAliasingThroughThreeLevels(t *testing.T) {
	a := &classfile.Class{CName: "demo/A", MethodList: []*classfile.Method{
		{MName: "g", MSig: "()V", Body: &instr.List{}},
	}}
	b := &classfile.Class{CName: "demo/B", Super: "demo/A", HasSuper: true}
	c := &classfile.Class{CName: "demo/C", Super: "demo/B", HasSuper: true}
	caller := &classfile.Class{CName: "demo/Caller", MethodList: []*classfile.Method{
		{
			MName: "run", MSig: "()V", Static: true,
			Anns: []classfile.Annotation{{Name: "Export", Values: map[string]string{"name": "run"}}},
			Body: &instr.List{Items: []instr.Instruction{
				{Kind: instr.KindCall, Line: -1, Callee: funcname.New("demo/C", "g", "()V")},
			}},
		},
	}}

	gen, out := runGen(t, []classfile.ClassFile{a, b, c, caller}, config.Default())

	cg := funcname.New("demo/C", "g", "()V")
	resolved, ok := gen.Functions.AliasOf(cg)
	require.True(t, ok)
	assert.True(t, resolved.Equal(funcname.New("demo/A", "g", "()V")))
	assert.False(t, gen.Functions.IsWritten(cg))
	assert.Contains(t, out, "call $demo/A.g()V")
}

// Scenario 6: an @TextCode-annotated method with inline WAT producing
// i32.const 42 and signature ()I.
func TestTextCodeMethodProducesInlineConstant(t *testing.T) {
	demo := &classfile.Class{CName: "demo/Demo", MethodList: []*classfile.Method{
		{
			MName: "answer", MSig: "()V", Static: true,
			Anns: []classfile.Annotation{
				{Name: "Export", Values: map[string]string{"name": "answer"}},
				{Name: "TextCode", Values: map[string]string{"value": "(i32.const 42)", "signature": "()I"}},
			},
			Body: nil,
		},
	}}

	_, out := runGen(t, []classfile.ClassFile{demo}, config.Default())

	assert.Contains(t, out, "func $demo/Demo.answer()I")
	assert.Contains(t, out, "(result i32)")
	assert.Contains(t, out, "i32.const 42")
}
