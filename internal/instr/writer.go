package instr

import "github.com/diversepwmeasurement/JWebAssembly/internal/funcname"

// ModuleWriter is the external back end the generator drives. Binary and
// textual emission (and anything else) are free to implement it; this
// package only depends on the contract.
type ModuleWriter interface {
	PrepareImport(name funcname.FunctionName, ann funcname.ImportAnnotation) error

	WriteMethodStart(name funcname.FunctionName, sourceFile string) error
	WriteMethodParamStart(name funcname.FunctionName) error
	WriteMethodParam(valueType, localName string) error
	WriteMethodResult(valueType string) error
	WriteMethodLocal(valueType, localName string) error
	WriteMethodParamFinish(name funcname.FunctionName) error
	WriteMethodFinish() error

	WriteExport(name funcname.FunctionName, exportName string) error

	WriteConst(valueType string, value interface{}) error
	WriteDefaultValue(valueType string) error
	WriteException() error
	MarkSourceLine(line int) error

	// WriteRaw forwards a KindOther instruction's opaque payload verbatim;
	// what it means is between the CodeBuilder and the writer.
	WriteRaw(opaque interface{}) error

	// WriteCall lowers a direct (non-virtual) call to the resolved target.
	WriteCall(name funcname.FunctionName) error

	// WriteCallIndirect lowers a resolved virtual/interface dispatch: load
	// the receiver, the v-table/itable field, the function reference at
	// slotIndex, then call_indirect against funcType.
	WriteCallIndirect(receiverClass string, slotIndex int, funcType string) error

	// WriteStructNew emits a struct.new for className consuming the field
	// values already pushed (in field order, VTABLE first), replacing what
	// would otherwise be a zero-initialized struct.new_default.
	WriteStructNew(className string) error

	// WriteVTable emits one class's resolved v-table: an ordered list of
	// function references indexed by virtual-method slot.
	WriteVTable(className string, classIndex int32, slotFuncs []funcname.FunctionName) error

	// WriteDataSegment emits one interned-string data segment entry, used
	// by StringManager.Finalize.
	WriteDataSegment(offset int32, data string) error

	PrepareFinish() error
}

// Options exposes the compiler-wide switches the emitter consults.
type Options interface {
	UseEH() bool
	UseGC() bool
}

// CodeBuilder is the external stack-to-typed-instruction translator
// (a stack-to-register-ish instruction builder). The generator
// only ever consumes it through this interface.
type CodeBuilder interface {
	// Instructions returns the typed instruction list for the method body
	// this builder was constructed over.
	Instructions() (*List, error)
	// LocalName returns the debug-info name of the local at index in the
	// method's full local-variable table (parameters occupy the low
	// indices), if the class file carried one.
	LocalName(index int) (string, bool)
	// Locals returns the value types of every non-parameter local, in
	// declaration order.
	Locals() []string
}
