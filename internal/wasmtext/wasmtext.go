// Package wasmtext is a minimal textual ModuleWriter used by the CLI demo
// path and by tests that want to assert on emitted structure without a
// production-grade binary encoder. A real binary or textual WebAssembly
// encoder is treated as an external, pluggable collaborator; this package
// is this repo's own stand-in for one.
package wasmtext

import (
	"fmt"
	"io"
	"strings"

	"github.com/diversepwmeasurement/JWebAssembly/internal/funcname"
)

// Writer renders a module as indented S-expression-ish text to an
// io.Writer, in emission order.
type Writer struct {
	out   io.Writer
	depth int
	err   error
}

// New constructs a Writer that writes to out.
func New(out io.Writer) *Writer { return &Writer{out: out} }

func (w *Writer) line(format string, args ...interface{}) error {
	if w.err != nil {
		return w.err
	}
	_, err := fmt.Fprintf(w.out, "%s%s\n", strings.Repeat("  ", w.depth), fmt.Sprintf(format, args...))
	if err != nil {
		w.err = err
	}
	return err
}

func (w *Writer) PrepareImport(name funcname.FunctionName, ann funcname.ImportAnnotation) error {
	return w.line("(import %q %q (func $%s))", ann.Module, ann.Name, name.SignatureName())
}

func (w *Writer) WriteMethodStart(name funcname.FunctionName, sourceFile string) error {
	if err := w.line("(func $%s ;; %s", name.SignatureName(), sourceFile); err != nil {
		return err
	}
	w.depth++
	return nil
}

func (w *Writer) WriteMethodParamStart(name funcname.FunctionName) error { return nil }

func (w *Writer) WriteMethodParam(valueType, localName string) error {
	if localName != "" {
		return w.line("(param $%s %s)", localName, valueType)
	}
	return w.line("(param %s)", valueType)
}

func (w *Writer) WriteMethodResult(valueType string) error {
	return w.line("(result %s)", valueType)
}

func (w *Writer) WriteMethodLocal(valueType, localName string) error {
	if localName != "" {
		return w.line("(local $%s %s)", localName, valueType)
	}
	return w.line("(local %s)", valueType)
}

func (w *Writer) WriteMethodParamFinish(name funcname.FunctionName) error { return nil }

func (w *Writer) WriteMethodFinish() error {
	w.depth--
	return w.line(")")
}

func (w *Writer) WriteExport(name funcname.FunctionName, exportName string) error {
	return w.line("(export %q (func $%s))", exportName, name.SignatureName())
}

func (w *Writer) WriteConst(valueType string, value interface{}) error {
	return w.line("%s.const %v", valueType, value)
}

func (w *Writer) WriteDefaultValue(valueType string) error {
	return w.line("%s.const 0", valueType)
}

func (w *Writer) WriteException() error {
	return w.line(";; exception-handling site")
}

func (w *Writer) MarkSourceLine(line int) error {
	return w.line(";; line %d", line)
}

func (w *Writer) WriteRaw(opaque interface{}) error {
	return w.line("%v", opaque)
}

func (w *Writer) WriteCall(name funcname.FunctionName) error {
	return w.line("(call $%s)", name.SignatureName())
}

func (w *Writer) WriteCallIndirect(receiverClass string, slotIndex int, funcType string) error {
	return w.line("(call_indirect (type %s) (slot %d of %s))", funcType, slotIndex, receiverClass)
}

func (w *Writer) WriteStructNew(className string) error {
	return w.line("(struct.new $%s)", className)
}

func (w *Writer) WriteVTable(className string, classIndex int32, slotFuncs []funcname.FunctionName) error {
	names := make([]string, len(slotFuncs))
	for i, f := range slotFuncs {
		names[i] = f.SignatureName()
	}
	return w.line("(vtable %s %d [%s])", className, classIndex, strings.Join(names, ", "))
}

func (w *Writer) WriteDataSegment(offset int32, data string) error {
	return w.line("(data (i32.const %d) %q)", offset, data)
}

func (w *Writer) PrepareFinish() error {
	return w.line(";; finalize")
}

// Err returns the first write error encountered, if any.
func (w *Writer) Err() error { return w.err }
