package stringmgr

import "github.com/diversepwmeasurement/JWebAssembly/internal/funcname"

// noopWriter is a full no-op instr.ModuleWriter, embedded by tests that only
// care about one or two methods.
type noopWriter struct{}

func (noopWriter) PrepareImport(name funcname.FunctionName, ann funcname.ImportAnnotation) error {
	return nil
}
func (noopWriter) WriteMethodStart(name funcname.FunctionName, sourceFile string) error { return nil }
func (noopWriter) WriteMethodParamStart(name funcname.FunctionName) error               { return nil }
func (noopWriter) WriteMethodParam(valueType, localName string) error                   { return nil }
func (noopWriter) WriteMethodResult(valueType string) error                             { return nil }
func (noopWriter) WriteMethodLocal(valueType, localName string) error                    { return nil }
func (noopWriter) WriteMethodParamFinish(name funcname.FunctionName) error              { return nil }
func (noopWriter) WriteMethodFinish() error                                             { return nil }
func (noopWriter) WriteExport(name funcname.FunctionName, exportName string) error      { return nil }
func (noopWriter) WriteConst(valueType string, value interface{}) error                 { return nil }
func (noopWriter) WriteDefaultValue(valueType string) error                             { return nil }
func (noopWriter) WriteException() error                                                { return nil }
func (noopWriter) MarkSourceLine(line int) error                                        { return nil }
func (noopWriter) WriteRaw(opaque interface{}) error                                    { return nil }
func (noopWriter) WriteCall(name funcname.FunctionName) error                           { return nil }
func (noopWriter) WriteCallIndirect(receiverClass string, slotIndex int, funcType string) error {
	return nil
}
func (noopWriter) WriteVTable(className string, classIndex int32, slotFuncs []funcname.FunctionName) error {
	return nil
}
func (noopWriter) WriteStructNew(className string) error            { return nil }
func (noopWriter) WriteDataSegment(offset int32, data string) error { return nil }
func (noopWriter) PrepareFinish() error                              { return nil }
