package modulegen

import (
	"github.com/diversepwmeasurement/JWebAssembly/internal/codeopt"
	"github.com/diversepwmeasurement/JWebAssembly/internal/funcname"
	"github.com/diversepwmeasurement/JWebAssembly/internal/instr"
	"github.com/diversepwmeasurement/JWebAssembly/internal/j2werr"
)

// Emit writes imports, then every scanned function body (optimized exactly
// once each), then exports, then the interned-string data segment, then
// closes the module.
func (g *Generator) Emit() error {
	for _, name := range g.Functions.GetNeededImports() {
		ann, _ := g.Functions.ImportAnnotationFor(name)
		if err := g.writer.PrepareImport(name, ann); err != nil {
			return err
		}
	}

	// Index-based, not range-based: the write bucket is re-read on every
	// iteration, so a name appended to it meanwhile is still picked up.
	// Emission itself only marks callees Needed and scans nothing, so it
	// does not add names to the bucket.
	for i := 0; i < len(g.Functions.GetWriteLater()); i++ {
		name := g.Functions.GetWriteLater()[i]
		if g.Functions.IsWritten(name) {
			continue
		}
		if err := g.emitOne(name); err != nil {
			return err
		}
	}

	for _, exp := range g.exports {
		if err := g.writer.WriteExport(exp.name, exp.exportName); err != nil {
			return err
		}
	}

	if err := g.Strings.Finalize(g.writer); err != nil {
		return err
	}
	return g.writer.PrepareFinish()
}

func (g *Generator) emitOne(name funcname.FunctionName) error {
	sourceFile := g.sourceFiles[name.SignatureName()]

	if err := g.writer.WriteMethodStart(name, sourceFile); err != nil {
		return err
	}
	g.Functions.MarkAsWritten(name)

	if err := g.writeSignature(name); err != nil {
		return err
	}

	list := g.pendingBodies[name.SignatureName()]
	if list == nil {
		list = &instr.List{}
	}
	codeopt.Optimize(list)

	lastLine := -1
	for i := range list.Items {
		in := &list.Items[i]

		if in.Line >= 0 && in.Line != lastLine {
			if err := g.writer.MarkSourceLine(in.Line); err != nil {
				return j2werr.AtSite(sourceFile, name.ClassName, in.Line, err)
			}
			lastLine = in.Line
		}

		if err := g.emitInstruction(name, sourceFile, in); err != nil {
			return j2werr.AtSite(sourceFile, name.ClassName, in.Line, err)
		}
	}

	return g.writer.WriteMethodFinish()
}

func (g *Generator) emitInstruction(name funcname.FunctionName, sourceFile string, in *instr.Instruction) error {
	if in.BlockOp != instr.BlockOpNone {
		if g.options.UseEH() {
			if err := g.writer.WriteException(); err != nil {
				return err
			}
		}
		return g.writer.WriteRaw(in.Opaque)
	}

	switch in.Kind {
	case instr.KindCall:
		// Every scanned body's callees were already marked Needed during
		// resolution; this re-marks them. A callee first marked here is
		// not scanned or written, since no drain runs during Emit.
		g.Functions.MarkAsNeeded(in.Callee)
		target := g.resolveAlias(in.Callee)
		return g.writer.WriteCall(target)

	case instr.KindCallVirtual:
		g.Functions.MarkAsNeeded(in.Callee)
		return g.emitVirtualCall(in)

	case instr.KindCallInterface:
		return &j2werr.UnsupportedConstruct{Msg: "interface calls are not supported"}

	case instr.KindStructNewDefault:
		if g.options.UseGC() {
			return g.emitStructNewDefault(in)
		}
		return g.writer.WriteRaw(in.Opaque)

	case instr.KindConst:
		return g.writer.WriteConst(in.ConstType, in.ConstValue)

	default:
		return g.writer.WriteRaw(in.Opaque)
	}
}

// resolveAlias follows a possibly-chained alias to its concrete target.
func (g *Generator) resolveAlias(name funcname.FunctionName) funcname.FunctionName {
	for {
		to, ok := g.Functions.AliasOf(name)
		if !ok {
			return name
		}
		name = to
	}
}

func (g *Generator) emitVirtualCall(in *instr.Instruction) error {
	st := g.Types.ValueOf(in.ReceiverType)
	key := in.Callee.Method + in.Callee.Signature
	slot, target, ok := st.VTableSlot(key)
	if !ok {
		return &j2werr.MissingFunction{SignatureName: in.Callee.SignatureName()}
	}
	return g.writer.WriteCallIndirect(in.ReceiverType, slot, target.Signature)
}

// emitStructNewDefault expands a STRUCT.NEW_DEFAULT into explicit
// per-field pushes (the VTABLE field gets the class index constant; every
// other field gets the writer's own default for its type) followed by the
// actual allocation, so the v-table is installed at construction instead of
// needing a separate store afterward.
func (g *Generator) emitStructNewDefault(in *instr.Instruction) error {
	st := g.Types.ValueOf(in.StructClass)
	for _, f := range st.Fields() {
		if f.IsVTable {
			if err := g.writer.WriteConst("i32", st.ClassIndex()); err != nil {
				return err
			}
			continue
		}
		if err := g.writer.WriteDefaultValue(wasmValueType(f.Type)); err != nil {
			return err
		}
	}
	return g.writer.WriteStructNew(in.StructClass)
}

// writeSignature emits the parameter/result/local declarations for name
// an implicit "this" first if needed, then the parsed JVM
// parameters, then the result, then any builder-declared locals.
func (g *Generator) writeSignature(name funcname.FunctionName) error {
	w := g.writer

	if err := w.WriteMethodParamStart(name); err != nil {
		return err
	}

	if g.Functions.NeedThisParameter(name) {
		if err := w.WriteMethodParam(structValueType(name.ClassName), "this"); err != nil {
			return err
		}
	}

	builder := g.pendingBuilders[name.SignatureName()]
	thisOffset := 0
	if g.Functions.NeedThisParameter(name) {
		thisOffset = 1
	}

	for i, desc := range funcname.ParamDescriptors(name.Signature) {
		localName := ""
		if builder != nil {
			if n, ok := builder.LocalName(i + thisOffset); ok {
				localName = n
			}
		}
		if err := w.WriteMethodParam(wasmValueType(desc), localName); err != nil {
			return err
		}
	}

	ret := funcname.ReturnDescriptor(name.Signature)
	if ret != "" && ret != "V" {
		if err := w.WriteMethodResult(wasmValueType(ret)); err != nil {
			return err
		}
	}

	if builder != nil {
		for _, lt := range builder.Locals() {
			if err := w.WriteMethodLocal(wasmValueType(lt), ""); err != nil {
				return err
			}
		}
	}

	return w.WriteMethodParamFinish(name)
}
