// Package modulegen implements ModuleGenerator: the top-level driver that
// walks a library, annotation by annotation, through the prepare/resolve/
// finalize/emit phases, wiring FunctionManager,
// TypeManager, StringManager, and CodeOptimizer together against an
// external ModuleWriter.
//
// The phase-driven shape is a fixed sequence of named stages, each fully
// consuming its input before the next starts.
package modulegen

import (
	"github.com/diversepwmeasurement/JWebAssembly/internal/classfile"
	"github.com/diversepwmeasurement/JWebAssembly/internal/compilelog"
	"github.com/diversepwmeasurement/JWebAssembly/internal/funcname"
	"github.com/diversepwmeasurement/JWebAssembly/internal/functionmgr"
	"github.com/diversepwmeasurement/JWebAssembly/internal/instr"
	"github.com/diversepwmeasurement/JWebAssembly/internal/j2werr"
	"github.com/diversepwmeasurement/JWebAssembly/internal/stringmgr"
	"github.com/diversepwmeasurement/JWebAssembly/internal/typemgr"
)

const (
	annImport   = "Import"
	annExport   = "Export"
	annReplace  = "Replace"
	annPartial  = "Partial"
	annTextCode = "TextCode"
)

type exportEntry struct {
	name       funcname.FunctionName
	exportName string
}

type textCodeBody struct {
	source string
}

// Generator is the ModuleGenerator: it owns the four collaborator managers
// and drives them through one compilation.
type Generator struct {
	Loader    *classfile.Loader
	Functions *functionmgr.Manager
	Types     *typemgr.Manager
	Strings   *stringmgr.Manager

	writer  instr.ModuleWriter
	options instr.Options
	log     *compilelog.Logger

	exports  []exportEntry
	textCode map[string]textCodeBody

	// pendingBodies/pendingBuilders/sourceFiles are keyed by signatureName
	// and populated as each Needed name is scanned, consumed again at
	// emission.
	pendingBodies   map[string]*instr.List
	pendingBuilders map[string]instr.CodeBuilder
	sourceFiles     map[string]string
}

// New constructs a Generator that writes to writer under options, loading
// classes through loader. log may be nil.
func New(loader *classfile.Loader, writer instr.ModuleWriter, options instr.Options, log *compilelog.Logger) *Generator {
	functions := functionmgr.New()
	return &Generator{
		Loader:          loader,
		Functions:       functions,
		Types:           typemgr.New(),
		Strings:         stringmgr.New(functions),
		writer:          writer,
		options:         options,
		log:             log,
		textCode:        make(map[string]textCodeBody),
		pendingBodies:   make(map[string]*instr.List),
		pendingBuilders: make(map[string]instr.CodeBuilder),
		sourceFiles:     make(map[string]string),
	}
}

// Run drives the whole pipeline over classes: prepare, resolve the worklist
// to a fixed point, finalize types and strings, and emit the module.
func (g *Generator) Run(classes []classfile.ClassFile) error {
	if err := g.PrepareClasses(classes); err != nil {
		return err
	}
	if err := g.Finalize(); err != nil {
		return err
	}
	return g.Emit()
}

// PrepareClasses registers every class with the loader (honoring
// class-level @Replace/@Partial), then inspects every method for
// @Import/@Export/@Replace/@TextCode. @Export methods become reachability
// roots.
func (g *Generator) PrepareClasses(classes []classfile.ClassFile) error {
	for _, cf := range classes {
		overlaid := false
		for _, ann := range cf.Annotations() {
			target, ok := ann.Value("value")
			if !ok || target == "" {
				continue
			}
			switch ann.Name {
			case annReplace:
				g.Loader.Replace(target, cf)
				overlaid = true
			case annPartial:
				g.Loader.Partial(target, cf)
				overlaid = true
			}
		}
		if !overlaid {
			g.Loader.Cache(cf)
		}

		for _, meth := range cf.Methods() {
			if err := g.prepareMethod(cf, meth); err != nil {
				return err
			}
		}
	}
	return nil
}

// functionNameFor computes the identity a method is known by everywhere
// else in the pipeline: its declared signature, unless an @TextCode
// annotation overrides it.
func functionNameFor(cf classfile.ClassFile, meth classfile.MethodInfo) funcname.FunctionName {
	sig := meth.Signature()
	for _, ann := range meth.Annotations() {
		if ann.Name == annTextCode {
			if s, ok := ann.Value("signature"); ok && s != "" {
				sig = s
			}
		}
	}
	return funcname.New(cf.Name(), meth.Name(), sig)
}

func (g *Generator) prepareMethod(cf classfile.ClassFile, meth classfile.MethodInfo) error {
	name := functionNameFor(cf, meth)

	for _, ann := range meth.Annotations() {
		switch ann.Name {
		case annImport:
			if !meth.IsStatic() {
				return &j2werr.AnnotationViolation{Msg: "@Import method must be static: " + name.String()}
			}
			module, _ := ann.Value("module")
			importName, ok := ann.Value("name")
			if !ok || importName == "" {
				importName = meth.Name()
			}
			extra := extraValues(ann, "module", "name")
			g.Functions.MarkAsImport(name, funcname.ImportAnnotation{Module: module, Name: importName, Extra: extra})

		case annExport:
			if !meth.IsStatic() {
				return &j2werr.AnnotationViolation{Msg: "@Export method must be static: " + name.String()}
			}
			exportName, ok := ann.Value("name")
			if !ok || exportName == "" {
				exportName = meth.Name()
			}
			g.Functions.MarkAsNeeded(name)
			g.exports = append(g.exports, exportEntry{name: name, exportName: exportName})

		case annReplace:
			value, ok := ann.Value("value")
			if !ok {
				return &j2werr.AnnotationViolation{Msg: "@Replace method annotation missing value: " + name.String()}
			}
			original, ok := funcname.ParseSignatureName(value)
			if !ok {
				return &j2werr.AnnotationViolation{Msg: "@Replace value is not a signature name: " + value}
			}
			g.Functions.AddReplacement(original, meth)

		case annTextCode:
			value, _ := ann.Value("value")
			g.textCode[name.SignatureName()] = textCodeBody{source: value}
		}
	}
	return nil
}

func extraValues(ann classfile.Annotation, reserved ...string) map[string]string {
	skip := make(map[string]bool, len(reserved))
	for _, k := range reserved {
		skip[k] = true
	}
	var out map[string]string
	for k, v := range ann.Values {
		if skip[k] {
			continue
		}
		if out == nil {
			out = make(map[string]string)
		}
		out[k] = v
	}
	return out
}
