package modulegen

import (
	"github.com/diversepwmeasurement/JWebAssembly/internal/classfile"
	"github.com/diversepwmeasurement/JWebAssembly/internal/funcname"
	"github.com/diversepwmeasurement/JWebAssembly/internal/instr"
	"github.com/diversepwmeasurement/JWebAssembly/internal/j2werr"
	"github.com/diversepwmeasurement/JWebAssembly/internal/wat"
)

// Finalize drains the worklist, then alternates TypeManager.PrepareFinish
// with another drain until a round produces nothing new — the fixed point
// is required, since resolving a v-table can mark new overrides
// Needed that weren't reachable any other way.
func (g *Generator) Finalize() error {
	if _, err := g.drain(); err != nil {
		return err
	}
	for {
		if err := g.Types.PrepareFinish(g.writer, g.Functions, g.Loader); err != nil {
			return err
		}
		n, err := g.drain()
		if err != nil {
			return err
		}
		if n == 0 {
			break
		}
	}
	g.Functions.PrepareFinish()
	return nil
}

func (g *Generator) drain() (int, error) {
	count := 0
	for {
		name, ok := g.Functions.NextScanLater()
		if !ok {
			break
		}
		if err := g.scanOne(name); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// scanOne resolves a single Needed name to a body (or an import), in the
// order: synthetic names, then direct class-file
// lookup (honoring replacements), then superclass search, then
// interface-default search, then failure.
func (g *Generator) scanOne(name funcname.FunctionName) error {
	if name.IsSynthetic() {
		if source, _, ok := name.WATSource(); ok {
			return g.scanWAT(name, source)
		}
		if ann, ok := name.ImportAnnotation(); ok {
			g.Functions.MarkAsImport(name, ann)
			g.Functions.MarkAsScanned(name, false)
			return nil
		}
	}

	// A class-file method carrying @Import was already recorded with
	// functionmgr during PrepareClasses; it is never scanned for a body
	// even though cf.Method would happily find one.
	if _, ok := g.Functions.ImportAnnotationFor(name); ok {
		g.Functions.MarkAsScanned(name, false)
		return nil
	}

	if tc, ok := g.textCode[name.SignatureName()]; ok {
		return g.scanWAT(name, tc.source)
	}

	cf, err := g.Loader.Get(name.ClassName)
	if err != nil {
		return err
	}

	if meth, found := cf.Method(name.Method, name.Signature); found {
		return g.scanDirect(name, cf, meth)
	}

	if alias, ok, err := g.searchSuper(cf, name); err != nil {
		return err
	} else if ok {
		g.aliasTo(name, alias)
		return nil
	}

	if alias, ok, err := g.searchInterfaces(cf, name); err != nil {
		return err
	} else if ok {
		g.aliasTo(name, alias)
		return nil
	}

	return &j2werr.MissingFunction{SignatureName: name.SignatureName()}
}

func (g *Generator) scanWAT(name funcname.FunctionName, source string) error {
	list, err := wat.Parse(source)
	if err != nil {
		return j2werr.AtSite("", name.ClassName, -1, err)
	}
	g.scanInstructions(list)
	g.pendingBodies[name.SignatureName()] = list
	g.Functions.MarkAsScanned(name, false)
	return nil
}

func (g *Generator) scanDirect(name funcname.FunctionName, cf classfile.ClassFile, meth classfile.MethodInfo) error {
	replacement := g.Functions.Replace(name, meth)
	rm, ok := replacement.(classfile.MethodInfo)
	if !ok {
		return &j2werr.UnsupportedConstruct{Msg: "replacement for " + name.String() + " has no method body"}
	}
	if rm.IsAbstract() || rm.IsNative() {
		return &j2werr.UnsupportedConstruct{Msg: "abstract or native method encountered as needed: " + name.String()}
	}
	builder, ok := rm.Builder()
	if !ok {
		return &j2werr.UnsupportedConstruct{Msg: "no code builder available for " + name.String()}
	}
	list, err := builder.Instructions()
	if err != nil {
		return &j2werr.IOFailure{Op: "build instructions for " + name.String(), Err: err}
	}
	g.scanInstructions(list)
	g.pendingBodies[name.SignatureName()] = list
	g.pendingBuilders[name.SignatureName()] = builder
	g.sourceFiles[name.SignatureName()] = cf.SourceFile()

	needsThis := !rm.IsStatic() || rm.Name() == "<init>"
	g.Functions.MarkAsScanned(name, needsThis)
	return nil
}

func (g *Generator) aliasTo(from, to funcname.FunctionName) {
	g.Functions.MarkAsNeeded(to)
	g.Functions.SetAlias(from, to)
	g.Functions.MarkAsScanned(from, false)
}

// scanInstructions marks the callee of every Call, CallVirtual and
// CallInterface instruction as Needed (CallInterface is included since it
// still denotes a reachable callee, even though its emission later fails
// unconditionally); other instruction kinds are not followed. It also
// registers every struct type a virtual/interface receiver or a
// STRUCT.NEW_DEFAULT touches with TypeManager, so that type is "Used" in
// time for TypeManager.PrepareFinish's v-table resolution — deferring this
// to emission would run it after PrepareFinish has already run.
func (g *Generator) scanInstructions(list *instr.List) {
	list.Walk(func(in *instr.Instruction) {
		switch in.Kind {
		case instr.KindCall, instr.KindCallVirtual, instr.KindCallInterface:
			g.Functions.MarkAsNeeded(in.Callee)
		}
		switch in.Kind {
		case instr.KindCallVirtual, instr.KindCallInterface:
			if in.ReceiverType != "" {
				g.Types.ValueOf(in.ReceiverType)
			}
		case instr.KindStructNewDefault:
			if in.StructClass != "" {
				g.Types.ValueOf(in.StructClass)
			}
		}
	})
}

// searchSuper walks cf's superclass chain looking for a method matching
// name's (method, signature), returning an alias target on the first hit.
func (g *Generator) searchSuper(cf classfile.ClassFile, name funcname.FunctionName) (funcname.FunctionName, bool, error) {
	superName, ok := cf.SuperClass()
	for ok {
		superCf, err := g.Loader.Get(superName)
		if err != nil {
			return funcname.FunctionName{}, false, err
		}
		if meth, found := superCf.Method(name.Method, name.Signature); found {
			return funcname.New(superName, meth.Name(), meth.Signature()), true, nil
		}
		superName, ok = superCf.SuperClass()
	}
	return funcname.FunctionName{}, false, nil
}

// searchInterfaces walks cf's own class chain (itself, then each
// superclass) and, at every level, each directly-implemented interface,
// looking for a default method matching name.
func (g *Generator) searchInterfaces(cf classfile.ClassFile, name funcname.FunctionName) (funcname.FunctionName, bool, error) {
	level := cf
	for {
		for _, ifaceName := range level.Interfaces() {
			iface, err := g.Loader.Get(ifaceName)
			if err != nil {
				return funcname.FunctionName{}, false, err
			}
			if meth, found := iface.Method(name.Method, name.Signature); found && !meth.IsAbstract() {
				return funcname.New(ifaceName, meth.Name(), meth.Signature()), true, nil
			}
		}
		superName, ok := level.SuperClass()
		if !ok {
			return funcname.FunctionName{}, false, nil
		}
		superCf, err := g.Loader.Get(superName)
		if err != nil {
			return funcname.FunctionName{}, false, err
		}
		level = superCf
	}
}
