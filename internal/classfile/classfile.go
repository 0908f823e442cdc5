// Package classfile defines the class-file/method contracts this pipeline
// consumes (the real parser is an external collaborator) and
// implements the ClassFileLoader cache/overlay, library discovery, and a
// minimal in-memory fixture representation used by tests and the CLI demo
// path in place of a full bytecode parser.
package classfile

import "github.com/diversepwmeasurement/JWebAssembly/internal/instr"

// Annotation is the data-only representation of a recognized class or
// method annotation. Interpretation stays in the generator — annotations
// are data, not behavior.
type Annotation struct {
	Name   string // "Import", "Export", "Replace", "Partial", "TextCode"
	Values map[string]string
}

// Value returns Values[key] and whether it was present.
func (a Annotation) Value(key string) (string, bool) {
	v, ok := a.Values[key]
	return v, ok
}

// FieldInfo describes one field of a class.
type FieldInfo struct {
	Name string
	Type string
}

// MethodInfo is the contract for a single method of a ClassFile.
type MethodInfo interface {
	Name() string
	Signature() string
	IsStatic() bool
	IsAbstract() bool
	IsNative() bool
	Annotations() []Annotation
	// Builder returns the CodeBuilder for this method's body, or ok=false
	// for an abstract or native method (no body to translate).
	Builder() (builder instr.CodeBuilder, ok bool)
}

// ClassFile is the contract for a single parsed class.
type ClassFile interface {
	Name() string // internal slash-form, e.g. "java/lang/Object"
	SuperClass() (string, bool)
	Interfaces() []string
	Fields() []FieldInfo
	SourceFile() string
	Annotations() []Annotation
	Methods() []MethodInfo
	// Method looks up a method by (name, signature); ok is false on miss.
	Method(name, signature string) (MethodInfo, bool)
}
