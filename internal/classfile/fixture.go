package classfile

import "github.com/diversepwmeasurement/JWebAssembly/internal/instr"

// Method and Class are minimal, in-memory ClassFile/MethodInfo
// implementations. They stand in for the external class-file parser in
// tests and in the cmd/j2wasmc demo path, which builds them from a small
// textual fixture format instead of real .class bytes — see
// internal/modulegen's tests for end-to-end scenarios built this way.
type Method struct {
	MName      string
	MSig       string
	Static     bool
	Abstract   bool
	Native     bool
	Anns       []Annotation
	Body       *instr.List // nil for Abstract/Native
	LocalTypes []string
	LocalNames map[int]string
}

func (m *Method) Name() string              { return m.MName }
func (m *Method) Signature() string         { return m.MSig }
func (m *Method) IsStatic() bool            { return m.Static }
func (m *Method) IsAbstract() bool          { return m.Abstract }
func (m *Method) IsNative() bool            { return m.Native }
func (m *Method) Annotations() []Annotation { return m.Anns }

func (m *Method) Builder() (instr.CodeBuilder, bool) {
	if m.Abstract || m.Native || m.Body == nil {
		return nil, false
	}
	return &fixedCodeBuilder{method: m}, true
}

type fixedCodeBuilder struct {
	method *Method
}

func (b *fixedCodeBuilder) Instructions() (*instr.List, error) {
	return b.method.Body, nil
}

func (b *fixedCodeBuilder) LocalName(index int) (string, bool) {
	name, ok := b.method.LocalNames[index]
	return name, ok
}

func (b *fixedCodeBuilder) Locals() []string { return b.method.LocalTypes }

// Class is a minimal in-memory ClassFile.
type Class struct {
	CName      string
	Super      string
	HasSuper   bool
	Ifaces     []string
	FieldList  []FieldInfo
	Src        string
	Anns       []Annotation
	MethodList []*Method
}

func (c *Class) Name() string              { return c.CName }
func (c *Class) Interfaces() []string      { return c.Ifaces }
func (c *Class) Fields() []FieldInfo       { return c.FieldList }
func (c *Class) SourceFile() string        { return c.Src }
func (c *Class) Annotations() []Annotation { return c.Anns }

func (c *Class) SuperClass() (string, bool) {
	if !c.HasSuper {
		return "", false
	}
	return c.Super, true
}

func (c *Class) Methods() []MethodInfo {
	out := make([]MethodInfo, len(c.MethodList))
	for i, m := range c.MethodList {
		out[i] = m
	}
	return out
}

func (c *Class) Method(name, signature string) (MethodInfo, bool) {
	for _, m := range c.MethodList {
		if m.MName == name && m.MSig == signature {
			return m, true
		}
	}
	return nil, false
}
