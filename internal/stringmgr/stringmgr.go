// Package stringmgr implements StringManager: string-literal interning via
// synthetic accessor functions, finalized into a data segment.
//
// Nothing is registered at construction: each literal's synthetic accessor
// is marked Needed with the FunctionManager the first time Intern sees
// that literal, and the data segment is emitted at Finalize.
package stringmgr

import (
	"fmt"

	"github.com/diversepwmeasurement/JWebAssembly/internal/funcname"
	"github.com/diversepwmeasurement/JWebAssembly/internal/functionmgr"
	"github.com/diversepwmeasurement/JWebAssembly/internal/instr"
)

const ownerClass = "java/lang/String$Literals"

// Manager interns string literals and exposes a FunctionName that returns
// the literal's data-segment offset when called.
type Manager struct {
	functions *functionmgr.Manager

	offsets map[string]int32
	names   map[string]funcname.FunctionName
	order   []string
	next    int32
}

// New constructs a Manager bound to functions; interned accessors are
// registered with it as they're created.
func New(functions *functionmgr.Manager) *Manager {
	return &Manager{
		functions: functions,
		offsets:   make(map[string]int32),
		names:     make(map[string]funcname.FunctionName),
	}
}

// Intern returns the FunctionName of the zero-argument accessor that
// yields literal's data-segment offset, interning literal the first time
// it's seen and marking the accessor Needed so the worklist picks it up.
func (m *Manager) Intern(literal string) funcname.FunctionName {
	if fn, ok := m.names[literal]; ok {
		return fn
	}

	offset := m.next
	m.offsets[literal] = offset
	m.next += int32(len(literal)) + 1 // +1: keep a NUL separator between entries.
	m.order = append(m.order, literal)

	method := fmt.Sprintf("$stringAt$%d", len(m.order)-1)
	fn := funcname.NewSyntheticWAT(ownerClass, method, fmt.Sprintf("(i32.const %d)", offset), "()I")
	m.names[literal] = fn
	m.functions.MarkAsNeeded(fn)
	return fn
}

// Finalize emits the data segment covering every interned literal, in
// interning order, through writer.
func (m *Manager) Finalize(writer instr.ModuleWriter) error {
	for _, literal := range m.order {
		if err := writer.WriteDataSegment(m.offsets[literal], literal); err != nil {
			return err
		}
	}
	return nil
}
