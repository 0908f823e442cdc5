// Package typemgr implements TypeManager: stable class indices, struct
// field layout, and v-table resolution.
//
// classIndex assignment follows the "assign a stable integer key the first
// time you see this identity, in encounter order" idiom, applied to classes
// instead of function types.
package typemgr

import (
	"sort"

	"github.com/diversepwmeasurement/JWebAssembly/internal/classfile"
	"github.com/diversepwmeasurement/JWebAssembly/internal/funcname"
	"github.com/diversepwmeasurement/JWebAssembly/internal/functionmgr"
	"github.com/diversepwmeasurement/JWebAssembly/internal/instr"
	"github.com/diversepwmeasurement/JWebAssembly/internal/j2werr"
)

// VTableFieldName is the synthetic field every StructType carries, at a
// position consistent across all types in one compilation.
const VTableFieldName = "$vtable"

// FieldDef describes one field of a struct's layout.
type FieldDef struct {
	Name     string
	Type     string
	IsVTable bool
}

// StructType is the struct layout and v-table for one class.
type StructType struct {
	className  string
	classIndex int32
	fields     []FieldDef
	vtable     []funcname.FunctionName // ordered by slot index
	slotOf     map[string]int          // methodKey -> slot index, within this class's vtable
}

// ClassName returns the owning class's internal name.
func (s *StructType) ClassName() string { return s.className }

// ClassIndex returns the stable integer assigned to this class; this is
// the value written as the VTABLE field's constructor-time constant.
func (s *StructType) ClassIndex() int32 { return s.classIndex }

// Fields returns the ordered field list, always including the synthetic
// VTABLE field.
func (s *StructType) Fields() []FieldDef { return s.fields }

// VTable returns the resolved, ordered list of function references for
// virtual dispatch.
func (s *StructType) VTable() []funcname.FunctionName { return s.vtable }

// VTableSlot returns the slot index and resolved target for a given
// (methodName+signature) key, as seen from this class.
func (s *StructType) VTableSlot(methodKey string) (slot int, target funcname.FunctionName, ok bool) {
	idx, ok := s.slotOf[methodKey]
	if !ok {
		return 0, funcname.FunctionName{}, false
	}
	return idx, s.vtable[idx], true
}

// Manager assigns stable class indices, lays out fields, and builds
// v-tables.
type Manager struct {
	types     map[string]*StructType
	order     []string // encounter order, for deterministic PrepareFinish output
	nextIndex int32

	slotIndex   map[string]int // methodKey -> global slot index
	nextSlot    int
	vtableCache map[string]map[string]funcname.FunctionName
}

// New constructs an empty Manager.
func New() *Manager {
	return &Manager{
		types:       make(map[string]*StructType),
		slotIndex:   make(map[string]int),
		vtableCache: make(map[string]map[string]funcname.FunctionName),
	}
}

// ValueOf returns the StructType for className, assigning a new
// classIndex the first time it's requested. Idempotent thereafter.
func (m *Manager) ValueOf(className string) *StructType {
	if st, ok := m.types[className]; ok {
		return st
	}
	st := &StructType{
		className:  className,
		classIndex: m.nextIndex,
		fields:     []FieldDef{{Name: VTableFieldName, Type: "i32", IsVTable: true}},
		slotOf:     make(map[string]int),
	}
	m.nextIndex++
	m.types[className] = st
	m.order = append(m.order, className)
	return st
}

// Used reports whether className has already been requested via ValueOf.
func (m *Manager) Used(className string) bool {
	_, ok := m.types[className]
	return ok
}

func methodKey(name, signature string) string { return name + signature }

// resolveVTable computes the (methodKey -> FunctionName) map for
// className by walking from its superclass chain's root down, so a more
// derived declaration always overrides an inherited one under the same
// key — the most-derived override reachable from each class.
func (m *Manager) resolveVTable(className string, loader *classfile.Loader) (map[string]funcname.FunctionName, error) {
	if cached, ok := m.vtableCache[className]; ok {
		return cached, nil
	}
	cf, err := loader.Get(className)
	if err != nil {
		return nil, err
	}

	resolved := make(map[string]funcname.FunctionName)
	if super, ok := cf.SuperClass(); ok {
		superMap, err := m.resolveVTable(super, loader)
		if err != nil {
			return nil, err
		}
		for k, v := range superMap {
			resolved[k] = v
		}
	}
	for _, meth := range cf.Methods() {
		if meth.IsStatic() || meth.Name() == "<init>" || meth.IsAbstract() {
			continue
		}
		resolved[methodKey(meth.Name(), meth.Signature())] = funcname.New(className, meth.Name(), meth.Signature())
	}

	m.vtableCache[className] = resolved
	return resolved, nil
}

// PrepareFinish walks every used type, resolves its v-table, marks every
// selected override as Needed, and emits the v-table data through writer.
// Because resolving a class's v-table can mark new overrides Needed that
// weren't reachable any other way, the generator must re-run the scan
// drain after calling this to reach a fixed point.
func (m *Manager) PrepareFinish(writer instr.ModuleWriter, functions *functionmgr.Manager, loader *classfile.Loader) error {
	for _, className := range m.order {
		st := m.types[className]
		resolved, err := m.resolveVTable(className, loader)
		if err != nil {
			return &j2werr.MissingClass{ClassName: className}
		}

		st.vtable = make([]funcname.FunctionName, 0, len(resolved))
		st.slotOf = make(map[string]int, len(resolved))
		keys := make([]string, 0, len(resolved))
		for key := range resolved {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			fn := resolved[key]
			slot, ok := m.slotIndex[key]
			if !ok {
				slot = m.nextSlot
				m.slotIndex[key] = slot
				m.nextSlot++
			}
			for len(st.vtable) <= slot {
				st.vtable = append(st.vtable, funcname.FunctionName{})
			}
			st.vtable[slot] = fn
			st.slotOf[key] = slot
			functions.MarkAsNeeded(fn)
		}

		// Trim unused trailing slots this class doesn't reach, so the
		// emitted v-table only lists the slots resolved above.
		for len(st.vtable) > 0 && st.vtable[len(st.vtable)-1].SignatureName() == "" {
			st.vtable = st.vtable[:len(st.vtable)-1]
		}

		if err := writer.WriteVTable(className, st.classIndex, st.vtable); err != nil {
			return err
		}

		// PrepareFinish runs once per fixed-point round; lay out the class's
		// own fields only on the first round that reaches this type.
		if len(st.fields) == 1 {
			for _, f := range classFields(loader, className) {
				st.fields = append(st.fields, FieldDef{Name: f.Name, Type: f.Type})
			}
		}
	}
	return nil
}

func classFields(loader *classfile.Loader, className string) []classfile.FieldInfo {
	cf, err := loader.Get(className)
	if err != nil {
		return nil
	}
	return cf.Fields()
}
