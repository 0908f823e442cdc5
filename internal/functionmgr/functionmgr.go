// Package functionmgr implements FunctionManager: the reachability and
// dispatch state that drives the module generation worklist.
//
// The worklist shape is a seen-set guarding a traversal that marks callees
// reachable as they're discovered, adapted from a recursive visit-with-
// seen-set into an explicit FIFO queue per state, since callers need FIFO
// ordering on promotion to reproduce output deterministically.
package functionmgr

import "github.com/diversepwmeasurement/JWebAssembly/internal/funcname"

// State is one of the five monotonic states a FunctionName passes through.
type State uint8

const (
	Unknown State = iota
	Known
	Needed
	Scanned
	Written
)

type entry struct {
	state        State
	needsThis    bool
	needsThisSet bool
}

// Manager is the worklist and dispatch table for the whole compilation.
// It is not safe for concurrent use — the pipeline is single-threaded cooperative throughout.
type Manager struct {
	entries map[string]*entry

	replacements map[string]ReplacementMethod
	aliases      map[string]funcname.FunctionName
	imports      map[string]funcname.ImportAnnotation

	// pending queues are FIFO on first promotion to that bucket.
	needed []funcname.FunctionName // not yet Scanned
	write  []funcname.FunctionName // Scanned, not yet Written, not aliased

	// neededOrder records every name promoted to Needed, never popped.
	neededOrder []funcname.FunctionName

	// names remembers the FunctionName value behind every signatureName key,
	// since the maps above are keyed by string for simplicity.
	names       map[string]funcname.FunctionName
	insertOrder []string

	finished bool
}

// ReplacementMethod is the narrow contract functionmgr needs from a
// classfile.MethodInfo-like value: enough to let the resolver build
// instructions from it without functionmgr importing package classfile.
type ReplacementMethod interface {
	Name() string
	Signature() string
}

// New constructs an empty Manager.
func New() *Manager {
	return &Manager{
		entries:      make(map[string]*entry),
		replacements: make(map[string]ReplacementMethod),
		aliases:      make(map[string]funcname.FunctionName),
		imports:      make(map[string]funcname.ImportAnnotation),
		names:        make(map[string]funcname.FunctionName),
	}
}

func (m *Manager) remember(name funcname.FunctionName) *entry {
	key := name.SignatureName()
	if _, ok := m.names[key]; !ok {
		m.insertOrder = append(m.insertOrder, key)
	}
	m.names[key] = name
	e, ok := m.entries[key]
	if !ok {
		e = &entry{}
		m.entries[key] = e
	}
	return e
}

// IsKnown reports whether prepareMethod (any of the marking operations)
// has already observed this name, regardless of its current state.
func (m *Manager) IsKnown(name funcname.FunctionName) bool {
	e, ok := m.entries[name.SignatureName()]
	return ok && e.state != Unknown
}

// MarkAsNeeded promotes Unknown/Known to Needed. Idempotent once Needed,
// Scanned, or Written.
func (m *Manager) MarkAsNeeded(name funcname.FunctionName) {
	e := m.remember(name)
	if e.state == Unknown || e.state == Known {
		e.state = Needed
		m.needed = append(m.needed, name)
		m.neededOrder = append(m.neededOrder, name)
	}
}

// MarkAsImport records name as externally provided: it is emitted as an
// import rather than scanned for a body.
func (m *Manager) MarkAsImport(name funcname.FunctionName, ann funcname.ImportAnnotation) {
	e := m.remember(name)
	if e.state == Unknown {
		e.state = Known
	}
	m.imports[name.SignatureName()] = ann
}

// AddReplacement records that compiling originalName should use
// replacement's body instead of whatever direct lookup would otherwise
// find.
func (m *Manager) AddReplacement(originalName funcname.FunctionName, replacement ReplacementMethod) {
	m.replacements[originalName.SignatureName()] = replacement
	if m.replacementNeedsThis(replacement) {
		m.SetNeedsThis(originalName, true)
	}
}

// staticLikeMethod lets AddReplacement ask whether the replacement method
// takes an implicit receiver without functionmgr importing classfile.
// Concrete ReplacementMethod implementations (classfile.Method) satisfy it.
type staticLikeMethod interface {
	IsStatic() bool
}

func (m *Manager) replacementNeedsThis(r ReplacementMethod) bool {
	if sl, ok := r.(staticLikeMethod); ok {
		return !sl.IsStatic() || r.Name() == "<init>"
	}
	return r.Name() == "<init>"
}

// Replace returns the replacement method recorded for name, if any,
// otherwise it returns candidate unchanged.
func (m *Manager) Replace(name funcname.FunctionName, candidate ReplacementMethod) ReplacementMethod {
	if r, ok := m.replacements[name.SignatureName()]; ok {
		return r
	}
	return candidate
}

// HasReplacement reports whether a replacement is recorded for name.
func (m *Manager) HasReplacement(name funcname.FunctionName) bool {
	_, ok := m.replacements[name.SignatureName()]
	return ok
}

// NeedThisParameter reports whether name receives an implicit receiver as
// its first parameter. Once set true it stays true.
func (m *Manager) NeedThisParameter(name funcname.FunctionName) bool {
	e := m.remember(name)
	return e.needsThis
}

// SetNeedsThis records whether name takes an implicit receiver. Once set
// true, later calls with false are ignored (monotonic).
func (m *Manager) SetNeedsThis(name funcname.FunctionName, v bool) {
	e := m.remember(name)
	if v {
		e.needsThis = true
	}
	e.needsThisSet = true
}

// SetAlias records that from is satisfied by to: from will never be
// written itself.
func (m *Manager) SetAlias(from, to funcname.FunctionName) {
	m.aliases[from.SignatureName()] = to
	m.remember(from)
}

// AliasOf returns the concrete name from resolves to, if any.
func (m *Manager) AliasOf(from funcname.FunctionName) (funcname.FunctionName, bool) {
	to, ok := m.aliases[from.SignatureName()]
	return to, ok
}

// NextScanLater pops and returns the next Needed-but-not-Scanned name in
// FIFO order, or ok=false when the queue is empty.
func (m *Manager) NextScanLater() (funcname.FunctionName, bool) {
	for len(m.needed) > 0 {
		name := m.needed[0]
		m.needed = m.needed[1:]
		e := m.entries[name.SignatureName()]
		if e != nil && e.state == Needed {
			return name, true
		}
		// already advanced past Needed (e.g. aliased away); skip.
	}
	return funcname.FunctionName{}, false
}

// MarkAsScanned transitions name from Needed to Scanned and records
// whether it needs an implicit receiver. An imported or aliased name is
// recorded as Scanned but is not queued for writing.
func (m *Manager) MarkAsScanned(name funcname.FunctionName, needsThis bool) {
	e := m.remember(name)
	e.state = Scanned
	if needsThis {
		e.needsThis = true
	}
	if _, isImport := m.imports[name.SignatureName()]; isImport {
		return
	}
	if _, aliased := m.aliases[name.SignatureName()]; aliased {
		return
	}
	m.write = append(m.write, name)
}

// GetNeededImports returns every name currently recorded as an import, in
// first-seen order, consulting names recorded via remember for determinism.
func (m *Manager) GetNeededImports() []funcname.FunctionName {
	var out []funcname.FunctionName
	seen := make(map[string]bool)
	for _, n := range m.orderedNames() {
		key := n.SignatureName()
		if _, ok := m.imports[key]; ok && !seen[key] {
			seen[key] = true
			out = append(out, n)
		}
	}
	return out
}

// ImportAnnotationFor returns the recorded import annotation for name.
func (m *Manager) ImportAnnotationFor(name funcname.FunctionName) (funcname.ImportAnnotation, bool) {
	ann, ok := m.imports[name.SignatureName()]
	return ann, ok
}

// GetNeededFunctions returns every name ever promoted to Needed, in
// first-promotion order, regardless of its current state.
func (m *Manager) GetNeededFunctions() []funcname.FunctionName {
	return append([]funcname.FunctionName{}, m.neededOrder...)
}

// GetWriteLater returns every name queued for emission, in first-Scanned
// order. Overrides that TypeManager.PrepareFinish marks Needed are appended
// by the MarkAsScanned calls of the drain that follows it, and are visible
// to callers that re-read this slice afterwards.
func (m *Manager) GetWriteLater() []funcname.FunctionName {
	return m.write
}

// MarkAsWritten records that name has produced output. Idempotent.
func (m *Manager) MarkAsWritten(name funcname.FunctionName) {
	e := m.remember(name)
	e.state = Written
}

// IsWritten reports whether MarkAsWritten has been called for name.
func (m *Manager) IsWritten(name funcname.FunctionName) bool {
	e, ok := m.entries[name.SignatureName()]
	return ok && e.state == Written
}

// PrepareFinish records that finalization is complete. It does not block
// any later addition: every bucket, the needed queue included, still
// accepts names after it is called.
func (m *Manager) PrepareFinish() {
	m.finished = true
}

func (m *Manager) orderedNames() []funcname.FunctionName {
	// names observed an unspecified map order; keep first-seen order by
	// recording insertion sequence separately instead of ranging the map.
	out := make([]funcname.FunctionName, 0, len(m.insertOrder))
	for _, key := range m.insertOrder {
		out = append(out, m.names[key])
	}
	return out
}
