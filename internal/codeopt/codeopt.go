// Package codeopt implements CodeOptimizer: a single stateless peephole
// pass invoked exactly once per emitted function, after scanning is
// complete.
//
// A fixed sequence of small, independently-reasoned-about rewrite rules
// applied over one mutable instruction list in a single left-to-right walk,
// rather than a fixed-point, multi-pass pipeline — only one pass over the
// list is allowed here. Every rule here must hold regardless of what the
// rest of the stack looks like: this is a stack machine, so folding or
// dropping an instruction that still has a live consumer silently corrupts
// the emitted body rather than failing loudly.
package codeopt

import "github.com/diversepwmeasurement/JWebAssembly/internal/instr"

// Optimize rewrites list in place with one left-to-right peephole pass.
func Optimize(list *instr.List) {
	out := list.Items[:0]
	for i := 0; i < len(list.Items); i++ {
		cur := list.Items[i]

		if isConstImmediatelyDropped(list.Items, i) {
			i++ // the push and its drop cancel out; consume both.
			continue
		}
		out = append(out, cur)
	}
	list.Items = out
}

// isConstImmediatelyDropped fires for a const push immediately followed by
// a Drop of that same value. Pushing a constant and then discarding it is a
// no-op irrespective of anything else on the stack, so both instructions
// can be removed outright — unlike folding two adjacent consts (the first
// is frequently a live operand a following binary op still needs, e.g.
// "i32.const 1; i32.const 2; i32.add") or merging two adjacent local.set
// stores (each pops one operand off the stack; dropping either leaves a
// dangling value the other still expected to consume).
func isConstImmediatelyDropped(items []instr.Instruction, i int) bool {
	if items[i].Kind != instr.KindConst || i+1 >= len(items) {
		return false
	}
	next := items[i+1]
	if next.Kind != instr.KindOther {
		return false
	}
	_, ok := next.Opaque.(Drop)
	return ok
}

// Drop is the opaque payload shape codeopt recognizes for a
// value-discarding drop instruction; an external CodeBuilder that wants
// dead-push elimination to see its drop instructions attaches this as
// Opaque.
type Drop struct{}

// LocalSet is the opaque payload shape for a local-variable store,
// attached by the external CodeBuilder the same way Drop is. codeopt
// applies no rule to it; it exists so callers (and this package's tests)
// have a concrete non-const instruction shape to reason about next to one
// that really is optimized.
type LocalSet struct{ Index int }
