// Package wat is a minimal textual-WebAssembly sub-parser for
// @TextCode-annotated methods.
//
// The real WAT parser is an external collaborator; this package
// is not a reimplementation of it. It supports exactly the literal numeric
// constant forms ("(i32.const 42)" and friends) that an @TextCode body
// realistically needs for small compiler-internal helpers: a flat token
// stream of "(", ")", and bare words, consumed by a tokenize-then-
// recursive-descent parser that expects "(" op args... ")". Anything
// beyond numeric constants is a parse error naming the unsupported
// instruction.
package wat

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/diversepwmeasurement/JWebAssembly/internal/instr"
)

// Parse parses source as a sequence of S-expression instructions and
// returns the resulting instruction list.
func Parse(source string) (*instr.List, error) {
	toks := tokenize(source)
	list := &instr.List{}
	i := 0
	for i < len(toks) {
		if toks[i] != "(" {
			return nil, fmt.Errorf("wat: expected '(' at token %d, got %q", i, toks[i])
		}
		i++
		if i >= len(toks) {
			return nil, fmt.Errorf("wat: unexpected end of input")
		}
		op := toks[i]
		i++

		var args []string
		for i < len(toks) && toks[i] != ")" {
			args = append(args, toks[i])
			i++
		}
		if i >= len(toks) || toks[i] != ")" {
			return nil, fmt.Errorf("wat: missing closing ')' for %q", op)
		}
		i++

		ins, err := buildInstruction(op, args)
		if err != nil {
			return nil, err
		}
		list.Items = append(list.Items, ins)
	}
	return list, nil
}

func tokenize(s string) []string {
	var toks []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			toks = append(toks, cur.String())
			cur.Reset()
		}
	}
	for _, r := range s {
		switch r {
		case '(', ')':
			flush()
			toks = append(toks, string(r))
		case ' ', '\t', '\n', '\r':
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return toks
}

func buildInstruction(op string, args []string) (instr.Instruction, error) {
	typ, suffix, found := strings.Cut(op, ".")
	if found && suffix == "const" {
		val, err := parseConst(typ, args)
		if err != nil {
			return instr.Instruction{}, err
		}
		return instr.Instruction{Kind: instr.KindConst, Line: -1, ConstType: typ, ConstValue: val}, nil
	}
	return instr.Instruction{}, fmt.Errorf("wat: unsupported instruction %q (this minimal parser only understands numeric const literals)", op)
}

func parseConst(typ string, args []string) (interface{}, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("wat: %s.const wants exactly one literal argument, got %d", typ, len(args))
	}
	switch typ {
	case "i32":
		v, err := strconv.ParseInt(args[0], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("wat: %w", err)
		}
		return int32(v), nil
	case "i64":
		v, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("wat: %w", err)
		}
		return v, nil
	case "f32":
		v, err := strconv.ParseFloat(args[0], 32)
		if err != nil {
			return nil, fmt.Errorf("wat: %w", err)
		}
		return float32(v), nil
	case "f64":
		v, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return nil, fmt.Errorf("wat: %w", err)
		}
		return v, nil
	default:
		return nil, fmt.Errorf("wat: unknown numeric type %q", typ)
	}
}
