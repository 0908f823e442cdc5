// Package funcname defines FunctionName, the identity of a callable that
// flows through the rest of the module generation pipeline.
//
// Deep inheritance in the source object model becomes a flat struct with an
// optional synthetic payload here, instead of subclassing.
package funcname

import "strings"

// ImportAnnotation carries the module/name/extra data recorded by an
// @Import annotation, or by a synthetic function that is emitted as an
// import (e.g. a host-provided string-table accessor).
type ImportAnnotation struct {
	Module string
	Name   string
	Extra  map[string]string
}

// FunctionName is the identity of a callable: owning class, method name,
// JVM-style type signature, and a derived signatureName used as the
// canonical map key everywhere in this package and functionmgr/typemgr.
type FunctionName struct {
	ClassName string
	Method    string
	Signature string

	signatureName string

	// synthetic is non-nil for a SyntheticFunctionName: a function that does
	// not correspond to a class-file method at all (a compiler-internal
	// helper, or an @TextCode-annotated method).
	synthetic *syntheticPayload
}

type syntheticPayload struct {
	watSource string
	watSig    string // overrides the parsed JVM signature when non-empty
	importAnn *ImportAnnotation
}

// New constructs a FunctionName for a class-file method.
func New(className, method, signature string) FunctionName {
	fn := FunctionName{ClassName: className, Method: method, Signature: signature}
	fn.signatureName = fn.ClassName + "." + fn.Method + fn.Signature
	return fn
}

// NewSyntheticWAT constructs a SyntheticFunctionName whose body is inline
// textual WebAssembly. sig, if non-empty, overrides any parsed signature.
func NewSyntheticWAT(className, method, watSource, sig string) FunctionName {
	fn := New(className, method, sig)
	fn.synthetic = &syntheticPayload{watSource: watSource, watSig: sig}
	return fn
}

// NewSyntheticImport constructs a SyntheticFunctionName that is emitted
// purely as an import, bypassing class-file lookup entirely.
func NewSyntheticImport(className, method, signature string, ann ImportAnnotation) FunctionName {
	fn := New(className, method, signature)
	fn.synthetic = &syntheticPayload{importAnn: &ann}
	return fn
}

// SignatureName returns the canonical string identity used for equality
// and as map keys throughout FunctionManager/TypeManager.
func (f FunctionName) SignatureName() string { return f.signatureName }

// IsSynthetic reports whether this name bypasses class-file lookup.
func (f FunctionName) IsSynthetic() bool { return f.synthetic != nil }

// WATSource returns the inline WAT body and signature override for a
// synthetic function constructed via NewSyntheticWAT. ok is false for any
// other kind of FunctionName.
func (f FunctionName) WATSource() (source, sig string, ok bool) {
	if f.synthetic == nil || f.synthetic.watSource == "" {
		return "", "", false
	}
	return f.synthetic.watSource, f.synthetic.watSig, true
}

// ImportAnnotation returns the attached import annotation for a synthetic
// import function. ok is false for any other kind of FunctionName.
func (f FunctionName) ImportAnnotation() (ImportAnnotation, bool) {
	if f.synthetic == nil || f.synthetic.importAnn == nil {
		return ImportAnnotation{}, false
	}
	return *f.synthetic.importAnn, true
}

// Equal reports whether two FunctionNames share the same signatureName.
func (f FunctionName) Equal(other FunctionName) bool {
	return f.signatureName == other.signatureName
}

// IsConstructor reports whether this name is an instance initializer.
func (f FunctionName) IsConstructor() bool { return f.Method == "<init>" }

// String renders the signature name, useful for logging and error messages.
func (f FunctionName) String() string { return f.signatureName }

// ParamDescriptors splits a JVM method descriptor's parameter portion,
// e.g. "(ILjava/lang/String;)V" -> ["I", "Ljava/lang/String;"].
// Returns nil for a malformed signature.
func ParamDescriptors(signature string) []string {
	open := strings.IndexByte(signature, '(')
	close := strings.IndexByte(signature, ')')
	if open != 0 || close < 0 || close >= len(signature) {
		return nil
	}
	body := signature[open+1 : close]
	var out []string
	for len(body) > 0 {
		d, rest := splitOneDescriptor(body)
		if d == "" {
			break
		}
		out = append(out, d)
		body = rest
	}
	return out
}

// ReturnDescriptor returns the portion of signature after the closing ')'.
func ReturnDescriptor(signature string) string {
	close := strings.IndexByte(signature, ')')
	if close < 0 || close+1 > len(signature) {
		return ""
	}
	return signature[close+1:]
}

// ParseSignatureName parses a string of the canonical "class.method(sig)ret"
// form (as produced by SignatureName, and as written into a method-level
// @Replace annotation's value) back into a FunctionName. ok is false if s
// has no '(' or no '.' before it.
func ParseSignatureName(s string) (FunctionName, bool) {
	open := strings.IndexByte(s, '(')
	if open < 0 {
		return FunctionName{}, false
	}
	head, sig := s[:open], s[open:]
	dot := strings.LastIndexByte(head, '.')
	if dot < 0 {
		return FunctionName{}, false
	}
	return New(head[:dot], head[dot+1:], sig), true
}

// splitOneDescriptor peels exactly one JVM field descriptor off the front
// of s, returning it and the remainder.
func splitOneDescriptor(s string) (desc, rest string) {
	i := 0
	for i < len(s) && s[i] == '[' {
		i++
	}
	if i >= len(s) {
		return "", ""
	}
	switch s[i] {
	case 'L':
		end := strings.IndexByte(s[i:], ';')
		if end < 0 {
			return "", ""
		}
		return s[:i+end+1], s[i+end+1:]
	default:
		return s[:i+1], s[i+1:]
	}
}
