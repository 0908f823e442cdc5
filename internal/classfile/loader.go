package classfile

import "github.com/diversepwmeasurement/JWebAssembly/internal/j2werr"

// Classpath is the underlying on-miss loader (e.g. a directory/archive
// scan feeding a real class-file parser). It is optional: a Loader with no
// Classpath only ever resolves names it was explicitly fed via Cache,
// Replace, or Partial.
type Classpath interface {
	Get(name string) (ClassFile, bool)
}

// Loader is the central cache and overlay for class-file access. It is not safe for concurrent use — the pipeline
// is single-threaded cooperative throughout.
type Loader struct {
	cache     map[string]ClassFile
	replaced  map[string]ClassFile
	partials  map[string]ClassFile
	classpath Classpath
}

// NewLoader constructs an empty Loader. classpath may be nil.
func NewLoader(classpath Classpath) *Loader {
	return &Loader{
		cache:     make(map[string]ClassFile),
		replaced:  make(map[string]ClassFile),
		partials:  make(map[string]ClassFile),
		classpath: classpath,
	}
}

// Cache records a parsed class file under its internal name. First write
// wins, unless a Replace was already recorded for that name. Replace and
// Partial take precedence in Get regardless of call order; a class cached
// under a Partial's name is that overlay's base.
func (l *Loader) Cache(cf ClassFile) {
	name := cf.Name()
	if _, ok := l.replaced[name]; ok {
		return
	}
	if _, ok := l.cache[name]; ok {
		return
	}
	l.cache[name] = cf
}

// Replace records that subsequent Get(targetName) calls return cf instead
// of whatever is found on the classpath.
func (l *Loader) Replace(targetName string, cf ClassFile) {
	l.replaced[targetName] = cf
}

// Partial records an overlay: Get(targetName) returns a merged view where
// methods/fields present in cf take precedence, others fall through to
// whatever Get would have otherwise returned. Overlay semantics are
// "shadow fully": an overlay method with the same (name, signature) as the
// original entirely replaces it — there is no super-call path back to the
// shadowed body.
func (l *Loader) Partial(targetName string, cf ClassFile) {
	l.partials[targetName] = cf
}

// Get looks up name, honoring Replace/Partial overlays, falling through to
// the underlying classpath on a cache miss.
func (l *Loader) Get(name string) (ClassFile, error) {
	if cf, ok := l.replaced[name]; ok {
		return cf, nil
	}
	if overlay, ok := l.partials[name]; ok {
		base, _ := l.resolveBase(name)
		return &overlayClassFile{overlay: overlay, base: base}, nil
	}
	if cf, ok := l.cache[name]; ok {
		return cf, nil
	}
	if l.classpath != nil {
		if cf, ok := l.classpath.Get(name); ok {
			l.cache[name] = cf
			return cf, nil
		}
	}
	return nil, &j2werr.MissingClass{ClassName: name}
}

// resolveBase looks up the non-overlaid original for a partial, without
// re-entering the Partial branch (it would just find the same overlay).
func (l *Loader) resolveBase(name string) (ClassFile, bool) {
	if cf, ok := l.cache[name]; ok {
		return cf, true
	}
	if l.classpath != nil {
		if cf, ok := l.classpath.Get(name); ok {
			return cf, true
		}
	}
	return nil, false
}

// overlayClassFile presents the overlay's methods/fields first, falling
// through to base for anything the overlay doesn't define.
type overlayClassFile struct {
	overlay ClassFile
	base    ClassFile // may be nil if there was nothing to fall back to
}

func (o *overlayClassFile) Name() string { return o.overlay.Name() }

func (o *overlayClassFile) SuperClass() (string, bool) {
	if o.base != nil {
		return o.base.SuperClass()
	}
	return o.overlay.SuperClass()
}

func (o *overlayClassFile) Interfaces() []string {
	if o.base != nil {
		return o.base.Interfaces()
	}
	return o.overlay.Interfaces()
}

func (o *overlayClassFile) SourceFile() string {
	if o.base != nil {
		return o.base.SourceFile()
	}
	return o.overlay.SourceFile()
}

func (o *overlayClassFile) Annotations() []Annotation { return o.overlay.Annotations() }

func (o *overlayClassFile) Fields() []FieldInfo {
	seen := make(map[string]bool)
	out := append([]FieldInfo{}, o.overlay.Fields()...)
	for _, f := range out {
		seen[f.Name] = true
	}
	if o.base != nil {
		for _, f := range o.base.Fields() {
			if !seen[f.Name] {
				out = append(out, f)
			}
		}
	}
	return out
}

func (o *overlayClassFile) Methods() []MethodInfo {
	seen := make(map[string]bool)
	out := append([]MethodInfo{}, o.overlay.Methods()...)
	for _, m := range out {
		seen[m.Name()+m.Signature()] = true
	}
	if o.base != nil {
		for _, m := range o.base.Methods() {
			if !seen[m.Name()+m.Signature()] {
				out = append(out, m)
			}
		}
	}
	return out
}

func (o *overlayClassFile) Method(name, signature string) (MethodInfo, bool) {
	if m, ok := o.overlay.Method(name, signature); ok {
		return m, true
	}
	if o.base != nil {
		return o.base.Method(name, signature)
	}
	return nil, false
}
