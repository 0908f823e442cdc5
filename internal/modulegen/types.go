package modulegen

// wasmValueType maps a single JVM field/return descriptor to the WASM value
// type the writer expects. Reference types (class instances and arrays) are
// represented as i32 handles; a production ModuleWriter with GC support is
// free to interpret "i32" for a reference-shaped descriptor as a narrower
// (ref $Class) type itself, since it alone knows the concrete type section
// layout — the writer's own type representation stays external.
func wasmValueType(descriptor string) string {
	if descriptor == "" {
		return "void"
	}
	switch descriptor[0] {
	case 'I', 'Z', 'B', 'C', 'S':
		return "i32"
	case 'J':
		return "i64"
	case 'F':
		return "f32"
	case 'D':
		return "f64"
	case 'L', '[':
		return "i32"
	default:
		return "i32"
	}
}

// structValueType is the value type used for a "this" parameter or a
// struct-typed field: a reference handle to className's struct type.
func structValueType(className string) string {
	return "i32"
}
