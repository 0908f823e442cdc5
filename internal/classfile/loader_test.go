package classfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetFallsThroughToClasspathAndCaches(t *testing.T) {
	base := &Class{CName: "demo/Foo"}
	cp := stubClasspath{"demo/Foo": base}
	loader := NewLoader(cp)

	got, err := loader.Get("demo/Foo")
	require.NoError(t, err)
	assert.Same(t, base, got)

	cp["demo/Foo"] = &Class{CName: "demo/Foo", Src: "changed.java"}
	got2, err := loader.Get("demo/Foo")
	require.NoError(t, err)
	assert.Same(t, base, got2, "Get must serve the cached value, not re-query the classpath")
}

func TestMissingClassError(t *testing.T) {
	loader := NewLoader(nil)
	_, err := loader.Get("nowhere/Missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nowhere/Missing")
}

func TestReplaceTakesPrecedenceOverCache(t *testing.T) {
	loader := NewLoader(nil)
	original := &Class{CName: "demo/Foo", Src: "original.java"}
	replacement := &Class{CName: "demo/Foo", Src: "replacement.java"}

	loader.Cache(original)
	loader.Replace("demo/Foo", replacement)

	got, err := loader.Get("demo/Foo")
	require.NoError(t, err)
	assert.Equal(t, "replacement.java", got.SourceFile())
}

func TestPartialShadowsFullyWithFallthrough(t *testing.T) {
	loader := NewLoader(nil)
	base := &Class{
		CName: "demo/Foo",
		Super: "java/lang/Object",
		HasSuper: true,
		MethodList: []*Method{
			{MName: "a", MSig: "()V"},
			{MName: "b", MSig: "()V"},
		},
	}
	overlay := &Class{
		CName: "demo/Foo",
		MethodList: []*Method{
			{MName: "b", MSig: "()V", Native: true}, // shadows base's b fully
		},
	}
	loader.Cache(base)
	loader.Partial("demo/Foo", overlay)

	merged, err := loader.Get("demo/Foo")
	require.NoError(t, err)

	methods := merged.Methods()
	require.Len(t, methods, 2)

	b, ok := merged.Method("b", "()V")
	require.True(t, ok)
	assert.True(t, b.IsNative(), "overlay method must fully shadow the base method, not merge with it")

	_, ok = merged.Method("a", "()V")
	assert.True(t, ok, "methods the overlay doesn't define fall through to base")

	super, ok := merged.SuperClass()
	require.True(t, ok)
	assert.Equal(t, "java/lang/Object", super)
}

type stubClasspath map[string]ClassFile

func (c stubClasspath) Get(name string) (ClassFile, bool) {
	cf, ok := c[name]
	return cf, ok
}
