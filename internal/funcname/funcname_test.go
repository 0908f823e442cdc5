package funcname

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignatureNameIdentity(t *testing.T) {
	a := New("demo/Foo", "bar", "(I)V")
	b := New("demo/Foo", "bar", "(I)V")
	assert.True(t, a.Equal(b))
	assert.Equal(t, "demo/Foo.bar(I)V", a.SignatureName())
}

func TestSyntheticWAT(t *testing.T) {
	fn := NewSyntheticWAT("owner", "helper", "(i32.const 7)", "()I")
	assert.True(t, fn.IsSynthetic())
	source, sig, ok := fn.WATSource()
	require.True(t, ok)
	assert.Equal(t, "(i32.const 7)", source)
	assert.Equal(t, "()I", sig)

	_, ok = fn.ImportAnnotation()
	assert.False(t, ok)
}

func TestSyntheticImport(t *testing.T) {
	fn := NewSyntheticImport("owner", "log", "(I)V", ImportAnnotation{Module: "env", Name: "log"})
	ann, ok := fn.ImportAnnotation()
	require.True(t, ok)
	assert.Equal(t, "env", ann.Module)

	_, _, ok = fn.WATSource()
	assert.False(t, ok)
}

func TestParamAndReturnDescriptors(t *testing.T) {
	params := ParamDescriptors("(ILjava/lang/String;[D)V")
	assert.Equal(t, []string{"I", "Ljava/lang/String;", "[D"}, params)
	assert.Equal(t, "V", ReturnDescriptor("(ILjava/lang/String;[D)V"))
	assert.Empty(t, ParamDescriptors("()V"))
}

func TestParseSignatureNameRoundTrip(t *testing.T) {
	fn := New("java/lang/Math", "sqrt", "(D)D")
	parsed, ok := ParseSignatureName(fn.SignatureName())
	require.True(t, ok)
	assert.True(t, fn.Equal(parsed))

	_, ok = ParseSignatureName("not-a-signature-name")
	assert.False(t, ok)
}

func TestIsConstructor(t *testing.T) {
	assert.True(t, New("demo/Foo", "<init>", "()V").IsConstructor())
	assert.False(t, New("demo/Foo", "bar", "()V").IsConstructor())
}
