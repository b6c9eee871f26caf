package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeshape/internal/languages"
	"codeshape/internal/prototype"
)

func TestDecomposeMethodSignatureJoinsLines(t *testing.T) {
	e := newEngine(t, languages.CFamily, nil)

	signature, err := e.DecomposeMethodSignature("std::pair<A,B>\n  C<T>::Acquire( const T& k ) // lookup")
	require.NoError(t, err)

	parts := signature.Parts()
	assert.Equal(t, "std::pair<A,B>", parts.ReturnType)
	assert.Equal(t, "C<T>::", parts.TypeQualifier)
	assert.Equal(t, "Acquire", parts.BareName)
	assert.Equal(t, "( const T& k )", parts.ArgumentList)
	assert.Equal(t, " /* lookup */", parts.TrailingSuffix)
}

func TestDecomposeMethodSignatureMalformed(t *testing.T) {
	e := newEngine(t, languages.CFamily, nil)

	_, err := e.DecomposeMethodSignature("int x;")
	require.ErrorIs(t, err, prototype.ErrMalformedPrototype)
}

func TestNormalizeSignature(t *testing.T) {
	e := newEngine(t, languages.CFamily, nil)

	result, err := e.NormalizeSignature("void\n   Foo(int a,\n       int b)")
	require.NoError(t, err)
	assert.Equal(t, "void Foo(int a, int b)", result.Text)

	_, err = e.NormalizeSignature(" \t\n")
	require.ErrorIs(t, err, ErrEmptySelection)
}

func TestEngineAnalyzeParityIncludesAngles(t *testing.T) {
	e := newEngine(t, languages.CFamily, nil)

	status := e.AnalyzeParity("std::map<int, f(a)> m[2];")
	assert.True(t, status.IsEntirelyEven())

	status = e.AnalyzeParity("if (a < b) { x[1]; }")
	assert.False(t, status.IsEntirelyEven())
	require.Len(t, status.Unbalanced(), 1)
	assert.Equal(t, byte('<'), status.Unbalanced()[0].Open)
}

func TestEngineClassifyLines(t *testing.T) {
	e := newEngine(t, languages.CFamily, nil)

	metrics := e.ClassifyLines("int x; // c\n\n/* d */\n")
	assert.EqualValues(t, 3, metrics.Total)
	assert.EqualValues(t, 1, metrics.Code)
	assert.EqualValues(t, 2, metrics.Comment)
	assert.EqualValues(t, 1, metrics.Blank)
}

func TestNewEngineDefaults(t *testing.T) {
	profile, ok := languages.Default().Lookup(languages.CFamily)
	require.True(t, ok)

	e := NewEngine(profile, nil, nil)
	assert.Equal(t, 80, e.Rules().MaxColumn)
	assert.Equal(t, languages.CFamily, e.Profile().ID)
}
