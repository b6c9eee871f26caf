package prototype

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeshape/internal/languages"
	"codeshape/internal/model"
)

func profileOf(t *testing.T, id languages.ID) languages.Profile {
	t.Helper()

	profile, ok := languages.Default().Lookup(id)
	require.True(t, ok, "missing profile %s", id)
	return profile
}

// TestDecomposeExamples 覆盖典型原型的分解结果。
func TestDecomposeExamples(t *testing.T) {
	cpp := profileOf(t, languages.CFamily)

	tests := []struct {
		name      string
		signature string
		want      model.SignatureParts
	}{
		{
			name:      "plain function",
			signature: "int Foo( int x )",
			want: model.SignatureParts{
				ReturnType:    "int",
				QualifiedName: "Foo",
				BareName:      "Foo",
				ArgumentList:  "( int x )",
			},
		},
		{
			name:      "template return type and qualifier",
			signature: "std::pair<A,B> C<T>::Acquire( const T& k )",
			want: model.SignatureParts{
				ReturnType:    "std::pair<A,B>",
				QualifiedName: "C<T>::Acquire",
				TypeQualifier: "C<T>::",
				BareName:      "Acquire",
				ArgumentList:  "( const T& k )",
			},
		},
		{
			name:      "template declaration on its own line",
			signature: "template< typename T >\nvoid C<T>::Run()",
			want: model.SignatureParts{
				TemplateDecl:  "template< typename T >",
				ReturnType:    "void",
				QualifiedName: "C<T>::Run",
				TypeQualifier: "C<T>::",
				BareName:      "Run",
				ArgumentList:  "()",
			},
		},
		{
			name:      "inline and trailing suffix",
			signature: "inline const char* Buffer::Data() const",
			want: model.SignatureParts{
				InlineModifier: "inline",
				ReturnType:     "const char*",
				QualifiedName:  "Buffer::Data",
				TypeQualifier:  "Buffer::",
				BareName:       "Data",
				ArgumentList:   "()",
				TrailingSuffix: " const",
			},
		},
		{
			name:      "comparison operator",
			signature: "bool Foo::operator==( const Foo& rhs ) const",
			want: model.SignatureParts{
				ReturnType:     "bool",
				QualifiedName:  "Foo::operator==",
				TypeQualifier:  "Foo::",
				BareName:       "operator==",
				ArgumentList:   "( const Foo& rhs )",
				TrailingSuffix: " const",
			},
		},
		{
			name:      "call operator",
			signature: "int Foo::operator()( int x )",
			want: model.SignatureParts{
				ReturnType:    "int",
				QualifiedName: "Foo::operator()",
				TypeQualifier: "Foo::",
				BareName:      "operator()",
				ArgumentList:  "( int x )",
			},
		},
		{
			name:      "operator with space",
			signature: "void* Pool::operator new( size_t n )",
			want: model.SignatureParts{
				ReturnType:    "void*",
				QualifiedName: "Pool::operator new",
				TypeQualifier: "Pool::",
				BareName:      "operator new",
				ArgumentList:  "( size_t n )",
			},
		},
		{
			name:      "nested qualifier with template argument",
			signature: "void ns::Map<std::string, int>::Clear()",
			want: model.SignatureParts{
				ReturnType:    "void",
				QualifiedName: "ns::Map<std::string, int>::Clear",
				TypeQualifier: "ns::Map<std::string, int>::",
				BareName:      "Clear",
				ArgumentList:  "()",
			},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			got, err := Decompose(cpp, testCase.signature)
			require.NoError(t, err)
			assert.Equal(t, testCase.want, got.Parts())
		})
	}
}

// TestDecomposeRangesAreOrdered 验证各区间按声明顺序排列且互不重叠。
func TestDecomposeRangesAreOrdered(t *testing.T) {
	cpp := profileOf(t, languages.CFamily)

	got, err := Decompose(cpp, "template<class T> inline std::vector<T> Box<T>::Items( int n ) const")
	require.NoError(t, err)

	ordered := []model.TokenRange{got.TemplateDecl, got.InlineModifier, got.ReturnType, got.QualifiedName, got.ArgumentList, got.TrailingSuffix}
	last := 0
	for _, r := range ordered {
		require.True(t, r.Valid(len(got.Text)), "range %s", r)
		if r.Empty() {
			continue
		}
		assert.GreaterOrEqual(t, r.Start, last, "range %s overlaps previous part", r)
		last = r.End
	}
	assert.Equal(t, got.QualifiedName.Start, got.TypeQualifier.Start)
	assert.Equal(t, got.TypeQualifier.End, got.BareName.Start)
	assert.Equal(t, "std::vector<T>", got.Part(got.ReturnType))
}

// TestDecomposeBasicQualifier 验证 Basic 以 "." 作为作用域分隔符。
func TestDecomposeBasicQualifier(t *testing.T) {
	basic := profileOf(t, languages.Basic)

	got, err := Decompose(basic, "Public Function Module1.Compute(ByVal x As Integer) As Long")
	require.NoError(t, err)

	parts := got.Parts()
	assert.Equal(t, "Module1.", parts.TypeQualifier)
	assert.Equal(t, "Compute", parts.BareName)
	assert.Equal(t, "Public Function", parts.ReturnType)
	assert.Equal(t, " As Long", parts.TrailingSuffix)
}

// TestDecomposeMalformed 验证找不到参数列表时返回哨兵错误。
func TestDecomposeMalformed(t *testing.T) {
	cpp := profileOf(t, languages.CFamily)

	for _, signature := range []string{"int Foo", "int Foo( int x", `int Foo(")`} {
		_, err := Decompose(cpp, signature)
		assert.ErrorIs(t, err, ErrMalformedPrototype, signature)
	}
}

// TestNormalize 验证多行原型的合并规则。
func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		lang languages.ID
		text string
		want string
	}{
		{
			name: "collapse whitespace",
			lang: languages.CFamily,
			text: "int\n  Foo(  int a,\n\tint b )",
			want: "int Foo( int a, int b )",
		},
		{
			name: "line comment becomes block comment",
			lang: languages.CFamily,
			text: "void Run( int a, // count\n          int b )",
			want: "void Run( int a, /* count */ int b )",
		},
		{
			name: "literals are kept",
			lang: languages.CFamily,
			text: "void Log( const char* f = \"a  b\" )",
			want: "void Log( const char* f = \"a  b\" )",
		},
		{
			name: "line continuation",
			lang: languages.CFamily,
			text: "int Foo( int a, \\\n int b )",
			want: "int Foo( int a, int b )",
		},
		{
			name: "basic drops line comment",
			lang: languages.Basic,
			text: "Sub Run(ByVal a As Long, ' first\n ByVal b As Long)",
			want: "Sub Run(ByVal a As Long, ByVal b As Long)",
		},
		{
			name: "html comment kept verbatim",
			lang: languages.HTML,
			text: "<a\n  href=\"x\"> <!-- note -->\n</a>",
			want: "<a href=\"x\"> <!-- note --> </a>",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			got := Normalize(profileOf(t, testCase.lang), testCase.text)
			assert.Equal(t, testCase.want, got)
		})
	}
}

// TestNormalizeThenDecompose 验证合并后的原型可以直接分解。
func TestNormalizeThenDecompose(t *testing.T) {
	cpp := profileOf(t, languages.CFamily)

	line := Normalize(cpp, "virtual HRESULT\n  CView::OnDraw( CDC* pDC, // device\n                 int flags = 0 ) = 0;")
	got, err := Decompose(cpp, line)
	require.NoError(t, err)

	parts := got.Parts()
	assert.Equal(t, "virtual HRESULT", parts.ReturnType)
	assert.Equal(t, "CView::", parts.TypeQualifier)
	assert.Equal(t, "OnDraw", parts.BareName)
	assert.Equal(t, "( CDC* pDC, /* device */ int flags = 0 )", parts.ArgumentList)
	assert.Equal(t, " = 0;", parts.TrailingSuffix)
}
