package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"codeshape/internal/languages"
)

func toggle(t testing.TB, e *Engine, text string) string {
	t.Helper()

	result, err := e.ToggleComment(text)
	require.NoError(t, err)
	return result.Text
}

func TestToggleCommentSingleLine(t *testing.T) {
	tests := []struct {
		name      string
		language  languages.ID
		text      string
		commented string
	}{
		{"c family", languages.CFamily, "int x;", "// int x;"},
		{"marker after indent", languages.CFamily, "    int x;", "    // int x;"},
		{"basic", languages.Basic, "x = 1", "' x = 1"},
		{"sql", languages.SQL, "select 1", "-- select 1"},
		{"html uses block form", languages.HTML, "<p>hi</p>", "<!-- <p>hi</p> -->"},
		{"trailing newline kept", languages.CFamily, "f();\n", "// f();\n"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			e := newEngine(t, testCase.language, nil)

			commented := toggle(t, e, testCase.text)
			assert.Equal(t, testCase.commented, commented)
			assert.Equal(t, testCase.text, toggle(t, e, commented))
		})
	}
}

func TestToggleCommentMultiLineCycle(t *testing.T) {
	e := newEngine(t, languages.CFamily, nil)

	text := "a();\n  b();"
	lineComments := toggle(t, e, text)
	assert.Equal(t, "// a();\n  // b();", lineComments)

	block := toggle(t, e, lineComments)
	assert.Equal(t, "/* a();\n  b(); */", block)

	assert.Equal(t, text, toggle(t, e, block))
}

func TestToggleCommentBasicSkipsBlockState(t *testing.T) {
	e := newEngine(t, languages.Basic, nil)

	text := "x = 1\r\ny = 2"
	commented := toggle(t, e, text)
	assert.Equal(t, "' x = 1\r\n' y = 2", commented)
	assert.Equal(t, text, toggle(t, e, commented))
}

func TestToggleCommentBlankLinesUntouched(t *testing.T) {
	e := newEngine(t, languages.CFamily, nil)

	assert.Equal(t, "// a();\n\n// b();\n", toggle(t, e, "a();\n\nb();\n"))
}

func TestToggleCommentCannotWrapCloseMarker(t *testing.T) {
	e := newEngine(t, languages.CFamily, nil)

	lineComments := toggle(t, e, "a(); // x\nb(); /* y */")

	result, err := e.ToggleComment(lineComments)
	require.NoError(t, err)
	assert.Equal(t, "a(); // x\nb(); /* y */", result.Text)
	require.Len(t, result.Diagnostics, 1)
	assert.Contains(t, result.Diagnostics[0], "*/")
}

func TestToggleCommentHTMLWithExistingComment(t *testing.T) {
	e := newEngine(t, languages.HTML, nil)

	result, err := e.ToggleComment("<!-- a --> <b/>")
	require.NoError(t, err)
	assert.Equal(t, "<!-- a --> <b/>", result.Text)
	assert.NotEmpty(t, result.Diagnostics)
}

func TestToggleCommentEmptySelection(t *testing.T) {
	e := newEngine(t, languages.CFamily, nil)

	_, err := e.ToggleComment("  \n")
	require.ErrorIs(t, err, ErrEmptySelection)
}

func TestExpandBlockComment(t *testing.T) {
	e := newEngine(t, languages.CFamily, nil)

	result, err := e.ExpandBlockComment("/* a\n   b */")
	require.NoError(t, err)
	assert.Equal(t, "// a\n   // b", result.Text)

	result, err = e.ExpandBlockComment("/*\nfirst\nsecond\n*/\n")
	require.NoError(t, err)
	assert.Equal(t, "// first\n// second\n", result.Text)

	_, err = e.ExpandBlockComment("a();")
	require.ErrorIs(t, err, ErrNotBlockComment)
}

func TestExpandBlockCommentNeedsLineComments(t *testing.T) {
	for _, id := range []languages.ID{languages.Basic, languages.HTML} {
		e := newEngine(t, id, nil)

		_, err := e.ExpandBlockComment("<!-- a -->")
		require.ErrorIs(t, err, ErrNoCommentSyntax, "language %s", id)
	}
}

// TestToggleCommentRoundTrip 验证单行选区注释两次后回到原文。
func TestToggleCommentRoundTrip(t *testing.T) {
	e := newEngine(t, languages.CFamily, nil)

	rapid.Check(t, func(rt *rapid.T) {
		text := rapid.StringMatching(`[ ]{0,3}[a-z;=()][a-z ;=()]{0,20}`).Draw(rt, "line")

		once, err := e.ToggleComment(text)
		require.NoError(rt, err)
		twice, err := e.ToggleComment(once.Text)
		require.NoError(rt, err)
		assert.Equal(rt, text, twice.Text)
	})
}
