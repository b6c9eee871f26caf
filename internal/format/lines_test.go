package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeshape/internal/languages"
)

func TestGenerateConsecutiveNumbers(t *testing.T) {
	e := newEngine(t, languages.CFamily, nil)

	tests := []struct {
		name string
		text string
		want string
	}{
		{"equal numbers step by one", "item 1\nitem 1\nitem 1", "item 1\nitem 2\nitem 3"},
		{"step from first two lines", "a = 10;\nb = 20;\nc = 0;\nd = 0;", "a = 10;\nb = 20;\nc = 30;\nd = 40;"},
		{"hex keeps case and width", "x[0x0A]\nx[0x0A]\nx[0x0A]", "x[0x0A]\nx[0x0B]\nx[0x0C]"},
		{"zero padding and blank lines", "007 a\n007 b\n\n007 c\n", "007 a\n008 b\n\n009 c\n"},
		{"digits inside identifiers ignored", "item2 = 5\nitem3 = 5", "item2 = 5\nitem3 = 6"},
		{"numbers in literals ignored", "\"1\" 5\n\"1\" 5", "\"1\" 5\n\"1\" 6"},
		{"descending step", "5\n4\n0", "5\n4\n3"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			result, err := e.GenerateConsecutiveNumbers(testCase.text)
			require.NoError(t, err)
			assert.Equal(t, testCase.want, result.Text)
		})
	}
}

func TestGenerateConsecutiveNumbersLineWithoutNumber(t *testing.T) {
	e := newEngine(t, languages.CFamily, nil)

	result, err := e.GenerateConsecutiveNumbers("1. a\nno\n3. c")
	require.NoError(t, err)
	assert.Equal(t, "1. a\nno\n2. c", result.Text)
	assert.Equal(t, []string{"line 2: no number"}, result.Diagnostics)
}

func TestGenerateConsecutiveNumbersPreconditions(t *testing.T) {
	e := newEngine(t, languages.CFamily, nil)

	_, err := e.GenerateConsecutiveNumbers("only 1")
	require.ErrorIs(t, err, ErrTooFewLines)

	_, err = e.GenerateConsecutiveNumbers("  \n 1\n")
	require.ErrorIs(t, err, ErrTooFewLines)

	_, err = e.GenerateConsecutiveNumbers("a\nb 2")
	require.ErrorIs(t, err, ErrNoNumber)
}

func TestSortLines(t *testing.T) {
	e := newEngine(t, languages.CFamily, nil)

	tests := []struct {
		name      string
		text      string
		ascending bool
		want      string
	}{
		{"natural order", "item10\nitem2\nItem1\n", true, "Item1\nitem2\nitem10\n"},
		{"descending", "item2\nItem1\nitem10\n", false, "item10\nitem2\nItem1\n"},
		{"case tie broken by raw text", "b\nB\na", true, "a\nB\nb"},
		{"crlf endings stay in place", "b\r\na", true, "a\r\nb"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			result, err := e.SortLines(testCase.text, testCase.ascending)
			require.NoError(t, err)
			assert.Equal(t, testCase.want, result.Text)
		})
	}

	_, err := e.SortLines("a\n", true)
	require.ErrorIs(t, err, ErrTooFewLines)
}

func TestNaturalCompare(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"a2", "a10", -1},
		{"a10", "a2", 1},
		{"a010", "a10", -1},
		{"x", "x", 0},
		{"abc", "ab", 1},
		{"File", "file", -1},
		{"v1.2.10", "v1.2.9", 1},
		{"99999999999999999999", "100000000000000000000", -1},
	}

	for _, testCase := range tests {
		assert.Equal(t, testCase.want, NaturalCompare(testCase.a, testCase.b), "%q vs %q", testCase.a, testCase.b)
	}
}
