package format

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"codeshape/internal/languages"
)

func TestSplitArgumentList(t *testing.T) {
	e := newEngine(t, languages.CFamily, nil)

	tests := []struct {
		name      string
		text      string
		maxColumn int
		level     int
		want      string
	}{
		{
			name:      "short line untouched",
			text:      "f(a, b);",
			maxColumn: 30,
			level:     -1,
			want:      "f(a, b);",
		},
		{
			name:      "break before last argument",
			text:      "result = Compute(alpha, beta, gamma);",
			maxColumn: 30,
			level:     -1,
			want:      "result = Compute(alpha, beta,\n                 gamma);",
		},
		{
			name:      "inner list split before outer",
			text:      "x = Outer(first, Inner(aaaa, bbbb, cccc), last);",
			maxColumn: 30,
			level:     -1,
			want:      "x = Outer(first,\n          Inner(aaaa, bbbb,\n                cccc), last);",
		},
		{
			name:      "only outer level",
			text:      "x = Outer(first, Inner(aaaa, bbbb, cccc), last);",
			maxColumn: 30,
			level:     0,
			want:      "x = Outer(first,\n          Inner(aaaa, bbbb, cccc),\n          last);",
		},
		{
			name:      "separators inside literal ignored",
			text:      `call("a, b, c, d, e, f", x);`,
			maxColumn: 20,
			level:     -1,
			want:      "call(\"a, b, c, d, e, f\",\n     x);",
		},
		{
			name:      "crlf and indentation kept",
			text:      "\ta = f(bbbb, cccc);\r\nshort\r\n",
			maxColumn: 16,
			level:     -1,
			want:      "\ta = f(bbbb,\r\n\t      cccc);\r\nshort\r\n",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			result, err := e.SplitArgumentList(testCase.text, testCase.maxColumn, testCase.level)
			require.NoError(t, err)
			assert.Equal(t, testCase.want, result.Text)
		})
	}
}

func TestSplitArgumentListDefaultsToRuleColumn(t *testing.T) {
	e := newEngine(t, languages.CFamily, nil)

	text := "value = function(" + strings.Repeat("argument, ", 8) + "last);"
	result, err := e.SplitArgumentList(text, 0, -1)
	require.NoError(t, err)

	for _, line := range strings.Split(result.Text, "\n") {
		assert.LessOrEqual(t, VisualWidth(line, 4), e.Rules().MaxColumn, line)
	}
}

func TestSplitArgumentListEmptySelection(t *testing.T) {
	e := newEngine(t, languages.CFamily, nil)

	_, err := e.SplitArgumentList(" \n ", 20, -1)
	require.ErrorIs(t, err, ErrEmptySelection)
}

func TestSplitArgumentListUnbalancedLine(t *testing.T) {
	e := newEngine(t, languages.CFamily, nil)

	result, err := e.SplitArgumentList("call(alpha, beta, gamma, delta;", 10, -1)
	require.NoError(t, err)
	assert.Equal(t, "call(alpha, beta, gamma, delta;", result.Text)
	assert.NotEmpty(t, result.Diagnostics)
}

func TestSplitArgumentListAlignedPieceWiderThanColumn(t *testing.T) {
	e := newEngine(t, languages.CFamily, nil)

	result, err := e.SplitArgumentList("\tresult = Compute(alpha, beta, gamma);", 24, -1)
	require.NoError(t, err)
	assert.Equal(t,
		"\tresult = Compute(alpha,\n"+
			"\t                 beta,\n"+
			"\t                 gamma);",
		result.Text,
	)

	// 续行从第 21 列开始，单个参数加分隔符就超过 24 列，只能独占一行。
	for _, line := range strings.Split(result.Text, "\n")[1:] {
		assert.Greater(t, VisualWidth(line, 4), 24)
		assert.Equal(t, 21, VisualWidth(line[:len(line)-len(strings.TrimLeft(line, " \t"))], 4))
	}
}

// callExpr 生成形如 name(a, b(c, d)) 的调用表达式。
func callExpr(t *rapid.T, depth int) string {
	name := rapid.StringMatching(`[a-z]{1,6}`).Draw(t, "name")
	count := rapid.IntRange(1, 4).Draw(t, "count")

	args := make([]string, count)
	for idx := range args {
		if depth > 0 && rapid.Bool().Draw(t, "nested") {
			args[idx] = callExpr(t, depth-1)
			continue
		}
		args[idx] = rapid.StringMatching(`[a-z]{1,8}`).Draw(t, "arg")
	}
	return name + "(" + strings.Join(args, ", ") + ")"
}

func stripSpace(text string) string {
	return strings.Join(strings.Fields(text), "")
}

// TestSplitArgumentListColumnBound 验证拆分后每一行要么不超过上限，要么除行尾外不含断行分隔符。
func TestSplitArgumentListColumnBound(t *testing.T) {
	e := newEngine(t, languages.CFamily, nil)

	rapid.Check(t, func(rt *rapid.T) {
		text := callExpr(rt, 2) + ";"
		maxColumn := rapid.IntRange(10, 60).Draw(rt, "maxColumn")

		result, err := e.SplitArgumentList(text, maxColumn, -1)
		require.NoError(rt, err)
		assert.Equal(rt, stripSpace(text), stripSpace(result.Text))

		// 超宽的行只能是一个无法再拆的片段：从对齐列到第一个断行机会之间已经放不下。
		// 因此去掉行尾唯一的分隔符与闭括号之后，行内不应再有分隔符。
		for _, line := range strings.Split(result.Text, "\n") {
			if VisualWidth(line, 4) <= maxColumn {
				continue
			}
			body := strings.TrimSuffix(line, ";")
			body = strings.TrimSuffix(body, ",")
			body = strings.TrimRight(body, ")")
			assert.False(rt, strings.ContainsAny(body, ",;"), "line %q exceeds %d", line, maxColumn)
		}
	})
}
