package braces

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"codeshape/internal/languages"
)

func newMatcher(t testing.TB, id languages.ID, kinds string) *Matcher {
	t.Helper()

	profile, ok := languages.Default().Lookup(id)
	require.True(t, ok, "missing profile %s", id)
	return NewMatcher(profile, kinds)
}

// TestFindMatchingCloseSkipsOpaqueRegions 验证字面量与注释内部的括号不参与计数。
func TestFindMatchingCloseSkipsOpaqueRegions(t *testing.T) {
	m := newMatcher(t, languages.CFamily, DefaultKinds)

	tests := []struct {
		name string
		text string
		open int
		want int
	}{
		{"simple", "f(a, b)", 1, 6},
		{"nested mixed kinds", "f(a[1], {2})", 1, 11},
		{"paren inside string", `f(")", x)`, 1, 8},
		{"paren inside char", `f(')', x)`, 1, 8},
		{"paren inside block comment", "f(a /* ) */, b)", 1, 14},
		{"paren inside line comment", "f(a, // )\n b)", 1, 12},
		{"other kind unbalanced inside", "f([)", 1, 3},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			got, err := m.FindMatchingClose(testCase.text, testCase.open)
			require.NoError(t, err)
			assert.Equal(t, testCase.want, got)
		})
	}
}

// TestFindMatchingCloseUnbalanced 验证未闭合时返回带诊断的错误。
func TestFindMatchingCloseUnbalanced(t *testing.T) {
	m := newMatcher(t, languages.CFamily, DefaultKinds)

	_, err := m.FindMatchingClose("f(a, (b)", 1)
	require.ErrorIs(t, err, ErrUnbalanced)

	var unbalanced *UnbalancedError
	require.ErrorAs(t, err, &unbalanced)
	assert.Contains(t, strings.Join(unbalanced.Diagnostics, "\n"), "unmatched '('")

	_, err = m.FindMatchingClose(`f("abc`, 1)
	require.ErrorIs(t, err, ErrUnbalanced)
	require.ErrorAs(t, err, &unbalanced)
	assert.Contains(t, unbalanced.Diagnostics[0], "unterminated quoted literal")

	_, err = m.FindMatchingClose("abc", 0)
	assert.ErrorIs(t, err, ErrNotBrace)
}

// TestFindMatchingOpen 验证镜像方式的反向匹配，包括单行注释与转义字面量。
func TestFindMatchingOpen(t *testing.T) {
	m := newMatcher(t, languages.CFamily, DefaultKinds)

	tests := []struct {
		name  string
		text  string
		close int
		want  int
	}{
		{"simple", "f(a, b)", 6, 1},
		{"nested", "g(h(x), [y])", 11, 1},
		{"line comment before close", "f(a, // (\n b)", 12, 1},
		{"escaped quote", `f("\")", x)`, 10, 1},
		{"block comment", "f(/* ( */ a)", 11, 1},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			got, err := m.FindMatchingOpen(testCase.text, testCase.close)
			require.NoError(t, err)
			assert.Equal(t, testCase.want, got)
		})
	}

	_, err := m.FindMatchingOpen("a, b)", 4)
	assert.ErrorIs(t, err, ErrUnbalanced)
}

// TestAngleBracketsOnlyWhenRequested 验证尖括号只在显式请求时参与匹配。
func TestAngleBracketsOnlyWhenRequested(t *testing.T) {
	text := "template<class T, int N = (1 > 0)> x"

	plain := newMatcher(t, languages.CFamily, DefaultKinds)
	_, err := plain.FindMatchingClose(text, 8)
	assert.ErrorIs(t, err, ErrNotBrace)

	angle := newMatcher(t, languages.CFamily, AngleKinds)
	got, err := angle.FindMatchingClose(text, 8)
	require.NoError(t, err)
	// 圆括号内部的 '>' 让 '<' 计数提前归零。
	assert.Equal(t, 29, got)
}

// TestFindArgumentList 验证参数列表查找与未闭合回退。
func TestFindArgumentList(t *testing.T) {
	m := newMatcher(t, languages.CFamily, DefaultKinds)

	text := "int f(int a, int (*cb)(void)) const"
	found, err := m.FindArgumentList(text, 0, "(", false)
	require.NoError(t, err)
	assert.Equal(t, "(int a, int (*cb)(void))", found.Text(text))

	tmpl := "vector<pair<int, int>> v"
	found, err = m.FindArgumentList(tmpl, 0, "<", false)
	require.NoError(t, err)
	assert.Equal(t, "<pair<int, int>>", found.Text(tmpl))

	open := "f(a, b"
	_, err = m.FindArgumentList(open, 0, "(", false)
	assert.ErrorIs(t, err, ErrUnbalanced)

	found, err = m.FindArgumentList(open, 0, "(", true)
	require.NoError(t, err)
	assert.Equal(t, "(a, b", found.Text(open))

	_, err = m.FindArgumentList("no braces", 0, "(", true)
	assert.ErrorIs(t, err, ErrNoArgumentList)
}

// TestAnalyzeParity 验证括号奇偶分析与可靠括号集合。
func TestAnalyzeParity(t *testing.T) {
	m := newMatcher(t, languages.CFamily, DefaultKinds)

	status := m.AnalyzeParity("f(a[0]) { g(\"(\"); /* { */")
	assert.False(t, status.IsEntirelyEven())

	counter, ok := status.Counter('{')
	require.True(t, ok)
	assert.Equal(t, 1, counter.Count)

	counter, ok = status.Counter('(')
	require.True(t, ok)
	assert.True(t, counter.Balanced())

	assert.Equal(t, "([", ReliableKinds(DefaultKinds, status))
	require.Len(t, status.Messages, 1)
	assert.Contains(t, status.Messages[0], "in {}")

	closedFirst := m.AnalyzeParity(") (")
	counter, ok = closedFirst.Counter('(')
	require.True(t, ok)
	assert.Equal(t, 0, counter.Count)
	assert.True(t, closedFirst.IsEntirelyEven())
}

// TestAnalyzeParityCaseInsensitiveDialect 验证 SQL 的双写引号不会打断扫描。
func TestAnalyzeParityCaseInsensitiveDialect(t *testing.T) {
	m := newMatcher(t, languages.SQL, DefaultKinds)

	status := m.AnalyzeParity("SELECT COUNT(*) FROM t WHERE name = 'it''s (' -- )\n")
	assert.True(t, status.IsEntirelyEven())
	assert.Empty(t, status.Messages)
}

// balancedCode 生成括号平衡、夹带字面量与注释的 C 风格片段。
func balancedCode(t *rapid.T, depth int) string {
	var builder strings.Builder
	count := rapid.IntRange(0, 4).Draw(t, "count")
	for idx := 0; idx < count; idx++ {
		switch rapid.IntRange(0, 3).Draw(t, "choice") {
		case 0:
			builder.WriteString(rapid.SampledFrom([]string{"a", "x1", " ", ",", "+", "\n"}).Draw(t, "plain"))
		case 1:
			builder.WriteString(rapid.SampledFrom([]string{`"(["`, `'}'`, "/* ) */", "// (\n", `"\")"`}).Draw(t, "opaque"))
		default:
			if depth >= 4 {
				continue
			}
			pair := rapid.SampledFrom([]string{"()", "[]", "{}"}).Draw(t, "pair")
			builder.WriteByte(pair[0])
			builder.WriteString(balancedCode(t, depth+1))
			builder.WriteByte(pair[1])
		}
	}
	return builder.String()
}

// naivePairs 用显式栈直接计算每个开括号对应的闭括号，作为对照实现。
func naivePairs(m *Matcher, text string) map[int]int {
	pairs := map[int]int{}
	var stack []int
	for pos := 0; pos < len(text); {
		if end, skipped, _ := m.Scanner().SkipAtomic(text, pos); skipped {
			pos = end
			continue
		}
		switch {
		case m.isOpen(text[pos]):
			stack = append(stack, pos)
		case m.isClose(text[pos]):
			open := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			pairs[open] = pos
		}
		pos++
	}
	return pairs
}

// TestMatchingRoundTripProperty 验证正向与反向匹配互为逆操作，且与显式栈实现一致。
func TestMatchingRoundTripProperty(t *testing.T) {
	m := newMatcher(t, languages.CFamily, DefaultKinds)

	rapid.Check(t, func(rt *rapid.T) {
		text := balancedCode(rt, 0)
		for open, wantClose := range naivePairs(m, text) {
			closing, err := m.FindMatchingClose(text, open)
			if err != nil {
				rt.Fatalf("FindMatchingClose(%q, %d): %v", text, open, err)
			}
			if closing != wantClose {
				rt.Fatalf("FindMatchingClose(%q, %d) = %d, want %d", text, open, closing, wantClose)
			}

			back, err := m.FindMatchingOpen(text, closing)
			if err != nil {
				rt.Fatalf("FindMatchingOpen(%q, %d): %v", text, closing, err)
			}
			if back != open {
				rt.Fatalf("FindMatchingOpen(%q, %d) = %d, want %d", text, closing, back, open)
			}
		}

		if status := m.AnalyzeParity(text); !status.IsEntirelyEven() {
			rt.Fatalf("balanced text reported uneven: %q %v", text, status.Messages)
		}
	})
}
