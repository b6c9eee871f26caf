package format

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"codeshape/internal/model"
	"codeshape/internal/scanner"
)

// textLine 是一行内容与它的行终止符（"\n"、"\r\n" 或最后一行的 ""）。
type textLine struct {
	content string
	ending  string
}

// splitLines 按行切分；以换行结尾的文本不会多出一个空的末行。
func splitLines(text string) []textLine {
	var lines []textLine
	for start := 0; start < len(text); {
		end := scanner.LineEnd(text, start)
		next := end
		if next < len(text) && text[next] == '\r' {
			next++
		}
		if next < len(text) && text[next] == '\n' {
			next++
		}
		lines = append(lines, textLine{content: text[start:end], ending: text[end:next]})
		start = next
	}
	return lines
}

func joinLines(lines []textLine) string {
	var builder strings.Builder
	for _, line := range lines {
		builder.WriteString(line.content)
		builder.WriteString(line.ending)
	}
	return builder.String()
}

// lineBreakOf 返回文本中第一个行终止符，没有时返回 "\n"。
func lineBreakOf(text string) string {
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		if idx > 0 && text[idx-1] == '\r' {
			return "\r\n"
		}
		return "\n"
	}
	return "\n"
}

func nonBlankCount(lines []textLine) int {
	count := 0
	for _, line := range lines {
		if !isBlank(line.content) {
			count++
		}
	}
	return count
}

// numberFormat 记录起始数字的写法，生成的编号沿用它。
type numberFormat struct {
	hex        bool
	upper      bool
	prefix     string
	width      int
	zeroPadded bool
}

func parseNumber(literal string) (int64, numberFormat, error) {
	var format numberFormat
	digits := literal
	base := 10
	if len(literal) > 2 && literal[0] == '0' && (literal[1] == 'x' || literal[1] == 'X') {
		format.hex = true
		format.prefix = literal[:2]
		digits = literal[2:]
		base = 16
		format.upper = strings.ContainsAny(digits, "ABCDEF")
	}
	format.width = len(digits)
	format.zeroPadded = len(digits) > 1 && digits[0] == '0'

	value, err := strconv.ParseInt(digits, base, 64)
	if err != nil {
		return 0, format, fmt.Errorf("parse number %q: %w", literal, err)
	}
	return value, format, nil
}

func (f numberFormat) render(value int64) string {
	sign := ""
	if value < 0 {
		sign = "-"
		value = -value
	}

	var digits string
	if f.hex {
		digits = strconv.FormatInt(value, 16)
		if f.upper {
			digits = strings.ToUpper(digits)
		}
	} else {
		digits = strconv.FormatInt(value, 10)
	}
	if f.zeroPadded && len(digits) < f.width {
		digits = strings.Repeat("0", f.width-len(digits)) + digits
	}
	return sign + f.prefix + digits
}

// GenerateConsecutiveNumbers 把每个非空行中的第一个数字改写为连续编号。
//
// 起点取第一行的数字，步长取前两行数字之差（相同或第二行没有数字时为 1）。
// 十六进制、大小写与前导零宽度沿用第一行。没有数字的行保持不变并记入诊断。
func (e *Engine) GenerateConsecutiveNumbers(text string) (model.Result, error) {
	lines := splitLines(text)
	if nonBlankCount(lines) < 2 {
		return model.Result{}, ErrTooFewLines
	}

	var numbered []int
	for idx, line := range lines {
		if !isBlank(line.content) {
			numbered = append(numbered, idx)
		}
	}

	first := lines[numbered[0]].content
	firstRange, ok := e.scanner.FindNumber(first, 0)
	if !ok {
		return model.Result{}, ErrNoNumber
	}
	start, format, err := parseNumber(firstRange.Text(first))
	if err != nil {
		return model.Result{}, fmt.Errorf("%w: %w", ErrNoNumber, err)
	}

	step := int64(1)
	second := lines[numbered[1]].content
	if secondRange, ok := e.scanner.FindNumber(second, 0); ok {
		if value, _, err := parseNumber(secondRange.Text(second)); err == nil && value != start {
			step = value - start
		}
	}

	var diagnostics []string
	sequence := int64(0)
	for _, idx := range numbered {
		content := lines[idx].content
		found, ok := e.scanner.FindNumber(content, 0)
		if !ok {
			diagnostics = append(diagnostics, fmt.Sprintf("line %d: no number", idx+1))
			continue
		}
		value := start + sequence*step
		lines[idx].content = content[:found.Start] + format.render(value) + content[found.End:]
		sequence++
	}

	return model.Result{Text: joinLines(lines), Diagnostics: diagnostics}, nil
}

// SortLines 按自然顺序稳定排序各行：数字串按数值比较，其余字符不区分大小写，
// 完全相同时再按原文比较。行终止符留在原来的位置上。
func (e *Engine) SortLines(text string, ascending bool) (model.Result, error) {
	lines := splitLines(text)
	if nonBlankCount(lines) < 2 {
		return model.Result{}, ErrTooFewLines
	}

	contents := make([]string, len(lines))
	for idx, line := range lines {
		contents[idx] = line.content
	}
	slices.SortStableFunc(contents, func(a, b string) int {
		if ascending {
			return NaturalCompare(a, b)
		}
		return NaturalCompare(b, a)
	})
	for idx := range lines {
		lines[idx].content = contents[idx]
	}

	return model.Result{Text: joinLines(lines)}, nil
}

// NaturalCompare 按自然顺序比较两个字符串，item2 排在 item10 之前。
func NaturalCompare(a, b string) int {
	if result := naturalCompareFold(a, b); result != 0 {
		return result
	}
	return strings.Compare(a, b)
}

func naturalCompareFold(a, b string) int {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if scanner.IsDigit(a[i]) && scanner.IsDigit(b[j]) {
			endA, endB := digitRunEnd(a, i), digitRunEnd(b, j)
			if result := compareDigitRuns(a[i:endA], b[j:endB]); result != 0 {
				return result
			}
			i, j = endA, endB
			continue
		}

		ra, sizeA := utf8.DecodeRuneInString(a[i:])
		rb, sizeB := utf8.DecodeRuneInString(b[j:])
		la, lb := unicode.ToLower(ra), unicode.ToLower(rb)
		if la != lb {
			if la < lb {
				return -1
			}
			return 1
		}
		i += sizeA
		j += sizeB
	}

	switch {
	case i < len(a):
		return 1
	case j < len(b):
		return -1
	}
	return 0
}

func digitRunEnd(s string, pos int) int {
	for pos < len(s) && scanner.IsDigit(s[pos]) {
		pos++
	}
	return pos
}

// compareDigitRuns 比较两个十进制数字串的数值，不受长度限制。
func compareDigitRuns(a, b string) int {
	trimmedA := strings.TrimLeft(a, "0")
	trimmedB := strings.TrimLeft(b, "0")
	if len(trimmedA) != len(trimmedB) {
		if len(trimmedA) < len(trimmedB) {
			return -1
		}
		return 1
	}
	return strings.Compare(trimmedA, trimmedB)
}
