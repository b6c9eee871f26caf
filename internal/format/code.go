package format

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"codeshape/internal/braces"
	"codeshape/internal/logging"
	"codeshape/internal/model"
	"codeshape/internal/rules"
	"codeshape/internal/scanner"
)

const keywordOperator = "operator"

// formatter 保存一次 FormatCode 调用的全部临时状态。
//
// 括号空格的抑制深度不在这里：它作为参数沿 formatSpan 的递归向下传递。
type formatter struct {
	e              *Engine
	text           string
	out            []byte
	kinds          string
	protectLeading bool
	whitespaceOnly bool
	diagnostics    []string

	// lineIn/lineOut 是当前行在输入与输出中的起点，用于整行回退。
	lineIn  int
	lineOut int
	// floor 之前的输出（行首缩进、逐字复制的注释）不能被空格规则删改。
	floor int
}

// FormatCode 按规则集重排 text。
//
// protectLeadingWhitespace 为 true 时保留每行的行首缩进，否则删除；adjustWhitespaceOnly 为 true 时
// 只处理空白，不应用括号与运算符规则。未闭合的字面量使该行回退为原文，未闭合的块注释使其后全部回退为原文，
// 两种情况都记录在 Result.Diagnostics 中，不作为错误返回。
func (e *Engine) FormatCode(text string, protectLeadingWhitespace, adjustWhitespaceOnly bool) (model.Result, error) {
	if text == "" {
		return model.Result{}, nil
	}

	f := &formatter{
		e:              e,
		text:           text,
		out:            make([]byte, 0, len(text)+len(text)/8),
		protectLeading: protectLeadingWhitespace,
		whitespaceOnly: adjustWhitespaceOnly,
	}
	if !adjustWhitespaceOnly {
		f.kinds = e.reliableArgumentKinds(text, &f.diagnostics)
	}

	pos := f.beginLine(0)
	f.formatSpan(pos, len(text), 0)

	return model.Result{Text: string(f.out), Diagnostics: f.diagnostics}, nil
}

// formatSpan 处理 [start, end)，depth > 0 时不对括号应用空格规则（强制转换与宽字符串包装内部）。
// 返回处理结束的位置；回退时可能超出 end。
func (f *formatter) formatSpan(start, end, depth int) int {
	pos := start
	for pos < end {
		ch := f.text[pos]

		switch {
		case ch == '\n':
			f.out = append(f.out, ch)
			pos = f.beginLine(pos + 1)
			continue
		case ch == '\r':
			f.out = append(f.out, ch)
			pos++
			continue
		}

		if next, ok := f.e.scanner.LineContinuationEnd(f.text, pos); ok {
			f.emitVerbatim(pos, next)
			pos = next
			continue
		}

		if scanner.IsBlank(ch) {
			pos = f.whitespace(pos, end)
			continue
		}

		if atomEnd, kind, err := f.e.scanner.Atom(f.text, pos); kind != scanner.AtomNone {
			if err != nil {
				pos = f.fallback(pos, kind, err)
				continue
			}
			f.emitVerbatim(pos, atomEnd)
			pos = atomEnd
			continue
		}

		if !f.whitespaceOnly {
			if next, ok := f.token(pos, end, depth); ok {
				pos = next
				continue
			}
		}
		pos = f.copyUnit(pos, end)
	}
	return pos
}

// beginLine 记录新行的起点并处理行首空白。
func (f *formatter) beginLine(pos int) int {
	f.lineIn = pos
	f.lineOut = len(f.out)

	indentEnd := pos
	for indentEnd < len(f.text) && scanner.IsBlank(f.text[indentEnd]) {
		indentEnd++
	}
	blankLine := indentEnd >= len(f.text) || scanner.IsLineBreak(f.text[indentEnd])
	if f.protectLeading && !(blankLine && f.e.rules.DeleteTrailingWhitespace) {
		f.out = append(f.out, f.text[pos:indentEnd]...)
	}
	f.floor = len(f.out)
	return indentEnd
}

// whitespace 处理一段行内空白。
func (f *formatter) whitespace(pos, end int) int {
	if lineEnd, hasComment, ok := f.e.scanner.ProtectedLineEnd(f.text, pos); ok {
		segmentEnd := lineEnd
		if f.e.rules.DeleteTrailingWhitespace {
			for segmentEnd > pos && scanner.IsBlank(f.text[segmentEnd-1]) {
				segmentEnd--
			}
		}
		if hasComment || !f.e.rules.DeleteTrailingWhitespace {
			f.emitVerbatim(pos, segmentEnd)
		}
		return lineEnd
	}

	runEnd := pos
	for runEnd < end && scanner.IsBlank(f.text[runEnd]) {
		runEnd++
	}

	switch f.e.rules.Whitespace {
	case rules.WhitespacePreserve:
		f.out = append(f.out, f.text[pos:runEnd]...)
	case rules.WhitespaceMinimal:
		if len(f.out) > f.floor && scanner.IsIdent(f.out[len(f.out)-1]) && runEnd < end && scanner.IsIdent(f.text[runEnd]) {
			f.out = append(f.out, ' ')
		}
	default:
		f.out = append(f.out, ' ')
	}
	return runEnd
}

// token 处理宽字符串包装、运算符与括号。不是这些结构时返回 false。
func (f *formatter) token(pos, end, depth int) (int, bool) {
	ch := f.text[pos]

	if scanner.IsIdent(ch) {
		return f.wideStringWrapper(pos, end, depth)
	}

	if rule, ok := f.e.rules.OperatorAt(f.text, pos); ok && pos+len(rule.Token) <= end {
		if len(rule.Token) > 1 || !f.isArgumentBrace(ch) {
			return f.operator(pos, end, rule), true
		}
	}

	if depth == 0 && f.isArgumentBrace(ch) {
		return f.brace(pos, end, depth), true
	}
	return pos, false
}

// wideStringWrapper 识别 _T("...") 这样的包装宏，其括号内部按抑制模式格式化。
func (f *formatter) wideStringWrapper(pos, end, depth int) (int, bool) {
	if pos > 0 && scanner.IsIdent(f.text[pos-1]) {
		return pos, false
	}
	wordEnd := pos
	for wordEnd < end && scanner.IsIdent(f.text[wordEnd]) {
		wordEnd++
	}
	if !slices.Contains(f.e.rules.WideStringWrappers, f.text[pos:wordEnd]) {
		return pos, false
	}

	open := wordEnd
	for open < end && scanner.IsBlank(f.text[open]) {
		open++
	}
	if open >= end || f.text[open] != '(' {
		return pos, false
	}
	closing, err := f.e.matcher.WithKinds("(").FindMatchingClose(f.text, open)
	if err != nil || closing >= end {
		return pos, false
	}

	f.out = append(f.out, f.text[pos:open]...)
	return f.formatSpan(open, closing+1, depth+1), true
}

// operator 按运算符规则调整两侧空格。紧跟在 operator 关键字之后的记号保持原样。
func (f *formatter) operator(pos, end int, rule rules.OperatorRule) int {
	next := pos + len(rule.Token)
	if f.followsOperatorKeyword(pos) {
		f.out = append(f.out, rule.Token...)
		return next
	}

	switch rule.Before {
	case rules.SpacingRemove:
		f.trimBlanks()
	case rules.SpacingInsert:
		f.trimBlanks()
		f.spaceIfContent()
	}
	f.out = append(f.out, rule.Token...)
	return f.afterSpacing(next, end, rule.After)
}

// brace 处理参数列表括号：强制转换、空括号对与内侧空格。
func (f *formatter) brace(pos, end, depth int) int {
	ch := f.text[pos]
	rule, _ := f.e.rules.BraceFor(ch)

	closing := braces.CloseOf(ch)
	if closing == 0 {
		switch rule.Spacing {
		case rules.SpacingRemove:
			f.trimBlanks()
		case rules.SpacingInsert:
			f.trimBlanks()
			f.spaceIfContent()
		}
		f.out = append(f.out, ch)
		return pos + 1
	}

	if ch == '(' {
		if castEnd, ok := f.e.scanner.CastEnd(f.text, pos); ok && castEnd <= end {
			return f.formatSpan(pos, castEnd, depth+1)
		}
	}

	inner := pos + 1
	for inner < end && scanner.IsBlank(f.text[inner]) {
		inner++
	}
	if inner < end && f.text[inner] == closing {
		f.out = append(f.out, ch, closing)
		return inner + 1
	}

	f.out = append(f.out, ch)
	return f.afterSpacing(pos+1, end, rule.Spacing)
}

// afterSpacing 在记号之后应用空格策略；行尾（含尾随注释）交给 whitespace 处理。
func (f *formatter) afterSpacing(pos, end int, policy rules.SpacingPolicy) int {
	if policy == rules.SpacingPreserve || pos >= end {
		return pos
	}
	if _, _, ok := f.e.scanner.ProtectedLineEnd(f.text, pos); ok {
		return pos
	}

	next := pos
	for next < end && scanner.IsBlank(f.text[next]) {
		next++
	}
	if next >= end {
		return pos
	}
	if policy == rules.SpacingInsert {
		f.out = append(f.out, ' ')
	}
	return next
}

// followsOperatorKeyword 判断 pos 之前（忽略空白）是否是 operator 关键字。
func (f *formatter) followsOperatorKeyword(pos int) bool {
	end := pos
	for end > 0 && scanner.IsBlank(f.text[end-1]) {
		end--
	}
	start := end - len(keywordOperator)
	if start < 0 || !f.e.scanner.HasPrefixFold(f.text, start, keywordOperator) {
		return false
	}
	return start == 0 || !scanner.IsIdent(f.text[start-1])
}

func (f *formatter) isArgumentBrace(ch byte) bool {
	open := ch
	if opening := braces.OpenOf(ch); opening != 0 {
		open = opening
	} else if braces.CloseOf(ch) == 0 {
		return false
	}
	return strings.IndexByte(f.kinds, open) >= 0
}

// fallback 处理未闭合结构：字面量回退当前整行，块注释回退其后的全部文本。
func (f *formatter) fallback(pos int, kind scanner.AtomKind, err error) int {
	line := strings.Count(f.text[:pos], "\n") + 1
	f.diagnostics = append(f.diagnostics, fmt.Sprintf("line %d: %v", line, err))
	f.e.logger.Debug("formatting fell back to original text",
		logging.FieldLine, line,
		logging.FieldError, err,
	)

	f.out = f.out[:f.lineOut]
	if kind == scanner.AtomComment || errors.Is(err, scanner.ErrUnterminatedComment) {
		f.out = append(f.out, f.text[f.lineIn:]...)
		return len(f.text)
	}

	lineEnd := scanner.LineEnd(f.text, f.lineIn)
	f.out = append(f.out, f.text[f.lineIn:lineEnd]...)
	f.floor = len(f.out)
	return lineEnd
}

// copyUnit 原样复制一个标识符串或一个字符。
func (f *formatter) copyUnit(pos, end int) int {
	next := pos + 1
	if scanner.IsIdent(f.text[pos]) {
		for next < end && scanner.IsIdent(f.text[next]) {
			next++
		}
	} else if f.text[pos] >= utf8.RuneSelf {
		_, size := utf8.DecodeRuneInString(f.text[pos:])
		next = pos + size
	}
	f.out = append(f.out, f.text[pos:next]...)
	return next
}

// emitVerbatim 原样复制 [from, to)，跨行时同步行起点。
func (f *formatter) emitVerbatim(from, to int) {
	segment := f.text[from:to]
	f.out = append(f.out, segment...)
	if idx := strings.LastIndexByte(segment, '\n'); idx >= 0 {
		f.lineIn = from + idx + 1
		f.lineOut = len(f.out) - (to - f.lineIn)
		f.floor = len(f.out)
	}
}

func (f *formatter) trimBlanks() {
	for len(f.out) > f.floor && scanner.IsBlank(f.out[len(f.out)-1]) {
		f.out = f.out[:len(f.out)-1]
	}
}

func (f *formatter) spaceIfContent() {
	if len(f.out) > f.floor && !scanner.IsBlank(f.out[len(f.out)-1]) {
		f.out = append(f.out, ' ')
	}
}
