package format

import (
	"fmt"
	"strings"

	"codeshape/internal/logging"
	"codeshape/internal/model"
	"codeshape/internal/scanner"
)

// commentState 是选区当前的注释形式。
type commentState int

const (
	commentNone commentState = iota
	commentLine
	commentBlock
)

func (s commentState) String() string {
	switch s {
	case commentLine:
		return "line"
	case commentBlock:
		return "block"
	default:
		return "none"
	}
}

// ToggleComment 切换选区的注释状态。
//
// 单行选区在无注释与单行注释之间切换；多行选区按 无注释 → 逐行单行注释 → 块注释 → 无注释 循环。
// 语言没有单行注释时直接使用块注释，没有块注释时跳过块注释这一步。
// 选区内容本身含有块注释结束标记时无法包裹，结果回到无注释并记入诊断。
func (e *Engine) ToggleComment(text string) (model.Result, error) {
	if isBlank(text) {
		return model.Result{}, ErrEmptySelection
	}
	if !e.profile.HasLineComment() && !e.profile.HasBlockComment() {
		return model.Result{}, fmt.Errorf("%w: %s", ErrNoCommentSyntax, e.profile.Name)
	}

	lines := splitLines(text)
	single := nonBlankCount(lines) == 1
	state := e.commentState(text, lines)
	target := e.nextCommentState(state, single)

	plain := e.uncomment(lines, state)

	var diagnostics []string
	if target == commentBlock && strings.Contains(joinLines(plain), e.profile.BlockCommentClose) {
		diagnostics = append(diagnostics, fmt.Sprintf("selection contains %q; block comment not applied", e.profile.BlockCommentClose))
		target = commentNone
	}

	e.logger.Debug("toggled comment",
		logging.FieldFrom, state.String(),
		logging.FieldTo, target.String(),
	)
	return model.Result{Text: joinLines(e.applyComment(plain, target)), Diagnostics: diagnostics}, nil
}

// ExpandBlockComment 把一个块注释拆成逐行的单行注释。
func (e *Engine) ExpandBlockComment(text string) (model.Result, error) {
	if isBlank(text) {
		return model.Result{}, ErrEmptySelection
	}
	if !e.profile.HasLineComment() || !e.profile.HasBlockComment() {
		return model.Result{}, fmt.Errorf("%w: %s needs both line and block comments", ErrNoCommentSyntax, e.profile.Name)
	}

	lines := splitLines(text)
	if e.commentState(text, lines) != commentBlock {
		return model.Result{}, ErrNotBlockComment
	}
	plain := e.uncomment(lines, commentBlock)
	return model.Result{Text: joinLines(e.applyComment(plain, commentLine))}, nil
}

func (e *Engine) nextCommentState(state commentState, single bool) commentState {
	switch state {
	case commentNone:
		if e.profile.HasLineComment() {
			return commentLine
		}
		return commentBlock
	case commentLine:
		if !single && e.profile.HasBlockComment() {
			return commentBlock
		}
	}
	return commentNone
}

// commentState 判断选区是整体的块注释、逐行的单行注释，还是没有注释。
func (e *Engine) commentState(text string, lines []textLine) commentState {
	if e.profile.HasBlockComment() {
		start := 0
		for start < len(text) && scanner.IsSpace(text[start]) {
			start++
		}
		if strings.HasPrefix(text[start:], e.profile.BlockCommentOpen) {
			if end, ok, err := e.scanner.CommentEnd(text, start); ok && err == nil && isBlank(text[end:]) {
				return commentBlock
			}
		}
	}

	if e.profile.HasLineComment() {
		for _, line := range lines {
			if isBlank(line.content) {
				continue
			}
			if _, body := splitIndent(line.content); !strings.HasPrefix(body, e.profile.LineComment) {
				return commentNone
			}
		}
		return commentLine
	}
	return commentNone
}

// uncomment 去掉 state 对应的注释标记，返回新的行切片。
func (e *Engine) uncomment(lines []textLine, state commentState) []textLine {
	result := append([]textLine(nil), lines...)
	switch state {
	case commentLine:
		for idx, line := range result {
			indent, body := splitIndent(line.content)
			if rest, ok := strings.CutPrefix(body, e.profile.LineComment); ok {
				result[idx].content = indent + strings.TrimPrefix(rest, " ")
			}
		}
	case commentBlock:
		result = e.unwrapBlock(result)
	}
	return result
}

// unwrapBlock 去掉首尾的块注释标记；标记独占一行时整行删除。
func (e *Engine) unwrapBlock(lines []textLine) []textLine {
	first, last := nonBlankBounds(lines)
	if first < 0 {
		return lines
	}

	indent, body := splitIndent(lines[first].content)
	body = strings.TrimPrefix(strings.TrimPrefix(body, e.profile.BlockCommentOpen), " ")
	lines[first].content = indent + body

	tail := strings.TrimRight(lines[last].content, " \t")
	tail = strings.TrimSuffix(strings.TrimSuffix(tail, e.profile.BlockCommentClose), " ")
	lines[last].content = tail

	if last != first && isBlank(lines[last].content) {
		lines[last-1].ending = lines[last].ending
		lines = append(lines[:last], lines[last+1:]...)
	}
	if last != first && isBlank(lines[first].content) {
		lines = append(lines[:first], lines[first+1:]...)
	}
	return lines
}

// applyComment 给无注释的行加上 target 形式的注释。
func (e *Engine) applyComment(lines []textLine, target commentState) []textLine {
	switch target {
	case commentLine:
		for idx, line := range lines {
			if isBlank(line.content) {
				continue
			}
			indent, body := splitIndent(line.content)
			lines[idx].content = indent + e.profile.LineComment + " " + body
		}
	case commentBlock:
		first, last := nonBlankBounds(lines)
		if first < 0 {
			return lines
		}
		indent, body := splitIndent(lines[first].content)
		lines[first].content = indent + e.profile.BlockCommentOpen + " " + body
		lines[last].content = strings.TrimRight(lines[last].content, " \t") + " " + e.profile.BlockCommentClose
	}
	return lines
}

func splitIndent(content string) (string, string) {
	idx := 0
	for idx < len(content) && scanner.IsBlank(content[idx]) {
		idx++
	}
	return content[:idx], content[idx:]
}

// nonBlankBounds 返回第一个与最后一个非空行的下标，全部为空时返回 -1, -1。
func nonBlankBounds(lines []textLine) (int, int) {
	first, last := -1, -1
	for idx, line := range lines {
		if isBlank(line.content) {
			continue
		}
		if first < 0 {
			first = idx
		}
		last = idx
	}
	return first, last
}
