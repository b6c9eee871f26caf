package format

import (
	"strings"
	"unicode/utf8"

	"codeshape/internal/braces"
	"codeshape/internal/model"
	"codeshape/internal/scanner"
)

// SplitArgumentList 把超出 maxColumn 的行在参数列表的断行分隔符处拆开，续行对齐到开括号之后。
//
// 内层列表先于外层处理（深度优先），外层在决定断行时看到的是内层已经拆开之后的列位置。
// targetLevel 为 -1 时所有层级都可以拆分，否则只拆分该层（最外层为 0）。
// maxColumn <= 0 时使用规则集中的 MaxColumn。
func (e *Engine) SplitArgumentList(text string, maxColumn, targetLevel int) (model.Result, error) {
	if isBlank(text) {
		return model.Result{}, ErrEmptySelection
	}
	if maxColumn <= 0 {
		maxColumn = e.rules.MaxColumn
	}

	var diagnostics []string
	defaultBreak := lineBreakOf(text)

	var builder strings.Builder
	builder.Grow(len(text) + len(text)/4)
	for _, line := range splitLines(text) {
		if VisualWidth(line.content, e.rules.TabWidth) <= maxColumn {
			builder.WriteString(line.content)
			builder.WriteString(line.ending)
			continue
		}

		kinds := e.reliableArgumentKinds(line.content, &diagnostics)
		lineBreak := line.ending
		if lineBreak == "" {
			lineBreak = defaultBreak
		}
		s := &splitter{
			e:         e,
			text:      line.content,
			kinds:     kinds,
			counted:   unionKinds(braces.DefaultKinds, kinds),
			matcher:   e.matcher.WithKinds(unionKinds(braces.DefaultKinds, kinds)),
			maxColumn: maxColumn,
			target:    targetLevel,
			lineBreak: lineBreak,
		}
		builder.WriteString(s.run())
		builder.WriteString(line.ending)
	}

	return model.Result{Text: builder.String(), Diagnostics: diagnostics}, nil
}

// splitter 保存拆分单行时的状态。
type splitter struct {
	e         *Engine
	text      string
	kinds     string
	counted   string
	matcher   *braces.Matcher
	maxColumn int
	target    int
	lineBreak string
	indent    string
	out       []byte
	col       int
}

func (s *splitter) run() string {
	indentEnd := 0
	for indentEnd < len(s.text) && scanner.IsBlank(s.text[indentEnd]) {
		indentEnd++
	}
	s.indent = s.text[:indentEnd]
	s.emit(s.indent)
	s.renderSpan(indentEnd, len(s.text), 0)
	return string(s.out)
}

// renderSpan 输出 [start, end)，遇到放不下的参数列表时交给 renderList。
func (s *splitter) renderSpan(start, end, level int) {
	pos := start
	for pos < end {
		if atomEnd, skipped, err := s.e.scanner.SkipAtomic(s.text, pos); skipped {
			if err != nil || atomEnd > end {
				atomEnd = end
			}
			s.emit(s.text[pos:atomEnd])
			pos = atomEnd
			continue
		}

		ch := s.text[pos]
		if strings.IndexByte(s.kinds, ch) >= 0 {
			if closing, err := s.matcher.FindMatchingClose(s.text, pos); err == nil && closing < end {
				if s.fits(pos, s.tailEnd(closing+1)) {
					s.emit(s.text[pos : closing+1])
				} else {
					s.renderList(pos, closing, level)
				}
				pos = closing + 1
				continue
			}
		}

		next := pos + 1
		if ch >= utf8.RuneSelf {
			_, size := utf8.DecodeRuneInString(s.text[pos:])
			next = pos + size
		}
		s.emit(s.text[pos:next])
		pos = next
	}
}

// renderList 输出一个参数列表，必要时在分隔符之后断行。
func (s *splitter) renderList(open, closing, level int) {
	breakable := s.target < 0 || s.target == level

	s.emit(s.text[open : open+1])
	align := s.col

	segments := s.segments(open+1, closing)
	for idx, segment := range segments {
		contentStart := segment.Start
		for contentStart < segment.End && scanner.IsBlank(s.text[contentStart]) {
			contentStart++
		}

		if idx > 0 && breakable && s.col > align && contentStart < segment.End {
			widthEnd := segment.End
			if idx == len(segments)-1 {
				widthEnd = s.tailEnd(closing + 1)
			}
			if !s.fits(segment.Start, widthEnd) {
				s.newline(align)
				s.renderSpan(contentStart, segment.End, level+1)
				continue
			}
		}
		s.renderSpan(segment.Start, segment.End, level+1)
	}

	s.emit(s.text[closing : closing+1])
}

// segments 把 (open, closing) 之间的内容按本层的断行分隔符切开，分隔符留在前一段末尾。
func (s *splitter) segments(from, to int) []model.TokenRange {
	var result []model.TokenRange
	start := from
	depth := 0
	for pos := from; pos < to; {
		if atomEnd, skipped, _ := s.e.scanner.SkipAtomic(s.text, pos); skipped {
			pos = min(atomEnd, to)
			continue
		}

		ch := s.text[pos]
		switch {
		case strings.IndexByte(s.counted, ch) >= 0:
			depth++
		case braces.OpenOf(ch) != 0 && strings.IndexByte(s.counted, braces.OpenOf(ch)) >= 0:
			depth--
		case depth == 0:
			if separator, ok := s.e.rules.BreakSeparatorAt(s.text, pos); ok {
				pos += len(separator)
				result = append(result, model.TokenRange{Start: start, End: pos})
				start = pos
				continue
			}
		}
		pos++
	}
	return append(result, model.TokenRange{Start: start, End: to})
}

// tailEnd 返回 pos 之后下一个断行机会（外层的分隔符之后）的位置。
func (s *splitter) tailEnd(pos int) int {
	depth := 0
	for pos < len(s.text) {
		if atomEnd, skipped, err := s.e.scanner.SkipAtomic(s.text, pos); skipped {
			if err != nil {
				return len(s.text)
			}
			pos = atomEnd
			continue
		}

		ch := s.text[pos]
		switch {
		case strings.IndexByte(s.counted, ch) >= 0:
			depth++
		case braces.OpenOf(ch) != 0 && strings.IndexByte(s.counted, braces.OpenOf(ch)) >= 0:
			depth--
		case depth <= 0:
			if separator, ok := s.e.rules.BreakSeparatorAt(s.text, pos); ok {
				return pos + len(separator)
			}
		}
		pos++
	}
	return len(s.text)
}

func (s *splitter) fits(from, to int) bool {
	return advanceColumn(s.col, s.text[from:to], s.e.rules.TabWidth) <= s.maxColumn
}

func (s *splitter) emit(chunk string) {
	s.out = append(s.out, chunk...)
	s.col = advanceColumn(s.col, chunk, s.e.rules.TabWidth)
}

// newline 断行并把续行对齐到 align 列：先复制原行缩进，再用空格补齐。
func (s *splitter) newline(align int) {
	for len(s.out) > 0 && scanner.IsBlank(s.out[len(s.out)-1]) {
		s.out = s.out[:len(s.out)-1]
	}
	s.out = append(s.out, s.lineBreak...)

	indentWidth := VisualWidth(s.indent, s.e.rules.TabWidth)
	s.out = append(s.out, s.indent...)
	if pad := align - indentWidth; pad > 0 {
		s.out = append(s.out, strings.Repeat(" ", pad)...)
	}
	s.col = max(align, indentWidth)
}

// unionKinds 合并两个开括号集合并去重。
func unionKinds(a, b string) string {
	result := []byte(a)
	for idx := 0; idx < len(b); idx++ {
		if strings.IndexByte(string(result), b[idx]) < 0 {
			result = append(result, b[idx])
		}
	}
	return string(result)
}
