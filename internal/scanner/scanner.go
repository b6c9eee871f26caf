// Package scanner 提供按语言档案参数化的词法扫描原语。
//
// 所有搜索操作都会把注释与引号字面量当作不可分割的整体跳过，
// 因此不会在注释或字符串内部报告匹配。Scanner 本身不保存任何扫描状态，可以重复、并发调用。
package scanner

import (
	"errors"
	"fmt"

	"codeshape/internal/languages"
)

var (
	// ErrUnterminatedQuote 表示引号字面量直到文本结束都没有闭合。
	ErrUnterminatedQuote = errors.New("unterminated quoted literal")
	// ErrUnterminatedComment 表示块注释直到文本结束都没有闭合。
	ErrUnterminatedComment = errors.New("unterminated block comment")
)

// AtomKind 表示扫描器整体跳过的结构类型。
type AtomKind int

const (
	// AtomNone 表示当前位置不是注释也不是字面量。
	AtomNone AtomKind = iota
	// AtomComment 表示注释。
	AtomComment
	// AtomQuote 表示引号字面量。
	AtomQuote
)

// Scanner 是某个语言档案上的扫描器。
type Scanner struct {
	profile languages.Profile
}

// New 创建扫描器。
func New(profile languages.Profile) *Scanner {
	return &Scanner{profile: profile}
}

// Profile 返回扫描器使用的语言档案。
func (s *Scanner) Profile() languages.Profile {
	return s.profile
}

// CommentEnd 判断 pos 处是否开始一个注释，并返回注释结束位置。
//
// 单行注释在下一个行终止符处结束（不含终止符）；块注释在闭合标记之后结束（含标记）。
// 未闭合的块注释返回 len(text) 与 ErrUnterminatedComment。
func (s *Scanner) CommentEnd(text string, pos int) (int, bool, error) {
	if pos < 0 || pos >= len(text) {
		return pos, false, nil
	}
	cursor := NewCursor(text, pos)

	if s.profile.HasBlockComment() && cursor.HasPrefix(s.profile.BlockCommentOpen) {
		end, err := s.blockCommentEnd(text, pos)
		return end, true, err
	}

	if s.profile.HasLineComment() && cursor.HasPrefix(s.profile.LineComment) {
		return lineEnd(text, pos), true, nil
	}

	return pos, false, nil
}

// blockCommentEnd 扫描块注释；档案允许嵌套时按深度计数。
func (s *Scanner) blockCommentEnd(text string, pos int) (int, error) {
	open := s.profile.BlockCommentOpen
	closing := s.profile.BlockCommentClose

	cursor := NewCursor(text, pos+len(open))
	depth := 1
	for !cursor.EOF() {
		if s.profile.NestedBlockComments && cursor.HasPrefix(open) {
			depth++
			cursor.Advance(len(open))
			continue
		}
		if cursor.HasPrefix(closing) {
			depth--
			cursor.Advance(len(closing))
			if depth == 0 {
				return cursor.Pos(), nil
			}
			continue
		}
		cursor.Advance(1)
	}
	return len(text), fmt.Errorf("%w starting at offset %d", ErrUnterminatedComment, pos)
}

// QuoteEnd 返回与 open 处引号配对的闭合引号位置。
//
// 转义标记会连同其后的一个单元一起被消费：一个普通转义字母、x 加十六进制串，或一串十进制数字。
// 档案启用 DoubledQuoteEscape 时，连续两个引号视为字面引号。
func (s *Scanner) QuoteEnd(text string, open int) (int, error) {
	if open < 0 || open >= len(text) || !s.profile.IsQuote(text[open]) {
		return open, fmt.Errorf("no quote at offset %d", open)
	}
	quote := text[open]

	cursor := NewCursor(text, open+1)
	for !cursor.EOF() {
		ch := cursor.Peek()
		if s.profile.Escape != 0 && ch == s.profile.Escape {
			cursor.Advance(escapeLen(text, cursor.Pos()))
			continue
		}
		if ch == quote {
			if s.profile.DoubledQuoteEscape && cursor.PeekAt(1) == quote {
				cursor.Advance(2)
				continue
			}
			return cursor.Pos(), nil
		}
		cursor.Advance(1)
	}
	return len(text), fmt.Errorf("%w starting at offset %d", ErrUnterminatedQuote, open)
}

// escapeLen 返回 pos 处转义序列的字节长度（含转义标记本身）。
func escapeLen(text string, pos int) int {
	next := pos + 1
	if next >= len(text) {
		return 1
	}

	ch := text[next]
	switch {
	case ch == 'x' || ch == 'X':
		end := next + 1
		for end < len(text) && isHexDigit(text[end]) {
			end++
		}
		return end - pos
	case IsDigit(ch):
		end := next
		for end < len(text) && IsDigit(text[end]) {
			end++
		}
		return end - pos
	default:
		return 2
	}
}

// Atom 判断 pos 处是否开始一个注释或字面量，并返回其结束位置（不含）。
// 未闭合结构返回 len(text) 与对应的哨兵错误。
func (s *Scanner) Atom(text string, pos int) (int, AtomKind, error) {
	if end, ok, err := s.CommentEnd(text, pos); ok {
		return end, AtomComment, err
	}
	if pos >= 0 && pos < len(text) && s.profile.IsQuote(text[pos]) {
		end, err := s.QuoteEnd(text, pos)
		if err != nil {
			return len(text), AtomQuote, err
		}
		return end + 1, AtomQuote, nil
	}
	return pos, AtomNone, nil
}

// SkipAtomic 是 Atom 的简化形式：只关心是否跳过以及跳到哪里。
func (s *Scanner) SkipAtomic(text string, pos int) (int, bool, error) {
	end, kind, err := s.Atom(text, pos)
	return end, kind != AtomNone, err
}

// lineEnd 返回 pos 所在行的行终止符位置（\r\n 时指向 \r）。
func lineEnd(text string, pos int) int {
	for idx := pos; idx < len(text); idx++ {
		if text[idx] == '\n' {
			if idx > pos && text[idx-1] == '\r' {
				return idx - 1
			}
			return idx
		}
	}
	return len(text)
}

// LineEnd 返回 pos 所在行的行终止符位置。
func LineEnd(text string, pos int) int {
	return lineEnd(text, pos)
}
