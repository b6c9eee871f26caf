package scanner

import "strings"

// castForbidden 是类型名里不可能出现的字符；括号内含有它们时不是强制转换。
const castForbidden = "=+-/%!|^?;{}[]\"'"

// CastEnd 判断 pos 处是否是一个 C 风格强制转换，例如 (int)x、(char*)"s"、(A)(B)x。
//
// 条件：pos 处是 '('，前面不是标识符（排除函数调用），括号内部平衡且形如类型，
// 紧随其后的是引号、标识符、作用域分隔符，或另一个平衡的括号组。
// 返回第一个括号组之后的位置。
func (s *Scanner) CastEnd(text string, pos int) (int, bool) {
	if !s.profile.HasCasts || pos < 0 || pos >= len(text) || text[pos] != '(' {
		return pos, false
	}
	if pos > 0 && IsIdent(text[pos-1]) {
		return pos, false
	}

	closing, ok := s.matchParen(text, pos)
	if !ok {
		return pos, false
	}
	inner := strings.TrimSpace(text[pos+1 : closing])
	if inner == "" || strings.ContainsAny(inner, castForbidden) {
		return pos, false
	}

	after := closing + 1
	if after >= len(text) {
		return pos, false
	}

	next := text[after]
	switch {
	case s.profile.IsQuote(next):
		return after, true
	case IsIdent(next):
		return after, true
	case s.profile.ScopeSeparator != "" && strings.HasPrefix(text[after:], s.profile.ScopeSeparator):
		return after, true
	case next == '(':
		if _, ok := s.matchParen(text, after); ok {
			return after, true
		}
	}
	return pos, false
}

// matchParen 查找与 open 处 '(' 配对的 ')'，注释与字面量整体跳过。
// 完整的多括号类型匹配由 braces 包负责，这里只需要圆括号。
func (s *Scanner) matchParen(text string, open int) (int, bool) {
	depth := 0
	cursor := NewCursor(text, open)
	for !cursor.EOF() {
		if end, skipped, err := s.SkipAtomic(text, cursor.Pos()); skipped {
			if err != nil {
				return open, false
			}
			cursor.Seek(end)
			continue
		}
		switch cursor.Peek() {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return cursor.Pos(), true
			}
		}
		cursor.Advance(1)
	}
	return open, false
}

// ProtectedLineEnd 判断从 pos 起是否只剩下空白、至多一个注释以及行终止符（或文本结束）。
//
// 返回行终止符的位置，以及剩余部分是否包含注释。用于决定注释前的空白是否必须原样保留。
func (s *Scanner) ProtectedLineEnd(text string, pos int) (int, bool, bool) {
	cursor := NewCursor(text, pos)
	cursor.SkipBlanks()
	if cursor.EOF() || IsLineBreak(cursor.Peek()) {
		return cursor.Pos(), false, true
	}

	end, ok, err := s.CommentEnd(text, cursor.Pos())
	if !ok || err != nil {
		return pos, false, false
	}
	cursor.Seek(end)
	cursor.SkipBlanks()
	if cursor.EOF() || IsLineBreak(cursor.Peek()) {
		return cursor.Pos(), true, true
	}
	return pos, false, false
}

// LineContinuationEnd 判断 pos 处是否是转义的行尾续行（C 的 "\\\n"、Basic 的 " _\n"），
// 返回下一行的起始位置。
func (s *Scanner) LineContinuationEnd(text string, pos int) (int, bool) {
	marker := s.profile.LineContinuation
	if marker == "" || pos < 0 || !strings.HasPrefix(text[min(pos, len(text)):], marker) {
		return pos, false
	}

	cursor := NewCursor(text, pos+len(marker))
	if cursor.Peek() == '\r' {
		cursor.Advance(1)
	}
	if cursor.Peek() != '\n' {
		return pos, false
	}
	cursor.Advance(1)
	return cursor.Pos(), true
}
