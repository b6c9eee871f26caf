package scanner

import (
	"strings"

	"golang.org/x/text/cases"

	"codeshape/internal/model"
)

// fold 按档案的大小写规则规范化字符串。
// cases.Caser 带状态，不能跨 goroutine 共享，所以每次调用单独创建。
func (s *Scanner) fold(value string) string {
	if s.profile.CaseSensitive {
		return value
	}
	return cases.Fold().String(value)
}

// matchAt 判断 text 在 pos 处是否以 sub 开头（遵循档案的大小写规则）。
func (s *Scanner) matchAt(text string, pos int, sub string, foldedSub string) bool {
	if pos+len(sub) > len(text) {
		return false
	}
	if s.profile.CaseSensitive {
		return text[pos:pos+len(sub)] == sub
	}
	// ASCII 首字节先做一次廉价比较，避免对每个位置都做完整折叠。
	first := text[pos]
	if first < 0x80 && sub[0] < 0x80 && asciiLower(first) != asciiLower(sub[0]) {
		return false
	}
	return s.fold(text[pos:pos+len(sub)]) == foldedSub
}

func asciiLower(ch byte) byte {
	if ch >= 'A' && ch <= 'Z' {
		return ch + ('a' - 'A')
	}
	return ch
}

// Find 从 start 开始查找子串 sub，注释与字面量整体跳过。
// 遇到未闭合的结构时停止查找并返回未找到。
func (s *Scanner) Find(text, sub string, start int) (model.TokenRange, bool) {
	if sub == "" {
		return model.TokenRange{}, false
	}
	foldedSub := s.fold(sub)

	cursor := NewCursor(text, start)
	for !cursor.EOF() {
		if end, skipped, err := s.SkipAtomic(text, cursor.Pos()); skipped {
			if err != nil {
				return model.TokenRange{}, false
			}
			cursor.Seek(end)
			continue
		}
		if s.matchAt(text, cursor.Pos(), sub, foldedSub) {
			return model.TokenRange{Start: cursor.Pos(), End: cursor.Pos() + len(sub)}, true
		}
		cursor.Advance(1)
	}
	return model.TokenRange{}, false
}

// FindWord 与 Find 相同，但要求匹配两侧都是标识符边界。
func (s *Scanner) FindWord(text, word string, start int) (model.TokenRange, bool) {
	for pos := start; pos < len(text); {
		found, ok := s.Find(text, word, pos)
		if !ok {
			return model.TokenRange{}, false
		}
		beforeOK := found.Start == 0 || !IsIdent(text[found.Start-1])
		afterOK := found.End >= len(text) || !IsIdent(text[found.End])
		if beforeOK && afterOK {
			return found, true
		}
		pos = found.Start + 1
	}
	return model.TokenRange{}, false
}

// FindOneOf 查找 charset 中任意字符第一次出现的位置，未找到返回 -1。
func (s *Scanner) FindOneOf(text, charset string, start int) int {
	if charset == "" {
		return -1
	}
	if !s.profile.CaseSensitive {
		charset = strings.ToLower(charset) + strings.ToUpper(charset)
	}

	cursor := NewCursor(text, start)
	for !cursor.EOF() {
		if end, skipped, err := s.SkipAtomic(text, cursor.Pos()); skipped {
			if err != nil {
				return -1
			}
			cursor.Seek(end)
			continue
		}
		if strings.IndexByte(charset, cursor.Peek()) >= 0 {
			return cursor.Pos()
		}
		cursor.Advance(1)
	}
	return -1
}

// FindNumber 查找第一个独立的数字串（十进制，或 0x 开头的十六进制）。
// 标识符内部的数字（如 item2）不算。
func (s *Scanner) FindNumber(text string, start int) (model.TokenRange, bool) {
	cursor := NewCursor(text, start)
	for !cursor.EOF() {
		if end, skipped, err := s.SkipAtomic(text, cursor.Pos()); skipped {
			if err != nil {
				return model.TokenRange{}, false
			}
			cursor.Seek(end)
			continue
		}

		if !IsDigit(cursor.Peek()) || IsIdent(cursor.PeekAt(-1)) {
			cursor.Advance(1)
			continue
		}

		begin := cursor.Pos()
		if cursor.Peek() == '0' && (cursor.PeekAt(1) == 'x' || cursor.PeekAt(1) == 'X') && isHexDigit(cursor.PeekAt(2)) {
			cursor.Advance(2)
			for isHexDigit(cursor.Peek()) {
				cursor.Advance(1)
			}
		} else {
			for IsDigit(cursor.Peek()) {
				cursor.Advance(1)
			}
		}
		return model.TokenRange{Start: begin, End: cursor.Pos()}, true
	}
	return model.TokenRange{}, false
}

// HasPrefixFold 按档案大小写规则判断 text 在 pos 处是否以 prefix 开头。
func (s *Scanner) HasPrefixFold(text string, pos int, prefix string) bool {
	if prefix == "" || pos < 0 {
		return false
	}
	return s.matchAt(text, pos, prefix, s.fold(prefix))
}
