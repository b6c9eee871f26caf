package scanner

import "strings"

// Cursor 是文本上的只读游标，所有移动操作都做边界检查。
// 越界读取返回 0 而不是 panic，调用方据此判断是否到达文本两端。
type Cursor struct {
	text string
	pos  int
}

// NewCursor 创建游标，pos 会被限制在 [0, len(text)] 内。
func NewCursor(text string, pos int) *Cursor {
	c := &Cursor{text: text}
	c.Seek(pos)
	return c
}

// Text 返回游标所在的完整文本。
func (c *Cursor) Text() string {
	return c.text
}

// Pos 返回当前偏移量。
func (c *Cursor) Pos() int {
	return c.pos
}

// EOF 判断是否到达文本末尾。
func (c *Cursor) EOF() bool {
	return c.pos >= len(c.text)
}

// Peek 返回当前字节，EOF 时返回 0。
func (c *Cursor) Peek() byte {
	return c.PeekAt(0)
}

// PeekAt 返回相对当前位置 offset 处的字节（offset 可以为负），越界返回 0。
func (c *Cursor) PeekAt(offset int) byte {
	idx := c.pos + offset
	if idx < 0 || idx >= len(c.text) {
		return 0
	}
	return c.text[idx]
}

// Advance 前进 n 个字节（n 可以为负），结果被限制在文本范围内。
func (c *Cursor) Advance(n int) {
	c.Seek(c.pos + n)
}

// Seek 跳到绝对位置，结果被限制在文本范围内。
func (c *Cursor) Seek(pos int) {
	switch {
	case pos < 0:
		c.pos = 0
	case pos > len(c.text):
		c.pos = len(c.text)
	default:
		c.pos = pos
	}
}

// HasPrefix 判断当前位置是否以 s 开头。
func (c *Cursor) HasPrefix(s string) bool {
	return strings.HasPrefix(c.text[c.pos:], s)
}

// Rest 返回从当前位置到末尾的文本。
func (c *Cursor) Rest() string {
	return c.text[c.pos:]
}

// SkipBlanks 跳过空格与制表符（不跨行）。
func (c *Cursor) SkipBlanks() {
	for !c.EOF() && IsBlank(c.Peek()) {
		c.pos++
	}
}

// IsBlank 判断是否为行内空白（空格或制表符）。
func IsBlank(ch byte) bool {
	return ch == ' ' || ch == '\t'
}

// IsLineBreak 判断是否为行终止符。
func IsLineBreak(ch byte) bool {
	return ch == '\n' || ch == '\r'
}

// IsSpace 判断是否为任意 ASCII 空白。
func IsSpace(ch byte) bool {
	return IsBlank(ch) || IsLineBreak(ch) || ch == '\v' || ch == '\f'
}

// IsIdent 判断字节能否出现在标识符中；非 ASCII 字节一律视为标识符的一部分。
func IsIdent(ch byte) bool {
	return ch == '_' || ch >= 0x80 ||
		(ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || IsDigit(ch)
}

// IsDigit 判断是否为十进制数字。
func IsDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return IsDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}
