package format

import (
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// advanceColumn 返回从 col 列开始输出 s 之后所在的可视列。
// 制表符跳到下一个制表位，宽字符按 runewidth 计算，换行把列归零。
func advanceColumn(col int, s string, tabWidth int) int {
	if tabWidth <= 0 {
		tabWidth = 1
	}
	for idx := 0; idx < len(s); {
		ch := s[idx]
		switch {
		case ch == '\t':
			col += tabWidth - col%tabWidth
			idx++
		case ch == '\n' || ch == '\r':
			col = 0
			idx++
		case ch < utf8.RuneSelf:
			col++
			idx++
		default:
			r, size := utf8.DecodeRuneInString(s[idx:])
			col += runewidth.RuneWidth(r)
			idx += size
		}
	}
	return col
}

// VisualWidth 返回单行文本的可视宽度。
func VisualWidth(s string, tabWidth int) int {
	return advanceColumn(0, s, tabWidth)
}
