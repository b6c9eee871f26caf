package braces

import (
	"strings"

	"codeshape/internal/scanner"
)

// mirror 构建 text[0:closing+1] 的镜像视图：字符顺序反转，括号替换为其镜像。
//
// 反转后单行注释与带转义的字面量无法再被正确识别（注释标记落到了内容之后），
// 所以先在原文方向上把注释与字面量整体替换为空格（保留换行），镜像视图中只剩括号与普通字符。
// 镜像中下标 i 对应原文下标 closing-i。
func (m *Matcher) mirror(text string, closing int) string {
	prefix := text[:closing+1]
	neutral := []byte(prefix)

	cursor := scanner.NewCursor(prefix, 0)
	for !cursor.EOF() {
		end, skipped, _ := m.scanner.SkipAtomic(prefix, cursor.Pos())
		if !skipped {
			cursor.Advance(1)
			continue
		}
		for idx := cursor.Pos(); idx < end; idx++ {
			if neutral[idx] != '\n' {
				neutral[idx] = ' '
			}
		}
		cursor.Seek(end)
	}

	var builder strings.Builder
	builder.Grow(len(neutral))
	for idx := len(neutral) - 1; idx >= 0; idx-- {
		builder.WriteByte(mirrorByte(neutral[idx]))
	}
	return builder.String()
}

// mirrorByte 返回括号的镜像，其他字符原样返回。
func mirrorByte(ch byte) byte {
	if closing := CloseOf(ch); closing != 0 {
		return closing
	}
	if open := OpenOf(ch); open != 0 {
		return open
	}
	return ch
}
