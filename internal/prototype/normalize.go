package prototype

import (
	"strings"

	"codeshape/internal/languages"
	"codeshape/internal/scanner"
)

// Normalize 把跨行的原型合并为一行。
//
// 字面量与块注释原样保留；连续空白（包括换行与续行标记）合并为一个空格；
// 单行注释改写为块注释。没有块注释形式的语言直接丢弃单行注释，HTML/XML 的注释保持原样。
func Normalize(profile languages.Profile, text string) string {
	s := scanner.New(profile)

	var builder strings.Builder
	builder.Grow(len(text))
	pendingSpace := false

	cursor := scanner.NewCursor(text, 0)
	for !cursor.EOF() {
		pos := cursor.Pos()

		if next, ok := s.LineContinuationEnd(text, pos); ok {
			pendingSpace = true
			cursor.Seek(next)
			continue
		}
		if scanner.IsSpace(cursor.Peek()) {
			pendingSpace = true
			cursor.Advance(1)
			continue
		}

		end, kind, _ := s.Atom(text, pos)
		end = max(end, pos+1)
		chunk := text[pos:end]
		if kind == scanner.AtomComment && isLineComment(profile, chunk) {
			chunk = trailingComment(profile, chunk)
		}
		if chunk == "" {
			pendingSpace = true
			cursor.Seek(end)
			continue
		}

		if pendingSpace && builder.Len() > 0 {
			builder.WriteByte(' ')
		}
		pendingSpace = false
		builder.WriteString(chunk)
		cursor.Seek(end)
	}
	return builder.String()
}

func isLineComment(profile languages.Profile, comment string) bool {
	if profile.HasBlockComment() && strings.HasPrefix(comment, profile.BlockCommentOpen) {
		return false
	}
	return profile.HasLineComment() && strings.HasPrefix(comment, profile.LineComment)
}

// trailingComment 把单行注释改写为可以留在同一行中间的形式。
func trailingComment(profile languages.Profile, comment string) string {
	switch {
	case profile.ID == languages.HTML:
		return comment
	case !profile.HasBlockComment():
		return ""
	}

	body := strings.TrimSpace(strings.TrimPrefix(comment, profile.LineComment))
	body = strings.ReplaceAll(body, profile.BlockCommentClose, "")
	if body == "" {
		return ""
	}
	return profile.BlockCommentOpen + " " + body + " " + profile.BlockCommentClose
}
