package scanner

import (
	"strings"

	"codeshape/internal/model"
)

// lineState 记录当前行是否出现过代码或注释。
type lineState struct {
	start      int
	hasCode    bool
	hasComment bool
}

// ClassifyLines 统计文本的 total/code/comment/blank 行数。
//
// 注释和字面量通过 Atom 整体识别：跨行的块注释会把经过的每一行都标记为注释行，
// 跨行的字面量则标记为代码行。未闭合结构一直延伸到文本末尾。
func (s *Scanner) ClassifyLines(text string) model.LineMetrics {
	var metrics model.LineMetrics
	state := lineState{}

	finish := func(end int) {
		applyLineClassification(&metrics, normalizeLine(text[state.start:end]), state.hasCode, state.hasComment)
	}

	cursor := NewCursor(text, 0)
	for !cursor.EOF() {
		ch := cursor.Peek()
		if ch == '\n' {
			finish(cursor.Pos())
			cursor.Advance(1)
			state = lineState{start: cursor.Pos()}
			continue
		}
		if IsSpace(ch) {
			cursor.Advance(1)
			continue
		}

		end, kind, _ := s.Atom(text, cursor.Pos())
		if kind == AtomNone {
			state.hasCode = true
			cursor.Advance(1)
			continue
		}

		// 结构内部的每个换行都结束一行，后续行继承同样的分类。
		isComment := kind == AtomComment
		for pos := cursor.Pos(); pos < end; pos++ {
			if isComment {
				state.hasComment = true
			} else {
				state.hasCode = true
			}
			if text[pos] == '\n' {
				finish(pos)
				state = lineState{start: pos + 1}
			}
		}
		cursor.Seek(end)
	}

	if state.start < len(text) {
		finish(len(text))
	}
	return metrics
}

// normalizeLine 用于去除每行末尾的换行符。
// 该函数适配 Windows 的 \r\n 与 Unix 的 \n。
func normalizeLine(line string) string {
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line
}

// applyLineClassification 根据扫描结果更新统计值。
//
// 约束说明：
// - 每次调用都默认是“处理完一整行”，因此 Total 固定 +1
// - 同一行可以同时具备 code/comment，两者独立累计
// - 空白行判定要求：去掉空白字符后为空，且没有 code/comment 标记
func applyLineClassification(metrics *model.LineMetrics, line string, hasCode bool, hasComment bool) {
	metrics.Total++

	if strings.TrimSpace(line) == "" && !hasCode && !hasComment {
		metrics.Blank++
		return
	}

	if hasCode {
		metrics.Code++
	}

	if hasComment {
		metrics.Comment++
	}

	if !hasCode && !hasComment {
		metrics.Blank++
	}
}
