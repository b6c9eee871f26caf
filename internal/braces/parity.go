package braces

import (
	"codeshape/internal/model"
	"codeshape/internal/scanner"
)

// AnalyzeParity 扫描整段文本，为遇到的每一类括号累计计数。
//
// 常用于大规模重排之前：找出在畸形输入中不可靠（不平衡）的括号种类，
// 以便本次调用把它们排除出参数列表识别。遇到未闭合的注释或字面量时记录诊断并停止扫描。
func (m *Matcher) AnalyzeParity(text string) *model.BraceParityStatus {
	status := &model.BraceParityStatus{}
	status.Clear()

	cursor := scanner.NewCursor(text, 0)
	for !cursor.EOF() {
		if end, skipped, err := m.scanner.SkipAtomic(text, cursor.Pos()); skipped {
			if err != nil {
				status.Addf("%v", err)
				break
			}
			cursor.Seek(end)
			continue
		}

		ch := cursor.Peek()
		switch {
		case m.isOpen(ch):
			status.Record(ch, CloseOf(ch), true)
		case m.isClose(ch):
			status.Record(OpenOf(ch), ch, false)
		}
		cursor.Advance(1)
	}

	status.ReportUnbalanced()
	return status
}

// ReliableKinds 从 kinds 中去掉 status 里不平衡的括号种类。
func ReliableKinds(kinds string, status *model.BraceParityStatus) string {
	result := make([]byte, 0, len(kinds))
	for idx := 0; idx < len(kinds); idx++ {
		counter, seen := status.Counter(kinds[idx])
		if seen && !counter.Balanced() {
			continue
		}
		result = append(result, kinds[idx])
	}
	return string(result)
}
