package model

import "fmt"

// BraceCounter 记录某一种括号的计数。
//
// 第一次见到开括号时置为 +1，第一次见到闭括号时置为 -1（“先闭后开”保留为负数，便于诊断），
// 此后开括号 +1、闭括号 -1。Count == 0 表示该类括号平衡。
type BraceCounter struct {
	Open  byte `json:"open"`
	Close byte `json:"close"`
	Count int  `json:"count"`
}

// Balanced 判断该类括号是否平衡。
func (c BraceCounter) Balanced() bool {
	return c.Count == 0
}

// Kind 返回括号对的可读形式，例如 "()"。
func (c BraceCounter) Kind() string {
	return string([]byte{c.Open, c.Close})
}

// BraceParityStatus 是一次扫描过程中的括号计数器集合与诊断信息。
// 它是单次调用的临时状态，不能在独立的扫描之间共享。
type BraceParityStatus struct {
	Counters []BraceCounter `json:"counters"`
	Messages []string       `json:"messages"`
}

// Clear 在新一轮扫描前重置全部状态。
func (s *BraceParityStatus) Clear() {
	s.Counters = s.Counters[:0]
	s.Messages = s.Messages[:0]
}

// Record 记录一次括号出现，返回该类括号更新后的计数。
func (s *BraceParityStatus) Record(open, closing byte, isOpen bool) int {
	delta := -1
	if isOpen {
		delta = 1
	}
	for idx := range s.Counters {
		if s.Counters[idx].Open == open {
			s.Counters[idx].Count += delta
			return s.Counters[idx].Count
		}
	}
	// 首次出现：直接以 +1/-1 作为种子。
	s.Counters = append(s.Counters, BraceCounter{Open: open, Close: closing, Count: delta})
	return delta
}

// Counter 查找某类括号的计数器。
func (s *BraceParityStatus) Counter(open byte) (BraceCounter, bool) {
	for _, counter := range s.Counters {
		if counter.Open == open {
			return counter, true
		}
	}
	return BraceCounter{}, false
}

// IsEntirelyEven 当且仅当每一类括号都平衡时返回 true。
func (s *BraceParityStatus) IsEntirelyEven() bool {
	for _, counter := range s.Counters {
		if !counter.Balanced() {
			return false
		}
	}
	return true
}

// Unbalanced 返回所有不平衡的括号计数器。
func (s *BraceParityStatus) Unbalanced() []BraceCounter {
	var result []BraceCounter
	for _, counter := range s.Counters {
		if !counter.Balanced() {
			result = append(result, counter)
		}
	}
	return result
}

// Addf 追加一条诊断信息。
func (s *BraceParityStatus) Addf(format string, args ...any) {
	s.Messages = append(s.Messages, fmt.Sprintf(format, args...))
}

// ReportUnbalanced 为每一类仍未平衡的括号生成一条诊断。
func (s *BraceParityStatus) ReportUnbalanced() {
	for _, counter := range s.Unbalanced() {
		if counter.Count > 0 {
			s.Addf("%d unmatched %q in %s", counter.Count, counter.Open, counter.Kind())
			continue
		}
		s.Addf("%d unmatched %q in %s", -counter.Count, counter.Close, counter.Kind())
	}
}
