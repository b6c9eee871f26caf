package model

import "fmt"

// TokenRange 表示文本缓冲区中的半开区间 [Start, End)。
//
// 约束：0 <= Start <= End <= len(text)。
// TokenRange 只按偏移量弱引用文本，调用方需要自行保证底层文本在使用期间不变。
type TokenRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// NewRange 创建区间，Start > End 时自动交换。
func NewRange(start, end int) TokenRange {
	if start > end {
		start, end = end, start
	}
	return TokenRange{Start: start, End: end}
}

// Empty 判断区间是否为空。
func (r TokenRange) Empty() bool {
	return r.Start == r.End
}

// Len 返回区间长度。
func (r TokenRange) Len() int {
	return r.End - r.Start
}

// Valid 判断区间能否安全作用在长度为 n 的文本上。
func (r TokenRange) Valid(n int) bool {
	return r.Start >= 0 && r.Start <= r.End && r.End <= n
}

// Contains 判断偏移量是否落在区间内。
func (r TokenRange) Contains(pos int) bool {
	return pos >= r.Start && pos < r.End
}

// Text 返回区间在 text 上对应的子串；区间越界时返回空串。
func (r TokenRange) Text(text string) string {
	if !r.Valid(len(text)) {
		return ""
	}
	return text[r.Start:r.End]
}

func (r TokenRange) String() string {
	return fmt.Sprintf("[%d,%d)", r.Start, r.End)
}
