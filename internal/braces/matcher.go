// Package braces 实现按语言档案工作、感知注释与字面量的括号匹配。
//
// 四种括号：() [] {} <>。尖括号与比较运算符有歧义，因此调用方必须显式给出本次操作
// 认为“有意义”的开括号集合，例如只有在寻找模板参数列表时才把 '<' 当作括号。
package braces

import (
	"errors"
	"fmt"
	"strings"

	"codeshape/internal/languages"
	"codeshape/internal/model"
	"codeshape/internal/scanner"
)

const (
	// DefaultKinds 是默认参与匹配的开括号集合。
	DefaultKinds = "([{"
	// AngleKinds 在默认集合上加入尖括号，用于模板参数列表。
	AngleKinds = "([{<"
	// allOpen/allClose 按下标一一对应。
	allOpen  = "([{<"
	allClose = ")]}>"
)

var (
	// ErrUnbalanced 表示在文本结束前没有找到配对括号。
	ErrUnbalanced = errors.New("unbalanced braces")
	// ErrNotBrace 表示给定位置不是本次匹配关心的括号。
	ErrNotBrace = errors.New("not a brace")
	// ErrNoArgumentList 表示在给定位置之后没有找到任何开括号。
	ErrNoArgumentList = errors.New("no argument list found")
)

// UnbalancedError 携带扫描过程中累计的诊断信息。
type UnbalancedError struct {
	Diagnostics []string
}

// Error 实现 error 接口。
func (e *UnbalancedError) Error() string {
	if len(e.Diagnostics) == 0 {
		return ErrUnbalanced.Error()
	}
	return ErrUnbalanced.Error() + ": " + strings.Join(e.Diagnostics, "; ")
}

// Unwrap 使 errors.Is(err, ErrUnbalanced) 成立。
func (e *UnbalancedError) Unwrap() error {
	return ErrUnbalanced
}

// Matcher 在某个语言档案上查找配对括号。Matcher 不保存扫描状态，可重复使用。
type Matcher struct {
	scanner *scanner.Scanner
	kinds   string
}

// NewMatcher 创建匹配器；kinds 是参与计数的开括号集合，为空时使用 DefaultKinds。
func NewMatcher(profile languages.Profile, kinds string) *Matcher {
	if kinds == "" {
		kinds = DefaultKinds
	}
	return &Matcher{scanner: scanner.New(profile), kinds: kinds}
}

// WithKinds 返回一个使用不同括号集合、其余配置相同的匹配器。
func (m *Matcher) WithKinds(kinds string) *Matcher {
	if kinds == "" {
		kinds = DefaultKinds
	}
	return &Matcher{scanner: m.scanner, kinds: kinds}
}

// Kinds 返回参与计数的开括号集合。
func (m *Matcher) Kinds() string {
	return m.kinds
}

// Scanner 返回底层扫描器。
func (m *Matcher) Scanner() *scanner.Scanner {
	return m.scanner
}

// CloseOf 返回开括号对应的闭括号；不是开括号时返回 0。
func CloseOf(open byte) byte {
	if idx := strings.IndexByte(allOpen, open); idx >= 0 {
		return allClose[idx]
	}
	return 0
}

// OpenOf 返回闭括号对应的开括号；不是闭括号时返回 0。
func OpenOf(closing byte) byte {
	if idx := strings.IndexByte(allClose, closing); idx >= 0 {
		return allOpen[idx]
	}
	return 0
}

func (m *Matcher) isOpen(ch byte) bool {
	return ch != 0 && strings.IndexByte(m.kinds, ch) >= 0
}

func (m *Matcher) isClose(ch byte) bool {
	open := OpenOf(ch)
	return open != 0 && m.isOpen(open)
}

// FindMatchingClose 从 open 处的开括号向前扫描，返回与之配对的闭括号位置。
//
// 每遇到一个括号就更新对应种类的计数器；当目标种类的计数器恰好在其闭括号处回到 0 时停止。
// 注释与字面量整体跳过；遇到未闭合结构或文本结束时返回 *UnbalancedError。
func (m *Matcher) FindMatchingClose(text string, open int) (int, error) {
	if open < 0 || open >= len(text) || !m.isOpen(text[open]) {
		return -1, fmt.Errorf("%w at offset %d", ErrNotBrace, open)
	}
	target := text[open]

	var status model.BraceParityStatus
	cursor := scanner.NewCursor(text, open)
	for !cursor.EOF() {
		if end, skipped, err := m.scanner.SkipAtomic(text, cursor.Pos()); skipped {
			if err != nil {
				status.Addf("%v", err)
				return -1, &UnbalancedError{Diagnostics: status.Messages}
			}
			cursor.Seek(end)
			continue
		}

		ch := cursor.Peek()
		switch {
		case m.isOpen(ch):
			status.Record(ch, CloseOf(ch), true)
		case m.isClose(ch):
			opening := OpenOf(ch)
			count := status.Record(opening, ch, false)
			if opening == target && count == 0 {
				return cursor.Pos(), nil
			}
		}
		cursor.Advance(1)
	}

	status.ReportUnbalanced()
	return -1, &UnbalancedError{Diagnostics: status.Messages}
}

// FindMatchingOpen 返回与 closing 处闭括号配对的开括号位置。
//
// 实现方式：取 [0, closing] 的镜像视图（反转字符顺序并把每个括号换成其镜像），
// 在镜像上调用 FindMatchingClose，再把结果换算回原文偏移。这样正反两个方向共用同一套前向算法。
func (m *Matcher) FindMatchingOpen(text string, closing int) (int, error) {
	if closing < 0 || closing >= len(text) || !m.isClose(text[closing]) {
		return -1, fmt.Errorf("%w at offset %d", ErrNotBrace, closing)
	}

	view := m.mirror(text, closing)
	found, err := m.FindMatchingClose(view, 0)
	if err != nil {
		return -1, err
	}
	return closing - found, nil
}

// FindArgumentList 查找 from 之后第一个属于 openKinds 的开括号，并返回包含两侧括号的区间。
// 未配对时，若 allowUnclosed 为 true 则返回延伸到文本末尾的区间，否则返回错误。
func (m *Matcher) FindArgumentList(text string, from int, openKinds string, allowUnclosed bool) (model.TokenRange, error) {
	if openKinds == "" {
		openKinds = m.kinds
	}
	open := m.scanner.FindOneOf(text, openKinds, from)
	if open < 0 {
		return model.TokenRange{}, ErrNoArgumentList
	}

	matcher := m.WithKinds(unionKinds(m.kinds, openKinds))
	closing, err := matcher.FindMatchingClose(text, open)
	if err != nil {
		if allowUnclosed {
			return model.TokenRange{Start: open, End: len(text)}, nil
		}
		return model.TokenRange{}, err
	}
	return model.TokenRange{Start: open, End: closing + 1}, nil
}

// unionKinds 合并两个开括号集合并去重。
func unionKinds(a, b string) string {
	result := []byte(a)
	for idx := 0; idx < len(b); idx++ {
		if strings.IndexByte(string(result), b[idx]) < 0 {
			result = append(result, b[idx])
		}
	}
	return string(result)
}
