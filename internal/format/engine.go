// Package format 是重排引擎：在语言档案与规则集之上实现代码格式化、参数列表断行、
// 注释切换、方法实现生成、连续编号与自然排序。
//
// Engine 本身只持有只读配置；每次调用的临时状态（括号奇偶、抑制深度、诊断）都保存在
// 调用内部的值中，因此同一个 Engine 可以被多个 goroutine 同时使用。
package format

import (
	"errors"
	"strings"

	"github.com/charmbracelet/log"

	"codeshape/internal/braces"
	"codeshape/internal/languages"
	"codeshape/internal/logging"
	"codeshape/internal/model"
	"codeshape/internal/prototype"
	"codeshape/internal/rules"
	"codeshape/internal/scanner"
)

var (
	// ErrTooFewLines 表示操作需要至少两行非空文本。
	ErrTooFewLines = errors.New("at least two non-blank lines are required")
	// ErrEmptySelection 表示输入为空或只有空白。
	ErrEmptySelection = errors.New("empty selection")
	// ErrNoNumber 表示第一行中没有可作为起点的数字。
	ErrNoNumber = errors.New("first line contains no number")
	// ErrCancelled 表示外部回调放弃了操作。调用方应当静默处理，而不是报告失败。
	ErrCancelled = errors.New("cancelled")
	// ErrNoPrototype 表示输入中没有可以实现的方法原型。
	ErrNoPrototype = errors.New("no method prototype found")
	// ErrNoTypeQualifier 表示无法得到类型限定，且没有可供选择的候选。
	ErrNoTypeQualifier = errors.New("no type qualifier available")
	// ErrNoCommentSyntax 表示语言档案缺少操作所需的注释形式。
	ErrNoCommentSyntax = errors.New("language has no suitable comment syntax")
	// ErrNotBlockComment 表示选区不是一个完整的块注释。
	ErrNotBlockComment = errors.New("selection is not a block comment")
)

// Engine 是绑定了语言档案与规则集的格式化引擎。
type Engine struct {
	profile    languages.Profile
	rules      *rules.RuleSet
	scanner    *scanner.Scanner
	matcher    *braces.Matcher
	decomposer *prototype.Decomposer
	logger     *log.Logger
}

// NewEngine 创建引擎。rs 为 nil 时使用默认规则集，logger 为 nil 时使用默认日志器。
func NewEngine(profile languages.Profile, rs *rules.RuleSet, logger *log.Logger) *Engine {
	if rs == nil {
		rs = rules.Default()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Engine{
		profile:    profile,
		rules:      rs,
		scanner:    scanner.New(profile),
		matcher:    braces.NewMatcher(profile, braces.DefaultKinds),
		decomposer: prototype.New(profile),
		logger:     logger,
	}
}

// Profile 返回引擎使用的语言档案。
func (e *Engine) Profile() languages.Profile {
	return e.profile
}

// Rules 返回引擎使用的规则集。调用期间不得修改。
func (e *Engine) Rules() *rules.RuleSet {
	return e.rules
}

// DecomposeMethodSignature 先合并多行原型，再分解为各个部分。
func (e *Engine) DecomposeMethodSignature(signature string) (*model.MethodSignature, error) {
	return e.decomposer.Decompose(prototype.Normalize(e.profile, signature))
}

// NormalizeSignature 把多行原型合并为一行。
func (e *Engine) NormalizeSignature(text string) (model.Result, error) {
	if isBlank(text) {
		return model.Result{}, ErrEmptySelection
	}
	return model.Result{Text: prototype.Normalize(e.profile, text)}, nil
}

// AnalyzeParity 统计 text 中所有括号种类（含尖括号）的奇偶状态。
func (e *Engine) AnalyzeParity(text string) *model.BraceParityStatus {
	return e.matcher.WithKinds(braces.AngleKinds).AnalyzeParity(text)
}

// ClassifyLines 统计代码行、注释行与空行。
func (e *Engine) ClassifyLines(text string) model.LineMetrics {
	return e.scanner.ClassifyLines(text)
}

// reliableArgumentKinds 返回本次调用中可靠的参数列表括号集合，
// 不平衡的种类被剔除并记入诊断。
func (e *Engine) reliableArgumentKinds(text string, diagnostics *[]string) string {
	kinds := e.rules.ArgumentListKinds()
	if kinds == "" {
		return ""
	}

	status := e.matcher.WithKinds(kinds).AnalyzeParity(text)
	reliable := braces.ReliableKinds(kinds, status)
	if reliable != kinds || len(status.Messages) > 0 {
		*diagnostics = append(*diagnostics, status.Messages...)
		e.logger.Debug("demoted unbalanced brace kinds",
			logging.FieldBraceKinds, kinds,
			logging.FieldDemoted, demotedKinds(kinds, reliable),
			logging.FieldLanguage, e.profile.Name,
		)
	}
	return reliable
}

func demotedKinds(all, reliable string) string {
	var demoted []byte
	for idx := 0; idx < len(all); idx++ {
		if strings.IndexByte(reliable, all[idx]) < 0 {
			demoted = append(demoted, all[idx])
		}
	}
	return string(demoted)
}

func isBlank(text string) bool {
	for idx := 0; idx < len(text); idx++ {
		if !scanner.IsSpace(text[idx]) {
			return false
		}
	}
	return true
}
