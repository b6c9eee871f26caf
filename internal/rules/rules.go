// Package rules 定义格式化引擎使用的规则集。
//
// RuleSet 在一次调用期间只读；需要临时覆盖时先 Clone 再修改。
package rules

import (
	"slices"
	"strings"
)

// SpacingPolicy 描述某个位置上的空格策略。
type SpacingPolicy string

const (
	// SpacingRemove 删除该位置的空白。
	SpacingRemove SpacingPolicy = "remove"
	// SpacingInsert 保证该位置恰好有一个空格。
	SpacingInsert SpacingPolicy = "insert"
	// SpacingPreserve 保持原样。
	SpacingPreserve SpacingPolicy = "preserve"
)

// WhitespacePolicy 描述普通空白串的处理方式。
type WhitespacePolicy string

const (
	// WhitespaceCollapse 把连续空白合并为一个空格。
	WhitespaceCollapse WhitespacePolicy = "collapse"
	// WhitespacePreserve 保留原有空白串。
	WhitespacePreserve WhitespacePolicy = "preserve"
	// WhitespaceMinimal 只在两个标识符字符之间保留一个空格，其余全部删除。
	WhitespaceMinimal WhitespacePolicy = "minimal"
)

// 方法体模板中可用的占位符。
const (
	PlaceholderReturnType    = "%RETURN_TYPE%"
	PlaceholderName          = "%NAME%"
	PlaceholderType          = "%TYPE%"
	PlaceholderQualifiedName = "%QUALIFIED_NAME%"
	PlaceholderIndent        = "%INDENT%"
)

// BraceRule 是一类括号的空格规则。Spacing 作用于括号内侧。
type BraceRule struct {
	Open         string        `yaml:"open" json:"open"`
	Close        string        `yaml:"close" json:"close"`
	Spacing      SpacingPolicy `yaml:"spacing" json:"spacing"`
	ArgumentList bool          `yaml:"argument_list" json:"argument_list"`
}

// OperatorRule 是一个运算符记号两侧的空格规则。
type OperatorRule struct {
	Token  string        `yaml:"token" json:"token"`
	Before SpacingPolicy `yaml:"before" json:"before"`
	After  SpacingPolicy `yaml:"after" json:"after"`
}

// RuleSet 是格式化规则的完整集合。
type RuleSet struct {
	Braces                      []BraceRule      `yaml:"braces" json:"braces"`
	Operators                   []OperatorRule   `yaml:"operators" json:"operators"`
	BreakSeparators             []string         `yaml:"break_separators" json:"break_separators"`
	Whitespace                  WhitespacePolicy `yaml:"whitespace" json:"whitespace"`
	DeleteTrailingWhitespace    bool             `yaml:"delete_trailing_whitespace" json:"delete_trailing_whitespace"`
	CommentOutDefaultParameters bool             `yaml:"comment_out_default_parameters" json:"comment_out_default_parameters"`
	BlankLinesBetweenBodies     int              `yaml:"blank_lines_between_bodies" json:"blank_lines_between_bodies"`
	ReturnTypeOnOwnLine         bool             `yaml:"return_type_on_own_line" json:"return_type_on_own_line"`
	TabWidth                    int              `yaml:"tab_width" json:"tab_width"`
	MaxColumn                   int              `yaml:"max_column" json:"max_column"`
	IndentUnit                  string           `yaml:"indent_unit" json:"indent_unit"`
	WideStringWrappers          []string         `yaml:"wide_string_wrappers" json:"wide_string_wrappers"`
	DeclarationKeywords         []string         `yaml:"declaration_keywords" json:"declaration_keywords"`
	VoidBody                    string           `yaml:"void_body" json:"void_body"`
	ReturningBody               string           `yaml:"returning_body" json:"returning_body"`
}

// Default 返回内置的默认规则集。每次调用返回新的实例。
func Default() *RuleSet {
	rs := &RuleSet{
		Braces: []BraceRule{
			{Open: "(", Close: ")", Spacing: SpacingRemove, ArgumentList: true},
			{Open: "[", Close: "]", Spacing: SpacingRemove, ArgumentList: true},
			{Open: "{", Close: "}", Spacing: SpacingPreserve},
			{Open: "<", Close: ">", Spacing: SpacingRemove},
		},
		Operators: []OperatorRule{
			{Token: ",", Before: SpacingRemove, After: SpacingInsert},
			{Token: "=", Before: SpacingInsert, After: SpacingInsert},
			{Token: "==", Before: SpacingInsert, After: SpacingInsert},
			{Token: "!=", Before: SpacingInsert, After: SpacingInsert},
			{Token: "<=", Before: SpacingInsert, After: SpacingInsert},
			{Token: ">=", Before: SpacingInsert, After: SpacingInsert},
			{Token: "&&", Before: SpacingInsert, After: SpacingInsert},
			{Token: "||", Before: SpacingInsert, After: SpacingInsert},
			{Token: "+=", Before: SpacingInsert, After: SpacingInsert},
			{Token: "-=", Before: SpacingInsert, After: SpacingInsert},
			{Token: "*=", Before: SpacingInsert, After: SpacingInsert},
			{Token: "/=", Before: SpacingInsert, After: SpacingInsert},
			{Token: "%=", Before: SpacingInsert, After: SpacingInsert},
			{Token: "|=", Before: SpacingInsert, After: SpacingInsert},
			{Token: "&=", Before: SpacingInsert, After: SpacingInsert},
			{Token: "^=", Before: SpacingInsert, After: SpacingInsert},
			{Token: "<<=", Before: SpacingInsert, After: SpacingInsert},
			{Token: ">>=", Before: SpacingInsert, After: SpacingInsert},
		},
		BreakSeparators:             []string{",", ";", "&&", "||"},
		Whitespace:                  WhitespaceCollapse,
		DeleteTrailingWhitespace:    true,
		CommentOutDefaultParameters: true,
		BlankLinesBetweenBodies:     1,
		TabWidth:                    4,
		MaxColumn:                   80,
		IndentUnit:                  "    ",
		WideStringWrappers:          []string{"_T", "_TEXT", "TEXT"},
		DeclarationKeywords:         []string{"virtual", "static", "explicit", "friend", "override", "final"},
		VoidBody:                    "{\n}",
		ReturningBody:               "{\n" + PlaceholderIndent + "return {};\n}",
	}
	rs.normalize()
	return rs
}

// normalize 把运算符按记号长度降序排列，保证最长匹配优先。
func (rs *RuleSet) normalize() {
	slices.SortStableFunc(rs.Operators, func(a, b OperatorRule) int {
		return len(b.Token) - len(a.Token)
	})
}

// Clone 返回深拷贝。
func (rs *RuleSet) Clone() *RuleSet {
	if rs == nil {
		return nil
	}
	clone := *rs
	clone.Braces = slices.Clone(rs.Braces)
	clone.Operators = slices.Clone(rs.Operators)
	clone.BreakSeparators = slices.Clone(rs.BreakSeparators)
	clone.WideStringWrappers = slices.Clone(rs.WideStringWrappers)
	clone.DeclarationKeywords = slices.Clone(rs.DeclarationKeywords)
	return &clone
}

// BraceFor 查找开括号或闭括号所属的规则。
func (rs *RuleSet) BraceFor(ch byte) (BraceRule, bool) {
	for _, rule := range rs.Braces {
		if len(rule.Open) == 1 && rule.Open[0] == ch || len(rule.Close) == 1 && rule.Close[0] == ch {
			return rule, true
		}
	}
	return BraceRule{}, false
}

// ArgumentListKinds 返回被视为参数列表括号的开括号集合。
func (rs *RuleSet) ArgumentListKinds() string {
	var builder strings.Builder
	for _, rule := range rs.Braces {
		if rule.ArgumentList && len(rule.Open) == 1 {
			builder.WriteString(rule.Open)
		}
	}
	return builder.String()
}

// OperatorAt 返回 text 在 pos 处匹配到的最长运算符规则。
// 不依赖 Operators 的排列顺序，调用方自行构造或修改的规则集同样适用。
func (rs *RuleSet) OperatorAt(text string, pos int) (OperatorRule, bool) {
	var best OperatorRule
	for _, rule := range rs.Operators {
		if len(rule.Token) > len(best.Token) && strings.HasPrefix(text[pos:], rule.Token) {
			best = rule
		}
	}
	return best, best.Token != ""
}

// BreakSeparatorAt 返回 text 在 pos 处匹配到的最长断行分隔符。
func (rs *RuleSet) BreakSeparatorAt(text string, pos int) (string, bool) {
	best := ""
	for _, separator := range rs.BreakSeparators {
		if len(separator) > len(best) && strings.HasPrefix(text[pos:], separator) {
			best = separator
		}
	}
	return best, best != ""
}

// Body 返回对应的方法体模板。
func (rs *RuleSet) Body(returnsValue bool) string {
	if returnsValue {
		return rs.ReturningBody
	}
	return rs.VoidBody
}
