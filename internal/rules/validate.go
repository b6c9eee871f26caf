package rules

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidRuleSet 是所有校验错误的哨兵。
var ErrInvalidRuleSet = errors.New("invalid rule set")

// ValidationError 描述一个字段的校验失败。
type ValidationError struct {
	// Field 是出错字段的路径，例如 "operators[2].token"。
	Field string
	// Value 是出错的值。
	Value any
	// Message 描述错误原因。
	Message string
}

// Error 实现 error 接口。
func (e *ValidationError) Error() string {
	var parts []string
	if e.Field != "" {
		parts = append(parts, e.Field)
	}
	if e.Value != nil {
		parts = append(parts, fmt.Sprintf("%v", e.Value))
	}
	parts = append(parts, e.Message)
	return strings.Join(parts, ": ")
}

// Unwrap 使 errors.Is(err, ErrInvalidRuleSet) 成立。
func (e *ValidationError) Unwrap() error {
	return ErrInvalidRuleSet
}

// Validate 检查规则集的一致性，返回全部校验错误的合并结果。
func (rs *RuleSet) Validate() error {
	var errs []error
	add := func(field string, value any, message string) {
		errs = append(errs, &ValidationError{Field: field, Value: value, Message: message})
	}

	for idx, rule := range rs.Braces {
		field := fmt.Sprintf("braces[%d]", idx)
		if len(rule.Open) != 1 || len(rule.Close) != 1 {
			add(field, rule.Open+rule.Close, "open and close must be single characters")
		}
		if !validSpacing(rule.Spacing) {
			add(field+".spacing", rule.Spacing, "must be remove, insert or preserve")
		}
	}

	for idx, rule := range rs.Operators {
		field := fmt.Sprintf("operators[%d]", idx)
		if strings.TrimSpace(rule.Token) == "" {
			add(field+".token", nil, "must not be empty")
		}
		if !validSpacing(rule.Before) {
			add(field+".before", rule.Before, "must be remove, insert or preserve")
		}
		if !validSpacing(rule.After) {
			add(field+".after", rule.After, "must be remove, insert or preserve")
		}
	}

	for idx, separator := range rs.BreakSeparators {
		if strings.TrimSpace(separator) == "" {
			add(fmt.Sprintf("break_separators[%d]", idx), nil, "must not be empty")
		}
	}

	switch rs.Whitespace {
	case WhitespaceCollapse, WhitespacePreserve, WhitespaceMinimal:
	default:
		add("whitespace", rs.Whitespace, "must be collapse, preserve or minimal")
	}

	if rs.TabWidth <= 0 {
		add("tab_width", rs.TabWidth, "must be positive")
	}
	if rs.MaxColumn < 0 {
		add("max_column", rs.MaxColumn, "must not be negative")
	}
	if rs.BlankLinesBetweenBodies < 0 {
		add("blank_lines_between_bodies", rs.BlankLinesBetweenBodies, "must not be negative")
	}
	if strings.Trim(rs.IndentUnit, " \t") != "" {
		add("indent_unit", rs.IndentUnit, "must contain only spaces and tabs")
	}

	return errors.Join(errs...)
}

func validSpacing(policy SpacingPolicy) bool {
	switch policy {
	case SpacingRemove, SpacingInsert, SpacingPreserve:
		return true
	default:
		return false
	}
}
