// Package prototype 把单行的类 C++ 方法原型分解为各个语法部分。
//
// 分解只依赖词法信息：先定位参数列表，再从参数列表向前推导名字、返回类型、
// 模板声明与 inline 修饰。除参数列表外的每一步都是尽力而为，找不到时给出空区间。
package prototype

import (
	"errors"
	"fmt"
	"strings"

	"codeshape/internal/braces"
	"codeshape/internal/languages"
	"codeshape/internal/model"
	"codeshape/internal/scanner"
)

// ErrMalformedPrototype 表示原型中找不到可用的参数列表。
var ErrMalformedPrototype = errors.New("malformed prototype")

const (
	keywordTemplate = "template"
	keywordInline   = "inline"
	keywordOperator = "operator"
)

// Decomposer 在某个语言档案上分解方法原型。
type Decomposer struct {
	profile languages.Profile
	scanner *scanner.Scanner
	parens  *braces.Matcher
	angles  *braces.Matcher
}

// New 创建分解器。
func New(profile languages.Profile) *Decomposer {
	return &Decomposer{
		profile: profile,
		scanner: scanner.New(profile),
		parens:  braces.NewMatcher(profile, "(["),
		angles:  braces.NewMatcher(profile, "<"),
	}
}

// Decompose 是 New(profile).Decompose(signature) 的简写。
func Decompose(profile languages.Profile, signature string) (*model.MethodSignature, error) {
	return New(profile).Decompose(signature)
}

// Decompose 分解一个原型。signature 通常已经由 Normalize 合并为一行；
// 开头的 template<...> 允许位于单独的一行。
func (d *Decomposer) Decompose(signature string) (*model.MethodSignature, error) {
	result := &model.MethodSignature{Text: signature}

	args, err := d.argumentList(signature)
	if err != nil {
		return nil, err
	}
	result.ArgumentList = args
	result.TrailingSuffix = model.TokenRange{Start: args.End, End: scanner.LineEnd(signature, args.End)}

	nameStart, nameEnd, operatorAt := d.nameBounds(signature, args.Start)
	result.QualifiedName = model.TokenRange{Start: nameStart, End: nameEnd}

	qualifierEnd := d.qualifierEnd(signature, nameStart, nameEnd, operatorAt)
	result.TypeQualifier = model.TokenRange{Start: nameStart, End: qualifierEnd}
	result.BareName = model.TokenRange{Start: qualifierEnd, End: nameEnd}

	returnStart := 0
	if tmpl, ok := d.templateDecl(signature, returnStart, nameStart); ok {
		result.TemplateDecl = tmpl
		returnStart = tmpl.End
	}
	if inline, ok := d.inlineModifier(signature, returnStart, nameStart); ok {
		result.InlineModifier = inline
		returnStart = inline.End
	}
	result.ReturnType = trimRange(signature, model.TokenRange{Start: returnStart, End: nameStart})

	return result, nil
}

// argumentList 定位参数列表；紧跟着另一个 '(' 时（operator()(...)）以后者为准。
func (d *Decomposer) argumentList(signature string) (model.TokenRange, error) {
	from := 0
	if tmpl, ok := d.templateDecl(signature, 0, len(signature)); ok {
		from = tmpl.End
	}

	args, err := d.parens.FindArgumentList(signature, from, "(", false)
	if err != nil {
		return model.TokenRange{}, fmt.Errorf("%w: %q: %w", ErrMalformedPrototype, signature, err)
	}

	if args.End < len(signature) && signature[args.End] == '(' {
		closing, err := d.parens.FindMatchingClose(signature, args.End)
		if err != nil {
			return model.TokenRange{}, fmt.Errorf("%w: %q: %w", ErrMalformedPrototype, signature, err)
		}
		args = model.TokenRange{Start: args.End, End: closing + 1}
	}
	return args, nil
}

// nameBounds 从参数列表开头向前推导名字的区间。
// 返回值 operatorAt 是名字中 operator 关键字的位置，没有时为 -1。
func (d *Decomposer) nameBounds(signature string, argsStart int) (int, int, int) {
	end := argsStart
	for end > 0 && scanner.IsSpace(signature[end-1]) {
		end--
	}

	start := d.walkBack(signature, end)

	operatorAt := -1
	if found, ok := d.lastWordBefore(signature, keywordOperator, argsStart); ok && found.Start < start {
		operatorAt = found.Start
		start = d.walkBack(signature, found.Start)
	} else if ok {
		operatorAt = found.Start
	}
	return start, end, operatorAt
}

// walkBack 从 pos 向前扩展，直到遇到空白或文本开头。
// 闭合的尖括号、圆括号与方括号整体跳过，Foo<A, B> 这样的模板实参被视为一个整体。
func (d *Decomposer) walkBack(signature string, pos int) int {
	for pos > 0 {
		ch := signature[pos-1]
		if scanner.IsSpace(ch) {
			break
		}

		var matcher *braces.Matcher
		switch ch {
		case '>':
			matcher = d.angles
		case ')', ']':
			matcher = d.parens
		}
		if matcher != nil {
			open, err := matcher.FindMatchingOpen(signature, pos-1)
			if err == nil {
				pos = open
				continue
			}
		}
		pos--
	}
	return pos
}

// lastWordBefore 返回 limit 之前最后一次完整出现的 word。
func (d *Decomposer) lastWordBefore(signature, word string, limit int) (model.TokenRange, bool) {
	var last model.TokenRange
	found := false
	for pos := 0; pos < limit; {
		match, ok := d.scanner.FindWord(signature, word, pos)
		if !ok || match.End > limit {
			break
		}
		last, found = match, true
		pos = match.End
	}
	return last, found
}

// qualifierEnd 返回类型限定部分的结束位置（含最后一个作用域分隔符）。
// 模板实参内部的分隔符与 operator 之后的转换类型不参与判断。
func (d *Decomposer) qualifierEnd(signature string, start, end, operatorAt int) int {
	separator := d.profile.ScopeSeparator
	if separator == "" {
		return start
	}
	limit := end
	if operatorAt >= start && operatorAt < end {
		limit = operatorAt
	}

	qualifier := start
	depth := 0
	for pos := start; pos < limit; pos++ {
		switch signature[pos] {
		case '<':
			depth++
		case '>':
			depth--
		default:
			if depth == 0 && strings.HasPrefix(signature[pos:limit], separator) {
				qualifier = pos + len(separator)
				pos += len(separator) - 1
			}
		}
	}
	return qualifier
}

// templateDecl 识别 [from, limit) 开头的 template<...>。
func (d *Decomposer) templateDecl(signature string, from, limit int) (model.TokenRange, bool) {
	start := skipSpace(signature, from, limit)
	if !d.hasWordAt(signature, start, keywordTemplate) {
		return model.TokenRange{}, false
	}

	open := skipSpace(signature, start+len(keywordTemplate), limit)
	if open >= limit || signature[open] != '<' {
		return model.TokenRange{}, false
	}
	closing, err := d.angles.FindMatchingClose(signature, open)
	if err != nil || closing >= limit {
		return model.TokenRange{}, false
	}
	return model.TokenRange{Start: start, End: closing + 1}, true
}

// inlineModifier 识别 [from, limit) 开头的 inline 关键字。
func (d *Decomposer) inlineModifier(signature string, from, limit int) (model.TokenRange, bool) {
	start := skipSpace(signature, from, limit)
	if !d.hasWordAt(signature, start, keywordInline) || start+len(keywordInline) > limit {
		return model.TokenRange{}, false
	}
	return model.TokenRange{Start: start, End: start + len(keywordInline)}, true
}

func (d *Decomposer) hasWordAt(text string, pos int, word string) bool {
	if !d.scanner.HasPrefixFold(text, pos, word) {
		return false
	}
	end := pos + len(word)
	return end >= len(text) || !scanner.IsIdent(text[end])
}

func skipSpace(text string, pos, limit int) int {
	for pos < limit && pos < len(text) && scanner.IsSpace(text[pos]) {
		pos++
	}
	return pos
}

// trimRange 去掉区间两端的空白。
func trimRange(text string, r model.TokenRange) model.TokenRange {
	for r.Start < r.End && scanner.IsSpace(text[r.Start]) {
		r.Start++
	}
	for r.End > r.Start && scanner.IsSpace(text[r.End-1]) {
		r.End--
	}
	return r
}
