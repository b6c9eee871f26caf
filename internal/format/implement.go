package format

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-enry/go-enry/v2"

	"codeshape/internal/logging"
	"codeshape/internal/model"
	"codeshape/internal/rules"
	"codeshape/internal/scanner"
)

// Chooser 由宿主提供，在多个候选类型限定中选择一个。
// 返回空字符串表示用户放弃。
type Chooser func(ctx context.Context, candidates []string) (string, error)

var accessLabels = []string{"public", "protected", "private"}

// ExtractTypeDescriptor 返回方法原型的类型限定（如 "Widget::"）。
//
// 原型本身带限定时直接使用；否则按 fileHint 的文件名生成候选交给 chooser 选择，
// chooser 为 nil 时取第一个候选。放弃选择返回 ErrCancelled，调用方应静默处理。
func (e *Engine) ExtractTypeDescriptor(ctx context.Context, signature, fileHint string, chooser Chooser) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrCancelled, err)
	}
	separator := e.profile.ScopeSeparator
	if separator == "" {
		return "", fmt.Errorf("%w: %s has no scope separator", ErrNoTypeQualifier, e.profile.Name)
	}

	if !isBlank(signature) {
		decomposed, err := e.DecomposeMethodSignature(signature)
		if err == nil {
			if qualifier := decomposed.Part(decomposed.TypeQualifier); qualifier != "" {
				return qualifier, nil
			}
		} else {
			e.logger.Debug("signature has no usable qualifier", logging.FieldError, err)
		}
	}

	candidates := typeCandidates(fileHint, separator)
	if len(candidates) == 0 {
		return "", ErrNoTypeQualifier
	}
	if chooser == nil {
		return candidates[0], nil
	}

	choice, err := chooser(ctx, candidates)
	if err != nil {
		if errors.Is(err, ErrCancelled) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: %w", ErrCancelled, err)
		}
		return "", fmt.Errorf("choose type qualifier: %w", err)
	}
	choice = strings.TrimSpace(choice)
	if choice == "" {
		return "", ErrCancelled
	}
	if !strings.HasSuffix(choice, separator) {
		choice += separator
	}
	return choice, nil
}

// typeCandidates 由文件名推出候选类型名；C++ 文件额外给出 MFC 风格的 C 前缀形式。
func typeCandidates(fileHint, separator string) []string {
	base := filepath.Base(strings.TrimSpace(fileHint))
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	stem = strings.Map(func(r rune) rune {
		if r < 0x80 && !scanner.IsIdent(byte(r)) {
			return -1
		}
		return r
	}, stem)
	if stem == "" {
		return nil
	}

	candidates := []string{stem + separator}
	if slices.Contains(enry.GetLanguagesByExtension(base, nil, nil), "C++") && !strings.HasPrefix(stem, "C") {
		candidates = append(candidates, "C"+stem+separator)
	}
	return candidates
}

// prototypePiece 是从选区中切出的一条声明。
type prototypePiece struct {
	text    string
	hasBody bool
}

// ImplementMethodBlock 为选区中的每个方法原型生成实现骨架。
//
// 声明专用的关键字（virtual、static 等）与纯虚标记被删除，默认参数按规则注释掉或删除。
// 原型没有类型限定时使用 typeDescriptor。已经带有方法体、= default 或 = delete 的声明被跳过并记入诊断。
// inline 为 true 时生成带 inline 前缀的定义。
func (e *Engine) ImplementMethodBlock(prototypes, typeDescriptor string, inline bool) (model.Result, error) {
	if isBlank(prototypes) {
		return model.Result{}, ErrEmptySelection
	}
	typeDescriptor = strings.TrimSpace(typeDescriptor)
	if typeDescriptor != "" && e.profile.ScopeSeparator != "" && !strings.HasSuffix(typeDescriptor, e.profile.ScopeSeparator) {
		typeDescriptor += e.profile.ScopeSeparator
	}

	var diagnostics []string
	var blocks []string
	for _, piece := range e.splitPrototypes(prototypes) {
		text := e.stripLeadingNoise(piece.text)
		if isBlank(text) {
			continue
		}
		if piece.hasBody {
			diagnostics = append(diagnostics, fmt.Sprintf("skipped %q: already has a body", firstLine(text)))
			continue
		}

		signature, err := e.DecomposeMethodSignature(text)
		if err != nil {
			diagnostics = append(diagnostics, err.Error())
			continue
		}
		if isDefaulted(signature.Part(signature.TrailingSuffix)) {
			diagnostics = append(diagnostics, fmt.Sprintf("skipped %q: defaulted or deleted", signature.Text))
			continue
		}
		blocks = append(blocks, e.implement(signature, typeDescriptor, inline))
	}

	e.logger.Debug("implemented method block",
		logging.FieldPrototypes, len(blocks),
		logging.FieldDiagnostics, len(diagnostics),
	)
	if len(blocks) == 0 {
		if len(diagnostics) > 0 {
			return model.Result{Diagnostics: diagnostics}, fmt.Errorf("%w: %s", ErrNoPrototype, strings.Join(diagnostics, "; "))
		}
		return model.Result{}, ErrNoPrototype
	}

	separator := "\n" + strings.Repeat("\n", max(e.rules.BlankLinesBetweenBodies, 0))
	return model.Result{Text: strings.Join(blocks, separator) + "\n", Diagnostics: diagnostics}, nil
}

// implement 生成一个方法的定义头与方法体。
func (e *Engine) implement(signature *model.MethodSignature, typeDescriptor string, inline bool) string {
	returnType := e.stripKeywords(signature.Part(signature.ReturnType))
	suffix := e.stripKeywords(stripPureSpecifier(signature.Part(signature.TrailingSuffix)))
	args := e.defaultParameters(signature.Part(signature.ArgumentList))

	qualifier := signature.Part(signature.TypeQualifier)
	if qualifier == "" {
		qualifier = typeDescriptor
	}
	bareName := signature.Part(signature.BareName)
	qualifiedName := qualifier + bareName

	var header strings.Builder
	if tmpl := signature.Part(signature.TemplateDecl); tmpl != "" {
		header.WriteString(tmpl)
		header.WriteString("\n")
	}
	if inline {
		header.WriteString("inline ")
	}
	if returnType != "" {
		header.WriteString(returnType)
		if e.rules.ReturnTypeOnOwnLine {
			header.WriteString("\n")
		} else {
			header.WriteString(" ")
		}
	}
	header.WriteString(qualifiedName)
	header.WriteString(args)
	if suffix != "" {
		header.WriteString(" ")
		header.WriteString(suffix)
	}

	returnsValue := returnType != "" && returnType != "void"
	body := strings.NewReplacer(
		rules.PlaceholderReturnType, returnType,
		rules.PlaceholderName, bareName,
		rules.PlaceholderType, strings.TrimSuffix(qualifier, e.profile.ScopeSeparator),
		rules.PlaceholderQualifiedName, qualifiedName,
		rules.PlaceholderIndent, e.rules.IndentUnit,
	).Replace(e.rules.Body(returnsValue))

	return header.String() + "\n" + body
}

// splitPrototypes 在顶层的 ';' 处切分选区。顶层的 {...} 被视为方法体，整段作为一个已实现的声明。
func (e *Engine) splitPrototypes(text string) []prototypePiece {
	var pieces []prototypePiece
	start, depth := 0, 0
	hasBody := false
	for pos := 0; pos < len(text); {
		if end, skipped, err := e.scanner.SkipAtomic(text, pos); skipped {
			if err != nil {
				break
			}
			pos = end
			continue
		}

		switch text[pos] {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case '{':
			if depth == 0 {
				hasBody = true
			}
			depth++
		case '}':
			depth--
			if depth == 0 && hasBody {
				pieces = append(pieces, prototypePiece{text: text[start : pos+1], hasBody: true})
				start, hasBody = pos+1, false
			}
		case ';':
			if depth == 0 {
				pieces = append(pieces, prototypePiece{text: text[start:pos], hasBody: hasBody})
				start, hasBody = pos+1, false
			}
		}
		pos++
	}
	if start < len(text) {
		pieces = append(pieces, prototypePiece{text: text[start:], hasBody: hasBody})
	}
	return pieces
}

// stripLeadingNoise 去掉声明前面的注释与访问标签（public: 等）。
func (e *Engine) stripLeadingNoise(text string) string {
	pos := 0
	for {
		for pos < len(text) && scanner.IsSpace(text[pos]) {
			pos++
		}
		if end, ok, err := e.scanner.CommentEnd(text, pos); ok {
			if err != nil {
				return ""
			}
			pos = end
			continue
		}
		if next, ok := e.accessLabelEnd(text, pos); ok {
			pos = next
			continue
		}
		return text[pos:]
	}
}

func (e *Engine) accessLabelEnd(text string, pos int) (int, bool) {
	for _, label := range accessLabels {
		if !e.scanner.HasPrefixFold(text, pos, label) {
			continue
		}
		next := pos + len(label)
		for next < len(text) && scanner.IsBlank(text[next]) {
			next++
		}
		if next < len(text) && text[next] == ':' && !strings.HasPrefix(text[next:], "::") {
			return next + 1, true
		}
	}
	return pos, false
}

// stripKeywords 删除只属于声明的关键字，并把空白合并为单个空格。
func (e *Engine) stripKeywords(text string) string {
	for _, keyword := range e.rules.DeclarationKeywords {
		for {
			found, ok := e.scanner.FindWord(text, keyword, 0)
			if !ok {
				break
			}
			text = text[:found.Start] + text[found.End:]
		}
	}
	return strings.Join(strings.Fields(text), " ")
}

// defaultParameters 注释掉或删除参数列表中的默认值。
func (e *Engine) defaultParameters(args string) string {
	if len(args) < 2 {
		return args
	}
	commentOut := e.rules.CommentOutDefaultParameters && e.profile.HasBlockComment()

	var builder strings.Builder
	builder.Grow(len(args) + 16)
	depth := 0
	for pos := 0; pos < len(args); {
		if end, skipped, err := e.scanner.SkipAtomic(args, pos); skipped {
			if err != nil {
				end = len(args)
			}
			builder.WriteString(args[pos:end])
			pos = end
			continue
		}

		ch := args[pos]
		switch {
		case ch == '(' || ch == '[' || ch == '{' || ch == '<':
			depth++
		case ch == ')' || ch == ']' || ch == '}':
			depth--
		case ch == '>' && depth > 1 && args[pos-1] != '-':
			depth--
		case ch == '=' && depth == 1 && isAssignment(args, pos):
			end := e.defaultValueEnd(args, pos)
			value := strings.TrimSpace(args[pos:end])
			trimmed := strings.TrimRight(builder.String(), " \t")
			builder.Reset()
			builder.WriteString(trimmed)
			if commentOut && !strings.Contains(value, e.profile.BlockCommentClose) {
				builder.WriteString(" " + e.profile.BlockCommentOpen + " " + value + " " + e.profile.BlockCommentClose)
			}
			pos = end
			continue
		}
		builder.WriteByte(ch)
		pos++
	}
	return builder.String()
}

// defaultValueEnd 返回从 '=' 开始的默认值的结束位置：本层的下一个 ',' 或参数列表的闭括号。
func (e *Engine) defaultValueEnd(args string, pos int) int {
	depth := 0
	for pos < len(args) {
		if end, skipped, err := e.scanner.SkipAtomic(args, pos); skipped {
			if err != nil {
				return len(args)
			}
			pos = end
			continue
		}
		switch ch := args[pos]; {
		case ch == '(' || ch == '[' || ch == '{':
			depth++
		case ch == ')' || ch == ']' || ch == '}':
			if depth == 0 {
				return pos
			}
			depth--
		case ch == ',' && depth == 0:
			return pos
		}
		pos++
	}
	return len(args)
}

// isAssignment 排除 ==、<=、>=、!= 中的 '='。
func isAssignment(text string, pos int) bool {
	if pos+1 < len(text) && text[pos+1] == '=' {
		return false
	}
	if pos > 0 && strings.IndexByte("=!<>", text[pos-1]) >= 0 {
		return false
	}
	return true
}

// stripPureSpecifier 删除末尾的 "= 0"。
func stripPureSpecifier(suffix string) string {
	trimmed := strings.TrimRight(suffix, " \t")
	if body, ok := strings.CutSuffix(trimmed, "0"); ok {
		body = strings.TrimRight(body, " \t")
		if rest, ok := strings.CutSuffix(body, "="); ok {
			return rest
		}
	}
	return suffix
}

// isDefaulted 判断声明是否以 "= default" 或 "= delete" 结尾。
func isDefaulted(suffix string) bool {
	trimmed := strings.TrimSpace(suffix)
	for _, keyword := range []string{"default", "delete"} {
		if body, ok := strings.CutSuffix(trimmed, keyword); ok {
			if strings.HasSuffix(strings.TrimRight(body, " \t"), "=") {
				return true
			}
		}
	}
	return false
}

func firstLine(text string) string {
	text = strings.TrimSpace(text)
	return text[:scanner.LineEnd(text, 0)]
}
