// Package report 提供 codeshape 的输出能力：批量结果表格、JSON/YAML、
// 方法原型分解、括号奇偶表，以及带样式的诊断与 diff。
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"codeshape/internal/model"
)

// table 包装 tabwriter，记住第一个写入错误，后续写入直接跳过。
type table struct {
	tw  *tabwriter.Writer
	err error
}

func newTable(writer io.Writer) *table {
	return &table{tw: tabwriter.NewWriter(writer, 0, 4, 2, ' ', 0)}
}

// row 以制表符连接各列写出一行。
func (t *table) row(cells ...any) {
	if t.err != nil {
		return
	}
	parts := make([]string, len(cells))
	for idx, cell := range cells {
		parts[idx] = fmt.Sprint(cell)
	}
	_, t.err = fmt.Fprintln(t.tw, strings.Join(parts, "\t"))
}

// gap 写一个空行，结束当前对齐块。
func (t *table) gap() {
	if t.err == nil {
		_, t.err = fmt.Fprintln(t.tw)
	}
}

func (t *table) flush() error {
	if t.err != nil {
		return t.err
	}
	return t.tw.Flush()
}

func metricCells(m model.LineMetrics) []any {
	return []any{m.Total, m.Code, m.Comment, m.Blank}
}

// PrintTable 输出批量格式化结果：文件明细、语言汇总、总计，以及失败的文件。
func PrintTable(writer io.Writer, result model.BatchResult) error {
	t := newTable(writer)
	t.row("ROOT", result.Root)
	t.gap()

	t.row("FILE", "LANGUAGE", "CHANGED", "TOTAL", "CODE", "COMMENT", "BLANK")
	for _, file := range result.Files {
		t.row(append([]any{file.Path, file.Language, changedLabel(file)}, metricCells(file.Metrics)...)...)
	}
	t.gap()

	t.row("LANGUAGE", "FILES", "CHANGED", "TOTAL", "CODE", "COMMENT", "BLANK")
	for _, summary := range result.Languages {
		t.row(append([]any{summary.Language, summary.Files, summary.Changed}, metricCells(summary.Metrics)...)...)
	}
	t.gap()

	t.row(append([]any{"TOTAL", result.Total.Files, result.Total.Changed}, metricCells(result.Total.LineMetrics)...)...)

	if len(result.Errors) > 0 {
		t.gap()
		t.row("ERROR FILE", "MESSAGE")
		for _, item := range result.Errors {
			t.row(item.Path, item.Error)
		}
	}
	return t.flush()
}

func changedLabel(item model.FileResult) string {
	switch {
	case item.Written:
		return "written"
	case item.Changed:
		return "yes"
	default:
		return "no"
	}
}

func marshalJSON(value any) ([]byte, error) {
	content, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal json: %w", err)
	}
	return content, nil
}

// PrintJSON 把任意结果按缩进 JSON 输出，末尾带换行。
func PrintJSON(writer io.Writer, value any) error {
	content, err := marshalJSON(value)
	if err != nil {
		return err
	}
	if _, err := writer.Write(append(content, '\n')); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}

// WriteJSONFile 把 JSON 结果导出到 path，父目录不存在时自动创建。
func WriteJSONFile(path string, value any) error {
	content, err := marshalJSON(value)
	if err != nil {
		return err
	}
	if directory := filepath.Dir(path); directory != "." && directory != "" {
		if err := os.MkdirAll(directory, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("write output file: %w", err)
	}
	return nil
}

// 结构化输出格式。
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// ErrUnsupportedFormat 表示未知的输出格式。
var ErrUnsupportedFormat = errors.New("unsupported format")

// PrintDiagnostics 逐条输出诊断信息，source 为空时省略前缀。
func PrintDiagnostics(writer io.Writer, styles *Styles, source string, diagnostics []string) error {
	for _, message := range diagnostics {
		line := styles.Warning.Render("warning") + ": " + message
		if source != "" {
			line = styles.FilePath.Render(source) + ": " + line
		}
		if _, err := fmt.Fprintln(writer, line); err != nil {
			return err
		}
	}
	return nil
}

// PrintDiff 按行着色输出 unified diff。
func PrintDiff(writer io.Writer, styles *Styles, diff string) error {
	if diff == "" {
		return nil
	}
	for _, line := range strings.SplitAfter(diff, "\n") {
		if line == "" {
			continue
		}
		body := strings.TrimSuffix(line, "\n")

		var rendered string
		switch {
		case strings.HasPrefix(body, "---"), strings.HasPrefix(body, "+++"):
			rendered = styles.DiffHeader.Render(body)
		case strings.HasPrefix(body, "@@"):
			rendered = styles.DiffHunk.Render(body)
		case strings.HasPrefix(body, "+"):
			rendered = styles.DiffAdd.Render(body)
		case strings.HasPrefix(body, "-"):
			rendered = styles.DiffRemove.Render(body)
		default:
			rendered = styles.DiffContext.Render(body)
		}
		if _, err := fmt.Fprintln(writer, rendered); err != nil {
			return err
		}
	}
	return nil
}

// PrintBatchDetails 输出批量结果中每个文件的 diff 与诊断。
func PrintBatchDetails(writer io.Writer, styles *Styles, result model.BatchResult) error {
	for _, file := range result.Files {
		if err := PrintDiff(writer, styles, file.Diff); err != nil {
			return err
		}
		if err := PrintDiagnostics(writer, styles, file.Path, file.Diagnostics); err != nil {
			return err
		}
	}
	return nil
}

// PrintSignature 以 table、json 或 yaml 输出方法原型分解结果。
func PrintSignature(writer io.Writer, format string, signature *model.MethodSignature) error {
	parts := signature.Parts()

	switch format {
	case FormatTable:
		t := newTable(writer)
		t.row("PART", "RANGE", "TEXT")
		t.row("template", signature.TemplateDecl, parts.TemplateDecl)
		t.row("inline", signature.InlineModifier, parts.InlineModifier)
		t.row("return type", signature.ReturnType, parts.ReturnType)
		t.row("qualified name", signature.QualifiedName, parts.QualifiedName)
		t.row("type qualifier", signature.TypeQualifier, parts.TypeQualifier)
		t.row("name", signature.BareName, parts.BareName)
		t.row("arguments", signature.ArgumentList, parts.ArgumentList)
		t.row("suffix", signature.TrailingSuffix, parts.TrailingSuffix)
		return t.flush()
	case FormatJSON:
		return PrintJSON(writer, parts)
	case FormatYAML:
		content, err := yaml.Marshal(parts)
		if err != nil {
			return fmt.Errorf("marshal yaml: %w", err)
		}
		if _, err := writer.Write(content); err != nil {
			return fmt.Errorf("write yaml: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// PrintParity 输出每类括号的计数与诊断。
func PrintParity(writer io.Writer, styles *Styles, status *model.BraceParityStatus) error {
	t := newTable(writer)
	t.row("KIND", "COUNT", "STATUS")
	for _, counter := range status.Counters {
		state := "balanced"
		if !counter.Balanced() {
			state = "unbalanced"
		}
		t.row(counter.Kind(), counter.Count, state)
	}
	if err := t.flush(); err != nil {
		return err
	}

	summary := styles.Success.Render("all braces balanced")
	if !status.IsEntirelyEven() {
		summary = styles.Failure.Render("unbalanced braces")
	}
	if _, err := fmt.Fprintln(writer, summary); err != nil {
		return err
	}
	return PrintDiagnostics(writer, styles, "", status.Messages)
}
