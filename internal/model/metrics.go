// Package model 定义 codeshape 的核心数据模型。
// 这些结构会被扫描器、格式化引擎、批处理层和输出层共同使用。
package model

// LineMetrics 表示一组行级统计值。
//
// 注意：
// - Total 表示总行数（每行计 1）
// - Code/Comment 可以在同一行同时 +1（例如: x = 1; // note）
// - Blank 仅用于既不是代码也不是注释的空白行
type LineMetrics struct {
	Total   int64 `json:"total"`
	Code    int64 `json:"code"`
	Comment int64 `json:"comment"`
	Blank   int64 `json:"blank"`
}

// Add 将另一个统计结果叠加到当前对象。
func (m *LineMetrics) Add(other LineMetrics) {
	m.Total += other.Total
	m.Code += other.Code
	m.Comment += other.Comment
	m.Blank += other.Blank
}

// FileResult 表示单文件格式化结果。
type FileResult struct {
	Path        string      `json:"path"`
	Language    string      `json:"language"`
	Changed     bool        `json:"changed"`
	Written     bool        `json:"written"`
	Metrics     LineMetrics `json:"metrics"`
	Diagnostics []string    `json:"diagnostics,omitempty"`
	Diff        string      `json:"diff,omitempty"`
}

// LanguageSummary 表示某个语言的聚合结果。
type LanguageSummary struct {
	Language   string      `json:"language"`
	Extensions []string    `json:"extensions"`
	Files      int64       `json:"files"`
	Changed    int64       `json:"changed"`
	Metrics    LineMetrics `json:"metrics"`
}

// BatchError 记录单文件处理失败信息。
// 设计为“错误不阻断全量处理”，便于大仓库批量格式化时容错。
type BatchError struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// BatchTotal 表示项目级总计信息。
// 在 LineMetrics 基础上额外增加 Files/Changed 字段。
type BatchTotal struct {
	Files   int64 `json:"files"`
	Changed int64 `json:"changed"`
	LineMetrics
}

// AddFile 累加一个文件的结果到项目总计中。
func (m *BatchTotal) AddFile(file FileResult) {
	m.Files++
	if file.Changed {
		m.Changed++
	}
	m.LineMetrics.Add(file.Metrics)
}

// BatchResult 是 batch 命令的完整输出模型。
// 包含文件级明细、语言级汇总、全局总计和错误列表。
type BatchResult struct {
	Root      string            `json:"root"`
	Files     []FileResult      `json:"files"`
	Languages []LanguageSummary `json:"languages"`
	Total     BatchTotal        `json:"total"`
	Errors    []BatchError      `json:"errors"`
}
