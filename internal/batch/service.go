// Package batch 提供目录级的并发格式化能力。
// 该层负责目录遍历、过滤、任务分发、并发执行和结果聚合，不负责格式化细节。
package batch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	"github.com/pmezard/go-difflib/difflib"

	"codeshape/internal/format"
	"codeshape/internal/languages"
	"codeshape/internal/logging"
	"codeshape/internal/model"
	"codeshape/internal/rules"
)

// skippedDirectories 是遍历时总是跳过的版本控制目录。
var skippedDirectories = []string{".git", ".hg", ".svn"}

// Options 控制一次批量格式化。
type Options struct {
	// Include 非空时只处理匹配任一模式的文件（相对根目录的 / 分隔路径，支持 **）。
	Include []string
	// Exclude 中的模式同时作用于文件与目录。
	Exclude []string
	// Language 非空时所有文件都按该语言处理，不再按后缀识别。
	Language string
	// Write 为 true 时把有变化的结果写回文件。
	Write bool
	// Diff 为 true 时为有变化的文件生成 unified diff。
	Diff bool
	// ProtectLeadingWhitespace 与 WhitespaceOnly 直接传给 FormatCode。
	ProtectLeadingWhitespace bool
	WhitespaceOnly           bool
}

// Service 是批量格式化服务对象。
type Service struct {
	registry *languages.Registry
	rules    *rules.RuleSet
	logger   *log.Logger
	workers  int
}

// formatTask 表示一个待格式化文件任务。
type formatTask struct {
	absolutePath string
	displayPath  string
	profile      languages.Profile
}

// workerResult 表示 worker 的执行产物。
type workerResult struct {
	file     *model.FileResult
	batchErr *model.BatchError
}

// NewService 创建批量格式化服务。rs 为 nil 时使用默认规则集。
func NewService(registry *languages.Registry, rs *rules.RuleSet, logger *log.Logger, workers int) *Service {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if rs == nil {
		rs = rules.Default()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		registry: registry,
		rules:    rs,
		logger:   logger,
		workers:  workers,
	}
}

// FormatPath 格式化目录或单文件。
// 单个文件失败只记录到 Errors 中，不会中断其余文件；遍历失败或 ctx 取消时返回错误。
func (s *Service) FormatPath(ctx context.Context, targetPath string, options Options) (model.BatchResult, error) {
	var result model.BatchResult

	trimmedPath := strings.TrimSpace(targetPath)
	if trimmedPath == "" {
		return result, errors.New("batch path is empty")
	}
	if err := validatePatterns(options.Include, options.Exclude); err != nil {
		return result, err
	}

	var forced languages.Profile
	if options.Language != "" {
		profile, ok := s.registry.Parse(options.Language)
		if !ok {
			return result, fmt.Errorf("unknown language: %s", options.Language)
		}
		forced = profile
	}

	absoluteTarget, err := filepath.Abs(trimmedPath)
	if err != nil {
		return result, fmt.Errorf("resolve absolute path: %w", err)
	}

	info, err := os.Stat(absoluteTarget)
	if err != nil {
		return result, fmt.Errorf("stat path: %w", err)
	}

	result.Root = absoluteTarget
	s.logger.Debug("batch started",
		logging.FieldPath, absoluteTarget,
		logging.FieldWorkers, s.workers,
	)

	tasks := make(chan formatTask, s.workers*4)
	results := make(chan workerResult, s.workers*4)
	walkErrChan := make(chan error, 1)

	var workerGroup sync.WaitGroup
	for i := 0; i < s.workers; i++ {
		workerGroup.Add(1)
		go func() {
			defer workerGroup.Done()
			s.runWorker(options, tasks, results)
		}()
	}

	go func() {
		defer close(tasks)
		if info.IsDir() {
			walkErrChan <- s.enqueueDirectoryTasks(ctx, absoluteTarget, options, forced, tasks)
			return
		}
		walkErrChan <- s.enqueueSingleFileTask(absoluteTarget, forced, tasks)
	}()

	go func() {
		workerGroup.Wait()
		close(results)
	}()

	result.Files = make([]model.FileResult, 0)
	result.Errors = make([]model.BatchError, 0)

	for item := range results {
		if item.file != nil {
			result.Files = append(result.Files, *item.file)
		}
		if item.batchErr != nil {
			result.Errors = append(result.Errors, *item.batchErr)
		}
	}

	if walkErr := <-walkErrChan; walkErr != nil {
		return result, walkErr
	}

	s.buildSummaries(&result)
	s.logger.Debug("batch finished",
		logging.FieldFiles, result.Total.Files,
		logging.FieldFilesChanged, result.Total.Changed,
		logging.FieldErrors, len(result.Errors),
	)
	return result, nil
}

// enqueueDirectoryTasks 遍历目录并把可识别语言、且通过过滤的文件推入任务队列。
func (s *Service) enqueueDirectoryTasks(ctx context.Context, root string, options Options, forced languages.Profile, tasks chan<- formatTask) error {
	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		relativePath, relErr := filepath.Rel(root, path)
		if relErr != nil {
			relativePath = path
		}
		displayPath := filepath.ToSlash(relativePath)

		if entry.IsDir() {
			if path != root && (isSkippedDirectory(entry.Name()) || matchAny(options.Exclude, displayPath)) {
				return filepath.SkipDir
			}
			return nil
		}

		if matchAny(options.Exclude, displayPath) {
			return nil
		}
		if len(options.Include) > 0 && !matchAny(options.Include, displayPath) {
			return nil
		}

		profile := forced
		if profile.IsZero() {
			var ok bool
			profile, ok = s.registry.ProfileForFile(path)
			if !ok {
				return nil
			}
		}

		select {
		case tasks <- formatTask{absolutePath: path, displayPath: displayPath, profile: profile}:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})
}

// enqueueSingleFileTask 在用户给定单文件路径时创建任务。
func (s *Service) enqueueSingleFileTask(filePath string, forced languages.Profile, tasks chan<- formatTask) error {
	profile := forced
	if profile.IsZero() {
		var ok bool
		profile, ok = s.registry.ProfileForFile(filePath)
		if !ok {
			return fmt.Errorf("unsupported file extension: %s", filepath.Ext(filePath))
		}
	}

	tasks <- formatTask{
		absolutePath: filePath,
		displayPath:  filepath.Base(filePath),
		profile:      profile,
	}
	return nil
}

// runWorker 读取文件、格式化并按需写回。
func (s *Service) runWorker(options Options, tasks <-chan formatTask, results chan<- workerResult) {
	for task := range tasks {
		file, err := s.formatFile(task, options)
		if err != nil {
			s.logger.Warn("format file failed",
				logging.FieldPath, task.displayPath,
				logging.FieldError, err,
			)
			results <- workerResult{
				batchErr: &model.BatchError{
					Path:  task.displayPath,
					Error: err.Error(),
				},
			}
			continue
		}
		results <- workerResult{file: file}
	}
}

func (s *Service) formatFile(task formatTask, options Options) (*model.FileResult, error) {
	info, err := os.Stat(task.absolutePath)
	if err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}
	content, err := os.ReadFile(task.absolutePath)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	original := string(content)

	engine := format.NewEngine(task.profile, s.rules, s.logger.With(logging.FieldPath, task.displayPath))
	formatted, err := engine.FormatCode(original, options.ProtectLeadingWhitespace, options.WhitespaceOnly)
	if err != nil {
		return nil, fmt.Errorf("format: %w", err)
	}

	file := &model.FileResult{
		Path:        task.displayPath,
		Language:    task.profile.Name,
		Changed:     formatted.Text != original,
		Metrics:     engine.ClassifyLines(formatted.Text),
		Diagnostics: formatted.Diagnostics,
	}

	if file.Changed && options.Diff {
		file.Diff = UnifiedDiff(task.displayPath, original, formatted.Text)
	}
	if file.Changed && options.Write {
		if err := os.WriteFile(task.absolutePath, []byte(formatted.Text), info.Mode().Perm()); err != nil {
			return nil, fmt.Errorf("write file: %w", err)
		}
		file.Written = true
	}
	return file, nil
}

// UnifiedDiff 生成 a/path 与 b/path 之间带三行上下文的 unified diff；内容相同时返回空字符串。
func UnifiedDiff(path, original, modified string) string {
	if original == modified {
		return ""
	}

	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(original),
		B:        difflib.SplitLines(modified),
		FromFile: "a/" + path,
		ToFile:   "b/" + path,
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return fmt.Sprintf("--- a/%s\n+++ b/%s\n@@ changes @@\n%d bytes -> %d bytes\n",
			path, path, len(original), len(modified))
	}
	return text
}

// buildSummaries 计算语言级汇总和总计信息。
func (s *Service) buildSummaries(result *model.BatchResult) {
	sort.Slice(result.Files, func(i int, j int) bool {
		return result.Files[i].Path < result.Files[j].Path
	})

	sort.Slice(result.Errors, func(i int, j int) bool {
		return result.Errors[i].Path < result.Errors[j].Path
	})

	byLanguage := make(map[string]*model.LanguageSummary)
	result.Total = model.BatchTotal{}

	for _, item := range result.Files {
		result.Total.AddFile(item)

		summary, ok := byLanguage[item.Language]
		if !ok {
			summary = &model.LanguageSummary{
				Language:   item.Language,
				Extensions: s.registry.ExtensionsForLanguage(item.Language),
			}
			byLanguage[item.Language] = summary
		}

		summary.Files++
		if item.Changed {
			summary.Changed++
		}
		summary.Metrics.Add(item.Metrics)
	}

	result.Languages = make([]model.LanguageSummary, 0, len(byLanguage))
	for _, item := range byLanguage {
		result.Languages = append(result.Languages, *item)
	}

	sort.Slice(result.Languages, func(i int, j int) bool {
		return result.Languages[i].Language < result.Languages[j].Language
	})
}

// validatePatterns 提前拒绝语法错误的 glob，避免遍历中途才失败。
func validatePatterns(groups ...[]string) error {
	for _, patterns := range groups {
		for _, pattern := range patterns {
			if !doublestar.ValidatePattern(pattern) {
				return fmt.Errorf("invalid glob pattern: %q", pattern)
			}
		}
	}
	return nil
}

// matchAny 判断路径（或其文件名，当模式不含 / 时）是否匹配任一模式。
func matchAny(patterns []string, displayPath string) bool {
	for _, pattern := range patterns {
		if matched, err := doublestar.Match(pattern, displayPath); err == nil && matched {
			return true
		}
		if !strings.Contains(pattern, "/") {
			if matched, err := doublestar.Match(pattern, filepath.Base(displayPath)); err == nil && matched {
				return true
			}
		}
	}
	return false
}

func isSkippedDirectory(name string) bool {
	for _, skipped := range skippedDirectories {
		if name == skipped {
			return true
		}
	}
	return false
}
