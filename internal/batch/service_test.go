package batch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeshape/internal/languages"
	"codeshape/internal/logging"
)

// writeFixtureFile 是测试辅助函数，用于在临时目录快速落地测试文件。
func writeFixtureFile(t *testing.T, path string, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir fixture dir failed: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture file failed: %v", err)
	}
}

func newTestService(workers int) *Service {
	return NewService(languages.NewRegistry(), nil, logging.Discard(), workers)
}

const messyC = "int  x=foo( a,b );\n// note\n"
const tidyC = "int x = foo(a, b);\n// note\n"

// TestFormatSingleFile 验证 batch 支持“直接传单文件路径”，且默认不写回。
func TestFormatSingleFile(t *testing.T) {
	tempDir := t.TempDir()
	filePath := filepath.Join(tempDir, "single.cpp")
	writeFixtureFile(t, filePath, messyC)

	result, err := newTestService(2).FormatPath(context.Background(), filePath, Options{})
	require.NoError(t, err)

	require.Len(t, result.Files, 1)
	file := result.Files[0]
	assert.Equal(t, "single.cpp", file.Path)
	assert.Equal(t, "C/C++", file.Language)
	assert.True(t, file.Changed)
	assert.False(t, file.Written)
	assert.Empty(t, file.Diff)

	assert.EqualValues(t, 1, result.Total.Files)
	assert.EqualValues(t, 1, result.Total.Changed)
	assert.EqualValues(t, 2, result.Total.Total)
	assert.EqualValues(t, 1, result.Total.Code)
	assert.EqualValues(t, 1, result.Total.Comment)

	content, err := os.ReadFile(filePath)
	require.NoError(t, err)
	assert.Equal(t, messyC, string(content))
}

// TestFormatDirectorySummaries 验证目录遍历、语言识别与语言级汇总。
func TestFormatDirectorySummaries(t *testing.T) {
	tempDir := t.TempDir()

	writeFixtureFile(t, filepath.Join(tempDir, "src", "a.cpp"), messyC)
	writeFixtureFile(t, filepath.Join(tempDir, "src", "b.h"), tidyC)
	writeFixtureFile(t, filepath.Join(tempDir, "db", "schema.sql"), "-- schema\nselect 1;\n")
	writeFixtureFile(t, filepath.Join(tempDir, "README.txt"), "not a source file")
	writeFixtureFile(t, filepath.Join(tempDir, ".git", "hook.c"), messyC)

	result, err := newTestService(4).FormatPath(context.Background(), tempDir, Options{})
	require.NoError(t, err)

	paths := make([]string, 0, len(result.Files))
	for _, file := range result.Files {
		paths = append(paths, file.Path)
	}
	assert.Equal(t, []string{"db/schema.sql", "src/a.cpp", "src/b.h"}, paths)
	assert.Empty(t, result.Errors)

	require.Len(t, result.Languages, 2)
	assert.Equal(t, "C/C++", result.Languages[0].Language)
	assert.EqualValues(t, 2, result.Languages[0].Files)
	assert.EqualValues(t, 1, result.Languages[0].Changed)
	assert.Contains(t, result.Languages[0].Extensions, ".cpp")
	assert.Equal(t, "SQL", result.Languages[1].Language)
	assert.EqualValues(t, 1, result.Languages[1].Files)

	assert.EqualValues(t, 3, result.Total.Files)
	assert.EqualValues(t, 6, result.Total.Total)
}

// TestFormatWriteAndDiff 验证写回保留原权限，diff 使用 a/ b/ 前缀。
func TestFormatWriteAndDiff(t *testing.T) {
	tempDir := t.TempDir()
	filePath := filepath.Join(tempDir, "main.c")
	writeFixtureFile(t, filePath, messyC)
	require.NoError(t, os.Chmod(filePath, 0o600))

	result, err := newTestService(1).FormatPath(context.Background(), tempDir, Options{Write: true, Diff: true})
	require.NoError(t, err)
	require.Len(t, result.Files, 1)

	file := result.Files[0]
	assert.True(t, file.Written)
	assert.Contains(t, file.Diff, "--- a/main.c")
	assert.Contains(t, file.Diff, "+++ b/main.c")
	assert.Contains(t, file.Diff, "-int  x=foo( a,b );")
	assert.Contains(t, file.Diff, "+int x = foo(a, b);")

	content, err := os.ReadFile(filePath)
	require.NoError(t, err)
	assert.Equal(t, tidyC, string(content))

	info, err := os.Stat(filePath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	again, err := newTestService(1).FormatPath(context.Background(), tempDir, Options{Write: true, Diff: true})
	require.NoError(t, err)
	require.Len(t, again.Files, 1)
	assert.False(t, again.Files[0].Changed)
	assert.False(t, again.Files[0].Written)
	assert.Empty(t, again.Files[0].Diff)
}

// TestFormatIncludeExclude 验证 doublestar 模式过滤，不含 / 的模式按文件名匹配。
func TestFormatIncludeExclude(t *testing.T) {
	tempDir := t.TempDir()

	writeFixtureFile(t, filepath.Join(tempDir, "src", "keep.cpp"), messyC)
	writeFixtureFile(t, filepath.Join(tempDir, "src", "gen", "skip.cpp"), messyC)
	writeFixtureFile(t, filepath.Join(tempDir, "src", "skip_test.cpp"), messyC)
	writeFixtureFile(t, filepath.Join(tempDir, "db", "a.sql"), "select 1;\n")

	options := Options{
		Include: []string{"src/**"},
		Exclude: []string{"src/gen", "*_test.cpp"},
	}
	result, err := newTestService(2).FormatPath(context.Background(), tempDir, options)
	require.NoError(t, err)

	require.Len(t, result.Files, 1)
	assert.Equal(t, "src/keep.cpp", result.Files[0].Path)
}

// TestFormatForcedLanguage 验证 --lang 覆盖后缀识别。
func TestFormatForcedLanguage(t *testing.T) {
	tempDir := t.TempDir()
	filePath := filepath.Join(tempDir, "notes.txt")
	writeFixtureFile(t, filePath, messyC)

	result, err := newTestService(1).FormatPath(context.Background(), filePath, Options{Language: "cpp"})
	require.NoError(t, err)
	require.Len(t, result.Files, 1)
	assert.Equal(t, "C/C++", result.Files[0].Language)

	_, err = newTestService(1).FormatPath(context.Background(), filePath, Options{Language: "cobol"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown language")
}

// TestFormatUnsupportedSingleFile 验证单文件后缀不支持时返回错误。
func TestFormatUnsupportedSingleFile(t *testing.T) {
	tempDir := t.TempDir()
	filePath := filepath.Join(tempDir, "README.unknownext")
	writeFixtureFile(t, filePath, "hello")

	_, err := newTestService(1).FormatPath(context.Background(), filePath, Options{})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "unsupported file extension"), "unexpected error: %v", err)
}

func TestFormatPathValidation(t *testing.T) {
	service := newTestService(1)

	_, err := service.FormatPath(context.Background(), "  ", Options{})
	require.Error(t, err)

	_, err = service.FormatPath(context.Background(), t.TempDir(), Options{Include: []string{"src/[a"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid glob pattern")

	_, err = service.FormatPath(context.Background(), filepath.Join(t.TempDir(), "missing"), Options{})
	require.Error(t, err)
}

func TestFormatPathCancelled(t *testing.T) {
	tempDir := t.TempDir()
	writeFixtureFile(t, filepath.Join(tempDir, "a.cpp"), messyC)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestService(1).FormatPath(ctx, tempDir, Options{})
	require.ErrorIs(t, err, context.Canceled)
}

func TestUnifiedDiffIdentical(t *testing.T) {
	assert.Empty(t, UnifiedDiff("x.c", "a\n", "a\n"))
	assert.Contains(t, UnifiedDiff("x.c", "a\n", "b\n"), "@@ -1 +1 @@")
}
