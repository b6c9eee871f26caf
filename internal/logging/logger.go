// Package logging 是对 charmbracelet/log 的薄封装，提供进程级默认日志器与 context 传递。
package logging

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

var (
	defaultLogger     *log.Logger
	defaultLoggerOnce sync.Once
	defaultLoggerMu   sync.RWMutex
)

func getDefaultLogger() *log.Logger {
	defaultLoggerOnce.Do(func() {
		defaultLoggerMu.Lock()
		defer defaultLoggerMu.Unlock()
		if defaultLogger == nil {
			defaultLogger = New("info")
		}
	})

	defaultLoggerMu.RLock()
	defer defaultLoggerMu.RUnlock()
	return defaultLogger
}

// New 创建写到 stderr 的日志器。合法级别：debug、info、warn、error，其他值按 info 处理。
func New(level string) *log.Logger {
	return NewWithWriter(os.Stderr, level)
}

// NewWithWriter 创建写到 w 的日志器。
func NewWithWriter(w io.Writer, level string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: false,
		ReportCaller:    false,
	})
	setLoggerLevel(logger, level)
	return logger
}

// Discard 返回丢弃全部输出的日志器，供测试与嵌入方使用。
func Discard() *log.Logger {
	return NewWithWriter(io.Discard, "error")
}

// ParseLevel 把字符串解析为日志级别，无法识别时返回 InfoLevel。
func ParseLevel(level string) log.Level {
	switch strings.ToLower(level) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

func setLoggerLevel(logger *log.Logger, level string) {
	logger.SetLevel(ParseLevel(level))
}

// Default 返回进程级默认日志器。
func Default() *log.Logger {
	return getDefaultLogger()
}

// SetDefault 替换进程级默认日志器。
func SetDefault(logger *log.Logger) {
	getDefaultLogger()

	defaultLoggerMu.Lock()
	defer defaultLoggerMu.Unlock()
	defaultLogger = logger
}

// SetLevel 调整默认日志器的级别。
func SetLevel(level string) {
	setLoggerLevel(getDefaultLogger(), level)
}
