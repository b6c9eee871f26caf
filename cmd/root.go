// Package cmd 提供 codeshape 的命令行入口与子命令编排。
package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"codeshape/internal/format"
	"codeshape/internal/languages"
	"codeshape/internal/logging"
	"codeshape/internal/model"
	"codeshape/internal/report"
	"codeshape/internal/rules"
)

// globalOptions 存放根命令的持久参数以及由它们派生的运行时对象。
type globalOptions struct {
	language  string
	rulesPath string
	debug     bool
	color     string

	registry *languages.Registry
	logger   *log.Logger
}

// Execute 组装根命令并执行。
// version 参数由 main 包注入，便于在 CI/CD 中打包不同版本。
func Execute(version string) error {
	// .env 不存在是常态。
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	rootCmd := newRootCmd(version, languages.Default())
	return rootCmd.Execute()
}

// newRootCmd 创建根命令并注册全部子命令。
func newRootCmd(version string, registry *languages.Registry) *cobra.Command {
	options := &globalOptions{
		color:    report.ColorAuto,
		registry: registry,
	}

	rootCmd := &cobra.Command{
		Use:   "codeshape",
		Short: "面向多种语言的代码重排工具",
		Long: "codeshape 在不做完整语法分析的前提下重排源代码：\n" +
			"规范运算符与括号空格、拆分过长的参数列表、切换注释、\n" +
			"由方法原型生成实现骨架、连续编号与自然排序，并支持目录级批量格式化。",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			switch options.color {
			case report.ColorAuto, report.ColorAlways, report.ColorNever:
			default:
				return fmt.Errorf("unsupported color mode %q, allowed values: auto, always, never", options.color)
			}

			level := "info"
			if options.debug {
				level = "debug"
			}
			options.logger = logging.NewWithWriter(cmd.ErrOrStderr(), level)
			logging.SetDefault(options.logger)
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&options.language, "lang", "", "语言（标识、名称或后缀），默认按文件后缀识别")
	flags.StringVar(&options.rulesPath, "rules", "", "YAML 规则文件路径")
	flags.BoolVar(&options.debug, "debug", false, "输出调试日志")
	flags.StringVar(&options.color, "color", options.color, "颜色模式: auto、always 或 never")

	rootCmd.AddCommand(newVersionCmd(version))
	rootCmd.AddCommand(newLanguageCmd(registry))
	rootCmd.AddCommand(newFormatCmd(options))
	rootCmd.AddCommand(newSplitCmd(options))
	rootCmd.AddCommand(newCommentCmd(options))
	rootCmd.AddCommand(newNumberCmd(options))
	rootCmd.AddCommand(newSortCmd(options))
	rootCmd.AddCommand(newParityCmd(options))
	rootCmd.AddCommand(newProtoCmd(options))
	rootCmd.AddCommand(newImplementCmd(options))
	rootCmd.AddCommand(newBatchCmd(options))

	return rootCmd
}

// loadRules 依次叠加默认规则、--rules 文件与 CODESHAPE_* 环境变量。
func (o *globalOptions) loadRules() (*rules.RuleSet, error) {
	rs := rules.Default()
	if path := strings.TrimSpace(o.rulesPath); path != "" {
		loaded, err := rules.LoadFile(path)
		if err != nil {
			return nil, err
		}
		rs = loaded
	}
	if err := rules.ApplyEnv(rs); err != nil {
		return nil, err
	}
	if err := rs.Validate(); err != nil {
		return nil, err
	}
	return rs, nil
}

// profileFor 解析语言：--lang 优先，其次按文件名识别，最后回落到 C/C++。
func (o *globalOptions) profileFor(path string) (languages.Profile, error) {
	if o.language != "" {
		profile, ok := o.registry.Parse(o.language)
		if !ok {
			return languages.Profile{}, fmt.Errorf("unknown language: %s", o.language)
		}
		return profile, nil
	}
	if path != "" {
		if profile, ok := o.registry.ProfileForFile(path); ok {
			return profile, nil
		}
	}
	profile, _ := o.registry.Lookup(languages.CFamily)
	return profile, nil
}

// engine 为一次命令调用创建格式化引擎。mutate 可在规则加载后做临时覆盖。
func (o *globalOptions) engine(path string, mutate func(rs *rules.RuleSet)) (*format.Engine, error) {
	profile, err := o.profileFor(path)
	if err != nil {
		return nil, err
	}
	rs, err := o.loadRules()
	if err != nil {
		return nil, err
	}
	if mutate != nil {
		mutate(rs)
	}

	logger := o.logger
	if logger == nil {
		logger = logging.Default()
	}
	logger.Debug("engine ready", logging.FieldLanguage, profile.Name, logging.FieldPath, path)
	return format.NewEngine(profile, rs, logger), nil
}

func (o *globalOptions) styles(writer io.Writer) *report.Styles {
	return report.NewStyles(report.IsColorEnabled(o.color, writer))
}

// readInput 读取文件参数或 stdin，返回文本与文件路径（stdin 时为空）。
func readInput(cmd *cobra.Command, args []string) (string, string, error) {
	if len(args) > 0 && args[0] != "-" {
		content, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", fmt.Errorf("read input: %w", err)
		}
		return string(content), args[0], nil
	}

	content, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", "", fmt.Errorf("read stdin: %w", err)
	}
	return string(content), "", nil
}

// writeResult 把结果文本写到 stdout，诊断写到 stderr。
func (o *globalOptions) writeResult(cmd *cobra.Command, source string, result model.Result) error {
	if _, err := io.WriteString(cmd.OutOrStdout(), result.Text); err != nil {
		return err
	}
	return report.PrintDiagnostics(cmd.ErrOrStderr(), o.styles(cmd.ErrOrStderr()), source, result.Diagnostics)
}
