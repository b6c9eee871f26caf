package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"codeshape/internal/batch"
	"codeshape/internal/report"
)

// newFormatCmd 创建 format 子命令。
// 示例：
//
//	codeshape format widget.cpp
//	cat query.sql | codeshape --lang sql format --diff
func newFormatCmd(options *globalOptions) *cobra.Command {
	var (
		keepIndent     bool
		whitespaceOnly bool
		diff           bool
	)

	formatCmd := &cobra.Command{
		Use:   "format [file]",
		Short: "规范运算符、括号与空白",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, path, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			engine, err := options.engine(path, nil)
			if err != nil {
				return err
			}

			result, err := engine.FormatCode(text, keepIndent, whitespaceOnly)
			if err != nil {
				return err
			}
			if !diff {
				return options.writeResult(cmd, path, result)
			}

			name := path
			if name == "" {
				name = "stdin"
			}
			if err := report.PrintDiff(cmd.OutOrStdout(), options.styles(cmd.OutOrStdout()), batch.UnifiedDiff(name, text, result.Text)); err != nil {
				return err
			}
			return report.PrintDiagnostics(cmd.ErrOrStderr(), options.styles(cmd.ErrOrStderr()), path, result.Diagnostics)
		},
	}

	formatCmd.Flags().BoolVar(&keepIndent, "keep-indent", false, "保留每行的前导空白")
	formatCmd.Flags().BoolVar(&whitespaceOnly, "whitespace-only", false, "只调整空白，不改动运算符与括号")
	formatCmd.Flags().BoolVar(&diff, "diff", false, "输出 unified diff 而不是格式化结果")

	return formatCmd
}

// newSplitCmd 创建 split 子命令。--max-column 为 0 时优先使用终端宽度。
func newSplitCmd(options *globalOptions) *cobra.Command {
	var (
		maxColumn int
		level     int
	)

	splitCmd := &cobra.Command{
		Use:   "split [file]",
		Short: "在参数列表的分隔符处拆分过长的行",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, path, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			engine, err := options.engine(path, nil)
			if err != nil {
				return err
			}

			column := maxColumn
			if column <= 0 {
				column = terminalWidth(cmd)
			}
			result, err := engine.SplitArgumentList(text, column, level)
			if err != nil {
				return err
			}
			return options.writeResult(cmd, path, result)
		},
	}

	splitCmd.Flags().IntVar(&maxColumn, "max-column", 0, "最大列宽，0 表示终端宽度或规则中的 max_column")
	splitCmd.Flags().IntVar(&level, "level", -1, "只拆分该嵌套层级，-1 表示所有层级")

	return splitCmd
}

// terminalWidth 在 stdout 是终端时返回其宽度，否则返回 0。
func terminalWidth(cmd *cobra.Command) int {
	f, ok := cmd.OutOrStdout().(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return 0
	}
	return width
}

// newCommentCmd 创建 comment 子命令。
func newCommentCmd(options *globalOptions) *cobra.Command {
	var expand bool

	commentCmd := &cobra.Command{
		Use:   "comment [file]",
		Short: "切换注释状态，或把块注释展开为单行注释",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, path, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			engine, err := options.engine(path, nil)
			if err != nil {
				return err
			}

			toggle := engine.ToggleComment
			if expand {
				toggle = engine.ExpandBlockComment
			}
			result, err := toggle(text)
			if err != nil {
				return err
			}
			return options.writeResult(cmd, path, result)
		},
	}

	commentCmd.Flags().BoolVar(&expand, "expand", false, "把块注释展开为逐行单行注释")

	return commentCmd
}

// newNumberCmd 创建 number 子命令。
func newNumberCmd(options *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "number [file]",
		Short: "按前两行确定的步长为每行生成连续编号",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, path, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			engine, err := options.engine(path, nil)
			if err != nil {
				return err
			}

			result, err := engine.GenerateConsecutiveNumbers(text)
			if err != nil {
				return err
			}
			return options.writeResult(cmd, path, result)
		},
	}
}

// newSortCmd 创建 sort 子命令。
func newSortCmd(options *globalOptions) *cobra.Command {
	var descending bool

	sortCmd := &cobra.Command{
		Use:   "sort [file]",
		Short: "按自然顺序排序各行",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, path, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			engine, err := options.engine(path, nil)
			if err != nil {
				return err
			}

			result, err := engine.SortLines(text, !descending)
			if err != nil {
				return err
			}
			return options.writeResult(cmd, path, result)
		},
	}

	sortCmd.Flags().BoolVar(&descending, "desc", false, "降序排列")

	return sortCmd
}

// newParityCmd 创建 parity 子命令，报告各类括号是否平衡。
func newParityCmd(options *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "parity [file]",
		Short: "检查括号是否成对",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, path, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			engine, err := options.engine(path, nil)
			if err != nil {
				return err
			}

			return report.PrintParity(cmd.OutOrStdout(), options.styles(cmd.OutOrStdout()), engine.AnalyzeParity(text))
		},
	}
}
