package cmd

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"codeshape/internal/batch"
	"codeshape/internal/logging"
	"codeshape/internal/report"
)

// batchOptions 存放 batch 命令的可配置参数。
type batchOptions struct {
	include []string
	exclude []string
	workers int
	write   bool
	diff    bool
	format  string

	keepIndent     bool
	whitespaceOnly bool
	output  string
}

// newBatchCmd 创建 batch 子命令。
// 示例：
//
//	codeshape batch ./src --diff
//	codeshape batch . --include "src/**" --exclude "third_party" --write
//	codeshape batch ./project --format json --output result.json
func newBatchCmd(options *globalOptions) *cobra.Command {
	local := batchOptions{
		format:  report.FormatTable,
		workers: runtime.NumCPU(),
	}

	batchCmd := &cobra.Command{
		Use:   "batch <path>",
		Short: "并发格式化目录或文件并汇总结果",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputFormat := strings.ToLower(strings.TrimSpace(local.format))
			if outputFormat != report.FormatTable && outputFormat != report.FormatJSON {
				return errors.New("unsupported format, allowed values: table, json")
			}

			if local.workers <= 0 {
				return errors.New("workers must be greater than 0")
			}

			rs, err := options.loadRules()
			if err != nil {
				return err
			}

			logger := options.logger
			if logger == nil {
				logger = logging.Default()
			}
			service := batch.NewService(options.registry, rs, logger, local.workers)
			result, err := service.FormatPath(cmd.Context(), args[0], batch.Options{
				Include:  local.include,
				Exclude:  local.exclude,
				Language: options.language,
				Write:    local.write,
				Diff:     local.diff,

				ProtectLeadingWhitespace: local.keepIndent,
				WhitespaceOnly:           local.whitespaceOnly,
			})
			if err != nil {
				return err
			}

			written := 0
			for _, file := range result.Files {
				if file.Written {
					written++
				}
			}
			logger.Info("batch complete",
				logging.FieldFiles, result.Total.Files,
				logging.FieldFilesChanged, result.Total.Changed,
				logging.FieldFilesWritten, written,
				logging.FieldErrors, len(result.Errors),
			)

			switch outputFormat {
			case report.FormatTable:
				styles := options.styles(cmd.OutOrStdout())
				if err := report.PrintBatchDetails(cmd.OutOrStdout(), styles, result); err != nil {
					return err
				}
				return report.PrintTable(cmd.OutOrStdout(), result)
			case report.FormatJSON:
				if err := report.PrintJSON(cmd.OutOrStdout(), result); err != nil {
					return err
				}

				outputPath := strings.TrimSpace(local.output)
				if outputPath == "" {
					return nil
				}
				if err := report.WriteJSONFile(outputPath, result); err != nil {
					return err
				}

				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "JSON exported to %s\n", outputPath)
				return nil
			default:
				return errors.New("unsupported format")
			}
		},
	}

	flags := batchCmd.Flags()
	flags.StringSliceVar(&local.include, "include", nil, "只处理匹配的文件（glob，支持 **）")
	flags.StringSliceVar(&local.exclude, "exclude", nil, "跳过匹配的文件或目录（glob，支持 **）")
	flags.IntVar(&local.workers, "workers", local.workers, "并发 worker 数量")
	flags.BoolVar(&local.write, "write", false, "把格式化结果写回文件")
	flags.BoolVar(&local.diff, "diff", false, "为有变化的文件输出 unified diff")
	flags.BoolVar(&local.keepIndent, "keep-indent", false, "保留每行的前导空白")
	flags.BoolVar(&local.whitespaceOnly, "whitespace-only", false, "只调整空白")
	flags.StringVar(&local.format, "format", local.format, "输出格式: table 或 json")
	flags.StringVar(&local.output, "output", "", "json 导出文件路径")

	return batchCmd
}
