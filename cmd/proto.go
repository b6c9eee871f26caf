package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"codeshape/internal/format"
	"codeshape/internal/report"
	"codeshape/internal/rules"
)

// newProtoCmd 创建 proto 子命令，展示方法原型的分解结果。
// 示例：
//
//	codeshape proto "template<class T> inline T Box<T>::Get() const"
//	codeshape proto --format yaml "int Foo::Bar(int x)"
func newProtoCmd(options *globalOptions) *cobra.Command {
	outputFormat := report.FormatTable

	protoCmd := &cobra.Command{
		Use:   "proto <signature>",
		Short: "分解方法原型",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := options.engine("", nil)
			if err != nil {
				return err
			}

			signature, err := engine.DecomposeMethodSignature(args[0])
			if err != nil {
				return err
			}
			return report.PrintSignature(cmd.OutOrStdout(), strings.ToLower(strings.TrimSpace(outputFormat)), signature)
		},
	}

	protoCmd.Flags().StringVar(&outputFormat, "format", outputFormat, "输出格式: table、json 或 yaml")

	return protoCmd
}

// implementOptions 存放 implement 命令的可配置参数。
type implementOptions struct {
	typeDescriptor string
	inline         bool
	fileHint       string
	voidBody       string
	returnBody     string
}

// newImplementCmd 创建 implement 子命令。
// 未给出 --type 时，先看原型自身是否带限定，再由 --file-hint 或输入文件名推出候选；
// stdin 是终端时交互选择，否则取第一个候选。
func newImplementCmd(options *globalOptions) *cobra.Command {
	var local implementOptions

	implementCmd := &cobra.Command{
		Use:   "implement [file]",
		Short: "由方法原型生成实现骨架",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, path, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			engine, err := options.engine(path, func(rs *rules.RuleSet) {
				if local.voidBody != "" {
					rs.VoidBody = unescapeBody(local.voidBody)
				}
				if local.returnBody != "" {
					rs.ReturningBody = unescapeBody(local.returnBody)
				}
			})
			if err != nil {
				return err
			}

			typeDescriptor := local.typeDescriptor
			if typeDescriptor == "" {
				hint := local.fileHint
				if hint == "" {
					hint = path
				}

				var chooser format.Chooser
				if path != "" && term.IsTerminal(int(os.Stdin.Fd())) {
					chooser = promptChooser(cmd.InOrStdin(), cmd.ErrOrStderr())
				}

				typeDescriptor, err = engine.ExtractTypeDescriptor(cmd.Context(), firstStatement(text), hint, chooser)
				switch {
				case errors.Is(err, format.ErrCancelled):
					return nil
				case errors.Is(err, format.ErrNoTypeQualifier):
					typeDescriptor = ""
				case err != nil:
					return err
				}
			}

			result, err := engine.ImplementMethodBlock(text, typeDescriptor, local.inline)
			if err != nil {
				return err
			}
			return options.writeResult(cmd, path, result)
		},
	}

	flags := implementCmd.Flags()
	flags.StringVar(&local.typeDescriptor, "type", "", "类型限定，例如 Widget 或 Widget::")
	flags.BoolVar(&local.inline, "inline", false, "生成 inline 定义")
	flags.StringVar(&local.fileHint, "file-hint", "", "用于推断类型名的文件名")
	flags.StringVar(&local.voidBody, "void-body", "", "无返回值方法的方法体模板（支持 \\n 与 \\t）")
	flags.StringVar(&local.returnBody, "return-body", "", "有返回值方法的方法体模板（支持 \\n 与 \\t）")

	return implementCmd
}

// firstStatement 取第一条声明（到第一个 ';' 为止），用于推断类型限定。
func firstStatement(text string) string {
	if idx := strings.IndexByte(text, ';'); idx >= 0 {
		return text[:idx]
	}
	return text
}

func unescapeBody(body string) string {
	return strings.NewReplacer(`\n`, "\n", `\t`, "\t").Replace(body)
}

// promptChooser 在终端上列出候选并读取选择：数字选择候选，其他非空输入作为类型名，空行放弃。
func promptChooser(in io.Reader, out io.Writer) format.Chooser {
	reader := bufio.NewReader(in)
	return func(ctx context.Context, candidates []string) (string, error) {
		for idx, candidate := range candidates {
			if _, err := fmt.Fprintf(out, "  %d) %s\n", idx+1, candidate); err != nil {
				return "", fmt.Errorf("write prompt: %w", err)
			}
		}
		if _, err := fmt.Fprint(out, "type qualifier (number or name, empty to cancel): "); err != nil {
			return "", fmt.Errorf("write prompt: %w", err)
		}

		response, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("read response: %w", err)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}

		response = strings.TrimSpace(response)
		if number, convErr := strconv.Atoi(response); convErr == nil {
			if number < 1 || number > len(candidates) {
				return "", fmt.Errorf("choice %d out of range", number)
			}
			return candidates[number-1], nil
		}
		return response, nil
	}
}
