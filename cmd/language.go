package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"codeshape/internal/languages"
)

// newLanguageCmd 创建 language 子命令。
// 命令用于展示内置语言档案、后缀以及各自的注释与作用域语法。
func newLanguageCmd(registry *languages.Registry) *cobra.Command {
	return &cobra.Command{
		Use:   "language",
		Short: "展示支持的语言及后缀",
		RunE: func(cmd *cobra.Command, _ []string) error {
			writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)

			if _, err := fmt.Fprintln(writer, "ID\tLANGUAGE\tCOMMENTS\tSCOPE\tEXTENSIONS"); err != nil {
				return err
			}

			for _, item := range registry.Languages() {
				profile, _ := registry.Lookup(item.ID)
				if _, err := fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%s\n",
					item.ID,
					item.Name,
					commentSyntax(profile),
					orDash(profile.ScopeSeparator),
					strings.Join(item.Extensions, ", "),
				); err != nil {
					return err
				}
			}

			return writer.Flush()
		},
	}
}

func commentSyntax(profile languages.Profile) string {
	var parts []string
	if profile.HasLineComment() {
		parts = append(parts, profile.LineComment)
	}
	if profile.HasBlockComment() {
		parts = append(parts, profile.BlockCommentOpen+" "+profile.BlockCommentClose)
	}
	return orDash(strings.Join(parts, ", "))
}

func orDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}
