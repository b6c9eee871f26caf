package rules

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// EnvPrefix 是全部环境变量的前缀。
const EnvPrefix = "CODESHAPE_"

type envFieldType int

const (
	envTypeString envFieldType = iota
	envTypeBool
	envTypeInt
	envTypeSlice
)

type envMapping struct {
	field string
	typ   envFieldType
}

// envMappings 把环境变量名（不含前缀）映射到规则字段。只读。
var envMappings = map[string]envMapping{
	"MAX_COLUMN":                     {field: "max_column", typ: envTypeInt},
	"TAB_WIDTH":                      {field: "tab_width", typ: envTypeInt},
	"BLANK_LINES_BETWEEN_BODIES":     {field: "blank_lines_between_bodies", typ: envTypeInt},
	"WHITESPACE":                     {field: "whitespace", typ: envTypeString},
	"INDENT_UNIT":                    {field: "indent_unit", typ: envTypeString},
	"DELETE_TRAILING_WHITESPACE":     {field: "delete_trailing_whitespace", typ: envTypeBool},
	"COMMENT_OUT_DEFAULT_PARAMETERS": {field: "comment_out_default_parameters", typ: envTypeBool},
	"RETURN_TYPE_ON_OWN_LINE":        {field: "return_type_on_own_line", typ: envTypeBool},
	"BREAK_SEPARATORS":               {field: "break_separators", typ: envTypeSlice},
	"WIDE_STRING_WRAPPERS":           {field: "wide_string_wrappers", typ: envTypeSlice},
}

// ApplyEnv 用 CODESHAPE_ 前缀的环境变量覆盖规则字段。
func ApplyEnv(rs *RuleSet) error {
	if rs == nil {
		return nil
	}

	for suffix, mapping := range envMappings {
		envVar := EnvPrefix + suffix
		value := os.Getenv(envVar)
		if value == "" {
			continue
		}
		if err := applyEnvValue(rs, mapping, value, envVar); err != nil {
			return err
		}
	}
	return nil
}

func applyEnvValue(rs *RuleSet, mapping envMapping, value, envVar string) error {
	switch mapping.typ {
	case envTypeString:
		return rs.setString(mapping.field, value)
	case envTypeBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for %s: %q (expected true/false/1/0)", envVar, value)
		}
		return rs.setBool(mapping.field, b)
	case envTypeInt:
		i, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer for %s: %q", envVar, value)
		}
		return rs.setInt(mapping.field, i)
	case envTypeSlice:
		return rs.setSlice(mapping.field, parseSliceValue(value))
	default:
		return fmt.Errorf("unknown field type for %s", envVar)
	}
}

// parseSliceValue 解析空格分隔的列表；"," 本身是常见的分隔符记号，因此写作 "comma"。
func parseSliceValue(value string) []string {
	parts := strings.Split(value, " ")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "comma" {
			trimmed = ","
		}
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func (rs *RuleSet) setString(field, value string) error {
	switch field {
	case "whitespace":
		rs.Whitespace = WhitespacePolicy(value)
	case "indent_unit":
		rs.IndentUnit = strings.ReplaceAll(value, `\t`, "\t")
	default:
		return fmt.Errorf("unknown string field: %s", field)
	}
	return nil
}

func (rs *RuleSet) setBool(field string, value bool) error {
	switch field {
	case "delete_trailing_whitespace":
		rs.DeleteTrailingWhitespace = value
	case "comment_out_default_parameters":
		rs.CommentOutDefaultParameters = value
	case "return_type_on_own_line":
		rs.ReturnTypeOnOwnLine = value
	default:
		return fmt.Errorf("unknown boolean field: %s", field)
	}
	return nil
}

func (rs *RuleSet) setInt(field string, value int) error {
	switch field {
	case "max_column":
		rs.MaxColumn = value
	case "tab_width":
		rs.TabWidth = value
	case "blank_lines_between_bodies":
		rs.BlankLinesBetweenBodies = value
	default:
		return fmt.Errorf("unknown integer field: %s", field)
	}
	return nil
}

func (rs *RuleSet) setSlice(field string, value []string) error {
	switch field {
	case "break_separators":
		rs.BreakSeparators = value
	case "wide_string_wrappers":
		rs.WideStringWrappers = value
	default:
		return fmt.Errorf("unknown slice field: %s", field)
	}
	return nil
}

// ListEnvVars 返回支持的环境变量及其说明。
func ListEnvVars() map[string]string {
	return map[string]string{
		EnvPrefix + "MAX_COLUMN":                     "Maximum column for argument-list splitting",
		EnvPrefix + "TAB_WIDTH":                      "Tab width used for column computation",
		EnvPrefix + "BLANK_LINES_BETWEEN_BODIES":     "Blank lines between implemented method bodies",
		EnvPrefix + "WHITESPACE":                     "Whitespace policy: collapse, preserve or minimal",
		EnvPrefix + "INDENT_UNIT":                    `Indent unit for generated bodies (\t for a tab)`,
		EnvPrefix + "DELETE_TRAILING_WHITESPACE":     "Delete trailing whitespace: true or false",
		EnvPrefix + "COMMENT_OUT_DEFAULT_PARAMETERS": "Comment out default parameters instead of deleting them",
		EnvPrefix + "RETURN_TYPE_ON_OWN_LINE":        "Put the return type of implemented methods on its own line",
		EnvPrefix + "BREAK_SEPARATORS":               "Space-separated break separators (use 'comma' for ,)",
		EnvPrefix + "WIDE_STRING_WRAPPERS":           "Space-separated wide-string wrapper macros",
	}
}
