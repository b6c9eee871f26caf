// Package languages 定义各方言的词法约定（Language Profile）以及按语言/后缀查找的注册中心。
package languages

import "strings"

// ID 是语言档案的唯一标识。
type ID string

const (
	// CFamily 覆盖 C/C++/C#/Java/JavaScript 等花括号语言。
	CFamily ID = "c"
	// Basic 是类 Visual Basic 方言。
	Basic ID = "basic"
	// SQL 方言。
	SQL ID = "sql"
	// HTML 同时覆盖 HTML 与 XML。
	HTML ID = "html"
	// IDL 是接口描述语言方言（MIDL/ODL）。
	IDL ID = "idl"
)

// Profile 描述一种方言的词法约定。
//
// Profile 在注册中心初始化时创建，此后只读；调用方按值持有，不应修改其中的切片。
type Profile struct {
	ID         ID
	Name       string
	Extensions []string

	// LineComment 为空表示该语言没有单行注释。
	LineComment string
	// BlockCommentOpen/BlockCommentClose 为空表示该语言没有块注释。
	BlockCommentOpen  string
	BlockCommentClose string
	// NestedBlockComments 表示块注释允许嵌套（例如 /* a /* b */ c */）。
	NestedBlockComments bool

	// Quotes 是可以开启字面量的引号字符集合。
	Quotes string
	// Escape 为 0 表示字面量内没有转义标记。
	Escape byte
	// DoubledQuoteEscape 表示连续两个引号代表一个字面引号（SQL/Basic 风格）。
	DoubledQuoteEscape bool

	// CaseSensitive 控制关键字与子串匹配是否区分大小写。
	CaseSensitive bool
	// ScopeSeparator 是限定名中的作用域分隔符，例如 "::"。
	ScopeSeparator string
	// LineContinuation 是行尾续行标记，例如 C 的 "\\" 或 Basic 的 " _"。
	LineContinuation string
	// HasCasts 表示语言存在 C 风格的 (Type)expr 强制转换。
	HasCasts bool

	// EnryNames 是 go-enry 识别出的、应映射到本档案的语言名。
	EnryNames []string
}

// HasLineComment 判断是否支持单行注释。
func (p Profile) HasLineComment() bool {
	return p.LineComment != ""
}

// HasBlockComment 判断是否支持块注释。
func (p Profile) HasBlockComment() bool {
	return p.BlockCommentOpen != "" && p.BlockCommentClose != ""
}

// IsQuote 判断字符是否为引号。
func (p Profile) IsQuote(c byte) bool {
	return c != 0 && strings.IndexByte(p.Quotes, c) >= 0
}

// IsZero 判断档案是否为零值（未初始化）。
func (p Profile) IsZero() bool {
	return p.ID == ""
}
