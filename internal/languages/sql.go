package languages

// sqlProfile 返回 SQL 的词法档案。
// 单行注释 --，块注释 /* */ 支持嵌套；字符串内 '' 与 "" 作为转义；不区分大小写。
func sqlProfile() Profile {
	return Profile{
		ID:                  SQL,
		Name:                "SQL",
		Extensions:          []string{".sql", ".ddl", ".pls", ".pks"},
		LineComment:         "--",
		BlockCommentOpen:    "/*",
		BlockCommentClose:   "*/",
		NestedBlockComments: true,
		Quotes:              "'\"",
		DoubledQuoteEscape:  true,
		CaseSensitive:       false,
		ScopeSeparator:      ".",
		EnryNames:           []string{"SQL", "PLSQL", "PLpgSQL", "TSQL", "SQLPL"},
	}
}
