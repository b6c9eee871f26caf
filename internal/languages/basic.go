package languages

// basicProfile 返回类 Visual Basic 方言的词法档案。
// 单引号是注释而不是引号；字符串内用 "" 表示一个双引号；关键字不区分大小写。
// 该方言没有块注释。
func basicProfile() Profile {
	return Profile{
		ID:                 Basic,
		Name:               "Basic",
		Extensions:         []string{".bas", ".vb", ".vbs", ".cls", ".frm"},
		LineComment:        "'",
		Quotes:             "\"",
		DoubledQuoteEscape: true,
		CaseSensitive:      false,
		ScopeSeparator:     ".",
		LineContinuation:   " _",
		EnryNames:          []string{"Visual Basic .NET", "Visual Basic 6.0", "VBA", "VBScript"},
	}
}
