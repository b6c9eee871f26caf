package languages

// cFamilyProfile 返回 C/C++ 及其衍生语言的词法档案。
// 单行注释 //，块注释 /* */（不嵌套），反斜杠转义，区分大小写。
func cFamilyProfile() Profile {
	return Profile{
		ID:   CFamily,
		Name: "C/C++",
		Extensions: []string{
			".c", ".cc", ".cpp", ".cxx", ".h", ".hh", ".hpp", ".hxx", ".inl",
			".cs", ".java", ".js", ".ts",
		},
		LineComment:       "//",
		BlockCommentOpen:  "/*",
		BlockCommentClose: "*/",
		Quotes:            "\"'",
		Escape:            '\\',
		CaseSensitive:     true,
		ScopeSeparator:    "::",
		LineContinuation:  "\\",
		HasCasts:          true,
		EnryNames:         []string{"C", "C++", "C#", "Objective-C", "Objective-C++", "Java", "JavaScript", "TypeScript"},
	}
}
