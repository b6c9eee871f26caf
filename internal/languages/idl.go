package languages

// idlProfile 返回 IDL（MIDL/ODL）的词法档案。
// 注释与 C 相同，但只有双引号字符串，也没有强制转换语法。
func idlProfile() Profile {
	return Profile{
		ID:                IDL,
		Name:              "IDL",
		Extensions:        []string{".idl", ".odl"},
		LineComment:       "//",
		BlockCommentOpen:  "/*",
		BlockCommentClose: "*/",
		Quotes:            "\"",
		Escape:            '\\',
		CaseSensitive:     true,
		ScopeSeparator:    "::",
		LineContinuation:  "\\",
		EnryNames:         []string{"WebIDL"},
	}
}
