package languages

// htmlProfile 返回 HTML/XML 的词法档案。
// 只有 <!-- --> 块注释；属性值使用单/双引号且没有转义；标签名不区分大小写。
func htmlProfile() Profile {
	return Profile{
		ID:                HTML,
		Name:              "HTML/XML",
		Extensions:        []string{".html", ".htm", ".xhtml", ".xml", ".xsl", ".xslt", ".xaml", ".svg"},
		BlockCommentOpen:  "<!--",
		BlockCommentClose: "-->",
		Quotes:            "\"'",
		CaseSensitive:     false,
		EnryNames:         []string{"HTML", "XML", "XSLT", "SVG"},
	}
}
