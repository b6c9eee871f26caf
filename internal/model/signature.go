package model

// MethodSignature 是单行方法原型的分解结果。
//
// 各区间按字段声明顺序排列且互不重叠（空区间除外）。
// ArgumentList 与 TrailingSuffix 最先确定，其余部分从它们向前推导。
type MethodSignature struct {
	Text           string     `json:"text"`
	TemplateDecl   TokenRange `json:"template_decl"`
	InlineModifier TokenRange `json:"inline_modifier"`
	ReturnType     TokenRange `json:"return_type"`
	QualifiedName  TokenRange `json:"qualified_name"`
	TypeQualifier  TokenRange `json:"type_qualifier"`
	BareName       TokenRange `json:"bare_name"`
	ArgumentList   TokenRange `json:"argument_list"`
	TrailingSuffix TokenRange `json:"trailing_suffix"`
}

// Part 取出某个区间对应的文本。
func (s *MethodSignature) Part(r TokenRange) string {
	return r.Text(s.Text)
}

// SignatureParts 是 MethodSignature 的纯文本视图，便于输出与测试比对。
type SignatureParts struct {
	TemplateDecl   string `json:"template_decl" yaml:"template_decl"`
	InlineModifier string `json:"inline_modifier" yaml:"inline_modifier"`
	ReturnType     string `json:"return_type" yaml:"return_type"`
	QualifiedName  string `json:"qualified_name" yaml:"qualified_name"`
	TypeQualifier  string `json:"type_qualifier" yaml:"type_qualifier"`
	BareName       string `json:"bare_name" yaml:"bare_name"`
	ArgumentList   string `json:"argument_list" yaml:"argument_list"`
	TrailingSuffix string `json:"trailing_suffix" yaml:"trailing_suffix"`
}

// Parts 把全部区间展开成文本。
func (s *MethodSignature) Parts() SignatureParts {
	return SignatureParts{
		TemplateDecl:   s.Part(s.TemplateDecl),
		InlineModifier: s.Part(s.InlineModifier),
		ReturnType:     s.Part(s.ReturnType),
		QualifiedName:  s.Part(s.QualifiedName),
		TypeQualifier:  s.Part(s.TypeQualifier),
		BareName:       s.Part(s.BareName),
		ArgumentList:   s.Part(s.ArgumentList),
		TrailingSuffix: s.Part(s.TrailingSuffix),
	}
}

// Result 是格式化引擎每个操作的返回值。
// Diagnostics 与操作是否最终成功无关：即便通过回退成功，也可能携带诊断。
type Result struct {
	Text        string   `json:"text"`
	Diagnostics []string `json:"diagnostics,omitempty"`
}
