package latex

import "strings"

// Document 渲染服务使用的固定文档模板
// 片段原样放在 \begin{document} 与 \end{document} 之间
const (
	documentPreamble = "\\documentclass{article}\n" +
		"\\usepackage{tikz}\n" +
		"\\usepackage{amsmath}\n" +
		"\\pagestyle{empty}\n" +
		"\\begin{document}\n"
	documentEnd = "\n\\end{document}\n"
)

// WrapDocument 把 LaTeX 片段包装成完整文档
func WrapDocument(fragment string) string {
	var b strings.Builder
	b.Grow(len(documentPreamble) + len(fragment) + len(documentEnd))
	b.WriteString(documentPreamble)
	b.WriteString(fragment)
	b.WriteString(documentEnd)
	return b.String()
}
