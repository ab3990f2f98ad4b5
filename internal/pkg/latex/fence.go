package latex

import (
	"strings"
)

const fence = "```"

// StripFences 去掉模型输出外层的 markdown 代码块标记
// 依次执行: 去首尾空白 -> 去开头的 ``` 或 ```latex -> 去结尾的 ``` -> 去首尾空白，
// 循环直到结果不再变化，因此 StripFences(StripFences(x)) == StripFences(x)
func StripFences(text string) string {
	for {
		next := stripOnce(text)
		if next == text {
			return next
		}
		text = next
	}
}

func stripOnce(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, fence) {
		text = strings.TrimPrefix(text, fence)
		text = trimLanguageTag(text)
		text = strings.TrimSpace(text)
	}

	if strings.HasSuffix(text, fence) {
		text = strings.TrimSuffix(text, fence)
		text = strings.TrimSpace(text)
	}

	return text
}

// trimLanguageTag 去掉紧跟在 ``` 后面的语言标记（latex、tex、tikz 等）
// 标记之后必须是空白或文本结尾，否则视为正文保留，例如 ```\begin{...}
func trimLanguageTag(text string) string {
	end := 0
	for end < len(text) && isTagByte(text[end], end == 0) {
		end++
	}
	if end == 0 {
		return text
	}
	if end == len(text) {
		return ""
	}
	switch text[end] {
	case ' ', '\t', '\r', '\n':
		return text[end:]
	}
	return text
}

func isTagByte(b byte, first bool) bool {
	switch {
	case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z':
		return true
	case first:
		return false
	case b >= '0' && b <= '9', b == '-', b == '_', b == '+':
		return true
	}
	return false
}
