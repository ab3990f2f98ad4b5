package main

import (
	"os"

	"latexgen/cmd"
)

// @title        LaTeX Generator API
// @version      1.0
// @description  自然语言生成 LaTeX 与 LaTeX 渲染 SVG 的中继服务
// @BasePath     /
func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
