// Package id 生成请求 ID
package id

import (
	"strings"

	"github.com/google/uuid"
)

// New 生成新的请求 ID（UUID v4 字符串）
func New() string {
	return uuid.New().String()
}

// IsValid 判断是否为合法的 UUID
func IsValid(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Normalize 沿用调用方传入的合法 ID（统一为小写规范形式），否则生成新的
func Normalize(candidate string) string {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return New()
	}
	parsed, err := uuid.Parse(candidate)
	if err != nil {
		return New()
	}
	return parsed.String()
}
