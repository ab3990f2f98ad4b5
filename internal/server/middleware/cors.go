package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// CORS 跨域配置，允许任意来源
// 作用在 gin 引擎外层，预检请求不进入路由
func CORS() *cors.Cors {
	return cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{RequestIDHeader},
	})
}
