// Package middleware はHTTPサーバー共通のginミドルウェアを提供します。
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader はリクエストIDのヘッダー名です。
const RequestIDHeader = "X-Request-ID"

// RequestIDKey はginコンテキストにリクエストIDを保存するキーです。
const RequestIDKey = "request_id"

// RequestID は各リクエストにIDを付与します。
// X-Request-ID ヘッダーがあればそれを使い、無ければUUIDを生成します。
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		c.Set(RequestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)
		c.Next()
	}
}

// GetRequestID はginコンテキストからリクエストIDを取り出します。無ければ空です。
func GetRequestID(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}
