// Package response はJSONレスポンスの共通形式を定義します。
package response

import "github.com/gin-gonic/gin"

// ErrorResponse はエラー時のレスポンスボディです。
type ErrorResponse struct {
	Error string `json:"error"`
}

// AbortWithError は status と message のエラーレスポンスを返し、以降のハンドラーを止めます。
func AbortWithError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Error: message})
}
