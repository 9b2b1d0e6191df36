package jwtmw

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// ContextSubject はトークンの subject を保存するginコンテキストのキーです。
const ContextSubject = "subject"

// RefreshQueryParam は強制更新を要求するクエリパラメータです。
const RefreshQueryParam = "refresh"

// RefreshGuard はリモートAPIの呼び出し枠を消費する強制更新（?refresh=true）を保護するミドルウェアを返します。
// secret が空の場合、または強制更新でないリクエストはそのまま通過させます。
func RefreshGuard(secret string) gin.HandlerFunc {
	key := []byte(secret)
	return func(c *gin.Context) {
		if len(key) == 0 || !WantsRefresh(c) {
			c.Next()
			return
		}

		// 1. Authorization ヘッダーからトークンを取り出す
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		tokenStr := strings.TrimPrefix(auth, "Bearer ")

		// 2. 署名を検証する（HMACのみ許可）
		var claims Claims
		token, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return key, nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		// 3. スコープを確認する
		if claims.Scope != ScopeRefresh {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "token lacks refresh scope"})
			return
		}

		c.Set(ContextSubject, claims.Subject)
		c.Next()
	}
}

// WantsRefresh はリクエストが強制更新を要求しているかを返します。解釈できない値は false です。
func WantsRefresh(c *gin.Context) bool {
	v, err := strconv.ParseBool(c.Query(RefreshQueryParam))
	return err == nil && v
}
