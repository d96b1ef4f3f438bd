// Package middleware 提供 HTTP 中间件
package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"ai-course-builder-api/internal/interfaces/http/dto"
	"ai-course-builder-api/pkg/logger"
	"ai-course-builder-api/pkg/utils"
)

// ContextUserID gin.Context 中保存当前用户 ID 的键
const ContextUserID = "user_id"

// Auth 认证中间件，接受 Authorization: Bearer <token>
func Auth(jwtManager *utils.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			dto.Unauthorized(c, "missing authorization header")
			return
		}

		scheme, token, ok := strings.Cut(authHeader, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			dto.Unauthorized(c, "invalid authorization format")
			return
		}

		claims, err := jwtManager.ParseToken(strings.TrimSpace(token))
		if err != nil {
			msg := "invalid token"
			if errors.Is(err, utils.ErrExpiredToken) {
				msg = "token expired"
			}
			dto.Unauthorized(c, msg)
			return
		}

		userID := claims.UserID()
		if userID == "" {
			dto.Unauthorized(c, "invalid token")
			return
		}

		// 注入用户信息到 Context
		c.Set(ContextUserID, userID)
		ctx := logger.WithContext(c.Request.Context(), logger.UserIDKey, userID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// UserID 返回认证中间件注入的用户 ID
func UserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}
