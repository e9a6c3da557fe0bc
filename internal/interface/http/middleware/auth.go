package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/redis"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
	"github.com/xiebiao/bookshop/pkg/jwt"
	"github.com/xiebiao/bookshop/pkg/response"
)

// AuthMiddleware JWT认证中间件
// 从Header提取Token,校验签名与黑名单,客户信息注入Context
type AuthMiddleware struct {
	jwtManager   *jwt.Manager
	sessionStore *redis.SessionStore
}

// NewAuthMiddleware 创建认证中间件
func NewAuthMiddleware(jwtManager *jwt.Manager, sessionStore *redis.SessionStore) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager:   jwtManager,
		sessionStore: sessionStore,
	}
}

// RequireAuth 要求登录
// 使用方式:
//
//	authorized := r.Group("/api/v1")
//	authorized.Use(authMiddleware.RequireAuth())
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Authorization: Bearer <token>
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.ErrorWithCode(c, apperrors.ErrCodeUnauthorized, "请先登录")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.ErrorWithCode(c, apperrors.ErrCodeInvalidToken, "Token格式错误")
			c.Abort()
			return
		}
		tokenString := parts[1]

		// 已登出或被强制失效的Token在黑名单中
		isBlacklisted, err := m.sessionStore.IsInBlacklist(c.Request.Context(), tokenString)
		if err != nil {
			response.ErrorWithCode(c, apperrors.ErrCodeInternal, "验证Token失败")
			c.Abort()
			return
		}
		if isBlacklisted {
			response.ErrorWithCode(c, apperrors.ErrCodeTokenExpired, "Token已失效,请重新登录")
			c.Abort()
			return
		}

		claims, err := m.jwtManager.ParseToken(tokenString)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set("customer_id", claims.CustomerID)
		c.Set("email", claims.Email)
		c.Set("token", tokenString)
		c.Next()
	}
}

// GetCustomerID 从Context获取当前登录客户ID(未登录返回0)
func GetCustomerID(c *gin.Context) uint {
	if v, exists := c.Get("customer_id"); exists {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}

// GetEmail 从Context获取当前登录客户邮箱
func GetEmail(c *gin.Context) string {
	if v, exists := c.Get("email"); exists {
		if e, ok := v.(string); ok {
			return e
		}
	}
	return ""
}

// GetToken 从Context获取当前请求的原始Token(登出拉黑用)
func GetToken(c *gin.Context) string {
	if v, exists := c.Get("token"); exists {
		if t, ok := v.(string); ok {
			return t
		}
	}
	return ""
}

// MustGetCustomerID 获取客户ID,仅用于已通过RequireAuth的Handler
func MustGetCustomerID(c *gin.Context) uint {
	id := GetCustomerID(c)
	if id == 0 {
		panic("customer_id not found in context")
	}
	return id
}
