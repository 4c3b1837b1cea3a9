package api

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	CookieAccessToken  = "access_token"
	ContextKeyCallerID = "bazar-caller-id"
)

// AuthRequired 驗證請求的存取權杖，並把呼叫者的使用者 ID 放進 context
// 沒有或無法驗證的權杖會在任何資料庫存取之前被擋下
func (impl *ServerImpl) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		const op = "AuthRequired"
		raw, _ := c.Cookie(CookieAccessToken)
		if raw == "" {
			if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
				raw = strings.TrimPrefix(header, "Bearer ")
			}
		}
		if raw == "" {
			respondUnauthorized(c)
			c.Abort()
			return
		}
		token, err := ParseAndValidateToken(raw, impl.config.Auth.PrivateKey)
		if err != nil {
			slog.Warn("Reject invalid access token", slog.String("op", op), slog.Any("error", err))
			respondUnauthorized(c)
			c.Abort()
			return
		}
		callerID, err := uuid.Parse(token.Subject)
		if err != nil {
			slog.Warn("Reject token with malformed subject", slog.String("op", op), slog.Any("error", err))
			respondUnauthorized(c)
			c.Abort()
			return
		}
		c.Set(ContextKeyCallerID, callerID)
		c.Next()
	}
}

// CallerID 從 context 取得通過驗證的呼叫者身份
func CallerID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(ContextKeyCallerID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}
