package middleware

import (
	"net/http"
	"regexp"

	"bookforge-api/internal/application/storage"
	"bookforge-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

const (
	// ProfileIDHeader 认证关闭时用于区分用户的请求头
	ProfileIDHeader = "X-Profile-ID"
	// ContextProfileID gin.Context 中的命名空间键
	ContextProfileID = "profile_id"
)

var profileIDPattern = regexp.MustCompile(`^[A-Za-z0-9_.@-]{1,128}$`)

// Profile 解析当前请求的存储命名空间：
// 已认证用户用 user_id，否则取 X-Profile-ID，都没有时用默认命名空间。
func Profile(defaultNamespace string) gin.HandlerFunc {
	if defaultNamespace == "" {
		defaultNamespace = storage.DefaultNamespace
	}

	return func(c *gin.Context) {
		profileID := c.GetString(ContextUserID)
		if profileID == "" {
			profileID = c.GetHeader(ProfileIDHeader)
		}
		if profileID == "" {
			profileID = defaultNamespace
		}
		if !profileIDPattern.MatchString(profileID) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"code":     http.StatusBadRequest,
				"message":  "invalid profile id",
				"trace_id": c.GetString("trace_id"),
			})
			return
		}

		c.Set(ContextProfileID, profileID)
		ctx := storage.WithNamespace(c.Request.Context(), profileID)
		ctx = logger.WithContext(ctx, logger.ProfileIDKey, profileID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
