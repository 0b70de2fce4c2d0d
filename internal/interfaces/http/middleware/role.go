package middleware

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
)

// 角色
const (
	RoleAuthor = "author"
	RoleAdmin  = "admin"
)

// RequireRole 要求当前用户为指定角色之一。认证关闭时放行。
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetBool(ContextAuthDisabled) {
			c.Next()
			return
		}

		role := c.GetString(ContextRole)
		if role == "" {
			abortForbidden(c, "missing role in context")
			return
		}
		if !slices.Contains(roles, role) {
			abortForbidden(c, "role not allowed")
			return
		}

		c.Next()
	}
}

func abortForbidden(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
		"code":     http.StatusForbidden,
		"message":  msg,
		"trace_id": c.GetString("trace_id"),
	})
}
