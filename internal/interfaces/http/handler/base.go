// Package handler 提供 HTTP 请求处理器
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bookforge-api/internal/interfaces/http/dto"
	apperrors "bookforge-api/pkg/errors"
	"bookforge-api/pkg/logger"
)

// respondError 将应用错误映射为统一错误响应，5xx 才记录错误日志
func respondError(c *gin.Context, err error) {
	appErr := apperrors.AsAppError(err)
	status := appErr.HTTPStatus
	message := appErr.Message
	if appErr.Code == apperrors.CodeUnknown {
		status = http.StatusInternalServerError
		message = "internal server error"
	}
	if status >= http.StatusInternalServerError {
		logger.Error(c.Request.Context(), "request failed", err,
			"code", appErr.Code,
			"path", c.FullPath(),
		)
	}

	dto.ErrorWithDetail(c, status, message, &dto.ErrorDetail{
		ErrorCode: string(appErr.Code),
		Details:   appErr.Detail,
	})
}

// bindJSON 绑定请求体，失败时直接返回 400
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// bindIndex 读取路径中的下标，失败时直接返回 400
func bindIndex(c *gin.Context) (int, bool) {
	index, ok := dto.BindIndex(c, "index")
	if !ok {
		dto.BadRequest(c, "index must be a non-negative integer")
	}
	return index, ok
}
