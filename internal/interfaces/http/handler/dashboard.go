package handler

import (
	"github.com/gin-gonic/gin"

	"bookforge-api/internal/application/dashboard"
	"bookforge-api/internal/interfaces/http/dto"
	"bookforge-api/internal/interfaces/http/middleware"
)

// DashboardHandler 作者与管理员面板
type DashboardHandler struct {
	dashboards *dashboard.Service
}

// NewDashboardHandler 创建面板处理器
func NewDashboardHandler(dashboards *dashboard.Service) *DashboardHandler {
	return &DashboardHandler{dashboards: dashboards}
}

// Library 用户书架
// @Summary 我的书架
// @Tags Dashboard
// @Produce json
// @Success 200 {object} dto.Response[dto.LibraryResponse]
// @Router /v1/dashboard [get]
func (h *DashboardHandler) Library(c *gin.Context) {
	l, err := h.dashboards.Library(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, dto.ToLibraryResponse(l))
}

// Author 作者面板
// @Summary 作者面板
// @Tags Dashboard
// @Produce json
// @Param range query string false "7d|30d|90d|1y" default(30d)
// @Success 200 {object} dto.Response[dto.AuthorDashboardResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Router /v1/dashboard/author [get]
func (h *DashboardHandler) Author(c *gin.Context) {
	d, err := h.dashboards.Author(c.Request.Context(), c.Query("range"))
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, dto.ToAuthorDashboardResponse(d))
}

// Admin 管理员面板
// @Summary 管理员面板
// @Tags Admin
// @Produce json
// @Param q query string false "标题关键字"
// @Param status query string false "all|pending|approved|rejected"
// @Success 200 {object} dto.Response[dto.AdminDashboardResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /v1/admin/dashboard [get]
func (h *DashboardHandler) Admin(c *gin.Context) {
	d, err := h.dashboards.Admin(c.Request.Context(), c.Query("q"), c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, dto.ToAdminDashboardResponse(d))
}

// Approve 通过审核
// @Summary 通过审核
// @Tags Admin
// @Produce json
// @Param bookId path string true "书籍 ID"
// @Success 200 {object} dto.Response[dto.ModerationResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/admin/books/{bookId}/approve [post]
func (h *DashboardHandler) Approve(c *gin.Context) {
	m, err := h.dashboards.Approve(c.Request.Context(), dto.BindBookID(c), moderatorID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, dto.ToModerationResponse(m))
}

// Reject 拒绝审核
// @Summary 拒绝审核
// @Tags Admin
// @Accept json
// @Produce json
// @Param bookId path string true "书籍 ID"
// @Param body body dto.RejectBookRequest true "原因"
// @Success 200 {object} dto.Response[dto.ModerationResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/admin/books/{bookId}/reject [post]
func (h *DashboardHandler) Reject(c *gin.Context) {
	var req dto.RejectBookRequest
	if !bindJSON(c, &req) {
		return
	}
	m, err := h.dashboards.Reject(c.Request.Context(), dto.BindBookID(c), moderatorID(c), req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, dto.ToModerationResponse(m))
}

func moderatorID(c *gin.Context) string {
	if email := c.GetString(middleware.ContextEmail); email != "" {
		return email
	}
	return c.GetString(middleware.ContextProfileID)
}
