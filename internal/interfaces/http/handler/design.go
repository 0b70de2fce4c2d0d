package handler

import (
	"github.com/gin-gonic/gin"

	"bookforge-api/internal/application/book"
	"bookforge-api/internal/interfaces/http/dto"
)

// DesignHandler 封面设计
type DesignHandler struct {
	books *book.Service
}

// NewDesignHandler 创建封面设计处理器
func NewDesignHandler(books *book.Service) *DesignHandler {
	return &DesignHandler{books: books}
}

// Templates 内置模板
// @Summary 封面模板
// @Tags Design
// @Produce json
// @Success 200 {object} dto.Response[[]entity.DesignTemplate]
// @Router /v1/design/templates [get]
func (h *DesignHandler) Templates(c *gin.Context) {
	dto.SuccessWithList(c, h.books.Templates())
}

// Get 当前设计
// @Summary 获取封面设计
// @Tags Design
// @Produce json
// @Success 200 {object} dto.Response[dto.BookDesignResponse]
// @Router /v1/books/current/design [get]
func (h *DesignHandler) Get(c *gin.Context) {
	design, err := h.books.Design(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, dto.ToBookDesignResponse(design))
}

// Put 保存设计
// @Summary 保存封面设计
// @Tags Design
// @Accept json
// @Produce json
// @Param body body dto.BookDesignRequest true "设计"
// @Success 200 {object} dto.Response[dto.BookDesignResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /v1/books/current/design [put]
func (h *DesignHandler) Put(c *gin.Context) {
	var req dto.BookDesignRequest
	if !bindJSON(c, &req) {
		return
	}
	design, err := h.books.SaveDesign(c.Request.Context(), req.ToEntity())
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, dto.ToBookDesignResponse(design))
}

// GenerateCover 生成封面
// @Summary 生成封面
// @Description 生成封面描述并渲染图片，渲染不可用时返回占位图
// @Tags Design
// @Produce json
// @Success 200 {object} dto.Response[dto.CoverResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /v1/books/current/cover/generate [post]
func (h *DesignHandler) GenerateCover(c *gin.Context) {
	result, err := h.books.GenerateCover(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, dto.ToCoverResponse(result))
}
