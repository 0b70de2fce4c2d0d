package handler

import (
	"github.com/gin-gonic/gin"

	"bookforge-api/internal/application/book"
	"bookforge-api/internal/interfaces/http/dto"
)

// BookHandler 书稿处理器：创意录入、大纲审阅、预览
type BookHandler struct {
	books *book.Service
}

// NewBookHandler 创建书稿处理器
func NewBookHandler(books *book.Service) *BookHandler {
	return &BookHandler{books: books}
}

// Generate 根据创意生成整书
// @Summary 生成书稿
// @Description 调用生成模型产出大纲与章节，保存为当前草稿
// @Tags Books
// @Accept json
// @Produce json
// @Param body body dto.GenerateBookRequest true "创意"
// @Success 200 {object} dto.Response[dto.BookDraftResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /v1/books/current/generate [post]
func (h *BookHandler) Generate(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.GenerateBookRequest
	if !bindJSON(c, &req) {
		return
	}

	draft, err := h.books.GenerateDraft(ctx, book.GenerateDraftInput{
		Idea:     req.Idea,
		Topic:    req.Topic,
		Audience: req.Audience,
		Genre:    req.Genre,
		Language: req.Language,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, dto.ToBookDraftResponse(draft, true))
}

// GetCurrent 获取当前草稿
// @Summary 获取当前草稿
// @Tags Books
// @Produce json
// @Success 200 {object} dto.Response[dto.BookDraftResponse]
// @Router /v1/books/current [get]
func (h *BookHandler) GetCurrent(c *gin.Context) {
	draft, found, err := h.books.CurrentBook(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, dto.ToBookDraftResponse(draft, found))
}

// ReplaceOutline 替换大纲
// @Summary 替换大纲
// @Tags Books
// @Accept json
// @Produce json
// @Param body body dto.ReplaceOutlineRequest true "大纲"
// @Success 200 {object} dto.Response[dto.BookDraftResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/books/current/outline [put]
func (h *BookHandler) ReplaceOutline(c *gin.Context) {
	var req dto.ReplaceOutlineRequest
	if !bindJSON(c, &req) {
		return
	}
	draft, err := h.books.ReplaceOutline(c.Request.Context(), req.Outline)
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, dto.ToBookDraftResponse(draft, true))
}

// AddOutlineEntry 追加大纲条目
// @Summary 追加大纲条目
// @Tags Books
// @Accept json
// @Produce json
// @Param body body dto.AddOutlineEntryRequest false "条目"
// @Success 200 {object} dto.Response[dto.BookDraftResponse]
// @Router /v1/books/current/outline [post]
func (h *BookHandler) AddOutlineEntry(c *gin.Context) {
	var req dto.AddOutlineEntryRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}
	draft, err := h.books.AddOutlineEntry(c.Request.Context(), req.Entry)
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, dto.ToBookDraftResponse(draft, true))
}

// RemoveOutlineEntry 删除大纲条目
// @Summary 删除大纲条目
// @Tags Books
// @Produce json
// @Param index path int true "条目下标"
// @Success 200 {object} dto.Response[dto.BookDraftResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Router /v1/books/current/outline/{index} [delete]
func (h *BookHandler) RemoveOutlineEntry(c *gin.Context) {
	index, ok := bindIndex(c)
	if !ok {
		return
	}
	draft, err := h.books.RemoveOutlineEntry(c.Request.Context(), index)
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, dto.ToBookDraftResponse(draft, true))
}

// Preview 书籍预览
// @Summary 书籍预览
// @Tags Books
// @Produce json
// @Param bookId path string true "书籍 ID（current）"
// @Success 200 {object} dto.Response[dto.PreviewResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/books/{bookId}/preview [get]
func (h *BookHandler) Preview(c *gin.Context) {
	preview, err := h.books.Preview(c.Request.Context(), dto.BindBookID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, dto.ToPreviewResponse(preview))
}
