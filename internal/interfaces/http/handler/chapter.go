package handler

import (
	"github.com/gin-gonic/gin"

	"bookforge-api/internal/application/book"
	"bookforge-api/internal/interfaces/http/dto"
)

// ChapterHandler 章节编辑器
type ChapterHandler struct {
	books *book.Service
}

// NewChapterHandler 创建章节处理器
func NewChapterHandler(books *book.Service) *ChapterHandler {
	return &ChapterHandler{books: books}
}

// List 章节列表
// @Summary 章节列表
// @Description 没有草稿时返回示例章节（found=false）
// @Tags Chapters
// @Produce json
// @Param bookId path string true "书籍 ID（current）"
// @Success 200 {object} dto.Response[dto.ChapterListResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/books/{bookId}/chapters [get]
func (h *ChapterHandler) List(c *gin.Context) {
	bookID := dto.BindBookID(c)
	list, err := h.books.Chapters(c.Request.Context(), bookID)
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, dto.ToChapterListResponse(bookID, list))
}

// Add 追加章节
// @Summary 追加章节
// @Tags Chapters
// @Accept json
// @Produce json
// @Param body body dto.AddChapterRequest false "标题"
// @Success 201 {object} dto.Response[dto.ChapterResponse]
// @Router /v1/books/current/chapters [post]
func (h *ChapterHandler) Add(c *gin.Context) {
	var req dto.AddChapterRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}
	index, ch, err := h.books.AddChapter(c.Request.Context(), req.Title)
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Created(c, dto.ToChapterResponse(index, ch))
}

// Update 编辑章节
// @Summary 编辑章节
// @Description 内容变化后重新计算字数和状态，显式标记优先
// @Tags Chapters
// @Accept json
// @Produce json
// @Param index path int true "章节下标"
// @Param body body dto.UpdateChapterRequest true "修改内容"
// @Success 200 {object} dto.Response[dto.ChapterResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/books/current/chapters/{index} [put]
func (h *ChapterHandler) Update(c *gin.Context) {
	index, ok := bindIndex(c)
	if !ok {
		return
	}
	var req dto.UpdateChapterRequest
	if !bindJSON(c, &req) {
		return
	}
	ch, err := h.books.UpdateChapter(c.Request.Context(), index, book.ChapterPatch{Title: req.Title, Content: req.Content})
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, dto.ToChapterResponse(index, ch))
}

// SetStatus 标记章节状态
// @Summary 标记章节状态
// @Description draft/completed 为显式标记，auto 恢复按内容推导
// @Tags Chapters
// @Accept json
// @Produce json
// @Param index path int true "章节下标"
// @Param body body dto.ChapterStatusRequest true "状态"
// @Success 200 {object} dto.Response[dto.ChapterResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Router /v1/books/current/chapters/{index}/status [put]
func (h *ChapterHandler) SetStatus(c *gin.Context) {
	index, ok := bindIndex(c)
	if !ok {
		return
	}
	var req dto.ChapterStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	ch, err := h.books.SetChapterStatus(c.Request.Context(), index, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, dto.ToChapterResponse(index, ch))
}

// Generate AI 生成章节
// @Summary AI 生成章节
// @Tags Chapters
// @Accept json
// @Produce json
// @Param index path int true "章节下标"
// @Param body body dto.GenerateChapterRequest true "章节想法"
// @Success 200 {object} dto.Response[dto.ChapterResponse]
// @Failure 409 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /v1/books/current/chapters/{index}/generate [post]
func (h *ChapterHandler) Generate(c *gin.Context) {
	index, ok := bindIndex(c)
	if !ok {
		return
	}
	var req dto.GenerateChapterRequest
	if !bindJSON(c, &req) {
		return
	}
	ch, err := h.books.GenerateChapter(c.Request.Context(), index, req.Idea)
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, dto.ToChapterResponse(index, ch))
}

// Polish 润色章节
// @Summary 润色章节
// @Tags Chapters
// @Produce json
// @Param index path int true "章节下标"
// @Success 200 {object} dto.Response[dto.ChapterResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /v1/books/current/chapters/{index}/polish [post]
func (h *ChapterHandler) Polish(c *gin.Context) {
	index, ok := bindIndex(c)
	if !ok {
		return
	}
	ch, err := h.books.PolishChapter(c.Request.Context(), index)
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, dto.ToChapterResponse(index, ch))
}
