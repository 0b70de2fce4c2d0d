package dto

import (
	"bookforge-api/internal/application/book"
	"bookforge-api/internal/domain/entity"
)

// GenerateBookRequest 创意录入
type GenerateBookRequest struct {
	Idea     string `json:"idea" binding:"required,max=5000"`
	Topic    string `json:"topic" binding:"max=500"`
	Audience string `json:"audience" binding:"max=200"`
	Genre    string `json:"genre" binding:"max=100"`
	Language string `json:"language" binding:"max=50"`
}

// ChapterResponse 章节
type ChapterResponse struct {
	Index          int    `json:"index"`
	Title          string `json:"title"`
	Content        string `json:"content"`
	Status         string `json:"status"`
	StatusExplicit bool   `json:"statusExplicit"`
	WordCount      int    `json:"wordCount"`
}

// ToChapterResponse 转换章节
func ToChapterResponse(index int, c *entity.Chapter) *ChapterResponse {
	return &ChapterResponse{
		Index:          index,
		Title:          c.Title,
		Content:        c.Content,
		Status:         string(c.Status),
		StatusExplicit: c.StatusExplicit,
		WordCount:      c.WordCount,
	}
}

func toChapterResponses(chapters []entity.Chapter) []*ChapterResponse {
	out := make([]*ChapterResponse, 0, len(chapters))
	for i := range chapters {
		out = append(out, ToChapterResponse(i, &chapters[i]))
	}
	return out
}

// BookDraftResponse 当前书稿
type BookDraftResponse struct {
	Found      bool               `json:"found"`
	Idea       string             `json:"idea"`
	Topic      string             `json:"topic"`
	Audience   string             `json:"audience"`
	Genre      string             `json:"genre"`
	Language   string             `json:"language"`
	Title      string             `json:"title"`
	Outline    []string           `json:"outline"`
	Chapters   []*ChapterResponse `json:"chapters"`
	TotalWords int                `json:"totalWords"`
	Progress   map[string]int     `json:"progress"`
}

// ToBookDraftResponse 转换书稿
func ToBookDraftResponse(d *entity.BookDraft, found bool) *BookDraftResponse {
	progress := make(map[string]int)
	for status, n := range d.ProgressCounts() {
		progress[string(status)] = n
	}
	return &BookDraftResponse{
		Found:      found,
		Idea:       d.Idea,
		Topic:      d.Topic,
		Audience:   d.Audience,
		Genre:      d.Genre,
		Language:   d.Language,
		Title:      d.DisplayTitle(),
		Outline:    d.Outline,
		Chapters:   toChapterResponses(d.Chapters),
		TotalWords: d.TotalWords(),
		Progress:   progress,
	}
}

// ReplaceOutlineRequest 替换大纲
type ReplaceOutlineRequest struct {
	Outline []string `json:"outline" binding:"required"`
}

// AddOutlineEntryRequest 追加大纲条目，entry 为空时使用默认文案
type AddOutlineEntryRequest struct {
	Entry string `json:"entry" binding:"max=500"`
}

// ChapterListResponse 章节列表
type ChapterListResponse struct {
	BookID   string             `json:"bookId"`
	Title    string             `json:"title"`
	Found    bool               `json:"found"`
	Chapters []*ChapterResponse `json:"chapters"`
}

// ToChapterListResponse 转换章节列表
func ToChapterListResponse(bookID string, l *book.ChapterList) *ChapterListResponse {
	return &ChapterListResponse{
		BookID:   bookID,
		Title:    l.Title,
		Found:    l.Found,
		Chapters: toChapterResponses(l.Chapters),
	}
}

// AddChapterRequest 追加章节
type AddChapterRequest struct {
	Title string `json:"title" binding:"max=300"`
}

// UpdateChapterRequest 编辑章节，缺省字段不修改
type UpdateChapterRequest struct {
	Title   *string `json:"title,omitempty" binding:"omitempty,max=300"`
	Content *string `json:"content,omitempty"`
}

// ChapterStatusRequest 标记章节状态
type ChapterStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=draft completed auto"`
}

// GenerateChapterRequest AI 章节生成
type GenerateChapterRequest struct {
	Idea string `json:"idea" binding:"required,max=5000"`
}

// BookDesignRequest 保存封面设计
type BookDesignRequest struct {
	Title                 string  `json:"title" binding:"required,max=300"`
	Subtitle              string  `json:"subtitle" binding:"max=300"`
	Author                string  `json:"author" binding:"required,max=200"`
	SelectedTemplate      int     `json:"selectedTemplate" binding:"min=0"`
	GeneratedCoverURL     *string `json:"generatedCoverUrl,omitempty" binding:"omitempty,max=2048"`
	DesignRecommendations string  `json:"designRecommendations" binding:"max=2000"`
}

// ToEntity 转换为领域对象
func (r *BookDesignRequest) ToEntity() *entity.BookDesign {
	return &entity.BookDesign{
		Title:                 r.Title,
		Subtitle:              r.Subtitle,
		Author:                r.Author,
		SelectedTemplate:      r.SelectedTemplate,
		GeneratedCoverURL:     r.GeneratedCoverURL,
		DesignRecommendations: r.DesignRecommendations,
	}
}

// BookDesignResponse 封面设计
type BookDesignResponse struct {
	*entity.BookDesign
	CoverURL string `json:"coverUrl"`
}

// ToBookDesignResponse 转换封面设计
func ToBookDesignResponse(d *entity.BookDesign) *BookDesignResponse {
	return &BookDesignResponse{BookDesign: d, CoverURL: d.CoverURL()}
}

// CoverResponse 封面生成结果
type CoverResponse struct {
	ImagePrompt string `json:"imagePrompt"`
	ColorScheme string `json:"colorScheme"`
	Style       string `json:"style"`
	Typography  string `json:"typography"`
	CoverURL    string `json:"coverUrl"`
	Rendered    bool   `json:"rendered"`
}

// ToCoverResponse 转换封面生成结果
func ToCoverResponse(r *book.CoverResult) *CoverResponse {
	return &CoverResponse{
		ImagePrompt: r.Design.ImagePrompt,
		ColorScheme: r.Design.ColorScheme,
		Style:       r.Design.Style,
		Typography:  r.Design.Typography,
		CoverURL:    r.CoverURL,
		Rendered:    r.Rendered,
	}
}

// PreviewResponse 书籍预览
type PreviewResponse struct {
	Design     *entity.BookDesign `json:"design"`
	CoverURL   string             `json:"coverUrl"`
	Chapters   []*ChapterResponse `json:"chapters"`
	TotalPages int                `json:"totalPages"`
	WordCount  int                `json:"wordCount"`
}

// ToPreviewResponse 转换预览
func ToPreviewResponse(p *book.Preview) *PreviewResponse {
	return &PreviewResponse{
		Design:     p.Design,
		CoverURL:   p.CoverURL,
		Chapters:   toChapterResponses(p.Chapters),
		TotalPages: p.TotalPages,
		WordCount:  p.WordCount,
	}
}
