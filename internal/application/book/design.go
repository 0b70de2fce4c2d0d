package book

import (
	"context"
	"strings"

	"bookforge-api/internal/application/generation"
	"bookforge-api/internal/domain/entity"
	wfmodel "bookforge-api/internal/workflow/model"
	apperrors "bookforge-api/pkg/errors"
	"bookforge-api/pkg/logger"
)

// Design 当前封面设计，未保存过时返回默认值
func (s *Service) Design(ctx context.Context) (*entity.BookDesign, error) {
	design, found, err := s.store.BookDesign(ctx)
	if err != nil {
		return nil, err
	}
	if !found {
		draft, _, err := s.store.CurrentBook(ctx)
		if err != nil {
			return nil, err
		}
		design = entity.DefaultBookDesign(draft)
	}
	return design, nil
}

// SaveDesign 保存封面设计。请求未带生成封面时保留已有的生成封面。
func (s *Service) SaveDesign(ctx context.Context, in *entity.BookDesign) (*entity.BookDesign, error) {
	if in.SelectedTemplate >= len(entity.DesignTemplates()) {
		return nil, apperrors.ErrInvalidParam.WithDetail("unknown template")
	}
	return s.store.UpdateBookDesign(ctx, func(d *entity.BookDesign) error {
		generated := d.GeneratedCoverURL
		*d = *in
		if d.GeneratedCoverURL == nil {
			d.GeneratedCoverURL = generated
		}
		return nil
	})
}

// Templates 内置模板
func (s *Service) Templates() []entity.DesignTemplate {
	return entity.DesignTemplates()
}

// CoverResult 封面生成结果
type CoverResult struct {
	Design   *entity.CoverDesign
	CoverURL string
	Rendered bool
}

// GenerateCover 生成封面描述并渲染图片。渲染器未启用或渲染失败时使用占位图。
func (s *Service) GenerateCover(ctx context.Context) (*CoverResult, error) {
	design, err := s.Design(ctx)
	if err != nil {
		return nil, err
	}
	draft, _, err := s.store.CurrentBook(ctx)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(design.Title) == "" || strings.TrimSpace(draft.Idea) == "" {
		return nil, apperrors.ErrInvalidParam.WithDetail("book title and idea are required to generate a cover")
	}

	result := &CoverResult{CoverURL: entity.PlaceholderCoverURL}
	err = s.runner.Run(ctx, generation.OpCoverDesign, func(ctx context.Context) error {
		cover, err := s.cover.Invoke(ctx, &wfmodel.CoverDesignInput{
			Title:                 design.Title,
			Idea:                  draft.Idea,
			Genre:                 draft.Genre,
			DesignRecommendations: design.DesignRecommendations,
		})
		if err != nil {
			return err
		}
		result.Design = cover
		if err := s.store.SaveGeneratedCoverDesign(ctx, cover); err != nil {
			return err
		}
		if url, ok := s.renderCover(ctx, cover.ImagePrompt); ok {
			result.CoverURL = url
			result.Rendered = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 占位图不写回 generatedCoverUrl，否则会遮住所选模板封面
	if !result.Rendered {
		return result, nil
	}
	coverURL := result.CoverURL
	if _, err := s.store.UpdateBookDesign(ctx, func(d *entity.BookDesign) error {
		d.GeneratedCoverURL = &coverURL
		return nil
	}); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Service) renderCover(ctx context.Context, prompt string) (string, bool) {
	if s.renderer == nil || s.files == nil {
		logger.Warn(ctx, "image renderer disabled, using placeholder cover")
		return "", false
	}
	img, err := s.renderer.RenderImage(ctx, prompt)
	if err != nil {
		logger.Error(ctx, "cover render failed, using placeholder cover", err)
		return "", false
	}
	url, err := s.files.Save(ctx, img.Data, img.MimeType)
	if err != nil {
		logger.Error(ctx, "failed to store rendered cover", err)
		return "", false
	}
	return url, true
}

// Preview 预览数据
type Preview struct {
	Design     *entity.BookDesign
	CoverURL   string
	Chapters   []entity.Chapter
	TotalPages int
	WordCount  int
}

// Preview 组装书籍预览，封面优先级为生成封面、所选模板、占位图
func (s *Service) Preview(ctx context.Context, bookID string) (*Preview, error) {
	list, err := s.Chapters(ctx, bookID)
	if err != nil {
		return nil, err
	}
	design, err := s.Design(ctx)
	if err != nil {
		return nil, err
	}
	words := 0
	for i := range list.Chapters {
		words += list.Chapters[i].WordCount
	}
	return &Preview{
		Design:     design,
		CoverURL:   design.CoverURL(),
		Chapters:   list.Chapters,
		TotalPages: len(list.Chapters) + 1,
		WordCount:  words,
	}, nil
}
