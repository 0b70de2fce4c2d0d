package book

import (
	"context"
	"strings"

	"bookforge-api/internal/application/generation"
	"bookforge-api/internal/domain/entity"
	wfmodel "bookforge-api/internal/workflow/model"
	apperrors "bookforge-api/pkg/errors"
	"bookforge-api/pkg/logger"
	"bookforge-api/pkg/metrics"
)

// GenerateDraftInput 创意录入
type GenerateDraftInput struct {
	Idea     string
	Topic    string
	Audience string
	Genre    string
	Language string
}

// GenerateDraft 生成整书内容并保存为当前草稿
func (s *Service) GenerateDraft(ctx context.Context, in GenerateDraftInput) (*entity.BookDraft, error) {
	idea := strings.TrimSpace(in.Idea)
	if idea == "" {
		return nil, apperrors.ErrInvalidParam.WithDetail("idea is required")
	}
	language := strings.TrimSpace(in.Language)
	if language == "" {
		language = "English"
	}
	topic := strings.TrimSpace(in.Topic)
	if topic == "" {
		topic = idea
	}

	var draft *entity.BookDraft
	err := s.runner.Run(ctx, generation.OpBookContent, func(ctx context.Context) error {
		content, err := s.content.Invoke(ctx, &wfmodel.BookContentInput{
			Idea:     idea,
			Audience: in.Audience,
			Genre:    in.Genre,
			Language: language,
		})
		if err != nil {
			return err
		}

		draft = &entity.BookDraft{
			Idea:     idea,
			Topic:    topic,
			Audience: in.Audience,
			Genre:    in.Genre,
			Language: language,
			Outline:  content.Outline,
			Chapters: make([]entity.Chapter, 0, len(content.Chapters)),
		}
		for _, ch := range content.Chapters {
			c := entity.NewChapter(ch.Title, ch.Content)
			metrics.ChapterWordCount.Observe(float64(c.WordCount))
			draft.Chapters = append(draft.Chapters, c)
		}
		return s.store.SaveCurrentBook(ctx, draft)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "book draft generated",
		"outline_entries", len(draft.Outline),
		"chapters", len(draft.Chapters),
		"words", draft.TotalWords(),
	)
	return draft, nil
}

// CurrentBook 当前草稿，未生成过时返回默认草稿且 found 为 false
func (s *Service) CurrentBook(ctx context.Context) (*entity.BookDraft, bool, error) {
	return s.store.CurrentBook(ctx)
}

// ReplaceOutline 整体替换大纲
func (s *Service) ReplaceOutline(ctx context.Context, outline []string) (*entity.BookDraft, error) {
	draft, err := s.store.UpdateCurrentBook(ctx, func(d *entity.BookDraft) error {
		return d.ReplaceOutline(outline)
	})
	return draft, translateEntityError(err)
}

// AddOutlineEntry 追加大纲条目
func (s *Service) AddOutlineEntry(ctx context.Context, entry string) (*entity.BookDraft, error) {
	return s.store.UpdateCurrentBook(ctx, func(d *entity.BookDraft) error {
		d.AddOutlineEntry(strings.TrimSpace(entry))
		return nil
	})
}

// RemoveOutlineEntry 删除大纲条目
func (s *Service) RemoveOutlineEntry(ctx context.Context, index int) (*entity.BookDraft, error) {
	draft, err := s.store.UpdateCurrentBook(ctx, func(d *entity.BookDraft) error {
		return d.RemoveOutlineEntry(index)
	})
	return draft, translateEntityError(err)
}
