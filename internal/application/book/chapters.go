package book

import (
	"context"
	"fmt"
	"strings"

	"bookforge-api/internal/application/generation"
	"bookforge-api/internal/domain/entity"
	"bookforge-api/internal/domain/service"
	wfmodel "bookforge-api/internal/workflow/model"
	apperrors "bookforge-api/pkg/errors"
)

// 章节生成时草稿未提供的默认值
const (
	defaultAudience = "General audience"
	defaultGenre    = "Non-fiction"
	defaultLanguage = "English"
)

// ChapterList 章节列表，Found 为 false 时是示例章节
type ChapterList struct {
	Title    string
	Chapters []entity.Chapter
	Found    bool
}

// Chapters 列出书籍章节，仅支持当前草稿
func (s *Service) Chapters(ctx context.Context, bookID string) (*ChapterList, error) {
	if !entity.IsCurrentBookID(bookID) {
		return nil, apperrors.ErrBookNotFound.WithDetail(bookID)
	}
	draft, found, err := s.store.CurrentBook(ctx)
	if err != nil {
		return nil, err
	}
	if !found {
		return &ChapterList{Title: draft.DisplayTitle(), Chapters: entity.SampleChapters()}, nil
	}
	return &ChapterList{Title: draft.DisplayTitle(), Chapters: draft.Chapters, Found: true}, nil
}

// AddChapter 追加空章节
func (s *Service) AddChapter(ctx context.Context, title string) (int, *entity.Chapter, error) {
	var index int
	draft, err := s.store.UpdateCurrentBook(ctx, func(d *entity.BookDraft) error {
		index = d.AppendChapter(strings.TrimSpace(title))
		return nil
	})
	if err != nil {
		return 0, nil, err
	}
	return index, &draft.Chapters[index], nil
}

// ChapterPatch 章节编辑，nil 字段保持不变
type ChapterPatch struct {
	Title   *string
	Content *string
}

// UpdateChapter 编辑标题或内容，状态按显式标记优先重新计算
func (s *Service) UpdateChapter(ctx context.Context, index int, patch ChapterPatch) (*entity.Chapter, error) {
	return s.mutateChapter(ctx, index, func(c *entity.Chapter) error {
		if patch.Title != nil {
			c.Title = *patch.Title
		}
		if patch.Content != nil {
			c.SetContent(*patch.Content)
		}
		return nil
	})
}

// 状态接口可接受的取值
const (
	StatusActionDraft     = "draft"
	StatusActionCompleted = "completed"
	StatusActionAuto      = "auto"
)

// SetChapterStatus draft/completed 显式标记，auto 取消标记
func (s *Service) SetChapterStatus(ctx context.Context, index int, status string) (*entity.Chapter, error) {
	return s.mutateChapter(ctx, index, func(c *entity.Chapter) error {
		switch status {
		case StatusActionAuto:
			c.ClearMark()
			return nil
		case StatusActionDraft, StatusActionCompleted:
			return translateEntityError(c.Mark(entity.ChapterStatus(status)))
		default:
			return apperrors.ErrInvalidParam.WithDetail(fmt.Sprintf("unsupported status %q", status))
		}
	})
}

// GenerateChapter 按作者给出的想法生成章节内容，替换标题和正文
func (s *Service) GenerateChapter(ctx context.Context, index int, idea string) (*entity.Chapter, error) {
	idea = strings.TrimSpace(idea)
	if idea == "" {
		return nil, apperrors.ErrInvalidParam.WithDetail("chapter idea is required")
	}
	draft, err := s.draftWithChapter(ctx, index)
	if err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf("Chapter idea: %s. This is Chapter %d of a book titled %q.", idea, index+1, draft.DisplayTitle())
	var generated *wfmodel.GeneratedChapter
	err = s.runner.Run(ctx, generation.OpChapterGenerate, func(ctx context.Context) error {
		var err error
		generated, err = s.firstChapter(ctx, draft, prompt)
		return err
	})
	if err != nil {
		return nil, err
	}

	return s.mutateChapter(ctx, index, func(c *entity.Chapter) error {
		if strings.TrimSpace(generated.Title) != "" {
			c.Title = generated.Title
		}
		c.SetContent(generated.Content)
		return nil
	})
}

// PolishChapter 润色章节正文，保留标题
func (s *Service) PolishChapter(ctx context.Context, index int) (*entity.Chapter, error) {
	draft, err := s.draftWithChapter(ctx, index)
	if err != nil {
		return nil, err
	}
	current := draft.Chapters[index].Content
	if strings.TrimSpace(current) == "" {
		return nil, apperrors.ErrInvalidParam.WithDetail("no content to polish")
	}

	prompt := "Polish and improve this chapter content while maintaining the author's voice and style: " + current
	var generated *wfmodel.GeneratedChapter
	err = s.runner.Run(ctx, generation.OpChapterPolish, func(ctx context.Context) error {
		var err error
		generated, err = s.firstChapter(ctx, draft, prompt)
		return err
	})
	if err != nil {
		return nil, err
	}

	return s.mutateChapter(ctx, index, func(c *entity.Chapter) error {
		c.SetContent(generated.Content)
		return nil
	})
}

// firstChapter 调用整书生成并取第一章
func (s *Service) firstChapter(ctx context.Context, draft *entity.BookDraft, prompt string) (*wfmodel.GeneratedChapter, error) {
	content, err := s.content.Invoke(ctx, &wfmodel.BookContentInput{
		Idea:     prompt,
		Audience: orDefault(draft.Audience, defaultAudience),
		Genre:    orDefault(draft.Genre, defaultGenre),
		Language: orDefault(draft.Language, defaultLanguage),
	})
	if err != nil {
		return nil, err
	}
	if len(content.Chapters) == 0 {
		return nil, service.NewGenerationError(service.KindJSONParse, fmt.Errorf("response contains no chapters"))
	}
	return &content.Chapters[0], nil
}

func (s *Service) draftWithChapter(ctx context.Context, index int) (*entity.BookDraft, error) {
	draft, found, err := s.store.CurrentBook(ctx)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperrors.ErrBookNotFound
	}
	if _, ok := draft.Chapter(index); !ok {
		return nil, apperrors.ErrChapterNotFound.WithDetail(fmt.Sprintf("index %d", index))
	}
	return draft, nil
}

func (s *Service) mutateChapter(ctx context.Context, index int, fn func(c *entity.Chapter) error) (*entity.Chapter, error) {
	draft, err := s.store.UpdateCurrentBook(ctx, func(d *entity.BookDraft) error {
		c, ok := d.Chapter(index)
		if !ok {
			return apperrors.ErrChapterNotFound.WithDetail(fmt.Sprintf("index %d", index))
		}
		return fn(c)
	})
	if err != nil {
		return nil, err
	}
	return &draft.Chapters[index], nil
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
