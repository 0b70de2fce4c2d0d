package book

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookforge-api/internal/application/generation"
	"bookforge-api/internal/application/storage"
	"bookforge-api/internal/domain/entity"
	"bookforge-api/internal/domain/service"
	"bookforge-api/internal/infrastructure/persistence/memory"
	"bookforge-api/internal/workflow/chain"
	workflowprompt "bookforge-api/internal/workflow/prompt"
	apperrors "bookforge-api/pkg/errors"
)

const bookJSON = `{"outline":["Intro","Middle","End"],"chapters":[` +
	`{"title":"Intro","content":"once upon a time"},` +
	`{"title":"Middle","content":"then things happened"}]}`

type fakeGenerator struct {
	mu      sync.Mutex
	reply   string
	err     error
	prompts []string
}

func (f *fakeGenerator) GenerateText(_ context.Context, prompt string, _ service.GenerationParams) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

func (f *fakeGenerator) lastPrompt() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.prompts) == 0 {
		return ""
	}
	return f.prompts[len(f.prompts)-1]
}

type fakeRenderer struct {
	err error
}

func (r *fakeRenderer) RenderImage(context.Context, string) (*service.RenderedImage, error) {
	if r.err != nil {
		return nil, r.err
	}
	return &service.RenderedImage{Data: []byte{0x89, 'P', 'N', 'G'}, MimeType: "image/png"}, nil
}

type fakeFiles struct{}

func (fakeFiles) Save(context.Context, []byte, string) (string, error) {
	return "/static/covers/abc.png", nil
}

func newService(gen *fakeGenerator, renderer service.ImageRenderer) *Service {
	prompts := workflowprompt.NewRegistry()
	var files CoverFileStore
	if renderer != nil {
		files = fakeFiles{}
	}
	return NewService(
		storage.NewDocumentStore(memory.NewDocumentStore()),
		generation.NewRunner(memory.NewInflightGate()),
		chain.NewBookContentChain(gen, prompts),
		chain.NewCoverDesignChain(gen, prompts),
		renderer,
		files,
	)
}

func generateDraft(t *testing.T, s *Service) *entity.BookDraft {
	t.Helper()
	draft, err := s.GenerateDraft(t.Context(), GenerateDraftInput{Idea: "A book about tea", Audience: "beginners", Genre: "Non-fiction"})
	require.NoError(t, err)
	return draft
}

func TestGenerateDraftPersists(t *testing.T) {
	gen := &fakeGenerator{reply: "Here you go:\n```json\n" + bookJSON + "\n```"}
	s := newService(gen, nil)

	draft := generateDraft(t, s)
	assert.Equal(t, "A book about tea", draft.Topic)
	assert.Equal(t, "English", draft.Language)
	assert.Equal(t, []string{"Intro", "Middle", "End"}, draft.Outline)
	require.Len(t, draft.Chapters, 2)
	assert.Equal(t, entity.ChapterStatusInProgress, draft.Chapters[0].Status)
	assert.Equal(t, 4, draft.Chapters[0].WordCount)

	loaded, found, err := s.CurrentBook(t.Context())
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, draft.Chapters, loaded.Chapters)
}

func TestGenerateDraftRequiresIdea(t *testing.T) {
	s := newService(&fakeGenerator{}, nil)
	_, err := s.GenerateDraft(t.Context(), GenerateDraftInput{Idea: "  "})
	assert.ErrorIs(t, err, apperrors.ErrInvalidParam)
}

func TestGenerateDraftFailureDoesNotPersist(t *testing.T) {
	s := newService(&fakeGenerator{reply: "no json here"}, nil)
	_, err := s.GenerateDraft(t.Context(), GenerateDraftInput{Idea: "tea"})
	assert.ErrorIs(t, err, apperrors.ErrGenerationFailed)
	assert.ErrorIs(t, err, service.ErrNoJSONFound)

	_, found, err := s.CurrentBook(t.Context())
	require.NoError(t, err)
	assert.False(t, found)
}

func TestOutlineEditing(t *testing.T) {
	s := newService(&fakeGenerator{reply: bookJSON}, nil)
	generateDraft(t, s)

	draft, err := s.AddOutlineEntry(t.Context(), "")
	require.NoError(t, err)
	assert.Equal(t, "Chapter 2: New Chapter", draft.Outline[3])

	draft, err = s.RemoveOutlineEntry(t.Context(), 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"Middle", "End", "Chapter 2: New Chapter"}, draft.Outline)

	_, err = s.RemoveOutlineEntry(t.Context(), 0)
	assert.ErrorIs(t, err, apperrors.ErrInvalidParam)

	_, err = s.ReplaceOutline(t.Context(), []string{"a", " ", "c"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidParam)

	draft, err = s.ReplaceOutline(t.Context(), []string{" a ", "b", "c"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, draft.Outline)
}

func TestChaptersWithoutDraftReturnsSamples(t *testing.T) {
	s := newService(&fakeGenerator{}, nil)
	list, err := s.Chapters(t.Context(), "current")
	require.NoError(t, err)
	assert.False(t, list.Found)
	assert.Equal(t, entity.SampleChapters(), list.Chapters)

	_, err = s.Chapters(t.Context(), "42")
	assert.ErrorIs(t, err, apperrors.ErrBookNotFound)

	_, err = s.UpdateChapter(t.Context(), 0, ChapterPatch{})
	assert.ErrorIs(t, err, apperrors.ErrBookNotFound)
}

func TestExplicitStatusWinsOverEdits(t *testing.T) {
	s := newService(&fakeGenerator{reply: bookJSON}, nil)
	generateDraft(t, s)

	ch, err := s.SetChapterStatus(t.Context(), 0, StatusActionCompleted)
	require.NoError(t, err)
	assert.Equal(t, entity.ChapterStatusCompleted, ch.Status)

	more := "once upon a time there was tea"
	ch, err = s.UpdateChapter(t.Context(), 0, ChapterPatch{Content: &more})
	require.NoError(t, err)
	assert.Equal(t, entity.ChapterStatusCompleted, ch.Status)
	assert.Equal(t, 7, ch.WordCount)

	list, err := s.Chapters(t.Context(), "current")
	require.NoError(t, err)
	assert.Equal(t, entity.ChapterStatusCompleted, list.Chapters[0].Status)

	ch, err = s.SetChapterStatus(t.Context(), 0, StatusActionAuto)
	require.NoError(t, err)
	assert.Equal(t, entity.ChapterStatusInProgress, ch.Status)

	empty := ""
	_, err = s.SetChapterStatus(t.Context(), 0, StatusActionDraft)
	require.NoError(t, err)
	ch, err = s.UpdateChapter(t.Context(), 0, ChapterPatch{Content: &empty})
	require.NoError(t, err)
	assert.Equal(t, entity.ChapterStatusNotStarted, ch.Status)

	_, err = s.SetChapterStatus(t.Context(), 0, "published")
	assert.ErrorIs(t, err, apperrors.ErrInvalidParam)
	_, err = s.SetChapterStatus(t.Context(), 9, StatusActionDraft)
	assert.ErrorIs(t, err, apperrors.ErrChapterNotFound)
}

func TestAddChapter(t *testing.T) {
	s := newService(&fakeGenerator{reply: bookJSON}, nil)
	generateDraft(t, s)

	index, ch, err := s.AddChapter(t.Context(), "")
	require.NoError(t, err)
	assert.Equal(t, 2, index)
	assert.Equal(t, "Chapter 3", ch.Title)
	assert.Equal(t, entity.ChapterStatusNotStarted, ch.Status)
}

func TestGenerateChapterPrompt(t *testing.T) {
	gen := &fakeGenerator{reply: bookJSON}
	s := newService(gen, nil)
	generateDraft(t, s)

	gen.reply = `{"outline":["x"],"chapters":[{"title":"Brewing","content":"steep for three minutes"}]}`
	ch, err := s.GenerateChapter(t.Context(), 1, "how to brew")
	require.NoError(t, err)
	assert.Equal(t, "Brewing", ch.Title)
	assert.Equal(t, "steep for three minutes", ch.Content)
	assert.Contains(t, gen.lastPrompt(), `Chapter idea: how to brew. This is Chapter 2 of a book titled "A book about tea".`)
	assert.Contains(t, gen.lastPrompt(), "beginners")

	_, err = s.GenerateChapter(t.Context(), 1, "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidParam)
	_, err = s.GenerateChapter(t.Context(), 5, "x")
	assert.ErrorIs(t, err, apperrors.ErrChapterNotFound)
}

func TestGenerateChapterWithoutChaptersFails(t *testing.T) {
	gen := &fakeGenerator{reply: bookJSON}
	s := newService(gen, nil)
	generateDraft(t, s)

	gen.reply = `{"outline":["x"],"chapters":[]}`
	_, err := s.GenerateChapter(t.Context(), 0, "idea")
	assert.ErrorIs(t, err, apperrors.ErrGenerationFailed)
	assert.ErrorIs(t, err, service.ErrJSONParse)
}

func TestPolishChapter(t *testing.T) {
	gen := &fakeGenerator{reply: bookJSON}
	s := newService(gen, nil)
	generateDraft(t, s)

	gen.reply = `{"outline":[],"chapters":[{"title":"ignored","content":"polished prose"}]}`
	ch, err := s.PolishChapter(t.Context(), 0)
	require.NoError(t, err)
	assert.Equal(t, "Intro", ch.Title)
	assert.Equal(t, "polished prose", ch.Content)
	assert.True(t, strings.Contains(gen.lastPrompt(), "maintaining the author's voice and style: once upon a time"))

	_, _, err = s.AddChapter(t.Context(), "Empty")
	require.NoError(t, err)
	_, err = s.PolishChapter(t.Context(), 2)
	assert.ErrorIs(t, err, apperrors.ErrInvalidParam)
}

func TestDesignDefaultsAndSave(t *testing.T) {
	s := newService(&fakeGenerator{}, nil)
	design, err := s.Design(t.Context())
	require.NoError(t, err)
	assert.Equal(t, entity.DefaultBookTitle, design.Title)

	saved, err := s.SaveDesign(t.Context(), &entity.BookDesign{Title: "Tea", Author: "Ann", SelectedTemplate: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, saved.SelectedTemplate)

	_, err = s.SaveDesign(t.Context(), &entity.BookDesign{Title: "Tea", Author: "Ann", SelectedTemplate: 9})
	assert.ErrorIs(t, err, apperrors.ErrInvalidParam)

	_, err = s.SaveDesign(t.Context(), &entity.BookDesign{Author: "Ann"})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestGenerateCoverRendersImage(t *testing.T) {
	gen := &fakeGenerator{reply: bookJSON}
	s := newService(gen, &fakeRenderer{})
	generateDraft(t, s)

	gen.reply = `{"imagePrompt":"a teapot at dawn","colorScheme":"amber","style":"watercolor","typography":"serif"}`
	result, err := s.GenerateCover(t.Context())
	require.NoError(t, err)
	assert.True(t, result.Rendered)
	assert.Equal(t, "/static/covers/abc.png", result.CoverURL)
	assert.Equal(t, "a teapot at dawn", result.Design.ImagePrompt)

	preview, err := s.Preview(t.Context(), "current")
	require.NoError(t, err)
	assert.Equal(t, "/static/covers/abc.png", preview.CoverURL)
	assert.Equal(t, 3, preview.TotalPages)
	assert.Equal(t, 7, preview.WordCount)
}

func TestGenerateCoverFallsBackToPlaceholder(t *testing.T) {
	gen := &fakeGenerator{reply: bookJSON}
	s := newService(gen, &fakeRenderer{err: errors.New("quota")})
	generateDraft(t, s)

	gen.reply = `{"imagePrompt":"a teapot"}`
	result, err := s.GenerateCover(t.Context())
	require.NoError(t, err)
	assert.False(t, result.Rendered)
	assert.Equal(t, entity.PlaceholderCoverURL, result.CoverURL)

	cover, found, err := s.store.GeneratedCoverDesign(t.Context())
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "a teapot", cover.ImagePrompt)
}

func TestGenerateCoverRequiresIdea(t *testing.T) {
	s := newService(&fakeGenerator{}, nil)
	_, err := s.GenerateCover(t.Context())
	assert.ErrorIs(t, err, apperrors.ErrInvalidParam)
}

func TestPreviewUsesTemplateCover(t *testing.T) {
	s := newService(&fakeGenerator{}, nil)
	_, err := s.SaveDesign(t.Context(), &entity.BookDesign{Title: "Tea", Author: "Ann", SelectedTemplate: 1})
	require.NoError(t, err)

	preview, err := s.Preview(t.Context(), "current")
	require.NoError(t, err)
	assert.Equal(t, entity.DesignTemplates()[1].Preview, preview.CoverURL)
	assert.Len(t, preview.Chapters, 4)
	assert.Equal(t, 5, preview.TotalPages)
}

func TestPlaceholderCoverKeepsTemplatePrecedence(t *testing.T) {
	gen := &fakeGenerator{reply: bookJSON}
	s := newService(gen, nil)
	generateDraft(t, s)
	_, err := s.SaveDesign(t.Context(), &entity.BookDesign{Title: "Tea", Author: "Ann", SelectedTemplate: 2})
	require.NoError(t, err)

	gen.reply = `{"imagePrompt":"a teapot"}`
	result, err := s.GenerateCover(t.Context())
	require.NoError(t, err)
	assert.False(t, result.Rendered)
	assert.Equal(t, entity.PlaceholderCoverURL, result.CoverURL)

	design, err := s.Design(t.Context())
	require.NoError(t, err)
	assert.Nil(t, design.GeneratedCoverURL)

	preview, err := s.Preview(t.Context(), "current")
	require.NoError(t, err)
	assert.Equal(t, entity.DesignTemplates()[2].Preview, preview.CoverURL)

	_, err = s.SaveDesign(t.Context(), &entity.BookDesign{Title: "Tea", Author: "Ann", SelectedTemplate: 3})
	require.NoError(t, err)
	preview, err = s.Preview(t.Context(), "current")
	require.NoError(t, err)
	assert.Equal(t, entity.DesignTemplates()[3].Preview, preview.CoverURL)
}
