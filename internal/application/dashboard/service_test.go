package dashboard

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"bookforge-api/internal/application/storage"
	"bookforge-api/internal/domain/entity"
	"bookforge-api/internal/infrastructure/messaging"
	"bookforge-api/internal/infrastructure/persistence/memory"
	apperrors "bookforge-api/pkg/errors"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishModeration(ctx context.Context, decision *messaging.ModerationMessage) (string, error) {
	args := m.Called(ctx, decision)
	return args.String(0), args.Error(1)
}

func titles(books []entity.ModeratedBook) []string {
	out := make([]string, 0, len(books))
	for _, b := range books {
		out = append(out, b.Title)
	}
	return out
}

func TestAuthorDashboard(t *testing.T) {
	s := NewService(nil, nil)
	d, err := s.Author(t.Context(), "")
	require.NoError(t, err)
	assert.Equal(t, entity.DefaultRange, d.Range)
	assert.Equal(t, 29, d.Growth)
	assert.Len(t, d.Books, 3)

	_, err = s.Author(t.Context(), "2w")
	assert.ErrorIs(t, err, apperrors.ErrInvalidParam)
}

func TestAdminFilters(t *testing.T) {
	s := NewService(nil, nil)

	d, err := s.Admin(t.Context(), "", "")
	require.NoError(t, err)
	assert.Len(t, d.PendingBooks, 3)
	assert.Len(t, d.AllBooks, 6)

	d, err = s.Admin(t.Context(), "WRITING", entity.ModerationAll)
	require.NoError(t, err)
	assert.Equal(t, []string{"Creative Writing Workshop"}, titles(d.PendingBooks))
	assert.Equal(t, []string{"Creative Writing Workshop", "The Art of Creative Writing"}, titles(d.AllBooks))

	d, err = s.Admin(t.Context(), "", entity.ModerationRejected)
	require.NoError(t, err)
	assert.Empty(t, d.PendingBooks)
	assert.Equal(t, []string{"Beginner's Guide to Cooking"}, titles(d.AllBooks))

	_, err = s.Admin(t.Context(), "", "archived")
	assert.ErrorIs(t, err, apperrors.ErrInvalidParam)
}

func TestApprovePublishesAudit(t *testing.T) {
	pub := new(mockPublisher)
	pub.On("PublishModeration", mock.Anything, mock.MatchedBy(func(m *messaging.ModerationMessage) bool {
		return m.BookID == "2" && m.Decision == messaging.DecisionApproved && m.ModeratorID == "admin@example.com"
	})).Return("1-0", nil).Once()

	msg, err := NewService(nil, pub).Approve(t.Context(), "2", "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, messaging.DecisionApproved, msg.Decision)
	pub.AssertExpectations(t)
}

func TestRejectRequiresReason(t *testing.T) {
	pub := new(mockPublisher)
	s := NewService(nil, pub)

	_, err := s.Reject(t.Context(), "1", "admin", " ")
	assert.ErrorIs(t, err, apperrors.ErrInvalidParam)
	pub.AssertNotCalled(t, "PublishModeration", mock.Anything, mock.Anything)
}

func TestPublishFailureDoesNotFailDecision(t *testing.T) {
	pub := new(mockPublisher)
	pub.On("PublishModeration", mock.Anything, mock.Anything).Return("", errors.New("redis down"))

	msg, err := NewService(nil, pub).Reject(t.Context(), "3", "admin", "duplicate")
	require.NoError(t, err)
	assert.Equal(t, "duplicate", msg.Reason)
}

func TestDecisionOnUnknownBook(t *testing.T) {
	_, err := NewService(nil, nil).Approve(t.Context(), "42", "admin")
	assert.ErrorIs(t, err, apperrors.ErrBookNotFound)
}

func TestLibraryFixtureTotals(t *testing.T) {
	s := NewService(storage.NewDocumentStore(memory.NewDocumentStore()), nil)

	l, err := s.Library(t.Context())
	require.NoError(t, err)
	assert.Len(t, l.Books, 3)
	assert.Equal(t, entity.LibraryTotals{TotalBooks: 3, TotalSales: 45, TotalEarnings: 225.5}, l.Totals)
}

func TestLibraryMergesDraftAndListings(t *testing.T) {
	store := storage.NewDocumentStore(memory.NewDocumentStore())
	s := NewService(store, nil)
	ctx := storage.WithNamespace(t.Context(), "alice")

	draft := entity.NewBookDraft()
	draft.Topic = "Tea at home"
	draft.Chapters = []entity.Chapter{
		entity.NewChapter("One", "steep the leaves"),
		entity.NewChapter("Two", "pour slowly"),
		entity.NewChapter("Three", ""),
		entity.NewChapter("Four", ""),
	}
	require.NoError(t, draft.Chapters[0].Mark(entity.ChapterStatusCompleted))
	require.NoError(t, store.SaveCurrentBook(ctx, draft))
	_, err := store.AppendMarketplaceBook(ctx, entity.Listing{
		ID: 1700000000000, Title: "Brewing Basics", Author: "Ann", Category: "Non-Fiction", CoverURL: "/static/covers/a.png",
	})
	require.NoError(t, err)

	l, err := s.Library(ctx)
	require.NoError(t, err)
	require.Len(t, l.Books, 5)

	current := l.Books[0]
	assert.True(t, current.Current)
	assert.Equal(t, entity.LibraryStatusDraft, current.Status)
	assert.Equal(t, 25, current.Progress)
	assert.Equal(t, entity.DesignTemplates()[0].Preview, current.CoverURL)

	listed := l.Books[1]
	assert.Equal(t, "Brewing Basics", listed.Title)
	assert.Equal(t, entity.LibraryStatusPublished, listed.Status)
	assert.Equal(t, 100, listed.Progress)

	assert.Equal(t, 5, l.Totals.TotalBooks)
	assert.Equal(t, 45, l.Totals.TotalSales)
	assert.InDelta(t, 225.50, l.Totals.TotalEarnings, 1e-9)

	// 其他用户看不到 alice 的草稿
	other, err := s.Library(storage.WithNamespace(t.Context(), "bob"))
	require.NoError(t, err)
	assert.Len(t, other.Books, 3)
}
