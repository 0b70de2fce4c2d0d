// Package dashboard 作者与管理员面板
package dashboard

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"bookforge-api/internal/application/storage"
	"bookforge-api/internal/domain/entity"
	"bookforge-api/internal/infrastructure/messaging"
	apperrors "bookforge-api/pkg/errors"
	"bookforge-api/pkg/logger"
)

// ModerationPublisher 审核决定的审计出口
type ModerationPublisher interface {
	PublishModeration(ctx context.Context, decision *messaging.ModerationMessage) (string, error)
}

// Service 面板应用服务
type Service struct {
	store     *storage.DocumentStore
	publisher ModerationPublisher
	now       func() time.Time
}

// NewService publisher 可为 nil，此时审核决定只写日志
func NewService(store *storage.DocumentStore, publisher ModerationPublisher) *Service {
	return &Service{store: store, publisher: publisher, now: time.Now}
}

// Library 用户书架
type Library struct {
	Totals entity.LibraryTotals
	Books  []entity.LibraryBook
}

// Library 当前草稿 + 已上架书籍 + 示例书籍，汇总按合并后的列表计算
func (s *Service) Library(ctx context.Context) (*Library, error) {
	books := make([]entity.LibraryBook, 0, 8)

	draft, found, err := s.store.CurrentBook(ctx)
	if err != nil {
		return nil, err
	}
	if found {
		design, _, err := s.store.BookDesign(ctx)
		if err != nil {
			return nil, err
		}
		books = append(books, entity.LibraryBook{
			Title:    draft.DisplayTitle(),
			Status:   entity.LibraryStatusDraft,
			Progress: draft.Progress(),
			CoverURL: design.CoverURL(),
			Current:  true,
		})
	}

	listings, err := s.store.MarketplaceBooks(ctx)
	if err != nil {
		return nil, err
	}
	for i := range listings {
		books = append(books, listings[i].LibraryEntry())
	}
	books = append(books, entity.LibraryFixture()...)

	return &Library{Totals: entity.SumLibrary(books), Books: books}, nil
}

// AuthorDashboard 作者面板
type AuthorDashboard struct {
	Range       string
	Stats       entity.AuthorStats
	Growth      int
	Books       []entity.AuthorBook
	RecentSales []entity.SaleRecord
}

// Author 作者面板数据
func (s *Service) Author(ctx context.Context, timeRange string) (*AuthorDashboard, error) {
	if timeRange == "" {
		timeRange = entity.DefaultRange
	}
	if !entity.IsValidRange(timeRange) {
		return nil, apperrors.ErrInvalidParam.WithDetail(fmt.Sprintf("unsupported range %q", timeRange))
	}
	stats := entity.AuthorStatsFixture()
	return &AuthorDashboard{
		Range:       timeRange,
		Stats:       stats,
		Growth:      stats.Growth(),
		Books:       entity.AuthorBooksFixture(),
		RecentSales: entity.RecentSalesFixture(),
	}, nil
}

// AdminDashboard 管理员面板
type AdminDashboard struct {
	Stats        entity.AdminStats
	PendingBooks []entity.ModeratedBook
	AllBooks     []entity.ModeratedBook
	Users        []entity.AdminUser
}

// Admin 管理员面板，标题子串与状态过滤同时作用于待审核和全部书籍
func (s *Service) Admin(ctx context.Context, query, status string) (*AdminDashboard, error) {
	if status == "" {
		status = entity.ModerationAll
	}
	if !entity.IsValidModerationStatus(status) {
		return nil, apperrors.ErrInvalidParam.WithDetail(fmt.Sprintf("unsupported status %q", status))
	}

	pending := entity.PendingBooksFixture()
	all := append(entity.PendingBooksFixture(), entity.ReviewedBooksFixture()...)
	return &AdminDashboard{
		Stats:        entity.AdminStatsFixture(),
		PendingBooks: filterBooks(pending, query, status),
		AllBooks:     filterBooks(all, query, status),
		Users:        entity.AdminUsersFixture(),
	}, nil
}

func filterBooks(books []entity.ModeratedBook, query, status string) []entity.ModeratedBook {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]entity.ModeratedBook, 0, len(books))
	for _, b := range books {
		if q != "" && !strings.Contains(strings.ToLower(b.Title), q) {
			continue
		}
		if status != entity.ModerationAll && b.Status != status {
			continue
		}
		out = append(out, b)
	}
	return out
}

// Approve 通过审核
func (s *Service) Approve(ctx context.Context, bookID, moderatorID string) (*messaging.ModerationMessage, error) {
	return s.decide(ctx, bookID, moderatorID, messaging.DecisionApproved, "")
}

// Reject 拒绝审核，必须给出原因
func (s *Service) Reject(ctx context.Context, bookID, moderatorID, reason string) (*messaging.ModerationMessage, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apperrors.ErrInvalidParam.WithDetail("rejection reason is required")
	}
	return s.decide(ctx, bookID, moderatorID, messaging.DecisionRejected, reason)
}

// decide 审核结果不落库，只写日志并发送审计消息
func (s *Service) decide(ctx context.Context, bookID, moderatorID, decision, reason string) (*messaging.ModerationMessage, error) {
	if !knownBook(bookID) {
		return nil, apperrors.ErrBookNotFound.WithDetail(bookID)
	}

	msg := &messaging.ModerationMessage{
		BookID:      bookID,
		Decision:    decision,
		Reason:      reason,
		ModeratorID: moderatorID,
		DecidedAt:   s.now().UTC(),
	}
	logger.Info(ctx, "moderation decision",
		"book_id", bookID,
		"decision", decision,
		"moderator_id", moderatorID,
	)

	if s.publisher == nil {
		return msg, nil
	}
	if _, err := s.publisher.PublishModeration(ctx, msg); err != nil {
		// 审计投递失败不影响审核结果
		logger.Error(ctx, "failed to publish moderation audit", err, "book_id", bookID)
	}
	return msg, nil
}

func knownBook(rawID string) bool {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return false
	}
	for _, b := range append(entity.PendingBooksFixture(), entity.ReviewedBooksFixture()...) {
		if b.ID == id {
			return true
		}
	}
	return false
}
