// Package marketplace 实现书籍上架、浏览、详情与购买确认
package marketplace

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"bookforge-api/internal/application/storage"
	"bookforge-api/internal/domain/entity"
	apperrors "bookforge-api/pkg/errors"
	"bookforge-api/pkg/logger"
)

// 排序方式
const (
	SortPopularity = "popularity"
	SortRating     = "rating"
	SortPriceAsc   = "price_asc"
	SortPriceDesc  = "price_desc"
	SortNewest     = "newest"
)

// DefaultReceiptEmail 未登录购买时的收据邮箱
const DefaultReceiptEmail = "user@example.com"

// Service 市场应用服务
type Service struct {
	store *storage.DocumentStore
	now   func() time.Time
}

func NewService(store *storage.DocumentStore) *Service {
	return &Service{store: store, now: time.Now}
}

// Categories 上架可选分类
func (s *Service) Categories() []entity.Category {
	return entity.DefaultCategories()
}

// BrowseCategories 浏览页分类（含 all）
func (s *Service) BrowseCategories() []entity.Category {
	return entity.BrowseCategories()
}

// CreateListingInput 上架请求
type CreateListingInput struct {
	Title       string
	Author      string
	Price       float64
	Category    string
	Subcategory string
	Description string
	Tags        string
}

// CreateListing 将当前书籍上架到市场
func (s *Service) CreateListing(ctx context.Context, in CreateListingInput) (*entity.Listing, error) {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Author) == "" {
		return nil, apperrors.ErrInvalidParam.WithDetail("title and author are required")
	}
	if strings.TrimSpace(in.Category) == "" {
		return nil, apperrors.ErrInvalidParam.WithDetail("category is required")
	}
	if in.Price < 0 {
		return nil, apperrors.ErrInvalidParam.WithDetail("price must not be negative")
	}

	design, _, err := s.store.BookDesign(ctx)
	if err != nil {
		return nil, err
	}

	listing := entity.Listing{
		ID:          s.now().UnixMilli(),
		Title:       strings.TrimSpace(in.Title),
		Author:      strings.TrimSpace(in.Author),
		Price:       in.Price,
		Category:    in.Category,
		Subcategory: in.Subcategory,
		CoverURL:    design.CoverURL(),
		Description: in.Description,
		Tags:        entity.SplitTags(in.Tags),
		UserCreated: true,
	}
	if _, err := s.store.AppendMarketplaceBook(ctx, listing); err != nil {
		return nil, err
	}

	logger.Info(ctx, "book listed on marketplace", "listing_id", listing.ID, "category", listing.Category, "price", listing.Price)
	return &listing, nil
}

// BrowseQuery 浏览条件
type BrowseQuery struct {
	Query    string
	Category string
	Sort     string
}

// Browse 内置书籍与用户上架书籍合并后过滤、排序
func (s *Service) Browse(ctx context.Context, q BrowseQuery) ([]entity.Listing, error) {
	sortBy := q.Sort
	if sortBy == "" {
		sortBy = SortPopularity
	}
	cmpFn, ok := comparators[sortBy]
	if !ok {
		return nil, apperrors.ErrInvalidParam.WithDetail(fmt.Sprintf("unsupported sort %q", q.Sort))
	}

	all, err := s.allListings(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]entity.Listing, 0, len(all))
	for i := range all {
		if all[i].Matches(q.Query) && all[i].InCategory(q.Category) {
			out = append(out, all[i])
		}
	}
	slices.SortStableFunc(out, cmpFn)
	return out, nil
}

var comparators = map[string]func(a, b entity.Listing) int{
	SortPopularity: func(a, b entity.Listing) int { return cmp.Compare(b.ReviewCount, a.ReviewCount) },
	SortRating:     func(a, b entity.Listing) int { return cmp.Compare(b.Rating, a.Rating) },
	SortPriceAsc:   func(a, b entity.Listing) int { return cmp.Compare(a.Price, b.Price) },
	SortPriceDesc:  func(a, b entity.Listing) int { return cmp.Compare(b.Price, a.Price) },
	// 用户上架的 id 为毫秒时间戳，天然晚于内置书籍
	SortNewest: func(a, b entity.Listing) int { return cmp.Compare(b.ID, a.ID) },
}

// Bestsellers 畅销书
func (s *Service) Bestsellers(ctx context.Context) ([]entity.Listing, error) {
	all, err := s.allListings(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]entity.Listing, 0)
	for _, l := range all {
		if l.Bestseller {
			out = append(out, l)
		}
	}
	return out, nil
}

// Detail 书籍详情
func (s *Service) Detail(ctx context.Context, rawID string) (*entity.BookDetail, error) {
	listing, err := s.find(ctx, rawID)
	if err != nil {
		return nil, err
	}
	if detail, ok := entity.DetailFixture(listing.ID); ok {
		return &detail, nil
	}

	detail := &entity.BookDetail{
		Listing:         *listing,
		Language:        "English",
		Format:          "Digital PDF",
		TableOfContents: []string{},
		Reviews:         []entity.Review{},
	}
	if listing.UserCreated {
		draft, found, err := s.store.CurrentBook(ctx)
		if err != nil {
			return nil, err
		}
		if found {
			detail.TableOfContents = draft.Outline
			detail.Pages = len(draft.Chapters) + 1
		}
	}
	return detail, nil
}

// Purchase 生成购买确认，不做真实支付
func (s *Service) Purchase(ctx context.Context, rawID, email string) (*entity.Purchase, error) {
	listing, err := s.find(ctx, rawID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(email) == "" {
		email = DefaultReceiptEmail
	}

	orderID := uuid.NewString()
	p := &entity.Purchase{
		OrderID:       orderID,
		TransactionID: newTransactionID(),
		Book:          *listing,
		Amount:        listing.Price,
		DownloadURL:   "/downloads/" + orderID,
		ReceiptEmail:  email,
		PurchasedAt:   s.now().UTC().Format(time.RFC3339),
	}
	logger.Info(ctx, "purchase confirmed",
		"order_id", p.OrderID,
		"transaction_id", p.TransactionID,
		"book_id", listing.ID,
		"amount", p.Amount,
	)
	return p, nil
}

// newTransactionID TXN- 加 9 位大写字母数字
func newTransactionID() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "TXN-" + strings.ToUpper(id[:9])
}

func (s *Service) allListings(ctx context.Context) ([]entity.Listing, error) {
	user, err := s.store.MarketplaceBooks(ctx)
	if err != nil {
		return nil, err
	}
	return append(entity.MarketplaceFixtures(), user...), nil
}

func (s *Service) find(ctx context.Context, rawID string) (*entity.Listing, error) {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return nil, apperrors.ErrListingNotFound.WithDetail(rawID)
	}
	all, err := s.allListings(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].ID == id {
			return &all[i], nil
		}
	}
	return nil, apperrors.ErrListingNotFound.WithDetail(rawID)
}
