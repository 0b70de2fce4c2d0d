package entity

import "math"

// 书架条目状态
const (
	LibraryStatusDraft     = "draft"
	LibraryStatusReview    = "review"
	LibraryStatusPublished = "published"
)

// LibraryBook 用户书架上的一本书
type LibraryBook struct {
	ID       int64   `json:"id"`
	Title    string  `json:"title"`
	Status   string  `json:"status"`
	Progress int     `json:"progress"`
	Sales    int     `json:"sales"`
	Earnings float64 `json:"earnings"`
	CoverURL string  `json:"coverUrl"`
	// Current 为 true 表示条目来自当前草稿
	Current bool `json:"current,omitempty"`
}

// LibraryFixture 书架示例数据
func LibraryFixture() []LibraryBook {
	return []LibraryBook{
		{ID: 1, Title: "The Art of Creative Writing", Status: LibraryStatusPublished, Progress: 100, Sales: 45, Earnings: 225.50, CoverURL: "https://images.unsplash.com/photo-1481627834876-b7833e8f5570"},
		{ID: 2, Title: "Modern Web Development Guide", Status: LibraryStatusDraft, Progress: 75, CoverURL: "https://images.unsplash.com/photo-1516321318423-f06f85e504b3"},
		{ID: 3, Title: "Photography Fundamentals", Status: LibraryStatusReview, Progress: 100, CoverURL: "https://images.unsplash.com/photo-1471913743851-c4df8b6ee133"},
	}
}

// LibraryTotals 书架汇总
type LibraryTotals struct {
	TotalBooks    int     `json:"totalBooks"`
	TotalSales    int     `json:"totalSales"`
	TotalEarnings float64 `json:"totalEarnings"`
}

// SumLibrary 汇总销量与收益，收益保留两位小数
func SumLibrary(books []LibraryBook) LibraryTotals {
	t := LibraryTotals{TotalBooks: len(books)}
	for _, b := range books {
		t.TotalSales += b.Sales
		t.TotalEarnings += b.Earnings
	}
	t.TotalEarnings = math.Round(t.TotalEarnings*100) / 100
	return t
}

// Progress 已完成章节占比（0-100），没有章节时为 0
func (b *BookDraft) Progress() int {
	if len(b.Chapters) == 0 {
		return 0
	}
	done := b.ProgressCounts()[ChapterStatusCompleted]
	return int(math.Round(float64(done) * 100 / float64(len(b.Chapters))))
}

// LibraryEntry 把已上架的书放进书架
func (l *Listing) LibraryEntry() LibraryBook {
	return LibraryBook{
		ID:       l.ID,
		Title:    l.Title,
		Status:   LibraryStatusPublished,
		Progress: 100,
		CoverURL: l.CoverURL,
	}
}
