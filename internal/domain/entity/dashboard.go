package entity

import "math"

// 作者面板统计区间
const (
	Range7Days   = "7d"
	Range30Days  = "30d"
	Range90Days  = "90d"
	Range1Year   = "1y"
	DefaultRange = Range30Days
)

// IsValidRange 校验统计区间
func IsValidRange(r string) bool {
	switch r {
	case Range7Days, Range30Days, Range90Days, Range1Year:
		return true
	}
	return false
}

// AuthorStats 作者收益概览
type AuthorStats struct {
	TotalEarnings float64 `json:"totalEarnings"`
	TotalSales    int     `json:"totalSales"`
	ThisMonth     float64 `json:"thisMonth"`
	LastMonth     float64 `json:"lastMonth"`
}

// Growth 环比增长百分比，上月为 0 时返回 0
func (s AuthorStats) Growth() int {
	if s.LastMonth == 0 {
		return 0
	}
	return int(math.Round((s.ThisMonth - s.LastMonth) / s.LastMonth * 100))
}

// AuthorBook 作者名下书籍
type AuthorBook struct {
	ID              int64   `json:"id"`
	Title           string  `json:"title"`
	CoverURL        string  `json:"coverUrl"`
	Status          string  `json:"status"`
	Sales           int     `json:"sales"`
	Earnings        float64 `json:"earnings"`
	MonthlySales    int     `json:"monthlySales"`
	MonthlyEarnings float64 `json:"monthlyEarnings"`
	Rating          float64 `json:"rating"`
	ReviewCount     int     `json:"reviewCount"`
}

// SaleRecord 销售记录
type SaleRecord struct {
	Date      string  `json:"date"`
	BookTitle string  `json:"bookTitle"`
	Amount    float64 `json:"amount"`
	Buyer     string  `json:"buyer"`
}

// 审核状态
const (
	ModerationAll      = "all"
	ModerationPending  = "pending"
	ModerationApproved = "approved"
	ModerationRejected = "rejected"
)

// IsValidModerationStatus 校验审核状态过滤条件
func IsValidModerationStatus(s string) bool {
	switch s {
	case ModerationAll, ModerationPending, ModerationApproved, ModerationRejected:
		return true
	}
	return false
}

// MonthlyStats 本月新增
type MonthlyStats struct {
	NewUsers int     `json:"newUsers"`
	NewBooks int     `json:"newBooks"`
	Revenue  float64 `json:"revenue"`
}

// AdminStats 平台概览
type AdminStats struct {
	TotalUsers     int          `json:"totalUsers"`
	TotalBooks     int          `json:"totalBooks"`
	PendingReviews int          `json:"pendingReviews"`
	TotalRevenue   float64      `json:"totalRevenue"`
	ThisMonth      MonthlyStats `json:"thisMonth"`
}

// ModeratedBook 审核队列或已审核书籍
type ModeratedBook struct {
	ID              int64   `json:"id"`
	Title           string  `json:"title"`
	Author          string  `json:"author"`
	Category        string  `json:"category"`
	Status          string  `json:"status"`
	CoverURL        string  `json:"coverUrl,omitempty"`
	Price           float64 `json:"price,omitempty"`
	SubmittedDate   string  `json:"submittedDate,omitempty"`
	Sales           int     `json:"sales,omitempty"`
	Revenue         float64 `json:"revenue,omitempty"`
	ApprovedDate    string  `json:"approvedDate,omitempty"`
	RejectedDate    string  `json:"rejectedDate,omitempty"`
	RejectionReason string  `json:"rejectionReason,omitempty"`
}

// AdminUser 平台用户
type AdminUser struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	JoinDate  string  `json:"joinDate"`
	BookCount int     `json:"bookCount"`
	Earnings  float64 `json:"earnings"`
	Status    string  `json:"status"`
}
