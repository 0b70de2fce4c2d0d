package dto

import (
	"time"

	"bookforge-api/internal/application/dashboard"
	"bookforge-api/internal/domain/entity"
	"bookforge-api/internal/infrastructure/messaging"
)

// LibraryResponse 用户书架
type LibraryResponse struct {
	entity.LibraryTotals
	Books []entity.LibraryBook `json:"books"`
}

// ToLibraryResponse 转换书架
func ToLibraryResponse(l *dashboard.Library) *LibraryResponse {
	return &LibraryResponse{LibraryTotals: l.Totals, Books: l.Books}
}

// AuthorDashboardResponse 作者面板
type AuthorDashboardResponse struct {
	Range       string              `json:"range"`
	Stats       entity.AuthorStats  `json:"stats"`
	Growth      int                 `json:"growth"`
	Books       []entity.AuthorBook `json:"books"`
	RecentSales []entity.SaleRecord `json:"recentSales"`
}

// ToAuthorDashboardResponse 转换作者面板
func ToAuthorDashboardResponse(d *dashboard.AuthorDashboard) *AuthorDashboardResponse {
	return &AuthorDashboardResponse{
		Range:       d.Range,
		Stats:       d.Stats,
		Growth:      d.Growth,
		Books:       d.Books,
		RecentSales: d.RecentSales,
	}
}

// AdminDashboardResponse 管理员面板
type AdminDashboardResponse struct {
	Stats        entity.AdminStats      `json:"stats"`
	PendingBooks []entity.ModeratedBook `json:"pendingBooks"`
	AllBooks     []entity.ModeratedBook `json:"allBooks"`
	Users        []entity.AdminUser     `json:"users"`
}

// ToAdminDashboardResponse 转换管理员面板
func ToAdminDashboardResponse(d *dashboard.AdminDashboard) *AdminDashboardResponse {
	return &AdminDashboardResponse{
		Stats:        d.Stats,
		PendingBooks: d.PendingBooks,
		AllBooks:     d.AllBooks,
		Users:        d.Users,
	}
}

// RejectBookRequest 拒绝原因
type RejectBookRequest struct {
	Reason string `json:"reason" binding:"required,max=1000"`
}

// ModerationResponse 审核结果
type ModerationResponse struct {
	BookID    string `json:"bookId"`
	Decision  string `json:"decision"`
	Reason    string `json:"reason,omitempty"`
	DecidedAt string `json:"decidedAt"`
}

// ToModerationResponse 转换审核结果
func ToModerationResponse(m *messaging.ModerationMessage) *ModerationResponse {
	return &ModerationResponse{
		BookID:    m.BookID,
		Decision:  m.Decision,
		Reason:    m.Reason,
		DecidedAt: m.DecidedAt.Format(time.RFC3339),
	}
}
