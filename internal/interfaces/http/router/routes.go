package router

import (
	"bookforge-api/internal/interfaces/http/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterV1Routes 注册 v1 版本路由
func RegisterV1Routes(v1 *gin.RouterGroup, h *RouterHandlers) {
	// 认证
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
	}

	// 当前草稿：创意、大纲、章节、设计
	current := v1.Group("/books/current")
	{
		current.POST("/generate", h.Book.Generate)
		current.GET("", h.Book.GetCurrent)

		current.PUT("/outline", h.Book.ReplaceOutline)
		current.POST("/outline", h.Book.AddOutlineEntry)
		current.DELETE("/outline/:index", h.Book.RemoveOutlineEntry)

		current.POST("/chapters", h.Chapter.Add)
		current.PUT("/chapters/:index", h.Chapter.Update)
		current.PUT("/chapters/:index/status", h.Chapter.SetStatus)
		current.POST("/chapters/:index/generate", h.Chapter.Generate)
		current.POST("/chapters/:index/polish", h.Chapter.Polish)

		current.GET("/design", h.Design.Get)
		current.PUT("/design", h.Design.Put)
		current.POST("/cover/generate", h.Design.GenerateCover)
	}

	// 按 ID 读取，目前只接受 current
	books := v1.Group("/books")
	{
		books.GET("/:bookId/chapters", h.Chapter.List)
		books.GET("/:bookId/preview", h.Book.Preview)
	}

	v1.GET("/design/templates", h.Design.Templates)

	// 市场
	market := v1.Group("/marketplace")
	{
		market.GET("/categories", h.Marketplace.Categories)
		market.POST("/listings", h.Marketplace.CreateListing)
		market.GET("/books", h.Marketplace.Browse)
		market.GET("/bestsellers", h.Marketplace.Bestsellers)
		market.GET("/books/:bookId", h.Marketplace.Detail)
		market.POST("/books/:bookId/purchase", h.Marketplace.Purchase)
	}

	v1.GET("/dashboard", h.Dashboard.Library)
	v1.GET("/dashboard/author", h.Dashboard.Author)

	// 管理后台
	admin := v1.Group("/admin", middleware.RequireRole(middleware.RoleAdmin))
	{
		admin.GET("/dashboard", h.Dashboard.Admin)
		admin.POST("/books/:bookId/approve", h.Dashboard.Approve)
		admin.POST("/books/:bookId/reject", h.Dashboard.Reject)
	}
}
