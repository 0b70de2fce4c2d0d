package handler

import (
	"github.com/gin-gonic/gin"

	"bookforge-api/internal/application/marketplace"
	"bookforge-api/internal/interfaces/http/dto"
	"bookforge-api/internal/interfaces/http/middleware"
)

// MarketplaceHandler 市场处理器
type MarketplaceHandler struct {
	market *marketplace.Service
}

// NewMarketplaceHandler 创建市场处理器
func NewMarketplaceHandler(market *marketplace.Service) *MarketplaceHandler {
	return &MarketplaceHandler{market: market}
}

// Categories 分类
// @Summary 书籍分类
// @Tags Marketplace
// @Produce json
// @Success 200 {object} dto.Response[dto.CategoriesResponse]
// @Router /v1/marketplace/categories [get]
func (h *MarketplaceHandler) Categories(c *gin.Context) {
	dto.Success(c, &dto.CategoriesResponse{
		Listing: h.market.Categories(),
		Browse:  h.market.BrowseCategories(),
	})
}

// CreateListing 上架书籍
// @Summary 上架书籍
// @Tags Marketplace
// @Accept json
// @Produce json
// @Param body body dto.CreateListingRequest true "上架信息"
// @Success 201 {object} dto.Response[entity.Listing]
// @Failure 400 {object} dto.ErrorResponse
// @Router /v1/marketplace/listings [post]
func (h *MarketplaceHandler) CreateListing(c *gin.Context) {
	var req dto.CreateListingRequest
	if !bindJSON(c, &req) {
		return
	}
	listing, err := h.market.CreateListing(c.Request.Context(), req.ToInput())
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Created(c, listing)
}

// Browse 浏览书籍
// @Summary 浏览书籍
// @Tags Marketplace
// @Produce json
// @Param q query string false "标题/作者/标签"
// @Param category query string false "分类"
// @Param sort query string false "popularity|rating|price_asc|price_desc|newest"
// @Success 200 {object} dto.Response[[]entity.Listing]
// @Failure 400 {object} dto.ErrorResponse
// @Router /v1/marketplace/books [get]
func (h *MarketplaceHandler) Browse(c *gin.Context) {
	var q dto.BrowseQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		dto.BadRequest(c, "invalid query: "+err.Error())
		return
	}
	books, err := h.market.Browse(c.Request.Context(), marketplace.BrowseQuery{
		Query:    q.Q,
		Category: q.Category,
		Sort:     q.Sort,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	dto.SuccessWithList(c, books)
}

// Bestsellers 畅销书
// @Summary 畅销书
// @Tags Marketplace
// @Produce json
// @Success 200 {object} dto.Response[[]entity.Listing]
// @Router /v1/marketplace/bestsellers [get]
func (h *MarketplaceHandler) Bestsellers(c *gin.Context) {
	books, err := h.market.Bestsellers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	dto.SuccessWithList(c, books)
}

// Detail 书籍详情
// @Summary 书籍详情
// @Tags Marketplace
// @Produce json
// @Param bookId path string true "书籍 ID"
// @Success 200 {object} dto.Response[entity.BookDetail]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/marketplace/books/{bookId} [get]
func (h *MarketplaceHandler) Detail(c *gin.Context) {
	detail, err := h.market.Detail(c.Request.Context(), dto.BindBookID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, detail)
}

// Purchase 购买
// @Summary 购买书籍
// @Description 生成购买确认，不做真实支付
// @Tags Marketplace
// @Produce json
// @Param bookId path string true "书籍 ID"
// @Success 200 {object} dto.Response[entity.Purchase]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/marketplace/books/{bookId}/purchase [post]
func (h *MarketplaceHandler) Purchase(c *gin.Context) {
	p, err := h.market.Purchase(c.Request.Context(), dto.BindBookID(c), c.GetString(middleware.ContextEmail))
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, p)
}
