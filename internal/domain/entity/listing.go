package entity

import "strings"

// Listing 市场在售书籍
type Listing struct {
	ID          int64    `json:"id" validate:"required"`
	Title       string   `json:"title" validate:"required,max=300"`
	Author      string   `json:"author" validate:"required,max=200"`
	Price       float64  `json:"price" validate:"gte=0"`
	Rating      float64  `json:"rating" validate:"gte=0,lte=5"`
	ReviewCount int      `json:"reviewCount" validate:"gte=0"`
	Category    string   `json:"category" validate:"required"`
	Subcategory string   `json:"subcategory"`
	CoverURL    string   `json:"coverUrl"`
	Description string   `json:"description" validate:"max=5000"`
	Tags        []string `json:"tags"`
	Bestseller  bool     `json:"bestseller"`
	UserCreated bool     `json:"userCreated,omitempty"`
}

// Matches 标题/作者/标签大小写不敏感的子串匹配
func (l *Listing) Matches(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(l.Title), q) || strings.Contains(strings.ToLower(l.Author), q) {
		return true
	}
	for _, tag := range l.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

// InCategory category 为空或 all 时匹配全部，否则大小写不敏感相等
func (l *Listing) InCategory(category string) bool {
	c := strings.TrimSpace(category)
	if c == "" || strings.EqualFold(c, "all") {
		return true
	}
	return strings.EqualFold(l.Category, c)
}

// SplitTags 按逗号切分标签，去掉空白和空项
func SplitTags(raw string) []string {
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// Review 读者评价
type Review struct {
	ID      int    `json:"id"`
	Author  string `json:"author"`
	Rating  int    `json:"rating"`
	Date    string `json:"date"`
	Comment string `json:"comment"`
}

// BookDetail 书籍详情
type BookDetail struct {
	Listing
	OriginalPrice   float64  `json:"originalPrice,omitempty"`
	PublishDate     string   `json:"publishDate,omitempty"`
	Pages           int      `json:"pages,omitempty"`
	Language        string   `json:"language,omitempty"`
	Format          string   `json:"format,omitempty"`
	TableOfContents []string `json:"tableOfContents"`
	AuthorBio       string   `json:"authorBio,omitempty"`
	Reviews         []Review `json:"reviews"`
}

// Purchase 购买确认，不涉及真实支付
type Purchase struct {
	OrderID       string  `json:"orderId"`
	TransactionID string  `json:"transactionId"`
	Book          Listing `json:"book"`
	Amount        float64 `json:"amount"`
	DownloadURL   string  `json:"downloadUrl"`
	ReceiptEmail  string  `json:"receiptEmail"`
	PurchasedAt   string  `json:"purchasedAt"`
}

// Category 分类及子分类
type Category struct {
	Value         string   `json:"value"`
	Label         string   `json:"label"`
	Subcategories []string `json:"subcategories,omitempty"`
}
