package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"bookforge-api/internal/application/marketplace"
	"bookforge-api/internal/domain/entity"
)

// Price 价格，接受数字或数字字符串
type Price float64

// UnmarshalJSON 解析 19.99 或 "19.99"
func (p *Price) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return fmt.Errorf("invalid price %q", s)
		}
		*p = Price(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("invalid price: %w", err)
	}
	*p = Price(v)
	return nil
}

// CreateListingRequest 上架请求
type CreateListingRequest struct {
	Title       string `json:"title" binding:"required,max=300"`
	Author      string `json:"author" binding:"required,max=200"`
	Price       Price  `json:"price"`
	Category    string `json:"category" binding:"required,max=100"`
	Subcategory string `json:"subcategory" binding:"max=100"`
	Description string `json:"description" binding:"max=5000"`
	Tags        string `json:"tags" binding:"max=1000"`
}

// ToInput 转换为应用层输入
func (r *CreateListingRequest) ToInput() marketplace.CreateListingInput {
	return marketplace.CreateListingInput{
		Title:       r.Title,
		Author:      r.Author,
		Price:       float64(r.Price),
		Category:    r.Category,
		Subcategory: r.Subcategory,
		Description: r.Description,
		Tags:        r.Tags,
	}
}

// BrowseQuery 浏览条件
type BrowseQuery struct {
	Q        string `form:"q"`
	Category string `form:"category"`
	Sort     string `form:"sort"`
}

// CategoriesResponse 分类
type CategoriesResponse struct {
	Listing []entity.Category `json:"listing"`
	Browse  []entity.Category `json:"browse"`
}
