// Package book 实现书稿生成、章节编辑、封面设计与预览
package book

import (
	"context"
	"errors"

	"bookforge-api/internal/application/generation"
	"bookforge-api/internal/application/storage"
	"bookforge-api/internal/domain/entity"
	"bookforge-api/internal/domain/service"
	"bookforge-api/internal/workflow/chain"
	apperrors "bookforge-api/pkg/errors"
)

// CoverFileStore 保存渲染出的封面图片
type CoverFileStore interface {
	Save(ctx context.Context, data []byte, mimeType string) (string, error)
}

// Service 书稿应用服务
type Service struct {
	store    *storage.DocumentStore
	runner   *generation.Runner
	content  *chain.BookContentChain
	cover    *chain.CoverDesignChain
	renderer service.ImageRenderer
	files    CoverFileStore
}

// NewService 创建服务，renderer 为 nil 时封面使用占位图
func NewService(
	store *storage.DocumentStore,
	runner *generation.Runner,
	content *chain.BookContentChain,
	cover *chain.CoverDesignChain,
	renderer service.ImageRenderer,
	files CoverFileStore,
) *Service {
	return &Service{
		store:    store,
		runner:   runner,
		content:  content,
		cover:    cover,
		renderer: renderer,
		files:    files,
	}
}

// translateEntityError 领域规则错误映射为应用错误
func translateEntityError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, entity.ErrOutlineIndex),
		errors.Is(err, entity.ErrOutlineTooShort),
		errors.Is(err, entity.ErrBlankOutlineEntry),
		errors.Is(err, entity.ErrMarkNotExplicit),
		errors.Is(err, entity.ErrMarkEmptyChapter):
		return apperrors.ErrInvalidParam.WithDetail(err.Error())
	default:
		return err
	}
}
