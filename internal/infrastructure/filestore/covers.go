// Package filestore 将渲染好的封面写入本地目录并生成公开地址
package filestore

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path"
	"path/filepath"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"

	"bookforge-api/internal/config"
)

var tracer = otel.Tracer("filestore")

// CoverStore 封面文件存储
type CoverStore struct {
	dir        string
	publicPath string
}

func NewCoverStore(cfg config.ImageConfig) *CoverStore {
	return &CoverStore{dir: cfg.OutputDir, publicPath: cfg.PublicPath}
}

// Dir 本地目录，路由层据此挂载静态文件
func (s *CoverStore) Dir() string {
	return s.dir
}

// PublicPath 静态文件 URL 前缀
func (s *CoverStore) PublicPath() string {
	return s.publicPath
}

// Save 写入图片并返回公开 URL 路径
func (s *CoverStore) Save(ctx context.Context, data []byte, mimeType string) (string, error) {
	_, span := tracer.Start(ctx, "filestore.SaveCover")
	defer span.End()

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("create cover dir: %w", err)
	}
	name := uuid.NewString() + extensionFor(mimeType)
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("write cover: %w", err)
	}
	return path.Join(s.publicPath, name), nil
}

func extensionFor(mimeType string) string {
	switch mimeType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	}
	if exts, err := mime.ExtensionsByType(mimeType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ".img"
}
