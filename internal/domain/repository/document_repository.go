// Package repository 定义数据访问层接口
package repository

import "context"

// KVStore 按命名空间隔离的原始文档存储。
// 值为完整的文档信封字节，后端不解析内容。
type KVStore interface {
	// Get 读取文档，不存在时 found 为 false 且 err 为 nil
	Get(ctx context.Context, namespace, key string) (value []byte, found bool, err error)
	// Set 覆盖写入文档
	Set(ctx context.Context, namespace, key string, value []byte) error
}

// HealthChecker 可用于就绪检查的后端
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
