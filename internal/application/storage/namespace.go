package storage

import (
	"context"
	"strings"
)

// DefaultNamespace 无法识别用户时使用
const DefaultNamespace = "default"

type namespaceKey struct{}

// WithNamespace 将文档命名空间写入 context
func WithNamespace(ctx context.Context, namespace string) context.Context {
	namespace = strings.TrimSpace(namespace)
	if namespace == "" {
		return ctx
	}
	return context.WithValue(ctx, namespaceKey{}, namespace)
}

// NamespaceFromContext 读取命名空间，未设置时返回 DefaultNamespace
func NamespaceFromContext(ctx context.Context) string {
	if ctx == nil {
		return DefaultNamespace
	}
	if ns, ok := ctx.Value(namespaceKey{}).(string); ok && ns != "" {
		return ns
	}
	return DefaultNamespace
}
