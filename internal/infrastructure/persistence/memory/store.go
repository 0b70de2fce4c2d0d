// Package memory 提供进程内文档存储与生成锁，用于单实例部署和测试
package memory

import (
	"context"
	"sync"

	apperrors "bookforge-api/pkg/errors"
	"bookforge-api/pkg/metrics"
)

// DocumentStore 进程内文档存储
type DocumentStore struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

func NewDocumentStore() *DocumentStore {
	return &DocumentStore{docs: make(map[string][]byte)}
}

func docKey(namespace, key string) string {
	return namespace + "\x00" + key
}

func (s *DocumentStore) Get(_ context.Context, namespace, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.docs[docKey(namespace, key)]
	if !ok {
		metrics.DocumentOpsTotal.WithLabelValues("memory", "get", "miss").Inc()
		return nil, false, nil
	}
	metrics.DocumentOpsTotal.WithLabelValues("memory", "get", "hit").Inc()
	return append([]byte(nil), v...), true, nil
}

func (s *DocumentStore) Set(_ context.Context, namespace, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[docKey(namespace, key)] = append([]byte(nil), value...)
	metrics.DocumentOpsTotal.WithLabelValues("memory", "set", "ok").Inc()
	return nil
}

// InflightGate 进程内生成锁
type InflightGate struct {
	held sync.Map
}

func NewInflightGate() *InflightGate {
	return &InflightGate{}
}

func (g *InflightGate) Acquire(_ context.Context, key string) (func(), error) {
	if _, loaded := g.held.LoadOrStore(key, struct{}{}); loaded {
		return nil, apperrors.ErrGenerationInProgress
	}
	var once sync.Once
	return func() {
		once.Do(func() { g.held.Delete(key) })
	}, nil
}
