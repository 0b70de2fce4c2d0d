// Package storage 在原始键值后端之上提供带版本、校验和命名空间的类型化文档存储
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"bookforge-api/internal/domain/entity"
	"bookforge-api/internal/domain/repository"
	apperrors "bookforge-api/pkg/errors"
	"bookforge-api/pkg/logger"
	"bookforge-api/pkg/metrics"
)

// 文档键
const (
	KeyCurrentBook          = "currentBook"
	KeyBookDesign           = "bookDesign"
	KeyGeneratedCoverDesign = "generatedCoverDesign"
	KeyMarketplaceBooks     = "marketplaceBooks"
)

// SchemaVersion 当前文档版本
const SchemaVersion = 2

// Keys 所有已知文档键
func Keys() []string {
	return []string{KeyCurrentBook, KeyBookDesign, KeyGeneratedCoverDesign, KeyMarketplaceBooks}
}

// Envelope 持久化格式
type Envelope struct {
	SchemaVersion int             `json:"schemaVersion"`
	SavedAt       time.Time       `json:"savedAt"`
	Data          json.RawMessage `json:"data"`
}

// DocumentStore 类型化文档存储。
// 同一进程内同一文档的写入经由按键互斥锁串行化；跨进程仍是后写覆盖。
type DocumentStore struct {
	kv         repository.KVStore
	validate   *validator.Validate
	migrations map[string]map[int]Migration
	now        func() time.Time

	locksMu sync.Mutex
	locks   map[string]*keyLock
}

// keyLock 引用计数归零时从 locks 中移除
type keyLock struct {
	mu   sync.Mutex
	refs int
}

// NewDocumentStore 创建文档存储并注册内置迁移
func NewDocumentStore(kv repository.KVStore) *DocumentStore {
	s := &DocumentStore{
		kv:         kv,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
		migrations: make(map[string]map[int]Migration),
		now:        time.Now,
		locks:      make(map[string]*keyLock),
	}
	registerDefaultMigrations(s)
	return s
}

// Register 注册 key 从 fromVersion 升级到 fromVersion+1 的迁移
func (s *DocumentStore) Register(key string, fromVersion int, fn Migration) {
	if s.migrations[key] == nil {
		s.migrations[key] = make(map[int]Migration)
	}
	s.migrations[key][fromVersion] = fn
}

// HealthCheck 后端支持时检查连通性
func (s *DocumentStore) HealthCheck(ctx context.Context) error {
	if hc, ok := s.kv.(repository.HealthChecker); ok {
		return hc.HealthCheck(ctx)
	}
	return nil
}

func (s *DocumentStore) lock(namespace, key string) func() {
	id := namespace + "/" + key
	s.locksMu.Lock()
	l, ok := s.locks[id]
	if !ok {
		l = &keyLock{}
		s.locks[id] = l
	}
	l.refs++
	s.locksMu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		s.locksMu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, id)
		}
		s.locksMu.Unlock()
	}
}

// decodeEnvelope 识别信封；不是信封的内容视为 v1 裸数据
func decodeEnvelope(raw []byte) (*Envelope, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err == nil {
		_, hasVersion := fields["schemaVersion"]
		_, hasData := fields["data"]
		if hasVersion && hasData {
			var env Envelope
			if err := json.Unmarshal(raw, &env); err != nil {
				return nil, err
			}
			return &env, nil
		}
	}
	if !json.Valid(raw) {
		return nil, fmt.Errorf("document is not valid json")
	}
	return &Envelope{SchemaVersion: 1, Data: raw}, nil
}

func (s *DocumentStore) upgrade(ctx context.Context, key string, env *Envelope) error {
	if env.SchemaVersion > SchemaVersion {
		return fmt.Errorf("document %s has schema version %d, newer than supported %d", key, env.SchemaVersion, SchemaVersion)
	}
	for v := env.SchemaVersion; v < SchemaVersion; v++ {
		metrics.DocumentMigrations.WithLabelValues(key, strconv.Itoa(v)).Inc()
		fn, ok := s.migrations[key][v]
		if !ok {
			continue
		}
		data, err := fn(env.Data)
		if err != nil {
			return fmt.Errorf("migrate %s from v%d: %w", key, v, err)
		}
		env.Data = data
		logger.Info(ctx, "document migrated", "key", key, "from_version", v, "to_version", v+1)
	}
	env.SchemaVersion = SchemaVersion
	return nil
}

func (s *DocumentStore) check(v any) error {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	if rv.Kind() == reflect.Slice {
		return s.validate.Var(rv.Interface(), "dive")
	}
	return s.validate.Struct(v)
}

func invalid(key string, err error) error {
	return apperrors.ErrValidationFailed.WithDetail(fmt.Sprintf("%s: %v", key, err)).WithError(err)
}

func storageErr(err error) error {
	return apperrors.Wrap(err, apperrors.CodeStorageError, "storage error")
}

// load 读取、迁移并校验文档
func load[T any](ctx context.Context, s *DocumentStore, key string) (T, bool, error) {
	var zero T
	ns := NamespaceFromContext(ctx)
	raw, found, err := s.kv.Get(ctx, ns, key)
	if err != nil {
		return zero, false, storageErr(err)
	}
	if !found {
		return zero, false, nil
	}

	env, err := decodeEnvelope(raw)
	if err != nil {
		return zero, false, invalid(key, err)
	}
	if err := s.upgrade(ctx, key, env); err != nil {
		return zero, false, invalid(key, err)
	}

	var out T
	if err := json.Unmarshal(env.Data, &out); err != nil {
		return zero, false, invalid(key, err)
	}
	if err := s.check(out); err != nil {
		return zero, false, invalid(key, err)
	}
	return out, true, nil
}

// save 校验后写入当前版本的信封
func save[T any](ctx context.Context, s *DocumentStore, key string, value T) error {
	if err := s.check(value); err != nil {
		return invalid(key, err)
	}
	data, err := json.Marshal(value)
	if err != nil {
		return invalid(key, err)
	}
	raw, err := json.Marshal(Envelope{SchemaVersion: SchemaVersion, SavedAt: s.now().UTC(), Data: data})
	if err != nil {
		return storageErr(err)
	}
	if err := s.kv.Set(ctx, NamespaceFromContext(ctx), key, raw); err != nil {
		return storageErr(err)
	}
	return nil
}

// loadOrDefault 文档不存在时返回 def() 的结果，found 为 false
func loadOrDefault[T any](ctx context.Context, s *DocumentStore, key string, def func() T) (T, bool, error) {
	v, found, err := load[T](ctx, s, key)
	if err != nil {
		return v, false, err
	}
	if !found {
		return def(), false, nil
	}
	return v, true, nil
}

// CurrentBook 当前草稿，不存在时返回默认大纲的空草稿
func (s *DocumentStore) CurrentBook(ctx context.Context) (*entity.BookDraft, bool, error) {
	draft, found, err := loadOrDefault(ctx, s, KeyCurrentBook, entity.NewBookDraft)
	if err != nil {
		return nil, false, err
	}
	draft.Refresh()
	return draft, found, nil
}

// SaveCurrentBook 覆盖当前草稿
func (s *DocumentStore) SaveCurrentBook(ctx context.Context, draft *entity.BookDraft) error {
	unlock := s.lock(NamespaceFromContext(ctx), KeyCurrentBook)
	defer unlock()
	draft.Refresh()
	return save(ctx, s, KeyCurrentBook, draft)
}

// UpdateCurrentBook 在锁内读取、修改并写回草稿。
// 草稿不存在时返回 ErrBookNotFound。
func (s *DocumentStore) UpdateCurrentBook(ctx context.Context, fn func(draft *entity.BookDraft) error) (*entity.BookDraft, error) {
	unlock := s.lock(NamespaceFromContext(ctx), KeyCurrentBook)
	defer unlock()

	draft, found, err := load[*entity.BookDraft](ctx, s, KeyCurrentBook)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperrors.ErrBookNotFound
	}
	draft.Refresh()
	if err := fn(draft); err != nil {
		return nil, err
	}
	draft.Refresh()
	if err := save(ctx, s, KeyCurrentBook, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// BookDesign 封面设计，不存在时返回默认值
func (s *DocumentStore) BookDesign(ctx context.Context) (*entity.BookDesign, bool, error) {
	design, found, err := loadOrDefault(ctx, s, KeyBookDesign, func() *entity.BookDesign {
		return entity.DefaultBookDesign(nil)
	})
	if err != nil {
		return nil, false, err
	}
	return design, found, nil
}

// SaveBookDesign 覆盖封面设计
func (s *DocumentStore) SaveBookDesign(ctx context.Context, design *entity.BookDesign) error {
	unlock := s.lock(NamespaceFromContext(ctx), KeyBookDesign)
	defer unlock()
	return save(ctx, s, KeyBookDesign, design)
}

// UpdateBookDesign 在锁内读取（不存在时用默认值）、修改并写回封面设计
func (s *DocumentStore) UpdateBookDesign(ctx context.Context, fn func(design *entity.BookDesign) error) (*entity.BookDesign, error) {
	unlock := s.lock(NamespaceFromContext(ctx), KeyBookDesign)
	defer unlock()

	design, _, err := s.BookDesign(ctx)
	if err != nil {
		return nil, err
	}
	if err := fn(design); err != nil {
		return nil, err
	}
	if err := save(ctx, s, KeyBookDesign, design); err != nil {
		return nil, err
	}
	return design, nil
}

// GeneratedCoverDesign 最近一次生成的封面描述
func (s *DocumentStore) GeneratedCoverDesign(ctx context.Context) (*entity.CoverDesign, bool, error) {
	return load[*entity.CoverDesign](ctx, s, KeyGeneratedCoverDesign)
}

// SaveGeneratedCoverDesign 保存生成的封面描述
func (s *DocumentStore) SaveGeneratedCoverDesign(ctx context.Context, cover *entity.CoverDesign) error {
	unlock := s.lock(NamespaceFromContext(ctx), KeyGeneratedCoverDesign)
	defer unlock()
	return save(ctx, s, KeyGeneratedCoverDesign, cover)
}

// MarketplaceBooks 用户上架的书籍，不存在时为空
func (s *DocumentStore) MarketplaceBooks(ctx context.Context) ([]entity.Listing, error) {
	listings, _, err := loadOrDefault(ctx, s, KeyMarketplaceBooks, func() []entity.Listing {
		return []entity.Listing{}
	})
	return listings, err
}

// AppendMarketplaceBook 追加上架书籍
func (s *DocumentStore) AppendMarketplaceBook(ctx context.Context, listing entity.Listing) ([]entity.Listing, error) {
	unlock := s.lock(NamespaceFromContext(ctx), KeyMarketplaceBooks)
	defer unlock()

	listings, err := s.MarketplaceBooks(ctx)
	if err != nil {
		return nil, err
	}
	listings = append(listings, listing)
	if err := save(ctx, s, KeyMarketplaceBooks, listings); err != nil {
		return nil, err
	}
	return listings, nil
}

// Raw 返回原始存储内容，用于排查
func (s *DocumentStore) Raw(ctx context.Context, key string) ([]byte, bool, error) {
	raw, found, err := s.kv.Get(ctx, NamespaceFromContext(ctx), key)
	if err != nil {
		return nil, false, storageErr(err)
	}
	return raw, found, nil
}
