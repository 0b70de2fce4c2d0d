package storage

import (
	"encoding/json"

	"bookforge-api/internal/domain/entity"
)

// Migration 把某一版本的 data 升级到下一版本
type Migration func(data json.RawMessage) (json.RawMessage, error)

// registerDefaultMigrations v1 是旧客户端直接写入的裸 JSON
func registerDefaultMigrations(s *DocumentStore) {
	s.Register(KeyCurrentBook, 1, migrateCurrentBookV1)
	s.Register(KeyMarketplaceBooks, 1, migrateMarketplaceBooksV1)
}

// migrateCurrentBookV1 旧数据没有持久化的章节状态，全部按内容推导
func migrateCurrentBookV1(data json.RawMessage) (json.RawMessage, error) {
	var draft entity.BookDraft
	if err := json.Unmarshal(data, &draft); err != nil {
		return nil, err
	}
	if draft.Outline == nil {
		draft.Outline = []string{}
	}
	if draft.Chapters == nil {
		draft.Chapters = []entity.Chapter{}
	}
	for i := range draft.Chapters {
		draft.Chapters[i].StatusExplicit = false
		draft.Chapters[i].Refresh()
	}
	return json.Marshal(draft)
}

// migrateMarketplaceBooksV1 旧数据只包含用户自己上架的书
func migrateMarketplaceBooksV1(data json.RawMessage) (json.RawMessage, error) {
	var listings []entity.Listing
	if err := json.Unmarshal(data, &listings); err != nil {
		return nil, err
	}
	for i := range listings {
		listings[i].UserCreated = true
		if listings[i].Tags == nil {
			listings[i].Tags = []string{}
		}
	}
	return json.Marshal(listings)
}
