package entity

import (
	"fmt"
	"strings"
)

// MinOutlineEntries 大纲最少保留的条目数
const MinOutlineEntries = 3

// 当前草稿的书籍 ID 别名
const (
	CurrentBookID = "current"
	NewBookID     = "new"
)

// BookDraft 书籍草稿（idea、大纲、章节）
type BookDraft struct {
	Idea     string    `json:"idea" validate:"max=5000"`
	Topic    string    `json:"topic" validate:"max=500"`
	Audience string    `json:"audience" validate:"max=200"`
	Genre    string    `json:"genre" validate:"max=100"`
	Language string    `json:"language" validate:"max=50"`
	Title    string    `json:"title,omitempty" validate:"max=300"`
	Outline  []string  `json:"outline" validate:"dive,max=500"`
	Chapters []Chapter `json:"chapters" validate:"dive"`
}

// DefaultOutline 新书默认大纲
func DefaultOutline() []string {
	return []string{
		"Introduction to the Topic",
		"Chapter 1: Getting Started",
		"Chapter 2: Core Concepts",
		"Chapter 3: Advanced Techniques",
		"Chapter 4: Real-World Applications",
		"Conclusion and Next Steps",
	}
}

// NewBookDraft 创建带默认大纲的空草稿
func NewBookDraft() *BookDraft {
	return &BookDraft{
		Outline:  DefaultOutline(),
		Chapters: []Chapter{},
	}
}

// IsCurrentBookID 判断路由中的书籍 ID 是否指向当前草稿
func IsCurrentBookID(id string) bool {
	return id == CurrentBookID || id == NewBookID
}

// DisplayTitle 草稿标题，未设置时回退到 topic
func (b *BookDraft) DisplayTitle() string {
	switch {
	case strings.TrimSpace(b.Title) != "":
		return b.Title
	case strings.TrimSpace(b.Topic) != "":
		return b.Topic
	default:
		return "Untitled Book"
	}
}

// Refresh 重新计算所有章节的字数和状态
func (b *BookDraft) Refresh() {
	for i := range b.Chapters {
		b.Chapters[i].Refresh()
	}
}

// Chapter 获取指定下标的章节
func (b *BookDraft) Chapter(index int) (*Chapter, bool) {
	if index < 0 || index >= len(b.Chapters) {
		return nil, false
	}
	return &b.Chapters[index], true
}

// AppendChapter 追加章节，标题为空时使用 "Chapter N"
func (b *BookDraft) AppendChapter(title string) int {
	if strings.TrimSpace(title) == "" {
		title = fmt.Sprintf("Chapter %d", len(b.Chapters)+1)
	}
	b.Chapters = append(b.Chapters, NewChapter(title, ""))
	return len(b.Chapters) - 1
}

// AddOutlineEntry 追加大纲条目
func (b *BookDraft) AddOutlineEntry(entry string) {
	if strings.TrimSpace(entry) == "" {
		entry = fmt.Sprintf("Chapter %d: New Chapter", len(b.Outline)-1)
	}
	b.Outline = append(b.Outline, entry)
}

// RemoveOutlineEntry 删除大纲条目，至少保留 MinOutlineEntries 条
func (b *BookDraft) RemoveOutlineEntry(index int) error {
	if index < 0 || index >= len(b.Outline) {
		return ErrOutlineIndex
	}
	if len(b.Outline) <= MinOutlineEntries {
		return ErrOutlineTooShort
	}
	b.Outline = append(b.Outline[:index], b.Outline[index+1:]...)
	return nil
}

// ReplaceOutline 整体替换大纲
func (b *BookDraft) ReplaceOutline(outline []string) error {
	if len(outline) < MinOutlineEntries {
		return ErrOutlineTooShort
	}
	cleaned := make([]string, 0, len(outline))
	for _, entry := range outline {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			return ErrBlankOutlineEntry
		}
		cleaned = append(cleaned, entry)
	}
	b.Outline = cleaned
	return nil
}

// TotalWords 全书字数
func (b *BookDraft) TotalWords() int {
	total := 0
	for i := range b.Chapters {
		total += b.Chapters[i].WordCount
	}
	return total
}

// ProgressCounts 按状态统计章节数
func (b *BookDraft) ProgressCounts() map[ChapterStatus]int {
	counts := map[ChapterStatus]int{
		ChapterStatusNotStarted: 0,
		ChapterStatusInProgress: 0,
		ChapterStatusDraft:      0,
		ChapterStatusCompleted:  0,
	}
	for i := range b.Chapters {
		counts[b.Chapters[i].Status]++
	}
	return counts
}
