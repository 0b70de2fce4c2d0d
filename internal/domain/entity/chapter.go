package entity

import "strings"

// ChapterStatus 章节状态
type ChapterStatus string

const (
	ChapterStatusNotStarted ChapterStatus = "not_started"
	ChapterStatusInProgress ChapterStatus = "in_progress"
	ChapterStatusDraft      ChapterStatus = "draft"
	ChapterStatusCompleted  ChapterStatus = "completed"
)

// IsExplicit 是否为只能由作者显式标记的状态
func (s ChapterStatus) IsExplicit() bool {
	return s == ChapterStatusDraft || s == ChapterStatusCompleted
}

// IsValid 检查状态值是否合法
func (s ChapterStatus) IsValid() bool {
	switch s {
	case ChapterStatusNotStarted, ChapterStatusInProgress, ChapterStatusDraft, ChapterStatusCompleted:
		return true
	}
	return false
}

// Chapter 章节
//
// Status 是持久化的权威状态。StatusExplicit 为 true 时表示作者手动标记过
// draft/completed，此时内容编辑不会覆盖它；内容被清空时标记失效。
type Chapter struct {
	Title          string        `json:"title" validate:"max=300"`
	Content        string        `json:"content"`
	Status         ChapterStatus `json:"status" validate:"required,oneof=not_started in_progress draft completed"`
	StatusExplicit bool          `json:"statusExplicit,omitempty"`
	WordCount      int           `json:"wordCount"`
}

// NewChapter 创建章节并计算状态
func NewChapter(title, content string) Chapter {
	c := Chapter{Title: title}
	c.SetContent(content)
	return c
}

// DerivedStatus 仅根据内容推导状态
func DerivedStatus(content string) ChapterStatus {
	if strings.TrimSpace(content) == "" {
		return ChapterStatusNotStarted
	}
	return ChapterStatusInProgress
}

// CountWords 按空白切分统计字数
func CountWords(content string) int {
	return len(strings.Fields(content))
}

// SetContent 更新内容，显式标记优先于推导状态
func (c *Chapter) SetContent(content string) {
	c.Content = content
	c.Refresh()
}

// Mark 显式标记为 draft 或 completed
func (c *Chapter) Mark(status ChapterStatus) error {
	if !status.IsExplicit() {
		return ErrMarkNotExplicit
	}
	if strings.TrimSpace(c.Content) == "" {
		return ErrMarkEmptyChapter
	}
	c.Status = status
	c.StatusExplicit = true
	return nil
}

// ClearMark 取消显式标记，回到推导状态
func (c *Chapter) ClearMark() {
	c.StatusExplicit = false
	c.Refresh()
}

// Refresh 重新计算字数和状态
func (c *Chapter) Refresh() {
	c.WordCount = CountWords(c.Content)
	if DerivedStatus(c.Content) == ChapterStatusNotStarted {
		c.StatusExplicit = false
	}
	if c.StatusExplicit && c.Status.IsExplicit() {
		return
	}
	c.StatusExplicit = false
	c.Status = DerivedStatus(c.Content)
}
