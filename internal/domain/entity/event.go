// Package entity 定义领域实体
package entity

import (
	"time"
)

// StoryEvent 时间轴事件
// Order/Duration/Layer 是纯布局用的伪时间坐标，不参与任何业务校验
type StoryEvent struct {
	EventID      string       `json:"event_id"`
	BookID       string       `json:"book_id"`
	StoryUnitID  string       `json:"story_unit_id,omitempty"`
	Name         string       `json:"name"`
	Description  string       `json:"description,omitempty"`
	Order        int          `json:"order"`
	Duration     int          `json:"duration,omitempty"`
	Layer        int          `json:"layer,omitempty"`
	ChapterRange ChapterRange `json:"chapter_range"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// NewStoryEvent 创建事件
func NewStoryEvent(bookID, name string, order int, chapterRange ChapterRange) *StoryEvent {
	now := time.Now()
	return &StoryEvent{
		EventID:      NewRecordID("event"),
		BookID:       bookID,
		Name:         name,
		Order:        order,
		ChapterRange: chapterRange,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
