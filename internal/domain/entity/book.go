// Package entity 定义领域实体
package entity

import (
	"time"
)

// ReadingStatus 阅读状态
type ReadingStatus string

const (
	ReadingStatusUnread   ReadingStatus = "unread"
	ReadingStatusReading  ReadingStatus = "reading"
	ReadingStatusFinished ReadingStatus = "finished"
)

// BookMeta 书籍元数据（每本书单例）
type BookMeta struct {
	BookID        string         `json:"book_id"`
	Title         string         `json:"title"`
	Author        string         `json:"author,omitempty"`
	Description   string         `json:"description,omitempty"`
	ChapterCount  int            `json:"chapter_count"`
	WordCount     int            `json:"word_count"`
	ReadingStatus ReadingStatus  `json:"reading_status"`
	AISummary     string         `json:"ai_summary,omitempty"`
	AIKeywords    []string       `json:"ai_keywords,omitempty"`
	CustomFields  map[string]any `json:"custom_fields,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// NewBookMeta 创建书籍元数据，bookId 由书名派生且只生成一次
func NewBookMeta(title, author, description string) *BookMeta {
	now := time.Now()
	return &BookMeta{
		BookID:        NewBookID(title),
		Title:         title,
		Author:        author,
		Description:   description,
		ReadingStatus: ReadingStatusUnread,
		CustomFields:  map[string]any{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Touch 更新修改时间
func (b *BookMeta) Touch() {
	b.UpdatedAt = time.Now()
}
