// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"storyvault-api/internal/domain/entity"
	"storyvault-api/internal/domain/repository"
)

// InitializeBookRequest 初始化书库请求
type InitializeBookRequest struct {
	Title       string `json:"title" binding:"required"`
	Author      string `json:"author"`
	Description string `json:"description"`
}

// ToInput 转换为仓储输入
func (r *InitializeBookRequest) ToInput() repository.InitializeBookInput {
	return repository.InitializeBookInput{
		Title:       r.Title,
		Author:      r.Author,
		Description: r.Description,
	}
}

// InitializeBookResponse 初始化书库响应
type InitializeBookResponse struct {
	BookID string `json:"book_id"`
}

// UpdateBookMetaRequest 更新书籍元数据请求，空字段不变更
type UpdateBookMetaRequest struct {
	Title         *string        `json:"title"`
	Author        *string        `json:"author"`
	Description   *string        `json:"description"`
	ChapterCount  *int           `json:"chapter_count"`
	WordCount     *int           `json:"word_count"`
	ReadingStatus *string        `json:"reading_status"`
	AISummary     *string        `json:"ai_summary"`
	AIKeywords    []string       `json:"ai_keywords"`
	CustomFields  map[string]any `json:"custom_fields"`
}

// ToPatch 转换为仓储补丁
func (r *UpdateBookMetaRequest) ToPatch() repository.BookMetaPatch {
	patch := repository.BookMetaPatch{
		Title:        r.Title,
		Author:       r.Author,
		Description:  r.Description,
		ChapterCount: r.ChapterCount,
		WordCount:    r.WordCount,
		AISummary:    r.AISummary,
		AIKeywords:   r.AIKeywords,
		CustomFields: r.CustomFields,
	}
	if r.ReadingStatus != nil {
		status := entity.ReadingStatus(*r.ReadingStatus)
		patch.ReadingStatus = &status
	}
	return patch
}
