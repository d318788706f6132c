// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"storyvault-api/internal/domain/entity"
)

// CreateStartMarkRequest 创建起始标记请求
type CreateStartMarkRequest struct {
	Position entity.PrecisePosition `json:"position" binding:"required"`
	Name     string                 `json:"name"`
}

// CreateEndMarkRequest 配对结束标记请求
type CreateEndMarkRequest struct {
	Position entity.PrecisePosition `json:"position" binding:"required"`
}

// ConvertMarkRequest 标记晋升为故事单元请求
type ConvertMarkRequest struct {
	Name              string   `json:"name" binding:"required"`
	StoryLine         string   `json:"story_line"`
	RelatedCharacters []string `json:"related_characters"`
}

// MarkedTextResponse 标记文本解析响应
type MarkedTextResponse struct {
	MarkID string `json:"mark_id"`
	Text   string `json:"text"`
}
