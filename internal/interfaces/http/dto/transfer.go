// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"encoding/json"

	"storyvault-api/internal/application/transfer"
)

// ImportRequest 导入请求
// Records 保留原始 JSON，由应用层按集合类型反序列化
type ImportRequest struct {
	Records          json.RawMessage `json:"records" binding:"required"`
	Strategy         string          `json:"strategy"`
	AutoCreateFields bool            `json:"auto_create_fields"`
}

// ToOptions 转换为导入选项
func (r *ImportRequest) ToOptions() transfer.Options {
	return transfer.Options{
		Strategy:         transfer.ConflictStrategy(r.Strategy),
		AutoCreateFields: r.AutoCreateFields,
	}
}

// ChapterContentResponse 章节内容拼接响应
type ChapterContentResponse struct {
	Start   int    `json:"start"`
	End     int    `json:"end"`
	Content string `json:"content"`
}
