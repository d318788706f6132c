// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"storyvault-api/internal/domain/entity"
	"storyvault-api/internal/domain/repository"
)

// CreateEventRequest 创建事件请求
type CreateEventRequest struct {
	Name         string              `json:"name" binding:"required"`
	Description  string              `json:"description"`
	StoryUnitID  string              `json:"story_unit_id"`
	Order        int                 `json:"order"`
	Duration     int                 `json:"duration"`
	Layer        int                 `json:"layer"`
	ChapterRange entity.ChapterRange `json:"chapter_range" binding:"required"`
}

// ToEntity 转换为事件实体，ID 由仓储生成
func (r *CreateEventRequest) ToEntity() *entity.StoryEvent {
	e := entity.NewStoryEvent("", r.Name, r.Order, r.ChapterRange)
	e.EventID = ""
	e.Description = r.Description
	e.StoryUnitID = r.StoryUnitID
	e.Duration = r.Duration
	e.Layer = r.Layer
	return e
}

// UpdateEventRequest 更新事件请求，空字段不变更
type UpdateEventRequest struct {
	Name         *string              `json:"name"`
	Description  *string              `json:"description"`
	StoryUnitID  *string              `json:"story_unit_id"`
	Order        *int                 `json:"order"`
	Duration     *int                 `json:"duration"`
	Layer        *int                 `json:"layer"`
	ChapterRange *entity.ChapterRange `json:"chapter_range"`
}

// ToPatch 转换为仓储补丁
func (r *UpdateEventRequest) ToPatch() *repository.EventPatch {
	return &repository.EventPatch{
		Name:         r.Name,
		Description:  r.Description,
		StoryUnitID:  r.StoryUnitID,
		Order:        r.Order,
		Duration:     r.Duration,
		Layer:        r.Layer,
		ChapterRange: r.ChapterRange,
	}
}
