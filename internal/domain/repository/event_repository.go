// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"storyvault-api/internal/domain/entity"
)

// EventPatch 事件部分更新
type EventPatch struct {
	Name         *string
	Description  *string
	StoryUnitID  *string
	Order        *int
	Duration     *int
	Layer        *int
	ChapterRange *entity.ChapterRange
}

// EventRepository 事件仓储接口
type EventRepository interface {
	// List 读取全部事件，文档缺失或损坏时返回空集合
	List(ctx context.Context, bookPath string) ([]*entity.StoryEvent, error)

	// GetByID 按 ID 获取事件，不存在时返回 (nil, nil)
	GetByID(ctx context.Context, bookPath, eventID string) (*entity.StoryEvent, error)

	// Add 追加事件并整体重写集合文档
	Add(ctx context.Context, bookPath string, event *entity.StoryEvent) error

	// Update 合并补丁并更新 updatedAt，未知 ID 返回 NotFound
	Update(ctx context.Context, bookPath, eventID string, patch *EventPatch) (*entity.StoryEvent, error)

	// Delete 删除事件，未知 ID 返回 NotFound
	Delete(ctx context.Context, bookPath, eventID string) error
}
