// Package markdown 提供基于扁平文本文档的仓储实现
package markdown

import (
	"context"
	"time"

	"storyvault-api/internal/domain/entity"
	"storyvault-api/internal/domain/repository"
	apperrors "storyvault-api/pkg/errors"
	"storyvault-api/pkg/tracer"
)

// EventRepository 事件仓储实现
type EventRepository struct {
	client *Client
}

// NewEventRepository 创建事件仓储
func NewEventRepository(client *Client) *EventRepository {
	return &EventRepository{client: client}
}

// List 读取全部事件，文档缺失或损坏时返回空集合
func (r *EventRepository) List(ctx context.Context, bookPath string) ([]*entity.StoryEvent, error) {
	ctx, span := tracer.Start(ctx, "markdown.EventRepository.List")
	defer span.End()

	_, events, _ := loadCollection[*entity.StoryEvent](ctx, r.client.storage, r.client.eventsPath(bookPath), "events")
	return events, nil
}

// GetByID 按 ID 获取事件，不存在时返回 (nil, nil)
func (r *EventRepository) GetByID(ctx context.Context, bookPath, eventID string) (*entity.StoryEvent, error) {
	ctx, span := tracer.Start(ctx, "markdown.EventRepository.GetByID")
	defer span.End()

	_, events, _ := loadCollection[*entity.StoryEvent](ctx, r.client.storage, r.client.eventsPath(bookPath), "events")
	for _, e := range events {
		if e.EventID == eventID {
			return e, nil
		}
	}
	return nil, nil
}

// Add 追加事件并整体重写集合文档
func (r *EventRepository) Add(ctx context.Context, bookPath string, event *entity.StoryEvent) error {
	ctx, span := tracer.Start(ctx, "markdown.EventRepository.Add")
	defer span.End()

	if !event.ChapterRange.IsValid() {
		return apperrors.ErrValidationFailed.WithDetail("chapter range start must be >= 1 and <= end")
	}

	filePath := r.client.eventsPath(bookPath)
	if err := requireDocument(ctx, r.client.storage, filePath, bookPath); err != nil {
		return err
	}

	header, events, _ := loadCollection[*entity.StoryEvent](ctx, r.client.storage, filePath, "events")
	if event.EventID == "" {
		event.EventID = entity.NewRecordID("event")
	}
	if event.BookID == "" {
		event.BookID = headerString(header, "book_id")
	}
	now := time.Now()
	if event.CreatedAt.IsZero() {
		event.CreatedAt = now
	}
	event.UpdatedAt = now
	events = append(events, event)

	err := storeCollection(ctx, r.client.storage, filePath, docTypeEvents, headerString(header, "book_id"),
		"events", header, events, renderEvents(events))
	if err != nil {
		span.RecordError(err)
	}
	return err
}

// Update 合并补丁并更新 updatedAt，未知 ID 返回 NotFound
func (r *EventRepository) Update(ctx context.Context, bookPath, eventID string, patch *repository.EventPatch) (*entity.StoryEvent, error) {
	ctx, span := tracer.Start(ctx, "markdown.EventRepository.Update")
	defer span.End()

	filePath := r.client.eventsPath(bookPath)
	if err := requireDocument(ctx, r.client.storage, filePath, bookPath); err != nil {
		return nil, err
	}

	header, events, _ := loadCollection[*entity.StoryEvent](ctx, r.client.storage, filePath, "events")
	var target *entity.StoryEvent
	for _, e := range events {
		if e.EventID == eventID {
			target = e
			break
		}
	}
	if target == nil {
		return nil, apperrors.ErrEventNotFound.WithDetail(eventID)
	}

	if patch != nil {
		if patch.Name != nil {
			target.Name = *patch.Name
		}
		if patch.Description != nil {
			target.Description = *patch.Description
		}
		if patch.StoryUnitID != nil {
			target.StoryUnitID = *patch.StoryUnitID
		}
		if patch.Order != nil {
			target.Order = *patch.Order
		}
		if patch.Duration != nil {
			target.Duration = *patch.Duration
		}
		if patch.Layer != nil {
			target.Layer = *patch.Layer
		}
		if patch.ChapterRange != nil {
			if !patch.ChapterRange.IsValid() {
				return nil, apperrors.ErrValidationFailed.WithDetail("chapter range start must be >= 1 and <= end")
			}
			target.ChapterRange = *patch.ChapterRange
		}
	}
	target.UpdatedAt = time.Now()

	if err := storeCollection(ctx, r.client.storage, filePath, docTypeEvents, headerString(header, "book_id"),
		"events", header, events, renderEvents(events)); err != nil {
		span.RecordError(err)
		return nil, err
	}
	return target, nil
}

// Delete 删除事件，未知 ID 返回 NotFound
func (r *EventRepository) Delete(ctx context.Context, bookPath, eventID string) error {
	ctx, span := tracer.Start(ctx, "markdown.EventRepository.Delete")
	defer span.End()

	filePath := r.client.eventsPath(bookPath)
	if err := requireDocument(ctx, r.client.storage, filePath, bookPath); err != nil {
		return err
	}

	header, events, _ := loadCollection[*entity.StoryEvent](ctx, r.client.storage, filePath, "events")
	kept := events[:0]
	found := false
	for _, e := range events {
		if e.EventID == eventID {
			found = true
			continue
		}
		kept = append(kept, e)
	}
	if !found {
		return apperrors.ErrEventNotFound.WithDetail(eventID)
	}

	err := storeCollection(ctx, r.client.storage, filePath, docTypeEvents, headerString(header, "book_id"),
		"events", header, kept, renderEvents(kept))
	if err != nil {
		span.RecordError(err)
	}
	return err
}
