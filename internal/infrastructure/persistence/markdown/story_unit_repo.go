// Package markdown 提供基于扁平文本文档的仓储实现
package markdown

import (
	"context"
	"fmt"
	"path"
	"time"

	"storyvault-api/internal/domain/entity"
	"storyvault-api/internal/domain/repository"
	apperrors "storyvault-api/pkg/errors"
	"storyvault-api/pkg/metrics"
	"storyvault-api/pkg/tracer"
)

// StoryUnitRepository 故事单元仓储实现
type StoryUnitRepository struct {
	client *Client
}

// NewStoryUnitRepository 创建故事单元仓储
func NewStoryUnitRepository(client *Client) *StoryUnitRepository {
	return &StoryUnitRepository{client: client}
}

// List 读取全部故事单元，文档缺失或损坏时返回空集合
func (r *StoryUnitRepository) List(ctx context.Context, bookPath string) ([]*entity.StoryUnit, error) {
	ctx, span := tracer.Start(ctx, "markdown.StoryUnitRepository.List")
	defer span.End()

	_, units, _ := loadCollection[*entity.StoryUnit](ctx, r.client.storage, r.client.unitsPath(bookPath), "story_units")
	return units, nil
}

// GetByID 按 ID 获取故事单元，不存在时返回 (nil, nil)
func (r *StoryUnitRepository) GetByID(ctx context.Context, bookPath, unitID string) (*entity.StoryUnit, error) {
	ctx, span := tracer.Start(ctx, "markdown.StoryUnitRepository.GetByID")
	defer span.End()

	_, units, _ := loadCollection[*entity.StoryUnit](ctx, r.client.storage, r.client.unitsPath(bookPath), "story_units")
	for _, u := range units {
		if u.UnitID == unitID {
			return u, nil
		}
	}
	return nil, nil
}

// Add 追加故事单元；正文超过阈值时移入溢出文件，内联字段变为预览
func (r *StoryUnitRepository) Add(ctx context.Context, bookPath string, unit *entity.StoryUnit) error {
	ctx, span := tracer.Start(ctx, "markdown.StoryUnitRepository.Add")
	defer span.End()

	if !unit.ChapterRange.IsValid() {
		return apperrors.ErrValidationFailed.WithDetail("chapter range start must be >= 1 and <= end")
	}

	filePath := r.client.unitsPath(bookPath)
	if err := requireDocument(ctx, r.client.storage, filePath, bookPath); err != nil {
		return err
	}

	header, units, _ := loadCollection[*entity.StoryUnit](ctx, r.client.storage, filePath, "story_units")
	if unit.UnitID == "" {
		unit.UnitID = entity.NewRecordID("unit")
	}
	if unit.BookID == "" {
		unit.BookID = headerString(header, "book_id")
	}
	now := time.Now()
	if unit.CreatedAt.IsZero() {
		unit.CreatedAt = now
	}
	unit.UpdatedAt = now

	if err := r.applyOverflow(ctx, bookPath, unit, unit.TextContent); err != nil {
		span.RecordError(err)
		return err
	}
	units = append(units, unit)

	err := storeCollection(ctx, r.client.storage, filePath, docTypeStoryUnits, headerString(header, "book_id"),
		"story_units", header, units, renderStoryUnits(units))
	if err != nil {
		span.RecordError(err)
	}
	return err
}

// Update 合并补丁；正文修改时重新执行溢出判定
func (r *StoryUnitRepository) Update(ctx context.Context, bookPath, unitID string, patch *repository.StoryUnitPatch) (*entity.StoryUnit, error) {
	ctx, span := tracer.Start(ctx, "markdown.StoryUnitRepository.Update")
	defer span.End()

	filePath := r.client.unitsPath(bookPath)
	if err := requireDocument(ctx, r.client.storage, filePath, bookPath); err != nil {
		return nil, err
	}

	header, units, _ := loadCollection[*entity.StoryUnit](ctx, r.client.storage, filePath, "story_units")
	var target *entity.StoryUnit
	for _, u := range units {
		if u.UnitID == unitID {
			target = u
			break
		}
	}
	if target == nil {
		return nil, apperrors.ErrStoryUnitNotFound.WithDetail(unitID)
	}

	if patch != nil {
		if patch.Name != nil {
			target.Name = *patch.Name
		}
		if patch.ChapterRange != nil {
			if !patch.ChapterRange.IsValid() {
				return nil, apperrors.ErrValidationFailed.WithDetail("chapter range start must be >= 1 and <= end")
			}
			target.ChapterRange = *patch.ChapterRange
		}
		if patch.PreciseRange != nil {
			if !patch.PreciseRange.IsValid() {
				return nil, apperrors.ErrValidationFailed.WithDetail("precise range end must not precede start")
			}
			target.PreciseRange = patch.PreciseRange
		}
		if patch.StoryLine != nil {
			target.StoryLine = *patch.StoryLine
		}
		if patch.RelatedCharacters != nil {
			target.RelatedCharacters = patch.RelatedCharacters
		}
		if patch.AnalysisTemplate != nil {
			target.AnalysisTemplate = *patch.AnalysisTemplate
		}
		if patch.AIAnalysis != nil {
			target.AIAnalysis = *patch.AIAnalysis
		}
		if patch.TextContent != nil {
			if err := r.applyOverflow(ctx, bookPath, target, *patch.TextContent); err != nil {
				span.RecordError(err)
				return nil, err
			}
		}
	}
	target.UpdatedAt = time.Now()

	if err := storeCollection(ctx, r.client.storage, filePath, docTypeStoryUnits, headerString(header, "book_id"),
		"story_units", header, units, renderStoryUnits(units)); err != nil {
		span.RecordError(err)
		return nil, err
	}
	return target, nil
}

// Delete 删除故事单元及其持有的溢出文件
func (r *StoryUnitRepository) Delete(ctx context.Context, bookPath, unitID string) error {
	ctx, span := tracer.Start(ctx, "markdown.StoryUnitRepository.Delete")
	defer span.End()

	filePath := r.client.unitsPath(bookPath)
	if err := requireDocument(ctx, r.client.storage, filePath, bookPath); err != nil {
		return err
	}

	header, units, _ := loadCollection[*entity.StoryUnit](ctx, r.client.storage, filePath, "story_units")
	kept := units[:0]
	var removed *entity.StoryUnit
	for _, u := range units {
		if u.UnitID == unitID {
			removed = u
			continue
		}
		kept = append(kept, u)
	}
	if removed == nil {
		return apperrors.ErrStoryUnitNotFound.WithDetail(unitID)
	}

	if removed.TextFilePath != "" {
		if err := r.client.storage.Delete(ctx, r.client.overflowPath(bookPath, removed.TextFilePath)); err != nil {
			span.RecordError(err)
			return fmt.Errorf("failed to delete overflow file: %w", err)
		}
	}

	err := storeCollection(ctx, r.client.storage, filePath, docTypeStoryUnits, headerString(header, "book_id"),
		"story_units", header, kept, renderStoryUnits(kept))
	if err != nil {
		span.RecordError(err)
	}
	return err
}

// ReadFullText 读取完整正文（必要时从溢出文件读取）
func (r *StoryUnitRepository) ReadFullText(ctx context.Context, bookPath string, unit *entity.StoryUnit) (string, error) {
	ctx, span := tracer.Start(ctx, "markdown.StoryUnitRepository.ReadFullText")
	defer span.End()

	if unit == nil {
		return "", nil
	}
	if unit.TextFilePath == "" {
		return unit.TextContent, nil
	}
	text, err := r.client.storage.Read(ctx, r.client.overflowPath(bookPath, unit.TextFilePath))
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("failed to read overflow file: %w", err)
	}
	return text, nil
}

// applyOverflow 按阈值决定正文的存放方式
// 超阈值：全文写入 _unit_texts/<unitID>.md，内联字段保留预览；
// 回落阈值以下：正文收回内联并删除溢出文件
func (r *StoryUnitRepository) applyOverflow(ctx context.Context, bookPath string, unit *entity.StoryUnit, text string) error {
	if len([]rune(text)) > r.client.overflowThreshold {
		relPath := path.Join(overflowDirName, unit.UnitID+".md")
		if err := r.client.storage.Write(ctx, r.client.overflowPath(bookPath, relPath), text); err != nil {
			return fmt.Errorf("failed to write overflow file: %w", err)
		}
		metrics.OverflowWritesTotal.Inc()
		unit.TextFilePath = relPath
		unit.TextContent = entity.Preview(text, r.client.previewLength)
		return nil
	}

	if unit.TextFilePath != "" {
		if err := r.client.storage.Delete(ctx, r.client.overflowPath(bookPath, unit.TextFilePath)); err != nil {
			return fmt.Errorf("failed to delete overflow file: %w", err)
		}
		unit.TextFilePath = ""
	}
	unit.TextContent = text
	return nil
}
