// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"storyvault-api/internal/domain/entity"
)

// StoryUnitPatch 故事单元部分更新
type StoryUnitPatch struct {
	Name              *string
	ChapterRange      *entity.ChapterRange
	PreciseRange      *entity.PreciseRange
	StoryLine         *entity.StoryLine
	RelatedCharacters []string
	TextContent       *string
	AnalysisTemplate  *string
	AIAnalysis        *string
}

// StoryUnitRepository 故事单元仓储接口
type StoryUnitRepository interface {
	// List 读取全部故事单元，文档缺失或损坏时返回空集合
	List(ctx context.Context, bookPath string) ([]*entity.StoryUnit, error)

	// GetByID 按 ID 获取故事单元，不存在时返回 (nil, nil)
	GetByID(ctx context.Context, bookPath, unitID string) (*entity.StoryUnit, error)

	// Add 追加故事单元；正文超过阈值时移入溢出文件，内联字段变为预览
	Add(ctx context.Context, bookPath string, unit *entity.StoryUnit) error

	// Update 合并补丁；正文修改时重新执行溢出判定
	Update(ctx context.Context, bookPath, unitID string, patch *StoryUnitPatch) (*entity.StoryUnit, error)

	// Delete 删除故事单元及其持有的溢出文件
	Delete(ctx context.Context, bookPath, unitID string) error

	// ReadFullText 读取完整正文（必要时从溢出文件读取）
	ReadFullText(ctx context.Context, bookPath string, unit *entity.StoryUnit) (string, error)
}
