// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"storyvault-api/internal/domain/entity"
)

// MarkRepository 精确标记边车文档仓储接口
type MarkRepository interface {
	// Load 读取标记文档，缺失或损坏时返回空文档
	Load(ctx context.Context, bookPath string) (*entity.MarkFile, error)

	// Save 整体写回标记文档并刷新 lastUpdated
	Save(ctx context.Context, bookPath string, file *entity.MarkFile) error
}
