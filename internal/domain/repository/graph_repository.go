// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"storyvault-api/internal/domain/entity"
)

// GraphRepository 可视化图文档仓储接口
// 图文档是纯 JSON {nodes, edges}，核心不做任何布局或渲染
type GraphRepository interface {
	// Read 读取指定类型的图文档，不存在时返回 (nil, nil)
	Read(ctx context.Context, bookPath string, kind entity.GraphKind) (*entity.GraphDocument, error)

	// Write 整体写入图文档
	Write(ctx context.Context, bookPath string, doc *entity.GraphDocument) error
}
