// Package markdown 提供基于扁平文本文档的仓储实现
package markdown

import (
	"context"
	"encoding/json"
	"fmt"
	"path"

	"storyvault-api/internal/domain/entity"
	"storyvault-api/pkg/tracer"
)

// GraphRepository 可视化图文档仓储实现
// 图文档按类型落在 _canvas/<kind>.json
type GraphRepository struct {
	client *Client
}

// NewGraphRepository 创建图文档仓储
func NewGraphRepository(client *Client) *GraphRepository {
	return &GraphRepository{client: client}
}

// Read 读取指定类型的图文档，不存在时返回 (nil, nil)
func (r *GraphRepository) Read(ctx context.Context, bookPath string, kind entity.GraphKind) (*entity.GraphDocument, error) {
	ctx, span := tracer.Start(ctx, "markdown.GraphRepository.Read")
	defer span.End()

	text, err := r.client.storage.Read(ctx, r.graphPath(bookPath, kind))
	if err != nil {
		return nil, nil
	}

	var doc entity.GraphDocument
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		span.RecordError(err)
		return nil, nil
	}
	return &doc, nil
}

// Write 整体写入图文档
func (r *GraphRepository) Write(ctx context.Context, bookPath string, doc *entity.GraphDocument) error {
	ctx, span := tracer.Start(ctx, "markdown.GraphRepository.Write")
	defer span.End()

	encoded, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode graph document: %w", err)
	}
	if err := r.client.storage.Write(ctx, r.graphPath(bookPath, doc.Kind), string(encoded)); err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}

func (r *GraphRepository) graphPath(bookPath string, kind entity.GraphKind) string {
	return path.Join(r.client.canvasPath(bookPath), string(kind)+".json")
}
