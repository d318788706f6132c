// Package markdown 提供基于扁平文本文档的仓储实现
package markdown

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"storyvault-api/internal/domain/entity"
	"storyvault-api/pkg/logger"
	"storyvault-api/pkg/metrics"
	"storyvault-api/pkg/tracer"
)

// MarkRepository 精确标记边车文档仓储实现
// 标记走纯 JSON 边车 _precise_marks.json，不混入集合文档
type MarkRepository struct {
	client *Client
}

// NewMarkRepository 创建标记仓储
func NewMarkRepository(client *Client) *MarkRepository {
	return &MarkRepository{client: client}
}

// Load 读取标记文档，缺失或损坏时返回空文档
func (r *MarkRepository) Load(ctx context.Context, bookPath string) (*entity.MarkFile, error) {
	ctx, span := tracer.Start(ctx, "markdown.MarkRepository.Load")
	defer span.End()

	text, err := r.client.storage.Read(ctx, r.client.marksPath(bookPath))
	if err != nil {
		metrics.DocumentReadsTotal.WithLabelValues("marks", "missing").Inc()
		return entity.NewMarkFile(""), nil
	}

	var file entity.MarkFile
	if err := json.Unmarshal([]byte(text), &file); err != nil {
		metrics.DocumentReadsTotal.WithLabelValues("marks", "corrupt").Inc()
		logger.Warn(ctx, "mark document corrupt, treating as empty",
			"path", r.client.marksPath(bookPath), "reason", err.Error())
		return entity.NewMarkFile(""), nil
	}
	if file.Marks == nil {
		file.Marks = []*entity.Mark{}
	}
	if file.UnpairedMarks == nil {
		file.UnpairedMarks = []*entity.Mark{}
	}

	metrics.DocumentReadsTotal.WithLabelValues("marks", "ok").Inc()
	return &file, nil
}

// Save 整体写回标记文档并刷新 lastUpdated
func (r *MarkRepository) Save(ctx context.Context, bookPath string, file *entity.MarkFile) error {
	ctx, span := tracer.Start(ctx, "markdown.MarkRepository.Save")
	defer span.End()

	file.LastUpdated = time.Now()
	encoded, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode mark document: %w", err)
	}

	if err := r.client.storage.Write(ctx, r.client.marksPath(bookPath), string(encoded)); err != nil {
		metrics.DocumentWritesTotal.WithLabelValues("marks", "error").Inc()
		span.RecordError(err)
		return err
	}
	metrics.DocumentWritesTotal.WithLabelValues("marks", "ok").Inc()
	return nil
}
