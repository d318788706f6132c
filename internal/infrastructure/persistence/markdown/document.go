// Package markdown 提供基于扁平文本文档的仓储实现
package markdown

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"storyvault-api/internal/domain/repository"
	apperrors "storyvault-api/pkg/errors"
	"storyvault-api/pkg/frontmatter"
	"storyvault-api/pkg/logger"
	"storyvault-api/pkg/metrics"
)

// loadCollection 读取集合文档并解码 JSON 块
// 文档缺失或损坏时降级为空集合（第三个返回值为 false），绝不报错：
// 读路径必须对外部删改保持韧性
func loadCollection[T any](ctx context.Context, st repository.Storage, filePath, collection string) (map[string]any, []T, bool) {
	empty := []T{}

	text, err := st.Read(ctx, filePath)
	if err != nil {
		metrics.DocumentReadsTotal.WithLabelValues(collection, "missing").Inc()
		return map[string]any{}, empty, false
	}

	parsed := frontmatter.Parse(text)
	records, err := decodeFence[T](parsed.Content, collection)
	if err != nil {
		metrics.DocumentReadsTotal.WithLabelValues(collection, "corrupt").Inc()
		logger.Warn(ctx, "collection document corrupt, treating as empty",
			"path", filePath, "collection", collection, "reason", err.Error())
		return parsed.Data, empty, false
	}

	metrics.DocumentReadsTotal.WithLabelValues(collection, "ok").Inc()
	return parsed.Data, records, true
}

// decodeFence 从正文中提取 ```json:<collection> 围栏块并反序列化
// 可读镜像跟在围栏块之后，永远不会被当成数据源解析
func decodeFence[T any](body, collection string) ([]T, error) {
	open := "```json:" + collection
	idx := strings.Index(body, open)
	if idx == -1 {
		return nil, apperrors.ErrParseFailed.WithDetail(fmt.Sprintf("missing fenced block json:%s", collection))
	}

	rest := body[idx+len(open):]
	rest = strings.TrimPrefix(rest, "\n")
	end := strings.Index(rest, "\n```")
	if end == -1 {
		return nil, apperrors.ErrParseFailed.WithDetail(fmt.Sprintf("unterminated fenced block json:%s", collection))
	}

	var records []T
	if err := json.Unmarshal([]byte(rest[:end]), &records); err != nil {
		return nil, apperrors.ErrParseFailed.WithDetail(err.Error()).WithError(err)
	}
	if records == nil {
		records = []T{}
	}
	return records, nil
}

// storeCollection 重建整份集合文档（头部 + JSON 块 + 可读镜像）并整体写入
// 头部的 created_at 从旧文档继承，updated_at 取当前时间
func storeCollection[T any](ctx context.Context, st repository.Storage, filePath, docType, bookID, collection string, oldHeader map[string]any, records []T, mirror string) error {
	start := time.Now()

	data := map[string]any{
		"type":           docType,
		"book_id":        bookID,
		"schema_version": schemaVersion,
		"updated_at":     time.Now().Format(time.RFC3339),
		"created_at":     time.Now().Format(time.RFC3339),
	}
	if created, ok := oldHeader["created_at"]; ok {
		data["created_at"] = created
	}

	encoded, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s records: %w", collection, err)
	}

	var b strings.Builder
	b.WriteString("```json:")
	b.WriteString(collection)
	b.WriteByte('\n')
	b.Write(encoded)
	b.WriteString("\n```\n")
	if mirror != "" {
		b.WriteByte('\n')
		b.WriteString(mirror)
	}

	doc := frontmatter.Compose(data, b.String())

	if err := st.Write(ctx, filePath, doc); err != nil {
		metrics.DocumentWritesTotal.WithLabelValues(collection, "error").Inc()
		return err
	}

	metrics.DocumentWritesTotal.WithLabelValues(collection, "ok").Inc()
	metrics.DocumentWriteDuration.WithLabelValues(collection).Observe(time.Since(start).Seconds())
	metrics.DocumentSizeBytes.WithLabelValues(collection).Observe(float64(len(doc)))
	return nil
}

// headerString 从头部数据取字符串字段
func headerString(header map[string]any, key string) string {
	if v, ok := header[key].(string); ok {
		return v
	}
	return ""
}

// requireDocument 变更前置检查：集合文档必须存在，否则书库未初始化
func requireDocument(ctx context.Context, st repository.Storage, filePath, bookPath string) error {
	exists, err := st.Exists(ctx, filePath)
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.ErrNotInitialized.WithDetail(bookPath)
	}
	return nil
}
