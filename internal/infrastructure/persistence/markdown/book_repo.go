// Package markdown 提供基于扁平文本文档的仓储实现
package markdown

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"storyvault-api/internal/domain/entity"
	"storyvault-api/internal/domain/repository"
	apperrors "storyvault-api/pkg/errors"
	"storyvault-api/pkg/frontmatter"
	"storyvault-api/pkg/tracer"
)

// BookRepository 书籍仓储实现
type BookRepository struct {
	client *Client
}

// NewBookRepository 创建书籍仓储
func NewBookRepository(client *Client) *BookRepository {
	return &BookRepository{client: client}
}

// Initialize 初始化书库
// 生成新 bookId，创建四个集合文档、标记边车和画布/溢出目录。
// 对已初始化的书再次调用会生成新 bookId 并覆盖，不做幂等检查。
func (r *BookRepository) Initialize(ctx context.Context, bookPath string, input repository.InitializeBookInput) (string, error) {
	ctx, span := tracer.Start(ctx, "markdown.BookRepository.Initialize")
	defer span.End()

	if strings.TrimSpace(input.Title) == "" {
		return "", apperrors.ErrInvalidParam.WithDetail("title is required")
	}

	st := r.client.storage
	if err := st.CreateFolder(ctx, bookPath); err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("failed to create book folder: %w", err)
	}

	meta := entity.NewBookMeta(input.Title, input.Author, input.Description)

	if err := r.writeMeta(ctx, bookPath, meta); err != nil {
		span.RecordError(err)
		return "", err
	}

	if err := storeCollection(ctx, st, r.client.charactersPath(bookPath), docTypeCharacters, meta.BookID,
		"characters", map[string]any{}, []*entity.Character{}, renderCharacters(nil)); err != nil {
		span.RecordError(err)
		return "", err
	}
	if err := storeCollection(ctx, st, r.client.unitsPath(bookPath), docTypeStoryUnits, meta.BookID,
		"story_units", map[string]any{}, []*entity.StoryUnit{}, renderStoryUnits(nil)); err != nil {
		span.RecordError(err)
		return "", err
	}
	if err := storeCollection(ctx, st, r.client.eventsPath(bookPath), docTypeEvents, meta.BookID,
		"events", map[string]any{}, []*entity.StoryEvent{}, renderEvents(nil)); err != nil {
		span.RecordError(err)
		return "", err
	}

	if err := st.CreateFolder(ctx, r.client.canvasPath(bookPath)); err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("failed to create canvas folder: %w", err)
	}
	if err := st.CreateFolder(ctx, path.Join(bookPath, overflowDirName)); err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("failed to create overflow folder: %w", err)
	}

	marks := NewMarkRepository(r.client)
	if err := marks.Save(ctx, bookPath, entity.NewMarkFile(meta.BookID)); err != nil {
		span.RecordError(err)
		return "", err
	}

	return meta.BookID, nil
}

// IsInitialized 书库是否已初始化
func (r *BookRepository) IsInitialized(ctx context.Context, bookPath string) (bool, error) {
	ctx, span := tracer.Start(ctx, "markdown.BookRepository.IsInitialized")
	defer span.End()

	return r.client.storage.Exists(ctx, r.client.metaPath(bookPath))
}

// GetMeta 读取书籍元数据，文档缺失或损坏时返回 (nil, nil)
func (r *BookRepository) GetMeta(ctx context.Context, bookPath string) (*entity.BookMeta, error) {
	ctx, span := tracer.Start(ctx, "markdown.BookRepository.GetMeta")
	defer span.End()

	text, err := r.client.storage.Read(ctx, r.client.metaPath(bookPath))
	if err != nil {
		return nil, nil
	}

	parsed := frontmatter.Parse(text)
	if !parsed.HasFrontmatter {
		return nil, nil
	}

	meta := &entity.BookMeta{
		BookID:        headerString(parsed.Data, "book_id"),
		Title:         headerString(parsed.Data, "title"),
		Author:        headerString(parsed.Data, "author"),
		ChapterCount:  toInt(parsed.Data["chapter_count"]),
		WordCount:     toInt(parsed.Data["word_count"]),
		ReadingStatus: entity.ReadingStatus(headerString(parsed.Data, "reading_status")),
		AIKeywords:    toStringSlice(parsed.Data["ai_keywords"]),
		CreatedAt:     toTime(headerString(parsed.Data, "created_at")),
		UpdatedAt:     toTime(headerString(parsed.Data, "updated_at")),
		Description:   extractSection(parsed.Content, "简介"),
		AISummary:     extractSection(parsed.Content, "AI 摘要"),
	}
	if custom, ok := parsed.Data["custom_fields"].(map[string]any); ok {
		meta.CustomFields = custom
	} else {
		meta.CustomFields = map[string]any{}
	}

	return meta, nil
}

// UpdateMeta 部分更新书籍元数据并整篇重写文档
func (r *BookRepository) UpdateMeta(ctx context.Context, bookPath string, patch repository.BookMetaPatch) (*entity.BookMeta, error) {
	ctx, span := tracer.Start(ctx, "markdown.BookRepository.UpdateMeta")
	defer span.End()

	meta, err := r.GetMeta(ctx, bookPath)
	if err != nil {
		return nil, err
	}
	if meta == nil {
		return nil, apperrors.ErrNotInitialized.WithDetail(bookPath)
	}

	if patch.Title != nil {
		meta.Title = *patch.Title
	}
	if patch.Author != nil {
		meta.Author = *patch.Author
	}
	if patch.Description != nil {
		meta.Description = *patch.Description
	}
	if patch.ChapterCount != nil {
		meta.ChapterCount = *patch.ChapterCount
	}
	if patch.WordCount != nil {
		meta.WordCount = *patch.WordCount
	}
	if patch.ReadingStatus != nil {
		meta.ReadingStatus = *patch.ReadingStatus
	}
	if patch.AISummary != nil {
		meta.AISummary = *patch.AISummary
	}
	if patch.AIKeywords != nil {
		meta.AIKeywords = patch.AIKeywords
	}
	for k, v := range patch.CustomFields {
		if meta.CustomFields == nil {
			meta.CustomFields = map[string]any{}
		}
		meta.CustomFields[k] = v
	}
	meta.Touch()

	if err := r.writeMeta(ctx, bookPath, meta); err != nil {
		span.RecordError(err)
		return nil, err
	}
	return meta, nil
}

// writeMeta 重建书籍文档：头部放元数据，正文放简介与 AI 摘要
func (r *BookRepository) writeMeta(ctx context.Context, bookPath string, meta *entity.BookMeta) error {
	data := map[string]any{
		"type":           docTypeBook,
		"schema_version": schemaVersion,
		"book_id":        meta.BookID,
		"title":          meta.Title,
		"chapter_count":  meta.ChapterCount,
		"word_count":     meta.WordCount,
		"reading_status": string(meta.ReadingStatus),
		"created_at":     meta.CreatedAt.Format(time.RFC3339),
		"updated_at":     meta.UpdatedAt.Format(time.RFC3339),
	}
	if meta.Author != "" {
		data["author"] = meta.Author
	}
	if len(meta.AIKeywords) > 0 {
		data["ai_keywords"] = meta.AIKeywords
	}
	if len(meta.CustomFields) > 0 {
		data["custom_fields"] = meta.CustomFields
	}

	var b strings.Builder
	b.WriteString("# ")
	b.WriteString(meta.Title)
	b.WriteString("\n\n## 简介\n\n")
	b.WriteString(meta.Description)
	b.WriteByte('\n')
	if meta.AISummary != "" {
		b.WriteString("\n## AI 摘要\n\n")
		b.WriteString(meta.AISummary)
		b.WriteByte('\n')
	}

	return r.client.storage.Write(ctx, r.client.metaPath(bookPath), frontmatter.Compose(data, b.String()))
}

// extractSection 从正文提取 "## <heading>" 小节内容
func extractSection(body, heading string) string {
	marker := "## " + heading
	idx := strings.Index(body, marker)
	if idx == -1 {
		return ""
	}
	rest := body[idx+len(marker):]
	if end := strings.Index(rest, "\n## "); end != -1 {
		rest = rest[:end]
	}
	return strings.TrimSpace(rest)
}

// toInt 宽松地把头部值转成 int
func toInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}

// toStringSlice 宽松地把头部值转成字符串切片
func toStringSlice(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// toTime 解析 RFC3339 时间，失败时返回零值
func toTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
