// Package markdown 提供基于扁平文本文档的仓储实现
package markdown

import (
	"context"
	"fmt"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"storyvault-api/internal/domain/repository"
	apperrors "storyvault-api/pkg/errors"
	"storyvault-api/pkg/frontmatter"
	"storyvault-api/pkg/tracer"
)

// 章节文件命名约定 "NN-标题.md"，编号决定排序
var chapterFilePattern = regexp.MustCompile(`^(\d+)-(.*)\.md$`)

// ChapterRepository 章节只读仓储实现
// 章节文件由外部阅读器/编辑器写入，这里只扫描和拼接
type ChapterRepository struct {
	client *Client
}

// NewChapterRepository 创建章节仓储
func NewChapterRepository(client *Client) *ChapterRepository {
	return &ChapterRepository{client: client}
}

// Scan 列出章节文件，排除下划线开头的管理文档，按编号升序
func (r *ChapterRepository) Scan(ctx context.Context, bookPath string) ([]repository.ChapterFile, error) {
	ctx, span := tracer.Start(ctx, "markdown.ChapterRepository.Scan")
	defer span.End()

	names, err := r.client.storage.List(ctx, bookPath)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list book folder: %w", err)
	}

	chapters := make([]repository.ChapterFile, 0, len(names))
	for _, name := range names {
		if strings.HasPrefix(name, "_") {
			continue
		}
		m := chapterFilePattern.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		number, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		chapters = append(chapters, repository.ChapterFile{
			Number:   number,
			Title:    m[2],
			FileName: name,
		})
	}
	sort.Slice(chapters, func(i, j int) bool { return chapters[i].Number < chapters[j].Number })
	return chapters, nil
}

// GetContent 拼接编号在 [start,end] 内的章节正文
// 每章带生成的标题行，章间以水平分隔线连接
func (r *ChapterRepository) GetContent(ctx context.Context, bookPath string, start, end int) (string, error) {
	ctx, span := tracer.Start(ctx, "markdown.ChapterRepository.GetContent")
	defer span.End()

	chapters, err := r.Scan(ctx, bookPath)
	if err != nil {
		return "", err
	}

	var sections []string
	for _, ch := range chapters {
		if ch.Number < start || ch.Number > end {
			continue
		}
		body, err := r.readBody(ctx, bookPath, ch.FileName)
		if err != nil {
			span.RecordError(err)
			return "", err
		}
		sections = append(sections, fmt.Sprintf("## 第%d章 %s\n\n%s", ch.Number, ch.Title, body))
	}
	if len(sections) == 0 {
		return "", apperrors.ErrChapterNotFound.WithDetail(fmt.Sprintf("no chapters in range %d-%d", start, end))
	}
	return strings.Join(sections, "\n\n---\n\n"), nil
}

// GetBody 按 0 基章节索引返回去掉头部的正文和标题
func (r *ChapterRepository) GetBody(ctx context.Context, bookPath string, chapterIndex int) (string, string, error) {
	ctx, span := tracer.Start(ctx, "markdown.ChapterRepository.GetBody")
	defer span.End()

	chapters, err := r.Scan(ctx, bookPath)
	if err != nil {
		return "", "", err
	}
	if chapterIndex < 0 || chapterIndex >= len(chapters) {
		return "", "", apperrors.ErrChapterNotFound.WithDetail(fmt.Sprintf("chapter index %d out of range", chapterIndex))
	}

	ch := chapters[chapterIndex]
	body, err := r.readBody(ctx, bookPath, ch.FileName)
	if err != nil {
		span.RecordError(err)
		return "", "", err
	}
	return body, ch.Title, nil
}

// readBody 读取章节文件并去掉可能存在的头部
func (r *ChapterRepository) readBody(ctx context.Context, bookPath, fileName string) (string, error) {
	text, err := r.client.storage.Read(ctx, path.Join(bookPath, fileName))
	if err != nil {
		return "", fmt.Errorf("failed to read chapter file: %w", err)
	}
	return frontmatter.Parse(text).Content, nil
}
