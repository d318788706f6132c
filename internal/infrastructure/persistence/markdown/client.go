// Package markdown 提供基于扁平文本文档的仓储实现
//
// 没有数据库引擎：每个集合就是一份 Markdown 文档，内嵌机器可读的
// JSON 块和生成的可读镜像。所有变更都是读整篇、内存修改、整篇重写，
// 一致性单位是整份文档（后写者全量胜出）。
package markdown

import (
	"path"

	"storyvault-api/internal/config"
	"storyvault-api/internal/domain/repository"
)

// 每本书目录内的约定文件名，下划线前缀的文件不参与章节扫描
const (
	metaFileName       = "_book_meta.md"
	charactersFileName = "_characters.md"
	unitsFileName      = "_story_units.md"
	eventsFileName     = "_events.md"
	marksFileName      = "_precise_marks.json"
	canvasDirName      = "_canvas"
	overflowDirName    = "_unit_texts"

	schemaVersion = 1

	docTypeBook       = "book_meta"
	docTypeCharacters = "characters"
	docTypeStoryUnits = "story_units"
	docTypeEvents     = "events"
)

// 默认的溢出阈值与预览长度（字符数）
const (
	defaultOverflowThreshold = 5000
	defaultPreviewLength     = 200
)

// Client 文档存储客户端，持有存储适配器与写入策略
type Client struct {
	storage           repository.Storage
	overflowThreshold int
	previewLength     int
}

// NewClient 创建文档存储客户端
func NewClient(storage repository.Storage, cfg *config.LibraryConfig) *Client {
	c := &Client{
		storage:           storage,
		overflowThreshold: defaultOverflowThreshold,
		previewLength:     defaultPreviewLength,
	}
	if cfg != nil {
		if cfg.OverflowThreshold > 0 {
			c.overflowThreshold = cfg.OverflowThreshold
		}
		if cfg.PreviewLength > 0 {
			c.previewLength = cfg.PreviewLength
		}
	}
	return c
}

// Storage 返回底层存储适配器
func (c *Client) Storage() repository.Storage {
	return c.storage
}

func (c *Client) metaPath(bookPath string) string {
	return path.Join(bookPath, metaFileName)
}

func (c *Client) charactersPath(bookPath string) string {
	return path.Join(bookPath, charactersFileName)
}

func (c *Client) unitsPath(bookPath string) string {
	return path.Join(bookPath, unitsFileName)
}

func (c *Client) eventsPath(bookPath string) string {
	return path.Join(bookPath, eventsFileName)
}

func (c *Client) marksPath(bookPath string) string {
	return path.Join(bookPath, marksFileName)
}

func (c *Client) canvasPath(bookPath string) string {
	return path.Join(bookPath, canvasDirName)
}

func (c *Client) overflowPath(bookPath, relPath string) string {
	return path.Join(bookPath, relPath)
}
