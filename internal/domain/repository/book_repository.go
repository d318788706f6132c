// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"storyvault-api/internal/domain/entity"
)

// InitializeBookInput 初始化书库的输入
type InitializeBookInput struct {
	Title       string
	Author      string
	Description string
}

// BookMetaPatch 书籍元数据部分更新
type BookMetaPatch struct {
	Title         *string
	Author        *string
	Description   *string
	ChapterCount  *int
	WordCount     *int
	ReadingStatus *entity.ReadingStatus
	AISummary     *string
	AIKeywords    []string
	CustomFields  map[string]any
}

// BookRepository 书籍仓储接口
type BookRepository interface {
	// Initialize 初始化书库：创建四个集合文档与画布目录，返回新 bookId
	// 对已初始化的书再次调用会生成新 bookId 并覆盖书籍文档
	Initialize(ctx context.Context, bookPath string, input InitializeBookInput) (string, error)

	// IsInitialized 书库是否已初始化
	IsInitialized(ctx context.Context, bookPath string) (bool, error)

	// GetMeta 读取书籍元数据，文档缺失或损坏时返回 nil
	GetMeta(ctx context.Context, bookPath string) (*entity.BookMeta, error)

	// UpdateMeta 部分更新书籍元数据
	UpdateMeta(ctx context.Context, bookPath string, patch BookMetaPatch) (*entity.BookMeta, error)
}
