// Package repository 定义数据访问层接口
package repository

import (
	"context"
)

// Storage 存储适配器契约
// 核心只通过这组窄接口访问底层文件系统；除 List 之外与产品侧
// 约定的五个原语一一对应，List 是章节扫描必需的目录枚举扩展
type Storage interface {
	// Exists 路径是否存在
	Exists(ctx context.Context, path string) (bool, error)

	// Read 读取整个文本文件
	Read(ctx context.Context, path string) (string, error)

	// Write 整体写入文本文件，必要时创建父目录
	Write(ctx context.Context, path string, content string) error

	// CreateFolder 创建目录（含父目录）
	CreateFolder(ctx context.Context, path string) error

	// Delete 删除文件或目录
	Delete(ctx context.Context, path string) error

	// List 列出目录下的文件名（不含子目录内容）
	List(ctx context.Context, path string) ([]string, error)
}
