// Package repository 定义数据访问层接口
package repository

import (
	"context"
)

// ChapterFile 扫描到的章节文件
type ChapterFile struct {
	Number   int    `json:"number"`
	Title    string `json:"title"`
	FileName string `json:"file_name"`
}

// ChapterRepository 章节文档只读接口
// 章节文件由外部编辑器写入，核心只按 "NN-标题.md" 约定读取
type ChapterRepository interface {
	// Scan 列出章节文件，排除下划线开头的管理文档，按编号升序
	Scan(ctx context.Context, bookPath string) ([]ChapterFile, error)

	// GetContent 拼接编号在 [start,end] 内的章节正文，
	// 每章带生成的标题行，章间以水平分隔线连接
	GetContent(ctx context.Context, bookPath string, start, end int) (string, error)

	// GetBody 按 0 基章节索引返回去掉头部的正文
	GetBody(ctx context.Context, bookPath string, chapterIndex int) (string, string, error)
}
