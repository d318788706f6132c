// Package storage 提供基于 afero 的存储适配器实现
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("storage")

// Local 文件系统存储适配器
// 生产环境注入 OsFs，测试注入 MemMapFs
type Local struct {
	fs afero.Fs
}

// New 基于给定文件系统创建适配器
func New(fs afero.Fs) *Local {
	return &Local{fs: fs}
}

// NewOS 基于操作系统文件系统创建适配器，root 作为所有路径的基底
func NewOS(root string) *Local {
	return &Local{fs: afero.NewBasePathFs(afero.NewOsFs(), root)}
}

// Exists 路径是否存在
func (s *Local) Exists(ctx context.Context, path string) (bool, error) {
	_, span := tracer.Start(ctx, "storage.Local.Exists",
		trace.WithAttributes(attribute.String("storage.path", path)))
	defer span.End()

	exists, err := afero.Exists(s.fs, path)
	if err != nil {
		span.RecordError(err)
		return false, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	return exists, nil
}

// Read 读取整个文本文件
func (s *Local) Read(ctx context.Context, path string) (string, error) {
	_, span := tracer.Start(ctx, "storage.Local.Read",
		trace.WithAttributes(attribute.String("storage.path", path)))
	defer span.End()

	content, err := afero.ReadFile(s.fs, path)
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	span.SetAttributes(attribute.Int("storage.bytes", len(content)))
	return string(content), nil
}

// Write 整体写入文本文件，父目录不存在时自动创建
func (s *Local) Write(ctx context.Context, path string, content string) error {
	_, span := tracer.Start(ctx, "storage.Local.Write",
		trace.WithAttributes(
			attribute.String("storage.path", path),
			attribute.Int("storage.bytes", len(content)),
		))
	defer span.End()

	if dir := filepath.Dir(path); dir != "." && dir != "/" {
		if err := s.fs.MkdirAll(dir, 0o755); err != nil {
			span.RecordError(err)
			return fmt.Errorf("failed to create parent dir of %s: %w", path, err)
		}
	}

	if err := afero.WriteFile(s.fs, path, []byte(content), 0o644); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// CreateFolder 创建目录（含父目录）
func (s *Local) CreateFolder(ctx context.Context, path string) error {
	_, span := tracer.Start(ctx, "storage.Local.CreateFolder",
		trace.WithAttributes(attribute.String("storage.path", path)))
	defer span.End()

	if err := s.fs.MkdirAll(path, 0o755); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create folder %s: %w", path, err)
	}
	return nil
}

// Delete 删除文件或目录
func (s *Local) Delete(ctx context.Context, path string) error {
	_, span := tracer.Start(ctx, "storage.Local.Delete",
		trace.WithAttributes(attribute.String("storage.path", path)))
	defer span.End()

	if err := s.fs.RemoveAll(path); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete %s: %w", path, err)
	}
	return nil
}

// List 列出目录下的文件名，目录不存在时返回空列表
func (s *Local) List(ctx context.Context, path string) ([]string, error) {
	_, span := tracer.Start(ctx, "storage.Local.List",
		trace.WithAttributes(attribute.String("storage.path", path)))
	defer span.End()

	entries, err := afero.ReadDir(s.fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list %s: %w", path, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}
	return names, nil
}
