package markdown

import (
	"context"
	"testing"

	"github.com/spf13/afero"

	"storyvault-api/internal/config"
	"storyvault-api/internal/domain/repository"
	"storyvault-api/internal/infrastructure/storage"
)

// newTestClient 基于内存文件系统构建客户端
func newTestClient(cfg *config.LibraryConfig) *Client {
	return NewClient(storage.New(afero.NewMemMapFs()), cfg)
}

// mustInitialize 初始化一本测试书，返回生成的 bookId
func mustInitialize(t *testing.T, client *Client, bookPath, title string) string {
	t.Helper()
	books := NewBookRepository(client)
	id, err := books.Initialize(context.Background(), bookPath, repository.InitializeBookInput{Title: title})
	if err != nil {
		t.Fatalf("initialize book: %v", err)
	}
	return id
}

// mustWrite 直接写入底层存储，用于构造章节文件和损坏文档
func mustWrite(t *testing.T, client *Client, path, content string) {
	t.Helper()
	if err := client.storage.Write(context.Background(), path, content); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
