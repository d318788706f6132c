package markdown

import (
	"context"
	"strings"
	"testing"

	apperrors "storyvault-api/pkg/errors"
)

func seedChapters(t *testing.T, client *Client) {
	t.Helper()
	mustWrite(t, client, "books/n/1-初遇.md", "第一章正文。")
	mustWrite(t, client, "books/n/2-转折.md", "第二章正文。")
	mustWrite(t, client, "books/n/10-终章.md", "第十章正文。")
	// 管理文档和不合命名约定的文件都不算章节
	mustWrite(t, client, "books/n/_book_meta.md", "---\ntype: book_meta\n---\n")
	mustWrite(t, client, "books/n/notes.txt", "草稿")
}

func TestChapterScan(t *testing.T) {
	client := newTestClient(nil)
	seedChapters(t, client)

	chapters, err := NewChapterRepository(client).Scan(context.Background(), "books/n")
	if err != nil {
		t.Fatal(err)
	}
	if len(chapters) != 3 {
		t.Fatalf("chapters = %+v", chapters)
	}
	// 数值排序：10 在 2 之后
	wantNumbers := []int{1, 2, 10}
	wantTitles := []string{"初遇", "转折", "终章"}
	for i, ch := range chapters {
		if ch.Number != wantNumbers[i] || ch.Title != wantTitles[i] {
			t.Errorf("chapters[%d] = %+v", i, ch)
		}
	}
}

func TestChapterScanEmptyFolder(t *testing.T) {
	client := newTestClient(nil)
	chapters, err := NewChapterRepository(client).Scan(context.Background(), "books/none")
	if err != nil {
		t.Fatalf("missing folder must not error: %v", err)
	}
	if len(chapters) != 0 {
		t.Errorf("chapters = %+v", chapters)
	}
}

func TestChapterGetContent(t *testing.T) {
	client := newTestClient(nil)
	seedChapters(t, client)
	repo := NewChapterRepository(client)
	ctx := context.Background()

	content, err := repo.GetContent(ctx, "books/n", 1, 2)
	if err != nil {
		t.Fatal(err)
	}
	// 每章带生成的标题行，章间用水平分隔线
	if !strings.Contains(content, "## 第1章 初遇") || !strings.Contains(content, "## 第2章 转折") {
		t.Errorf("content = %q", content)
	}
	if got := strings.Count(content, "\n\n---\n\n"); got != 1 {
		t.Errorf("separator count = %d, want 1", got)
	}
	if strings.Contains(content, "第十章") {
		t.Error("chapter outside range leaked into content")
	}
}

func TestChapterGetContentEmptyRange(t *testing.T) {
	client := newTestClient(nil)
	seedChapters(t, client)
	_, err := NewChapterRepository(client).GetContent(context.Background(), "books/n", 3, 5)
	if !apperrors.HasCode(err, apperrors.CodeChapterNotFound) {
		t.Errorf("err = %v, want chapter not found", err)
	}
}

func TestChapterGetBody(t *testing.T) {
	client := newTestClient(nil)
	seedChapters(t, client)
	repo := NewChapterRepository(client)
	ctx := context.Background()

	// 0 基索引指向扫描顺序，索引 2 是编号 10 的终章
	body, title, err := repo.GetBody(ctx, "books/n", 2)
	if err != nil {
		t.Fatal(err)
	}
	if title != "终章" || body != "第十章正文。" {
		t.Errorf("body=%q title=%q", body, title)
	}

	_, _, err = repo.GetBody(ctx, "books/n", 99)
	if !apperrors.HasCode(err, apperrors.CodeChapterNotFound) {
		t.Errorf("err = %v, want chapter not found", err)
	}
}

func TestChapterReadBodyStripsHeader(t *testing.T) {
	client := newTestClient(nil)
	mustWrite(t, client, "books/n/1-带头.md", "---\nsource: scraper\n---\n\n正文从这里开始。")

	body, _, err := NewChapterRepository(client).GetBody(context.Background(), "books/n", 0)
	if err != nil {
		t.Fatal(err)
	}
	if body != "正文从这里开始。" {
		t.Errorf("body = %q, frontmatter must be stripped", body)
	}
}
