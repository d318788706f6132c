package markdown

import (
	"context"
	"strings"
	"testing"

	"storyvault-api/internal/domain/repository"
	apperrors "storyvault-api/pkg/errors"
	"storyvault-api/pkg/frontmatter"
)

func TestInitializeCreatesBookDocuments(t *testing.T) {
	client := newTestClient(nil)
	ctx := context.Background()

	bookID := mustInitialize(t, client, "books/test", "Test")
	if !strings.HasPrefix(bookID, "Test_") {
		t.Errorf("bookID = %q, want prefix Test_", bookID)
	}
	for _, r := range strings.TrimPrefix(bookID, "Test_") {
		if r < '0' || r > '9' {
			t.Errorf("bookID suffix must be a timestamp: %q", bookID)
		}
	}

	books := NewBookRepository(client)
	ok, err := books.IsInitialized(ctx, "books/test")
	if err != nil || !ok {
		t.Fatalf("IsInitialized = %v, %v", ok, err)
	}

	// 四个管理文档 + 画布与溢出目录全部就位
	for _, p := range []string{
		"books/test/_book_meta.md",
		"books/test/_characters.md",
		"books/test/_story_units.md",
		"books/test/_events.md",
		"books/test/_precise_marks.json",
	} {
		exists, err := client.storage.Exists(ctx, p)
		if err != nil || !exists {
			t.Errorf("%s missing after initialize (exists=%v err=%v)", p, exists, err)
		}
	}

	// 集合文档带头部和空的 JSON 围栏块
	text, err := client.storage.Read(ctx, "books/test/_characters.md")
	if err != nil {
		t.Fatalf("read characters doc: %v", err)
	}
	parsed := frontmatter.Parse(text)
	if !parsed.HasFrontmatter {
		t.Fatal("characters doc has no frontmatter header")
	}
	if parsed.Data["type"] != "characters" {
		t.Errorf("type = %v", parsed.Data["type"])
	}
	if parsed.Data["book_id"] != bookID {
		t.Errorf("book_id = %v, want %v", parsed.Data["book_id"], bookID)
	}
	if !strings.Contains(parsed.Content, "```json:characters") {
		t.Error("characters doc missing fenced json block")
	}
	if !strings.Contains(parsed.Content, "（暂无角色）") {
		t.Error("empty collection should render placeholder mirror")
	}
}

func TestInitializeRejectsEmptyTitle(t *testing.T) {
	client := newTestClient(nil)
	books := NewBookRepository(client)
	_, err := books.Initialize(context.Background(), "books/x", repository.InitializeBookInput{Title: "   "})
	if !apperrors.HasCode(err, apperrors.CodeInvalidParam) {
		t.Errorf("err = %v, want invalid param", err)
	}
}

func TestGetMetaMissingBook(t *testing.T) {
	client := newTestClient(nil)
	books := NewBookRepository(client)
	meta, err := books.GetMeta(context.Background(), "books/none")
	if err != nil {
		t.Fatalf("missing meta must not error: %v", err)
	}
	if meta != nil {
		t.Errorf("meta = %+v, want nil", meta)
	}
}

func TestGetMetaRoundTrip(t *testing.T) {
	client := newTestClient(nil)
	ctx := context.Background()
	books := NewBookRepository(client)

	bookID, err := books.Initialize(ctx, "books/rt", repository.InitializeBookInput{
		Title:       "回环之书",
		Author:      "佚名",
		Description: "一段简介",
	})
	if err != nil {
		t.Fatal(err)
	}

	meta, err := books.GetMeta(ctx, "books/rt")
	if err != nil {
		t.Fatal(err)
	}
	if meta == nil {
		t.Fatal("meta is nil after initialize")
	}
	if meta.BookID != bookID {
		t.Errorf("BookID = %q, want %q", meta.BookID, bookID)
	}
	if meta.Title != "回环之书" || meta.Author != "佚名" {
		t.Errorf("title/author = %q/%q", meta.Title, meta.Author)
	}
	if meta.Description != "一段简介" {
		t.Errorf("Description = %q", meta.Description)
	}
}

func TestUpdateMeta(t *testing.T) {
	client := newTestClient(nil)
	ctx := context.Background()
	books := NewBookRepository(client)
	bookID := mustInitialize(t, client, "books/up", "Test")

	title := "改名之后"
	count := 42
	meta, err := books.UpdateMeta(ctx, "books/up", repository.BookMetaPatch{
		Title:        &title,
		ChapterCount: &count,
	})
	if err != nil {
		t.Fatal(err)
	}
	if meta.Title != "改名之后" || meta.ChapterCount != 42 {
		t.Errorf("patched meta = %+v", meta)
	}
	// bookId 只在初始化时生成一次，改名不换 ID
	if meta.BookID != bookID {
		t.Errorf("BookID changed on update: %q -> %q", bookID, meta.BookID)
	}

	// 补丁落盘
	reloaded, err := books.GetMeta(ctx, "books/up")
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.Title != "改名之后" || reloaded.ChapterCount != 42 {
		t.Errorf("reloaded meta = %+v", reloaded)
	}
}

func TestUpdateMetaNotInitialized(t *testing.T) {
	client := newTestClient(nil)
	books := NewBookRepository(client)
	title := "x"
	_, err := books.UpdateMeta(context.Background(), "books/none", repository.BookMetaPatch{Title: &title})
	if !apperrors.HasCode(err, apperrors.CodeNotInitialized) {
		t.Errorf("err = %v, want not initialized", err)
	}
}
