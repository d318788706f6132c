package markdown

import (
	"context"
	"strings"
	"testing"

	"storyvault-api/internal/config"
	"storyvault-api/internal/domain/entity"
	"storyvault-api/internal/domain/repository"
	apperrors "storyvault-api/pkg/errors"
)

func TestStoryUnitAddInline(t *testing.T) {
	client := newTestClient(nil)
	ctx := context.Background()
	mustInitialize(t, client, "books/u", "Test")
	units := NewStoryUnitRepository(client)

	u := entity.NewStoryUnit("", "开篇", entity.ChapterRange{Start: 1, End: 2})
	u.TextContent = "短正文"
	if err := units.Add(ctx, "books/u", u); err != nil {
		t.Fatal(err)
	}
	if u.TextFilePath != "" {
		t.Errorf("short text must stay inline, TextFilePath = %q", u.TextFilePath)
	}

	got, err := units.GetByID(ctx, "books/u", u.UnitID)
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.TextContent != "短正文" {
		t.Errorf("got = %+v", got)
	}

	full, err := units.ReadFullText(ctx, "books/u", got)
	if err != nil || full != "短正文" {
		t.Errorf("ReadFullText = %q, %v", full, err)
	}
}

func TestStoryUnitOverflow(t *testing.T) {
	// 阈值压到 10 个字符，触发溢出不需要长文本
	client := newTestClient(&config.LibraryConfig{OverflowThreshold: 10, PreviewLength: 4})
	ctx := context.Background()
	mustInitialize(t, client, "books/u", "Test")
	units := NewStoryUnitRepository(client)

	long := strings.Repeat("文", 30)
	u := entity.NewStoryUnit("", "长文单元", entity.ChapterRange{Start: 1, End: 1})
	u.TextContent = long
	if err := units.Add(ctx, "books/u", u); err != nil {
		t.Fatal(err)
	}

	if u.TextFilePath != "_unit_texts/"+u.UnitID+".md" {
		t.Errorf("TextFilePath = %q", u.TextFilePath)
	}
	if u.TextContent != strings.Repeat("文", 4)+"..." {
		t.Errorf("inline preview = %q", u.TextContent)
	}

	// 溢出文件持有完整正文
	raw, err := client.storage.Read(ctx, "books/u/"+u.TextFilePath)
	if err != nil || raw != long {
		t.Errorf("overflow file = %q, %v", raw, err)
	}

	got, err := units.GetByID(ctx, "books/u", u.UnitID)
	if err != nil {
		t.Fatal(err)
	}
	full, err := units.ReadFullText(ctx, "books/u", got)
	if err != nil {
		t.Fatal(err)
	}
	if full != long {
		t.Errorf("ReadFullText length = %d, want %d", len([]rune(full)), len([]rune(long)))
	}
}

func TestStoryUnitShrinkBack(t *testing.T) {
	client := newTestClient(&config.LibraryConfig{OverflowThreshold: 10, PreviewLength: 4})
	ctx := context.Background()
	mustInitialize(t, client, "books/u", "Test")
	units := NewStoryUnitRepository(client)

	u := entity.NewStoryUnit("", "伸缩", entity.ChapterRange{Start: 1, End: 1})
	u.TextContent = strings.Repeat("文", 30)
	if err := units.Add(ctx, "books/u", u); err != nil {
		t.Fatal(err)
	}
	overflowFile := "books/u/" + u.TextFilePath

	short := "收回内联"
	updated, err := units.Update(ctx, "books/u", u.UnitID, &repository.StoryUnitPatch{TextContent: &short})
	if err != nil {
		t.Fatal(err)
	}
	if updated.TextFilePath != "" || updated.TextContent != short {
		t.Errorf("after shrink: path=%q content=%q", updated.TextFilePath, updated.TextContent)
	}
	exists, _ := client.storage.Exists(ctx, overflowFile)
	if exists {
		t.Error("overflow file must be deleted on shrink back")
	}
}

func TestStoryUnitDeleteRemovesOverflowFile(t *testing.T) {
	client := newTestClient(&config.LibraryConfig{OverflowThreshold: 10, PreviewLength: 4})
	ctx := context.Background()
	mustInitialize(t, client, "books/u", "Test")
	units := NewStoryUnitRepository(client)

	u := entity.NewStoryUnit("", "待删", entity.ChapterRange{Start: 1, End: 1})
	u.TextContent = strings.Repeat("文", 30)
	if err := units.Add(ctx, "books/u", u); err != nil {
		t.Fatal(err)
	}
	overflowFile := "books/u/" + u.TextFilePath

	if err := units.Delete(ctx, "books/u", u.UnitID); err != nil {
		t.Fatal(err)
	}
	exists, _ := client.storage.Exists(ctx, overflowFile)
	if exists {
		t.Error("overflow file must be deleted with the unit")
	}
	list, _ := units.List(ctx, "books/u")
	if len(list) != 0 {
		t.Errorf("list = %+v", list)
	}
}

func TestStoryUnitInvalidChapterRange(t *testing.T) {
	client := newTestClient(nil)
	ctx := context.Background()
	mustInitialize(t, client, "books/u", "Test")
	units := NewStoryUnitRepository(client)

	u := entity.NewStoryUnit("", "倒置", entity.ChapterRange{Start: 5, End: 2})
	err := units.Add(ctx, "books/u", u)
	if !apperrors.HasCode(err, apperrors.CodeValidationFailed) {
		t.Errorf("err = %v, want validation failed", err)
	}
}

func TestStoryUnitUpdateUnknownID(t *testing.T) {
	client := newTestClient(nil)
	ctx := context.Background()
	mustInitialize(t, client, "books/u", "Test")
	units := NewStoryUnitRepository(client)

	name := "x"
	_, err := units.Update(ctx, "books/u", "unit_nope", &repository.StoryUnitPatch{Name: &name})
	if !apperrors.HasCode(err, apperrors.CodeStoryUnitNotFound) {
		t.Errorf("err = %v, want story unit not found", err)
	}
}
