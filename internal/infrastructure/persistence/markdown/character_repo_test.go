package markdown

import (
	"context"
	"strings"
	"testing"

	"storyvault-api/internal/domain/entity"
	"storyvault-api/internal/domain/repository"
	apperrors "storyvault-api/pkg/errors"
)

func TestCharacterAddAndList(t *testing.T) {
	client := newTestClient(nil)
	ctx := context.Background()
	bookID := mustInitialize(t, client, "books/c", "Test")
	chars := NewCharacterRepository(client)

	hero := entity.NewCharacter("", "林远", entity.RoleProtagonist)
	hero.BookID = ""
	hero.CharacterID = ""
	if err := chars.Add(ctx, "books/c", hero); err != nil {
		t.Fatal(err)
	}
	// ID 与 bookId 缺省时由仓储补齐
	if hero.CharacterID == "" || !strings.HasPrefix(hero.CharacterID, "char_") {
		t.Errorf("CharacterID = %q", hero.CharacterID)
	}
	if hero.BookID != bookID {
		t.Errorf("BookID = %q, want %q", hero.BookID, bookID)
	}

	list, err := chars.List(ctx, "books/c")
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].Name != "林远" {
		t.Fatalf("list = %+v", list)
	}

	got, err := chars.GetByID(ctx, "books/c", hero.CharacterID)
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.Name != "林远" || got.Role != entity.RoleProtagonist {
		t.Errorf("got = %+v", got)
	}

	// 可读镜像随数据重建
	text, _ := client.storage.Read(ctx, "books/c/_characters.md")
	if !strings.Contains(text, "林远") {
		t.Error("mirror does not mention the character")
	}
}

func TestCharacterAddBeforeInitialize(t *testing.T) {
	client := newTestClient(nil)
	chars := NewCharacterRepository(client)
	err := chars.Add(context.Background(), "books/none", entity.NewCharacter("b", "张三", entity.RoleMinor))
	if !apperrors.HasCode(err, apperrors.CodeNotInitialized) {
		t.Errorf("err = %v, want not initialized", err)
	}
}

func TestCharacterGetByIDMissing(t *testing.T) {
	client := newTestClient(nil)
	mustInitialize(t, client, "books/c", "Test")
	chars := NewCharacterRepository(client)
	got, err := chars.GetByID(context.Background(), "books/c", "char_unknown")
	if err != nil {
		t.Fatalf("missing record must not error: %v", err)
	}
	if got != nil {
		t.Errorf("got = %+v, want nil", got)
	}
}

func TestCharacterUpdate(t *testing.T) {
	client := newTestClient(nil)
	ctx := context.Background()
	mustInitialize(t, client, "books/c", "Test")
	chars := NewCharacterRepository(client)

	c := entity.NewCharacter("", "林远", entity.RoleSupporting)
	if err := chars.Add(ctx, "books/c", c); err != nil {
		t.Fatal(err)
	}

	role := entity.RoleProtagonist
	desc := "从配角转正"
	updated, err := chars.Update(ctx, "books/c", c.CharacterID, &repository.CharacterPatch{
		Role:        &role,
		Description: &desc,
	})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Role != entity.RoleProtagonist || updated.Description != desc {
		t.Errorf("updated = %+v", updated)
	}
	// 未出现在补丁里的字段保持不变
	if updated.Name != "林远" {
		t.Errorf("Name = %q, patch must not clear it", updated.Name)
	}
	if updated.CharacterID != c.CharacterID {
		t.Error("update must not change the record ID")
	}
}

func TestCharacterUpdateUnknownID(t *testing.T) {
	client := newTestClient(nil)
	ctx := context.Background()
	mustInitialize(t, client, "books/c", "Test")
	chars := NewCharacterRepository(client)

	c := entity.NewCharacter("", "林远", entity.RoleSupporting)
	if err := chars.Add(ctx, "books/c", c); err != nil {
		t.Fatal(err)
	}

	name := "改名"
	_, err := chars.Update(ctx, "books/c", "char_nope", &repository.CharacterPatch{Name: &name})
	if !apperrors.HasCode(err, apperrors.CodeCharacterNotFound) {
		t.Fatalf("err = %v, want character not found", err)
	}

	// 失败的更新不得触碰集合
	list, _ := chars.List(ctx, "books/c")
	if len(list) != 1 || list[0].Name != "林远" {
		t.Errorf("collection mutated by failed update: %+v", list)
	}
}

func TestCharacterDelete(t *testing.T) {
	client := newTestClient(nil)
	ctx := context.Background()
	mustInitialize(t, client, "books/c", "Test")
	chars := NewCharacterRepository(client)

	a := entity.NewCharacter("", "甲", entity.RoleMinor)
	b := entity.NewCharacter("", "乙", entity.RoleMinor)
	for _, c := range []*entity.Character{a, b} {
		if err := chars.Add(ctx, "books/c", c); err != nil {
			t.Fatal(err)
		}
	}

	if err := chars.Delete(ctx, "books/c", a.CharacterID); err != nil {
		t.Fatal(err)
	}
	list, _ := chars.List(ctx, "books/c")
	if len(list) != 1 || list[0].CharacterID != b.CharacterID {
		t.Errorf("list after delete = %+v", list)
	}

	if err := chars.Delete(ctx, "books/c", a.CharacterID); !apperrors.HasCode(err, apperrors.CodeCharacterNotFound) {
		t.Errorf("second delete err = %v, want not found", err)
	}
}

func TestCharacterListCorruptDocument(t *testing.T) {
	client := newTestClient(nil)
	ctx := context.Background()
	mustInitialize(t, client, "books/c", "Test")

	// 外部编辑器毁掉 JSON 块：读路径降级为空集合而不是报错
	mustWrite(t, client, "books/c/_characters.md", "---\ntype: characters\n---\n\n```json:characters\n{broken\n```\n")

	chars := NewCharacterRepository(client)
	list, err := chars.List(ctx, "books/c")
	if err != nil {
		t.Fatalf("corrupt document must not error on read: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("list = %+v, want empty", list)
	}
}
