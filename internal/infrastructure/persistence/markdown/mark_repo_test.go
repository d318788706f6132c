package markdown

import (
	"context"
	"testing"

	"storyvault-api/internal/domain/entity"
)

func TestMarkFileLoadMissing(t *testing.T) {
	client := newTestClient(nil)
	file, err := NewMarkRepository(client).Load(context.Background(), "books/m")
	if err != nil {
		t.Fatalf("missing mark file must degrade, not error: %v", err)
	}
	if file == nil || len(file.Marks) != 0 || len(file.UnpairedMarks) != 0 {
		t.Errorf("file = %+v, want empty mark file", file)
	}
}

func TestMarkFileLoadCorrupt(t *testing.T) {
	client := newTestClient(nil)
	mustWrite(t, client, "books/m/_precise_marks.json", "{not json")

	file, err := NewMarkRepository(client).Load(context.Background(), "books/m")
	if err != nil {
		t.Fatalf("corrupt mark file must degrade, not error: %v", err)
	}
	if len(file.Marks) != 0 || len(file.UnpairedMarks) != 0 {
		t.Errorf("file = %+v, want empty mark file", file)
	}
}

func TestMarkFileSaveLoadRoundTrip(t *testing.T) {
	client := newTestClient(nil)
	ctx := context.Background()
	repo := NewMarkRepository(client)

	file := entity.NewMarkFile("Test_1")
	start := entity.NewStartMark("Test_1", entity.PrecisePosition{ChapterIndex: 0, LineNumber: 5, CharacterOffset: 10}, "伏笔")
	file.UnpairedMarks = append(file.UnpairedMarks, start)

	paired := entity.NewStartMark("Test_1", entity.PrecisePosition{ChapterIndex: 1, LineNumber: 1, CharacterOffset: 0}, "")
	paired.Pair(entity.PrecisePosition{ChapterIndex: 2, LineNumber: 3, CharacterOffset: 7})
	file.Marks = append(file.Marks, paired)

	if err := repo.Save(ctx, "books/m", file); err != nil {
		t.Fatal(err)
	}

	loaded, err := repo.Load(ctx, "books/m")
	if err != nil {
		t.Fatal(err)
	}
	if loaded.BookID != "Test_1" {
		t.Errorf("BookID = %q", loaded.BookID)
	}
	if len(loaded.UnpairedMarks) != 1 || loaded.UnpairedMarks[0].MarkID != start.MarkID {
		t.Fatalf("unpaired = %+v", loaded.UnpairedMarks)
	}
	if loaded.UnpairedMarks[0].Status != entity.MarkStatusPending {
		t.Errorf("unpaired status = %s", loaded.UnpairedMarks[0].Status)
	}
	if len(loaded.Marks) != 1 || !loaded.Marks[0].IsPaired {
		t.Fatalf("marks = %+v", loaded.Marks)
	}
	r := loaded.Marks[0].Range
	if r == nil || r.Start.ChapterIndex != 1 || r.End.CharacterOffset != 7 {
		t.Errorf("range = %+v", r)
	}
}
