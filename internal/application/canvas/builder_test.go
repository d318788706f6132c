package canvas

import (
	"context"
	"testing"

	"github.com/spf13/afero"

	"storyvault-api/internal/domain/entity"
	"storyvault-api/internal/domain/repository"
	"storyvault-api/internal/infrastructure/persistence/markdown"
	"storyvault-api/internal/infrastructure/storage"
)

const testBook = "books/canvas"

func newTestBuilder(t *testing.T) (*Builder, *markdown.Client) {
	t.Helper()
	client := markdown.NewClient(storage.New(afero.NewMemMapFs()), nil)
	books := markdown.NewBookRepository(client)
	if _, err := books.Initialize(context.Background(), testBook, repository.InitializeBookInput{Title: "Test"}); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	builder := NewBuilder(
		books,
		markdown.NewCharacterRepository(client),
		markdown.NewStoryUnitRepository(client),
		markdown.NewEventRepository(client),
		markdown.NewGraphRepository(client),
	)
	return builder, client
}

func TestBuildRelationshipGraph(t *testing.T) {
	builder, client := newTestBuilder(t)
	ctx := context.Background()
	chars := markdown.NewCharacterRepository(client)

	hero := entity.NewCharacter("", "林远", entity.RoleProtagonist)
	rival := entity.NewCharacter("", "月娘", entity.RoleAntagonist)
	// 关系目标用显示名，构图时应解析为角色 ID
	hero.Relationships = []entity.CharacterRelationship{{Target: "月娘", Kind: "宿敌"}}
	for _, c := range []*entity.Character{hero, rival} {
		if err := chars.Add(ctx, testBook, c); err != nil {
			t.Fatal(err)
		}
	}

	doc, err := builder.Build(ctx, testBook, entity.GraphKindRelationship)
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Nodes) != 2 {
		t.Fatalf("nodes = %+v", doc.Nodes)
	}
	if len(doc.Edges) != 1 {
		t.Fatalf("edges = %+v", doc.Edges)
	}
	edge := doc.Edges[0]
	if edge.Source != hero.CharacterID || edge.Target != rival.CharacterID {
		t.Errorf("edge = %+v, target name must resolve to character ID", edge)
	}
	if edge.Label != "宿敌" {
		t.Errorf("edge label = %q", edge.Label)
	}

	// 构建结果落入画布目录，可重读
	reread, err := builder.Read(ctx, testBook, entity.GraphKindRelationship)
	if err != nil {
		t.Fatal(err)
	}
	if reread == nil || len(reread.Nodes) != 2 {
		t.Errorf("reread = %+v", reread)
	}
}

func TestBuildStoryFlowGraph(t *testing.T) {
	builder, client := newTestBuilder(t)
	ctx := context.Background()
	units := markdown.NewStoryUnitRepository(client)

	// 乱序入库，构图按章节起点排序
	late := entity.NewStoryUnit("", "后段", entity.ChapterRange{Start: 7, End: 9})
	early := entity.NewStoryUnit("", "前段", entity.ChapterRange{Start: 1, End: 3})
	for _, u := range []*entity.StoryUnit{late, early} {
		if err := units.Add(ctx, testBook, u); err != nil {
			t.Fatal(err)
		}
	}

	doc, err := builder.Build(ctx, testBook, entity.GraphKindStoryFlow)
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Nodes) != 2 || doc.Nodes[0].Label != "前段" {
		t.Errorf("nodes = %+v", doc.Nodes)
	}
	if len(doc.Edges) != 1 || doc.Edges[0].Source != early.UnitID || doc.Edges[0].Target != late.UnitID {
		t.Errorf("edges = %+v", doc.Edges)
	}
}

func TestBuildTimelineGraph(t *testing.T) {
	builder, client := newTestBuilder(t)
	ctx := context.Background()
	events := markdown.NewEventRepository(client)

	second := entity.NewStoryEvent("", "转折", 2, entity.ChapterRange{Start: 4, End: 5})
	first := entity.NewStoryEvent("", "开端", 1, entity.ChapterRange{Start: 1, End: 1})
	for _, e := range []*entity.StoryEvent{second, first} {
		if err := events.Add(ctx, testBook, e); err != nil {
			t.Fatal(err)
		}
	}

	doc, err := builder.Build(ctx, testBook, entity.GraphKindTimeline)
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Nodes) != 2 || doc.Nodes[0].Label != "开端" {
		t.Errorf("nodes = %+v", doc.Nodes)
	}
	if doc.Nodes[0].Meta["chapter_start"] != 1 {
		t.Errorf("meta = %+v", doc.Nodes[0].Meta)
	}
}

func TestBuildUnknownKind(t *testing.T) {
	builder, _ := newTestBuilder(t)
	if _, err := builder.Build(context.Background(), testBook, entity.GraphKind("mindmap")); err == nil {
		t.Error("unknown kind must error")
	}
}

func TestReadMissingGraph(t *testing.T) {
	builder, _ := newTestBuilder(t)
	doc, err := builder.Read(context.Background(), testBook, entity.GraphKindTimeline)
	if err != nil {
		t.Fatalf("missing graph must not error: %v", err)
	}
	if doc != nil {
		t.Errorf("doc = %+v, want nil", doc)
	}
}
