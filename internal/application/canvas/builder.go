// Package canvas 把实体集合翻译为可视化图文档
//
// 只做实体到节点/边的翻译，布局坐标与渲染完全交给前端画布。
package canvas

import (
	"context"
	"fmt"
	"sort"
	"time"

	"storyvault-api/internal/domain/entity"
	"storyvault-api/internal/domain/repository"
	"storyvault-api/pkg/tracer"
)

// Builder 图文档构建器
type Builder struct {
	books      repository.BookRepository
	characters repository.CharacterRepository
	units      repository.StoryUnitRepository
	events     repository.EventRepository
	graphs     repository.GraphRepository
}

// NewBuilder 创建图文档构建器
func NewBuilder(
	books repository.BookRepository,
	characters repository.CharacterRepository,
	units repository.StoryUnitRepository,
	events repository.EventRepository,
	graphs repository.GraphRepository,
) *Builder {
	return &Builder{
		books:      books,
		characters: characters,
		units:      units,
		events:     events,
		graphs:     graphs,
	}
}

// Build 构建指定类型的图文档并写入画布目录
func (b *Builder) Build(ctx context.Context, bookPath string, kind entity.GraphKind) (*entity.GraphDocument, error) {
	ctx, span := tracer.Start(ctx, "application.CanvasBuilder.Build")
	defer span.End()

	var (
		doc *entity.GraphDocument
		err error
	)
	switch kind {
	case entity.GraphKindRelationship:
		doc, err = b.buildRelationshipGraph(ctx, bookPath)
	case entity.GraphKindStoryFlow:
		doc, err = b.buildStoryFlowGraph(ctx, bookPath)
	case entity.GraphKindTimeline:
		doc, err = b.buildTimelineGraph(ctx, bookPath)
	default:
		return nil, fmt.Errorf("unknown graph kind %q", kind)
	}
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	if err := b.graphs.Write(ctx, bookPath, doc); err != nil {
		span.RecordError(err)
		return nil, err
	}
	return doc, nil
}

// Read 读取已生成的图文档，不存在时返回 (nil, nil)
func (b *Builder) Read(ctx context.Context, bookPath string, kind entity.GraphKind) (*entity.GraphDocument, error) {
	return b.graphs.Read(ctx, bookPath, kind)
}

// buildRelationshipGraph 角色关系图：角色为节点，关系为边
// 关系目标优先按角色 ID 解析，退而按显示名解析，再不行保留原值
func (b *Builder) buildRelationshipGraph(ctx context.Context, bookPath string) (*entity.GraphDocument, error) {
	characters, err := b.characters.List(ctx, bookPath)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]bool, len(characters))
	byName := make(map[string]string, len(characters))
	for _, c := range characters {
		byID[c.CharacterID] = true
		byName[c.Name] = c.CharacterID
	}

	doc := newDocument(entity.GraphKindRelationship, bookID(characters))
	for _, c := range characters {
		doc.Nodes = append(doc.Nodes, entity.GraphNode{
			ID:    c.CharacterID,
			Label: c.Name,
			Type:  string(c.Role),
		})
	}
	for _, c := range characters {
		for i, rel := range c.Relationships {
			target := rel.Target
			if !byID[target] {
				if id, ok := byName[target]; ok {
					target = id
				}
			}
			doc.Edges = append(doc.Edges, entity.GraphEdge{
				ID:     fmt.Sprintf("%s_rel_%d", c.CharacterID, i),
				Source: c.CharacterID,
				Target: target,
				Label:  rel.Kind,
			})
		}
	}
	return doc, nil
}

// buildStoryFlowGraph 故事流图：故事单元按章节起点排序后首尾相连
func (b *Builder) buildStoryFlowGraph(ctx context.Context, bookPath string) (*entity.GraphDocument, error) {
	units, err := b.units.List(ctx, bookPath)
	if err != nil {
		return nil, err
	}
	sorted := make([]*entity.StoryUnit, len(units))
	copy(sorted, units)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ChapterRange.Start < sorted[j].ChapterRange.Start
	})

	var id string
	if len(sorted) > 0 {
		id = sorted[0].BookID
	}
	doc := newDocument(entity.GraphKindStoryFlow, id)
	for _, u := range sorted {
		doc.Nodes = append(doc.Nodes, entity.GraphNode{
			ID:    u.UnitID,
			Label: u.Name,
			Type:  string(u.StoryLine),
			Meta: map[string]any{
				"chapter_start": u.ChapterRange.Start,
				"chapter_end":   u.ChapterRange.End,
			},
		})
	}
	for i := 1; i < len(sorted); i++ {
		doc.Edges = append(doc.Edges, entity.GraphEdge{
			ID:     fmt.Sprintf("flow_%d", i),
			Source: sorted[i-1].UnitID,
			Target: sorted[i].UnitID,
		})
	}
	return doc, nil
}

// buildTimelineGraph 时间轴图：事件按 Order 排序，层与时长进入节点元数据
func (b *Builder) buildTimelineGraph(ctx context.Context, bookPath string) (*entity.GraphDocument, error) {
	events, err := b.events.List(ctx, bookPath)
	if err != nil {
		return nil, err
	}
	sorted := make([]*entity.StoryEvent, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Order < sorted[j].Order })

	var id string
	if len(sorted) > 0 {
		id = sorted[0].BookID
	}
	doc := newDocument(entity.GraphKindTimeline, id)
	for _, e := range sorted {
		doc.Nodes = append(doc.Nodes, entity.GraphNode{
			ID:    e.EventID,
			Label: e.Name,
			Meta: map[string]any{
				"order":         e.Order,
				"duration":      e.Duration,
				"layer":         e.Layer,
				"chapter_start": e.ChapterRange.Start,
				"chapter_end":   e.ChapterRange.End,
				"story_unit_id": e.StoryUnitID,
			},
		})
	}
	for i := 1; i < len(sorted); i++ {
		doc.Edges = append(doc.Edges, entity.GraphEdge{
			ID:     fmt.Sprintf("timeline_%d", i),
			Source: sorted[i-1].EventID,
			Target: sorted[i].EventID,
		})
	}
	return doc, nil
}

func newDocument(kind entity.GraphKind, bookID string) *entity.GraphDocument {
	return &entity.GraphDocument{
		Kind:        kind,
		BookID:      bookID,
		Nodes:       []entity.GraphNode{},
		Edges:       []entity.GraphEdge{},
		GeneratedAt: time.Now(),
	}
}

func bookID(characters []*entity.Character) string {
	if len(characters) > 0 {
		return characters[0].BookID
	}
	return ""
}
