// Package entity 定义领域实体
package entity

import (
	"time"
)

// GraphKind 可视化图类型
type GraphKind string

const (
	GraphKindRelationship GraphKind = "character_relationship"
	GraphKindStoryFlow    GraphKind = "story_flow"
	GraphKindTimeline     GraphKind = "timeline"
)

// GraphNode 图节点，坐标由前端画布维护，本核心只做实体到节点的翻译
type GraphNode struct {
	ID    string         `json:"id"`
	Label string         `json:"label"`
	Type  string         `json:"type,omitempty"`
	X     float64        `json:"x,omitempty"`
	Y     float64        `json:"y,omitempty"`
	Meta  map[string]any `json:"meta,omitempty"`
}

// GraphEdge 图边
type GraphEdge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
	Label  string `json:"label,omitempty"`
}

// GraphDocument 节点/边图文档，按原样 JSON 读写
type GraphDocument struct {
	Kind        GraphKind   `json:"kind"`
	BookID      string      `json:"book_id"`
	Nodes       []GraphNode `json:"nodes"`
	Edges       []GraphEdge `json:"edges"`
	GeneratedAt time.Time   `json:"generated_at"`
}
