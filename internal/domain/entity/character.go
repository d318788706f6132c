// Package entity 定义领域实体
package entity

import (
	"time"
)

// CharacterRole 角色定位
type CharacterRole string

const (
	RoleProtagonist CharacterRole = "protagonist"
	RoleAntagonist  CharacterRole = "antagonist"
	RoleSupporting  CharacterRole = "supporting"
	RoleMinor       CharacterRole = "minor"
)

// DataSource 记录来源
type DataSource string

const (
	SourceAI     DataSource = "ai"
	SourceManual DataSource = "manual"
)

// RelationshipChange 关系随剧情的变化记录
type RelationshipChange struct {
	Chapter     int    `json:"chapter,omitempty"`
	Description string `json:"description"`
}

// CharacterRelationship 角色关系
// Target 优先存角色 ID，导入场景下允许回退为显示名
type CharacterRelationship struct {
	Target      string               `json:"target"`
	Kind        string               `json:"kind"`
	Description string               `json:"description,omitempty"`
	Changes     []RelationshipChange `json:"changes,omitempty"`
}

// Character 角色
type Character struct {
	CharacterID            string                  `json:"character_id"`
	BookID                 string                  `json:"book_id"`
	Name                   string                  `json:"name"`
	Aliases                []string                `json:"aliases,omitempty"`
	Role                   CharacterRole           `json:"role"`
	Tags                   []string                `json:"tags,omitempty"`
	Description            string                  `json:"description,omitempty"`
	AIDescription          string                  `json:"ai_description,omitempty"`
	Relationships          []CharacterRelationship `json:"relationships"`
	FirstAppearanceChapter int                     `json:"first_appearance_chapter,omitempty"`
	AppearanceChapters     []int                   `json:"appearance_chapters,omitempty"`
	Source                 DataSource              `json:"source"`
	CreatedAt              time.Time               `json:"created_at"`
	UpdatedAt              time.Time               `json:"updated_at"`
}

// NewCharacter 创建角色
func NewCharacter(bookID, name string, role CharacterRole) *Character {
	now := time.Now()
	if role == "" {
		role = RoleSupporting
	}
	return &Character{
		CharacterID:   NewRecordID("char"),
		BookID:        bookID,
		Name:          name,
		Role:          role,
		Aliases:       []string{},
		Relationships: []CharacterRelationship{},
		Source:        SourceManual,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// AddAlias 添加别名
func (c *Character) AddAlias(alias string) {
	for _, a := range c.Aliases {
		if a == alias {
			return
		}
	}
	c.Aliases = append(c.Aliases, alias)
	c.UpdatedAt = time.Now()
}

// RecordAppearance 记录出场章节
func (c *Character) RecordAppearance(chapter int) {
	if c.FirstAppearanceChapter == 0 || chapter < c.FirstAppearanceChapter {
		c.FirstAppearanceChapter = chapter
	}
	for _, ch := range c.AppearanceChapters {
		if ch == chapter {
			return
		}
	}
	c.AppearanceChapters = append(c.AppearanceChapters, chapter)
	c.UpdatedAt = time.Now()
}
