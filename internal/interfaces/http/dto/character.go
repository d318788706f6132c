// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"storyvault-api/internal/domain/entity"
	"storyvault-api/internal/domain/repository"
)

// CreateCharacterRequest 创建角色请求
type CreateCharacterRequest struct {
	Name                   string                         `json:"name" binding:"required"`
	Aliases                []string                       `json:"aliases"`
	Role                   string                         `json:"role"`
	Tags                   []string                       `json:"tags"`
	Description            string                         `json:"description"`
	Relationships          []entity.CharacterRelationship `json:"relationships"`
	FirstAppearanceChapter int                            `json:"first_appearance_chapter"`
	AppearanceChapters     []int                          `json:"appearance_chapters"`
	Source                 string                         `json:"source"`
}

// ToEntity 转换为角色实体，ID 由仓储生成
func (r *CreateCharacterRequest) ToEntity() *entity.Character {
	c := entity.NewCharacter("", r.Name, entity.CharacterRole(r.Role))
	c.CharacterID = ""
	if r.Aliases != nil {
		c.Aliases = r.Aliases
	}
	c.Tags = r.Tags
	c.Description = r.Description
	if r.Relationships != nil {
		c.Relationships = r.Relationships
	}
	c.FirstAppearanceChapter = r.FirstAppearanceChapter
	c.AppearanceChapters = r.AppearanceChapters
	if r.Source != "" {
		c.Source = entity.DataSource(r.Source)
	}
	return c
}

// UpdateCharacterRequest 更新角色请求，空字段不变更
type UpdateCharacterRequest struct {
	Name                   *string                        `json:"name"`
	Aliases                []string                       `json:"aliases"`
	Role                   *string                        `json:"role"`
	Tags                   []string                       `json:"tags"`
	Description            *string                        `json:"description"`
	AIDescription          *string                        `json:"ai_description"`
	Relationships          []entity.CharacterRelationship `json:"relationships"`
	FirstAppearanceChapter *int                           `json:"first_appearance_chapter"`
	AppearanceChapters     []int                          `json:"appearance_chapters"`
	Source                 *string                        `json:"source"`
}

// ToPatch 转换为仓储补丁
func (r *UpdateCharacterRequest) ToPatch() *repository.CharacterPatch {
	patch := &repository.CharacterPatch{
		Name:                   r.Name,
		Aliases:                r.Aliases,
		Tags:                   r.Tags,
		Description:            r.Description,
		AIDescription:          r.AIDescription,
		Relationships:          r.Relationships,
		FirstAppearanceChapter: r.FirstAppearanceChapter,
		AppearanceChapters:     r.AppearanceChapters,
	}
	if r.Role != nil {
		role := entity.CharacterRole(*r.Role)
		patch.Role = &role
	}
	if r.Source != nil {
		source := entity.DataSource(*r.Source)
		patch.Source = &source
	}
	return patch
}
