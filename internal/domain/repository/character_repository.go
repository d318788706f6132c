// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"storyvault-api/internal/domain/entity"
)

// CharacterPatch 角色部分更新
type CharacterPatch struct {
	Name                   *string
	Aliases                []string
	Role                   *entity.CharacterRole
	Tags                   []string
	Description            *string
	AIDescription          *string
	Relationships          []entity.CharacterRelationship
	FirstAppearanceChapter *int
	AppearanceChapters     []int
	Source                 *entity.DataSource
}

// CharacterRepository 角色仓储接口
type CharacterRepository interface {
	// List 读取全部角色，文档缺失或损坏时返回空集合
	List(ctx context.Context, bookPath string) ([]*entity.Character, error)

	// GetByID 按 ID 获取角色，不存在时返回 (nil, nil)
	GetByID(ctx context.Context, bookPath, characterID string) (*entity.Character, error)

	// Add 追加角色并整体重写集合文档，ID 为空时生成
	Add(ctx context.Context, bookPath string, character *entity.Character) error

	// Update 合并补丁并更新 updatedAt，未知 ID 返回 NotFound
	Update(ctx context.Context, bookPath, characterID string, patch *CharacterPatch) (*entity.Character, error)

	// Delete 删除角色，未知 ID 返回 NotFound
	Delete(ctx context.Context, bookPath, characterID string) error
}
