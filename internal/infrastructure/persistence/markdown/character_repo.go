// Package markdown 提供基于扁平文本文档的仓储实现
package markdown

import (
	"context"
	"time"

	"storyvault-api/internal/domain/entity"
	"storyvault-api/internal/domain/repository"
	apperrors "storyvault-api/pkg/errors"
	"storyvault-api/pkg/tracer"
)

// CharacterRepository 角色仓储实现
type CharacterRepository struct {
	client *Client
}

// NewCharacterRepository 创建角色仓储
func NewCharacterRepository(client *Client) *CharacterRepository {
	return &CharacterRepository{client: client}
}

// List 读取全部角色，文档缺失或损坏时返回空集合
func (r *CharacterRepository) List(ctx context.Context, bookPath string) ([]*entity.Character, error) {
	ctx, span := tracer.Start(ctx, "markdown.CharacterRepository.List")
	defer span.End()

	_, characters, _ := loadCollection[*entity.Character](ctx, r.client.storage, r.client.charactersPath(bookPath), "characters")
	return characters, nil
}

// GetByID 按 ID 获取角色，不存在时返回 (nil, nil)
func (r *CharacterRepository) GetByID(ctx context.Context, bookPath, characterID string) (*entity.Character, error) {
	ctx, span := tracer.Start(ctx, "markdown.CharacterRepository.GetByID")
	defer span.End()

	_, characters, _ := loadCollection[*entity.Character](ctx, r.client.storage, r.client.charactersPath(bookPath), "characters")
	for _, c := range characters {
		if c.CharacterID == characterID {
			return c, nil
		}
	}
	return nil, nil
}

// Add 追加角色并整体重写集合文档
func (r *CharacterRepository) Add(ctx context.Context, bookPath string, character *entity.Character) error {
	ctx, span := tracer.Start(ctx, "markdown.CharacterRepository.Add")
	defer span.End()

	filePath := r.client.charactersPath(bookPath)
	if err := requireDocument(ctx, r.client.storage, filePath, bookPath); err != nil {
		return err
	}

	header, characters, _ := loadCollection[*entity.Character](ctx, r.client.storage, filePath, "characters")
	if character.CharacterID == "" {
		character.CharacterID = entity.NewRecordID("char")
	}
	if character.BookID == "" {
		character.BookID = headerString(header, "book_id")
	}
	now := time.Now()
	if character.CreatedAt.IsZero() {
		character.CreatedAt = now
	}
	character.UpdatedAt = now
	characters = append(characters, character)

	err := storeCollection(ctx, r.client.storage, filePath, docTypeCharacters, headerString(header, "book_id"),
		"characters", header, characters, renderCharacters(characters))
	if err != nil {
		span.RecordError(err)
	}
	return err
}

// Update 合并补丁并更新 updatedAt，未知 ID 返回 NotFound
func (r *CharacterRepository) Update(ctx context.Context, bookPath, characterID string, patch *repository.CharacterPatch) (*entity.Character, error) {
	ctx, span := tracer.Start(ctx, "markdown.CharacterRepository.Update")
	defer span.End()

	filePath := r.client.charactersPath(bookPath)
	if err := requireDocument(ctx, r.client.storage, filePath, bookPath); err != nil {
		return nil, err
	}

	header, characters, _ := loadCollection[*entity.Character](ctx, r.client.storage, filePath, "characters")
	var target *entity.Character
	for _, c := range characters {
		if c.CharacterID == characterID {
			target = c
			break
		}
	}
	if target == nil {
		return nil, apperrors.ErrCharacterNotFound.WithDetail(characterID)
	}

	if patch != nil {
		if patch.Name != nil {
			target.Name = *patch.Name
		}
		if patch.Aliases != nil {
			target.Aliases = patch.Aliases
		}
		if patch.Role != nil {
			target.Role = *patch.Role
		}
		if patch.Tags != nil {
			target.Tags = patch.Tags
		}
		if patch.Description != nil {
			target.Description = *patch.Description
		}
		if patch.AIDescription != nil {
			target.AIDescription = *patch.AIDescription
		}
		if patch.Relationships != nil {
			target.Relationships = patch.Relationships
		}
		if patch.FirstAppearanceChapter != nil {
			target.FirstAppearanceChapter = *patch.FirstAppearanceChapter
		}
		if patch.AppearanceChapters != nil {
			target.AppearanceChapters = patch.AppearanceChapters
		}
		if patch.Source != nil {
			target.Source = *patch.Source
		}
	}
	target.UpdatedAt = time.Now()

	if err := storeCollection(ctx, r.client.storage, filePath, docTypeCharacters, headerString(header, "book_id"),
		"characters", header, characters, renderCharacters(characters)); err != nil {
		span.RecordError(err)
		return nil, err
	}
	return target, nil
}

// Delete 删除角色，未知 ID 返回 NotFound
func (r *CharacterRepository) Delete(ctx context.Context, bookPath, characterID string) error {
	ctx, span := tracer.Start(ctx, "markdown.CharacterRepository.Delete")
	defer span.End()

	filePath := r.client.charactersPath(bookPath)
	if err := requireDocument(ctx, r.client.storage, filePath, bookPath); err != nil {
		return err
	}

	header, characters, _ := loadCollection[*entity.Character](ctx, r.client.storage, filePath, "characters")
	kept := characters[:0]
	found := false
	for _, c := range characters {
		if c.CharacterID == characterID {
			found = true
			continue
		}
		kept = append(kept, c)
	}
	if !found {
		return apperrors.ErrCharacterNotFound.WithDetail(characterID)
	}

	err := storeCollection(ctx, r.client.storage, filePath, docTypeCharacters, headerString(header, "book_id"),
		"characters", header, kept, renderCharacters(kept))
	if err != nil {
		span.RecordError(err)
	}
	return err
}
