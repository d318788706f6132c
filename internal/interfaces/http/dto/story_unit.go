// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"storyvault-api/internal/domain/entity"
	"storyvault-api/internal/domain/repository"
)

// CreateStoryUnitRequest 创建故事单元请求
type CreateStoryUnitRequest struct {
	Name              string               `json:"name" binding:"required"`
	ChapterRange      entity.ChapterRange  `json:"chapter_range" binding:"required"`
	PreciseRange      *entity.PreciseRange `json:"precise_range"`
	StoryLine         string               `json:"story_line"`
	RelatedCharacters []string             `json:"related_characters"`
	TextContent       string               `json:"text_content"`
	AnalysisTemplate  string               `json:"analysis_template"`
}

// ToEntity 转换为故事单元实体，ID 由仓储生成
func (r *CreateStoryUnitRequest) ToEntity() *entity.StoryUnit {
	u := entity.NewStoryUnit("", r.Name, r.ChapterRange)
	u.UnitID = ""
	u.PreciseRange = r.PreciseRange
	if r.StoryLine != "" {
		u.StoryLine = entity.StoryLine(r.StoryLine)
	}
	if r.RelatedCharacters != nil {
		u.RelatedCharacters = r.RelatedCharacters
	}
	u.TextContent = r.TextContent
	u.AnalysisTemplate = r.AnalysisTemplate
	return u
}

// UpdateStoryUnitRequest 更新故事单元请求，空字段不变更
type UpdateStoryUnitRequest struct {
	Name              *string              `json:"name"`
	ChapterRange      *entity.ChapterRange `json:"chapter_range"`
	PreciseRange      *entity.PreciseRange `json:"precise_range"`
	StoryLine         *string              `json:"story_line"`
	RelatedCharacters []string             `json:"related_characters"`
	TextContent       *string              `json:"text_content"`
	AnalysisTemplate  *string              `json:"analysis_template"`
	AIAnalysis        *string              `json:"ai_analysis"`
}

// ToPatch 转换为仓储补丁
func (r *UpdateStoryUnitRequest) ToPatch() *repository.StoryUnitPatch {
	patch := &repository.StoryUnitPatch{
		Name:              r.Name,
		ChapterRange:      r.ChapterRange,
		PreciseRange:      r.PreciseRange,
		RelatedCharacters: r.RelatedCharacters,
		TextContent:       r.TextContent,
		AnalysisTemplate:  r.AnalysisTemplate,
		AIAnalysis:        r.AIAnalysis,
	}
	if r.StoryLine != nil {
		line := entity.StoryLine(*r.StoryLine)
		patch.StoryLine = &line
	}
	return patch
}

// StoryUnitTextResponse 故事单元全文响应
type StoryUnitTextResponse struct {
	UnitID      string `json:"unit_id"`
	TextContent string `json:"text_content"`
}
