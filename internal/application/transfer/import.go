// Package transfer 实现 JSON/CSV 导入导出与冲突消解
package transfer

import (
	"context"
	"encoding/json"

	"storyvault-api/internal/domain/entity"
	"storyvault-api/internal/domain/repository"
	apperrors "storyvault-api/pkg/errors"
	"storyvault-api/pkg/metrics"
	"storyvault-api/pkg/tracer"
)

// Service 导入导出服务
type Service struct {
	books      repository.BookRepository
	characters repository.CharacterRepository
	units      repository.StoryUnitRepository
	events     repository.EventRepository
	chapters   repository.ChapterRepository
}

// NewService 创建导入导出服务
func NewService(
	books repository.BookRepository,
	characters repository.CharacterRepository,
	units repository.StoryUnitRepository,
	events repository.EventRepository,
	chapters repository.ChapterRepository,
) *Service {
	return &Service{
		books:      books,
		characters: characters,
		units:      units,
		events:     events,
		chapters:   chapters,
	}
}

// ImportCharactersJSON 从 JSON 数组导入角色
func (s *Service) ImportCharactersJSON(ctx context.Context, bookPath string, payload []byte, opts Options) (*Result, error) {
	records, err := decodeRecords[entity.Character](payload)
	if err != nil {
		return nil, err
	}
	return s.ImportCharacters(ctx, bookPath, records, opts)
}

// ImportStoryUnitsJSON 从 JSON 数组导入故事单元
func (s *Service) ImportStoryUnitsJSON(ctx context.Context, bookPath string, payload []byte, opts Options) (*Result, error) {
	records, err := decodeRecords[entity.StoryUnit](payload)
	if err != nil {
		return nil, err
	}
	return s.ImportStoryUnits(ctx, bookPath, records, opts)
}

// ImportEventsJSON 从 JSON 数组导入事件
func (s *Service) ImportEventsJSON(ctx context.Context, bookPath string, payload []byte, opts Options) (*Result, error) {
	records, err := decodeRecords[entity.StoryEvent](payload)
	if err != nil {
		return nil, err
	}
	return s.ImportEvents(ctx, bookPath, records, opts)
}

// ImportCharacters 按显示名匹配导入角色
// skip 不动已有记录；overwrite/merge 覆盖字段但保留 id 和 createdAt；
// 无匹配则新建。单条失败只累积错误，批次继续
func (s *Service) ImportCharacters(ctx context.Context, bookPath string, records []*entity.Character, opts Options) (*Result, error) {
	ctx, span := tracer.Start(ctx, "application.TransferService.ImportCharacters")
	defer span.End()

	if err := opts.normalize(); err != nil {
		return nil, err
	}
	existing, err := s.characters.List(ctx, bookPath)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]*entity.Character, len(existing))
	for _, c := range existing {
		byName[c.Name] = c
	}

	result := newResult()
	for i, incoming := range records {
		if incoming.Name == "" {
			result.recordError(i, "missing required field: name")
			metrics.ImportRecordsTotal.WithLabelValues("characters", "error").Inc()
			continue
		}

		current, found := byName[incoming.Name]
		switch {
		case found && !opts.Strategy.replaces():
			result.SkippedCount++
			metrics.ImportRecordsTotal.WithLabelValues("characters", "skipped").Inc()

		case found:
			patch := &repository.CharacterPatch{
				Aliases:            incoming.Aliases,
				Tags:               incoming.Tags,
				Relationships:      incoming.Relationships,
				AppearanceChapters: incoming.AppearanceChapters,
			}
			if incoming.Role != "" {
				patch.Role = &incoming.Role
			}
			if incoming.Description != "" {
				patch.Description = &incoming.Description
			}
			if incoming.AIDescription != "" {
				patch.AIDescription = &incoming.AIDescription
			}
			if incoming.FirstAppearanceChapter > 0 {
				patch.FirstAppearanceChapter = &incoming.FirstAppearanceChapter
			}
			if incoming.Source != "" {
				patch.Source = &incoming.Source
			}
			if _, err := s.characters.Update(ctx, bookPath, current.CharacterID, patch); err != nil {
				result.recordError(i, err.Error())
				metrics.ImportRecordsTotal.WithLabelValues("characters", "error").Inc()
				continue
			}
			result.ImportedCount++
			metrics.ImportRecordsTotal.WithLabelValues("characters", "updated").Inc()

		default:
			created := *incoming
			created.CharacterID = ""
			if err := s.characters.Add(ctx, bookPath, &created); err != nil {
				result.recordError(i, err.Error())
				metrics.ImportRecordsTotal.WithLabelValues("characters", "error").Inc()
				continue
			}
			byName[created.Name] = &created
			result.ImportedCount++
			metrics.ImportRecordsTotal.WithLabelValues("characters", "created").Inc()
		}
	}

	result.Success = len(result.Errors) == 0
	return result, nil
}

// ImportStoryUnits 按显示名匹配导入故事单元
func (s *Service) ImportStoryUnits(ctx context.Context, bookPath string, records []*entity.StoryUnit, opts Options) (*Result, error) {
	ctx, span := tracer.Start(ctx, "application.TransferService.ImportStoryUnits")
	defer span.End()

	if err := opts.normalize(); err != nil {
		return nil, err
	}
	existing, err := s.units.List(ctx, bookPath)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]*entity.StoryUnit, len(existing))
	for _, u := range existing {
		byName[u.Name] = u
	}

	result := newResult()
	for i, incoming := range records {
		if incoming.Name == "" {
			result.recordError(i, "missing required field: name")
			metrics.ImportRecordsTotal.WithLabelValues("story_units", "error").Inc()
			continue
		}
		if !incoming.ChapterRange.IsValid() {
			result.recordError(i, "invalid chapter range")
			metrics.ImportRecordsTotal.WithLabelValues("story_units", "error").Inc()
			continue
		}

		current, found := byName[incoming.Name]
		switch {
		case found && !opts.Strategy.replaces():
			result.SkippedCount++
			metrics.ImportRecordsTotal.WithLabelValues("story_units", "skipped").Inc()

		case found:
			patch := &repository.StoryUnitPatch{
				ChapterRange:      &incoming.ChapterRange,
				PreciseRange:      incoming.PreciseRange,
				RelatedCharacters: incoming.RelatedCharacters,
			}
			if incoming.StoryLine != "" {
				patch.StoryLine = &incoming.StoryLine
			}
			if incoming.TextContent != "" {
				patch.TextContent = &incoming.TextContent
			}
			if incoming.AnalysisTemplate != "" {
				patch.AnalysisTemplate = &incoming.AnalysisTemplate
			}
			if incoming.AIAnalysis != "" {
				patch.AIAnalysis = &incoming.AIAnalysis
			}
			if _, err := s.units.Update(ctx, bookPath, current.UnitID, patch); err != nil {
				result.recordError(i, err.Error())
				metrics.ImportRecordsTotal.WithLabelValues("story_units", "error").Inc()
				continue
			}
			result.ImportedCount++
			metrics.ImportRecordsTotal.WithLabelValues("story_units", "updated").Inc()

		default:
			created := *incoming
			created.UnitID = ""
			created.TextFilePath = ""
			if err := s.units.Add(ctx, bookPath, &created); err != nil {
				result.recordError(i, err.Error())
				metrics.ImportRecordsTotal.WithLabelValues("story_units", "error").Inc()
				continue
			}
			byName[created.Name] = &created
			result.ImportedCount++
			metrics.ImportRecordsTotal.WithLabelValues("story_units", "created").Inc()
		}
	}

	result.Success = len(result.Errors) == 0
	return result, nil
}

// ImportEvents 按显示名匹配导入事件
func (s *Service) ImportEvents(ctx context.Context, bookPath string, records []*entity.StoryEvent, opts Options) (*Result, error) {
	ctx, span := tracer.Start(ctx, "application.TransferService.ImportEvents")
	defer span.End()

	if err := opts.normalize(); err != nil {
		return nil, err
	}
	existing, err := s.events.List(ctx, bookPath)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]*entity.StoryEvent, len(existing))
	for _, e := range existing {
		byName[e.Name] = e
	}

	result := newResult()
	for i, incoming := range records {
		if incoming.Name == "" {
			result.recordError(i, "missing required field: name")
			metrics.ImportRecordsTotal.WithLabelValues("events", "error").Inc()
			continue
		}
		if !incoming.ChapterRange.IsValid() {
			result.recordError(i, "invalid chapter range")
			metrics.ImportRecordsTotal.WithLabelValues("events", "error").Inc()
			continue
		}

		current, found := byName[incoming.Name]
		switch {
		case found && !opts.Strategy.replaces():
			result.SkippedCount++
			metrics.ImportRecordsTotal.WithLabelValues("events", "skipped").Inc()

		case found:
			patch := &repository.EventPatch{
				Order:        &incoming.Order,
				ChapterRange: &incoming.ChapterRange,
			}
			if incoming.Description != "" {
				patch.Description = &incoming.Description
			}
			if incoming.StoryUnitID != "" {
				patch.StoryUnitID = &incoming.StoryUnitID
			}
			if incoming.Duration > 0 {
				patch.Duration = &incoming.Duration
			}
			if incoming.Layer > 0 {
				patch.Layer = &incoming.Layer
			}
			if _, err := s.events.Update(ctx, bookPath, current.EventID, patch); err != nil {
				result.recordError(i, err.Error())
				metrics.ImportRecordsTotal.WithLabelValues("events", "error").Inc()
				continue
			}
			result.ImportedCount++
			metrics.ImportRecordsTotal.WithLabelValues("events", "updated").Inc()

		default:
			created := *incoming
			created.EventID = ""
			if err := s.events.Add(ctx, bookPath, &created); err != nil {
				result.recordError(i, err.Error())
				metrics.ImportRecordsTotal.WithLabelValues("events", "error").Inc()
				continue
			}
			byName[created.Name] = &created
			result.ImportedCount++
			metrics.ImportRecordsTotal.WithLabelValues("events", "created").Inc()
		}
	}

	result.Success = len(result.Errors) == 0
	return result, nil
}

// decodeRecords 反序列化导入负载，负载必须是 JSON 数组
func decodeRecords[T any](payload []byte) ([]*T, error) {
	var records []*T
	if err := json.Unmarshal(payload, &records); err != nil {
		return nil, apperrors.ErrParseFailed.WithDetail(err.Error()).WithError(err)
	}
	return records, nil
}
