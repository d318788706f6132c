// Package transfer 实现 JSON/CSV 导入导出与冲突消解
package transfer

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"storyvault-api/internal/domain/entity"
	"storyvault-api/internal/domain/repository"
	apperrors "storyvault-api/pkg/errors"
	"storyvault-api/pkg/metrics"
	"storyvault-api/pkg/tracer"
)

// multiValueSeparator CSV 单元格内多值字段的连接符
const multiValueSeparator = ";"

// Snapshot 全量 JSON 导出结构
type Snapshot struct {
	ExportedAt time.Time                `json:"exported_at"`
	Book       *entity.BookMeta         `json:"book,omitempty"`
	Chapters   []repository.ChapterFile `json:"chapters"`
	Characters []*entity.Character      `json:"characters"`
	StoryUnits []*entity.StoryUnit      `json:"story_units"`
	Events     []*entity.StoryEvent     `json:"events"`
}

// ExportJSON 导出整本书的全量 JSON 快照
func (s *Service) ExportJSON(ctx context.Context, bookPath string) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "application.TransferService.ExportJSON")
	defer span.End()

	meta, err := s.books.GetMeta(ctx, bookPath)
	if err != nil {
		return nil, err
	}
	chapters, err := s.chapters.Scan(ctx, bookPath)
	if err != nil {
		return nil, err
	}
	characters, err := s.characters.List(ctx, bookPath)
	if err != nil {
		return nil, err
	}
	units, err := s.units.List(ctx, bookPath)
	if err != nil {
		return nil, err
	}
	events, err := s.events.List(ctx, bookPath)
	if err != nil {
		return nil, err
	}

	snapshot := Snapshot{
		ExportedAt: time.Now(),
		Book:       meta,
		Chapters:   chapters,
		Characters: characters,
		StoryUnits: units,
		Events:     events,
	}
	encoded, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	metrics.ExportsTotal.WithLabelValues("json").Inc()
	return encoded, nil
}

// ExportCSV 按集合导出 CSV，多值字段以分号连接
func (s *Service) ExportCSV(ctx context.Context, bookPath, collection string) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "application.TransferService.ExportCSV")
	defer span.End()

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	switch collection {
	case "characters":
		characters, err := s.characters.List(ctx, bookPath)
		if err != nil {
			return nil, err
		}
		if err := writeCharactersCSV(w, characters); err != nil {
			return nil, err
		}
	case "story_units":
		units, err := s.units.List(ctx, bookPath)
		if err != nil {
			return nil, err
		}
		if err := writeStoryUnitsCSV(w, units); err != nil {
			return nil, err
		}
	case "events":
		events, err := s.events.List(ctx, bookPath)
		if err != nil {
			return nil, err
		}
		if err := writeEventsCSV(w, events); err != nil {
			return nil, err
		}
	default:
		return nil, apperrors.ErrInvalidParam.WithDetail(fmt.Sprintf("unknown collection %q", collection))
	}

	w.Flush()
	if err := w.Error(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to write csv: %w", err)
	}
	metrics.ExportsTotal.WithLabelValues("csv").Inc()
	return buf.Bytes(), nil
}

func writeCharactersCSV(w *csv.Writer, characters []*entity.Character) error {
	if err := w.Write([]string{
		"character_id", "name", "aliases", "role", "tags", "description",
		"first_appearance_chapter", "appearance_chapters", "source",
	}); err != nil {
		return err
	}
	for _, c := range characters {
		if err := w.Write([]string{
			c.CharacterID,
			c.Name,
			strings.Join(c.Aliases, multiValueSeparator),
			string(c.Role),
			strings.Join(c.Tags, multiValueSeparator),
			c.Description,
			strconv.Itoa(c.FirstAppearanceChapter),
			joinIntValues(c.AppearanceChapters),
			string(c.Source),
		}); err != nil {
			return err
		}
	}
	return nil
}

func writeStoryUnitsCSV(w *csv.Writer, units []*entity.StoryUnit) error {
	if err := w.Write([]string{
		"unit_id", "name", "chapter_start", "chapter_end", "story_line",
		"related_characters", "text_content", "text_file_path",
	}); err != nil {
		return err
	}
	for _, u := range units {
		if err := w.Write([]string{
			u.UnitID,
			u.Name,
			strconv.Itoa(u.ChapterRange.Start),
			strconv.Itoa(u.ChapterRange.End),
			string(u.StoryLine),
			strings.Join(u.RelatedCharacters, multiValueSeparator),
			u.TextContent,
			u.TextFilePath,
		}); err != nil {
			return err
		}
	}
	return nil
}

func writeEventsCSV(w *csv.Writer, events []*entity.StoryEvent) error {
	if err := w.Write([]string{
		"event_id", "name", "description", "order", "duration", "layer",
		"chapter_start", "chapter_end", "story_unit_id",
	}); err != nil {
		return err
	}
	for _, e := range events {
		if err := w.Write([]string{
			e.EventID,
			e.Name,
			e.Description,
			strconv.Itoa(e.Order),
			strconv.Itoa(e.Duration),
			strconv.Itoa(e.Layer),
			strconv.Itoa(e.ChapterRange.Start),
			strconv.Itoa(e.ChapterRange.End),
			e.StoryUnitID,
		}); err != nil {
			return err
		}
	}
	return nil
}

func joinIntValues(nums []int) string {
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, multiValueSeparator)
}
