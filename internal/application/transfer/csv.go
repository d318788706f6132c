// Package transfer 实现 JSON/CSV 导入导出与冲突消解
package transfer

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"storyvault-api/internal/domain/entity"
	apperrors "storyvault-api/pkg/errors"
	"storyvault-api/pkg/tracer"
)

// ImportCharactersCSV 从 CSV 导入角色，首行为列头
func (s *Service) ImportCharactersCSV(ctx context.Context, bookPath string, payload []byte, opts Options) (*Result, error) {
	ctx, span := tracer.Start(ctx, "application.TransferService.ImportCharactersCSV")
	defer span.End()

	rows, header, err := readCSV(payload)
	if err != nil {
		return nil, err
	}

	known := map[string]bool{
		"character_id": true, "name": true, "aliases": true, "role": true,
		"tags": true, "description": true, "first_appearance_chapter": true,
		"appearance_chapters": true, "source": true,
	}
	records := make([]*entity.Character, 0, len(rows))
	for _, row := range rows {
		c := &entity.Character{
			Name:                   row.get(header, "name"),
			Aliases:                splitMulti(row.get(header, "aliases")),
			Role:                   entity.CharacterRole(row.get(header, "role")),
			Tags:                   splitMulti(row.get(header, "tags")),
			Description:            row.get(header, "description"),
			FirstAppearanceChapter: parseIntField(row.get(header, "first_appearance_chapter")),
			AppearanceChapters:     splitIntMulti(row.get(header, "appearance_chapters")),
			Source:                 entity.DataSource(row.get(header, "source")),
		}
		records = append(records, c)
	}

	result, err := s.ImportCharacters(ctx, bookPath, records, opts)
	if err != nil {
		return nil, err
	}
	reportUnknownColumns(result, header, known, opts)
	return result, nil
}

// ImportStoryUnitsCSV 从 CSV 导入故事单元，首行为列头
func (s *Service) ImportStoryUnitsCSV(ctx context.Context, bookPath string, payload []byte, opts Options) (*Result, error) {
	ctx, span := tracer.Start(ctx, "application.TransferService.ImportStoryUnitsCSV")
	defer span.End()

	rows, header, err := readCSV(payload)
	if err != nil {
		return nil, err
	}

	known := map[string]bool{
		"unit_id": true, "name": true, "chapter_start": true, "chapter_end": true,
		"story_line": true, "related_characters": true, "text_content": true,
		"text_file_path": true,
	}
	records := make([]*entity.StoryUnit, 0, len(rows))
	for _, row := range rows {
		u := &entity.StoryUnit{
			Name: row.get(header, "name"),
			ChapterRange: entity.ChapterRange{
				Start: parseIntField(row.get(header, "chapter_start")),
				End:   parseIntField(row.get(header, "chapter_end")),
			},
			StoryLine:         entity.StoryLine(row.get(header, "story_line")),
			RelatedCharacters: splitMulti(row.get(header, "related_characters")),
			TextContent:       row.get(header, "text_content"),
		}
		records = append(records, u)
	}

	result, err := s.ImportStoryUnits(ctx, bookPath, records, opts)
	if err != nil {
		return nil, err
	}
	reportUnknownColumns(result, header, known, opts)
	return result, nil
}

// ImportEventsCSV 从 CSV 导入事件，首行为列头
func (s *Service) ImportEventsCSV(ctx context.Context, bookPath string, payload []byte, opts Options) (*Result, error) {
	ctx, span := tracer.Start(ctx, "application.TransferService.ImportEventsCSV")
	defer span.End()

	rows, header, err := readCSV(payload)
	if err != nil {
		return nil, err
	}

	known := map[string]bool{
		"event_id": true, "name": true, "description": true, "order": true,
		"duration": true, "layer": true, "chapter_start": true,
		"chapter_end": true, "story_unit_id": true,
	}
	records := make([]*entity.StoryEvent, 0, len(rows))
	for _, row := range rows {
		e := &entity.StoryEvent{
			Name:        row.get(header, "name"),
			Description: row.get(header, "description"),
			Order:       parseIntField(row.get(header, "order")),
			Duration:    parseIntField(row.get(header, "duration")),
			Layer:       parseIntField(row.get(header, "layer")),
			ChapterRange: entity.ChapterRange{
				Start: parseIntField(row.get(header, "chapter_start")),
				End:   parseIntField(row.get(header, "chapter_end")),
			},
			StoryUnitID: row.get(header, "story_unit_id"),
		}
		records = append(records, e)
	}

	result, err := s.ImportEvents(ctx, bookPath, records, opts)
	if err != nil {
		return nil, err
	}
	reportUnknownColumns(result, header, known, opts)
	return result, nil
}

type csvRow []string

// get 按列名取单元格，列缺失返回空串
func (r csvRow) get(header map[string]int, column string) string {
	idx, ok := header[column]
	if !ok || idx >= len(r) {
		return ""
	}
	return strings.TrimSpace(r[idx])
}

// readCSV 解析 CSV 负载，返回数据行与列名索引
func readCSV(payload []byte) ([]csvRow, map[string]int, error) {
	reader := csv.NewReader(bytes.NewReader(payload))
	reader.FieldsPerRecord = -1

	headerRow, err := reader.Read()
	if err != nil {
		return nil, nil, apperrors.ErrParseFailed.WithDetail("missing csv header row").WithError(err)
	}
	header := make(map[string]int, len(headerRow))
	for i, name := range headerRow {
		header[strings.TrimSpace(name)] = i
	}

	var rows []csvRow
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, apperrors.ErrParseFailed.WithDetail(err.Error()).WithError(err)
		}
		rows = append(rows, csvRow(row))
	}
	return rows, header, nil
}

// reportUnknownColumns 对照已知列集合检查列头
// autoCreateFields 开启时未知列被静默忽略，关闭时记入错误列表
func reportUnknownColumns(result *Result, header map[string]int, known map[string]bool, opts Options) {
	if opts.AutoCreateFields {
		return
	}
	for name := range header {
		if !known[name] {
			result.Errors = append(result.Errors, fmt.Sprintf("unknown column %q", name))
			result.Success = false
		}
	}
}

func splitMulti(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, multiValueSeparator)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func splitIntMulti(s string) []int {
	var out []int
	for _, p := range splitMulti(s) {
		if n, err := strconv.Atoi(p); err == nil {
			out = append(out, n)
		}
	}
	return out
}

func parseIntField(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
