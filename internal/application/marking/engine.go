// Package marking 实现精确标记引擎
//
// 状态机：未配对(pending) -> 已配对(paired)，配对只发生在 CreateEndMark。
// 未配对标记没有超时回收，只能显式删除。
package marking

import (
	"context"
	"fmt"
	"strings"

	"storyvault-api/internal/domain/entity"
	"storyvault-api/internal/domain/repository"
	apperrors "storyvault-api/pkg/errors"
	"storyvault-api/pkg/metrics"
	"storyvault-api/pkg/tracer"
)

// chapterSeparator 跨章节拼接时的固定分隔线
const chapterSeparator = "\n\n---\n\n"

// Engine 精确标记引擎
type Engine struct {
	books    repository.BookRepository
	marks    repository.MarkRepository
	chapters repository.ChapterRepository
	units    repository.StoryUnitRepository
}

// NewEngine 创建标记引擎
func NewEngine(
	books repository.BookRepository,
	marks repository.MarkRepository,
	chapters repository.ChapterRepository,
	units repository.StoryUnitRepository,
) *Engine {
	return &Engine{
		books:    books,
		marks:    marks,
		chapters: chapters,
		units:    units,
	}
}

// ConvertOptions 标记晋升为故事单元时的可选属性
type ConvertOptions struct {
	StoryLine         entity.StoryLine
	RelatedCharacters []string
}

// CreateStartMark 创建未配对的起始标记
func (e *Engine) CreateStartMark(ctx context.Context, bookPath string, pos entity.PrecisePosition, name string) (*entity.Mark, error) {
	ctx, span := tracer.Start(ctx, "application.MarkingEngine.CreateStartMark")
	defer span.End()

	if err := validatePosition(pos); err != nil {
		metrics.MarksTotal.WithLabelValues("create_start", "invalid").Inc()
		return nil, err
	}

	meta, err := e.books.GetMeta(ctx, bookPath)
	if err != nil {
		return nil, err
	}
	if meta == nil {
		return nil, apperrors.ErrNotInitialized.WithDetail(bookPath)
	}

	file, err := e.marks.Load(ctx, bookPath)
	if err != nil {
		return nil, err
	}
	if file.BookID == "" {
		file.BookID = meta.BookID
	}

	mark := entity.NewStartMark(meta.BookID, pos, name)
	file.UnpairedMarks = append(file.UnpairedMarks, mark)

	if err := e.marks.Save(ctx, bookPath, file); err != nil {
		span.RecordError(err)
		metrics.MarksTotal.WithLabelValues("create_start", "error").Inc()
		return nil, err
	}
	metrics.MarksTotal.WithLabelValues("create_start", "ok").Inc()
	return mark, nil
}

// CreateEndMark 用结束位置完成配对
// 结束位置必须不早于起始位置，否则报 ValidationFailed 且标记保持未配对
func (e *Engine) CreateEndMark(ctx context.Context, bookPath, startMarkID string, pos entity.PrecisePosition) (*entity.Mark, error) {
	ctx, span := tracer.Start(ctx, "application.MarkingEngine.CreateEndMark")
	defer span.End()

	if err := validatePosition(pos); err != nil {
		metrics.MarksTotal.WithLabelValues("create_end", "invalid").Inc()
		return nil, err
	}

	file, err := e.marks.Load(ctx, bookPath)
	if err != nil {
		return nil, err
	}

	idx := file.FindUnpaired(startMarkID)
	if idx == -1 {
		metrics.MarksTotal.WithLabelValues("create_end", "not_found").Inc()
		return nil, apperrors.ErrMarkNotFound.WithDetail(startMarkID)
	}

	mark := file.UnpairedMarks[idx]
	if pos.Before(*mark.Position) {
		metrics.MarksTotal.WithLabelValues("create_end", "invalid").Inc()
		return nil, apperrors.ErrValidationFailed.WithDetail("end position precedes start position")
	}

	mark.Pair(pos)
	file.UnpairedMarks = append(file.UnpairedMarks[:idx], file.UnpairedMarks[idx+1:]...)
	file.Marks = append(file.Marks, mark)

	if err := e.marks.Save(ctx, bookPath, file); err != nil {
		span.RecordError(err)
		metrics.MarksTotal.WithLabelValues("create_end", "error").Inc()
		return nil, err
	}
	metrics.MarksTotal.WithLabelValues("create_end", "ok").Inc()
	return mark, nil
}

// ListMarks 读取标记文档（含已配对与未配对两组）
func (e *Engine) ListMarks(ctx context.Context, bookPath string) (*entity.MarkFile, error) {
	ctx, span := tracer.Start(ctx, "application.MarkingEngine.ListMarks")
	defer span.End()

	return e.marks.Load(ctx, bookPath)
}

// DeleteMark 删除标记，两个集合都找不到时报 NotFound
func (e *Engine) DeleteMark(ctx context.Context, bookPath, markID string) error {
	ctx, span := tracer.Start(ctx, "application.MarkingEngine.DeleteMark")
	defer span.End()

	file, err := e.marks.Load(ctx, bookPath)
	if err != nil {
		return err
	}

	if idx := file.FindUnpaired(markID); idx != -1 {
		file.UnpairedMarks = append(file.UnpairedMarks[:idx], file.UnpairedMarks[idx+1:]...)
	} else if idx := file.FindPaired(markID); idx != -1 {
		file.Marks = append(file.Marks[:idx], file.Marks[idx+1:]...)
	} else {
		metrics.MarksTotal.WithLabelValues("delete", "not_found").Inc()
		return apperrors.ErrMarkNotFound.WithDetail(markID)
	}

	if err := e.marks.Save(ctx, bookPath, file); err != nil {
		span.RecordError(err)
		metrics.MarksTotal.WithLabelValues("delete", "error").Inc()
		return err
	}
	metrics.MarksTotal.WithLabelValues("delete", "ok").Inc()
	return nil
}

// ExtractTextFromRange 把精确范围解析为文本
// 首章从起始位置切到章尾（单章时切到结束位置），尾章从章首切到结束位置，
// 中间章节整章收录；跨章节时每章带生成的标题行，章间以固定分隔线连接
func (e *Engine) ExtractTextFromRange(ctx context.Context, bookPath string, rng entity.PreciseRange) (string, error) {
	ctx, span := tracer.Start(ctx, "application.MarkingEngine.ExtractTextFromRange")
	defer span.End()

	if !rng.IsValid() {
		return "", apperrors.ErrValidationFailed.WithDetail("end position precedes start position")
	}

	chapters, err := e.chapters.Scan(ctx, bookPath)
	if err != nil {
		span.RecordError(err)
		return "", err
	}

	multi := !rng.SingleChapter()
	sections := make([]string, 0, rng.ChapterSpan())
	for idx := rng.Start.ChapterIndex; idx <= rng.End.ChapterIndex; idx++ {
		// 索引指向已不存在的章节时退化为空段，分隔线数量保持与章节跨度一致
		if idx < 0 || idx >= len(chapters) {
			sections = append(sections, "")
			continue
		}

		body, title, err := e.chapters.GetBody(ctx, bookPath, idx)
		if err != nil {
			span.RecordError(err)
			return "", err
		}

		var text string
		switch {
		case idx == rng.Start.ChapterIndex && idx == rng.End.ChapterIndex:
			text = sliceBetween(body, rng.Start, rng.End)
		case idx == rng.Start.ChapterIndex:
			text = sliceFrom(body, rng.Start)
		case idx == rng.End.ChapterIndex:
			text = sliceTo(body, rng.End)
		default:
			text = body
		}

		if multi {
			text = fmt.Sprintf("## 第%d章 %s\n\n%s", chapters[idx].Number, title, text)
		}
		sections = append(sections, text)
	}
	return strings.Join(sections, chapterSeparator), nil
}

// ExtractMarkedText 解析已配对标记对应的文本
func (e *Engine) ExtractMarkedText(ctx context.Context, bookPath, markID string) (string, error) {
	ctx, span := tracer.Start(ctx, "application.MarkingEngine.ExtractMarkedText")
	defer span.End()

	file, err := e.marks.Load(ctx, bookPath)
	if err != nil {
		return "", err
	}
	idx := file.FindPaired(markID)
	if idx == -1 {
		return "", apperrors.ErrMarkNotFound.WithDetail(markID)
	}
	return e.ExtractTextFromRange(ctx, bookPath, *file.Marks[idx].Range)
}

// ConvertToStoryUnit 把已配对标记晋升为故事单元
// 章节范围由 0 基章节索引换算为 1 基，新单元 ID 回写到标记上
func (e *Engine) ConvertToStoryUnit(ctx context.Context, bookPath, markID, name string, opts *ConvertOptions) (*entity.StoryUnit, error) {
	ctx, span := tracer.Start(ctx, "application.MarkingEngine.ConvertToStoryUnit")
	defer span.End()

	file, err := e.marks.Load(ctx, bookPath)
	if err != nil {
		return nil, err
	}
	idx := file.FindPaired(markID)
	if idx == -1 {
		metrics.MarksTotal.WithLabelValues("convert", "not_found").Inc()
		return nil, apperrors.ErrMarkNotFound.WithDetail(markID)
	}
	mark := file.Marks[idx]

	text, err := e.ExtractTextFromRange(ctx, bookPath, *mark.Range)
	if err != nil {
		return nil, err
	}

	unit := entity.NewStoryUnit(mark.BookID, name, entity.ChapterRange{
		Start: mark.Range.Start.ChapterIndex + 1,
		End:   mark.Range.End.ChapterIndex + 1,
	})
	unit.PreciseRange = mark.Range
	unit.TextContent = text
	if opts != nil {
		if opts.StoryLine != "" {
			unit.StoryLine = opts.StoryLine
		}
		if len(opts.RelatedCharacters) > 0 {
			unit.RelatedCharacters = opts.RelatedCharacters
		}
	}

	if err := e.units.Add(ctx, bookPath, unit); err != nil {
		span.RecordError(err)
		metrics.MarksTotal.WithLabelValues("convert", "error").Inc()
		return nil, err
	}

	mark.StoryUnitID = unit.UnitID
	if err := e.marks.Save(ctx, bookPath, file); err != nil {
		span.RecordError(err)
		metrics.MarksTotal.WithLabelValues("convert", "error").Inc()
		return nil, err
	}
	metrics.MarksTotal.WithLabelValues("convert", "ok").Inc()
	return unit, nil
}

// validatePosition 位置字段的基本合法性检查
func validatePosition(pos entity.PrecisePosition) error {
	if pos.ChapterIndex < 0 {
		return apperrors.ErrValidationFailed.WithDetail("chapter index must be >= 0")
	}
	if pos.LineNumber < 1 {
		return apperrors.ErrValidationFailed.WithDetail("line number must be >= 1")
	}
	if pos.CharacterOffset < 0 {
		return apperrors.ErrValidationFailed.WithDetail("character offset must be >= 0")
	}
	return nil
}

// 切片辅助：行号越界或偏移超过行长时收紧到边界，绝不 panic

// sliceFrom 从起始位置切到正文末尾
func sliceFrom(body string, start entity.PrecisePosition) string {
	lines := strings.Split(body, "\n")
	idx := clamp(start.LineNumber-1, 0, len(lines))
	if idx == len(lines) {
		return ""
	}
	lines = lines[idx:]
	lines[0] = sliceLineFrom(lines[0], start.CharacterOffset)
	return strings.Join(lines, "\n")
}

// sliceTo 从正文开头切到结束位置（偏移为开区间上界）
func sliceTo(body string, end entity.PrecisePosition) string {
	lines := strings.Split(body, "\n")
	idx := clamp(end.LineNumber-1, 0, len(lines)-1)
	lines = lines[:idx+1]
	lines[len(lines)-1] = sliceLineTo(lines[len(lines)-1], end.CharacterOffset)
	return strings.Join(lines, "\n")
}

// sliceBetween 单章范围：起止都落在同一份正文里
func sliceBetween(body string, start, end entity.PrecisePosition) string {
	lines := strings.Split(body, "\n")
	from := clamp(start.LineNumber-1, 0, len(lines))
	if from == len(lines) {
		return ""
	}
	to := clamp(end.LineNumber-1, from, len(lines)-1)
	lines = lines[from : to+1]
	if len(lines) == 1 {
		line := sliceLineTo(lines[0], end.CharacterOffset)
		return sliceLineFrom(line, start.CharacterOffset)
	}
	lines[0] = sliceLineFrom(lines[0], start.CharacterOffset)
	lines[len(lines)-1] = sliceLineTo(lines[len(lines)-1], end.CharacterOffset)
	return strings.Join(lines, "\n")
}

func sliceLineFrom(line string, offset int) string {
	runes := []rune(line)
	return string(runes[clamp(offset, 0, len(runes)):])
}

func sliceLineTo(line string, offset int) string {
	runes := []rune(line)
	return string(runes[:clamp(offset, 0, len(runes))])
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
