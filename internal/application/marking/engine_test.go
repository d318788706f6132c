package marking

import (
	"context"
	"strings"
	"testing"

	"github.com/spf13/afero"

	"storyvault-api/internal/domain/entity"
	"storyvault-api/internal/domain/repository"
	"storyvault-api/internal/infrastructure/persistence/markdown"
	"storyvault-api/internal/infrastructure/storage"
	apperrors "storyvault-api/pkg/errors"
)

const testBook = "books/engine"

// newTestEngine 在内存文件系统上搭一本三章的测试书
func newTestEngine(t *testing.T) (*Engine, *markdown.Client) {
	t.Helper()
	ctx := context.Background()
	st := storage.New(afero.NewMemMapFs())
	client := markdown.NewClient(st, nil)

	books := markdown.NewBookRepository(client)
	if _, err := books.Initialize(ctx, testBook, repository.InitializeBookInput{Title: "Test"}); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	chapters := map[string]string{
		"1-凤头.md": "line1\nline2\nline3\nline4\n0123456789ABCDEFG\nline6",
		"2-猪肚.md": "中章全文",
		"3-豹尾.md": "尾章首行\n尾章次行",
	}
	for name, body := range chapters {
		if err := st.Write(ctx, testBook+"/"+name, body); err != nil {
			t.Fatalf("write chapter: %v", err)
		}
	}

	engine := NewEngine(
		books,
		markdown.NewMarkRepository(client),
		markdown.NewChapterRepository(client),
		markdown.NewStoryUnitRepository(client),
	)
	return engine, client
}

func TestMarkPairingFlow(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	start, err := engine.CreateStartMark(ctx, testBook, entity.PrecisePosition{ChapterIndex: 0, LineNumber: 5, CharacterOffset: 10}, "高潮段")
	if err != nil {
		t.Fatal(err)
	}
	if start.Status != entity.MarkStatusPending || start.IsPaired {
		t.Fatalf("new mark = %+v", start)
	}

	file, err := engine.ListMarks(ctx, testBook)
	if err != nil {
		t.Fatal(err)
	}
	if len(file.UnpairedMarks) != 1 || len(file.Marks) != 0 {
		t.Fatalf("mark file = %+v", file)
	}

	paired, err := engine.CreateEndMark(ctx, testBook, start.MarkID, entity.PrecisePosition{ChapterIndex: 2, LineNumber: 1, CharacterOffset: 0})
	if err != nil {
		t.Fatal(err)
	}
	if paired.Status != entity.MarkStatusPaired || !paired.IsPaired {
		t.Errorf("paired mark = %+v", paired)
	}
	if paired.Range == nil || paired.Position != nil {
		t.Error("paired mark must carry range, not position")
	}

	// 配对后从未配对组移入已配对组，落盘可重读
	file, err = engine.ListMarks(ctx, testBook)
	if err != nil {
		t.Fatal(err)
	}
	if len(file.UnpairedMarks) != 0 || len(file.Marks) != 1 {
		t.Fatalf("mark file after pairing = %+v", file)
	}
}

func TestCreateEndMarkBeforeStart(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	start, err := engine.CreateStartMark(ctx, testBook, entity.PrecisePosition{ChapterIndex: 1, LineNumber: 1, CharacterOffset: 0}, "")
	if err != nil {
		t.Fatal(err)
	}

	_, err = engine.CreateEndMark(ctx, testBook, start.MarkID, entity.PrecisePosition{ChapterIndex: 0, LineNumber: 9, CharacterOffset: 0})
	if !apperrors.HasCode(err, apperrors.CodeValidationFailed) {
		t.Fatalf("err = %v, want validation failed", err)
	}

	// 校验失败不得改变标记状态
	file, _ := engine.ListMarks(ctx, testBook)
	if len(file.UnpairedMarks) != 1 || len(file.Marks) != 0 {
		t.Errorf("failed pairing mutated mark file: %+v", file)
	}
	if file.UnpairedMarks[0].Status != entity.MarkStatusPending {
		t.Errorf("status = %s, want pending", file.UnpairedMarks[0].Status)
	}
}

func TestCreateEndMarkUnknownID(t *testing.T) {
	engine, _ := newTestEngine(t)
	_, err := engine.CreateEndMark(context.Background(), testBook, "mark_nope", entity.PrecisePosition{ChapterIndex: 0, LineNumber: 1, CharacterOffset: 0})
	if !apperrors.HasCode(err, apperrors.CodeMarkNotFound) {
		t.Errorf("err = %v, want mark not found", err)
	}
}

func TestCreateStartMarkInvalidPosition(t *testing.T) {
	engine, _ := newTestEngine(t)
	for _, pos := range []entity.PrecisePosition{
		{ChapterIndex: -1, LineNumber: 1, CharacterOffset: 0},
		{ChapterIndex: 0, LineNumber: 0, CharacterOffset: 0},
		{ChapterIndex: 0, LineNumber: 1, CharacterOffset: -5},
	} {
		if _, err := engine.CreateStartMark(context.Background(), testBook, pos, ""); !apperrors.HasCode(err, apperrors.CodeValidationFailed) {
			t.Errorf("pos %+v: err = %v, want validation failed", pos, err)
		}
	}
}

func TestCreateStartMarkNotInitialized(t *testing.T) {
	engine, _ := newTestEngine(t)
	_, err := engine.CreateStartMark(context.Background(), "books/other", entity.PrecisePosition{ChapterIndex: 0, LineNumber: 1, CharacterOffset: 0}, "")
	if !apperrors.HasCode(err, apperrors.CodeNotInitialized) {
		t.Errorf("err = %v, want not initialized", err)
	}
}

func TestExtractTextFromRangeSingleChapter(t *testing.T) {
	engine, _ := newTestEngine(t)

	text, err := engine.ExtractTextFromRange(context.Background(), testBook, entity.PreciseRange{
		Start: entity.PrecisePosition{ChapterIndex: 0, LineNumber: 5, CharacterOffset: 10},
		End:   entity.PrecisePosition{ChapterIndex: 0, LineNumber: 5, CharacterOffset: 13},
	})
	if err != nil {
		t.Fatal(err)
	}
	// 单章提取不加标题行，偏移是开区间上界
	if text != "ABC" {
		t.Errorf("text = %q, want %q", text, "ABC")
	}
}

func TestExtractTextFromRangeMultiChapter(t *testing.T) {
	engine, _ := newTestEngine(t)

	rng := entity.PreciseRange{
		Start: entity.PrecisePosition{ChapterIndex: 0, LineNumber: 5, CharacterOffset: 10},
		End:   entity.PrecisePosition{ChapterIndex: 2, LineNumber: 1, CharacterOffset: 4},
	}
	text, err := engine.ExtractTextFromRange(context.Background(), testBook, rng)
	if err != nil {
		t.Fatal(err)
	}

	// 首章从起始位置切到章尾，中间整章，尾章切到结束位置
	for _, want := range []string{
		"## 第1章 凤头\n\nABCDEFG\nline6",
		"## 第2章 猪肚\n\n中章全文",
		"## 第3章 豹尾\n\n尾章首行",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("text missing section %q:\n%s", want, text)
		}
	}
	if strings.Contains(text, "尾章次行") {
		t.Error("text past end position leaked")
	}

	// 分隔线数量等于跨越的章节间隔数
	wantSeps := rng.End.ChapterIndex - rng.Start.ChapterIndex
	if got := strings.Count(text, "\n\n---\n\n"); got != wantSeps {
		t.Errorf("separator count = %d, want %d", got, wantSeps)
	}
}

func TestExtractTextFromRangeInvalid(t *testing.T) {
	engine, _ := newTestEngine(t)
	_, err := engine.ExtractTextFromRange(context.Background(), testBook, entity.PreciseRange{
		Start: entity.PrecisePosition{ChapterIndex: 2, LineNumber: 1, CharacterOffset: 0},
		End:   entity.PrecisePosition{ChapterIndex: 0, LineNumber: 1, CharacterOffset: 0},
	})
	if !apperrors.HasCode(err, apperrors.CodeValidationFailed) {
		t.Errorf("err = %v, want validation failed", err)
	}
}

func TestExtractTextFromRangeBeyondLastChapter(t *testing.T) {
	engine, _ := newTestEngine(t)

	// 结束位置指向已不存在的章节时退化为空段，不报错
	rng := entity.PreciseRange{
		Start: entity.PrecisePosition{ChapterIndex: 0, LineNumber: 1, CharacterOffset: 0},
		End:   entity.PrecisePosition{ChapterIndex: 4, LineNumber: 1, CharacterOffset: 0},
	}
	text, err := engine.ExtractTextFromRange(context.Background(), testBook, rng)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(text, "尾章次行") {
		t.Errorf("text missing last existing chapter:\n%s", text)
	}

	// 分隔线数量仍等于跨越的章节间隔数
	wantSeps := rng.End.ChapterIndex - rng.Start.ChapterIndex
	if got := strings.Count(text, "\n\n---\n\n"); got != wantSeps {
		t.Errorf("separator count = %d, want %d", got, wantSeps)
	}
}

func TestExtractTextHeadingFollowsFileNumber(t *testing.T) {
	ctx := context.Background()
	st := storage.New(afero.NewMemMapFs())
	client := markdown.NewClient(st, nil)
	books := markdown.NewBookRepository(client)
	if _, err := books.Initialize(ctx, "books/sparse", repository.InitializeBookInput{Title: "Sparse"}); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	for name, body := range map[string]string{
		"3-序曲.md": "甲",
		"7-终曲.md": "乙",
	} {
		if err := st.Write(ctx, "books/sparse/"+name, body); err != nil {
			t.Fatalf("write chapter: %v", err)
		}
	}
	engine := NewEngine(
		books,
		markdown.NewMarkRepository(client),
		markdown.NewChapterRepository(client),
		markdown.NewStoryUnitRepository(client),
	)

	text, err := engine.ExtractTextFromRange(ctx, "books/sparse", entity.PreciseRange{
		Start: entity.PrecisePosition{ChapterIndex: 0, LineNumber: 1, CharacterOffset: 0},
		End:   entity.PrecisePosition{ChapterIndex: 1, LineNumber: 1, CharacterOffset: 1},
	})
	if err != nil {
		t.Fatal(err)
	}

	// 标题行沿用文件名里的章节编号，与按编号范围拼接的读取路径一致
	for _, want := range []string{"## 第3章 序曲", "## 第7章 终曲"} {
		if !strings.Contains(text, want) {
			t.Errorf("text missing heading %q:\n%s", want, text)
		}
	}
	for _, reject := range []string{"第1章", "第2章"} {
		if strings.Contains(text, reject) {
			t.Errorf("text numbered heading by position %q:\n%s", reject, text)
		}
	}
}

func TestConvertToStoryUnit(t *testing.T) {
	engine, client := newTestEngine(t)
	ctx := context.Background()

	start, err := engine.CreateStartMark(ctx, testBook, entity.PrecisePosition{ChapterIndex: 0, LineNumber: 5, CharacterOffset: 10}, "")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := engine.CreateEndMark(ctx, testBook, start.MarkID, entity.PrecisePosition{ChapterIndex: 2, LineNumber: 1, CharacterOffset: 0}); err != nil {
		t.Fatal(err)
	}

	unit, err := engine.ConvertToStoryUnit(ctx, testBook, start.MarkID, "高潮推进", &ConvertOptions{
		StoryLine:         entity.StoryLineSide,
		RelatedCharacters: []string{"char_1"},
	})
	if err != nil {
		t.Fatal(err)
	}

	// 0 基章节索引换算为 1 基章节范围
	if unit.ChapterRange != (entity.ChapterRange{Start: 1, End: 3}) {
		t.Errorf("ChapterRange = %+v", unit.ChapterRange)
	}
	if unit.PreciseRange == nil || unit.StoryLine != entity.StoryLineSide {
		t.Errorf("unit = %+v", unit)
	}
	if !strings.Contains(unit.TextContent, "ABCDEFG") {
		t.Errorf("TextContent = %q", unit.TextContent)
	}

	// 单元持久化，标记回写了单元 ID
	persisted, err := markdown.NewStoryUnitRepository(client).GetByID(ctx, testBook, unit.UnitID)
	if err != nil || persisted == nil {
		t.Fatalf("persisted unit = %+v, %v", persisted, err)
	}
	file, _ := engine.ListMarks(ctx, testBook)
	if file.Marks[0].StoryUnitID != unit.UnitID {
		t.Errorf("mark.StoryUnitID = %q, want %q", file.Marks[0].StoryUnitID, unit.UnitID)
	}
}

func TestDeleteMark(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	start, err := engine.CreateStartMark(ctx, testBook, entity.PrecisePosition{ChapterIndex: 0, LineNumber: 1, CharacterOffset: 0}, "")
	if err != nil {
		t.Fatal(err)
	}
	if err := engine.DeleteMark(ctx, testBook, start.MarkID); err != nil {
		t.Fatal(err)
	}
	file, _ := engine.ListMarks(ctx, testBook)
	if len(file.UnpairedMarks) != 0 {
		t.Errorf("mark survived delete: %+v", file.UnpairedMarks)
	}

	if err := engine.DeleteMark(ctx, testBook, start.MarkID); !apperrors.HasCode(err, apperrors.CodeMarkNotFound) {
		t.Errorf("err = %v, want mark not found", err)
	}
}
