package transfer

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/spf13/afero"

	"storyvault-api/internal/domain/entity"
	"storyvault-api/internal/domain/repository"
	"storyvault-api/internal/infrastructure/persistence/markdown"
	"storyvault-api/internal/infrastructure/storage"
	apperrors "storyvault-api/pkg/errors"
)

const testBook = "books/transfer"

type testRepos struct {
	characters *markdown.CharacterRepository
	units      *markdown.StoryUnitRepository
	events     *markdown.EventRepository
}

func newTestService(t *testing.T) (*Service, testRepos) {
	t.Helper()
	client := markdown.NewClient(storage.New(afero.NewMemMapFs()), nil)
	books := markdown.NewBookRepository(client)
	if _, err := books.Initialize(context.Background(), testBook, repository.InitializeBookInput{Title: "Test"}); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	repos := testRepos{
		characters: markdown.NewCharacterRepository(client),
		units:      markdown.NewStoryUnitRepository(client),
		events:     markdown.NewEventRepository(client),
	}
	return NewService(books, repos.characters, repos.units, repos.events, markdown.NewChapterRepository(client)), repos
}

func seedCharacter(t *testing.T, repos testRepos, name, description string) *entity.Character {
	t.Helper()
	c := entity.NewCharacter("", name, entity.RoleSupporting)
	c.Description = description
	if err := repos.characters.Add(context.Background(), testBook, c); err != nil {
		t.Fatal(err)
	}
	return c
}

func TestImportCharactersSkip(t *testing.T) {
	svc, repos := newTestService(t)
	ctx := context.Background()
	existing := seedCharacter(t, repos, "林远", "原始描述")

	result, err := svc.ImportCharacters(ctx, testBook, []*entity.Character{
		{Name: "林远", Description: "导入描述"},
		{Name: "月娘", Role: entity.RoleAntagonist},
	}, Options{Strategy: StrategySkip})
	if err != nil {
		t.Fatal(err)
	}
	if !result.Success || result.ImportedCount != 1 || result.SkippedCount != 1 {
		t.Fatalf("result = %+v", result)
	}

	// skip 不得触碰已有记录
	reloaded, _ := repos.characters.GetByID(ctx, testBook, existing.CharacterID)
	if reloaded.Description != "原始描述" {
		t.Errorf("skip mutated existing record: %q", reloaded.Description)
	}

	list, _ := repos.characters.List(ctx, testBook)
	if len(list) != 2 {
		t.Errorf("list = %+v", list)
	}
}

func TestImportCharactersOverwrite(t *testing.T) {
	svc, repos := newTestService(t)
	ctx := context.Background()
	existing := seedCharacter(t, repos, "林远", "原始描述")

	result, err := svc.ImportCharacters(ctx, testBook, []*entity.Character{
		{Name: "林远", Description: "覆盖后的描述", Role: entity.RoleProtagonist},
	}, Options{Strategy: StrategyOverwrite})
	if err != nil {
		t.Fatal(err)
	}
	if !result.Success || result.ImportedCount != 1 || result.SkippedCount != 0 {
		t.Fatalf("result = %+v", result)
	}

	reloaded, _ := repos.characters.GetByID(ctx, testBook, existing.CharacterID)
	if reloaded == nil {
		t.Fatal("overwrite must keep the record ID")
	}
	if reloaded.Description != "覆盖后的描述" || reloaded.Role != entity.RoleProtagonist {
		t.Errorf("reloaded = %+v", reloaded)
	}
	// createdAt 保留原值
	if !reloaded.CreatedAt.Equal(existing.CreatedAt) {
		t.Errorf("CreatedAt changed: %v -> %v", existing.CreatedAt, reloaded.CreatedAt)
	}
}

func TestImportCharactersMergeBehavesAsOverwrite(t *testing.T) {
	svc, repos := newTestService(t)
	ctx := context.Background()
	seedCharacter(t, repos, "林远", "原始描述")

	result, err := svc.ImportCharacters(ctx, testBook, []*entity.Character{
		{Name: "林远", Description: "合并描述"},
	}, Options{Strategy: StrategyMerge})
	if err != nil {
		t.Fatal(err)
	}
	if result.ImportedCount != 1 {
		t.Fatalf("result = %+v", result)
	}
	list, _ := repos.characters.List(ctx, testBook)
	if list[0].Description != "合并描述" {
		t.Errorf("description = %q", list[0].Description)
	}
}

func TestImportCharactersMissingName(t *testing.T) {
	svc, _ := newTestService(t)

	// 单条失败只累积错误，批次继续
	result, err := svc.ImportCharacters(context.Background(), testBook, []*entity.Character{
		{Name: ""},
		{Name: "有名字"},
		{Name: ""},
	}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if result.Success {
		t.Error("result with errors must not be success")
	}
	if result.ImportedCount != 1 || len(result.Errors) != 2 {
		t.Fatalf("result = %+v", result)
	}
	for _, e := range result.Errors {
		if !strings.Contains(e, "missing required field: name") {
			t.Errorf("error = %q", e)
		}
	}
}

func TestImportInvalidStrategy(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.ImportCharacters(context.Background(), testBook, nil, Options{Strategy: "upsert"})
	if !apperrors.HasCode(err, apperrors.CodeInvalidParam) {
		t.Errorf("err = %v, want invalid param", err)
	}
}

func TestImportCharactersJSONBadPayload(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.ImportCharactersJSON(context.Background(), testBook, []byte("{not an array"), Options{})
	if !apperrors.HasCode(err, apperrors.CodeParseFailed) {
		t.Errorf("err = %v, want parse failed", err)
	}
}

func TestImportStoryUnitsInvalidChapterRange(t *testing.T) {
	svc, repos := newTestService(t)
	ctx := context.Background()

	result, err := svc.ImportStoryUnits(ctx, testBook, []*entity.StoryUnit{
		{Name: "倒置", ChapterRange: entity.ChapterRange{Start: 5, End: 2}},
		{Name: "正常", ChapterRange: entity.ChapterRange{Start: 1, End: 3}},
	}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if result.Success || result.ImportedCount != 1 || len(result.Errors) != 1 {
		t.Fatalf("result = %+v", result)
	}
	if !strings.Contains(result.Errors[0], "invalid chapter range") {
		t.Errorf("error = %q", result.Errors[0])
	}

	list, _ := repos.units.List(ctx, testBook)
	if len(list) != 1 || list[0].Name != "正常" {
		t.Errorf("list = %+v", list)
	}
}

func TestImportEvents(t *testing.T) {
	svc, repos := newTestService(t)
	ctx := context.Background()

	result, err := svc.ImportEvents(ctx, testBook, []*entity.StoryEvent{
		{Name: "开端", Order: 1, ChapterRange: entity.ChapterRange{Start: 1, End: 1}},
		{Name: "转折", Order: 2, ChapterRange: entity.ChapterRange{Start: 2, End: 3}},
	}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !result.Success || result.ImportedCount != 2 {
		t.Fatalf("result = %+v", result)
	}

	list, _ := repos.events.List(ctx, testBook)
	if len(list) != 2 {
		t.Fatalf("list = %+v", list)
	}
	for _, e := range list {
		if e.EventID == "" || e.BookID == "" {
			t.Errorf("imported event lacks identity: %+v", e)
		}
	}
}

func TestExportJSON(t *testing.T) {
	svc, repos := newTestService(t)
	seedCharacter(t, repos, "林远", "主角")

	payload, err := svc.ExportJSON(context.Background(), testBook)
	if err != nil {
		t.Fatal(err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		t.Fatalf("export is not valid json: %v", err)
	}
	if snapshot.Book == nil || snapshot.Book.Title != "Test" {
		t.Errorf("book = %+v", snapshot.Book)
	}
	if len(snapshot.Characters) != 1 || snapshot.Characters[0].Name != "林远" {
		t.Errorf("characters = %+v", snapshot.Characters)
	}
	if snapshot.StoryUnits == nil || snapshot.Events == nil || snapshot.Chapters == nil {
		t.Error("empty collections must export as [], not null")
	}
}

func TestExportCSVCharacters(t *testing.T) {
	svc, repos := newTestService(t)
	c := seedCharacter(t, repos, "林远", "主角")
	c.Aliases = []string{"远哥", "小林"}
	c.Tags = []string{"剑修"}
	if _, err := repos.characters.Update(context.Background(), testBook, c.CharacterID, &repository.CharacterPatch{
		Aliases: c.Aliases,
		Tags:    c.Tags,
	}); err != nil {
		t.Fatal(err)
	}

	payload, err := svc.ExportCSV(context.Background(), testBook, "characters")
	if err != nil {
		t.Fatal(err)
	}
	text := string(payload)

	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) != 2 {
		t.Fatalf("csv lines = %d:\n%s", len(lines), text)
	}
	if !strings.HasPrefix(lines[0], "character_id,name,aliases,role") {
		t.Errorf("header = %q", lines[0])
	}
	// 多值字段用分号连接
	if !strings.Contains(lines[1], "远哥;小林") {
		t.Errorf("row = %q", lines[1])
	}
}

func TestExportCSVUnknownCollection(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.ExportCSV(context.Background(), testBook, "chapters")
	if !apperrors.HasCode(err, apperrors.CodeInvalidParam) {
		t.Errorf("err = %v, want invalid param", err)
	}
}

func TestImportCharactersCSVRoundTrip(t *testing.T) {
	svc, repos := newTestService(t)
	ctx := context.Background()

	csvPayload := "name,aliases,role,tags,first_appearance_chapter,appearance_chapters\n" +
		"林远,远哥;小林,protagonist,剑修,3,3;5;9\n" +
		"月娘,,antagonist,,7,7\n"

	result, err := svc.ImportCharactersCSV(ctx, testBook, []byte(csvPayload), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !result.Success || result.ImportedCount != 2 {
		t.Fatalf("result = %+v", result)
	}

	list, _ := repos.characters.List(ctx, testBook)
	var hero *entity.Character
	for _, c := range list {
		if c.Name == "林远" {
			hero = c
		}
	}
	if hero == nil {
		t.Fatal("imported character missing")
	}
	if len(hero.Aliases) != 2 || hero.Aliases[0] != "远哥" {
		t.Errorf("aliases = %v", hero.Aliases)
	}
	if hero.FirstAppearanceChapter != 3 || len(hero.AppearanceChapters) != 3 {
		t.Errorf("appearances = %d %v", hero.FirstAppearanceChapter, hero.AppearanceChapters)
	}
}

func TestImportCSVMissingHeader(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.ImportCharactersCSV(context.Background(), testBook, []byte(""), Options{})
	if !apperrors.HasCode(err, apperrors.CodeParseFailed) {
		t.Errorf("err = %v, want parse failed", err)
	}
}

func TestImportCSVUnknownColumns(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	payload := []byte("name,power_level\n林远,9000\n")

	// 默认不自动建字段：未知列记入错误
	result, err := svc.ImportCharactersCSV(ctx, testBook, payload, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if result.Success {
		t.Error("unknown column must fail the batch when auto create is off")
	}
	found := false
	for _, e := range result.Errors {
		if strings.Contains(e, "power_level") {
			found = true
		}
	}
	if !found {
		t.Errorf("errors = %v, want unknown column report", result.Errors)
	}

	// 开启后未知列静默忽略
	result, err = svc.ImportCharactersCSV(ctx, testBook, payload, Options{AutoCreateFields: true, Strategy: StrategyOverwrite})
	if err != nil {
		t.Fatal(err)
	}
	if !result.Success || len(result.Errors) != 0 {
		t.Errorf("result = %+v", result)
	}
}
