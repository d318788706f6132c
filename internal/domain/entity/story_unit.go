// Package entity 定义领域实体
package entity

import (
	"time"
)

// StoryLine 故事线分类
type StoryLine string

const (
	StoryLineMain     StoryLine = "main"
	StoryLineSide     StoryLine = "side"
	StoryLineFlash    StoryLine = "flashback"
	StoryLineParallel StoryLine = "parallel"
)

// ChapterRange 章节范围，1 基，start <= end
type ChapterRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// IsValid 范围合法性检查
func (r ChapterRange) IsValid() bool {
	return r.Start >= 1 && r.Start <= r.End
}

// StoryUnit 故事单元：一段被切出的叙事文本
type StoryUnit struct {
	UnitID            string        `json:"unit_id"`
	BookID            string        `json:"book_id"`
	Name              string        `json:"name"`
	ChapterRange      ChapterRange  `json:"chapter_range"`
	PreciseRange      *PreciseRange `json:"precise_range,omitempty"`
	StoryLine         StoryLine     `json:"story_line,omitempty"`
	RelatedCharacters []string      `json:"related_characters,omitempty"`
	// TextContent 内联正文；超过阈值时仅保留预览，全文移入 TextFilePath
	TextContent      string    `json:"text_content,omitempty"`
	TextFilePath     string    `json:"text_file_path,omitempty"`
	AnalysisTemplate string    `json:"analysis_template,omitempty"`
	AIAnalysis       string    `json:"ai_analysis,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// NewStoryUnit 创建故事单元
func NewStoryUnit(bookID, name string, chapterRange ChapterRange) *StoryUnit {
	now := time.Now()
	return &StoryUnit{
		UnitID:            NewRecordID("unit"),
		BookID:            bookID,
		Name:              name,
		ChapterRange:      chapterRange,
		StoryLine:         StoryLineMain,
		RelatedCharacters: []string{},
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// Preview 截取正文前 n 个字符作为预览
func Preview(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n]) + "..."
}
