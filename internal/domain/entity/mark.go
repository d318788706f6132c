// Package entity 定义领域实体
package entity

import (
	"time"
)

// MarkStatus 标记状态
// orphaned 在枚举中声明但当前没有任何代码路径会产生它，
// 触发条件（闲置过久/所在章节被删）待产品决策
type MarkStatus string

const (
	MarkStatusPending  MarkStatus = "pending"
	MarkStatusPaired   MarkStatus = "paired"
	MarkStatusOrphaned MarkStatus = "orphaned"
)

// Mark 精确标记
// 未配对时只有 Position；配对后携带 Range，可进一步晋升为故事单元
type Mark struct {
	MarkID      string           `json:"mark_id"`
	BookID      string           `json:"book_id"`
	Name        string           `json:"name,omitempty"`
	Status      MarkStatus       `json:"status"`
	Position    *PrecisePosition `json:"position,omitempty"`
	Range       *PreciseRange    `json:"range,omitempty"`
	IsPaired    bool             `json:"is_paired"`
	StoryUnitID string           `json:"story_unit_id,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// NewStartMark 创建未配对的起始标记
func NewStartMark(bookID string, pos PrecisePosition, name string) *Mark {
	now := time.Now()
	return &Mark{
		MarkID:    NewRecordID("mark"),
		BookID:    bookID,
		Name:      name,
		Status:    MarkStatusPending,
		Position:  &pos,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Pair 用结束位置完成配对，调用方负责先校验 end >= start
func (m *Mark) Pair(end PrecisePosition) {
	start := *m.Position
	m.Range = &PreciseRange{Start: start, End: end}
	m.Position = nil
	m.Status = MarkStatusPaired
	m.IsPaired = true
	m.UpdatedAt = time.Now()
}

// MarkFile 精确标记的边车文档 _precise_marks.json
type MarkFile struct {
	Version       int       `json:"version"`
	BookID        string    `json:"book_id"`
	Marks         []*Mark   `json:"marks"`
	UnpairedMarks []*Mark   `json:"unpaired_marks"`
	LastUpdated   time.Time `json:"last_updated"`
}

// NewMarkFile 创建空的标记边车文档
func NewMarkFile(bookID string) *MarkFile {
	return &MarkFile{
		Version:       1,
		BookID:        bookID,
		Marks:         []*Mark{},
		UnpairedMarks: []*Mark{},
		LastUpdated:   time.Now(),
	}
}

// FindUnpaired 按 ID 查找未配对标记，返回索引，未找到为 -1
func (f *MarkFile) FindUnpaired(markID string) int {
	for i, m := range f.UnpairedMarks {
		if m.MarkID == markID {
			return i
		}
	}
	return -1
}

// FindPaired 按 ID 查找已配对标记，返回索引，未找到为 -1
func (f *MarkFile) FindPaired(markID string) int {
	for i, m := range f.Marks {
		if m.MarkID == markID {
			return i
		}
	}
	return -1
}
