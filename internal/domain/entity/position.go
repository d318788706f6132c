// Package entity 定义领域实体
package entity

// PrecisePosition 精确文本位置
// 章节索引从 0 开始，行号从 1 开始，字符偏移为行内 0 基偏移
type PrecisePosition struct {
	ChapterIndex    int `json:"chapter_index"`
	LineNumber      int `json:"line_number"`
	CharacterOffset int `json:"character_offset"`
}

// Compare 三级字典序比较，返回 -1/0/1
func (p PrecisePosition) Compare(other PrecisePosition) int {
	if p.ChapterIndex != other.ChapterIndex {
		if p.ChapterIndex < other.ChapterIndex {
			return -1
		}
		return 1
	}
	if p.LineNumber != other.LineNumber {
		if p.LineNumber < other.LineNumber {
			return -1
		}
		return 1
	}
	if p.CharacterOffset != other.CharacterOffset {
		if p.CharacterOffset < other.CharacterOffset {
			return -1
		}
		return 1
	}
	return 0
}

// Before 是否严格早于另一位置
func (p PrecisePosition) Before(other PrecisePosition) bool {
	return p.Compare(other) < 0
}

// After 是否严格晚于另一位置
func (p PrecisePosition) After(other PrecisePosition) bool {
	return p.Compare(other) > 0
}

// PreciseRange 精确文本范围，可跨章节
type PreciseRange struct {
	Start PrecisePosition `json:"start"`
	End   PrecisePosition `json:"end"`
}

// IsValid 范围合法当且仅当 end >= start
func (r PreciseRange) IsValid() bool {
	return r.Start.Compare(r.End) <= 0
}

// SingleChapter 范围是否落在同一章节内
func (r PreciseRange) SingleChapter() bool {
	return r.Start.ChapterIndex == r.End.ChapterIndex
}

// ChapterSpan 范围跨越的章节数（含首尾）
func (r PreciseRange) ChapterSpan() int {
	return r.End.ChapterIndex - r.Start.ChapterIndex + 1
}
