package entity

import (
	"strings"
	"testing"
)

func TestPrecisePositionCompare(t *testing.T) {
	tests := []struct {
		name string
		a, b PrecisePosition
		want int
	}{
		{"相等", PrecisePosition{0, 5, 10}, PrecisePosition{0, 5, 10}, 0},
		{"章节优先", PrecisePosition{0, 99, 99}, PrecisePosition{1, 0, 0}, -1},
		{"同章比行号", PrecisePosition{2, 3, 50}, PrecisePosition{2, 4, 0}, -1},
		{"同行比偏移", PrecisePosition{2, 3, 10}, PrecisePosition{2, 3, 9}, 1},
		{"跨章晚于", PrecisePosition{3, 1, 0}, PrecisePosition{0, 5, 10}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Compare(tt.b); got != tt.want {
				t.Errorf("Compare = %d, want %d", got, tt.want)
			}
			// Before/After 与 Compare 一致
			if tt.a.Before(tt.b) != (tt.want < 0) {
				t.Error("Before inconsistent with Compare")
			}
			if tt.a.After(tt.b) != (tt.want > 0) {
				t.Error("After inconsistent with Compare")
			}
		})
	}
}

func TestPreciseRangeIsValid(t *testing.T) {
	tests := []struct {
		name  string
		r     PreciseRange
		valid bool
	}{
		{"正常顺序", PreciseRange{PrecisePosition{0, 5, 10}, PrecisePosition{2, 1, 0}}, true},
		{"起止相同", PreciseRange{PrecisePosition{1, 1, 0}, PrecisePosition{1, 1, 0}}, true},
		{"结束早于开始", PreciseRange{PrecisePosition{2, 1, 0}, PrecisePosition{0, 5, 10}}, false},
		{"同章行号倒置", PreciseRange{PrecisePosition{1, 8, 0}, PrecisePosition{1, 3, 0}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.IsValid(); got != tt.valid {
				t.Errorf("IsValid = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestPreciseRangeChapterSpan(t *testing.T) {
	r := PreciseRange{PrecisePosition{0, 5, 10}, PrecisePosition{2, 1, 0}}
	if r.SingleChapter() {
		t.Error("expected multi-chapter range")
	}
	if got := r.ChapterSpan(); got != 3 {
		t.Errorf("ChapterSpan = %d, want 3", got)
	}
	single := PreciseRange{PrecisePosition{4, 1, 0}, PrecisePosition{4, 9, 0}}
	if !single.SingleChapter() || single.ChapterSpan() != 1 {
		t.Errorf("single chapter: SingleChapter=%v ChapterSpan=%d", single.SingleChapter(), single.ChapterSpan())
	}
}

func TestSanitizeTitle(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Test", "Test"},
		{"我的小说", "我的小说"},
		{"a b/c", "a_b_c"},
		{"  trimmed  ", "trimmed"},
		{"", "book"},
		{"!!!", "___"},
	}
	for _, tt := range tests {
		if got := SanitizeTitle(tt.in); got != tt.want {
			t.Errorf("SanitizeTitle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNewBookID(t *testing.T) {
	id := NewBookID("Test")
	if !strings.HasPrefix(id, "Test_") {
		t.Errorf("id = %q, want prefix Test_", id)
	}
	// 后缀是毫秒时间戳
	suffix := strings.TrimPrefix(id, "Test_")
	if len(suffix) < 10 {
		t.Errorf("timestamp suffix too short: %q", suffix)
	}
	for _, r := range suffix {
		if r < '0' || r > '9' {
			t.Errorf("non-digit in timestamp suffix: %q", suffix)
		}
	}
}

func TestMarkPair(t *testing.T) {
	m := NewStartMark("Test_1", PrecisePosition{0, 5, 10}, "伏笔A")
	if m.Status != MarkStatusPending || m.IsPaired {
		t.Fatalf("new mark: status=%s paired=%v", m.Status, m.IsPaired)
	}
	if m.Position == nil || m.Range != nil {
		t.Fatal("new mark must carry position only")
	}

	m.Pair(PrecisePosition{2, 1, 0})
	if m.Status != MarkStatusPaired || !m.IsPaired {
		t.Errorf("paired mark: status=%s paired=%v", m.Status, m.IsPaired)
	}
	if m.Position != nil {
		t.Error("position must be cleared after pairing")
	}
	if m.Range == nil || m.Range.Start != (PrecisePosition{0, 5, 10}) || m.Range.End != (PrecisePosition{2, 1, 0}) {
		t.Errorf("range = %+v", m.Range)
	}
}

func TestPreview(t *testing.T) {
	short := "短文本"
	if got := Preview(short, 200); got != short {
		t.Errorf("Preview(short) = %q", got)
	}
	long := strings.Repeat("字", 300)
	got := Preview(long, 200)
	if !strings.HasSuffix(got, "...") {
		t.Errorf("truncated preview must end with ellipsis: %q", got[len(got)-12:])
	}
	if n := len([]rune(got)); n != 203 {
		t.Errorf("preview rune length = %d, want 200 + ellipsis", n)
	}
	// 恰好等于阈值时不截断
	exact := strings.Repeat("字", 200)
	if Preview(exact, 200) != exact {
		t.Error("text at threshold must stay intact")
	}
}
