// Package entity 定义领域实体
package entity

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

// NewRecordID 生成形如 prefix_timestamp_random 的记录 ID
func NewRecordID(prefix string) string {
	return fmt.Sprintf("%s_%d_%s", prefix, time.Now().UnixMilli(), uuid.NewString()[:8])
}

// NewBookID 根据书名生成 bookId：sanitize(title)_毫秒时间戳
func NewBookID(title string) string {
	return fmt.Sprintf("%s_%d", SanitizeTitle(title), time.Now().UnixMilli())
}

// SanitizeTitle 清洗书名中不适合作为标识符的字符
func SanitizeTitle(title string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "book"
	}
	return b.String()
}
