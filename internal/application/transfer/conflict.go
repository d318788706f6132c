// Package transfer 实现 JSON/CSV 导入导出与冲突消解
package transfer

import (
	"fmt"

	apperrors "storyvault-api/pkg/errors"
)

// ConflictStrategy 同名记录的冲突策略
// merge 当前与 overwrite 行为一致：按字段粒度合并需要逐字段语义，
// 在文档全量重写模型下收益有限，保留枚举值以兼容调用方
type ConflictStrategy string

const (
	StrategySkip      ConflictStrategy = "skip"
	StrategyOverwrite ConflictStrategy = "overwrite"
	StrategyMerge     ConflictStrategy = "merge"
)

// Valid 策略是否合法
func (s ConflictStrategy) Valid() bool {
	switch s {
	case StrategySkip, StrategyOverwrite, StrategyMerge:
		return true
	}
	return false
}

// replaces 该策略是否用传入字段覆盖已有记录
func (s ConflictStrategy) replaces() bool {
	return s == StrategyOverwrite || s == StrategyMerge
}

// Options 导入选项
type Options struct {
	Strategy         ConflictStrategy `json:"strategy"`
	AutoCreateFields bool             `json:"auto_create_fields"`
}

// normalize 填充默认策略并校验
func (o *Options) normalize() error {
	if o.Strategy == "" {
		o.Strategy = StrategySkip
	}
	if !o.Strategy.Valid() {
		return apperrors.ErrInvalidParam.WithDetail(fmt.Sprintf("unknown conflict strategy %q", o.Strategy))
	}
	return nil
}

// Result 批量导入结果，单条失败不中断批次
type Result struct {
	Success       bool     `json:"success"`
	ImportedCount int      `json:"imported_count"`
	SkippedCount  int      `json:"skipped_count"`
	Errors        []string `json:"errors"`
}

func newResult() *Result {
	return &Result{Success: true, Errors: []string{}}
}

// recordError 记录单条失败：计入跳过并累积错误，批次继续
func (r *Result) recordError(index int, reason string) {
	r.SkippedCount++
	r.Errors = append(r.Errors, fmt.Sprintf("record %d: %s", index, reason))
}
