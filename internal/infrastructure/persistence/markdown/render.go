// Package markdown 提供基于扁平文本文档的仓储实现
package markdown

import (
	"fmt"
	"strconv"
	"strings"

	"storyvault-api/internal/domain/entity"
)

// 可读镜像：跟在 JSON 块之后的人类可读摘要，
// 只为在普通编辑器里浏览而生成，读路径永远不解析它

// renderCharacters 渲染角色镜像
func renderCharacters(characters []*entity.Character) string {
	var b strings.Builder
	b.WriteString("## 角色一览\n")
	if len(characters) == 0 {
		b.WriteString("\n（暂无角色）\n")
		return b.String()
	}
	for _, c := range characters {
		fmt.Fprintf(&b, "\n### %s（%s）\n\n", c.Name, c.Role)
		if len(c.Aliases) > 0 {
			fmt.Fprintf(&b, "- 别名：%s\n", strings.Join(c.Aliases, "、"))
		}
		if len(c.Tags) > 0 {
			fmt.Fprintf(&b, "- 标签：%s\n", strings.Join(c.Tags, "、"))
		}
		if c.FirstAppearanceChapter > 0 {
			fmt.Fprintf(&b, "- 首次出场：第%d章\n", c.FirstAppearanceChapter)
		}
		if len(c.AppearanceChapters) > 0 {
			fmt.Fprintf(&b, "- 出场章节：%s\n", joinInts(c.AppearanceChapters))
		}
		if c.Description != "" {
			fmt.Fprintf(&b, "\n%s\n", c.Description)
		}
		if len(c.Relationships) > 0 {
			b.WriteString("\n关系：\n")
			for _, rel := range c.Relationships {
				if rel.Description != "" {
					fmt.Fprintf(&b, "- %s（%s）：%s\n", rel.Target, rel.Kind, rel.Description)
				} else {
					fmt.Fprintf(&b, "- %s（%s）\n", rel.Target, rel.Kind)
				}
			}
		}
	}
	return b.String()
}

// renderStoryUnits 渲染故事单元镜像
func renderStoryUnits(units []*entity.StoryUnit) string {
	var b strings.Builder
	b.WriteString("## 故事单元一览\n")
	if len(units) == 0 {
		b.WriteString("\n（暂无故事单元）\n")
		return b.String()
	}
	for _, u := range units {
		fmt.Fprintf(&b, "\n### %s\n\n", u.Name)
		fmt.Fprintf(&b, "- 章节范围：第%d章 ~ 第%d章\n", u.ChapterRange.Start, u.ChapterRange.End)
		if u.StoryLine != "" {
			fmt.Fprintf(&b, "- 故事线：%s\n", u.StoryLine)
		}
		if len(u.RelatedCharacters) > 0 {
			fmt.Fprintf(&b, "- 相关角色：%s\n", strings.Join(u.RelatedCharacters, "、"))
		}
		if u.TextFilePath != "" {
			fmt.Fprintf(&b, "- 全文：%s\n", u.TextFilePath)
		}
		if u.TextContent != "" {
			fmt.Fprintf(&b, "\n> %s\n", firstLine(u.TextContent))
		}
	}
	return b.String()
}

// renderEvents 渲染事件镜像，按 Order 原序列出
func renderEvents(events []*entity.StoryEvent) string {
	var b strings.Builder
	b.WriteString("## 时间轴一览\n")
	if len(events) == 0 {
		b.WriteString("\n（暂无事件）\n")
		return b.String()
	}
	b.WriteByte('\n')
	for _, e := range events {
		fmt.Fprintf(&b, "- [%d] %s（第%d章 ~ 第%d章）", e.Order, e.Name, e.ChapterRange.Start, e.ChapterRange.End)
		if e.Description != "" {
			b.WriteString("：")
			b.WriteString(firstLine(e.Description))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func joinInts(nums []int) string {
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, "、")
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx != -1 {
		return s[:idx]
	}
	return s
}
