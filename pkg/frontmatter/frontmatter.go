// Package frontmatter 提供扁平文本文档的元数据头编解码
//
// 文档头部以独占一行的 "---" 开始和结束，内部是受限的 key: value
// 语法：标量、行内数组 [a, b, c]、块数组（key: 换行后跟 "- item"），
// 以及嵌套对象的单行 JSON 逃生通道。生成与解析保证往返一致。
package frontmatter

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Delimiter 头部分隔符
const Delimiter = "---"

// ParseResult 解析结果
type ParseResult struct {
	Data           map[string]any
	Content        string
	HasFrontmatter bool
}

// Generate 将数据编码为元数据头，key 按字典序输出保证稳定
func Generate(data map[string]any) string {
	var b strings.Builder
	b.WriteString(Delimiter)
	b.WriteByte('\n')

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		v := data[k]
		if v == nil {
			continue
		}
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(formatValue(v))
		b.WriteByte('\n')
	}

	b.WriteString(Delimiter)
	b.WriteByte('\n')
	return b.String()
}

// Compose 生成头部并拼接正文
func Compose(data map[string]any, body string) string {
	if body == "" {
		return Generate(data)
	}
	return Generate(data) + "\n" + body
}

// Parse 解析文档，无头部时返回空数据和完整原文
func Parse(text string) ParseResult {
	if !strings.HasPrefix(text, Delimiter+"\n") && text != Delimiter {
		return ParseResult{Data: map[string]any{}, Content: text}
	}

	rest := text[len(Delimiter)+1:]
	end := strings.Index(rest, "\n"+Delimiter)
	var header, content string
	if end == -1 {
		// 头部未闭合，视为无头部
		return ParseResult{Data: map[string]any{}, Content: text}
	}
	header = rest[:end]
	content = rest[end+len(Delimiter)+1:]
	content = strings.TrimPrefix(content, "\n")
	content = strings.TrimPrefix(content, "\n")

	return ParseResult{
		Data:           parseHeader(header),
		Content:        content,
		HasFrontmatter: true,
	}
}

// Update 浅合并补丁后重新生成头部，正文原样保留
func Update(text string, patch map[string]any) string {
	parsed := Parse(text)
	merged := make(map[string]any, len(parsed.Data)+len(patch))
	for k, v := range parsed.Data {
		merged[k] = v
	}
	for k, v := range patch {
		merged[k] = v
	}
	return Compose(merged, parsed.Content)
}

// parseHeader 逐行解析头部
func parseHeader(header string) map[string]any {
	data := map[string]any{}
	lines := strings.Split(header, "\n")

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		idx := strings.Index(line, ":")
		if idx < 0 {
			continue
		}
		key := strings.TrimSpace(line[:idx])
		value := strings.TrimSpace(line[idx+1:])
		if key == "" {
			continue
		}

		if value == "" {
			// 块数组：后续的 "- item" 行
			items, consumed := parseBlockArray(lines[i+1:])
			if consumed > 0 {
				data[key] = items
				i += consumed
				continue
			}
			data[key] = ""
			continue
		}

		data[key] = parseValue(value)
	}

	return data
}

// parseBlockArray 收集 "- item" 行，返回条目与消费的行数
func parseBlockArray(lines []string) ([]any, int) {
	var items []any
	consumed := 0
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "- ") && trimmed != "-" {
			break
		}
		item := strings.TrimSpace(strings.TrimPrefix(trimmed, "-"))
		items = append(items, parseScalar(item))
		consumed++
	}
	return items, consumed
}

// parseValue 解析单个值：JSON 对象、行内数组或标量
func parseValue(value string) any {
	if strings.HasPrefix(value, "{") {
		var obj map[string]any
		if err := json.Unmarshal([]byte(value), &obj); err == nil {
			return obj
		}
		return value
	}
	if strings.HasPrefix(value, "[") && strings.HasSuffix(value, "]") {
		return parseInlineArray(value)
	}
	return parseScalar(value)
}

// parseInlineArray 解析 [a, b, c] 形式的行内数组
func parseInlineArray(value string) []any {
	inner := strings.TrimSpace(value[1 : len(value)-1])
	if inner == "" {
		return []any{}
	}

	items := []any{}
	var current strings.Builder
	inQuote := false
	escaped := false
	for _, r := range inner {
		switch {
		case escaped:
			current.WriteRune('\\')
			current.WriteRune(r)
			escaped = false
		case r == '\\' && inQuote:
			escaped = true
		case r == '"':
			inQuote = !inQuote
			current.WriteRune(r)
		case r == ',' && !inQuote:
			items = append(items, parseScalar(strings.TrimSpace(current.String())))
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	items = append(items, parseScalar(strings.TrimSpace(current.String())))
	return items
}

// parseScalar 解析标量：引号字符串、布尔、null、数值，兜底为裸字符串
func parseScalar(value string) any {
	if len(value) >= 2 && strings.HasPrefix(value, `"`) && strings.HasSuffix(value, `"`) {
		if unquoted, err := strconv.Unquote(value); err == nil {
			return unquoted
		}
		return strings.Trim(value, `"`)
	}
	switch value {
	case "true":
		return true
	case "false":
		return false
	case "null", "~":
		return nil
	}
	if i, err := strconv.Atoi(value); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return f
	}
	return value
}

// formatValue 格式化单个值
func formatValue(v any) string {
	switch val := v.(type) {
	case string:
		if needsQuote(val) {
			return strconv.Quote(val)
		}
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case []any:
		return formatArray(val)
	case []string:
		arr := make([]any, len(val))
		for i, s := range val {
			arr[i] = s
		}
		return formatArray(arr)
	default:
		// 嵌套对象走单行 JSON 逃生通道
		encoded, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(encoded)
	}
}

// formatArray 格式化行内数组
func formatArray(items []any) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = formatValue(item)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// needsQuote 判断字符串是否需要加引号以保持类型与格式
func needsQuote(s string) bool {
	if s == "" {
		return false
	}
	if strings.ContainsAny(s, ",:#\"\n") {
		return true
	}
	if s != strings.TrimSpace(s) {
		return true
	}
	if strings.HasPrefix(s, "[") || strings.HasPrefix(s, "{") || strings.HasPrefix(s, "- ") {
		return true
	}
	// 形如数值/布尔/null 的字符串必须加引号，否则解析时会变类型
	switch s {
	case "true", "false", "null", "~":
		return true
	}
	if _, err := strconv.Atoi(s); err == nil {
		return true
	}
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		return true
	}
	return false
}
