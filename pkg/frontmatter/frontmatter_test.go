package frontmatter

import (
	"reflect"
	"strings"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	// 标量与扁平数组必须往返一致
	tests := []struct {
		name string
		data map[string]any
	}{
		{
			name: "字符串标量",
			data: map[string]any{"type": "characters", "book_id": "Test_1719930000"},
		},
		{
			name: "数值与布尔",
			data: map[string]any{"schema_version": 1, "ratio": 0.5, "archived": false},
		},
		{
			name: "行内数组",
			data: map[string]any{"tags": []any{"伏笔", "主线", "回收"}},
		},
		{
			name: "数值形字符串需加引号保型",
			data: map[string]any{"title": "1984", "flag": "true"},
		},
		{
			name: "含冒号与井号的字符串",
			data: map[string]any{"summary": "第一章: 开端 #草稿"},
		},
		{
			name: "含逗号的数组元素不被拆分",
			data: map[string]any{"ai_keywords": []any{"爱情, 战争", "和平"}},
		},
		{
			name: "含逗号的字符串标量",
			data: map[string]any{"description": "是非成败转头空, 青山依旧在"},
		},
		{
			name: "空数组",
			data: map[string]any{"tags": []any{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := Generate(tt.data)
			parsed := Parse(text)
			if !parsed.HasFrontmatter {
				t.Fatalf("expected frontmatter, got none in %q", text)
			}
			if !reflect.DeepEqual(parsed.Data, tt.data) {
				t.Errorf("round trip mismatch:\n got  %#v\n want %#v", parsed.Data, tt.data)
			}
		})
	}
}

func TestParseNoHeader(t *testing.T) {
	text := "# 第一章\n\n正文内容"
	parsed := Parse(text)
	if parsed.HasFrontmatter {
		t.Error("expected no frontmatter")
	}
	if parsed.Content != text {
		t.Errorf("content = %q, want original text", parsed.Content)
	}
	if len(parsed.Data) != 0 {
		t.Errorf("data = %#v, want empty", parsed.Data)
	}
}

func TestParseUnclosedHeader(t *testing.T) {
	// 未闭合的头部按无头部处理，原文完整保留
	text := "---\ntype: characters\n正文"
	parsed := Parse(text)
	if parsed.HasFrontmatter {
		t.Error("expected no frontmatter for unclosed header")
	}
	if parsed.Content != text {
		t.Errorf("content = %q, want original text", parsed.Content)
	}
}

func TestParseBlockArray(t *testing.T) {
	text := "---\ntags:\n- 伏笔\n- 主线\ntitle: 测试\n---\n\n正文"
	parsed := Parse(text)
	tags, ok := parsed.Data["tags"].([]any)
	if !ok {
		t.Fatalf("tags = %#v, want []any", parsed.Data["tags"])
	}
	if !reflect.DeepEqual(tags, []any{"伏笔", "主线"}) {
		t.Errorf("tags = %#v", tags)
	}
	if parsed.Data["title"] != "测试" {
		t.Errorf("title = %#v", parsed.Data["title"])
	}
	if parsed.Content != "正文" {
		t.Errorf("content = %q", parsed.Content)
	}
}

func TestComposeAndUpdate(t *testing.T) {
	text := Compose(map[string]any{"type": "book_meta", "title": "旧标题"}, "## 简介\n\n无")
	updated := Update(text, map[string]any{"title": "新标题"})
	parsed := Parse(updated)
	if parsed.Data["title"] != "新标题" {
		t.Errorf("title = %#v, want 新标题", parsed.Data["title"])
	}
	if parsed.Data["type"] != "book_meta" {
		t.Errorf("type = %#v, unexpected loss on update", parsed.Data["type"])
	}
	if parsed.Content != "## 简介\n\n无" {
		t.Errorf("content = %q, body must survive update", parsed.Content)
	}
}

func TestGenerateStableOrder(t *testing.T) {
	data := map[string]any{"b": 2, "a": 1, "c": 3}
	first := Generate(data)
	for i := 0; i < 10; i++ {
		if got := Generate(data); got != first {
			t.Fatal("generate output is not stable")
		}
	}
	if !strings.Contains(first, "a: 1\nb: 2\nc: 3") {
		t.Errorf("keys not sorted: %q", first)
	}
}

func TestParseScalarTypes(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"true", true},
		{"false", false},
		{"null", nil},
		{"42", 42},
		{"3.14", 3.14},
		{`"true"`, "true"},
		{`"42"`, "42"},
		{"普通文本", "普通文本"},
	}
	for _, tt := range tests {
		if got := parseScalar(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseScalar(%q) = %#v, want %#v", tt.in, got, tt.want)
		}
	}
}
