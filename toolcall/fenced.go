package toolcall

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// DefaultFencedTag 是默认的围栏标签。
const DefaultFencedTag = "tool_code"

// Fenced 是围栏代码块约定：模型在生成文本里输出
//
//	```tool_code
//	print(get_weather("beijing"))
//	```
//
// 载荷被解析为一次调用表达式（见 parseCallExpr），绝不执行。
// print(...) 包装会被剥掉——部分模型家族习惯用 print 包住调用。
// 每段文本最多提取一个调用；载荷损坏时视为没有工具调用。
type Fenced struct {
	// Tag 是围栏标签，默认 DefaultFencedTag
	Tag string
}

func (f *Fenced) Name() string { return "toolcall.fenced" }

func (f *Fenced) tag() string {
	if f.Tag == "" {
		return DefaultFencedTag
	}
	return f.Tag
}

func (f *Fenced) blockRe() *regexp.Regexp {
	return regexp.MustCompile("(?s)```" + regexp.QuoteMeta(f.tag()) + "\\s*\n?(.*?)```")
}

// Extract 提取第一个围栏块的调用表达式（剥掉 print 包装、去除首尾空白）。
// 没有围栏块时返回 ("", false)。
func (f *Fenced) Extract(content string) (string, bool) {
	m := f.blockRe().FindStringSubmatch(content)
	if m == nil {
		return "", false
	}
	payload := strings.TrimSpace(m[1])
	payload = unwrapPrint(payload)
	if payload == "" {
		return "", false
	}
	return payload, true
}

// Parse 实现 Convention 接口。
func (f *Fenced) Parse(content string) ([]ToolCall, string) {
	re := f.blockRe()
	m := re.FindStringSubmatchIndex(content)
	if m == nil {
		return nil, content
	}

	payload := strings.TrimSpace(content[m[2]:m[3]])
	payload = unwrapPrint(payload)

	name, positional, keyword, err := parseCallExpr(payload)
	if err != nil {
		// 载荷损坏 -> 没有工具调用
		return nil, content
	}

	cleaned := strings.TrimSpace(content[:m[0]] + content[m[1]:])
	call := ToolCall{
		ID:         uuid.NewString(),
		Name:       name,
		Arguments:  keyword,
		Positional: positional,
	}
	return []ToolCall{call}, cleaned
}

// FormatResults 把结果打包为 tool_output 围栏块。
func (f *Fenced) FormatResults(results []Result) string {
	var b strings.Builder
	b.WriteString("```tool_output\n")
	for _, r := range results {
		if r.Failed() {
			fmt.Fprintf(&b, "error: %s\n", r.Err)
		} else {
			b.WriteString(r.Content)
			b.WriteString("\n")
		}
	}
	b.WriteString("```")
	return b.String()
}

// unwrapPrint 剥掉 print(...) 包装，返回内部表达式。
func unwrapPrint(payload string) string {
	trimmed := strings.TrimSpace(payload)
	if strings.HasPrefix(trimmed, "print(") && strings.HasSuffix(trimmed, ")") {
		return strings.TrimSpace(trimmed[len("print(") : len(trimmed)-1])
	}
	return trimmed
}

var _ Convention = (*Fenced)(nil)
