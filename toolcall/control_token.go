package toolcall

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"
)

// DefaultControlMarker 是默认的控制标记。
const DefaultControlMarker = "<|tool_call|>"

// ControlToken 是控制标记约定：模型在生成文本末尾输出
//
//	<|tool_call|>[{"name": "get_weather", "arguments": {"city": "beijing"}}]
//
// 标记后紧跟一个 JSON 数组，每个元素是 {name, arguments}。
// 任何一处损坏（JSON 非法、元素不是对象、name 缺失或非字符串、
// arguments 存在但不是对象）都整体降级为“没有工具调用”。
type ControlToken struct {
	// Marker 是控制标记，默认 DefaultControlMarker
	Marker string
}

func (c *ControlToken) Name() string { return "toolcall.control_token" }

func (c *ControlToken) marker() string {
	if c.Marker == "" {
		return DefaultControlMarker
	}
	return c.Marker
}

// Parse 实现 Convention 接口。
func (c *ControlToken) Parse(content string) ([]ToolCall, string) {
	idx := strings.Index(content, c.marker())
	if idx < 0 {
		return nil, content
	}

	payload := strings.TrimSpace(content[idx+len(c.marker()):])
	var raw []map[string]json.RawMessage
	if err := json.Unmarshal([]byte(payload), &raw); err != nil || len(raw) == 0 {
		return nil, content
	}

	calls := make([]ToolCall, 0, len(raw))
	for _, entry := range raw {
		call, ok := decodeCall(entry)
		if !ok {
			return nil, content
		}
		calls = append(calls, call)
	}

	cleaned := strings.TrimSpace(content[:idx])
	return calls, cleaned
}

func decodeCall(entry map[string]json.RawMessage) (ToolCall, bool) {
	nameRaw, ok := entry["name"]
	if !ok {
		return ToolCall{}, false
	}
	var name string
	if err := json.Unmarshal(nameRaw, &name); err != nil || name == "" {
		return ToolCall{}, false
	}

	args := make(map[string]any)
	if argsRaw, ok := entry["arguments"]; ok {
		if err := json.Unmarshal(argsRaw, &args); err != nil {
			return ToolCall{}, false
		}
	}

	return ToolCall{
		ID:        uuid.NewString(),
		Name:      name,
		Arguments: args,
	}, true
}

// FormatResults 把结果打包为 JSON 数组，附带 call_id 便于模型对齐。
func (c *ControlToken) FormatResults(results []Result) string {
	out := make([]map[string]string, 0, len(results))
	for _, r := range results {
		entry := map[string]string{
			"call_id": r.CallID,
			"name":    r.Name,
		}
		if r.Failed() {
			entry["error"] = r.Err
		} else {
			entry["content"] = r.Content
		}
		out = append(out, entry)
	}
	data, err := json.Marshal(out)
	if err != nil {
		return "<|tool_output|>[]"
	}
	return "<|tool_output|>" + string(data)
}

var _ Convention = (*ControlToken)(nil)
