package toolcall

// Convention 是一种工具调用约定：解析函数 + 结果回填格式，成对出现。
//
// 不同模型家族在生成文本里标记工具调用的方式不同（围栏代码块、控制标记 + JSON），
// 把约定抽象为接口后，对话循环无需关心具体格式。
type Convention interface {
	// Name 返回约定名称（用于日志/观测）
	Name() string

	// Parse 从生成文本中提取工具调用，并返回去掉调用标记后的剩余文本。
	// 解析失败（格式损坏、字段缺失、类型不符）一律视为“没有工具调用”，
	// 返回 (nil, content)，绝不报错。
	Parse(content string) (calls []ToolCall, cleaned string)

	// FormatResults 把工具结果打包为回填到对话的文本块。
	FormatResults(results []Result) string
}
