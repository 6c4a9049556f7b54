// Package toolcall 从模型生成文本中提取工具调用，并分发到注册的工具实现。
//
// 设计要点：
//   - Convention 可插拔：不同模型家族的工具调用约定（围栏代码块 / 控制标记 + JSON）
//     实现同一个解析接口，调用方自由组合
//   - Registry 显式构造、显式传入，不存在包级全局注册表，测试可替换
//   - 绝不执行生成文本：围栏载荷被解析为一次调用表达式，经参数校验后查表分发
package toolcall

// ToolCall 是一次工具调用请求。
// 生命周期：由 Convention 解析生成 -> 分发一次 -> 丢弃。
type ToolCall struct {
	// ID 是解析时生成的随机标识
	ID string

	// Name 是工具名
	Name string

	// Arguments 是关键字参数
	Arguments map[string]any

	// Positional 是位置参数（围栏表达式约定产生），
	// 分发时按工具参数声明顺序映射为关键字参数
	Positional []any
}

// Result 是一次工具调用的结果。
type Result struct {
	// CallID 对应 ToolCall.ID
	CallID string

	// Name 是工具名
	Name string

	// Content 是工具的输出文本
	Content string

	// Err 非空表示执行失败的描述信息（不向上抛异常）
	Err string
}

// Failed 返回该次调用是否失败。
func (r Result) Failed() bool { return r.Err != "" }
