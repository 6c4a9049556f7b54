package core

// SentinelItemID 是上下文补齐用的保留物品 ID。
// Embedding 第 0 行固定为零向量，保证补齐位不贡献任何信号。
const SentinelItemID int64 = 0

// Example 是一条训练/评估样本。
//
// 不变式：
//   - len(Context) 恒等于构建时的 MaxContextLength
//   - 真实历史不足时左侧以 SentinelItemID 补齐
//   - Label 是源序列中紧跟 Context 窗口之后的那次交互
type Example struct {
	UserID  string
	Context []int64
	Label   int64
}

// ContextItems 返回去掉补齐位后的真实历史（保持顺序）。
func (e *Example) ContextItems() []int64 {
	out := make([]int64, 0, len(e.Context))
	for _, id := range e.Context {
		if id != SentinelItemID {
			out = append(out, id)
		}
	}
	return out
}
