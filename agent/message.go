package agent

// Role 是对话消息的角色。
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Message 是对话中的一条消息。
type Message struct {
	Role    Role
	Content string

	// ToolCallID 仅在 Role 为 RoleTool 时填写，对应触发该结果的调用
	ToolCallID string
}
