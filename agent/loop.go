// Package agent 实现“生成 -> 提取工具调用 -> 分发 -> 回填”的对话循环。
//
// 循环本身不关心模型如何生成、调用如何标记：生成器与工具调用约定都是接口，
// 由调用方注入（见 toolcall.Convention / toolcall.Registry）。
package agent

import (
	"context"
	"fmt"

	"github.com/rushteam/seqkit/core"
	"github.com/rushteam/seqkit/toolcall"
)

// DefaultMaxTurns 是默认的最大工具轮数。
const DefaultMaxTurns = 8

// Generator 生成下一条助手消息。
// 实现方可以是真实的模型服务，测试里用脚本化的替身。
type Generator interface {
	Generate(ctx context.Context, messages []Message) (string, error)
}

// GeneratorFunc 把函数适配为 Generator。
type GeneratorFunc func(ctx context.Context, messages []Message) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, messages []Message) (string, error) {
	return f(ctx, messages)
}

// Loop 是工具调用对话循环。
//
// 每一轮：调用 Generator 生成 -> 用 Convention 提取至多一次工具调用 ->
// 经 Registry 分发 -> 结果以工具消息回填，进入下一轮。
//
// 终止条件（满足其一）：
//   - 生成文本中没有工具调用
//   - 调用的工具在 TerminalTools 中（结果仍回填，但不再生成）
//   - 工具轮数达到 MaxTurns
type Loop struct {
	Generator  Generator
	Convention toolcall.Convention
	Registry   *toolcall.Registry

	// MaxTurns 是最大工具轮数，默认 DefaultMaxTurns
	MaxTurns int

	// TerminalTools 中的工具调用成功后结束循环
	TerminalTools []string
}

// Run 从给定的初始消息开始运行循环，返回完整的对话消息序列。
// 返回的序列包含传入的初始消息。
func (l *Loop) Run(ctx context.Context, messages []Message) ([]Message, error) {
	if l.Generator == nil || l.Convention == nil || l.Registry == nil {
		return nil, core.NewDomainError(core.ModuleToolCall, core.ErrorCodeInvalidInput,
			"generator, convention and registry are required")
	}

	maxTurns := l.MaxTurns
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}

	history := make([]Message, len(messages))
	copy(history, messages)

	for turn := 0; ; turn++ {
		select {
		case <-ctx.Done():
			return history, ctx.Err()
		default:
		}

		content, err := l.Generator.Generate(ctx, history)
		if err != nil {
			return history, fmt.Errorf("generate turn %d: %w", turn, err)
		}

		calls, cleaned := l.Convention.Parse(content)
		history = append(history, Message{Role: RoleAssistant, Content: content})

		if len(calls) == 0 {
			return history, nil
		}

		// 每轮只处理第一个调用，多余的调用忽略
		call := calls[0]
		result, ok := l.Registry.Dispatch(ctx, call)
		if !ok {
			// 未注册的工具：视为没有工具调用，本轮文本就是最终回复
			history[len(history)-1].Content = cleaned
			return history, nil
		}

		history = append(history, Message{
			Role:       RoleTool,
			Content:    l.Convention.FormatResults([]toolcall.Result{result}),
			ToolCallID: call.ID,
		})

		if !result.Failed() && l.isTerminal(call.Name) {
			return history, nil
		}

		if turn+1 >= maxTurns {
			return history, nil
		}
	}
}

func (l *Loop) isTerminal(name string) bool {
	for _, t := range l.TerminalTools {
		if t == name {
			return true
		}
	}
	return false
}
