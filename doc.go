// Package seqkit 是一个序列推荐工具包（Sequence Recommender Kit）。
//
// 设计要点：
// - Pipeline-first: 推荐逻辑通过 Node 串联（Recall → Filter → Rank）
// - Labels-first: labels 全链路透传与标准化 merge，支持 explain / 观测 / 策略驱动
// - 序列样本: dataset 包从交互日志构建定长上下文样本（留一法切分）
// - 双塔模型: model 包提供序列编码 + 点积打分 + in-batch softmax 损失
// - 工具调用: toolcall/agent 包从生成文本提取工具调用并驱动对话循环
package seqkit

import "github.com/rushteam/seqkit/pipeline"

// 轻量 facade：便于用户直接 import "seqkit" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindRecall      = pipeline.KindRecall
	KindFilter      = pipeline.KindFilter
	KindRank        = pipeline.KindRank
	KindPostProcess = pipeline.KindPostProcess
)
