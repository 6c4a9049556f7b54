// Package dataset 负责把用户行为记录切分为序列推荐的训练/评估样本。
//
// 核心流程：
//  1. 按 UserID 分组，组内按时间戳稳定升序排序
//  2. 丢弃长度不足 MinSequenceLength 的序列
//  3. 对每个切分点生成 (context, label) 样本，context 左侧补齐哨兵 0
//  4. leave-last-out 切分：label 为序列最后一次交互的样本进测试集，其余进训练集
//
// 切分策略保证用户最近一次交互不会泄漏进训练集。
package dataset

import (
	"fmt"
	"sort"

	"github.com/rushteam/seqkit/core"
)

// 默认窗口参数，与常见序列推荐设置保持一致。
const (
	DefaultMaxContextLength  = 10
	DefaultMinSequenceLength = 3
)

// Builder 把交互记录构建为训练/评估样本集。
type Builder struct {
	// MaxContextLength 是上下文窗口长度，所有样本的 context 恒为该长度
	MaxContextLength int

	// MinSequenceLength 是用户序列的最小长度，不足的用户整体丢弃。
	// 最小值为 2（1 条训练不了任何东西）；取 3 及以上可保证
	// 每个保留用户至少产出 1 条训练样本和 1 条测试样本。
	MinSequenceLength int
}

// Dataset 是一次构建的产出。
type Dataset struct {
	Train []core.Example
	Test  []core.Example
}

// NewBuilder 创建样本构建器，零值参数回落到默认值。
func NewBuilder(maxContextLength, minSequenceLength int) *Builder {
	if maxContextLength <= 0 {
		maxContextLength = DefaultMaxContextLength
	}
	if minSequenceLength <= 0 {
		minSequenceLength = DefaultMinSequenceLength
	}
	return &Builder{
		MaxContextLength:  maxContextLength,
		MinSequenceLength: minSequenceLength,
	}
}

// Build 从交互记录构建样本集。
// 每个长度为 n（n >= MinSequenceLength）的用户序列产出 n-1 条样本，其中恰好 1 条测试样本。
func (b *Builder) Build(interactions []core.Interaction) (*Dataset, error) {
	if b.MaxContextLength <= 0 {
		return nil, core.NewDomainError(core.ModuleDataset, core.ErrorCodeInvalidInput,
			fmt.Sprintf("dataset: max context length must be positive, got %d", b.MaxContextLength))
	}
	if b.MinSequenceLength < 2 {
		return nil, core.NewDomainError(core.ModuleDataset, core.ErrorCodeInvalidInput,
			fmt.Sprintf("dataset: min sequence length must be >= 2, got %d", b.MinSequenceLength))
	}

	groups := core.GroupByUser(interactions)

	// map 遍历无序，按 UserID 排序保证产出可复现
	userIDs := make([]string, 0, len(groups))
	for uid := range groups {
		userIDs = append(userIDs, uid)
	}
	sort.Strings(userIDs)

	ds := &Dataset{}
	for _, uid := range userIDs {
		seq := groups[uid]
		seq.SortByTime()
		b.appendUserExamples(ds, seq)
	}
	return ds, nil
}

// BuildFromSequence 对单个已排序的用户序列构建样本，追加到 ds。
// 序列长度不足 MinSequenceLength 时不产出任何样本。
func (b *Builder) BuildFromSequence(ds *Dataset, seq *core.UserSequence) {
	b.appendUserExamples(ds, seq)
}

func (b *Builder) appendUserExamples(ds *Dataset, seq *core.UserSequence) {
	n := seq.Len()
	if n < b.MinSequenceLength {
		return
	}

	items := seq.ItemIDs()
	for i := 1; i < n; i++ {
		lo := i - b.MaxContextLength
		if lo < 0 {
			lo = 0
		}
		ex := core.Example{
			UserID:  seq.UserID,
			Context: padLeft(items[lo:i], b.MaxContextLength),
			Label:   items[i],
		}
		// label 是用户最后一次交互 -> 测试集，防止最近行为泄漏进训练
		if i == n-1 {
			ds.Test = append(ds.Test, ex)
		} else {
			ds.Train = append(ds.Train, ex)
		}
	}
}

// padLeft 把 window 左侧补齐哨兵 0 到固定长度 length。
func padLeft(window []int64, length int) []int64 {
	out := make([]int64, length)
	copy(out[length-len(window):], window)
	return out
}
