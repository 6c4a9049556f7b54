package model

import (
	"math"
	"sort"

	"github.com/rushteam/seqkit/core"
)

// TwoTower 是序列双塔打分模型（Query Tower + Candidate Tower）。
//
// 核心思想：
//   - Query Tower：GRU 编码用户最近的行为序列，得到上下文向量
//   - Candidate Tower：物品嵌入查表
//   - 相似度计算：上下文向量与物品嵌入的内积
//
// 约定：
//   - 两塔共享同一张物品嵌入表（序列输入与候选打分用同一套嵌入）
//   - 哨兵位（ID 0）嵌入固定为零，补齐不贡献信号
//   - 训练目标是 in-batch softmax：batch 内每条样本的 label 嵌入为正例，
//     其余样本的 label 嵌入为负例（batch×batch 单位阵标注）
type TwoTower struct {
	// Items 是物品嵌入表（两塔共享）
	Items *Embedding

	// Encoder 是行为序列编码器
	Encoder *GRUEncoder
}

// TwoTowerOption 双塔模型配置选项
type TwoTowerOption func(*twoTowerConfig)

type twoTowerConfig struct {
	embeddingDim int
	seed         int64
}

// WithEmbeddingDim 设置嵌入维度（默认 32）。
func WithEmbeddingDim(dim int) TwoTowerOption {
	return func(c *twoTowerConfig) {
		if dim > 0 {
			c.embeddingDim = dim
		}
	}
}

// WithSeed 设置参数初始化种子（默认 1，确定性初始化便于复现）。
func WithSeed(seed int64) TwoTowerOption {
	return func(c *twoTowerConfig) {
		c.seed = seed
	}
}

// NewTwoTower 创建双塔模型。vocabSize 是物品 ID 空间上界 + 1。
func NewTwoTower(vocabSize int, opts ...TwoTowerOption) *TwoTower {
	cfg := &twoTowerConfig{embeddingDim: 32, seed: 1}
	for _, opt := range opts {
		opt(cfg)
	}
	return &TwoTower{
		Items:   NewEmbedding(vocabSize, cfg.embeddingDim, cfg.seed),
		Encoder: NewGRUEncoder(cfg.embeddingDim, cfg.embeddingDim, cfg.seed+1),
	}
}

func (m *TwoTower) Name() string { return "two_tower" }

// EncodeContext 把一条（可含哨兵补齐的）上下文序列编码为向量。
// 哨兵位跳过，不参与编码。
func (m *TwoTower) EncodeContext(context []int64) []float64 {
	vectors := make([][]float64, 0, len(context))
	for _, id := range context {
		if id == core.SentinelItemID {
			continue
		}
		vectors = append(vectors, m.Items.Lookup(id))
	}
	return m.Encoder.Encode(vectors)
}

// Score 返回上下文与单个候选物品的内积分数。
func (m *TwoTower) Score(context []int64, itemID int64) float64 {
	return dotRow(m.EncodeContext(context), m.Items.Lookup(itemID))
}

// Scored 是一个带分数的候选。
type Scored struct {
	ItemID int64
	Score  float64
}

// TopK 对候选集打分并返回分数降序的前 k 个。
// 上下文只编码一次，避免对每个候选重复跑编码器。
func (m *TwoTower) TopK(context []int64, candidates []int64, k int) []Scored {
	queryVec := m.EncodeContext(context)

	scored := make([]Scored, 0, len(candidates))
	for _, id := range candidates {
		scored = append(scored, Scored{
			ItemID: id,
			Score:  dotRow(queryVec, m.Items.Lookup(id)),
		})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if k > 0 && len(scored) > k {
		scored = scored[:k]
	}
	return scored
}

// BatchLoss 计算一个 batch 的 in-batch softmax 交叉熵。
//
// 对第 i 条样本，logits[i][j] = <context_i, label_j 嵌入>，
// 目标分布是单位阵（自己的 label 是正例，batch 内其他 label 是负例），
// loss_i = -log softmax(logits[i])[i]，返回 batch 均值。
func (m *TwoTower) BatchLoss(batch []core.Example) float64 {
	n := len(batch)
	if n == 0 {
		return 0
	}

	queries := make([][]float64, n)
	labels := make([][]float64, n)
	for i, ex := range batch {
		queries[i] = m.EncodeContext(ex.Context)
		labels[i] = m.Items.Lookup(ex.Label)
	}

	total := 0.0
	for i := 0; i < n; i++ {
		logits := make([]float64, n)
		maxLogit := math.Inf(-1)
		for j := 0; j < n; j++ {
			logits[j] = dotRow(queries[i], labels[j])
			if logits[j] > maxLogit {
				maxLogit = logits[j]
			}
		}
		// log-sum-exp，减去最大值保证数值稳定
		sumExp := 0.0
		for j := 0; j < n; j++ {
			sumExp += math.Exp(logits[j] - maxLogit)
		}
		total += -(logits[i] - maxLogit - math.Log(sumExp))
	}
	return total / float64(n)
}
