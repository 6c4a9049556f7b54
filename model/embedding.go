package model

import "math/rand"

// Embedding 是物品嵌入表：vocabSize 行，每行 dim 维。
//
// 第 0 行是哨兵（补齐位）行，固定为零向量且不参与初始化，
// 保证左侧补齐的上下文位不贡献任何信号。
type Embedding struct {
	// Dim 是嵌入维度
	Dim int

	// VocabSize 是词表大小（物品 ID 空间上界 + 1）
	VocabSize int

	rows [][]float64
}

// NewEmbedding 创建嵌入表，使用 seed 做确定性初始化（便于测试与复现）。
// 初始化为 [-0.05, 0.05) 均匀分布。
func NewEmbedding(vocabSize, dim int, seed int64) *Embedding {
	if vocabSize < 1 {
		vocabSize = 1
	}
	if dim <= 0 {
		dim = 32
	}

	rng := rand.New(rand.NewSource(seed))
	rows := make([][]float64, vocabSize)
	for i := range rows {
		row := make([]float64, dim)
		if i > 0 { // 第 0 行保持零向量
			for j := range row {
				row[j] = (rng.Float64() - 0.5) * 0.1
			}
		}
		rows[i] = row
	}
	return &Embedding{Dim: dim, VocabSize: vocabSize, rows: rows}
}

// Lookup 返回物品的嵌入向量。越界 ID 返回零向量（与哨兵同义）。
// 返回的切片是内部存储，调用方不应修改。
func (e *Embedding) Lookup(id int64) []float64 {
	if id < 0 || id >= int64(e.VocabSize) {
		return e.rows[0]
	}
	return e.rows[id]
}

// SetRow 覆盖一行嵌入（用于加载离线训练好的参数）。
// 哨兵行（id 0）不可覆盖，维度不符时忽略。
func (e *Embedding) SetRow(id int64, vec []float64) {
	if id <= 0 || id >= int64(e.VocabSize) || len(vec) != e.Dim {
		return
	}
	copy(e.rows[id], vec)
}
