package model

import (
	"math"
	"math/rand"
)

// GRUEncoder 是序列编码器：把一段嵌入向量序列压缩为一个定长上下文向量。
//
// 实现标准 GRU 单元：
//
//	z = sigmoid(Wz·x + Uz·h + bz)   更新门
//	r = sigmoid(Wr·x + Ur·h + br)   重置门
//	g = tanh(Wh·x + Uh·(r⊙h) + bh)  候选状态
//	h' = (1-z)⊙h + z⊙g
//
// 最终隐状态即上下文向量。上下文向量与物品嵌入同维，直接做内积打分。
type GRUEncoder struct {
	// InputDim 是输入（嵌入）维度
	InputDim int

	// HiddenDim 是隐状态维度（等于打分用的上下文向量维度）
	HiddenDim int

	wz, uz, bz [][]float64
	wr, ur, br [][]float64
	wh, uh, bh [][]float64
}

// NewGRUEncoder 创建 GRU 编码器，seed 做确定性初始化。
func NewGRUEncoder(inputDim, hiddenDim int, seed int64) *GRUEncoder {
	if inputDim <= 0 {
		inputDim = 32
	}
	if hiddenDim <= 0 {
		hiddenDim = inputDim
	}

	rng := rand.New(rand.NewSource(seed))
	newMat := func(rows, cols int) [][]float64 {
		scale := 1.0 / math.Sqrt(float64(cols))
		m := make([][]float64, rows)
		for i := range m {
			m[i] = make([]float64, cols)
			for j := range m[i] {
				m[i][j] = (rng.Float64()*2 - 1) * scale
			}
		}
		return m
	}
	newBias := func(rows int) [][]float64 {
		m := make([][]float64, rows)
		for i := range m {
			m[i] = make([]float64, 1)
		}
		return m
	}

	return &GRUEncoder{
		InputDim:  inputDim,
		HiddenDim: hiddenDim,
		wz:        newMat(hiddenDim, inputDim),
		uz:        newMat(hiddenDim, hiddenDim),
		bz:        newBias(hiddenDim),
		wr:        newMat(hiddenDim, inputDim),
		ur:        newMat(hiddenDim, hiddenDim),
		br:        newBias(hiddenDim),
		wh:        newMat(hiddenDim, inputDim),
		uh:        newMat(hiddenDim, hiddenDim),
		bh:        newBias(hiddenDim),
	}
}

// Encode 依次喂入序列向量，返回最终隐状态。
// 空序列返回全零向量。
func (g *GRUEncoder) Encode(sequence [][]float64) []float64 {
	h := make([]float64, g.HiddenDim)
	for _, x := range sequence {
		h = g.step(x, h)
	}
	return h
}

func (g *GRUEncoder) step(x, h []float64) []float64 {
	z := make([]float64, g.HiddenDim)
	r := make([]float64, g.HiddenDim)
	next := make([]float64, g.HiddenDim)

	for i := 0; i < g.HiddenDim; i++ {
		z[i] = sigmoid(dotRow(g.wz[i], x) + dotRow(g.uz[i], h) + g.bz[i][0])
		r[i] = sigmoid(dotRow(g.wr[i], x) + dotRow(g.ur[i], h) + g.br[i][0])
	}
	for i := 0; i < g.HiddenDim; i++ {
		sum := dotRow(g.wh[i], x) + g.bh[i][0]
		for j := 0; j < g.HiddenDim; j++ {
			sum += g.uh[i][j] * r[j] * h[j]
		}
		cand := math.Tanh(sum)
		next[i] = (1-z[i])*h[i] + z[i]*cand
	}
	return next
}

func dotRow(row, v []float64) float64 {
	n := len(row)
	if len(v) < n {
		n = len(v)
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += row[i] * v[i]
	}
	return sum
}

func sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}
