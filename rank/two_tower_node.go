package rank

import (
	"context"
	"sort"

	"github.com/rushteam/seqkit/core"
	"github.com/rushteam/seqkit/dataset"
	"github.com/rushteam/seqkit/model"
	"github.com/rushteam/seqkit/pipeline"
	"github.com/rushteam/seqkit/pkg/utils"
)

// TwoTowerNode 是使用序列双塔模型的排序 Node。
// 对上游召回的候选重新打分：上下文向量只编码一次，逐个候选做内积。
type TwoTowerNode struct {
	// Model 是序列双塔模型
	Model *model.TwoTower

	// Log 是用户行为日志（读取排序用的上下文序列）
	Log *dataset.InteractionLog

	// ContextLength 是上下文窗口长度，默认 dataset.DefaultMaxContextLength
	ContextLength int
}

func (n *TwoTowerNode) Name() string        { return "rank.two_tower" }
func (n *TwoTowerNode) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *TwoTowerNode) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if n.Model == nil || n.Log == nil || len(items) == 0 || rctx == nil || rctx.UserID == "" {
		return items, nil
	}

	contextLength := n.ContextLength
	if contextLength <= 0 {
		contextLength = dataset.DefaultMaxContextLength
	}

	contextItems, err := n.Log.RecentItems(ctx, rctx.UserID, contextLength)
	if err != nil {
		return nil, err
	}
	if len(contextItems) == 0 {
		return items, nil // 冷启动用户保持召回顺序
	}

	candidates := make([]int64, 0, len(items))
	for _, it := range items {
		if it != nil {
			candidates = append(candidates, it.ID)
		}
	}
	scored := n.Model.TopK(contextItems, candidates, 0)
	scores := make(map[int64]float64, len(scored))
	for _, sc := range scored {
		scores[sc.ItemID] = sc.Score
	}

	for _, it := range items {
		if it == nil {
			continue
		}
		it.Score = scores[it.ID]
		it.PutLabel("rank_model", utils.Label{Value: n.Model.Name(), Source: "rank"})
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i] == nil {
			return false
		}
		if items[j] == nil {
			return true
		}
		return items[i].Score > items[j].Score
	})
	return items, nil
}

var _ pipeline.Node = (*TwoTowerNode)(nil)
