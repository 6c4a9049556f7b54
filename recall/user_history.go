package recall

import (
	"context"

	"github.com/rushteam/seqkit/core"
	"github.com/rushteam/seqkit/dataset"
	"github.com/rushteam/seqkit/pipeline"
	"github.com/rushteam/seqkit/pkg/utils"
)

// UserHistory 是基于用户历史行为的召回源：直接返回最近交互过的物品
// （“继续观看”类场景），分数按新近度递减。
type UserHistory struct {
	// Log 是用户行为日志
	Log *dataset.InteractionLog

	// TopK 返回最近 TopK 个物品，默认 20
	TopK int
}

func (r *UserHistory) Name() string        { return "recall.user_history" }
func (r *UserHistory) Kind() pipeline.Kind { return pipeline.KindRecall }

func (r *UserHistory) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

func (r *UserHistory) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if r.Log == nil || rctx == nil || rctx.UserID == "" {
		return nil, nil
	}

	topK := r.TopK
	if topK <= 0 {
		topK = 20
	}

	items, err := r.Log.RecentItems(ctx, rctx.UserID, topK)
	if err != nil {
		return nil, err
	}

	// 最近的排前面，分数按新近度线性衰减
	out := make([]*core.Item, 0, len(items))
	for i := len(items) - 1; i >= 0; i-- {
		it := core.NewItem(items[i])
		it.Score = float64(i+1) / float64(len(items))
		it.PutLabel("recall_source", utils.Label{Value: "user_history", Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}

var _ Source = (*UserHistory)(nil)
var _ pipeline.Node = (*UserHistory)(nil)
