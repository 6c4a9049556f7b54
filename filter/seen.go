package filter

import (
	"context"

	"github.com/rushteam/seqkit/core"
	"github.com/rushteam/seqkit/dataset"
)

// Seen 过滤用户已经交互过的物品，避免重复推荐。
type Seen struct {
	// Log 是用户行为日志
	Log *dataset.InteractionLog
}

func (f *Seen) Name() string { return "filter.seen" }

func (f *Seen) ShouldFilter(
	ctx context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if f.Log == nil || rctx == nil || rctx.UserID == "" || item == nil {
		return false, nil
	}
	return f.Log.Seen(ctx, rctx.UserID, item.ID)
}

var _ Filter = (*Seen)(nil)
