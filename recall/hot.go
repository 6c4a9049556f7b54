package recall

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/rushteam/seqkit/core"
	"github.com/rushteam/seqkit/pipeline"
	"github.com/rushteam/seqkit/pkg/utils"
)

// Hot 是热门召回源，支持从 Store 读取热门物品列表。
// - 如果 Store 实现了 KeyValueStore，优先使用 ZRange（有序集合，按分数降序）
// - 否则从普通 key 读取 JSON 数组
// - 如果 Store 为空，使用内存中的 IDs 作为 fallback
//
// 冷启动用户（无行为序列）主要靠它兜底。
type Hot struct {
	Store core.Store
	Key   string  // 存储 key，例如 "hot:items"
	IDs   []int64 // fallback 内存列表
	TopK  int     // 从 Store 读取的数量上限，默认 100
}

func (r *Hot) Name() string        { return "recall.hot" }
func (r *Hot) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall。
func (r *Hot) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口。
func (r *Hot) Recall(
	ctx context.Context,
	_ *core.RecommendContext,
) ([]*core.Item, error) {
	topK := int64(r.TopK)
	if topK <= 0 {
		topK = 100
	}

	var ids []int64
	if r.Store != nil && r.Key != "" {
		if kv, ok := r.Store.(core.KeyValueStore); ok {
			members, err := kv.ZRange(ctx, r.Key, 0, topK-1)
			if err == nil {
				for _, m := range members {
					if id, err := strconv.ParseInt(m, 10, 64); err == nil {
						ids = append(ids, id)
					}
				}
			}
		} else {
			data, err := r.Store.Get(ctx, r.Key)
			if err == nil {
				var parsed []int64
				if json.Unmarshal(data, &parsed) == nil {
					ids = parsed
				}
			}
		}
	}

	// Fallback：使用内存 IDs
	if len(ids) == 0 {
		ids = r.IDs
	}

	out := make([]*core.Item, 0, len(ids))
	for _, id := range ids {
		it := core.NewItem(id)
		it.PutLabel("recall_source", utils.Label{Value: "hot", Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}

var _ Source = (*Hot)(nil)
var _ pipeline.Node = (*Hot)(nil)
