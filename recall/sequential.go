package recall

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rushteam/seqkit/core"
	"github.com/rushteam/seqkit/dataset"
	"github.com/rushteam/seqkit/model"
	"github.com/rushteam/seqkit/pipeline"
	"github.com/rushteam/seqkit/pkg/utils"
)

// SequentialRecall 是基于序列双塔模型的召回源。
//
// 核心流程：
//  1. 从行为日志读取用户最近的上下文序列
//  2. 双塔模型编码上下文，对候选集做内积打分
//  3. 返回 TopK 候选
//
// 候选集来源（按优先级）：
//  1. CandidateKey 指定的有序集合（如热门榜单 key）
//  2. Candidates 内存列表
//
// FeatureService 可选：设置后把用户特征写入物品 Meta（user_ 前缀），
// 供下游 Node（规则过滤/业务重排）使用，不参与双塔打分。
type SequentialRecall struct {
	// Log 是用户行为日志
	Log *dataset.InteractionLog

	// Model 是序列双塔模型
	Model *model.TwoTower

	// Candidates 是候选物品列表（内存 fallback）
	Candidates []int64

	// CandidateKey 是候选集在 Store 中的有序集合 key（可选）
	CandidateKey string

	// ContextLength 是上下文窗口长度，默认 dataset.DefaultMaxContextLength
	ContextLength int

	// TopK 返回 TopK 个物品，默认 100
	TopK int

	// FeatureService 可选的特征服务（用户特征补充）
	FeatureService core.FeatureService
}

func (r *SequentialRecall) Name() string        { return "recall.sequential" }
func (r *SequentialRecall) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall。
func (r *SequentialRecall) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口，执行序列召回流程。
func (r *SequentialRecall) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if r.Model == nil || r.Log == nil || rctx == nil || rctx.UserID == "" {
		return nil, nil
	}

	contextLength := r.ContextLength
	if contextLength <= 0 {
		contextLength = dataset.DefaultMaxContextLength
	}
	topK := r.TopK
	if topK <= 0 {
		topK = 100
	}

	// 1. 读取用户上下文序列
	contextItems, err := r.Log.RecentItems(ctx, rctx.UserID, contextLength)
	if err != nil {
		return nil, fmt.Errorf("read user context: %w", err)
	}
	if len(contextItems) == 0 {
		return nil, nil // 冷启动用户交给其他召回源（如 Hot）
	}

	// 2. 收集候选集
	candidates, err := r.collectCandidates(ctx)
	if err != nil {
		return nil, fmt.Errorf("collect candidates: %w", err)
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	// 3. 打分取 TopK
	scored := r.Model.TopK(contextItems, candidates, topK)

	// 4. 可选：补充用户特征
	var userFeatures map[string]float64
	if r.FeatureService != nil {
		if feats, err := r.FeatureService.GetUserFeatures(ctx, rctx.UserID); err == nil {
			userFeatures = feats
		}
	}

	out := make([]*core.Item, 0, len(scored))
	for _, sc := range scored {
		it := core.NewItem(sc.ItemID)
		it.Score = sc.Score
		it.PutLabel("recall_source", utils.Label{Value: "sequential", Source: "recall"})
		it.PutLabel("recall_model", utils.Label{Value: r.Model.Name(), Source: "recall"})
		for k, v := range userFeatures {
			it.Meta["user_"+k] = v
		}
		out = append(out, it)
	}
	return out, nil
}

// collectCandidates 收集候选物品 ID：优先 Store 有序集合，其次内存列表。
func (r *SequentialRecall) collectCandidates(ctx context.Context) ([]int64, error) {
	if r.CandidateKey != "" && r.Log != nil && r.Log.Store != nil {
		members, err := r.Log.Store.ZRange(ctx, r.CandidateKey, 0, -1)
		if err != nil && !core.IsStoreNotFound(err) {
			return nil, err
		}
		if len(members) > 0 {
			ids := make([]int64, 0, len(members))
			for _, m := range members {
				if id, err := strconv.ParseInt(m, 10, 64); err == nil {
					ids = append(ids, id)
				}
			}
			return ids, nil
		}
	}
	return r.Candidates, nil
}

var _ Source = (*SequentialRecall)(nil)
var _ pipeline.Node = (*SequentialRecall)(nil)
