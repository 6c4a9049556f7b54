package filter

import (
	"context"

	"github.com/rushteam/seqkit/core"
	"github.com/rushteam/seqkit/pkg/dsl"
)

// Rule 是基于 CEL 表达式的规则过滤器。
// Expr 返回 true 的物品被过滤掉，例如：
//
//	item.score < 0.1
//	label.recall_source == "hot" && item.score < 0.5
//
// 空表达式遵循 DSL 约定（视为恒真），会过滤所有物品；
// 不想过滤就不要挂这个 Filter。
type Rule struct {
	// Expr 是 CEL 表达式（见 pkg/dsl）
	Expr string
}

func (f *Rule) Name() string { return "filter.rule" }

func (f *Rule) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return false, nil
	}
	eval, err := dsl.NewEval(item, rctx)
	if err != nil {
		return false, err
	}
	return eval.Evaluate(f.Expr)
}

var _ Filter = (*Rule)(nil)
