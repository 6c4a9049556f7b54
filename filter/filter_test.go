package filter

import (
	"context"
	"errors"
	"testing"

	"github.com/rushteam/seqkit/core"
	"github.com/rushteam/seqkit/dataset"
	"github.com/rushteam/seqkit/pkg/utils"
	"github.com/rushteam/seqkit/store"
)

func TestSeen(t *testing.T) {
	s := store.NewMemoryStore()
	defer s.Close()
	ctx := context.Background()

	log := &dataset.InteractionLog{Store: s}
	if err := log.Append(ctx, core.Interaction{UserID: "u1", ItemID: 10, Timestamp: 1000}); err != nil {
		t.Fatal(err)
	}

	f := &Seen{Log: log}
	rctx := &core.RecommendContext{UserID: "u1"}

	seen, err := f.ShouldFilter(ctx, rctx, core.NewItem(10))
	if err != nil || !seen {
		t.Errorf("item 10 should be filtered: %v, %v", seen, err)
	}
	seen, err = f.ShouldFilter(ctx, rctx, core.NewItem(11))
	if err != nil || seen {
		t.Errorf("item 11 should pass: %v, %v", seen, err)
	}

	// 没有日志或用户时直接放行
	seen, err = (&Seen{}).ShouldFilter(ctx, rctx, core.NewItem(10))
	if err != nil || seen {
		t.Errorf("nil log should pass: %v, %v", seen, err)
	}
}

func TestRule(t *testing.T) {
	ctx := context.Background()
	rctx := &core.RecommendContext{UserID: "u1", Scene: "feed"}

	item := core.NewItem(1)
	item.Score = 0.3
	item.PutLabel("recall_source", utils.Label{Value: "hot", Source: "recall"})

	tests := []struct {
		expr string
		want bool
	}{
		{`item.score < 0.5`, true},
		{`item.score > 0.5`, false},
		{`label.recall_source == "hot"`, true},
		{`label.recall_source == "sequential"`, false},
		{`label.recall_source == "hot" && item.score < 0.5`, true},
		{`rctx.scene == "feed"`, true},
		{``, true}, // 空表达式恒真
	}
	for _, tt := range tests {
		f := &Rule{Expr: tt.expr}
		got, err := f.ShouldFilter(ctx, rctx, item)
		if err != nil {
			t.Errorf("expr %q: %v", tt.expr, err)
			continue
		}
		if got != tt.want {
			t.Errorf("expr %q = %v, want %v", tt.expr, got, tt.want)
		}
	}
}

type errFilter struct{}

func (errFilter) Name() string { return "filter.err" }
func (errFilter) ShouldFilter(ctx context.Context, rctx *core.RecommendContext, item *core.Item) (bool, error) {
	return true, errors.New("boom")
}

func TestNode(t *testing.T) {
	ctx := context.Background()
	rctx := &core.RecommendContext{UserID: "u1"}

	low := core.NewItem(1)
	low.Score = 0.1
	high := core.NewItem(2)
	high.Score = 0.9

	n := &Node{Filters: []Filter{
		errFilter{}, // 出错的过滤器应被跳过
		&Rule{Expr: "item.score < 0.5"},
	}}

	out, err := n.Process(ctx, rctx, []*core.Item{low, high, nil})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(out) != 1 || out[0].ID != 2 {
		t.Fatalf("out = %#v", out)
	}
	if label, ok := low.Labels["filtered"]; !ok || label.Value != "true" {
		t.Errorf("filtered item should be labeled, got %#v", low.Labels)
	}
}

func TestNode_NoFilters(t *testing.T) {
	items := []*core.Item{core.NewItem(1)}
	out, err := (&Node{}).Process(context.Background(), nil, items)
	if err != nil || len(out) != 1 {
		t.Fatalf("out = %#v, err = %v", out, err)
	}
}
