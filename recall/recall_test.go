package recall

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rushteam/seqkit/core"
	"github.com/rushteam/seqkit/dataset"
	"github.com/rushteam/seqkit/model"
	"github.com/rushteam/seqkit/store"
)

func newLog(t *testing.T, userID string, itemIDs ...int64) *dataset.InteractionLog {
	t.Helper()
	s := store.NewMemoryStore()
	t.Cleanup(func() { s.Close() })

	log := &dataset.InteractionLog{Store: s}
	for i, id := range itemIDs {
		if err := log.Append(context.Background(), core.Interaction{
			UserID:    userID,
			ItemID:    id,
			Timestamp: int64(1000 + i),
		}); err != nil {
			t.Fatal(err)
		}
	}
	return log
}

func TestSequentialRecall(t *testing.T) {
	log := newLog(t, "u1", 1, 2, 3)
	m := model.NewTwoTower(100)

	r := &SequentialRecall{
		Log:        log,
		Model:      m,
		Candidates: []int64{4, 5, 6, 7},
		TopK:       2,
	}

	items, err := r.Recall(context.Background(), &core.RecommendContext{UserID: "u1"})
	if err != nil {
		t.Fatalf("Recall: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Score < items[1].Score {
		t.Errorf("items should be score-descending: %v vs %v", items[0].Score, items[1].Score)
	}
	for _, it := range items {
		if label, ok := it.Labels["recall_source"]; !ok || label.Value != "sequential" {
			t.Errorf("item %d labels = %#v", it.ID, it.Labels)
		}
	}
}

func TestSequentialRecall_ColdStart(t *testing.T) {
	log := newLog(t, "other_user", 1)
	r := &SequentialRecall{
		Log:        log,
		Model:      model.NewTwoTower(100),
		Candidates: []int64{4, 5},
	}

	items, err := r.Recall(context.Background(), &core.RecommendContext{UserID: "cold_user"})
	if err != nil {
		t.Fatalf("Recall: %v", err)
	}
	if items != nil {
		t.Errorf("cold start user should yield nil, got %#v", items)
	}
}

func TestSequentialRecall_CandidateKey(t *testing.T) {
	log := newLog(t, "u1", 1, 2, 3)
	ctx := context.Background()
	for i, id := range []string{"10", "11", "12"} {
		if err := log.Store.ZAdd(ctx, "hot:candidates", float64(i), id); err != nil {
			t.Fatal(err)
		}
	}

	r := &SequentialRecall{
		Log:          log,
		Model:        model.NewTwoTower(100),
		CandidateKey: "hot:candidates",
		Candidates:   []int64{99}, // Store 有数据时不应使用
	}

	items, err := r.Recall(ctx, &core.RecommendContext{UserID: "u1"})
	if err != nil {
		t.Fatalf("Recall: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items from candidate key, got %d", len(items))
	}
	for _, it := range items {
		if it.ID == 99 {
			t.Error("memory fallback should not be used when store has candidates")
		}
	}
}

func TestHot_FallbackIDs(t *testing.T) {
	r := &Hot{IDs: []int64{7, 8}}
	items, err := r.Recall(context.Background(), nil)
	if err != nil {
		t.Fatalf("Recall: %v", err)
	}
	if len(items) != 2 || items[0].ID != 7 || items[1].ID != 8 {
		t.Errorf("items = %#v", items)
	}
}

func TestHot_FromStore(t *testing.T) {
	s := store.NewMemoryStore()
	defer s.Close()
	ctx := context.Background()
	for i, m := range []string{"1", "2", "3"} {
		if err := s.ZAdd(ctx, "hot:items", float64(i), m); err != nil {
			t.Fatal(err)
		}
	}

	r := &Hot{Store: s, Key: "hot:items", IDs: []int64{99}}
	items, err := r.Recall(ctx, nil)
	if err != nil {
		t.Fatalf("Recall: %v", err)
	}
	// ZRange 按分数降序
	if len(items) != 3 || items[0].ID != 3 {
		t.Errorf("items = %#v", items)
	}
}

func TestUserHistory(t *testing.T) {
	log := newLog(t, "u1", 1, 2, 3)
	r := &UserHistory{Log: log, TopK: 2}

	items, err := r.Recall(context.Background(), &core.RecommendContext{UserID: "u1"})
	if err != nil {
		t.Fatalf("Recall: %v", err)
	}
	// 最近的在前：3 然后 2
	if len(items) != 2 || items[0].ID != 3 || items[1].ID != 2 {
		t.Fatalf("items = %#v", items)
	}
	if items[0].Score <= items[1].Score {
		t.Errorf("recency decay: %v vs %v", items[0].Score, items[1].Score)
	}
}

// staticSource 返回固定的物品列表。
type staticSource struct {
	name  string
	ids   []int64
	err   error
	delay time.Duration
}

func (s *staticSource) Name() string { return s.name }

func (s *staticSource) Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	out := make([]*core.Item, 0, len(s.ids))
	for _, id := range s.ids {
		out = append(out, core.NewItem(id))
	}
	return out, nil
}

func TestFanout_OrderAndDedup(t *testing.T) {
	n := &Fanout{
		Sources: []Source{
			&staticSource{name: "first", ids: []int64{1, 2}},
			&staticSource{name: "second", ids: []int64{2, 3}},
		},
		Dedup: true,
	}

	items, err := n.Process(context.Background(), &core.RecommendContext{UserID: "u1"}, nil)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 deduped items, got %d", len(items))
	}
	// Sources 顺序决定输出顺序
	want := []int64{1, 2, 3}
	for i, it := range items {
		if it.ID != want[i] {
			t.Errorf("items[%d] = %d, want %d", i, it.ID, want[i])
		}
	}
	// ID 2 应保留优先级更高的来源，labels 不被低优先级副本覆盖或拼接
	if label := items[1].Labels["recall_source"]; label.Value != "first" {
		t.Errorf("dedup should keep highest priority source, got %q", label.Value)
	}
	if label := items[1].Labels["recall_priority"]; label.Value != "0" {
		t.Errorf("dedup should keep highest priority label, got %q", label.Value)
	}
}

func TestFanout_SourceErrorSwallowed(t *testing.T) {
	n := &Fanout{
		Sources: []Source{
			&staticSource{name: "broken", err: errors.New("backend down")},
			&staticSource{name: "ok", ids: []int64{5}},
		},
	}

	items, err := n.Process(context.Background(), &core.RecommendContext{UserID: "u1"}, nil)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(items) != 1 || items[0].ID != 5 {
		t.Errorf("items = %#v", items)
	}
}

func TestFanout_Timeout(t *testing.T) {
	n := &Fanout{
		Sources: []Source{
			&staticSource{name: "slow", ids: []int64{1}, delay: 500 * time.Millisecond},
			&staticSource{name: "fast", ids: []int64{2}},
		},
		Timeout: 50 * time.Millisecond,
	}

	items, err := n.Process(context.Background(), &core.RecommendContext{UserID: "u1"}, nil)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(items) != 1 || items[0].ID != 2 {
		t.Errorf("slow source should time out, items = %#v", items)
	}
}
