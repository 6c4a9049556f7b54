package store

import (
	"context"
	"reflect"
	"testing"

	"github.com/rushteam/seqkit/core"
)

func TestMemoryStore_GetSet(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	ctx := context.Background()

	if _, err := s.Get(ctx, "missing"); !core.IsStoreNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}

	if err := s.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatal(err)
	}
	got, err := s.Get(ctx, "k")
	if err != nil || string(got) != "v" {
		t.Fatalf("Get = %q, %v", got, err)
	}

	if err := s.Delete(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(ctx, "k"); !core.IsStoreNotFound(err) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestMemoryStore_BatchOps(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	ctx := context.Background()

	if err := s.BatchSet(ctx, map[string][]byte{"a": []byte("1"), "b": []byte("2")}); err != nil {
		t.Fatal(err)
	}
	got, err := s.BatchGet(ctx, []string{"a", "b", "missing"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || string(got["a"]) != "1" || string(got["b"]) != "2" {
		t.Errorf("BatchGet = %#v", got)
	}
}

func TestMemoryStore_ZSetOrdering(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	ctx := context.Background()

	for _, m := range []struct {
		member string
		score  float64
	}{
		{"10", 100}, {"20", 200}, {"30", 150},
	} {
		if err := s.ZAdd(ctx, "z", m.score, m.member); err != nil {
			t.Fatal(err)
		}
	}

	asc, err := s.ZRangeAsc(ctx, "z", 0, -1)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(asc, []string{"10", "30", "20"}) {
		t.Errorf("ZRangeAsc = %v", asc)
	}

	desc, err := s.ZRange(ctx, "z", 0, -1)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(desc, []string{"20", "30", "10"}) {
		t.Errorf("ZRange = %v", desc)
	}

	score, err := s.ZScore(ctx, "z", "30")
	if err != nil || score != 150 {
		t.Errorf("ZScore = %v, %v", score, err)
	}
	if _, err := s.ZScore(ctx, "z", "99"); !core.IsStoreNotFound(err) {
		t.Errorf("expected not found for missing member, got %v", err)
	}
}

func TestMemoryStore_ZSetEqualScoresKeepInsertionOrder(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	ctx := context.Background()

	for _, m := range []string{"c", "a", "b"} {
		if err := s.ZAdd(ctx, "z", 5, m); err != nil {
			t.Fatal(err)
		}
	}
	asc, err := s.ZRangeAsc(ctx, "z", 0, -1)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(asc, []string{"c", "a", "b"}) {
		t.Errorf("equal scores should keep insertion order, got %v", asc)
	}
}

func TestMemoryStore_ZAddUpdatesScore(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	ctx := context.Background()

	if err := s.ZAdd(ctx, "z", 1, "m"); err != nil {
		t.Fatal(err)
	}
	if err := s.ZAdd(ctx, "z", 9, "m"); err != nil {
		t.Fatal(err)
	}

	asc, err := s.ZRangeAsc(ctx, "z", 0, -1)
	if err != nil {
		t.Fatal(err)
	}
	if len(asc) != 1 {
		t.Fatalf("duplicate member should update, got %v", asc)
	}
	score, err := s.ZScore(ctx, "z", "m")
	if err != nil || score != 9 {
		t.Errorf("ZScore = %v, %v", score, err)
	}
}

func TestMemoryStore_ZRangeSlicing(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	ctx := context.Background()

	for i, m := range []string{"a", "b", "c", "d"} {
		if err := s.ZAdd(ctx, "z", float64(i), m); err != nil {
			t.Fatal(err)
		}
	}

	got, err := s.ZRangeAsc(ctx, "z", 1, 2)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, []string{"b", "c"}) {
		t.Errorf("ZRangeAsc(1,2) = %v", got)
	}

	got, err = s.ZRangeAsc(ctx, "z", 0, 100)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 4 {
		t.Errorf("stop beyond length should clamp, got %v", got)
	}
}

func TestMemoryStore_Hash(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	ctx := context.Background()

	if err := s.HSet(ctx, "h", "f1", []byte("v1")); err != nil {
		t.Fatal(err)
	}
	if err := s.HSet(ctx, "h", "f2", []byte("v2")); err != nil {
		t.Fatal(err)
	}

	got, err := s.HGet(ctx, "h", "f1")
	if err != nil || string(got) != "v1" {
		t.Fatalf("HGet = %q, %v", got, err)
	}

	all, err := s.HGetAll(ctx, "h")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 || string(all["f2"]) != "v2" {
		t.Errorf("HGetAll = %#v", all)
	}
}
