package toolcall

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func weatherTool() (string, []ArgSpec, Func) {
	return "get_weather",
		[]ArgSpec{
			{Name: "city", Type: ArgString, Required: true},
			{Name: "unit", Type: ArgString},
		},
		func(ctx context.Context, args map[string]any) (string, error) {
			unit := "c"
			if u, ok := args["unit"].(string); ok && u != "" {
				unit = u
			}
			return fmt.Sprintf("%s: 25%s", args["city"], unit), nil
		}
}

func TestRegistry_Dispatch(t *testing.T) {
	r := NewRegistry()
	r.Register(weatherTool())

	res, ok := r.Dispatch(context.Background(), ToolCall{
		ID:        "id-1",
		Name:      "get_weather",
		Arguments: map[string]any{"city": "beijing"},
	})
	if !ok {
		t.Fatal("expected dispatch to find the tool")
	}
	if res.Failed() {
		t.Fatalf("unexpected failure: %s", res.Err)
	}
	if res.CallID != "id-1" || res.Content != "beijing: 25c" {
		t.Errorf("result = %#v", res)
	}
}

func TestRegistry_Dispatch_PositionalMapping(t *testing.T) {
	r := NewRegistry()
	r.Register(weatherTool())

	res, ok := r.Dispatch(context.Background(), ToolCall{
		Name:       "get_weather",
		Positional: []any{"shanghai", "f"},
	})
	if !ok || res.Failed() {
		t.Fatalf("dispatch failed: ok=%v err=%s", ok, res.Err)
	}
	if res.Content != "shanghai: 25f" {
		t.Errorf("content = %q", res.Content)
	}
}

func TestRegistry_Dispatch_UnknownTool(t *testing.T) {
	r := NewRegistry()
	r.Register(weatherTool())

	if _, ok := r.Dispatch(context.Background(), ToolCall{Name: "nonexistent"}); ok {
		t.Error("expected unknown tool to be skipped")
	}
}

func TestRegistry_Dispatch_ArgValidation(t *testing.T) {
	r := NewRegistry()
	r.Register(weatherTool())

	tests := []struct {
		name    string
		call    ToolCall
		wantErr string
	}{
		{
			name:    "missing required",
			call:    ToolCall{Name: "get_weather", Arguments: map[string]any{"unit": "f"}},
			wantErr: "missing required argument city",
		},
		{
			name:    "unknown argument",
			call:    ToolCall{Name: "get_weather", Arguments: map[string]any{"city": "x", "planet": "mars"}},
			wantErr: "unknown argument planet",
		},
		{
			name:    "too many positional",
			call:    ToolCall{Name: "get_weather", Positional: []any{"a", "b", "c"}},
			wantErr: "too many arguments",
		},
		{
			name: "positional and keyword collide",
			call: ToolCall{
				Name:       "get_weather",
				Positional: []any{"a"},
				Arguments:  map[string]any{"city": "b"},
			},
			wantErr: "both positionally and by name",
		},
		{
			name:    "type mismatch",
			call:    ToolCall{Name: "get_weather", Arguments: map[string]any{"city": []any{1}}},
			wantErr: "argument city",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, ok := r.Dispatch(context.Background(), tt.call)
			if !ok {
				t.Fatal("expected a result for a registered tool")
			}
			if !res.Failed() || !strings.Contains(res.Err, tt.wantErr) {
				t.Errorf("err = %q, want contains %q", res.Err, tt.wantErr)
			}
		})
	}
}

func TestRegistry_Dispatch_NumberCoercion(t *testing.T) {
	r := NewRegistry()
	r.Register("book",
		[]ArgSpec{{Name: "seats", Type: ArgNumber, Required: true}},
		func(ctx context.Context, args map[string]any) (string, error) {
			return fmt.Sprintf("%v", args["seats"]), nil
		})

	res, _ := r.Dispatch(context.Background(), ToolCall{
		Name:      "book",
		Arguments: map[string]any{"seats": float64(2)},
	})
	if res.Failed() || res.Content != "2" {
		t.Errorf("result = %#v", res)
	}
}

func TestRegistry_Dispatch_ToolError(t *testing.T) {
	r := NewRegistry()
	r.Register("boom", nil, func(ctx context.Context, args map[string]any) (string, error) {
		return "", errors.New("backend down")
	})

	res, ok := r.Dispatch(context.Background(), ToolCall{Name: "boom"})
	if !ok {
		t.Fatal("expected a result")
	}
	if !res.Failed() || !strings.Contains(res.Err, "backend down") {
		t.Errorf("err = %q", res.Err)
	}
}

func TestRegistry_Dispatch_PanicRecovery(t *testing.T) {
	r := NewRegistry()
	r.Register("panicky", nil, func(ctx context.Context, args map[string]any) (string, error) {
		panic("oops")
	})

	res, ok := r.Dispatch(context.Background(), ToolCall{Name: "panicky"})
	if !ok {
		t.Fatal("expected a result")
	}
	if !res.Failed() || !strings.Contains(res.Err, "panicked") {
		t.Errorf("err = %q", res.Err)
	}

	// DispatchAll 也必须保留 panic 转换出的错误结果，不得当作未注册跳过
	results := r.DispatchAll(context.Background(), []ToolCall{{Name: "panicky"}})
	if len(results) != 1 || !results[0].Failed() {
		t.Errorf("results = %#v, want one failed result", results)
	}
}

func TestRegistry_DispatchAll_SkipsUnknown(t *testing.T) {
	r := NewRegistry()
	r.Register(weatherTool())

	results := r.DispatchAll(context.Background(), []ToolCall{
		{Name: "nonexistent"},
		{Name: "get_weather", Arguments: map[string]any{"city": "beijing"}},
	})
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Name != "get_weather" {
		t.Errorf("result = %#v", results[0])
	}
}
