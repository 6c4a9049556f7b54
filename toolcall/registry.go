package toolcall

import (
	"context"
	"fmt"

	"github.com/rushteam/seqkit/pkg/conv"
)

// ArgType 是工具参数类型。
type ArgType string

const (
	ArgString ArgType = "string"
	ArgNumber ArgType = "number"
	ArgBool   ArgType = "bool"
	ArgAny    ArgType = "any"
)

// ArgSpec 是单个参数的声明。声明顺序同时决定位置参数的映射顺序。
type ArgSpec struct {
	Name     string
	Type     ArgType
	Required bool
}

// Func 是工具实现。返回的字符串作为工具输出回填到对话。
type Func func(ctx context.Context, args map[string]any) (string, error)

// Registry 是显式构造的工具注册表（name -> 实现 + 参数 schema）。
// 不提供包级默认实例：调用方构造并传入，测试可用替身注册表。
type Registry struct {
	tools map[string]*tool
}

type tool struct {
	name string
	args []ArgSpec
	fn   Func
}

func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]*tool)}
}

// Register 注册一个工具。重复注册同名工具时覆盖。
func (r *Registry) Register(name string, args []ArgSpec, fn Func) {
	if name == "" || fn == nil {
		return
	}
	r.tools[name] = &tool{name: name, args: args, fn: fn}
}

// Has 返回工具是否已注册。
func (r *Registry) Has(name string) bool {
	_, ok := r.tools[name]
	return ok
}

// Dispatch 分发一次工具调用。
//
// 返回值语义：
//   - 未注册的工具名：返回 (Result{}, false)，调用被跳过，不产生结果
//   - 参数校验失败 / 工具返回错误 / 工具 panic：返回 (Result{Err: ...}, true)，
//     错误以描述文本回填，绝不向上抛
func (r *Registry) Dispatch(ctx context.Context, call ToolCall) (result Result, ok bool) {
	t, found := r.tools[call.Name]
	if !found {
		return Result{}, false
	}

	result = Result{CallID: call.ID, Name: call.Name}

	args, err := t.resolveArgs(call)
	if err != nil {
		result.Err = err.Error()
		return result, true
	}

	defer func() {
		if rec := recover(); rec != nil {
			result.Content = ""
			result.Err = fmt.Sprintf("tool %s panicked: %v", call.Name, rec)
			ok = true
		}
	}()

	content, err := t.fn(ctx, args)
	if err != nil {
		result.Err = fmt.Sprintf("tool %s failed: %v", call.Name, err)
		return result, true
	}
	result.Content = content
	return result, true
}

// DispatchAll 依次分发多个调用，未注册的工具被静默跳过。
func (r *Registry) DispatchAll(ctx context.Context, calls []ToolCall) []Result {
	results := make([]Result, 0, len(calls))
	for _, call := range calls {
		if res, ok := r.Dispatch(ctx, call); ok {
			results = append(results, res)
		}
	}
	return results
}

// resolveArgs 把位置参数映射为关键字参数，并按 schema 做类型校验/转换。
func (t *tool) resolveArgs(call ToolCall) (map[string]any, error) {
	args := make(map[string]any, len(call.Arguments)+len(call.Positional))
	for k, v := range call.Arguments {
		args[k] = v
	}

	if len(call.Positional) > len(t.args) {
		return nil, fmt.Errorf("tool %s: too many arguments: got %d, declared %d",
			t.name, len(call.Positional), len(t.args))
	}
	for i, v := range call.Positional {
		name := t.args[i].Name
		if _, dup := args[name]; dup {
			return nil, fmt.Errorf("tool %s: argument %s given both positionally and by name", t.name, name)
		}
		args[name] = v
	}

	for _, spec := range t.args {
		v, present := args[spec.Name]
		if !present {
			if spec.Required {
				return nil, fmt.Errorf("tool %s: missing required argument %s", t.name, spec.Name)
			}
			continue
		}
		coerced, err := coerceArg(v, spec.Type)
		if err != nil {
			return nil, fmt.Errorf("tool %s: argument %s: %v", t.name, spec.Name, err)
		}
		args[spec.Name] = coerced
	}

	// 未声明的参数是 schema 违例
	for k := range args {
		if !t.declared(k) {
			return nil, fmt.Errorf("tool %s: unknown argument %s", t.name, k)
		}
	}
	return args, nil
}

func (t *tool) declared(name string) bool {
	for _, spec := range t.args {
		if spec.Name == name {
			return true
		}
	}
	return false
}

func coerceArg(v any, typ ArgType) (any, error) {
	switch typ {
	case ArgString:
		if s, ok := conv.ToString(v); ok {
			return s, nil
		}
		return nil, fmt.Errorf("expected string, got %T", v)
	case ArgNumber:
		if f, ok := conv.ToFloat64(v); ok {
			return f, nil
		}
		return nil, fmt.Errorf("expected number, got %T", v)
	case ArgBool:
		if b, ok := v.(bool); ok {
			return b, nil
		}
		return nil, fmt.Errorf("expected bool, got %T", v)
	case ArgAny, "":
		return v, nil
	default:
		return nil, fmt.Errorf("unknown argument type %q", typ)
	}
}
