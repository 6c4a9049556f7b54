package toolcall

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// parseCallExpr 把一条调用表达式解析为 (工具名, 位置参数, 关键字参数)。
//
// 支持的形态：
//
//	get_weather("beijing")
//	find_flights("PEK", "SHA", date="2024-05-01")
//	book(flight_id=3, seats=2, window=true)
//
// 参数字面量：单/双引号字符串、数字、true/false/none/null。
// 不支持嵌套调用、列表、运算——这是查表分发的入参，不是一门语言。
func parseCallExpr(expr string) (name string, positional []any, keyword map[string]any, err error) {
	expr = strings.TrimSpace(expr)

	open := strings.IndexByte(expr, '(')
	if open <= 0 || !strings.HasSuffix(expr, ")") {
		return "", nil, nil, fmt.Errorf("not a call expression: %q", expr)
	}

	name = strings.TrimSpace(expr[:open])
	if !isIdent(name) {
		return "", nil, nil, fmt.Errorf("invalid tool name: %q", name)
	}

	keyword = make(map[string]any)
	argsStr := expr[open+1 : len(expr)-1]
	if strings.TrimSpace(argsStr) == "" {
		return name, nil, keyword, nil
	}

	for _, raw := range splitArgs(argsStr) {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return "", nil, nil, fmt.Errorf("empty argument in %q", expr)
		}

		if key, valStr, ok := splitKeyword(raw); ok {
			val, err := parseLiteral(valStr)
			if err != nil {
				return "", nil, nil, err
			}
			if _, dup := keyword[key]; dup {
				return "", nil, nil, fmt.Errorf("duplicate keyword argument %s", key)
			}
			keyword[key] = val
			continue
		}

		if len(keyword) > 0 {
			return "", nil, nil, fmt.Errorf("positional argument after keyword argument in %q", expr)
		}
		val, err := parseLiteral(raw)
		if err != nil {
			return "", nil, nil, err
		}
		positional = append(positional, val)
	}
	return name, positional, keyword, nil
}

// splitArgs 在顶层逗号处切分参数串（引号内的逗号不切分）。
func splitArgs(s string) []string {
	var (
		parts []string
		start int
		quote byte // 0 表示不在引号内
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++ // 跳过转义字符
			} else if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == ',':
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	parts = append(parts, s[start:])
	return parts
}

// splitKeyword 识别 key=value 形态（引号内与 == 不算）。
func splitKeyword(s string) (key, val string, ok bool) {
	if s == "" || s[0] == '\'' || s[0] == '"' {
		return "", "", false
	}
	eq := strings.IndexByte(s, '=')
	if eq <= 0 || (eq+1 < len(s) && s[eq+1] == '=') {
		return "", "", false
	}
	key = strings.TrimSpace(s[:eq])
	if !isIdent(key) {
		return "", "", false
	}
	return key, strings.TrimSpace(s[eq+1:]), true
}

// parseLiteral 解析参数字面量。
func parseLiteral(s string) (any, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty literal")
	}

	if s[0] == '\'' || s[0] == '"' {
		if len(s) < 2 || s[len(s)-1] != s[0] {
			return nil, fmt.Errorf("unterminated string literal: %q", s)
		}
		inner := s[1 : len(s)-1]
		inner = strings.ReplaceAll(inner, `\`+string(s[0]), string(s[0]))
		inner = strings.ReplaceAll(inner, `\\`, `\`)
		return inner, nil
	}

	switch strings.ToLower(s) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	case "none", "null":
		return nil, nil
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f, nil
	}
	return nil, fmt.Errorf("unsupported literal: %q", s)
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) {
			continue
		}
		if i > 0 && unicode.IsDigit(r) {
			continue
		}
		return false
	}
	return true
}
