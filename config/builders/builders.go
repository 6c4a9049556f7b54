// Package builders 在 init 中注册内置 Node 的配置构建器。
// 入口处 import _ "github.com/rushteam/seqkit/config/builders" 即可启用配置驱动。
package builders

import (
	"fmt"
	"time"

	"github.com/rushteam/seqkit/config"
	"github.com/rushteam/seqkit/filter"
	"github.com/rushteam/seqkit/pipeline"
	"github.com/rushteam/seqkit/pkg/conv"
	"github.com/rushteam/seqkit/recall"
)

func init() {
	config.Register("recall.fanout", BuildFanoutNode)
	config.Register("recall.hot", BuildHotNode)
	config.Register("recall.sequential", BuildSequentialNode)
	config.Register("filter", BuildFilterNode)
	config.Register("rank.two_tower", BuildTwoTowerNode)
}

func BuildFanoutNode(cfg map[string]interface{}) (pipeline.Node, error) {
	sourcesConfig, ok := cfg["sources"].([]interface{})
	if !ok {
		return nil, fmt.Errorf("sources not found or invalid")
	}
	sources := make([]recall.Source, 0, len(sourcesConfig))
	for _, sc := range sourcesConfig {
		sourceMap, ok := sc.(map[string]interface{})
		if !ok {
			continue
		}
		sourceType := conv.ConfigGet(sourceMap, "type", "")
		switch sourceType {
		case "hot":
			src, err := buildHot(sourceMap)
			if err != nil {
				return nil, err
			}
			sources = append(sources, src)
		case "sequential":
			// 序列召回需要 InteractionLog 与训练好的模型，暂未从配置构建
			return nil, fmt.Errorf("sequential source requires a model, wire it in code")
		default:
			return nil, fmt.Errorf("unknown source type: %s", sourceType)
		}
	}
	fanout := &recall.Fanout{
		Sources: sources,
		Dedup:   conv.ConfigGet(cfg, "dedup", true),
	}
	if sec := conv.ConfigGetInt64(cfg, "timeout", 0); sec > 0 {
		fanout.Timeout = time.Duration(sec) * time.Second
	}
	if n := conv.ConfigGetInt64(cfg, "max_concurrent", 0); n > 0 {
		fanout.MaxConcurrent = int(n)
	}
	return fanout, nil
}

func BuildHotNode(cfg map[string]interface{}) (pipeline.Node, error) {
	return buildHot(cfg)
}

func buildHot(cfg map[string]interface{}) (*recall.Hot, error) {
	ids := conv.SliceAnyToInt64(cfg["ids"])
	if ids == nil {
		ids = []int64{}
	}
	return &recall.Hot{
		IDs:  ids,
		Key:  conv.ConfigGet(cfg, "key", ""),
		TopK: conv.ConfigGetInt(cfg, "top_k", 0),
	}, nil
}

func BuildSequentialNode(cfg map[string]interface{}) (pipeline.Node, error) {
	return nil, fmt.Errorf("recall.sequential requires an interaction log and a model, wire it in code (supported from config: %v)", config.SupportedTypes())
}

func BuildFilterNode(cfg map[string]interface{}) (pipeline.Node, error) {
	filtersConfig, ok := cfg["filters"].([]interface{})
	if !ok {
		return nil, fmt.Errorf("filters not found or invalid")
	}
	filters := make([]filter.Filter, 0, len(filtersConfig))
	for _, fc := range filtersConfig {
		filterMap, ok := fc.(map[string]interface{})
		if !ok {
			continue
		}
		filterType := conv.ConfigGet(filterMap, "type", "")
		switch filterType {
		case "rule":
			expr := conv.ConfigGet(filterMap, "expr", "")
			if expr == "" {
				return nil, fmt.Errorf("rule filter: expr not found")
			}
			filters = append(filters, &filter.Rule{Expr: expr})
		case "seen":
			// 已读过滤需要 InteractionLog，暂未从配置构建
			return nil, fmt.Errorf("seen filter requires an interaction log, wire it in code")
		default:
			return nil, fmt.Errorf("unknown filter type: %s", filterType)
		}
	}
	return &filter.Node{Filters: filters}, nil
}

func BuildTwoTowerNode(cfg map[string]interface{}) (pipeline.Node, error) {
	return nil, fmt.Errorf("rank.two_tower requires a trained model, wire it in code (supported from config: %v)", config.SupportedTypes())
}
