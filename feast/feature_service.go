package feast

import (
	"context"
	"fmt"

	"github.com/rushteam/seqkit/core"
)

// FeatureService 把 Feast 客户端适配为 core.FeatureService。
//
// 用户侧实体键默认 "user_id"，物品侧默认 "item_id"；
// 特征名沿用 Feast 的 "view:feature" 形式。
type FeatureService struct {
	Client Client

	// UserFeatures 用户侧特征名列表
	UserFeatures []string

	// ItemFeatures 物品侧特征名列表
	ItemFeatures []string

	// UserEntityKey 用户实体键，默认 "user_id"
	UserEntityKey string

	// ItemEntityKey 物品实体键，默认 "item_id"
	ItemEntityKey string
}

func (s *FeatureService) userEntityKey() string {
	if s.UserEntityKey == "" {
		return "user_id"
	}
	return s.UserEntityKey
}

func (s *FeatureService) itemEntityKey() string {
	if s.ItemEntityKey == "" {
		return "item_id"
	}
	return s.ItemEntityKey
}

// GetUserFeatures 获取用户特征（实现 core.FeatureService）。
func (s *FeatureService) GetUserFeatures(ctx context.Context, userID string) (map[string]float64, error) {
	if s.Client == nil || len(s.UserFeatures) == 0 {
		return nil, core.ErrFeatureUnavailable
	}
	if userID == "" {
		return nil, core.NewDomainError(core.ModuleFeature, core.ErrorCodeInvalidInput, "feature: empty user id")
	}

	resp, err := s.Client.GetOnlineFeatures(ctx, &GetOnlineFeaturesRequest{
		Features:   s.UserFeatures,
		EntityRows: []map[string]interface{}{{s.userEntityKey(): userID}},
	})
	if err != nil {
		return nil, fmt.Errorf("get user features: %w", err)
	}
	if len(resp.FeatureVectors) == 0 {
		return nil, core.ErrFeatureNotFound
	}
	return toFloatMap(resp.FeatureVectors[0].Values), nil
}

// GetItemFeatures 批量获取物品特征（实现 core.FeatureService）。
func (s *FeatureService) GetItemFeatures(ctx context.Context, itemIDs []int64) (map[int64]map[string]float64, error) {
	if s.Client == nil || len(s.ItemFeatures) == 0 {
		return nil, core.ErrFeatureUnavailable
	}
	if len(itemIDs) == 0 {
		return map[int64]map[string]float64{}, nil
	}

	rows := make([]map[string]interface{}, 0, len(itemIDs))
	for _, id := range itemIDs {
		rows = append(rows, map[string]interface{}{s.itemEntityKey(): id})
	}

	resp, err := s.Client.GetOnlineFeatures(ctx, &GetOnlineFeaturesRequest{
		Features:   s.ItemFeatures,
		EntityRows: rows,
	})
	if err != nil {
		return nil, fmt.Errorf("get item features: %w", err)
	}
	if len(resp.FeatureVectors) != len(itemIDs) {
		return nil, core.ErrFeatureNotFound
	}

	out := make(map[int64]map[string]float64, len(itemIDs))
	for i, id := range itemIDs {
		out[id] = toFloatMap(resp.FeatureVectors[i].Values)
	}
	return out, nil
}

// toFloatMap 提取数值特征，非数值特征丢弃。
func toFloatMap(values map[string]interface{}) map[string]float64 {
	out := make(map[string]float64, len(values))
	for k, v := range values {
		switch f := v.(type) {
		case float64:
			out[k] = f
		case float32:
			out[k] = float64(f)
		case int64:
			out[k] = float64(f)
		case int:
			out[k] = float64(f)
		}
	}
	return out
}

var _ core.FeatureService = (*FeatureService)(nil)
