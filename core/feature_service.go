package core

import "context"

// FeatureService 是特征服务的领域接口。
//
// 用于为双塔打分补充用户侧/物品侧特征（年龄、类目、统计特征等），
// 由基础设施层实现（如 feast 包的 Feature Store 客户端）。
type FeatureService interface {
	// GetUserFeatures 获取用户特征
	GetUserFeatures(ctx context.Context, userID string) (map[string]float64, error)

	// GetItemFeatures 批量获取物品特征
	GetItemFeatures(ctx context.Context, itemIDs []int64) (map[int64]map[string]float64, error)
}

// Feature 错误定义
var (
	// ErrFeatureNotFound 表示特征不存在
	ErrFeatureNotFound = NewDomainError(ModuleFeature, ErrorCodeNotFound, "feature: not found")

	// ErrFeatureUnavailable 表示特征服务不可用
	ErrFeatureUnavailable = NewDomainError(ModuleFeature, ErrorCodeUnavailable, "feature: service unavailable")
)
