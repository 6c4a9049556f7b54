package dataset

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rushteam/seqkit/core"
)

// InteractionLog 是基于 KeyValueStore 的用户行为日志。
//
// 存储形态：每个用户一个有序集合，member 为物品 ID，score 为时间戳。
// 同一用户对同一物品的重复交互只保留最近一次（zset 语义），
// 这对召回上下文和 seen 过滤是期望行为；离线训练数据请走 Loader 文件路径。
type InteractionLog struct {
	Store core.KeyValueStore

	// KeyPrefix 是 Store 中的 key 前缀，实际 key 为 {KeyPrefix}:{UserID}，默认 "interactions"
	KeyPrefix string
}

func (l *InteractionLog) key(userID string) string {
	prefix := l.KeyPrefix
	if prefix == "" {
		prefix = "interactions"
	}
	return prefix + ":" + userID
}

// Append 追加一条交互记录。
func (l *InteractionLog) Append(ctx context.Context, in core.Interaction) error {
	if l.Store == nil {
		return core.ErrStoreNotSupported
	}
	if in.UserID == "" {
		return core.NewDomainError(core.ModuleDataset, core.ErrorCodeInvalidInput, "dataset: empty user id")
	}
	member := strconv.FormatInt(in.ItemID, 10)
	if err := l.Store.ZAdd(ctx, l.key(in.UserID), float64(in.Timestamp), member); err != nil {
		return fmt.Errorf("append interaction: %w", err)
	}
	return nil
}

// UserSequence 读取用户的完整行为序列（按时间升序）。
// zset 的 score 即时间戳；score 相同时由后端决定次序（内存实现保持写入顺序）。
func (l *InteractionLog) UserSequence(ctx context.Context, userID string) (*core.UserSequence, error) {
	if l.Store == nil {
		return nil, core.ErrStoreNotSupported
	}

	key := l.key(userID)
	members, err := l.Store.ZRangeAsc(ctx, key, 0, -1)
	if err != nil {
		return nil, fmt.Errorf("read interactions: %w", err)
	}

	seq := &core.UserSequence{UserID: userID}
	for _, m := range members {
		itemID, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			continue // 跳过损坏的成员
		}
		ts, err := l.Store.ZScore(ctx, key, m)
		if err != nil {
			continue
		}
		seq.Interactions = append(seq.Interactions, core.Interaction{
			UserID:    userID,
			ItemID:    itemID,
			Timestamp: int64(ts),
		})
	}
	return seq, nil
}

// RecentItems 返回用户最近的 n 个物品 ID（按时间升序，便于直接作为模型上下文）。
func (l *InteractionLog) RecentItems(ctx context.Context, userID string, n int) ([]int64, error) {
	seq, err := l.UserSequence(ctx, userID)
	if err != nil {
		return nil, err
	}
	items := seq.ItemIDs()
	if n > 0 && len(items) > n {
		items = items[len(items)-n:]
	}
	return items, nil
}

// Seen 判断用户是否交互过该物品。
func (l *InteractionLog) Seen(ctx context.Context, userID string, itemID int64) (bool, error) {
	if l.Store == nil {
		return false, core.ErrStoreNotSupported
	}
	_, err := l.Store.ZScore(ctx, l.key(userID), strconv.FormatInt(itemID, 10))
	if err != nil {
		if core.IsStoreNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
