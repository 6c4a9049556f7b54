package core

import "sort"

// Interaction 是一条用户行为记录（评分/点击/观看），从输入数据读入后不可变。
type Interaction struct {
	UserID    string
	ItemID    int64
	Rating    float64
	Timestamp int64
}

// UserSequence 是单个用户的行为序列，按 Timestamp 升序排列。
// 不变式：序列顺序反映真实交互顺序；Timestamp 相同时保持输入顺序（稳定排序）。
type UserSequence struct {
	UserID       string
	Interactions []Interaction
}

// SortByTime 按时间升序稳定排序。
// 时间相同的交互保持原始输入顺序，保证序列可复现。
func (s *UserSequence) SortByTime() {
	sort.SliceStable(s.Interactions, func(i, j int) bool {
		return s.Interactions[i].Timestamp < s.Interactions[j].Timestamp
	})
}

// Len 返回序列长度。
func (s *UserSequence) Len() int {
	return len(s.Interactions)
}

// ItemIDs 返回序列中的物品 ID 列表（保持顺序）。
func (s *UserSequence) ItemIDs() []int64 {
	ids := make([]int64, len(s.Interactions))
	for i, it := range s.Interactions {
		ids[i] = it.ItemID
	}
	return ids
}

// GroupByUser 将交互记录按 UserID 分组为用户序列（保持输入顺序，不排序）。
// 排序由调用方决定（通常是 SortByTime），避免重复排序开销。
func GroupByUser(interactions []Interaction) map[string]*UserSequence {
	groups := make(map[string]*UserSequence)
	for _, in := range interactions {
		seq, ok := groups[in.UserID]
		if !ok {
			seq = &UserSequence{UserID: in.UserID}
			groups[in.UserID] = seq
		}
		seq.Interactions = append(seq.Interactions, in)
	}
	return groups
}
