// Package store 提供 core.Store / core.KeyValueStore 的基础设施实现。
//
// 注意：此包只包含实现，接口定义在 core 包。
//
// 示例：
//
//	var kv core.KeyValueStore = store.NewMemoryStore()
//	var kv core.KeyValueStore = store.NewRedisStore("127.0.0.1:6379", 0)
package store
