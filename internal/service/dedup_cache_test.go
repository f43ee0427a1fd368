package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDedupAllowsUpToMaxDuplicates(t *testing.T) {
	cache := NewDedupCache(3)

	// 同一内容前 3 次通过，第 4 次判定为重复
	assert.False(t, cache.IsDuplicate("s1", "重复内容"))
	assert.False(t, cache.IsDuplicate("s1", "重复内容"))
	assert.False(t, cache.IsDuplicate("s1", "重复内容"))
	assert.True(t, cache.IsDuplicate("s1", "重复内容"))
	assert.True(t, cache.IsDuplicate("s1", "重复内容"))
}

func TestDedupScopedBySession(t *testing.T) {
	cache := NewDedupCache(1)

	assert.False(t, cache.IsDuplicate("s1", "你好呀"))
	assert.True(t, cache.IsDuplicate("s1", "你好呀"))

	// 另一个会话不受影响
	assert.False(t, cache.IsDuplicate("s2", "你好呀"))
}

func TestDedupEntriesExpireAfterOneHour(t *testing.T) {
	cache := NewDedupCache(1)
	current := time.Now()
	cache.now = func() time.Time { return current }

	assert.False(t, cache.IsDuplicate("s1", "会过期的内容"))
	assert.True(t, cache.IsDuplicate("s1", "会过期的内容"))

	// 时间前进 61 分钟后条目被清除，计数重新开始
	current = current.Add(61 * time.Minute)
	assert.False(t, cache.IsDuplicate("s1", "会过期的内容"))
	assert.Equal(t, 1, cache.Size())
}

func TestDedupImportNamespaceIsIndependent(t *testing.T) {
	cache := NewDedupCache(3)

	// 实时通道先见过的内容，不影响导入通道
	assert.False(t, cache.IsDuplicate("s1", "同一句话"))
	assert.False(t, cache.SeenImport("s1", "同一句话"))

	// 导入通道出现过即算重复，没有计数宽限
	assert.True(t, cache.SeenImport("s1", "同一句话"))
}

func TestDedupClearAndReconfigure(t *testing.T) {
	cache := NewDedupCache(1)

	cache.IsDuplicate("s1", "a 内容")
	cache.IsDuplicate("s1", "b 内容")
	assert.Equal(t, 2, cache.Size())

	cache.Clear()
	assert.Equal(t, 0, cache.Size())

	cache.Reconfigure(2)
	assert.False(t, cache.IsDuplicate("s1", "c 内容"))
	assert.False(t, cache.IsDuplicate("s1", "c 内容"))
	assert.True(t, cache.IsDuplicate("s1", "c 内容"))
}
