package service

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"sync"
	"time"
)

// 去重缓存条目的有效期，超龄条目在下一次检查时被惰性清除。
const dedupEntryTTL = time.Hour

// dedupEntry 记录某条内容在会话内首次出现的时间和出现次数。
type dedupEntry struct {
	firstSeen time.Time
	count     int
}

// DedupCache 是会话内近期重复内容的有界内存缓存。
// 容量只靠时间清除约束（软内存上界），不持久化，进程重启后丢失——
// 去重是近期窗口内的启发式抑制，不是正确性保证。
type DedupCache struct {
	mu      sync.Mutex
	entries map[string]*dedupEntry
	maxDup  int

	// 测试钩子，缺省为 time.Now
	now func() time.Time
}

// NewDedupCache 创建一个新的 DedupCache，maxDup 为同一内容允许的最大重复次数。
func NewDedupCache(maxDup int) *DedupCache {
	return &DedupCache{
		entries: make(map[string]*dedupEntry),
		maxDup:  maxDup,
		now:     time.Now,
	}
}

// contentHash 计算内容摘要，与会话 ID 组合成缓存键。
func contentHash(content string) string {
	sum := md5.Sum([]byte(content))
	return hex.EncodeToString(sum[:])
}

// IsDuplicate 检查一条实时消息是否为会话内的重复内容。
// 每次检查先清除过期条目，再递增或新建计数；计数超过 maxDup 时判定为重复。
func (c *DedupCache) IsDuplicate(sessionID, content string) bool {
	key := fmt.Sprintf("%s:%s", sessionID, contentHash(content))

	c.mu.Lock()
	defer c.mu.Unlock()

	c.purgeLocked()

	if entry, ok := c.entries[key]; ok {
		entry.count++
		return entry.count > c.maxDup
	}

	c.entries[key] = &dedupEntry{firstSeen: c.now(), count: 1}
	return false
}

// SeenImport 检查并记录导入通道的内容。导入使用独立的键命名空间，
// 与实时消息互不碰撞；出现过即视为重复，不做计数宽限。
func (c *DedupCache) SeenImport(sessionID, content string) bool {
	key := fmt.Sprintf("import:%s:%s", sessionID, contentHash(content))

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; ok {
		return true
	}
	c.entries[key] = &dedupEntry{firstSeen: c.now(), count: 1}
	return false
}

// purgeLocked 清除全部过期条目，调用方须持有锁。
func (c *DedupCache) purgeLocked() {
	cutoff := c.now().Add(-dedupEntryTTL)
	for key, entry := range c.entries {
		if entry.firstSeen.Before(cutoff) {
			delete(c.entries, key)
		}
	}
}

// Size 返回当前缓存条目数。
func (c *DedupCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Clear 清空全部条目。
func (c *DedupCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*dedupEntry)
}

// Reconfigure 更新最大重复次数。
func (c *DedupCache) Reconfigure(maxDup int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.maxDup = maxDup
}
