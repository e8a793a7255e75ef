package catalog

import (
	"sync"
	"time"

	"bowl-customizer/internal/infrastructure/config"
	"bowl-customizer/internal/pkg/common"

	"go.uber.org/zap"
)

// Cache 目錄資料的記憶體快取
// 目錄是唯讀參考資料，短 TTL 即可兼顧新鮮度與後端壓力
type Cache struct {
	config *config.CatalogCacheConfig
	mu     sync.Mutex
	store  map[string]cacheEntry
	stats  cacheStats
	done   chan struct{}
}

// cacheEntry 快取條目
type cacheEntry struct {
	value       []byte
	expiresAt   time.Time
	createdAt   time.Time
	lastAccess  time.Time
	accessCount int
}

// cacheStats 快取統計
type cacheStats struct {
	hits      int64
	misses    int64
	evictions int64
}

// NewCache 創建目錄快取，快取停用時回傳 nil
func NewCache(cfg *config.CatalogCacheConfig) *Cache {
	if !cfg.Enabled {
		common.LogInfo("目錄快取已停用")
		return nil
	}

	c := &Cache{
		config: cfg,
		store:  make(map[string]cacheEntry),
		done:   make(chan struct{}),
	}

	// 啟動清理過期條目的協程
	go c.startCleanup()

	common.LogInfo("目錄快取已初始化",
		zap.Int("最大容量", cfg.MaxSize),
		zap.Duration("存活時間", cfg.TTL),
		zap.Duration("清理間隔", cfg.CleanupInterval),
	)

	return c
}

// Get 讀取快取條目
func (c *Cache) Get(key string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, exists := c.store[key]
	if !exists {
		c.stats.misses++
		common.LogCacheMiss("catalog", key)
		return nil, false
	}

	if time.Now().After(entry.expiresAt) {
		delete(c.store, key)
		c.stats.evictions++
		c.stats.misses++
		common.LogCacheMiss("catalog", key)
		return nil, false
	}

	entry.lastAccess = time.Now()
	entry.accessCount++
	c.store[key] = entry
	c.stats.hits++
	common.LogCacheHit("catalog", key)
	return entry.value, true
}

// Set 寫入快取條目
func (c *Cache) Set(key string, value []byte) {
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// 容量滿時先清過期項目，仍滿則 LRU 淘汰
	if len(c.store) >= c.config.MaxSize {
		c.cleanupLocked()
		if len(c.store) >= c.config.MaxSize {
			c.evictLRULocked()
		}
	}

	now := time.Now()
	c.store[key] = cacheEntry{
		value:      value,
		expiresAt:  now.Add(c.config.TTL),
		createdAt:  now,
		lastAccess: now,
	}
}

// Invalidate 移除指定條目
func (c *Cache) Invalidate(key string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, key)
}

// startCleanup 定期清理過期條目
func (c *Cache) startCleanup() {
	ticker := time.NewTicker(c.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.mu.Lock()
			evicted := c.cleanupLocked()
			c.mu.Unlock()
			if evicted > 0 {
				common.LogInfo("目錄快取清理執行",
					zap.Int("清理數量", evicted),
				)
			}
		case <-c.done:
			return
		}
	}
}

// cleanupLocked 清理過期條目，呼叫端必須已持有鎖
func (c *Cache) cleanupLocked() int {
	now := time.Now()
	count := 0
	for key, entry := range c.store {
		if now.After(entry.expiresAt) {
			delete(c.store, key)
			count++
			c.stats.evictions++
		}
	}
	return count
}

// evictLRULocked 淘汰最少使用的條目，呼叫端必須已持有鎖
func (c *Cache) evictLRULocked() {
	var oldestKey string
	var oldestAccess time.Time
	var lowestAccessCount int

	for key, entry := range c.store {
		if oldestKey == "" ||
			entry.accessCount < lowestAccessCount ||
			(entry.accessCount == lowestAccessCount && entry.lastAccess.Before(oldestAccess)) {
			oldestKey = key
			oldestAccess = entry.lastAccess
			lowestAccessCount = entry.accessCount
		}
	}

	if oldestKey != "" {
		delete(c.store, oldestKey)
		c.stats.evictions++
		common.LogInfo("目錄快取已淘汰(LRU)",
			zap.String("鍵", oldestKey),
		)
	}
}

// Stats 快取統計信息
func (c *Cache) Stats() map[string]interface{} {
	if c == nil {
		return map[string]interface{}{"enabled": false}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	total := c.stats.hits + c.stats.misses
	hitRatio := 0.0
	if total > 0 {
		hitRatio = float64(c.stats.hits) / float64(total)
	}

	return map[string]interface{}{
		"enabled":   true,
		"size":      len(c.store),
		"max_size":  c.config.MaxSize,
		"hits":      c.stats.hits,
		"misses":    c.stats.misses,
		"evictions": c.stats.evictions,
		"hit_ratio": hitRatio,
	}
}

// Close 停止清理協程並清空快取
func (c *Cache) Close() {
	if c == nil {
		return
	}
	close(c.done)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.store = make(map[string]cacheEntry)
	common.LogInfo("目錄快取已關閉",
		zap.Int64("命中次數", c.stats.hits),
		zap.Int64("未命中次數", c.stats.misses),
		zap.Int64("淘汰次數", c.stats.evictions),
	)
}
