package catalog_test

import (
	"fmt"
	"testing"
	"time"

	"bowl-customizer/internal/core/catalog"
	"bowl-customizer/internal/infrastructure/config"

	"github.com/stretchr/testify/assert"
)

func newCacheConfig() *config.CatalogCacheConfig {
	return &config.CatalogCacheConfig{
		Enabled:         true,
		MaxSize:         3,
		TTL:             50 * time.Millisecond,
		CleanupInterval: time.Minute,
	}
}

func TestCache_SetGet(t *testing.T) {
	c := catalog.NewCache(newCacheConfig())
	defer c.Close()

	c.Set("dish:1", []byte(`{"id":1}`))

	value, ok := c.Get("dish:1")
	assert.True(t, ok)
	assert.Equal(t, []byte(`{"id":1}`), value)

	_, ok = c.Get("dish:2")
	assert.False(t, ok)
}

func TestCache_TTLExpiry(t *testing.T) {
	c := catalog.NewCache(newCacheConfig())
	defer c.Close()

	c.Set("templates", []byte(`[]`))
	time.Sleep(80 * time.Millisecond)

	_, ok := c.Get("templates")
	assert.False(t, ok)
}

func TestCache_LRUEviction(t *testing.T) {
	c := catalog.NewCache(newCacheConfig())
	defer c.Close()

	for i := 0; i < 3; i++ {
		c.Set(fmt.Sprintf("dish:%d", i), []byte("{}"))
	}

	// 提高前兩筆的使用次數，第三筆成為淘汰對象
	c.Get("dish:0")
	c.Get("dish:1")

	c.Set("dish:3", []byte("{}"))

	_, ok := c.Get("dish:2")
	assert.False(t, ok)
	_, ok = c.Get("dish:0")
	assert.True(t, ok)
	_, ok = c.Get("dish:3")
	assert.True(t, ok)
}

func TestCache_Invalidate(t *testing.T) {
	c := catalog.NewCache(newCacheConfig())
	defer c.Close()

	c.Set("ingredients", []byte(`[]`))
	c.Invalidate("ingredients")

	_, ok := c.Get("ingredients")
	assert.False(t, ok)
}

func TestCache_DisabledIsNil(t *testing.T) {
	c := catalog.NewCache(&config.CatalogCacheConfig{Enabled: false})
	assert.Nil(t, c)

	// nil 快取的操作都是安全的 no-op
	c.Set("dish:1", []byte("{}"))
	_, ok := c.Get("dish:1")
	assert.False(t, ok)
	c.Invalidate("dish:1")
	c.Close()

	stats := c.Stats()
	assert.Equal(t, false, stats["enabled"])
}

func TestCache_Stats(t *testing.T) {
	c := catalog.NewCache(newCacheConfig())
	defer c.Close()

	c.Set("dish:1", []byte("{}"))
	c.Get("dish:1")
	c.Get("dish:2")

	stats := c.Stats()
	assert.Equal(t, true, stats["enabled"])
	assert.Equal(t, int64(1), stats["hits"])
	assert.Equal(t, int64(1), stats["misses"])
	assert.Equal(t, 0.5, stats["hit_ratio"])
}
