package bowlcache_test

import (
	"context"
	"testing"

	"bowl-customizer/internal/core/bowl"
	"bowl-customizer/internal/core/bowlcache"
	"bowl-customizer/internal/infrastructure/config"

	"github.com/stretchr/testify/assert"
)

func TestService_DisabledIsNoop(t *testing.T) {
	svc, err := bowlcache.NewService(&config.CacheConfig{Enabled: false})
	assert.NoError(t, err)
	ctx := context.Background()

	// 停用時所有操作都是安全的 no-op
	sel, err := svc.Get(ctx, 7)
	assert.NoError(t, err)
	assert.Nil(t, sel)

	assert.NoError(t, svc.Set(ctx, 7, bowl.Selection{
		1: {{IngredientID: 101, Quantity: 200, SourceType: bowl.SourceBase}},
	}))
	assert.NoError(t, svc.Delete(ctx, 7))
	assert.NoError(t, svc.Close())
}
