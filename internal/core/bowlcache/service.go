package bowlcache

import (
	"context"
	"fmt"

	"bowl-customizer/internal/core/bowl"
	"bowl-customizer/internal/infrastructure/config"
	"bowl-customizer/internal/pkg/common"

	"github.com/go-redis/redis/v8"
)

// Service 選擇狀態快取
// 以餐點 ID 為鍵保存使用者的選擇，重開同一餐點時原樣還原；
// 同一鍵重複寫入採最後寫入者勝出
type Service struct {
	client *redis.Client
	config *config.CacheConfig
}

// NewService 創建選擇狀態快取服務
func NewService(cfg *config.CacheConfig) (*Service, error) {
	if !cfg.Enabled {
		return &Service{config: cfg}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
	})

	// 測試連接
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Service{
		client: client,
		config: cfg,
	}, nil
}

// Get 讀取餐點的快取選擇，找不到時回傳 nil
func (s *Service) Get(ctx context.Context, dishID int64) (bowl.Selection, error) {
	if !s.config.Enabled || s.client == nil {
		return nil, nil
	}

	data, err := s.client.Get(ctx, s.key(dishID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cached selection: %w", err)
	}

	var sel bowl.Selection
	if err := common.ParseJSONBytes(data, &sel); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached selection: %w", err)
	}
	return sel, nil
}

// Set 保存餐點的選擇狀態
func (s *Service) Set(ctx context.Context, dishID int64, sel bowl.Selection) error {
	if !s.config.Enabled || s.client == nil {
		return nil
	}

	data, err := common.ToJSON(sel)
	if err != nil {
		return fmt.Errorf("failed to marshal selection: %w", err)
	}

	if err := s.client.Set(ctx, s.key(dishID), data, s.config.TTL).Err(); err != nil {
		return fmt.Errorf("failed to set cached selection: %w", err)
	}
	return nil
}

// Delete 清除餐點的快取選擇
func (s *Service) Delete(ctx context.Context, dishID int64) error {
	if !s.config.Enabled || s.client == nil {
		return nil
	}
	return s.client.Del(ctx, s.key(dishID)).Err()
}

// Close 關閉 Redis 連線
func (s *Service) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}

// key 生成快取鍵
func (s *Service) key(dishID int64) string {
	return fmt.Sprintf("bowl:selection:%d", dishID)
}
