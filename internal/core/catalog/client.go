package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"bowl-customizer/internal/core/bowl"
	"bowl-customizer/internal/infrastructure/config"
	"bowl-customizer/internal/pkg/common"

	"github.com/go-resty/resty/v2"
)

// Client 後端目錄 API 客戶端（唯讀）
type Client struct {
	http *resty.Client
}

// NewClient 創建目錄客戶端
func NewClient(cfg *config.Config) *Client {
	client := resty.New().
		SetBaseURL(cfg.Backend.BaseURL).
		SetTimeout(cfg.Backend.Timeout).
		SetHeader("Accept", "application/json")

	if cfg.Backend.APIKey != "" {
		client.SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.Backend.APIKey))
	}

	return &Client{http: client}
}

// get 發送請求並回傳原始回應內容
func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	start := time.Now()
	resp, err := c.http.R().
		SetContext(ctx).
		Get(endpoint)
	common.LogBackendCall(endpoint, time.Since(start), err)

	if err != nil {
		return nil, fmt.Errorf("failed to call backend: %w", err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, common.ErrNotFound
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("backend returned status %d: %s", resp.StatusCode(), resp.String())
	}
	return resp.Body(), nil
}

// Dish 取得餐點
func (c *Client) Dish(ctx context.Context, id int64) (*bowl.Dish, error) {
	body, err := c.get(ctx, fmt.Sprintf("/dishes/%d", id))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrDishNotFound
		}
		return nil, err
	}

	var dish bowl.Dish
	if err := common.ParseJSONBytes(body, &dish); err != nil {
		return nil, fmt.Errorf("failed to parse dish response: %w", err)
	}
	return &dish, nil
}

// DishTemplates 取得尺寸模板列表
func (c *Client) DishTemplates(ctx context.Context) ([]bowl.DishTemplate, error) {
	body, err := c.get(ctx, "/dish-templates")
	if err != nil {
		return nil, err
	}

	var templates []bowl.DishTemplate
	if err := common.ParseJSONBytes(body, &templates); err != nil {
		return nil, fmt.Errorf("failed to parse dish templates response: %w", err)
	}
	return templates, nil
}

// Categories 取得食材分類列表
func (c *Client) Categories(ctx context.Context) ([]bowl.IngredientCategory, error) {
	body, err := c.get(ctx, "/ingredient-categories")
	if err != nil {
		return nil, err
	}

	var categories []bowl.IngredientCategory
	if err := common.ParseJSONBytes(body, &categories); err != nil {
		return nil, fmt.Errorf("failed to parse categories response: %w", err)
	}
	return categories, nil
}

// Ingredients 取得食材列表
func (c *Client) Ingredients(ctx context.Context) ([]bowl.Ingredient, error) {
	body, err := c.get(ctx, "/ingredients")
	if err != nil {
		return nil, err
	}

	var ingredients []bowl.Ingredient
	if err := common.ParseJSONBytes(body, &ingredients); err != nil {
		return nil, fmt.Errorf("failed to parse ingredients response: %w", err)
	}
	return ingredients, nil
}

// Recipe 取得餐點的原始配方
func (c *Client) Recipe(ctx context.Context, dishID int64) ([]bowl.CanonicalRecipeItem, error) {
	body, err := c.get(ctx, fmt.Sprintf("/dishes/%d/recipe", dishID))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrDishNotFound
		}
		return nil, err
	}

	var recipe []bowl.CanonicalRecipeItem
	if err := common.ParseJSONBytes(body, &recipe); err != nil {
		return nil, fmt.Errorf("failed to parse recipe response: %w", err)
	}
	return recipe, nil
}
