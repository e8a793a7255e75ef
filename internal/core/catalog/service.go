package catalog

import (
	"context"
	"fmt"

	"bowl-customizer/internal/core/bowl"
	"bowl-customizer/internal/pkg/common"
)

// Service 目錄服務：後端客戶端加上記憶體快取
type Service struct {
	client *Client
	cache  *Cache
}

// NewService 創建目錄服務
func NewService(client *Client, cache *Cache) *Service {
	return &Service{
		client: client,
		cache:  cache,
	}
}

// Dish 取得餐點
func (s *Service) Dish(ctx context.Context, id int64) (*bowl.Dish, error) {
	key := fmt.Sprintf("dish:%d", id)
	if data, ok := s.cache.Get(key); ok {
		var dish bowl.Dish
		if err := common.ParseJSONBytes(data, &dish); err == nil {
			return &dish, nil
		}
	}

	dish, err := s.client.Dish(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cacheValue(key, dish)
	return dish, nil
}

// DishTemplates 取得尺寸模板列表
func (s *Service) DishTemplates(ctx context.Context) ([]bowl.DishTemplate, error) {
	key := "templates"
	if data, ok := s.cache.Get(key); ok {
		var templates []bowl.DishTemplate
		if err := common.ParseJSONBytes(data, &templates); err == nil {
			return templates, nil
		}
	}

	templates, err := s.client.DishTemplates(ctx)
	if err != nil {
		return nil, err
	}
	s.cacheValue(key, templates)
	return templates, nil
}

// Template 以尺寸取得模板
func (s *Service) Template(ctx context.Context, size bowl.Size) (*bowl.DishTemplate, error) {
	templates, err := s.DishTemplates(ctx)
	if err != nil {
		return nil, err
	}
	for i := range templates {
		if templates[i].Size == size {
			return &templates[i], nil
		}
	}
	return nil, common.ErrNotFound
}

// Categories 取得食材分類列表
func (s *Service) Categories(ctx context.Context) ([]bowl.IngredientCategory, error) {
	key := "categories"
	if data, ok := s.cache.Get(key); ok {
		var categories []bowl.IngredientCategory
		if err := common.ParseJSONBytes(data, &categories); err == nil {
			return categories, nil
		}
	}

	categories, err := s.client.Categories(ctx)
	if err != nil {
		return nil, err
	}
	s.cacheValue(key, categories)
	return categories, nil
}

// Ingredients 取得可選食材列表（已排除停用的食材）
func (s *Service) Ingredients(ctx context.Context) ([]bowl.Ingredient, error) {
	all, err := s.allIngredients(ctx)
	if err != nil {
		return nil, err
	}

	selectable := make([]bowl.Ingredient, 0, len(all))
	for _, ing := range all {
		if ing.Active {
			selectable = append(selectable, ing)
		}
	}
	return selectable, nil
}

// allIngredients 取得完整食材列表（含停用）
func (s *Service) allIngredients(ctx context.Context) ([]bowl.Ingredient, error) {
	key := "ingredients"
	if data, ok := s.cache.Get(key); ok {
		var ingredients []bowl.Ingredient
		if err := common.ParseJSONBytes(data, &ingredients); err == nil {
			return ingredients, nil
		}
	}

	ingredients, err := s.client.Ingredients(ctx)
	if err != nil {
		return nil, err
	}
	s.cacheValue(key, ingredients)
	return ingredients, nil
}

// Recipe 取得餐點的原始配方
func (s *Service) Recipe(ctx context.Context, dishID int64) ([]bowl.CanonicalRecipeItem, error) {
	key := fmt.Sprintf("recipe:%d", dishID)
	if data, ok := s.cache.Get(key); ok {
		var recipe []bowl.CanonicalRecipeItem
		if err := common.ParseJSONBytes(data, &recipe); err == nil {
			return recipe, nil
		}
	}

	recipe, err := s.client.Recipe(ctx, dishID)
	if err != nil {
		return nil, err
	}
	s.cacheValue(key, recipe)
	return recipe, nil
}

// View 建立引擎用的目錄快照
// 快照含停用食材（已存在的選擇仍要能計價），選取檢查由引擎另行把關
func (s *Service) View(ctx context.Context) (*View, error) {
	categories, err := s.Categories(ctx)
	if err != nil {
		return nil, err
	}
	ingredients, err := s.allIngredients(ctx)
	if err != nil {
		return nil, err
	}

	view := &View{
		ingredients: make(map[int64]*bowl.Ingredient, len(ingredients)),
		categories:  make(map[int64]*bowl.IngredientCategory, len(categories)),
	}
	for i := range ingredients {
		view.ingredients[ingredients[i].ID] = &ingredients[i]
	}
	for i := range categories {
		view.categories[categories[i].ID] = &categories[i]
	}
	return view, nil
}

// cacheValue 序列化後寫入快取，序列化失敗時跳過不致命
func (s *Service) cacheValue(key string, v interface{}) {
	data, err := common.ToJSON(v)
	if err != nil {
		return
	}
	s.cache.Set(key, []byte(data))
}

// CacheStats 快取統計
func (s *Service) CacheStats() map[string]interface{} {
	return s.cache.Stats()
}

// View 目錄快照，實現 bowl.CatalogView
type View struct {
	ingredients map[int64]*bowl.Ingredient
	categories  map[int64]*bowl.IngredientCategory
}

// Ingredient 實現 bowl.CatalogView
func (v *View) Ingredient(id int64) (*bowl.Ingredient, bool) {
	ing, ok := v.ingredients[id]
	return ing, ok
}

// Category 實現 bowl.CatalogView
func (v *View) Category(id int64) (*bowl.IngredientCategory, bool) {
	category, ok := v.categories[id]
	return category, ok
}
