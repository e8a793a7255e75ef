package bowl

// Role 食材分類的語意角色，由分類名稱推導，不落地儲存
type Role string

const (
	RoleCarb      Role = "CARB"
	RoleProtein   Role = "PROTEIN"
	RoleVegetable Role = "VEGETABLE"
	RoleOther     Role = "OTHER"
)

// Unit 食材計量單位
type Unit string

const (
	UnitGram     Unit = "GRAM"
	UnitKilogram Unit = "KILOGRAM"
	UnitLiter    Unit = "LITER"
	UnitPcs      Unit = "PCS"
)

// SourceType 食材相對於原始配方的來源標記
type SourceType string

const (
	SourceBase    SourceType = "BASE"    // 原始配方內且保留
	SourceAddon   SourceType = "ADDON"   // 使用者額外加入
	SourceRemoved SourceType = "REMOVED" // 原始配方內但被移除，送單時數量為 0
)

// Size 碗的尺寸
type Size string

const (
	SizeS Size = "S"
	SizeM Size = "M"
	SizeL Size = "L"
)

// IngredientCategory 食材分類，後端唯讀參考資料
type IngredientCategory struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Ingredient 食材，後端唯讀參考資料
// active=false 的食材不可出現在可選列表中
type Ingredient struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	CategoryID   int64  `json:"categoryId"`
	Unit         Unit   `json:"unit"`
	PricePerUnit int64  `json:"pricePerUnit"` // 最小貨幣單位（đồng）
	Active       bool   `json:"active"`
	ImageURL     string `json:"imageUrl,omitempty"`
}

// DishTemplate 碗的尺寸模板，定義價格倍率與各角色配額上限
type DishTemplate struct {
	Size          Size    `json:"size"`
	Name          string  `json:"name"`
	PriceRatio    float64 `json:"priceRatio"`
	QuantityRatio float64 `json:"quantityRatio"`
	MaxCarb       *int    `json:"maxCarb,omitempty"`
	MaxProtein    *int    `json:"maxProtein,omitempty"`
	MaxVegetable  *int    `json:"maxVegetable,omitempty"`
}

// Dish 餐點，後端唯讀參考資料
type Dish struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Price       int64  `json:"price"` // 最小貨幣單位
	ImageURL    string `json:"imageUrl,omitempty"`
	Description string `json:"description,omitempty"`
}

// CanonicalRecipeItem 餐點的原始配方項目
type CanonicalRecipeItem struct {
	IngredientID   int64   `json:"ingredientId"`
	CategoryID     int64   `json:"categoryId"`
	NeededQuantity float64 `json:"neededQuantity"`
}

// RecipeItem 一筆已選食材（克數或離散數量，依食材單位而定）
type RecipeItem struct {
	IngredientID int64      `json:"ingredientId"`
	Quantity     float64    `json:"quantity"`
	SourceType   SourceType `json:"sourceType"`
}

// Selection 分類 ID → 已選項目列表
// 不變量：同一分類內 ingredientId 不重複
type Selection map[int64][]RecipeItem

// Clone 深拷貝選擇狀態
func (s Selection) Clone() Selection {
	out := make(Selection, len(s))
	for cat, items := range s {
		copied := make([]RecipeItem, len(items))
		copy(copied, items)
		out[cat] = copied
	}
	return out
}

// Find 在指定分類中尋找食材，回傳索引（找不到時為 -1）
func (s Selection) Find(categoryID, ingredientID int64) int {
	for i, item := range s[categoryID] {
		if item.IngredientID == ingredientID {
			return i
		}
	}
	return -1
}

// Flatten 攤平成送單用的項目列表（含 REMOVED，數量為 0）
func (s Selection) Flatten() []RecipeItem {
	var out []RecipeItem
	for _, items := range s {
		for _, item := range items {
			if item.SourceType == SourceRemoved {
				item.Quantity = 0
			}
			out = append(out, item)
		}
	}
	return out
}

// CartItem 輸出給購物車／訂單子系統的品項
type CartItem struct {
	DishID       int64         `json:"dishId"`               // 完全自選時為 0
	BasedOnID    int64         `json:"basedOnId,omitempty"`  // 基於既有餐點客製時的原餐點 ID
	Name         string        `json:"name"`
	Price        int64         `json:"price"` // 單份總價
	Quantity     int           `json:"quantity"`
	ImageURL     string        `json:"imageUrl,omitempty"`
	DishTemplate *DishTemplate `json:"dishTemplate,omitempty"`
	Recipe       []RecipeItem  `json:"recipe"`
}
