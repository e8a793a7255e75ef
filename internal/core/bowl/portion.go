package bowl

// CatalogView 引擎所需的唯讀目錄查詢
type CatalogView interface {
	Ingredient(id int64) (*Ingredient, bool)
	Category(id int64) (*IngredientCategory, bool)
}

// Portioner 將原始數量換算為正規化份數
type Portioner struct {
	gramsPerPortion float64
}

// NewPortioner 創建份量換算器（預設 200 克為一份）
func NewPortioner(gramsPerPortion int) *Portioner {
	if gramsPerPortion <= 0 {
		gramsPerPortion = 200
	}
	return &Portioner{gramsPerPortion: float64(gramsPerPortion)}
}

// PortionsOf 計算一筆選擇消耗的份數
// 克制食材按克數換算（可以是小數），其他單位一筆算一份，與數量欄位無關
func (p *Portioner) PortionsOf(ing *Ingredient, quantity float64) float64 {
	if ing == nil {
		return 0
	}
	if ing.Unit == UnitGram {
		return quantity / p.gramsPerPortion
	}
	return 1
}

// AggregateRolePortions 加總指定角色在所有分類中已消耗的份數
// excludeIngredientID 非 0 時排除該食材自身的貢獻，
// 用於調整數量時計算「這個食材還剩多少空間」
func (p *Portioner) AggregateRolePortions(view CatalogView, classifier RoleClassifier, sel Selection, role Role, excludeIngredientID int64) float64 {
	total := 0.0
	for categoryID, items := range sel {
		category, ok := view.Category(categoryID)
		if !ok {
			continue
		}
		if classifier.Classify(category.Name) != role {
			continue
		}
		for _, item := range items {
			// 被移除的項目不佔配額
			if item.SourceType == SourceRemoved {
				continue
			}
			if item.IngredientID == excludeIngredientID {
				continue
			}
			ing, ok := view.Ingredient(item.IngredientID)
			if !ok {
				continue
			}
			total += p.PortionsOf(ing, item.Quantity)
		}
	}
	return total
}
