package bowl

import "math"

// ComputeTotal 計算客製碗的總價（最小貨幣單位，無小數）
//
//	total = round(basePrice × priceRatio + 加料費) × orderQuantity
//
// 加料費只計 ADDON 項目：克制食材為單價 × 克數，其他單位為單價 × 1；
// BASE 已包含在底價內、REMOVED 不退費，兩者都不計入。
// 捨入只做一次：在底價與加料費加總之後、乘上訂購數量之前。
func ComputeTotal(basePrice int64, template *DishTemplate, sel Selection, view CatalogView, orderQuantity int) int64 {
	if orderQuantity <= 0 {
		orderQuantity = 1
	}

	ratio := 1.0
	if template != nil && template.PriceRatio > 0 {
		ratio = template.PriceRatio
	}

	added := 0.0
	for _, items := range sel {
		for _, item := range items {
			if item.SourceType != SourceAddon {
				continue
			}
			ing, ok := view.Ingredient(item.IngredientID)
			if !ok {
				continue
			}
			if ing.Unit == UnitGram {
				added += float64(ing.PricePerUnit) * item.Quantity
			} else {
				added += float64(ing.PricePerUnit)
			}
		}
	}

	unit := math.Round(float64(basePrice)*ratio + added)
	return int64(unit) * int64(orderQuantity)
}
