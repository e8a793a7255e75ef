package bowl

import "math"

// QuotaPolicy 回傳某角色在指定尺寸模板下允許的最大份數
// 歷史上兩套畫面各自演化出不同的上限規則，這裡以具名策略並存，
// 由呼叫端明確選擇要用哪一套
type QuotaPolicy interface {
	MaxPortions(template *DishTemplate, role Role) float64
}

// 策略名稱（對應 quota.policy 設定值）
const (
	PolicySizeTable     = "size_table"
	PolicyTemplateField = "template_field"
)

// SizeTablePolicy 以尺寸查表的上限規則：
// CARB 固定 1 份；PROTEIN 依 S/M/L 為 2/3/4；VEGETABLE 依 S/M/L 為 3/4/5
type SizeTablePolicy struct{}

// MaxPortions 實現 QuotaPolicy
func (SizeTablePolicy) MaxPortions(template *DishTemplate, role Role) float64 {
	if template == nil || role == RoleOther {
		return math.Inf(1)
	}

	switch role {
	case RoleCarb:
		return 1
	case RoleProtein:
		switch template.Size {
		case SizeS:
			return 2
		case SizeL:
			return 4
		default:
			return 3
		}
	case RoleVegetable:
		switch template.Size {
		case SizeS:
			return 3
		case SizeL:
			return 5
		default:
			return 4
		}
	}
	return math.Inf(1)
}

// TemplateFieldPolicy 讀取模板本身的上限欄位，缺欄位時落回預設值
// （CARB=1、PROTEIN=3、VEGETABLE=4）
type TemplateFieldPolicy struct{}

// MaxPortions 實現 QuotaPolicy
func (TemplateFieldPolicy) MaxPortions(template *DishTemplate, role Role) float64 {
	if template == nil || role == RoleOther {
		return math.Inf(1)
	}

	switch role {
	case RoleCarb:
		return fieldOrDefault(template.MaxCarb, 1)
	case RoleProtein:
		return fieldOrDefault(template.MaxProtein, 3)
	case RoleVegetable:
		return fieldOrDefault(template.MaxVegetable, 4)
	}
	return math.Inf(1)
}

func fieldOrDefault(field *int, fallback float64) float64 {
	if field == nil {
		return fallback
	}
	return float64(*field)
}

// PolicyByName 由設定值取得對應策略，未知名稱時回傳模板欄位策略
func PolicyByName(name string) QuotaPolicy {
	if name == PolicySizeTable {
		return SizeTablePolicy{}
	}
	return TemplateFieldPolicy{}
}
