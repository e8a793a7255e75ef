package bowl

import (
	"fmt"
	"net/http"

	"bowl-customizer/internal/pkg/common"
)

// 引擎層的錯誤都是可恢復的使用者狀況，永遠不會讓流程崩潰：
// 操作被拒絕、狀態保持不變、由上層轉成提示訊息
var (
	// ErrNoSizeSelected 尚未選擇尺寸就嘗試加料
	ErrNoSizeSelected = common.NewError("NO_SIZE_SELECTED", "請先選擇碗的尺寸", http.StatusUnprocessableEntity, nil)

	// ErrEmptySelection 沒有任何已選食材就嘗試結帳
	ErrEmptySelection = common.NewError("VALIDATION_EMPTY_SELECTION", "尚未選擇任何食材", http.StatusUnprocessableEntity, nil)

	// ErrIngredientNotFound 指定的食材不存在或已停用
	ErrIngredientNotFound = common.NewError("INGREDIENT_NOT_FOUND", "找不到指定的食材", http.StatusNotFound, nil)
)

// QuotaError 某角色的份數超過目前尺寸允許的上限
type QuotaError struct {
	Role    Role
	Current float64 // 已消耗份數
	Max     float64 // 上限
}

// Error 實現 error 介面
func (e *QuotaError) Error() string {
	return fmt.Sprintf("%s已達上限（目前 %.1f / 上限 %.0f）", RoleLabel(e.Role), e.Current, e.Max)
}

// SubmitError 結帳時的最終檢查發現超額角色
type SubmitError struct {
	Violations []QuotaError
}

// Error 實現 error 介面
func (e *SubmitError) Error() string {
	if len(e.Violations) == 0 {
		return "送出檢查失敗"
	}
	msg := "送出檢查失敗："
	for i, v := range e.Violations {
		if i > 0 {
			msg += "；"
		}
		msg += v.Error()
	}
	return msg
}

// RoleLabel 角色的顯示名稱
func RoleLabel(role Role) string {
	switch role {
	case RoleCarb:
		return "碳水"
	case RoleProtein:
		return "蛋白質"
	case RoleVegetable:
		return "蔬菜"
	default:
		return "其他"
	}
}
