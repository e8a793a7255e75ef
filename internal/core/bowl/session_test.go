package bowl_test

import (
	"testing"

	"bowl-customizer/internal/core/bowl"

	"github.com/stretchr/testify/assert"
)

func testDish() *bowl.Dish {
	return &bowl.Dish{ID: 7, Name: "Cơm gà nướng", Price: 50000, ImageURL: "https://img.example/7.jpg"}
}

func testCanonical() []bowl.CanonicalRecipeItem {
	return []bowl.CanonicalRecipeItem{
		{IngredientID: ingRice, CategoryID: catCarb, NeededQuantity: 200},
		{IngredientID: ingChicken, CategoryID: catProtein, NeededQuantity: 1},
		{IngredientID: ingLettuce, CategoryID: catVeg, NeededQuantity: 0}, // 缺漏的數量
	}
}

func TestToggle_RequiresTemplate(t *testing.T) {
	s := newSession(testDish())

	err := s.ToggleIngredient(catProtein, ingChicken, 0)
	assert.ErrorIs(t, err, bowl.ErrNoSizeSelected)
	assert.Empty(t, s.SelectionCopy())
}

func TestToggle_AddAndRemoveAddon(t *testing.T) {
	s := newSession(testDish())
	s.SelectTemplate(templateM())

	assert.NoError(t, s.ToggleIngredient(catProtein, ingChicken, 0))
	sel := s.SelectionCopy()
	assert.Len(t, sel[catProtein], 1)
	assert.Equal(t, bowl.SourceAddon, sel[catProtein][0].SourceType)
	assert.Equal(t, 1.0, sel[catProtein][0].Quantity)

	// 再切一次 = 取消選取，整個分類清空
	assert.NoError(t, s.ToggleIngredient(catProtein, ingChicken, 0))
	assert.Empty(t, s.SelectionCopy())
}

func TestToggle_GramDefaultQuantity(t *testing.T) {
	s := newSession(testDish())
	s.SelectTemplate(templateM())

	// 克制食材未指定數量時用步長 200
	assert.NoError(t, s.ToggleIngredient(catCarb, ingRice, 0))
	sel := s.SelectionCopy()
	assert.Equal(t, 200.0, sel[catCarb][0].Quantity)
}

func TestToggle_QuotaExceeded(t *testing.T) {
	s := newSession(testDish())
	s.SelectTemplate(templateS()) // 蛋白質上限 2 份

	assert.NoError(t, s.ToggleIngredient(catProtein, ingChicken, 0))
	assert.NoError(t, s.ToggleIngredient(catProtein, ingShrimp, 0))

	err := s.ToggleIngredient(catProtein, ingBeef, 0)
	var qe *bowl.QuotaError
	assert.ErrorAs(t, err, &qe)
	assert.Equal(t, bowl.RoleProtein, qe.Role)
	assert.Equal(t, 2.0, qe.Current)
	assert.Equal(t, 2.0, qe.Max)

	// 被拒絕的操作不改變狀態
	sel := s.SelectionCopy()
	assert.Len(t, sel[catProtein], 2)
	assert.Equal(t, -1, sel.Find(catProtein, ingBeef))
}

func TestToggle_OtherRoleUnlimited(t *testing.T) {
	s := newSession(testDish())
	s.SelectTemplate(templateS())

	// 醬料歸 OTHER，不受配額限制
	assert.NoError(t, s.ToggleIngredient(catSauce, ingSoySauce, 0))
}

func TestToggle_CategoryMismatchRejected(t *testing.T) {
	s := newSession(testDish())
	s.SelectTemplate(templateM())

	// 食材掛在不屬於它的分類下直接拒絕
	err := s.ToggleIngredient(catVeg, ingChicken, 0)
	assert.ErrorIs(t, err, bowl.ErrIngredientNotFound)
	assert.Empty(t, s.SelectionCopy())
}

func TestToggle_CategoryMismatchCannotBypassQuota(t *testing.T) {
	s := newSession(testDish())
	s.SelectTemplate(templateS()) // 蛋白質上限 2 份

	assert.NoError(t, s.ToggleIngredient(catProtein, ingChicken, 0))
	assert.NoError(t, s.ToggleIngredient(catProtein, ingShrimp, 0))

	// 把第三個蛋白質掛到醬料分類下也進不來
	err := s.ToggleIngredient(catSauce, ingBeef, 0)
	assert.ErrorIs(t, err, bowl.ErrIngredientNotFound)

	sel := s.SelectionCopy()
	assert.Len(t, sel[catProtein], 2)
	assert.Empty(t, sel[catSauce])
}

func TestToggle_InactiveRejected(t *testing.T) {
	s := newSession(testDish())
	s.SelectTemplate(templateM())

	err := s.ToggleIngredient(catProtein, ingInactive, 0)
	assert.ErrorIs(t, err, bowl.ErrIngredientNotFound)
}

func TestToggle_BaseMarkedRemovedAndRestored(t *testing.T) {
	s := newSession(testDish())
	s.SelectTemplate(templateM())
	s.Reconcile(testCanonical(), nil)

	// BASE 項目切換 = 標記移除，不從狀態中消失
	assert.NoError(t, s.ToggleIngredient(catProtein, ingChicken, 0))
	sel := s.SelectionCopy()
	idx := sel.Find(catProtein, ingChicken)
	assert.GreaterOrEqual(t, idx, 0)
	assert.Equal(t, bowl.SourceRemoved, sel[catProtein][idx].SourceType)
	assert.Equal(t, 0.0, sel[catProtein][idx].Quantity)

	// 再切回來 = 以原始配方數量還原為 BASE
	assert.NoError(t, s.ToggleIngredient(catProtein, ingChicken, 0))
	sel = s.SelectionCopy()
	idx = sel.Find(catProtein, ingChicken)
	assert.Equal(t, bowl.SourceBase, sel[catProtein][idx].SourceType)
	assert.Equal(t, 1.0, sel[catProtein][idx].Quantity)
}

func TestReconcile_FallbackFromCanonical(t *testing.T) {
	s := newSession(testDish())
	s.Reconcile(testCanonical(), nil)

	sel := s.SelectionCopy()
	assert.Equal(t, 200.0, sel[catCarb][0].Quantity)
	assert.Equal(t, bowl.SourceBase, sel[catCarb][0].SourceType)
	assert.Equal(t, 1.0, sel[catProtein][0].Quantity)

	// neededQuantity 缺漏時補 200
	assert.Equal(t, 200.0, sel[catVeg][0].Quantity)
}

func TestReconcile_CachedVerbatim(t *testing.T) {
	cached := bowl.Selection{
		catProtein: {
			{IngredientID: ingChicken, Quantity: 0, SourceType: bowl.SourceRemoved},
			{IngredientID: ingShrimp, Quantity: 2, SourceType: bowl.SourceAddon},
		},
	}

	s := newSession(testDish())
	s.Reconcile(testCanonical(), cached)

	// 有快取時原樣還原，不混入原始配方
	sel := s.SelectionCopy()
	assert.Len(t, sel, 1)
	assert.Equal(t, bowl.SourceRemoved, sel[catProtein][0].SourceType)
	assert.Equal(t, bowl.SourceAddon, sel[catProtein][1].SourceType)
}

func TestReconcile_RunsOnce(t *testing.T) {
	s := newSession(testDish())
	s.Reconcile(testCanonical(), nil)

	before := s.SelectionCopy()
	s.Reconcile(testCanonical(), bowl.Selection{
		catSauce: {{IngredientID: ingSoySauce, Quantity: 1, SourceType: bowl.SourceAddon}},
	})

	// 重跑不得覆蓋既有狀態
	assert.Equal(t, before, s.SelectionCopy())
}

func TestUpdateQuantity_ClampGramFloor(t *testing.T) {
	s := newSession(testDish())
	s.SelectTemplate(templateM())
	assert.NoError(t, s.ToggleIngredient(catCarb, ingRice, 200))

	applied, err := s.UpdateQuantity(catCarb, ingRice, 50)
	assert.NoError(t, err)
	assert.Equal(t, 200.0, applied)
}

func TestUpdateQuantity_ClampGramByRemainingQuota(t *testing.T) {
	s := newSession(testDish())
	s.SelectTemplate(templateS()) // 蛋白質上限 2 份
	assert.NoError(t, s.ToggleIngredient(catProtein, ingChicken, 0))
	assert.NoError(t, s.ToggleIngredient(catProtein, ingSalmon, 200))

	// 雞肉佔掉 1 份，鮭魚最多剩 1 份 = 200 克
	applied, err := s.UpdateQuantity(catProtein, ingSalmon, 600)
	assert.NoError(t, err)
	assert.Equal(t, 200.0, applied)
}

func TestUpdateQuantity_ClampIdempotent(t *testing.T) {
	s := newSession(testDish())
	s.SelectTemplate(templateM())
	assert.NoError(t, s.ToggleIngredient(catCarb, ingRice, 200))

	first, err := s.UpdateQuantity(catCarb, ingRice, 999)
	assert.NoError(t, err)
	second, err := s.UpdateQuantity(catCarb, ingRice, first)
	assert.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestUpdateQuantity_ClampUnitCeiling(t *testing.T) {
	s := newSession(testDish())
	s.SelectTemplate(templateM())
	assert.NoError(t, s.ToggleIngredient(catSauce, ingSoySauce, 1))

	applied, err := s.UpdateQuantity(catSauce, ingSoySauce, 500)
	assert.NoError(t, err)
	assert.Equal(t, 100.0, applied)
}

func TestUpdateQuantity_ZeroRemoves(t *testing.T) {
	s := newSession(testDish())
	s.SelectTemplate(templateM())
	s.Reconcile(testCanonical(), nil)
	assert.NoError(t, s.ToggleIngredient(catSauce, ingSoySauce, 1))

	// BASE 項目設 0 = 標記移除
	applied, err := s.UpdateQuantity(catProtein, ingChicken, 0)
	assert.NoError(t, err)
	assert.Equal(t, 0.0, applied)
	sel := s.SelectionCopy()
	idx := sel.Find(catProtein, ingChicken)
	assert.Equal(t, bowl.SourceRemoved, sel[catProtein][idx].SourceType)

	// ADDON 項目設 0 = 直接刪除
	_, err = s.UpdateQuantity(catSauce, ingSoySauce, 0)
	assert.NoError(t, err)
	assert.Equal(t, -1, s.SelectionCopy().Find(catSauce, ingSoySauce))
}

func TestUpdateQuantity_RestoreRemoved(t *testing.T) {
	s := newSession(testDish())
	s.SelectTemplate(templateM())
	s.Reconcile(testCanonical(), nil)
	assert.NoError(t, s.ToggleIngredient(catProtein, ingChicken, 0)) // BASE → REMOVED

	// 給正數量 = 還原為 BASE
	applied, err := s.UpdateQuantity(catProtein, ingChicken, 2)
	assert.NoError(t, err)
	assert.Equal(t, 2.0, applied)
	sel := s.SelectionCopy()
	idx := sel.Find(catProtein, ingChicken)
	assert.Equal(t, bowl.SourceBase, sel[catProtein][idx].SourceType)
}

func TestUpdateQuantity_NotSelected(t *testing.T) {
	s := newSession(testDish())
	s.SelectTemplate(templateM())

	_, err := s.UpdateQuantity(catProtein, ingChicken, 2)
	assert.ErrorIs(t, err, bowl.ErrIngredientNotFound)
}

func TestValidate_EmptySelection(t *testing.T) {
	s := newSession(testDish())
	s.SelectTemplate(templateM())

	assert.ErrorIs(t, s.Validate(), bowl.ErrEmptySelection)
}

func TestValidate_AllRemovedIsEmpty(t *testing.T) {
	s := newSession(testDish())
	s.SelectTemplate(templateM())
	s.Reconcile([]bowl.CanonicalRecipeItem{
		{IngredientID: ingChicken, CategoryID: catProtein, NeededQuantity: 1},
	}, nil)
	assert.NoError(t, s.ToggleIngredient(catProtein, ingChicken, 0))

	// 只剩 REMOVED 項目 = 空選擇
	assert.ErrorIs(t, s.Validate(), bowl.ErrEmptySelection)
}

func TestValidate_OverQuotaAfterTemplateSwitch(t *testing.T) {
	s := newSession(testDish())
	s.SelectTemplate(templateM()) // 蛋白質上限 3 份
	assert.NoError(t, s.ToggleIngredient(catProtein, ingChicken, 0))
	assert.NoError(t, s.ToggleIngredient(catProtein, ingShrimp, 0))
	assert.NoError(t, s.ToggleIngredient(catProtein, ingBeef, 0))

	// 換成小碗不會立刻重驗，但結帳要擋下
	s.SelectTemplate(templateS())
	err := s.Validate()
	var se *bowl.SubmitError
	assert.ErrorAs(t, err, &se)
	assert.Len(t, se.Violations, 1)
	assert.Equal(t, bowl.RoleProtein, se.Violations[0].Role)
	assert.Equal(t, 3.0, se.Violations[0].Current)
	assert.Equal(t, 2.0, se.Violations[0].Max)
}

func TestSessionPrice(t *testing.T) {
	s := newSession(testDish())
	s.SelectTemplate(templateS())
	assert.NoError(t, s.ToggleIngredient(catProtein, ingSalmon, 200))
	s.SetOrderQuantity(2)

	// round(50000×0.8 + 1000) = 41000
	assert.Equal(t, int64(41000), s.UnitPrice())
	assert.Equal(t, int64(82000), s.Price())
}

func TestCartLine_PresetDish(t *testing.T) {
	s := newSession(testDish())
	s.SelectTemplate(templateM())
	s.Reconcile(testCanonical(), nil)
	assert.NoError(t, s.ToggleIngredient(catProtein, ingChicken, 0)) // BASE → REMOVED
	assert.NoError(t, s.ToggleIngredient(catSauce, ingSoySauce, 1))
	s.SetOrderQuantity(3)

	line, err := s.CartLine()
	assert.NoError(t, err)
	assert.Equal(t, int64(0), line.DishID)
	assert.Equal(t, int64(7), line.BasedOnID)
	assert.Equal(t, "Cơm gà nướng", line.Name)
	assert.Equal(t, "https://img.example/7.jpg", line.ImageURL)
	assert.Equal(t, 3, line.Quantity)
	assert.Equal(t, int64(53000), line.Price) // 單份價格，份數另記

	// 攤平後 REMOVED 項目數量為 0
	for _, item := range line.Recipe {
		if item.IngredientID == ingChicken {
			assert.Equal(t, bowl.SourceRemoved, item.SourceType)
			assert.Equal(t, 0.0, item.Quantity)
		}
	}
}

func TestCartLine_CustomBowl(t *testing.T) {
	s := newSession(nil)
	s.SelectTemplate(templateM())
	assert.NoError(t, s.ToggleIngredient(catCarb, ingRice, 200))
	assert.NoError(t, s.ToggleIngredient(catProtein, ingChicken, 0))

	line, err := s.CartLine()
	assert.NoError(t, err)
	assert.Equal(t, int64(0), line.DishID)
	assert.Equal(t, int64(0), line.BasedOnID)
	assert.Equal(t, "自選碗", line.Name)

	// 完全自選沒有底價：米 2/克×200 + 雞肉 15000
	assert.Equal(t, int64(15400), line.Price)
}

func TestCartLine_RejectsInvalid(t *testing.T) {
	s := newSession(testDish())
	s.SelectTemplate(templateM())

	line, err := s.CartLine()
	assert.Nil(t, line)
	assert.ErrorIs(t, err, bowl.ErrEmptySelection)
}

func TestSetOrderQuantityFloor(t *testing.T) {
	s := newSession(testDish())
	s.SetOrderQuantity(0)
	assert.Equal(t, 1, s.OrderQuantity())
	s.SetOrderQuantity(5)
	assert.Equal(t, 5, s.OrderQuantity())
}
