package bowl_test

import (
	"testing"

	"bowl-customizer/internal/core/bowl"

	"github.com/stretchr/testify/assert"
)

func TestPortionsOf_Gram(t *testing.T) {
	p := bowl.NewPortioner(200)
	view := testView()
	rice, _ := view.Ingredient(ingRice)

	// 200 克的整數倍換算成整數份
	for k := 1; k <= 5; k++ {
		assert.Equal(t, float64(k), p.PortionsOf(rice, float64(200*k)))
	}

	// 份數允許小數
	assert.Equal(t, 0.5, p.PortionsOf(rice, 100))
}

func TestPortionsOf_NonGram(t *testing.T) {
	p := bowl.NewPortioner(200)
	view := testView()
	chicken, _ := view.Ingredient(ingChicken)

	// 非克制食材一筆算一份，與數量無關
	assert.Equal(t, 1.0, p.PortionsOf(chicken, 1))
	assert.Equal(t, 1.0, p.PortionsOf(chicken, 7))
	assert.Equal(t, 1.0, p.PortionsOf(chicken, 100))
}

func TestAggregateRolePortions(t *testing.T) {
	p := bowl.NewPortioner(200)
	view := testView()
	classifier := bowl.NewKeywordClassifier()

	sel := bowl.Selection{
		catProtein: {
			{IngredientID: ingChicken, Quantity: 1, SourceType: bowl.SourceAddon},
			{IngredientID: ingSalmon, Quantity: 400, SourceType: bowl.SourceAddon},
		},
		catVeg: {
			{IngredientID: ingLettuce, Quantity: 200, SourceType: bowl.SourceBase},
		},
	}

	// 雞肉 1 份 + 鮭魚 400 克 2 份 = 3 份
	assert.Equal(t, 3.0, p.AggregateRolePortions(view, classifier, sel, bowl.RoleProtein, 0))
	assert.Equal(t, 1.0, p.AggregateRolePortions(view, classifier, sel, bowl.RoleVegetable, 0))
	assert.Equal(t, 0.0, p.AggregateRolePortions(view, classifier, sel, bowl.RoleCarb, 0))
}

func TestAggregateRolePortions_Exclude(t *testing.T) {
	p := bowl.NewPortioner(200)
	view := testView()
	classifier := bowl.NewKeywordClassifier()

	sel := bowl.Selection{
		catProtein: {
			{IngredientID: ingChicken, Quantity: 1, SourceType: bowl.SourceAddon},
			{IngredientID: ingSalmon, Quantity: 400, SourceType: bowl.SourceAddon},
		},
	}

	// 排除鮭魚自身，算「其他食材」消耗的份數
	assert.Equal(t, 1.0, p.AggregateRolePortions(view, classifier, sel, bowl.RoleProtein, ingSalmon))
}

func TestAggregateRolePortions_SkipsRemoved(t *testing.T) {
	p := bowl.NewPortioner(200)
	view := testView()
	classifier := bowl.NewKeywordClassifier()

	sel := bowl.Selection{
		catProtein: {
			{IngredientID: ingChicken, Quantity: 0, SourceType: bowl.SourceRemoved},
			{IngredientID: ingShrimp, Quantity: 1, SourceType: bowl.SourceBase},
		},
	}

	// 被移除的項目不佔配額
	assert.Equal(t, 1.0, p.AggregateRolePortions(view, classifier, sel, bowl.RoleProtein, 0))
}
