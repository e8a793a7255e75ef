package bowl_test

import (
	"bowl-customizer/internal/core/bowl"
)

// staticView 測試用的目錄快照
type staticView struct {
	ingredients map[int64]*bowl.Ingredient
	categories  map[int64]*bowl.IngredientCategory
}

func (v *staticView) Ingredient(id int64) (*bowl.Ingredient, bool) {
	ing, ok := v.ingredients[id]
	return ing, ok
}

func (v *staticView) Category(id int64) (*bowl.IngredientCategory, bool) {
	category, ok := v.categories[id]
	return category, ok
}

const (
	catCarb    int64 = 1
	catProtein int64 = 2
	catVeg     int64 = 3
	catSauce   int64 = 4
)

const (
	ingRice     int64 = 101 // GRAM, 2/克
	ingChicken  int64 = 201 // PCS, 15000
	ingBeef     int64 = 202 // PCS, 20000
	ingShrimp   int64 = 203 // PCS, 18000
	ingSalmon   int64 = 204 // GRAM, 5/克
	ingLettuce  int64 = 301 // GRAM, 1/克
	ingAvocado  int64 = 302 // PCS, 12000
	ingSoySauce int64 = 401 // PCS, 3000
	ingInactive int64 = 501 // 停用
)

func testView() *staticView {
	return &staticView{
		categories: map[int64]*bowl.IngredientCategory{
			catCarb:    {ID: catCarb, Name: "Tinh bột"},
			catProtein: {ID: catProtein, Name: "Thịt & Hải sản"},
			catVeg:     {ID: catVeg, Name: "Rau củ"},
			catSauce:   {ID: catSauce, Name: "Sốt"},
		},
		ingredients: map[int64]*bowl.Ingredient{
			ingRice:     {ID: ingRice, Name: "Cơm gạo lứt", CategoryID: catCarb, Unit: bowl.UnitGram, PricePerUnit: 2, Active: true},
			ingChicken:  {ID: ingChicken, Name: "Gà nướng", CategoryID: catProtein, Unit: bowl.UnitPcs, PricePerUnit: 15000, Active: true},
			ingBeef:     {ID: ingBeef, Name: "Bò xào", CategoryID: catProtein, Unit: bowl.UnitPcs, PricePerUnit: 20000, Active: true},
			ingShrimp:   {ID: ingShrimp, Name: "Tôm", CategoryID: catProtein, Unit: bowl.UnitPcs, PricePerUnit: 18000, Active: true},
			ingSalmon:   {ID: ingSalmon, Name: "Cá hồi", CategoryID: catProtein, Unit: bowl.UnitGram, PricePerUnit: 5, Active: true},
			ingLettuce:  {ID: ingLettuce, Name: "Xà lách", CategoryID: catVeg, Unit: bowl.UnitGram, PricePerUnit: 1, Active: true},
			ingAvocado:  {ID: ingAvocado, Name: "Bơ", CategoryID: catVeg, Unit: bowl.UnitPcs, PricePerUnit: 12000, Active: true},
			ingSoySauce: {ID: ingSoySauce, Name: "Sốt tương", CategoryID: catSauce, Unit: bowl.UnitPcs, PricePerUnit: 3000, Active: true},
			ingInactive: {ID: ingInactive, Name: "Mực", CategoryID: catProtein, Unit: bowl.UnitPcs, PricePerUnit: 22000, Active: false},
		},
	}
}

func templateS() *bowl.DishTemplate {
	return &bowl.DishTemplate{
		Size:         bowl.SizeS,
		Name:         "Nhỏ",
		PriceRatio:   0.8,
		MaxCarb:      intp(1),
		MaxProtein:   intp(2),
		MaxVegetable: intp(3),
	}
}

func templateM() *bowl.DishTemplate {
	return &bowl.DishTemplate{
		Size:         bowl.SizeM,
		Name:         "Vừa",
		PriceRatio:   1.0,
		MaxCarb:      intp(1),
		MaxProtein:   intp(3),
		MaxVegetable: intp(4),
	}
}

func testEngine() *bowl.Engine {
	return bowl.NewEngine(
		bowl.NewKeywordClassifier(),
		bowl.TemplateFieldPolicy{},
		bowl.NewPortioner(200),
		200,
		100,
	)
}

func newSession(dish *bowl.Dish) *bowl.Session {
	return testEngine().NewSession("test-session", dish, testView())
}
