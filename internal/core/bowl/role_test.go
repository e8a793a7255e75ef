package bowl_test

import (
	"testing"

	"bowl-customizer/internal/core/bowl"

	"github.com/stretchr/testify/assert"
)

func TestClassify_CarbWithDiacritics(t *testing.T) {
	c := bowl.NewKeywordClassifier()

	// 有聲調與去聲調的寫法必須同角色
	assert.Equal(t, bowl.RoleCarb, c.Classify("Tinh bột"))
	assert.Equal(t, bowl.RoleCarb, c.Classify("tinh bot"))
	assert.Equal(t, bowl.RoleCarb, c.Classify("  TINH BỘT  "))
}

func TestClassify_Protein(t *testing.T) {
	c := bowl.NewKeywordClassifier()

	assert.Equal(t, bowl.RoleProtein, c.Classify("Thịt nướng"))
	assert.Equal(t, bowl.RoleProtein, c.Classify("Hải sản"))
	assert.Equal(t, bowl.RoleProtein, c.Classify("Trứng"))
	assert.Equal(t, bowl.RoleProtein, c.Classify("Cá hồi"))
}

func TestClassify_Vegetable(t *testing.T) {
	c := bowl.NewKeywordClassifier()

	assert.Equal(t, bowl.RoleVegetable, c.Classify("Rau xanh"))
	assert.Equal(t, bowl.RoleVegetable, c.Classify("Trái cây"))
	assert.Equal(t, bowl.RoleVegetable, c.Classify("Nấm"))
}

func TestClassify_Other(t *testing.T) {
	c := bowl.NewKeywordClassifier()

	assert.Equal(t, bowl.RoleOther, c.Classify("Sốt"))
	assert.Equal(t, bowl.RoleOther, c.Classify("Nước chấm"))
	assert.Equal(t, bowl.RoleOther, c.Classify("Đồ uống"))
	assert.Equal(t, bowl.RoleOther, c.Classify("Gia vị"))
}

func TestClassify_TokenHeuristics(t *testing.T) {
	c := bowl.NewKeywordClassifier()

	// 短詞只做完整 token 比對
	assert.Equal(t, bowl.RoleCarb, c.Classify("Brown Rice"))
	assert.Equal(t, bowl.RoleProtein, c.Classify("Gà"))
	assert.Equal(t, bowl.RoleProtein, c.Classify("Bò"))
	assert.Equal(t, bowl.RoleProtein, c.Classify("Heo"))
}

func TestClassify_DefaultIsVegetable(t *testing.T) {
	c := bowl.NewKeywordClassifier()

	assert.Equal(t, bowl.RoleVegetable, c.Classify("Nguyên liệu khác"))
	assert.Equal(t, bowl.RoleVegetable, c.Classify(""))
}

func TestClassify_OrderingCarbBeforeVegetable(t *testing.T) {
	c := bowl.NewKeywordClassifier()

	// 同時含碳水與蔬菜關鍵字時，碳水優先
	assert.Equal(t, bowl.RoleCarb, c.Classify("Tinh bột rau củ"))
}

func TestClassify_Deterministic(t *testing.T) {
	c := bowl.NewKeywordClassifier()

	for i := 0; i < 10; i++ {
		assert.Equal(t, c.Classify("Thịt"), c.Classify("Thịt"))
	}
}
