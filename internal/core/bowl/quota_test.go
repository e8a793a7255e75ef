package bowl_test

import (
	"math"
	"testing"

	"bowl-customizer/internal/core/bowl"

	"github.com/stretchr/testify/assert"
)

func intp(n int) *int { return &n }

func TestSizeTablePolicy(t *testing.T) {
	policy := bowl.SizeTablePolicy{}

	s := &bowl.DishTemplate{Size: bowl.SizeS}
	m := &bowl.DishTemplate{Size: bowl.SizeM}
	l := &bowl.DishTemplate{Size: bowl.SizeL}

	// CARB 不分尺寸固定一份
	assert.Equal(t, 1.0, policy.MaxPortions(s, bowl.RoleCarb))
	assert.Equal(t, 1.0, policy.MaxPortions(m, bowl.RoleCarb))
	assert.Equal(t, 1.0, policy.MaxPortions(l, bowl.RoleCarb))

	assert.Equal(t, 2.0, policy.MaxPortions(s, bowl.RoleProtein))
	assert.Equal(t, 3.0, policy.MaxPortions(m, bowl.RoleProtein))
	assert.Equal(t, 4.0, policy.MaxPortions(l, bowl.RoleProtein))

	assert.Equal(t, 3.0, policy.MaxPortions(s, bowl.RoleVegetable))
	assert.Equal(t, 4.0, policy.MaxPortions(m, bowl.RoleVegetable))
	assert.Equal(t, 5.0, policy.MaxPortions(l, bowl.RoleVegetable))
}

func TestTemplateFieldPolicy(t *testing.T) {
	policy := bowl.TemplateFieldPolicy{}

	withFields := &bowl.DishTemplate{
		Size:         bowl.SizeM,
		MaxCarb:      intp(2),
		MaxProtein:   intp(5),
		MaxVegetable: intp(6),
	}
	assert.Equal(t, 2.0, policy.MaxPortions(withFields, bowl.RoleCarb))
	assert.Equal(t, 5.0, policy.MaxPortions(withFields, bowl.RoleProtein))
	assert.Equal(t, 6.0, policy.MaxPortions(withFields, bowl.RoleVegetable))

	// 缺欄位時落回預設值 1/3/4
	bare := &bowl.DishTemplate{Size: bowl.SizeM}
	assert.Equal(t, 1.0, policy.MaxPortions(bare, bowl.RoleCarb))
	assert.Equal(t, 3.0, policy.MaxPortions(bare, bowl.RoleProtein))
	assert.Equal(t, 4.0, policy.MaxPortions(bare, bowl.RoleVegetable))
}

func TestMaxPortions_Unlimited(t *testing.T) {
	for _, policy := range []bowl.QuotaPolicy{bowl.SizeTablePolicy{}, bowl.TemplateFieldPolicy{}} {
		// OTHER 角色不設限
		assert.True(t, math.IsInf(policy.MaxPortions(&bowl.DishTemplate{Size: bowl.SizeS}, bowl.RoleOther), 1))
		// 未選模板時不設限
		assert.True(t, math.IsInf(policy.MaxPortions(nil, bowl.RoleProtein), 1))
	}
}

func TestPolicyByName(t *testing.T) {
	assert.IsType(t, bowl.SizeTablePolicy{}, bowl.PolicyByName(bowl.PolicySizeTable))
	assert.IsType(t, bowl.TemplateFieldPolicy{}, bowl.PolicyByName(bowl.PolicyTemplateField))
	// 未知名稱落回模板欄位策略
	assert.IsType(t, bowl.TemplateFieldPolicy{}, bowl.PolicyByName("whatever"))
}
