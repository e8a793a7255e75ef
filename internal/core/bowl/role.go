package bowl

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// RoleClassifier 由分類名稱推導語意角色的策略介面
// 後端若未來在分類實體上帶明確的 role 欄位，換一個實作即可，呼叫端不需改動
type RoleClassifier interface {
	Classify(categoryName string) Role
}

// KeywordClassifier 以關鍵字比對分類名稱的預設實作
// 比對順序是有意義的：CARB、PROTEIN 必須先於 VEGETABLE 檢查，
// 因為預設值就是 VEGETABLE
type KeywordClassifier struct{}

// NewKeywordClassifier 創建關鍵字分類器
func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{}
}

// 關鍵字集合都以去除聲調後的小寫形式儲存
var (
	carbKeywords = []string{
		"tinh bot", "com trang", "com gao", "gao lut", "bun", "mien", "pho", "xoi", "khoai", "nui",
	}
	proteinKeywords = []string{
		"thit", "hai san", "dam", "protein", "trung", "tom", "muc", "ca hoi", "ca ngu", "ca basa",
	}
	vegetableKeywords = []string{
		"rau", "cu qua", "trai cay", "nam", "hat", "dau", "salad", "bap", "ngo",
	}
	otherKeywords = []string{
		"sot", "nuoc cham", "nuoc uong", "do uong", "thuc uong", "gia vi", "topping",
	}
)

// Classify 將分類名稱映射為角色
func (c *KeywordClassifier) Classify(categoryName string) Role {
	name := normalizeName(categoryName)
	if name == "" {
		return RoleVegetable
	}

	// 依序檢查關鍵字集合
	for _, kw := range carbKeywords {
		if strings.Contains(name, kw) {
			return RoleCarb
		}
	}
	for _, kw := range proteinKeywords {
		if strings.Contains(name, kw) {
			return RoleProtein
		}
	}
	for _, kw := range vegetableKeywords {
		if strings.Contains(name, kw) {
			return RoleVegetable
		}
	}
	for _, kw := range otherKeywords {
		if strings.Contains(name, kw) {
			return RoleOther
		}
	}

	// 短詞只做完整 token 比對，避免誤傷其他詞彙
	for _, token := range strings.Fields(name) {
		switch token {
		case "rice", "carb":
			return RoleCarb
		case "ga", "bo", "heo", "ca", "cha", "meat", "fish":
			return RoleProtein
		}
	}

	// 預設為蔬菜
	return RoleVegetable
}

// normalizeName 正規化分類名稱：Unicode 分解、去除聲調、轉小寫、去除前後空白
func normalizeName(s string) string {
	decomposed := norm.NFD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		// 去除組合用的聲調符號
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		// đ 不是組合字元，需要單獨折疊
		switch r {
		case 'đ':
			r = 'd'
		case 'Đ':
			r = 'D'
		}
		b.WriteRune(r)
	}
	return strings.ToLower(strings.TrimSpace(b.String()))
}
