package bowl

import (
	"math"
	"sync"
	"time"
)

// Engine 客製化引擎，持有各流程共用的策略與換算設定
type Engine struct {
	classifier      RoleClassifier
	policy          QuotaPolicy
	portioner       *Portioner
	gramStep        float64 // 克制食材的調整步長（同時是最小值）
	maxUnitQuantity float64 // 非克制食材的數量上限
}

// NewEngine 創建客製化引擎
func NewEngine(classifier RoleClassifier, policy QuotaPolicy, portioner *Portioner, gramStep, maxUnitQuantity int) *Engine {
	if gramStep <= 0 {
		gramStep = 200
	}
	if maxUnitQuantity <= 0 {
		maxUnitQuantity = 100
	}
	return &Engine{
		classifier:      classifier,
		policy:          policy,
		portioner:       portioner,
		gramStep:        float64(gramStep),
		maxUnitQuantity: float64(maxUnitQuantity),
	}
}

// Session 一次客製化流程的狀態
// 選擇狀態只能透過下方的操作方法變動；流程之間不共享任何可變狀態
type Session struct {
	mu sync.Mutex

	id         string
	dish       *Dish // nil 表示完全自選
	template   *DishTemplate
	orderQty   int
	selection  Selection
	canonical  map[int64]CanonicalRecipeItem // 以食材 ID 為鍵，還原 REMOVED 項目時查數量
	reconciled bool
	lastAccess time.Time

	engine *Engine
	view   CatalogView
}

// NewSession 創建客製化流程
func (e *Engine) NewSession(id string, dish *Dish, view CatalogView) *Session {
	return &Session{
		id:         id,
		dish:       dish,
		orderQty:   1,
		selection:  make(Selection),
		canonical:  make(map[int64]CanonicalRecipeItem),
		lastAccess: time.Now(),
		engine:     e,
		view:       view,
	}
}

// ID 流程識別碼
func (s *Session) ID() string { return s.id }

// Dish 客製化基底餐點（完全自選時為 nil）
func (s *Session) Dish() *Dish { return s.dish }

// LastAccess 最近一次操作時間
func (s *Session) LastAccess() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAccess
}

func (s *Session) touch() {
	s.lastAccess = time.Now()
}

// Template 目前選擇的尺寸模板
func (s *Session) Template() *DishTemplate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.template
}

// OrderQuantity 訂購份數
func (s *Session) OrderQuantity() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orderQty
}

// SelectionCopy 選擇狀態的快照
func (s *Session) SelectionCopy() Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection.Clone()
}

// SelectTemplate 選擇尺寸模板
// 注意：換尺寸不會回頭重新驗證已選的項目，超額的狀態留給結帳時的
// 最終檢查攔截（沿用既有產品行為）
func (s *Session) SelectTemplate(template *DishTemplate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.template = template
}

// SetOrderQuantity 設定訂購份數（最少 1）
func (s *Session) SetOrderQuantity(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	if n < 1 {
		n = 1
	}
	s.orderQty = n
}

// Reconcile 在流程開始時合併既有狀態：
// 有快取的選擇就原樣還原，否則用原始配方填入 BASE 項目
// （neededQuantity 缺漏時以 200 補）。只執行一次，不會覆蓋使用者的編輯。
func (s *Session) Reconcile(canonical []CanonicalRecipeItem, cached Selection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	for _, item := range canonical {
		s.canonical[item.IngredientID] = item
	}

	// 守衛：已合併過或已有選擇時不得重跑
	if s.reconciled || len(s.selection) > 0 {
		return
	}
	s.reconciled = true

	if len(cached) > 0 {
		s.selection = cached.Clone()
		return
	}

	for _, item := range canonical {
		qty := item.NeededQuantity
		if qty <= 0 {
			qty = 200
		}
		s.selection[item.CategoryID] = append(s.selection[item.CategoryID], RecipeItem{
			IngredientID: item.IngredientID,
			Quantity:     qty,
			SourceType:   SourceBase,
		})
	}
}

// ToggleIngredient 切換食材的選取狀態
//   - 未選尺寸時拒絕（NO_SIZE_SELECTED），狀態不變
//   - 已選取：ADDON 直接移除（不檢查配額）；BASE 改標記為 REMOVED；
//     REMOVED 還原為 BASE（視同新增，檢查配額）
//   - 未選取：檢查角色配額後以 ADDON 加入，超額時拒絕且狀態不變
func (s *Session) ToggleIngredient(categoryID, ingredientID int64, defaultQuantity float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if s.template == nil {
		return ErrNoSizeSelected
	}

	idx := s.selection.Find(categoryID, ingredientID)
	if idx >= 0 {
		item := s.selection[categoryID][idx]
		switch item.SourceType {
		case SourceAddon:
			// 移除不需要配額檢查
			s.selection[categoryID] = append(s.selection[categoryID][:idx], s.selection[categoryID][idx+1:]...)
			if len(s.selection[categoryID]) == 0 {
				delete(s.selection, categoryID)
			}
			return nil
		case SourceBase:
			// 原始配方的項目不刪除，改標記為移除，送單時數量為 0
			s.selection[categoryID][idx].SourceType = SourceRemoved
			s.selection[categoryID][idx].Quantity = 0
			return nil
		case SourceRemoved:
			// 還原視同新增，必須通過配額
			qty := s.canonicalQuantity(ingredientID, defaultQuantity)
			if err := s.checkQuota(categoryID, ingredientID, qty); err != nil {
				return err
			}
			s.selection[categoryID][idx].SourceType = SourceBase
			s.selection[categoryID][idx].Quantity = qty
			return nil
		}
	}

	ing, ok := s.view.Ingredient(ingredientID)
	if !ok || !ing.Active {
		return ErrIngredientNotFound
	}

	qty := defaultQuantity
	if qty <= 0 {
		if ing.Unit == UnitGram {
			qty = s.engine.gramStep
		} else {
			qty = 1
		}
	}

	if err := s.checkQuota(categoryID, ingredientID, qty); err != nil {
		return err
	}

	s.selection[categoryID] = append(s.selection[categoryID], RecipeItem{
		IngredientID: ingredientID,
		Quantity:     qty,
		SourceType:   SourceAddon,
	})
	return nil
}

// checkQuota 檢查把指定數量的食材加進來是否超過角色配額
// 呼叫端必須已持有鎖
func (s *Session) checkQuota(categoryID, ingredientID int64, quantity float64) error {
	category, ok := s.view.Category(categoryID)
	if !ok {
		return ErrIngredientNotFound
	}
	ing, ok := s.view.Ingredient(ingredientID)
	if !ok {
		return ErrIngredientNotFound
	}
	// 聲稱的分類必須是食材真正所屬的分類，否則可以把蛋白質
	// 掛在醬料分類下繞過配額
	if ing.CategoryID != categoryID {
		return ErrIngredientNotFound
	}

	role := s.engine.classifier.Classify(category.Name)
	quota := s.engine.policy.MaxPortions(s.template, role)
	current := s.engine.portioner.AggregateRolePortions(s.view, s.engine.classifier, s.selection, role, 0)
	contribution := s.engine.portioner.PortionsOf(ing, quantity)

	if current+contribution > quota {
		return &QuotaError{Role: role, Current: current, Max: quota}
	}
	return nil
}

// canonicalQuantity 還原項目時使用的數量：原始配方數量優先，
// 其次呼叫端給的預設值，最後落回一份
func (s *Session) canonicalQuantity(ingredientID int64, defaultQuantity float64) float64 {
	if item, ok := s.canonical[ingredientID]; ok && item.NeededQuantity > 0 {
		return item.NeededQuantity
	}
	if defaultQuantity > 0 {
		return defaultQuantity
	}
	return s.engine.gramStep
}

// UpdateQuantity 調整已選食材的數量，回傳實際套用的值
// 超出範圍的請求不報錯，靜默夾回 [min, max]（夾取是冪等的）。
// 請求 0 或負數視為明確移除：BASE 項目改標記 REMOVED，ADDON 直接刪除。
func (s *Session) UpdateQuantity(categoryID, ingredientID int64, requested float64) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	idx := s.selection.Find(categoryID, ingredientID)
	if idx < 0 {
		return 0, ErrIngredientNotFound
	}
	ing, ok := s.view.Ingredient(ingredientID)
	if !ok {
		return 0, ErrIngredientNotFound
	}

	item := s.selection[categoryID][idx]

	// 明確設為 0：移除
	if requested <= 0 {
		if item.SourceType == SourceBase {
			s.selection[categoryID][idx].SourceType = SourceRemoved
			s.selection[categoryID][idx].Quantity = 0
		} else if item.SourceType == SourceAddon {
			s.selection[categoryID] = append(s.selection[categoryID][:idx], s.selection[categoryID][idx+1:]...)
			if len(s.selection[categoryID]) == 0 {
				delete(s.selection, categoryID)
			}
		}
		return 0, nil
	}

	// 被移除的項目給正數量 = 還原，視同新增檢查配額
	if item.SourceType == SourceRemoved {
		clamped := s.clampQuantity(categoryID, ing, requested)
		if err := s.checkQuota(categoryID, ingredientID, clamped); err != nil {
			return 0, err
		}
		s.selection[categoryID][idx].SourceType = SourceBase
		s.selection[categoryID][idx].Quantity = clamped
		return clamped, nil
	}

	clamped := s.clampQuantity(categoryID, ing, requested)
	s.selection[categoryID][idx].Quantity = clamped
	return clamped, nil
}

// clampQuantity 把請求的數量夾進單位相依的 [min, max]
// 克制食材：最小一個步長，最大為角色剩餘配額換算的克數；
// 其他單位：最小 1，最大為設定的上限（預設 100）。
// 呼叫端必須已持有鎖
func (s *Session) clampQuantity(categoryID int64, ing *Ingredient, requested float64) float64 {
	if ing.Unit != UnitGram {
		return math.Min(math.Max(requested, 1), s.engine.maxUnitQuantity)
	}

	minQty := s.engine.gramStep
	maxQty := minQty

	category, ok := s.view.Category(categoryID)
	if ok {
		role := s.engine.classifier.Classify(category.Name)
		quota := s.engine.policy.MaxPortions(s.template, role)
		others := s.engine.portioner.AggregateRolePortions(s.view, s.engine.classifier, s.selection, role, ing.ID)
		room := (quota - others) * s.engine.portioner.gramsPerPortion
		maxQty = math.Max(minQty, room)
	}

	return math.Min(math.Max(requested, minQty), maxQty)
}

// Validate 結帳前的最終檢查
// 空選擇（沒有任何未移除的項目）與任何角色超額都會擋下送出
func (s *Session) Validate() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	selected := 0
	for _, items := range s.selection {
		for _, item := range items {
			if item.SourceType != SourceRemoved {
				selected++
			}
		}
	}
	if selected == 0 {
		return ErrEmptySelection
	}

	// 防禦性複檢：換尺寸等操作可能留下超額的中間狀態
	var violations []QuotaError
	for _, role := range []Role{RoleCarb, RoleProtein, RoleVegetable} {
		quota := s.engine.policy.MaxPortions(s.template, role)
		current := s.engine.portioner.AggregateRolePortions(s.view, s.engine.classifier, s.selection, role, 0)
		if current > quota {
			violations = append(violations, QuotaError{Role: role, Current: current, Max: quota})
		}
	}
	if len(violations) > 0 {
		return &SubmitError{Violations: violations}
	}
	return nil
}

// Price 目前選擇狀態的總價（含訂購份數）
func (s *Session) Price() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ComputeTotal(s.basePrice(), s.template, s.selection, s.view, s.orderQty)
}

// UnitPrice 單份價格
func (s *Session) UnitPrice() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ComputeTotal(s.basePrice(), s.template, s.selection, s.view, 1)
}

func (s *Session) basePrice() int64 {
	if s.dish == nil {
		return 0
	}
	return s.dish.Price
}

// CartLine 產出購物車品項：配方攤平（REMOVED 數量為 0）、單份價格、
// 完全自選時 dishId 為 0，基於既有餐點時以 basedOnId 記錄原餐點
func (s *Session) CartLine() (*CartItem, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	line := &CartItem{
		DishID:       0,
		Name:         "自選碗",
		Price:        ComputeTotal(s.basePrice(), s.template, s.selection, s.view, 1),
		Quantity:     s.orderQty,
		DishTemplate: s.template,
		Recipe:       s.selection.Flatten(),
	}
	if s.dish != nil {
		line.BasedOnID = s.dish.ID
		line.Name = s.dish.Name
		line.ImageURL = s.dish.ImageURL
	}
	return line, nil
}
