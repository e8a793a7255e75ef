package bowl

import (
	"net/http"

	bowlcore "bowl-customizer/internal/core/bowl"
	"bowl-customizer/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// StartSessionRequest 開始客製化流程
// dish_id 為 0（或省略）表示完全自選；size 可以在開始時一併指定
type StartSessionRequest struct {
	DishID int64  `json:"dish_id"`
	Size   string `json:"size,omitempty"`
}

// HandleStartSession 開始一次客製化流程
// 基於既有餐點時載入原始配方，並優先還原該餐點的快取選擇
func (h *Handler) HandleStartSession(c *gin.Context) {
	reqID := requestID(c)

	var req StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogError("請求格式無效",
			zap.Error(err),
			zap.String("request_id", reqID),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	ctx := c.Request.Context()

	// 目錄快照：流程存續期間的唯讀輸入
	view, err := h.catalogService.View(ctx)
	if err != nil {
		common.LogError("目錄快照載入失敗",
			zap.Error(err),
			zap.String("request_id", reqID),
		)
		respondError(c, common.ErrCatalogUnavailable)
		return
	}

	var dish *bowlcore.Dish
	var canonical []bowlcore.CanonicalRecipeItem
	var cached bowlcore.Selection

	if req.DishID > 0 {
		dish, err = h.catalogService.Dish(ctx, req.DishID)
		if err != nil {
			common.LogError("餐點載入失敗",
				zap.Error(err),
				zap.Int64("dish_id", req.DishID),
				zap.String("request_id", reqID),
			)
			respondError(c, err)
			return
		}

		canonical, err = h.catalogService.Recipe(ctx, req.DishID)
		if err != nil {
			common.LogError("原始配方載入失敗",
				zap.Error(err),
				zap.Int64("dish_id", req.DishID),
				zap.String("request_id", reqID),
			)
			respondError(c, err)
			return
		}

		// 快取讀取失敗不致命，照常從原始配方開始
		cached, err = h.selectionCache.Get(ctx, req.DishID)
		if err != nil {
			common.LogWarn("快取選擇讀取失敗",
				zap.Error(err),
				zap.Int64("dish_id", req.DishID),
				zap.String("request_id", reqID),
			)
			cached = nil
		}
	}

	session := h.manager.Create(dish, view)

	if req.Size != "" {
		template, err := h.catalogService.Template(ctx, bowlcore.Size(req.Size))
		if err != nil {
			common.LogWarn("指定的尺寸不存在",
				zap.String("size", req.Size),
				zap.String("request_id", reqID),
			)
		} else {
			session.SelectTemplate(template)
		}
	}

	session.Reconcile(canonical, cached)

	common.LogInfo("客製化流程已開始",
		zap.String("session_id", session.ID()),
		zap.Int64("dish_id", req.DishID),
		zap.Bool("restored_from_cache", len(cached) > 0),
		zap.String("request_id", reqID),
	)

	c.JSON(http.StatusCreated, sessionResponse(session))
}

// HandleGetSession 取得流程狀態（價格每次重新計算，不儲存）
func (h *Handler) HandleGetSession(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sessionResponse(session))
}

// HandleDiscardSession 放棄流程，選擇狀態直接丟棄
func (h *Handler) HandleDiscardSession(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	h.manager.Delete(session.ID())

	common.LogInfo("客製化流程已放棄",
		zap.String("session_id", session.ID()),
		zap.String("request_id", requestID(c)),
	)

	c.JSON(http.StatusOK, gin.H{"status": "discarded"})
}

// SelectTemplateRequest 選擇尺寸
type SelectTemplateRequest struct {
	Size string `json:"size" binding:"required"`
}

// HandleSelectTemplate 選擇尺寸模板
func (h *Handler) HandleSelectTemplate(c *gin.Context) {
	reqID := requestID(c)

	session, ok := h.session(c)
	if !ok {
		return
	}

	var req SelectTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	template, err := h.catalogService.Template(c.Request.Context(), bowlcore.Size(req.Size))
	if err != nil {
		common.LogWarn("指定的尺寸不存在",
			zap.String("size", req.Size),
			zap.String("request_id", reqID),
		)
		c.JSON(http.StatusNotFound, gin.H{
			"error": "找不到指定的尺寸",
			"code":  common.ErrCodeNotFound,
		})
		return
	}

	session.SelectTemplate(template)

	c.JSON(http.StatusOK, sessionResponse(session))
}

// ToggleIngredientRequest 切換食材
type ToggleIngredientRequest struct {
	CategoryID   int64   `json:"category_id" binding:"required"`
	IngredientID int64   `json:"ingredient_id" binding:"required"`
	Quantity     float64 `json:"quantity,omitempty"` // 省略時按單位取預設值
}

// HandleToggleIngredient 切換食材的選取狀態
func (h *Handler) HandleToggleIngredient(c *gin.Context) {
	reqID := requestID(c)

	session, ok := h.session(c)
	if !ok {
		return
	}

	var req ToggleIngredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if err := session.ToggleIngredient(req.CategoryID, req.IngredientID, req.Quantity); err != nil {
		common.LogInfo("切換食材被拒絕",
			zap.Error(err),
			zap.Int64("ingredient_id", req.IngredientID),
			zap.String("session_id", session.ID()),
			zap.String("request_id", reqID),
		)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, sessionResponse(session))
}

// UpdateQuantityRequest 調整食材數量
type UpdateQuantityRequest struct {
	CategoryID   int64   `json:"category_id" binding:"required"`
	IngredientID int64   `json:"ingredient_id" binding:"required"`
	Quantity     float64 `json:"quantity"`
}

// HandleUpdateQuantity 調整已選食材的數量（超出範圍時靜默夾回）
func (h *Handler) HandleUpdateQuantity(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	var req UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	applied, err := session.UpdateQuantity(req.CategoryID, req.IngredientID, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := sessionResponse(session)
	c.JSON(http.StatusOK, gin.H{
		"applied_quantity": applied,
		"session":          resp,
	})
}

// OrderQuantityRequest 調整訂購份數
type OrderQuantityRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

// HandleOrderQuantity 調整訂購份數
func (h *Handler) HandleOrderQuantity(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	var req OrderQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	session.SetOrderQuantity(req.Quantity)
	c.JSON(http.StatusOK, sessionResponse(session))
}
