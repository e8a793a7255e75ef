package bowl

import (
	"net/http"

	"bowl-customizer/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HandleCheckout 結帳：最終檢查、產出購物車品項、保存選擇快取
// 成功後流程即結束（選擇狀態已轉移到購物車品項與快取）
func (h *Handler) HandleCheckout(c *gin.Context) {
	reqID := requestID(c)

	session, ok := h.session(c)
	if !ok {
		return
	}

	line, err := session.CartLine()
	if err != nil {
		common.LogInfo("結帳檢查未通過",
			zap.Error(err),
			zap.String("session_id", session.ID()),
			zap.String("request_id", reqID),
		)
		respondError(c, err)
		return
	}

	// 基於既有餐點時以餐點 ID 為鍵保存選擇，下次開同一餐點可還原
	// 快取寫入失敗不擋結帳
	if dish := session.Dish(); dish != nil {
		if err := h.selectionCache.Set(c.Request.Context(), dish.ID, session.SelectionCopy()); err != nil {
			common.LogWarn("選擇快取保存失敗",
				zap.Error(err),
				zap.Int64("dish_id", dish.ID),
				zap.String("request_id", reqID),
			)
		}
	}

	h.manager.Delete(session.ID())

	common.LogInfo("結帳完成",
		zap.String("session_id", session.ID()),
		zap.Int64("unit_price", line.Price),
		zap.Int("quantity", line.Quantity),
		zap.String("request_id", reqID),
	)

	c.JSON(http.StatusOK, gin.H{"cart_item": line})
}
