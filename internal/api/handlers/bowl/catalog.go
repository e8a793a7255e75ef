package bowl

import (
	"net/http"

	"bowl-customizer/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HandleCatalog 取得客製化畫面所需的目錄資料
// 尺寸模板、食材分類與可選食材（停用的食材已排除）
func (h *Handler) HandleCatalog(c *gin.Context) {
	reqID := requestID(c)
	ctx := c.Request.Context()

	templates, err := h.catalogService.DishTemplates(ctx)
	if err != nil {
		common.LogError("尺寸模板載入失敗",
			zap.Error(err),
			zap.String("request_id", reqID),
		)
		respondError(c, common.ErrCatalogUnavailable)
		return
	}

	categories, err := h.catalogService.Categories(ctx)
	if err != nil {
		common.LogError("食材分類載入失敗",
			zap.Error(err),
			zap.String("request_id", reqID),
		)
		respondError(c, common.ErrCatalogUnavailable)
		return
	}

	ingredients, err := h.catalogService.Ingredients(ctx)
	if err != nil {
		common.LogError("食材列表載入失敗",
			zap.Error(err),
			zap.String("request_id", reqID),
		)
		respondError(c, common.ErrCatalogUnavailable)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"templates":   templates,
		"categories":  categories,
		"ingredients": ingredients,
	})
}
