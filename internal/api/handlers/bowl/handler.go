package bowl

import (
	"errors"
	"net/http"

	bowlcore "bowl-customizer/internal/core/bowl"
	"bowl-customizer/internal/core/bowlcache"
	"bowl-customizer/internal/core/catalog"
	"bowl-customizer/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// Handler 客製化流程處理程序
type Handler struct {
	manager        *bowlcore.Manager
	catalogService *catalog.Service
	selectionCache *bowlcache.Service
}

// NewHandler 創建新的客製化流程處理程序
func NewHandler(manager *bowlcore.Manager, catalogService *catalog.Service, selectionCache *bowlcache.Service) *Handler {
	return &Handler{
		manager:        manager,
		catalogService: catalogService,
		selectionCache: selectionCache,
	}
}

// SessionResponse 流程狀態響應
type SessionResponse struct {
	SessionID     string                 `json:"session_id"`
	DishID        int64                  `json:"dish_id,omitempty"`
	DishName      string                 `json:"dish_name,omitempty"`
	Template      *bowlcore.DishTemplate `json:"template,omitempty"`
	OrderQuantity int                    `json:"order_quantity"`
	Selection     bowlcore.Selection     `json:"selection"`
	UnitPrice     int64                  `json:"unit_price"`
	TotalPrice    int64                  `json:"total_price"`
}

// sessionResponse 組出流程狀態響應
func sessionResponse(s *bowlcore.Session) SessionResponse {
	resp := SessionResponse{
		SessionID:     s.ID(),
		Template:      s.Template(),
		OrderQuantity: s.OrderQuantity(),
		Selection:     s.SelectionCopy(),
		UnitPrice:     s.UnitPrice(),
		TotalPrice:    s.Price(),
	}
	if dish := s.Dish(); dish != nil {
		resp.DishID = dish.ID
		resp.DishName = dish.Name
	}
	return resp
}

// requestID 取得或生成請求 ID
func requestID(c *gin.Context) string {
	id := c.GetHeader("X-Request-ID")
	if id == "" {
		id = common.GenerateUUID()
		c.Header("X-Request-ID", id)
	}
	return id
}

// session 由路徑參數取得流程，找不到時回應 404
func (h *Handler) session(c *gin.Context) (*bowlcore.Session, bool) {
	s, ok := h.manager.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error": common.ErrSessionNotFound.Message,
			"code":  common.ErrSessionNotFound.Code,
		})
		return nil, false
	}
	return s, true
}

// respondError 把引擎錯誤轉成使用者可見的響應
// 引擎錯誤全是可恢復狀況：操作被拒絕、狀態未變，回 4xx 加提示即可
func respondError(c *gin.Context, err error) {
	var quotaErr *bowlcore.QuotaError
	if errors.As(err, &quotaErr) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": quotaErr.Error(),
			"code":  "QUOTA_EXCEEDED",
			"details": gin.H{
				"role":    quotaErr.Role,
				"current": quotaErr.Current,
				"max":     quotaErr.Max,
			},
		})
		return
	}

	var submitErr *bowlcore.SubmitError
	if errors.As(err, &submitErr) {
		details := make([]gin.H, 0, len(submitErr.Violations))
		for _, v := range submitErr.Violations {
			details = append(details, gin.H{
				"role":    v.Role,
				"current": v.Current,
				"max":     v.Max,
			})
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":      submitErr.Error(),
			"code":       "VALIDATION_OVER_QUOTA_AT_SUBMIT",
			"violations": details,
		})
		return
	}

	var customErr *common.CustomError
	if errors.As(err, &customErr) {
		c.JSON(customErr.Status, gin.H{
			"error": customErr.Message,
			"code":  customErr.Code,
		})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{
		"error": "Internal server error",
		"code":  common.ErrCodeInternalError,
	})
}
