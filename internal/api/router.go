package api

import (
	"context"
	"net/http"
	"time"

	bowlHandler "bowl-customizer/internal/api/handlers/bowl"
	"bowl-customizer/internal/api/handlers/health"
	"bowl-customizer/internal/api/middleware"
	bowlService "bowl-customizer/internal/core/bowl"
	"bowl-customizer/internal/core/bowlcache"
	"bowl-customizer/internal/core/catalog"
	"bowl-customizer/internal/infrastructure/config"
	"bowl-customizer/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// 超時設置
	timeoutDuration = 30 * time.Second
	// 請求體大小限制 (1MB)，這個服務沒有大 payload
	maxBodySize = 1 << 20
)

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, selectionCache *bowlcache.Service) (*gin.Engine, *bowlService.Manager, error) {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// 創建路由引擎
	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(requestid.New()) // 自動生成請求 ID

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 請求體大小限制
	router.Use(middleware.BodySizeLimit(maxBodySize))

	// 請求去重：防止連點造成重複加料／重複結帳
	router.Use(middleware.Deduplication(cfg))

	// 限流
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}

	common.LogInfo("Initializing services",
		zap.String("backend_base_url", cfg.Backend.BaseURL),
		zap.String("quota_policy", cfg.Quota.Policy),
		zap.Bool("catalog_cache_enabled", cfg.CatalogCache.Enabled),
		zap.Bool("selection_cache_enabled", cfg.Cache.Enabled),
	)

	// 初始化目錄服務
	catalogClient := catalog.NewClient(cfg)
	catalogCache := catalog.NewCache(&cfg.CatalogCache)
	catalogService := catalog.NewService(catalogClient, catalogCache)

	// 初始化客製化引擎
	engine := bowlService.NewEngine(
		bowlService.NewKeywordClassifier(),
		bowlService.PolicyByName(cfg.Quota.Policy),
		bowlService.NewPortioner(cfg.Quota.GramsPerPortion),
		cfg.Quota.GramStep,
		cfg.Quota.MaxUnitQuantity,
	)

	// 初始化流程註冊表
	sessionManager := bowlService.NewManager(engine, cfg.Session.TTL, cfg.Session.CleanupInterval)

	handler := bowlHandler.NewHandler(sessionManager, catalogService, selectionCache)

	// 全局中間件：設置超時和服務
	router.Use(func(c *gin.Context) {
		// 設置請求超時
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
		defer cancel()

		// 創建新的請求上下文
		c.Request = c.Request.WithContext(ctx)

		// 設置配置與服務（健康檢查用）
		c.Set("config", cfg)
		c.Set("session_manager", sessionManager)
		c.Set("catalog_service", catalogService)

		// 處理請求
		c.Next()

		// 檢查是否超時
		if ctx.Err() == context.DeadlineExceeded {
			common.LogError("Request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", c.GetHeader("X-Request-ID")),
				zap.Duration("timeout", timeoutDuration),
			)
			c.JSON(http.StatusGatewayTimeout, gin.H{
				"error": "Request timeout",
				"code":  "REQUEST_TIMEOUT",
				"details": gin.H{
					"timeout": timeoutDuration.String(),
				},
			})
			c.Abort()
			return
		}
	})

	// 健康檢查路由
	router.GET("/health", health.HealthCheck)
	router.GET("/ready", health.ReadinessCheck)
	router.GET("/live", health.LivenessCheck)

	// API 路由組
	api := router.Group("/api/v1")
	{
		bowlGroup := api.Group("/bowl")
		{
			// 客製化畫面用的目錄資料
			bowlGroup.GET("/catalog", handler.HandleCatalog)

			// 流程生命週期
			bowlGroup.POST("/sessions", handler.HandleStartSession)
			bowlGroup.GET("/sessions/:id", handler.HandleGetSession)
			bowlGroup.DELETE("/sessions/:id", handler.HandleDiscardSession)

			// 流程操作
			bowlGroup.PUT("/sessions/:id/template", handler.HandleSelectTemplate)
			bowlGroup.POST("/sessions/:id/ingredients/toggle", handler.HandleToggleIngredient)
			bowlGroup.PUT("/sessions/:id/ingredients/quantity", handler.HandleUpdateQuantity)
			bowlGroup.PUT("/sessions/:id/quantity", handler.HandleOrderQuantity)
			bowlGroup.POST("/sessions/:id/checkout", handler.HandleCheckout)
		}
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
		zap.String("quota_policy", cfg.Quota.Policy),
		zap.Duration("timeout", timeoutDuration),
		zap.Int64("max_body_size", maxBodySize),
	)

	return router, sessionManager, nil
}
