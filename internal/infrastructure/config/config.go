package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 應用配置
type Config struct {
	App          AppConfig          `mapstructure:"app"`
	Server       ServerConfig       `mapstructure:"server"`
	Backend      BackendConfig      `mapstructure:"backend"`
	Cache        CacheConfig        `mapstructure:"cache"`
	CatalogCache CatalogCacheConfig `mapstructure:"catalog_cache"`
	Quota        QuotaConfig        `mapstructure:"quota"`
	Session      SessionConfig      `mapstructure:"session"`
	RateLimit    RateLimitConfig    `mapstructure:"rate_limit"`
	DedupWindow  time.Duration      `mapstructure:"dedup_window"`
	LogLevel     string             `mapstructure:"log_level"`
}

// AppConfig 應用程式設定
type AppConfig struct {
	Env      string `mapstructure:"env"`
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
	Version  string `mapstructure:"version"`
	Name     string `mapstructure:"name"`
}

// ServerConfig 服務器配置
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// BackendConfig 後端目錄服務配置（唯讀資料來源）
type BackendConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// CacheConfig 選擇狀態快取配置（Redis，以餐點 ID 為鍵）
type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Addr    string        `mapstructure:"addr"`
	TTL     time.Duration `mapstructure:"ttl"`
}

// CatalogCacheConfig 目錄資料的記憶體快取配置
type CatalogCacheConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	MaxSize         int           `mapstructure:"max_size"`
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// QuotaConfig 配額與份量換算設定
type QuotaConfig struct {
	Policy          string `mapstructure:"policy"`            // template_field 或 size_table
	GramsPerPortion int    `mapstructure:"grams_per_portion"` // 幾克算一份
	GramStep        int    `mapstructure:"gram_step"`         // 克制食材的調整步長
	MaxUnitQuantity int    `mapstructure:"max_unit_quantity"` // 非克制食材的數量上限
}

// SessionConfig 客製化流程設定
type SessionConfig struct {
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// RateLimitConfig 速率限制配置
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// LoadConfig 載入設定
func LoadConfig() (*Config, error) {
	// 加載 .env 文件
	if err := godotenv.Load(); err != nil {
		return nil, err
	}

	// 設定預設值
	setDefaults()

	// 設定環境變數前綴
	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// 綁定環境變量
	viper.BindEnv("backend.base_url", "BACKEND_BASE_URL")
	viper.BindEnv("backend.api_key", "BACKEND_API_KEY")
	viper.BindEnv("cache.enabled", "CACHE_ENABLED")
	viper.BindEnv("cache.addr", "REDIS_ADDR")
	viper.BindEnv("quota.policy", "QUOTA_POLICY")
	viper.BindEnv("rate_limit.enabled", "RATE_LIMIT_ENABLED")
	viper.BindEnv("rate_limit.requests", "RATE_LIMIT_REQUESTS")
	viper.BindEnv("rate_limit.window", "RATE_LIMIT_WINDOW")
	viper.BindEnv("dedup_window", "DEDUP_WINDOW")
	viper.BindEnv("log_level", "LOG_LEVEL")

	// 設定設定檔名稱和路徑
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	// 讀取設定檔
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// 添加調試日誌（logger 尚未初始化，改用 fmt.Println）
	fmt.Println("Loading configuration", "backend_base_url:", viper.GetString("backend.base_url"), "quota_policy:", viper.GetString("quota.policy"))

	// 解析設定
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 驗證必要設定
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// setDefaults 設定預設值
func setDefaults() {
	// 應用程式設定
	viper.SetDefault("app.env", "development")
	viper.SetDefault("app.debug", true)
	viper.SetDefault("app.log_level", "info")
	viper.SetDefault("app.version", "1.0.0")
	viper.SetDefault("app.name", "bowl-customizer")

	// 伺服器設定
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "30s")
	viper.SetDefault("server.idle_timeout", "120s")

	// 後端目錄設定
	viper.SetDefault("backend.base_url", "http://localhost:3000/api/v1")
	viper.SetDefault("backend.timeout", "15s")

	// 選擇狀態快取設定
	viper.SetDefault("cache.enabled", true)
	viper.SetDefault("cache.addr", "localhost:6379")
	viper.SetDefault("cache.ttl", "24h")

	// 目錄快取設定
	viper.SetDefault("catalog_cache.enabled", true)
	viper.SetDefault("catalog_cache.max_size", 1000)
	viper.SetDefault("catalog_cache.ttl", "10m")
	viper.SetDefault("catalog_cache.cleanup_interval", "10m")

	// 配額設定
	viper.SetDefault("quota.policy", "template_field")
	viper.SetDefault("quota.grams_per_portion", 200)
	viper.SetDefault("quota.gram_step", 200)
	viper.SetDefault("quota.max_unit_quantity", 100)

	// 流程設定
	viper.SetDefault("session.ttl", "2h")
	viper.SetDefault("session.cleanup_interval", "10m")

	// 限流設定
	viper.SetDefault("rate_limit.enabled", true)
	viper.SetDefault("rate_limit.requests", 100)
	viper.SetDefault("rate_limit.window", "1m")

	// 去重設定
	viper.SetDefault("dedup_window", "1s")
}

// validateConfig 驗證設定
func validateConfig(config *Config) error {
	// 驗證伺服器設定
	if config.Server.Port == 0 {
		return fmt.Errorf("server port is required")
	}

	// 驗證後端設定
	if config.Backend.BaseURL == "" {
		return fmt.Errorf("backend base url is required")
	}

	// 驗證目錄快取設定
	if config.CatalogCache.Enabled {
		if config.CatalogCache.MaxSize <= 0 {
			return fmt.Errorf("invalid catalog cache max size")
		}
		if config.CatalogCache.TTL <= 0 {
			return fmt.Errorf("invalid catalog cache ttl")
		}
		if config.CatalogCache.CleanupInterval <= 0 {
			return fmt.Errorf("invalid catalog cache cleanup interval")
		}
	}

	// 驗證配額設定
	switch config.Quota.Policy {
	case "template_field", "size_table":
	default:
		return fmt.Errorf("unknown quota policy: %s", config.Quota.Policy)
	}
	if config.Quota.GramsPerPortion <= 0 {
		return fmt.Errorf("invalid grams per portion")
	}
	if config.Quota.GramStep <= 0 {
		return fmt.Errorf("invalid gram step")
	}
	if config.Quota.MaxUnitQuantity <= 0 {
		return fmt.Errorf("invalid max unit quantity")
	}

	// 驗證流程設定
	if config.Session.TTL <= 0 {
		return fmt.Errorf("invalid session ttl")
	}
	if config.Session.CleanupInterval <= 0 {
		return fmt.Errorf("invalid session cleanup interval")
	}

	return nil
}
