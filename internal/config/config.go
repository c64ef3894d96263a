package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/run-bigpig/sorb/internal/models"
)

// Config 服务配置，全部来自环境变量
type Config struct {
	Port     string
	LogLevel string

	// 抽取用模型与追问用模型可以是两个不同的部署
	ExtractModel models.AIConfig
	ClarifyModel models.AIConfig

	RequestTimeout time.Duration

	// 全局限流：每秒令牌数与桶容量
	RateLimitPerSecond float64
	RateLimitBurst     int
}

// Load 加载配置
// ENVIRONNEMENT=PROD 时从 config/.env 读取，否则读取当前目录的 .env
// 没有 .env 文件时直接使用进程环境变量
func Load() (*Config, error) {
	envFile := ".env"
	if os.Getenv("ENVIRONNEMENT") == "PROD" {
		envFile = "config/.env"
	}
	if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	cfg := &Config{
		Port:               getEnv("PORT", "8000"),
		LogLevel:           getEnv("LOG_LEVEL", "INFO"),
		RequestTimeout:     getDurationEnv("REQUEST_TIMEOUT_SECONDS", 60*time.Second),
		RateLimitPerSecond: getFloatEnv("RATE_LIMIT_PER_SECOND", 10),
		RateLimitBurst:     getIntEnv("RATE_LIMIT_BURST", 30),
	}

	provider := models.AIProvider(getEnv("LLM_PROVIDER", string(models.AIProviderAzure)))
	base := models.AIConfig{
		Provider:   provider,
		APIKey:     os.Getenv("LLM_API_KEY"),
		BaseURL:    os.Getenv("LLM_BASE_URL"),
		APIVersion: os.Getenv("AZURE_API_VERSION"),
	}

	cfg.ExtractModel = base
	cfg.ExtractModel.ModelName = getEnv("EXTRACT_MODEL", "gpt-4")
	cfg.ClarifyModel = base
	cfg.ClarifyModel.ModelName = getEnv("CLARIFY_MODEL", "gpt-4o")

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate 启动期校验，缺少关键配置直接失败
func (c *Config) validate() error {
	if c.ExtractModel.APIKey == "" {
		return fmt.Errorf("LLM_API_KEY is required")
	}
	switch c.ExtractModel.Provider {
	case models.AIProviderOpenAI, models.AIProviderGemini:
	case models.AIProviderAzure:
		if c.ExtractModel.BaseURL == "" {
			return fmt.Errorf("LLM_BASE_URL is required for the azure provider")
		}
	default:
		return fmt.Errorf("unknown LLM_PROVIDER: %q", c.ExtractModel.Provider)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getFloatEnv(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
	}
	return fallback
}
