package models

// AIProvider 模型服务提供方
type AIProvider string

const (
	AIProviderOpenAI AIProvider = "openai"
	AIProviderAzure  AIProvider = "azure"
	AIProviderGemini AIProvider = "gemini"
)

// AIConfig 模型服务配置
type AIConfig struct {
	Provider   AIProvider `json:"provider"`
	APIKey     string     `json:"apiKey"`
	BaseURL    string     `json:"baseUrl,omitempty"`
	ModelName  string     `json:"modelName"`
	APIVersion string     `json:"apiVersion,omitempty"` // Azure 专用
}
