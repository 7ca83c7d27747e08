package llm

import (
	openai "github.com/sashabaranov/go-openai"
)

// NewOpenRouterProvider creates a provider for the OpenRouter API, which
// is OpenAI-compatible.
func NewOpenRouterProvider(apiKey string, model string) Provider {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = "https://openrouter.ai/api/v1"
	return &openAICompatProvider{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		name:   "openrouter",
	}
}
