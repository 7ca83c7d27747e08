package config

// DefaultConfigFile is the conventional config file name.
const DefaultConfigFile = ".docchat.yml"

// ProviderPreset describes the default models for a provider.
type ProviderPreset struct {
	Model          string
	EmbeddingModel string
	// EmbeddingDims is needed only for Ollama, whose embedding API does
	// not report dimensionality up front.
	EmbeddingDims int
}

var providerPresets = map[ProviderType]ProviderPreset{
	ProviderOpenAI: {
		Model:          "gpt-4o-mini",
		EmbeddingModel: "text-embedding-3-small",
	},
	ProviderOpenRouter: {
		Model: "google/gemini-2.5-flash",
		// OpenRouter has no embeddings endpoint; embeddings go through
		// OpenAI directly.
		EmbeddingModel: "text-embedding-3-small",
	},
	ProviderOllama: {
		Model:          "llama3",
		EmbeddingModel: "nomic-embed-text",
		EmbeddingDims:  768,
	},
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	preset := providerPresets[ProviderOpenAI]
	return &Config{
		Provider:        ProviderOpenAI,
		Model:           preset.Model,
		EmbeddingModel:  preset.EmbeddingModel,
		OllamaHost:      "http://localhost:11434",
		ChunkSize:       1000,
		ChunkOverlap:    100,
		RetrievalK:      4,
		HistoryWindow:   10,
		SummaryMaxChars: 16000,
		Port:            8420,
	}
}

// GetPreset returns the model preset for the given provider, falling back
// to the OpenAI preset for unknown providers.
func GetPreset(provider ProviderType) ProviderPreset {
	if preset, ok := providerPresets[provider]; ok {
		return preset
	}
	return providerPresets[ProviderOpenAI]
}
