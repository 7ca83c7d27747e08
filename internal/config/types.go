package config

// ProviderType identifies an LLM provider.
type ProviderType string

const (
	ProviderOpenAI     ProviderType = "openai"
	ProviderOpenRouter ProviderType = "openrouter"
	ProviderOllama     ProviderType = "ollama"
)

// Config is the top-level docchat configuration, corresponding to .docchat.yml.
type Config struct {
	Provider        ProviderType `yaml:"provider" koanf:"provider"`
	Model           string       `yaml:"model" koanf:"model"`
	EmbeddingModel  string       `yaml:"embedding_model" koanf:"embedding_model"`
	OllamaHost      string       `yaml:"ollama_host" koanf:"ollama_host"`
	ChunkSize       int          `yaml:"chunk_size" koanf:"chunk_size"`
	ChunkOverlap    int          `yaml:"chunk_overlap" koanf:"chunk_overlap"`
	RetrievalK      int          `yaml:"retrieval_k" koanf:"retrieval_k"`
	HistoryWindow   int          `yaml:"history_window" koanf:"history_window"`
	SummaryMaxChars int          `yaml:"summary_max_chars" koanf:"summary_max_chars"`
	Port            int          `yaml:"port" koanf:"port"`
}
