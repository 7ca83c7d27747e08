package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/ziadkadry99/doc-chat/internal/chat"
	"github.com/ziadkadry99/doc-chat/internal/config"
	"github.com/ziadkadry99/doc-chat/internal/docload"
	"github.com/ziadkadry99/doc-chat/internal/embeddings"
	"github.com/ziadkadry99/doc-chat/internal/llm"
	"github.com/ziadkadry99/doc-chat/internal/progress"
	"github.com/ziadkadry99/doc-chat/internal/session"
	"github.com/ziadkadry99/doc-chat/internal/summary"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `docchat init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// createEmbedderFromConfig creates the primary embedder based on config.
// Providers without a native embeddings endpoint use OpenAI embeddings.
func createEmbedderFromConfig(cfg *config.Config) (embeddings.Embedder, error) {
	model := cfg.EmbeddingModel
	if model == "" {
		model = config.GetPreset(cfg.Provider).EmbeddingModel
	}

	switch cfg.Provider {
	case config.ProviderOllama:
		dims := config.GetPreset(config.ProviderOllama).EmbeddingDims
		return embeddings.NewOllamaEmbedder(model, dims, cfg.OllamaHost), nil
	default:
		apiKey := os.Getenv(config.APIKeyEnvVar(config.ProviderOpenAI))
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required (used for embeddings when provider is %s)", cfg.Provider)
		}
		return embeddings.NewOpenAIEmbedder(apiKey, embeddings.OpenAIModel(model)), nil
	}
}

// createProviderFromConfig creates the LLM provider based on config.
func createProviderFromConfig(cfg *config.Config) (llm.Provider, error) {
	switch cfg.Provider {
	case config.ProviderOllama:
		return llm.NewOllamaProvider(cfg.OllamaHost, cfg.Model), nil
	default:
		return llm.NewProvider(string(cfg.Provider), cfg.Model)
	}
}

// buildPipeline wires session, conversation engine, and summarizer from the
// config.
func buildPipeline(cfg *config.Config, log zerolog.Logger) (*session.Session, *chat.Engine, *summary.Summarizer, error) {
	embedder, err := createEmbedderFromConfig(cfg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("creating embedder: %w", err)
	}
	provider, err := createProviderFromConfig(cfg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("creating LLM provider: %w", err)
	}

	sess := session.New(embedder, log)
	engine := chat.NewEngine(sess, provider, cfg.Model, cfg.RetrievalK, cfg.HistoryWindow, log)
	summarizer := summary.New(provider, cfg.Model, cfg.SummaryMaxChars)
	return sess, engine, summarizer, nil
}

// loadDocument reads and parses a document from disk.
func loadDocument(path string) (*docload.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	doc, err := docload.Load(filepath.Base(path), data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return doc, nil
}

// indexDocument loads a file into the session with a progress bar.
func indexDocument(ctx context.Context, sess *session.Session, cfg *config.Config, path string) error {
	doc, err := loadDocument(path)
	if err != nil {
		return err
	}

	reporter := progress.NewReporter()
	started := false
	err = sess.SetDocument(ctx, doc, cfg.ChunkSize, cfg.ChunkOverlap, func(done, total int) {
		if !started {
			reporter.Start(total)
			started = true
		}
		reporter.Update(done, fmt.Sprintf("Embedding %s", doc.Name))
	})
	if started {
		reporter.Finish()
	}
	if err != nil {
		return fmt.Errorf("indexing %s: %w", path, err)
	}
	return nil
}
