package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to .docchat.yml.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to docchat! Let's configure your setup.")
	fmt.Println()

	// 1. Provider selection.
	providerPrompt := promptui.Select{
		Label: "Select LLM provider",
		Items: []string{"openai", "openrouter", "ollama"},
	}
	_, providerStr, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("provider selection: %w", err)
	}
	provider := ProviderType(providerStr)
	preset := GetPreset(provider)

	// 2. Model.
	modelPrompt := promptui.Prompt{
		Label:   "Chat model",
		Default: preset.Model,
	}
	model, err := modelPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("model: %w", err)
	}

	// 3. Chunking parameters.
	defaults := DefaultConfig()
	chunkSize, err := promptInt("Chunk size (characters)", defaults.ChunkSize)
	if err != nil {
		return nil, err
	}
	chunkOverlap, err := promptInt("Chunk overlap (characters)", defaults.ChunkOverlap)
	if err != nil {
		return nil, err
	}
	retrievalK, err := promptInt("Chunks retrieved per question", defaults.RetrievalK)
	if err != nil {
		return nil, err
	}
	port, err := promptInt("HTTP port", defaults.Port)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Provider:        provider,
		Model:           model,
		EmbeddingModel:  preset.EmbeddingModel,
		OllamaHost:      defaults.OllamaHost,
		ChunkSize:       chunkSize,
		ChunkOverlap:    chunkOverlap,
		RetrievalK:      retrievalK,
		HistoryWindow:   defaults.HistoryWindow,
		SummaryMaxChars: defaults.SummaryMaxChars,
		Port:            port,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Check for API key.
	if envVar := APIKeyEnvVar(provider); envVar != "" {
		if os.Getenv(envVar) == "" {
			fmt.Printf("\nNote: Set %s in your environment before running docchat serve.\n", envVar)
		}
	}

	if err := cfg.Save(DefaultConfigFile); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", DefaultConfigFile)
	return cfg, nil
}

func promptInt(label string, def int) (int, error) {
	p := promptui.Prompt{
		Label:   label,
		Default: strconv.Itoa(def),
		Validate: func(s string) error {
			_, err := strconv.Atoi(s)
			return err
		},
	}
	out, err := p.Run()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", label, err)
	}
	return strconv.Atoi(out)
}
