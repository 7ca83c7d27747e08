package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/ziadkadry99/doc-chat/internal/errdefs"
)

// openAICompatProvider implements Provider against any OpenAI-compatible
// Chat Completions endpoint. OpenAI itself and OpenRouter both go through
// it, differing only in base URL and reported name.
type openAICompatProvider struct {
	client *openai.Client
	model  string
	name   string
}

// NewOpenAIProvider creates a provider for the OpenAI API.
func NewOpenAIProvider(apiKey string, model string) Provider {
	return &openAICompatProvider{
		client: openai.NewClient(apiKey),
		model:  model,
		name:   "openai",
	}
}

func (p *openAICompatProvider) Name() string {
	return p.name
}

func (p *openAICompatProvider) buildRequest(req CompletionRequest) openai.ChatCompletionRequest {
	model := req.Model
	if model == "" {
		model = p.model
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = 4096
	}

	var messages []openai.ChatCompletionMessage
	for _, msg := range req.Messages {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}

	return openai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: float32(req.Temperature),
	}
}

func (p *openAICompatProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	resp, err := p.client.CreateChatCompletion(ctx, p.buildRequest(req))
	if err != nil {
		return nil, errdefs.Classify(fmt.Errorf("%s completion: %w", p.name, err))
	}

	var content, finishReason string
	if len(resp.Choices) > 0 {
		content = resp.Choices[0].Message.Content
		finishReason = string(resp.Choices[0].FinishReason)
	}

	return &CompletionResponse{
		Content:      content,
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
		Model:        resp.Model,
		FinishReason: finishReason,
	}, nil
}

func (p *openAICompatProvider) Stream(ctx context.Context, req CompletionRequest, onDelta func(delta string) error) (*CompletionResponse, error) {
	apiReq := p.buildRequest(req)
	apiReq.Stream = true

	stream, err := p.client.CreateChatCompletionStream(ctx, apiReq)
	if err != nil {
		return nil, errdefs.Classify(fmt.Errorf("%s stream: %w", p.name, err))
	}
	defer stream.Close()

	var sb strings.Builder
	var finishReason, model string
	for {
		chunk, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errdefs.Classify(fmt.Errorf("%s stream recv: %w", p.name, err))
		}
		model = chunk.Model
		if len(chunk.Choices) == 0 {
			continue
		}
		choice := chunk.Choices[0]
		if choice.FinishReason != "" {
			finishReason = string(choice.FinishReason)
		}
		if choice.Delta.Content == "" {
			continue
		}
		sb.WriteString(choice.Delta.Content)
		if onDelta != nil {
			if err := onDelta(choice.Delta.Content); err != nil {
				return nil, err
			}
		}
	}

	return &CompletionResponse{
		Content:      sb.String(),
		Model:        model,
		FinishReason: finishReason,
	}, nil
}
