package llm

import "context"

// Provider defines the interface for LLM providers.
type Provider interface {
	// Complete sends a completion request and returns the full response.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
	// Stream sends a completion request and delivers the answer
	// incrementally through onDelta. A non-nil error from onDelta aborts
	// the stream. The returned response carries the assembled content.
	Stream(ctx context.Context, req CompletionRequest, onDelta func(delta string) error) (*CompletionResponse, error)
	// Name returns the name of this provider.
	Name() string
}
