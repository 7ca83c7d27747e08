package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// MockProvider is a test provider that records calls and returns canned
// responses, streaming its content in fixed-size pieces.
type MockProvider struct {
	mu       sync.Mutex
	Calls    []CompletionRequest
	Response *CompletionResponse
	Err      error
	ProvName string
}

func NewMockProvider(name string) *MockProvider {
	return &MockProvider{
		ProvName: name,
		Response: &CompletionResponse{
			Content:      "mock response",
			InputTokens:  10,
			OutputTokens: 20,
			Model:        "mock-model",
			FinishReason: "stop",
		},
	}
}

func (m *MockProvider) Name() string {
	return m.ProvName
}

func (m *MockProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, req)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Response, nil
}

func (m *MockProvider) Stream(ctx context.Context, req CompletionRequest, onDelta func(delta string) error) (*CompletionResponse, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, req)
	err := m.Err
	resp := m.Response
	m.mu.Unlock()
	if err != nil {
		return nil, err
	}
	if onDelta != nil {
		const piece = 4
		content := resp.Content
		for i := 0; i < len(content); i += piece {
			end := i + piece
			if end > len(content) {
				end = len(content)
			}
			if err := onDelta(content[i:end]); err != nil {
				return nil, err
			}
		}
	}
	return resp, nil
}

func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// --- Tests ---

func TestMockProviderRecordsCalls(t *testing.T) {
	mock := NewMockProvider("test")
	ctx := context.Background()

	req := CompletionRequest{
		Model:    "test-model",
		Messages: []Message{{Role: RoleUser, Content: "hello"}},
	}

	resp, err := mock.Complete(ctx, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.Content != "mock response" {
		t.Errorf("expected 'mock response', got %q", resp.Content)
	}

	if mock.CallCount() != 1 {
		t.Errorf("expected 1 call, got %d", mock.CallCount())
	}

	if mock.Calls[0].Model != "test-model" {
		t.Errorf("expected model 'test-model', got %q", mock.Calls[0].Model)
	}
}

func TestMockProviderStreamAssemblesDeltas(t *testing.T) {
	mock := NewMockProvider("test")
	var sb strings.Builder
	resp, err := mock.Stream(context.Background(), CompletionRequest{}, func(delta string) error {
		sb.WriteString(delta)
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sb.String() != resp.Content {
		t.Errorf("deltas join to %q, response content is %q", sb.String(), resp.Content)
	}
}

func TestMockProviderStreamAbortsOnCallbackError(t *testing.T) {
	mock := NewMockProvider("test")
	sentinel := errors.New("stop now")
	_, err := mock.Stream(context.Background(), CompletionRequest{}, func(delta string) error {
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Errorf("err = %v, want callback error", err)
	}
}

func TestFactoryReturnsErrorForMissingAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("OPENROUTER_API_KEY", "")

	for _, p := range []string{"openai", "openrouter"} {
		_, err := NewProvider(p, "some-model")
		if err == nil {
			t.Errorf("expected error for provider %q with missing API key", p)
		}
	}
}

func TestFactoryReturnsErrorForUnknownProvider(t *testing.T) {
	_, err := NewProvider("unknown", "some-model")
	if err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestFactoryCreatesOllamaWithoutAPIKey(t *testing.T) {
	t.Setenv("OLLAMA_HOST", "http://localhost:11434")
	provider, err := NewProvider("ollama", "llama3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider.Name() != "ollama" {
		t.Errorf("expected name 'ollama', got %q", provider.Name())
	}
}

func TestOllamaStreamReadsNDJSON(t *testing.T) {
	lines := []ollamaChatResponse{
		{Message: ollamaMessage{Role: "assistant", Content: "Hel"}, Model: "llama3"},
		{Message: ollamaMessage{Role: "assistant", Content: "lo"}, Model: "llama3"},
		{Done: true, DoneReason: "stop", Model: "llama3", PromptEvalCount: 5, EvalCount: 2},
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			http.NotFound(w, r)
			return
		}
		enc := json.NewEncoder(w)
		for _, line := range lines {
			if err := enc.Encode(line); err != nil {
				t.Errorf("encode: %v", err)
			}
		}
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "llama3")
	var sb strings.Builder
	resp, err := p.Stream(context.Background(), CompletionRequest{
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
	}, func(delta string) error {
		sb.WriteString(delta)
		return nil
	})
	if err != nil {
		t.Fatalf("Stream: %v", err)
	}
	if resp.Content != "Hello" || sb.String() != "Hello" {
		t.Errorf("content = %q, deltas = %q, want Hello", resp.Content, sb.String())
	}
	if resp.FinishReason != "stop" {
		t.Errorf("finish reason = %q, want stop", resp.FinishReason)
	}
}

func TestOllamaCompleteSurfacesHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "missing")
	_, err := p.Complete(context.Background(), CompletionRequest{
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
	})
	if err == nil {
		t.Fatal("expected error for HTTP 404")
	}
}
