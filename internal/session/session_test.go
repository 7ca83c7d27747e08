package session

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ziadkadry99/doc-chat/internal/docload"
	"github.com/ziadkadry99/doc-chat/internal/errdefs"
)

// stubEmbedder returns deterministic vectors, optionally failing every call.
type stubEmbedder struct {
	dims int
	err  error
}

func (e *stubEmbedder) Name() string    { return "stub" }
func (e *stubEmbedder) Dimensions() int { return e.dims }

func (e *stubEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if e.err != nil {
		return nil, e.err
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec := make([]float32, e.dims)
		for j, r := range text {
			vec[j%e.dims] += float32(r)
		}
		out[i] = vec
	}
	return out, nil
}

func testDoc(text string) *docload.Document {
	return &docload.Document{
		ID:       "doc-1",
		Name:     "test.txt",
		Format:   "txt",
		Text:     text,
		Segments: []docload.Segment{{Text: text, Page: 1}},
	}
}

func TestSetDocumentBuildsIndex(t *testing.T) {
	s := New(&stubEmbedder{dims: 8}, zerolog.Nop())
	doc := testDoc(strings.Repeat("some document text here ", 20))

	if err := s.SetDocument(context.Background(), doc, 100, 10, nil); err != nil {
		t.Fatalf("SetDocument: %v", err)
	}
	if s.Index() == nil {
		t.Fatal("index is nil after SetDocument")
	}
	if s.Index().Count() == 0 {
		t.Error("index is empty")
	}
	if s.Document().Name != "test.txt" {
		t.Errorf("document = %q", s.Document().Name)
	}
	if s.UsingFallback() {
		t.Error("fallback engaged without a quota error")
	}
}

func TestSetDocumentClearsHistory(t *testing.T) {
	s := New(&stubEmbedder{dims: 8}, zerolog.Nop())
	if err := s.SetDocument(context.Background(), testDoc("first document body"), 100, 10, nil); err != nil {
		t.Fatalf("SetDocument: %v", err)
	}
	s.AppendTurn(Turn{Question: "q", Answer: "a"})
	if len(s.History()) != 1 {
		t.Fatalf("history length = %d, want 1", len(s.History()))
	}

	if err := s.SetDocument(context.Background(), testDoc("second document body"), 100, 10, nil); err != nil {
		t.Fatalf("SetDocument: %v", err)
	}
	if len(s.History()) != 0 {
		t.Errorf("history survived new upload: %d turns", len(s.History()))
	}
}

func TestQuotaSwitchesToFallback(t *testing.T) {
	primary := &stubEmbedder{
		dims: 8,
		err:  fmt.Errorf("%w: simulated", errdefs.ErrQuotaExceeded),
	}
	s := New(primary, zerolog.Nop())
	doc := testDoc("alpha beta gamma delta epsilon zeta eta theta")

	if err := s.SetDocument(context.Background(), doc, 20, 5, nil); err != nil {
		t.Fatalf("SetDocument: %v", err)
	}
	if !s.UsingFallback() {
		t.Error("session did not switch to fallback")
	}
	if got := s.Index().Provider(); got != "tfidf-local" {
		t.Errorf("index provider = %q, want tfidf-local", got)
	}

	// Subsequent uploads stay on the fallback without touching the primary.
	primary.err = fmt.Errorf("%w: primary must not be called again", errdefs.ErrAuthFailed)
	if err := s.SetDocument(context.Background(), testDoc("another document entirely"), 20, 5, nil); err != nil {
		t.Fatalf("SetDocument after fallback: %v", err)
	}
	if got := s.Index().Provider(); got != "tfidf-local" {
		t.Errorf("second index provider = %q, want tfidf-local", got)
	}
}

func TestQueryQuotaSwitchesToFallback(t *testing.T) {
	primary := &stubEmbedder{dims: 8}
	s := New(primary, zerolog.Nop())
	doc := testDoc("alpha beta gamma delta epsilon zeta eta theta")
	if err := s.SetDocument(context.Background(), doc, 20, 5, nil); err != nil {
		t.Fatalf("SetDocument: %v", err)
	}

	// Quota runs out between the build and the first question.
	primary.err = fmt.Errorf("%w: simulated", errdefs.ErrQuotaExceeded)
	hits, err := s.Query(context.Background(), "alpha beta", 2)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(hits) == 0 {
		t.Error("no hits after fallback switch")
	}
	if !s.UsingFallback() {
		t.Error("session did not switch to fallback")
	}
	if got := s.Index().Provider(); got != "tfidf-local" {
		t.Errorf("index provider = %q, want tfidf-local", got)
	}

	// Later queries stay on the fallback without touching the primary.
	primary.err = fmt.Errorf("%w: primary must not be called again", errdefs.ErrAuthFailed)
	if _, err := s.Query(context.Background(), "gamma delta", 2); err != nil {
		t.Errorf("Query after fallback: %v", err)
	}
}

func TestQueryNonQuotaErrorSurfaces(t *testing.T) {
	primary := &stubEmbedder{dims: 8}
	s := New(primary, zerolog.Nop())
	if err := s.SetDocument(context.Background(), testDoc("some document body"), 100, 10, nil); err != nil {
		t.Fatalf("SetDocument: %v", err)
	}

	primary.err = fmt.Errorf("%w: down", errdefs.ErrNetwork)
	if _, err := s.Query(context.Background(), "anything", 2); err == nil {
		t.Fatal("network error during retrieval should surface")
	}
	if s.UsingFallback() {
		t.Error("network error switched the session to fallback")
	}
}

func TestAuthErrorAborts(t *testing.T) {
	primary := &stubEmbedder{
		dims: 8,
		err:  fmt.Errorf("%w: bad key", errdefs.ErrAuthFailed),
	}
	s := New(primary, zerolog.Nop())
	err := s.SetDocument(context.Background(), testDoc("some text"), 100, 10, nil)
	if err == nil {
		t.Fatal("expected auth error to abort")
	}
	if s.Index() != nil {
		t.Error("failed build installed an index")
	}
}

func TestFailedBuildKeepsPreviousDocument(t *testing.T) {
	primary := &stubEmbedder{dims: 8}
	s := New(primary, zerolog.Nop())
	if err := s.SetDocument(context.Background(), testDoc("good document"), 100, 10, nil); err != nil {
		t.Fatalf("SetDocument: %v", err)
	}

	primary.err = fmt.Errorf("%w: down", errdefs.ErrNetwork)
	if err := s.SetDocument(context.Background(), testDoc("bad document"), 100, 10, nil); err == nil {
		t.Fatal("expected network error")
	}
	if s.Document() == nil || s.Document().Text != "good document" {
		t.Error("previous document was discarded by a failed build")
	}
}

func TestResetClearsEverything(t *testing.T) {
	s := New(&stubEmbedder{dims: 8}, zerolog.Nop())
	if err := s.SetDocument(context.Background(), testDoc("body text"), 100, 10, nil); err != nil {
		t.Fatalf("SetDocument: %v", err)
	}
	s.AppendTurn(Turn{Question: "q", Answer: "a"})
	s.SetSummary("a digest")
	s.Reset()

	if s.Document() != nil || s.Index() != nil || len(s.History()) != 0 {
		t.Error("Reset left state behind")
	}
	if s.Summary() != "" {
		t.Error("Reset kept the summary")
	}
}

func TestSummaryClearedOnNewDocument(t *testing.T) {
	s := New(&stubEmbedder{dims: 8}, zerolog.Nop())
	if err := s.SetDocument(context.Background(), testDoc("first body"), 100, 10, nil); err != nil {
		t.Fatalf("SetDocument: %v", err)
	}
	s.SetSummary("digest of the first document")
	if s.Summary() == "" {
		t.Fatal("summary not recorded")
	}

	if err := s.SetDocument(context.Background(), testDoc("second body"), 100, 10, nil); err != nil {
		t.Fatalf("SetDocument: %v", err)
	}
	if s.Summary() != "" {
		t.Error("summary survived a new upload")
	}
}

func TestLastFailedQuestionBookkeeping(t *testing.T) {
	s := New(&stubEmbedder{dims: 8}, zerolog.Nop())
	s.SetLastFailed("what happened?")
	if got := s.LastFailedQuestion(); got != "what happened?" {
		t.Errorf("LastFailedQuestion = %q", got)
	}
	s.AppendTurn(Turn{Question: "what happened?", Answer: "all good"})
	if got := s.LastFailedQuestion(); got != "" {
		t.Errorf("retry question survived a successful turn: %q", got)
	}
}

func TestTranscriptMarkdown(t *testing.T) {
	s := New(&stubEmbedder{dims: 8}, zerolog.Nop())
	if err := s.SetDocument(context.Background(), testDoc("body"), 100, 10, nil); err != nil {
		t.Fatalf("SetDocument: %v", err)
	}
	s.AppendTurn(Turn{
		Question: "What is this?",
		Answer:   "A test.",
		Sources:  []Source{{Seq: 0, Page: 1, Similarity: 0.9}},
	})

	out, err := s.Transcript(FormatMarkdown)
	if err != nil {
		t.Fatalf("Transcript: %v", err)
	}
	for _, want := range []string{"test.txt", "What is this?", "A test.", "chunk 0 (page 1)"} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown transcript missing %q:\n%s", want, out)
		}
	}
}

func TestTranscriptJSON(t *testing.T) {
	s := New(&stubEmbedder{dims: 8}, zerolog.Nop())
	s.AppendTurn(Turn{Question: "q1", Answer: "a1"})

	out, err := s.Transcript(FormatJSON)
	if err != nil {
		t.Fatalf("Transcript: %v", err)
	}
	if !strings.Contains(out, `"question": "q1"`) {
		t.Errorf("json transcript missing turn: %s", out)
	}

	if _, err := s.Transcript(TranscriptFormat("xml")); err == nil {
		t.Error("unknown format accepted")
	}
}
