// Package session holds the per-process conversation state: the active
// document, its vector index, and the chat history. One session exists per
// process; all mutation goes through its mutex.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ziadkadry99/doc-chat/internal/chunker"
	"github.com/ziadkadry99/doc-chat/internal/docload"
	"github.com/ziadkadry99/doc-chat/internal/embeddings"
	"github.com/ziadkadry99/doc-chat/internal/errdefs"
	"github.com/ziadkadry99/doc-chat/internal/vectordb"
)

// Source references one retrieved chunk that grounded an answer.
type Source struct {
	Seq        int     `json:"seq"`
	Page       int     `json:"page"`
	Similarity float32 `json:"similarity"`
}

// Turn is one completed question/answer exchange. Turns are append-only.
type Turn struct {
	Question string    `json:"question"`
	Answer   string    `json:"answer"`
	Sources  []Source  `json:"sources,omitempty"`
	At       time.Time `json:"at"`
}

// Session owns the pipeline state for one active document.
type Session struct {
	mu      sync.Mutex
	primary embeddings.Embedder
	log     zerolog.Logger

	doc      *docload.Document
	chunks   []chunker.Chunk
	index    *vectordb.Index
	history  []Turn
	summary  string
	fallback bool

	lastFailedQuestion string
	genCancel          context.CancelFunc
	genID              uint64
}

// New creates an empty session. primary is the hosted embedder used until a
// quota error forces the local fallback.
func New(primary embeddings.Embedder, log zerolog.Logger) *Session {
	return &Session{primary: primary, log: log}
}

// SetDocument chunks and indexes a parsed document, then installs it as the
// active document. Any in-flight generation is cancelled and the history is
// cleared. The new index replaces the old one only after a fully successful
// build; on failure the previous document stays queryable.
//
// A quota error from the primary embedder mid-build switches the session to
// the local fallback and rebuilds the whole index with fallback vectors, so
// an index never mixes providers.
func (s *Session) SetDocument(ctx context.Context, doc *docload.Document, chunkSize, chunkOverlap int, onProgress func(done, total int)) error {
	chunks, err := chunker.SplitDocument(doc, chunkSize, chunkOverlap)
	if err != nil {
		return err
	}
	if len(chunks) == 0 {
		return errdefs.ErrEmptyDocument
	}

	s.mu.Lock()
	useFallback := s.fallback
	s.mu.Unlock()

	var index *vectordb.Index
	if useFallback {
		index, err = s.buildFallback(ctx, chunks, onProgress)
	} else {
		index, err = vectordb.Build(ctx, chunks, s.primary, onProgress)
		if errdefs.IsQuota(err) {
			s.log.Warn().Str("embedder", s.primary.Name()).
				Msg("embedding quota exhausted, switching to local fallback")
			index, err = s.buildFallback(ctx, chunks, onProgress)
			if err == nil {
				s.mu.Lock()
				s.fallback = true
				s.mu.Unlock()
			}
		}
	}
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelGenerationLocked()
	s.doc = doc
	s.chunks = chunks
	s.index = index
	s.history = nil
	s.summary = ""
	s.lastFailedQuestion = ""

	s.log.Info().Str("document", doc.Name).Int("chunks", len(chunks)).
		Str("embedder", index.Provider()).Msg("document indexed")
	return nil
}

func (s *Session) buildFallback(ctx context.Context, chunks []chunker.Chunk, onProgress func(done, total int)) (*vectordb.Index, error) {
	local := embeddings.NewLocalEmbedder()
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	if err := local.Fit(texts); err != nil {
		return nil, fmt.Errorf("fit fallback embedder: %w", err)
	}
	return vectordb.Build(ctx, chunks, local, onProgress)
}

// Reset discards the document, index, and history.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelGenerationLocked()
	s.doc = nil
	s.chunks = nil
	s.index = nil
	s.history = nil
	s.summary = ""
	s.fallback = false
	s.lastFailedQuestion = ""
}

// Query retrieves the k chunks most similar to the question. A quota error
// from the primary while embedding the question switches the session to the
// local fallback and rebuilds the index from the retained chunks, the same
// policy as a quota error during an index build, then retries the
// retrieval once.
func (s *Session) Query(ctx context.Context, question string, k int) ([]vectordb.Hit, error) {
	s.mu.Lock()
	index := s.index
	chunks := s.chunks
	onFallback := s.fallback
	s.mu.Unlock()
	if index == nil {
		return nil, errors.New("no index built")
	}

	hits, err := index.Query(ctx, question, k)
	if err == nil || onFallback || !errdefs.IsQuota(err) {
		return hits, err
	}

	s.log.Warn().Str("embedder", index.Provider()).
		Msg("embedding quota exhausted during retrieval, switching to local fallback")
	rebuilt, rebuildErr := s.buildFallback(ctx, chunks, nil)
	if rebuildErr != nil {
		return nil, rebuildErr
	}

	s.mu.Lock()
	// A concurrent upload may have replaced the index; its build already
	// applied the fallback policy, so leave its result alone.
	if s.index == index {
		s.index = rebuilt
		s.fallback = true
	}
	s.mu.Unlock()
	return rebuilt.Query(ctx, question, k)
}

// ClearChat clears the conversation history, keeping the document and index.
func (s *Session) ClearChat() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelGenerationLocked()
	s.history = nil
	s.lastFailedQuestion = ""
}

// BeginGeneration derives a cancellable context for one generation and
// registers its cancel handle so a reset or new upload can abandon it.
// The returned id identifies this generation to EndGeneration.
func (s *Session) BeginGeneration(ctx context.Context) (context.Context, context.CancelFunc, uint64) {
	genCtx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	s.cancelGenerationLocked()
	s.genCancel = cancel
	s.genID++
	id := s.genID
	s.mu.Unlock()
	return genCtx, cancel, id
}

// EndGeneration releases a generation's resources, dropping the registered
// cancel handle only if it still belongs to that generation.
func (s *Session) EndGeneration(id uint64, cancel context.CancelFunc) {
	s.mu.Lock()
	if s.genID == id {
		s.genCancel = nil
	}
	s.mu.Unlock()
	cancel()
}

func (s *Session) cancelGenerationLocked() {
	if s.genCancel != nil {
		s.genCancel()
		s.genCancel = nil
	}
}

// Index returns the active index, or nil when no document is loaded.
func (s *Session) Index() *vectordb.Index {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index
}

// Document returns the active document, or nil.
func (s *Session) Document() *docload.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc
}

// History returns a copy of the conversation history.
func (s *Session) History() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Turn, len(s.history))
	copy(out, s.history)
	return out
}

// AppendTurn records a completed exchange and clears any pending retry.
func (s *Session) AppendTurn(turn Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if turn.At.IsZero() {
		turn.At = time.Now()
	}
	s.history = append(s.history, turn)
	s.lastFailedQuestion = ""
}

// SetLastFailed stashes the question of a failed turn for retry. It is not
// part of the history.
func (s *Session) SetLastFailed(question string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastFailedQuestion = question
}

// LastFailedQuestion returns the question of the most recent failed turn,
// empty when the last turn succeeded.
func (s *Session) LastFailedQuestion() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastFailedQuestion
}

// SetSummary records the document digest so later questions can carry it
// as prompt context. It is cleared by a new upload or a reset.
func (s *Session) SetSummary(digest string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summary = digest
}

// Summary returns the recorded document digest, empty if none was generated.
func (s *Session) Summary() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summary
}

// UsingFallback reports whether the session has switched to the local
// embedder.
func (s *Session) UsingFallback() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fallback
}
