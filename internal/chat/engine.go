// Package chat implements the retrieval-augmented conversation engine: per
// question it retrieves the most similar chunks, assembles a grounded
// prompt with bounded history, and streams the model's answer.
package chat

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ziadkadry99/doc-chat/internal/errdefs"
	"github.com/ziadkadry99/doc-chat/internal/llm"
	"github.com/ziadkadry99/doc-chat/internal/session"
)

// ErrNoDocument is returned when a question arrives before any document
// has been indexed.
var ErrNoDocument = errors.New("no document loaded")

// Answer is a completed response with the chunks that grounded it.
type Answer struct {
	Text    string
	Sources []session.Source
}

// Engine drives one session's conversation.
type Engine struct {
	sess          *session.Session
	provider      llm.Provider
	model         string
	retrievalK    int
	historyWindow int
	log           zerolog.Logger
}

// NewEngine creates a conversation engine over the given session and
// provider. retrievalK is the number of chunks retrieved per question;
// historyWindow bounds how many past turns are replayed into the prompt,
// with 0 replaying none.
func NewEngine(sess *session.Session, provider llm.Provider, model string, retrievalK, historyWindow int, log zerolog.Logger) *Engine {
	return &Engine{
		sess:          sess,
		provider:      provider,
		model:         model,
		retrievalK:    retrievalK,
		historyWindow: historyWindow,
		log:           log,
	}
}

// Ask answers one question. Deltas stream through onDelta as they arrive;
// on success the completed turn is appended to the session history. A
// cancelled generation records nothing; a provider failure records the
// question for retry and leaves history untouched.
func (e *Engine) Ask(ctx context.Context, question string, onDelta func(delta string) error) (*Answer, error) {
	if e.sess.Index() == nil {
		return nil, ErrNoDocument
	}

	genCtx, cancel, genID := e.sess.BeginGeneration(ctx)
	defer e.sess.EndGeneration(genID, cancel)

	hits, err := e.sess.Query(genCtx, question, e.retrievalK)
	if err != nil {
		return nil, e.failTurn(question, fmt.Errorf("retrieve: %w", err))
	}

	messages := []llm.Message{{Role: llm.RoleSystem, Content: systemPrompt}}
	history := e.sess.History()
	switch {
	case e.historyWindow == 0:
		history = nil
	case len(history) > e.historyWindow:
		history = history[len(history)-e.historyWindow:]
	}
	for _, turn := range history {
		messages = append(messages,
			llm.Message{Role: llm.RoleUser, Content: turn.Question},
			llm.Message{Role: llm.RoleAssistant, Content: turn.Answer},
		)
	}
	messages = append(messages, llm.Message{
		Role:    llm.RoleUser,
		Content: questionPrompt(hits, e.sess.Summary(), question),
	})

	resp, err := e.provider.Stream(genCtx, llm.CompletionRequest{
		Model:    e.model,
		Messages: messages,
	}, onDelta)
	if err != nil {
		return nil, e.failTurn(question, err)
	}
	if resp.Content == "" {
		return nil, e.failTurn(question, fmt.Errorf("%w: empty response", errdefs.ErrGenerationFailed))
	}

	sources := make([]session.Source, len(hits))
	for i, h := range hits {
		sources[i] = session.Source{
			Seq:        h.Chunk.Seq,
			Page:       h.Chunk.Page,
			Similarity: h.Similarity,
		}
	}
	e.sess.AppendTurn(session.Turn{
		Question: question,
		Answer:   resp.Content,
		Sources:  sources,
	})

	e.log.Debug().Int("sources", len(sources)).Int("answer_chars", len(resp.Content)).
		Msg("turn completed")
	return &Answer{Text: resp.Content, Sources: sources}, nil
}

// failTurn records the question for retry unless the turn was cancelled,
// in which case nothing is kept.
func (e *Engine) failTurn(question string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	e.sess.SetLastFailed(question)
	e.log.Warn().Err(err).Msg("turn failed")
	return err
}

// Retry re-asks the most recent failed question, if any.
func (e *Engine) Retry(ctx context.Context, onDelta func(delta string) error) (*Answer, error) {
	question := e.sess.LastFailedQuestion()
	if question == "" {
		return nil, errors.New("no failed question to retry")
	}
	return e.Ask(ctx, question, onDelta)
}
