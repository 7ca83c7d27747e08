// Package vectordb holds the in-memory chunk index for the active document,
// built on chromem-go with precomputed embeddings.
package vectordb

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"

	chromem "github.com/philippgille/chromem-go"

	"github.com/ziadkadry99/doc-chat/internal/chunker"
	"github.com/ziadkadry99/doc-chat/internal/embeddings"
	"github.com/ziadkadry99/doc-chat/internal/errdefs"
)

const collectionName = "document"

// embedBatchSize bounds one progress step, not one API call; the embedder
// does its own request batching.
const embedBatchSize = 64

// embedConcurrency caps in-flight embedding batches.
const embedConcurrency = 4

// Hit pairs a retrieved chunk with its similarity score.
type Hit struct {
	Chunk      chunker.Chunk
	Similarity float32
}

// Index is an immutable vector index over one document's chunks. Build a
// new one to replace it; queries on the old value remain valid.
type Index struct {
	db         *chromem.DB
	collection *chromem.Collection
	embedder   embeddings.Embedder
	chunks     []chunker.Chunk
}

// Build embeds all chunks and loads them into a fresh in-memory collection.
// Batches embed concurrently; each writes its vectors into index-addressed
// slots so chunk order never depends on completion order. onProgress, when
// non-nil, is called as batches complete with the cumulative number of
// chunks done and the total.
func Build(ctx context.Context, chunks []chunker.Chunk, embedder embeddings.Embedder, onProgress func(done, total int)) (*Index, error) {
	if len(chunks) == 0 {
		return nil, errdefs.ErrEmptyDocument
	}

	db := chromem.NewDB()
	col, err := db.GetOrCreateCollection(collectionName, nil, embeddings.ToChromemFunc(embedder))
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}

	vectors, err := embedAll(ctx, chunks, embedder, onProgress)
	if err != nil {
		return nil, err
	}

	docs := make([]chromem.Document, len(chunks))
	for i, c := range chunks {
		docs[i] = chromem.Document{
			ID:        strconv.Itoa(c.Seq),
			Content:   c.Text,
			Embedding: vectors[i],
			Metadata: map[string]string{
				"seq":    strconv.Itoa(c.Seq),
				"page":   strconv.Itoa(c.Page),
				"source": c.Source,
			},
		}
	}
	if err := col.AddDocuments(ctx, docs, 1); err != nil {
		return nil, fmt.Errorf("add documents: %w", err)
	}

	return &Index{
		db:         db,
		collection: col,
		embedder:   embedder,
		chunks:     chunks,
	}, nil
}

// embedAll embeds the chunk texts in concurrent batches. The first error
// cancels the remaining work and is returned; on success the result is
// index-aligned with chunks.
func embedAll(ctx context.Context, chunks []chunker.Chunk, embedder embeddings.Embedder, onProgress func(done, total int)) ([][]float32, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	vectors := make([][]float32, len(chunks))
	sem := make(chan struct{}, embedConcurrency)
	var (
		wg         sync.WaitGroup
		done       int64
		progressMu sync.Mutex
		errOnce    sync.Once
		firstErr   error
	)

	for start := 0; start < len(chunks); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}

		select {
		case <-ctx.Done():
			errOnce.Do(func() { firstErr = ctx.Err() })
		case sem <- struct{}{}:
			wg.Add(1)
			go func(start, end int) {
				defer wg.Done()
				defer func() { <-sem }()

				batch := chunks[start:end]
				texts := make([]string, len(batch))
				for i, c := range batch {
					texts[i] = c.Text
				}
				vecs, err := embedder.Embed(ctx, texts)
				if err == nil && len(vecs) != len(batch) {
					err = fmt.Errorf("embedder returned %d vectors, expected %d", len(vecs), len(batch))
				}
				if err != nil {
					errOnce.Do(func() {
						firstErr = err
						cancel()
					})
					return
				}
				copy(vectors[start:end], vecs)

				count := atomic.AddInt64(&done, int64(len(batch)))
				if onProgress != nil {
					// Callbacks are not required to be goroutine safe.
					progressMu.Lock()
					onProgress(int(count), len(chunks))
					progressMu.Unlock()
				}
			}(start, end)
		}
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return vectors, nil
}

// Query returns up to k chunks most similar to the question. Ties on
// similarity resolve toward the chunk appearing earlier in the document.
func (ix *Index) Query(ctx context.Context, question string, k int) ([]Hit, error) {
	if k <= 0 {
		return nil, fmt.Errorf("retrieval k must be positive, got %d", k)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	count := ix.collection.Count()
	if count == 0 {
		return nil, nil
	}
	// chromem-go rejects nResults above the collection size.
	if k > count {
		k = count
	}

	vectors, err := ix.embedder.Embed(ctx, []string{question})
	if err != nil {
		return nil, err
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("embedder returned %d vectors for one query", len(vectors))
	}

	results, err := ix.collection.QueryEmbedding(ctx, vectors[0], k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("chromem query: %w", err)
	}

	hits := make([]Hit, 0, len(results))
	for _, r := range results {
		seq, err := strconv.Atoi(r.Metadata["seq"])
		if err != nil || seq < 0 || seq >= len(ix.chunks) {
			return nil, fmt.Errorf("index corrupt: bad seq %q", r.Metadata["seq"])
		}
		hits = append(hits, Hit{Chunk: ix.chunks[seq], Similarity: r.Similarity})
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Similarity != hits[j].Similarity {
			return hits[i].Similarity > hits[j].Similarity
		}
		return hits[i].Chunk.Seq < hits[j].Chunk.Seq
	})
	return hits, nil
}

// Count returns the number of indexed chunks.
func (ix *Index) Count() int {
	return ix.collection.Count()
}

// Provider names the embedder the index was built with.
func (ix *Index) Provider() string {
	return ix.embedder.Name()
}
