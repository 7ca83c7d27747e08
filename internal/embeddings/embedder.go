// Package embeddings turns chunk text into dense vectors, either through a
// hosted embedding API or a local fitted fallback.
package embeddings

import "context"

// Embedder produces fixed-dimension vectors for a batch of texts. The
// returned slice is index-aligned with the input.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	Name() string
}
