package embeddings

import (
	"context"
	"math"
	"testing"
)

func TestLocalEmbedderFitAndEmbed(t *testing.T) {
	e := NewLocalEmbedder()
	corpus := []string{
		"apple pie recipe with cinnamon",
		"car engine maintenance guide",
		"apple orchard harvest season",
	}
	if err := e.Fit(corpus); err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if e.Dimensions() == 0 {
		t.Fatal("Dimensions is zero after fit")
	}

	vecs, err := e.Embed(context.Background(), []string{"apple pie", "car engine"})
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(vecs) != 2 {
		t.Fatalf("got %d vectors, want 2", len(vecs))
	}
	for i, v := range vecs {
		if len(v) != e.Dimensions() {
			t.Errorf("vector %d has %d dims, want %d", i, len(v), e.Dimensions())
		}
	}

	// Related texts should be closer than unrelated ones.
	appleQuery := vecs[0]
	carQuery := vecs[1]
	docVecs, err := e.Embed(context.Background(), []string{corpus[0]})
	if err != nil {
		t.Fatalf("Embed corpus doc: %v", err)
	}
	if cosine(appleQuery, docVecs[0]) <= cosine(carQuery, docVecs[0]) {
		t.Error("apple query is not closer to apple document than car query")
	}
}

func TestLocalEmbedderNormalized(t *testing.T) {
	e := NewLocalEmbedder()
	if err := e.Fit([]string{"alpha beta gamma", "delta epsilon zeta"}); err != nil {
		t.Fatalf("Fit: %v", err)
	}
	vecs, err := e.Embed(context.Background(), []string{"alpha beta"})
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	var norm float64
	for _, v := range vecs[0] {
		norm += float64(v) * float64(v)
	}
	if math.Abs(math.Sqrt(norm)-1.0) > 1e-4 {
		t.Errorf("vector norm = %f, want 1.0", math.Sqrt(norm))
	}
}

func TestLocalEmbedderUnfitted(t *testing.T) {
	e := NewLocalEmbedder()
	if _, err := e.Embed(context.Background(), []string{"text"}); err == nil {
		t.Error("unfitted embedder accepted Embed")
	}
	if err := e.Fit(nil); err == nil {
		t.Error("empty corpus accepted")
	}
}

func TestLocalEmbedderUnknownTermsZeroVector(t *testing.T) {
	e := NewLocalEmbedder()
	if err := e.Fit([]string{"alpha beta", "gamma delta"}); err != nil {
		t.Fatalf("Fit: %v", err)
	}
	vecs, err := e.Embed(context.Background(), []string{"xylophone quark"})
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	for _, v := range vecs[0] {
		if v != 0 {
			t.Fatalf("expected zero vector for out-of-vocabulary text, got %v", vecs[0])
		}
	}
}

func TestToChromemFunc(t *testing.T) {
	e := NewLocalEmbedder()
	if err := e.Fit([]string{"hello world", "goodbye world"}); err != nil {
		t.Fatalf("Fit: %v", err)
	}
	fn := ToChromemFunc(e)
	vec, err := fn(context.Background(), "hello")
	if err != nil {
		t.Fatalf("embedding func: %v", err)
	}
	if len(vec) != e.Dimensions() {
		t.Errorf("got %d dims, want %d", len(vec), e.Dimensions())
	}
}

func cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
